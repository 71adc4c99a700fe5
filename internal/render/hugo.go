package render

import (
	"fmt"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/notenav/internal/foundation/errors"
	"git.home.luguber.info/inful/notenav/internal/nav"
)

// weightStep spaces menu weights so entries can be inserted by hand later.
const weightStep = 10

// MenuEntry is a Hugo menu item.
type MenuEntry struct {
	Name       string         `yaml:"name"`
	URL        string         `yaml:"url,omitempty"`
	Identifier string         `yaml:"identifier,omitempty"`
	Parent     string         `yaml:"parent,omitempty"`
	Weight     int            `yaml:"weight"`
	Params     map[string]any `yaml:"params,omitempty"`
}

// HugoConfig is the fragment written to hugo-menus.yaml.
type HugoConfig struct {
	Title  string                 `yaml:"title"`
	Params HugoParams             `yaml:"params"`
	Menu   map[string][]MenuEntry `yaml:"menu"`
}

type HugoParams struct {
	Description string       `yaml:"description,omitempty"`
	Social      []SocialLink `yaml:"social,omitempty"`
}

var nonIdent = regexp.MustCompile(`[^a-z0-9]+`)

// sectionIdentifier derives a stable menu identifier from a section title.
// The index suffix keeps identifiers unique when titles repeat.
func sectionIdentifier(idx int, title string) string {
	slug := strings.Trim(nonIdent.ReplaceAllString(strings.ToLower(title), "-"), "-")
	if slug == "" {
		slug = "section"
	}
	return fmt.Sprintf("%s-%d", slug, idx)
}

// NewHugoConfig maps a site onto Hugo menus. The top navigation becomes the
// "main" menu; each sidebar section becomes a parent entry in "sidebar" with
// its links as children.
func NewHugoConfig(site nav.Site) HugoConfig {
	n := site.Navigation
	cfg := HugoConfig{
		Title:  site.Title,
		Params: HugoParams{Description: site.Description},
		Menu:   map[string][]MenuEntry{},
	}
	for i, l := range n.TopNav() {
		cfg.Menu["main"] = append(cfg.Menu["main"], MenuEntry{Name: l.Label, URL: l.Target, Weight: (i + 1) * weightStep})
	}
	for si, s := range n.Sidebar() {
		id := sectionIdentifier(si, s.Title)
		cfg.Menu["sidebar"] = append(cfg.Menu["sidebar"], MenuEntry{
			Name:       s.Title,
			Identifier: id,
			Weight:     (si + 1) * weightStep,
			Params:     map[string]any{"collapsed": s.Collapsed},
		})
		for i, l := range s.Entries() {
			cfg.Menu["sidebar"] = append(cfg.Menu["sidebar"], MenuEntry{
				Name:   l.Label,
				URL:    l.Target,
				Parent: id,
				Weight: (i + 1) * weightStep,
			})
		}
	}
	for _, l := range n.SocialLinks() {
		cfg.Params.Social = append(cfg.Params.Social, SocialLink{Icon: l.Label, Link: l.Target})
	}
	return cfg
}

// HugoMenus renders the Hugo fragment as YAML.
func HugoMenus(site nav.Site) ([]byte, error) {
	data, err := yaml.Marshal(NewHugoConfig(site))
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryRender, "failed to marshal Hugo menus").Build()
	}
	return data, nil
}
