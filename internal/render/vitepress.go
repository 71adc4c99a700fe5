// Package render turns the navigation model into the configuration files the
// site frameworks read: VitePress-style JSON and a Hugo menu fragment.
//
// Output is deterministic: identical input renders byte-identical output,
// in authoring order.
package render

import (
	"encoding/json"

	"git.home.luguber.info/inful/notenav/internal/foundation/errors"
	"git.home.luguber.info/inful/notenav/internal/nav"
)

// VitePressConfig mirrors the framework's site config object.
type VitePressConfig struct {
	Title       string      `json:"title"`
	Description string      `json:"description,omitempty"`
	ThemeConfig ThemeConfig `json:"themeConfig"`
}

// ThemeConfig holds nav, sidebar and socialLinks.
type ThemeConfig struct {
	Nav         []Link       `json:"nav"`
	Sidebar     []Section    `json:"sidebar"`
	SocialLinks []SocialLink `json:"socialLinks"`
}

type Link struct {
	Text string `json:"text"`
	Link string `json:"link"`
}

type Section struct {
	Text      string `json:"text"`
	Collapsed bool   `json:"collapsed"`
	Items     []Link `json:"items"`
}

type SocialLink struct {
	Icon string `json:"icon"`
	Link string `json:"link"`
}

// NewVitePressConfig maps a site onto the framework config shape.
func NewVitePressConfig(site nav.Site) VitePressConfig {
	n := site.Navigation
	cfg := VitePressConfig{
		Title:       site.Title,
		Description: site.Description,
		ThemeConfig: ThemeConfig{
			Nav:         links(n.TopNav()),
			Sidebar:     make([]Section, 0, len(n.Sidebar())),
			SocialLinks: make([]SocialLink, 0, len(n.SocialLinks())),
		},
	}
	for _, s := range n.Sidebar() {
		cfg.ThemeConfig.Sidebar = append(cfg.ThemeConfig.Sidebar, Section{
			Text:      s.Title,
			Collapsed: s.Collapsed,
			Items:     links(s.Entries()),
		})
	}
	for _, l := range n.SocialLinks() {
		cfg.ThemeConfig.SocialLinks = append(cfg.ThemeConfig.SocialLinks, SocialLink{Icon: l.Label, Link: l.Target})
	}
	return cfg
}

func links(in []nav.NavLink) []Link {
	out := make([]Link, 0, len(in))
	for _, l := range in {
		out = append(out, Link{Text: l.Label, Link: l.Target})
	}
	return out
}

// VitePress renders the site as indented JSON with a trailing newline.
func VitePress(site nav.Site) ([]byte, error) {
	data, err := json.MarshalIndent(NewVitePressConfig(site), "", "  ")
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryRender, "failed to marshal VitePress config").Build()
	}
	return append(data, '\n'), nil
}
