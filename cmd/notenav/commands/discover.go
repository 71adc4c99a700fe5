package commands

import (
	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/notenav/internal/config"
	"git.home.luguber.info/inful/notenav/internal/content"
	"git.home.luguber.info/inful/notenav/internal/foundation/errors"
	"git.home.luguber.info/inful/notenav/internal/logfields"
)

// DiscoverCmd implements the 'discover' command.
type DiscoverCmd struct {
	Dir       string `arg:"" help:"Content directory, relative to content.root"`
	Title     string `help:"Section title (defaults to the index page title)"`
	Collapsed bool   `help:"Mark the section collapsed"`
}

func (d *DiscoverCmd) Run(g *Global, root *CLI) error {
	cfg, err := root.loadConfig(g)
	if err != nil {
		return err
	}
	return RunDiscover(g, cfg, d.Dir, d.Title, d.Collapsed)
}

// RunDiscover prints a sidebar snippet for dir, ready to paste into the
// navigation section of the configuration.
func RunDiscover(g *Global, cfg *config.Config, dir, title string, collapsed bool) error {
	section, err := content.Discover(cfg.Content.Root, dir, title, collapsed)
	if err != nil {
		return err
	}
	if existing, ok := cfg.NavSite().Navigation.Section(section.Title); ok {
		g.logger().Warn("Section already in navigation",
			logfields.Section(existing.Title),
			logfields.Count(existing.Len()))
	}
	snippet := map[string][]config.SectionConfig{"sidebar": {config.FromSection(section)}}

	enc := yaml.NewEncoder(g.out())
	enc.SetIndent(2)
	if err := enc.Encode(snippet); err != nil {
		return errors.WrapError(err, errors.CategoryInternal, "failed to encode section").Build()
	}
	return enc.Close()
}
