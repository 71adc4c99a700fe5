package config

import "git.home.luguber.info/inful/notenav/internal/nav"

// NavigationConfig declares the navigation in the config file using the same
// keys the site framework uses (text/link, collapsed, items, icon).
type NavigationConfig struct {
	Nav         []LinkConfig    `yaml:"nav"`
	Sidebar     []SectionConfig `yaml:"sidebar"`
	SocialLinks []SocialConfig  `yaml:"social_links,omitempty"`
}

// LinkConfig is one navigation link.
type LinkConfig struct {
	Text string `yaml:"text"`
	Link string `yaml:"link"`
}

// SectionConfig is one sidebar section.
type SectionConfig struct {
	Text      string       `yaml:"text"`
	Collapsed bool         `yaml:"collapsed"`
	Items     []LinkConfig `yaml:"items"`
}

// SocialConfig is one social icon link.
type SocialConfig struct {
	Icon string `yaml:"icon"`
	Link string `yaml:"link"`
}

// Build converts the declaration into the navigation model, keeping order.
func (c NavigationConfig) Build() nav.SiteNavigation {
	top := make([]nav.NavLink, 0, len(c.Nav))
	for _, l := range c.Nav {
		top = append(top, nav.NewLink(l.Text, l.Link))
	}
	sections := make([]nav.NavSection, 0, len(c.Sidebar))
	for _, s := range c.Sidebar {
		sections = append(sections, s.Build())
	}
	social := make([]nav.NavLink, 0, len(c.SocialLinks))
	for _, l := range c.SocialLinks {
		social = append(social, nav.NewLink(l.Icon, l.Link))
	}
	return nav.New(top, sections, social)
}

// Build converts a single section declaration.
func (s SectionConfig) Build() nav.NavSection {
	links := make([]nav.NavLink, 0, len(s.Items))
	for _, l := range s.Items {
		links = append(links, nav.NewLink(l.Text, l.Link))
	}
	return nav.NewSection(s.Text, s.Collapsed, links...)
}

// FromNavigation is the inverse of Build.
func FromNavigation(n nav.SiteNavigation) NavigationConfig {
	var out NavigationConfig
	for _, l := range n.TopNav() {
		out.Nav = append(out.Nav, LinkConfig{Text: l.Label, Link: l.Target})
	}
	for _, s := range n.Sidebar() {
		out.Sidebar = append(out.Sidebar, FromSection(s))
	}
	for _, l := range n.SocialLinks() {
		out.SocialLinks = append(out.SocialLinks, SocialConfig{Icon: l.Label, Link: l.Target})
	}
	return out
}

// FromSection converts one section to its declaration form.
func FromSection(s nav.NavSection) SectionConfig {
	sc := SectionConfig{Text: s.Title, Collapsed: s.Collapsed}
	for _, l := range s.Entries() {
		sc.Items = append(sc.Items, LinkConfig{Text: l.Label, Link: l.Target})
	}
	return sc
}
