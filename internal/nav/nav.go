// Package nav holds the navigation model of the notes site: top navigation
// links, a sidebar of ordered collapsible sections and social links.
//
// Values are built once from author-time literals (or the config file) and
// never mutated afterwards. Constructors copy their inputs and accessors
// return copies, so a SiteNavigation can be shared freely between the
// renderers and the preview server.
package nav

import (
	"net/url"
	"slices"
	"strings"
)

// NavLink is a single clickable entry: a label and an internal content path
// or external URL.
type NavLink struct {
	Label  string
	Target string
}

// NewLink returns a NavLink. No validation happens here; see Check.
func NewLink(label, target string) NavLink {
	return NavLink{Label: label, Target: target}
}

// IsExternal reports whether the target is an absolute URL rather than a
// content path.
func (l NavLink) IsExternal() bool {
	u, err := url.Parse(l.Target)
	if err != nil {
		return false
	}
	return u.Scheme != "" && u.Host != ""
}

// NavSection is a named, collapsible sidebar group.
type NavSection struct {
	Title     string
	Collapsed bool
	entries   []NavLink
}

// NewSection copies links in the given order.
func NewSection(title string, collapsed bool, links ...NavLink) NavSection {
	return NavSection{Title: title, Collapsed: collapsed, entries: slices.Clone(links)}
}

// Entries returns the section's links in display order.
func (s NavSection) Entries() []NavLink { return slices.Clone(s.entries) }

// Len returns the number of links in the section.
func (s NavSection) Len() int { return len(s.entries) }

// SiteNavigation is the root navigation structure.
type SiteNavigation struct {
	topNav      []NavLink
	sidebar     []NavSection
	socialLinks []NavLink
}

// New builds a SiteNavigation. Sections are deep-copied.
func New(top []NavLink, sidebar []NavSection, social []NavLink) SiteNavigation {
	sections := make([]NavSection, len(sidebar))
	for i, s := range sidebar {
		sections[i] = NewSection(s.Title, s.Collapsed, s.entries...)
	}
	return SiteNavigation{
		topNav:      slices.Clone(top),
		sidebar:     sections,
		socialLinks: slices.Clone(social),
	}
}

// TopNav returns the top navigation links in display order.
func (n SiteNavigation) TopNav() []NavLink { return slices.Clone(n.topNav) }

// SocialLinks returns the social icon links in display order.
func (n SiteNavigation) SocialLinks() []NavLink { return slices.Clone(n.socialLinks) }

// Sidebar returns the sections in display order.
func (n SiteNavigation) Sidebar() []NavSection {
	out := make([]NavSection, len(n.sidebar))
	for i, s := range n.sidebar {
		out[i] = NewSection(s.Title, s.Collapsed, s.entries...)
	}
	return out
}

// Links returns every link in the structure: top nav, then sidebar entries
// section by section, then social links.
func (n SiteNavigation) Links() []NavLink {
	out := slices.Clone(n.topNav)
	for _, s := range n.sidebar {
		out = append(out, s.entries...)
	}
	return append(out, n.socialLinks...)
}

// Equal reports whether a and b describe the same navigation, order included.
func Equal(a, b SiteNavigation) bool {
	if !slices.Equal(a.topNav, b.topNav) || !slices.Equal(a.socialLinks, b.socialLinks) {
		return false
	}
	return slices.EqualFunc(a.sidebar, b.sidebar, func(x, y NavSection) bool {
		return x.Title == y.Title && x.Collapsed == y.Collapsed && slices.Equal(x.entries, y.entries)
	})
}

// Site combines the navigation with the site-level options the framework
// recognizes.
type Site struct {
	Title       string
	Description string
	Navigation  SiteNavigation
}

// Section returns the first sidebar section whose title matches,
// case-insensitively.
func (n SiteNavigation) Section(title string) (NavSection, bool) {
	for _, s := range n.sidebar {
		if strings.EqualFold(s.Title, title) {
			return NewSection(s.Title, s.Collapsed, s.entries...), true
		}
	}
	return NavSection{}, false
}
