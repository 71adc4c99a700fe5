package content

import (
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"git.home.luguber.info/inful/notenav/internal/foundation/errors"
	"git.home.luguber.info/inful/notenav/internal/nav"
)

// Discover scaffolds a sidebar section from the Markdown files of a content
// directory (relative to root). index.md comes first, the remaining pages
// follow in file name order. Labels are page titles, or the file name
// title-cased when a page has none. The section title defaults to the
// directory's index title or name.
func Discover(root, dir string, title string, collapsed bool) (nav.NavSection, error) {
	dir = strings.Trim(filepath.ToSlash(dir), "/")
	full := filepath.Join(root, filepath.FromSlash(dir))
	entries, err := os.ReadDir(full)
	if err != nil {
		if os.IsNotExist(err) {
			return nav.NavSection{}, errors.NotFoundError("content directory not found").
				WithContext("path", full).
				Build()
		}
		return nav.NavSection{}, errors.WrapError(err, errors.CategoryFileSystem, "failed to read content directory").
			WithContext("path", full).
			Build()
	}

	var names []string
	hasIndex := false
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".md") || strings.HasPrefix(name, ".") {
			continue
		}
		if name == indexFile {
			hasIndex = true
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)

	base := "/" + dir + "/"
	if dir == "" {
		base = "/"
	}

	var links []nav.NavLink
	if hasIndex {
		p, err := Inspect(filepath.Join(full, indexFile))
		if err != nil {
			return nav.NavSection{}, err
		}
		if title == "" {
			title = p.Title
		}
		links = append(links, nav.NewLink(labelFor(p, "Introduction"), base))
	}
	for _, name := range names {
		p, err := Inspect(filepath.Join(full, name))
		if err != nil {
			return nav.NavSection{}, err
		}
		stem := strings.TrimSuffix(name, ".md")
		links = append(links, nav.NewLink(labelFor(p, Humanize(stem)), path.Join(base, stem)))
	}

	if title == "" && dir != "" {
		title = Humanize(path.Base(dir))
	} else if title == "" {
		title = "Home"
	}
	return nav.NewSection(title, collapsed, links...), nil
}

func labelFor(p Page, fallback string) string {
	if p.Title != "" {
		return p.Title
	}
	return fallback
}

// Humanize turns a file or directory name into a label:
// "core-python" -> "Core Python", "data_structures" -> "Data Structures".
func Humanize(name string) string {
	name = strings.NewReplacer("-", " ", "_", " ").Replace(name)
	// A Caser is stateful; one per call keeps Humanize goroutine-safe.
	return cases.Title(language.English).String(strings.Join(strings.Fields(name), " "))
}
