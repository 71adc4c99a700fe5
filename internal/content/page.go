package content

import (
	"os"

	"git.home.luguber.info/inful/notenav/internal/foundation/errors"
	"git.home.luguber.info/inful/notenav/internal/frontmatter"
	"git.home.luguber.info/inful/notenav/internal/markdown"
)

// Page is what the tool knows about one Markdown file.
type Page struct {
	Path           string
	Title          string
	HasFrontmatter bool
	Fields         map[string]any
	Body           []byte
	Fingerprint    string
	Links          int
}

// Inspect reads a Markdown file and extracts its title, fingerprint and
// link count. The title comes from the frontmatter `title` field, falling
// back to the first level-one heading, then to any heading.
func Inspect(path string) (Page, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Page{}, errors.WrapError(err, errors.CategoryFileSystem, "failed to read page").
			WithContext("path", path).
			Build()
	}
	return inspectBytes(path, data)
}

func inspectBytes(path string, data []byte) (Page, error) {
	fm, body, had, err := frontmatter.Split(data)
	if err != nil {
		return Page{}, errors.WrapError(err, errors.CategoryContent, "invalid frontmatter").
			WithContext("path", path).
			Build()
	}
	fields, err := frontmatter.Parse(fm)
	if err != nil {
		return Page{}, errors.WrapError(err, errors.CategoryContent, "failed to parse frontmatter").
			WithContext("path", path).
			Build()
	}

	fp, err := Fingerprint(fields, body)
	if err != nil {
		return Page{}, errors.WrapError(err, errors.CategoryContent, "failed to fingerprint page").
			WithContext("path", path).
			Build()
	}

	p := Page{
		Path:           path,
		HasFrontmatter: had,
		Fields:         fields,
		Body:           body,
		Fingerprint:    fp,
		Links:          len(markdown.ExtractLinks(body)),
	}
	if title, ok := frontmatter.String(fields, "title"); ok {
		p.Title = title
	} else if title, ok := markdown.FirstHeading(body, 1); ok {
		p.Title = title
	} else if title, ok := markdown.FirstHeading(body, 0); ok {
		p.Title = title
	}
	return p, nil
}
