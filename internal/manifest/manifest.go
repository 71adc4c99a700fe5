// Package manifest records what a build consumed and produced, so two builds
// can be compared and a stale output directory detected.
package manifest

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"git.home.luguber.info/inful/notenav/internal/foundation/errors"
	"git.home.luguber.info/inful/notenav/internal/nav"
)

// File is the manifest's name inside the output directory.
const File = "manifest.json"

// Build status values.
const (
	StatusSuccess = "success"
	StatusWarning = "warning"
	StatusFailed  = "failed"
)

// BuildManifest is a complete record of a build's inputs and outputs.
type BuildManifest struct {
	ID        string          `json:"id"`
	Timestamp time.Time       `json:"timestamp"`
	Inputs    Inputs          `json:"inputs"`
	Pages     map[string]Page `json:"pages,omitempty"`
	Outputs   Outputs         `json:"outputs"`
	Status    string          `json:"status"`
	Duration  int64           `json:"duration_ms"`
	Warnings  int             `json:"warnings,omitempty"`
}

// Inputs captures everything the rendered output depends on.
type Inputs struct {
	SiteTitle   string `json:"site_title"`
	Sections    int    `json:"sections"`
	Links       int    `json:"links"`
	NavHash     string `json:"nav_hash"`
	ContentHash string `json:"content_hash,omitempty"`
	Commit      string `json:"commit,omitempty"`
	Commits     int    `json:"commits,omitempty"`
}

// Page is one navigation target resolved to a content file.
type Page struct {
	Path        string     `json:"path"`
	Fingerprint string     `json:"fingerprint"`
	LastUpdated *time.Time `json:"last_updated,omitempty"`
}

// Outputs maps each written file name to its sha256.
type Outputs struct {
	Files map[string]string `json:"files"`
}

// New starts a manifest for site with a fresh build ID.
func New(site nav.Site, now time.Time) *BuildManifest {
	n := site.Navigation
	return &BuildManifest{
		ID:        uuid.NewString(),
		Timestamp: now.UTC(),
		Inputs: Inputs{
			SiteTitle: site.Title,
			Sections:  len(n.Sidebar()),
			Links:     len(n.Links()),
			NavHash:   NavHash(site),
		},
		Pages:   map[string]Page{},
		Outputs: Outputs{Files: map[string]string{}},
		Status:  StatusSuccess,
	}
}

// Finish records status and duration.
func (m *BuildManifest) Finish(status string, d time.Duration) {
	m.Status = status
	m.Duration = d.Milliseconds()
}

// ToJSON serializes the manifest to indented JSON.
func (m *BuildManifest) ToJSON() ([]byte, error) {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryInternal, "failed to marshal manifest").Build()
	}
	return append(data, '\n'), nil
}

// FromJSON deserializes a manifest from JSON.
func FromJSON(data []byte) (*BuildManifest, error) {
	var m BuildManifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, errors.WrapError(err, errors.CategoryValidation, "failed to parse manifest").Build()
	}
	return &m, nil
}

// Hash computes a deterministic hash of the manifest's inputs and page
// fingerprints. Builds with equal hashes produce equal outputs, whatever
// their ID, timestamp or duration.
func (m *BuildManifest) Hash() (string, error) {
	targets := make([]string, 0, len(m.Pages))
	for t := range m.Pages {
		targets = append(targets, t)
	}
	sort.Strings(targets)

	type pageHash struct {
		Target      string `json:"target"`
		Fingerprint string `json:"fingerprint"`
	}
	pages := make([]pageHash, 0, len(targets))
	for _, t := range targets {
		pages = append(pages, pageHash{Target: t, Fingerprint: m.Pages[t].Fingerprint})
	}

	hashInput := struct {
		Inputs Inputs     `json:"inputs"`
		Pages  []pageHash `json:"pages"`
	}{
		Inputs: m.Inputs,
		Pages:  pages,
	}
	// History changes with every unrelated edit; content is covered by
	// ContentHash and the page fingerprints.
	hashInput.Inputs.Commit = ""
	hashInput.Inputs.Commits = 0

	data, err := json.Marshal(hashInput)
	if err != nil {
		return "", fmt.Errorf("marshal for hash: %w", err)
	}
	return fmt.Sprintf("%x", sha256.Sum256(data)), nil
}

// NavHash hashes the navigation structure in display order.
func NavHash(site nav.Site) string {
	h := sha256.New()
	fmt.Fprintf(h, "title=%s\ndescription=%s\n", site.Title, site.Description)
	n := site.Navigation
	for _, l := range n.TopNav() {
		fmt.Fprintf(h, "nav %q %q\n", l.Label, l.Target)
	}
	for _, s := range n.Sidebar() {
		fmt.Fprintf(h, "section %q %t\n", s.Title, s.Collapsed)
		for _, l := range s.Entries() {
			fmt.Fprintf(h, "  %q %q\n", l.Label, l.Target)
		}
	}
	for _, l := range n.SocialLinks() {
		fmt.Fprintf(h, "social %q %q\n", l.Label, l.Target)
	}
	return fmt.Sprintf("%x", h.Sum(nil))
}
