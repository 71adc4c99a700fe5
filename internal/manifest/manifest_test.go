package manifest

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/notenav/internal/foundation/errors"
	"git.home.luguber.info/inful/notenav/internal/nav"
)

func sample(t *testing.T) *BuildManifest {
	t.Helper()
	m := New(nav.Default(), time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC))
	m.Inputs.Commit = "abc123"
	m.Inputs.ContentHash = "content-hash"
	updated := time.Date(2025, 12, 24, 8, 0, 0, 0, time.UTC)
	m.Pages["/core-java/"] = Page{Path: "core-java/index.md", Fingerprint: "fp-1", LastUpdated: &updated}
	m.Pages["/python/"] = Page{Path: "python/index.md", Fingerprint: "fp-2"}
	m.Outputs.Files["vitepress.json"] = "h1"
	m.Finish(StatusSuccess, 1500*time.Millisecond)
	return m
}

func TestNew(t *testing.T) {
	m := sample(t)
	_, err := uuid.Parse(m.ID)
	require.NoError(t, err)
	assert.Equal(t, "Vite Notes", m.Inputs.SiteTitle)
	assert.Equal(t, 7, m.Inputs.Sections)
	assert.Equal(t, int64(1500), m.Duration)
	assert.Equal(t, StatusSuccess, m.Status)

	other := New(nav.Default(), time.Now())
	assert.NotEqual(t, m.ID, other.ID)
	assert.Equal(t, m.Inputs.NavHash, other.Inputs.NavHash)
}

func TestJSONRoundTrip(t *testing.T) {
	m := sample(t)
	data, err := m.ToJSON()
	require.NoError(t, err)
	assert.Contains(t, string(data), `"duration_ms": 1500`)

	restored, err := FromJSON(data)
	require.NoError(t, err)
	assert.Equal(t, m.ID, restored.ID)
	assert.True(t, m.Timestamp.Equal(restored.Timestamp))
	assert.Equal(t, m.Pages["/python/"], restored.Pages["/python/"])
	assert.Equal(t, m.Outputs, restored.Outputs)

	_, err = FromJSON([]byte("{"))
	assert.True(t, errors.HasCategory(err, errors.CategoryValidation))
}

func TestHashIgnoresRunMetadata(t *testing.T) {
	a := sample(t)
	b := sample(t)
	b.Inputs.Commit = "def456"
	b.Inputs.Commits = 42
	b.Finish(StatusWarning, time.Second)

	ha, err := a.Hash()
	require.NoError(t, err)
	hb, err := b.Hash()
	require.NoError(t, err)
	assert.Equal(t, ha, hb)

	b.Pages["/python/"] = Page{Path: "python/index.md", Fingerprint: "fp-changed"}
	hc, err := b.Hash()
	require.NoError(t, err)
	assert.NotEqual(t, ha, hc)
}

func TestNavHash(t *testing.T) {
	site := nav.Default()
	assert.Equal(t, NavHash(site), NavHash(nav.Default()))

	site.Navigation = nav.New(site.Navigation.TopNav()[:1], nil, nil)
	assert.NotEqual(t, NavHash(nav.Default()), NavHash(site))
}
