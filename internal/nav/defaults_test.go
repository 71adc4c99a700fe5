package nav

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultShape(t *testing.T) {
	site := Default()
	assert.Equal(t, "Vite Notes", site.Title)
	assert.Equal(t, "A VitePress Site", site.Description)

	n := site.Navigation
	require.Len(t, n.TopNav(), 4)

	want := []struct {
		title string
		links int
	}{
		{"Core Java", 11},
		{"Python", 2},
		{"Data Structures", 3},
		{"Container", 2},
		{"AI / ML", 3},
		{"System Design", 3},
		{"German A1", 3},
	}
	side := n.Sidebar()
	require.Len(t, side, len(want))
	for i, w := range want {
		assert.Equal(t, w.title, side[i].Title)
		assert.Equal(t, w.links, side[i].Len(), w.title)
		assert.True(t, side[i].Collapsed, w.title)
	}

	social := n.SocialLinks()
	require.Len(t, social, 1)
	assert.Equal(t, "github", social[0].Label)
	assert.True(t, social[0].IsExternal())
}

func TestDefaultLabelsNonEmpty(t *testing.T) {
	for _, l := range Default().Navigation.Links() {
		assert.NotEmpty(t, strings.TrimSpace(l.Label), l.Target)
	}
}

func TestDefaultTopNavTargetsUnique(t *testing.T) {
	seen := map[string]bool{}
	for _, l := range Default().Navigation.TopNav() {
		assert.False(t, seen[l.Target], "duplicate %s", l.Target)
		seen[l.Target] = true
	}
}

func TestDefaultIsDeterministic(t *testing.T) {
	assert.True(t, Equal(Default().Navigation, Default().Navigation))
}

func TestDefaultPassesCheck(t *testing.T) {
	r := Check(Default().Navigation)
	assert.Empty(t, r.Issues)
	assert.NoError(t, r.Err())
}
