package gitinfo

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/notenav/internal/foundation/errors"
)

func commitFile(t *testing.T, repo *git.Repository, root, name, body string, when time.Time) string {
	t.Helper()
	full := filepath.Join(root, filepath.FromSlash(name))
	require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o750))
	require.NoError(t, os.WriteFile(full, []byte(body), 0o600))

	w, err := repo.Worktree()
	require.NoError(t, err)
	_, err = w.Add(name)
	require.NoError(t, err)
	hash, err := w.Commit("update "+name, &git.CommitOptions{
		Author: &object.Signature{Name: "Test User", Email: "test@example.com", When: when},
	})
	require.NoError(t, err)
	return hash.String()
}

func TestLastUpdatedAndHead(t *testing.T) {
	root := t.TempDir()
	repo, err := git.PlainInit(root, false)
	require.NoError(t, err)

	t1 := time.Date(2026, 1, 2, 10, 0, 0, 0, time.UTC)
	t2 := time.Date(2026, 3, 4, 10, 0, 0, 0, time.UTC)
	commitFile(t, repo, root, "docs/core-java/index.md", "# Core Java\n", t1)
	head := commitFile(t, repo, root, "docs/python/index.md", "# Python\n", t2)

	// Opening a subdirectory walks up to the repository.
	r, err := Open(filepath.Join(root, "docs"))
	require.NoError(t, err)
	assert.Equal(t, head, r.Head())
	assert.Equal(t, 2, r.Commits())

	assert.True(t, r.LastUpdated(filepath.Join(root, "docs/core-java/index.md")).Equal(t1))
	assert.True(t, r.LastUpdated(filepath.Join(root, "docs/python/index.md")).Equal(t2))
	assert.True(t, r.LastUpdated(filepath.Join(root, "docs/untracked.md")).IsZero())
	assert.True(t, r.LastUpdated(filepath.Join(t.TempDir(), "outside.md")).IsZero())
}

func TestOpenOutsideRepository(t *testing.T) {
	r, err := Open(t.TempDir())
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryGit))
	assert.Equal(t, errors.SeverityWarning, errors.GetSeverity(err))

	// A nil Repo degrades to zero values.
	assert.Nil(t, r)
	assert.Empty(t, r.Head())
	assert.Empty(t, r.Root())
	assert.Zero(t, r.Commits())
	assert.True(t, r.LastUpdated("docs/index.md").IsZero())
}

func TestWorkdirHash(t *testing.T) {
	dir := t.TempDir()
	write := func(name, body string) {
		full := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o750))
		require.NoError(t, os.WriteFile(full, []byte(body), 0o600))
	}
	write("a/index.md", "# A\n")
	write("b.md", "# B\n")

	h1, err := WorkdirHash(dir)
	require.NoError(t, err)
	h2, err := WorkdirHash(dir)
	require.NoError(t, err)
	assert.Equal(t, h1, h2)

	write("notes.txt", "ignored")
	write(".vitepress/cache/x.md", "ignored")
	h3, err := WorkdirHash(dir)
	require.NoError(t, err)
	assert.Equal(t, h1, h3)

	write("b.md", "# B changed\n")
	h4, err := WorkdirHash(dir)
	require.NoError(t, err)
	assert.NotEqual(t, h1, h4)
}
