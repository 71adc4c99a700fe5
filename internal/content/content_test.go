package content

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/notenav/internal/foundation/errors"
	"git.home.luguber.info/inful/notenav/internal/nav"
	"git.home.luguber.info/inful/notenav/internal/retry"
)

func writeFiles(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for name, body := range files {
		full := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o750))
		require.NoError(t, os.WriteFile(full, []byte(body), 0o600))
	}
	return root
}

func TestResolve(t *testing.T) {
	root := writeFiles(t, map[string]string{
		"index.md":                 "# Home\n",
		"core-java/index.md":       "# Core Java\n",
		"core-java/m3-java-oop.md": "# OOP\n",
		"container/docker.md":      "# Docker\n",
		"python/basics.md":         "# Basics\n",
	})

	cases := map[string]string{
		"/":                           "index.md",
		"/core-java/":                 "core-java/index.md",
		"/core-java/m3-java-oop":      "core-java/m3-java-oop.md",
		"/container/docker.md":        "container/docker.md",
		"/python/basics.html":         "python/basics.md",
		"/core-java/m3-java-oop#ctor": "core-java/m3-java-oop.md",
		"/../core-java/":              "core-java/index.md",
	}
	for target, want := range cases {
		t.Run(target, func(t *testing.T) {
			got, err := Resolve(root, target)
			require.NoError(t, err)
			assert.Equal(t, filepath.Join(root, filepath.FromSlash(want)), got)
		})
	}
}

func TestResolveErrors(t *testing.T) {
	root := writeFiles(t, map[string]string{"core-java/index.md": "# x\n"})

	_, err := Resolve(root, "/python/")
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryNotFound))
	ce, ok := errors.AsClassified(err)
	require.True(t, ok)
	target, _ := ce.Context().GetString("target")
	assert.Equal(t, "/python/", target)

	// A directory without trailing slash looks for core-java.md.
	_, err = Resolve(root, "/core-java")
	assert.True(t, errors.HasCategory(err, errors.CategoryNotFound))

	_, err = Resolve(root, "core-java/")
	assert.True(t, errors.HasCategory(err, errors.CategoryValidation))
}

func TestInspect(t *testing.T) {
	root := writeFiles(t, map[string]string{
		"a.md": "---\ntitle: Core Python\n---\n# Ignored\n\nSee [docs](/python/) and <https://python.org>.\n",
		"b.md": "intro\n\n## Sub\n\n# Leet Code\n",
		"c.md": "no title\n",
	})

	a, err := Inspect(filepath.Join(root, "a.md"))
	require.NoError(t, err)
	assert.Equal(t, "Core Python", a.Title)
	assert.True(t, a.HasFrontmatter)
	assert.Equal(t, 2, a.Links)
	assert.NotEmpty(t, a.Fingerprint)

	b, err := Inspect(filepath.Join(root, "b.md"))
	require.NoError(t, err)
	assert.Equal(t, "Leet Code", b.Title)
	assert.False(t, b.HasFrontmatter)

	c, err := Inspect(filepath.Join(root, "c.md"))
	require.NoError(t, err)
	assert.Empty(t, c.Title)

	_, err = Inspect(filepath.Join(root, "missing.md"))
	assert.True(t, errors.HasCategory(err, errors.CategoryFileSystem))
}

func TestInspectInvalidFrontmatter(t *testing.T) {
	root := writeFiles(t, map[string]string{"bad.md": "---\ntitle: x\n"})
	_, err := Inspect(filepath.Join(root, "bad.md"))
	assert.True(t, errors.HasCategory(err, errors.CategoryContent))
}

func TestFingerprintIgnoresVolatileFields(t *testing.T) {
	body := []byte("# Docker\n")
	a, err := Fingerprint(map[string]any{"title": "Docker"}, body)
	require.NoError(t, err)
	b, err := Fingerprint(map[string]any{"title": "Docker", "lastmod": "2026-01-01", "uid": "x"}, body)
	require.NoError(t, err)
	assert.Equal(t, a, b)

	c, err := Fingerprint(map[string]any{"title": "Kubernetes"}, body)
	require.NoError(t, err)
	assert.NotEqual(t, a, c)
}

func TestVerify(t *testing.T) {
	root := writeFiles(t, map[string]string{
		"core-java/index.md": "# Core Java\n",
		"python/index.md":    "# Python\n",
	})
	n := nav.New(
		[]nav.NavLink{nav.NewLink("Core Java", "/core-java/"), nav.NewLink("Missing", "/missing/")},
		[]nav.NavSection{nav.NewSection("Python", true,
			nav.NewLink("Intro", "/python/"),
			nav.NewLink("Core", "/python/core-python"),
		)},
		[]nav.NavLink{nav.NewLink("github", "https://github.com/vuejs/vitepress")},
	)

	r := Verify(context.Background(), root, n, VerifyOptions{})
	require.Len(t, r.Issues, 2)
	assert.Equal(t, "/missing/", r.Issues[0].Target)
	assert.Equal(t, "nav", r.Issues[0].Area)
	assert.Equal(t, "/python/core-python", r.Issues[1].Target)
	assert.Equal(t, "Python", r.Issues[1].Section)
	assert.Equal(t, 1, r.Issues[1].Index)
	assert.Equal(t, 2, r.Errors())
}

func TestVerifyExternal(t *testing.T) {
	var heads atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodHead, r.Method)
		heads.Add(1)
		if strings.HasPrefix(r.URL.Path, "/gone") {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	n := nav.New(nil, nil, []nav.NavLink{
		nav.NewLink("ok", srv.URL+"/ok"),
		nav.NewLink("gone", srv.URL+"/gone"),
		nav.NewLink("again", srv.URL+"/gone"),
	})

	r := Verify(context.Background(), t.TempDir(), n, VerifyOptions{External: true, Client: srv.Client()})
	require.Len(t, r.Issues, 2)
	for _, i := range r.Issues {
		assert.Equal(t, nav.SeverityWarning, i.Severity)
		assert.Contains(t, i.Message, "HTTP 404")
	}
	assert.Equal(t, int32(2), heads.Load())
	assert.False(t, r.HasErrors())

	skipped := Verify(context.Background(), t.TempDir(), n, VerifyOptions{})
	assert.Empty(t, skipped.Issues)
}

func TestDiscover(t *testing.T) {
	root := writeFiles(t, map[string]string{
		"container/index.md":          "---\ntitle: Containers\n---\n",
		"container/kubernetes.md":     "# Kubernetes\n",
		"container/docker-compose.md": "no heading\n",
		"container/notes.txt":         "skip",
		"container/sub/deep.md":       "# Deep\n",
	})

	s, err := Discover(root, "container", "", true)
	require.NoError(t, err)
	assert.Equal(t, "Containers", s.Title)
	assert.True(t, s.Collapsed)
	assert.Equal(t, []nav.NavLink{
		{Label: "Containers", Target: "/container/"},
		{Label: "Docker Compose", Target: "/container/docker-compose"},
		{Label: "Kubernetes", Target: "/container/kubernetes"},
	}, s.Entries())

	named, err := Discover(root, "/container/", "Container", false)
	require.NoError(t, err)
	assert.Equal(t, "Container", named.Title)
	assert.False(t, named.Collapsed)

	_, err = Discover(root, "nope", "", false)
	assert.True(t, errors.HasCategory(err, errors.CategoryNotFound))
}

func TestHumanize(t *testing.T) {
	assert.Equal(t, "Core Python", Humanize("core-python"))
	assert.Equal(t, "Data Structures", Humanize("data_structures"))
	assert.Equal(t, "Leet Code", Humanize("leet--code"))
}

func TestVerifyExternalRetriesTransientFailures(t *testing.T) {
	var heads atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if heads.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	n := nav.New(nil, nil, []nav.NavLink{nav.NewLink("flaky", srv.URL)})
	r := Verify(context.Background(), t.TempDir(), n, VerifyOptions{
		External: true,
		Client:   srv.Client(),
		Retry:    retry.NewPolicy(retry.ModeFixed, time.Millisecond, time.Millisecond, 2),
	})
	assert.Empty(t, r.Issues)
	assert.Equal(t, int32(2), heads.Load())
}
