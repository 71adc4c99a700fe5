package config

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/notenav/internal/foundation/errors"
	"git.home.luguber.info/inful/notenav/internal/nav"
	"git.home.luguber.info/inful/notenav/internal/retry"
)

func TestParseAppliesDefaults(t *testing.T) {
	cfg, err := Parse([]byte("site:\n  title: My Notes\n"))
	require.NoError(t, err)

	assert.Equal(t, "My Notes", cfg.Site.Title)
	assert.Equal(t, DefaultDescription, cfg.Site.Description)
	assert.Equal(t, DefaultContentRoot, cfg.Content.Root)
	assert.Equal(t, DefaultExternalTimeout, cfg.Content.ExternalTimeout)
	assert.Equal(t, DefaultZoomSelector, cfg.Zoom.Selector)
	assert.Equal(t, DefaultZoomBackground, cfg.Zoom.Background)
	assert.True(t, cfg.Zoom.IsEnabled())
	assert.True(t, cfg.Serve.WatchEnabled())
	assert.Equal(t, DefaultServeAddr, cfg.Serve.Addr)
	assert.Equal(t, LogLevelInfo, cfg.Logging.Level)
	assert.Equal(t, LogFormatText, cfg.Logging.Format)
	assert.Nil(t, cfg.Navigation)
}

func TestParseDurationsAndFlags(t *testing.T) {
	cfg, err := Parse([]byte(`
content:
  root: notes
  check_external: true
  external_timeout: 2s
zoom:
  enabled: false
serve:
  addr: ":8080"
  watch: false
  check_interval: 10m
logging:
  level: WARNING
  format: json
`))
	require.NoError(t, err)
	assert.Equal(t, "notes", cfg.Content.Root)
	assert.True(t, cfg.Content.CheckExternal)
	assert.Equal(t, 2*time.Second, cfg.Content.ExternalTimeout)
	assert.False(t, cfg.Zoom.IsEnabled())
	assert.False(t, cfg.Serve.WatchEnabled())
	assert.Equal(t, 10*time.Minute, cfg.Serve.CheckInterval)
	assert.Equal(t, LogLevelWarn, cfg.Logging.Level)
	assert.Equal(t, LogFormatJSON, cfg.Logging.Format)
}

func TestParseExpandsEnv(t *testing.T) {
	t.Setenv("NOTES_ROOT", "/srv/notes")
	cfg, err := Parse([]byte("content:\n  root: ${NOTES_ROOT}\n"))
	require.NoError(t, err)
	assert.Equal(t, "/srv/notes", cfg.Content.Root)
}

func TestParseRejectsBadAddr(t *testing.T) {
	_, err := Parse([]byte("serve:\n  addr: nope\n"))
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryConfig))
}

func TestParseRejectsBadYAML(t *testing.T) {
	_, err := Parse([]byte("site: [unterminated"))
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryConfig))
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryConfig))
}

func TestSiteUsesBuiltInNavigationByDefault(t *testing.T) {
	site := Default().NavSite()
	assert.Equal(t, DefaultTitle, site.Title)
	assert.True(t, nav.Equal(nav.Default().Navigation, site.Navigation))
}

func TestSiteUsesDeclaredNavigation(t *testing.T) {
	cfg, err := Parse([]byte(`
navigation:
  nav:
    - {text: Home, link: /}
  sidebar:
    - text: Core Java
      collapsed: true
      items:
        - {text: Introduction, link: /core-java/}
        - {text: Java OOP, link: /core-java/m3-java-oop}
    - text: Python
      collapsed: false
      items:
        - {text: Introduction, link: /python/}
  social_links:
    - {icon: github, link: "https://github.com/vuejs/vitepress"}
`))
	require.NoError(t, err)

	n := cfg.NavSite().Navigation
	side := n.Sidebar()
	require.Len(t, side, 2)
	assert.Equal(t, "Core Java", side[0].Title)
	assert.True(t, side[0].Collapsed)
	assert.Equal(t, "/core-java/m3-java-oop", side[0].Entries()[1].Target)
	assert.False(t, side[1].Collapsed)
	assert.Equal(t, "github", n.SocialLinks()[0].Label)
}

func TestInitRoundTrips(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultPath)
	require.NoError(t, Init(path, false))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.NotNil(t, cfg.Navigation)
	assert.True(t, nav.Equal(nav.Default().Navigation, cfg.NavSite().Navigation))

	err = Init(path, false)
	require.Error(t, err, "existing file without --force")
	require.NoError(t, Init(path, true))
}

func TestSlogLevel(t *testing.T) {
	l := LoggingConfig{Level: LogLevelError}
	assert.Equal(t, "ERROR", l.SlogLevel(false).String())
	assert.Equal(t, "DEBUG", l.SlogLevel(true).String())

	t.Setenv(LogLevelEnv, "warn")
	assert.Equal(t, "WARN", l.SlogLevel(false).String())
}

func TestLoadEnvFileDoesNotOverride(t *testing.T) {
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	require.NoError(t, os.WriteFile(".env", []byte("NOTENAV_TEST_A=from-file\nNOTENAV_TEST_B=from-file\n"), 0o600))
	t.Setenv("NOTENAV_TEST_A", "from-env")
	t.Setenv("NOTENAV_TEST_B", "")
	require.NoError(t, os.Unsetenv("NOTENAV_TEST_B"))

	loadEnvFiles()
	assert.Equal(t, "from-env", os.Getenv("NOTENAV_TEST_A"))
	assert.Equal(t, "from-file", os.Getenv("NOTENAV_TEST_B"))
	_ = os.Unsetenv("NOTENAV_TEST_B")
}

func TestParseExternalRetry(t *testing.T) {
	cfg, err := Parse([]byte("content:\n  external_retries: 2\n  external_backoff: Linear\n"))
	require.NoError(t, err)
	assert.Equal(t, retry.ModeLinear, cfg.Content.ExternalBackoff)
	p := cfg.Content.RetryPolicy()
	assert.Equal(t, 2, p.MaxRetries)

	cfg, err = Parse([]byte("content:\n  external_backoff: sideways\n"))
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryConfig))
	assert.Nil(t, cfg)
}

func TestRetryPolicyDisabledByDefault(t *testing.T) {
	cfg, err := Parse(nil)
	require.NoError(t, err)
	assert.Equal(t, 0, cfg.Content.RetryPolicy().MaxRetries)
}

func TestLoadEnvFilesLogsFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("NOTENAV_ENV_FILE_VALUE=from-file\n"), 0o600))
	t.Chdir(dir)
	t.Cleanup(func() { _ = os.Unsetenv("NOTENAV_ENV_FILE_VALUE") })

	var logs bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug})))
	t.Cleanup(func() { slog.SetDefault(prev) })

	loadEnvFiles()
	assert.Equal(t, "from-file", os.Getenv("NOTENAV_ENV_FILE_VALUE"))
	assert.Contains(t, logs.String(), "file=.env")
}
