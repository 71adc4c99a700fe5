package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/notenav/internal/foundation/errors"
	"git.home.luguber.info/inful/notenav/internal/nav"
	"git.home.luguber.info/inful/notenav/internal/retry"
)

// DefaultPath is the configuration file used when -c is not given.
const DefaultPath = "notenav.yaml"

// Config is the notenav configuration file.
type Config struct {
	Site       SiteConfig        `yaml:"site"`
	Content    ContentConfig     `yaml:"content"`
	Navigation *NavigationConfig `yaml:"navigation,omitempty"` // nil means the built-in navigation
	Zoom       ZoomConfig        `yaml:"zoom"`
	Output     OutputConfig      `yaml:"output"`
	Serve      ServeConfig       `yaml:"serve"`
	Logging    LoggingConfig     `yaml:"logging"`
}

// SiteConfig holds the site-level options the framework recognizes.
type SiteConfig struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description,omitempty"`
	BaseURL     string `yaml:"base_url,omitempty"`
}

// ContentConfig locates the Markdown tree navigation targets point into.
type ContentConfig struct {
	Root            string        `yaml:"root"`
	CheckExternal   bool          `yaml:"check_external,omitempty"`
	ExternalTimeout time.Duration `yaml:"external_timeout,omitempty"`
	ExternalRetries int           `yaml:"external_retries,omitempty"`
	ExternalBackoff retry.Mode    `yaml:"external_backoff,omitempty"` // fixed, linear or exponential
}

// RetryPolicy is the backoff applied to external link probes.
func (c ContentConfig) RetryPolicy() retry.Policy {
	if c.ExternalRetries <= 0 {
		return retry.NoRetry()
	}
	return retry.NewPolicy(c.ExternalBackoff, 0, 0, c.ExternalRetries)
}

// ZoomConfig configures the diagram zoom hook.
type ZoomConfig struct {
	Enabled    *bool  `yaml:"enabled,omitempty"`
	Selector   string `yaml:"selector,omitempty"`
	Background string `yaml:"background,omitempty"`
}

// IsEnabled defaults to true when unset.
func (z ZoomConfig) IsEnabled() bool { return z.Enabled == nil || *z.Enabled }

// OutputConfig controls where build writes rendered framework config.
type OutputConfig struct {
	Directory string `yaml:"directory"`
	Clean     bool   `yaml:"clean,omitempty"`
}

// ServeConfig configures the preview server.
type ServeConfig struct {
	Addr          string        `yaml:"addr"`
	Watch         *bool         `yaml:"watch,omitempty"`
	CheckInterval time.Duration `yaml:"check_interval,omitempty"` // 0 disables scheduled verification
	Debounce      time.Duration `yaml:"debounce,omitempty"`
}

// WatchEnabled defaults to true when unset.
func (s ServeConfig) WatchEnabled() bool { return s.Watch == nil || *s.Watch }

// LoggingConfig selects the slog level and handler.
type LoggingConfig struct {
	Level  LogLevel  `yaml:"level,omitempty"`
	Format LogFormat `yaml:"format,omitempty"`
}

// Load reads, expands, defaults and validates the configuration at path.
func Load(path string) (*Config, error) {
	loadEnvFiles()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.ConfigError("configuration file not found").WithContext("path", path).Build()
		}
		return nil, errors.WrapError(err, errors.CategoryConfig, "failed to read config file").WithContext("path", path).Build()
	}
	return Parse(data)
}

// Parse decodes configuration YAML. ${VAR} references are expanded first.
func Parse(data []byte) (*Config, error) {
	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, errors.WrapError(err, errors.CategoryConfig, "failed to unmarshal config").Fatal().Build()
	}
	applyDefaults(&cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default returns a configuration with every default applied and the
// built-in navigation.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

// NavSite builds the navigation model described by the configuration.
func (c *Config) NavSite() nav.Site {
	site := nav.Site{
		Title:       c.Site.Title,
		Description: c.Site.Description,
		Navigation:  nav.Default().Navigation,
	}
	if c.Navigation != nil {
		site.Navigation = c.Navigation.Build()
	}
	return site
}

// Init writes an example configuration seeded with the built-in navigation.
func Init(path string, force bool) error {
	if _, err := os.Stat(path); err == nil && !force {
		return errors.ConfigError("configuration file already exists (use --force to overwrite)").WithContext("path", path).Build()
	}

	cfg := Default()
	navCfg := FromNavigation(nav.Default().Navigation)
	cfg.Navigation = &navCfg

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return errors.WrapError(err, errors.CategoryInternal, "failed to marshal example config").Build()
	}
	header := "# notenav configuration. Values may reference ${ENV_VARS}.\n"
	if err := os.WriteFile(path, append([]byte(header), data...), 0o644); err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "failed to write config file").WithContext("path", path).Build()
	}
	return nil
}
