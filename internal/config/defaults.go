package config

import (
	"time"

	"git.home.luguber.info/inful/notenav/internal/retry"
)

// Default values shared by the loader and the example config.
const (
	DefaultTitle           = "Vite Notes"
	DefaultDescription     = "A VitePress Site"
	DefaultContentRoot     = "docs"
	DefaultOutputDirectory = "./site-config"
	DefaultServeAddr       = "127.0.0.1:5173"
	DefaultZoomSelector    = ".mermaid svg"
	DefaultZoomBackground  = "rgba(0,0,0,0.8)"
	DefaultExternalTimeout = 5 * time.Second
	DefaultDebounce        = 500 * time.Millisecond
)

// defaultApplier applies defaults for one configuration domain.
type defaultApplier interface {
	Domain() string
	ApplyDefaults(cfg *Config)
}

type siteDefaults struct{}

func (siteDefaults) Domain() string { return "site" }
func (siteDefaults) ApplyDefaults(cfg *Config) {
	if cfg.Site.Title == "" {
		cfg.Site.Title = DefaultTitle
	}
	if cfg.Site.Description == "" {
		cfg.Site.Description = DefaultDescription
	}
}

type contentDefaults struct{}

func (contentDefaults) Domain() string { return "content" }
func (contentDefaults) ApplyDefaults(cfg *Config) {
	if cfg.Content.Root == "" {
		cfg.Content.Root = DefaultContentRoot
	}
	if cfg.Content.ExternalTimeout <= 0 {
		cfg.Content.ExternalTimeout = DefaultExternalTimeout
	}
	// Unknown modes are left as written for Validate to report.
	if m, err := retry.ParseMode(string(cfg.Content.ExternalBackoff)); err == nil {
		cfg.Content.ExternalBackoff = m
	}
}

type zoomDefaults struct{}

func (zoomDefaults) Domain() string { return "zoom" }
func (zoomDefaults) ApplyDefaults(cfg *Config) {
	if cfg.Zoom.Selector == "" {
		cfg.Zoom.Selector = DefaultZoomSelector
	}
	if cfg.Zoom.Background == "" {
		cfg.Zoom.Background = DefaultZoomBackground
	}
}

type outputDefaults struct{}

func (outputDefaults) Domain() string { return "output" }
func (outputDefaults) ApplyDefaults(cfg *Config) {
	if cfg.Output.Directory == "" {
		cfg.Output.Directory = DefaultOutputDirectory
	}
}

type serveDefaults struct{}

func (serveDefaults) Domain() string { return "serve" }
func (serveDefaults) ApplyDefaults(cfg *Config) {
	if cfg.Serve.Addr == "" {
		cfg.Serve.Addr = DefaultServeAddr
	}
	if cfg.Serve.Debounce <= 0 {
		cfg.Serve.Debounce = DefaultDebounce
	}
	if cfg.Serve.CheckInterval < 0 {
		cfg.Serve.CheckInterval = 0
	}
}

type loggingDefaults struct{}

func (loggingDefaults) Domain() string { return "logging" }
func (loggingDefaults) ApplyDefaults(cfg *Config) {
	cfg.Logging.Level = NormalizeLogLevel(string(cfg.Logging.Level))
	cfg.Logging.Format = NormalizeLogFormat(string(cfg.Logging.Format))
}

var appliers = []defaultApplier{
	siteDefaults{},
	contentDefaults{},
	zoomDefaults{},
	outputDefaults{},
	serveDefaults{},
	loggingDefaults{},
}

func applyDefaults(cfg *Config) {
	for _, a := range appliers {
		a.ApplyDefaults(cfg)
	}
}
