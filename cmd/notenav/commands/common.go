package commands

import (
	"io"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"
	"github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/notenav/internal/config"
	"git.home.luguber.info/inful/notenav/internal/foundation/errors"
	"git.home.luguber.info/inful/notenav/internal/logfields"
)

// Global is shared state handed to every command.
type Global struct {
	Logger *slog.Logger
	Stdout io.Writer
}

func (g *Global) out() io.Writer {
	if g.Stdout == nil {
		return os.Stdout
	}
	return g.Stdout
}

func (g *Global) logger() *slog.Logger {
	if g.Logger == nil {
		return slog.Default()
	}
	return g.Logger
}

// CLI definition and global flags.
type CLI struct {
	Config  string           `short:"c" help:"Configuration file path" default:"notenav.yaml"`
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Build    BuildCmd    `cmd:"" help:"Render the navigation into framework configuration files"`
	Check    CheckCmd    `cmd:"" help:"Lint the navigation and verify every target resolves"`
	Discover DiscoverCmd `cmd:"" help:"Scaffold a sidebar section from a content directory"`
	Serve    ServeCmd    `cmd:"" help:"Preview the notes with navigation and diagram zoom"`
	Init     InitCmd     `cmd:"" help:"Write an example configuration file"`
}

// AfterApply runs after flag parsing and sets up logging once. The level
// is refined when the configuration is loaded.
func (c *CLI) AfterApply() error {
	slog.SetDefault(config.LoggingConfig{}.NewLogger(c.Verbose))
	return nil
}

// loadConfig reads the configuration file. A missing file at the default
// path is not an error: the built-in defaults and navigation are used.
func (c *CLI) loadConfig(g *Global) (*config.Config, error) {
	cfg, err := config.Load(c.Config)
	if err != nil {
		if c.Config == config.DefaultPath && errors.HasCategory(err, errors.CategoryConfig) {
			if _, statErr := os.Stat(c.Config); os.IsNotExist(statErr) {
				g.logger().Debug("No configuration file, using defaults", logfields.File(c.Config))
				return config.Default(), nil
			}
		}
		return nil, err
	}

	logger := cfg.Logging.NewLogger(c.Verbose)
	slog.SetDefault(logger)
	g.Logger = logger
	return cfg, nil
}

// writeMetrics dumps the registry in the Prometheus text format for a
// node_exporter textfile collector. Failures are logged, never fatal.
func writeMetrics(g *Global, path string, reg *prometheus.Registry) {
	if path == "" {
		return
	}
	if err := prometheus.WriteToTextfile(path, reg); err != nil {
		g.logger().Warn("Failed to write metrics file", logfields.Path(path), logfields.Error(err))
	}
}

// contentRootExists reports a not_found error when the content root is missing.
func contentRootExists(cfg *config.Config) error {
	st, err := os.Stat(cfg.Content.Root)
	if err != nil || !st.IsDir() {
		return errors.NotFoundError("content root not found or not a directory").
			WithContext("path", cfg.Content.Root).
			Build()
	}
	return nil
}
