package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/notenav/internal/config"
	"git.home.luguber.info/inful/notenav/internal/content"
	"git.home.luguber.info/inful/notenav/internal/foundation/errors"
	"git.home.luguber.info/inful/notenav/internal/gitinfo"
	"git.home.luguber.info/inful/notenav/internal/logfields"
	"git.home.luguber.info/inful/notenav/internal/manifest"
	"git.home.luguber.info/inful/notenav/internal/metrics"
	"git.home.luguber.info/inful/notenav/internal/nav"
	"git.home.luguber.info/inful/notenav/internal/render"
)

// BuildCmd implements the 'build' command.
type BuildCmd struct {
	Output      string `short:"o" help:"Output directory (defaults to output.directory)"`
	MetricsFile string `name:"metrics-file" help:"Write Prometheus metrics in text format to this file"`
}

func (b *BuildCmd) Run(g *Global, root *CLI) error {
	cfg, err := root.loadConfig(g)
	if err != nil {
		return err
	}
	outDir := b.Output
	if outDir == "" {
		outDir = cfg.Output.Directory
	}

	reg := prometheus.NewRegistry()
	m, err := RunBuild(context.Background(), g, cfg, outDir, metrics.NewPrometheusRecorder(reg))
	writeMetrics(g, b.MetricsFile, reg)
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(g.out(), "Wrote %d files to %s (build %s, %s)\n", len(m.Outputs.Files)+1, outDir, m.ID, m.Status)
	return nil
}

// RunBuild renders the framework configuration into outDir and records a
// manifest next to it. Authoring issues never fail a build; they are logged
// and downgrade the status to warning.
func RunBuild(ctx context.Context, g *Global, cfg *config.Config, outDir string, rec metrics.Recorder) (*manifest.BuildManifest, error) {
	rec = metrics.OrNoop(rec)
	logger := g.logger()
	start := time.Now()
	site := cfg.NavSite()
	m := manifest.New(site, start)

	logger.Info("Starting build",
		logfields.BuildID(m.ID),
		logfields.Path(outDir),
		logfields.Count(m.Inputs.Links))

	if cfg.Output.Clean {
		if err := os.RemoveAll(outDir); err != nil {
			rec.IncBuildOutcome(metrics.OutcomeFailed)
			return nil, errors.WrapError(err, errors.CategoryFileSystem, "failed to clean output directory").
				WithContext("path", outDir).Build()
		}
	}

	report := nav.Check(site.Navigation)
	for _, i := range report.Issues {
		logger.Warn("Navigation issue", logfields.BuildID(m.ID), slog.String("issue", i.String()))
	}
	m.Warnings = len(report.Issues)

	if err := contentRootExists(cfg); err == nil {
		m.Warnings += recordPages(ctx, logger, m, cfg.Content.Root, site.Navigation)
		if hash, err := gitinfo.WorkdirHash(cfg.Content.Root); err == nil {
			m.Inputs.ContentHash = hash
		}
	} else {
		logger.Warn("Content root missing, page fingerprints skipped", logfields.Path(cfg.Content.Root))
		m.Warnings++
	}

	files, err := render.WriteAll(outDir, site, rec)
	if err != nil {
		m.Finish(manifest.StatusFailed, time.Since(start))
		rec.IncBuildOutcome(metrics.OutcomeFailed)
		return m, err
	}
	m.Outputs.Files = files

	status, outcome := manifest.StatusSuccess, metrics.OutcomeSuccess
	if m.Warnings > 0 {
		status, outcome = manifest.StatusWarning, metrics.OutcomeWarning
	}
	m.Finish(status, time.Since(start))

	data, err := m.ToJSON()
	if err != nil {
		rec.IncBuildOutcome(metrics.OutcomeFailed)
		return m, err
	}
	if err := render.WriteFile(filepath.Join(outDir, manifest.File), data); err != nil {
		rec.IncBuildOutcome(metrics.OutcomeFailed)
		return m, err
	}
	rec.IncBuildOutcome(outcome)

	logger.Info("Build finished",
		logfields.BuildID(m.ID),
		logfields.Commit(m.Inputs.Commit),
		slog.String("status", m.Status),
		logfields.Duration(time.Since(start)))
	return m, nil
}

// recordPages fingerprints every internal target once and returns how many
// could not be resolved.
func recordPages(ctx context.Context, logger *slog.Logger, m *manifest.BuildManifest, root string, n nav.SiteNavigation) int {
	repo, err := gitinfo.Open(root)
	if err != nil {
		logger.Debug("Last-updated metadata unavailable", logfields.Error(err))
	}
	m.Inputs.Commit = repo.Head()
	m.Inputs.Commits = repo.Commits()

	missing := 0
	for _, l := range n.Links() {
		if ctx.Err() != nil {
			break
		}
		if l.IsExternal() || l.Target == "" {
			continue
		}
		if _, done := m.Pages[l.Target]; done {
			continue
		}
		file, err := content.Resolve(root, l.Target)
		if err != nil {
			logger.Warn("Unresolved navigation target", logfields.Target(l.Target), logfields.Error(err))
			missing++
			continue
		}
		page, err := content.Inspect(file)
		if err != nil {
			logger.Warn("Failed to inspect page", logfields.File(file), logfields.Error(err))
			missing++
			continue
		}
		rel, _ := filepath.Rel(root, file)
		entry := manifest.Page{Path: filepath.ToSlash(rel), Fingerprint: page.Fingerprint}
		if t := repo.LastUpdated(file); !t.IsZero() {
			t = t.UTC()
			entry.LastUpdated = &t
		}
		m.Pages[l.Target] = entry
	}
	return missing
}
