package commands

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/notenav/internal/config"
	"git.home.luguber.info/inful/notenav/internal/content"
	"git.home.luguber.info/inful/notenav/internal/metrics"
	"git.home.luguber.info/inful/notenav/internal/nav"
)

// CheckCmd implements the 'check' command.
type CheckCmd struct {
	External    bool   `help:"Also probe external links with HTTP HEAD"`
	MetricsFile string `name:"metrics-file" help:"Write Prometheus metrics in text format to this file"`
}

func (c *CheckCmd) Run(g *Global, root *CLI) error {
	cfg, err := root.loadConfig(g)
	if err != nil {
		return err
	}
	reg := prometheus.NewRegistry()
	report, err := RunCheck(context.Background(), g, cfg, c.External, metrics.NewPrometheusRecorder(reg))
	writeMetrics(g, c.MetricsFile, reg)
	if err != nil {
		return err
	}
	return report.Err()
}

// RunCheck lints the navigation and verifies its targets against the
// content root, printing one line per issue.
func RunCheck(ctx context.Context, g *Global, cfg *config.Config, external bool, rec metrics.Recorder) (nav.Report, error) {
	rec = metrics.OrNoop(rec)
	if err := contentRootExists(cfg); err != nil {
		rec.IncCheckRun(metrics.OutcomeFailed)
		return nav.Report{}, err
	}

	site := cfg.NavSite()
	report := nav.Check(site.Navigation)
	report.Merge(content.Verify(ctx, cfg.Content.Root, site.Navigation, content.VerifyOptions{
		External: external || cfg.Content.CheckExternal,
		Timeout:  cfg.Content.ExternalTimeout,
		Logger:   g.logger(),
		Retry:    cfg.Content.RetryPolicy(),
	}))

	out := g.out()
	for _, i := range report.Issues {
		_, _ = fmt.Fprintln(out, i.String())
	}
	_, _ = fmt.Fprintf(out, "%d error(s), %d warning(s) in %d links\n",
		report.Errors(), report.Warnings(), len(site.Navigation.Links()))

	rec.AddCheckIssues(string(nav.SeverityError), report.Errors())
	rec.AddCheckIssues(string(nav.SeverityWarning), report.Warnings())
	switch {
	case report.HasErrors():
		rec.IncCheckRun(metrics.OutcomeFailed)
	case report.Warnings() > 0:
		rec.IncCheckRun(metrics.OutcomeWarning)
	default:
		rec.IncCheckRun(metrics.OutcomeSuccess)
	}
	return report, nil
}
