package metrics

import (
	"strconv"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

const namespace = "notenav"

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	renderDuration *prom.HistogramVec
	buildOutcome   *prom.CounterVec
	checkIssues    *prom.CounterVec
	checkRuns      *prom.CounterVec
	zoomApplied    prom.Counter
	navigations    *prom.CounterVec
}

// NewPrometheusRecorder constructs the metrics and registers them on reg
// (a fresh registry when nil).
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{
		renderDuration: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "render_duration_seconds",
			Help:      "Duration of rendering one framework config format",
			Buckets:   prom.DefBuckets,
		}, []string{"format"}),
		buildOutcome: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "build_outcomes_total",
			Help:      "Build outcomes by final status",
		}, []string{"outcome"}),
		checkIssues: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "check_issues_total",
			Help:      "Authoring issues found by verification runs",
		}, []string{"severity"}),
		checkRuns: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "check_runs_total",
			Help:      "Verification runs by outcome",
		}, []string{"outcome"}),
		zoomApplied: prom.NewCounter(prom.CounterOpts{
			Namespace: namespace,
			Name:      "zoom_elements_applied_total",
			Help:      "Diagram elements newly marked zoomable",
		}),
		navigations: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "navigations_total",
			Help:      "Preview navigations by HTTP status",
		}, []string{"status"}),
	}
	reg.MustRegister(pr.renderDuration, pr.buildOutcome, pr.checkIssues, pr.checkRuns, pr.zoomApplied, pr.navigations)
	return pr
}

func (p *PrometheusRecorder) ObserveRenderDuration(format string, d time.Duration) {
	p.renderDuration.WithLabelValues(format).Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncBuildOutcome(outcome Outcome) {
	p.buildOutcome.WithLabelValues(string(outcome)).Inc()
}

func (p *PrometheusRecorder) AddCheckIssues(severity string, n int) {
	if n <= 0 {
		return
	}
	p.checkIssues.WithLabelValues(severity).Add(float64(n))
}

func (p *PrometheusRecorder) IncCheckRun(outcome Outcome) {
	p.checkRuns.WithLabelValues(string(outcome)).Inc()
}

func (p *PrometheusRecorder) AddZoomApplied(n int) {
	if n <= 0 {
		return
	}
	p.zoomApplied.Add(float64(n))
}

func (p *PrometheusRecorder) IncNavigation(status int) {
	p.navigations.WithLabelValues(strconv.Itoa(status)).Inc()
}
