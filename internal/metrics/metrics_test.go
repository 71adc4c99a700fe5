package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestPrometheusRecorder(t *testing.T) {
	reg := prom.NewRegistry()
	pr := NewPrometheusRecorder(reg)

	pr.ObserveRenderDuration("vitepress", 3*time.Millisecond)
	pr.IncBuildOutcome(OutcomeSuccess)
	pr.AddCheckIssues("error", 2)
	pr.AddCheckIssues("warning", 0)
	pr.IncCheckRun(OutcomeFailed)
	pr.AddZoomApplied(3)
	pr.AddZoomApplied(0)
	pr.IncNavigation(200)
	pr.IncNavigation(404)

	if got := testutil.ToFloat64(pr.zoomApplied); got != 3 {
		t.Fatalf("zoom applied = %v, want 3", got)
	}
	if got := testutil.ToFloat64(pr.checkIssues.WithLabelValues("error")); got != 2 {
		t.Fatalf("error issues = %v, want 2", got)
	}
	if got := testutil.ToFloat64(pr.navigations.WithLabelValues("404")); got != 1 {
		t.Fatalf("404 navigations = %v, want 1", got)
	}

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	if len(mfs) == 0 {
		t.Fatalf("expected metrics, got none")
	}
}

func TestHTTPHandlerServesRegistry(t *testing.T) {
	reg := prom.NewRegistry()
	NewPrometheusRecorder(reg).IncBuildOutcome(OutcomeWarning)

	rec := httptest.NewRecorder()
	HTTPHandler(reg).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `notenav_build_outcomes_total{outcome="warning"} 1`) {
		t.Fatalf("missing counter in scrape:\n%s", rec.Body.String())
	}
}

func TestOrNoop(t *testing.T) {
	if _, ok := OrNoop(nil).(NoopRecorder); !ok {
		t.Fatal("nil should become NoopRecorder")
	}
	pr := NewPrometheusRecorder(nil)
	if OrNoop(pr) != Recorder(pr) {
		t.Fatal("non-nil recorder should pass through")
	}
}
