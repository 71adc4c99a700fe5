package metrics

import "time"

// Outcome labels a finished build or verification run.
type Outcome string

const (
	OutcomeSuccess Outcome = "success"
	OutcomeWarning Outcome = "warning"
	OutcomeFailed  Outcome = "failed"
)

// Recorder defines observability hooks. Implementations must be safe for
// concurrent use.
type Recorder interface {
	ObserveRenderDuration(format string, d time.Duration)
	IncBuildOutcome(outcome Outcome)
	AddCheckIssues(severity string, n int)
	IncCheckRun(outcome Outcome)
	AddZoomApplied(n int)
	IncNavigation(status int)
}

// NoopRecorder is a Recorder that does nothing (default when metrics not configured).
type NoopRecorder struct{}

func (NoopRecorder) ObserveRenderDuration(string, time.Duration) {}
func (NoopRecorder) IncBuildOutcome(Outcome)                     {}
func (NoopRecorder) AddCheckIssues(string, int)                  {}
func (NoopRecorder) IncCheckRun(Outcome)                         {}
func (NoopRecorder) AddZoomApplied(int)                          {}
func (NoopRecorder) IncNavigation(int)                           {}

// OrNoop returns r, or NoopRecorder when r is nil.
func OrNoop(r Recorder) Recorder {
	if r == nil {
		return NoopRecorder{}
	}
	return r
}
