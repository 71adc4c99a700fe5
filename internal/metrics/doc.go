// Package metrics records notenav observability data.
//
// Components take a Recorder and default to NoopRecorder, so metrics stay
// optional: the build and check commands run with the noop, while the
// preview server injects a PrometheusRecorder and exposes it on /metrics.
package metrics
