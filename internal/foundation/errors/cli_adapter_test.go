package errors

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"
)

func TestCLIErrorAdapter_ExitCodeFor(t *testing.T) {
	adapter := NewCLIErrorAdapter(false, slog.Default())

	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{"nil error", nil, 0},
		{"validation", ValidationError("empty label").Build(), 2},
		{"not found", NotFoundError("missing page").Build(), 2},
		{"config", ConfigError("bad yaml").Build(), 7},
		{"network", NetworkError("timeout").Build(), 8},
		{"render", RenderError("marshal").Build(), 11},
		{"runtime", RuntimeError("listener").Build(), 12},
		{"internal", InternalError("bug").Build(), 10},
		{"plain", errors.New("plain"), 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := adapter.ExitCodeFor(tt.err); got != tt.expected {
				t.Errorf("ExitCodeFor() = %d, want %d", got, tt.expected)
			}
		})
	}
}

func TestCLIErrorAdapter_FormatError(t *testing.T) {
	quiet := NewCLIErrorAdapter(false, slog.Default())
	verbose := NewCLIErrorAdapter(true, slog.Default())

	err := NotFoundError("navigation target does not resolve").WithContext("target", "/german/A1-Letters-9.md").Build()

	if got := quiet.FormatError(err); got != "Error: navigation target does not resolve (/german/A1-Letters-9.md)" {
		t.Errorf("unexpected quiet format: %q", got)
	}
	if got := verbose.FormatError(err); !strings.HasPrefix(got, "[not_found:error]") {
		t.Errorf("unexpected verbose format: %q", got)
	}
	if got := quiet.FormatError(InternalError("nil map").Build()); !strings.Contains(got, "use -v") {
		t.Errorf("internal errors should be hidden: %q", got)
	}
}

func TestCLIErrorAdapter_HandleError(t *testing.T) {
	var logs, out bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))
	adapter := NewCLIErrorAdapter(false, logger)
	adapter.out = &out
	code := -1
	adapter.exit = func(c int) { code = c }

	adapter.HandleError(ConfigError("config file not found").WithContext("path", "notenav.yaml").Build())

	if code != 7 {
		t.Errorf("exit code = %d, want 7", code)
	}
	if !strings.Contains(out.String(), "config file not found") {
		t.Errorf("missing user message: %q", out.String())
	}
	if !strings.Contains(logs.String(), "category=config") {
		t.Errorf("fatal errors should be logged: %q", logs.String())
	}
}
