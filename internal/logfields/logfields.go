package logfields

import (
	"log/slog"
	"time"
)

// Canonical log field name constants to avoid drift across packages.
const (
	KeyBuildID    = "build_id"
	KeySection    = "section"
	KeyLabel      = "label"
	KeyTarget     = "target"
	KeyPath       = "path"
	KeyFile       = "file"
	KeyRoute      = "route"
	KeyCount      = "count"
	KeyDurationMS = "duration_ms"
	KeyAddr       = "addr"
	KeyMethod     = "method"
	KeyStatus     = "status"
	KeyCommit     = "commit"
	KeyError      = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func BuildID(id string) slog.Attr   { return slog.String(KeyBuildID, id) }
func Section(s string) slog.Attr    { return slog.String(KeySection, s) }
func Label(l string) slog.Attr      { return slog.String(KeyLabel, l) }
func Target(t string) slog.Attr     { return slog.String(KeyTarget, t) }
func Path(p string) slog.Attr       { return slog.String(KeyPath, p) }
func File(f string) slog.Attr       { return slog.String(KeyFile, f) }
func Route(r string) slog.Attr      { return slog.String(KeyRoute, r) }
func Count(n int) slog.Attr         { return slog.Int(KeyCount, n) }
func Addr(a string) slog.Attr       { return slog.String(KeyAddr, a) }
func Method(m string) slog.Attr     { return slog.String(KeyMethod, m) }
func Status(code int) slog.Attr     { return slog.Int(KeyStatus, code) }
func Commit(hash string) slog.Attr  { return slog.String(KeyCommit, hash) }
func Duration(d time.Duration) slog.Attr {
	return slog.Float64(KeyDurationMS, float64(d.Microseconds())/1000)
}
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
