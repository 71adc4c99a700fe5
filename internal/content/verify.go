package content

import (
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"git.home.luguber.info/inful/notenav/internal/logfields"
	"git.home.luguber.info/inful/notenav/internal/nav"
	"git.home.luguber.info/inful/notenav/internal/retry"
)

// DefaultExternalTimeout bounds a single external probe.
const DefaultExternalTimeout = 5 * time.Second

// VerifyOptions controls Verify.
type VerifyOptions struct {
	// External enables HTTP HEAD probes of external targets.
	External bool
	Timeout  time.Duration
	Client   *http.Client
	Logger   *slog.Logger
	// Retry applies to unreachable hosts, 429 and 5xx responses. The zero
	// value probes once.
	Retry retry.Policy
}

// Verify checks that every internal target in the navigation resolves to a
// page under root. Unresolved targets are errors. When opts.External is set,
// external targets are probed and failures reported as warnings. Each
// distinct target is checked once.
func Verify(ctx context.Context, root string, n nav.SiteNavigation, opts VerifyOptions) nav.Report {
	v := &verifier{
		root:     root,
		opts:     opts,
		internal: map[string]string{},
		external: map[string]string{},
	}
	if v.opts.Timeout <= 0 {
		v.opts.Timeout = DefaultExternalTimeout
	}
	if v.opts.Client == nil {
		v.opts.Client = &http.Client{}
	}
	if v.opts.Logger == nil {
		v.opts.Logger = slog.Default()
	}

	var r nav.Report
	for i, l := range n.TopNav() {
		v.check(ctx, &r, "nav", "", i, l)
	}
	for _, s := range n.Sidebar() {
		for i, l := range s.Entries() {
			v.check(ctx, &r, "sidebar", s.Title, i, l)
		}
	}
	for i, l := range n.SocialLinks() {
		v.check(ctx, &r, "social", "", i, l)
	}
	return r
}

type verifier struct {
	root string
	opts VerifyOptions
	// Memoized results: target -> failure message ("" when fine).
	internal map[string]string
	external map[string]string
}

func (v *verifier) check(ctx context.Context, r *nav.Report, area, section string, idx int, l nav.NavLink) {
	if l.Target == "" {
		return
	}
	if l.IsExternal() {
		if !v.opts.External {
			return
		}
		msg, seen := v.external[l.Target]
		if !seen {
			msg = v.probe(ctx, l.Target)
			v.external[l.Target] = msg
		}
		if msg != "" {
			r.Issues = append(r.Issues, nav.Issue{Severity: nav.SeverityWarning, Area: area, Section: section,
				Index: idx, Target: l.Target, Message: msg})
		}
		return
	}

	msg, seen := v.internal[l.Target]
	if !seen {
		if _, err := Resolve(v.root, l.Target); err != nil {
			msg = err.Error()
		}
		v.internal[l.Target] = msg
	}
	if msg != "" {
		r.Issues = append(r.Issues, nav.Issue{Severity: nav.SeverityError, Area: area, Section: section,
			Index: idx, Target: l.Target, Message: msg})
	}
}

// statusError is a probe that got an HTTP error status.
type statusError struct{ code int }

func (e statusError) Error() string { return fmt.Sprintf("external target returned HTTP %d", e.code) }

func transient(err error) bool {
	var se statusError
	if stderrors.As(err, &se) {
		return se.code == http.StatusTooManyRequests || se.code >= http.StatusInternalServerError
	}
	return true
}

func (v *verifier) probe(ctx context.Context, target string) string {
	attempts := 0
	err := v.opts.Retry.Do(ctx, transient, func(ctx context.Context) error {
		attempts++
		return v.head(ctx, target)
	})
	if err == nil {
		return ""
	}
	if attempts > 1 {
		v.opts.Logger.Debug("External probe gave up", logfields.Target(target), logfields.Count(attempts))
	}
	var se statusError
	if stderrors.As(err, &se) {
		return se.Error()
	}
	return fmt.Sprintf("external target unreachable: %v", err)
}

func (v *verifier) head(ctx context.Context, target string) error {
	ctx, cancel := context.WithTimeout(ctx, v.opts.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, target, http.NoBody)
	if err != nil {
		return err
	}
	start := time.Now()
	resp, err := v.opts.Client.Do(req)
	if err != nil {
		v.opts.Logger.Debug("External probe failed", logfields.Target(target), logfields.Error(err))
		return err
	}
	_ = resp.Body.Close()
	v.opts.Logger.Debug("External probe",
		logfields.Target(target),
		logfields.Status(resp.StatusCode),
		logfields.Duration(time.Since(start)))
	if resp.StatusCode >= http.StatusBadRequest {
		return statusError{code: resp.StatusCode}
	}
	return nil
}
