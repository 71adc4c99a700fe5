// Package zoom applies the diagram zoom affordance to rendered pages.
//
// After every navigation the hook marks elements matching a selector (by
// default the SVG a Mermaid block renders to) as zoomable: a data attribute,
// the medium-zoom image class and the overlay background. Marking is
// idempotent, so running the hook again after each route change never marks
// an element twice.
package zoom

import (
	"bytes"
	"log/slog"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"

	"git.home.luguber.info/inful/notenav/internal/foundation/errors"
	"git.home.luguber.info/inful/notenav/internal/logfields"
	"git.home.luguber.info/inful/notenav/internal/metrics"
	"git.home.luguber.info/inful/notenav/internal/router"
)

// Attributes and class written onto zoomable elements.
const (
	AttrZoomable   = "data-zoomable"
	AttrBackground = "data-zoom-background"
	ClassZoomImage = "medium-zoom-image"
)

// Defaults match the notes site theme.
const (
	DefaultSelector   = ".mermaid svg"
	DefaultBackground = "rgba(0,0,0,0.8)"
)

// Options configures the hook.
type Options struct {
	Selector   string
	Background string
}

// Capabilities describes the environment the hook is installed into.
type Capabilities struct {
	// ClientRendering is true when pages are materialized as documents the
	// hook can modify.
	ClientRendering bool
}

// Hook marks matching elements as zoomable.
type Hook struct {
	opts     Options
	matcher  cascadia.Selector
	recorder metrics.Recorder
}

// New compiles the selector. Empty options fall back to the defaults.
func New(opts Options) (*Hook, error) {
	if opts.Selector == "" {
		opts.Selector = DefaultSelector
	}
	if opts.Background == "" {
		opts.Background = DefaultBackground
	}
	sel, err := cascadia.Compile(opts.Selector)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryConfig, "invalid zoom selector").
			WithContext("selector", opts.Selector).Build()
	}
	return &Hook{opts: opts, matcher: sel, recorder: metrics.NoopRecorder{}}, nil
}

// WithRecorder sets the metrics recorder.
func (h *Hook) WithRecorder(r metrics.Recorder) *Hook {
	h.recorder = metrics.OrNoop(r)
	return h
}

// Options returns the effective options.
func (h *Hook) Options() Options { return h.opts }

// Apply marks every not-yet-marked element under doc that matches the
// selector and returns how many it marked. A nil doc is a no-op.
func (h *Hook) Apply(doc *html.Node) int {
	if doc == nil {
		return 0
	}
	marked := 0
	goquery.NewDocumentFromNode(doc).FindMatcher(h.matcher).Each(func(_ int, s *goquery.Selection) {
		if _, done := s.Attr(AttrZoomable); done {
			return
		}
		s.SetAttr(AttrZoomable, "true")
		s.SetAttr(AttrBackground, h.opts.Background)
		s.AddClass(ClassZoomImage)
		marked++
	})
	h.recorder.AddZoomApplied(marked)
	return marked
}

// ApplyHTML parses a document, applies the hook and serializes it again.
func (h *Hook) ApplyHTML(in []byte) ([]byte, int, error) {
	doc, err := html.Parse(bytes.NewReader(in))
	if err != nil {
		return nil, 0, errors.WrapError(err, errors.CategoryContent, "failed to parse HTML").Build()
	}
	n := h.Apply(doc)
	var buf bytes.Buffer
	if err := html.Render(&buf, doc); err != nil {
		return nil, 0, errors.WrapError(err, errors.CategoryRender, "failed to render HTML").Build()
	}
	return buf.Bytes(), n, nil
}

// EnhanceApp installs the hook on r as an after-route-changed callback when
// the environment can render documents. Without that capability it does
// nothing. It reports whether the hook was installed.
func EnhanceApp(r *router.Router, caps Capabilities, h *Hook) bool {
	if r == nil || h == nil || !caps.ClientRendering {
		return false
	}
	r.OnAfterRouteChanged(func(p *router.Page) {
		if p == nil {
			return
		}
		if n := h.Apply(p.Doc); n > 0 {
			slog.Debug("Zoom applied", logfields.Route(p.Path), logfields.Count(n))
		}
	})
	return true
}
