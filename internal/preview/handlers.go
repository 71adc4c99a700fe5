package preview

import (
	"bytes"
	"log/slog"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/net/html"

	"git.home.luguber.info/inful/notenav/internal/content"
	"git.home.luguber.info/inful/notenav/internal/foundation/errors"
	"git.home.luguber.info/inful/notenav/internal/logfields"
	"git.home.luguber.info/inful/notenav/internal/markdown"
	"git.home.luguber.info/inful/notenav/internal/metrics"
	"git.home.luguber.info/inful/notenav/internal/router"
)

// Reserved routes. Content targets may use anything else.
const (
	RouteHealth     = "/healthz"
	RouteNav        = "/_nav.json"
	RouteMetrics    = "/metrics"
	RouteLiveReload = "/_livereload"
)

// Handler returns the HTTP handler serving every route.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET "+RouteHealth, s.handleHealth)
	mux.HandleFunc("GET "+RouteNav, s.handleNav)
	mux.Handle("GET "+RouteLiveReload, s.hub)
	if s.opts.Registry != nil {
		mux.Handle("GET "+RouteMetrics, metrics.HTTPHandler(s.opts.Registry))
	}
	mux.HandleFunc("GET /", s.handlePage)
	return chain(s.logger, mux)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok\n"))
}

func (s *Server) handleNav(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(s.state.Load().navJSON)
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	st := s.state.Load()
	target := r.URL.Path

	if strings.Contains(target, "/.") {
		s.writeError(w, r, errors.NotFoundError("hidden files are not served").
			WithContext("target", target).Build())
		return
	}
	// Images and other assets next to the pages. Targets such as
	// /core-java/M5.1-Exception-Handling carry a dot but name a page.
	if isAsset(st.root, target) {
		http.FileServer(http.Dir(st.root)).ServeHTTP(w, r)
		return
	}

	file, err := content.Resolve(st.root, target)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	page, err := content.Inspect(file)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	start := time.Now()
	body, err := markdown.RenderHTML(page.Body)
	if err != nil {
		s.writeError(w, r, errors.WrapError(err, errors.CategoryRender, "failed to render page").
			WithContext("target", target).Build())
		return
	}
	doc, err := renderLayout(st, target, page, body)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	promoteMermaid(doc)

	st.router.Navigate(&router.Page{Path: target, Doc: doc})

	var buf bytes.Buffer
	if err := html.Render(&buf, doc); err != nil {
		s.writeError(w, r, errors.WrapError(err, errors.CategoryRender, "failed to serialize page").
			WithContext("target", target).Build())
		return
	}
	s.recorder.ObserveRenderDuration("preview", time.Since(start))
	s.recorder.IncNavigation(http.StatusOK)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}

// isAsset reports whether target names an existing non-Markdown file under
// root.
func isAsset(root, target string) bool {
	switch path.Ext(target) {
	case "", ".md", ".html":
		return false
	}
	fi, err := os.Stat(filepath.Join(root, filepath.FromSlash(path.Clean("/"+target))))
	return err == nil && fi.Mode().IsRegular()
}

// writeError maps a classified error to an HTTP status.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	switch errors.GetCategory(err) {
	case errors.CategoryNotFound:
		status = http.StatusNotFound
	case errors.CategoryValidation:
		status = http.StatusBadRequest
	}
	s.recorder.IncNavigation(status)

	level := slog.LevelWarn
	if status >= http.StatusInternalServerError {
		level = slog.LevelError
	}
	s.logger.Log(r.Context(), level, "Preview request failed",
		logfields.Route(r.URL.Path),
		logfields.Status(status),
		logfields.Error(err))
	http.Error(w, err.Error(), status)
}

// chain applies request logging and panic recovery around next.
func chain(logger *slog.Logger, next http.Handler) http.Handler {
	return loggingMiddleware(logger, recoverMiddleware(logger, next))
}

func loggingMiddleware(logger *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(wrapped, r)
		logger.Debug("HTTP request",
			logfields.Method(r.Method),
			logfields.Path(r.URL.Path),
			logfields.Status(wrapped.statusCode),
			logfields.Duration(time.Since(start)))
	})
}

func recoverMiddleware(logger *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				logger.Error("HTTP handler panic",
					slog.Any("panic", rec),
					logfields.Path(r.URL.Path),
					logfields.Method(r.Method))
				http.Error(w, "internal server error", http.StatusInternalServerError)
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// responseWriter captures status codes for logging.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// Flush keeps server-sent events working through the logging wrapper.
func (rw *responseWriter) Flush() {
	if f, ok := rw.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}
