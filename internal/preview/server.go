// Package preview serves the notes for local inspection of the navigation
// and the zoom hook. Every page request is a navigation: the page is
// rendered into a document, dispatched through the router so after-route
// hooks run against it, then serialized.
package preview

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	stderrors "errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/notenav/internal/config"
	"git.home.luguber.info/inful/notenav/internal/content"
	"git.home.luguber.info/inful/notenav/internal/foundation/errors"
	"git.home.luguber.info/inful/notenav/internal/gitinfo"
	"git.home.luguber.info/inful/notenav/internal/logfields"
	"git.home.luguber.info/inful/notenav/internal/manifest"
	"git.home.luguber.info/inful/notenav/internal/metrics"
	"git.home.luguber.info/inful/notenav/internal/nav"
	"git.home.luguber.info/inful/notenav/internal/render"
	"git.home.luguber.info/inful/notenav/internal/router"
	"git.home.luguber.info/inful/notenav/internal/zoom"
)

const shutdownTimeout = 5 * time.Second

// Options wires the server's collaborators. All fields are optional.
type Options struct {
	// ConfigPath is reloaded by Reload and watched by Run.
	ConfigPath string
	// Registry exposes /metrics when set.
	Registry *prometheus.Registry
	Recorder metrics.Recorder
	Logger   *slog.Logger
}

// Server is the preview HTTP server.
type Server struct {
	opts     Options
	logger   *slog.Logger
	recorder metrics.Recorder
	hub      *LiveReloadHub
	state    atomic.Pointer[state]

	// Browsers reload on a digest of both hashes so a change to one is
	// never masked or repeated by the other.
	hashMu      sync.Mutex
	navHash     string
	contentHash string
}

// state is everything derived from one configuration. It is replaced as a
// whole on reload so a request never sees a half-applied config.
type state struct {
	cfg     *config.Config
	site    nav.Site
	root    string
	router  *router.Router
	repo    *gitinfo.Repo
	navJSON []byte
	navHash string
}

// New builds a server for cfg.
func New(cfg *config.Config, opts Options) (*Server, error) {
	s := &Server{
		opts:     opts,
		logger:   opts.Logger,
		recorder: metrics.OrNoop(opts.Recorder),
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	s.hub = NewLiveReloadHub(s.logger)
	if err := s.Apply(cfg); err != nil {
		return nil, err
	}
	return s, nil
}

// Apply replaces the running configuration. Connected browsers reload when
// the navigation or the content under the root changed.
func (s *Server) Apply(cfg *config.Config) error {
	st, err := s.newState(cfg)
	if err != nil {
		return err
	}
	s.state.Store(st)
	contentHash, err := gitinfo.WorkdirHash(st.root)
	if err != nil {
		s.logger.Debug("Content hash unavailable", logfields.Path(st.root), logfields.Error(err))
	}
	s.notify(st.navHash, contentHash)
	return nil
}

// notify records the latest hashes and broadcasts their digest. An empty
// hash keeps the previous value.
func (s *Server) notify(navHash, contentHash string) {
	s.hashMu.Lock()
	defer s.hashMu.Unlock()
	if navHash != "" {
		s.navHash = navHash
	}
	if contentHash != "" {
		s.contentHash = contentHash
	}
	sum := sha256.Sum256([]byte(s.navHash + "\n" + s.contentHash))
	s.hub.Broadcast(hex.EncodeToString(sum[:]))
}

// Reload re-reads Options.ConfigPath and applies it. On error the previous
// configuration stays active.
func (s *Server) Reload(context.Context) error {
	if s.opts.ConfigPath == "" {
		return errors.ConfigError("no configuration path to reload").Build()
	}
	cfg, err := config.Load(s.opts.ConfigPath)
	if err != nil {
		return err
	}
	if err := s.Apply(cfg); err != nil {
		return err
	}
	s.logger.Info("Configuration reloaded", logfields.Path(s.opts.ConfigPath))
	return nil
}

func (s *Server) newState(cfg *config.Config) (*state, error) {
	root, err := resolveContentRoot(cfg)
	if err != nil {
		return nil, err
	}
	site := cfg.NavSite()
	navJSON, err := render.VitePress(site)
	if err != nil {
		return nil, err
	}

	r := router.New()
	if cfg.Zoom.IsEnabled() {
		hook, err := zoom.New(zoom.Options{Selector: hookSelector(cfg.Zoom.Selector), Background: cfg.Zoom.Background})
		if err != nil {
			return nil, err
		}
		// Pages are materialized as documents here, so the capability holds.
		zoom.EnhanceApp(r, zoom.Capabilities{ClientRendering: true}, hook.WithRecorder(s.recorder))
	}

	repo, err := gitinfo.Open(root)
	if err != nil {
		s.logger.Debug("Last-updated metadata unavailable", logfields.Path(root), logfields.Error(err))
	}

	return &state{
		cfg:     cfg,
		site:    site,
		root:    root,
		router:  r,
		repo:    repo,
		navJSON: navJSON,
		navHash: manifest.NavHash(site),
	}, nil
}

// resolveContentRoot returns the absolute content root and checks that it
// is a directory.
func resolveContentRoot(cfg *config.Config) (string, error) {
	if cfg == nil || cfg.Content.Root == "" {
		return "", errors.ConfigError("preview requires content.root").Build()
	}
	abs, err := filepath.Abs(cfg.Content.Root)
	if err != nil {
		return "", errors.WrapError(err, errors.CategoryConfig, "failed to resolve content root").
			WithContext("path", cfg.Content.Root).
			Build()
	}
	if st, statErr := os.Stat(abs); statErr != nil || !st.IsDir() {
		return "", errors.NotFoundError("content root not found or not a directory").
			WithContext("path", abs).
			Build()
	}
	return abs, nil
}

// Site returns the navigation currently served.
func (s *Server) Site() nav.Site { return s.state.Load().site }

// Router returns the router of the current configuration.
func (s *Server) Router() *router.Router { return s.state.Load().router }

// Verify checks the current navigation against the content root, logs the
// outcome and records it.
func (s *Server) Verify(ctx context.Context) nav.Report {
	st := s.state.Load()
	report := nav.Check(st.site.Navigation)
	report.Merge(content.Verify(ctx, st.root, st.site.Navigation, content.VerifyOptions{
		External: st.cfg.Content.CheckExternal,
		Timeout:  st.cfg.Content.ExternalTimeout,
		Logger:   s.logger,
		Retry:    st.cfg.Content.RetryPolicy(),
	}))

	s.recorder.AddCheckIssues(string(nav.SeverityError), report.Errors())
	s.recorder.AddCheckIssues(string(nav.SeverityWarning), report.Warnings())
	switch {
	case report.HasErrors():
		s.recorder.IncCheckRun(metrics.OutcomeFailed)
		for _, i := range report.Issues {
			s.logger.Warn("Navigation issue", logfields.Target(i.Target), slog.String("issue", i.String()))
		}
	case report.Warnings() > 0:
		s.recorder.IncCheckRun(metrics.OutcomeWarning)
	default:
		s.recorder.IncCheckRun(metrics.OutcomeSuccess)
	}
	s.logger.Info("Navigation verified",
		slog.Int("errors", report.Errors()),
		slog.Int("warnings", report.Warnings()))
	return report
}

// Run serves on addr until ctx is cancelled, watching the configuration and
// content when enabled and verifying the navigation on the configured
// interval.
func (s *Server) Run(ctx context.Context, addr string) error {
	st := s.state.Load()

	if st.cfg.Serve.WatchEnabled() {
		w, err := NewWatcher(WatcherOptions{
			ConfigPath:  s.opts.ConfigPath,
			ContentRoot: st.root,
			Debounce:    st.cfg.Serve.Debounce,
			OnConfig:    s.Reload,
			OnContent:   s.contentChanged,
			Logger:      s.logger,
		})
		if err != nil {
			return err
		}
		if err := w.Start(ctx); err != nil {
			return err
		}
		defer w.Stop()
	}

	if interval := st.cfg.Serve.CheckInterval; interval > 0 {
		sched, err := NewScheduler(s.logger)
		if err != nil {
			return err
		}
		if _, err := sched.ScheduleVerify(interval, func() { s.Verify(ctx) }); err != nil {
			return err
		}
		sched.Start()
		defer func() { _ = sched.Stop() }()
	}

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return errors.WrapError(err, errors.CategoryNetwork, "failed to listen").
			WithContext("addr", addr).
			Build()
	}
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(ln) }()
	s.logger.Info("Preview server listening", logfields.Addr(ln.Addr().String()))

	select {
	case <-ctx.Done():
		s.hub.Shutdown()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return errors.WrapError(err, errors.CategoryRuntime, "preview server shutdown failed").Build()
		}
		return nil
	case err := <-errCh:
		s.hub.Shutdown()
		if err == nil || stderrors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return errors.WrapError(err, errors.CategoryNetwork, "preview server failed").
			WithContext("addr", addr).
			Build()
	}
}

// contentChanged pushes a reload to browsers when the Markdown tree changed.
func (s *Server) contentChanged(context.Context) error {
	hash, err := gitinfo.WorkdirHash(s.state.Load().root)
	if err != nil {
		return err
	}
	s.notify("", hash)
	return nil
}
