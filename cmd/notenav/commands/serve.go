package commands

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"git.home.luguber.info/inful/notenav/internal/logfields"
	"git.home.luguber.info/inful/notenav/internal/metrics"
	"git.home.luguber.info/inful/notenav/internal/preview"
)

// ServeCmd implements the 'serve' command.
type ServeCmd struct {
	Addr string `help:"Listen address (defaults to serve.addr)"`
}

func (s *ServeCmd) Run(g *Global, root *CLI) error {
	cfg, err := root.loadConfig(g)
	if err != nil {
		return err
	}
	addr := s.Addr
	if addr == "" {
		addr = cfg.Serve.Addr
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	opts := preview.Options{
		Registry: reg,
		Recorder: metrics.NewPrometheusRecorder(reg),
		Logger:   g.logger(),
	}
	// Only an existing file can be watched and reloaded.
	if _, err := os.Stat(root.Config); err == nil {
		opts.ConfigPath = root.Config
	}

	srv, err := preview.New(cfg, opts)
	if err != nil {
		return err
	}
	srv.Verify(ctx)

	g.logger().Info("Starting preview", logfields.Addr(addr))
	return srv.Run(ctx, addr)
}
