// Package daemon implements the flexsdrd primary lifecycle: bring up the
// shared-memory runtime, create every object the role declares, signal
// readiness, serve the control and observability planes, and tear down on
// SIGINT/SIGTERM.
package daemon

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"sync/atomic"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/flexsdr/flexsdr/pkg/api"
	"github.com/flexsdr/flexsdr/pkg/config"
	"github.com/flexsdr/flexsdr/pkg/control"
	"github.com/flexsdr/flexsdr/pkg/eal"
	"github.com/flexsdr/flexsdr/pkg/logging"
	"github.com/flexsdr/flexsdr/pkg/transport"
)

// ReadyFileName is created inside the runtime directory once every
// resource exists. Orchestrators wait for it before starting secondaries.
const ReadyFileName = "ready"

// Options configures the daemon.
type Options struct {
	ConfigFile string
	APIAddr    string // HTTP observability address; empty disables
	GRPCAddr   string // control-plane address; empty disables
	Version    string
}

// Daemon is the flexsdr primary process.
type Daemon struct {
	opts    Options
	cfg     *config.Config
	events  *logging.EventBuffer
	primary *transport.Primary
	ready   atomic.Bool
}

// New creates a daemon. The configuration is loaded in Run.
func New(opts Options) *Daemon {
	return &Daemon{
		opts:   opts,
		events: logging.NewEventBuffer(512),
	}
}

// Run starts the daemon and blocks until shutdown.
func (d *Daemon) Run(ctx context.Context) error {
	slog.Info("starting flexsdrd",
		"config", d.opts.ConfigFile,
		"pid", os.Getpid())

	cfg, err := config.LoadDefault(d.opts.ConfigFile)
	if err != nil {
		return err
	}
	d.cfg = cfg
	if !cfg.Role().IsPrimary() {
		return fmt.Errorf("daemon: role %s is not a primary role", cfg.Role())
	}

	args := eal.BuildArgs(cfg, eal.ProcPrimary, nil)
	if _, err := eal.Init(args); err != nil {
		return err
	}

	primary, err := transport.NewPrimary(cfg, d.events)
	if err != nil {
		return err
	}
	d.primary = primary
	if err := primary.InitResources(); err != nil {
		return err
	}

	rt, err := eal.Get()
	if err != nil {
		return err
	}
	readyPath := filepath.Join(rt.Dir, ReadyFileName)
	if err := os.WriteFile(readyPath, []byte(fmt.Sprintf("%d\n", os.Getpid())), 0o644); err != nil {
		return fmt.Errorf("daemon: write readiness file: %w", err)
	}
	d.ready.Store(true)
	slog.Info("primary ready", "ready_file", readyPath)

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	if d.opts.GRPCAddr != "" {
		srv := control.NewServer(d.opts.GRPCAddr, control.Info{
			Mboard:        "flexsdr",
			Serial:        rt.FilePrefix,
			Version:       d.opts.Version,
			NumRxChannels: streamChannels(cfg, false),
			NumTxChannels: streamChannels(cfg, true),
		}, control.DefaultLimits())
		g.Go(func() error { return srv.Run(gctx) })
	}
	if d.opts.APIAddr != "" {
		srv := api.NewServer(api.Config{
			Addr:     d.opts.APIAddr,
			Primary:  primary,
			EventBuf: d.events,
			Version:  d.opts.Version,
		}, d.ready.Load)
		g.Go(func() error { return srv.Run(gctx) })
	}

	err = g.Wait()

	d.ready.Store(false)
	os.Remove(readyPath)
	if cerr := primary.Close(); cerr != nil {
		slog.Warn("teardown incomplete", "err", cerr)
	}
	slog.Info("flexsdrd stopped")
	return err
}

// Events exposes the daemon's event buffer.
func (d *Daemon) Events() *logging.EventBuffer { return d.events }

func streamChannels(cfg *config.Config, tx bool) uint32 {
	rb := cfg.EffectiveRole()
	if rb == nil {
		return 0
	}
	s := rb.RxStream
	if tx {
		s = rb.TxStream
	}
	if s == nil {
		return 0
	}
	return s.NumChannels
}
