//go:build linux

package daemon

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/thejerf/suture/v4"

	"github.com/1broseidon/tabgroup/internal/config"
	"github.com/1broseidon/tabgroup/internal/group"
	"github.com/1broseidon/tabgroup/internal/hotkeys"
	"github.com/1broseidon/tabgroup/internal/ipc"
	"github.com/1broseidon/tabgroup/internal/overlay"
	"github.com/1broseidon/tabgroup/internal/platform"
)

// ErrConnectionLost is returned by Run when the X event loop exits on its
// own.
var ErrConnectionLost = errors.New("X connection lost")

// Daemon wires the engine to an X11 session.
type Daemon struct {
	log     *logrus.Logger
	cfgPath string

	backend    *platform.LinuxBackend
	engine     *group.Engine
	overlay    *overlay.Manager
	runner     *Runner
	reconciler *Reconciler
	hotkeys    *hotkeys.Handler
	ipc        *ipc.Server

	mu  sync.Mutex
	cfg *config.Config
}

// New connects to the X server and builds every daemon component. cfgPath
// is the file Reload reads.
func New(cfg *config.Config, cfgPath string, logger *logrus.Logger) (*Daemon, error) {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	SetLogLevel(logger, cfg.LogLevel)

	backend, err := platform.NewLinuxBackendFromDisplay(logger.WithField("component", "x11"))
	if err != nil {
		return nil, err
	}

	d := &Daemon{
		log:     logger,
		cfgPath: cfgPath,
		backend: backend,
		cfg:     cfg,
	}
	d.engine = group.New(backend, cfg, logger.WithField("component", "engine"))
	d.overlay = overlay.NewManager(backend.XUtil(), backend.RootWindow())
	d.runner = NewRunner(d.engine, d.overlay, logger.WithField("component", "runner"))
	d.reconciler = NewReconciler(ReconcilerConfig{
		Logger: logger.WithField("component", "reconciler"),
	}, d.runner, backend.Windows)
	d.hotkeys = hotkeys.NewHandler(backend, d.runner, logger.WithField("component", "hotkeys"))

	d.ipc, err = ipc.NewServer(ipc.ServerConfig{
		Backend:    backend,
		Reload:     d.Reload,
		ConfigFile: cfgPath,
		Logger:     logger.WithField("component", "ipc"),
	}, d.runner)
	if err != nil {
		backend.Disconnect()
		return nil, err
	}

	if err := backend.Watch(d.runner.Post); err != nil {
		backend.Disconnect()
		return nil, fmt.Errorf("failed to watch X events: %w", err)
	}
	backend.BindPointer(pointerBindings(cfg.Buttons))
	if err := d.hotkeys.Register(cfg.Hotkeys); err != nil {
		logger.WithError(err).Warn("hotkeys disabled")
	}
	return d, nil
}

// Run supervises the frame runner, the reconciler, the IPC server and the
// X event loop until ctx is cancelled.
func (d *Daemon) Run(ctx context.Context) error {
	sup := suture.New("tabgroup", suture.Spec{
		EventHook: func(e suture.Event) {
			d.log.WithFields(logrus.Fields(e.Map())).Warn(e.String())
		},
	})
	sup.Add(d.runner)
	sup.Add(d.reconciler)
	sup.Add(d.ipc)
	sup.Add(&eventLoop{backend: d.backend, log: d.log})

	d.log.WithField("socket", d.ipc.SocketPath()).Info("tabgroup daemon started")
	err := sup.Serve(ctx)

	d.hotkeys.Unregister()
	d.backend.UnbindPointer()
	d.overlay.Cleanup()
	d.backend.Disconnect()
	d.log.Info("tabgroup daemon stopped")

	switch {
	case errors.Is(err, suture.ErrTerminateSupervisorTree):
		return ErrConnectionLost
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return nil
	}
	return err
}

// Reload re-reads the configuration file and applies it to the running
// daemon.
func (d *Daemon) Reload() error {
	res, err := config.LoadFromPath(d.cfgPath)
	if err != nil {
		return err
	}
	cfg := res.Config

	d.mu.Lock()
	defer d.mu.Unlock()
	old := d.cfg
	d.cfg = cfg

	SetLogLevel(d.log, cfg.LogLevel)
	d.runner.Reload(cfg)
	if cfg.Hotkeys != old.Hotkeys {
		if err := d.hotkeys.Reload(cfg.Hotkeys); err != nil {
			d.log.WithError(err).Warn("failed to rebind hotkeys")
		}
	}
	if cfg.Buttons != old.Buttons {
		d.backend.UnbindPointer()
		d.backend.BindPointer(pointerBindings(cfg.Buttons))
	}
	d.log.WithField("file", res.File).Info("configuration reloaded")
	return nil
}

func pointerBindings(b config.Buttons) platform.PointerBindings {
	return platform.PointerBindings{
		Move:    b.Move,
		Resize:  b.Resize,
		Select:  b.Select,
		TabDrag: b.TabDrag,
	}
}

// eventLoop runs xevent.Main as a supervised service.
type eventLoop struct {
	backend *platform.LinuxBackend
	log     logrus.FieldLogger
}

func (l *eventLoop) String() string { return "x-event-loop" }

func (l *eventLoop) Serve(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		defer close(done)
		l.backend.EventLoop()
	}()

	select {
	case <-ctx.Done():
		l.backend.StopEventLoop()
		// The loop only notices the quit flag on its next event; closing
		// the connection after Serve returns releases it otherwise.
		select {
		case <-done:
		case <-time.After(time.Second):
		}
		return ctx.Err()
	case <-done:
		l.log.Error("X event loop exited")
		return suture.ErrTerminateSupervisorTree
	}
}
