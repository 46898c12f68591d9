package daemon

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/1broseidon/tabgroup/internal/group"
	"github.com/1broseidon/tabgroup/internal/platform"
)

// WindowLister returns the windows the window system currently manages.
type WindowLister func() ([]platform.WindowInfo, error)

// Engine runs functions against the engine on its owning goroutine.
type Engine interface {
	Do(ctx context.Context, fn func(e *group.Engine) (any, error)) (any, error)
}

// ReconcilerConfig holds configuration for the reconciler.
type ReconcilerConfig struct {
	Interval time.Duration
	Logger   logrus.FieldLogger
}

// Reconciler periodically compares the engine registry with the window
// system and repairs drift from missed notifications.
type Reconciler struct {
	interval    time.Duration
	engine      Engine
	listWindows WindowLister
	logger      logrus.FieldLogger
}

// NewReconciler creates a new reconciler with the given configuration.
func NewReconciler(cfg ReconcilerConfig, engine Engine, listWindows WindowLister) *Reconciler {
	interval := cfg.Interval
	if interval <= 0 {
		interval = 10 * time.Second
	}
	logger := cfg.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Reconciler{
		interval:    interval,
		engine:      engine,
		listWindows: listWindows,
		logger:      logger,
	}
}

func (r *Reconciler) String() string { return "reconciler" }

// Serve runs the reconciliation loop. Blocks until context is cancelled.
func (r *Reconciler) Serve(ctx context.Context) error {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	r.logger.WithField("interval", r.interval).Info("reconciler started")

	for {
		select {
		case <-ctx.Done():
			r.logger.Info("reconciler stopped")
			return ctx.Err()
		case <-ticker.C:
			r.reconcile(ctx)
		}
	}
}

// ReconcileNow triggers an immediate reconciliation pass.
func (r *Reconciler) ReconcileNow(ctx context.Context) (created, destroyed int) {
	return r.reconcile(ctx)
}

// reconcile performs a single reconciliation pass. Windows the registry
// knows but the window system no longer reports get a synthesized destroy;
// unknown live windows get a synthesized create.
func (r *Reconciler) reconcile(ctx context.Context) (created, destroyed int) {
	// Recover from panics to prevent crashing the daemon
	defer func() {
		if err := recover(); err != nil {
			r.logger.WithField("panic", err).Error("reconciler panic recovered")
		}
	}()

	actual, err := r.listWindows()
	if err != nil {
		r.logger.WithError(err).Error("reconciler: failed to list windows")
		return 0, 0
	}

	type counts struct{ created, destroyed int }
	res, err := r.engine.Do(ctx, func(e *group.Engine) (any, error) {
		live := make(map[platform.WindowID]bool, len(actual))
		var c counts
		for _, info := range actual {
			live[info.ID] = true
			if _, known := e.Window(info.ID); known {
				continue
			}
			if e.HandleEvent(platform.WindowCreated{Info: info}) {
				c.created++
				r.logger.WithField("window", uint32(info.ID)).Info("reconciler: registered missed window")
			}
		}
		for _, id := range e.WindowIDs() {
			if live[id] {
				continue
			}
			if e.HandleEvent(platform.WindowDestroyed{ID: id}) {
				c.destroyed++
				r.logger.WithField("window", uint32(id)).Info("reconciler: dropped vanished window")
			}
		}
		return c, nil
	})
	if err != nil {
		r.logger.WithError(err).Warn("reconciler: engine unavailable")
		return 0, 0
	}
	c := res.(counts)
	return c.created, c.destroyed
}
