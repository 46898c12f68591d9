package daemon

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/1broseidon/tabgroup/internal/config"
	"github.com/1broseidon/tabgroup/internal/group"
	"github.com/1broseidon/tabgroup/internal/overlay"
	"github.com/1broseidon/tabgroup/internal/platform"
)

// Renderer draws the overlay scene.
type Renderer interface {
	Render(scene overlay.Scene) error
	HideAll()
}

const (
	eventBuffer  = 4096
	actionBuffer = 256

	// grabPostWait bounds how long Post waits for room for a grab event.
	grabPostWait = time.Second
)

type action struct {
	fn   func(e *group.Engine) (any, error)
	done chan result
}

type result struct {
	value any
	err   error
}

// Runner owns the engine. Events, actions and frame ticks are serialized
// on the goroutine running Serve.
type Runner struct {
	engine   *group.Engine
	renderer Renderer
	log      logrus.FieldLogger

	events  chan platform.Event
	actions chan action
	reload  chan *config.Config

	scanned bool
	dirty   bool
}

// NewRunner creates a runner for engine. renderer may be nil.
func NewRunner(engine *group.Engine, renderer Renderer, logger logrus.FieldLogger) *Runner {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	r := &Runner{
		engine:   engine,
		renderer: renderer,
		log:      logger,
		events:   make(chan platform.Event, eventBuffer),
		actions:  make(chan action, actionBuffer),
		reload:   make(chan *config.Config, 1),
		dirty:    true,
	}
	engine.Register(r)
	return r
}

func (r *Runner) String() string { return "frame-runner" }

// Damage marks the overlay for redraw on the next frame.
func (r *Runner) Damage(platform.Rect) { r.dirty = true }

// GroupChanged marks the overlay for redraw.
func (r *Runner) GroupChanged(group.GroupInfo) { r.dirty = true }

// GroupDeleted marks the overlay for redraw.
func (r *Runner) GroupDeleted(uint64) { r.dirty = true }

// Post queues a window-system event. When the queue is full the event is
// dropped and the reconciler repairs the registry. Grab starts and ends
// wait up to grabPostWait for room first.
func (r *Runner) Post(ev platform.Event) {
	select {
	case r.events <- ev:
		return
	default:
	}
	switch ev.(type) {
	case platform.GrabStarted, platform.GrabEnded:
		timer := time.NewTimer(grabPostWait)
		defer timer.Stop()
		select {
		case r.events <- ev:
			return
		case <-timer.C:
		}
	}
	r.log.WithField("event", ev).Warn("event queue full, dropping event")
}

// Submit queues fn without waiting for it to run.
func (r *Runner) Submit(fn func(e *group.Engine)) {
	a := action{fn: func(e *group.Engine) (any, error) {
		fn(e)
		return nil, nil
	}}
	select {
	case r.actions <- a:
	default:
		r.log.Warn("action queue full, dropping action")
	}
}

// Do runs fn on the engine goroutine and returns its result.
func (r *Runner) Do(ctx context.Context, fn func(e *group.Engine) (any, error)) (any, error) {
	a := action{fn: fn, done: make(chan result, 1)}
	select {
	case r.actions <- a:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	select {
	case res := <-a.done:
		return res.value, res.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Reload swaps the engine configuration at the next loop iteration. A
// newer config replaces one not yet applied.
func (r *Runner) Reload(cfg *config.Config) {
	for {
		select {
		case r.reload <- cfg:
			return
		default:
		}
		select {
		case <-r.reload:
		default:
		}
	}
}

// Serve runs the frame loop until ctx is cancelled. The first run scans
// existing windows.
func (r *Runner) Serve(ctx context.Context) error {
	if !r.scanned {
		if err := r.engine.Scan(); err != nil {
			r.log.WithError(err).Warn("initial window scan failed")
		}
		r.scanned = true
		r.log.WithField("windows", r.engine.WindowCount()).Info("initial scan complete")
	}

	interval := r.engine.Config().FrameInterval()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	last := time.Now()

	for {
		select {
		case <-ctx.Done():
			if r.renderer != nil {
				r.renderer.HideAll()
			}
			return ctx.Err()

		case ev := <-r.events:
			r.engine.HandleEvent(ev)

		case a := <-r.actions:
			r.run(a)

		case cfg := <-r.reload:
			r.engine.SetConfig(cfg)
			if next := cfg.FrameInterval(); next != interval {
				interval = next
				ticker.Reset(interval)
			}
			r.dirty = true
			r.log.Info("configuration applied")

		case now := <-ticker.C:
			r.drainQueued()
			r.engine.Tick(now.Sub(last))
			last = now
			r.render()
		}
	}
}

// drainQueued applies the events and actions already waiting so a frame
// never runs ahead of input queued before it.
func (r *Runner) drainQueued() {
	for n := len(r.events); n > 0; n-- {
		r.engine.HandleEvent(<-r.events)
	}
	for n := len(r.actions); n > 0; n-- {
		r.run(<-r.actions)
	}
}

func (r *Runner) run(a action) {
	var res result
	func() {
		// Recover from panics to keep the frame loop alive
		defer func() {
			if p := recover(); p != nil {
				r.log.WithField("panic", p).Error("action panic recovered")
				res.err = errors.New("action panicked")
			}
		}()
		res.value, res.err = a.fn(r.engine)
	}()
	if a.done != nil {
		a.done <- res
	}
}

func (r *Runner) render() {
	if !r.dirty || r.renderer == nil {
		return
	}
	r.dirty = false
	scene := overlay.BuildScene(r.engine, r.engine.Config().BorderWidth)
	if err := r.renderer.Render(scene); err != nil {
		r.log.WithError(err).Warn("overlay render failed")
	}
}
