// Package group is the grouping engine: it owns the window registry, the
// group store, the transient selection, the per-group animation state
// machines and the propagation queue. It is single-threaded; callers
// serialize HandleEvent, Tick and every action.
package group

import (
	"math/rand/v2"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/1broseidon/tabgroup/internal/config"
	"github.com/1broseidon/tabgroup/internal/match"
	"github.com/1broseidon/tabgroup/internal/platform"
)

// Matcher decides whether a window is eligible for selection and
// auto-grouping.
type Matcher interface {
	Matches(info platform.WindowInfo) bool
}

// Option configures an Engine.
type Option func(*Engine)

// WithMatcher overrides the matcher built from the window_match config.
func WithMatcher(m Matcher) Option {
	return func(e *Engine) { e.matcher = m }
}

// WithRand sets the source used for group colors.
func WithRand(r *rand.Rand) Option {
	return func(e *Engine) { e.rng = r }
}

// WithObserver registers an observer at construction.
func WithObserver(o any) Option {
	return func(e *Engine) { e.Register(o) }
}

// Engine is one grouping session on one screen.
type Engine struct {
	backend platform.Backend
	cfg     *config.Config
	log     logrus.FieldLogger
	matcher Matcher
	rng     *rand.Rand

	windows map[platform.WindowID]*window
	groups  []*Group

	selection []*window
	rubber    *rubberBand
	drag      *dragState

	pending  []pendingOp
	draining bool
	ignore   bool

	damageObservers []DamageObserver
	grabObservers   []GrabObserver
	groupObservers  []GroupObserver
}

// New creates an engine driving backend.
func New(backend platform.Backend, cfg *config.Config, logger logrus.FieldLogger, opts ...Option) *Engine {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	e := &Engine{
		backend: backend,
		cfg:     cfg,
		log:     logger,
		windows: make(map[platform.WindowID]*window),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.matcher == nil {
		e.matcher = match.NewMatcher(cfg.WindowMatch)
	}
	if e.rng == nil {
		e.rng = rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0x7ab6))
	}
	return e
}

// Config returns the active configuration.
func (e *Engine) Config() *config.Config { return e.cfg }

// SetConfig swaps options. Tab bars pick up new thumbnail metrics on their
// next layout.
func (e *Engine) SetConfig(cfg *config.Config) {
	if cfg == nil {
		return
	}
	e.cfg = cfg
	if m, ok := e.matcher.(*match.Matcher); ok {
		m.Update(cfg.WindowMatch)
	}
	for _, g := range e.groups {
		if g.bar != nil {
			g.bar.SetMetrics(cfg.ThumbSize, cfg.ThumbSpace)
			e.recalcBar(g)
		}
		for _, w := range g.windows {
			e.updateGlow(w)
		}
	}
}

// HandleEvent applies one window-system notification. It reports whether
// the engine acted on it.
func (e *Engine) HandleEvent(ev platform.Event) bool {
	switch ev := ev.(type) {
	case platform.WindowCreated:
		return e.windowCreated(ev.Info)
	case platform.WindowDestroyed:
		return e.windowDestroyed(ev.ID)
	case platform.WindowConfigured:
		return e.windowConfigured(ev)
	case platform.WindowMapped:
		return e.setMapped(ev.ID, true)
	case platform.WindowUnmapped:
		return e.setMapped(ev.ID, false)
	case platform.WindowStateChanged:
		return e.windowStateChanged(ev)
	case platform.WindowTitleChanged:
		return e.windowTitleChanged(ev)
	case platform.WindowActivated:
		return e.windowActivated(ev.ID)
	case platform.GrabStarted:
		return e.grabStarted(ev)
	case platform.GrabEnded:
		return e.grabEnded(ev.ID)
	case platform.PointerPressed:
		return e.BeginDrag(ev.X, ev.Y)
	case platform.PointerMoved:
		return e.UpdateDrag(ev.X, ev.Y)
	case platform.PointerReleased:
		return e.EndDrag(ev.X, ev.Y)
	case platform.SelectBegan:
		return e.BeginSelect(ev.X, ev.Y)
	case platform.SelectMoved:
		return e.UpdateSelect(ev.X, ev.Y)
	case platform.SelectEnded:
		return e.EndSelect()
	case platform.Cancel:
		return e.Cancel()
	}
	return false
}

// Tick advances every time-based effect by delta: the drag hover timer,
// change and tabbing animations, tab-bar springs and fades. The pending
// queue is drained last.
func (e *Engine) Tick(delta time.Duration) {
	if delta < 0 {
		delta = 0
	}

	e.stepHover(delta)

	groups := append([]*Group(nil), e.groups...)
	for _, g := range groups {
		if g.deleted {
			continue
		}
		e.stepChange(g, delta)
		if g.deleted {
			continue
		}
		e.stepTabbing(g, delta)
	}

	for _, g := range e.groups {
		if g.bar == nil {
			continue
		}
		before := g.bar.Region
		moving := g.bar.Step(delta)
		fading := g.bar.StepFades(delta)
		if moving || fading {
			e.damage(before.Union(g.bar.Region))
		}
	}

	e.drainQueue()
}

// ToggleIgnore suspends group propagation while on is true.
func (e *Engine) ToggleIgnore(on bool) {
	e.ignore = on
}

// Ignoring reports whether propagation is suspended.
func (e *Engine) Ignoring() bool { return e.ignore }

func ms(n int) time.Duration {
	return time.Duration(n) * time.Millisecond
}

func (e *Engine) autoTabEligible(w *window) bool {
	return e.cfg.AutoTabCreate && e.matcher.Matches(w.info)
}

func (e *Engine) windowLog(w *window) logrus.FieldLogger {
	fields := logrus.Fields{"window": w.id}
	if w.group != nil {
		fields["group"] = w.group.identifier
	}
	return e.log.WithFields(fields)
}

func (e *Engine) groupLog(g *Group) logrus.FieldLogger {
	return e.log.WithFields(logrus.Fields{"group": g.identifier, "windows": len(g.windows)})
}
