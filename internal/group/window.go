package group

import (
	"math"
	"slices"

	"github.com/1broseidon/tabgroup/internal/platform"
	"github.com/1broseidon/tabgroup/internal/tabbar"
)

type animateState uint8

const (
	animated animateState = 1 << iota
	finishedAnimation
)

// window is the registry entry for one managed window.
type window struct {
	id   platform.WindowID
	info platform.WindowInfo

	group *Group
	slot  tabbar.SlotID

	animate     animateState
	tx, ty      float64
	xVelocity   float64
	yVelocity   float64
	orgPos      platform.Point
	destination platform.Point

	// mainTabOffset is the window's position relative to the top tab when it
	// joined; tabbing out restores it.
	mainTabOffset platform.Point
	orgDist       float64

	inSelection  bool
	needsPosSync bool
	leaving      bool
	regroup      bool
	hidden       bool

	glow []GlowQuad
}

func (w *window) frame() platform.Rect {
	return w.info.Extents.Outer(w.info.Geometry)
}

func (w *window) origin() platform.Point {
	return platform.Point{X: w.info.Geometry.X, Y: w.info.Geometry.Y}
}

// current returns the interpolated client origin while animating.
func (w *window) current() (float64, float64) {
	return float64(w.orgPos.X) + w.tx, float64(w.orgPos.Y) + w.ty
}

func (w *window) remaining() float64 {
	x, y := w.current()
	return math.Hypot(float64(w.destination.X)-x, float64(w.destination.Y)-y)
}

// centeredOn returns w's client rect moved so its center is c.
func (w *window) centeredOn(c platform.Point) platform.Rect {
	g := w.info.Geometry
	return platform.Rect{X: c.X - g.Width/2, Y: c.Y - g.Height/2, Width: g.Width, Height: g.Height}
}

func (w *window) eligible(m Matcher) bool {
	return !w.info.Invisible && m.Matches(w.info)
}

func (e *Engine) windowCreated(info platform.WindowInfo) bool {
	if info.ID == 0 {
		return false
	}
	if _, ok := e.windows[info.ID]; ok {
		return false
	}
	w := &window{id: info.ID, info: info}
	e.windows[info.ID] = w
	e.windowLog(w).WithField("class", info.Class).Debug("window registered")

	if e.restoreMembership(w) {
		return true
	}
	if !w.eligible(e.matcher) {
		return true
	}
	switch {
	case e.cfg.AutoTabCreate:
		e.queueAction(w.id, func() {
			if w.group == nil {
				e.AddWindowToGroup(w.id, nil, 0)
			}
			e.TabGroup(w.id)
		})
	case e.cfg.AutoGroup:
		e.AddWindowToGroup(w.id, nil, 0)
	}
	return true
}

func (e *Engine) windowDestroyed(id platform.WindowID) bool {
	w, ok := e.windows[id]
	if !ok {
		return false
	}
	if w.inSelection {
		e.unselect(w)
	}
	if e.drag != nil && (e.drag.window == id || e.drag.hover == id) {
		if e.drag.window == id {
			e.cancelDrag()
		} else {
			e.drag.hover = 0
		}
	}

	if g := w.group; g != nil {
		if e.cfg.UntabOnClose && g.bar != nil && g.topTab == w && len(g.windows) > 1 {
			e.untab(g)
		}
		e.detach(w)
		e.afterRemoval(g, w, false)
	}
	e.damage(w.frame())
	delete(e.windows, id)
	e.windowLog(w).Debug("window unregistered")
	return true
}

func (e *Engine) setMapped(id platform.WindowID, mapped bool) bool {
	w, ok := e.windows[id]
	if !ok || w.info.Mapped == mapped {
		return false
	}
	w.info.Mapped = mapped
	e.damage(w.frame())
	return true
}

func (e *Engine) windowStateChanged(ev platform.WindowStateChanged) bool {
	w, ok := e.windows[ev.ID]
	if !ok {
		return false
	}
	wasMinimized := w.info.Minimized
	w.info.Max = ev.Max
	w.info.Minimized = ev.Minimized

	g := w.group
	if g == nil || e.ignore || e.draining || w.hidden {
		return true
	}
	if ev.Minimized && !wasMinimized && e.cfg.MinimizeAll {
		for _, sib := range g.windows {
			if sib == w || sib.info.Minimized || sib.hidden {
				continue
			}
			sib.info.Minimized = true
			e.queueAction(sib.id, func() {
				if err := e.backend.Minimize(sib.id); err != nil {
					e.windowLog(sib).WithError(err).Debug("minimize sibling failed")
				}
			})
		}
	}
	return true
}

func (e *Engine) windowTitleChanged(ev platform.WindowTitleChanged) bool {
	w, ok := e.windows[ev.ID]
	if !ok || w.info.Title == ev.Title {
		return false
	}
	w.info.Title = ev.Title
	if g := w.group; g != nil && g.bar != nil && g.topTab == w {
		fade := ms(e.cfg.TabFadeTime)
		g.bar.Text.Hide(fade)
		g.bar.Text.Show(fade)
		e.damage(g.bar.Region)
	}
	return true
}

func (e *Engine) windowActivated(id platform.WindowID) bool {
	w, ok := e.windows[id]
	if !ok || w.group == nil || e.ignore {
		return false
	}
	g := w.group
	if g.bar != nil {
		if w != g.topTab && w.slot.Valid() && !w.leaving {
			return e.changeTab(g, w)
		}
		return false
	}
	if !e.cfg.RaiseAll {
		return false
	}
	for _, sib := range g.windows {
		if sib == w {
			continue
		}
		e.queueAction(sib.id, func() {
			if err := e.backend.Raise(sib.id); err != nil {
				e.windowLog(sib).WithError(err).Debug("raise sibling failed")
			}
		})
	}
	e.queueAction(w.id, func() {
		if err := e.backend.Raise(w.id); err != nil {
			e.windowLog(w).WithError(err).Debug("raise failed")
		}
	})
	return true
}

func (e *Engine) setHidden(w *window, hidden bool) {
	if w.hidden == hidden {
		return
	}
	w.hidden = hidden
	e.queueAction(w.id, func() {
		if err := e.backend.SetHidden(w.id, hidden); err != nil {
			e.windowLog(w).WithError(err).Debug("set hidden failed")
		}
	})
	e.damage(w.frame())
}

// Window returns the cached state of window id.
func (e *Engine) Window(id platform.WindowID) (platform.WindowInfo, bool) {
	w, ok := e.windows[id]
	if !ok {
		return platform.WindowInfo{}, false
	}
	return w.info, true
}

// WindowIDs returns every registered window in ascending id order.
func (e *Engine) WindowIDs() []platform.WindowID {
	ids := make([]platform.WindowID, 0, len(e.windows))
	for id := range e.windows {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}
