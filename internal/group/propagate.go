package group

import (
	"github.com/1broseidon/tabgroup/internal/platform"
)

func (e *Engine) grabStarted(ev platform.GrabStarted) bool {
	w, ok := e.windows[ev.ID]
	if !ok || w.group == nil || e.ignore {
		return false
	}
	e.endStaleGrabs()
	g := w.group
	g.grabWindow = w.id
	g.grabMask = ev.Mask

	if g.bar != nil {
		if w == g.topTab {
			g.bar.Hide(ms(e.cfg.TabFadeTime))
			e.damage(g.bar.Region)
		}
		return true
	}

	if !e.propagates(ev.Mask) {
		return true
	}
	for _, sib := range g.windows {
		if sib != w {
			e.queueGrab(sib, ev.Mask)
		}
	}
	return true
}

func (e *Engine) grabEnded(id platform.WindowID) bool {
	w, ok := e.windows[id]
	if !ok || w.group == nil || w.group.grabWindow != id {
		return false
	}
	g := w.group
	mask := g.grabMask
	g.grabWindow = 0
	g.grabMask = 0

	if g.bar != nil {
		if w == g.topTab {
			e.syncToTop(g)
			e.recalcBar(g)
			g.bar.Show(ms(e.cfg.TabFadeTime))
		}
		return true
	}

	if !e.propagates(mask) {
		return true
	}
	for _, sib := range g.windows {
		if sib != w {
			sib.needsPosSync = false
			e.queueUngrab(sib)
		}
	}
	return true
}

// endStaleGrabs finishes grabs whose end was never reported. The pointer
// drives one grab at a time, so a new grab means every earlier one is over.
func (e *Engine) endStaleGrabs() {
	for _, g := range e.groups {
		if g.grabWindow == 0 {
			continue
		}
		e.groupLog(g).WithField("window", uint32(g.grabWindow)).Debug("ending stale grab")
		if !e.grabEnded(g.grabWindow) {
			g.grabWindow, g.grabMask = 0, 0
		}
	}
}

func (e *Engine) propagates(mask platform.GrabMask) bool {
	return (mask&platform.GrabMove != 0 && e.cfg.MoveAll) ||
		(mask&platform.GrabResize != 0 && e.cfg.ResizeAll)
}

// syncToTop re-centers hidden members on the top tab after it moved.
func (e *Engine) syncToTop(g *Group) {
	top := g.topTab
	if top == nil {
		return
	}
	c := top.info.Geometry.Center()
	for _, m := range g.windows {
		if m == top || m.leaving || m.animate != 0 || !m.needsPosSync {
			continue
		}
		m.needsPosSync = false
		if r := m.centeredOn(c); r != m.info.Geometry {
			e.queueMove(m, r)
		}
	}
}

func (e *Engine) windowConfigured(ev platform.WindowConfigured) bool {
	w, ok := e.windows[ev.ID]
	if !ok {
		return false
	}
	old := w.info.Geometry
	if old == ev.Geometry {
		return false
	}
	before := glowBounds(w)
	w.info.Geometry = ev.Geometry
	e.updateGlow(w)
	e.damage(before.Union(glowBounds(w)))

	g := w.group
	if g == nil || e.draining {
		return true
	}

	if g.bar != nil {
		if w == g.topTab {
			for _, m := range g.windows {
				if m != w {
					m.needsPosSync = true
				}
			}
			if g.grabWindow != w.id {
				e.syncToTop(g)
			}
			e.recalcBar(g)
		}
		return true
	}

	if e.ignore || g.grabWindow != w.id {
		return true
	}

	dx := ev.Geometry.X - old.X
	dy := ev.Geometry.Y - old.Y
	dw := ev.Geometry.Width - old.Width
	dh := ev.Geometry.Height - old.Height

	if dw != 0 || dh != 0 {
		if g.grabMask&platform.GrabResize != 0 && e.cfg.ResizeAll {
			e.propagateResize(g, w, old, ev.Geometry)
		}
		return true
	}
	if (dx != 0 || dy != 0) && g.grabMask&platform.GrabMove != 0 && e.cfg.MoveAll {
		e.propagateMove(g, w, dx, dy, ev.ViewportChange)
	}
	return true
}

// propagateMove queues the grabbed window's delta for every sibling.
// Maximized siblings stay pinned: they only take the inverse delta when the
// move was a viewport wrap, which the viewport already applied to them.
func (e *Engine) propagateMove(g *Group, w *window, dx, dy int, viewportChange bool) {
	for _, sib := range g.windows {
		if sib == w {
			continue
		}
		r := sib.info.Geometry
		switch {
		case sib.info.Max.Maximized():
			if !viewportChange {
				continue
			}
			r = r.Translate(-dx, -dy)
		default:
			if viewportChange {
				continue
			}
			r = r.Translate(dx, dy)
		}
		e.queueMove(sib, r)
	}
}

// propagateResize applies the grabbed window's resize to non-maximized
// siblings. In relative mode the position offset grows with each sibling's
// distance from the grabbed window.
func (e *Engine) propagateResize(g *Group, w *window, old, cur platform.Rect) {
	dx := cur.X - old.X
	dy := cur.Y - old.Y
	dw := cur.Width - old.Width
	dh := cur.Height - old.Height

	for _, sib := range g.windows {
		if sib == w || sib.info.Max.Maximized() {
			continue
		}
		s := sib.info.Geometry
		offX, offY := dx, dy
		if e.cfg.RelativeDistance {
			offX = relativeOffset(s.X-old.X, dx, dw, cur.Width)
			offY = relativeOffset(s.Y-old.Y, dy, dh, cur.Height)
		}
		width, height := sib.info.Hints.Constrain(s.Width+dw, s.Height+dh)
		e.queueMove(sib, platform.Rect{X: s.X + offX, Y: s.Y + offY, Width: width, Height: height})
	}
}

// relativeOffset scales the resize delta by distance/original size. A zero
// original size falls back to the absolute delta.
func relativeOffset(distance, delta, sizeDelta, newSize int) int {
	base := newSize - sizeDelta
	if base == 0 {
		return delta
	}
	return delta + distance*sizeDelta/base
}
