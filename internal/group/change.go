package group

import (
	"time"

	"github.com/1broseidon/tabgroup/internal/platform"
	"github.com/1broseidon/tabgroup/internal/tabbar"
)

// ChangeTab makes window id the top tab of its tabbed group. While a change
// animation runs the request is remembered and chained after it.
func (e *Engine) ChangeTab(id platform.WindowID) bool {
	w, ok := e.windows[id]
	if !ok || w.group == nil || w.group.bar == nil || w.leaving || !w.slot.Valid() {
		return false
	}
	return e.changeTab(w.group, w)
}

// ChangeTabLeft activates the slot left of the current (or pending) top tab,
// wrapping at the end.
func (e *Engine) ChangeTabLeft(id platform.WindowID) bool {
	return e.cycleTab(id, -1)
}

// ChangeTabRight activates the slot right of the current (or pending) top
// tab, wrapping at the end.
func (e *Engine) ChangeTabRight(id platform.WindowID) bool {
	return e.cycleTab(id, 1)
}

func (e *Engine) cycleTab(id platform.WindowID, dir int) bool {
	g := e.GroupOf(id)
	if g == nil || g.bar == nil || g.topTab == nil {
		return false
	}
	base := g.topTab
	if g.nextTopTab != nil {
		base = g.nextTopTab
	}
	cur := base.slot
	for range g.bar.Len() {
		if dir < 0 {
			cur = g.bar.Prev(cur)
			if !cur.Valid() {
				cur = g.bar.Last()
			}
		} else {
			cur = g.bar.Next(cur)
			if !cur.Valid() {
				cur = g.bar.First()
			}
		}
		if cur == base.slot {
			return false
		}
		if w := e.windows[g.bar.Slot(cur).Window]; w != nil && !w.leaving {
			return e.changeTab(g, w)
		}
	}
	return false
}

func (e *Engine) changeTab(g *Group, w *window) bool {
	if g.bar == nil || w.group != g || !w.slot.Valid() {
		return false
	}
	if g.changeState != ChangeOff {
		if w == g.topTab && g.nextTopTab == nil {
			return false
		}
		if w == g.topTab {
			g.nextTopTab = nil
		} else {
			g.nextTopTab = w
		}
		return true
	}
	if w == g.topTab {
		return false
	}

	old := g.topTab
	g.prevTopTab = old
	g.topTab = w
	g.changeDir = e.shorterArc(g.bar, old, w)
	w.animate = 0
	w.tx, w.ty = 0, 0

	if old != nil {
		if r := w.centeredOn(old.info.Geometry.Center()); r != w.info.Geometry {
			e.queueMove(w, r)
		}
	}
	e.queueAction(w.id, func() {
		if err := e.backend.Raise(w.id); err != nil {
			e.windowLog(w).WithError(err).Debug("raise top tab failed")
		}
		if err := e.backend.Activate(w.id); err != nil {
			e.windowLog(w).WithError(err).Debug("activate top tab failed")
		}
	})
	g.bar.Text.Hide(ms(e.cfg.TabFadeTime))
	e.damage(g.bar.Region)
	e.groupLog(g).WithField("top", w.id).Debug("changing top tab")

	d := ms(e.cfg.ChangeAnimationTime)
	if d <= 0 || old == nil {
		e.swapVisibility(g)
		e.finishChange(g)
		return true
	}
	g.changeState = ChangeFadeIn
	g.changeTime = d
	g.changeDuration = d
	g.changeSwapped = false
	e.notifyGroupChanged(g)
	return true
}

// shorterArc returns +1 when rotating right from a to b in slot order is no
// longer than rotating left, else -1.
func (e *Engine) shorterArc(bar *tabbar.Bar, a, b *window) int {
	if a == nil || b == nil {
		return 1
	}
	n := bar.Len()
	i, j := bar.Index(a.slot), bar.Index(b.slot)
	if n == 0 || i < 0 || j < 0 {
		return 1
	}
	fwd := (j - i + n) % n
	if fwd <= n-fwd {
		return 1
	}
	return -1
}

// ChangeProgress returns the change animation's progress in [0, 1], or 0
// when no change is running.
func (e *Engine) ChangeProgress(g *Group) float64 {
	if g == nil || g.changeState == ChangeOff || g.changeDuration <= 0 {
		return 0
	}
	return 1 - float64(g.changeTime)/float64(g.changeDuration)
}

// ChangeDirection is +1 for a rightward rotation and -1 for leftward.
func (g *Group) ChangeDirection() int { return g.changeDir }

func (e *Engine) stepChange(g *Group, delta time.Duration) {
	if g.changeState == ChangeOff {
		return
	}
	g.changeTime -= delta
	if !g.changeSwapped && g.changeTime <= g.changeDuration/2 {
		e.swapVisibility(g)
	}
	if g.changeTime <= 0 {
		e.finishChange(g)
		return
	}
	if g.topTab != nil {
		e.damage(g.topTab.frame())
	}
}

// swapVisibility is the midpoint of a change: the new top tab is shown.
func (e *Engine) swapVisibility(g *Group) {
	g.changeSwapped = true
	if g.topTab != nil {
		e.setHidden(g.topTab, false)
	}
	if g.bar != nil {
		g.bar.Text.Show(ms(e.cfg.TabFadeTime))
	}
}

func (e *Engine) finishChange(g *Group) {
	g.changeState = ChangeOff
	g.changeTime = 0
	prev := g.prevTopTab
	g.prevTopTab = nil
	if prev != nil && prev.group == g && prev != g.topTab && !prev.leaving && !g.untabbing {
		e.setHidden(prev, true)
	}
	e.recalcBar(g)
	e.notifyGroupChanged(g)

	if next := g.nextTopTab; next != nil {
		g.nextTopTab = nil
		if next.group == g && next != g.topTab && !next.leaving {
			e.changeTab(g, next)
		}
	}
}
