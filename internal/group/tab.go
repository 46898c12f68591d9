package group

import (
	"math"
	"time"

	"github.com/1broseidon/tabgroup/internal/platform"
	"github.com/1broseidon/tabgroup/internal/tabbar"
)

// TabGroup gives the group of window id a tab bar with one slot per member
// in join order. Window id becomes the top tab and every other member flies
// in to be centered on it.
func (e *Engine) TabGroup(id platform.WindowID) bool {
	w, ok := e.windows[id]
	if !ok || w.group == nil || w.leaving {
		return false
	}
	g := w.group
	if g.bar != nil {
		return false
	}

	bar := tabbar.New(e.cfg.ThumbSize, e.cfg.ThumbSpace)
	for _, m := range g.windows {
		m.slot = bar.Append(m.id)
	}
	g.bar = bar
	g.topTab = w
	g.prevTopTab, g.nextTopTab = nil, nil
	g.ungroupState = UngroupNone
	g.untabbing = false
	bar.Recalc(w.frame())

	for _, m := range g.windows {
		e.seedTabIn(g, m)
	}
	g.tabbingState = TabbingFadeIn
	g.tabbingTime = ms(e.cfg.TabbingAnimationTime)
	bar.Show(ms(e.cfg.TabFadeTime))

	for _, m := range g.windows {
		e.writeProperty(m)
	}
	e.damage(bar.Region)
	e.groupLog(g).WithField("top", w.id).Debug("group tabbed")
	e.notifyGroupChanged(g)
	return true
}

// UntabGroup removes the tab bar of the group of window id once every member
// has flown back to its position.
func (e *Engine) UntabGroup(id platform.WindowID) bool {
	g := e.GroupOf(id)
	if g == nil {
		return false
	}
	return e.untab(g)
}

func (e *Engine) untab(g *Group) bool {
	if g.bar == nil || g.untabbing {
		return false
	}
	g.untabbing = true
	top := g.topTab
	for _, m := range g.windows {
		if m.leaving {
			continue
		}
		if m == top || top == nil {
			m.animate = 0
			m.tx, m.ty = 0, 0
			continue
		}
		e.setHidden(m, false)
		e.seedTabOut(m, e.tabOutDestination(g, m))
	}
	g.tabbingState = TabbingFadeOut
	g.tabbingTime = ms(e.cfg.TabbingAnimationTime)
	g.bar.Hide(ms(e.cfg.TabFadeTime))
	e.groupLog(g).Debug("group untabbing")
	return true
}

// destroyBar drops the tab bar and every slot reference.
func (e *Engine) destroyBar(g *Group) {
	if g.bar == nil {
		return
	}
	e.damage(g.bar.Region)
	if e.drag != nil && e.drag.group == g {
		e.cancelDrag()
	}
	for _, m := range g.windows {
		m.slot = tabbar.NoSlot
		m.animate = 0
		m.tx, m.ty = 0, 0
		e.setHidden(m, false)
	}
	g.bar = nil
	g.topTab, g.prevTopTab, g.nextTopTab = nil, nil, nil
	g.changeState = ChangeOff
	g.changeTime = 0
	g.tabbingState = TabbingOff
	g.tabbingTime = 0
	g.untabbing = false
	for _, m := range g.windows {
		e.writeProperty(m)
	}
	e.groupLog(g).Debug("tab bar removed")
	e.notifyGroupChanged(g)
}

func (e *Engine) recalcBar(g *Group) {
	if g.bar == nil {
		return
	}
	before := g.bar.Region
	if g.topTab != nil {
		g.bar.Recalc(g.topTab.frame())
	} else if len(g.windows) > 0 {
		g.bar.Recalc(g.windows[0].frame())
	}
	e.damage(before.Union(g.bar.Region))
}

// seedTabIn starts w flying from its position to the top tab's center.
func (e *Engine) seedTabIn(g *Group, w *window) {
	top := g.topTab
	w.orgPos = w.origin()
	w.tx, w.ty = 0, 0
	w.xVelocity, w.yVelocity = 0, 0
	if top == nil || top == w {
		w.mainTabOffset = platform.Point{}
		w.destination = w.orgPos
	} else {
		w.mainTabOffset = platform.Point{X: w.orgPos.X - top.info.Geometry.X, Y: w.orgPos.Y - top.info.Geometry.Y}
		d := w.centeredOn(top.info.Geometry.Center())
		w.destination = platform.Point{X: d.X, Y: d.Y}
	}
	w.orgDist = math.Hypot(float64(w.destination.X-w.orgPos.X), float64(w.destination.Y-w.orgPos.Y))
	w.animate = animated
	if w.orgDist == 0 {
		w.animate = finishedAnimation
	}
}

// seedTabOut starts w flying from where it is drawn to dest.
func (e *Engine) seedTabOut(w *window, dest platform.Point) {
	x, y := float64(w.info.Geometry.X), float64(w.info.Geometry.Y)
	if w.animate&animated != 0 {
		x, y = w.current()
	}
	w.orgPos = w.origin()
	w.tx = x - float64(w.orgPos.X)
	w.ty = y - float64(w.orgPos.Y)
	w.xVelocity, w.yVelocity = 0, 0
	w.destination = dest
	w.orgDist = w.remaining()
	w.animate = animated
	if w.orgDist == 0 {
		w.animate = finishedAnimation
	}
}

func (e *Engine) tabOutDestination(g *Group, w *window) platform.Point {
	top := g.topTab
	if top == nil || top == w {
		return w.origin()
	}
	return platform.Point{
		X: top.info.Geometry.X + w.mainTabOffset.X,
		Y: top.info.Geometry.Y + w.mainTabOffset.Y,
	}
}

// switchTopImmediately hands the top tab from w to a neighbor without a
// change animation.
func (e *Engine) switchTopImmediately(g *Group, w *window) {
	var stale *window
	if g.changeState != ChangeOff {
		g.changeState = ChangeOff
		g.changeTime = 0
		if g.prevTopTab != w {
			stale = g.prevTopTab
		}
		g.prevTopTab = nil
	}
	var next *window
	if g.bar != nil && w.slot.Valid() {
		slots := g.bar.Slots()
		at := g.bar.Index(w.slot)
		order := make([]int, 0, len(slots))
		for i := at + 1; i < len(slots); i++ {
			order = append(order, i)
		}
		for i := at - 1; i >= 0; i-- {
			order = append(order, i)
		}
		for _, i := range order {
			cand := e.windows[slots[i].Window]
			if cand != nil && cand != w && !cand.leaving {
				next = cand
				break
			}
		}
	}
	g.topTab = next
	if next == nil {
		return
	}
	if g.nextTopTab == next {
		g.nextTopTab = nil
	}
	if stale != nil && stale != next && !stale.leaving && !g.untabbing {
		e.setHidden(stale, true)
	}
	e.setHidden(next, false)
	if !g.untabbing {
		next.animate = 0
		next.tx, next.ty = 0, 0
		if r := next.centeredOn(w.info.Geometry.Center()); r != next.info.Geometry {
			e.queueMove(next, r)
		}
	}
	e.recalcBar(g)
	e.groupLog(g).WithField("top", next.id).Debug("top tab switched")
}

// TabbingProgress returns how far window id is through its tabbing
// animation, in [0, 1]. A window that is not animating reports 1.
func (e *Engine) TabbingProgress(id platform.WindowID) float64 {
	w, ok := e.windows[id]
	if !ok {
		return 1
	}
	return w.tabbingProgress()
}

func (w *window) tabbingProgress() float64 {
	if w.animate&animated == 0 || w.orgDist == 0 {
		return 1
	}
	p := 1 - w.remaining()/w.orgDist
	return min(max(p, 0), 1)
}

// GroupTabbingProgress is the least advanced member's progress.
func (e *Engine) GroupTabbingProgress(g *Group) float64 {
	p := 1.0
	for _, w := range g.windows {
		p = min(p, w.tabbingProgress())
	}
	return p
}

func (e *Engine) stepTabbing(g *Group, delta time.Duration) {
	if g.tabbingState != TabbingFadeIn && g.tabbingState != TabbingFadeOut {
		return
	}

	dt := float64(delta) / float64(time.Millisecond)
	left := float64(g.tabbingTime) / float64(time.Millisecond)
	running := false
	for _, w := range g.windows {
		if w.animate&animated == 0 {
			continue
		}
		x, y := w.current()
		dx := float64(w.destination.X) - x
		dy := float64(w.destination.Y) - y
		if math.Hypot(dx, dy) < 0.5 || left <= dt {
			w.tx = float64(w.destination.X - w.orgPos.X)
			w.ty = float64(w.destination.Y - w.orgPos.Y)
			w.xVelocity, w.yVelocity = 0, 0
			w.animate = finishedAnimation
			e.damage(glowBounds(w))
			continue
		}
		// Cover a share of the remaining distance proportional to the share
		// of remaining time, front-loaded so the motion eases out.
		frac := min(1, 2*dt/left)
		stepX, stepY := dx*frac, dy*frac
		w.tx += stepX
		w.ty += stepY
		if dt > 0 {
			w.xVelocity, w.yVelocity = stepX/dt, stepY/dt
		}
		running = true
		e.damage(glowBounds(w))
	}
	g.tabbingTime -= delta
	if g.tabbingTime < 0 {
		g.tabbingTime = 0
	}
	if !running {
		e.finishTabbing(g)
	}
}

// finishTabbing settles every member once no window is still moving.
func (e *Engine) finishTabbing(g *Group) {
	var leavers []*window
	members := append([]*window(nil), g.windows...)
	for _, w := range members {
		if w.animate == 0 && !w.leaving {
			continue
		}
		w.animate = 0
		w.tx, w.ty = 0, 0
		target := w.info.Geometry
		target.X, target.Y = w.destination.X, w.destination.Y

		switch {
		case w.leaving || g.untabbing:
			if target != w.info.Geometry {
				e.queueMove(w, target)
			}
			if w.leaving {
				leavers = append(leavers, w)
			}
		default:
			if target != w.info.Geometry {
				e.queueMove(w, target)
			}
			if w != g.topTab {
				e.setHidden(w, true)
			}
		}
		w.orgPos = w.destination
	}

	untabbed := g.untabbing
	if untabbed {
		e.destroyBar(g)
	} else if g.bar != nil {
		g.tabbingState = TabbingOn
	} else {
		g.tabbingState = TabbingOff
	}

	for _, w := range leavers {
		if w.group != g {
			continue
		}
		regroup := w.regroup
		e.detach(w)
		e.afterRemoval(g, w, regroup)
	}

	if g.deleted {
		return
	}
	if untabbed && g.ungroupState == UngroupAll {
		e.freeGroup(g)
		return
	}
	if g.ungroupState == UngroupSingle {
		g.ungroupState = UngroupNone
	}
	e.groupLog(g).WithField("state", g.tabbingState).Debug("tabbing finished")
	e.notifyGroupChanged(g)
}
