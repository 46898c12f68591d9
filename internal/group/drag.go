package group

import (
	"time"

	"github.com/1broseidon/tabgroup/internal/platform"
	"github.com/1broseidon/tabgroup/internal/tabbar"
)

type dragState struct {
	group  *Group
	slot   tabbar.SlotID
	window platform.WindowID
	startX int
	startY int
	x, y   int

	hover          platform.WindowID
	hoverRemaining time.Duration
}

// Dragging reports whether a tab is being dragged.
func (e *Engine) Dragging() bool { return e.drag != nil }

// barAt finds the visible tab bar and slot under the point.
func (e *Engine) barAt(x, y int) (*Group, tabbar.SlotID) {
	for i := len(e.groups) - 1; i >= 0; i-- {
		g := e.groups[i]
		if g.bar == nil || !g.bar.State.Visible() || g.untabbing {
			continue
		}
		if id := g.bar.SlotAt(x, y); id.Valid() {
			return g, id
		}
	}
	return nil, tabbar.NoSlot
}

// BeginDrag picks up the slot under the pointer.
func (e *Engine) BeginDrag(x, y int) bool {
	if e.drag != nil || e.rubber != nil {
		return false
	}
	g, id := e.barAt(x, y)
	if g == nil {
		return false
	}
	w := e.windows[g.bar.Slot(id).Window]
	if w == nil || w.leaving {
		return false
	}
	e.drag = &dragState{group: g, slot: id, window: w.id, startX: x, startY: y, x: x, y: y}
	e.windowLog(w).Debug("tab drag started")
	return true
}

// UpdateDrag moves the dragged slot with the pointer and arms the hover
// timer over other slots.
func (e *Engine) UpdateDrag(x, y int) bool {
	d := e.drag
	if d == nil {
		return false
	}
	d.x, d.y = x, y
	if d.group.bar == nil {
		e.cancelDrag()
		return false
	}
	d.group.bar.SetDrag(d.slot, float64(x-d.startX))
	e.damage(d.group.bar.Region)

	var hover platform.WindowID
	if g, id := e.barAt(x, y); g != nil && id != d.slot {
		hover = g.bar.Slot(id).Window
	}
	if hover != d.hover {
		d.hover = hover
		d.hoverRemaining = ms(e.cfg.DragHoverTime)
	}
	return true
}

// stepHover fires the hover-activate timer.
func (e *Engine) stepHover(delta time.Duration) {
	d := e.drag
	if d == nil || d.hover == 0 {
		return
	}
	d.hoverRemaining -= delta
	if d.hoverRemaining > 0 {
		return
	}
	target := d.hover
	d.hover = 0
	e.ChangeTab(target)
}

// EndDrag drops the dragged slot. Over another slot it is reordered, and
// moved into the target's group when that differs. Elsewhere it snaps back
// or leaves its group for the drop point.
func (e *Engine) EndDrag(x, y int) bool {
	d := e.drag
	if d == nil {
		return false
	}
	e.drag = nil
	src := d.group
	if src.bar == nil {
		return false
	}
	src.bar.ClearDrag()
	e.damage(src.bar.Region)

	w := e.windows[d.window]
	if w == nil || w.group != src {
		return false
	}

	g, target := e.barAt(x, y)
	if g != nil && target == d.slot {
		return true
	}
	if g != nil {
		ts := g.bar.Slot(target)
		after := x >= ts.Region.Center().X
		if g == src {
			if after {
				src.bar.MoveAfter(d.slot, target)
			} else {
				src.bar.MoveBefore(d.slot, target)
			}
			e.recalcBar(src)
			e.notifyGroupChanged(src)
			return true
		}
		return e.reparent(w, g, target, after)
	}

	if e.cfg.DragSnapBack || len(src.windows) <= 1 {
		return true
	}
	c := w.centeredOn(platform.Point{X: x, Y: y})
	dest := platform.Point{X: c.X, Y: c.Y}
	e.beginLeave(src, w, false, &dest)
	return true
}

// reparent moves w into the tabbed group g next to target.
func (e *Engine) reparent(w *window, g *Group, target tabbar.SlotID, after bool) bool {
	return e.addWindow(w.id, g, 0, g.bar.Slot(target).Window, after)
}

func (e *Engine) cancelDrag() {
	d := e.drag
	if d == nil {
		return
	}
	e.drag = nil
	if d.group.bar != nil {
		d.group.bar.ClearDrag()
		e.damage(d.group.bar.Region)
	}
}

// Cancel aborts a tab drag or a rubber-band selection.
func (e *Engine) Cancel() bool {
	switch {
	case e.drag != nil:
		e.cancelDrag()
		return true
	case e.rubber != nil:
		e.damage(e.rubber.rect())
		e.rubber = nil
		return true
	}
	return false
}
