package group

import (
	"slices"

	"github.com/BurntSushi/xgbutil/xrect"

	"github.com/1broseidon/tabgroup/internal/platform"
	"github.com/1broseidon/tabgroup/internal/quadtree"
)

type rubberBand struct {
	start platform.Point
	cur   platform.Point
}

func (r *rubberBand) rect() platform.Rect {
	return platform.RectFromPoints(r.start, r.cur)
}

// BeginSelect anchors a rubber-band rectangle at x, y.
func (e *Engine) BeginSelect(x, y int) bool {
	if e.rubber != nil || e.drag != nil {
		return false
	}
	e.rubber = &rubberBand{start: platform.Point{X: x, Y: y}, cur: platform.Point{X: x, Y: y}}
	return true
}

// UpdateSelect extends the rubber band to x, y.
func (e *Engine) UpdateSelect(x, y int) bool {
	if e.rubber == nil {
		return false
	}
	before := e.rubber.rect()
	e.rubber.cur = platform.Point{X: x, Y: y}
	e.damage(before.Union(e.rubber.rect()).Union(platform.Rect{X: x, Y: y, Width: 1, Height: 1}))
	return true
}

// SelectionRect returns the live rubber band, if any.
func (e *Engine) SelectionRect() (platform.Rect, bool) {
	if e.rubber == nil {
		return platform.Rect{}, false
	}
	return e.rubber.rect(), true
}

// EndSelect toggles every eligible window sufficiently visible inside the
// rubber band. A zero-size band toggles the topmost window under the point.
func (e *Engine) EndSelect() bool {
	if e.rubber == nil {
		return false
	}
	band := e.rubber.rect()
	start := e.rubber.start
	e.rubber = nil
	e.damage(band)

	stack, err := e.backend.Stacking()
	if err != nil {
		e.log.WithError(err).Debug("stacking query failed")
		return false
	}

	if band.Empty() {
		for _, id := range stack {
			w, ok := e.windows[id]
			if !ok || !e.selectable(w) {
				continue
			}
			if w.frame().Contains(start.X, start.Y) {
				e.toggleWithGroup(w)
				return true
			}
		}
		return false
	}

	screen, err := e.backend.Screen()
	if err != nil || screen.Empty() {
		screen = band
	}
	tree := e.visibleTree(stack, screen)
	counted := make(map[*Group]bool)
	changed := false
	for i, id := range stack {
		w, ok := e.windows[id]
		if !ok || !e.selectable(w) {
			continue
		}
		if w.group != nil && counted[w.group] {
			continue
		}
		frame := w.frame()
		area := frame.Width * frame.Height
		if area <= 0 {
			continue
		}
		precision := e.cfg.SelectPrecision
		overlap := xrect.IntersectArea(
			xrect.New(band.X, band.Y, band.Width, band.Height),
			xrect.New(frame.X, frame.Y, frame.Width, frame.Height),
		)
		if overlap*100 < precision*area {
			continue
		}
		clip := band.Intersect(frame).Translate(-screen.X, -screen.Y)
		visible := tree.Area(quadtree.Region{X: clip.X, Y: clip.Y, Width: clip.Width, Height: clip.Height}, i+1)
		if visible*100 < precision*area {
			continue
		}
		if w.group != nil {
			counted[w.group] = true
		}
		e.toggleWithGroup(w)
		changed = true
	}
	return changed
}

// visibleTree paints every viewable window bottom to top, labelled by its
// stacking index plus one, so later windows occlude earlier ones.
func (e *Engine) visibleTree(stack []platform.WindowID, screen platform.Rect) *quadtree.Node {
	tree := quadtree.New(max(screen.Width, screen.Height))
	for i := len(stack) - 1; i >= 0; i-- {
		w, ok := e.windows[stack[i]]
		if !ok || !w.info.Mapped || w.info.Minimized || w.hidden {
			continue
		}
		r := w.frame().Intersect(screen).Translate(-screen.X, -screen.Y)
		tree.SetRegion(quadtree.Region{X: r.X, Y: r.Y, Width: r.Width, Height: r.Height}, i+1)
	}
	return tree
}

func (e *Engine) selectable(w *window) bool {
	return w.eligible(e.matcher) && w.info.Mapped && !w.info.Minimized && !w.hidden && !w.leaving
}

// SelectSingle toggles window id, or every member of its group, in the
// selection.
func (e *Engine) SelectSingle(id platform.WindowID) bool {
	w, ok := e.windows[id]
	if !ok || !w.eligible(e.matcher) {
		return false
	}
	e.toggleWithGroup(w)
	return true
}

func (e *Engine) toggleWithGroup(w *window) {
	if w.group == nil {
		e.toggle(w)
		return
	}
	for _, m := range append([]*window(nil), w.group.windows...) {
		e.toggle(m)
	}
}

func (e *Engine) toggle(w *window) {
	if w.inSelection {
		e.unselect(w)
		return
	}
	w.inSelection = true
	e.selection = append(e.selection, w)
	e.damage(w.frame())
}

func (e *Engine) unselect(w *window) {
	w.inSelection = false
	for i, s := range e.selection {
		if s == w {
			e.selection = append(e.selection[:i], e.selection[i+1:]...)
			break
		}
	}
	e.damage(w.frame())
}

// Selected returns the selected window ids.
func (e *Engine) Selected() []platform.WindowID {
	out := make([]platform.WindowID, len(e.selection))
	for i, w := range e.selection {
		out[i] = w.id
	}
	return out
}

// CancelSelection clears the selection and any rubber band.
func (e *Engine) CancelSelection() bool {
	if len(e.selection) == 0 && e.rubber == nil {
		return false
	}
	if e.rubber != nil {
		e.damage(e.rubber.rect())
		e.rubber = nil
	}
	for _, w := range e.selection {
		w.inSelection = false
		e.damage(w.frame())
	}
	e.selection = nil
	return true
}

// CommitSelection merges the selection into one group, reusing a tabbed
// group among the selected windows first, then any existing group.
func (e *Engine) CommitSelection() bool {
	if len(e.selection) == 0 {
		return false
	}
	selected := e.selection
	e.selection = nil
	for _, w := range selected {
		w.inSelection = false
		e.damage(w.frame())
	}

	return e.merge(selected)
}

// GroupWindows merges the given windows into one group the way a
// committed selection does. Unknown ids are skipped.
func (e *Engine) GroupWindows(ids []platform.WindowID) bool {
	var windows []*window
	for _, id := range ids {
		if w, ok := e.windows[id]; ok && !slices.Contains(windows, w) {
			windows = append(windows, w)
		}
	}
	if len(windows) == 0 {
		return false
	}
	return e.merge(windows)
}

// merge reuses a tabbed group among windows first, then any existing group.
func (e *Engine) merge(windows []*window) bool {
	var target *Group
	for _, w := range windows {
		if w.group != nil && w.group.bar != nil && !w.group.untabbing {
			target = w.group
			break
		}
	}
	if target == nil {
		for _, w := range windows {
			if w.group != nil {
				target = w.group
				break
			}
		}
	}

	changed := false
	for _, w := range windows {
		if e.windows[w.id] != w {
			continue
		}
		if target != nil && target.deleted {
			target = nil
		}
		if w.group != nil && w.group == target {
			continue
		}
		if e.AddWindowToGroup(w.id, target, 0) {
			target = w.group
			changed = true
		}
	}
	if target != nil {
		e.groupLog(target).Debug("windows grouped")
	}
	return changed
}
