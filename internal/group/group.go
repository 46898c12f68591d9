package group

import (
	"time"

	"github.com/1broseidon/tabgroup/internal/platform"
	"github.com/1broseidon/tabgroup/internal/tabbar"
)

// TabbingState is the phase of members flying into or out of the tab bar.
type TabbingState int

const (
	TabbingOff TabbingState = iota
	TabbingFadeIn
	TabbingOn
	TabbingFadeOut
)

func (s TabbingState) String() string {
	switch s {
	case TabbingOff:
		return "off"
	case TabbingFadeIn:
		return "fade-in"
	case TabbingOn:
		return "on"
	case TabbingFadeOut:
		return "fade-out"
	default:
		return "unknown"
	}
}

// ChangeState is the phase of a top-tab rotation.
type ChangeState int

const (
	ChangeOff ChangeState = iota
	ChangeFadeIn
)

func (s ChangeState) String() string {
	switch s {
	case ChangeOff:
		return "off"
	case ChangeFadeIn:
		return "fade-in"
	default:
		return "unknown"
	}
}

// UngroupState records pending removal while a tab bar exists.
type UngroupState int

const (
	UngroupNone UngroupState = iota
	UngroupSingle
	UngroupAll
)

func (s UngroupState) String() string {
	switch s {
	case UngroupNone:
		return "none"
	case UngroupSingle:
		return "single"
	case UngroupAll:
		return "all"
	default:
		return "unknown"
	}
}

// Group is a set of windows handled as one unit.
type Group struct {
	identifier uint64
	windows    []*window
	color      [4]uint16

	topTab     *window
	prevTopTab *window
	nextTopTab *window
	bar        *tabbar.Bar

	changeState    ChangeState
	changeTime     time.Duration
	changeDuration time.Duration
	changeDir      int
	changeSwapped  bool

	tabbingState TabbingState
	tabbingTime  time.Duration
	untabbing    bool
	ungroupState UngroupState

	grabWindow platform.WindowID
	grabMask   platform.GrabMask

	deleted bool
}

func (g *Group) Identifier() uint64 { return g.identifier }

func (g *Group) Len() int { return len(g.windows) }

func (g *Group) Color() [4]uint16 { return g.color }

func (g *Group) Tabbed() bool { return g.bar != nil }

func (g *Group) TabbingState() TabbingState { return g.tabbingState }

func (g *Group) ChangeState() ChangeState { return g.changeState }

func (g *Group) UngroupState() UngroupState { return g.ungroupState }

// Deleted reports whether the group has been freed.
func (g *Group) Deleted() bool { return g.deleted }

// Windows returns member ids in join order.
func (g *Group) Windows() []platform.WindowID {
	out := make([]platform.WindowID, len(g.windows))
	for i, w := range g.windows {
		out[i] = w.id
	}
	return out
}

// TopTab returns the active member of a tabbed group, or 0.
func (g *Group) TopTab() platform.WindowID {
	if g.topTab == nil {
		return 0
	}
	return g.topTab.id
}

// Contains reports whether id is a member.
func (g *Group) Contains(id platform.WindowID) bool {
	return g.indexOf(id) >= 0
}

func (g *Group) indexOf(id platform.WindowID) int {
	for i, w := range g.windows {
		if w.id == id {
			return i
		}
	}
	return -1
}

// GroupOf returns the group of window id, or nil.
func (e *Engine) GroupOf(id platform.WindowID) *Group {
	if w, ok := e.windows[id]; ok {
		return w.group
	}
	return nil
}

// GroupByIdentifier returns the live group with the given identifier.
func (e *Engine) GroupByIdentifier(ident uint64) *Group {
	for _, g := range e.groups {
		if g.identifier == ident {
			return g
		}
	}
	return nil
}

func (e *Engine) newGroup(initialIdent uint64) *Group {
	ident := initialIdent
	if ident == 0 || e.GroupByIdentifier(ident) != nil {
		ident = e.nextIdentifier()
	}
	g := &Group{
		identifier: ident,
		color:      e.randomColor(),
	}
	e.groups = append(e.groups, g)
	e.groupLog(g).Debug("group created")
	return g
}

// AddWindowToGroup makes window id a member of g, detaching it from any
// prior group first. A nil g creates a new group, using initialIdent when it
// is non-zero and unused. Joining a tabbed group gives the window a slot and
// starts its tabbing-in animation.
func (e *Engine) AddWindowToGroup(id platform.WindowID, g *Group, initialIdent uint64) bool {
	return e.addWindow(id, g, initialIdent, 0, true)
}

// addWindow is AddWindowToGroup with the new slot placed next to the slot of
// window near, after or before it. A zero or slotless near appends.
func (e *Engine) addWindow(id platform.WindowID, g *Group, initialIdent uint64, near platform.WindowID, after bool) bool {
	w, ok := e.windows[id]
	if !ok {
		return false
	}
	if g != nil && (g.deleted || w.group == g) {
		return false
	}
	if w.leaving {
		return false
	}
	if old := w.group; old != nil {
		e.detach(w)
		e.afterRemoval(old, w, false)
	}
	if g == nil {
		g = e.newGroup(initialIdent)
	}

	g.windows = append(g.windows, w)
	w.group = g
	w.needsPosSync = false

	if g.bar != nil && !w.slot.Valid() {
		w.slot = placeSlot(g.bar, w.id, near, after)
		if g.topTab == nil {
			g.topTab = w
		}
		if g.untabbing {
			w.mainTabOffset = platform.Point{}
		} else {
			e.seedTabIn(g, w)
			g.tabbingState = TabbingFadeIn
			g.tabbingTime = ms(e.cfg.TabbingAnimationTime)
		}
		e.recalcBar(g)
	}

	e.updateGlow(w)
	e.writeProperty(w)
	e.windowLog(w).Debug("window joined group")
	e.notifyGroupChanged(g)
	return true
}

// RemoveFromGroup detaches window id. In a tabbed group with other members
// the window first tabs out and is detached when that animation completes.
// With allowAutoRegroup a detached window that matches the auto-tab policy
// is put back into a tabbed singleton group.
func (e *Engine) RemoveFromGroup(id platform.WindowID, allowAutoRegroup bool) bool {
	w, ok := e.windows[id]
	if !ok || w.group == nil || w.leaving {
		return false
	}
	g := w.group

	if g.bar != nil && len(g.windows) > 1 && !g.untabbing {
		e.beginLeave(g, w, allowAutoRegroup, nil)
		return true
	}

	e.detach(w)
	e.afterRemoval(g, w, allowAutoRegroup)
	return true
}

// beginLeave starts the tabbing-out animation of a single member. A nil dest
// restores the window's offset from the top tab.
func (e *Engine) beginLeave(g *Group, w *window, regroup bool, dest *platform.Point) {
	w.leaving = true
	w.regroup = regroup
	if g.ungroupState == UngroupNone {
		g.ungroupState = UngroupSingle
	}
	if w == g.topTab {
		e.switchTopImmediately(g, w)
	}
	target := e.tabOutDestination(g, w)
	if dest != nil {
		target = *dest
	}
	e.setHidden(w, false)
	e.seedTabOut(w, target)
	g.tabbingState = TabbingFadeOut
	g.tabbingTime = ms(e.cfg.TabbingAnimationTime)
	e.windowLog(w).Debug("window tabbing out")
}

// DeleteGroup dissolves g. With a tab bar this requests "ungroup all" and
// the group is freed once every member has tabbed out.
func (e *Engine) DeleteGroup(g *Group) bool {
	if g == nil || g.deleted {
		return false
	}
	if g.bar != nil {
		g.ungroupState = UngroupAll
		if !g.untabbing {
			e.untab(g)
		}
		return true
	}
	e.freeGroup(g)
	return true
}

// DeleteGroupOf dissolves the group of window id.
func (e *Engine) DeleteGroupOf(id platform.WindowID) bool {
	return e.DeleteGroup(e.GroupOf(id))
}

// detach removes w from its group immediately.
func (e *Engine) detach(w *window) {
	g := w.group
	if g == nil {
		return
	}

	if g.topTab == w {
		e.switchTopImmediately(g, w)
	}
	if g.prevTopTab == w {
		g.prevTopTab = nil
	}
	if g.nextTopTab == w {
		g.nextTopTab = nil
	}
	if g.grabWindow == w.id {
		g.grabWindow = 0
		g.grabMask = 0
	}
	if g.bar != nil && w.slot.Valid() {
		if e.drag != nil && e.drag.slot == w.slot && e.drag.group == g {
			e.cancelDrag()
		}
		g.bar.Remove(w.slot)
	}
	w.slot = tabbar.NoSlot

	if i := g.indexOf(w.id); i >= 0 {
		g.windows = append(g.windows[:i], g.windows[i+1:]...)
	}

	e.damage(glowBounds(w))
	w.group = nil
	w.leaving = false
	w.regroup = false
	w.animate = 0
	w.tx, w.ty = 0, 0
	w.xVelocity, w.yVelocity = 0, 0
	w.needsPosSync = false
	w.glow = nil
	e.setHidden(w, false)
	e.deleteProperty(w)

	if g.bar != nil {
		e.recalcBar(g)
	}
	e.windowLog(w).WithField("group", g.identifier).Debug("window left group")
	e.notifyGroupChanged(g)
}

// afterRemoval applies the membership thresholds once w has left g.
func (e *Engine) afterRemoval(g *Group, w *window, allowAutoRegroup bool) {
	if !g.deleted {
		switch {
		case len(g.windows) == 0:
			e.freeGroup(g)
		case len(g.windows) == 1 && e.cfg.AutoUngroup:
			e.DeleteGroup(g)
		}
	}
	if allowAutoRegroup && e.windows[w.id] == w && w.group == nil && e.autoTabEligible(w) {
		e.queueRegroup(w)
	}
}

// freeGroup detaches every member and drops g from the store.
func (e *Engine) freeGroup(g *Group) {
	if g.deleted {
		return
	}
	members := append([]*window(nil), g.windows...)
	if g.bar != nil {
		e.destroyBar(g)
	}
	for _, w := range members {
		e.detach(w)
	}
	g.deleted = true
	for i, other := range e.groups {
		if other == g {
			e.groups = append(e.groups[:i], e.groups[i+1:]...)
			break
		}
	}
	e.groupLog(g).Debug("group deleted")
	e.notifyGroupDeleted(g)

	for _, w := range members {
		if e.windows[w.id] == w && w.group == nil && e.autoTabEligible(w) {
			e.queueRegroup(w)
		}
	}
}

// queueRegroup puts w into a new tabbed singleton group on the next drain.
func (e *Engine) queueRegroup(w *window) {
	e.queueAction(w.id, func() {
		if w.group != nil {
			return
		}
		if e.AddWindowToGroup(w.id, nil, 0) {
			e.TabGroup(w.id)
		}
	})
}

// RemoveWindow pulls window id out of its group, allowing auto-regroup.
func (e *Engine) RemoveWindow(id platform.WindowID) bool {
	return e.RemoveFromGroup(id, true)
}

func placeSlot(bar *tabbar.Bar, id, near platform.WindowID, after bool) tabbar.SlotID {
	at := tabbar.NoSlot
	if near != 0 {
		at = bar.Find(near)
	}
	switch {
	case !at.Valid():
		return bar.Append(id)
	case after:
		return bar.InsertAfter(at, id)
	default:
		return bar.InsertBefore(at, id)
	}
}
