package group

import "github.com/1broseidon/tabgroup/internal/platform"

// DamageObserver is told about screen areas that need repainting.
type DamageObserver interface {
	Damage(r platform.Rect)
}

// GrabObserver receives the synthetic grab notifications propagated to
// group siblings.
type GrabObserver interface {
	GrabNotify(id platform.WindowID, mask platform.GrabMask)
	UngrabNotify(id platform.WindowID)
}

// GroupObserver follows group lifecycle.
type GroupObserver interface {
	GroupChanged(info GroupInfo)
	GroupDeleted(identifier uint64)
}

// Register adds o to every observer chain whose interface it implements.
// Observers are called in registration order.
func (e *Engine) Register(o any) {
	if d, ok := o.(DamageObserver); ok {
		e.damageObservers = append(e.damageObservers, d)
	}
	if g, ok := o.(GrabObserver); ok {
		e.grabObservers = append(e.grabObservers, g)
	}
	if g, ok := o.(GroupObserver); ok {
		e.groupObservers = append(e.groupObservers, g)
	}
}

func (e *Engine) damage(r platform.Rect) {
	if r.Empty() {
		return
	}
	for _, o := range e.damageObservers {
		o.Damage(r)
	}
}

func (e *Engine) notifyGroupChanged(g *Group) {
	if g.deleted || len(e.groupObservers) == 0 {
		return
	}
	info := e.groupInfo(g)
	for _, o := range e.groupObservers {
		o.GroupChanged(info)
	}
}

func (e *Engine) notifyGroupDeleted(g *Group) {
	for _, o := range e.groupObservers {
		o.GroupDeleted(g.identifier)
	}
}
