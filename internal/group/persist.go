package group

import (
	"github.com/1broseidon/tabgroup/internal/platform"
)

func (e *Engine) nextIdentifier() uint64 {
	used := make(map[uint64]bool, len(e.groups))
	for _, g := range e.groups {
		used[g.identifier] = true
	}
	for id := uint64(1); ; id++ {
		if !used[id] {
			return id
		}
	}
}

func (e *Engine) randomColor() [4]uint16 {
	return [4]uint16{
		uint16(e.rng.IntN(0xffff)),
		uint16(e.rng.IntN(0xffff)),
		uint16(e.rng.IntN(0xffff)),
		0xffff,
	}
}

// ChangeColor gives the group of window id a new random color.
func (e *Engine) ChangeColor(id platform.WindowID) bool {
	g := e.GroupOf(id)
	if g == nil {
		return false
	}
	g.color = e.randomColor()
	for _, w := range g.windows {
		e.writeProperty(w)
		e.damage(glowBounds(w))
	}
	if g.bar != nil {
		e.damage(g.bar.Region)
	}
	e.notifyGroupChanged(g)
	return true
}

// CloseGroup asks every member of the group of window id to close.
func (e *Engine) CloseGroup(id platform.WindowID) bool {
	g := e.GroupOf(id)
	if g == nil {
		return false
	}
	for _, w := range g.windows {
		e.queueAction(w.id, func() {
			if err := e.backend.Close(w.id); err != nil {
				e.windowLog(w).WithError(err).Debug("close failed")
			}
		})
	}
	return true
}

func (e *Engine) writeProperty(w *window) {
	g := w.group
	if g == nil {
		return
	}
	prop := platform.GroupProperty{
		Identifier: g.identifier,
		Slotted:    w.slot.Valid(),
		Color:      [3]uint16{g.color[0], g.color[1], g.color[2]},
	}
	if err := e.backend.WriteGroupProperty(w.id, prop); err != nil {
		e.windowLog(w).WithError(err).Debug("write group property failed")
	}
}

func (e *Engine) deleteProperty(w *window) {
	if err := e.backend.DeleteGroupProperty(w.id); err != nil {
		e.windowLog(w).WithError(err).Debug("delete group property failed")
	}
}

// restoreMembership rejoins a group recorded on the window, recreating it
// with the stored identifier and color when it is not live. Slotted windows
// are re-tabbed on the next drain.
func (e *Engine) restoreMembership(w *window) bool {
	prop, ok, err := e.backend.ReadGroupProperty(w.id)
	if err != nil {
		e.windowLog(w).WithError(err).Warn("ignoring malformed group property")
		return false
	}
	if !ok {
		return false
	}

	g := e.GroupByIdentifier(prop.Identifier)
	if g != nil {
		if !e.AddWindowToGroup(w.id, g, 0) {
			return false
		}
	} else {
		if !e.AddWindowToGroup(w.id, nil, prop.Identifier) {
			return false
		}
		g = w.group
		g.color = [4]uint16{prop.Color[0], prop.Color[1], prop.Color[2], 0xffff}
		e.writeProperty(w)
	}
	e.windowLog(w).Debug("group membership restored")

	if prop.Slotted && g.bar == nil {
		e.queueAction(w.id, func() {
			if w.group == g && g.bar == nil && !g.deleted {
				e.TabGroup(w.id)
			}
		})
	}
	return true
}

// Scan registers every existing window, e.g. at startup.
func (e *Engine) Scan() error {
	infos, err := e.backend.Windows()
	if err != nil {
		return err
	}
	for _, info := range infos {
		e.windowCreated(info)
	}
	return nil
}
