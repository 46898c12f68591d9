package group

import (
	"github.com/1broseidon/tabgroup/internal/platform"
)

type opKind int

const (
	opMove opKind = iota
	opGrab
	opUngrab
	opAction
)

func (k opKind) String() string {
	switch k {
	case opMove:
		return "move"
	case opGrab:
		return "grab"
	case opUngrab:
		return "ungrab"
	case opAction:
		return "action"
	default:
		return "unknown"
	}
}

// pendingOp is one deferred geometry, grab or engine action. Entries are
// applied in FIFO order once per tick, after every other tick update.
type pendingOp struct {
	kind   opKind
	window platform.WindowID
	rect   platform.Rect
	mask   platform.GrabMask
	action func()
}

func (e *Engine) queueMove(w *window, r platform.Rect) {
	e.pending = append(e.pending, pendingOp{kind: opMove, window: w.id, rect: r})
}

func (e *Engine) queueGrab(w *window, mask platform.GrabMask) {
	e.pending = append(e.pending, pendingOp{kind: opGrab, window: w.id, mask: mask})
}

func (e *Engine) queueUngrab(w *window) {
	e.pending = append(e.pending, pendingOp{kind: opUngrab, window: w.id})
}

// queueAction defers fn to the next drain. A non-zero window id makes the
// action conditional on that window still existing.
func (e *Engine) queueAction(window platform.WindowID, fn func()) {
	e.pending = append(e.pending, pendingOp{kind: opAction, window: window, action: fn})
}

// Pending returns the number of queued operations.
func (e *Engine) Pending() int { return len(e.pending) }

// drainQueue applies every operation queued before the drain started.
// Entries for windows destroyed since they were queued are dropped.
// Operations queued by the drain itself wait for the next tick.
func (e *Engine) drainQueue() {
	if e.draining || len(e.pending) == 0 {
		return
	}
	ops := e.pending
	e.pending = nil
	e.draining = true
	defer func() { e.draining = false }()

	for _, op := range ops {
		var w *window
		if op.window != 0 {
			var ok bool
			if w, ok = e.windows[op.window]; !ok {
				e.log.WithField("window", op.window).WithField("op", op.kind).Debug("dropping queued op for destroyed window")
				continue
			}
		}

		switch op.kind {
		case opMove:
			if err := e.backend.MoveResize(op.window, op.rect); err != nil {
				e.windowLog(w).WithError(err).Debug("queued move failed")
				continue
			}
			before := glowBounds(w)
			w.info.Geometry = op.rect
			e.updateGlow(w)
			e.damage(before.Union(glowBounds(w)))
		case opGrab:
			w.needsPosSync = true
			for _, o := range e.grabObservers {
				o.GrabNotify(op.window, op.mask)
			}
		case opUngrab:
			for _, o := range e.grabObservers {
				o.UngrabNotify(op.window)
			}
		case opAction:
			op.action()
		}
	}
}
