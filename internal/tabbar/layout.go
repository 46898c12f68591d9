package tabbar

import (
	"math"
	"time"

	"github.com/1broseidon/tabgroup/internal/platform"
)

// Width returns the rest width of a bar with n slots.
func (b *Bar) Width(n int) int {
	return n*b.thumbSize + (n+1)*b.thumbSpace
}

// Height returns the bar height.
func (b *Bar) Height() int {
	return b.thumbSize + 2*b.thumbSpace
}

// Recalc recomputes rest positions so the strip is centered horizontally on
// anchor, the frame of the group's top tab. The first layout snaps every
// spring to rest.
func (b *Bar) Recalc(anchor platform.Rect) {
	width := b.Width(b.n)
	x0 := anchor.Center().X - width/2

	b.Region.Y = anchor.Y + b.thumbSpace
	b.Region.Height = b.Height()
	b.left.rest = float64(x0)
	b.right.rest = float64(x0 + width)

	step := float64(b.thumbSize + b.thumbSpace)
	i := 0
	for id := b.head; id.Valid(); {
		s := b.Slot(id)
		s.spring.rest = float64(x0+b.thumbSpace) + float64(i)*step
		if id == b.dragged {
			s.spring.rest += b.dragOffset
		}
		id = s.next
		i++
	}

	if !b.laidOut {
		b.laidOut = true
		b.left.snap()
		b.right.snap()
		for id := b.head; id.Valid(); {
			s := b.Slot(id)
			s.spring.snap()
			id = s.next
		}
	}
	b.syncRegions()
}

// SetDrag offsets the rest position of the dragged slot by the live pointer
// delta. Other slots are unaffected.
func (b *Bar) SetDrag(id SlotID, offset float64) bool {
	s := b.Slot(id)
	if s == nil {
		return false
	}
	if b.dragged.Valid() && b.dragged != id {
		if old := b.Slot(b.dragged); old != nil {
			old.spring.rest -= b.dragOffset
		}
		b.dragOffset = 0
	}
	s.spring.rest += offset - b.dragOffset
	b.dragged = id
	b.dragOffset = offset
	return true
}

// ClearDrag releases the dragged slot back to its rest position.
func (b *Bar) ClearDrag() {
	if s := b.Slot(b.dragged); s != nil {
		s.spring.rest -= b.dragOffset
	}
	b.dragged = NoSlot
	b.dragOffset = 0
}

// Dragged returns the slot currently being dragged.
func (b *Bar) Dragged() SlotID { return b.dragged }

// Step advances every spring by dt and reports whether anything moved.
func (b *Bar) Step(dt time.Duration) bool {
	ms := float64(dt) / float64(time.Millisecond)
	moving := false
	if b.left.step(ms) {
		moving = true
	}
	if b.right.step(ms) {
		moving = true
	}
	for id := b.head; id.Valid(); {
		s := b.Slot(id)
		if s.spring.step(ms) {
			moving = true
		}
		id = s.next
	}
	b.syncRegions()
	return moving
}

// Settled reports whether every spring is at rest.
func (b *Bar) Settled() bool {
	if !b.left.settled() || !b.right.settled() {
		return false
	}
	for id := b.head; id.Valid(); {
		s := b.Slot(id)
		if !s.spring.settled() {
			return false
		}
		id = s.next
	}
	return true
}

func (b *Bar) syncRegions() {
	left := int(math.Round(b.left.pos))
	right := int(math.Round(b.right.pos))
	b.Region.X = left
	b.Region.Width = max(right-left, 0)
	for id := b.head; id.Valid(); {
		s := b.Slot(id)
		s.Region = platform.Rect{
			X:      int(math.Round(s.spring.pos)),
			Y:      b.Region.Y + b.thumbSpace,
			Width:  b.thumbSize,
			Height: b.thumbSize,
		}
		id = s.next
	}
}
