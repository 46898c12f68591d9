// Package tabbar models the tab strip of a tabbed group: an ordered set of
// slots stored in an index-stable arena, their spring-driven layout, and the
// fade state of the bar and its render layers.
package tabbar

import (
	"github.com/1broseidon/tabgroup/internal/platform"
)

// SlotID addresses a slot in its bar's arena. The zero value is NoSlot.
type SlotID struct {
	index int32
	gen   uint32
}

// NoSlot is the invalid slot id.
var NoSlot SlotID

// Valid reports whether id may refer to a slot.
func (id SlotID) Valid() bool { return id.gen != 0 }

// Slot is one tab in the strip.
type Slot struct {
	ID     SlotID
	Window platform.WindowID
	// Region is the drawn extent, derived from the spring position.
	Region platform.Rect

	spring spring
	prev   SlotID
	next   SlotID
}

// SpringX is the slot's current physics position.
func (s *Slot) SpringX() float64 { return s.spring.pos }

// RestX is where the slot's spring is pulling it.
func (s *Slot) RestX() float64 { return s.spring.rest }

type entry struct {
	slot Slot
	gen  uint32
	used bool
}

// Bar is a tab strip. It is not safe for concurrent use.
type Bar struct {
	entries []entry
	free    []int32
	head    SlotID
	tail    SlotID
	n       int

	// Region is the bounding rectangle of the strip.
	Region platform.Rect

	left  spring
	right spring

	thumbSize  int
	thumbSpace int
	laidOut    bool

	dragged    SlotID
	dragOffset float64

	// State is the bar's own visibility fade.
	State Fade
	// Text, Background and Selection are render layers faded independently.
	Text       Fade
	Background Fade
	Selection  Fade
}

// New creates an empty bar with square thumbnails of thumbSize separated by
// thumbSpace.
func New(thumbSize, thumbSpace int) *Bar {
	return &Bar{thumbSize: thumbSize, thumbSpace: thumbSpace}
}

// SetMetrics changes thumbnail metrics; call Recalc afterwards.
func (b *Bar) SetMetrics(thumbSize, thumbSpace int) {
	b.thumbSize = thumbSize
	b.thumbSpace = thumbSpace
}

// Len returns the number of slots.
func (b *Bar) Len() int { return b.n }

// Slot returns the slot for id, or nil when id is stale.
func (b *Bar) Slot(id SlotID) *Slot {
	if !id.Valid() || int(id.index) >= len(b.entries) {
		return nil
	}
	e := &b.entries[id.index]
	if !e.used || e.gen != id.gen {
		return nil
	}
	return &e.slot
}

// First returns the leftmost slot id.
func (b *Bar) First() SlotID { return b.head }

// Last returns the rightmost slot id.
func (b *Bar) Last() SlotID { return b.tail }

// Next returns the slot to the right of id, or NoSlot.
func (b *Bar) Next(id SlotID) SlotID {
	if s := b.Slot(id); s != nil {
		return s.next
	}
	return NoSlot
}

// Prev returns the slot to the left of id, or NoSlot.
func (b *Bar) Prev(id SlotID) SlotID {
	if s := b.Slot(id); s != nil {
		return s.prev
	}
	return NoSlot
}

// Slots returns the slots in left-to-right order.
func (b *Bar) Slots() []*Slot {
	out := make([]*Slot, 0, b.n)
	for id := b.head; id.Valid(); {
		s := b.Slot(id)
		out = append(out, s)
		id = s.next
	}
	return out
}

// Reverse returns the slots in right-to-left order.
func (b *Bar) Reverse() []*Slot {
	out := make([]*Slot, 0, b.n)
	for id := b.tail; id.Valid(); {
		s := b.Slot(id)
		out = append(out, s)
		id = s.prev
	}
	return out
}

// Index returns the position of id counted from the left, or -1.
func (b *Bar) Index(id SlotID) int {
	i := 0
	for cur := b.head; cur.Valid(); cur = b.Slot(cur).next {
		if cur == id {
			return i
		}
		i++
	}
	return -1
}

// Find returns the slot holding window, or NoSlot.
func (b *Bar) Find(window platform.WindowID) SlotID {
	for cur := b.head; cur.Valid(); {
		s := b.Slot(cur)
		if s.Window == window {
			return cur
		}
		cur = s.next
	}
	return NoSlot
}

// SlotAt returns the slot whose region contains the point, or NoSlot.
func (b *Bar) SlotAt(x, y int) SlotID {
	for cur := b.head; cur.Valid(); {
		s := b.Slot(cur)
		if s.Region.Contains(x, y) {
			return cur
		}
		cur = s.next
	}
	return NoSlot
}

func (b *Bar) alloc(window platform.WindowID) SlotID {
	var idx int32
	if n := len(b.free); n > 0 {
		idx = b.free[n-1]
		b.free = b.free[:n-1]
	} else {
		b.entries = append(b.entries, entry{})
		idx = int32(len(b.entries) - 1)
	}
	e := &b.entries[idx]
	e.gen++
	if e.gen == 0 {
		e.gen = 1
	}
	e.used = true
	id := SlotID{index: idx, gen: e.gen}
	e.slot = Slot{ID: id, Window: window}
	return id
}

// Append adds a slot for window at the right end.
func (b *Bar) Append(window platform.WindowID) SlotID {
	if b.tail.Valid() {
		return b.InsertAfter(b.tail, window)
	}
	id := b.alloc(window)
	b.head, b.tail = id, id
	b.n = 1
	s := b.Slot(id)
	s.spring.pos = b.left.pos + float64(b.thumbSpace)
	return id
}

// InsertAfter links a new slot for window to the right of at.
func (b *Bar) InsertAfter(at SlotID, window platform.WindowID) SlotID {
	if b.Slot(at) == nil {
		return NoSlot
	}
	id := b.alloc(window)
	b.linkAfter(id, at)
	b.n++
	s := b.Slot(id)
	s.spring.pos = b.Slot(at).spring.pos + float64(b.thumbSize+b.thumbSpace)
	return id
}

// InsertBefore links a new slot for window to the left of at.
func (b *Bar) InsertBefore(at SlotID, window platform.WindowID) SlotID {
	if b.Slot(at) == nil {
		return NoSlot
	}
	id := b.alloc(window)
	b.linkBefore(id, at)
	b.n++
	s := b.Slot(id)
	s.spring.pos = b.Slot(at).spring.pos
	return id
}

// Remove unlinks and frees a slot; neighbors close the gap on the next
// Recalc.
func (b *Bar) Remove(id SlotID) bool {
	if b.Slot(id) == nil {
		return false
	}
	b.unlink(id)
	b.n--
	if b.dragged == id {
		b.dragged = NoSlot
		b.dragOffset = 0
	}
	e := &b.entries[id.index]
	e.used = false
	e.slot = Slot{}
	b.free = append(b.free, id.index)
	return true
}

// MoveBefore relinks id directly to the left of target.
func (b *Bar) MoveBefore(id, target SlotID) bool {
	if id == target || b.Slot(id) == nil || b.Slot(target) == nil {
		return false
	}
	b.unlink(id)
	b.linkBefore(id, target)
	return true
}

// MoveAfter relinks id directly to the right of target.
func (b *Bar) MoveAfter(id, target SlotID) bool {
	if id == target || b.Slot(id) == nil || b.Slot(target) == nil {
		return false
	}
	b.unlink(id)
	b.linkAfter(id, target)
	return true
}

func (b *Bar) unlink(id SlotID) {
	s := b.Slot(id)
	if p := b.Slot(s.prev); p != nil {
		p.next = s.next
	} else {
		b.head = s.next
	}
	if n := b.Slot(s.next); n != nil {
		n.prev = s.prev
	} else {
		b.tail = s.prev
	}
	s.prev, s.next = NoSlot, NoSlot
}

func (b *Bar) linkAfter(id, at SlotID) {
	s, a := b.Slot(id), b.Slot(at)
	s.prev = at
	s.next = a.next
	if n := b.Slot(a.next); n != nil {
		n.prev = id
	} else {
		b.tail = id
	}
	a.next = id
}

func (b *Bar) linkBefore(id, at SlotID) {
	s, a := b.Slot(id), b.Slot(at)
	s.next = at
	s.prev = a.prev
	if p := b.Slot(a.prev); p != nil {
		p.next = id
	} else {
		b.head = id
	}
	a.prev = id
}
