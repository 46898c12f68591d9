package platform

import "fmt"

// GroupPropertyLen is the number of 32-bit cardinals in an encoded
// GroupProperty: identifier (high, low), slotted flag, red, green, blue.
const GroupPropertyLen = 6

// GroupProperty is the persisted group membership of one window.
type GroupProperty struct {
	Identifier uint64
	Slotted    bool
	Color      [3]uint16
}

// Encode packs the property into the cardinal list stored on the window.
func (p GroupProperty) Encode() []uint {
	slotted := uint(0)
	if p.Slotted {
		slotted = 1
	}
	return []uint{
		uint(p.Identifier >> 32),
		uint(p.Identifier & 0xffffffff),
		slotted,
		uint(p.Color[0]),
		uint(p.Color[1]),
		uint(p.Color[2]),
	}
}

// DecodeGroupProperty parses a cardinal list. A blob with the wrong field
// count or out-of-range values is rejected.
func DecodeGroupProperty(vals []uint) (GroupProperty, error) {
	if len(vals) != GroupPropertyLen {
		return GroupProperty{}, fmt.Errorf("group property has %d fields, want %d", len(vals), GroupPropertyLen)
	}
	for i, v := range vals {
		if v > 0xffffffff {
			return GroupProperty{}, fmt.Errorf("group property field %d out of range: %d", i, v)
		}
	}
	if vals[2] > 1 {
		return GroupProperty{}, fmt.Errorf("group property slotted flag must be 0 or 1, got %d", vals[2])
	}
	for i := 3; i < GroupPropertyLen; i++ {
		if vals[i] > 0xffff {
			return GroupProperty{}, fmt.Errorf("group property color channel %d out of range: %d", i-3, vals[i])
		}
	}

	p := GroupProperty{
		Identifier: uint64(vals[0])<<32 | uint64(vals[1]),
		Slotted:    vals[2] == 1,
		Color:      [3]uint16{uint16(vals[3]), uint16(vals[4]), uint16(vals[5])},
	}
	if p.Identifier == 0 {
		return GroupProperty{}, fmt.Errorf("group property identifier must be non-zero")
	}
	return p, nil
}
