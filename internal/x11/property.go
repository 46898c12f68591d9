package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/xprop"
)

// GroupAtom names the CARDINAL property carrying a window's persisted
// group membership.
const GroupAtom = "_TABGROUP_GROUP"

// ReadGroupProperty returns the raw cardinals of GroupAtom on windowID.
// ok is false when the property is absent.
func (c *Connection) ReadGroupProperty(windowID xproto.Window) (vals []uint, ok bool, err error) {
	atom, err := c.atom(GroupAtom)
	if err != nil {
		return nil, false, err
	}
	reply, err := xproto.GetProperty(c.XUtil.Conn(), false, windowID, atom,
		xproto.GetPropertyTypeAny, 0, (1<<32)-1).Reply()
	if err != nil {
		return nil, false, fmt.Errorf("read %s on %#x: %w", GroupAtom, windowID, err)
	}
	if reply.Format == 0 {
		return nil, false, nil
	}
	vals, err = xprop.PropValNums(reply, nil)
	if err != nil {
		return nil, true, fmt.Errorf("decode %s on %#x: %w", GroupAtom, windowID, err)
	}
	return vals, true, nil
}

// WriteGroupProperty replaces GroupAtom on windowID.
func (c *Connection) WriteGroupProperty(windowID xproto.Window, vals []uint) error {
	if err := xprop.ChangeProp32(c.XUtil, windowID, GroupAtom, "CARDINAL", vals...); err != nil {
		return fmt.Errorf("write %s on %#x: %w", GroupAtom, windowID, err)
	}
	return nil
}

// DeleteGroupProperty removes GroupAtom from windowID.
func (c *Connection) DeleteGroupProperty(windowID xproto.Window) error {
	atom, err := c.atom(GroupAtom)
	if err != nil {
		return err
	}
	if err := xproto.DeletePropertyChecked(c.XUtil.Conn(), windowID, atom).Check(); err != nil {
		return fmt.Errorf("delete %s on %#x: %w", GroupAtom, windowID, err)
	}
	return nil
}
