package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb/randr"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/BurntSushi/xgbutil/xrect"
)

// Monitor represents a physical display
type Monitor struct {
	ID     int
	Name   string
	X      int
	Y      int
	Width  int
	Height int

	// Usable is the monitor clipped to the EWMH work area.
	Usable xrect.Rect
}

// RootGeometry returns the size of the root window, which spans every
// monitor.
func (c *Connection) RootGeometry() (x, y, width, height int, err error) {
	geom, err := xproto.GetGeometry(c.XUtil.Conn(), xproto.Drawable(c.Root)).Reply()
	if err != nil {
		return 0, 0, 0, 0, fmt.Errorf("get root geometry: %w", err)
	}
	return int(geom.X), int(geom.Y), int(geom.Width), int(geom.Height), nil
}

// GetMonitors retrieves all active monitors using XRandR
func (c *Connection) GetMonitors() ([]Monitor, error) {
	// Initialize RandR if not already done
	if err := randr.Init(c.XUtil.Conn()); err != nil {
		return nil, fmt.Errorf("randr init failed: %w", err)
	}

	// Get screen resources
	resources, err := randr.GetScreenResources(c.XUtil.Conn(), c.Root).Reply()
	if err != nil {
		return nil, fmt.Errorf("failed to get screen resources: %w", err)
	}

	workArea := c.currentWorkArea()

	var monitors []Monitor

	// Query each CRTC for active monitors
	for i, crtc := range resources.Crtcs {
		crtcInfo, err := randr.GetCrtcInfo(c.XUtil.Conn(), crtc, resources.ConfigTimestamp).Reply()
		if err != nil {
			continue
		}

		// Skip disabled CRTCs
		if crtcInfo.Width == 0 || crtcInfo.Height == 0 || len(crtcInfo.Outputs) == 0 {
			continue
		}

		outputName := fmt.Sprintf("Monitor%d", i)
		outputInfo, err := randr.GetOutputInfo(c.XUtil.Conn(), crtcInfo.Outputs[0], resources.ConfigTimestamp).Reply()
		if err == nil {
			outputName = string(outputInfo.Name)
		}

		mon := Monitor{
			ID:     i,
			Name:   outputName,
			X:      int(crtcInfo.X),
			Y:      int(crtcInfo.Y),
			Width:  int(crtcInfo.Width),
			Height: int(crtcInfo.Height),
		}
		mon.Usable = xrect.New(mon.X, mon.Y, mon.Width, mon.Height)
		if workArea != nil {
			if clipped := intersect(mon.Usable, workArea); clipped != nil {
				mon.Usable = clipped
			}
		}
		monitors = append(monitors, mon)
	}

	return monitors, nil
}

// currentWorkArea returns _NET_WORKAREA for the current desktop, or nil.
func (c *Connection) currentWorkArea() xrect.Rect {
	workArea, err := ewmh.WorkareaGet(c.XUtil)
	if err != nil || len(workArea) == 0 {
		return nil
	}
	desktopIndex := 0
	if currentDesktop, err := ewmh.CurrentDesktopGet(c.XUtil); err == nil {
		if int(currentDesktop) < len(workArea) {
			desktopIndex = int(currentDesktop)
		}
	}
	wa := workArea[desktopIndex]
	return xrect.New(wa.X, wa.Y, int(wa.Width), int(wa.Height))
}

func intersect(a, b xrect.Rect) xrect.Rect {
	x1 := max(a.X(), b.X())
	y1 := max(a.Y(), b.Y())
	x2 := min(a.X()+a.Width(), b.X()+b.Width())
	y2 := min(a.Y()+a.Height(), b.Y()+b.Height())
	if x2 <= x1 || y2 <= y1 {
		return nil
	}
	return xrect.New(x1, y1, x2-x1, y2-y1)
}
