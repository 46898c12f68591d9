// Package overlay draws tab bars, group glow and the selection rubber band
// with override-redirect X windows.
package overlay

import (
	"fmt"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
)

// borderOverlay is a rectangular border made of 4 thin windows
type borderOverlay struct {
	Top    xproto.Window
	Bottom xproto.Window
	Left   xproto.Window
	Right  xproto.Window
	mapped bool
}

// fillOverlay is one solid window.
type fillOverlay struct {
	Window xproto.Window
	mapped bool
}

// labelOverlay is a text window with its own graphics context.
type labelOverlay struct {
	Window xproto.Window
	GC     xproto.Gcontext
	mapped bool
}

// Manager owns the overlay windows. Windows are pooled and reused between
// frames; surplus ones are unmapped.
type Manager struct {
	xu   *xgbutil.XUtil
	root xproto.Window

	font     xproto.Font
	noLabels bool

	fills   []*fillOverlay
	borders []*borderOverlay
	labels  []*labelOverlay
}

// NewManager creates an overlay manager on the root window.
func NewManager(xu *xgbutil.XUtil, root xproto.Window) *Manager {
	return &Manager{xu: xu, root: root}
}

// Render draws scene, replacing the previous frame.
//
// Fills are drawn first, then outlines and labels, so borders and text
// appear on top.
func (m *Manager) Render(scene Scene) error {
	if err := m.ensureFills(len(scene.Fills)); err != nil {
		return err
	}
	if err := m.ensureBorders(len(scene.Outlines)); err != nil {
		return err
	}
	labels := scene.Labels
	if err := m.ensureLabels(len(labels)); err != nil {
		labels = nil
	}

	for i, f := range scene.Fills {
		m.showFill(m.fills[i], f)
	}
	for i, o := range scene.Outlines {
		m.showBorder(m.borders[i], o, scene.Thickness)
	}
	for i, l := range labels {
		m.showLabel(m.labels[i], l)
	}
	return nil
}

// HideAll hides all overlays without destroying them.
func (m *Manager) HideAll() {
	for _, f := range m.fills {
		m.hideFill(f)
	}
	for _, b := range m.borders {
		m.hideBorder(b)
	}
	for _, l := range m.labels {
		m.hideLabel(l)
	}
}

// Cleanup destroys all overlay windows
func (m *Manager) Cleanup() {
	conn := m.xu.Conn()
	for _, f := range m.fills {
		xproto.DestroyWindow(conn, f.Window)
	}
	for _, b := range m.borders {
		for _, w := range []xproto.Window{b.Top, b.Bottom, b.Left, b.Right} {
			xproto.DestroyWindow(conn, w)
		}
	}
	for _, l := range m.labels {
		xproto.FreeGC(conn, l.GC)
		xproto.DestroyWindow(conn, l.Window)
	}
	if m.font != 0 {
		xproto.CloseFont(conn, m.font)
		m.font = 0
	}
	m.fills = nil
	m.borders = nil
	m.labels = nil
}

func (m *Manager) ensureFills(count int) error {
	for i := count; i < len(m.fills); i++ {
		m.hideFill(m.fills[i])
	}
	for len(m.fills) < count {
		wid, err := m.createOverrideRedirectWindow()
		if err != nil {
			return err
		}
		m.fills = append(m.fills, &fillOverlay{Window: wid})
	}
	return nil
}

func (m *Manager) ensureBorders(count int) error {
	for i := count; i < len(m.borders); i++ {
		m.hideBorder(m.borders[i])
	}
	for len(m.borders) < count {
		border := &borderOverlay{}
		for _, w := range []*xproto.Window{&border.Top, &border.Bottom, &border.Left, &border.Right} {
			wid, err := m.createOverrideRedirectWindow()
			if err != nil {
				return err
			}
			*w = wid
		}
		m.borders = append(m.borders, border)
	}
	return nil
}

func (m *Manager) ensureLabels(count int) error {
	for i := count; i < len(m.labels); i++ {
		m.hideLabel(m.labels[i])
	}
	if count <= len(m.labels) {
		return nil
	}
	if err := m.ensureFont(); err != nil {
		return err
	}
	conn := m.xu.Conn()
	for len(m.labels) < count {
		wid, err := m.createOverrideRedirectWindow()
		if err != nil {
			return err
		}
		gc, err := xproto.NewGcontextId(conn)
		if err != nil {
			xproto.DestroyWindow(conn, wid)
			return err
		}
		err = xproto.CreateGCChecked(
			conn,
			gc,
			xproto.Drawable(wid),
			xproto.GcForeground|xproto.GcBackground|xproto.GcFont|xproto.GcGraphicsExposures,
			[]uint32{ColorText, ColorBarBg, uint32(m.font), 0},
		).Check()
		if err != nil {
			xproto.DestroyWindow(conn, wid)
			return err
		}
		m.labels = append(m.labels, &labelOverlay{Window: wid, GC: gc})
	}
	return nil
}

// ensureFont opens the first available core font. Text is skipped for the
// rest of the session when none opens.
func (m *Manager) ensureFont() error {
	if m.noLabels {
		return fmt.Errorf("no core font available")
	}
	if m.font != 0 {
		return nil
	}
	conn := m.xu.Conn()
	font, err := xproto.NewFontId(conn)
	if err != nil {
		return err
	}
	for _, fontName := range []string{"fixed", "7x13", "6x13", "8x13"} {
		if xproto.OpenFontChecked(conn, font, uint16(len(fontName)), fontName).Check() == nil {
			m.font = font
			return nil
		}
	}
	m.noLabels = true
	return fmt.Errorf("no core font available")
}

func (m *Manager) showFill(f *fillOverlay, box Box) {
	r := box.Rect
	m.updateWindow(f.Window, r.X, r.Y, r.Width, r.Height, box.Color)
	xproto.MapWindow(m.xu.Conn(), f.Window)
	f.mapped = true
}

func (m *Manager) hideFill(f *fillOverlay) {
	if !f.mapped {
		return
	}
	xproto.UnmapWindow(m.xu.Conn(), f.Window)
	f.mapped = false
}

// showBorder updates a border around the given rectangle
func (m *Manager) showBorder(border *borderOverlay, box Box, t int) {
	x, y := box.Rect.X, box.Rect.Y
	w, h := box.Rect.Width, box.Rect.Height

	// Top and bottom span the full width; the sides fit between them.
	m.updateWindow(border.Top, x, y, w, t, box.Color)
	m.updateWindow(border.Bottom, x, y+h-t, w, t, box.Color)
	m.updateWindow(border.Left, x, y+t, t, h-2*t, box.Color)
	m.updateWindow(border.Right, x+w-t, y+t, t, h-2*t, box.Color)

	conn := m.xu.Conn()
	xproto.MapWindow(conn, border.Top)
	xproto.MapWindow(conn, border.Bottom)
	xproto.MapWindow(conn, border.Left)
	xproto.MapWindow(conn, border.Right)
	border.mapped = true
}

// hideBorder unmaps the border windows (but doesn't destroy them)
func (m *Manager) hideBorder(border *borderOverlay) {
	if !border.mapped {
		return
	}
	conn := m.xu.Conn()
	xproto.UnmapWindow(conn, border.Top)
	xproto.UnmapWindow(conn, border.Bottom)
	xproto.UnmapWindow(conn, border.Left)
	xproto.UnmapWindow(conn, border.Right)
	border.mapped = false
}

func (m *Manager) showLabel(l *labelOverlay, label Label) {
	conn := m.xu.Conn()
	r := label.Rect
	m.updateWindow(l.Window, r.X, r.Y, r.Width, r.Height, label.Bg)
	xproto.MapWindow(conn, l.Window)
	l.mapped = true

	xproto.ChangeGC(conn, l.GC, xproto.GcForeground|xproto.GcBackground, []uint32{label.Fg, label.Bg})
	text := latin1(label.Text)
	baseline := r.Height - (r.Height-labelHeight)/2 - 4
	xproto.ImageText8(conn, byte(len(text)), xproto.Drawable(l.Window), l.GC, 0, int16(baseline), text)
}

func (m *Manager) hideLabel(l *labelOverlay) {
	if !l.mapped {
		return
	}
	xproto.UnmapWindow(m.xu.Conn(), l.Window)
	l.mapped = false
}

// createOverrideRedirectWindow creates a single override-redirect window
func (m *Manager) createOverrideRedirectWindow() (xproto.Window, error) {
	conn := m.xu.Conn()
	screen := m.xu.Screen()

	wid, err := xproto.NewWindowId(conn)
	if err != nil {
		return 0, err
	}

	// Value list order follows the bit positions of the mask (low to high):
	// back_pixel, override_redirect.
	err = xproto.CreateWindowChecked(
		conn,
		screen.RootDepth,
		wid,
		m.root,
		0, 0,
		1, 1,
		0,
		xproto.WindowClassInputOutput,
		screen.RootVisual,
		xproto.CwBackPixel|xproto.CwOverrideRedirect,
		[]uint32{0, 1},
	).Check()
	if err != nil {
		return 0, fmt.Errorf("create overlay window: %w", err)
	}
	return wid, nil
}

// updateWindow moves, resizes, and recolors a window
func (m *Manager) updateWindow(wid xproto.Window, x, y, width, height int, color uint32) {
	conn := m.xu.Conn()

	width = max(width, 1)
	height = max(height, 1)

	xproto.ConfigureWindow(
		conn,
		wid,
		xproto.ConfigWindowX|xproto.ConfigWindowY|xproto.ConfigWindowWidth|xproto.ConfigWindowHeight|xproto.ConfigWindowStackMode,
		[]uint32{
			uint32(int32(x)),
			uint32(int32(y)),
			uint32(width),
			uint32(height),
			xproto.StackModeAbove, // Keep on top
		},
	)
	xproto.ChangeWindowAttributes(conn, wid, xproto.CwBackPixel, []uint32{color})

	// Clear window to show new color
	xproto.ClearArea(conn, false, wid, 0, 0, 0, 0)
}

// latin1 maps text to the single-byte encoding core fonts draw, replacing
// what does not fit with '?'. At most 255 bytes are kept.
func latin1(s string) string {
	out := make([]byte, 0, len(s))
	for _, r := range s {
		if len(out) == 255 {
			break
		}
		if r < 0x20 || r > 0xff {
			r = '?'
		}
		out = append(out, byte(r))
	}
	return string(out)
}
