package hotkeys

import (
	"fmt"
	"sync"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/keybind"
	"github.com/BurntSushi/xgbutil/xevent"
	"github.com/sirupsen/logrus"

	"github.com/1broseidon/tabgroup/internal/config"
	"github.com/1broseidon/tabgroup/internal/group"
	"github.com/1broseidon/tabgroup/internal/platform"
)

// Dispatcher runs fn on the goroutine that owns the engine.
type Dispatcher interface {
	Submit(fn func(e *group.Engine))
}

// x11Accessor is an optional interface for backends that expose X11 internals.
type x11Accessor interface {
	XUtil() *xgbutil.XUtil
	RootWindow() xproto.Window
}

// Handler manages global keyboard shortcuts
type Handler struct {
	xu       *xgbutil.XUtil
	root     xproto.Window
	backend  platform.Backend
	dispatch Dispatcher
	log      logrus.FieldLogger
}

var ignoreModsOnce sync.Once

// NewHandler creates a new hotkey handler.
func NewHandler(backend platform.Backend, dispatch Dispatcher, logger logrus.FieldLogger) *Handler {
	var xu *xgbutil.XUtil
	var root xproto.Window
	if accessor, ok := backend.(x11Accessor); ok {
		xu = accessor.XUtil()
		root = accessor.RootWindow()
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	if xu != nil {
		ignoreModsOnce.Do(func() {
			configureIgnoreMods(xu)
		})
	}

	return &Handler{
		xu:       xu,
		root:     root,
		backend:  backend,
		dispatch: dispatch,
		log:      logger,
	}
}

// binding pairs a key sequence with the action it triggers on the active
// window.
type binding struct {
	name string
	keys string
	run  func(e *group.Engine, active platform.WindowID) bool
}

func bindings(hk config.Hotkeys) []binding {
	return []binding{
		{"select", hk.Select, func(e *group.Engine, id platform.WindowID) bool {
			return e.SelectSingle(id)
		}},
		{"select_single", hk.SelectSingle, func(e *group.Engine, id platform.WindowID) bool {
			e.CancelSelection()
			return e.SelectSingle(id)
		}},
		{"group", hk.Group, func(e *group.Engine, id platform.WindowID) bool {
			return e.CommitSelection()
		}},
		{"ungroup", hk.Ungroup, func(e *group.Engine, id platform.WindowID) bool {
			return e.DeleteGroupOf(id)
		}},
		{"remove", hk.Remove, func(e *group.Engine, id platform.WindowID) bool {
			return e.RemoveWindow(id)
		}},
		{"close", hk.Close, func(e *group.Engine, id platform.WindowID) bool {
			return e.CloseGroup(id)
		}},
		{"tab", hk.Tab, toggleTab},
		{"change_tab_left", hk.ChangeTabLeft, func(e *group.Engine, id platform.WindowID) bool {
			return e.ChangeTabLeft(id)
		}},
		{"change_tab_right", hk.ChangeTabRight, func(e *group.Engine, id platform.WindowID) bool {
			return e.ChangeTabRight(id)
		}},
		{"change_color", hk.ChangeColor, func(e *group.Engine, id platform.WindowID) bool {
			return e.ChangeColor(id)
		}},
	}
}

// toggleTab tabs an untabbed group and untabs a tabbed one.
func toggleTab(e *group.Engine, id platform.WindowID) bool {
	g := e.GroupOf(id)
	if g == nil {
		return false
	}
	if g.Tabbed() {
		return e.UntabGroup(id)
	}
	return e.TabGroup(id)
}

// Register binds every non-empty hotkey in hk. Bindings that fail to grab
// are logged and skipped.
func (h *Handler) Register(hk config.Hotkeys) error {
	if h.xu == nil {
		return fmt.Errorf("hotkeys need an X11 backend")
	}
	for _, b := range bindings(hk) {
		if b.keys == "" {
			continue
		}
		b := b
		if err := h.RegisterFunc(b.keys, func() { h.onActive(b) }); err != nil {
			h.log.WithFields(logrus.Fields{"hotkey": b.name, "keys": b.keys, "error": err}).Warn("failed to register hotkey")
			continue
		}
		h.log.WithFields(logrus.Fields{"hotkey": b.name, "keys": b.keys}).Debug("hotkey registered")
	}

	if hk.Ignore != "" {
		if err := h.registerHold(hk.Ignore,
			func() { h.dispatch.Submit(func(e *group.Engine) { e.ToggleIgnore(true) }) },
			func() { h.dispatch.Submit(func(e *group.Engine) { e.ToggleIgnore(false) }) },
		); err != nil {
			h.log.WithFields(logrus.Fields{"hotkey": "ignore", "keys": hk.Ignore, "error": err}).Warn("failed to register hotkey")
		}
	}
	return nil
}

// Unregister drops every hotkey grabbed on the root window.
func (h *Handler) Unregister() {
	if h.xu == nil {
		return
	}
	keybind.Detach(h.xu, h.root)
}

// Reload swaps the bindings for hk.
func (h *Handler) Reload(hk config.Hotkeys) error {
	h.Unregister()
	return h.Register(hk)
}

func (h *Handler) onActive(b binding) {
	h.dispatch.Submit(func(e *group.Engine) {
		active, err := h.backend.ActiveWindow()
		if err != nil || active == 0 {
			h.log.WithField("hotkey", b.name).Debug("no active window")
			return
		}
		changed := b.run(e, active)
		h.log.WithFields(logrus.Fields{"hotkey": b.name, "window": uint32(active), "changed": changed}).Debug("hotkey triggered")
	})
}

// RegisterFunc registers an arbitrary hotkey callback.
func (h *Handler) RegisterFunc(keySequence string, callback func()) error {
	return keybind.KeyPressFun(func(xu *xgbutil.XUtil, ev xevent.KeyPressEvent) {
		callback()
	}).Connect(h.xu, h.root, keySequence, true)
}

// registerHold calls press when keySequence goes down and release when it
// comes back up.
func (h *Handler) registerHold(keySequence string, press, release func()) error {
	if err := h.RegisterFunc(keySequence, press); err != nil {
		return err
	}
	return keybind.KeyReleaseFun(func(xu *xgbutil.XUtil, ev xevent.KeyReleaseEvent) {
		release()
	}).Connect(h.xu, h.root, keySequence, false)
}

func configureIgnoreMods(xu *xgbutil.XUtil) {
	// Always ignore CapsLock.
	caps := uint16(xproto.ModMaskLock)

	numLock := modMaskForKeysym(xu, "Num_Lock")
	scrollLock := modMaskForKeysym(xu, "Scroll_Lock")

	unique := make(map[uint16]struct{})
	add := func(mask uint16) {
		unique[mask] = struct{}{}
	}

	add(0)
	base := []uint16{caps}
	if numLock != 0 && numLock != caps {
		base = append(base, numLock)
	}
	if scrollLock != 0 && scrollLock != caps && scrollLock != numLock {
		base = append(base, scrollLock)
	}

	for subset := 1; subset < (1 << len(base)); subset++ {
		var mask uint16
		for bit := range base {
			if subset&(1<<bit) != 0 {
				mask |= base[bit]
			}
		}
		add(mask)
	}

	ignore := make([]uint16, 0, len(unique))
	for mask := range unique {
		ignore = append(ignore, mask)
	}

	xevent.IgnoreMods = ignore
}

func modMaskForKeysym(xu *xgbutil.XUtil, keysym string) uint16 {
	for _, keycode := range keybind.StrToKeycodes(xu, keysym) {
		if mask := keybind.ModGet(xu, keycode); mask != 0 {
			return mask
		}
	}
	return 0
}
