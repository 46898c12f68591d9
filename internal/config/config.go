package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Hotkeys binds key sequences (xgbutil keybind syntax) to group actions.
// Empty strings disable a binding.
type Hotkeys struct {
	Select         string `yaml:"select"`
	SelectSingle   string `yaml:"select_single"`
	Group          string `yaml:"group"`
	Ungroup        string `yaml:"ungroup"`
	Remove         string `yaml:"remove"`
	Close          string `yaml:"close"`
	Ignore         string `yaml:"ignore"`
	Tab            string `yaml:"tab"`
	ChangeTabLeft  string `yaml:"change_tab_left"`
	ChangeTabRight string `yaml:"change_tab_right"`
	ChangeColor    string `yaml:"change_color"`
}

// Buttons binds pointer drags (xgbutil mousebind syntax).
type Buttons struct {
	Move    string `yaml:"move"`
	Resize  string `yaml:"resize"`
	Select  string `yaml:"select"`
	TabDrag string `yaml:"tab_drag"`
}

// WindowMatch selects which windows take part in grouping.
type WindowMatch struct {
	// Classes restricts matching to these WM_CLASS values (case-insensitive).
	// Empty matches every class.
	Classes ClassList `yaml:"classes"`
	// Types lists accepted EWMH window types.
	Types []string `yaml:"types"`
}

// Config holds the application configuration.
type Config struct {
	LogLevel        string `yaml:"log_level"`
	FrameIntervalMs int    `yaml:"frame_interval_ms"`

	GlowSize             int  `yaml:"glow_size"`
	TabFadeTime          int  `yaml:"tab_fade_time"`
	TabbingAnimationTime int  `yaml:"tabbing_animation_time"`
	ChangeAnimationTime  int  `yaml:"change_animation_time"`
	SelectPrecision      int  `yaml:"select_precision"`
	SelectOpacity        int  `yaml:"select_opacity"`
	SelectSaturation     int  `yaml:"select_saturation"`
	SelectBrightness     int  `yaml:"select_brightness"`
	DragHoverTime        int  `yaml:"drag_hover_time"`
	DragSnapBack         bool `yaml:"drag_snap_back"`

	AutoGroup        bool `yaml:"auto_group"`
	AutoUngroup      bool `yaml:"auto_ungroup"`
	AutoTabCreate    bool `yaml:"auto_tab_create"`
	MoveAll          bool `yaml:"move_all"`
	ResizeAll        bool `yaml:"resize_all"`
	RelativeDistance bool `yaml:"relative_distance"`
	RaiseAll         bool `yaml:"raise_all"`
	MinimizeAll      bool `yaml:"minimize_all"`
	UntabOnClose     bool `yaml:"untab_on_close"`

	ThumbSize   int `yaml:"thumb_size"`
	ThumbSpace  int `yaml:"thumb_space"`
	BorderWidth int `yaml:"border_width"`

	WindowMatch WindowMatch `yaml:"window_match"`
	Hotkeys     Hotkeys     `yaml:"hotkeys"`
	Buttons     Buttons     `yaml:"buttons"`
}

func DefaultConfig() *Config {
	return &Config{
		LogLevel:        "info",
		FrameIntervalMs: 16, // ~60fps

		GlowSize:             64,
		TabFadeTime:          200,
		TabbingAnimationTime: 350,
		ChangeAnimationTime:  500,
		SelectPrecision:      50,
		SelectOpacity:        75,
		SelectSaturation:     20,
		SelectBrightness:     70,
		DragHoverTime:        500,
		DragSnapBack:         false,

		AutoGroup:        false,
		AutoUngroup:      true,
		AutoTabCreate:    false,
		MoveAll:          true,
		ResizeAll:        true,
		RelativeDistance: false,
		RaiseAll:         true,
		MinimizeAll:      true,
		UntabOnClose:     false,

		ThumbSize:   96,
		ThumbSpace:  8,
		BorderWidth: 6,

		WindowMatch: WindowMatch{
			Types: []string{"normal", "dialog", "utility", "toolbar", "unknown"},
		},
		Hotkeys: Hotkeys{
			Select:         "Mod4-s",
			SelectSingle:   "Mod4-Shift-s",
			Group:          "Mod4-g",
			Ungroup:        "Mod4-u",
			Remove:         "Mod4-r",
			Close:          "Mod4-c",
			Ignore:         "Mod4-x",
			Tab:            "Mod4-t",
			ChangeTabLeft:  "Mod4-Left",
			ChangeTabRight: "Mod4-Right",
			ChangeColor:    "Mod4-k",
		},
		Buttons: Buttons{
			Move:    "Mod4-1",
			Resize:  "Mod4-3",
			Select:  "Mod4-Shift-1",
			TabDrag: "Mod4-2",
		},
	}
}

// FrameInterval is the tick period of the frame loop.
func (c *Config) FrameInterval() time.Duration {
	return time.Duration(c.FrameIntervalMs) * time.Millisecond
}

// Save writes the configuration to path.
//
// Note: this marshals the effective config and will not preserve comments
// from the original YAML.
func (c *Config) Save(path string) error {
	if err := c.Validate(); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// ValidationError ties a validation failure to its YAML path.
type ValidationError struct {
	Path string
	Err  error
}

func (e *ValidationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Path != "" {
		return fmt.Sprintf("%s: %v", e.Path, e.Err)
	}
	return e.Err.Error()
}

func (e *ValidationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

var validWindowTypes = map[string]bool{
	"normal":  true,
	"dialog":  true,
	"utility": true,
	"toolbar": true,
	"dock":    true,
	"desktop": true,
	"splash":  true,
	"unknown": true,
}

func (c *Config) Validate() error {
	switch c.LogLevel {
	case "debug", "info", "warn", "warning", "error":
	default:
		return &ValidationError{Path: "log_level", Err: fmt.Errorf("log_level must be one of: debug, info, warn, error")}
	}
	if c.FrameIntervalMs < 1 || c.FrameIntervalMs > 1000 {
		return &ValidationError{Path: "frame_interval_ms", Err: fmt.Errorf("frame_interval_ms must be between 1 and 1000")}
	}

	nonNegative := []struct {
		path  string
		value int
	}{
		{"glow_size", c.GlowSize},
		{"tab_fade_time", c.TabFadeTime},
		{"tabbing_animation_time", c.TabbingAnimationTime},
		{"change_animation_time", c.ChangeAnimationTime},
		{"drag_hover_time", c.DragHoverTime},
		{"thumb_space", c.ThumbSpace},
		{"border_width", c.BorderWidth},
	}
	for _, f := range nonNegative {
		if f.value < 0 {
			return &ValidationError{Path: f.path, Err: fmt.Errorf("%s must be >= 0", f.path)}
		}
	}

	percents := []struct {
		path  string
		value int
	}{
		{"select_precision", c.SelectPrecision},
		{"select_opacity", c.SelectOpacity},
		{"select_saturation", c.SelectSaturation},
		{"select_brightness", c.SelectBrightness},
	}
	for _, f := range percents {
		if f.value < 0 || f.value > 100 {
			return &ValidationError{Path: f.path, Err: fmt.Errorf("%s must be between 0 and 100", f.path)}
		}
	}
	if c.SelectPrecision == 0 {
		return &ValidationError{Path: "select_precision", Err: fmt.Errorf("select_precision must be > 0")}
	}
	if c.ThumbSize < 16 {
		return &ValidationError{Path: "thumb_size", Err: fmt.Errorf("thumb_size must be >= 16")}
	}

	for i, t := range c.WindowMatch.Types {
		if !validWindowTypes[strings.ToLower(strings.TrimSpace(t))] {
			return &ValidationError{
				Path: fmt.Sprintf("window_match.types[%d]", i),
				Err:  fmt.Errorf("unknown window type %q", t),
			}
		}
	}
	return nil
}
