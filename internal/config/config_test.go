package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, data string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	return path
}

func TestDefaultConfig_Valid(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected defaults to validate, got %v", err)
	}
	if cfg.TabbingAnimationTime != 350 || cfg.ChangeAnimationTime != 500 {
		t.Fatalf("unexpected animation defaults: %d/%d", cfg.TabbingAnimationTime, cfg.ChangeAnimationTime)
	}
	if cfg.FrameInterval() != 16*time.Millisecond {
		t.Fatalf("expected 16ms frame interval, got %v", cfg.FrameInterval())
	}
}

func TestLoadFromPath_EmptyFileUsesDefaults(t *testing.T) {
	path := writeConfig(t, "# empty\n")

	res, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if res.Config.GlowSize != DefaultConfig().GlowSize {
		t.Fatalf("expected default glow_size, got %d", res.Config.GlowSize)
	}
	if res.File != path {
		t.Fatalf("expected File %q, got %q", path, res.File)
	}
}

func TestLoadFromPath_MissingFileUsesDefaults(t *testing.T) {
	res, err := LoadFromPath(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if res.File != "" {
		t.Fatalf("expected no file, got %q", res.File)
	}
	if !res.Config.MoveAll {
		t.Fatalf("expected move_all default true")
	}
}

func TestLoadFromPath_Overrides(t *testing.T) {
	path := writeConfig(t, strings.Join([]string{
		"auto_group: true",
		"relative_distance: true",
		"select_precision: 80",
		"window_match:",
		"  classes:",
		"    - kitty",
		"    - class: Gimp",
		"      ignore: true",
		"hotkeys:",
		"  tab: Mod1-t",
		"",
	}, "\n"))

	res, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	cfg := res.Config
	if !cfg.AutoGroup || !cfg.RelativeDistance {
		t.Fatalf("expected boolean overrides to apply")
	}
	if cfg.SelectPrecision != 80 {
		t.Fatalf("expected select_precision 80, got %d", cfg.SelectPrecision)
	}
	if got := cfg.WindowMatch.Classes.Allowed(); len(got) != 1 || got[0] != "kitty" {
		t.Fatalf("unexpected allowed classes %v", got)
	}
	if got := cfg.WindowMatch.Classes.Ignored(); len(got) != 1 || got[0] != "Gimp" {
		t.Fatalf("unexpected ignored classes %v", got)
	}
	if cfg.Hotkeys.Tab != "Mod1-t" {
		t.Fatalf("expected tab hotkey override, got %q", cfg.Hotkeys.Tab)
	}
	if cfg.Hotkeys.Group != DefaultConfig().Hotkeys.Group {
		t.Fatalf("expected untouched hotkeys to keep defaults")
	}
}

func TestLoadFromPath_UnknownFieldRejected(t *testing.T) {
	path := writeConfig(t, "glow_sise: 10\n")
	if _, err := LoadFromPath(path); err == nil {
		t.Fatalf("expected unknown field to fail")
	}
}

func TestLoadFromPath_ValidationErrorHasPath(t *testing.T) {
	path := writeConfig(t, "select_opacity: 150\n")

	_, err := LoadFromPath(path)
	if err == nil {
		t.Fatalf("expected validation error")
	}
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %T: %v", err, err)
	}
	if verr.Path != "select_opacity" {
		t.Fatalf("expected path select_opacity, got %q", verr.Path)
	}
}

func TestValidate_RejectsUnknownWindowType(t *testing.T) {
	cfg := DefaultConfig()
	cfg.WindowMatch.Types = []string{"normal", "popup"}
	err := cfg.Validate()
	var verr *ValidationError
	if !errors.As(err, &verr) || verr.Path != "window_match.types[1]" {
		t.Fatalf("expected window_match.types[1] error, got %v", err)
	}
}

func TestClassList_RejectsBadEntries(t *testing.T) {
	cases := []string{
		"window_match:\n  classes: kitty\n",
		"window_match:\n  classes:\n    - \"\"\n",
		"window_match:\n  classes:\n    - class: kitty\n      default: true\n",
		"window_match:\n  classes:\n    - 42\n",
	}
	for _, data := range cases {
		path := writeConfig(t, data)
		if _, err := LoadFromPath(path); err == nil {
			t.Fatalf("expected error for %q", data)
		}
	}
}

func TestSave_RoundTrips(t *testing.T) {
	cfg := DefaultConfig()
	cfg.GlowSize = 32
	cfg.WindowMatch.Classes = ClassList{{Class: "kitty"}, {Class: "Gimp", Ignore: true}}

	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	if err := cfg.Save(path); err != nil {
		t.Fatalf("save: %v", err)
	}
	res, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if res.Config.GlowSize != 32 {
		t.Fatalf("expected glow_size 32, got %d", res.Config.GlowSize)
	}
	if len(res.Config.WindowMatch.Classes) != 2 || !res.Config.WindowMatch.Classes[1].Ignore {
		t.Fatalf("unexpected classes %+v", res.Config.WindowMatch.Classes)
	}
}
