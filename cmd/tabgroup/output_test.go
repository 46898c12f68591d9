package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/1broseidon/tabgroup/internal/group"
	"github.com/1broseidon/tabgroup/internal/ipc"
)

func TestParseWindow(t *testing.T) {
	tests := []struct {
		in      string
		want    uint32
		wantErr bool
	}{
		{"42", 42, false},
		{"0x1a00003", 0x1a00003, false},
		{"0X10", 16, false},
		{"nope", 0, true},
		{"0x100000000", 0, true},
		{"-1", 0, true},
	}
	for _, tt := range tests {
		got, err := parseWindow(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("parseWindow(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("parseWindow(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestOptionalWindow(t *testing.T) {
	if w, err := optionalWindow(nil); err != nil || w != 0 {
		t.Fatalf("optionalWindow(nil) = %d, %v", w, err)
	}
	if w, err := optionalWindow([]string{"0x20"}); err != nil || w != 0x20 {
		t.Fatalf("optionalWindow(0x20) = %d, %v", w, err)
	}
}

func TestRenderGroups(t *testing.T) {
	var buf bytes.Buffer
	renderGroups(&buf, []group.GroupInfo{{
		Identifier:   3,
		Color:        [4]uint16{0xffff, 0, 0, 0xffff},
		Tabbed:       true,
		TopTab:       0x400001,
		TabbingState: "fade-in",
		Members: []group.MemberInfo{
			{ID: 0x400001, Class: "xterm", Title: "shell"},
			{ID: 0x500001, Class: "firefox", Title: "docs", Hidden: true},
		},
	}})

	out := buf.String()
	for _, want := range []string{"group 3", "tabbed", "2 windows", "(fade-in)", "0x400001", "xterm", "shell", "firefox", "docs"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestRenderGroupsEmpty(t *testing.T) {
	var buf bytes.Buffer
	renderGroups(&buf, nil)
	if !strings.Contains(buf.String(), "no groups") {
		t.Fatalf("output = %q", buf.String())
	}
}

func TestRenderAction(t *testing.T) {
	var buf bytes.Buffer
	renderAction(&buf, "tab", &ipc.ActionData{Window: 0x10, Changed: true, Group: 2})
	if got := buf.String(); !strings.Contains(got, "tab 0x10: done (group 2)") {
		t.Fatalf("output = %q", got)
	}
}

func TestPrintJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := printJSON(&buf, ipc.ActionData{Window: 1, Changed: true}); err != nil {
		t.Fatalf("printJSON: %v", err)
	}
	if !strings.Contains(buf.String(), `"changed": true`) {
		t.Fatalf("output = %s", buf.String())
	}
}

func TestCommandsRegistered(t *testing.T) {
	for _, name := range []string{"status", "groups", "group", "ungroup", "remove", "tab", "untab", "next", "prev", "color", "close", "config", "mcp", "reload"} {
		if cmd, _, err := rootCmd.Find([]string{name}); err != nil || cmd.Name() != name {
			t.Errorf("command %q not registered", name)
		}
	}
}
