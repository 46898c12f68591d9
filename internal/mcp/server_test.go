package mcp

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/sirupsen/logrus"

	"github.com/1broseidon/tabgroup/internal/group"
	"github.com/1broseidon/tabgroup/internal/ipc"
	"github.com/1broseidon/tabgroup/internal/platform"
)

type call struct {
	method    string
	window    uint32
	direction string
}

type fakeController struct {
	groups []group.GroupInfo
	err    error
	calls  []call
}

func (f *fakeController) record(c call) (*ipc.ActionData, error) {
	f.calls = append(f.calls, c)
	if f.err != nil {
		return nil, f.err
	}
	return &ipc.ActionData{Window: c.window, Changed: true, Group: 9}, nil
}

func (f *fakeController) ListGroups() ([]group.GroupInfo, error) { return f.groups, f.err }

func (f *fakeController) GroupWindows(windows []uint32) (*ipc.ActionData, error) {
	return f.record(call{method: "group", window: windows[0]})
}

func (f *fakeController) Ungroup(w uint32) (*ipc.ActionData, error) {
	return f.record(call{method: "ungroup", window: w})
}

func (f *fakeController) RemoveWindow(w uint32) (*ipc.ActionData, error) {
	return f.record(call{method: "remove", window: w})
}

func (f *fakeController) Tab(w uint32) (*ipc.ActionData, error) {
	return f.record(call{method: "tab", window: w})
}

func (f *fakeController) Untab(w uint32) (*ipc.ActionData, error) {
	return f.record(call{method: "untab", window: w})
}

func (f *fakeController) ChangeTab(w uint32, direction string) (*ipc.ActionData, error) {
	return f.record(call{method: "change_tab", window: w, direction: direction})
}

func newTestServer(ctl *fakeController) *Server {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return NewServer(ctl, logger)
}

func TestListGroups(t *testing.T) {
	ctl := &fakeController{groups: []group.GroupInfo{
		{
			Identifier:   1,
			Color:        [4]uint16{0xff00, 0x8000, 0x0000, 0xffff},
			TabbingState: "none",
			Members: []group.MemberInfo{
				{ID: platform.WindowID(0x400001), Class: "xterm", Title: "shell"},
			},
		},
		{Identifier: 2, Tabbed: true, TopTab: 0x500001, TabbingState: "none"},
	}}
	s := newTestServer(ctl)

	_, out, err := s.handleListGroups(context.Background(), nil, ListGroupsInput{})
	if err != nil {
		t.Fatalf("handleListGroups: %v", err)
	}
	if len(out.Groups) != 2 {
		t.Fatalf("groups = %d, want 2", len(out.Groups))
	}
	first := out.Groups[0]
	if first.Color != "#ff8000" || len(first.Members) != 1 || first.Members[0].Window != 0x400001 {
		t.Fatalf("unexpected summary %+v", first)
	}

	_, out, err = s.handleListGroups(context.Background(), nil, ListGroupsInput{TabbedOnly: true})
	if err != nil {
		t.Fatalf("handleListGroups: %v", err)
	}
	if len(out.Groups) != 1 || out.Groups[0].TopTab != 0x500001 {
		t.Fatalf("tabbed filter = %+v", out.Groups)
	}
}

func TestToolRouting(t *testing.T) {
	tests := []struct {
		name string
		run  func(s *Server) error
		want call
	}{
		{"group", func(s *Server) error {
			_, _, err := s.handleGroupWindows(context.Background(), nil, GroupWindowsInput{Windows: []uint32{5, 6}})
			return err
		}, call{method: "group", window: 5}},
		{"remove", func(s *Server) error {
			_, _, err := s.handleUngroupWindow(context.Background(), nil, UngroupWindowInput{Window: 5})
			return err
		}, call{method: "remove", window: 5}},
		{"ungroup all", func(s *Server) error {
			_, _, err := s.handleUngroupWindow(context.Background(), nil, UngroupWindowInput{Window: 5, All: true})
			return err
		}, call{method: "ungroup", window: 5}},
		{"tab", func(s *Server) error {
			_, _, err := s.handleTabGroup(context.Background(), nil, TabGroupInput{})
			return err
		}, call{method: "tab"}},
		{"untab", func(s *Server) error {
			_, _, err := s.handleTabGroup(context.Background(), nil, TabGroupInput{Window: 7, Untab: true})
			return err
		}, call{method: "untab", window: 7}},
		{"change tab", func(s *Server) error {
			_, _, err := s.handleChangeTab(context.Background(), nil, ChangeTabInput{Window: 7, Direction: "right"})
			return err
		}, call{method: "change_tab", window: 7, direction: "right"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctl := &fakeController{}
			if err := tt.run(newTestServer(ctl)); err != nil {
				t.Fatalf("tool error: %v", err)
			}
			if len(ctl.calls) != 1 || ctl.calls[0] != tt.want {
				t.Fatalf("calls = %+v, want %+v", ctl.calls, tt.want)
			}
		})
	}
}

func TestToolErrors(t *testing.T) {
	s := newTestServer(&fakeController{})
	if _, _, err := s.handleGroupWindows(context.Background(), nil, GroupWindowsInput{}); err == nil {
		t.Fatalf("expected error for empty window list")
	}
	if _, _, err := s.handleChangeTab(context.Background(), nil, ChangeTabInput{Direction: "up"}); err == nil {
		t.Fatalf("expected error for bad direction")
	}

	failing := newTestServer(&fakeController{err: errors.New("daemon down")})
	if _, _, err := failing.handleTabGroup(context.Background(), nil, TabGroupInput{}); err == nil {
		t.Fatalf("expected controller error to surface")
	}
	if _, _, err := failing.handleListGroups(context.Background(), nil, ListGroupsInput{}); err == nil {
		t.Fatalf("expected list error to surface")
	}
}

func TestActionOutput(t *testing.T) {
	s := newTestServer(&fakeController{})
	_, out, err := s.handleTabGroup(context.Background(), nil, TabGroupInput{Window: 3})
	if err != nil {
		t.Fatalf("handleTabGroup: %v", err)
	}
	if out != (ActionOutput{Window: 3, Changed: true, Group: 9}) {
		t.Fatalf("output = %+v", out)
	}
}

func TestColorHex(t *testing.T) {
	if got := ColorHex([4]uint16{0xffff, 0, 0x1234, 0xffff}); got != "#ff0012" {
		t.Fatalf("ColorHex = %q", got)
	}
}
