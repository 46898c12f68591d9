package mcp

import "github.com/1broseidon/tabgroup/internal/group"

// ListGroupsInput is the input for the list_groups tool.
type ListGroupsInput struct {
	TabbedOnly bool `json:"tabbed_only,omitempty" jsonschema:"When true, only return groups that currently have a tab bar"`
}

// ListGroupsOutput is the output for the list_groups tool.
type ListGroupsOutput struct {
	Groups []GroupSummary `json:"groups"`
}

// GroupSummary describes a single group.
type GroupSummary struct {
	Identifier uint64        `json:"identifier"`
	Color      string        `json:"color"`
	Tabbed     bool          `json:"tabbed"`
	TopTab     uint32        `json:"top_tab,omitempty"`
	State      string        `json:"state"`
	Members    []MemberEntry `json:"members"`
}

// MemberEntry describes a window inside a group.
type MemberEntry struct {
	Window uint32 `json:"window"`
	Class  string `json:"class"`
	Title  string `json:"title"`
	Hidden bool   `json:"hidden,omitempty"`
}

// GroupWindowsInput is the input for the group_windows tool.
type GroupWindowsInput struct {
	Windows []uint32 `json:"windows" jsonschema:"required,X11 window ids to merge into one group. An existing tabbed group among them is reused."`
}

// UngroupWindowInput is the input for the ungroup_window tool.
type UngroupWindowInput struct {
	Window uint32 `json:"window,omitempty" jsonschema:"X11 window id (default: the active window)"`
	All    bool   `json:"all,omitempty" jsonschema:"When true, dissolve the whole group instead of removing only this window"`
}

// TabGroupInput is the input for the tab_group tool.
type TabGroupInput struct {
	Window uint32 `json:"window,omitempty" jsonschema:"X11 window id (default: the active window). It becomes the top tab."`
	Untab  bool   `json:"untab,omitempty" jsonschema:"When true, remove the tab bar and spread the windows back out"`
}

// ChangeTabInput is the input for the change_tab tool.
type ChangeTabInput struct {
	Window    uint32 `json:"window,omitempty" jsonschema:"X11 window id (default: the active window)"`
	Direction string `json:"direction,omitempty" jsonschema:"left or right to cycle through the tabs; empty makes window itself the top tab"`
}

// ActionOutput is the output for every mutating tool.
type ActionOutput struct {
	Window  uint32 `json:"window"`
	Changed bool   `json:"changed"`
	Group   uint64 `json:"group,omitempty"`
}

func summarize(info group.GroupInfo) GroupSummary {
	s := GroupSummary{
		Identifier: info.Identifier,
		Color:      ColorHex(info.Color),
		Tabbed:     info.Tabbed,
		TopTab:     uint32(info.TopTab),
		State:      info.TabbingState,
		Members:    make([]MemberEntry, 0, len(info.Members)),
	}
	for _, m := range info.Members {
		s.Members = append(s.Members, MemberEntry{
			Window: uint32(m.ID),
			Class:  m.Class,
			Title:  m.Title,
			Hidden: m.Hidden,
		})
	}
	return s
}
