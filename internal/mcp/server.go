package mcp

import (
	"context"
	"fmt"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/sirupsen/logrus"

	"github.com/1broseidon/tabgroup/internal/group"
	"github.com/1broseidon/tabgroup/internal/ipc"
)

const (
	ServerName    = "tabgroup"
	ServerVersion = "0.1.0"
)

// Controller is the daemon control surface the tools drive. *ipc.Client
// implements it.
type Controller interface {
	ListGroups() ([]group.GroupInfo, error)
	GroupWindows(windows []uint32) (*ipc.ActionData, error)
	Ungroup(window uint32) (*ipc.ActionData, error)
	RemoveWindow(window uint32) (*ipc.ActionData, error)
	Tab(window uint32) (*ipc.ActionData, error)
	Untab(window uint32) (*ipc.ActionData, error)
	ChangeTab(window uint32, direction string) (*ipc.ActionData, error)
}

// Server is the MCP server exposing window grouping tools.
type Server struct {
	mcpServer *mcpsdk.Server
	ctl       Controller
	log       logrus.FieldLogger
}

// NewServer creates a new MCP server that forwards tool calls to ctl.
func NewServer(ctl Controller, logger logrus.FieldLogger) *Server {
	if ctl == nil {
		ctl = ipc.NewClient()
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	s := &Server{ctl: ctl, log: logger}
	s.mcpServer = mcpsdk.NewServer(
		&mcpsdk.Implementation{
			Name:    ServerName,
			Version: ServerVersion,
		},
		nil,
	)
	s.registerTools()
	return s
}

// Run starts the MCP server on stdio transport, blocking until done.
func (s *Server) Run(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcpsdk.StdioTransport{})
}

func (s *Server) registerTools() {
	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "list_groups",
		Description: "List every window group managed by the tabgroup daemon with its color, tab state and member windows (X11 ids, classes and titles). Tabbed groups list members in tab order.",
	}, s.handleListGroups)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "group_windows",
		Description: "Merge windows into one group. If one of them already belongs to a tabbed group that group is reused, otherwise any existing group is, otherwise a new group is created.",
	}, s.handleGroupWindows)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "ungroup_window",
		Description: "Take a window out of its group, or dissolve the whole group with all=true. A window leaving a tabbed group animates back to its own position first.",
	}, s.handleUngroupWindow)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "tab_group",
		Description: "Collapse the group of a window into a tab stack with that window on top, or spread it back out with untab=true.",
	}, s.handleTabGroup)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "change_tab",
		Description: "Switch the top tab of a tabbed group: cycle left or right, or bring the given window to the top when no direction is set.",
	}, s.handleChangeTab)
}

func (s *Server) handleListGroups(_ context.Context, _ *mcpsdk.CallToolRequest, args ListGroupsInput) (*mcpsdk.CallToolResult, ListGroupsOutput, error) {
	groups, err := s.ctl.ListGroups()
	if err != nil {
		return nil, ListGroupsOutput{}, err
	}
	out := ListGroupsOutput{Groups: make([]GroupSummary, 0, len(groups))}
	for _, g := range groups {
		if args.TabbedOnly && !g.Tabbed {
			continue
		}
		out.Groups = append(out.Groups, summarize(g))
	}
	s.log.WithField("groups", len(out.Groups)).Debug("mcp: list_groups")
	return nil, out, nil
}

func (s *Server) handleGroupWindows(_ context.Context, _ *mcpsdk.CallToolRequest, args GroupWindowsInput) (*mcpsdk.CallToolResult, ActionOutput, error) {
	if len(args.Windows) == 0 {
		return nil, ActionOutput{}, fmt.Errorf("windows must list at least one window id")
	}
	data, err := s.ctl.GroupWindows(args.Windows)
	return s.actionResult("group_windows", data, err)
}

func (s *Server) handleUngroupWindow(_ context.Context, _ *mcpsdk.CallToolRequest, args UngroupWindowInput) (*mcpsdk.CallToolResult, ActionOutput, error) {
	var data *ipc.ActionData
	var err error
	if args.All {
		data, err = s.ctl.Ungroup(args.Window)
	} else {
		data, err = s.ctl.RemoveWindow(args.Window)
	}
	return s.actionResult("ungroup_window", data, err)
}

func (s *Server) handleTabGroup(_ context.Context, _ *mcpsdk.CallToolRequest, args TabGroupInput) (*mcpsdk.CallToolResult, ActionOutput, error) {
	var data *ipc.ActionData
	var err error
	if args.Untab {
		data, err = s.ctl.Untab(args.Window)
	} else {
		data, err = s.ctl.Tab(args.Window)
	}
	return s.actionResult("tab_group", data, err)
}

func (s *Server) handleChangeTab(_ context.Context, _ *mcpsdk.CallToolRequest, args ChangeTabInput) (*mcpsdk.CallToolResult, ActionOutput, error) {
	switch args.Direction {
	case "", ipc.DirectionLeft, ipc.DirectionRight:
	default:
		return nil, ActionOutput{}, fmt.Errorf("direction must be %q or %q, got %q", ipc.DirectionLeft, ipc.DirectionRight, args.Direction)
	}
	data, err := s.ctl.ChangeTab(args.Window, args.Direction)
	return s.actionResult("change_tab", data, err)
}

func (s *Server) actionResult(tool string, data *ipc.ActionData, err error) (*mcpsdk.CallToolResult, ActionOutput, error) {
	if err != nil {
		s.log.WithFields(logrus.Fields{"tool": tool, "error": err}).Debug("mcp: tool failed")
		return nil, ActionOutput{}, err
	}
	out := ActionOutput{Window: data.Window, Changed: data.Changed, Group: data.Group}
	s.log.WithFields(logrus.Fields{"tool": tool, "window": out.Window, "changed": out.Changed}).Debug("mcp: tool called")
	return nil, out, nil
}

// ColorHex formats a 16-bit RGBA group color as #rrggbb.
func ColorHex(c [4]uint16) string {
	return fmt.Sprintf("#%02x%02x%02x", c[0]>>8, c[1]>>8, c[2]>>8)
}
