package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/1broseidon/tabgroup/internal/group"
	"github.com/1broseidon/tabgroup/internal/ipc"
	"github.com/1broseidon/tabgroup/internal/mcp"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true)
	tabStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#3498db"))
	dimStyle    = lipgloss.NewStyle().Faint(true)
)

// wantJSON reports whether output should be JSON: --json was given or
// stdout is not a terminal.
func wantJSON(cmd *cobra.Command) bool {
	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		return true
	}
	return !term.IsTerminal(int(os.Stdout.Fd()))
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// parseWindow accepts decimal or 0x-prefixed window ids.
func parseWindow(s string) (uint32, error) {
	id, err := strconv.ParseUint(s, 0, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid window id %q", s)
	}
	return uint32(id), nil
}

// optionalWindow returns the window named by args, or zero for the active
// window.
func optionalWindow(args []string) (uint32, error) {
	if len(args) == 0 {
		return 0, nil
	}
	return parseWindow(args[0])
}

func swatch(c [4]uint16) string {
	return lipgloss.NewStyle().Background(lipgloss.Color(mcp.ColorHex(c))).Render("  ")
}

// renderGroups writes one block per group: a color swatch with the group
// state, then its members in tab order.
func renderGroups(w io.Writer, groups []group.GroupInfo) {
	if len(groups) == 0 {
		fmt.Fprintln(w, dimStyle.Render("no groups"))
		return
	}
	for i, g := range groups {
		if i > 0 {
			fmt.Fprintln(w)
		}
		state := "grouped"
		if g.Tabbed {
			state = "tabbed"
		}
		header := fmt.Sprintf("group %d  %s  %d windows", g.Identifier, state, len(g.Members))
		switch g.TabbingState {
		case "fade-in", "fade-out":
			header += "  (" + g.TabbingState + ")"
		}
		fmt.Fprintf(w, "%s %s\n", swatch(g.Color), headerStyle.Render(header))
		for _, m := range g.Members {
			marker := "  "
			line := fmt.Sprintf("%#08x  %-16s %s", uint32(m.ID), m.Class, m.Title)
			switch {
			case g.Tabbed && m.ID == g.TopTab:
				marker = tabStyle.Render("▸ ")
				line = tabStyle.Render(line)
			case m.Hidden || m.Leaving:
				line = dimStyle.Render(line)
			}
			fmt.Fprintf(w, "   %s%s\n", marker, line)
		}
	}
}

func renderStatus(w io.Writer, s *ipc.StatusData) {
	rows := [][2]string{
		{"daemon_running", strconv.FormatBool(s.DaemonRunning)},
		{"windows", strconv.Itoa(s.Windows)},
		{"groups", strconv.Itoa(s.Groups)},
		{"tabbed_groups", strconv.Itoa(s.TabbedGroups)},
		{"selected", strconv.Itoa(s.Selected)},
		{"pending", strconv.Itoa(s.Pending)},
		{"ignoring", strconv.FormatBool(s.Ignoring)},
		{"uptime_seconds", strconv.FormatInt(s.UptimeSeconds, 10)},
	}
	if s.ConfigFile != "" {
		rows = append(rows, [2]string{"config_file", s.ConfigFile})
	}
	for _, r := range rows {
		fmt.Fprintf(w, "%s %s\n", headerStyle.Render(fmt.Sprintf("%-15s", r[0]+":")), r[1])
	}
}

func renderMonitors(w io.Writer, m *ipc.MonitorsData) {
	for _, mon := range m.Monitors {
		fmt.Fprintf(w, "%d  %-10s %dx%d+%d+%d\n", mon.ID, mon.Name, mon.Width, mon.Height, mon.X, mon.Y)
	}
}

func renderAction(w io.Writer, verb string, a *ipc.ActionData) {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %#x: ", verb, a.Window)
	if a.Changed {
		b.WriteString("done")
	} else {
		b.WriteString(dimStyle.Render("no change"))
	}
	if a.Group != 0 {
		fmt.Fprintf(&b, " (group %d)", a.Group)
	}
	fmt.Fprintln(w, b.String())
}
