package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/1broseidon/tabgroup/internal/ipc"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show daemon status",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		status, err := ipc.NewClient().GetStatus()
		if err != nil {
			return err
		}
		if wantJSON(cmd) {
			return printJSON(cmd.OutOrStdout(), status)
		}
		renderStatus(cmd.OutOrStdout(), status)
		return nil
	},
}

var groupsCmd = &cobra.Command{
	Use:   "groups",
	Short: "List window groups",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		groups, err := ipc.NewClient().ListGroups()
		if err != nil {
			return err
		}
		if wantJSON(cmd) {
			return printJSON(cmd.OutOrStdout(), ipc.GroupsData{Groups: groups})
		}
		renderGroups(cmd.OutOrStdout(), groups)
		return nil
	},
}

var monitorsCmd = &cobra.Command{
	Use:   "monitors",
	Short: "List monitors known to the daemon",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		monitors, err := ipc.NewClient().GetMonitors()
		if err != nil {
			return err
		}
		if wantJSON(cmd) {
			return printJSON(cmd.OutOrStdout(), monitors)
		}
		renderMonitors(cmd.OutOrStdout(), monitors)
		return nil
	},
}

var groupCmd = &cobra.Command{
	Use:   "group WINDOW...",
	Short: "Merge windows into one group",
	Long:  "Merge the given windows into one group. A tabbed group among them is reused, then any existing group; otherwise a new group is created. Window ids may be decimal or 0x-prefixed.",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		windows := make([]uint32, 0, len(args))
		for _, a := range args {
			id, err := parseWindow(a)
			if err != nil {
				return err
			}
			windows = append(windows, id)
		}
		data, err := ipc.NewClient().GroupWindows(windows)
		if err != nil {
			return err
		}
		return printAction(cmd, "group", data)
	},
}

// windowCommand builds a command acting on one optional window argument;
// without it the daemon uses the active window.
func windowCommand(use, short string, run func(c *ipc.Client, window uint32) (*ipc.ActionData, error)) *cobra.Command {
	return &cobra.Command{
		Use:   use + " [WINDOW]",
		Short: short,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			window, err := optionalWindow(args)
			if err != nil {
				return err
			}
			data, err := run(ipc.NewClient(), window)
			if err != nil {
				return err
			}
			return printAction(cmd, use, data)
		},
	}
}

func printAction(cmd *cobra.Command, verb string, data *ipc.ActionData) error {
	if wantJSON(cmd) {
		return printJSON(cmd.OutOrStdout(), data)
	}
	renderAction(cmd.OutOrStdout(), verb, data)
	return nil
}

var reloadCmd = &cobra.Command{
	Use:   "reload",
	Short: "Ask the daemon to reload its configuration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := ipc.NewClient().Reload(); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "config reloaded")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statusCmd, groupsCmd, monitorsCmd, groupCmd, reloadCmd)
	rootCmd.AddCommand(
		windowCommand("ungroup", "Dissolve the group of a window", (*ipc.Client).Ungroup),
		windowCommand("remove", "Take a window out of its group", (*ipc.Client).RemoveWindow),
		windowCommand("tab", "Stack the group of a window behind a tab bar", (*ipc.Client).Tab),
		windowCommand("untab", "Spread a tabbed group back out", (*ipc.Client).Untab),
		windowCommand("next", "Switch to the next tab", func(c *ipc.Client, w uint32) (*ipc.ActionData, error) {
			return c.ChangeTab(w, ipc.DirectionRight)
		}),
		windowCommand("prev", "Switch to the previous tab", func(c *ipc.Client, w uint32) (*ipc.ActionData, error) {
			return c.ChangeTab(w, ipc.DirectionLeft)
		}),
		windowCommand("switch", "Make a window the top tab of its group", func(c *ipc.Client, w uint32) (*ipc.ActionData, error) {
			return c.ChangeTab(w, "")
		}),
		windowCommand("color", "Give the group of a window a new color", (*ipc.Client).ChangeColor),
		windowCommand("close", "Close every window in the group of a window", (*ipc.Client).CloseGroup),
	)
}
