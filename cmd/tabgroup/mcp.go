package main

import (
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/1broseidon/tabgroup/internal/ipc"
	"github.com/1broseidon/tabgroup/internal/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Model Context Protocol integration",
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server (stdio transport)",
	Long:  "Start the MCP server on stdio. Tool calls are forwarded to the running daemon over its IPC socket.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		// stdout carries the protocol; logs go to stderr.
		logger := logrus.New()
		logger.SetLevel(logrus.WarnLevel)

		return mcp.NewServer(ipc.NewClient(), logger).Run(ctx)
	},
}

func init() {
	mcpCmd.AddCommand(mcpServeCmd)
	rootCmd.AddCommand(mcpCmd)
}
