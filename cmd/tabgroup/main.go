package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/1broseidon/tabgroup/internal/config"
)

var version = "dev"

var rootCmd = &cobra.Command{
	Use:           "tabgroup",
	Short:         "Group X11 windows and stack them behind tab bars",
	Long:          "tabgroup runs a daemon that groups windows so they move, resize, minimize and raise together, and collapses groups into tab stacks. The other commands control a running daemon over its IPC socket.",
	SilenceUsage:  true,
	SilenceErrors: false,
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.Version = version
	rootCmd.PersistentFlags().String("config", "", "Config file path (default: ~/.config/tabgroup/config.yaml)")
	rootCmd.PersistentFlags().Bool("json", false, "Print JSON even when stdout is a terminal")
}

// configPath resolves the --config flag.
func configPath(cmd *cobra.Command) (string, error) {
	path, _ := cmd.Flags().GetString("config")
	if path != "" {
		return path, nil
	}
	return config.DefaultConfigPath()
}

func loadConfig(cmd *cobra.Command) (*config.LoadResult, string, error) {
	path, err := configPath(cmd)
	if err != nil {
		return nil, "", err
	}
	res, err := config.LoadFromPath(path)
	if err != nil {
		return nil, path, err
	}
	return res, path, nil
}
