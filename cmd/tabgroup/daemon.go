//go:build linux

package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/1broseidon/tabgroup/internal/daemon"
)

var daemonCmd = &cobra.Command{
	Use:   "daemon",
	Short: "Run the window grouping daemon",
	Long:  "Run the window grouping daemon against the X display in $DISPLAY. SIGHUP reloads the configuration; SIGINT and SIGTERM stop it.",
	Args:  cobra.NoArgs,
	RunE:  runDaemon,
}

func init() {
	rootCmd.AddCommand(daemonCmd)
}

func runDaemon(cmd *cobra.Command, args []string) error {
	logger := logrus.New()
	logger.SetOutput(os.Stderr)
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	res, path, err := loadConfig(cmd)
	if err != nil {
		logger.WithError(err).Error("failed to load configuration")
		return err
	}
	logger.WithFields(logrus.Fields{"file": res.File, "path": path}).Info("configuration loaded")

	d, err := daemon.New(res.Config, path, logger)
	if err != nil {
		logger.WithError(err).Error("failed to start daemon")
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)
	defer signal.Stop(hup)
	go func() {
		for {
			select {
			case <-hup:
				logger.Info("received SIGHUP, reloading config")
				if err := d.Reload(); err != nil {
					logger.WithError(err).Error("config reload failed")
				}
			case <-ctx.Done():
				return
			}
		}
	}()

	return d.Run(ctx)
}
