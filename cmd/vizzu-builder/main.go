// Package main provides the CLI entry point for vizzu-builder.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/barnabashub/vizzu-builder/internal/logging"
	"github.com/barnabashub/vizzu-builder/pkg/vizzubuilder"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	configPath string
	verbose    bool
	logFile    string

	opts   vizzubuilder.Options
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "vizzu-builder",
	Short: "Build animated Vizzu charts and data stories from tabular data",
	Long: `vizzu-builder suggests Vizzu chart configurations for the columns you pick
from a CSV or Excel dataset, collects them into a data story, and writes the
story as a standalone HTML player or as a Go program that rebuilds it.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		if opts, err = vizzubuilder.LoadOptions(configPath); err != nil {
			return err
		}
		file := logFile
		if file == "" {
			file = opts.Logging.File
		}
		// The terminal UI owns the screen; without a file there is nowhere to log.
		if cmd.Name() == "tui" && file == "" {
			logger = logging.Discard()
			return nil
		}
		logger, err = logging.New(opts.Logging.Level, verbose, file)
		return err
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Options file (YAML)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "Write logs to this file")

	rootCmd.AddCommand(serveCmd, tuiCmd, presetsCmd, exportCmd, codeCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
