package main

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/barnabashub/vizzu-builder/internal/server"
	"github.com/barnabashub/vizzu-builder/internal/watch"
	"github.com/barnabashub/vizzu-builder/pkg/vizzubuilder"
	"github.com/barnabashub/vizzu-builder/pkg/vizzubuilder/parser"
	"github.com/barnabashub/vizzu-builder/pkg/vizzubuilder/preset"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var (
	serveAddr  string
	serveWatch bool
)

const watchDebounce = 300 * time.Millisecond

var serveCmd = &cobra.Command{
	Use:   "serve [dataset]",
	Short: "Serve the web builder",
	Long: `Serve the builder in the browser. A dataset given on the command line is
preloaded into every session; with --watch it is reloaded when the file
changes on disk.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (default from options, :8501)")
	serveCmd.Flags().BoolVar(&serveWatch, "watch", false, "Reload the dataset when the file changes")
}

func runServe(cmd *cobra.Command, args []string) error {
	if serveAddr != "" {
		opts.Server.Addr = serveAddr
	}
	if serveWatch && len(args) == 0 {
		return fmt.Errorf("--watch needs a dataset file")
	}

	presets, err := preset.Load(opts.Presets.Path)
	if err != nil {
		return vizzubuilder.NewStartupError("presets", err)
	}
	srv := server.New(opts, presets, logger)

	load := func(path string) error {
		ds, err := parser.LoadFile(path, parser.Options{
			Sheet:       opts.Data.Sheet,
			Categorical: opts.Data.CategoricalColumns,
		})
		if err != nil {
			return err
		}
		srv.SetDataset(filepath.Base(path), ds)
		return nil
	}
	if len(args) == 1 {
		if err := load(args[0]); err != nil {
			return err
		}
	}

	var fw *watch.FileWatcher
	if serveWatch {
		reload := func(path string) {
			if err := load(path); err != nil {
				logger.Warn("Failed to reload dataset", zap.String("path", path), zap.Error(err))
			}
		}
		if fw, err = watch.New(args[0], watchDebounce, reload, logger); err != nil {
			return vizzubuilder.NewStartupError("watcher", err)
		}
		defer fw.Close()
	}

	g, ctx := errgroup.WithContext(cmd.Context())
	g.Go(func() error {
		return srv.Run(ctx, opts.Server.Addr)
	})
	if fw != nil {
		g.Go(func() error {
			return fw.Run(ctx)
		})
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Serving on %s\n", opts.Server.Addr)
	return g.Wait()
}
