package main

import (
	"fmt"
	"os"

	"github.com/barnabashub/vizzu-builder/pkg/vizzubuilder"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	exportOutput string
	exportShare  bool
)

var exportCmd = &cobra.Command{
	Use:   "export <script.yaml>",
	Short: "Build a story from a script and write the HTML player",
	Long: `Build a story from a YAML script and write the standalone HTML player.

Script format:

  data: sales.csv            # relative to the script
  tooltip: true
  width: 800
  height: 480
  slides:
    - select: {cat1: Country, value1: Sales}
      chart: Bar             # chart title, or
      index: 0               # position in the chart list
      filters: ["Region=EU,US", "Sales=100..300"]`,
	Args: cobra.ExactArgs(1),
	RunE: runExport,
}

var codeCmd = &cobra.Command{
	Use:   "code <script.yaml>",
	Short: "Print a Go program that rebuilds a scripted story",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		session, err := runScript(args[0])
		if err != nil {
			return err
		}
		defer session.Close()

		code, err := session.StoryCode()
		if code != "" {
			fmt.Fprint(cmd.OutOrStdout(), code)
		}
		return err
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Output file path (default: stdout)")
	exportCmd.Flags().BoolVar(&exportShare, "share", false, "Also upload the story to the share endpoint")
}

func runScript(path string) (*vizzubuilder.Session, error) {
	sc, err := vizzubuilder.LoadScript(path)
	if err != nil {
		return nil, err
	}
	session, err := vizzubuilder.NewSession(opts, nil, logger)
	if err != nil {
		return nil, err
	}
	if err := session.RunScript(sc); err != nil {
		session.Close()
		return nil, err
	}
	return session, nil
}

func runExport(cmd *cobra.Command, args []string) error {
	session, err := runScript(args[0])
	if err != nil {
		return err
	}
	defer session.Close()

	doc, err := session.ExportStory()
	if err != nil {
		return err
	}
	if exportOutput != "" {
		if err := os.WriteFile(exportOutput, doc, 0644); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		logger.Info("Story exported", zap.String("path", exportOutput), zap.Int("slides", session.Story().Len()))
	} else {
		if _, err := cmd.OutOrStdout().Write(doc); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}

	if exportShare {
		if err := session.ShareStory(cmd.Context()); err != nil {
			return err
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "Shared to %s\n", opts.Share.Endpoint)
	}
	return nil
}
