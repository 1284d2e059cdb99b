package main

import (
	"github.com/barnabashub/vizzu-builder/internal/tui"
	"github.com/barnabashub/vizzu-builder/pkg/vizzubuilder"
	"github.com/spf13/cobra"
)

var tuiStyle string

var tuiCmd = &cobra.Command{
	Use:   "tui <dataset>",
	Short: "Build charts and stories in the terminal",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		session, err := vizzubuilder.NewSession(opts, nil, logger)
		if err != nil {
			return err
		}
		defer session.Close()
		if _, err := session.LoadFile(args[0]); err != nil {
			return err
		}
		return tui.Run(cmd.Context(), session, logger, tui.Options{GlamourStyle: tuiStyle})
	},
}

func init() {
	tuiCmd.Flags().StringVar(&tuiStyle, "style", "", "Glamour style of the code panel (dark, light, notty)")
}
