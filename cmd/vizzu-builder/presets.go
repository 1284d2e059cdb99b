package main

import (
	"encoding/json"
	"fmt"

	"github.com/barnabashub/vizzu-builder/pkg/vizzubuilder/preset"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	presetsJSON   bool
	presetsPretty bool
)

var presetsCmd = &cobra.Command{
	Use:   "presets",
	Short: "List the chart presets of every column-role combination",
	Args:  cobra.NoArgs,
	RunE:  runPresets,
}

func init() {
	presetsCmd.Flags().BoolVar(&presetsJSON, "json", false, "Output JSON")
	presetsCmd.Flags().BoolVar(&presetsPretty, "pretty", false, "Pretty-print JSON output")
}

// presetSummary is one key of the JSON listing.
type presetSummary struct {
	Key    string   `json:"key"`
	Charts []string `json:"charts"`
}

func runPresets(cmd *cobra.Command, args []string) error {
	set, err := preset.Load(opts.Presets.Path)
	if err != nil {
		return err
	}

	keys := set.Keys()
	logger.Debug("Presets loaded", zap.Int("keys", len(keys)), zap.Int("templates", set.Len()))
	summaries := make([]presetSummary, 0, len(keys))
	for _, key := range keys {
		templates, _ := set.Lookup(key)
		s := presetSummary{Key: key, Charts: make([]string, 0, len(templates))}
		for _, t := range templates {
			s.Charts = append(s.Charts, t.Chart)
		}
		summaries = append(summaries, s)
	}

	out := cmd.OutOrStdout()
	if presetsJSON {
		data, err := toJSON(summaries, presetsPretty)
		if err != nil {
			return fmt.Errorf("serialization failed: %w", err)
		}
		fmt.Fprintln(out, string(data))
		return nil
	}
	for _, s := range summaries {
		fmt.Fprintf(out, "%s\n", s.Key)
		for i, c := range s.Charts {
			fmt.Fprintf(out, "  %2d  %s\n", i, c)
		}
	}
	return nil
}

func toJSON(v any, pretty bool) ([]byte, error) {
	if pretty {
		return json.MarshalIndent(v, "", "  ")
	}
	return json.Marshal(v)
}
