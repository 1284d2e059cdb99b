package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	presetsJSON, presetsPretty, exportOutput, exportShare = false, false, "", false
	serveAddr, serveWatch = "", false
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func writeStory(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	csv := "Country,Region,Sales\nHungary,EU,100\nAustria,EU,200\nUSA,US,300\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "sales.csv"), []byte(csv), 0644))
	script := `data: sales.csv
slides:
  - select: {cat1: Country, value1: Sales}
    chart: Pie
  - select: {cat1: Country, cat2: Region, value1: Sales}
    index: 0
    filters: ["Region=EU"]
`
	path := filepath.Join(dir, "story.yaml")
	require.NoError(t, os.WriteFile(path, []byte(script), 0644))
	return path
}

func TestPresetsCommand(t *testing.T) {
	out, err := execute(t, "presets")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(out, "Cat1, Value1\n"), out)
	require.Contains(t, out, "Stacked column")

	out, err = execute(t, "presets", "--json")
	require.NoError(t, err)
	var listing []presetSummary
	require.NoError(t, json.Unmarshal([]byte(out), &listing))
	require.Len(t, listing, 4)
	require.Equal(t, "Cat1, Cat2, Value1, Value2", listing[3].Key)
}

func TestExportCommand(t *testing.T) {
	script := writeStory(t)
	target := filepath.Join(t.TempDir(), "story.html")

	_, err := execute(t, "export", script, "-o", target)
	require.NoError(t, err)
	doc, err := os.ReadFile(target)
	require.NoError(t, err)
	require.Contains(t, string(doc), "vizzu-player")
	require.Contains(t, string(doc), `start-slide="0"`)

	out, err := execute(t, "code", script)
	require.NoError(t, err)
	require.Contains(t, out, "package main")
	require.Equal(t, 2, strings.Count(out, "s.AddSlide("))
}

func TestExportCommandErrors(t *testing.T) {
	_, err := execute(t, "export", filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)

	_, err = execute(t, "serve", "--watch")
	require.ErrorContains(t, err, "--watch needs a dataset file")
}

type brokenPipe struct{}

func (brokenPipe) Write([]byte) (int, error) { return 0, errors.New("broken pipe") }

func TestExportCommandWriteFailure(t *testing.T) {
	script := writeStory(t)
	exportOutput, exportShare = "", false
	rootCmd.SetOut(brokenPipe{})
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetArgs([]string{"export", script})
	err := rootCmd.Execute()
	require.ErrorContains(t, err, "failed to write output: broken pipe")
}
