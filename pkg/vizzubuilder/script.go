package vizzubuilder

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/barnabashub/vizzu-builder/pkg/vizzubuilder/chart"
	"github.com/barnabashub/vizzu-builder/pkg/vizzubuilder/filter"
	"github.com/barnabashub/vizzu-builder/pkg/vizzubuilder/models"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// Script describes a story non-interactively:
//
//	data: sales.csv
//	tooltip: true
//	width: 800
//	height: 480
//	slides:
//	  - select: {cat1: Country, value1: Sales}
//	    chart: Bar
//	    filters: ["Region=EU,US"]
//	  - select: {cat1: Country, cat2: Region, value1: Sales}
//	    index: 0
type Script struct {
	// Data is the dataset file, relative to the script's directory.
	Data    string        `yaml:"data"`
	Tooltip *bool         `yaml:"tooltip,omitempty"`
	Width   int           `yaml:"width,omitempty"`
	Height  int           `yaml:"height,omitempty"`
	Slides  []ScriptSlide `yaml:"slides"`

	dir string
}

// ScriptSlide is one slide of a Script. The chart is picked by title when
// Chart is set, otherwise by its position in the chart list.
type ScriptSlide struct {
	Select models.Selection `yaml:"select"`
	Chart  string           `yaml:"chart,omitempty"`
	Index  int              `yaml:"index,omitempty"`
	// Filters are criteria in the form accepted by filter.ParseInput.
	Filters []string `yaml:"filters,omitempty"`
}

// LoadScript reads a YAML story script.
func LoadScript(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read script: %w", err)
	}
	sc, err := ParseScript(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	sc.dir = filepath.Dir(path)
	return sc, nil
}

// ParseScript parses a YAML story script. Relative data paths are resolved
// against the working directory.
func ParseScript(data []byte) (*Script, error) {
	var sc Script
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, fmt.Errorf("failed to parse script: %w", err)
	}
	if sc.Data == "" {
		return nil, errors.New("script has no data file")
	}
	if (sc.Width != 0 || sc.Height != 0) && (sc.Width <= 0 || sc.Height <= 0) {
		return nil, fmt.Errorf("invalid story size %dx%d", sc.Width, sc.Height)
	}
	return &sc, nil
}

// DataPath returns the resolved dataset path.
func (sc *Script) DataPath() string {
	if filepath.IsAbs(sc.Data) || sc.dir == "" {
		return sc.Data
	}
	return filepath.Join(sc.dir, sc.Data)
}

// RunScript loads the script's dataset into the session and adds its slides
// in order. Errors name the failing slide, counted from 1.
func (s *Session) RunScript(sc *Script) error {
	if _, err := s.LoadFile(sc.DataPath()); err != nil {
		return err
	}
	if sc.Tooltip != nil {
		s.SetTooltip(*sc.Tooltip)
	}
	if sc.Width > 0 {
		s.story.SetSize(sc.Width, sc.Height)
	}

	for i, slide := range sc.Slides {
		if err := s.runSlide(slide); err != nil {
			return fmt.Errorf("slide %d: %w", i+1, err)
		}
	}
	s.logger.Info("Script finished", zap.String("data", sc.Data), zap.Int("slides", s.story.Len()))
	return nil
}

func (s *Session) runSlide(slide ScriptSlide) error {
	if err := s.Select(slide.Select); err != nil {
		return err
	}
	inputs := make([]filter.Input, 0, len(slide.Filters))
	for _, text := range slide.Filters {
		in, err := filter.ParseInput(s.columns, text)
		if err != nil {
			return err
		}
		inputs = append(inputs, in)
	}
	if err := s.ApplyFilters(inputs); err != nil {
		return err
	}
	s.SetFiltersEnabled(true)

	charts, err := s.Charts()
	if err != nil {
		return err
	}
	i, err := pickChart(charts, slide)
	if err != nil {
		return err
	}
	return s.AddChartToStory(i)
}

func pickChart(charts []chart.Chart, slide ScriptSlide) (int, error) {
	if slide.Chart == "" {
		if slide.Index < 0 || slide.Index >= len(charts) {
			return 0, fmt.Errorf("%w: %d", ErrNoChart, slide.Index)
		}
		return slide.Index, nil
	}
	for i, c := range charts {
		if strings.EqualFold(c.Title, slide.Chart) {
			return i, nil
		}
	}
	return 0, fmt.Errorf("%w: %q for %s", ErrNoChart, slide.Chart, slide.Select.Key())
}
