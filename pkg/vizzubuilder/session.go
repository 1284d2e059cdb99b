package vizzubuilder

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	"github.com/barnabashub/vizzu-builder/pkg/vizzubuilder/chart"
	"github.com/barnabashub/vizzu-builder/pkg/vizzubuilder/codegen"
	"github.com/barnabashub/vizzu-builder/pkg/vizzubuilder/filter"
	"github.com/barnabashub/vizzu-builder/pkg/vizzubuilder/models"
	"github.com/barnabashub/vizzu-builder/pkg/vizzubuilder/parser"
	"github.com/barnabashub/vizzu-builder/pkg/vizzubuilder/preset"
	"github.com/barnabashub/vizzu-builder/pkg/vizzubuilder/story"
	"go.uber.org/zap"
)

// ExportFileName is the file name offered for downloaded stories.
const ExportFileName = "story.html"

// Session holds the state of one interactive user: the dataset, filter
// criteria, role selection, story and the code log of added slides.
// A Session is not safe for concurrent use.
type Session struct {
	opts     Options
	presets  *preset.Set
	logger   *zap.Logger
	uploader *story.Uploader

	source  string
	data    *models.Dataset
	coerced *models.Dataset

	columns   []filter.Column
	inputs    []filter.Input
	filtersOn bool
	predicate filter.And

	sel     models.Selection
	tooltip bool

	story     *story.Story
	storyCode []string
}

// NewSession creates a session. If presets is nil the preset table named by
// opts is loaded; failing to load it is a *StartupError.
func NewSession(opts Options, presets *preset.Set, logger *zap.Logger) (*Session, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if presets == nil {
		var err error
		if presets, err = preset.Load(opts.Presets.Path); err != nil {
			return nil, NewStartupError("presets", err)
		}
	}
	return &Session{
		opts:    opts,
		presets: presets,
		logger:  logger,
		uploader: &story.Uploader{
			Endpoint: opts.Share.Endpoint,
			Timeout:  opts.Share.Timeout,
			Logger:   logger,
		},
		filtersOn: true,
		tooltip:   true,
	}, nil
}

// Close releases the session's data. The session must not be used afterwards.
func (s *Session) Close() {
	s.logger.Debug("Closing session", zap.String("source", s.source), zap.Int("slides", len(s.storyCode)))
	s.data, s.coerced, s.story = nil, nil, nil
	s.columns, s.inputs, s.predicate, s.storyCode = nil, nil, nil, nil
}

// Presets returns the session's preset table.
func (s *Session) Presets() *preset.Set {
	return s.presets
}

// LoadFile reads a dataset file and makes it the active dataset.
func (s *Session) LoadFile(path string) (bool, error) {
	ds, err := parser.LoadFile(path, parser.Options{
		Sheet:       s.opts.Data.Sheet,
		Categorical: s.opts.Data.CategoricalColumns,
	})
	if err != nil {
		return false, err
	}
	return s.LoadDataset(filepath.Base(path), ds), nil
}

// LoadDataset makes ds the active dataset. source is the file name used by
// generated code; empty means the data is inlined. The story, filters and
// selection are reset only when ds differs from the active dataset by value;
// the return value reports whether that happened.
func (s *Session) LoadDataset(source string, ds *models.Dataset) bool {
	s.source = source
	if s.data != nil && s.data.Equal(ds) {
		s.logger.Debug("Dataset unchanged", zap.String("source", source))
		return false
	}

	s.data = ds
	s.coerced = parser.CoerceTimes(ds)
	s.columns = filter.Describe(s.coerced, s.opts.Data.CategoricalThreshold)
	s.inputs = nil
	s.predicate = nil
	s.sel = s.defaultSelection()

	if s.story == nil {
		s.story = story.New(s.coerced)
	} else {
		s.story.Reset(s.coerced)
	}
	s.story.SetSize(s.opts.Story.Width, s.opts.Story.Height)
	s.story.SetTooltip(s.tooltip)
	s.storyCode = nil

	s.logger.Info("Dataset loaded",
		zap.String("source", source),
		zap.Int("rows", ds.Rows),
		zap.Int("columns", len(ds.Columns)))
	return true
}

// defaultSelection picks the first categorical and the first numeric column
// for the mandatory roles.
func (s *Session) defaultSelection() models.Selection {
	var sel models.Selection
	cats, nums := parser.ClassifyColumns(s.data)
	if len(cats) > 0 {
		sel.Cat1 = cats[0]
	}
	if len(nums) > 0 {
		sel.Value1 = nums[0]
	}
	return sel
}

// Dataset returns the active dataset.
func (s *Session) Dataset() *models.Dataset {
	return s.data
}

// Source returns the file name of the active dataset.
func (s *Session) Source() string {
	return s.source
}

// Columns partitions the dataset columns into categorical and numeric names.
func (s *Session) Columns() (categorical, numeric []string) {
	return parser.ClassifyColumns(s.data)
}

// FilterColumns describes the filter widget of every column.
func (s *Session) FilterColumns() []filter.Column {
	return s.columns
}

// Inputs returns the criteria of the filtered columns.
func (s *Session) Inputs() []filter.Input {
	return s.inputs
}

// ApplyFilters replaces the filter criteria. Only columns with an input are
// filtered; an empty list clears the filter.
func (s *Session) ApplyFilters(inputs []filter.Input) error {
	if s.data == nil {
		return ErrNoDataset
	}
	pred, err := filter.Build(s.columns, inputs)
	if err != nil {
		return err
	}
	s.inputs, s.predicate = append([]filter.Input(nil), inputs...), pred
	s.logger.Debug("Filters applied", zap.String("filter", pred.Expression()))
	return nil
}

// SetFiltersEnabled toggles filtering without discarding the criteria.
func (s *Session) SetFiltersEnabled(on bool) {
	s.filtersOn = on
}

// FiltersEnabled reports whether filtering is on.
func (s *Session) FiltersEnabled() bool {
	return s.filtersOn
}

// Filter returns the active record-filter expression, empty when filtering is
// off or no criteria apply.
func (s *Session) Filter() string {
	if !s.filtersOn {
		return ""
	}
	return s.predicate.Expression()
}

// MatchedRows counts the rows passing the active filter.
func (s *Session) MatchedRows() int {
	if s.coerced == nil {
		return 0
	}
	if !s.filtersOn {
		return s.coerced.Rows
	}
	return filter.Count(s.predicate, s.coerced)
}

// Select assigns columns to roles. Categorical roles take categorical
// columns, value roles numeric ones; the optional roles may not repeat the
// mandatory ones and the label must be one of the selected columns.
func (s *Session) Select(sel models.Selection) error {
	if s.data == nil {
		return ErrNoDataset
	}
	cats, nums := parser.ClassifyColumns(s.data)
	check := func(role models.Role, names []string) error {
		col := sel.Column(role)
		if col == "" || contains(names, col) {
			return nil
		}
		return fmt.Errorf("%w: %s cannot be %q", ErrInvalidSelection, role, col)
	}
	for _, r := range []models.Role{models.RoleCat1, models.RoleCat2} {
		if err := check(r, cats); err != nil {
			return err
		}
	}
	for _, r := range []models.Role{models.RoleValue1, models.RoleValue2} {
		if err := check(r, nums); err != nil {
			return err
		}
	}
	if sel.Cat2 != "" && sel.Cat2 == sel.Cat1 {
		return fmt.Errorf("%w: Cat2 repeats Cat1", ErrInvalidSelection)
	}
	if sel.Value2 != "" && sel.Value2 == sel.Value1 {
		return fmt.Errorf("%w: Value2 repeats Value1", ErrInvalidSelection)
	}
	if sel.Label != "" && !contains(sel.LabelOptions(), sel.Label) {
		return fmt.Errorf("%w: label %q is not a selected column", ErrInvalidSelection, sel.Label)
	}
	s.sel = sel
	return nil
}

func contains(names []string, name string) bool {
	for _, n := range names {
		if n == name {
			return true
		}
	}
	return false
}

// Selection returns the current role selection.
func (s *Session) Selection() models.Selection {
	return s.sel
}

// SetTooltip toggles tooltips for previews, the story and generated code.
func (s *Session) SetTooltip(on bool) {
	s.tooltip = on
	if s.story != nil {
		s.story.SetTooltip(on)
	}
}

// Tooltip reports whether tooltips are enabled.
func (s *Session) Tooltip() bool {
	return s.tooltip
}

// Charts derives every preset chart for the current selection.
func (s *Session) Charts() ([]chart.Chart, error) {
	if s.data == nil {
		return nil, ErrNoDataset
	}
	key := s.sel.Key()
	if !models.IsValidKey(key) {
		return nil, ErrUnknownKey
	}
	templates, ok := s.presets.Lookup(key)
	if !ok {
		return nil, ErrUnknownKey
	}
	return chart.DeriveAll(templates, s.sel), nil
}

func (s *Session) chartAt(i int) (chart.Chart, error) {
	charts, err := s.Charts()
	if err != nil {
		return chart.Chart{}, err
	}
	if i < 0 || i >= len(charts) {
		return chart.Chart{}, fmt.Errorf("%w: %d", ErrNoChart, i)
	}
	return charts[i], nil
}

// WriteChartHTML renders the preview document of chart i.
func (s *Session) WriteChartHTML(w io.Writer, i int) error {
	c, err := s.chartAt(i)
	if err != nil {
		return err
	}
	return story.WriteChartHTML(w, s.coerced, s.Filter(), c.Config, story.ChartOptions{Tooltip: s.tooltip})
}

// AddChartToStory appends chart i with the active filter as a new slide.
func (s *Session) AddChartToStory(i int) error {
	c, err := s.chartAt(i)
	if err != nil {
		return err
	}
	cfg, err := chart.Normalize(c.Config)
	if err != nil {
		return fmt.Errorf("%s: %w", c.Title, err)
	}
	expr := s.Filter()
	s.story.AddSlide(expr, cfg)
	s.storyCode = append(s.storyCode, codegen.SlideStatement(expr, cfg))
	s.logger.Info("Slide added", zap.String("chart", c.Title), zap.Int("slides", s.story.Len()))
	return nil
}

// DeleteLastSlide removes the newest slide and its code. It reports false
// when the story is empty.
func (s *Session) DeleteLastSlide() bool {
	if s.story == nil || len(s.storyCode) == 0 || !s.story.DeleteLast() {
		return false
	}
	s.storyCode = s.storyCode[:len(s.storyCode)-1]
	return true
}

// Story returns the story, nil before a dataset is loaded.
func (s *Session) Story() *story.Story {
	return s.story
}

// ExportStory renders the standalone story document.
func (s *Session) ExportStory() ([]byte, error) {
	if s.story == nil {
		return nil, ErrNoDataset
	}
	return s.story.ExportHTML()
}

// Uploader returns the uploader ShareStory uses. It is safe to use from
// another goroutine with a document obtained from ExportStory.
func (s *Session) Uploader() *story.Uploader {
	return s.uploader
}

// ShareStory uploads the exported story. Failures are *ShareError.
func (s *Session) ShareStory(ctx context.Context) error {
	doc, err := s.ExportStory()
	if err != nil {
		return err
	}
	return s.uploader.Upload(ctx, ExportFileName, doc)
}

func (s *Session) codeSource() codegen.Source {
	return codegen.Source{FileName: s.source, Sheet: s.opts.Data.Sheet, Dataset: s.data}
}

// ChartCode returns a Go program reproducing chart i. On a formatting failure
// the unformatted program is returned with the error.
func (s *Session) ChartCode(i int) (string, error) {
	c, err := s.chartAt(i)
	if err != nil {
		return "", err
	}
	return codegen.Chart(s.codeSource(), s.Filter(), c.Config, s.tooltip)
}

// StoryCode returns a Go program reproducing the story, empty when the story
// has no slides.
func (s *Session) StoryCode() (string, error) {
	if len(s.storyCode) == 0 {
		return "", nil
	}
	w, h := s.story.Size()
	return codegen.Story(s.codeSource(), codegen.StoryOptions{Width: w, Height: h, Tooltip: s.tooltip}, s.storyCode)
}
