// Package story accumulates chart configurations into an animated data story
// and renders it for the vizzu-story player.
package story

import (
	"bytes"
	"io"

	"github.com/barnabashub/vizzu-builder/pkg/vizzubuilder/models"
)

const (
	// DefaultWidth is the player width in pixels.
	DefaultWidth = 640
	// DefaultHeight is the player height in pixels.
	DefaultHeight = 320
	// LastSlide makes the player open on the most recent slide.
	LastSlide = -1
)

// Story is an ordered list of slides over one dataset. Slides can only be
// appended or removed from the end.
type Story struct {
	data       *models.Dataset
	slides     []models.Slide
	width      int
	height     int
	startSlide int
	tooltip    bool
}

// New creates an empty story over ds with default settings.
func New(ds *models.Dataset) *Story {
	s := &Story{}
	s.Reset(ds)
	return s
}

// Reset drops every slide and restores the default size, start slide and
// tooltip setting.
func (s *Story) Reset(ds *models.Dataset) {
	s.data = ds
	s.slides = nil
	s.width = DefaultWidth
	s.height = DefaultHeight
	s.startSlide = LastSlide
	s.tooltip = true
}

// Dataset returns the data the story is played over.
func (s *Story) Dataset() *models.Dataset {
	return s.data
}

// AddSlide appends a slide. An empty filter clears any previous filter.
func (s *Story) AddSlide(filter string, cfg models.SlideConfig) {
	s.slides = append(s.slides, models.Slide{Filter: filter, Config: cfg})
}

// DeleteLast removes the last slide. It reports false when the story is empty.
func (s *Story) DeleteLast() bool {
	if len(s.slides) == 0 {
		return false
	}
	s.slides = s.slides[:len(s.slides)-1]
	return true
}

// Slides returns a copy of the slides in insertion order.
func (s *Story) Slides() []models.Slide {
	return append([]models.Slide(nil), s.slides...)
}

// Len returns the number of slides.
func (s *Story) Len() int {
	return len(s.slides)
}

// SetSize sets the player size in pixels.
func (s *Story) SetSize(width, height int) {
	s.width, s.height = width, height
}

// Size returns the player size in pixels.
func (s *Story) Size() (int, int) {
	return s.width, s.height
}

// SetTooltip toggles the tooltip feature of the player.
func (s *Story) SetTooltip(on bool) {
	s.tooltip = on
}

// Tooltip reports whether tooltips are enabled.
func (s *Story) Tooltip() bool {
	return s.tooltip
}

// SetStartSlide sets the slide the player opens on; negative indices count
// from the end.
func (s *Story) SetStartSlide(index int) {
	s.startSlide = index
}

// StartSlide returns the slide the player opens on.
func (s *Story) StartSlide() int {
	return s.startSlide
}

// Document is the JSON view of a story.
type Document struct {
	Width      int            `json:"width"`
	Height     int            `json:"height"`
	StartSlide int            `json:"startSlide"`
	Tooltip    bool           `json:"tooltip"`
	Slides     []models.Slide `json:"slides"`
}

// Document returns a snapshot of the story settings and slides.
func (s *Story) Document() Document {
	slides := s.Slides()
	if slides == nil {
		slides = []models.Slide{}
	}
	return Document{
		Width:      s.width,
		Height:     s.height,
		StartSlide: s.startSlide,
		Tooltip:    s.tooltip,
		Slides:     slides,
	}
}

// WriteHTML writes the playback document honoring the current start slide.
func (s *Story) WriteHTML(w io.Writer) error {
	return storyTemplate.Execute(w, s.view())
}

// ExportHTML renders a standalone document that opens on the first slide.
// The configured start slide is restored afterwards.
func (s *Story) ExportHTML() ([]byte, error) {
	prev := s.startSlide
	s.startSlide = 0
	defer func() { s.startSlide = prev }()

	var buf bytes.Buffer
	if err := s.WriteHTML(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
