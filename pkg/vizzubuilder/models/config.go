package models

// Config is a derived chart configuration keyed by animation channel name.
// Values are strings, string lists, bools, numbers or nested maps (y).
type Config map[string]any

// Range holds axis range bounds: "auto", a percentage string, or a number.
type Range struct {
	Min any `json:"min"`
	Max any `json:"max"`
}

// YChannel is the normalized y channel.
type YChannel struct {
	Set   any   `json:"set"`
	Range Range `json:"range"`
}

// SlideConfig is a defaults-filled configuration committed to a story.
type SlideConfig struct {
	X           any      `json:"x"`
	Y           YChannel `json:"y"`
	Color       any      `json:"color"`
	Lightness   any      `json:"lightness"`
	Size        any      `json:"size"`
	Noop        any      `json:"noop"`
	Split       bool     `json:"split"`
	Align       string   `json:"align"`
	CoordSystem string   `json:"coordSystem"`
	Geometry    string   `json:"geometry"`
	Orientation string   `json:"orientation"`
	Label       any      `json:"label"`
}

// Slide is one (filter, configuration) pair of a story.
type Slide struct {
	// Filter is a record-filter expression; empty means no filter.
	Filter string `json:"filter,omitempty"`
	// Config is the normalized chart configuration.
	Config SlideConfig `json:"config"`
}
