package chart

import (
	"errors"
	"fmt"

	"github.com/barnabashub/vizzu-builder/pkg/vizzubuilder/models"
)

// ErrMissingField is returned by Normalize when a required field is absent.
var ErrMissingField = errors.New("configuration is missing a required field")

// Auto is the default axis range bound.
const Auto = "auto"

// Normalize fills in defaults for every animation channel so that a slide
// fully describes its target state; an absent label serializes as null so
// a previous slide's labels are cleared. coordSystem and geometry have no default.
func Normalize(cfg models.Config) (models.SlideConfig, error) {
	out := models.SlideConfig{
		X:           cfg["x"],
		Y:           models.YChannel{Range: models.Range{Min: Auto, Max: Auto}},
		Color:       cfg["color"],
		Lightness:   cfg["lightness"],
		Size:        cfg["size"],
		Noop:        cfg["noop"],
		Align:       "none",
		Orientation: "horizontal",
		Label:       cfg["label"],
	}

	if y, ok := cfg["y"].(map[string]any); ok {
		out.Y.Set = y["set"]
		if r, ok := y["range"].(map[string]any); ok {
			if v, ok := r["min"]; ok && v != nil {
				out.Y.Range.Min = v
			}
			if v, ok := r["max"]; ok && v != nil {
				out.Y.Range.Max = v
			}
		}
	}
	if split, ok := cfg["split"].(bool); ok {
		out.Split = split
	}
	if align, ok := cfg["align"].(string); ok && align != "" {
		out.Align = align
	}
	if orientation, ok := cfg["orientation"].(string); ok && orientation != "" {
		out.Orientation = orientation
	}

	var err error
	if out.CoordSystem, err = requiredString(cfg, "coordSystem"); err != nil {
		return models.SlideConfig{}, err
	}
	if out.Geometry, err = requiredString(cfg, "geometry"); err != nil {
		return models.SlideConfig{}, err
	}
	return out, nil
}

func requiredString(cfg models.Config, name string) (string, error) {
	s, ok := cfg[name].(string)
	if !ok || s == "" {
		return "", fmt.Errorf("%w: %s", ErrMissingField, name)
	}
	return s, nil
}
