// Package chart derives animation configurations from preset templates and
// the user's role selection.
package chart

import (
	"github.com/barnabashub/vizzu-builder/pkg/vizzubuilder/models"
)

// Chart is a derived configuration together with the preset's title.
type Chart struct {
	Title  string        `json:"chart"`
	Config models.Config `json:"config"`
}

// Derive substitutes the selected columns into tmpl. Unselected roles resolve
// to the empty string. The y channel is wrapped as {"set": v} and receives the
// template's range bounds; a selected label column overrides any template label.
func Derive(tmpl models.Template, sel models.Selection) models.Config {
	cfg := make(models.Config, len(tmpl.Fields)+1)
	for _, f := range tmpl.Fields {
		cfg[f.Name] = resolve(f.Value, sel)
	}

	if v, ok := cfg["y"]; ok {
		cfg["y"] = map[string]any{"set": v}
	}
	if tmpl.YRangeMin != nil {
		yRange(cfg)["min"] = tmpl.YRangeMin
	}
	if tmpl.YRangeMax != nil {
		yRange(cfg)["max"] = tmpl.YRangeMax
	}

	if sel.Label != "" {
		cfg["label"] = sel.Label
	}
	return cfg
}

// DeriveAll derives every template in order.
func DeriveAll(templates []models.Template, sel models.Selection) []Chart {
	out := make([]Chart, 0, len(templates))
	for _, t := range templates {
		out = append(out, Chart{Title: t.Chart, Config: Derive(t, sel)})
	}
	return out
}

func resolve(v models.Value, sel models.Selection) any {
	if v.Scalar != nil {
		return v.Scalar
	}
	if !v.List {
		if len(v.Slots) == 0 {
			return ""
		}
		return slotText(v.Slots[0], sel)
	}
	out := make([]string, len(v.Slots))
	for i, s := range v.Slots {
		out[i] = slotText(s, sel)
	}
	return out
}

func slotText(s models.Slot, sel models.Selection) string {
	if s.Role == models.RoleNone {
		return s.Text
	}
	return sel.Column(s.Role)
}

// yRange returns cfg.y.range, creating the intermediate maps.
func yRange(cfg models.Config) map[string]any {
	y, ok := cfg["y"].(map[string]any)
	if !ok {
		y = map[string]any{}
		cfg["y"] = y
	}
	r, ok := y["range"].(map[string]any)
	if !ok {
		r = map[string]any{}
		y["range"] = r
	}
	return r
}
