package chart

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/barnabashub/vizzu-builder/pkg/vizzubuilder/models"
	"github.com/barnabashub/vizzu-builder/pkg/vizzubuilder/preset"
	"github.com/google/go-cmp/cmp"
)

func role(r models.Role) models.Slot { return models.Slot{Role: r} }
func text(s string) models.Slot { return models.Slot{Text: s} }
func str(s models.Slot) models.Value { return models.Value{Slots: []models.Slot{s}} }
func list(s ...models.Slot) models.Value { return models.Value{List: true, Slots: s} }

var columnTemplate = models.Template{
	Chart: "Column",
	Fields: []models.Field{
		{Name: "coordSystem", Value: str(text("cartesian"))},
		{Name: "geometry", Value: str(text("rectangle"))},
		{Name: "x", Value: str(role(models.RoleCat1))},
		{Name: "y", Value: str(role(models.RoleValue1))},
	},
}

func TestDerive(t *testing.T) {
	tests := []struct {
		name     string
		tmpl     models.Template
		sel      models.Selection
		expected models.Config
	}{
		{
			name: "column",
			tmpl: columnTemplate,
			sel:  models.Selection{Cat1: "Country", Value1: "Sales"},
			expected: models.Config{
				"coordSystem": "cartesian",
				"geometry":    "rectangle",
				"x":           "Country",
				"y":           map[string]any{"set": "Sales"},
			},
		},
		{
			name: "list with range",
			tmpl: models.Template{
				Chart: "Stacked",
				Fields: []models.Field{
					{Name: "coordSystem", Value: str(text("cartesian"))},
					{Name: "geometry", Value: str(text("rectangle"))},
					{Name: "y", Value: list(role(models.RoleCat2), role(models.RoleValue1))},
					{Name: "split", Value: models.Value{Scalar: true}},
				},
				YRangeMax: "110%",
			},
			sel: models.Selection{Cat1: "Country", Cat2: "Region", Value1: "Sales"},
			expected: models.Config{
				"coordSystem": "cartesian",
				"geometry":    "rectangle",
				"split":       true,
				"y": map[string]any{
					"set":   []string{"Region", "Sales"},
					"range": map[string]any{"max": "110%"},
				},
			},
		},
		{
			name: "range without y channel",
			tmpl: models.Template{
				Chart: "Donut",
				Fields: []models.Field{
					{Name: "coordSystem", Value: str(text("polar"))},
					{Name: "geometry", Value: str(text("rectangle"))},
					{Name: "x", Value: list(role(models.RoleValue1), role(models.RoleCat1))},
				},
				YRangeMin: "-200%",
			},
			sel: models.Selection{Cat1: "Country", Value1: "Sales"},
			expected: models.Config{
				"coordSystem": "polar",
				"geometry":    "rectangle",
				"x":           []string{"Sales", "Country"},
				"y":           map[string]any{"range": map[string]any{"min": "-200%"}},
			},
		},
		{
			name: "unselected role resolves to empty",
			tmpl: models.Template{
				Chart: "Colored",
				Fields: []models.Field{
					{Name: "color", Value: str(role(models.RoleCat2))},
				},
			},
			sel:      models.Selection{Cat1: "Country", Value1: "Sales"},
			expected: models.Config{"color": ""},
		},
		{
			name: "label overrides template",
			tmpl: models.Template{
				Chart:  "Labeled",
				Fields: []models.Field{{Name: "label", Value: str(role(models.RoleValue1))}},
			},
			sel:      models.Selection{Cat1: "Country", Value1: "Sales", Label: "Country"},
			expected: models.Config{"label": "Country"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Derive(tt.tmpl, tt.sel)
			if diff := cmp.Diff(tt.expected, got); diff != "" {
				t.Errorf("Derive mismatch (-want +got):\n%s", diff)
			}
			if again := Derive(tt.tmpl, tt.sel); !cmp.Equal(got, again) {
				t.Error("Derive is not idempotent")
			}
		})
	}
}

func TestDeriveColumnNamesContainingTokens(t *testing.T) {
	sel := models.Selection{Cat1: "Value1 region", Value1: "Cat1 total"}
	got := Derive(columnTemplate, sel)
	if got["x"] != "Value1 region" {
		t.Errorf("x = %v, expected the Cat1 column name unchanged", got["x"])
	}
	y := got["y"].(map[string]any)
	if y["set"] != "Cat1 total" {
		t.Errorf("y.set = %v, expected the Value1 column name unchanged", y["set"])
	}
}

func TestDerivePresetsLeaveNoTokens(t *testing.T) {
	set, err := preset.Default()
	if err != nil {
		t.Fatal(err)
	}
	sel := models.Selection{Cat1: "Country", Cat2: "Region", Value1: "Sales", Value2: "Profit"}
	for _, key := range set.Keys() {
		templates, _ := set.Lookup(key)
		for _, c := range DeriveAll(templates, sel) {
			if _, err := Normalize(c.Config); err != nil {
				t.Errorf("%s/%s: %v", key, c.Title, err)
			}
			assertNoTokens(t, key+"/"+c.Title, c.Config)
		}
	}
}

func assertNoTokens(t *testing.T, where string, v any) {
	t.Helper()
	switch v := v.(type) {
	case string:
		for _, r := range models.Roles {
			if strings.Contains(v, r.String()) {
				t.Errorf("%s: leftover token in %q", where, v)
			}
		}
	case []string:
		for _, s := range v {
			assertNoTokens(t, where, s)
		}
	case models.Config:
		for _, x := range v {
			assertNoTokens(t, where, x)
		}
	case map[string]any:
		for _, x := range v {
			assertNoTokens(t, where, x)
		}
	}
}

func TestNormalize(t *testing.T) {
	cfg := Derive(columnTemplate, models.Selection{Cat1: "Country", Value1: "Sales"})
	got, err := Normalize(cfg)
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}
	expected := models.SlideConfig{
		X:           "Country",
		Y:           models.YChannel{Set: "Sales", Range: models.Range{Min: "auto", Max: "auto"}},
		Align:       "none",
		CoordSystem: "cartesian",
		Geometry:    "rectangle",
		Orientation: "horizontal",
	}
	if diff := cmp.Diff(expected, got); diff != "" {
		t.Errorf("Normalize mismatch (-want +got):\n%s", diff)
	}
}

func TestNormalizeClearsLabel(t *testing.T) {
	// A slide without a label must still name the channel, or the player
	// keeps the previous slide's labels on screen.
	got, err := Normalize(Derive(columnTemplate, models.Selection{Cat1: "Country", Value1: "Sales"}))
	if err != nil {
		t.Fatal(err)
	}
	data, err := json.Marshal(got)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `"label":null`) {
		t.Errorf("Expected an explicit null label, got %s", data)
	}
}

func TestNormalizeMergesRange(t *testing.T) {
	cfg := models.Config{
		"coordSystem": "polar",
		"geometry":    "rectangle",
		"y":           map[string]any{"range": map[string]any{"min": "-200%"}},
		"split":       true,
		"align":       "stretch",
		"label":       "Sales",
	}
	got, err := Normalize(cfg)
	if err != nil {
		t.Fatal(err)
	}
	if got.Y.Set != nil || got.Y.Range.Min != "-200%" || got.Y.Range.Max != "auto" {
		t.Errorf("Unexpected y channel %+v", got.Y)
	}
	if !got.Split || got.Align != "stretch" || got.Label != "Sales" {
		t.Errorf("Unexpected overrides %+v", got)
	}
}

func TestNormalizeMissingField(t *testing.T) {
	for _, missing := range []string{"coordSystem", "geometry"} {
		cfg := models.Config{"coordSystem": "cartesian", "geometry": "rectangle"}
		delete(cfg, missing)
		if _, err := Normalize(cfg); !errors.Is(err, ErrMissingField) {
			t.Errorf("without %s: expected ErrMissingField, got %v", missing, err)
		}
	}
}
