package preset

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/barnabashub/vizzu-builder/pkg/vizzubuilder/models"
	"github.com/google/go-cmp/cmp"
)

func TestDefault(t *testing.T) {
	s, err := Default()
	if err != nil {
		t.Fatalf("Default failed: %v", err)
	}
	if diff := cmp.Diff(models.ValidKeys, s.Keys()); diff != "" {
		t.Errorf("keys mismatch (-want +got):\n%s", diff)
	}

	templates, ok := s.Lookup("Cat1, Value1")
	if !ok || len(templates) == 0 {
		t.Fatal("Expected templates for Cat1, Value1")
	}
	first := templates[0]
	if first.Chart != "Column" {
		t.Errorf("Expected first chart Column, got %q", first.Chart)
	}
	x, ok := first.Field("x")
	if !ok || x.Value.List || x.Value.Slots[0].Role != models.RoleCat1 {
		t.Errorf("Expected x to be the Cat1 placeholder, got %+v", x)
	}
	geometry, _ := first.Field("geometry")
	if geometry.Value.Slots[0].Text != "rectangle" {
		t.Errorf("Expected literal geometry rectangle, got %+v", geometry)
	}

	for _, tmpl := range templates {
		if _, ok := tmpl.Field("y"); ok && tmpl.Chart == "Pie" {
			t.Error("null fields should be dropped")
		}
		if tmpl.Chart == "Donut" && tmpl.YRangeMin != "-200%" {
			t.Errorf("Expected donut y_range_min -200%%, got %v", tmpl.YRangeMin)
		}
	}

	if _, ok := s.Lookup("Cat2, Value1"); ok {
		t.Error("Expected no templates for an unregistered key")
	}
	if s.Len() < len(models.ValidKeys) {
		t.Errorf("Expected at least one template per key, got %d", s.Len())
	}
}

func TestParseRejects(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"not json", `{`},
		{"wrong version", `{"version":2,"presets":{}}`},
		{"unknown key", `{"version":1,"presets":{"Cat2, Value2":[]}}`},
		{"missing title", `{"version":1,"presets":{"Cat1, Value1":[{"coordSystem":"cartesian","geometry":"rectangle"}]}}`},
		{"missing geometry", `{"version":1,"presets":{"Cat1, Value1":[{"chart":"A","coordSystem":"cartesian"}]}}`},
		{"embedded token", `{"version":1,"presets":{"Cat1, Value1":[{"chart":"A","coordSystem":"cartesian","geometry":"rectangle","x":"Cat10"}]}}`},
		{"role outside key", `{"version":1,"presets":{"Cat1, Value1":[{"chart":"A","coordSystem":"cartesian","geometry":"rectangle","color":"Cat2"}]}}`},
		{"placeholder geometry", `{"version":1,"presets":{"Cat1, Value1":[{"chart":"A","coordSystem":"cartesian","geometry":"Cat1"}]}}`},
		{"object value", `{"version":1,"presets":{"Cat1, Value1":[{"chart":"A","coordSystem":"cartesian","geometry":"rectangle","x":{"set":"Cat1"}}]}}`},
		{"bad range", `{"version":1,"presets":{"Cat1, Value1":[{"chart":"A","coordSystem":"cartesian","geometry":"rectangle","y_range_min":[1]}]}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse([]byte(tt.data)); !errors.Is(err, ErrInvalidPreset) {
				t.Errorf("Expected ErrInvalidPreset, got %v", err)
			}
		})
	}
}

func TestParseValues(t *testing.T) {
	data := `{"version":1,"presets":{"Cat1, Cat2, Value1":[
		{"chart":"Stacked","coordSystem":"cartesian","geometry":"rectangle",
		 "x":"Cat1","y":["Cat2","Value1"],"split":true,"y_range_max":1.5}
	]}}`
	s, err := Parse([]byte(data))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	templates, _ := s.Lookup("Cat1, Cat2, Value1")
	tmpl := templates[0]

	var names []string
	for _, f := range tmpl.Fields {
		names = append(names, f.Name)
	}
	if diff := cmp.Diff([]string{"coordSystem", "geometry", "split", "x", "y"}, names); diff != "" {
		t.Errorf("field names mismatch (-want +got):\n%s", diff)
	}

	y, _ := tmpl.Field("y")
	want := models.Value{List: true, Slots: []models.Slot{{Role: models.RoleCat2}, {Role: models.RoleValue1}}}
	if diff := cmp.Diff(want, y.Value); diff != "" {
		t.Errorf("y mismatch (-want +got):\n%s", diff)
	}
	split, _ := tmpl.Field("split")
	if split.Value.Scalar != true {
		t.Errorf("Expected split scalar true, got %v", split.Value.Scalar)
	}
	if tmpl.YRangeMax != 1.5 || tmpl.YRangeMin != nil {
		t.Errorf("Unexpected y range %v..%v", tmpl.YRangeMin, tmpl.YRangeMax)
	}
}

func TestLoad(t *testing.T) {
	s, err := Load("")
	if err != nil || s.Len() == 0 {
		t.Fatalf("Load(\"\") should return the embedded set, got %v", err)
	}

	path := filepath.Join(t.TempDir(), "presets.json")
	if err := os.WriteFile(path, []byte(`{"version":1,"presets":{"Cat1, Value1":[]}}`), 0644); err != nil {
		t.Fatal(err)
	}
	s, err = Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if diff := cmp.Diff([]string{"Cat1, Value1"}, s.Keys()); diff != "" {
		t.Errorf("keys mismatch (-want +got):\n%s", diff)
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("Expected error for missing file")
	}
}
