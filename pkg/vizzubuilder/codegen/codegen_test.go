package codegen

import (
	"go/parser"
	"go/token"
	"strings"
	"testing"

	"github.com/barnabashub/vizzu-builder/pkg/vizzubuilder/models"
)

func testDataset() *models.Dataset {
	return &models.Dataset{
		Name: "sales",
		Rows: 2,
		Columns: []models.Column{
			{Name: "Country", Kind: models.KindString, Strings: []string{"Hungary", "Austria"}},
			{Name: "Region", Kind: models.KindCategory, Strings: []string{"EU", "EU"}},
			{Name: "Sales", Kind: models.KindNumber, Strings: []string{"100", "200"}, Numbers: []float64{100, 200}},
		},
	}
}

func slideConfig() models.SlideConfig {
	return models.SlideConfig{
		X:           "Country",
		Y:           models.YChannel{Set: []string{"Region", "Sales"}, Range: models.Range{Min: "auto", Max: "110%"}},
		Color:       "Region",
		Split:       true,
		Align:       "none",
		CoordSystem: "cartesian",
		Geometry:    "rectangle",
		Orientation: "horizontal",
	}
}

func mustParse(t *testing.T, src string) {
	t.Helper()
	if _, err := parser.ParseFile(token.NewFileSet(), "main.go", src, parser.AllErrors); err != nil {
		t.Fatalf("generated code does not parse: %v\n%s", err, src)
	}
}

func TestLiteral(t *testing.T) {
	tests := []struct {
		input    any
		expected string
	}{
		{nil, "nil"},
		{"it's \"x\"", `"it's \"x\""`},
		{true, "true"},
		{1.5, "1.5"},
		{2.0, "float64(2)"},
		{[]string{"a", "b"}, `[]string{"a", "b"}`},
		{[]any{"a", 1.5}, `[]any{"a", 1.5}`},
		{map[string]any{"b": 1.5, "a": "x"}, "map[string]any{\n\"a\": \"x\",\n\"b\": 1.5,\n}"},
	}

	for _, tt := range tests {
		if got := Literal(tt.input); got != tt.expected {
			t.Errorf("Literal(%#v) = %q, expected %q", tt.input, got, tt.expected)
		}
	}
}

func TestStoryFromFile(t *testing.T) {
	statements := []string{
		SlideStatement("record['Region'] == 'EU'", slideConfig()),
		SlideStatement("", slideConfig()),
	}
	code, err := Story(Source{FileName: "sales.csv", Dataset: testDataset()}, StoryOptions{Width: 640, Height: 320, Tooltip: true}, statements)
	if err != nil {
		t.Fatalf("Story failed: %v\n%s", err, code)
	}
	mustParse(t, code)

	for _, want := range []string{
		`parser.LoadFile("sales.csv", parser.Options{Categorical: []string{"Region"}})`,
		"s := story.New(data)",
		"s.SetSize(640, 320)",
		"s.SetTooltip(true)",
		`s.AddSlide("record['Region'] == 'EU'", models.SlideConfig{`,
		`models.YChannel{Set: []string{"Region", "Sales"}, Range: models.Range{Min: "auto", Max: "110%"}},`,
		"s.WriteHTML(os.Stdout)",
	} {
		if !strings.Contains(code, want) {
			t.Errorf("generated story is missing %q:\n%s", want, code)
		}
	}

	first := strings.Index(code, `s.AddSlide("record`)
	second := strings.Index(code, `s.AddSlide("",`)
	if first < 0 || second < first {
		t.Errorf("slides are not in insertion order:\n%s", code)
	}
}

func TestStoryWithoutSlides(t *testing.T) {
	code, err := Story(Source{Dataset: testDataset()}, StoryOptions{Width: 1, Height: 2}, nil)
	if err != nil {
		t.Fatalf("Story failed: %v\n%s", err, code)
	}
	mustParse(t, code)
	if strings.Contains(code, "/models\"") {
		t.Errorf("unused models import kept:\n%s", code)
	}
	if !strings.Contains(code, `parser.FromRecords("sales", [][]string{`) || !strings.Contains(code, `{"Hungary", "EU", "100"},`) {
		t.Errorf("expected inline records:\n%s", code)
	}
}

func TestChart(t *testing.T) {
	cfg := models.Config{
		"coordSystem": "polar",
		"x":           []string{"Sales", "Country"},
		"y":           map[string]any{"range": map[string]any{"min": "-200%"}},
	}
	code, err := Chart(Source{FileName: "sales.xlsx"}, "record['Sales'] >= 100", cfg, false)
	if err != nil {
		t.Fatalf("Chart failed: %v\n%s", err, code)
	}
	mustParse(t, code)
	for _, want := range []string{
		`parser.LoadFile("sales.xlsx", parser.Options{})`,
		"config := models.Config{",
		`"min": "-200%",`,
		"story.ChartOptions{Tooltip: false}",
		`story.WriteChartHTML(os.Stdout, data, "record['Sales'] >= 100", config, opts)`,
	} {
		if !strings.Contains(code, want) {
			t.Errorf("generated chart is missing %q:\n%s", want, code)
		}
	}
}

func TestChartFromSheet(t *testing.T) {
	code, err := Chart(Source{FileName: "sales.xlsx", Sheet: "Q1 2024", Dataset: testDataset()}, "", models.Config{}, true)
	if err != nil {
		t.Fatalf("Chart failed: %v\n%s", err, code)
	}
	mustParse(t, code)
	for _, want := range []string{
		`parser.LoadFile("sales.xlsx", parser.Options{Sheet: "Q1 2024", Categorical: []string{"Region"}})`,
		"data = parser.CoerceTimes(data)",
	} {
		if !strings.Contains(code, want) {
			t.Errorf("generated chart is missing %q:\n%s", want, code)
		}
	}

	inline, err := Chart(Source{Sheet: "Q1 2024", Dataset: testDataset()}, "", models.Config{}, true)
	if err != nil {
		t.Fatalf("Chart failed: %v\n%s", err, inline)
	}
	if strings.Contains(inline, "Sheet:") {
		t.Errorf("inlined data should not name a sheet:\n%s", inline)
	}
}

func TestFormatFailureReturnsRawText(t *testing.T) {
	code, err := Story(Source{FileName: "x.csv"}, StoryOptions{}, []string{"s.AddSlide(("})
	if err == nil {
		t.Fatal("Expected a formatting error")
	}
	if !strings.Contains(code, "s.AddSlide((") {
		t.Errorf("Expected raw text to be returned, got:\n%s", code)
	}
}
