// Package codegen writes standalone Go programs that reproduce a chart or a
// story built interactively.
package codegen

import (
	"fmt"
	"go/format"
	"strconv"
	"strings"

	"github.com/barnabashub/vizzu-builder/pkg/vizzubuilder/models"
)

// ModulePath is the import path prefix of the generated imports.
const ModulePath = "github.com/barnabashub/vizzu-builder/pkg/vizzubuilder"

// Source describes where the generated program gets its data.
type Source struct {
	// FileName is the dataset file name; when empty the data is inlined.
	FileName string
	// Sheet is the worksheet the data was read from, for xlsx files.
	Sheet string
	// Dataset is the loaded data, used for inlining and categorical columns.
	Dataset *models.Dataset
}

// StoryOptions are the story settings reproduced by the program.
type StoryOptions struct {
	Width   int
	Height  int
	Tooltip bool
}

// SlideStatement returns the statement appending one slide to the story
// variable s. Sessions record these as slides are added.
func SlideStatement(filter string, cfg models.SlideConfig) string {
	return fmt.Sprintf("s.AddSlide(%s, %s)", strconv.Quote(filter), slideConfigLiteral(cfg))
}

// Story returns a program that rebuilds the story from the recorded slide
// statements and writes the player document to stdout. On a formatting
// failure the unformatted text is returned along with the error.
func Story(src Source, opts StoryOptions, statements []string) (string, error) {
	var b strings.Builder
	writeHeader(&b, "models", "parser", "story")
	writeData(&b, src)
	b.WriteString("s := story.New(data)\n")
	fmt.Fprintf(&b, "s.SetSize(%d, %d)\n", opts.Width, opts.Height)
	fmt.Fprintf(&b, "s.SetTooltip(%t)\n\n", opts.Tooltip)
	for _, stmt := range statements {
		b.WriteString(stmt + "\n")
	}
	b.WriteString("\nif err := s.WriteHTML(os.Stdout); err != nil {\nlog.Fatal(err)\n}\n}\n")
	return gofmt(b.String(), len(statements) == 0)
}

// Chart returns a program that renders a single chart preview to stdout.
func Chart(src Source, filter string, cfg models.Config, tooltip bool) (string, error) {
	var b strings.Builder
	writeHeader(&b, "models", "parser", "story")
	writeData(&b, src)
	fmt.Fprintf(&b, "config := %s\n\n", Literal(cfg))
	fmt.Fprintf(&b, "opts := story.ChartOptions{Tooltip: %t}\n", tooltip)
	fmt.Fprintf(&b, "if err := story.WriteChartHTML(os.Stdout, data, %s, config, opts); err != nil {\nlog.Fatal(err)\n}\n}\n", strconv.Quote(filter))
	return gofmt(b.String(), false)
}

func writeHeader(b *strings.Builder, pkgs ...string) {
	b.WriteString("package main\n\nimport (\n\"log\"\n\"os\"\n\n")
	for _, p := range pkgs {
		fmt.Fprintf(b, "%q\n", ModulePath+"/"+p)
	}
	b.WriteString(")\n\nfunc main() {\n")
}

func writeData(b *strings.Builder, src Source) {
	var fields []string
	if src.Sheet != "" && src.FileName != "" {
		fields = append(fields, "Sheet: "+strconv.Quote(src.Sheet))
	}
	if cats := categorical(src.Dataset); len(cats) > 0 {
		fields = append(fields, "Categorical: "+Literal(cats))
	}
	opts := "parser.Options{" + strings.Join(fields, ", ") + "}"

	if src.FileName != "" {
		fmt.Fprintf(b, "data, err := parser.LoadFile(%s, %s)\n", strconv.Quote(src.FileName), opts)
	} else {
		name := "data"
		var records [][]string
		if src.Dataset != nil {
			name = src.Dataset.Name
			records = src.Dataset.Records()
		}
		fmt.Fprintf(b, "data, err := parser.FromRecords(%s, [][]string{\n", strconv.Quote(name))
		for _, rec := range records {
			b.WriteString(Literal(rec)[len("[]string"):] + ",\n")
		}
		fmt.Fprintf(b, "}, %s)\n", opts)
	}
	b.WriteString("if err != nil {\nlog.Fatal(err)\n}\n")
	b.WriteString("data = parser.CoerceTimes(data)\n")
}

func categorical(ds *models.Dataset) []string {
	if ds == nil {
		return nil
	}
	var out []string
	for _, c := range ds.Columns {
		if c.Kind == models.KindCategory {
			out = append(out, c.Name)
		}
	}
	return out
}

// gofmt formats src. A story without slides never references models, so the
// import is dropped first.
func gofmt(src string, dropModels bool) (string, error) {
	if dropModels {
		src = strings.Replace(src, strconv.Quote(ModulePath+"/models")+"\n", "", 1)
	}
	out, err := format.Source([]byte(src))
	if err != nil {
		return src, fmt.Errorf("failed to format generated code: %w", err)
	}
	return string(out), nil
}
