package codegen

import (
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/barnabashub/vizzu-builder/pkg/vizzubuilder/models"
)

// Literal renders v as a Go expression. Supported values are the ones found in
// chart configurations: nil, strings, string lists, bools, numbers and nested
// string-keyed maps.
func Literal(v any) string {
	var b strings.Builder
	writeLiteral(&b, v)
	return b.String()
}

func writeLiteral(b *strings.Builder, v any) {
	switch v := v.(type) {
	case nil:
		b.WriteString("nil")
	case string:
		b.WriteString(strconv.Quote(v))
	case bool:
		b.WriteString(strconv.FormatBool(v))
	case int:
		b.WriteString(strconv.Itoa(v))
	case float64:
		writeFloat(b, v)
	case []string:
		b.WriteString("[]string{")
		for i, s := range v {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(strconv.Quote(s))
		}
		b.WriteString("}")
	case []any:
		b.WriteString("[]any{")
		for i, x := range v {
			if i > 0 {
				b.WriteString(", ")
			}
			writeLiteral(b, x)
		}
		b.WriteString("}")
	case models.Config:
		writeMap(b, "models.Config", v)
	case map[string]any:
		writeMap(b, "map[string]any", v)
	default:
		b.WriteString("nil")
	}
}

// writeFloat keeps integral values typed as float64 so they round-trip
// through any.
func writeFloat(b *strings.Builder, f float64) {
	switch {
	case math.IsNaN(f) || math.IsInf(f, 0):
		b.WriteString("nil")
	case f == math.Trunc(f) && math.Abs(f) < 1e15:
		b.WriteString("float64(" + strconv.FormatFloat(f, 'f', -1, 64) + ")")
	default:
		b.WriteString(strconv.FormatFloat(f, 'g', -1, 64))
	}
}

func writeMap(b *strings.Builder, typ string, m map[string]any) {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	b.WriteString(typ + "{")
	for _, k := range keys {
		b.WriteString("\n" + strconv.Quote(k) + ": ")
		writeLiteral(b, m[k])
		b.WriteString(",")
	}
	if len(keys) > 0 {
		b.WriteString("\n")
	}
	b.WriteString("}")
}

// slideConfigLiteral renders a models.SlideConfig composite literal, leaving
// out zero-valued fields.
func slideConfigLiteral(cfg models.SlideConfig) string {
	var b strings.Builder
	b.WriteString("models.SlideConfig{\n")
	field := func(name string, v any) {
		if v == nil {
			return
		}
		b.WriteString(name + ": ")
		writeLiteral(&b, v)
		b.WriteString(",\n")
	}
	field("X", cfg.X)
	b.WriteString("Y: models.YChannel{")
	if cfg.Y.Set != nil {
		b.WriteString("Set: " + Literal(cfg.Y.Set) + ", ")
	}
	b.WriteString("Range: models.Range{Min: " + Literal(cfg.Y.Range.Min) + ", Max: " + Literal(cfg.Y.Range.Max) + "}},\n")
	field("Color", cfg.Color)
	field("Lightness", cfg.Lightness)
	field("Size", cfg.Size)
	field("Noop", cfg.Noop)
	if cfg.Split {
		field("Split", true)
	}
	field("Align", cfg.Align)
	field("CoordSystem", cfg.CoordSystem)
	field("Geometry", cfg.Geometry)
	field("Orientation", cfg.Orientation)
	field("Label", cfg.Label)
	b.WriteString("}")
	return b.String()
}
