package filter

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/barnabashub/vizzu-builder/pkg/vizzubuilder/parser"
)

// ParseInput parses a textual criterion:
//
//	Region=EU,US                  categorical values
//	Profit=20..80                 numeric range
//	Date=2020-01-01..2020-12-31   temporal range
//	Name~abc                      substring
//
// The column kind decides how the right-hand side is read.
func ParseInput(columns []Column, text string) (Input, error) {
	idx := strings.IndexAny(text, "=~")
	if idx <= 0 {
		return Input{}, fmt.Errorf("expected column=value or column~pattern, got %q", text)
	}
	name := strings.TrimSpace(text[:idx])
	rhs := strings.TrimSpace(text[idx+1:])

	col, ok := Lookup(columns, name)
	if !ok {
		return Input{}, fmt.Errorf("unknown column %q", name)
	}
	in := Input{Column: col.Name}

	switch col.Kind {
	case KindCategorical:
		for _, v := range strings.Split(rhs, ",") {
			if v = strings.TrimSpace(v); v != "" {
				in.Values = append(in.Values, v)
			}
		}
	case KindNumeric:
		lo, hi, err := splitRange(rhs)
		if err != nil {
			return Input{}, err
		}
		if in.Lo, err = strconv.ParseFloat(lo, 64); err != nil {
			return Input{}, fmt.Errorf("invalid lower bound %q", lo)
		}
		if in.Hi, err = strconv.ParseFloat(hi, 64); err != nil {
			return Input{}, fmt.Errorf("invalid upper bound %q", hi)
		}
	case KindTemporal:
		lo, hi, err := splitRange(rhs)
		if err != nil {
			return Input{}, err
		}
		for _, s := range []string{lo, hi} {
			t, ok := parser.ParseTime(s)
			if !ok {
				return Input{}, fmt.Errorf("invalid date %q", s)
			}
			in.Dates = append(in.Dates, t)
		}
	case KindText:
		in.Pattern = rhs
	}
	return in, nil
}

func splitRange(s string) (string, string, error) {
	lo, hi, ok := strings.Cut(s, "..")
	if !ok {
		return "", "", fmt.Errorf("expected lo..hi, got %q", s)
	}
	return strings.TrimSpace(lo), strings.TrimSpace(hi), nil
}

// FormatInput renders an input in the syntax accepted by ParseInput.
func FormatInput(col Column, in Input) string {
	switch col.Kind {
	case KindNumeric:
		return fmt.Sprintf("%s=%s..%s", in.Column, number(in.Lo), number(in.Hi))
	case KindTemporal:
		if len(in.Dates) != 2 {
			return in.Column + "="
		}
		return fmt.Sprintf("%s=%s..%s", in.Column, in.Dates[0].Format(time.DateOnly), in.Dates[1].Format(time.DateOnly))
	case KindText:
		return in.Column + "~" + in.Pattern
	default:
		return in.Column + "=" + strings.Join(in.Values, ",")
	}
}
