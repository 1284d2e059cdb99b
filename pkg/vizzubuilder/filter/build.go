package filter

import (
	"fmt"
	"math"
	"time"

	"github.com/barnabashub/vizzu-builder/pkg/vizzubuilder/models"
)

// DefaultCategoricalThreshold is the distinct-value count below which a
// column is filtered as categorical regardless of its storage kind.
const DefaultCategoricalThreshold = 10

// Kind is the filter widget kind of a column.
type Kind int

const (
	KindCategorical Kind = iota
	KindNumeric
	KindTemporal
	KindText
)

func (k Kind) String() string {
	switch k {
	case KindNumeric:
		return "numeric"
	case KindTemporal:
		return "temporal"
	case KindText:
		return "text"
	default:
		return "categorical"
	}
}

// Column describes how a dataset column is filtered.
type Column struct {
	Name string `json:"name"`
	Kind Kind   `json:"kind"`
	// Options are the distinct values of a categorical column in first-seen order.
	Options []string `json:"options,omitempty"`
	// Min, Max and Step bound the slider of a numeric column.
	Min  float64 `json:"min,omitempty"`
	Max  float64 `json:"max,omitempty"`
	Step float64 `json:"step,omitempty"`
	// Start and End bound a temporal column.
	Start time.Time `json:"start,omitempty"`
	End   time.Time `json:"end,omitempty"`
}

// Input is the user's criterion for one column. Which fields apply depends on
// the column's Kind.
type Input struct {
	Column string `json:"column" yaml:"column"`
	// Values are the selected categorical values.
	Values []string `json:"values,omitempty" yaml:"values"`
	// Lo and Hi are the selected numeric range.
	Lo float64 `json:"lo,omitempty" yaml:"lo"`
	Hi float64 `json:"hi,omitempty" yaml:"hi"`
	// Dates are the chosen temporal endpoints; a clause needs exactly two.
	Dates []time.Time `json:"dates,omitempty" yaml:"dates"`
	// Pattern is the substring of a free-text column.
	Pattern string `json:"pattern,omitempty" yaml:"pattern"`
}

// Describe classifies every column of ds for filtering. ds should be the
// time-coerced view of the dataset.
func Describe(ds *models.Dataset, threshold int) []Column {
	if ds == nil {
		return nil
	}
	if threshold <= 0 {
		threshold = DefaultCategoricalThreshold
	}
	out := make([]Column, 0, len(ds.Columns))
	for i := range ds.Columns {
		out = append(out, describeColumn(&ds.Columns[i], threshold))
	}
	return out
}

func describeColumn(col *models.Column, threshold int) Column {
	var distinct []string
	for _, v := range col.Distinct() {
		if v != "" {
			distinct = append(distinct, v)
		}
	}

	c := Column{Name: col.Name}
	switch {
	case col.Kind == models.KindCategory || len(distinct) < threshold:
		c.Kind = KindCategorical
		c.Options = distinct
	case col.Kind == models.KindNumber:
		c.Kind = KindNumeric
		c.Min, c.Max = math.Inf(1), math.Inf(-1)
		for _, v := range col.Numbers {
			if math.IsNaN(v) {
				continue
			}
			c.Min = math.Min(c.Min, v)
			c.Max = math.Max(c.Max, v)
		}
		c.Step = (c.Max - c.Min) / 100
	case col.Kind == models.KindTime:
		c.Kind = KindTemporal
		for _, t := range col.Times {
			if t.IsZero() {
				continue
			}
			if c.Start.IsZero() || t.Before(c.Start) {
				c.Start = t
			}
			if c.End.IsZero() || t.After(c.End) {
				c.End = t
			}
		}
	default:
		c.Kind = KindText
	}
	return c
}

// Default returns the initial criterion of the column's widget: all values,
// the full range, or an empty pattern.
func (c Column) Default() Input {
	in := Input{Column: c.Name}
	switch c.Kind {
	case KindCategorical:
		in.Values = append([]string(nil), c.Options...)
	case KindNumeric:
		in.Lo, in.Hi = c.Min, c.Max
	case KindTemporal:
		in.Dates = []time.Time{c.Start, c.End}
	}
	return in
}

// Lookup finds the descriptor of a named column.
func Lookup(columns []Column, name string) (Column, bool) {
	for _, c := range columns {
		if c.Name == name {
			return c, true
		}
	}
	return Column{}, false
}

// Build turns the inputs into one clause per column, in input order.
// Temporal inputs without exactly two endpoints and text inputs with an empty
// pattern produce no clause.
func Build(columns []Column, inputs []Input) (And, error) {
	var out And
	for _, in := range inputs {
		col, ok := Lookup(columns, in.Column)
		if !ok {
			return nil, fmt.Errorf("filter on unknown column %q", in.Column)
		}
		switch col.Kind {
		case KindCategorical:
			out = append(out, OneOf{Column: col.Name, Values: in.Values})
		case KindNumeric:
			out = append(out, Between{Column: col.Name, Lo: in.Lo, Hi: in.Hi})
		case KindTemporal:
			if len(in.Dates) != 2 {
				continue
			}
			start, end := in.Dates[0], in.Dates[1]
			if end.Before(start) {
				start, end = end, start
			}
			out = append(out, TimeBetween{Column: col.Name, Start: start, End: end})
		case KindText:
			if in.Pattern == "" {
				continue
			}
			out = append(out, Contains{Column: col.Name, Pattern: in.Pattern})
		}
	}
	return out, nil
}
