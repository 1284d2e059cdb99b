// Package models defines data structures shared by the chart and story builders.
package models

import (
	"math"
	"time"
)

// Kind is the storage kind of a dataset column.
type Kind int

const (
	// KindString is generic text storage.
	KindString Kind = iota
	// KindCategory is text storage explicitly marked as categorical.
	KindCategory
	// KindNumber is numeric storage.
	KindNumber
	// KindTime is date/time storage.
	KindTime
)

func (k Kind) String() string {
	switch k {
	case KindCategory:
		return "category"
	case KindNumber:
		return "number"
	case KindTime:
		return "time"
	default:
		return "string"
	}
}

// Column is a single named dataset column.
type Column struct {
	// Name is the column header.
	Name string `json:"name"`
	// Kind is the storage kind.
	Kind Kind `json:"kind"`
	// Strings holds the raw cell text for every row.
	Strings []string `json:"-"`
	// Numbers holds parsed values for KindNumber columns (NaN for empty cells).
	Numbers []float64 `json:"-"`
	// Times holds parsed values for KindTime columns (zero for empty cells).
	Times []time.Time `json:"-"`
}

// Dataset is an in-memory table.
type Dataset struct {
	// Name identifies the dataset (usually the source file base name).
	Name string `json:"name"`
	// Columns in source order.
	Columns []Column `json:"columns"`
	// Rows is the number of data rows.
	Rows int `json:"rows"`
}

// Column returns the column with the given name.
func (d *Dataset) Column(name string) (*Column, bool) {
	if d == nil {
		return nil, false
	}
	for i := range d.Columns {
		if d.Columns[i].Name == name {
			return &d.Columns[i], true
		}
	}
	return nil, false
}

// Names returns the column names in order.
func (d *Dataset) Names() []string {
	if d == nil {
		return nil
	}
	names := make([]string, len(d.Columns))
	for i, c := range d.Columns {
		names[i] = c.Name
	}
	return names
}

// Records reconstructs the header and data rows as raw text.
func (d *Dataset) Records() [][]string {
	if d == nil {
		return nil
	}
	records := make([][]string, 0, d.Rows+1)
	records = append(records, d.Names())
	for r := 0; r < d.Rows; r++ {
		row := make([]string, len(d.Columns))
		for c := range d.Columns {
			row[c] = d.Columns[c].Strings[r]
		}
		records = append(records, row)
	}
	return records
}

// Clone returns a deep copy of the dataset.
func (d *Dataset) Clone() *Dataset {
	if d == nil {
		return nil
	}
	out := &Dataset{Name: d.Name, Rows: d.Rows, Columns: make([]Column, len(d.Columns))}
	for i, c := range d.Columns {
		out.Columns[i] = Column{
			Name:    c.Name,
			Kind:    c.Kind,
			Strings: append([]string(nil), c.Strings...),
			Numbers: append([]float64(nil), c.Numbers...),
			Times:   append([]time.Time(nil), c.Times...),
		}
	}
	return out
}

// Equal reports whether two datasets hold the same columns, kinds and cell values.
// Identity of the pointers is irrelevant.
func (d *Dataset) Equal(o *Dataset) bool {
	if d == nil || o == nil {
		return d == o
	}
	if d.Name != o.Name || d.Rows != o.Rows || len(d.Columns) != len(o.Columns) {
		return false
	}
	for i := range d.Columns {
		a, b := d.Columns[i], o.Columns[i]
		if a.Name != b.Name || a.Kind != b.Kind || len(a.Strings) != len(b.Strings) {
			return false
		}
		for r := range a.Strings {
			if a.Strings[r] != b.Strings[r] {
				return false
			}
		}
	}
	return true
}

// Value returns the typed value of a cell: float64 (nil when empty) for numbers,
// TimeText for parsed times and the raw text otherwise.
func (c *Column) Value(row int) any {
	switch c.Kind {
	case KindNumber:
		if row >= len(c.Numbers) || math.IsNaN(c.Numbers[row]) {
			return nil
		}
		return c.Numbers[row]
	case KindTime:
		if row >= len(c.Times) || c.Times[row].IsZero() {
			return ""
		}
		return TimeText(c.Times[row])
	default:
		if row >= len(c.Strings) {
			return ""
		}
		return c.Strings[row]
	}
}

// TimeText formats t the way record filters compare it: a plain date when
// there is no time of day, "2006-01-02 15:04:05" otherwise.
func TimeText(t time.Time) string {
	if t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 && t.Nanosecond() == 0 {
		return t.Format("2006-01-02")
	}
	return t.Format("2006-01-02 15:04:05")
}

// Distinct returns the distinct raw values in first-seen order.
func (c *Column) Distinct() []string {
	seen := make(map[string]struct{}, len(c.Strings))
	var out []string
	for _, s := range c.Strings {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
