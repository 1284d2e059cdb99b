// Package filter builds record-filter expressions from per-column criteria.
//
// Criteria are held as a predicate tree; the expression string consumed by the
// chart library is rendered from it with every literal escaped, and the same
// tree can be evaluated against dataset rows.
package filter

import (
	"strconv"
	"strings"
	"time"

	"github.com/barnabashub/vizzu-builder/pkg/vizzubuilder/models"
)

// Predicate is a single filter condition over dataset records.
type Predicate interface {
	// Expression renders the predicate in the record-filter grammar.
	Expression() string
	// Match evaluates the predicate against one dataset row.
	Match(ds *models.Dataset, row int) bool
}

// OneOf matches records whose column equals any of Values.
type OneOf struct {
	Column string
	Values []string
}

func (p OneOf) Expression() string {
	if len(p.Values) == 0 {
		return "false"
	}
	parts := make([]string, len(p.Values))
	for i, v := range p.Values {
		parts[i] = field(p.Column) + " == " + quote(v)
	}
	return strings.Join(parts, "||")
}

func (p OneOf) Match(ds *models.Dataset, row int) bool {
	col, ok := ds.Column(p.Column)
	if !ok || row >= len(col.Strings) {
		return false
	}
	for _, v := range p.Values {
		if col.Strings[row] == v {
			return true
		}
	}
	return false
}

// Between matches numeric values in the inclusive range [Lo, Hi].
type Between struct {
	Column string
	Lo, Hi float64
}

func (p Between) Expression() string {
	f := field(p.Column)
	return f + " >= " + number(p.Lo) + " && " + f + " <= " + number(p.Hi)
}

func (p Between) Match(ds *models.Dataset, row int) bool {
	col, ok := ds.Column(p.Column)
	if !ok || row >= len(col.Numbers) {
		return false
	}
	v := col.Numbers[row]
	return v >= p.Lo && v <= p.Hi
}

// TimeBetween matches time values in the inclusive range [Start, End].
type TimeBetween struct {
	Column     string
	Start, End time.Time
}

func (p TimeBetween) Expression() string {
	f := field(p.Column)
	return f + " >= " + quote(models.TimeText(p.Start)) + " && " + f + " <= " + quote(models.TimeText(p.End))
}

func (p TimeBetween) Match(ds *models.Dataset, row int) bool {
	col, ok := ds.Column(p.Column)
	if !ok || row >= len(col.Times) || col.Times[row].IsZero() {
		return false
	}
	t := col.Times[row]
	return !t.Before(p.Start) && !t.After(p.End)
}

// Contains matches records whose column contains Pattern as a substring.
type Contains struct {
	Column  string
	Pattern string
}

func (p Contains) Expression() string {
	return field(p.Column) + ".includes(" + quote(p.Pattern) + ")"
}

func (p Contains) Match(ds *models.Dataset, row int) bool {
	col, ok := ds.Column(p.Column)
	if !ok || row >= len(col.Strings) {
		return false
	}
	return strings.Contains(col.Strings[row], p.Pattern)
}

// And is the conjunction of its clauses. An empty And is "no filter".
type And []Predicate

// Expression joins the clauses with " && ", each parenthesized.
// It returns "" for an empty conjunction.
func (a And) Expression() string {
	if len(a) == 0 {
		return ""
	}
	parts := make([]string, len(a))
	for i, p := range a {
		parts[i] = "(" + p.Expression() + ")"
	}
	return strings.Join(parts, " && ")
}

func (a And) Match(ds *models.Dataset, row int) bool {
	for _, p := range a {
		if !p.Match(ds, row) {
			return false
		}
	}
	return true
}

// Count returns how many rows of ds satisfy the predicate.
func Count(p Predicate, ds *models.Dataset) int {
	if ds == nil {
		return 0
	}
	n := 0
	for row := 0; row < ds.Rows; row++ {
		if p.Match(ds, row) {
			n++
		}
	}
	return n
}

func field(column string) string {
	return "record[" + quote(column) + "]"
}

func number(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// quote renders s as a single-quoted JavaScript string literal.
func quote(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 2)
	b.WriteByte('\'')
	for _, r := range s {
		switch r {
		case '\\':
			b.WriteString(`\\`)
		case '\'':
			b.WriteString(`\'`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		case '<':
			b.WriteString(`\x3c`)
		case '>':
			b.WriteString(`\x3e`)
		case '\u2028':
			b.WriteString(`\u2028`)
		case '\u2029':
			b.WriteString(`\u2029`)
		default:
			if r < 0x20 {
				b.WriteString(`\x`)
				b.WriteString(strconv.FormatInt(int64(r)+0x100, 16)[1:])
				continue
			}
			b.WriteRune(r)
		}
	}
	b.WriteByte('\'')
	return b.String()
}
