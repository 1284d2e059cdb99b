// Package parser loads tabular datasets and classifies their columns.
package parser

import (
	"math"
	"strconv"
	"strings"

	"github.com/barnabashub/vizzu-builder/pkg/vizzubuilder/models"
)

// parseValue attempts to parse a cell as a number.
// Returns int64 for integers, float64 for decimals, or the original string.
func parseValue(s string) interface{} {
	// Try integer first
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i
	}
	// Try float
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	// Return as string
	return s
}

// parseNumber returns the numeric value of a cell, NaN when empty.
func parseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return math.NaN(), true
	}
	switch v := parseValue(s).(type) {
	case int64:
		return float64(v), true
	case float64:
		return v, true
	default:
		return 0, false
	}
}

// buildColumn infers the storage kind of a column from its raw cells.
// A column is numeric when every non-empty cell parses as a number and at
// least one cell is non-empty.
func buildColumn(name string, cells []string, categorical bool) models.Column {
	col := models.Column{Name: name, Kind: models.KindString, Strings: cells}
	if categorical {
		col.Kind = models.KindCategory
		return col
	}

	numbers := make([]float64, len(cells))
	nonEmpty := 0
	for i, cell := range cells {
		n, ok := parseNumber(cell)
		if !ok {
			return col
		}
		if !math.IsNaN(n) {
			nonEmpty++
		}
		numbers[i] = n
	}
	if nonEmpty == 0 {
		return col
	}
	col.Kind = models.KindNumber
	col.Numbers = numbers
	return col
}
