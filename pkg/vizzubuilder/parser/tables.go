package parser

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// TableDetectionParams holds parameters for table detection.
type TableDetectionParams struct {
	DensityMin       float64
	MinNonemptyCells int
}

// DefaultTableParams returns default table detection parameters.
func DefaultTableParams() TableDetectionParams {
	return TableDetectionParams{
		DensityMin:       0.04,
		MinNonemptyCells: 2,
	}
}

// cellRange is a 1-based inclusive cell rectangle.
type cellRange struct {
	R1, C1, R2, C2 int
}

func (r cellRange) String() string {
	start, _ := excelize.CoordinatesToCellName(r.C1, r.R1)
	end, _ := excelize.CoordinatesToCellName(r.C2, r.R2)
	return fmt.Sprintf("%s:%s", start, end)
}

// detectTable returns the bounding box of the non-empty cells of a sheet.
// It reports false when the sheet is empty or too sparse to hold a table.
func detectTable(rows [][]string, params TableDetectionParams) (cellRange, bool) {
	var box cellRange
	filled := 0
	for r, row := range rows {
		for c, cell := range row {
			if cell == "" {
				continue
			}
			if filled == 0 {
				box = cellRange{R1: r + 1, C1: c + 1, R2: r + 1, C2: c + 1}
			}
			filled++
			box.R1, box.R2 = min(box.R1, r+1), max(box.R2, r+1)
			box.C1, box.C2 = min(box.C1, c+1), max(box.C2, c+1)
		}
	}
	if filled == 0 || filled < params.MinNonemptyCells {
		return cellRange{}, false
	}
	area := (box.R2 - box.R1 + 1) * (box.C2 - box.C1 + 1)
	if float64(filled)/float64(area) < params.DensityMin {
		return cellRange{}, false
	}
	return box, true
}

// sliceRange cuts the rectangle out of a sheet's rows, padding short rows.
func sliceRange(rows [][]string, r cellRange) [][]string {
	out := make([][]string, 0, r.R2-r.R1+1)
	width := r.C2 - r.C1 + 1
	for rowIdx := r.R1 - 1; rowIdx < r.R2 && rowIdx < len(rows); rowIdx++ {
		row := make([]string, width)
		src := rows[rowIdx]
		for c := 0; c < width; c++ {
			if idx := r.C1 - 1 + c; idx < len(src) {
				row[c] = src[idx]
			}
		}
		out = append(out, row)
	}
	return out
}
