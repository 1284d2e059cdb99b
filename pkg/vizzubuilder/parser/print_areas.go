package parser

import (
	"strings"

	"github.com/xuri/excelize/v2"
)

const printAreaName = "_xlnm.Print_Area"

// printAreas collects the print areas defined in a workbook, keyed by sheet.
func printAreas(f *excelize.File) map[string][]cellRange {
	areas := make(map[string][]cellRange)
	for _, dn := range f.GetDefinedName() {
		if !strings.EqualFold(dn.Name, printAreaName) {
			continue
		}
		sheet, ranges := splitPrintArea(dn.RefersTo)
		if sheet != "" {
			areas[sheet] = append(areas[sheet], ranges...)
		}
	}
	return areas
}

// splitPrintArea reads a reference such as 'My Sheet'!$A$1:$D$10,'My Sheet'!$F$1:$G$4.
// The sheet of the first part names the whole reference.
func splitPrintArea(ref string) (string, []cellRange) {
	var sheet string
	var ranges []cellRange
	for _, part := range strings.Split(ref, ",") {
		idx := strings.LastIndex(part, "!")
		if idx < 0 {
			continue
		}
		if sheet == "" {
			sheet = strings.Trim(strings.TrimSpace(part[:idx]), "'")
		}
		if r, ok := parseRange(part[idx+1:]); ok {
			ranges = append(ranges, r)
		}
	}
	if len(ranges) == 0 {
		return "", nil
	}
	return sheet, ranges
}

// parseRange reads an A1:D10 range; absolute markers are allowed.
func parseRange(s string) (cellRange, bool) {
	from, to, ok := strings.Cut(strings.ReplaceAll(strings.TrimSpace(s), "$", ""), ":")
	if !ok {
		return cellRange{}, false
	}
	c1, r1, err := excelize.CellNameToCoordinates(from)
	if err != nil {
		return cellRange{}, false
	}
	c2, r2, err := excelize.CellNameToCoordinates(to)
	if err != nil || r2 < r1 || c2 < c1 {
		return cellRange{}, false
	}
	return cellRange{R1: r1, C1: c1, R2: r2, C2: c2}, true
}
