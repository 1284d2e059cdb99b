package parser

import (
	"errors"
	"fmt"

	"github.com/barnabashub/vizzu-builder/pkg/vizzubuilder/models"
	"github.com/xuri/excelize/v2"
)

// ErrNoTable indicates no table-like region was found on the sheet.
var ErrNoTable = errors.New("no table found on sheet")

// LoadXLSX reads a dataset from a worksheet. The table region is, in order of
// preference: opts.Range, the sheet's first print area, the detected data bounds.
// The first row of the region is the header.
func LoadXLSX(path string, opts Options) (*models.Dataset, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open xlsx: %w", err)
	}
	defer f.Close()

	sheetName := opts.Sheet
	if sheetName == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, ErrEmptyDataset
		}
		sheetName = sheets[0]
	}

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheetName, err)
	}

	area, err := tableRange(f, sheetName, rows, opts.Range)
	if err != nil {
		return nil, err
	}
	return FromRecords(opts.Name, sliceRange(rows, area), opts)
}

func tableRange(f *excelize.File, sheetName string, rows [][]string, explicit string) (cellRange, error) {
	if explicit != "" {
		area, ok := parseRange(explicit)
		if !ok {
			return cellRange{}, fmt.Errorf("invalid range %q", explicit)
		}
		return area, nil
	}
	if areas := printAreas(f)[sheetName]; len(areas) > 0 {
		return areas[0], nil
	}
	area, ok := detectTable(rows, DefaultTableParams())
	if !ok {
		return cellRange{}, fmt.Errorf("%w: %q", ErrNoTable, sheetName)
	}
	return area, nil
}
