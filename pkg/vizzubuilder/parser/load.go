package parser

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/barnabashub/vizzu-builder/pkg/vizzubuilder/models"
)

// ErrEmptyDataset indicates the source holds no header row.
var ErrEmptyDataset = errors.New("dataset has no header row")

// ErrUnsupportedFormat indicates a file extension with no loader.
var ErrUnsupportedFormat = errors.New("unsupported dataset format")

// Options configures dataset loading.
type Options struct {
	// Name overrides the dataset name (defaults to the file base name).
	Name string
	// Sheet selects the worksheet of an xlsx file (defaults to the first sheet).
	Sheet string
	// Range restricts an xlsx sheet to a cell range such as "A1:D20".
	Range string
	// Categorical lists text columns to mark as explicitly categorical.
	Categorical []string
	// Comma is the CSV field delimiter (defaults to ',').
	Comma rune
}

func (o Options) isCategorical(name string) bool {
	for _, c := range o.Categorical {
		if c == name {
			return true
		}
	}
	return false
}

// LoadFile loads a dataset from a .csv, .tsv or .xlsx file.
func LoadFile(path string, opts Options) (*models.Dataset, error) {
	if opts.Name == "" {
		opts.Name = filepath.Base(path)
	}
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".xlsx", ".xlsm":
		return LoadXLSX(path, opts)
	case ".csv", ".tsv", ".txt":
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open dataset: %w", err)
		}
		defer f.Close()
		if ext == ".tsv" && opts.Comma == 0 {
			opts.Comma = '\t'
		}
		return LoadCSV(f, opts)
	default:
		return nil, fmt.Errorf("%w: %q (want .csv, .tsv or .xlsx)", ErrUnsupportedFormat, ext)
	}
}

// LoadCSV reads a dataset from CSV with a header row.
func LoadCSV(r io.Reader, opts Options) (*models.Dataset, error) {
	cr := csv.NewReader(r)
	if opts.Comma != 0 {
		cr.Comma = opts.Comma
	}
	cr.FieldsPerRecord = -1
	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	return FromRecords(opts.Name, records, opts)
}

// FromRecords builds a dataset from a header row followed by data rows.
// Short rows are padded with empty cells.
func FromRecords(name string, records [][]string, opts Options) (*models.Dataset, error) {
	if len(records) == 0 || len(records[0]) == 0 {
		return nil, ErrEmptyDataset
	}
	header := records[0]
	rows := records[1:]

	ds := &models.Dataset{Name: name, Rows: len(rows), Columns: make([]models.Column, len(header))}
	for c, rawName := range header {
		colName := strings.TrimSpace(strings.TrimPrefix(rawName, "\ufeff"))
		if colName == "" {
			colName = fmt.Sprintf("Column%d", c+1)
		}
		cells := make([]string, len(rows))
		for r, row := range rows {
			if c < len(row) {
				cells[r] = strings.TrimSpace(row[c])
			}
		}
		ds.Columns[c] = buildColumn(colName, cells, opts.isCategorical(colName))
	}
	return ds, nil
}
