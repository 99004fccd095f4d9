package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Row maps column names to cell values for one data record.
type Row map[string]string

// Dataset is an ordered collection of rows sharing one header.
//
// The dataset is owned by the session only for the duration of a generation
// run; it holds no file handles and can be discarded once the batch is done.
type Dataset struct {
	// Columns are the header names in file order.
	Columns []string

	// Rows are the data records in file order, one certificate each.
	Rows []Row
}

// Len returns the number of data rows (excluding the header).
func (d *Dataset) Len() int { return len(d.Rows) }

// ReadFile loads a tabular dataset from a .csv or .tsv file.
//
// The first record is treated as the header row. Other extensions are
// rejected; spreadsheet binary formats are out of scope.
func ReadFile(path string) (*Dataset, error) {
	var delim rune
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		delim = ','
	case ".tsv", ".tab":
		delim = '\t'
	default:
		return nil, fmt.Errorf("unsupported dataset format %q (expected .csv or .tsv)", filepath.Ext(path))
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open dataset: %w", err)
	}
	defer f.Close()

	ds, err := Read(f, delim)
	if err != nil {
		return nil, fmt.Errorf("failed to read dataset %q: %w", path, err)
	}
	return ds, nil
}

// Read parses delimiter-separated records from r. The first record is the
// header; all records must have the same field count.
func Read(r io.Reader, delim rune) (*Dataset, error) {
	cr := csv.NewReader(r)
	cr.Comma = delim

	header, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("dataset has no header row")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header row: %w", err)
	}

	ds := &Dataset{Columns: header}
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read data row %d: %w", len(ds.Rows)+1, err)
		}
		row := make(Row, len(header))
		for i, col := range header {
			row[col] = record[i]
		}
		ds.Rows = append(ds.Rows, row)
	}
	return ds, nil
}
