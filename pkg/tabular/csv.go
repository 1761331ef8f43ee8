package tabular

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
)

// ReadCSV parses CSV data into a table. The first record is the header.
// Empty fields become null cells; fields that parse as floats become
// numeric cells; everything else is kept as a string.
func ReadCSV(r io.Reader) (*Table, error) {
	cr := csv.NewReader(r)
	header, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("empty input: missing header row")
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	tbl, err := New(header...)
	if err != nil {
		return nil, err
	}

	for line := 2; ; line++ {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read line %d: %w", line, err)
		}
		cells := make([]Cell, len(record))
		for i, field := range record {
			cells[i] = parseField(field)
		}
		tbl.AppendRow(cells...)
	}
	return tbl, nil
}

// WriteCSV writes the table as CSV with a header row. Null cells are
// written as empty fields.
func (t *Table) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.columns); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	record := make([]string, len(t.columns))
	for _, row := range t.rows {
		for i, cell := range row {
			record[i] = cell.String()
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// LoadCSV reads a table from a CSV file.
func LoadCSV(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	tbl, err := ReadCSV(f)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return tbl, nil
}

// SaveCSV writes the table to a CSV file, creating or truncating it.
func (t *Table) SaveCSV(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := t.WriteCSV(f); err != nil {
		_ = f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}

func parseField(field string) Cell {
	if field == "" {
		return Null()
	}
	if f, err := strconv.ParseFloat(field, 64); err == nil {
		return Number(f)
	}
	return String(field)
}
