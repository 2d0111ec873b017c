package service

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Table is an in-memory spreadsheet: one header row plus data rows.
// Rows may be ragged; Get and Set treat missing trailing cells as empty.
type Table struct {
	Headers []string
	Rows    [][]string
}

// LoadTable parses spreadsheet bytes according to the file extension.
func LoadTable(data []byte, ext string) (*Table, error) {
	switch strings.ToLower(ext) {
	case ".xlsx":
		return loadXLSX(data)
	case ".csv":
		return loadCSV(data)
	default:
		return nil, fmt.Errorf("unsupported extension %q", ext)
	}
}

func loadXLSX(data []byte) (*Table, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}
	if len(rows) == 0 {
		return &Table{}, nil
	}

	return &Table{Headers: rows[0], Rows: rows[1:]}, nil
}

func loadCSV(data []byte) (*Table, error) {
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))

	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse csv: %w", err)
	}
	if len(records) == 0 {
		return &Table{}, nil
	}

	return &Table{Headers: records[0], Rows: records[1:]}, nil
}

// Save writes the table to path in the format given by its extension,
// matching the format the table was loaded from.
func (t *Table) Save(path string) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		return t.saveXLSX(path)
	case ".csv":
		return t.saveCSV(path)
	default:
		return fmt.Errorf("unsupported extension %q", filepath.Ext(path))
	}
}

func (t *Table) saveXLSX(path string) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	if err := f.SetSheetRow(sheet, "A1", &t.Headers); err != nil {
		return fmt.Errorf("failed to write header row: %w", err)
	}
	for i, row := range t.Rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("failed to build cell name: %w", err)
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}

func (t *Table) saveCSV(path string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := writer.Write(t.Headers); err != nil {
		return fmt.Errorf("failed to write header row: %w", err)
	}
	for _, row := range t.Rows {
		// Pad ragged rows so every record carries the full column set
		if len(row) < len(t.Headers) {
			padded := make([]string, len(t.Headers))
			copy(padded, row)
			row = padded
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
	}
	writer.Flush()
	return writer.Error()
}

// ColumnIndex returns the position of the named header, or -1.
func (t *Table) ColumnIndex(name string) int {
	for i, h := range t.Headers {
		if h == name {
			return i
		}
	}
	return -1
}

// EnsureColumn appends the named column when missing and returns its
// index. Existing columns keep their position and values.
func (t *Table) EnsureColumn(name string) int {
	if i := t.ColumnIndex(name); i >= 0 {
		return i
	}
	t.Headers = append(t.Headers, name)
	return len(t.Headers) - 1
}

// Get returns the cell at row/col, empty for cells a ragged row never had.
func (t *Table) Get(row, col int) string {
	if row < 0 || row >= len(t.Rows) || col < 0 || col >= len(t.Rows[row]) {
		return ""
	}
	return t.Rows[row][col]
}

// Set grows the row as needed before writing the cell.
func (t *Table) Set(row, col int, value string) {
	if row < 0 || row >= len(t.Rows) || col < 0 {
		return
	}
	for len(t.Rows[row]) <= col {
		t.Rows[row] = append(t.Rows[row], "")
	}
	t.Rows[row][col] = value
}
