// Package importer reads vocabulary rows from spreadsheets and CSV files.
package importer

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/vytor/wordflash/internal/models"
)

// ErrUnsupportedFormat is returned for files that are neither CSV nor xlsx.
var ErrUnsupportedFormat = errors.New("importer: unsupported file format")

type Options struct {
	// Sheet to read from a workbook; empty means the first sheet.
	Sheet string
	// Topic applied to rows without one.
	DefaultTopic string
}

// columns maps the fields to row positions. A header row with "term" in it
// overrides the default A=term, B=definition, C=topic layout.
type columns struct {
	term, definition, topic int
}

var defaultColumns = columns{term: 0, definition: 1, topic: 2}

func headerColumns(row []string) (columns, bool) {
	cols := columns{term: -1, definition: -1, topic: -1}
	for i, cell := range row {
		switch strings.ToLower(strings.TrimSpace(cell)) {
		case "term", "word":
			cols.term = i
		case "definition", "meaning", "description":
			cols.definition = i
		case "topic":
			cols.topic = i
		}
	}
	return cols, cols.term >= 0
}

func cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

// rowsToItems converts raw rows. Blank rows are dropped; rows with missing
// fields are kept so the import can report them.
func rowsToItems(rows [][]string, opts Options) []models.Item {
	if len(rows) == 0 {
		return nil
	}
	cols := defaultColumns
	if hc, ok := headerColumns(rows[0]); ok {
		cols = hc
		rows = rows[1:]
	}

	items := make([]models.Item, 0, len(rows))
	for _, row := range rows {
		item := models.Item{
			Term:       cell(row, cols.term),
			Definition: cell(row, cols.definition),
			Topic:      cell(row, cols.topic),
		}
		if item.Term == "" && item.Definition == "" && item.Topic == "" {
			continue
		}
		if item.Topic == "" {
			item.Topic = opts.DefaultTopic
		}
		items = append(items, item)
	}
	return items
}

// ReadCSV reads items from CSV.
func ReadCSV(r io.Reader, opts Options) ([]models.Item, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	return rowsToItems(rows, opts), nil
}

// ReadXLSX reads items from one sheet of a workbook.
func ReadXLSX(r io.Reader, opts Options) ([]models.Item, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheet := opts.Sheet
	if sheet == "" {
		sheet = f.GetSheetName(0)
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	return rowsToItems(rows, opts), nil
}

// ReadFile picks the reader from the file extension.
func ReadFile(path string, opts Options) ([]models.Item, error) {
	var read func(io.Reader, Options) ([]models.Item, error)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		read = ReadCSV
	case ".xlsx", ".xlsm":
		read = ReadXLSX
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(path))
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return read(f, opts)
}
