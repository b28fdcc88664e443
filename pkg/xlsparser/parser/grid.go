// Package parser reads report sheets, mapping files and aliases into models.
package parser

import (
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/nzo-il/data-acquisition/pkg/xlsparser/models"
	"github.com/xuri/excelize/v2"
)

// OpenGrid opens the workbook at path and reads the grid of the sheet named
// or indexed by sheet. The workbook is closed before returning.
func OpenGrid(path, sheet string) (*models.Grid, models.Source, error) {
	src := models.Source{Path: path}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, src, fmt.Errorf("%w: %s", ErrFileNotFound, path)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, src, fmt.Errorf("%w: %s: %v", ErrInvalidFormat, path, err)
	}
	defer f.Close()

	sheetName, err := ResolveSheet(f, sheet)
	if err != nil {
		return nil, src, err
	}
	src.SheetName = sheetName

	grid, err := ReadGrid(f, sheetName)
	if err != nil {
		return nil, src, err
	}
	return grid, src, nil
}

// ResolveSheet maps a sheet identifier to a sheet name. An exact name match wins,
// then a match ignoring surrounding whitespace, then a 0-based sheet index.
func ResolveSheet(f *excelize.File, sheet string) (string, error) {
	sheets := f.GetSheetList()
	for _, name := range sheets {
		if name == sheet {
			return name, nil
		}
	}
	trimmed := strings.TrimSpace(sheet)
	for _, name := range sheets {
		if strings.TrimSpace(name) == trimmed {
			return name, nil
		}
	}
	if idx, err := strconv.Atoi(trimmed); err == nil && idx >= 0 && idx < len(sheets) {
		return sheets[idx], nil
	}
	return "", fmt.Errorf("%w: %q (have %q)", ErrSheetNotFound, sheet, sheets)
}

// ReadGrid reads a sheet into a Grid.
// Display values become cell text; raw values decide whether a cell is numeric,
// so number formats such as thousands separators or dates do not hide numbers.
func ReadGrid(f *excelize.File, sheetName string) (*models.Grid, error) {
	display, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheetName, err)
	}
	raw, err := f.GetRows(sheetName, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("read raw values of sheet %q: %w", sheetName, err)
	}
	return BuildGrid(display, raw), nil
}

// BuildGrid combines display and raw row values into a Grid.
// raw may be nil, in which case display values are parsed directly.
func BuildGrid(display, raw [][]string) *models.Grid {
	n := len(display)
	if len(raw) > n {
		n = len(raw)
	}

	rows := make([][]models.Cell, n)
	for r := 0; r < n; r++ {
		d := rowAt(display, r)
		w := rowAt(raw, r)
		if raw == nil {
			w = d
		}
		width := len(d)
		if len(w) > width {
			width = len(w)
		}
		cells := make([]models.Cell, width)
		for c := 0; c < width; c++ {
			cells[c] = parseCell(valueAt(d, c), valueAt(w, c))
		}
		rows[r] = cells
	}
	return models.NewGrid(rows)
}

// parseCell classifies a cell from its display and raw text.
func parseCell(display, raw string) models.Cell {
	if display == "" && raw == "" {
		return models.Missing()
	}
	if isNaN(raw) || isNaN(display) {
		return models.Missing()
	}
	text := display
	if text == "" {
		text = raw
	}
	if v, ok := parseNumber(raw); ok {
		return models.Cell{Kind: models.CellNumber, Num: v, Text: text}
	}
	if v, ok := parseNumber(display); ok {
		return models.Cell{Kind: models.CellNumber, Num: v, Text: text}
	}
	return models.Text(text)
}

// parseNumber attempts to parse a string value as a number.
func parseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	// Try integer first
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return float64(i), true
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// isNaN reports whether s is a spelled-out not-a-number marker.
func isNaN(s string) bool {
	return strings.EqualFold(strings.TrimSpace(s), "nan")
}

func rowAt(rows [][]string, i int) []string {
	if i < len(rows) {
		return rows[i]
	}
	return nil
}

func valueAt(row []string, i int) string {
	if i < len(row) {
		return row[i]
	}
	return ""
}
