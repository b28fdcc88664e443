// Package testutil builds grids and workbooks for tests.
package testutil

import (
	"fmt"
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/nzo-il/data-acquisition/pkg/xlsparser/models"
)

// Cell converts a Go value to a grid cell: nil is missing, strings are text
// (empty is missing), integers and floats are numbers.
func Cell(v any) models.Cell {
	switch x := v.(type) {
	case nil:
		return models.Missing()
	case string:
		return models.Text(x)
	case int:
		return models.Number(float64(x))
	case float64:
		return models.Number(x)
	case models.Cell:
		return x
	default:
		panic(fmt.Sprintf("testutil: unsupported cell value %T", v))
	}
}

// Grid builds a grid from rows of Go values.
func Grid(rows ...[]any) *models.Grid {
	cells := make([][]models.Cell, len(rows))
	for r, row := range rows {
		cells[r] = make([]models.Cell, len(row))
		for c, v := range row {
			cells[r][c] = Cell(v)
		}
	}
	return models.NewGrid(cells)
}

// Row is shorthand for a grid row literal.
func Row(values ...any) []any {
	return values
}

// ScenarioRows is a report with the anchor at (2,1): two title rows, a header
// row of "Unit Name", PlantA and PlantB, and four half-hour timestamps.
func ScenarioRows() [][]any {
	return [][]any{
		Row("Monthly report"),
		Row(nil, "Gross production"),
		Row(nil, "Unit Name", "PlantA", "PlantB"),
		Row(nil, "01/12/2019 00:00", 1.5, 10),
		Row(nil, "01/12/2019 00:30", 2.5, 20),
		Row(nil, "01/12/2019 01:00", nil, 30),
		Row(nil, "01/12/2019 01:30", 4, 40),
		Row(),
		Row(nil, "Total", 8, 100),
	}
}

// WriteWorkbook saves rows into sheet of a new workbook at dir/name and returns its path.
func WriteWorkbook(t *testing.T, dir, name, sheet string, rows [][]any) string {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	if sheet != "Sheet1" {
		if err := f.SetSheetName("Sheet1", sheet); err != nil {
			t.Fatalf("Failed to rename sheet: %v", err)
		}
	}
	for r, row := range rows {
		for c, v := range row {
			if v == nil {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(c+1, r+1)
			if err != nil {
				t.Fatalf("Failed to name cell: %v", err)
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				t.Fatalf("Failed to set %s: %v", cell, err)
			}
		}
	}

	path := filepath.Join(dir, name)
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("Failed to save test file: %v", err)
	}
	return path
}
