package parser

import (
	"fmt"
	"strings"

	"github.com/nzo-il/data-acquisition/pkg/xlsparser/models"
	"github.com/xuri/excelize/v2"
)

// ParseWindow parses an A1 range such as "A1:AY51" or "$A$1:$AY$51" into a
// search window. Only the end cell bounds the search; the scan always starts
// at the top-left corner. A single cell reference is accepted as the end cell.
func ParseWindow(ref string) (models.Window, error) {
	area, err := ParseRange(ref)
	if err != nil {
		return models.Window{}, err
	}
	return models.Window{MaxRow: area.R2 - 1, MaxCol: area.C2 - 1}, nil
}

// ParseRange parses a range string like $A$1:$D$10, with an optional sheet
// prefix, into 1-based bounds.
func ParseRange(ref string) (models.Range, error) {
	s := strings.TrimSpace(ref)
	// Drop a 'Sheet'! prefix
	if idx := strings.LastIndex(s, "!"); idx >= 0 {
		s = s[idx+1:]
	}
	// Remove $ signs
	s = strings.ReplaceAll(s, "$", "")

	parts := strings.Split(s, ":")
	if len(parts) == 1 {
		parts = append(parts, parts[0])
	}
	if len(parts) != 2 {
		return models.Range{}, fmt.Errorf("invalid range %q", ref)
	}

	startCol, startRow, err := excelize.CellNameToCoordinates(parts[0])
	if err != nil {
		return models.Range{}, fmt.Errorf("invalid range %q: %w", ref, err)
	}
	endCol, endRow, err := excelize.CellNameToCoordinates(parts[1])
	if err != nil {
		return models.Range{}, fmt.Errorf("invalid range %q: %w", ref, err)
	}
	if endCol < startCol {
		startCol, endCol = endCol, startCol
	}
	if endRow < startRow {
		startRow, endRow = endRow, startRow
	}

	return models.Range{R1: startRow, C1: startCol, R2: endRow, C2: endCol}, nil
}

// FormatRange renders bounds in A1 notation, e.g. "B3:F98".
func FormatRange(area models.Range) (string, error) {
	startCell, err := excelize.CoordinatesToCellName(area.C1, area.R1)
	if err != nil {
		return "", err
	}
	endCell, err := excelize.CoordinatesToCellName(area.C2, area.R2)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s:%s", startCell, endCell), nil
}
