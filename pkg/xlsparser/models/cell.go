// Package models defines data structures for report extraction and aggregation.
package models

import "strconv"

// CellKind tags the content of a Cell.
type CellKind int

const (
	// CellMissing marks an empty cell or a position outside the grid.
	CellMissing CellKind = iota
	// CellNumber marks a cell holding a numeric value.
	CellNumber
	// CellText marks a cell holding non-numeric text.
	CellText
)

// String returns the kind name.
func (k CellKind) String() string {
	switch k {
	case CellNumber:
		return "number"
	case CellText:
		return "text"
	default:
		return "missing"
	}
}

// Cell is a single grid value.
type Cell struct {
	// Kind is the tag of the value.
	Kind CellKind `json:"kind"`
	// Num is the numeric value (valid for CellNumber).
	Num float64 `json:"num,omitempty"`
	// Text is the display text of the cell (set for numbers and text).
	Text string `json:"text,omitempty"`
}

// Missing returns a missing cell.
func Missing() Cell {
	return Cell{}
}

// Number returns a numeric cell whose display text is the shortest decimal form of v.
func Number(v float64) Cell {
	return Cell{Kind: CellNumber, Num: v, Text: strconv.FormatFloat(v, 'f', -1, 64)}
}

// Text returns a text cell. An empty string yields a missing cell.
func Text(s string) Cell {
	if s == "" {
		return Missing()
	}
	return Cell{Kind: CellText, Text: s}
}

// IsMissing reports whether the cell carries no value.
func (c Cell) IsMissing() bool {
	return c.Kind == CellMissing
}

// String returns the display text of the cell.
func (c Cell) String() string {
	return c.Text
}
