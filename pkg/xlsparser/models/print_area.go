package models

// Anchor is the 0-based coordinate of the marker cell.
type Anchor struct {
	// Row is the row index (0-based).
	Row int `json:"row"`
	// Col is the column index (0-based).
	Col int `json:"col"`
}

// Window caps the anchor search. Both bounds are inclusive 0-based indices.
type Window struct {
	// MaxRow is the last row index scanned.
	MaxRow int `json:"max_row"`
	// MaxCol is the last column index scanned.
	MaxCol int `json:"max_col"`
}

// DefaultWindow scans indices 0..50 in both dimensions.
func DefaultWindow() Window {
	return Window{MaxRow: 50, MaxCol: 50}
}

// Range represents 1-based inclusive cell bounds, as used in A1 notation.
type Range struct {
	// R1 is the start row (1-based).
	R1 int `json:"r1"`
	// C1 is the start column (1-based).
	C1 int `json:"c1"`
	// R2 is the end row (1-based, inclusive).
	R2 int `json:"r2"`
	// C2 is the end column (1-based, inclusive).
	C2 int `json:"c2"`
}
