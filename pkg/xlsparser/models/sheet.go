package models

// Grid is an immutable rectangular view over the cells of one sheet.
// Rows may be ragged in the source; positions past a row's end read as missing.
type Grid struct {
	cells [][]Cell
	cols  int
}

// NewGrid builds a Grid from rows of cells. The rows are copied.
func NewGrid(rows [][]Cell) *Grid {
	g := &Grid{cells: make([][]Cell, len(rows))}
	for i, row := range rows {
		g.cells[i] = append([]Cell(nil), row...)
		if len(row) > g.cols {
			g.cols = len(row)
		}
	}
	return g
}

// Rows returns the number of rows.
func (g *Grid) Rows() int {
	return len(g.cells)
}

// Cols returns the width of the widest row.
func (g *Grid) Cols() int {
	return g.cols
}

// At returns the cell at (row, col), both 0-based.
// Indices outside the grid yield a missing cell.
func (g *Grid) At(row, col int) Cell {
	if row < 0 || col < 0 || row >= len(g.cells) {
		return Missing()
	}
	r := g.cells[row]
	if col >= len(r) {
		return Missing()
	}
	return r[col]
}

// InBounds reports whether (row, col) lies inside the grid's physical extent.
func (g *Grid) InBounds(row, col int) bool {
	return row >= 0 && col >= 0 && row < len(g.cells) && col < g.cols
}
