package parser

import (
	"regexp"

	"github.com/nzo-il/data-acquisition/pkg/xlsparser/models"
)

// MarkerPattern matches the header cell that anchors the data block:
// "Unit" followed by "Name", optionally separated by whitespace, anywhere in the text.
var MarkerPattern = regexp.MustCompile(`Unit\s*Name`)

// LocateAnchor scans column by column, top to bottom within each column, and
// returns the first cell whose text matches MarkerPattern.
// The scan stops at the window bound or the grid edge, whichever comes first.
func LocateAnchor(g *models.Grid, w models.Window) (models.Anchor, error) {
	return LocateMarker(g, w, MarkerPattern)
}

// LocateMarker is LocateAnchor with a caller-supplied pattern.
func LocateMarker(g *models.Grid, w models.Window, pattern *regexp.Regexp) (models.Anchor, error) {
	for col := 0; col <= w.MaxCol && col < g.Cols(); col++ {
		for row := 0; row <= w.MaxRow && row < g.Rows(); row++ {
			cell := g.At(row, col)
			if cell.IsMissing() {
				continue
			}
			if pattern.MatchString(cell.String()) {
				return models.Anchor{Row: row, Col: col}, nil
			}
		}
	}
	return models.Anchor{}, &AnchorError{Pattern: pattern.String(), Window: w, Rows: g.Rows(), Cols: g.Cols()}
}
