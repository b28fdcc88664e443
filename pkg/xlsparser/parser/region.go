package parser

import (
	"github.com/nzo-il/data-acquisition/pkg/xlsparser/models"
)

// DataRegion returns the 1-based bounds of the block read by ExtractSeries:
// the rows below the anchor holding timestamps, from the anchor column to lastCol.
// With no timestamps the region collapses to the anchor row.
func DataRegion(a models.Anchor, timestamps, lastCol int) models.Range {
	r1 := a.Row + 2
	r2 := a.Row + 1 + timestamps
	if timestamps == 0 {
		r1 = a.Row + 1
		r2 = a.Row + 1
	}
	return models.Range{
		R1: r1,
		C1: a.Col + 1,
		R2: r2,
		C2: lastCol + 1,
	}
}

// RegionString renders the extraction region in A1 notation, or "" if it
// cannot be expressed.
func (e *Extraction) RegionString() string {
	s, err := FormatRange(e.Region)
	if err != nil {
		return ""
	}
	return s
}
