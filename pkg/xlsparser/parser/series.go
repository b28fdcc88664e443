package parser

import (
	"github.com/nzo-il/data-acquisition/pkg/xlsparser/models"
)

// ExtractOptions configures series extraction.
type ExtractOptions struct {
	// Aliases canonicalizes header names before they become series names.
	Aliases models.Aliases
	// RejectDuplicates turns a header collision into a DuplicateColumnError.
	// Otherwise the later column overwrites the earlier one.
	RejectDuplicates bool
}

// Extraction is the result of ExtractSeries.
type Extraction struct {
	Table *models.Table
	// Region is the data block below the header row, timestamps included.
	Region models.Range
	// Duplicates lists header names that overwrote an earlier column, in encounter order.
	Duplicates []string
	// NonNumeric counts text cells inside data columns; they are stored as missing.
	NonNumeric int
}

// ExtractSeries reads the time series anchored at a.
//
// The timestamp column is read downward from the row below the anchor until the
// first missing cell; its length is used for every other column. Each column to
// the right with a non-empty header contributes exactly that many values, with
// missing or non-numeric cells kept as missing entries.
func ExtractSeries(g *models.Grid, a models.Anchor, opts ExtractOptions) (*Extraction, error) {
	var timestamps []string
	for row := a.Row + 1; ; row++ {
		cell := g.At(row, a.Col)
		if cell.IsMissing() {
			break
		}
		timestamps = append(timestamps, cell.String())
	}
	n := len(timestamps)

	ext := &Extraction{Table: models.NewTable(timestamps)}
	firstCol := make(map[string]int)
	lastCol := a.Col

	for col := a.Col + 1; col < g.Cols(); col++ {
		header := g.At(a.Row, col)
		if header.IsMissing() {
			continue
		}
		name := opts.Aliases.Resolve(header.String())
		if name == "" {
			continue
		}

		if prev, ok := firstCol[name]; ok {
			if opts.RejectDuplicates {
				return nil, &DuplicateColumnError{Name: name, FirstCol: prev, SecondCol: col}
			}
			ext.Duplicates = append(ext.Duplicates, name)
		} else {
			firstCol[name] = col
		}

		values := make([]models.Value, n)
		for i := 0; i < n; i++ {
			cell := g.At(a.Row+1+i, col)
			switch cell.Kind {
			case models.CellNumber:
				values[i] = models.Num(cell.Num)
			case models.CellText:
				ext.NonNumeric++
				values[i] = models.Null()
			default:
				values[i] = models.Null()
			}
		}
		ext.Table.Set(name, values)
		lastCol = col
	}

	ext.Region = DataRegion(a, n, lastCol)
	return ext, nil
}
