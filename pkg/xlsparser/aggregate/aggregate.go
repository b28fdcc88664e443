// Package aggregate reclassifies extracted series into categories and resamples them.
package aggregate

import (
	"gonum.org/v1/gonum/floats"

	"github.com/nzo-il/data-acquisition/pkg/xlsparser/models"
)

// accumulator collects per-category sums. It is private to Aggregate and only
// escapes as a finished AggregateTable.
type accumulator struct {
	n          int
	categories []string
	index      map[string]int
	values     [][]float64
}

func newAccumulator(n int) *accumulator {
	return &accumulator{n: n, index: make(map[string]int)}
}

// fold adds the series of p.Name to the running sum of p.Category.
// The category is registered even when the name has no series.
func (acc *accumulator) fold(p models.Pair, t *models.Table) *accumulator {
	i, ok := acc.index[p.Category]
	if !ok {
		i = len(acc.categories)
		acc.index[p.Category] = i
		acc.categories = append(acc.categories, p.Category)
		acc.values = append(acc.values, make([]float64, acc.n))
	}

	series, ok := t.Series(p.Name)
	if !ok {
		return acc
	}
	floats.Add(acc.values[i], dense(series, acc.n))
	return acc
}

func (acc *accumulator) table(timestamps []string) *models.AggregateTable {
	return &models.AggregateTable{
		Timestamps: timestamps,
		Categories: acc.categories,
		Values:     acc.values,
	}
}

// dense converts a series to n floats, missing entries contributing zero.
func dense(series []models.Value, n int) []float64 {
	out := make([]float64, n)
	for i := 0; i < n && i < len(series); i++ {
		if series[i].Valid {
			out[i] = series[i].Num
		}
	}
	return out
}

// Aggregate sums the series of every mapped name into its category.
//
// Categories appear in the order they are first met while walking the mapping.
// Skip-set entries are ignored entirely, names without an extracted series add
// nothing, and missing values add zero at their index.
func Aggregate(t *models.Table, m *models.Mapping) *models.AggregateTable {
	acc := newAccumulator(t.Len())
	for _, p := range m.Pairs() {
		if m.Skipped(p.Name) {
			continue
		}
		acc = acc.fold(p, t)
	}
	return acc.table(t.Timestamps)
}

// Totals returns the cross-category sum of every row.
func Totals(a *models.AggregateTable) []float64 {
	totals := make([]float64, a.Len())
	for i := range totals {
		totals[i] = floats.Sum(a.Row(i))
	}
	return totals
}
