package models

// Value is a numeric-or-missing series entry.
type Value struct {
	Num   float64
	Valid bool
}

// Num returns a present value.
func Num(v float64) Value {
	return Value{Num: v, Valid: true}
}

// Null returns a missing value.
func Null() Value {
	return Value{}
}

// Table holds the extracted time series: the timestamp labels plus one
// series per named column, in grid column order.
// Every series has exactly len(Timestamps) entries.
type Table struct {
	// Timestamps are opaque labels used for alignment and display.
	Timestamps []string

	names  []string
	series map[string][]Value
}

// NewTable creates a table over the given timestamp labels.
func NewTable(timestamps []string) *Table {
	return &Table{
		Timestamps: timestamps,
		series:     make(map[string][]Value),
	}
}

// Len returns the number of timestamps.
func (t *Table) Len() int {
	return len(t.Timestamps)
}

// Set stores a series under name. An existing series with the same name is
// replaced in place and keeps its column position; replaced reports that case.
func (t *Table) Set(name string, values []Value) (replaced bool) {
	if _, ok := t.series[name]; ok {
		replaced = true
	} else {
		t.names = append(t.names, name)
	}
	t.series[name] = values
	return replaced
}

// Series returns the series stored under name.
func (t *Table) Series(name string) ([]Value, bool) {
	s, ok := t.series[name]
	return s, ok
}

// Has reports whether a series named name exists.
func (t *Table) Has(name string) bool {
	_, ok := t.series[name]
	return ok
}

// Names returns the column names in column order.
func (t *Table) Names() []string {
	return append([]string(nil), t.names...)
}

// AggregateTable holds one summed series per category.
// Categories keep first-encountered order; Values[i] belongs to Categories[i].
type AggregateTable struct {
	Timestamps []string
	Categories []string
	Values     [][]float64
}

// Len returns the number of rows.
func (a *AggregateTable) Len() int {
	return len(a.Timestamps)
}

// Series returns the summed series for a category.
func (a *AggregateTable) Series(category string) ([]float64, bool) {
	for i, c := range a.Categories {
		if c == category {
			return a.Values[i], true
		}
	}
	return nil, false
}

// Row returns the category values at row i, in category order.
func (a *AggregateTable) Row(i int) []float64 {
	row := make([]float64, len(a.Categories))
	for c := range a.Categories {
		row[c] = a.Values[c][i]
	}
	return row
}
