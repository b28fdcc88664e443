package output

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/nzo-il/data-acquisition/pkg/xlsparser/models"
)

// HeaderTimestamp and HeaderSum lead every series CSV header.
const (
	HeaderTimestamp = "Timestamp"
	HeaderSum       = "Sum"
)

// formatFloat renders the shortest decimal that round-trips, so repeated runs
// produce identical bytes.
func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// WriteSeries writes a header of Timestamp, Sum and the categories, then one
// row per timestamp holding the label, totals[i] and each category value.
func WriteSeries(w io.Writer, a *models.AggregateTable, totals []float64) error {
	if len(totals) != a.Len() {
		return fmt.Errorf("totals length %d does not match %d rows", len(totals), a.Len())
	}

	writer := csv.NewWriter(w)

	header := make([]string, 0, len(a.Categories)+2)
	header = append(header, HeaderTimestamp, HeaderSum)
	header = append(header, a.Categories...)
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write headers: %w", err)
	}

	record := make([]string, len(header))
	for i, ts := range a.Timestamps {
		record[0] = ts
		record[1] = formatFloat(totals[i])
		for c := range a.Categories {
			record[c+2] = formatFloat(a.Values[c][i])
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write record %d: %w", i, err)
		}
	}

	writer.Flush()
	return writer.Error()
}
