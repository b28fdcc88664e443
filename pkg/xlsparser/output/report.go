package output

import (
	"bufio"
	"fmt"
	"io"
	"sort"

	"github.com/nzo-il/data-acquisition/pkg/xlsparser/models"
)

// Section titles of the report file.
const (
	SectionUnmapped = "names missing from mapping"
	SectionUnused   = "names missing from data"
)

// WriteReport writes the reconciliation report: a source line followed by the
// unmapped and unused sections, each bounded by "===" lines and sorted.
func WriteReport(w io.Writer, r models.Report) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintf(bw, "# source: %s  sheet: %s", r.Source.Path, r.Source.SheetName)
	if r.Range != "" {
		fmt.Fprintf(bw, "  range: %s", r.Range)
	}
	fmt.Fprintln(bw)

	writeSection(bw, SectionUnmapped, r.Unmapped)
	writeSection(bw, SectionUnused, r.Unused)

	return bw.Flush()
}

func writeSection(w io.Writer, title string, names []string) {
	sorted := append([]string(nil), names...)
	sort.Strings(sorted)

	fmt.Fprintf(w, "=== %s ===\n", title)
	for _, name := range sorted {
		fmt.Fprintln(w, name)
	}
	fmt.Fprintln(w, "=== end ===")
}
