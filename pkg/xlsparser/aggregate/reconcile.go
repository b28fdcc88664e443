package aggregate

import (
	"sort"

	"github.com/nzo-il/data-acquisition/pkg/xlsparser/models"
)

// Reconcile cross-references extracted names with the mapping. Table names are
// expected in canonical form, as ExtractSeries produces them with the
// mapping's aliases, and are matched exactly like Aggregate matches them.
// unmapped holds extracted names with no mapping entry; unused holds mapping
// names with no extracted series. Skip-set names appear in neither.
// Both lists are sorted.
func Reconcile(t *models.Table, m *models.Mapping) (unmapped, unused []string) {
	unmapped = []string{}
	unused = []string{}

	for _, name := range t.Names() {
		if m.Skipped(name) {
			continue
		}
		if !m.Has(name) {
			unmapped = append(unmapped, name)
		}
	}

	for _, p := range m.Pairs() {
		if m.Skipped(p.Name) {
			continue
		}
		if !t.Has(p.Name) {
			unused = append(unused, p.Name)
		}
	}

	sort.Strings(unmapped)
	sort.Strings(unused)
	return unmapped, unused
}
