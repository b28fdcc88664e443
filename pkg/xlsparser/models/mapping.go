package models

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// NormalizeName trims surrounding whitespace and applies Unicode NFC so that
// visually identical names compare equal.
func NormalizeName(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}

// Pair is one (raw name, category) mapping entry.
type Pair struct {
	Name     string `json:"name" yaml:"name"`
	Category string `json:"category" yaml:"category"`
}

// Aliases maps a raw name variant to its canonical raw name.
type Aliases map[string]string

// Resolve normalizes name and follows alias targets until a name that is not
// itself aliased. A cycle resolves to its lexically smallest member, so
// Resolve(Resolve(x)) == Resolve(x) for every x.
func (a Aliases) Resolve(name string) string {
	n := NormalizeName(name)
	seen := map[string]int{}
	var chain []string
	for {
		if i, ok := seen[n]; ok {
			cycle := chain[i:]
			smallest := cycle[0]
			for _, c := range cycle[1:] {
				if c < smallest {
					smallest = c
				}
			}
			return smallest
		}
		target, ok := a[n]
		if !ok {
			return n
		}
		seen[n] = len(chain)
		chain = append(chain, n)
		n = NormalizeName(target)
	}
}

// normalized returns a copy of a with normalized keys.
func (a Aliases) normalized() Aliases {
	out := make(Aliases, len(a))
	for k, v := range a {
		out[NormalizeName(k)] = v
	}
	return out
}

// Mapping is the ordered name-to-category table with its alias table and skip-set.
type Mapping struct {
	pairs   []Pair
	index   map[string]int
	aliases Aliases
	skip    map[string]struct{}
}

// NewMapping builds a Mapping. Pair names are canonicalized through aliases.
// A repeated name takes the later category and keeps its first position.
func NewMapping(pairs []Pair, aliases Aliases, skip []string) *Mapping {
	m := &Mapping{
		index:   make(map[string]int),
		aliases: aliases.normalized(),
		skip:    make(map[string]struct{}, len(skip)),
	}
	for _, s := range skip {
		m.skip[NormalizeName(s)] = struct{}{}
	}
	for _, p := range pairs {
		name := m.Canonical(p.Name)
		category := NormalizeName(p.Category)
		if i, ok := m.index[name]; ok {
			m.pairs[i].Category = category
			continue
		}
		m.index[name] = len(m.pairs)
		m.pairs = append(m.pairs, Pair{Name: name, Category: category})
	}
	return m
}

// Canonical returns the normalized, alias-resolved form of a raw name.
func (m *Mapping) Canonical(name string) string {
	return m.aliases.Resolve(name)
}

// Aliases returns the alias table with normalized keys.
func (m *Mapping) Aliases() Aliases {
	return m.aliases.normalized()
}

// Pairs returns the entries in mapping order, skip-set included.
func (m *Mapping) Pairs() []Pair {
	return append([]Pair(nil), m.pairs...)
}

// Has reports whether an already canonical name has a mapping entry.
// Unlike Category it does not resolve aliases again.
func (m *Mapping) Has(canonical string) bool {
	_, ok := m.index[canonical]
	return ok
}

// Category returns the category of a raw name after canonicalization.
func (m *Mapping) Category(name string) (string, bool) {
	i, ok := m.index[m.Canonical(name)]
	if !ok {
		return "", false
	}
	return m.pairs[i].Category, true
}

// Skipped reports whether name, raw or canonical, is in the skip-set.
func (m *Mapping) Skipped(name string) bool {
	if _, ok := m.skip[NormalizeName(name)]; ok {
		return true
	}
	_, ok := m.skip[m.Canonical(name)]
	return ok
}

// Len returns the number of distinct names.
func (m *Mapping) Len() int {
	return len(m.pairs)
}
