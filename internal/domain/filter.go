package domain

import (
	"sort"
	"strconv"
)

// FilterSpec is one structured filter entry parsed from request input.
type FilterSpec struct {
	Operator string `json:"o"`
	Value    string `json:"v"`
	Disabled bool   `json:"disabled"`
}

// FilterInput maps a field name to the filter entries requested for it,
// keyed by an opaque index. Each index represents an independently added
// filter row in the UI; entries for the same field are AND-ed together,
// never OR-ed.
type FilterInput map[string]map[string]FilterSpec

// FieldNames returns the filtered field names in deterministic order.
func (f FilterInput) FieldNames() []string {
	names := make([]string, 0, len(f))
	for name := range f {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// OrderedIndexes returns the entry indexes for one field in ascending index
// order. Numeric indexes compare numerically so "10" sorts after "2";
// anything else falls back to a lexicographic comparison.
func (f FilterInput) OrderedIndexes(field string) []string {
	entries := f[field]
	indexes := make([]string, 0, len(entries))
	for idx := range entries {
		indexes = append(indexes, idx)
	}
	sort.Slice(indexes, func(i, j int) bool {
		a, aErr := strconv.Atoi(indexes[i])
		b, bErr := strconv.Atoi(indexes[j])
		if aErr == nil && bErr == nil {
			return a < b
		}
		return indexes[i] < indexes[j]
	})
	return indexes
}
