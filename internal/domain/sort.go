package domain

import (
	"fmt"
	"sort"
)

// SortDirection represents ordering direction for sortable columns.
type SortDirection string

const (
	SortDirectionAsc  SortDirection = "asc"
	SortDirectionDesc SortDirection = "desc"
)

// SortTargetKind discriminates the supported sort target shapes.
type SortTargetKind int

const (
	// SortSingle orders by one column.
	SortSingle SortTargetKind = iota
	// SortMultiple orders by an ordered sequence of columns, all sharing
	// one direction.
	SortMultiple
	// SortQualified orders by table-qualified columns for multi-table
	// sorts.
	SortQualified
)

// SortTarget is the sort specification resolved once at the scope assembler
// boundary. The zero value means "no sort requested".
type SortTarget struct {
	Kind    SortTargetKind
	Columns []string
}

// IsZero reports whether no sort target was supplied.
func (s SortTarget) IsZero() bool {
	return len(s.Columns) == 0
}

// NewSortTarget resolves the loosely shaped sort value accepted from callers
// into a tagged target. Supported shapes: a column name, a sequence of
// column names, or a table-to-column mapping. Anything else is a caller
// configuration error.
func NewSortTarget(value any) (SortTarget, error) {
	switch v := value.(type) {
	case nil:
		return SortTarget{}, nil
	case string:
		if v == "" {
			return SortTarget{}, nil
		}
		return SortTarget{Kind: SortSingle, Columns: []string{v}}, nil
	case []string:
		if len(v) == 0 {
			return SortTarget{}, nil
		}
		cols := append([]string(nil), v...)
		return SortTarget{Kind: SortMultiple, Columns: cols}, nil
	case []any:
		cols := make([]string, 0, len(v))
		for _, item := range v {
			col, ok := item.(string)
			if !ok {
				return SortTarget{}, fmt.Errorf("unsupported sort column %#v", item)
			}
			cols = append(cols, col)
		}
		return NewSortTarget(cols)
	case map[string]any:
		pairs := make(map[string]string, len(v))
		for table, item := range v {
			column, ok := item.(string)
			if !ok {
				return SortTarget{}, fmt.Errorf("unsupported sort column %#v for table %s", item, table)
			}
			pairs[table] = column
		}
		return NewSortTarget(pairs)
	case map[string]string:
		if len(v) == 0 {
			return SortTarget{}, nil
		}
		tables := make([]string, 0, len(v))
		for table := range v {
			tables = append(tables, table)
		}
		sort.Strings(tables)
		cols := make([]string, 0, len(tables))
		for _, table := range tables {
			cols = append(cols, table+"."+v[table])
		}
		return SortTarget{Kind: SortQualified, Columns: cols}, nil
	default:
		return SortTarget{}, fmt.Errorf("unsupported sort value %#v", value)
	}
}
