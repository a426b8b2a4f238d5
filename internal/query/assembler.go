package query

import (
	"fmt"
	"sort"
	"strings"

	"github.com/rpattn/panelql/internal/domain"
)

// Assembler orchestrates scope construction for one resource: row window,
// bulk-id restriction, free-text query, structured filters, pagination, and
// sort, in that fixed order. It holds no per-request state; every call
// builds a fresh scope.
type Assembler struct {
	resource domain.Resource
	dialect  domain.Dialect
}

// NewAssembler creates an assembler for a resource against one active
// dialect.
func NewAssembler(resource domain.Resource, dialect domain.Dialect) *Assembler {
	return &Assembler{resource: resource, dialect: dialect}
}

// Scope compiles the request parameters into an executable scope. Malformed
// filter values degrade to "no constraint"; unknown field names and
// unjoinable sort targets are configuration errors and fail the call.
func (a *Assembler) Scope(params domain.ListParams) (*Scope, error) {
	scope := NewScope(a.resource)

	if params.IncludeRefs {
		for _, table := range a.joinTables() {
			scope = scope.References(table)
		}
	}
	if params.Limit > 0 {
		scope = scope.Limit(params.Limit)
	}
	if len(params.BulkIDs) > 0 {
		scope = scope.RestrictToIDs(params.BulkIDs)
	}

	if q := strings.TrimSpace(params.Query); q != "" {
		scope = a.applyQuery(scope, q)
	}

	scope, err := a.applyFilters(scope, params.Filters)
	if err != nil {
		return nil, err
	}

	if params.Page > 0 && params.Per > 0 {
		scope = scope.Paginate(params.Page, params.Per)
	}

	return a.applySort(scope, params.Sort, params.SortReverse)
}

// CountScope compiles the same predicate with the row window forced off so
// counts cover all matching rows irrespective of pagination.
func (a *Assembler) CountScope(params domain.ListParams) (*Scope, error) {
	params.Limit = 0
	params.Page = 0
	params.Per = 0
	return a.Scope(params)
}

// applyQuery fans the free-text term out across all searchable fields,
// OR-joined, using each field's own default operator. Resources with a
// native search predicate delegate to it instead.
func (a *Assembler) applyQuery(scope *Scope, query string) *Scope {
	if a.resource.NativeSearchSQL != "" {
		return scope.Where(a.resource.NativeSearchSQL, query)
	}

	wb := NewWhereBuilder(a.dialect)
	for _, field := range a.resource.QueryableFields() {
		wb.Add(field, query, fieldOperator(field, ""))
	}
	return wb.Apply(scope)
}

// applyFilters ANDs one predicate per non-disabled filter entry onto the
// scope, in field-name then index order. Entries for the same field across
// different indexes are independent constraints: they AND, they do not OR.
func (a *Assembler) applyFilters(scope *Scope, filters domain.FilterInput) (*Scope, error) {
	for _, name := range filters.FieldNames() {
		field, err := a.resource.FieldNamed(name)
		if err != nil {
			return nil, fmt.Errorf("resolve filter field: %w", err)
		}
		if !field.Filterable {
			return nil, fmt.Errorf("field %q of resource %s is not filterable", name, a.resource.Name)
		}

		for _, idx := range filters.OrderedIndexes(name) {
			spec := filters[name][idx]
			if spec.Disabled {
				continue
			}

			wb := NewWhereBuilder(a.dialect)
			operator := fieldOperator(field, spec.Operator)
			if field.Searchable {
				wb.Add(field, spec.Value, operator)
			} else {
				wb.AddUnqualified(field, spec.Value, operator)
			}
			scope = wb.Apply(scope)
		}
	}
	return scope, nil
}

// applySort resolves the sort target onto the scope. Direction is descending
// unless reversed; postgres-like dialects order nulls last so unset values
// always trail.
func (a *Assembler) applySort(scope *Scope, target domain.SortTarget, reverse bool) (*Scope, error) {
	if target.IsZero() {
		return scope, nil
	}

	orderings := make([]Ordering, 0, len(target.Columns))
	for _, column := range target.Columns {
		expr := column
		if table, _, ok := strings.Cut(column, "."); ok {
			scope = scope.References(table)
		} else {
			expr = a.resource.Table + "." + column
		}
		orderings = append(orderings, Ordering{
			Expr:      expr,
			Desc:      !reverse,
			NullsLast: a.dialect.OrdersNullsLast(),
		})
	}

	return scope.Reorder(orderings), nil
}

func (a *Assembler) joinTables() []string {
	tables := make([]string, 0, len(a.resource.Joins))
	for table := range a.resource.Joins {
		tables = append(tables, table)
	}
	sort.Strings(tables)
	return tables
}

// fieldOperator picks the effective operator for a field: the request's, the
// field's default, or contains-matching as the last resort.
func fieldOperator(field domain.FieldDescriptor, requested string) string {
	if requested != "" {
		return requested
	}
	if field.DefaultOperator != "" {
		return field.DefaultOperator
	}
	return "default"
}
