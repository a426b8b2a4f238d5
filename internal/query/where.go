package query

import (
	"strings"

	"github.com/rpattn/panelql/internal/domain"
)

// WhereBuilder accumulates statements built against one or more columns,
// OR-joins them into a single predicate, and applies that predicate to a
// scope via conjunction with whatever the scope already carries. It also
// records which foreign tables the fragments touched so the scope can
// reference each exactly once.
type WhereBuilder struct {
	dialect    domain.Dialect
	statements []*Statement
	tables     []string
	seen       map[string]bool
}

// NewWhereBuilder creates an empty builder for one predicate.
func NewWhereBuilder(dialect domain.Dialect) *WhereBuilder {
	return &WhereBuilder{
		dialect: dialect,
		seen:    make(map[string]bool),
	}
}

// Add builds one statement per search column of the field and keeps the
// non-empty ones.
func (b *WhereBuilder) Add(field domain.FieldDescriptor, value, operator string) {
	for _, target := range field.SearchTargets() {
		b.add(target.Column, target.Type, value, operator)
	}
}

// AddUnqualified builds against the field's own column only, bypassing the
// search-column fan-out. Used for fields that are filterable but not part of
// free-text search.
func (b *WhereBuilder) AddUnqualified(field domain.FieldDescriptor, value, operator string) {
	if field.Column == "" {
		return
	}
	b.add(field.Column, field.Type, value, operator)
}

func (b *WhereBuilder) add(column string, t domain.FieldType, value, operator string) {
	stmt := BuildStatement(column, t, value, operator, b.dialect)
	if stmt == nil {
		return
	}
	b.statements = append(b.statements, stmt)

	if table, _, ok := strings.Cut(column, "."); ok && !b.seen[table] {
		b.seen[table] = true
		b.tables = append(b.tables, table)
	}
}

// Empty reports whether no statement survived.
func (b *WhereBuilder) Empty() bool {
	return len(b.statements) == 0
}

// Apply ANDs the accumulated disjunction onto the scope. With zero
// accumulated statements the scope is returned unchanged.
func (b *WhereBuilder) Apply(scope *Scope) *Scope {
	if len(b.statements) == 0 {
		return scope
	}

	parts := make([]string, 0, len(b.statements))
	var args []any
	for _, stmt := range b.statements {
		parts = append(parts, stmt.SQL)
		args = append(args, stmt.Args...)
	}

	scope = scope.Where("("+strings.Join(parts, " OR ")+")", args...)
	for _, table := range b.tables {
		scope = scope.References(table)
	}
	return scope
}
