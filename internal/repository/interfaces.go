package repository

import (
	"context"

	"github.com/rpattn/panelql/internal/query"
)

// Row is one materialized result row keyed by column name.
type Row map[string]any

// ResourceRepository executes compiled scopes against the database. The
// query compiler never touches a connection itself; it only hands finalized
// scopes to this layer.
type ResourceRepository interface {
	// List materializes the rows the scope selects.
	List(ctx context.Context, scope *query.Scope) ([]Row, error)
	// Count returns the number of rows matching the scope's predicate,
	// ignoring its row window.
	Count(ctx context.Context, scope *query.Scope) (int64, error)
}
