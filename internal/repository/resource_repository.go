package repository

import (
	"context"
	"fmt"

	"github.com/rpattn/panelql/internal/db"
	"github.com/rpattn/panelql/internal/query"
)

// resourceRepository implements ResourceRepository over pgx.
type resourceRepository struct {
	db db.DBTX
}

// NewResourceRepository creates a repository executing scopes on the given
// connection.
func NewResourceRepository(exec db.DBTX) ResourceRepository {
	return &resourceRepository{db: exec}
}

func (r *resourceRepository) List(ctx context.Context, scope *query.Scope) ([]Row, error) {
	sql, args, err := scope.SelectSQL()
	if err != nil {
		return nil, fmt.Errorf("render select: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("execute list query: %w", err)
	}
	defer rows.Close()

	fields := rows.FieldDescriptions()
	var result []Row
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, fmt.Errorf("scan list row: %w", err)
		}
		row := make(Row, len(fields))
		for i, field := range fields {
			row[field.Name] = values[i]
		}
		result = append(result, row)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate list rows: %w", err)
	}

	return result, nil
}

func (r *resourceRepository) Count(ctx context.Context, scope *query.Scope) (int64, error) {
	sql, args, err := scope.CountSQL()
	if err != nil {
		return 0, fmt.Errorf("render count: %w", err)
	}

	var total int64
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("count matching rows: %w", err)
	}

	return total, nil
}
