package export

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/rpattn/panelql/internal/domain"
	"github.com/rpattn/panelql/internal/query"
	"github.com/rpattn/panelql/internal/repository"
)

type stubRepository struct {
	rows    []repository.Row
	lastSQL string
}

func (s *stubRepository) List(_ context.Context, scope *query.Scope) ([]repository.Row, error) {
	sql, _, err := scope.SelectSQL()
	if err != nil {
		return nil, err
	}
	s.lastSQL = sql
	return s.rows, nil
}

func (s *stubRepository) Count(context.Context, *query.Scope) (int64, error) {
	return int64(len(s.rows)), nil
}

func exportResource() domain.Resource {
	return domain.Resource{
		Name:       "users",
		Table:      "users",
		PrimaryKey: "id",
		Fields: []domain.FieldDescriptor{
			{Name: "name", Type: domain.FieldTypeString, Column: "users.name", Filterable: true, Searchable: true, DefaultOperator: "default"},
			{Name: "age", Type: domain.FieldTypeInteger, Column: "users.age", Filterable: true},
		},
	}
}

func TestExport_WritesCSVInFieldOrder(t *testing.T) {
	repo := &stubRepository{rows: []repository.Row{
		{"id": int64(1), "name": "Ann", "age": int64(34)},
		{"id": int64(2), "name": "Ben", "age": nil},
	}}
	service := NewService(repo, domain.DialectPostgres)

	var buf bytes.Buffer
	err := service.Export(context.Background(), exportResource(), domain.ListParams{}, FormatCSV, &buf)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header plus two rows, got %d lines", len(lines))
	}
	if lines[0] != "id,name,age" {
		t.Fatalf("unexpected header: %q", lines[0])
	}
	if lines[1] != "1,Ann,34" {
		t.Fatalf("unexpected first row: %q", lines[1])
	}
	if lines[2] != "2,Ben," {
		t.Fatalf("unexpected second row: %q", lines[2])
	}
}

func TestExport_ForcesRowWindowOff(t *testing.T) {
	repo := &stubRepository{}
	service := NewService(repo, domain.DialectPostgres)

	var buf bytes.Buffer
	params := domain.ListParams{Page: 2, Per: 10, Limit: 5}
	if err := service.Export(context.Background(), exportResource(), params, FormatCSV, &buf); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if strings.Contains(repo.lastSQL, "LIMIT") || strings.Contains(repo.lastSQL, "OFFSET") {
		t.Fatalf("export should cover every matching row, got %q", repo.lastSQL)
	}
}

func TestParseFormat(t *testing.T) {
	cases := map[string]Format{
		"":      FormatCSV,
		"csv":   FormatCSV,
		"xlsx":  FormatXLSX,
		"Excel": FormatXLSX,
	}
	for raw, expected := range cases {
		format, err := ParseFormat(raw)
		if err != nil {
			t.Fatalf("unexpected error for %q: %v", raw, err)
		}
		if format != expected {
			t.Fatalf("expected %q for %q, got %q", expected, raw, format)
		}
	}

	if _, err := ParseFormat("pdf"); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}
