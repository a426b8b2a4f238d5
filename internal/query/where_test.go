package query

import (
	"reflect"
	"strings"
	"testing"

	"github.com/rpattn/panelql/internal/domain"
)

func testUsersResource() domain.Resource {
	return domain.Resource{
		Name:       "users",
		Table:      "users",
		PrimaryKey: "id",
		Joins: map[string]string{
			"teams": "LEFT JOIN teams ON teams.id = users.team_id",
		},
		Fields: []domain.FieldDescriptor{
			{
				Name:            "name",
				Type:            domain.FieldTypeString,
				Column:          "users.name",
				Filterable:      true,
				Searchable:      true,
				DefaultOperator: "default",
			},
			{
				Name:            "email",
				Type:            domain.FieldTypeString,
				Column:          "users.email",
				Filterable:      true,
				Searchable:      true,
				DefaultOperator: "default",
			},
			{
				Name:       "age",
				Type:       domain.FieldTypeInteger,
				Column:     "users.age",
				Filterable: true,
			},
			{
				Name:       "active",
				Type:       domain.FieldTypeBoolean,
				Column:     "users.active",
				Filterable: true,
			},
			{
				Name:       "team",
				Type:       domain.FieldTypeBelongsTo,
				Column:     "users.team_id",
				Filterable: true,
				Searchable: true,
				SearchColumns: []domain.SearchColumn{
					{Column: "teams.name", Type: domain.FieldTypeString},
				},
				DefaultOperator: "default",
			},
		},
	}
}

func fieldNamed(t *testing.T, resource domain.Resource, name string) domain.FieldDescriptor {
	t.Helper()
	field, err := resource.FieldNamed(name)
	if err != nil {
		t.Fatalf("unexpected error resolving field %q: %v", name, err)
	}
	return field
}

func TestWhereBuilder_EmptyApplyLeavesScopeUnchanged(t *testing.T) {
	resource := testUsersResource()
	scope := NewScope(resource)

	wb := NewWhereBuilder(domain.DialectGeneric)
	result := wb.Apply(scope)

	if result != scope {
		t.Fatal("expected the same scope back")
	}
	sql, args, err := result.SelectSQL()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sql != "SELECT users.* FROM users" {
		t.Fatalf("unexpected SQL: %q", sql)
	}
	if len(args) != 0 {
		t.Fatalf("expected no args, got %#v", args)
	}
}

func TestWhereBuilder_InvalidValuesAccumulateNothing(t *testing.T) {
	resource := testUsersResource()

	wb := NewWhereBuilder(domain.DialectGeneric)
	wb.Add(fieldNamed(t, resource, "age"), "not-a-range", "between")
	wb.Add(fieldNamed(t, resource, "active"), "maybe", "default")

	if !wb.Empty() {
		t.Fatal("expected builder to stay empty")
	}
}

func TestWhereBuilder_FansOutAcrossSearchColumnsWithOR(t *testing.T) {
	resource := testUsersResource()
	scope := NewScope(resource)

	// The team field searches the joined label column, not the foreign key.
	wb := NewWhereBuilder(domain.DialectGeneric)
	wb.Add(fieldNamed(t, resource, "team"), "Core", "default")

	sql, args, err := wb.Apply(scope).SelectSQL()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(sql, "WHERE (LOWER(teams.name) LIKE $1)") {
		t.Fatalf("unexpected SQL: %q", sql)
	}
	if !strings.Contains(sql, "LEFT JOIN teams ON teams.id = users.team_id") {
		t.Fatalf("expected teams join in SQL: %q", sql)
	}
	if !reflect.DeepEqual(args, []any{"%core%"}) {
		t.Fatalf("unexpected args: %#v", args)
	}
}

func TestWhereBuilder_AddUnqualifiedSkipsFanOut(t *testing.T) {
	resource := testUsersResource()
	scope := NewScope(resource)

	wb := NewWhereBuilder(domain.DialectGeneric)
	wb.AddUnqualified(fieldNamed(t, resource, "team"), "17", "default")

	sql, args, err := wb.Apply(scope).SelectSQL()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(sql, "WHERE (users.team_id = $1)") {
		t.Fatalf("unexpected SQL: %q", sql)
	}
	if strings.Contains(sql, "JOIN teams") {
		t.Fatalf("unqualified add should not reference teams: %q", sql)
	}
	if !reflect.DeepEqual(args, []any{int64(17)}) {
		t.Fatalf("unexpected args: %#v", args)
	}
}

func TestWhereBuilder_ORJoinsFragmentsAndConcatenatesArgs(t *testing.T) {
	resource := testUsersResource()
	scope := NewScope(resource)

	wb := NewWhereBuilder(domain.DialectGeneric)
	wb.Add(fieldNamed(t, resource, "name"), "ann", "default")
	wb.Add(fieldNamed(t, resource, "email"), "ann", "default")

	sql, args, err := wb.Apply(scope).SelectSQL()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	expected := "WHERE (LOWER(users.name) LIKE $1 OR LOWER(users.email) LIKE $2)"
	if !strings.Contains(sql, expected) {
		t.Fatalf("expected %q in %q", expected, sql)
	}
	if !reflect.DeepEqual(args, []any{"%ann%", "%ann%"}) {
		t.Fatalf("unexpected args: %#v", args)
	}
}

func TestWhereBuilder_ReferencesEachTableOnce(t *testing.T) {
	resource := testUsersResource()
	scope := NewScope(resource)

	wb := NewWhereBuilder(domain.DialectGeneric)
	wb.Add(fieldNamed(t, resource, "team"), "core", "default")
	wb.Add(fieldNamed(t, resource, "team"), "platform", "default")

	sql, _, err := wb.Apply(scope).SelectSQL()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Count(sql, "JOIN teams") != 1 {
		t.Fatalf("expected exactly one teams join, got %q", sql)
	}
}
