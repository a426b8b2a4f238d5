package domain

import "fmt"

// Resource describes one administratively exposed entity: its table, primary
// key, the descriptors of its fields, and how referenced tables join in.
type Resource struct {
	Name       string
	Table      string
	PrimaryKey string
	Fields     []FieldDescriptor
	// Joins maps a referenced table name to the JOIN clause that brings it
	// into a query, e.g. "LEFT JOIN teams ON teams.id = users.team_id".
	Joins map[string]string
	// NativeSearchSQL, when set, replaces the generated free-text predicate
	// with a resource-provided one. It must contain exactly one placeholder
	// for the query term.
	NativeSearchSQL string
}

// PrimaryKeyColumn returns the qualified primary key column.
func (r Resource) PrimaryKeyColumn() string {
	pk := r.PrimaryKey
	if pk == "" {
		pk = "id"
	}
	return r.Table + "." + pk
}

// FieldNamed resolves a field descriptor by name. Referencing a field that
// was never exposed is a caller configuration mistake, not request input to
// tolerate, so it surfaces as an error.
func (r Resource) FieldNamed(name string) (FieldDescriptor, error) {
	for _, field := range r.Fields {
		if field.Name == name {
			return field, nil
		}
	}
	return FieldDescriptor{}, fmt.Errorf("resource %s has no field %q", r.Name, name)
}

// QueryableFields returns the fields free-text search fans out over, in
// declaration order.
func (r Resource) QueryableFields() []FieldDescriptor {
	var fields []FieldDescriptor
	for _, field := range r.Fields {
		if field.Searchable {
			fields = append(fields, field)
		}
	}
	return fields
}
