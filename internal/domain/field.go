package domain

// FieldType represents the logical type of a filterable field. It decides
// which comparison semantics a search or filter against the field may use,
// independent of the physical column storage type.
type FieldType string

const (
	FieldTypeBoolean   FieldType = "boolean"
	FieldTypeInteger   FieldType = "integer"
	FieldTypeDecimal   FieldType = "decimal"
	FieldTypeFloat     FieldType = "float"
	FieldTypeString    FieldType = "string"
	FieldTypeText      FieldType = "text"
	FieldTypeCitext    FieldType = "citext"
	FieldTypeEnum      FieldType = "enum"
	FieldTypeUUID      FieldType = "uuid"
	FieldTypeBelongsTo FieldType = "belongs_to"
	FieldTypeOther     FieldType = "other"
)

// Numeric reports whether values of the type are compared as numbers.
func (t FieldType) Numeric() bool {
	switch t {
	case FieldTypeInteger, FieldTypeDecimal, FieldTypeFloat:
		return true
	default:
		return false
	}
}

// Textual reports whether values of the type support LIKE-style matching.
func (t FieldType) Textual() bool {
	switch t {
	case FieldTypeString, FieldTypeText, FieldTypeCitext:
		return true
	default:
		return false
	}
}

// SearchColumn is one physical column a field resolves to, together with the
// logical type the comparison against that column must use. One field may
// span multiple columns (composite or delegated attributes).
type SearchColumn struct {
	Column string
	Type   FieldType
}

// FieldDescriptor describes one administratively exposed attribute of a
// resource. It is supplied by the field/schema provider and read-only to the
// query compiler.
type FieldDescriptor struct {
	Name            string
	Type            FieldType
	Column          string
	SearchColumns   []SearchColumn
	Filterable      bool
	Searchable      bool
	DefaultOperator string
}

// SearchTargets returns the columns free-text search fans out over. Fields
// that never declared explicit search columns fall back to their own column.
func (f FieldDescriptor) SearchTargets() []SearchColumn {
	if len(f.SearchColumns) > 0 {
		return f.SearchColumns
	}
	if f.Column == "" {
		return nil
	}
	return []SearchColumn{{Column: f.Column, Type: f.Type}}
}
