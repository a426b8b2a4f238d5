package query

import (
	"fmt"

	"github.com/rpattn/panelql/internal/domain"
)

// genericUnaryOperators is the ordered set of operators that take no
// comparison value.
var genericUnaryOperators = []string{
	"_blank",
	"_present",
	"_null",
	"_not_null",
	"_empty",
	"_not_empty",
}

// UnaryOperators returns the ordered unary operator set valid for a logical
// type. Unrecognized types fall back to the generic set.
func UnaryOperators(t domain.FieldType) []string {
	return append([]string(nil), genericUnaryOperators...)
}

// IsUnaryOperator reports whether the operator requires no comparison value.
func IsUnaryOperator(operator string) bool {
	for _, op := range genericUnaryOperators {
		if op == operator {
			return true
		}
	}
	return false
}

// collapsesEmptyState reports whether the type has no meaningful
// empty-string state, so its blank/empty operators collapse onto plain null
// checks.
func collapsesEmptyState(t domain.FieldType) bool {
	switch t {
	case domain.FieldTypeBoolean, domain.FieldTypeUUID,
		domain.FieldTypeInteger, domain.FieldTypeDecimal, domain.FieldTypeFloat:
		return true
	default:
		return false
	}
}

// UnarySQL renders the predicate for a unary operator against a column.
// The boolean result is false when the operator is not unary.
func UnarySQL(t domain.FieldType, column, operator string) (string, bool) {
	collapsed := collapsesEmptyState(t)
	switch operator {
	case "_blank", "_empty":
		if collapsed {
			return fmt.Sprintf("%s IS NULL", column), true
		}
		return fmt.Sprintf("(%s IS NULL OR %s = '')", column, column), true
	case "_present", "_not_empty":
		if collapsed {
			return fmt.Sprintf("%s IS NOT NULL", column), true
		}
		return fmt.Sprintf("(%s IS NOT NULL AND %s != '')", column, column), true
	case "_null":
		return fmt.Sprintf("%s IS NULL", column), true
	case "_not_null":
		return fmt.Sprintf("%s IS NOT NULL", column), true
	default:
		return "", false
	}
}
