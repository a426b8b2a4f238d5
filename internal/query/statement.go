package query

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/rpattn/panelql/internal/domain"
)

// Statement is one parameterized boolean SQL fragment plus its bound values.
// The template carries `?` placeholders, one per bound value; column names
// come from field descriptors only, never from request input.
type Statement struct {
	SQL  string
	Args []any
}

// rangeSeparator splits a numeric raw value into its min and max halves.
const rangeSeparator = ".."

var canonicalUUID = regexp.MustCompile(`^[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}$`)

// BuildStatement compiles one (column, type, value, operator, dialect) tuple
// into a fragment. A nil result means the term contributes nothing: blank,
// invalid, or ambiguous input degrades to "no constraint" instead of failing
// the request.
func BuildStatement(column string, t domain.FieldType, value, operator string, dialect domain.Dialect) *Statement {
	if sql, ok := UnarySQL(t, column, operator); ok {
		return &Statement{SQL: sql}
	}

	switch {
	case t == domain.FieldTypeBoolean:
		return buildBooleanStatement(column, value)
	case t.Numeric():
		return buildNumericStatement(column, t, value)
	case t.Textual():
		return buildTextStatement(column, value, operator, dialect)
	case t == domain.FieldTypeEnum:
		return buildEnumStatement(column, value)
	case t == domain.FieldTypeBelongsTo:
		return buildBelongsToStatement(column, value)
	case t == domain.FieldTypeUUID:
		return buildUUIDStatement(column, value)
	default:
		return nil
	}
}

func buildBooleanStatement(column, value string) *Statement {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "false", "f", "0":
		// Unset booleans count as false for filtering purposes.
		return &Statement{
			SQL:  fmt.Sprintf("(%s IS NULL OR %s = ?)", column, column),
			Args: []any{false},
		}
	case "true", "t", "1":
		return &Statement{
			SQL:  fmt.Sprintf("%s = ?", column),
			Args: []any{true},
		}
	default:
		return nil
	}
}

// buildNumericStatement interprets the raw value as a min..max range. A bare
// number is not a range and yields no fragment.
func buildNumericStatement(column string, t domain.FieldType, value string) *Statement {
	raw := strings.TrimSpace(value)
	if !strings.Contains(raw, rangeSeparator) {
		return nil
	}

	minRaw, maxRaw, _ := strings.Cut(raw, rangeSeparator)
	minRaw = strings.TrimSpace(minRaw)
	maxRaw = strings.TrimSpace(maxRaw)

	var minVal, maxVal any
	if minRaw != "" {
		v, ok := parseNumber(t, minRaw)
		if !ok {
			return nil
		}
		minVal = v
	}
	if maxRaw != "" {
		v, ok := parseNumber(t, maxRaw)
		if !ok {
			return nil
		}
		maxVal = v
	}

	switch {
	case minVal != nil && maxVal != nil && minRaw == maxRaw:
		return &Statement{SQL: fmt.Sprintf("%s = ?", column), Args: []any{minVal}}
	case minVal != nil && maxVal != nil:
		return &Statement{SQL: fmt.Sprintf("%s BETWEEN ? AND ?", column), Args: []any{minVal, maxVal}}
	case minVal != nil:
		return &Statement{SQL: fmt.Sprintf("%s >= ?", column), Args: []any{minVal}}
	case maxVal != nil:
		return &Statement{SQL: fmt.Sprintf("%s <= ?", column), Args: []any{maxVal}}
	default:
		return nil
	}
}

func parseNumber(t domain.FieldType, raw string) (any, bool) {
	if t == domain.FieldTypeInteger {
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, false
		}
		return n, true
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, false
	}
	return f, true
}

func buildTextStatement(column, value, operator string, dialect domain.Dialect) *Statement {
	if value == "" {
		return nil
	}

	// Exact match never case-folds.
	if operator == "is" || operator == "=" {
		return &Statement{SQL: fmt.Sprintf("%s = ?", column), Args: []any{value}}
	}

	term := value
	if !dialect.CaseInsensitiveLike() {
		term = strings.ToLower(value)
	}

	var pattern string
	negated := false
	switch operator {
	case "default", "like":
		pattern = "%" + term + "%"
	case "not_like":
		pattern = "%" + term + "%"
		negated = true
	case "starts_with":
		pattern = term + "%"
	case "ends_with":
		pattern = "%" + term
	default:
		return nil
	}

	if dialect.CaseInsensitiveLike() {
		match := "ILIKE"
		if negated {
			match = "NOT ILIKE"
		}
		return &Statement{SQL: fmt.Sprintf("%s %s ?", column, match), Args: []any{pattern}}
	}

	match := "LIKE"
	if negated {
		match = "NOT LIKE"
	}
	return &Statement{SQL: fmt.Sprintf("LOWER(%s) %s ?", column, match), Args: []any{pattern}}
}

// buildEnumStatement treats the value as a comma-separated set to support
// multi-select filters.
func buildEnumStatement(column, value string) *Statement {
	if strings.TrimSpace(value) == "" {
		return nil
	}

	var members []string
	for _, member := range strings.Split(value, ",") {
		member = strings.TrimSpace(member)
		if member != "" {
			members = append(members, member)
		}
	}
	if len(members) == 0 {
		return nil
	}

	return &Statement{SQL: fmt.Sprintf("%s = ANY(?)", column), Args: []any{members}}
}

// buildBelongsToStatement only accepts values that round-trip as a
// non-negative integer string, guarding foreign-key comparisons against
// non-numeric input.
func buildBelongsToStatement(column, value string) *Statement {
	raw := strings.TrimSpace(value)
	if raw == "" {
		return nil
	}

	n, err := strconv.ParseUint(raw, 10, 63)
	if err != nil || strconv.FormatUint(n, 10) != raw {
		return nil
	}

	return &Statement{SQL: fmt.Sprintf("%s = ?", column), Args: []any{int64(n)}}
}

// buildUUIDStatement requires the canonical hyphenated form before binding.
func buildUUIDStatement(column, value string) *Statement {
	raw := strings.TrimSpace(value)
	if !canonicalUUID.MatchString(raw) {
		return nil
	}

	id, err := uuid.Parse(raw)
	if err != nil {
		return nil
	}

	return &Statement{SQL: fmt.Sprintf("%s = ?", column), Args: []any{id}}
}
