package domain

// Dialect tags the SQL-generation differences the query compiler must
// accommodate: case-insensitive text matching and null ordering. It is
// selected once per connection and passed explicitly into every builder
// call, never read from ambient state.
type Dialect string

const (
	DialectGeneric  Dialect = "generic"
	DialectPostgres Dialect = "postgres"
	DialectOther    Dialect = "other"
)

// CaseInsensitiveLike reports whether the dialect matches text
// case-insensitively at the operator level (ILIKE) instead of requiring
// explicit lowercasing.
func (d Dialect) CaseInsensitiveLike() bool {
	return d == DialectPostgres
}

// OrdersNullsLast reports whether sort clauses should carry an explicit
// NULLS LAST modifier so unset values sort after set ones in either
// direction.
func (d Dialect) OrdersNullsLast() bool {
	return d == DialectPostgres
}
