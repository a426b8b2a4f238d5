package query

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/rpattn/panelql/internal/domain"
)

// Ordering is one resolved ORDER BY term.
type Ordering struct {
	Expr      string
	Desc      bool
	NullsLast bool
}

type condition struct {
	sql  string
	args []any
}

// Scope is the composable row-selection query the compiler hands to the
// execution layer. It accumulates predicates (always AND-combined),
// referenced tables, ordering, and row-window settings, and renders
// positional-placeholder SQL once finalized. All state is request-local.
type Scope struct {
	resource   domain.Resource
	conditions []condition
	refs       []string
	refSeen    map[string]bool
	limit      int
	page       int
	per        int
	orderings  []Ordering
}

// NewScope creates an unrestricted scope over the resource's table.
func NewScope(resource domain.Resource) *Scope {
	return &Scope{
		resource: resource,
		refSeen:  make(map[string]bool),
	}
}

// Where ANDs a predicate onto the scope. The predicate uses `?`
// placeholders, one per arg.
func (s *Scope) Where(sql string, args ...any) *Scope {
	s.conditions = append(s.conditions, condition{sql: sql, args: args})
	return s
}

// References marks a table as required by the query. Each table is joined
// exactly once no matter how many predicates touch it; the resource's own
// table needs no join.
func (s *Scope) References(table string) *Scope {
	if table == "" || table == s.resource.Table || s.refSeen[table] {
		return s
	}
	s.refSeen[table] = true
	s.refs = append(s.refs, table)
	return s
}

// Limit caps the number of rows selected.
func (s *Scope) Limit(n int) *Scope {
	s.limit = n
	return s
}

// Paginate selects one page of results. Pagination takes precedence over a
// plain limit when both are set.
func (s *Scope) Paginate(page, per int) *Scope {
	s.page = page
	s.per = per
	return s
}

// Reorder replaces the scope's ordering.
func (s *Scope) Reorder(orderings []Ordering) *Scope {
	s.orderings = orderings
	return s
}

// RestrictToIDs narrows the scope to an explicit set of primary keys.
func (s *Scope) RestrictToIDs(ids []string) *Scope {
	if len(ids) == 0 {
		return s
	}
	return s.Where(fmt.Sprintf("%s = ANY(?)", s.resource.PrimaryKeyColumn()), ids)
}

// SelectSQL renders the row-selection query with pgx positional
// placeholders and the bound values in placeholder order.
func (s *Scope) SelectSQL() (string, []any, error) {
	var sb strings.Builder
	sb.WriteString("SELECT ")
	sb.WriteString(s.resource.Table)
	sb.WriteString(".*")

	args, err := s.writeFromWhere(&sb)
	if err != nil {
		return "", nil, err
	}

	if len(s.orderings) > 0 {
		sb.WriteString(" ORDER BY ")
		terms := make([]string, 0, len(s.orderings))
		for _, o := range s.orderings {
			term := o.Expr
			if o.Desc {
				term += " DESC"
			} else {
				term += " ASC"
			}
			if o.NullsLast {
				term += " NULLS LAST"
			}
			terms = append(terms, term)
		}
		sb.WriteString(strings.Join(terms, ", "))
	}

	next := len(args) + 1
	switch {
	case s.page > 0 && s.per > 0:
		sb.WriteString(fmt.Sprintf(" LIMIT $%d OFFSET $%d", next, next+1))
		args = append(args, s.per, (s.page-1)*s.per)
	case s.limit > 0:
		sb.WriteString(fmt.Sprintf(" LIMIT $%d", next))
		args = append(args, s.limit)
	}

	return sb.String(), args, nil
}

// CountSQL renders the matching-row count query. Limit and pagination are
// forced off so the count covers every matching row.
func (s *Scope) CountSQL() (string, []any, error) {
	var sb strings.Builder
	sb.WriteString("SELECT COUNT(*)")

	args, err := s.writeFromWhere(&sb)
	if err != nil {
		return "", nil, err
	}

	return sb.String(), args, nil
}

func (s *Scope) writeFromWhere(sb *strings.Builder) ([]any, error) {
	sb.WriteString(" FROM ")
	sb.WriteString(s.resource.Table)

	for _, table := range s.refs {
		join, ok := s.resource.Joins[table]
		if !ok {
			return nil, fmt.Errorf("resource %s references table %q without a join clause", s.resource.Name, table)
		}
		sb.WriteString(" ")
		sb.WriteString(join)
	}

	var args []any
	if len(s.conditions) > 0 {
		sb.WriteString(" WHERE ")
		next := 1
		for i, cond := range s.conditions {
			if i > 0 {
				sb.WriteString(" AND ")
			}
			var rebased string
			rebased, next = rebasePlaceholders(cond.sql, next)
			sb.WriteString(rebased)
			args = append(args, cond.args...)
		}
	}

	return args, nil
}

// rebasePlaceholders rewrites `?` placeholders to `$n` positional ones,
// numbering from start. Templates never contain literal question marks
// outside placeholders since all values are bound.
func rebasePlaceholders(sql string, start int) (string, int) {
	var sb strings.Builder
	n := start
	for _, r := range sql {
		if r == '?' {
			sb.WriteString("$")
			sb.WriteString(strconv.Itoa(n))
			n++
			continue
		}
		sb.WriteRune(r)
	}
	return sb.String(), n
}
