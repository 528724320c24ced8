// Package query holds the parsed representation of a single SELECT
// statement: the Query record from spec §3, its ORDER BY fields, and the
// canonical Display form every parsed Query must round-trip through.
package query

import (
	"strings"

	"github.com/omniql-engine/queryengine/engine/ast"
	"github.com/omniql-engine/queryengine/engine/token"
)

// SortDirection is an ORDER BY field's direction.
type SortDirection int

const (
	Asc SortDirection = iota
	Desc
)

func (d SortDirection) String() string {
	if d == Desc {
		return "desc"
	}
	return "asc"
}

// OrderField is one ORDER BY entry: an expression and an optional
// explicit direction (nil means the default, Asc).
type OrderField struct {
	Expr      *ast.Expression
	Direction *SortDirection
}

func (f OrderField) String() string {
	s := f.Expr.String()
	if f.Direction != nil {
		s += " " + f.Direction.String()
	}
	return s
}

// Query is a fully parsed SELECT statement.
type Query struct {
	Select    []*ast.Expression
	From      string
	Condition *ast.Expression // nil when there is no WHERE clause
	Group     []*ast.Expression
	Order     []OrderField
}

// String renders q in the canonical form spec §6 defines: lowercase
// keywords, comma-joined clause lists, and clauses omitted when empty.
// Re-parsing this text must yield an equal Query.
func (q *Query) String() string {
	var b strings.Builder
	b.WriteString("select ")
	b.WriteString(joinExprs(q.Select))

	b.WriteString(" from ")
	b.WriteString(token.FormatIdentifier(q.From))

	if q.Condition != nil {
		b.WriteString(" where ")
		b.WriteString(q.Condition.String())
	}

	if len(q.Group) > 0 {
		b.WriteString(" group by ")
		b.WriteString(joinExprs(q.Group))
	}

	if len(q.Order) > 0 {
		b.WriteString(" order by ")
		parts := make([]string, len(q.Order))
		for i, f := range q.Order {
			parts[i] = f.String()
		}
		b.WriteString(strings.Join(parts, ", "))
	}

	return b.String()
}

// Equal compares two Queries field by field, using Expression.Equal for
// every expression-bearing field. Used by round-trip tests: format(Q)
// must reparse to a Query equal to Q.
func (q *Query) Equal(other *Query) bool {
	if q == nil || other == nil {
		return q == other
	}
	if q.From != other.From {
		return false
	}
	if !exprSlicesEqual(q.Select, other.Select) || !exprSlicesEqual(q.Group, other.Group) {
		return false
	}
	if (q.Condition == nil) != (other.Condition == nil) {
		return false
	}
	if q.Condition != nil && !q.Condition.Equal(other.Condition) {
		return false
	}
	if len(q.Order) != len(other.Order) {
		return false
	}
	for i := range q.Order {
		a, b := q.Order[i], other.Order[i]
		if !a.Expr.Equal(b.Expr) {
			return false
		}
		if (a.Direction == nil) != (b.Direction == nil) {
			return false
		}
		if a.Direction != nil && *a.Direction != *b.Direction {
			return false
		}
	}
	return true
}

func exprSlicesEqual(a, b []*ast.Expression) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Equal(b[i]) {
			return false
		}
	}
	return true
}

func joinExprs(exprs []*ast.Expression) string {
	parts := make([]string, len(exprs))
	for i, e := range exprs {
		parts[i] = e.String()
	}
	return strings.Join(parts, ", ")
}
