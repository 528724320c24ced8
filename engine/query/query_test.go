package query_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/omniql-engine/queryengine/engine/ast"
	"github.com/omniql-engine/queryengine/engine/query"
)

func desc() *query.SortDirection {
	d := query.Desc
	return &d
}

func TestQueryStringBareSelect(t *testing.T) {
	q := &query.Query{
		Select: []*ast.Expression{ast.NewColumn("a"), ast.NewColumn("b")},
		From:   "foo",
	}
	assert.Equal(t, "select a, b from foo", q.String())
}

func TestQueryStringAllClauses(t *testing.T) {
	a := ast.NewColumn("a")
	q := &query.Query{
		Select:    []*ast.Expression{ast.NewAggregateCall(ast.Sum, a)},
		From:      "bar",
		Condition: ast.NewBinary(a, ast.Eq, ast.NewColumn("b")),
		Group:     []*ast.Expression{a},
		Order: []query.OrderField{
			{Expr: ast.NewAggregateCall(ast.Sum, a), Direction: desc()},
		},
	}
	assert.Equal(t,
		"select sum(a) from bar where a = b group by a order by sum(a) desc",
		q.String())
}

func TestQueryStringQuotesFromWhenNeeded(t *testing.T) {
	q := &query.Query{
		Select: []*ast.Expression{ast.NewColumn("a")},
		From:   "a table",
	}
	assert.Equal(t, `select a from "a table"`, q.String())
}

func TestQueryEqualDistinguishesNilFromExplicitAsc(t *testing.T) {
	a := ast.NewColumn("a")
	asc := query.Asc
	left := &query.Query{Select: []*ast.Expression{a}, From: "foo", Order: []query.OrderField{{Expr: a, Direction: nil}}}
	right := &query.Query{Select: []*ast.Expression{a}, From: "foo", Order: []query.OrderField{{Expr: a, Direction: &asc}}}

	// Direction nil and explicit Asc are distinct field states even though
	// they mean the same thing operationally; Equal compares state, not
	// meaning, so round-trip tests must compare against a reparsed Query
	// rather than a hand-built one with a differing nil-ness.
	assert.False(t, left.Equal(right))
}

func TestQueryEqualStructural(t *testing.T) {
	a, b := ast.NewColumn("a"), ast.NewColumn("b")
	left := &query.Query{
		Select:    []*ast.Expression{a, b},
		From:      "foo",
		Condition: ast.NewBinary(a, ast.Eq, b),
		Group:     []*ast.Expression{a},
	}
	right := &query.Query{
		Select:    []*ast.Expression{ast.NewColumn("a"), ast.NewColumn("b")},
		From:      "foo",
		Condition: ast.NewBinary(ast.NewColumn("a"), ast.Eq, ast.NewColumn("b")),
		Group:     []*ast.Expression{ast.NewColumn("a")},
	}
	assert.True(t, left.Equal(right))

	right.From = "bar"
	assert.False(t, left.Equal(right))
}

func TestOrderFieldStringOmitsImplicitAsc(t *testing.T) {
	f := query.OrderField{Expr: ast.NewColumn("a")}
	assert.Equal(t, "a", f.String())

	d := query.Desc
	f.Direction = &d
	assert.Equal(t, "a desc", f.String())
}
