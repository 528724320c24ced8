package executor_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/omniql-engine/queryengine/engine/ast"
	"github.com/omniql-engine/queryengine/engine/executor"
	"github.com/omniql-engine/queryengine/engine/parser"
	"github.com/omniql-engine/queryengine/engine/query"
	"github.com/omniql-engine/queryengine/engine/row"
	"github.com/omniql-engine/queryengine/engine/value"
)

// memSource is an in-memory Source over a fixed slice of Rows, used to
// drive the executor without a file or network dependency.
type memSource struct {
	rows []*row.Row
	pos  int
}

func (s *memSource) Next() (*row.Row, error, bool) {
	if s.pos >= len(s.rows) {
		return nil, nil, true
	}
	r := s.rows[s.pos]
	s.pos++
	return r, nil, false
}

func fixtureRows(columns []string, values [][]value.Value) []*row.Row {
	rows := make([]*row.Row, 0, len(values))
	for _, rowValues := range values {
		r := row.New()
		for i, v := range rowValues {
			r.Insert(ast.NewColumn(columns[i]), v)
		}
		rows = append(rows, r)
	}
	return rows
}

func mustParse(t *testing.T, q string) *query.Query {
	t.Helper()
	parsed, err := parser.Parse(q)
	require.NoError(t, err, q)
	return parsed
}

func TestExecuteSumNoGrouping(t *testing.T) {
	src := &memSource{rows: fixtureRows([]string{"a", "b"}, [][]value.Value{
		{value.NewInt(1), value.NewInt(2)},
		{value.NewInt(3), value.NewInt(4)},
		{value.NewInt(5), value.NewInt(6)},
	})}

	ans, err := executor.Execute(mustParse(t, "select sum(a), sum(b) from bar"), src, nil)
	require.NoError(t, err)

	assert.Equal(t, []string{"sum(a)", "sum(b)"}, ans.Columns)
	assert.Equal(t, [][]value.Value{
		{value.NewInt(9), value.NewInt(12)},
	}, ans.Rows)
}

func TestExecuteWhereFiltersBeforeAggregate(t *testing.T) {
	// primary only admits Identifier (spec §4.4), so the WHERE condition
	// compares two columns rather than a column against a literal.
	src := &memSource{rows: fixtureRows([]string{"a", "b", "target"}, [][]value.Value{
		{value.NewInt(1), value.NewInt(2), value.NewInt(1)},
		{value.NewInt(1), value.NewInt(4), value.NewInt(1)},
		{value.NewInt(2), value.NewInt(6), value.NewInt(1)},
	})}

	ans, err := executor.Execute(mustParse(t, "select sum(b) from bar where a = target"), src, nil)
	require.NoError(t, err)

	assert.Equal(t, []string{"sum(b)"}, ans.Columns)
	assert.Equal(t, [][]value.Value{{value.NewInt(6)}}, ans.Rows)
}

func TestExecuteGroupByWithAggregateAndOrder(t *testing.T) {
	src := &memSource{rows: fixtureRows([]string{"grp", "n"}, [][]value.Value{
		{value.NewString("x"), value.NewInt(1)},
		{value.NewString("y"), value.NewInt(10)},
		{value.NewString("x"), value.NewInt(2)},
		{value.NewString("y"), value.NewInt(20)},
	})}

	ans, err := executor.Execute(
		mustParse(t, "select grp, sum(n) from bar group by grp order by sum(n)"), src, nil)
	require.NoError(t, err)

	assert.Equal(t, []string{"grp", "sum(n)"}, ans.Columns)
	assert.Equal(t, [][]value.Value{
		{value.NewString("x"), value.NewInt(3)},
		{value.NewString("y"), value.NewInt(30)},
	}, ans.Rows)
}

func TestExecuteOrderByDescending(t *testing.T) {
	src := &memSource{rows: fixtureRows([]string{"n"}, [][]value.Value{
		{value.NewInt(1)}, {value.NewInt(3)}, {value.NewInt(2)},
	})}

	ans, err := executor.Execute(mustParse(t, "select n from bar order by n desc"), src, nil)
	require.NoError(t, err)

	assert.Equal(t, [][]value.Value{
		{value.NewInt(3)}, {value.NewInt(2)}, {value.NewInt(1)},
	}, ans.Rows)
}

func TestExecuteMultiKeyOrderAscThenDesc(t *testing.T) {
	src := &memSource{rows: fixtureRows([]string{"a", "b"}, [][]value.Value{
		{value.NewInt(1), value.NewInt(1)},
		{value.NewInt(0), value.NewInt(9)},
		{value.NewInt(1), value.NewInt(2)},
	})}

	ans, err := executor.Execute(
		mustParse(t, "select a, b from bar order by a asc, b desc"), src, nil)
	require.NoError(t, err)

	assert.Equal(t, [][]value.Value{
		{value.NewInt(0), value.NewInt(9)},
		{value.NewInt(1), value.NewInt(2)},
		{value.NewInt(1), value.NewInt(1)},
	}, ans.Rows)
}

func TestParseUnknownFunctionError(t *testing.T) {
	_, err := parser.Parse("select blah(value) from foo")
	require.Error(t, err)
	parseErr, ok := err.(*parser.Error)
	require.True(t, ok)
	assert.Equal(t, parser.UnknownFunction, parseErr.Kind)
}

func TestExecuteInvalidOrderClauseOverEmptySource(t *testing.T) {
	src := &memSource{}

	_, err := executor.Execute(mustParse(t, "select b from foo order by a"), src, nil)
	require.Error(t, err)
	execErr, ok := err.(*executor.Error)
	require.True(t, ok)
	assert.Equal(t, executor.InvalidOrderClause, execErr.Kind)
	assert.True(t, execErr.Expr.Equal(ast.NewColumn("a")))
}

func TestExecuteAverageWithMixedInputs(t *testing.T) {
	src := &memSource{rows: fixtureRows([]string{"n"}, [][]value.Value{
		{value.NewInt(1)},
		{value.Null},
		{value.NewFloat(2.5)},
		{value.NewBool(true)},
	})}

	ans, err := executor.Execute(mustParse(t, "select average(n) from bar"), src, nil)
	require.NoError(t, err)

	require.Len(t, ans.Rows, 1)
	assert.True(t, ans.Rows[0][0].Equal(value.NewFloat(1.75)))
}

func TestExecuteRowWidthMatchesSelectList(t *testing.T) {
	src := &memSource{rows: fixtureRows([]string{"a", "b", "c"}, [][]value.Value{
		{value.NewInt(1), value.NewInt(2), value.NewInt(3)},
	})}

	ans, err := executor.Execute(mustParse(t, "select a, c from bar"), src, nil)
	require.NoError(t, err)

	for _, r := range ans.Rows {
		assert.Len(t, r, len(ans.Columns))
	}
}
