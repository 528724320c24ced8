// Package executor implements the streaming filter -> group/aggregate ->
// project -> sort pipeline described in spec §4.6: it turns a Query and
// a row Source into an Answer.
package executor

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/omniql-engine/queryengine/engine/answer"
	"github.com/omniql-engine/queryengine/engine/aggregate"
	"github.com/omniql-engine/queryengine/engine/ast"
	"github.com/omniql-engine/queryengine/engine/query"
	"github.com/omniql-engine/queryengine/engine/row"
	"github.com/omniql-engine/queryengine/engine/source"
	"github.com/omniql-engine/queryengine/engine/value"
)

// Executor holds the preparation work done once per query: the distinct
// aggregate calls referenced anywhere in the SELECT list, and the
// resolved ORDER BY -> SELECT index mapping.
type Executor struct {
	query          *query.Query
	aggregateCalls []*ast.Expression // each KindAggregateCall
	orderKeys      []answer.OrderKey
	logger         *zap.Logger
}

// New prepares an Executor for q: it collects the query's aggregate
// calls and resolves each ORDER BY field against the SELECT list,
// failing with InvalidOrderClause if one isn't found. logger may be nil.
func New(q *query.Query, logger *zap.Logger) (*Executor, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	calls := collectAggregateCalls(q.Select)

	orderKeys := make([]answer.OrderKey, 0, len(q.Order))
	for _, field := range q.Order {
		index := indexOfEqual(q.Select, field.Expr)
		if index < 0 {
			return nil, errInvalidOrderClause(field.Expr)
		}
		direction := query.Asc
		if field.Direction != nil {
			direction = *field.Direction
		}
		orderKeys = append(orderKeys, answer.OrderKey{Index: index, Direction: direction})
	}

	logger.Debug("prepared query",
		zap.String("query", q.String()),
		zap.Int("aggregateCalls", len(calls)),
		zap.Int("orderKeys", len(orderKeys)))

	return &Executor{query: q, aggregateCalls: calls, orderKeys: orderKeys, logger: logger}, nil
}

// collectAggregateCalls walks every SELECT expression and returns the
// distinct (by structural equality) AggregateCall nodes found, in first-
// seen order.
func collectAggregateCalls(exprs []*ast.Expression) []*ast.Expression {
	var calls []*ast.Expression
	for _, expr := range exprs {
		expr.Walk(func(call *ast.Expression) {
			for _, seen := range calls {
				if seen.Equal(call) {
					return
				}
			}
			calls = append(calls, call)
		})
	}
	return calls
}

func indexOfEqual(exprs []*ast.Expression, target *ast.Expression) int {
	for i, e := range exprs {
		if e.Equal(target) {
			return i
		}
	}
	return -1
}

// Execute runs the full pipeline against src: filter, then (if the
// SELECT list references any aggregate) group/aggregate, then project,
// then sort. Any source failure observed during filtering, grouping, or
// projection surfaces immediately as a SourceError; no partial Answer is
// returned.
func (e *Executor) Execute(src source.Source) (*answer.Answer, error) {
	rows, err := e.filter(src)
	if err != nil {
		return nil, err
	}

	if len(e.aggregateCalls) > 0 {
		rows, err = e.computeAggregates(rows)
		if err != nil {
			return nil, err
		}
	}

	ans := e.project(rows)

	ans.Sort(e.orderKeys)
	e.logger.Info("query complete",
		zap.String("query", e.query.String()),
		zap.Int("rows", len(ans.Rows)))
	return ans, nil
}

// filter is Stage A: it drains src, keeping only rows the WHERE
// predicate evaluates to Bool(true) for (any non-Bool result is a
// non-match); a nil condition keeps every row.
func (e *Executor) filter(src source.Source) ([]*row.Row, error) {
	var kept []*row.Row
	for {
		r, err, eof := src.Next()
		if eof {
			return kept, nil
		}
		if err != nil {
			return nil, errSource(err.Error())
		}
		if e.query.Condition == nil {
			kept = append(kept, r)
			continue
		}
		result := row.Eval(e.query.Condition, r)
		if result.Kind == value.KindBool && result.Bool {
			kept = append(kept, r)
		}
	}
}

// computeAggregates is Stage B: it groups rows by the GROUP BY key
// tuple, feeds each aggregate call's argument into its own per-group
// accumulator, and materializes one synthetic Row per group carrying
// both the finalized aggregate values and the group-by column values.
// Emission order is unspecified here; Stage D (Sort) stabilizes it when
// ORDER BY is present.
func (e *Executor) computeAggregates(rows []*row.Row) ([]*row.Row, error) {
	type group struct {
		values       []value.Value
		accumulators []*aggregate.Aggregate
	}

	groups := make(map[string]*group)
	order := make([]string, 0)

	for _, r := range rows {
		groupValues := make([]value.Value, len(e.query.Group))
		for i, expr := range e.query.Group {
			groupValues[i] = row.Eval(expr, r)
		}
		key := groupKeyString(groupValues)

		g, ok := groups[key]
		if !ok {
			accumulators := make([]*aggregate.Aggregate, len(e.aggregateCalls))
			for i, call := range e.aggregateCalls {
				accumulators[i] = aggregate.New(call.Call.Function)
			}
			g = &group{values: groupValues, accumulators: accumulators}
			groups[key] = g
			order = append(order, key)
		}

		for i, acc := range g.accumulators {
			acc.Apply(row.Eval(e.aggregateCalls[i].Call.Argument, r))
		}
	}

	out := make([]*row.Row, 0, len(order))
	for _, key := range order {
		g := groups[key]
		synthetic := row.New()
		for i, call := range e.aggregateCalls {
			synthetic.Insert(call, g.accumulators[i].Finalize())
		}
		for i, expr := range e.query.Group {
			synthetic.Insert(expr, g.values[i])
		}
		out = append(out, synthetic)
	}
	return out, nil
}

// groupKeyString renders a group-by value tuple into a string suitable
// as a Go map key, formatting each value's Kind and Value.HashKey. Keys
// follow HashKey, not Value.Equal: an Int and a Float with the same real
// value land in different groups.
func groupKeyString(values []value.Value) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = fmt.Sprintf("%d:%v", v.Kind, v.HashKey())
	}
	return strings.Join(parts, "\x1f")
}

// project is Stage C: it evaluates every SELECT expression against each
// row and renders the column headers from their canonical text.
func (e *Executor) project(rows []*row.Row) *answer.Answer {
	columns := make([]string, len(e.query.Select))
	for i, expr := range e.query.Select {
		columns[i] = expr.String()
	}

	out := make([][]value.Value, 0, len(rows))
	for _, r := range rows {
		cells := make([]value.Value, len(e.query.Select))
		for i, expr := range e.query.Select {
			cells[i] = row.Eval(expr, r)
		}
		out = append(out, cells)
	}

	return &answer.Answer{Columns: columns, Rows: out}
}

// Execute is the package-level convenience wrapper: prepare and run q
// against src in one call.
func Execute(q *query.Query, src source.Source, logger *zap.Logger) (*answer.Answer, error) {
	exec, err := New(q, logger)
	if err != nil {
		return nil, err
	}
	return exec.Execute(src)
}
