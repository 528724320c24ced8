// Package row implements Row, the Expression-keyed value map shared by
// input rows (Column keys) and aggregated rows (AggregateCall keys
// alongside group-by Column keys), and the Eval routine that evaluates
// an Expression tree against one.
package row

import (
	"github.com/omniql-engine/queryengine/engine/ast"
	"github.com/omniql-engine/queryengine/engine/value"
)

// Row is an immutable-after-construction mapping from Expression key to
// Value. Keys are compared by Expression.Key(), so a Column and an
// AggregateCall with the same canonical text never collide because their
// canonical renderings differ (bare identifier vs "func(arg)").
type Row struct {
	fields map[any]value.Value
}

// New returns an empty Row.
func New() *Row {
	return &Row{fields: make(map[any]value.Value)}
}

// Insert sets the value stored under key, overwriting any prior value.
func (r *Row) Insert(key *ast.Expression, v value.Value) {
	r.fields[key.Key()] = v
}

// Get looks up the value stored under key.
func (r *Row) Get(key *ast.Expression) (value.Value, bool) {
	v, ok := r.fields[key.Key()]
	return v, ok
}

// Eval evaluates expr against row: Column and AggregateCall look up their
// key in row (missing yields Null, per spec §3); Binary evaluates both
// operands and applies its operator. AggregateCall does not recurse into
// its argument during eval — the aggregation stage pre-computes and
// stores the finalized result under the call's own key.
func Eval(expr *ast.Expression, row *Row) value.Value {
	if expr == nil {
		return value.Null
	}
	switch expr.Kind {
	case ast.KindColumn, ast.KindAggregateCall:
		v, ok := row.Get(expr)
		if !ok {
			return value.Null
		}
		return v
	case ast.KindBinary:
		left := Eval(expr.Left, row)
		right := Eval(expr.Right, row)
		return evalBinary(expr.Op, left, right)
	default:
		return value.Null
	}
}

func evalBinary(op ast.BinaryOp, left, right value.Value) value.Value {
	switch op {
	case ast.Eq:
		return value.NewBool(left.Equal(right))
	default:
		return value.Null
	}
}
