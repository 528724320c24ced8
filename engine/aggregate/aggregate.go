// Package aggregate implements the per-function accumulator state
// described in spec §4.5: Count, Sum, and Average, each fed row values
// one at a time and finalized to a single Value.
package aggregate

import (
	"github.com/omniql-engine/queryengine/engine/ast"
	"github.com/omniql-engine/queryengine/engine/value"
)

// Aggregate is a running accumulator for one AggregateFunction.
type Aggregate struct {
	function ast.AggregateFunction
	count    int64
	sum      value.Number
}

// New returns the zero accumulator for fn: Count(0), Sum(Int(0)), or
// Average(Int(0), 0).
func New(fn ast.AggregateFunction) *Aggregate {
	return &Aggregate{function: fn, sum: value.IntNumber(0)}
}

// Apply feeds one value into the accumulator per spec §4.5's per-function
// rules. Values the function doesn't apply to (e.g. Sum over a String)
// are silently ignored — there is no warning channel.
func (a *Aggregate) Apply(v value.Value) {
	switch a.function {
	case ast.Count:
		if !v.IsNull() {
			a.count++
		}
	case ast.Sum:
		if v.IsNumber() {
			a.sum = a.sum.Add(v.Number)
		}
	case ast.Average:
		if v.IsNumber() {
			a.sum = a.sum.Add(v.Number)
			a.count++
		}
	}
}

// Finalize produces the accumulator's result Value: Count as Number(Int),
// Sum as Number(sum), and Average as Number(Float) — 0.0 over an empty
// sequence, else sum/count.
func (a *Aggregate) Finalize() value.Value {
	switch a.function {
	case ast.Count:
		return value.NewInt(a.count)
	case ast.Sum:
		return value.NewNumber(a.sum)
	case ast.Average:
		if a.count == 0 {
			return value.NewFloat(0.0)
		}
		return value.NewFloat(a.sum.AsFloat() / float64(a.count))
	default:
		return value.Null
	}
}
