// Package ast holds the polymorphic expression tree evaluated against
// Rows: column references, aggregate calls, and binary operators, plus
// the closed set of aggregate function names they can reference.
package ast

import (
	"strings"

	"github.com/omniql-engine/queryengine/engine/token"
)

// AggregateFunction is the closed set of supported aggregate functions.
type AggregateFunction int

const (
	Count AggregateFunction = iota
	Sum
	Average
)

// AggregateFunctionFromName resolves a function name case-insensitively,
// reporting ok=false for anything outside {count, sum, average}.
func AggregateFunctionFromName(name string) (AggregateFunction, bool) {
	switch strings.ToLower(name) {
	case "count":
		return Count, true
	case "sum":
		return Sum, true
	case "average":
		return Average, true
	default:
		return 0, false
	}
}

func (f AggregateFunction) String() string {
	switch f {
	case Count:
		return "count"
	case Sum:
		return "sum"
	case Average:
		return "average"
	default:
		return "unknown"
	}
}

// BinaryOp is the closed set of binary operators; spec §3/§4.4 define
// exactly one, equality.
type BinaryOp int

const (
	Eq BinaryOp = iota
)

func (op BinaryOp) String() string {
	switch op {
	case Eq:
		return "="
	default:
		return "?"
	}
}

// Kind identifies which Expression variant a node is.
type Kind int

const (
	KindColumn Kind = iota
	KindAggregateCall
	KindBinary
)

// AggregateCall is a function applied to an argument expression, e.g.
// sum(a). It is comparable (and hashable, see Key) by function identity
// and argument tree, matching spec §3's Expression-as-Row-key contract.
type AggregateCall struct {
	Function AggregateFunction
	Argument *Expression
}

// Expression is the algebraic expression type from spec §3: Column,
// AggregateCall, or Binary. Exactly one of the payload fields is
// meaningful per Kind.
type Expression struct {
	Kind   Kind
	Column string // KindColumn

	Call AggregateCall // KindAggregateCall

	Left  *Expression // KindBinary
	Op    BinaryOp
	Right *Expression
}

// NewColumn builds a Column(name) expression.
func NewColumn(name string) *Expression {
	return &Expression{Kind: KindColumn, Column: name}
}

// NewAggregateCall builds an AggregateCall expression.
func NewAggregateCall(fn AggregateFunction, argument *Expression) *Expression {
	return &Expression{Kind: KindAggregateCall, Call: AggregateCall{Function: fn, Argument: argument}}
}

// NewBinary builds a Binary expression.
func NewBinary(left *Expression, op BinaryOp, right *Expression) *Expression {
	return &Expression{Kind: KindBinary, Left: left, Op: op, Right: right}
}

// Equal reports structural equality of the entire variant, including,
// for AggregateCall, function identity and the full argument tree. This
// is what lets two Expressions serve as the same Row key or let an ORDER
// BY expression match a SELECT expression.
func (e *Expression) Equal(other *Expression) bool {
	if e == nil || other == nil {
		return e == other
	}
	if e.Kind != other.Kind {
		return false
	}
	switch e.Kind {
	case KindColumn:
		return e.Column == other.Column
	case KindAggregateCall:
		return e.Call.Function == other.Call.Function && e.Call.Argument.Equal(other.Call.Argument)
	case KindBinary:
		return e.Op == other.Op && e.Left.Equal(other.Left) && e.Right.Equal(other.Right)
	default:
		return false
	}
}

// Key returns a comparable Go value usable as a map key, so Rows can be
// backed by an ordinary Go map keyed on Expression identity.
func (e *Expression) Key() any {
	return e.String()
}

// String renders e in the canonical query-text form: a bare identifier
// or quoted identifier for Column, `func(arg)` for AggregateCall, and
// `left op right` for Binary. This doubles as the Answer column header
// and as the Row-key string (Key), since the canonical form is a
// faithful, reparseable rendering of the whole variant.
func (e *Expression) String() string {
	if e == nil {
		return ""
	}
	switch e.Kind {
	case KindColumn:
		return token.FormatIdentifier(e.Column)
	case KindAggregateCall:
		return e.Call.Function.String() + "(" + e.Call.Argument.String() + ")"
	case KindBinary:
		return e.Left.String() + " " + e.Op.String() + " " + e.Right.String()
	default:
		return "?"
	}
}

// Walk collects every AggregateCall node reachable from e, recursing into
// Binary subtrees and into an AggregateCall's own argument so nested
// calls (not required by the spec, but structurally possible) are found
// without infinite recursion or a crash.
func (e *Expression) Walk(visit func(*Expression)) {
	if e == nil {
		return
	}
	switch e.Kind {
	case KindColumn:
		// leaf
	case KindAggregateCall:
		visit(e)
		e.Call.Argument.Walk(visit)
	case KindBinary:
		e.Left.Walk(visit)
		e.Right.Walk(visit)
	}
}
