package executor

import (
	"fmt"

	"github.com/omniql-engine/queryengine/engine/ast"
)

// ErrorKind identifies which Error variant occurred.
type ErrorKind int

const (
	// SourceError wraps a row source failure observed during Stage A-C.
	SourceError ErrorKind = iota
	// InvalidOrderClause means an ORDER BY expression did not match any
	// SELECT expression structurally.
	InvalidOrderClause
)

// Error is the error type Execute returns.
type Error struct {
	Kind        ErrorKind
	Description string          // SourceError
	Expr        *ast.Expression // InvalidOrderClause
}

func (e *Error) Error() string {
	switch e.Kind {
	case SourceError:
		return fmt.Sprintf("source error: %s", e.Description)
	case InvalidOrderClause:
		return fmt.Sprintf("order by expression not present in select list: %s", e.Expr.String())
	default:
		return "execute error"
	}
}

func errSource(description string) *Error {
	return &Error{Kind: SourceError, Description: description}
}

func errInvalidOrderClause(expr *ast.Expression) *Error {
	return &Error{Kind: InvalidOrderClause, Expr: expr}
}
