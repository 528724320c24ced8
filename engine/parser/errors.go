package parser

import (
	"fmt"

	"github.com/omniql-engine/queryengine/engine/lexer"
	"github.com/omniql-engine/queryengine/engine/token"
)

// ErrorKind identifies which parser error variant occurred.
type ErrorKind int

const (
	UnexpectedEOF ErrorKind = iota
	UnknownToken
	UnexpectedToken
	UnknownFunction
)

// Error is the error type Parse returns. ScanErrors from the lexer are
// promoted into it by structural mapping (UnexpectedEOF/UnknownToken).
type Error struct {
	Kind            ErrorKind
	UnknownRune     rune
	UnexpectedToken token.Token
	FunctionName    string
}

func (e *Error) Error() string {
	switch e.Kind {
	case UnexpectedEOF:
		return "unexpected end of input"
	case UnknownToken:
		return fmt.Sprintf("unknown token %q", e.UnknownRune)
	case UnexpectedToken:
		return fmt.Sprintf("unexpected token %q", e.UnexpectedToken.String())
	case UnknownFunction:
		return fmt.Sprintf("unknown function %q", e.FunctionName)
	default:
		return "parse error"
	}
}

func errUnexpectedEOF() *Error { return &Error{Kind: UnexpectedEOF} }

func errUnexpectedToken(t token.Token) *Error {
	return &Error{Kind: UnexpectedToken, UnexpectedToken: t}
}

func errUnknownFunction(name string) *Error {
	return &Error{Kind: UnknownFunction, FunctionName: name}
}

// fromScanError maps a lexer.ScanError onto the equivalent parser Error.
func fromScanError(e *lexer.ScanError) *Error {
	if e.UnexpectedEOF {
		return &Error{Kind: UnexpectedEOF}
	}
	return &Error{Kind: UnknownToken, UnknownRune: e.UnknownToken}
}
