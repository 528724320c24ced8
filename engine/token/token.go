// Package token defines the lexical tokens produced by the scanner and
// consumed by the parser, along with the canonical display rules used to
// render identifiers and string literals back into query text.
package token

import (
	"strings"

	"github.com/omniql-engine/queryengine/engine/value"
)

// Type identifies which kind of token a Token is.
type Type int

const (
	Select Type = iota
	From
	Where
	Group
	Order
	By
	Asc
	Desc
	Identifier
	String
	Number
	OpenParen
	CloseParen
	Comma
	Eq
)

// Token is a single lexical token. Identifier and String tokens carry
// their text in Text; Number tokens carry their parsed value in Num.
type Token struct {
	Type Type
	Text string
	Num  value.Number
}

func keyword(t Type) Token { return Token{Type: t} }

// Select, From, Where, Group, Order, By, Asc, Desc are the fixed keyword
// tokens; they carry no payload.
var (
	TokSelect = keyword(Select)
	TokFrom   = keyword(From)
	TokWhere  = keyword(Where)
	TokGroup  = keyword(Group)
	TokOrder  = keyword(Order)
	TokBy     = keyword(By)
	TokAsc    = keyword(Asc)
	TokDesc   = keyword(Desc)

	TokOpenParen  = Token{Type: OpenParen}
	TokCloseParen = Token{Type: CloseParen}
	TokComma      = Token{Type: Comma}
	TokEq         = Token{Type: Eq}
)

// NewIdentifier builds an Identifier token.
func NewIdentifier(text string) Token { return Token{Type: Identifier, Text: text} }

// NewString builds a String token.
func NewString(text string) Token { return Token{Type: String, Text: text} }

// NewNumber builds a Number token.
func NewNumber(n value.Number) Token { return Token{Type: Number, Num: n} }

// keywords maps a lowercased identifier to its keyword token type; any
// identifier not in this table stays a plain Identifier.
var keywords = map[string]Type{
	"select": Select,
	"from":   From,
	"where":  Where,
	"group":  Group,
	"order":  Order,
	"by":     By,
	"asc":    Asc,
	"desc":   Desc,
}

// Lookup promotes a scanned identifier buffer to a keyword token when it
// case-insensitively matches the keyword table, or returns an Identifier
// token otherwise.
func Lookup(buf string) Token {
	if t, ok := keywords[strings.ToLower(buf)]; ok {
		return keyword(t)
	}
	return NewIdentifier(buf)
}

// isBareIdentifier reports whether s can be rendered unquoted: it does not
// start with a digit, and every rune is an ASCII letter, digit, or
// underscore.
func isBareIdentifier(s string) bool {
	if s == "" || (s[0] >= '0' && s[0] <= '9') {
		return false
	}
	for _, r := range s {
		isAlpha := (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || r == '_'
		isDigit := r >= '0' && r <= '9'
		if !isAlpha && !isDigit {
			return false
		}
	}
	return true
}

// quote renders s delimited by delimiter, escaping backslashes, newlines,
// and the delimiter itself with a backslash.
func quote(s string, delimiter byte) string {
	var b strings.Builder
	b.WriteByte(delimiter)
	for _, r := range s {
		switch r {
		case '\n':
			b.WriteString(`\n`)
		case '\\':
			b.WriteString(`\\`)
		case rune(delimiter):
			b.WriteByte('\\')
			b.WriteRune(r)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte(delimiter)
	return b.String()
}

// FormatIdentifier renders an identifier the way the parser must be able
// to reparse: bare when every rune is alphanumeric/underscore and the
// first is not a digit, otherwise
// double-quoted with backslash escapes.
func FormatIdentifier(name string) string {
	if isBareIdentifier(name) {
		return name
	}
	return quote(name, '"')
}

// FormatString renders a string literal single-quoted with backslash
// escapes, the counterpart to FormatIdentifier for double quotes.
func FormatString(s string) string {
	return quote(s, '\'')
}

// String renders the fixed-text tokens for error messages; Identifier,
// String, and Number render through their canonical display forms.
func (t Token) String() string {
	switch t.Type {
	case Select:
		return "select"
	case From:
		return "from"
	case Where:
		return "where"
	case Group:
		return "group"
	case Order:
		return "order"
	case By:
		return "by"
	case Asc:
		return "asc"
	case Desc:
		return "desc"
	case Identifier:
		return FormatIdentifier(t.Text)
	case String:
		return FormatString(t.Text)
	case Number:
		return t.Num.String()
	case OpenParen:
		return "("
	case CloseParen:
		return ")"
	case Comma:
		return ","
	case Eq:
		return "="
	default:
		return "?"
	}
}
