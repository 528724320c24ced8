// Package parser implements the recursive-descent parser that turns a
// scanned token stream into a Query AST, per the grammar in spec §4.4.
package parser

import (
	"github.com/omniql-engine/queryengine/engine/ast"
	"github.com/omniql-engine/queryengine/engine/lexer"
	"github.com/omniql-engine/queryengine/engine/query"
	"github.com/omniql-engine/queryengine/engine/token"
)

// Parser is a recursive-descent parser over a peekable token stream.
type Parser struct {
	scanner *lexer.Scanner

	hasPeeked bool
	peekTok   token.Token
	peekErr   error
	peekEOF   bool
}

// New builds a Parser over input.
func New(input string) *Parser {
	return &Parser{scanner: lexer.New(input)}
}

// Parse parses input as a single SELECT statement.
func Parse(input string) (*query.Query, error) {
	return New(input).Parse()
}

func (p *Parser) peek() (token.Token, error, bool) {
	if !p.hasPeeked {
		tok, err, eof := p.scanner.Next()
		if scanErr, ok := err.(*lexer.ScanError); ok {
			err = fromScanError(scanErr)
		}
		p.peekTok, p.peekErr, p.peekEOF = tok, err, eof
		p.hasPeeked = true
	}
	return p.peekTok, p.peekErr, p.peekEOF
}

func (p *Parser) next() (token.Token, error, bool) {
	tok, err, eof := p.peek()
	p.hasPeeked = false
	return tok, err, eof
}

// expect consumes the next token and requires it to equal want.
func (p *Parser) expect(want token.Token) error {
	tok, err, eof := p.next()
	if err != nil {
		return err
	}
	if eof {
		return errUnexpectedEOF()
	}
	if tok != want {
		return errUnexpectedToken(tok)
	}
	return nil
}

// Parse parses the receiver's input as a single SELECT statement.
func (p *Parser) Parse() (*query.Query, error) {
	if err := p.expect(token.TokSelect); err != nil {
		return nil, err
	}
	selectList, err := p.parseExprList()
	if err != nil {
		return nil, err
	}

	if err := p.expect(token.TokFrom); err != nil {
		return nil, err
	}
	from, err := p.parseTableName()
	if err != nil {
		return nil, err
	}

	var condition *ast.Expression
	if tok, err, eof := p.peek(); err == nil && !eof && tok == token.TokWhere {
		p.next()
		condition, err = p.parseExpr()
		if err != nil {
			return nil, err
		}
	} else if err != nil {
		return nil, err
	}

	var group []*ast.Expression
	if tok, err, eof := p.peek(); err == nil && !eof && tok == token.TokGroup {
		group, err = p.parseGroupBy()
		if err != nil {
			return nil, err
		}
	} else if err != nil {
		return nil, err
	}

	var order []query.OrderField
	if tok, err, eof := p.peek(); err == nil && !eof && tok == token.TokOrder {
		order, err = p.parseOrderBy()
		if err != nil {
			return nil, err
		}
	} else if err != nil {
		return nil, err
	}

	return &query.Query{
		Select:    selectList,
		From:      from,
		Condition: condition,
		Group:     group,
		Order:     order,
	}, nil
}

func (p *Parser) parseTableName() (string, error) {
	tok, err, eof := p.next()
	if err != nil {
		return "", err
	}
	if eof {
		return "", errUnexpectedEOF()
	}
	if tok.Type != token.Identifier {
		return "", errUnexpectedToken(tok)
	}
	return tok.Text, nil
}

func (p *Parser) parseExprList() ([]*ast.Expression, error) {
	var exprs []*ast.Expression
	for {
		e, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		exprs = append(exprs, e)

		tok, err, eof := p.peek()
		if err != nil {
			return nil, err
		}
		if eof || tok != token.TokComma {
			return exprs, nil
		}
		p.next()
	}
}

// parseExpr implements `expr := primary [ "=" primary ]`: a single,
// non-chained left-associative equality.
func (p *Parser) parseExpr() (*ast.Expression, error) {
	left, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}

	tok, err, eof := p.peek()
	if err != nil {
		return nil, err
	}
	if eof || tok != token.TokEq {
		return left, nil
	}
	p.next()

	right, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	return ast.NewBinary(left, ast.Eq, right), nil
}

// parsePrimary implements `primary := Identifier [ "(" expr ")" ]`: a
// bare identifier is a Column; an identifier immediately followed by a
// parenthesized expression is an aggregate call.
func (p *Parser) parsePrimary() (*ast.Expression, error) {
	tok, err, eof := p.next()
	if err != nil {
		return nil, err
	}
	if eof {
		return nil, errUnexpectedEOF()
	}
	if tok.Type != token.Identifier {
		return nil, errUnexpectedToken(tok)
	}
	name := tok.Text

	peeked, err, eof := p.peek()
	if err != nil {
		return nil, err
	}
	if eof || peeked != token.TokOpenParen {
		return ast.NewColumn(name), nil
	}
	p.next()

	argument, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if err := p.expect(token.TokCloseParen); err != nil {
		return nil, err
	}

	fn, ok := ast.AggregateFunctionFromName(name)
	if !ok {
		return nil, errUnknownFunction(name)
	}
	return ast.NewAggregateCall(fn, argument), nil
}

func (p *Parser) parseGroupBy() ([]*ast.Expression, error) {
	if err := p.expect(token.TokGroup); err != nil {
		return nil, err
	}
	if err := p.expect(token.TokBy); err != nil {
		return nil, err
	}
	return p.parseExprList()
}

func (p *Parser) parseOrderBy() ([]query.OrderField, error) {
	if err := p.expect(token.TokOrder); err != nil {
		return nil, err
	}
	if err := p.expect(token.TokBy); err != nil {
		return nil, err
	}

	var fields []query.OrderField
	for {
		e, err := p.parseExpr()
		if err != nil {
			return nil, err
		}

		var direction *query.SortDirection
		tok, err, eof := p.peek()
		if err != nil {
			return nil, err
		}
		if !eof {
			switch tok {
			case token.TokAsc:
				p.next()
				d := query.Asc
				direction = &d
			case token.TokDesc:
				p.next()
				d := query.Desc
				direction = &d
			}
		}

		fields = append(fields, query.OrderField{Expr: e, Direction: direction})

		tok, err, eof = p.peek()
		if err != nil {
			return nil, err
		}
		if eof || tok != token.TokComma {
			return fields, nil
		}
		p.next()
	}
}
