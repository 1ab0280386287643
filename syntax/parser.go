package syntax

import (
	"bufio"
	"io"

	"bcc/ast"
	"bcc/report"
)

// Each parse function is documented with the grammar rule it parses.

// Parser is the parser for a B source file.  It is a recursive descent parser:
// every parsing function begins positioned on the first token of its
// production and consumes all tokens of that production, leaving the parser on
// the next token.  Syntax errors are raised as panics and recovered by Parse.
type Parser struct {
	lexer *Lexer

	// tok is the token under the parser.
	tok *Token
}

// NewParser creates a new parser reading from r.
func NewParser(r io.Reader) *Parser {
	return &Parser{
		lexer: NewLexer(bufio.NewReader(r)),
	}
}

// Parse parses an entire translation unit into a registry of its top-level
// definitions in source order.
func Parse(r io.Reader) (reg *ast.Registry, err error) {
	defer report.CatchErrors(&err)

	p := NewParser(r)

	p.next()

	return p.parseFile(), nil
}

// -----------------------------------------------------------------------------

// next advances to the following token.
func (p *Parser) next() {
	tok, err := p.lexer.NextToken()
	if err != nil {
		if lce, ok := err.(*report.LocalCompileError); ok {
			panic(lce)
		}

		var span *report.TextSpan
		if p.tok != nil {
			span = p.tok.Span
		}

		panic(report.Raise(span, "error reading source: %s", err))
	}

	p.tok = tok
}

// got reports whether the current token has the given kind.
func (p *Parser) got(kind int) bool {
	return p.tok.Kind == kind
}

// assert rejects the current token unless it has the given kind.
func (p *Parser) assert(kind int) {
	if !p.got(kind) {
		p.reject()
	}
}

// assertAndNext asserts the kind of the current token, advances past it and
// returns it.
func (p *Parser) assertAndNext(kind int) *Token {
	p.assert(kind)
	tok := p.tok
	p.next()
	return tok
}

// want advances and asserts the kind of the new current token.
func (p *Parser) want(kind int) {
	p.next()
	p.assert(kind)
}

// -----------------------------------------------------------------------------

// reject raises an unexpected token error on the current token.
func (p *Parser) reject() {
	if p.got(TOK_EOF) {
		panic(report.Raise(p.tok.Span, "unexpected end of file"))
	}

	panic(report.Raise(p.tok.Span, "unexpected token: `%s`", p.tok.Value))
}

// rejectWithMsg raises msg at the current token.
func (p *Parser) rejectWithMsg(msg string, a ...interface{}) {
	panic(report.Raise(p.tok.Span, msg, a...))
}

// gotOneOf reports whether the current token has any of the given kinds.
func (p *Parser) gotOneOf(kinds ...int) bool {
	for _, k := range kinds {
		if p.got(k) {
			return true
		}
	}

	return false
}
