package syntax

import (
	"strconv"

	"bcc/ast"
	"bcc/report"
)

// binaryOps maps each binary operator token to its AST operator.
var binaryOps = map[int]ast.Oper{
	TOK_PLUS:  ast.OpAdd,
	TOK_MINUS: ast.OpSub,
	TOK_STAR:  ast.OpMul,
	TOK_DIV:   ast.OpDiv,
	TOK_GTEQ:  ast.OpGtEq,
	TOK_LTEQ:  ast.OpLtEq,
	TOK_GT:    ast.OpGt,
	TOK_LT:    ast.OpLt,
	TOK_EQ:    ast.OpEq,
	TOK_NEQ:   ast.OpNEq,
}

// precLevels lists the binary operator tokens of each precedence level from
// lowest to highest.  All binary operators are left associative.
var precLevels = [][]int{
	{TOK_EQ, TOK_NEQ},
	{TOK_LT, TOK_LTEQ, TOK_GT, TOK_GTEQ},
	{TOK_PLUS, TOK_MINUS},
	{TOK_STAR, TOK_DIV},
}

// expr = equality ;
func (p *Parser) parseExpr() ast.Expr {
	return p.parseBinaryOp(0)
}

// equality = relational {('==' | '!=') relational} ;
// relational = additive {('<' | '<=' | '>' | '>=') additive} ;
// additive = term {('+' | '-') term} ;
// term = unary {('*' | '/') unary} ;
func (p *Parser) parseBinaryOp(level int) ast.Expr {
	if level == len(precLevels) {
		return p.parseUnaryOp()
	}

	lhs := p.parseBinaryOp(level + 1)

	for p.gotOneOf(precLevels[level]...) {
		op := binaryOps[p.tok.Kind]
		p.next()

		rhs := p.parseBinaryOp(level + 1)
		lhs = &ast.BinaryOp{
			ASTBase: ast.NewASTBaseOver(lhs.Span(), rhs.Span()),
			Op:      op,
			Lhs:     lhs,
			Rhs:     rhs,
		}
	}

	return lhs
}

// unary = ('!' | '-') unary | ('++' | '--') 'IDENT' | postfix ;
func (p *Parser) parseUnaryOp() ast.Expr {
	startTok := p.tok

	switch p.tok.Kind {
	case TOK_NOT, TOK_MINUS:
		op := ast.OpNot
		if p.got(TOK_MINUS) {
			op = ast.OpNeg
		}

		p.next()
		operand := p.parseUnaryOp()

		return &ast.UnaryOp{
			ASTBase: ast.NewASTBaseOver(startTok.Span, operand.Span()),
			Op:      op,
			Operand: operand,
		}
	case TOK_INC, TOK_DEC:
		p.want(TOK_IDENT)
		nameTok := p.tok
		p.next()

		return &ast.IncDec{
			ASTBase: ast.NewASTBaseOver(startTok.Span, nameTok.Span),
			Name:    nameTok.Value,
			Dec:     startTok.Kind == TOK_DEC,
		}
	}

	return p.parsePostfix()
}

// postfix = primary {'(' [expr {',' expr}] ')' | '[' expr ']' | '++' | '--'} ;
func (p *Parser) parsePostfix() ast.Expr {
	expr := p.parsePrimary()

	for {
		switch p.tok.Kind {
		case TOK_LPAREN:
			ident, ok := expr.(*ast.Ident)
			if !ok {
				p.rejectWithMsg("only named functions may be called")
			}

			p.next()

			var args []ast.Expr
			if !p.got(TOK_RPAREN) {
				args = append(args, p.parseExpr())

				for p.got(TOK_COMMA) {
					p.next()
					args = append(args, p.parseExpr())
				}
			}

			endTok := p.assertAndNext(TOK_RPAREN)

			expr = &ast.Call{
				ASTBase: ast.NewASTBaseOver(ident.Span(), endTok.Span),
				Func:    ident.Name,
				Args:    args,
			}
		case TOK_LBRACKET:
			p.next()
			index := p.parseExpr()
			endTok := p.assertAndNext(TOK_RBRACKET)

			expr = &ast.Index{
				ASTBase: ast.NewASTBaseOver(expr.Span(), endTok.Span),
				Vector:  expr,
				Index:   index,
			}
		case TOK_INC, TOK_DEC:
			ident, ok := expr.(*ast.Ident)
			if !ok {
				p.rejectWithMsg("operand of `%s` must be a variable", p.tok.Value)
			}

			expr = &ast.IncDec{
				ASTBase: ast.NewASTBaseOver(ident.Span(), p.tok.Span),
				Name:    ident.Name,
				Dec:     p.got(TOK_DEC),
			}

			p.next()
		default:
			return expr
		}
	}
}

// primary = 'IDENT' | 'NUMLIT' | 'CHARLIT' | '(' expr ')' ;
func (p *Parser) parsePrimary() ast.Expr {
	tok := p.tok

	switch tok.Kind {
	case TOK_IDENT:
		p.next()
		return &ast.Ident{ASTBase: ast.NewASTBaseOn(tok.Span), Name: tok.Value}
	case TOK_NUMLIT:
		p.next()
		return &ast.IntLit{ASTBase: ast.NewASTBaseOn(tok.Span), Value: parseNumber(tok)}
	case TOK_CHARLIT:
		p.next()
		return &ast.IntLit{ASTBase: ast.NewASTBaseOn(tok.Span), Value: packChars(tok.Value)}
	case TOK_LPAREN:
		p.next()
		expr := p.parseExpr()
		p.assertAndNext(TOK_RPAREN)
		return expr
	}

	p.reject()
	return nil
}

// -----------------------------------------------------------------------------

// parseNumber converts a numeric literal token into its value.  Literals with
// a leading zero are octal.
func parseNumber(tok *Token) int64 {
	base := 10
	if len(tok.Value) > 1 && tok.Value[0] == '0' {
		base = 8
	}

	n, err := strconv.ParseInt(tok.Value, base, 64)
	if err != nil {
		if base == 8 {
			panic(report.Raise(tok.Span, "invalid octal literal: `%s`", tok.Value))
		}

		panic(report.Raise(tok.Span, "numeric literal out of range: `%s`", tok.Value))
	}

	return n
}

// packChars packs the characters of a character constant into a word.  The
// first character ends up in the most significant occupied byte.
func packChars(chars string) int64 {
	var v int64
	for _, c := range []byte(chars) {
		v = v<<8 | int64(c)
	}

	return v
}
