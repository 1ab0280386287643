package syntax

import (
	"bcc/ast"
	"bcc/report"
)

// stmt = block | var_decl | if_stmt | while_stmt | goto_stmt | return_stmt
//      | ';' | label_stmt | simple_stmt ;
//
// Statements are returned flattened: a block yields its statements in order
// and a labeled statement yields the label followed by the statement.
func (p *Parser) parseStmt() []ast.Stmt {
	switch p.tok.Kind {
	case TOK_LBRACE:
		return p.parseBlock()
	case TOK_AUTO, TOK_EXTRN:
		return []ast.Stmt{p.parseVarDecl()}
	case TOK_IF:
		return []ast.Stmt{p.parseIf()}
	case TOK_WHILE:
		return []ast.Stmt{p.parseWhile()}
	case TOK_GOTO:
		return []ast.Stmt{p.parseGoto()}
	case TOK_RETURN:
		return []ast.Stmt{p.parseReturn()}
	case TOK_SEMI:
		p.next()
		return nil
	default:
		return p.parseSimpleStmt()
	}
}

// block = '{' {stmt} '}' ;
func (p *Parser) parseBlock() []ast.Stmt {
	p.next()

	var stmts []ast.Stmt
	for !p.got(TOK_RBRACE) {
		if p.got(TOK_EOF) {
			p.reject()
		}

		stmts = append(stmts, p.parseStmt()...)
	}

	p.next()
	return stmts
}

// var_decl = ('auto' | 'extrn') var_intro {',' var_intro} ';' ;
// var_intro = 'IDENT' ['[' expr ']'] ;
func (p *Parser) parseVarDecl() *ast.VarDecl {
	startTok := p.tok

	kind := ast.VarAuto
	if p.got(TOK_EXTRN) {
		kind = ast.VarExtern
	}

	p.next()

	var vars []*ast.VarIntro
	for {
		nameTok := p.assertAndNext(TOK_IDENT)
		intro := &ast.VarIntro{
			ASTBase: ast.NewASTBaseOn(nameTok.Span),
			Name:    nameTok.Value,
			Kind:    kind,
		}

		if p.got(TOK_LBRACKET) {
			if kind == ast.VarExtern {
				p.rejectWithMsg("extrn declarations cannot specify a vector size")
			}

			p.next()
			intro.Size = p.parseExpr()
			endTok := p.assertAndNext(TOK_RBRACKET)
			intro.ASTBase = ast.NewASTBaseOver(nameTok.Span, endTok.Span)
		}

		vars = append(vars, intro)

		if !p.got(TOK_COMMA) {
			break
		}

		p.next()
	}

	endTok := p.assertAndNext(TOK_SEMI)

	return &ast.VarDecl{
		ASTBase: ast.NewASTBaseOver(startTok.Span, endTok.Span),
		Kind:    kind,
		Vars:    vars,
	}
}

// if_stmt = 'if' '(' expr ')' stmt ['else' stmt] ;
func (p *Parser) parseIf() *ast.If {
	startTok := p.tok

	cond := p.parseCondition()
	then := p.parseStmt()

	var els []ast.Stmt
	if p.got(TOK_ELSE) {
		p.next()
		els = p.parseStmt()
	}

	return &ast.If{
		ASTBase: ast.NewASTBaseOver(startTok.Span, spanOfLast(append(then, els...), cond.Span())),
		Cond:    cond,
		Then:    ast.NewChain(then...),
		Else:    ast.NewChain(els...),
	}
}

// while_stmt = 'while' '(' expr ')' stmt ;
func (p *Parser) parseWhile() *ast.While {
	startTok := p.tok

	cond := p.parseCondition()
	body := p.parseStmt()

	return &ast.While{
		ASTBase: ast.NewASTBaseOver(startTok.Span, spanOfLast(body, cond.Span())),
		Cond:    cond,
		Body:    ast.NewChain(body...),
	}
}

// parseCondition parses the parenthesized condition following an `if` or
// `while` keyword.  The parser begins on the keyword.
func (p *Parser) parseCondition() ast.Expr {
	p.want(TOK_LPAREN)
	p.next()

	cond := p.parseExpr()

	p.assertAndNext(TOK_RPAREN)
	return cond
}

// goto_stmt = 'goto' 'IDENT' ';' ;
func (p *Parser) parseGoto() *ast.Goto {
	startTok := p.tok

	p.want(TOK_IDENT)
	labelTok := p.tok
	p.next()

	endTok := p.assertAndNext(TOK_SEMI)

	return &ast.Goto{
		ASTBase: ast.NewASTBaseOver(startTok.Span, endTok.Span),
		Label:   labelTok.Value,
	}
}

// return_stmt = 'return' [expr] ';' ;
func (p *Parser) parseReturn() *ast.Return {
	startTok := p.tok
	p.next()

	var value ast.Expr
	if !p.got(TOK_SEMI) {
		value = p.parseExpr()
	}

	endTok := p.assertAndNext(TOK_SEMI)

	return &ast.Return{
		ASTBase: ast.NewASTBaseOver(startTok.Span, endTok.Span),
		Value:   value,
	}
}

// label_stmt = 'IDENT' ':' stmt ;
// simple_stmt = expr ['=' expr] ';' ;
func (p *Parser) parseSimpleStmt() []ast.Stmt {
	expr := p.parseExpr()

	if ident, ok := expr.(*ast.Ident); ok && p.got(TOK_COLON) {
		p.next()

		label := &ast.Label{
			ASTBase: ast.NewASTBaseOn(ident.Span()),
			Name:    ident.Name,
		}

		return append([]ast.Stmt{label}, p.parseStmt()...)
	}

	var stmt ast.Stmt
	if p.got(TOK_ASSIGN) {
		p.next()
		stmt = p.makeAssign(expr, p.parseExpr())
	} else if incdec, ok := expr.(*ast.IncDec); ok {
		stmt = incdec
	} else {
		stmt = &ast.ExprStmt{
			ASTBase: ast.NewASTBaseOn(expr.Span()),
			Expr:    expr,
		}
	}

	p.assertAndNext(TOK_SEMI)
	return []ast.Stmt{stmt}
}

// makeAssign builds an assignment statement storing value into lhs.
func (p *Parser) makeAssign(lhs, value ast.Expr) ast.Stmt {
	span := report.NewSpanOver(lhs.Span(), value.Span())

	switch v := lhs.(type) {
	case *ast.Ident:
		return &ast.Assign{
			ASTBase: ast.NewASTBaseOn(span),
			Name:    v.Name,
			Value:   value,
		}
	case *ast.Index:
		return &ast.IndexAssign{
			ASTBase: ast.NewASTBaseOn(span),
			Vector:  v.Vector,
			Index:   v.Index,
			Value:   value,
		}
	}

	panic(report.Raise(lhs.Span(), "cannot assign to an rvalue"))
}
