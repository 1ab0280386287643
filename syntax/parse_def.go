package syntax

import (
	"bcc/ast"
	"bcc/report"
)

// file = {definition} ;
func (p *Parser) parseFile() *ast.Registry {
	reg := ast.NewRegistry()

	for !p.got(TOK_EOF) {
		reg.Append(p.parseDefinition())
	}

	return reg
}

// definition = func_def | global_decl ;
func (p *Parser) parseDefinition() ast.Def {
	nameTok := p.assertAndNext(TOK_IDENT)

	if p.got(TOK_LPAREN) {
		return p.parseFuncDef(nameTok)
	}

	return p.parseGlobalDecl(nameTok)
}

// func_def = 'IDENT' '(' [ident_list] ')' stmt ;
func (p *Parser) parseFuncDef(nameTok *Token) *ast.FuncDef {
	p.next()

	var params []string
	if !p.got(TOK_RPAREN) {
		for _, tok := range p.parseIdentList() {
			for _, param := range params {
				if param == tok.Value {
					panic(report.Raise(tok.Span, "multiple parameters named `%s`", tok.Value))
				}
			}

			params = append(params, tok.Value)
		}
	}

	p.assertAndNext(TOK_RPAREN)

	body := p.parseStmt()

	return &ast.FuncDef{
		ASTBase:  ast.NewASTBaseOver(nameTok.Span, spanOfLast(body, nameTok.Span)),
		FuncName: nameTok.Value,
		Params:   params,
		Body:     ast.NewChain(body...),
	}
}

// global_decl = 'IDENT' [expr {',' expr}] ';' ;
func (p *Parser) parseGlobalDecl(nameTok *Token) *ast.GlobalDecl {
	var inits []ast.Expr
	if !p.got(TOK_SEMI) {
		inits = append(inits, p.parseExpr())

		for p.got(TOK_COMMA) {
			p.next()
			inits = append(inits, p.parseExpr())
		}
	}

	endTok := p.assertAndNext(TOK_SEMI)

	return &ast.GlobalDecl{
		ASTBase:    ast.NewASTBaseOver(nameTok.Span, endTok.Span),
		GlobalName: nameTok.Value,
		Inits:      inits,
	}
}

// ident_list = 'IDENT' {',' 'IDENT'} ;
func (p *Parser) parseIdentList() []*Token {
	toks := []*Token{p.assertAndNext(TOK_IDENT)}

	for p.got(TOK_COMMA) {
		p.next()
		toks = append(toks, p.assertAndNext(TOK_IDENT))
	}

	return toks
}

// spanOfLast returns the span of the last statement or def if there are no
// statements.
func spanOfLast(stmts []ast.Stmt, def *report.TextSpan) *report.TextSpan {
	if len(stmts) == 0 {
		return def
	}

	if span := stmts[len(stmts)-1].Span(); span != nil {
		return span
	}

	return def
}
