// Package ast defines the abstract syntax tree of a B translation unit: the
// node variants produced by the parser and consumed by the lowerer, and the
// Registry which owns the top-level definitions.
package ast

import "bcc/report"

// The abstract interface for all AST nodes.
type Node interface {
	// The text span of the AST node.  This may be nil for synthesized nodes.
	Span() *report.TextSpan
}

// A utility base struct for all AST nodes.
type ASTBase struct {
	// The span over which the AST node occurs.
	span *report.TextSpan
}

// NewASTBaseOn creates a new AST base with the given span.
func NewASTBaseOn(span *report.TextSpan) ASTBase {
	return ASTBase{span: span}
}

// NewASTBaseOver creates a new AST base spanning over two spans.
func NewASTBaseOver(start, end *report.TextSpan) ASTBase {
	return ASTBase{span: report.NewSpanOver(start, end)}
}

func (ab ASTBase) Span() *report.TextSpan {
	return ab.span
}

// -----------------------------------------------------------------------------

// Def is a top-level definition: a function or a global declaration.
type Def interface {
	Node

	// Name returns the name the definition defines.
	Name() string

	isDef()
}

// Stmt is any node that may appear in a statement chain.
type Stmt interface {
	Node
	isStmt()
}

// Expr is any node that produces a value.
type Expr interface {
	Node
	isExpr()
}

// Chain is a sequence of statements threaded through successor links.  A chain
// is either a *Link holding a statement and the rest of the chain or the *End
// sentinel.  Every chain ends with an *End: there are no nil chains.
type Chain interface {
	Node
	isChain()
}

// Link is one cell of a statement chain.
type Link struct {
	// The statement held by this cell.
	Stmt Stmt

	// The successor of Stmt: the next statement in sequence in the same block.
	Next Chain
}

func (l *Link) Span() *report.TextSpan {
	return l.Stmt.Span()
}

func (*Link) isChain() {}

// End is the terminator sentinel.  It ends every chain and stands for a missing
// else branch.
type End struct {
	ASTBase
}

func (*End) isChain() {}
func (*End) isStmt()  {}

// NewChain threads the given statements into a chain ending in an *End.
func NewChain(stmts ...Stmt) Chain {
	var chain Chain = &End{}
	for i := len(stmts) - 1; i >= 0; i-- {
		chain = &Link{Stmt: stmts[i], Next: chain}
	}

	return chain
}

// Stmts flattens a chain into a slice of its statements.
func Stmts(chain Chain) []Stmt {
	var stmts []Stmt
	for {
		link, ok := chain.(*Link)
		if !ok {
			return stmts
		}

		stmts = append(stmts, link.Stmt)
		chain = link.Next
	}
}

// IsEnd returns whether the chain is the terminator sentinel.
func IsEnd(chain Chain) bool {
	_, ok := chain.(*End)
	return ok
}
