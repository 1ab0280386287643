package ast

import (
	"fmt"
	"io"
	"strings"
)

// Fprint writes an indented dump of every definition in the registry to w.
func Fprint(w io.Writer, r *Registry) error {
	p := &printer{}
	for _, def := range r.defs {
		p.node(def, 0)
	}

	_, err := io.WriteString(w, p.sb.String())
	return err
}

// Sprint returns the dump of a single node.
func Sprint(n Node) string {
	p := &printer{}
	p.node(n, 0)
	return p.sb.String()
}

type printer struct {
	sb strings.Builder
}

func (p *printer) line(depth int, format string, args ...interface{}) {
	p.sb.WriteString(strings.Repeat("\t", depth))
	fmt.Fprintf(&p.sb, format, args...)
	p.sb.WriteByte('\n')
}

func (p *printer) chain(c Chain, depth int) {
	for _, stmt := range Stmts(c) {
		p.node(stmt, depth)
	}
}

func (p *printer) node(n Node, depth int) {
	switch v := n.(type) {
	case *FuncDef:
		p.line(depth, "func %s(%s)", v.FuncName, strings.Join(v.Params, ", "))
		p.chain(v.Body, depth+1)
	case *GlobalDecl:
		p.line(depth, "global %s", v.GlobalName)
		for _, init := range v.Inits {
			p.node(init, depth+1)
		}
	case *VarDecl:
		if v.Kind == VarAuto {
			p.line(depth, "auto")
		} else {
			p.line(depth, "extrn")
		}

		for _, vi := range v.Vars {
			p.node(vi, depth+1)
		}
	case *VarIntro:
		p.line(depth, "var %s", v.Name)
		if v.Size != nil {
			p.node(v.Size, depth+1)
		}
	case *Assign:
		p.line(depth, "assign %s", v.Name)
		p.node(v.Value, depth+1)
	case *IndexAssign:
		p.line(depth, "index-assign")
		p.node(v.Vector, depth+1)
		p.node(v.Index, depth+1)
		p.node(v.Value, depth+1)
	case *While:
		p.line(depth, "while")
		p.node(v.Cond, depth+1)
		p.line(depth+1, "body")
		p.chain(v.Body, depth+2)
	case *If:
		p.line(depth, "if")
		p.node(v.Cond, depth+1)
		p.line(depth+1, "then")
		p.chain(v.Then, depth+2)
		if !IsEnd(v.Else) {
			p.line(depth+1, "else")
			p.chain(v.Else, depth+2)
		}
	case *Label:
		p.line(depth, "label %s", v.Name)
	case *Goto:
		p.line(depth, "goto %s", v.Label)
	case *Return:
		p.line(depth, "return")
		if v.Value != nil {
			p.node(v.Value, depth+1)
		}
	case *ExprStmt:
		p.line(depth, "expr")
		p.node(v.Expr, depth+1)
	case *BinaryOp:
		p.line(depth, "binary %s", v.Op)
		p.node(v.Lhs, depth+1)
		p.node(v.Rhs, depth+1)
	case *UnaryOp:
		p.line(depth, "unary %s", v.Op)
		p.node(v.Operand, depth+1)
	case *IncDec:
		if v.Dec {
			p.line(depth, "dec %s", v.Name)
		} else {
			p.line(depth, "inc %s", v.Name)
		}
	case *IntLit:
		p.line(depth, "int %d", v.Value)
	case *Ident:
		p.line(depth, "ident %s", v.Name)
	case *Call:
		p.line(depth, "call %s", v.Func)
		for _, arg := range v.Args {
			p.node(arg, depth+1)
		}
	case *Index:
		p.line(depth, "index")
		p.node(v.Vector, depth+1)
		p.node(v.Index, depth+1)
	case *End:
		// nothing to print
	default:
		p.line(depth, "unknown node %T", n)
	}
}
