package ast

import (
	"bytes"
	"testing"

	"github.com/nalgeon/be"
)

func TestNewChainEndsInSentinel(t *testing.T) {
	a := &Label{Name: "a"}
	b := &Goto{Label: "a"}

	chain := NewChain(a, b)

	stmts := Stmts(chain)
	be.Equal(t, len(stmts), 2)
	be.Equal(t, stmts[0], Stmt(a))
	be.Equal(t, stmts[1], Stmt(b))

	last := chain.(*Link).Next.(*Link).Next
	be.True(t, IsEnd(last))
}

func TestEmptyChain(t *testing.T) {
	chain := NewChain()
	be.True(t, IsEnd(chain))
	be.Equal(t, len(Stmts(chain)), 0)
}

func TestRegistryKeepsOrder(t *testing.T) {
	r := NewRegistry()
	r.Append(&GlobalDecl{GlobalName: "g"})
	r.Append(&FuncDef{FuncName: "f", Body: NewChain()})
	r.Append(&FuncDef{FuncName: "main", Body: NewChain()})

	be.Equal(t, r.Len(), 3)

	var names []string
	for _, def := range r.Defs() {
		names = append(names, def.Name())
	}
	be.Equal(t, names, []string{"g", "f", "main"})

	mainDef, ok := r.Func("main")
	be.True(t, ok)
	be.Equal(t, mainDef.FuncName, "main")

	_, ok = r.Func("g")
	be.Equal(t, ok, false)
}

func TestFprint(t *testing.T) {
	r := NewRegistry()
	r.Append(&GlobalDecl{GlobalName: "limit", Inits: []Expr{&IntLit{Value: 10}}})
	r.Append(&FuncDef{
		FuncName: "main",
		Params:   []string{"a", "b"},
		Body: NewChain(
			&VarDecl{Kind: VarAuto, Vars: []*VarIntro{{Name: "x", Kind: VarAuto}}},
			&Assign{Name: "x", Value: &BinaryOp{Op: OpAdd, Lhs: &Ident{Name: "a"}, Rhs: &IntLit{Value: 1}}},
			&If{
				Cond: &UnaryOp{Op: OpNot, Operand: &Ident{Name: "x"}},
				Then: NewChain(&IncDec{Name: "x"}),
				Else: &End{},
			},
			&Return{Value: &Ident{Name: "x"}},
		),
	})

	var buf bytes.Buffer
	be.Err(t, Fprint(&buf, r), nil)

	want := `global limit
	int 10
func main(a, b)
	auto
		var x
	assign x
		binary +
			ident a
			int 1
	if
		unary !
			ident x
		then
			inc x
	return
		ident x
`
	be.Equal(t, buf.String(), want)
}
