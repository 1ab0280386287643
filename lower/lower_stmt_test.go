package lower

import (
	"strings"
	"testing"

	"bcc/ast"
	"bcc/llvm"
	"bcc/syntax"

	"github.com/llir/llvm/ir"
	"github.com/nalgeon/be"
)

// lowerMain lowers the registry parsed from src and returns the function
// lowerer used for main.
func lowerMain(t *testing.T, src string) (*funcLowerer, *ir.Func) {
	t.Helper()

	reg, err := syntax.Parse(strings.NewReader(src))
	be.Err(t, err, nil)

	l := newLowerer(reg, llvm.NewBuilder("test.b"))
	l.declareDefs()

	fd, ok := reg.Func("main")
	be.True(t, ok)

	fl := newFuncLowerer(l, fd)
	fl.lowerFunc()

	return fl, fl.fn
}

func TestBindingRoundTrip(t *testing.T) {
	for _, n := range []int{1, 2, 5} {
		var stmts []ast.Stmt
		for i := 0; i < n; i++ {
			name := string(rune('a' + i))
			stmts = append(stmts, &ast.VarDecl{
				Kind: ast.VarAuto,
				Vars: []*ast.VarIntro{{Name: name, Kind: ast.VarAuto}},
			})
		}
		for i := 0; i < n; i++ {
			stmts = append(stmts, &ast.Assign{Name: string(rune('a' + i)), Value: &ast.IntLit{Value: int64(i)}})
		}

		reg := ast.NewRegistry()
		fd := &ast.FuncDef{FuncName: "main", Body: ast.NewChain(stmts...)}
		reg.Append(fd)

		l := newLowerer(reg, llvm.NewBuilder("test.b"))
		l.declareDefs()
		fl := newFuncLowerer(l, fd)
		fl.lowerFunc()

		be.Equal(t, len(fl.bindings), n)

		var stores []*ir.InstStore
		for _, inst := range fl.fn.Blocks[0].Insts {
			if store, ok := inst.(*ir.InstStore); ok {
				stores = append(stores, store)
			}
		}

		be.Equal(t, len(stores), n)
		for i, store := range stores {
			be.True(t, store.Dst == fl.bindings[string(rune('a'+i))].ptr)
		}
	}
}

func TestRedeclarationReplacesBinding(t *testing.T) {
	fl, _ := lowerMain(t, "main() { auto x; auto x; x = 1; }")
	be.Equal(t, len(fl.bindings), 1)

	result, _ := run(t, "g 7; main() { auto g; g = 1; extrn g; return (g); }")
	be.Equal(t, result, int64(7))
}

// successors returns the blocks a block's terminator branches to.
func successors(block *ir.Block) []*ir.Block {
	switch term := block.Term.(type) {
	case *ir.TermBr:
		return []*ir.Block{asBlock(term.Target)}
	case *ir.TermCondBr:
		return []*ir.Block{asBlock(term.TargetTrue), asBlock(term.TargetFalse)}
	}

	return nil
}

func asBlock(v interface{}) *ir.Block {
	block, _ := v.(*ir.Block)
	return block
}

func TestIfWithoutElse(t *testing.T) {
	_, fn := lowerMain(t, "main() { auto x; x = 1; if (x) x = 2; return (x); }")

	// entry, then, merge
	be.Equal(t, len(fn.Blocks), 3)

	then, merge := fn.Blocks[1], fn.Blocks[2]
	be.Equal(t, successors(fn.Blocks[0]), []*ir.Block{then, merge})
	be.Equal(t, successors(then), []*ir.Block{merge})

	result, _ := run(t, "main() { auto x; x = 1; if (x) x = 2; return (x); }")
	be.Equal(t, result, int64(2))
}

func TestIfWithElse(t *testing.T) {
	src := "main() { auto x; x = 0; if (x) x = 2; else x = 3; return (x); }"
	_, fn := lowerMain(t, src)

	// entry, then, else, merge
	be.Equal(t, len(fn.Blocks), 4)

	then, els, merge := fn.Blocks[1], fn.Blocks[2], fn.Blocks[3]
	be.Equal(t, successors(fn.Blocks[0]), []*ir.Block{then, els})
	be.Equal(t, successors(then), []*ir.Block{merge})
	be.Equal(t, successors(els), []*ir.Block{merge})

	result, _ := run(t, src)
	be.Equal(t, result, int64(3))
}

func TestIfBranchesThatReturn(t *testing.T) {
	src := "main() { auto x; x = 4; if (x > 3) return (1); else return (2); }"
	_, fn := lowerMain(t, src)

	be.Equal(t, len(fn.Blocks), 4)

	then, els := fn.Blocks[1], fn.Blocks[2]
	_, ok := then.Term.(*ir.TermRet)
	be.True(t, ok)
	_, ok = els.Term.(*ir.TermRet)
	be.True(t, ok)

	result, _ := run(t, src)
	be.Equal(t, result, int64(1))
}

func TestWhileEvaluatesConditionTwice(t *testing.T) {
	_, fn := lowerMain(t, "main() { auto i; i = 0; while (i < 3) i++; return (i); }")

	// entry, body, end
	be.Equal(t, len(fn.Blocks), 3)

	body, end := fn.Blocks[1], fn.Blocks[2]
	be.Equal(t, successors(fn.Blocks[0]), []*ir.Block{body, end})
	be.Equal(t, successors(body), []*ir.Block{body, end})

	// the condition has side effects, so the count of calls shows how often it
	// is evaluated: once before entry and once per iteration
	result, out := run(t, `
tick() {
	extrn ticks;
	ticks++;
	return (ticks <= 3);
}

ticks;

main() {
	extrn ticks;
	while (tick()) putchar('.');
	return (ticks);
}
`)
	be.Equal(t, out, "...")
	be.Equal(t, result, int64(4))
}

func TestGotoTargetsLabelBlock(t *testing.T) {
	fl, fn := lowerMain(t, `
main() {
	auto i;
	i = 0;
loop:
	i++;
	if (i < 10) goto loop;
	return (i);
}
`)

	lbl := fl.labels["loop"]
	be.True(t, lbl != nil)
	be.True(t, lbl.defined)

	var gotos int
	for _, block := range fn.Blocks {
		if br, ok := block.Term.(*ir.TermBr); ok && block != fn.Blocks[0] {
			be.True(t, asBlock(br.Target) == lbl.block)
			gotos++
		}
	}
	be.Equal(t, gotos, 1)

	// the entry block falls through into the label
	be.Equal(t, successors(fn.Blocks[0]), []*ir.Block{lbl.block})

	result, _ := run(t, "main() { auto i; i = 0; loop: i++; if (i < 10) goto loop; return (i); }")
	be.Equal(t, result, int64(10))
}

func TestForwardGoto(t *testing.T) {
	fl, fn := lowerMain(t, `
main() {
	auto x;
	x = 1;
	goto skip;
	x = 2;
skip:
	return (x);
}
`)

	lbl := fl.labels["skip"]
	br, ok := fn.Blocks[0].Term.(*ir.TermBr)
	be.True(t, ok)
	be.True(t, asBlock(br.Target) == lbl.block)

	// the dead assignment is not lowered
	for _, block := range fn.Blocks {
		be.True(t, !strings.HasPrefix(block.Name(), "dead."))
	}

	result, _ := run(t, "main() { auto x; x = 1; goto skip; x = 2; skip: return (x); }")
	be.Equal(t, result, int64(1))
}

func TestDeadCodeReachableThroughLabel(t *testing.T) {
	result, _ := run(t, `
main() {
	auto n;
	n = 0;
	goto start;
	while (1) {
		n = n + 100;
	again:
		n++;
		if (n > 5) return (n);
	}
start:
	goto again;
}
`)
	be.Equal(t, result, int64(102))
}

func TestDeadCodeAfterReturnIsDropped(t *testing.T) {
	_, fn := lowerMain(t, "main() { return (1); putchar('x'); return (2); }")

	be.Equal(t, len(fn.Blocks), 1)
	be.Equal(t, len(fn.Blocks[0].Insts), 0)
}

func TestLabelErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		msg  string
	}{
		{"undefined", "main() goto nowhere;", "undefined label `nowhere` in function `main`"},
		{"redefined", "main() { a: ; a: ; }", "label `a` redefined in function `main`"},
		{"other function", "f() { a: ; } main() goto a;", "undefined label `a`"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := lowerSource(t, tt.src)
			be.Err(t, err, tt.msg)
		})
	}
}

func TestReturnFlagFollowsPath(t *testing.T) {
	fl, fn := lowerMain(t, "main() { auto x; x = 1; }")
	be.True(t, !fl.returned)
	_, ok := fn.Blocks[0].Term.(*ir.TermRet)
	be.True(t, ok)

	fl, _ = lowerMain(t, "main() return (1);")
	be.True(t, fl.returned)

	// the return is on the then path only: the merge block returns 0
	fl, fn = lowerMain(t, "main() { if (1) return (2); }")
	be.True(t, !fl.returned)
	be.Equal(t, len(fn.Blocks), 3)
	_, ok = fn.Blocks[2].Term.(*ir.TermRet)
	be.True(t, ok)

	// a function ending in a goto gets no implicit return
	_, fn = lowerMain(t, "main() { top: goto top; }")
	_, ok = fn.Blocks[len(fn.Blocks)-1].Term.(*ir.TermBr)
	be.True(t, ok)

	result, _ := run(t, "main() { if (1) return; return (5); }")
	be.Equal(t, result, int64(0))
}

func TestDeclarationsAfterGoto(t *testing.T) {
	result, _ := run(t, "main() { goto skip; auto x; skip: x = 1; return (x); }")
	be.Equal(t, result, int64(1))

	result, _ = run(t, `
main() {
	goto skip;
	auto v[3];
	extrn total;
skip:
	v[2] = 7;
	total = v[2] + 1;
	return (total);
}

total;
`)
	be.Equal(t, result, int64(8))

	// declarations nested in a skipped statement bind their names too
	result, _ = run(t, `
main() {
	auto r;
	r = 3;
	goto skip;
	if (r) {
		auto y;
	}
skip:
	y = r * 2;
	return (y);
}
`)
	be.Equal(t, result, int64(6))
}

func TestDeclarationsAfterGotoStayOutOfDeadBlocks(t *testing.T) {
	_, fn := lowerMain(t, "main() { goto skip; auto v[2]; skip: return (v); }")

	// no dead block: entry and the label block
	be.Equal(t, len(fn.Blocks), 2)

	// the vector's address is stored in the entry block
	var stores int
	for _, inst := range fn.Blocks[0].Insts {
		if _, ok := inst.(*ir.InstStore); ok {
			stores++
		}
	}
	be.Equal(t, stores, 1)
	_, ok := fn.Blocks[0].Term.(*ir.TermBr)
	be.True(t, ok)
}
