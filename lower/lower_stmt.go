package lower

import (
	"bcc/ast"
	"bcc/report"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/enum"
	"github.com/llir/llvm/ir/value"
)

// lowerChain lowers a chain of statements at the current insertion point.
// Statements following a terminator are unreachable: a statement is skipped
// unless a label inside it can make it reachable again, in which case it is
// lowered into a fresh block.  The declarations of a skipped statement are
// still lowered since the names they bind are visible after a later label.
func (fl *funcLowerer) lowerChain(chain ast.Chain) {
	b := fl.l.b

	for _, stmt := range ast.Stmts(chain) {
		if b.Terminated() {
			if _, isLabel := stmt.(*ast.Label); !isLabel {
				if !containsLabel(stmt) {
					fl.lowerDecls(stmt)
					continue
				}

				fl.moveTo(fl.newBlock("dead."))
			}
		}

		fl.lowerStmt(stmt)
	}
}

// lowerDecls lowers only the variable declarations in and nested inside stmt.
// Declarations emit nothing at the insertion point.
func (fl *funcLowerer) lowerDecls(stmt ast.Stmt) {
	switch v := stmt.(type) {
	case *ast.VarDecl, *ast.VarIntro:
		fl.lowerStmt(v)
	case *ast.While:
		fl.lowerChainDecls(v.Body)
	case *ast.If:
		fl.lowerChainDecls(v.Then)
		fl.lowerChainDecls(v.Else)
	}
}

func (fl *funcLowerer) lowerChainDecls(chain ast.Chain) {
	for _, stmt := range ast.Stmts(chain) {
		fl.lowerDecls(stmt)
	}
}

// moveTo makes block the insertion point.  A new block starts a new path on
// which no return has been lowered yet.
func (fl *funcLowerer) moveTo(block *ir.Block) {
	fl.l.b.SetInsertPoint(block)
	fl.returned = false
}

// lowerStmt lowers a single statement.
func (fl *funcLowerer) lowerStmt(stmt ast.Stmt) {
	b := fl.l.b

	switch v := stmt.(type) {
	case *ast.VarDecl:
		for _, vi := range v.Vars {
			fl.lowerVarIntro(vi)
		}
	case *ast.VarIntro:
		fl.lowerVarIntro(v)
	case *ast.Assign:
		val := fl.lowerExpr(v.Value)
		b.Store(val, fl.storage(v.Name, v.Span()))
	case *ast.IndexAssign:
		ptr := fl.lowerElemPtr(v.Vector, v.Index)
		b.Store(fl.lowerExpr(v.Value), ptr)
	case *ast.While:
		fl.lowerWhile(v)
	case *ast.If:
		fl.lowerIf(v)
	case *ast.Label:
		fl.lowerLabel(v)
	case *ast.Goto:
		lbl := fl.labelBlock(v.Label)
		if lbl.firstUse == nil {
			lbl.firstUse = v.Span()
		}

		b.Br(lbl.block)
	case *ast.Return:
		if v.Value == nil {
			b.Ret(b.Int(0))
		} else {
			b.Ret(fl.lowerExpr(v.Value))
		}

		fl.returned = true
	case *ast.IncDec:
		fl.lowerIncDec(v)
	case *ast.ExprStmt:
		fl.lowerExpr(v.Expr)
	case *ast.End:
		// nothing to lower
	default:
		panic(report.Raise(stmt.Span(), "unknown statement: %T", stmt))
	}
}

// lowerVarIntro lowers the introduction of a single auto or extrn variable.
func (fl *funcLowerer) lowerVarIntro(vi *ast.VarIntro) {
	b := fl.l.b

	if vi.Kind == ast.VarExtern {
		fl.bindExtern(vi.Name)
		return
	}

	ptr := b.Alloca()
	if vi.Size != nil {
		n := fl.l.constExpr(vi.Size, "vector size")
		if n <= 0 {
			panic(report.Raise(vi.Size.Span(), "invalid size %d for vector `%s`", n, vi.Name))
		}

		// the variable holds the address of its first element.  The address
		// is stored in the entry block so that it is set on every path.
		cur := b.InsertBlock()
		b.SetInsertPoint(fl.fn.Blocks[0])
		b.Store(b.PtrToInt(b.AllocaVector(n)), ptr)
		b.SetInsertPoint(cur)
	}

	fl.bindLocal(vi.Name, ptr)
}

// lowerWhile lowers a while loop.  The condition is tested before entering the
// loop and again at the end of each iteration.
func (fl *funcLowerer) lowerWhile(w *ast.While) {
	b := fl.l.b

	body := fl.newBlock("while.body")
	end := fl.newBlock("while.end")

	b.CondBr(fl.lowerCond(w.Cond), body, end)

	fl.moveTo(body)
	fl.lowerChain(w.Body)

	if !b.Terminated() {
		b.CondBr(fl.lowerCond(w.Cond), body, end)
	}

	fl.moveTo(end)
}

// lowerIf lowers an if statement with or without an else branch.
func (fl *funcLowerer) lowerIf(is *ast.If) {
	b := fl.l.b

	cond := fl.lowerCond(is.Cond)

	then := fl.newBlock("if.then")
	if ast.IsEnd(is.Else) {
		end := fl.newBlock("if.end")
		b.CondBr(cond, then, end)

		fl.lowerBranch(then, is.Then, end)
		fl.moveTo(end)
		return
	}

	els := fl.newBlock("if.else")
	end := fl.newBlock("if.end")
	b.CondBr(cond, then, els)

	fl.lowerBranch(then, is.Then, end)
	fl.lowerBranch(els, is.Else, end)
	fl.moveTo(end)
}

// lowerBranch lowers chain into block falling through to end if the branch
// does not terminate itself.
func (fl *funcLowerer) lowerBranch(block *ir.Block, chain ast.Chain, end *ir.Block) {
	b := fl.l.b

	fl.moveTo(block)
	fl.lowerChain(chain)

	if !b.Terminated() {
		b.Br(end)
	}
}

// lowerLabel lowers a label definition: the label's block becomes the
// insertion point and the current block falls through into it.
func (fl *funcLowerer) lowerLabel(lb *ast.Label) {
	b := fl.l.b

	lbl := fl.labelBlock(lb.Name)
	if lbl.defined {
		panic(report.Raise(lb.Span(), "label `%s` redefined in function `%s`", lb.Name, fl.fd.FuncName))
	}
	lbl.defined = true

	if !b.Terminated() {
		b.Br(lbl.block)
	}

	fl.moveTo(lbl.block)
}

// lowerCond lowers a condition producing the i1 `cond != 0`.
func (fl *funcLowerer) lowerCond(cond ast.Expr) value.Value {
	b := fl.l.b
	return b.ICmp(enum.IPredNE, fl.lowerExpr(cond), b.Int(0))
}

// -----------------------------------------------------------------------------

// containsLabel returns whether a label is defined by stmt or anywhere inside
// the bodies nested in it.
func containsLabel(stmt ast.Stmt) bool {
	switch v := stmt.(type) {
	case *ast.Label:
		return true
	case *ast.While:
		return chainContainsLabel(v.Body)
	case *ast.If:
		return chainContainsLabel(v.Then) || chainContainsLabel(v.Else)
	}

	return false
}

func chainContainsLabel(chain ast.Chain) bool {
	for _, stmt := range ast.Stmts(chain) {
		if containsLabel(stmt) {
			return true
		}
	}

	return false
}
