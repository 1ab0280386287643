package lower

import (
	"fmt"
	"sort"

	"bcc/ast"
	"bcc/report"

	"github.com/llir/llvm/ir"
)

// funcLowerer holds the state of lowering a single function body.
type funcLowerer struct {
	l *Lowerer

	fd *ast.FuncDef
	fn *ir.Func

	// bindings is the function's binding table.  It is flat: a declaration
	// anywhere in the function is visible to every statement lowered after it.
	bindings map[string]*binding

	// labels is the function's label table.
	labels map[string]*label

	// returned is set once a return statement has been lowered on the path
	// ending at the insertion point.  It is cleared whenever lowering moves
	// on to a new block.
	returned bool
}

func newFuncLowerer(l *Lowerer, fd *ast.FuncDef) *funcLowerer {
	return &funcLowerer{
		l:        l,
		fd:       fd,
		fn:       l.funcs[fd.FuncName],
		bindings: make(map[string]*binding),
		labels:   make(map[string]*label),
	}
}

// lowerFunc lowers the function's body into its IR function.
func (fl *funcLowerer) lowerFunc() {
	b := fl.l.b

	entry := b.NewBlock(fl.fn, "entry")
	b.SetInsertPoint(entry)

	// spill parameters so that they can be assigned to
	for i, name := range fl.fd.Params {
		ptr := b.Alloca()
		b.Store(fl.fn.Params[i], ptr)
		fl.bindLocal(name, ptr)
	}

	fl.lowerChain(fl.fd.Body)

	// implicit return: a path ending in a goto is terminated without having
	// returned
	if !fl.returned && !b.Terminated() {
		b.Ret(b.Int(0))
	}

	fl.checkLabels()
}

// checkLabels checks that every label referred to by a goto was defined.
func (fl *funcLowerer) checkLabels() {
	var undefined []string
	for name, lbl := range fl.labels {
		if !lbl.defined {
			undefined = append(undefined, name)
		}
	}

	if len(undefined) == 0 {
		return
	}

	// report the first undefined label deterministically
	sort.Strings(undefined)
	lbl := fl.labels[undefined[0]]
	panic(report.Raise(lbl.firstUse, "undefined label `%s` in function `%s`", undefined[0], fl.fd.FuncName))
}

// newBlock appends a generated block to the function.  User label blocks are
// all prefixed with `label.` which no generated kind uses.
func (fl *funcLowerer) newBlock(kind string) *ir.Block {
	return fl.l.b.NewBlock(fl.fn, fmt.Sprintf("%s%d", kind, len(fl.fn.Blocks)))
}
