package lower

import (
	"bcc/report"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/value"
)

// binding is the storage a name is bound to within a function.
type binding struct {
	// ptr is the word cell holding the variable's value.  It is nil for an
	// external variable whose global has not been needed yet.
	ptr value.Value

	// extern is the name of the module level variable this binding refers to.
	// It is empty for local variables.
	extern string
}

// label is an entry in a function's label table.
type label struct {
	// block is the basic block the label begins.
	block *ir.Block

	// defined indicates whether the label statement itself has been lowered.
	// A label that is only referenced by a forward goto is not yet defined.
	defined bool

	// firstUse is the span of the first goto referring to the label.
	firstUse *report.TextSpan
}

// bindLocal binds a name to a local storage cell.  Rebinding a name replaces
// the previous binding.
func (fl *funcLowerer) bindLocal(name string, ptr value.Value) {
	fl.bindings[name] = &binding{ptr: ptr}
}

// bindExtern binds a name to the module level variable of the same name.
func (fl *funcLowerer) bindExtern(name string) {
	fl.bindings[name] = &binding{extern: name}
}

// storage returns the word cell a name is bound to.  External globals are
// declared the first time their storage is needed.
func (fl *funcLowerer) storage(name string, span *report.TextSpan) value.Value {
	bind, ok := fl.bindings[name]
	if !ok {
		panic(report.Raise(span, "undefined variable: `%s`", name))
	}

	if bind.ptr == nil {
		if fl.isFunc(bind.extern) {
			panic(report.Raise(span, "function `%s` cannot be used as a variable", bind.extern))
		}

		bind.ptr = fl.l.global(bind.extern)
	}

	return bind.ptr
}

// isFunc returns whether name is a function defined in the module or an
// external function that has already been called.
func (fl *funcLowerer) isFunc(name string) bool {
	if _, ok := fl.l.funcs[name]; ok {
		return true
	}

	_, ok := fl.l.externFuncs[name]
	return ok
}

// labelBlock returns the block of the named label, creating it if the label
// has not been seen yet.
func (fl *funcLowerer) labelBlock(name string) *label {
	if lbl, ok := fl.labels[name]; ok {
		return lbl
	}

	lbl := &label{block: fl.l.b.NewBlock(fl.fn, "label."+name)}
	fl.labels[name] = lbl
	return lbl
}
