// Package lower converts a registry of B definitions into IR through a
// Builder.  Lowering is assumed to succeed: every error it detects is fatal
// and aborts the whole translation unit.
package lower

import (
	"bcc/ast"
	"bcc/common"
	"bcc/report"

	"github.com/llir/llvm/ir"
)

// Lowerer is responsible for converting the definitions of a registry into
// IR.  It lowers the registry into the single module owned by its builder.
type Lowerer struct {
	// b is the builder the IR is emitted through.
	b Builder

	// reg is the registry being lowered.
	reg *ast.Registry

	// funcs maps the names of the functions defined in the module to their IR
	// functions.
	funcs map[string]*ir.Func

	// externFuncs maps the names of called functions that are not defined in
	// the module to their declarations.
	externFuncs map[string]*ir.Func

	// globals maps the names of module level variables to their IR globals.
	// This includes external globals declared on first use.
	globals map[string]*ir.Global
}

// Lower lowers every definition in reg through b.  The returned error is the
// first fatal lowering error; when it is non-nil the builder's module is
// incomplete and must be discarded.
func Lower(reg *ast.Registry, b Builder) (err error) {
	defer report.CatchErrors(&err)

	newLowerer(reg, b).lowerModule()
	return nil
}

func newLowerer(reg *ast.Registry, b Builder) *Lowerer {
	return &Lowerer{
		b:           b,
		reg:         reg,
		funcs:       make(map[string]*ir.Func),
		externFuncs: make(map[string]*ir.Func),
		globals:     make(map[string]*ir.Global),
	}
}

// lowerModule runs the lowering algorithm.  No IR is emitted for a registry
// without an entry point.
func (l *Lowerer) lowerModule() {
	if _, ok := l.reg.Func(common.EntryPointName); !ok {
		panic(report.Raise(nil, "no entry point: function `%s` is not defined", common.EntryPointName))
	}

	l.declareDefs()

	for _, def := range l.reg.Defs() {
		if fd, ok := def.(*ast.FuncDef); ok {
			newFuncLowerer(l, fd).lowerFunc()
		}
	}
}

// declareDefs declares every definition of the registry so that function
// bodies can refer to definitions that appear after them.
func (l *Lowerer) declareDefs() {
	defined := make(map[string]struct{})
	for _, def := range l.reg.Defs() {
		if _, ok := defined[def.Name()]; ok {
			panic(report.Raise(def.Span(), "redefinition of `%s`", def.Name()))
		}
		defined[def.Name()] = struct{}{}

		switch v := def.(type) {
		case *ast.FuncDef:
			l.funcs[v.FuncName] = l.b.NewFunc(v.FuncName, v.Params...)
		case *ast.GlobalDecl:
			l.globals[v.GlobalName] = l.b.NewGlobal(v.GlobalName, l.globalInit(v))
		default:
			panic(report.Raise(def.Span(), "unrecognized top-level definition: %T", def))
		}
	}
}

// globalInit computes the initial value of a global declaration.
func (l *Lowerer) globalInit(gd *ast.GlobalDecl) int64 {
	switch len(gd.Inits) {
	case 0:
		return 0
	case 1:
		return l.constExpr(gd.Inits[0], "global initializer")
	default:
		panic(report.Raise(gd.Span(), "global vectors are not supported: `%s` has %d initializers", gd.GlobalName, len(gd.Inits)))
	}
}

// global returns the global named name, declaring it as external if it is not
// defined in the module.
func (l *Lowerer) global(name string) *ir.Global {
	if g, ok := l.globals[name]; ok {
		return g
	}

	g := l.b.NewExternGlobal(name)
	l.globals[name] = g
	return g
}
