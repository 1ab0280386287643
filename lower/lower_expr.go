package lower

import (
	"bcc/ast"
	"bcc/common"
	"bcc/report"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/enum"
	"github.com/llir/llvm/ir/value"
)

// comparePreds maps the comparison operators to their signed predicates.
var comparePreds = map[ast.Oper]enum.IPred{
	ast.OpGtEq: enum.IPredSGE,
	ast.OpLtEq: enum.IPredSLE,
	ast.OpGt:   enum.IPredSGT,
	ast.OpLt:   enum.IPredSLT,
	ast.OpEq:   enum.IPredEQ,
	ast.OpNEq:  enum.IPredNE,
}

// lowerExpr lowers an expression producing its word value.  Expression
// lowering never changes control flow.
func (fl *funcLowerer) lowerExpr(expr ast.Expr) value.Value {
	b := fl.l.b

	switch v := expr.(type) {
	case *ast.IntLit:
		return b.Int(v.Value)
	case *ast.Ident:
		return b.Load(fl.storage(v.Name, v.Span()))
	case *ast.BinaryOp:
		return fl.lowerBinaryOp(v)
	case *ast.UnaryOp:
		x := fl.lowerExpr(v.Operand)

		switch v.Op {
		case ast.OpNot:
			return b.ZExt(b.ICmp(enum.IPredEQ, x, b.Int(0)))
		case ast.OpNeg:
			return b.Sub(b.Int(0), x)
		}

		report.ReportICE("unary operator `%s` lowered as binary", v.Op)
	case *ast.IncDec:
		return fl.lowerIncDec(v)
	case *ast.Call:
		return fl.lowerCall(v)
	case *ast.Index:
		return b.Load(fl.lowerElemPtr(v.Vector, v.Index))
	}

	panic(report.Raise(expr.Span(), "unknown expression: %T", expr))
}

// lowerBinaryOp lowers a binary operator.  The left operand is always lowered
// before the right operand.
func (fl *funcLowerer) lowerBinaryOp(bop *ast.BinaryOp) value.Value {
	b := fl.l.b

	x := fl.lowerExpr(bop.Lhs)
	y := fl.lowerExpr(bop.Rhs)

	switch bop.Op {
	case ast.OpAdd:
		return b.Add(x, y)
	case ast.OpSub:
		return b.Sub(x, y)
	case ast.OpMul:
		return b.Mul(x, y)
	case ast.OpDiv:
		return b.SDiv(x, y)
	}

	pred, ok := comparePreds[bop.Op]
	if !ok {
		report.ReportICE("binary operator `%s` has no lowering", bop.Op)
	}

	return b.ZExt(b.ICmp(pred, x, y))
}

// lowerIncDec lowers an increment or decrement through the variable's storage.
// The result is the value the variable held before the update.
func (fl *funcLowerer) lowerIncDec(id *ast.IncDec) value.Value {
	b := fl.l.b

	ptr := fl.storage(id.Name, id.Span())
	old := b.Load(ptr)

	if id.Dec {
		updated := b.Sub(old, b.Int(1))
		b.Store(updated, ptr)
		return b.Add(updated, b.Int(1))
	}

	b.Store(b.Add(old, b.Int(1)), ptr)
	return old
}

// lowerCall lowers a function call.  Arguments are lowered left to right.
func (fl *funcLowerer) lowerCall(call *ast.Call) value.Value {
	args := make([]value.Value, len(call.Args))
	for i, arg := range call.Args {
		args[i] = fl.lowerExpr(arg)
	}

	return fl.l.b.Call(fl.callee(call), args...)
}

// callee resolves the function called by call.  Functions that are not defined
// in the module are declared as external with the arity of their first call.
func (fl *funcLowerer) callee(call *ast.Call) *ir.Func {
	l := fl.l

	if fn, ok := l.funcs[call.Func]; ok {
		if len(fn.Params) != len(call.Args) {
			panic(report.Raise(
				call.Span(),
				"function `%s` takes %d arguments but was called with %d",
				call.Func, len(fn.Params), len(call.Args),
			))
		}

		return fn
	}

	if _, ok := l.globals[call.Func]; ok {
		panic(report.Raise(call.Span(), "`%s` is a variable and cannot be called", call.Func))
	}

	if fn, ok := l.externFuncs[call.Func]; ok {
		if len(fn.Params) != len(call.Args) {
			panic(report.Raise(
				call.Span(),
				"external function `%s` called with %d arguments but previously with %d",
				call.Func, len(call.Args), len(fn.Params),
			))
		}

		return fn
	}

	fn := l.b.NewExternFunc(call.Func, len(call.Args))
	l.externFuncs[call.Func] = fn
	return fn
}

// lowerElemPtr computes a pointer to the element `vector[index]`.  The vector
// value is the word address of its first element.
func (fl *funcLowerer) lowerElemPtr(vector, index ast.Expr) value.Value {
	b := fl.l.b

	base := fl.lowerExpr(vector)
	offset := b.Mul(fl.lowerExpr(index), b.Int(common.WordSize))
	return b.IntToPtr(b.Add(base, offset))
}
