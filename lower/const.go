package lower

import (
	"bcc/ast"
	"bcc/report"
)

// constExpr evaluates an expression which must be constant.  what names the
// construct requiring the constant for error messages.
func (l *Lowerer) constExpr(expr ast.Expr, what string) int64 {
	switch v := expr.(type) {
	case *ast.IntLit:
		return v.Value
	case *ast.UnaryOp:
		x := l.constExpr(v.Operand, what)
		if v.Op == ast.OpNeg {
			return -x
		}

		return boolWord(x == 0)
	case *ast.BinaryOp:
		x, y := l.constExpr(v.Lhs, what), l.constExpr(v.Rhs, what)

		switch v.Op {
		case ast.OpAdd:
			return x + y
		case ast.OpSub:
			return x - y
		case ast.OpMul:
			return x * y
		case ast.OpDiv:
			if y == 0 {
				panic(report.Raise(v.Span(), "division by zero in %s", what))
			}

			return x / y
		case ast.OpGtEq:
			return boolWord(x >= y)
		case ast.OpLtEq:
			return boolWord(x <= y)
		case ast.OpGt:
			return boolWord(x > y)
		case ast.OpLt:
			return boolWord(x < y)
		case ast.OpEq:
			return boolWord(x == y)
		case ast.OpNEq:
			return boolWord(x != y)
		}
	}

	panic(report.Raise(expr.Span(), "%s must be a constant expression", what))
}

func boolWord(b bool) int64 {
	if b {
		return 1
	}

	return 0
}
