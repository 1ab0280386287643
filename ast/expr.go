package ast

// Oper is the kind of a binary or unary operator.
type Oper int

// Enumeration of operators.
const (
	OpAdd Oper = iota
	OpSub
	OpMul
	OpDiv
	OpGtEq
	OpLtEq
	OpGt
	OpLt
	OpEq
	OpNEq

	OpNot
	OpNeg
)

var operNames = [...]string{
	OpAdd:  "+",
	OpSub:  "-",
	OpMul:  "*",
	OpDiv:  "/",
	OpGtEq: ">=",
	OpLtEq: "<=",
	OpGt:   ">",
	OpLt:   "<",
	OpEq:   "==",
	OpNEq:  "!=",
	OpNot:  "!",
	OpNeg:  "-",
}

func (op Oper) String() string {
	if int(op) < len(operNames) {
		return operNames[op]
	}

	return "?"
}

// IsComparison returns whether the operator produces a boolean.
func (op Oper) IsComparison() bool {
	return OpGtEq <= op && op <= OpNEq
}

// BinaryOp represents a binary arithmetic or comparison operation.
type BinaryOp struct {
	ASTBase

	Op       Oper
	Lhs, Rhs Expr
}

// UnaryOp represents logical not or negation.
type UnaryOp struct {
	ASTBase

	Op      Oper
	Operand Expr
}

// IncDec represents an increment or decrement of a named variable.  Both the
// prefix and postfix spellings produce the same node.  It is both an expression
// and a statement.
type IncDec struct {
	ASTBase

	Name string

	// Whether this is a decrement.
	Dec bool
}

// IntLit represents an integer or character constant.
type IntLit struct {
	ASTBase

	Value int64
}

// Ident represents a reference to a variable.
type Ident struct {
	ASTBase

	Name string
}

// Call represents a function call.
type Call struct {
	ASTBase

	// The name of the function being called.
	Func string

	Args []Expr
}

// Index represents a vector element reference: `v[i]`.
type Index struct {
	ASTBase

	Vector, Index Expr
}

func (*BinaryOp) isExpr() {}
func (*UnaryOp) isExpr()  {}
func (*IncDec) isExpr()   {}
func (*IntLit) isExpr()   {}
func (*Ident) isExpr()    {}
func (*Call) isExpr()     {}
func (*Index) isExpr()    {}

func (*IncDec) isStmt() {}
