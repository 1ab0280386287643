package ast

// Enumeration of variable storage classes.
const (
	VarAuto   = iota // Stack allocated local variable.
	VarExtern        // Reference to a module-level variable.
)

// VarDecl represents an `auto` or `extrn` declaration.
type VarDecl struct {
	ASTBase

	// The storage class of the declaration.  This must be one of the
	// enumerated storage classes.
	Kind int

	// The variables introduced by the declaration in order.
	Vars []*VarIntro
}

// VarIntro introduces a single variable name.
type VarIntro struct {
	ASTBase

	// The name of the variable.
	Name string

	// The storage class of the variable.
	Kind int

	// The vector size of the variable: `auto v[10]`.  This is nil for scalar
	// variables.
	Size Expr
}

// Assign represents an assignment to a named variable.
type Assign struct {
	ASTBase

	// The variable being assigned to.
	Name string

	// The value being assigned.
	Value Expr
}

// IndexAssign represents an assignment to a vector element: `v[i] = x`.
type IndexAssign struct {
	ASTBase

	Vector, Index Expr

	// The value being assigned.
	Value Expr
}

// While represents a while loop.
type While struct {
	ASTBase

	Cond Expr
	Body Chain
}

// If represents an if statement.  Else is an *End if there is no else branch.
type If struct {
	ASTBase

	Cond Expr
	Then Chain
	Else Chain
}

// Label represents a label definition.
type Label struct {
	ASTBase

	Name string
}

// Goto represents a goto statement.
type Goto struct {
	ASTBase

	// The name of the target label.
	Label string
}

// Return represents a return statement.
type Return struct {
	ASTBase

	// The returned value.  This may be nil.
	Value Expr
}

// ExprStmt represents an expression evaluated for its side effects.
type ExprStmt struct {
	ASTBase

	Expr Expr
}

func (*VarDecl) isStmt()     {}
func (*VarIntro) isStmt()    {}
func (*Assign) isStmt()      {}
func (*IndexAssign) isStmt() {}
func (*While) isStmt()       {}
func (*If) isStmt()          {}
func (*Label) isStmt()       {}
func (*Goto) isStmt()        {}
func (*Return) isStmt()      {}
func (*ExprStmt) isStmt()    {}
