package ast

// FuncDef represents a function definition.
type FuncDef struct {
	ASTBase

	// The name of the function.
	FuncName string

	// The names of the function's parameters in order.
	Params []string

	// The statements of the function body.
	Body Chain
}

func (fd *FuncDef) Name() string { return fd.FuncName }
func (*FuncDef) isDef()          {}

// GlobalDecl represents a global (external) variable definition.
type GlobalDecl struct {
	ASTBase

	// The name of the global.
	GlobalName string

	// The initializer list of the global.  This may be empty.
	Inits []Expr
}

func (gd *GlobalDecl) Name() string { return gd.GlobalName }
func (*GlobalDecl) isDef()          {}
