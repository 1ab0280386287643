package lower

import (
	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/enum"
	"github.com/llir/llvm/ir/value"
)

// Builder is the IR construction capability the lowerer drives.  All values
// are 64-bit words: functions take and return i64, storage cells hold i64 and
// comparisons are widened back to i64.  Instructions are appended at the
// current insertion point except for allocas, which are always placed in the
// entry block of the function being built.
type Builder interface {
	// NewFunc defines a function with one word parameter per name.
	NewFunc(name string, params ...string) *ir.Func

	// NewExternFunc declares a function defined outside of the module.
	NewExternFunc(name string, nparams int) *ir.Func

	// NewGlobal defines a word sized global initialized to init.
	NewGlobal(name string, init int64) *ir.Global

	// NewExternGlobal declares a word sized global defined outside of the
	// module.
	NewExternGlobal(name string) *ir.Global

	// NewBlock appends a new basic block to fn.  It does not move the
	// insertion point.
	NewBlock(fn *ir.Func, name string) *ir.Block

	SetInsertPoint(block *ir.Block)
	InsertBlock() *ir.Block

	// Terminated returns whether the block at the insertion point already has
	// a terminator.
	Terminated() bool

	Int(x int64) value.Value

	Add(x, y value.Value) value.Value
	Sub(x, y value.Value) value.Value
	Mul(x, y value.Value) value.Value
	SDiv(x, y value.Value) value.Value

	// ICmp compares two words producing an i1.
	ICmp(pred enum.IPred, x, y value.Value) value.Value

	// ZExt widens an i1 to a word.
	ZExt(x value.Value) value.Value

	// Alloca allocates a single word cell in the entry block.
	Alloca() value.Value

	// AllocaVector allocates n contiguous word cells in the entry block.
	AllocaVector(n int64) value.Value

	Load(ptr value.Value) value.Value
	Store(v, ptr value.Value)

	// IntToPtr converts a word address into a pointer to a word cell.
	IntToPtr(x value.Value) value.Value

	// PtrToInt converts a pointer into a word address.
	PtrToInt(ptr value.Value) value.Value

	Br(target *ir.Block)
	CondBr(cond value.Value, ifTrue, ifFalse *ir.Block)
	Ret(v value.Value)
	Call(fn *ir.Func, args ...value.Value) value.Value
}
