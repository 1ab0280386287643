// Package llvm implements the lowering Builder on top of the llir LLVM IR
// library.
package llvm

import (
	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/enum"
	"github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"
)

// Builder builds a single LLVM module.
type Builder struct {
	// mod is the LLVM module being built.
	mod *ir.Module

	// block is the current insertion block.
	block *ir.Block
}

// NewBuilder creates a builder for a new module.  name is recorded as the
// module's source file name.
func NewBuilder(name string) *Builder {
	mod := ir.NewModule()
	mod.SourceFilename = name

	return &Builder{mod: mod}
}

// Module returns the module being built.
func (b *Builder) Module() *ir.Module {
	return b.mod
}

// -----------------------------------------------------------------------------

func (b *Builder) NewFunc(name string, params ...string) *ir.Func {
	irParams := make([]*ir.Param, len(params))
	for i, pname := range params {
		irParams[i] = ir.NewParam(pname, types.I64)
	}

	return b.mod.NewFunc(name, types.I64, irParams...)
}

func (b *Builder) NewExternFunc(name string, nparams int) *ir.Func {
	irParams := make([]*ir.Param, nparams)
	for i := range irParams {
		irParams[i] = ir.NewParam("", types.I64)
	}

	// a function without blocks is emitted as a declaration
	return b.mod.NewFunc(name, types.I64, irParams...)
}

func (b *Builder) NewGlobal(name string, init int64) *ir.Global {
	return b.mod.NewGlobalDef(name, constant.NewInt(types.I64, init))
}

func (b *Builder) NewExternGlobal(name string) *ir.Global {
	g := b.mod.NewGlobal(name, types.I64)
	g.Linkage = enum.LinkageExternal
	return g
}

func (b *Builder) NewBlock(fn *ir.Func, name string) *ir.Block {
	return fn.NewBlock(name)
}

func (b *Builder) SetInsertPoint(block *ir.Block) {
	b.block = block
}

func (b *Builder) InsertBlock() *ir.Block {
	return b.block
}

func (b *Builder) Terminated() bool {
	return b.block.Term != nil
}

// -----------------------------------------------------------------------------

func (b *Builder) Int(x int64) value.Value {
	return constant.NewInt(types.I64, x)
}

func (b *Builder) Add(x, y value.Value) value.Value {
	return b.block.NewAdd(x, y)
}

func (b *Builder) Sub(x, y value.Value) value.Value {
	return b.block.NewSub(x, y)
}

func (b *Builder) Mul(x, y value.Value) value.Value {
	return b.block.NewMul(x, y)
}

func (b *Builder) SDiv(x, y value.Value) value.Value {
	return b.block.NewSDiv(x, y)
}

func (b *Builder) ICmp(pred enum.IPred, x, y value.Value) value.Value {
	return b.block.NewICmp(pred, x, y)
}

func (b *Builder) ZExt(x value.Value) value.Value {
	return b.block.NewZExt(x, types.I64)
}

// -----------------------------------------------------------------------------

// entryBlock returns the entry block of the function being built.
func (b *Builder) entryBlock() *ir.Block {
	return b.block.Parent.Blocks[0]
}

func (b *Builder) Alloca() value.Value {
	return b.entryBlock().NewAlloca(types.I64)
}

func (b *Builder) AllocaVector(n int64) value.Value {
	return b.entryBlock().NewAlloca(types.NewArray(uint64(n), types.I64))
}

func (b *Builder) Load(ptr value.Value) value.Value {
	return b.block.NewLoad(types.I64, ptr)
}

func (b *Builder) Store(v, ptr value.Value) {
	b.block.NewStore(v, ptr)
}

func (b *Builder) IntToPtr(x value.Value) value.Value {
	return b.block.NewIntToPtr(x, types.I64Ptr)
}

func (b *Builder) PtrToInt(ptr value.Value) value.Value {
	return b.block.NewPtrToInt(ptr, types.I64)
}

// -----------------------------------------------------------------------------

func (b *Builder) Br(target *ir.Block) {
	b.block.NewBr(target)
}

func (b *Builder) CondBr(cond value.Value, ifTrue, ifFalse *ir.Block) {
	b.block.NewCondBr(cond, ifTrue, ifFalse)
}

func (b *Builder) Ret(v value.Value) {
	b.block.NewRet(v)
}

func (b *Builder) Call(fn *ir.Func, args ...value.Value) value.Value {
	return b.block.NewCall(fn, args...)
}
