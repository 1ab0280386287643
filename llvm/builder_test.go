package llvm

import (
	"strings"
	"testing"

	"bcc/lower"

	"github.com/llir/llvm/asm"
	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/enum"
	"github.com/nalgeon/be"
)

var _ lower.Builder = (*Builder)(nil)

func TestAllocasGoToEntryBlock(t *testing.T) {
	b := NewBuilder("alloca.b")

	fn := b.NewFunc("f", "a")
	entry := b.NewBlock(fn, "entry")
	body := b.NewBlock(fn, "body")

	b.SetInsertPoint(entry)
	b.Br(body)
	be.True(t, b.Terminated())

	b.SetInsertPoint(body)
	be.True(t, !b.Terminated())
	be.True(t, b.InsertBlock() == body)

	cell := b.Alloca()
	vec := b.AllocaVector(4)
	b.Store(fn.Params[0], cell)
	b.Store(b.PtrToInt(vec), cell)
	b.Ret(b.Load(cell))

	be.Equal(t, len(entry.Insts), 2)
	_, ok := entry.Insts[0].(*ir.InstAlloca)
	be.True(t, ok)
	be.Equal(t, len(body.Insts), 4)
}

func TestModuleText(t *testing.T) {
	b := NewBuilder("text.b")

	b.NewGlobal("limit", -3)
	ext := b.NewExternGlobal("errno")
	putchar := b.NewExternFunc("putchar", 1)

	fn := b.NewFunc("main")
	b.SetInsertPoint(b.NewBlock(fn, "entry"))

	then := b.NewBlock(fn, "if.then1")
	end := b.NewBlock(fn, "if.end2")

	cmp := b.ICmp(enum.IPredSLT, b.Load(ext), b.Int(0))
	b.CondBr(cmp, then, end)

	b.SetInsertPoint(then)
	b.Call(putchar, b.ZExt(cmp))
	b.Br(end)

	b.SetInsertPoint(end)
	x := b.Add(b.Int(1), b.Mul(b.Int(2), b.SDiv(b.Int(9), b.Sub(b.Int(5), b.Int(2)))))
	b.Store(b.Int(0), b.IntToPtr(x))
	b.Ret(x)

	text := b.Module().String()

	for _, want := range []string{
		`source_filename = "text.b"`,
		"@limit = global i64 -3",
		"@errno = external global i64",
		"declare i64 @putchar(i64",
		"define i64 @main()",
		"icmp slt i64",
		"zext i1",
		"br i1",
		"sdiv i64 9",
		"inttoptr i64",
	} {
		be.True(t, strings.Contains(text, want))
	}

	_, err := asm.ParseString("text.ll", text)
	be.Err(t, err, nil)
}
