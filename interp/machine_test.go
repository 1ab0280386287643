package interp

import (
	"bytes"
	"strings"
	"testing"

	"github.com/llir/llvm/asm"
	"github.com/llir/llvm/ir"
	"github.com/nalgeon/be"
)

func parse(t *testing.T, src string) *ir.Module {
	t.Helper()

	mod, err := asm.ParseString("test.ll", src)
	be.Err(t, err, nil)
	return mod
}

func TestRunArithmetic(t *testing.T) {
	mod := parse(t, `
define i64 @main() {
entry:
	%a = add i64 40, 8
	%b = mul i64 %a, 3
	%c = sdiv i64 %b, -4
	%d = sub i64 0, %c
	ret i64 %d
}
`)

	result, err := Run(mod, strings.NewReader(""), &bytes.Buffer{})
	be.Err(t, err, nil)
	be.Equal(t, result, int64(36))
}

func TestRunLoop(t *testing.T) {
	mod := parse(t, `
@limit = global i64 5

define i64 @main() {
entry:
	%i = alloca i64
	%sum = alloca i64
	store i64 0, i64* %i
	store i64 0, i64* %sum
	br label %cond

cond:
	%iv = load i64, i64* %i
	%lim = load i64, i64* @limit
	%lt = icmp slt i64 %iv, %lim
	br i1 %lt, label %body, label %end

body:
	%s = load i64, i64* %sum
	%s2 = add i64 %s, %iv
	store i64 %s2, i64* %sum
	%i2 = add i64 %iv, 1
	store i64 %i2, i64* %i
	br label %cond

end:
	%r = load i64, i64* %sum
	ret i64 %r
}
`)

	result, err := Run(mod, strings.NewReader(""), &bytes.Buffer{})
	be.Err(t, err, nil)
	be.Equal(t, result, int64(10))
}

func TestRunCallsAndVectors(t *testing.T) {
	mod := parse(t, `
define i64 @second(i64 %v) {
entry:
	%addr = add i64 %v, 8
	%p = inttoptr i64 %addr to i64*
	%x = load i64, i64* %p
	ret i64 %x
}

define i64 @main() {
entry:
	%vec = alloca [3 x i64]
	%base = ptrtoint [3 x i64]* %vec to i64
	%addr = add i64 %base, 8
	%p = inttoptr i64 %addr to i64*
	store i64 77, i64* %p
	%r = call i64 @second(i64 %base)
	ret i64 %r
}
`)

	result, err := Run(mod, strings.NewReader(""), &bytes.Buffer{})
	be.Err(t, err, nil)
	be.Equal(t, result, int64(77))
}

func TestRunBuiltins(t *testing.T) {
	mod := parse(t, `
declare i64 @getchar()
declare i64 @putchar(i64)

define i64 @main() {
entry:
	%c = call i64 @getchar()
	%u = sub i64 %c, 32
	%r = call i64 @putchar(i64 %u)
	%nl = call i64 @putchar(i64 10)
	%eof = call i64 @getchar()
	ret i64 %eof
}
`)

	var out bytes.Buffer
	result, err := Run(mod, strings.NewReader("q"), &out)
	be.Err(t, err, nil)
	be.Equal(t, out.String(), "Q\n")
	be.Equal(t, result, int64(-1))
}

func TestRunExit(t *testing.T) {
	mod := parse(t, `
declare i64 @exit(i64)

define i64 @main() {
entry:
	%r = call i64 @exit(i64 3)
	ret i64 9
}
`)

	result, err := Run(mod, strings.NewReader(""), &bytes.Buffer{})
	be.Err(t, err, nil)
	be.Equal(t, result, int64(3))
}

func TestRunErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		msg  string
	}{
		{
			"division by zero",
			"define i64 @main() {\nentry:\n\t%x = sdiv i64 1, 0\n\tret i64 %x\n}\n",
			"division by zero",
		},
		{
			"invalid address",
			"define i64 @main() {\nentry:\n\t%p = inttoptr i64 4096 to i64*\n\t%x = load i64, i64* %p\n\tret i64 %x\n}\n",
			"invalid memory access",
		},
		{
			"misaligned address",
			"define i64 @main() {\nentry:\n\t%p = inttoptr i64 3 to i64*\n\t%x = load i64, i64* %p\n\tret i64 %x\n}\n",
			"misaligned memory access",
		},
		{
			"undefined function",
			"declare i64 @frob(i64)\n\ndefine i64 @main() {\nentry:\n\t%x = call i64 @frob(i64 1)\n\tret i64 %x\n}\n",
			"undefined external function `frob`",
		},
		{
			"undefined global",
			"@g = external global i64\n\ndefine i64 @main() {\nentry:\n\t%x = load i64, i64* @g\n\tret i64 %x\n}\n",
			"undefined external variable `g`",
		},
		{
			"no main",
			"define i64 @f() {\nentry:\n\tret i64 0\n}\n",
			"function `main` is not defined",
		},
		{
			"infinite loop",
			"define i64 @main() {\nentry:\n\tbr label %loop\n\nloop:\n\tbr label %loop\n}\n",
			"step limit",
		},
		{
			"unbounded recursion",
			"define i64 @main() {\nentry:\n\t%x = call i64 @main()\n\tret i64 %x\n}\n",
			"call stack overflow",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewMachine(parse(t, tt.src), strings.NewReader(""), &bytes.Buffer{})
			m.StepLimit = 10000

			_, err := m.Run()
			be.Err(t, err, tt.msg)
		})
	}
}

func TestCallWithArguments(t *testing.T) {
	mod := parse(t, `
define i64 @max(i64 %a, i64 %b) {
entry:
	%gt = icmp sgt i64 %a, %b
	br i1 %gt, label %left, label %right

left:
	ret i64 %a

right:
	ret i64 %b
}

define i64 @main() {
entry:
	ret i64 0
}
`)

	m := NewMachine(mod, strings.NewReader(""), &bytes.Buffer{})

	r, err := m.Call("max", 3, -7)
	be.Err(t, err, nil)
	be.Equal(t, r, int64(3))

	r, err = m.Call("max", -3, 7)
	be.Err(t, err, nil)
	be.Equal(t, r, int64(7))

	_, err = m.Call("max", 1)
	be.Err(t, err, "takes 2 arguments")
}
