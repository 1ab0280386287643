package interp

import (
	"io"

	"github.com/llir/llvm/ir"
)

// builtin is a function provided by the machine in place of the C library.
type builtin struct {
	arity int
	fn    func(m *Machine, caller *ir.Func, args []int64) int64
}

var builtins = map[string]builtin{
	"putchar": {1, func(m *Machine, caller *ir.Func, args []int64) int64 {
		if _, err := m.stdout.Write([]byte{byte(args[0])}); err != nil {
			m.fail(caller, "putchar: %s", err)
		}

		return args[0]
	}},
	"getchar": {0, func(m *Machine, caller *ir.Func, args []int64) int64 {
		c, err := m.stdin.ReadByte()
		if err == io.EOF {
			return -1
		} else if err != nil {
			m.fail(caller, "getchar: %s", err)
		}

		return int64(c)
	}},
	"exit": {1, func(m *Machine, caller *ir.Func, args []int64) int64 {
		panic(exitSignal{code: args[0]})
	}},
}

// callBuiltin calls the builtin standing in for the external function fn.
func (m *Machine) callBuiltin(fn *ir.Func, args []int64) int64 {
	b, ok := builtins[fn.Name()]
	if !ok {
		m.fail(nil, "undefined external function `%s`", fn.Name())
	}

	if b.arity != len(args) {
		m.fail(nil, "`%s` takes %d arguments but was called with %d", fn.Name(), b.arity, len(args))
	}

	return b.fn(m, fn, args)
}
