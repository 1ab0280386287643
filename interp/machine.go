// Package interp executes lowered LLVM modules directly.  Memory is a flat
// word store: every address is a byte address that is a multiple of the word
// size and conversions between pointers and integers are the identity.
package interp

import (
	"bufio"
	"fmt"
	"io"

	"bcc/common"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
)

// RuntimeError is an error that occurs while executing a module.
type RuntimeError struct {
	// Func is the name of the function executing when the error occurred.
	Func string

	// Message describes the error.
	Message string
}

func (re *RuntimeError) Error() string {
	if re.Func == "" {
		return "runtime error: " + re.Message
	}

	return fmt.Sprintf("runtime error in `%s`: %s", re.Func, re.Message)
}

// exitSignal unwinds the machine when the program calls `exit`.
type exitSignal struct {
	code int64
}

// Default limits of a machine.
const (
	DefaultStepLimit  = 1 << 28
	DefaultDepthLimit = 1 << 12
)

// Machine executes a single module.
type Machine struct {
	mod *ir.Module

	// mem is the word store.  An address is valid only while it has an entry.
	mem map[int64]int64

	// globals maps every global of the module to its address.
	globals map[*ir.Global]int64

	// sp is the address at which the next stack allocation begins.
	sp int64

	stdin  *bufio.Reader
	stdout io.Writer

	// StepLimit is the maximum number of instructions executed before the
	// machine gives up.
	StepLimit int

	// DepthLimit is the maximum call depth.
	DepthLimit int

	steps int
	depth int
}

// stackBase is the address of the first stack cell.  Globals live below it.
const stackBase = 1 << 20

// NewMachine creates a new machine for mod reading from stdin and writing to
// stdout.
func NewMachine(mod *ir.Module, stdin io.Reader, stdout io.Writer) *Machine {
	return &Machine{
		mod:        mod,
		mem:        make(map[int64]int64),
		globals:    make(map[*ir.Global]int64),
		sp:         stackBase,
		stdin:      bufio.NewReader(stdin),
		stdout:     stdout,
		StepLimit:  DefaultStepLimit,
		DepthLimit: DefaultDepthLimit,
	}
}

// Run executes the `main` function of mod and returns its result.
func Run(mod *ir.Module, stdin io.Reader, stdout io.Writer) (int64, error) {
	return NewMachine(mod, stdin, stdout).Run()
}

// Run executes the module's `main` function and returns its result.  A call to
// `exit` ends execution with the code passed to it.
func (m *Machine) Run() (result int64, err error) {
	return m.Call(common.EntryPointName)
}

// Call executes the named function of the module with the given arguments.
func (m *Machine) Call(name string, args ...int64) (result int64, err error) {
	defer func() {
		if x := recover(); x != nil {
			switch v := x.(type) {
			case exitSignal:
				result, err = v.code, nil
			case *RuntimeError:
				err = v
			default:
				panic(x)
			}
		}

		if ferr := m.flush(); err == nil && ferr != nil {
			err = ferr
		}
	}()

	if err := m.layoutGlobals(); err != nil {
		return 0, err
	}

	fn := m.lookupFunc(name)
	if fn == nil || len(fn.Blocks) == 0 {
		return 0, &RuntimeError{Message: fmt.Sprintf("function `%s` is not defined", name)}
	}

	if len(args) != len(fn.Params) {
		return 0, &RuntimeError{Message: fmt.Sprintf("function `%s` takes %d arguments", name, len(fn.Params))}
	}

	return m.call(fn, args), nil
}

// layoutGlobals assigns an address to every global and stores its initial
// value.  It only does work the first time it is called.
func (m *Machine) layoutGlobals() error {
	if len(m.globals) == len(m.mod.Globals) {
		return nil
	}

	addr := int64(common.WordSize)
	for _, g := range m.mod.Globals {
		var init int64
		switch v := g.Init.(type) {
		case *constant.Int:
			init = v.X.Int64()
		case nil:
			return &RuntimeError{Message: fmt.Sprintf("undefined external variable `%s`", g.Name())}
		default:
			return &RuntimeError{Message: fmt.Sprintf("unsupported initializer for `%s`", g.Name())}
		}

		m.globals[g] = addr
		m.mem[addr] = init
		addr += common.WordSize
	}

	return nil
}

// lookupFunc returns the function of the module with the given name.
func (m *Machine) lookupFunc(name string) *ir.Func {
	for _, fn := range m.mod.Funcs {
		if fn.Name() == name {
			return fn
		}
	}

	return nil
}

// flush writes any buffered output.
func (m *Machine) flush() error {
	if f, ok := m.stdout.(interface{ Flush() error }); ok {
		return f.Flush()
	}

	return nil
}

// -----------------------------------------------------------------------------

// alloc reserves n cells on the stack and returns the address of the first.
func (m *Machine) alloc(n int64) int64 {
	addr := m.sp
	for i := int64(0); i < n; i++ {
		m.mem[addr+i*common.WordSize] = 0
	}

	m.sp += n * common.WordSize
	return addr
}

// release frees all stack cells at and above base.
func (m *Machine) release(base int64) {
	for addr := base; addr < m.sp; addr += common.WordSize {
		delete(m.mem, addr)
	}

	m.sp = base
}

func (m *Machine) load(fn *ir.Func, addr int64) int64 {
	m.checkAddr(fn, addr)
	return m.mem[addr]
}

func (m *Machine) store(fn *ir.Func, addr, v int64) {
	m.checkAddr(fn, addr)
	m.mem[addr] = v
}

func (m *Machine) checkAddr(fn *ir.Func, addr int64) {
	if addr%common.WordSize != 0 {
		m.fail(fn, "misaligned memory access at address %d", addr)
	}

	if _, ok := m.mem[addr]; !ok {
		m.fail(fn, "invalid memory access at address %d", addr)
	}
}

// fail aborts execution with a runtime error.
func (m *Machine) fail(fn *ir.Func, msg string, args ...interface{}) {
	re := &RuntimeError{Message: fmt.Sprintf(msg, args...)}
	if fn != nil {
		re.Func = fn.Name()
	}

	panic(re)
}
