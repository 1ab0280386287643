package interp

import (
	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/enum"
	"github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"
)

// frame is the activation record of a single function call.
type frame struct {
	fn *ir.Func

	// locals holds the values of the function's parameters and instructions.
	locals map[value.Value]int64
}

// call executes fn with the given arguments.
func (m *Machine) call(fn *ir.Func, args []int64) int64 {
	if len(fn.Blocks) == 0 {
		return m.callBuiltin(fn, args)
	}

	m.depth++
	if m.depth > m.DepthLimit {
		m.fail(fn, "call stack overflow")
	}

	base := m.sp
	defer func() {
		m.release(base)
		m.depth--
	}()

	f := &frame{fn: fn, locals: make(map[value.Value]int64)}
	for i, param := range fn.Params {
		f.locals[param] = args[i]
	}

	block := fn.Blocks[0]
	for {
		for _, inst := range block.Insts {
			m.step(fn)
			m.exec(f, inst)
		}

		m.step(fn)
		switch term := block.Term.(type) {
		case *ir.TermRet:
			if term.X == nil {
				return 0
			}

			return m.eval(f, term.X)
		case *ir.TermBr:
			block = m.target(fn, term.Target)
		case *ir.TermCondBr:
			if m.eval(f, term.Cond) != 0 {
				block = m.target(fn, term.TargetTrue)
			} else {
				block = m.target(fn, term.TargetFalse)
			}
		case nil:
			m.fail(fn, "block `%s` has no terminator", block.Name())
		default:
			m.fail(fn, "unsupported terminator: %s", term.LLString())
		}
	}
}

// step counts an executed instruction.
func (m *Machine) step(fn *ir.Func) {
	m.steps++
	if m.StepLimit > 0 && m.steps > m.StepLimit {
		m.fail(fn, "step limit of %d instructions exceeded", m.StepLimit)
	}
}

// target converts a branch target into a block.
func (m *Machine) target(fn *ir.Func, t interface{}) *ir.Block {
	block, ok := t.(*ir.Block)
	if !ok {
		m.fail(fn, "unsupported branch target")
	}

	return block
}

// exec executes a single non-terminator instruction.
func (m *Machine) exec(f *frame, inst ir.Instruction) {
	switch v := inst.(type) {
	case *ir.InstAdd:
		f.locals[v] = m.eval(f, v.X) + m.eval(f, v.Y)
	case *ir.InstSub:
		f.locals[v] = m.eval(f, v.X) - m.eval(f, v.Y)
	case *ir.InstMul:
		f.locals[v] = m.eval(f, v.X) * m.eval(f, v.Y)
	case *ir.InstSDiv:
		x, y := m.eval(f, v.X), m.eval(f, v.Y)
		if y == 0 {
			m.fail(f.fn, "division by zero")
		}

		f.locals[v] = x / y
	case *ir.InstICmp:
		f.locals[v] = m.compare(f, v)
	case *ir.InstZExt:
		f.locals[v] = m.eval(f, v.From)
	case *ir.InstAlloca:
		n := int64(1)
		if arr, ok := v.ElemType.(*types.ArrayType); ok {
			n = int64(arr.Len)
		}

		f.locals[v] = m.alloc(n)
	case *ir.InstLoad:
		f.locals[v] = m.load(f.fn, m.eval(f, v.Src))
	case *ir.InstStore:
		m.store(f.fn, m.eval(f, v.Dst), m.eval(f, v.Src))
	case *ir.InstIntToPtr:
		f.locals[v] = m.eval(f, v.From)
	case *ir.InstPtrToInt:
		f.locals[v] = m.eval(f, v.From)
	case *ir.InstCall:
		callee, ok := v.Callee.(*ir.Func)
		if !ok {
			m.fail(f.fn, "indirect calls are not supported")
		}

		args := make([]int64, len(v.Args))
		for i, arg := range v.Args {
			args[i] = m.eval(f, arg)
		}

		f.locals[v] = m.call(callee, args)
	default:
		m.fail(f.fn, "unsupported instruction: %s", inst.LLString())
	}
}

// compare evaluates an integer comparison to 0 or 1.
func (m *Machine) compare(f *frame, cmp *ir.InstICmp) int64 {
	x, y := m.eval(f, cmp.X), m.eval(f, cmp.Y)

	var r bool
	switch cmp.Pred {
	case enum.IPredEQ:
		r = x == y
	case enum.IPredNE:
		r = x != y
	case enum.IPredSGT:
		r = x > y
	case enum.IPredSGE:
		r = x >= y
	case enum.IPredSLT:
		r = x < y
	case enum.IPredSLE:
		r = x <= y
	case enum.IPredUGT:
		r = uint64(x) > uint64(y)
	case enum.IPredUGE:
		r = uint64(x) >= uint64(y)
	case enum.IPredULT:
		r = uint64(x) < uint64(y)
	case enum.IPredULE:
		r = uint64(x) <= uint64(y)
	default:
		m.fail(f.fn, "unsupported comparison: %s", cmp.Pred)
	}

	if r {
		return 1
	}

	return 0
}

// eval evaluates an operand.
func (m *Machine) eval(f *frame, v value.Value) int64 {
	switch c := v.(type) {
	case *constant.Int:
		return c.X.Int64()
	case *constant.Undef, *constant.ZeroInitializer:
		return 0
	case *ir.Global:
		return m.globals[c]
	}

	if x, ok := f.locals[v]; ok {
		return x
	}

	m.fail(f.fn, "use of undefined value %s", v.Ident())
	return 0
}
