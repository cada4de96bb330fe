// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package interp

import (
	"github.com/luxfi/ligetron/internal/trapkind"
	"github.com/luxfi/ligetron/internal/wasm/ir"
)

// execArith evaluates the native i32/i64 arithmetic/comparison/bitwise
// opcodes, the integer subset the trace needs. Division and remainder
// by zero trap.
func (it *Interpreter) execArith(in *ir.Instr) execResult {
	switch in.Op {
	case ir.OpI32Add, ir.OpI32Sub, ir.OpI32Mul, ir.OpI32DivU, ir.OpI32DivS,
		ir.OpI32RemU, ir.OpI32RemS, ir.OpI32And, ir.OpI32Or, ir.OpI32Xor,
		ir.OpI32Shl, ir.OpI32ShrU, ir.OpI32ShrS,
		ir.OpI32Eq, ir.OpI32Ne, ir.OpI32LtU, ir.OpI32LtS, ir.OpI32GtU, ir.OpI32GtS,
		ir.OpI32LeU, ir.OpI32LeS, ir.OpI32GeU, ir.OpI32GeS:
		b := it.Stack.PopValue().I32
		a := it.Stack.PopValue().I32
		it.Stack.PushValue(evalI32(in.Op, a, b))
		return resultNormal
	case ir.OpI32Eqz:
		a := it.Stack.PopValue().I32
		it.Stack.PushValue(Bool32(a == 0))
		return resultNormal

	case ir.OpI64Add, ir.OpI64Sub, ir.OpI64Mul, ir.OpI64DivU, ir.OpI64DivS,
		ir.OpI64RemU, ir.OpI64RemS, ir.OpI64And, ir.OpI64Or, ir.OpI64Xor,
		ir.OpI64Shl, ir.OpI64ShrU, ir.OpI64ShrS,
		ir.OpI64Eq, ir.OpI64Ne, ir.OpI64LtU, ir.OpI64LtS, ir.OpI64GtU, ir.OpI64GtS,
		ir.OpI64LeU, ir.OpI64LeS, ir.OpI64GeU, ir.OpI64GeS:
		b := it.Stack.PopValue().I64
		a := it.Stack.PopValue().I64
		it.Stack.PushValue(evalI64(in.Op, a, b))
		return resultNormal
	case ir.OpI64Eqz:
		a := it.Stack.PopValue().I64
		it.Stack.PushValue(Bool32(a == 0))
		return resultNormal

	case ir.OpI32WrapI64:
		a := it.Stack.PopValue().I64
		it.Stack.PushValue(I32Value(int32(a)))
		return resultNormal
	case ir.OpI64ExtendI32U:
		a := it.Stack.PopValue().I32
		it.Stack.PushValue(I64Value(int64(uint32(a))))
		return resultNormal
	case ir.OpI64ExtendI32S:
		a := it.Stack.PopValue().I32
		it.Stack.PushValue(I64Value(int64(a)))
		return resultNormal

	default:
		panic(trapkind.NewTrap(trapkind.UnsupportedOpcode, "unsupported opcode"))
	}
}

func evalI32(op ir.Opcode, a, b int32) Value {
	ua, ub := uint32(a), uint32(b)
	switch op {
	case ir.OpI32Add:
		return I32Value(a + b)
	case ir.OpI32Sub:
		return I32Value(a - b)
	case ir.OpI32Mul:
		return I32Value(a * b)
	case ir.OpI32DivU:
		if ub == 0 {
			panic(trapkind.NewTrap(trapkind.IntegerDivideByZero, "i32.div_u by zero"))
		}
		return I32Value(int32(ua / ub))
	case ir.OpI32DivS:
		if b == 0 {
			panic(trapkind.NewTrap(trapkind.IntegerDivideByZero, "i32.div_s by zero"))
		}
		if a == -1<<31 && b == -1 {
			panic(trapkind.NewTrap(trapkind.IntegerOverflow, "i32.div_s overflow"))
		}
		return I32Value(a / b)
	case ir.OpI32RemU:
		if ub == 0 {
			panic(trapkind.NewTrap(trapkind.IntegerDivideByZero, "i32.rem_u by zero"))
		}
		return I32Value(int32(ua % ub))
	case ir.OpI32RemS:
		if b == 0 {
			panic(trapkind.NewTrap(trapkind.IntegerDivideByZero, "i32.rem_s by zero"))
		}
		if a == -1<<31 && b == -1 {
			return I32Value(0)
		}
		return I32Value(a % b)
	case ir.OpI32And:
		return I32Value(a & b)
	case ir.OpI32Or:
		return I32Value(a | b)
	case ir.OpI32Xor:
		return I32Value(a ^ b)
	case ir.OpI32Shl:
		return I32Value(a << (uint32(b) & 31))
	case ir.OpI32ShrU:
		return I32Value(int32(ua >> (ub & 31)))
	case ir.OpI32ShrS:
		return I32Value(a >> (uint32(b) & 31))
	case ir.OpI32Eq:
		return Bool32(a == b)
	case ir.OpI32Ne:
		return Bool32(a != b)
	case ir.OpI32LtU:
		return Bool32(ua < ub)
	case ir.OpI32LtS:
		return Bool32(a < b)
	case ir.OpI32GtU:
		return Bool32(ua > ub)
	case ir.OpI32GtS:
		return Bool32(a > b)
	case ir.OpI32LeU:
		return Bool32(ua <= ub)
	case ir.OpI32LeS:
		return Bool32(a <= b)
	case ir.OpI32GeU:
		return Bool32(ua >= ub)
	case ir.OpI32GeS:
		return Bool32(a >= b)
	default:
		panic(trapkind.NewTrap(trapkind.UnsupportedOpcode, "unsupported i32 opcode"))
	}
}

func evalI64(op ir.Opcode, a, b int64) Value {
	ua, ub := uint64(a), uint64(b)
	switch op {
	case ir.OpI64Add:
		return I64Value(a + b)
	case ir.OpI64Sub:
		return I64Value(a - b)
	case ir.OpI64Mul:
		return I64Value(a * b)
	case ir.OpI64DivU:
		if ub == 0 {
			panic(trapkind.NewTrap(trapkind.IntegerDivideByZero, "i64.div_u by zero"))
		}
		return I64Value(int64(ua / ub))
	case ir.OpI64DivS:
		if b == 0 {
			panic(trapkind.NewTrap(trapkind.IntegerDivideByZero, "i64.div_s by zero"))
		}
		if a == -1<<63 && b == -1 {
			panic(trapkind.NewTrap(trapkind.IntegerOverflow, "i64.div_s overflow"))
		}
		return I64Value(a / b)
	case ir.OpI64RemU:
		if ub == 0 {
			panic(trapkind.NewTrap(trapkind.IntegerDivideByZero, "i64.rem_u by zero"))
		}
		return I64Value(int64(ua % ub))
	case ir.OpI64RemS:
		if b == 0 {
			panic(trapkind.NewTrap(trapkind.IntegerDivideByZero, "i64.rem_s by zero"))
		}
		if a == -1<<63 && b == -1 {
			return I64Value(0)
		}
		return I64Value(a % b)
	case ir.OpI64And:
		return I64Value(a & b)
	case ir.OpI64Or:
		return I64Value(a | b)
	case ir.OpI64Xor:
		return I64Value(a ^ b)
	case ir.OpI64Shl:
		return I64Value(a << (uint64(b) & 63))
	case ir.OpI64ShrU:
		return I64Value(int64(ua >> (ub & 63)))
	case ir.OpI64ShrS:
		return I64Value(a >> (uint64(b) & 63))
	case ir.OpI64Eq:
		return Bool32(a == b)
	case ir.OpI64Ne:
		return Bool32(a != b)
	case ir.OpI64LtU:
		return Bool32(ua < ub)
	case ir.OpI64LtS:
		return Bool32(a < b)
	case ir.OpI64GtU:
		return Bool32(ua > ub)
	case ir.OpI64GtS:
		return Bool32(a > b)
	case ir.OpI64LeU:
		return Bool32(ua <= ub)
	case ir.OpI64LeS:
		return Bool32(a <= b)
	case ir.OpI64GeU:
		return Bool32(ua >= ub)
	case ir.OpI64GeS:
		return Bool32(a >= b)
	default:
		panic(trapkind.NewTrap(trapkind.UnsupportedOpcode, "unsupported i64 opcode"))
	}
}
