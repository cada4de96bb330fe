// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package host

import (
	"math/big"

	"go.uber.org/zap"

	"github.com/luxfi/ligetron/internal/field"
	"github.com/luxfi/ligetron/internal/trapkind"
	"github.com/luxfi/ligetron/internal/wasm/interp"
)

// bn254frModule is the bn254fr scalar-field host module:
// opaque cell handles backed one-for-one by witness slots, arithmetic
// that keeps the cell's current value committed into the row stream
// on every mutation, and "_checked" variants that additionally force
// the claimed algebraic relation via a fresh assertion triple.
type bn254frModule struct{ c *Ctx }

func (m bn254frModule) Name() string { return "bn254fr" }

func (m bn254frModule) Functions() map[string]interp.HostFunc {
	return map[string]interp.HostFunc{
		"alloc":        m.alloc,
		"free":         m.free,
		"set_u32":      m.setU32,
		"set_u64":      m.setU64,
		"set_str":      m.setStr,
		"set_bytes":    m.setBytes,
		"copy":         m.copyCell,
		"print":        m.print,
		"get_u64":      m.getU64,
		"add":          m.add(false),
		"add_checked":  m.add(true),
		"sub":          m.sub(false),
		"sub_checked":  m.sub(true),
		"mul":          m.mul(false),
		"mul_checked":  m.mul(true),
		"div":          m.div(false),
		"div_checked":  m.div(true),
		"neg":          m.neg(false),
		"neg_checked":  m.neg(true),
		"inv":          m.inv(false),
		"inv_checked":  m.inv(true),
		"eq":           m.eq,
		"is_zero":      m.isZero,
		"to_bits":      m.toBits,
		"from_bits":    m.fromBits,
		"mux":          m.mux,
		"mux2":         m.mux2,
	}
}

func (m bn254frModule) alloc(it *interp.Interpreter) *trapkind.Trap {
	h, _ := m.c.allocFr()
	pushI32(it, h)
	return nil
}

func (m bn254frModule) free(it *interp.Interpreter) *trapkind.Trap {
	h := popI32(it)
	delete(m.c.frCells, h)
	return nil
}

func (m bn254frModule) setU32(it *interp.Interpreter) *trapkind.Trap {
	args := popI32s(it, 2)
	cell := m.c.fr(args[0])
	cell.value = field.FromUint64(uint64(uint32(args[1])))
	m.c.commitValue(cell.handle, cell.value)
	return nil
}

func (m bn254frModule) setU64(it *interp.Interpreter) *trapkind.Trap {
	v := popI64(it)
	h := popI32(it)
	cell := m.c.fr(h)
	cell.value = field.FromUint64(uint64(v))
	m.c.commitValue(cell.handle, cell.value)
	return nil
}

// set_str(h, ptr, len): parses a base-10 ASCII literal. Malformed
// input is a MalformedInteger trap.
func (m bn254frModule) setStr(it *interp.Interpreter) *trapkind.Trap {
	args := popI32s(it, 3)
	raw := readMem(it, args[1], args[2])
	n, ok := new(big.Int).SetString(string(raw), 10)
	if !ok {
		return trapkind.NewTrap(trapkind.MalformedInteger, "bn254fr.set_str: invalid decimal literal")
	}
	cell := m.c.fr(args[0])
	cell.value = field.FromBigInt(n)
	m.c.commitValue(cell.handle, cell.value)
	return nil
}

func (m bn254frModule) setBytes(it *interp.Interpreter) *trapkind.Trap {
	args := popI32s(it, 3)
	raw := readMem(it, args[1], args[2])
	cell := m.c.fr(args[0])
	cell.value = field.FromBytes(raw)
	m.c.commitValue(cell.handle, cell.value)
	return nil
}

func (m bn254frModule) copyCell(it *interp.Interpreter) *trapkind.Trap {
	args := popI32s(it, 2)
	dst, src := m.c.fr(args[0]), m.c.fr(args[1])
	dst.value = src.value
	m.c.commitValue(dst.handle, dst.value)
	return nil
}

func (m bn254frModule) print(it *interp.Interpreter) *trapkind.Trap {
	h := popI32(it)
	m.c.Logger.Info("bn254fr.print", zap.String("value", m.c.fr(h).value.BigInt().String()))
	return nil
}

func (m bn254frModule) getU64(it *interp.Interpreter) *trapkind.Trap {
	h := popI32(it)
	v := m.c.fr(h).value.BigInt()
	pushI64(it, int64(v.Uint64()))
	return nil
}

func (m bn254frModule) add(checked bool) interp.HostFunc {
	return func(it *interp.Interpreter) *trapkind.Trap {
		args := popI32s(it, 3)
		dst, a, b := m.c.fr(args[0]), m.c.fr(args[1]), m.c.fr(args[2])
		sum := field.Add(a.value, b.value)
		dst.value = sum
		m.c.commitValue(dst.handle, sum)
		if checked {
			m.c.assertZeroValue(field.Sub(field.Add(a.value, b.value), sum))
		}
		return nil
	}
}

func (m bn254frModule) sub(checked bool) interp.HostFunc {
	return func(it *interp.Interpreter) *trapkind.Trap {
		args := popI32s(it, 3)
		dst, a, b := m.c.fr(args[0]), m.c.fr(args[1]), m.c.fr(args[2])
		diff := field.Sub(a.value, b.value)
		dst.value = diff
		m.c.commitValue(dst.handle, diff)
		if checked {
			m.c.assertZeroValue(field.Sub(field.Sub(a.value, b.value), diff))
		}
		return nil
	}
}

func (m bn254frModule) mul(checked bool) interp.HostFunc {
	return func(it *interp.Interpreter) *trapkind.Trap {
		args := popI32s(it, 3)
		dst, a, b := m.c.fr(args[0]), m.c.fr(args[1]), m.c.fr(args[2])
		prod := field.Mul(a.value, b.value)
		dst.value = prod
		m.c.commitValue(dst.handle, prod)
		if checked {
			m.c.assertProductValue(a.value, b.value, prod)
		}
		return nil
	}
}

func (m bn254frModule) div(checked bool) interp.HostFunc {
	return func(it *interp.Interpreter) *trapkind.Trap {
		args := popI32s(it, 3)
		dst, a, b := m.c.fr(args[0]), m.c.fr(args[1]), m.c.fr(args[2])
		quot, ok := field.Div(a.value, b.value)
		if !ok {
			return trapkind.NewTrap(trapkind.NonInvertibleElement, "bn254fr.div: division by zero")
		}
		dst.value = quot
		m.c.commitValue(dst.handle, quot)
		if checked {
			m.c.assertProductValue(quot, b.value, a.value)
		}
		return nil
	}
}

func (m bn254frModule) neg(checked bool) interp.HostFunc {
	return func(it *interp.Interpreter) *trapkind.Trap {
		args := popI32s(it, 2)
		dst, a := m.c.fr(args[0]), m.c.fr(args[1])
		neg := field.Neg(a.value)
		dst.value = neg
		m.c.commitValue(dst.handle, neg)
		if checked {
			m.c.assertZeroValue(field.Add(a.value, neg))
		}
		return nil
	}
}

func (m bn254frModule) inv(checked bool) interp.HostFunc {
	return func(it *interp.Interpreter) *trapkind.Trap {
		args := popI32s(it, 2)
		dst, a := m.c.fr(args[0]), m.c.fr(args[1])
		inv, ok := field.TryInv(a.value)
		if !ok {
			return trapkind.NewTrap(trapkind.NonInvertibleElement, "bn254fr.inv: inverse of zero")
		}
		dst.value = inv
		m.c.commitValue(dst.handle, inv)
		if checked {
			m.c.assertProductValue(inv, a.value, field.One())
		}
		return nil
	}
}

func (m bn254frModule) eq(it *interp.Interpreter) *trapkind.Trap {
	args := popI32s(it, 2)
	pushI32(it, boolI32(m.c.fr(args[0]).value.Equal(m.c.fr(args[1]).value)))
	return nil
}

func (m bn254frModule) isZero(it *interp.Interpreter) *trapkind.Trap {
	h := popI32(it)
	pushI32(it, boolI32(m.c.fr(h).value.IsZero()))
	return nil
}

func boolI32(b bool) int32 {
	if b {
		return 1
	}
	return 0
}

// to_bits(h): decomposes a cell's value into 254 bit-valued
// witnesses, each constrained to {0,1} via b*(b-1)=0; the constraint
// is emitted here in the witness layer, not by the decomposition
// kernel. Pushes a KindBits stack value.
const fieldBits = 254

func (m bn254frModule) toBits(it *interp.Interpreter) *trapkind.Trap {
	h := popI32(it)
	v := m.c.fr(h).value.BigInt()
	bits := make([]field.Fp, fieldBits)
	for i := 0; i < fieldBits; i++ {
		bv := field.FromUint64(uint64(v.Bit(i)))
		// b*b - b = 0 iff b in {0,1}: three distinct handles, each
		// assigned the same bit value, wired as one triple's a/b/c so
		// all three readyMask bits are set independently.
		a := m.c.W.AcquireWitness()
		b := m.c.W.AcquireWitness()
		cc := m.c.W.AcquireWitness()
		m.c.W.Assign(a, bv)
		m.c.W.Assign(b, bv)
		m.c.W.Assign(cc, bv)
		m.c.W.AcquireTriple(a, b, cc)
		m.c.W.CommitNotify(a)
		m.c.W.CommitNotify(b)
		m.c.W.CommitNotify(cc)
		bits[i] = bv
	}
	it.Stack.PushValue(interp.BitsValue(bits))
	return nil
}

// from_bits(): pops a KindBits stack value and recomposes a field
// element, allocating a fresh bn254fr cell to hold it.
func (m bn254frModule) fromBits(it *interp.Interpreter) *trapkind.Trap {
	bits := it.Stack.PopValue().Bits
	acc := new(big.Int)
	for i := len(bits) - 1; i >= 0; i-- {
		acc.Lsh(acc, 1)
		if !bits[i].IsZero() {
			acc.SetBit(acc, 0, 1)
		}
	}
	h, cell := m.c.allocFr()
	cell.value = field.FromBigInt(acc)
	m.c.commitValue(cell.handle, cell.value)
	pushI32(it, h)
	return nil
}

// mux(cond, a, b): native select between two cells, cond pushed
// first.
func (m bn254frModule) mux(it *interp.Interpreter) *trapkind.Trap {
	args := popI32s(it, 3)
	cond, a, b := args[0], m.c.fr(args[1]), m.c.fr(args[2])
	h, dst := m.c.allocFr()
	if cond != 0 {
		dst.value = a.value
	} else {
		dst.value = b.value
	}
	m.c.commitValue(dst.handle, dst.value)
	pushI32(it, h)
	return nil
}

// mux2(cond0, cond1, a, b, c, d): 2-bit select among four cells,
// index = cond0 + 2·cond1.
func (m bn254frModule) mux2(it *interp.Interpreter) *trapkind.Trap {
	args := popI32s(it, 6)
	idx := args[0] + 2*args[1]
	choices := []*frCell{m.c.fr(args[2]), m.c.fr(args[3]), m.c.fr(args[4]), m.c.fr(args[5])}
	h, dst := m.c.allocFr()
	dst.value = choices[idx&3].value
	m.c.commitValue(dst.handle, dst.value)
	pushI32(it, h)
	return nil
}
