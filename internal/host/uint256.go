// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package host

import (
	"math/big"

	"github.com/luxfi/ligetron/internal/bigint"
	"github.com/luxfi/ligetron/internal/field"
	"github.com/luxfi/ligetron/internal/trapkind"
	"github.com/luxfi/ligetron/internal/wasm/interp"
)

// u256Cell is a uint256-module cell: a plain 256-bit integer with no
// witness backing of its own (it is circuit-relevant only once
// decomposed into bn254fr limbs).
type u256Cell struct {
	value bigint.U256
}

// uint256Module is the uint256 host module: guest-memory
// big-integer storage, decimal/byte parsing, composition with and
// decomposition into bn254fr limbs, and 512-by-256 normalised
// division / modular inverse.
type uint256Module struct{ c *Ctx }

func (m uint256Module) Name() string { return "uint256" }

func (m uint256Module) Functions() map[string]interp.HostFunc {
	return map[string]interp.HostFunc{
		"alloc":            m.alloc,
		"free":             m.free,
		"set_bytes_little": m.setBytesLittle,
		"set_bytes_big":    m.setBytesBig,
		"set_str":          m.setStr,
		"compose":          m.compose,
		"decompose":        m.decompose,
		"div":              m.div,
		"inv_mod":          m.invMod,
		"cmp":              m.cmp,
	}
}

func (m uint256Module) alloc(it *interp.Interpreter) *trapkind.Trap {
	h := m.c.nextU256
	m.c.nextU256++
	m.c.u256Cells[h] = &u256Cell{}
	pushI32(it, h)
	return nil
}

func (m uint256Module) free(it *interp.Interpreter) *trapkind.Trap {
	h := popI32(it)
	delete(m.c.u256Cells, h)
	return nil
}

func (m uint256Module) cell(h int32) *u256Cell {
	c, ok := m.c.u256Cells[h]
	if !ok {
		panic("host: unknown uint256 handle")
	}
	return c
}

func (m uint256Module) setBytesLittle(it *interp.Interpreter) *trapkind.Trap {
	args := popI32s(it, 3)
	raw := readMem(it, args[1], args[2])
	m.cell(args[0]).value = bigint.FromBytesLittleEndian(raw)
	return nil
}

func (m uint256Module) setBytesBig(it *interp.Interpreter) *trapkind.Trap {
	args := popI32s(it, 3)
	raw := readMem(it, args[1], args[2])
	m.cell(args[0]).value = bigint.FromBytesBigEndian(raw)
	return nil
}

// set_str(h, ptr, len): base-10 literal; malformed input is a
// MalformedInteger trap.
func (m uint256Module) setStr(it *interp.Interpreter) *trapkind.Trap {
	args := popI32s(it, 3)
	raw := readMem(it, args[1], args[2])
	n, ok := new(big.Int).SetString(string(raw), 10)
	if !ok {
		return trapkind.NewTrap(trapkind.MalformedInteger, "uint256.set_str: invalid decimal literal")
	}
	m.cell(args[0]).value = bigint.FromBigInt(n)
	return nil
}

// compose(h, loFr, hiFr): builds a 256-bit value from two 128-bit
// bn254fr limbs, lo + hi<<128.
func (m uint256Module) compose(it *interp.Interpreter) *trapkind.Trap {
	args := popI32s(it, 3)
	lo := m.c.fr(args[1]).value.BigInt()
	hi := m.c.fr(args[2]).value.BigInt()
	full := new(big.Int).Lsh(hi, 128)
	full.Add(full, lo)
	m.cell(args[0]).value = bigint.FromBigInt(full)
	return nil
}

// decompose(h) -> (loHandle, hiHandle): splits a 256-bit value into
// two freshly allocated 128-bit bn254fr limbs.
func (m uint256Module) decompose(it *interp.Interpreter) *trapkind.Trap {
	h := popI32(it)
	v := m.cell(h).value.BigInt()
	mask := new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 128), big.NewInt(1))
	lo := new(big.Int).And(v, mask)
	hi := new(big.Int).Rsh(v, 128)

	loH, loCell := m.c.allocFr()
	loCell.value = field.FromBigInt(lo)
	m.c.commitValue(loCell.handle, loCell.value)

	hiH, hiCell := m.c.allocFr()
	hiCell.value = field.FromBigInt(hi)
	m.c.commitValue(hiCell.handle, hiCell.value)

	pushI32(it, loH)
	pushI32(it, hiH)
	return nil
}

// div(hQuot, hRem, numLo, numHi, divisor): 512-by-256 normalised
// division.
func (m uint256Module) div(it *interp.Interpreter) *trapkind.Trap {
	args := popI32s(it, 5)
	numLo := m.cell(args[2]).value
	numHi := m.cell(args[3]).value
	divisor := m.cell(args[4]).value
	q, r, ok := bigint.DivQRNormalised(bigint.Wide512{Lo: numLo, Hi: numHi}, divisor)
	if !ok {
		return trapkind.NewTrap(trapkind.IntegerDivideByZero, "uint256.div: zero or non-normalised divisor")
	}
	m.cell(args[0]).value = q
	m.cell(args[1]).value = r
	return nil
}

func (m uint256Module) invMod(it *interp.Interpreter) *trapkind.Trap {
	args := popI32s(it, 3)
	a := m.cell(args[1]).value
	mod := m.cell(args[2]).value
	inv, ok := bigint.InvMod(a, mod)
	if !ok {
		return trapkind.NewTrap(trapkind.NonInvertibleElement, "uint256.inv_mod: no inverse")
	}
	m.cell(args[0]).value = inv
	return nil
}

func (m uint256Module) cmp(it *interp.Interpreter) *trapkind.Trap {
	args := popI32s(it, 2)
	pushI32(it, int32(m.cell(args[0]).value.Cmp(m.cell(args[1]).value)))
	return nil
}
