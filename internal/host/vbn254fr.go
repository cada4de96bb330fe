// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package host

import (
	"github.com/luxfi/ligetron/internal/field"
	"github.com/luxfi/ligetron/internal/ntt"
	"github.com/luxfi/ligetron/internal/trapkind"
	"github.com/luxfi/ligetron/internal/wasm/interp"
)

// vbn254frModule is the vector-field host module: the same
// scalar-field operations as bn254fr, but every cell holds l parallel
// lanes (l = Ctx.PackingWidth) operated on elementwise in one call
// through the ntt package's elementwise kernels.
// Constants are 256-bit immediates read from an 8-word guest memory
// buffer and broadcast across every lane.
type vbn254frModule struct{ c *Ctx }

func (m vbn254frModule) Name() string { return "vbn254fr" }

func (m vbn254frModule) Functions() map[string]interp.HostFunc {
	return map[string]interp.HostFunc{
		"alloc":          m.alloc,
		"free":           m.free,
		"set_bytes_lane": m.setBytesLane,
		"set_const":      m.setConst,
		"add":            m.add(false),
		"add_checked":    m.add(true),
		"sub":            m.sub(false),
		"sub_checked":    m.sub(true),
		"mul":            m.mul(false),
		"mul_checked":    m.mul(true),
		"add_const":      m.addConst,
		"mul_const":      m.mulConst,
		"get_lane_u64":   m.getLaneU64,
	}
}

func (m vbn254frModule) alloc(it *interp.Interpreter) *trapkind.Trap {
	h, _ := m.c.allocVfr()
	pushI32(it, h)
	return nil
}

func (m vbn254frModule) free(it *interp.Interpreter) *trapkind.Trap {
	h := popI32(it)
	delete(m.c.vfrCells, h)
	return nil
}

// set_bytes_lane(h, lane, ptr, len): sets a single lane from a guest
// memory byte range, big-endian, the per-lane analogue of
// bn254fr.set_bytes.
func (m vbn254frModule) setBytesLane(it *interp.Interpreter) *trapkind.Trap {
	args := popI32s(it, 4)
	cell := m.c.vfr(args[0])
	lane := args[1]
	raw := readMem(it, args[2], args[3])
	cell.values[lane] = field.FromBytes(raw)
	m.c.commitValue(cell.handles[lane], cell.values[lane])
	return nil
}

// set_const(h, ptr): broadcasts the 256-bit little-endian constant
// at ptr (an 8-word buffer) to every lane.
func (m vbn254frModule) setConst(it *interp.Interpreter) *trapkind.Trap {
	args := popI32s(it, 2)
	cell := m.c.vfr(args[0])
	raw := readMem(it, args[1], 32)
	v := field.FromBigInt(le256ToBigInt(raw))
	for i := range cell.values {
		cell.values[i] = v
		m.c.commitValue(cell.handles[i], v)
	}
	return nil
}

// popCells pops the common (dst, a, b) cell-handle triple.
func (m vbn254frModule) popCells(it *interp.Interpreter) (dst, a, b *vfrCell) {
	args := popI32s(it, 3)
	return m.c.vfr(args[0]), m.c.vfr(args[1]), m.c.vfr(args[2])
}

func (m vbn254frModule) commitLanes(cell *vfrCell) {
	for i := range cell.values {
		m.c.commitValue(cell.handles[i], cell.values[i])
	}
}

func (m vbn254frModule) add(checked bool) interp.HostFunc {
	return func(it *interp.Interpreter) *trapkind.Trap {
		dst, a, b := m.popCells(it)
		ntt.EltwiseAddMod(dst.values, a.values, b.values, 0, 0, 0, len(dst.values))
		m.commitLanes(dst)
		if checked {
			for i := range dst.values {
				m.c.assertZeroValue(field.Sub(field.Add(a.values[i], b.values[i]), dst.values[i]))
			}
		}
		return nil
	}
}

func (m vbn254frModule) sub(checked bool) interp.HostFunc {
	return func(it *interp.Interpreter) *trapkind.Trap {
		dst, a, b := m.popCells(it)
		ntt.EltwiseSubMod(dst.values, a.values, b.values, 0, 0, 0, len(dst.values))
		m.commitLanes(dst)
		if checked {
			for i := range dst.values {
				m.c.assertZeroValue(field.Sub(field.Sub(a.values[i], b.values[i]), dst.values[i]))
			}
		}
		return nil
	}
}

func (m vbn254frModule) mul(checked bool) interp.HostFunc {
	return func(it *interp.Interpreter) *trapkind.Trap {
		dst, a, b := m.popCells(it)
		ntt.EltwiseMulMod(dst.values, a.values, b.values, 0, 0, 0, len(dst.values))
		m.commitLanes(dst)
		if checked {
			for i := range dst.values {
				m.c.assertProductValue(a.values[i], b.values[i], dst.values[i])
			}
		}
		return nil
	}
}

// add_const(dst, a, constPtr): dst[i] = a[i] + const for every lane.
func (m vbn254frModule) addConst(it *interp.Interpreter) *trapkind.Trap {
	args := popI32s(it, 3)
	dst, a := m.c.vfr(args[0]), m.c.vfr(args[1])
	raw := readMem(it, args[2], 32)
	constVal := field.FromBigInt(le256ToBigInt(raw))
	ntt.AddConstMod(dst.values, a.values, constVal, 0, 0, len(dst.values))
	m.commitLanes(dst)
	return nil
}

// mul_const(dst, a, constPtr): dst[i] = a[i] * const for every lane.
func (m vbn254frModule) mulConst(it *interp.Interpreter) *trapkind.Trap {
	args := popI32s(it, 3)
	dst, a := m.c.vfr(args[0]), m.c.vfr(args[1])
	raw := readMem(it, args[2], 32)
	constVal := field.FromBigInt(le256ToBigInt(raw))
	ntt.MulConstMod(dst.values, a.values, constVal, 0, 0, len(dst.values))
	m.commitLanes(dst)
	return nil
}

func (m vbn254frModule) getLaneU64(it *interp.Interpreter) *trapkind.Trap {
	args := popI32s(it, 2)
	cell := m.c.vfr(args[0])
	pushI64(it, int64(cell.values[args[1]].BigInt().Uint64()))
	return nil
}
