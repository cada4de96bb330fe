// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package fixtures builds end-to-end guest scenarios directly as
// internal/wasm/ir trees, since there is no WASM/C toolchain in this
// repo to compile them from the SDK's C examples. A
// handful of small helpers here assemble instruction sequences the
// way a human would hand-write bytecode: push operands, call, store
// to a local.
package fixtures

import (
	"math/big"

	"github.com/luxfi/ligetron/internal/wasm/ir"
)

func constI32(v int32) ir.Instr {
	return ir.Instr{Op: ir.OpI32Const, Imm: [4]int64{int64(v)}}
}

func constI64(v int64) ir.Instr {
	return ir.Instr{Op: ir.OpI64Const, Imm: [4]int64{v}}
}

func localGet(i int) ir.Instr { return ir.Instr{Op: ir.OpLocalGet, Imm: [4]int64{int64(i)}} }
func localSet(i int) ir.Instr { return ir.Instr{Op: ir.OpLocalSet, Imm: [4]int64{int64(i)}} }

func load32(offset int32) ir.Instr { return ir.Instr{Op: ir.OpI32Load, Imm: [4]int64{int64(offset)}} }

func drop() ir.Instr { return ir.Instr{Op: ir.OpDrop} }

func hostCall(module, name string) ir.Instr {
	return ir.Instr{Op: ir.OpHostCall, HostModule: module, HostName: name}
}

// pad32BE renders a non-negative big.Int as a 32-byte big-endian
// buffer, the width uint256.set_bytes_big expects for a full 256-bit
// value.
func pad32BE(x *big.Int) []byte {
	raw := x.Bytes()
	out := make([]byte, 32)
	copy(out[32-len(raw):], raw)
	return out
}
