// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package fixtures

import (
	"math/big"

	"github.com/luxfi/ligetron/internal/wasm/ir"
)

// local slots for UInt256DivisionModule's single function.
const (
	localPtr1 = iota // argv[1]: numerator low half
	localPtr2        // argv[2]: numerator high half
	localPtr3        // argv[3]: divisor
	localPtr4        // argv[4]: expected quotient
	localPtr5        // argv[5]: expected remainder
	localNumLo
	localNumHi
	localDiv
	localQuot
	localRem
	localExpQuot
	localExpRem
	uint256DivisionLocalCount
)

const uint256DivisionBufPtr = 128

// UInt256DivisionArgv builds the argv for the 512-by-256 division
// scenario. divisor must satisfy the normalised-division
// precondition (its top 64-bit limb, bits 192-255, non-zero, i.e.
// divisor >= 2^192) or uint256.div traps with IntegerDivideByZero
// instead of producing the quotient/remainder this fixture checks.
func UInt256DivisionArgv(numLo, numHi, divisor *big.Int) [][]byte {
	q, r := new(big.Int), new(big.Int)
	wide := new(big.Int).Lsh(numHi, 256)
	wide.Add(wide, numLo)
	q.DivMod(wide, divisor, r)

	return [][]byte{
		[]byte("Ligero"),
		pad32BE(numLo),
		pad32BE(numHi),
		pad32BE(divisor),
		pad32BE(q),
		pad32BE(r),
	}
}

// UInt256DivisionModule builds the guest program for the division
// scenario: it loads the five 32-byte operands wasi.args_get wrote to
// guest memory, runs uint256.div, and checks the quotient/remainder
// against the expected values via uint256.cmp promoted into a
// witness through env.witness_cast_u32 + env.assert_zero, the same
// native-integer-to-witness promotion path used for any
// non-field-shaped host result a guest wants to bind into the trace.
func UInt256DivisionModule() *ir.Module {
	var body []ir.Instr

	body = append(body,
		constI32(0), constI32(uint256DivisionBufPtr),
		hostCall("wasi_snapshot_preview1", "args_get"),
		drop(),
	)

	ptrLocals := []int{localPtr1, localPtr2, localPtr3, localPtr4, localPtr5}
	for i, l := range ptrLocals {
		argvIdx := i + 1
		body = append(body,
			constI32(int32(argvIdx*4)),
			load32(0),
			localSet(l),
		)
	}

	allocLocals := []int{localNumLo, localNumHi, localDiv, localQuot, localRem, localExpQuot, localExpRem}
	for _, l := range allocLocals {
		body = append(body, hostCall("uint256", "alloc"), localSet(l))
	}

	setBytes := func(handleLocal, ptrLocal int) {
		body = append(body,
			localGet(handleLocal), localGet(ptrLocal), constI32(32),
			hostCall("uint256", "set_bytes_big"),
		)
	}
	setBytes(localNumLo, localPtr1)
	setBytes(localNumHi, localPtr2)
	setBytes(localDiv, localPtr3)
	setBytes(localExpQuot, localPtr4)
	setBytes(localExpRem, localPtr5)

	body = append(body,
		localGet(localQuot), localGet(localRem), localGet(localNumLo), localGet(localNumHi), localGet(localDiv),
		hostCall("uint256", "div"),
	)

	assertCmpZero := func(aLocal, bLocal int) {
		body = append(body,
			localGet(aLocal), localGet(bLocal),
			hostCall("uint256", "cmp"),
			hostCall("env", "witness_cast_u32"),
			hostCall("env", "assert_zero"),
		)
	}
	assertCmpZero(localQuot, localExpQuot)
	assertCmpZero(localRem, localExpRem)

	locals := make([]ir.ValType, uint256DivisionLocalCount)
	for i := range locals {
		locals[i] = ir.ValI32
	}

	return &ir.Module{
		MemoryMin: 1,
		Functions: []ir.Function{{Locals: locals, Body: body}},
		Start:     0,
	}
}
