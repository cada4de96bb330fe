// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package host

import (
	"encoding/binary"
	"math/big"

	"github.com/luxfi/ligetron/internal/trapkind"
	"github.com/luxfi/ligetron/internal/wasm/interp"
)

// popI32s pops n i32 arguments and returns them in their original
// left-to-right push order (the last-pushed argument is topmost).
func popI32s(it *interp.Interpreter, n int) []int32 {
	out := make([]int32, n)
	for i := n - 1; i >= 0; i-- {
		out[i] = it.Stack.PopValue().I32
	}
	return out
}

func popI32(it *interp.Interpreter) int32 { return it.Stack.PopValue().I32 }
func popI64(it *interp.Interpreter) int64 { return it.Stack.PopValue().I64 }

func pushI32(it *interp.Interpreter, v int32) { it.Stack.PushValue(interp.I32Value(v)) }
func pushI64(it *interp.Interpreter, v int64) { it.Stack.PushValue(interp.I64Value(v)) }

// readMem returns a slice view of guest memory, bounds-checked.
func readMem(it *interp.Interpreter, ptr, length int32) []byte {
	mem := it.Memory()
	if mem == nil {
		panic(trapkind.NewTrap(trapkind.OutOfBoundsMemory, "host call with no declared memory"))
	}
	if ptr < 0 || length < 0 || int64(ptr)+int64(length) > int64(len(mem.Data)) {
		panic(trapkind.NewTrap(trapkind.OutOfBoundsMemory, "host memory access out of bounds"))
	}
	return mem.Data[ptr : ptr+length]
}

func writeMem(it *interp.Interpreter, ptr int32, data []byte) {
	dst := readMem(it, ptr, int32(len(data)))
	copy(dst, data)
}

func putU32(it *interp.Interpreter, ptr int32, v uint32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	writeMem(it, ptr, b[:])
}

func putU64(it *interp.Interpreter, ptr int32, v uint64) {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], v)
	writeMem(it, ptr, b[:])
}

// le256ToBigInt interprets a 32-byte buffer as eight little-endian
// u32 words, the 8-word immediate format vbn254fr constants use.
func le256ToBigInt(b []byte) *big.Int {
	z := new(big.Int)
	for i := 7; i >= 0; i-- {
		word := binary.LittleEndian.Uint32(b[i*4 : i*4+4])
		z.Lsh(z, 32)
		z.Or(z, big.NewInt(int64(word)))
	}
	return z
}
