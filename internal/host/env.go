// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package host

import (
	"encoding/hex"

	"go.uber.org/zap"

	"github.com/luxfi/ligetron/internal/field"
	"github.com/luxfi/ligetron/internal/trapkind"
	"github.com/luxfi/ligetron/internal/wasm/interp"
)

// envModule is the env host module: the assertion
// primitives, the native-integer-to-witness promotion rule, and the
// thin print/dump/file intrinsics the SDK's C runtime calls directly
// rather than through bn254fr.
type envModule struct{ c *Ctx }

func (m envModule) Name() string { return "env" }

func (m envModule) Functions() map[string]interp.HostFunc {
	return map[string]interp.HostFunc{
		"assert_zero":       m.assertZero,
		"assert_one":        m.assertOne,
		"assert_equal":      m.assertEqual,
		"assert_constant":   m.assertConstant,
		"witness_cast_u32":  m.witnessCastU32,
		"witness_cast_u64":  m.witnessCastU64,
		"i32_private_const": m.witnessCastU32,
		"i64_private_const": m.witnessCastU64,
		"print_str":         m.printStr,
		"dump_memory":       m.dumpMemory,
		"file_size_get":     m.fileSizeGet,
		"file_get":          m.fileGet,
	}
}

// assert_zero(w): pop a managed-witness stack value, assert it
// equals zero.
func (m envModule) assertZero(it *interp.Interpreter) *trapkind.Trap {
	w := it.Stack.PopValue().Witness
	m.c.assertEqualValue(m.c.W.Value(w), field.Zero())
	return nil
}

func (m envModule) assertOne(it *interp.Interpreter) *trapkind.Trap {
	w := it.Stack.PopValue().Witness
	m.c.assertEqualValue(m.c.W.Value(w), field.One())
	return nil
}

// assert_equal(w1, w2): left pushed first, so w2 is on top.
func (m envModule) assertEqual(it *interp.Interpreter) *trapkind.Trap {
	w2 := it.Stack.PopValue().Witness
	w1 := it.Stack.PopValue().Witness
	m.c.assertEqualValue(m.c.W.Value(w1), m.c.W.Value(w2))
	return nil
}

// assert_constant(w, k): k is a plain i64 pushed after w.
func (m envModule) assertConstant(it *interp.Interpreter) *trapkind.Trap {
	k := popI64(it)
	w := it.Stack.PopValue().Witness
	m.c.assertEqualValue(m.c.W.Value(w), field.FromUint64(uint64(k)))
	return nil
}

func (m envModule) witnessCastU32(it *interp.Interpreter) *trapkind.Trap {
	v := popI32(it)
	h := m.c.W.AcquireWitness()
	m.c.commitValue(h, field.FromUint64(uint64(uint32(v))))
	it.Stack.PushValue(interp.WitnessValue(h))
	return nil
}

func (m envModule) witnessCastU64(it *interp.Interpreter) *trapkind.Trap {
	v := popI64(it)
	h := m.c.W.AcquireWitness()
	m.c.commitValue(h, field.FromUint64(uint64(v)))
	it.Stack.PushValue(interp.WitnessValue(h))
	return nil
}

// print_str(ptr, len): ptr pushed first.
func (m envModule) printStr(it *interp.Interpreter) *trapkind.Trap {
	args := popI32s(it, 2)
	ptr, length := args[0], args[1]
	msg := readMem(it, ptr, length)
	m.c.Logger.Info("guest print_str", zap.ByteString("msg", msg))
	return nil
}

func (m envModule) dumpMemory(it *interp.Interpreter) *trapkind.Trap {
	args := popI32s(it, 2)
	ptr, length := args[0], args[1]
	data := readMem(it, ptr, length)
	m.c.Logger.Debug("guest dump_memory", zap.String("hex", hex.EncodeToString(data)))
	return nil
}

// file_size_get(namePtr, nameLen) -> i32 size. Traps with FileIO if
// the named file was not preloaded into Ctx.Files.
func (m envModule) fileSizeGet(it *interp.Interpreter) *trapkind.Trap {
	args := popI32s(it, 2)
	name := string(readMem(it, args[0], args[1]))
	data, ok := m.c.Files[name]
	if !ok {
		return trapkind.NewTrap(trapkind.FileIO, "file not found: "+name)
	}
	pushI32(it, int32(len(data)))
	return nil
}

// file_get(namePtr, nameLen, dstPtr): writes the file's bytes to
// dstPtr, which the guest has sized via file_size_get.
func (m envModule) fileGet(it *interp.Interpreter) *trapkind.Trap {
	args := popI32s(it, 3)
	name := string(readMem(it, args[0], args[1]))
	dst := args[2]
	data, ok := m.c.Files[name]
	if !ok {
		return trapkind.NewTrap(trapkind.FileIO, "file not found: "+name)
	}
	writeMem(it, dst, data)
	return nil
}
