// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package host

import (
	"encoding/binary"

	"go.uber.org/zap"

	"github.com/luxfi/ligetron/internal/trapkind"
	"github.com/luxfi/ligetron/internal/wasm/interp"
)

// wasi errno values, the subset this runtime ever returns.
const (
	wasiErrnoSuccess int32 = 0
)

// wasiModule is the wasi_snapshot_preview1 subset the SDK runtime
// needs: argv delivery (with private-range tagging), an empty
// environment, best-effort fd_read/fd_write, proc_exit, and a
// deterministic random_get.
type wasiModule struct{ c *Ctx }

func (m wasiModule) Name() string { return "wasi_snapshot_preview1" }

func (m wasiModule) Functions() map[string]interp.HostFunc {
	return map[string]interp.HostFunc{
		"args_sizes_get":    m.argsSizesGet,
		"args_get":          m.argsGet,
		"environ_sizes_get": m.environSizesGet,
		"environ_get":       m.environGet,
		"fd_read":           m.fdRead,
		"fd_write":          m.fdWrite,
		"proc_exit":         m.procExit,
		"random_get":        m.randomGet,
	}
}

func (m wasiModule) argsSizesGet(it *interp.Interpreter) *trapkind.Trap {
	args := popI32s(it, 2)
	argcPtr, bufSizePtr := args[0], args[1]
	bufSize := 0
	for _, a := range m.c.Argv {
		bufSize += len(a) + 1 // NUL terminator
	}
	putU32(it, argcPtr, uint32(len(m.c.Argv)))
	putU32(it, bufSizePtr, uint32(bufSize))
	pushI32(it, wasiErrnoSuccess)
	return nil
}

// args_get(argvPtr, argvBufPtr): writes len(Argv) u32 pointers into
// the guest buffer at argvPtr, and the NUL-terminated argv bytes
// themselves into argvBufPtr, recording each private index's
// (ptr, len) for PrivateArgRanges.
func (m wasiModule) argsGet(it *interp.Interpreter) *trapkind.Trap {
	args := popI32s(it, 2)
	argvPtr, bufPtr := args[0], args[1]
	cursor := bufPtr
	for i, a := range m.c.Argv {
		putU32(it, argvPtr+int32(i*4), uint32(cursor))
		writeMem(it, cursor, append(append([]byte{}, a...), 0))
		if m.c.PrivateArgv[i] {
			m.c.PrivateArgRanges[i] = [2]int32{cursor, int32(len(a))}
		}
		cursor += int32(len(a)) + 1
	}
	pushI32(it, wasiErrnoSuccess)
	return nil
}

func (m wasiModule) environSizesGet(it *interp.Interpreter) *trapkind.Trap {
	args := popI32s(it, 2)
	putU32(it, args[0], 0)
	putU32(it, args[1], 0)
	pushI32(it, wasiErrnoSuccess)
	return nil
}

func (m wasiModule) environGet(it *interp.Interpreter) *trapkind.Trap {
	popI32s(it, 2) // no environment variables; nothing to write
	pushI32(it, wasiErrnoSuccess)
	return nil
}

// fd_read(fd, iovsPtr, iovsLen, nreadPtr): this runtime never wires a
// real stdin, so it always reports zero bytes read.
func (m wasiModule) fdRead(it *interp.Interpreter) *trapkind.Trap {
	args := popI32s(it, 4)
	putU32(it, args[3], 0)
	pushI32(it, wasiErrnoSuccess)
	return nil
}

// fd_write(fd, iovsPtr, iovsLen, nwrittenPtr): walks the iovec array
// (4-byte ptr, 4-byte len pairs) and logs the concatenated bytes,
// since this runtime has no real stdout/stderr to forward to.
func (m wasiModule) fdWrite(it *interp.Interpreter) *trapkind.Trap {
	args := popI32s(it, 4)
	fd, iovsPtr, iovsLen, nwrittenPtr := args[0], args[1], args[2], args[3]
	var total int32
	var out []byte
	for i := int32(0); i < iovsLen; i++ {
		entry := readMem(it, iovsPtr+i*8, 8)
		ptr := int32(binary.LittleEndian.Uint32(entry[0:4]))
		length := int32(binary.LittleEndian.Uint32(entry[4:8]))
		out = append(out, readMem(it, ptr, length)...)
		total += length
	}
	m.c.Logger.Info("guest fd_write", zap.Int32("fd", fd), zap.ByteString("data", out))
	putU32(it, nwrittenPtr, uint32(total))
	pushI32(it, wasiErrnoSuccess)
	return nil
}

// proc_exit(code): unwinds every active frame immediately via
// it.RequestExit; this call never returns.
func (m wasiModule) procExit(it *interp.Interpreter) *trapkind.Trap {
	code := popI32(it)
	it.RequestExit(code)
	return nil
}

// random_get(ptr, len): draws from Ctx.RandomRNG, a deterministic
// engine: every run with the same seed produces the same
// guest-visible randomness, which is required for a prover and
// verifier run to agree on anything the guest derives from it.
func (m wasiModule) randomGet(it *interp.Interpreter) *trapkind.Trap {
	args := popI32s(it, 2)
	ptr, length := args[0], args[1]
	n := int(length)
	if n%8 != 0 {
		n += 8 - n%8
	}
	data := m.c.RandomRNG.DrawBytes(n)
	writeMem(it, ptr, data[:length])
	pushI32(it, wasiErrnoSuccess)
	return nil
}
