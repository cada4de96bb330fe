// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package gpu

import "github.com/luxfi/ligetron/internal/trapkind"

// errGPUUnavailable is returned by the accelerated backend's
// NewDevice when the native library reports no usable adapter.
var errGPUUnavailable = trapkind.NewResourceError("no usable GPU adapter")

// Device is the common surface of the GPU abstraction, implemented
// once by the pure-Go fallback (gpu.go, build tag !gpu) and once by
// the cgo-accelerated backend (gpu_cgo.go, build tag gpu).
// internal/ntt's Engine.Encode stages each codeword through this
// Device so an accelerated build can intercept that dispatch point
// without internal/ntt depending on cgo directly. The elementwise
// kernels and internal/merkle's column hashing run on the host and do
// not go through a Device.
type Device interface {
	// MakeDeviceBuffer, MakeUniformBuffer, MakeMapBuffer allocate a
	// fresh buffer of n bytes with reference count 1.
	MakeDeviceBuffer(n int) *Buffer
	MakeUniformBuffer(n int) *Buffer
	MakeMapBuffer(n int) *Buffer

	// WriteBufferRaw, CopyBufferToBuffer, ClearBuffer are synchronous,
	// FIFO-ordered enqueues within the single logical command queue.
	WriteBufferRaw(dst *Buffer, offset int, data []byte)
	CopyBufferToBuffer(dst *Buffer, dstOff int, src *Buffer, srcOff int, n int)
	ClearBuffer(dst *Buffer)

	// MapBufferRaw blocks until outstanding work up to this point
	// completes, then returns a host-visible read-back of the buffer.
	MapBufferRaw(buf *Buffer) []byte
	UnmapBuffer(buf *Buffer)

	// DeviceSynchronize flushes the queue and waits for completion.
	DeviceSynchronize()

	// Backend names the active compute backend ("CPU", "Metal",
	// "CUDA", "WebGPU").
	Backend() string

	// SubmitCount reports how many kernel dispatches have been
	// enqueued since the device was created, used by the ~128-submit
	// implicit synchronization heuristic.
	SubmitCount() uint64
}

// implicitSyncPeriod bounds command-buffer accumulation: after every
// 128 submits the host implicitly synchronizes.
const implicitSyncPeriod = 128

// maybeImplicitSync is shared by both backends' dispatch bookkeeping.
func maybeImplicitSync(d Device, submits uint64) {
	if submits%implicitSyncPeriod == 0 {
		d.DeviceSynchronize()
	}
}
