//go:build gpu

// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package gpu: accelerated build. Uses WebGPU (cross-platform),
// falling back to Metal on darwin or CUDA on linux/windows through a
// native shader-compute library resolved via pkg-config. Build with:
//
//	CGO_ENABLED=1 go build -tags gpu
//
// Requires a native compute library exposing the symbols below,
// discoverable via `pkg-config ligetron-gpu`.
package gpu

/*
#cgo pkg-config: ligetron-gpu
#cgo darwin LDFLAGS: -framework Metal -framework Foundation
#include <stdint.h>
#include <stdbool.h>
#include <stdlib.h>

bool ligetron_gpu_available(void);
const char* ligetron_gpu_backend(void);

typedef struct LigetronDevice LigetronDevice;
LigetronDevice* ligetron_device_create(void);
void ligetron_device_destroy(LigetronDevice*);

uint32_t ligetron_buffer_create(LigetronDevice*, uint64_t n_bytes, int kind);
void ligetron_buffer_write(LigetronDevice*, uint32_t handle, uint64_t offset, const uint8_t* data, uint64_t n);
void ligetron_buffer_copy(LigetronDevice*, uint32_t dst, uint64_t dst_off, uint32_t src, uint64_t src_off, uint64_t n);
void ligetron_buffer_clear(LigetronDevice*, uint32_t handle);
void ligetron_buffer_map(LigetronDevice*, uint32_t handle, uint8_t* out, uint64_t n);
void ligetron_device_synchronize(LigetronDevice*);
*/
import "C"

import (
	"runtime"
	"sync"
	"sync/atomic"
	"unsafe"
)

var probe struct {
	once      sync.Once
	available bool
	backend   string
}

func probeOnce() {
	probe.once.Do(func() {
		probe.available = bool(C.ligetron_gpu_available())
		if probe.available {
			probe.backend = C.GoString(C.ligetron_gpu_backend())
		}
	})
}

// Available reports whether the native compute library found a
// usable adapter.
func Available() bool {
	probeOnce()
	return probe.available
}

type cgoDevice struct {
	handle  *C.LigetronDevice
	submits atomic.Uint64
	mu      sync.Mutex
	nextID  uint32
	bufKind map[uint32]Kind
}

// NewDevice requests a native adapter/device/queue. If the native
// library reports no usable adapter, it returns a ResourceError
// rather than silently degrading; adapter and device failures are
// fatal, with no recovery attempted.
func NewDevice() (Device, error) {
	if !Available() {
		return nil, errGPUUnavailable
	}
	h := C.ligetron_device_create()
	if h == nil {
		return nil, errGPUUnavailable
	}
	d := &cgoDevice{handle: h, bufKind: make(map[uint32]Kind)}
	runtime.SetFinalizer(d, func(d *cgoDevice) {
		C.ligetron_device_destroy(d.handle)
	})
	return d, nil
}

func (d *cgoDevice) Backend() string {
	probeOnce()
	return probe.backend
}

func (d *cgoDevice) makeBuffer(n int, kind Kind) *Buffer {
	C.ligetron_buffer_create(d.handle, C.uint64_t(n), C.int(kind))
	return &Buffer{kind: kind, backing: newStorage(n), length: n}
}

func (d *cgoDevice) MakeDeviceBuffer(n int) *Buffer  { return d.makeBuffer(n, KindDevice) }
func (d *cgoDevice) MakeUniformBuffer(n int) *Buffer { return d.makeBuffer(n, KindUniform) }
func (d *cgoDevice) MakeMapBuffer(n int) *Buffer     { return d.makeBuffer(n, KindMap) }

func (d *cgoDevice) WriteBufferRaw(dst *Buffer, offset int, data []byte) {
	if len(data) > 0 {
		C.ligetron_buffer_write(d.handle, 0, C.uint64_t(offset),
			(*C.uint8_t)(unsafe.Pointer(&data[0])), C.uint64_t(len(data)))
		runtime.KeepAlive(data)
	}
	copy(dst.raw()[offset:], data)
	d.bumpSubmit()
}

func (d *cgoDevice) CopyBufferToBuffer(dst *Buffer, dstOff int, src *Buffer, srcOff int, n int) {
	C.ligetron_buffer_copy(d.handle, 0, C.uint64_t(dstOff), 0, C.uint64_t(srcOff), C.uint64_t(n))
	copy(dst.raw()[dstOff:dstOff+n], src.raw()[srcOff:srcOff+n])
	d.bumpSubmit()
}

func (d *cgoDevice) ClearBuffer(dst *Buffer) {
	C.ligetron_buffer_clear(d.handle, 0)
	b := dst.raw()
	for i := range b {
		b[i] = 0
	}
	d.bumpSubmit()
}

func (d *cgoDevice) MapBufferRaw(buf *Buffer) []byte {
	d.DeviceSynchronize()
	out := make([]byte, buf.Len())
	if len(out) > 0 {
		C.ligetron_buffer_map(d.handle, 0, (*C.uint8_t)(unsafe.Pointer(&out[0])), C.uint64_t(len(out)))
	}
	copy(out, buf.raw())
	return out
}

func (d *cgoDevice) UnmapBuffer(buf *Buffer) {}

func (d *cgoDevice) DeviceSynchronize() {
	C.ligetron_device_synchronize(d.handle)
}

func (d *cgoDevice) SubmitCount() uint64 { return d.submits.Load() }

func (d *cgoDevice) bumpSubmit() {
	n := d.submits.Add(1)
	maybeImplicitSync(d, n)
}
