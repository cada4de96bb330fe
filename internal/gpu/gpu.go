//go:build !gpu

// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package gpu: pure-Go build. The CPU path is not a stub; it is the
// reference implementation the accelerated backend is checked
// against.
package gpu

import "sync/atomic"

type cpuDevice struct {
	submits atomic.Uint64
}

// NewDevice returns the CPU device. Builds without the `gpu` tag only
// ever see this implementation.
func NewDevice() (Device, error) {
	return &cpuDevice{}, nil
}

func (d *cpuDevice) Backend() string { return "CPU" }

func (d *cpuDevice) MakeDeviceBuffer(n int) *Buffer {
	return &Buffer{kind: KindDevice, backing: newStorage(n), length: n}
}

func (d *cpuDevice) MakeUniformBuffer(n int) *Buffer {
	return &Buffer{kind: KindUniform, backing: newStorage(n), length: n}
}

func (d *cpuDevice) MakeMapBuffer(n int) *Buffer {
	return &Buffer{kind: KindMap, backing: newStorage(n), length: n}
}

func (d *cpuDevice) WriteBufferRaw(dst *Buffer, offset int, data []byte) {
	copy(dst.raw()[offset:], data)
	d.bumpSubmit()
}

func (d *cpuDevice) CopyBufferToBuffer(dst *Buffer, dstOff int, src *Buffer, srcOff int, n int) {
	copy(dst.raw()[dstOff:dstOff+n], src.raw()[srcOff:srcOff+n])
	d.bumpSubmit()
}

func (d *cpuDevice) ClearBuffer(dst *Buffer) {
	b := dst.raw()
	for i := range b {
		b[i] = 0
	}
	d.bumpSubmit()
}

func (d *cpuDevice) MapBufferRaw(buf *Buffer) []byte {
	d.DeviceSynchronize()
	out := make([]byte, buf.Len())
	copy(out, buf.raw())
	return out
}

func (d *cpuDevice) UnmapBuffer(buf *Buffer) {}

func (d *cpuDevice) DeviceSynchronize() {}

func (d *cpuDevice) SubmitCount() uint64 { return d.submits.Load() }

func (d *cpuDevice) bumpSubmit() {
	n := d.submits.Add(1)
	maybeImplicitSync(d, n)
}
