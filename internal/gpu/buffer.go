// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package gpu implements the GPU device abstraction: an
// adapter/device/queue handle, reference-counted buffer storage with
// offset+length views, synchronous FIFO enqueue, and an explicit
// device-synchronize barrier. A pure-Go build (no tag) and a
// cgo-accelerated build (tag gpu) implement the same Device surface.
package gpu

import "sync"

// storage is the reference-counted backing array a Buffer view slices
// into. The last view to release storage frees it.
type storage struct {
	mu   sync.Mutex
	data []byte
	refs int
}

func newStorage(n int) *storage {
	return &storage{data: make([]byte, n), refs: 1}
}

func (s *storage) retain() {
	s.mu.Lock()
	s.refs++
	s.mu.Unlock()
}

func (s *storage) release() {
	s.mu.Lock()
	s.refs--
	freed := s.refs == 0
	s.mu.Unlock()
	if freed {
		s.data = nil
	}
}

// Kind distinguishes device, uniform, and host-mappable buffers.
type Kind uint8

const (
	KindDevice Kind = iota
	KindUniform
	KindMap
)

// Buffer is a view (offset, length) into a shared, reference-counted
// storage block.
type Buffer struct {
	kind    Kind
	backing *storage
	offset  int
	length  int
}

// Len returns the view's length in bytes.
func (b *Buffer) Len() int { return b.length }

func (b *Buffer) Kind() Kind { return b.kind }

// Slice returns a new view into the same backing storage, retaining
// it, with a sub-range [off, off+n).
func (b *Buffer) Slice(off, n int) *Buffer {
	if off < 0 || n < 0 || off+n > b.length {
		panic("gpu: buffer slice out of range")
	}
	b.backing.retain()
	return &Buffer{kind: b.kind, backing: b.backing, offset: b.offset + off, length: n}
}

// Release drops this view's reference to the backing storage.
func (b *Buffer) Release() {
	if b.backing != nil {
		b.backing.release()
		b.backing = nil
	}
}

// raw returns the byte window this view covers, valid only while the
// backing storage is retained by the caller.
func (b *Buffer) raw() []byte {
	return b.backing.data[b.offset : b.offset+b.length]
}
