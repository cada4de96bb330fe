// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package witness implements the witness manager: pooled
// witness/random slots, quadratic-constraint triples, and the three
// parallel row streams (code/linear/quadratic) that feed the ZKP
// context a packing-width row at a time.
//
// A witness and its quadratic triple reference each other, so rather
// than a pointer graph the manager keeps two flat arenas (slots and
// triples) addressed by u32 index (Handle / TripleHandle), with a
// free list recycling released entries.
package witness

import (
	"github.com/luxfi/ligetron/internal/field"
	"github.com/luxfi/ligetron/internal/prg"
)

// Status is a witness slot's position in the lazy-commit lifecycle.
type Status uint8

const (
	StatusUnused Status = iota
	StatusLinearReady
	StatusQuadPending
	StatusQuadReady
)

// CommitResult is returned by CommitNotify.
type CommitResult uint8

const (
	ResultNotAWitness CommitResult = iota
	ResultLinearReady
	ResultQuadraticPending
	ResultQuadraticReady
)

// Handle is an owning reference into the slot arena. The zero Handle
// is never valid (slot 0 is reserved so a zero Handle reliably means
// "no handle").
type Handle uint32

// TripleHandle is a reference into the triple arena.
type TripleHandle uint32

type slotRecord struct {
	value      field.Fp
	randomness field.Fp
	status     Status
	triple     TripleHandle
	role       uint8 // 0=a, 1=b, 2=c; meaningful only when status is quad*
	inTriple   bool
	assigned   bool
}

type tripleRecord struct {
	a, b, c   Handle
	readyMask uint8 // bit i set once operand i has been committed (CommitNotify)
	spent     bool
}

// RowSink receives a fully packed row (exactly l entries per stream)
// for RS encoding and Merkle absorption.
type RowSink interface {
	CommitRow(code, linear, quadratic []field.Fp)
}

// Manager owns the slot pool, the random pool, the triple pool, and
// the three row buffers. Never shared across goroutines; slot
// acquires and recycles are never concurrent.
type Manager struct {
	packingWidth int

	slots     []slotRecord
	freeSlots []Handle

	triples     []tripleRecord
	freeTriples []TripleHandle

	randomPool []field.Fp // mirror pool, refilled lazily from anyRNG
	randomNext int

	code, linear, quadratic []field.Fp

	witnessRNG *prg.Engine
	anyRNG     *prg.Engine
	sink       RowSink
}

// NewManager builds a witness manager for a run with packing width l.
// witnessRNG seeds slot randomness; anyRNG seeds the random pool and
// row padding. The two engines are independently seeded.
func NewManager(packingWidth int, witnessRNG, anyRNG *prg.Engine, sink RowSink) *Manager {
	return &Manager{
		packingWidth: packingWidth,
		slots:        make([]slotRecord, 1, packingWidth+1), // index 0 reserved
		code:         make([]field.Fp, 0, packingWidth),
		linear:       make([]field.Fp, 0, packingWidth),
		quadratic:    make([]field.Fp, 0, packingWidth),
		witnessRNG:   witnessRNG,
		anyRNG:       anyRNG,
		sink:         sink,
	}
}

// AcquireWitness returns an owning handle to a fresh or recycled slot.
func (m *Manager) AcquireWitness() Handle {
	if n := len(m.freeSlots); n > 0 {
		h := m.freeSlots[n-1]
		m.freeSlots = m.freeSlots[:n-1]
		m.slots[h] = slotRecord{}
		return h
	}
	m.slots = append(m.slots, slotRecord{})
	return Handle(len(m.slots) - 1)
}

// Release returns a slot to the free list. Invariant: a slot is only
// recycled after its row has been committed (enforced by callers;
// the witness manager does not itself track per-slot row membership
// beyond the CommitNotify call that already consumed it).
func (m *Manager) Release(h Handle) {
	m.slots[h] = slotRecord{}
	m.freeSlots = append(m.freeSlots, h)
}

func (m *Manager) slot(h Handle) *slotRecord { return &m.slots[h] }

// Value returns a slot's currently assigned value. Host modules use
// this to read back an operand before building a fresh assertion
// triple over it (internal/host's "_checked" helpers).
func (m *Manager) Value(h Handle) field.Fp { return m.slots[h].value }

// AcquireTriple allocates a quadratic triple pinning three witness
// handles and wires each slot's triple/role back-reference.
func (m *Manager) AcquireTriple(a, b, c Handle) TripleHandle {
	var th TripleHandle
	if n := len(m.freeTriples); n > 0 {
		th = m.freeTriples[n-1]
		m.freeTriples = m.freeTriples[:n-1]
		m.triples[th] = tripleRecord{}
	} else {
		m.triples = append(m.triples, tripleRecord{})
		th = TripleHandle(len(m.triples) - 1)
	}
	m.triples[th].a, m.triples[th].b, m.triples[th].c = a, b, c
	m.slot(a).triple, m.slot(a).role, m.slot(a).inTriple = th, 0, true
	m.slot(b).triple, m.slot(b).role, m.slot(b).inTriple = th, 1, true
	m.slot(c).triple, m.slot(c).role, m.slot(c).inTriple = th, 2, true
	m.slot(a).status, m.slot(b).status, m.slot(c).status = StatusQuadPending, StatusQuadPending, StatusQuadPending
	return th
}

// Assign populates a slot's value and draws fresh blinding
// randomness.
func (m *Manager) Assign(h Handle, value field.Fp) {
	s := m.slot(h)
	s.value = value
	s.randomness = m.witnessRNG.DrawFieldElement()
	s.assigned = true
}

// CommitNotify runs the lazy-commit protocol for one slot. It must
// be called once per slot after Assign.
func (m *Manager) CommitNotify(h Handle) CommitResult {
	s := m.slot(h)
	if !s.inTriple {
		if !s.assigned {
			return ResultNotAWitness
		}
		s.status = StatusLinearReady
		m.code = append(m.code, s.value)
		m.linear = append(m.linear, s.value)
		m.maybeFlush()
		return ResultLinearReady
	}

	s.status = StatusQuadPending
	m.code = append(m.code, s.value)
	t := &m.triples[s.triple]
	t.readyMask |= 1 << s.role
	if t.readyMask != 0b111 {
		m.maybeFlush()
		return ResultQuadraticPending
	}

	a := m.slot(t.a).value
	b := m.slot(t.b).value
	c := m.slot(t.c).value
	product := field.Sub(field.Mul(a, b), c)
	m.quadratic = append(m.quadratic, product)

	m.slot(t.a).status = StatusQuadReady
	m.slot(t.b).status = StatusQuadReady
	m.slot(t.c).status = StatusQuadReady
	t.spent = true

	m.maybeFlush()
	return ResultQuadraticReady
}

// maybeFlush hands the three row buffers to the sink once the code
// stream, which every commit touches, reaches the packing width. The
// linear and
// quadratic streams, which only grow on linear_ready/quadratic_ready
// events, are zero-padded up to the packing width at flush time: they
// are genuinely shorter in the common case (most committed slots are
// quadratic operands, contributing to code but not yet to linear or
// quadratic until their triple completes), and the prover pads every
// stream from l up to k with anyRNG draws before RS encoding.
func (m *Manager) maybeFlush() {
	if len(m.code) < m.packingWidth {
		return
	}
	linear := padTo(m.linear, m.packingWidth)
	quadratic := padTo(m.quadratic, m.packingWidth)
	m.sink.CommitRow(m.code, linear, quadratic)
	m.code = m.code[:0]
	m.linear = m.linear[:0]
	m.quadratic = m.quadratic[:0]
}

// FlushFinal commits whatever partial row remains at the end of a
// run, zero-padded up to the packing width. Without it, a run whose
// total commits are not an exact multiple of the packing width would
// drop its tail constraints on the floor.
func (m *Manager) FlushFinal() {
	if len(m.code) == 0 && len(m.linear) == 0 && len(m.quadratic) == 0 {
		return
	}
	code := padTo(m.code, m.packingWidth)
	linear := padTo(m.linear, m.packingWidth)
	quadratic := padTo(m.quadratic, m.packingWidth)
	m.sink.CommitRow(code, linear, quadratic)
	m.code = m.code[:0]
	m.linear = m.linear[:0]
	m.quadratic = m.quadratic[:0]
}

func padTo(row []field.Fp, n int) []field.Fp {
	if len(row) == n {
		return row
	}
	out := make([]field.Fp, n)
	copy(out, row)
	return out
}

// DrawRandomPoolElement returns the next element of the mirror random
// pool, refilling a packing-width batch lazily from anyRNG when the
// pool runs dry.
func (m *Manager) DrawRandomPoolElement() field.Fp {
	if m.randomNext >= len(m.randomPool) {
		m.randomPool = m.anyRNG.DrawFieldElements(m.packingWidth)
		m.randomNext = 0
	}
	v := m.randomPool[m.randomNext]
	m.randomNext++
	return v
}
