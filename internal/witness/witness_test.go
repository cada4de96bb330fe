// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package witness

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/luxfi/ligetron/internal/field"
	"github.com/luxfi/ligetron/internal/prg"
)

type recordingSink struct {
	rows [][3][]field.Fp
}

func (r *recordingSink) CommitRow(code, linear, quadratic []field.Fp) {
	r.rows = append(r.rows, [3][]field.Fp{
		append([]field.Fp(nil), code...),
		append([]field.Fp(nil), linear...),
		append([]field.Fp(nil), quadratic...),
	})
}

func newTestManager(t *testing.T, packingWidth int, sink RowSink) *Manager {
	t.Helper()
	witnessRNG, err := prg.NewEngine(prg.PolicyZero, [32]byte{}, [16]byte{})
	require.NoError(t, err)
	anyRNG, err := prg.NewEngine(prg.PolicyZero, [32]byte{}, [16]byte{})
	require.NoError(t, err)
	return NewManager(packingWidth, witnessRNG, anyRNG, sink)
}

func TestAcquireAssignCommitPlainWitness(t *testing.T) {
	sink := &recordingSink{}
	m := newTestManager(t, 2, sink)

	h := m.AcquireWitness()
	m.Assign(h, field.FromUint64(7))
	res := m.CommitNotify(h)
	require.Equal(t, ResultLinearReady, res)
	require.Empty(t, sink.rows) // packing width not yet reached

	h2 := m.AcquireWitness()
	m.Assign(h2, field.FromUint64(9))
	res2 := m.CommitNotify(h2)
	require.Equal(t, ResultLinearReady, res2)
	require.Len(t, sink.rows, 1)

	row := sink.rows[0]
	require.True(t, row[0][0].Equal(field.FromUint64(7)))
	require.True(t, row[0][1].Equal(field.FromUint64(9)))
	require.True(t, row[1][0].Equal(field.FromUint64(7)))
	require.True(t, row[1][1].Equal(field.FromUint64(9)))
}

func TestCommitNotifyUnusedSlotReturnsNotAWitness(t *testing.T) {
	sink := &recordingSink{}
	m := newTestManager(t, 4, sink)
	h := m.AcquireWitness()
	require.Equal(t, ResultNotAWitness, m.CommitNotify(h))
}

func TestQuadraticTripleLifecycle(t *testing.T) {
	sink := &recordingSink{}
	m := newTestManager(t, 3, sink)

	a := m.AcquireWitness()
	b := m.AcquireWitness()
	c := m.AcquireWitness()
	m.AcquireTriple(a, b, c)

	m.Assign(a, field.FromUint64(3))
	require.Equal(t, ResultQuadraticPending, m.CommitNotify(a))

	m.Assign(b, field.FromUint64(4))
	require.Equal(t, ResultQuadraticPending, m.CommitNotify(b))

	m.Assign(c, field.FromUint64(12)) // a*b - c = 0
	require.Equal(t, ResultQuadraticReady, m.CommitNotify(c))

	require.Len(t, sink.rows, 1)
	row := sink.rows[0]
	require.Len(t, row[0], 3) // code stream got all three slots
	require.True(t, row[2][0].IsZero())
}

func TestQuadraticTripleNonZeroProduct(t *testing.T) {
	sink := &recordingSink{}
	m := newTestManager(t, 3, sink)

	a := m.AcquireWitness()
	b := m.AcquireWitness()
	c := m.AcquireWitness()
	m.AcquireTriple(a, b, c)

	m.Assign(a, field.FromUint64(3))
	m.CommitNotify(a)
	m.Assign(b, field.FromUint64(4))
	m.CommitNotify(b)
	m.Assign(c, field.FromUint64(1)) // a*b - c = 11, non-zero
	m.CommitNotify(c)

	row := sink.rows[0]
	require.True(t, row[2][0].Equal(field.FromUint64(11)))
}

func TestReleaseRecyclesSlot(t *testing.T) {
	sink := &recordingSink{}
	m := newTestManager(t, 8, sink)
	h := m.AcquireWitness()
	m.Release(h)
	h2 := m.AcquireWitness()
	require.Equal(t, h, h2)
}

func TestDrawRandomPoolElementRefills(t *testing.T) {
	sink := &recordingSink{}
	m := newTestManager(t, 2, sink)
	first := m.DrawRandomPoolElement()
	require.True(t, first.IsZero()) // zero-policy PRG

	for i := 0; i < 10; i++ {
		_ = m.DrawRandomPoolElement()
	}
}
