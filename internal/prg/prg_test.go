// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package prg

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAESCTREngineIsDeterministic(t *testing.T) {
	key := DeriveKey([32]byte{1}, "witness")
	iv := [16]byte{2}

	e1, err := NewEngine(PolicyAESCTR, key, iv)
	require.NoError(t, err)
	e2, err := NewEngine(PolicyAESCTR, key, iv)
	require.NoError(t, err)

	require.Equal(t, e1.DrawBytes(64), e2.DrawBytes(64))
	require.True(t, e1.DrawFieldElement().Equal(e2.DrawFieldElement()))
}

func TestDeriveKeySeparatesLabels(t *testing.T) {
	root := [32]byte{7}
	require.NotEqual(t, DeriveKey(root, "witness"), DeriveKey(root, "any"))
}

func TestDrawBytesRejectsUnalignedLength(t *testing.T) {
	e, err := NewEngine(PolicyZero, [32]byte{}, [16]byte{})
	require.NoError(t, err)
	require.Panics(t, func() { e.DrawBytes(5) })
}

func TestZeroAndOnePolicies(t *testing.T) {
	zero, err := NewEngine(PolicyZero, [32]byte{}, [16]byte{})
	require.NoError(t, err)
	require.True(t, zero.DrawFieldElement().IsZero())

	one, err := NewEngine(PolicyOne, [32]byte{}, [16]byte{})
	require.NoError(t, err)
	require.False(t, one.DrawFieldElement().IsZero())
}

func TestSampleSeedBindsRootAndIV(t *testing.T) {
	root := [32]byte{1, 2, 3}
	iv := [16]byte{4, 5}
	s1 := SampleSeed(root, iv)
	require.Equal(t, s1, SampleSeed(root, iv))

	root[0] ^= 1
	require.NotEqual(t, s1, SampleSeed(root, iv))
}

func TestFisherYatesSampleDeterministicAndDuplicateFree(t *testing.T) {
	seed := [32]byte{9}
	a := FisherYatesSample(seed, 1024, 192)
	b := FisherYatesSample(seed, 1024, 192)
	require.Equal(t, a, b)
	require.Len(t, a, 192)

	seen := make(map[int]bool, len(a))
	for _, idx := range a {
		require.GreaterOrEqual(t, idx, 0)
		require.Less(t, idx, 1024)
		require.False(t, seen[idx], "index %d sampled twice", idx)
		seen[idx] = true
	}
}

func TestFisherYatesSampleRejectsOversizedSample(t *testing.T) {
	require.Panics(t, func() { FisherYatesSample([32]byte{}, 4, 5) })
}
