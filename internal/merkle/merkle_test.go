// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package merkle

import (
	"crypto/sha256"
	"testing"

	"github.com/stretchr/testify/require"
)

func leaf(b byte) Digest {
	return sha256.Sum256([]byte{b})
}

func TestBuildPadsToPowerOfTwo(t *testing.T) {
	leaves := []Digest{leaf(1), leaf(2), leaf(3)}
	tree := Build(leaves)
	require.Equal(t, 4, tree.LeafCount())
}

func TestColumnHasherIsDeterministic(t *testing.T) {
	h1 := NewColumnHasher()
	h1.Absorb([]byte("row0"))
	h1.Absorb([]byte("row1"))

	h2 := NewColumnHasher()
	h2.Absorb([]byte("row0"))
	h2.Absorb([]byte("row1"))

	require.Equal(t, h1.Final(), h2.Final())
}

func TestDecommitRecommitSingleLeaf(t *testing.T) {
	leaves := make([]Digest, 8)
	for i := range leaves {
		leaves[i] = leaf(byte(i))
	}
	tree := Build(leaves)
	root := tree.Root()

	dec := tree.Decommit([]int{3})
	known := map[int]Digest{3: leaves[3]}
	got, ok := Recommit(len(leaves), known, dec)
	require.True(t, ok)
	require.Equal(t, root, got)
}

func TestDecommitRecommitMultipleLeaves(t *testing.T) {
	leaves := make([]Digest, 16)
	for i := range leaves {
		leaves[i] = leaf(byte(i))
	}
	tree := Build(leaves)
	root := tree.Root()

	idx := []int{1, 2, 5, 9, 15}
	dec := tree.Decommit(idx)
	known := make(map[int]Digest, len(idx))
	for _, i := range idx {
		known[i] = leaves[i]
	}
	got, ok := Recommit(len(leaves), known, dec)
	require.True(t, ok)
	require.Equal(t, root, got)
}

func TestRecommitRejectsTamperedLeaf(t *testing.T) {
	leaves := make([]Digest, 8)
	for i := range leaves {
		leaves[i] = leaf(byte(i))
	}
	tree := Build(leaves)
	root := tree.Root()

	dec := tree.Decommit([]int{2})
	tampered := leaf(99)
	got, ok := Recommit(len(leaves), map[int]Digest{2: tampered}, dec)
	require.True(t, ok) // structurally valid, but produces the wrong root
	require.NotEqual(t, root, got)
}

func TestCeilPow2(t *testing.T) {
	cases := map[int]int{0: 1, 1: 1, 2: 2, 3: 4, 4: 4, 5: 8, 192: 256}
	for n, want := range cases {
		require.Equal(t, want, CeilPow2(n), "n=%d", n)
	}
}
