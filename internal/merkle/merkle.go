// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package merkle implements the commitment's hash layer: one SHA-256
// context per encoded column, a binary tree over column digests, and
// the decommit/recommit sibling-walk algorithm for opening a subset
// of leaves.
package merkle

import (
	"crypto/sha256"
	"hash"
)

// Digest is a SHA-256 output.
type Digest [32]byte

func hashPair(l, r Digest) Digest {
	var buf [64]byte
	copy(buf[:32], l[:])
	copy(buf[32:], r[:])
	return sha256.Sum256(buf[:])
}

// ColumnHasher absorbs a row's encoded value at a fixed column,
// incrementally across rows: a streaming SHA-256 context, one per
// column. An accelerated build batches these contexts into a single
// device buffer (sha256_init/update/final over parallel contexts);
// both paths converge on the same Digest.
type ColumnHasher struct {
	h hash.Hash
}

// NewColumnHasher creates a streaming SHA-256 context for one column.
func NewColumnHasher() *ColumnHasher {
	return &ColumnHasher{h: sha256.New()}
}

// Absorb feeds the column's encoded field-element bytes for one row.
func (c *ColumnHasher) Absorb(b []byte) {
	_, _ = c.h.Write(b)
}

// Final returns the column's leaf digest.
func (c *ColumnHasher) Final() Digest {
	var d Digest
	copy(d[:], c.h.Sum(nil))
	return d
}

// Tree is a binary Merkle tree over a power-of-two number of leaves;
// unused leaves (when the real leaf count isn't already a power of
// two) are zero digests.
type Tree struct {
	levels [][]Digest // levels[0] = leaves, levels[len-1] = [root]
}

// CeilPow2 rounds n up to the next power of two (n=0 maps to 1).
func CeilPow2(n int) int {
	if n <= 1 {
		return 1
	}
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}

// Build constructs a tree from the given leaves, padding to the next
// power of two with zero digests.
func Build(leaves []Digest) *Tree {
	n := CeilPow2(len(leaves))
	padded := make([]Digest, n)
	copy(padded, leaves)

	t := &Tree{levels: [][]Digest{padded}}
	cur := padded
	for len(cur) > 1 {
		next := make([]Digest, len(cur)/2)
		for i := range next {
			next[i] = hashPair(cur[2*i], cur[2*i+1])
		}
		t.levels = append(t.levels, next)
		cur = next
	}
	return t
}

// Root returns the tree's root digest.
func (t *Tree) Root() Digest {
	top := t.levels[len(t.levels)-1]
	return top[0]
}

// LeafCount returns the (power-of-two) number of leaves.
func (t *Tree) LeafCount() int { return len(t.levels[0]) }

// Decommitment carries the sibling digests needed to recompute the
// root from a known subset of leaves.
type Decommitment struct {
	TotalNodeCount int
	KnownIndices   []int
	Siblings       map[uint64]Digest // key: level<<32 | index
}

func siblingKey(level, index int) uint64 {
	return uint64(level)<<32 | uint64(uint32(index))
}

// Decommit walks the tree bottom-up for the given leaf indices. At
// each level: if exactly one of a sibling pair is known, the other
// sibling's digest is recorded; if both are unknown the parent is
// skipped; if both are known the parent becomes known.
func (t *Tree) Decommit(knownIndices []int) *Decommitment {
	dec := &Decommitment{
		KnownIndices:   append([]int(nil), knownIndices...),
		Siblings:       make(map[uint64]Digest),
		TotalNodeCount: totalNodeCount(len(t.levels)),
	}

	known := make(map[int]bool, len(knownIndices))
	for _, i := range knownIndices {
		known[i] = true
	}

	for level := 0; level < len(t.levels)-1; level++ {
		nextKnown := make(map[int]bool)
		for idx := range known {
			sib := idx ^ 1
			pairKnownBoth := known[sib]
			if !pairKnownBoth {
				dec.Siblings[siblingKey(level, sib)] = t.levels[level][sib]
			}
			parent := idx / 2
			nextKnown[parent] = true
		}
		known = nextKnown
	}
	return dec
}

func totalNodeCount(numLevels int) int {
	total := 0
	size := 1
	levels := make([]int, numLevels)
	// levels[numLevels-1] is the root level with 1 node; sizes double
	// going down to the leaves.
	levels[numLevels-1] = 1
	for i := numLevels - 2; i >= 0; i-- {
		size <<= 1
		levels[i] = size
	}
	for _, s := range levels {
		total += s
	}
	return total
}

// Recommit reconstructs the root from known leaf digests and a
// decommitment, using the same bottom-up walk as Decommit. Returns an
// error-free zero Digest and false if the decommitment is structurally
// inconsistent with the claimed leaf count.
func Recommit(leafCount int, knownDigests map[int]Digest, dec *Decommitment) (Digest, bool) {
	numLevels := 1
	for (1 << (numLevels - 1)) < leafCount {
		numLevels++
	}

	cur := make(map[int]Digest, len(knownDigests))
	for k, v := range knownDigests {
		cur[k] = v
	}

	for level := 0; level < numLevels-1; level++ {
		next := make(map[int]Digest)
		seenParents := make(map[int]bool)
		for idx, d := range cur {
			sib := idx ^ 1
			var sibDigest Digest
			if sd, ok := cur[sib]; ok {
				sibDigest = sd
			} else if sd, ok := dec.Siblings[siblingKey(level, sib)]; ok {
				sibDigest = sd
			} else {
				return Digest{}, false
			}
			parent := idx / 2
			if seenParents[parent] {
				continue
			}
			seenParents[parent] = true
			var l, r Digest
			if idx%2 == 0 {
				l, r = d, sibDigest
			} else {
				l, r = sibDigest, d
			}
			next[parent] = hashPair(l, r)
		}
		cur = next
	}
	if root, ok := cur[0]; ok {
		return root, true
	}
	return Digest{}, false
}
