// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package prg implements the proof system's pseudo-random
// generators: an AES-256-CTR engine backing the witness/any-row
// blinding pools, plus "zero" and "one" debug policies, and a
// blake3-based Fiat-Shamir seed expansion from the Merkle root into
// the column-sampling seed.
package prg

import (
	"crypto/aes"
	"crypto/cipher"
	"encoding/binary"

	"github.com/zeebo/blake3"

	"github.com/luxfi/ligetron/internal/field"
)

// Policy selects which randomness source backs an Engine: the
// production AES-CTR stream, or the "zero"/"one" debug policies that
// disable masking.
type Policy uint8

const (
	PolicyAESCTR Policy = iota
	PolicyZero
	PolicyOne
)

// Engine is a stateful byte stream used to draw field-element
// blinding values. Not thread-safe; each engine is exclusively owned
// by its ZKP context.
type Engine struct {
	policy Policy
	stream cipher.Stream
	ring   []byte
	pos    int
}

const ringChunk = 4096 // multiple of 8, refilled in 8-byte-aligned chunks

// NewEngine seeds an AES-256-CTR engine from a 256-bit key and a
// 128-bit IV. The key is derived from a run-level seed plus a
// domain-separating label so the witness-randomness and any-row
// engines never collide even when seeded from the same root secret.
func NewEngine(policy Policy, key [32]byte, iv [16]byte) (*Engine, error) {
	e := &Engine{policy: policy}
	if policy != PolicyAESCTR {
		return e, nil
	}
	block, err := aes.NewCipher(key[:])
	if err != nil {
		return nil, err
	}
	e.stream = cipher.NewCTR(block, iv[:])
	e.ring = make([]byte, ringChunk)
	e.pos = ringChunk // force an initial refill
	return e, nil
}

// DeriveKey produces a 256-bit AES key by domain-separating a root
// secret with a label (e.g. "witness" or "any").
func DeriveKey(rootSecret [32]byte, label string) [32]byte {
	h := blake3.New()
	h.Write(rootSecret[:])
	h.Write([]byte(label))
	var out [32]byte
	copy(out[:], h.Sum(nil))
	return out
}

func (e *Engine) refill() {
	for i := range e.ring {
		e.ring[i] = 0
	}
	e.stream.XORKeyStream(e.ring, e.ring)
	e.pos = 0
}

// DrawBytes draws n bytes (n must be a multiple of 8) from the
// engine's per-policy source.
func (e *Engine) DrawBytes(n int) []byte {
	if n%8 != 0 {
		panic("prg: DrawBytes requires a multiple of 8 bytes")
	}
	out := make([]byte, n)
	switch e.policy {
	case PolicyZero:
		return out // already zero
	case PolicyOne:
		for i := range out {
			out[i] = 0xFF
		}
		return out
	}
	filled := 0
	for filled < n {
		if e.pos >= len(e.ring) {
			e.refill()
		}
		c := copy(out[filled:], e.ring[e.pos:])
		e.pos += c
		filled += c
	}
	return out
}

// DrawFieldElement draws 32 raw bytes and reduces them mod p. The
// reduction carries a small bias; acceptable for commitment blinding.
func (e *Engine) DrawFieldElement() field.Fp {
	return field.FromBytes(e.DrawBytes(32))
}

// DrawFieldElements draws n field elements.
func (e *Engine) DrawFieldElements(n int) []field.Fp {
	out := make([]field.Fp, n)
	for i := range out {
		out[i] = e.DrawFieldElement()
	}
	return out
}

// SampleSeed re-hashes a Merkle root with a fixed IV to derive the
// public-coin Fiat-Shamir seed used for column sampling.
func SampleSeed(root [32]byte, anyIV [16]byte) [32]byte {
	h := blake3.New()
	h.Write(root[:])
	h.Write(anyIV[:])
	var out [32]byte
	copy(out[:], h.Sum(nil))
	return out
}

// FisherYatesSample derives a uniform, duplicate-free subset of size
// sampleSize from [0, domain) using the given seed, expanding it with
// a keyed blake3 XOF so the sequence is reproducible from the seed
// alone.
func FisherYatesSample(seed [32]byte, domain, sampleSize int) []int {
	if sampleSize > domain {
		panic("prg: sample size exceeds domain")
	}
	xof := blake3.NewDeriveKey("ligetron-sample-index")
	xof.Write(seed[:])
	reader := xof.Digest()

	perm := make([]int, domain)
	for i := range perm {
		perm[i] = i
	}
	drawUint64 := func() uint64 {
		var b [8]byte
		_, _ = reader.Read(b[:])
		return binary.LittleEndian.Uint64(b[:])
	}
	for i := 0; i < sampleSize; i++ {
		j := i + int(drawUint64()%uint64(domain-i))
		perm[i], perm[j] = perm[j], perm[i]
	}
	out := make([]int, sampleSize)
	copy(out, perm[:sampleSize])
	return out
}
