// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package zkpctx implements the ZKP context: the prover accumulates
// per-row encoded code/linear/quadratic codewords and a running
// linear sum, commits them behind a single Merkle tree over
// per-column hashes, derives a Fiat-Shamir sampling seed from the
// root, and opens a 192-column decommitment. The verifier mirrors
// it, replaying the same checks against a received proof stream
// instead of live witness data.
package zkpctx

import (
	"github.com/luxfi/ligetron/internal/field"
	"github.com/luxfi/ligetron/internal/merkle"
	"github.com/luxfi/ligetron/internal/ntt"
	"github.com/luxfi/ligetron/internal/prg"
)

// Params are the sizes and Fiat-Shamir domain separator shared by
// the prover and verifier, derived from the CLI's `packing` option.
type Params struct {
	Sizes      ntt.Sizes
	SampleSize int
	AnyIV      [16]byte
}

// Prover accumulates rows as they are committed by the witness
// manager (it implements witness.RowSink) and produces a Proof at the
// end of the run.
type Prover struct {
	params Params
	engine *ntt.Engine
	anyRNG *prg.Engine

	codeRows, linearRows, quadRows [][]field.Fp
	columnHashers                  []*merkle.ColumnHasher
	linearSum                      field.Fp
}

// NewProver builds a Prover. engine must be sized with params.Sizes;
// anyRNG supplies the l-to-k random padding of each row.
func NewProver(params Params, engine *ntt.Engine, anyRNG *prg.Engine) *Prover {
	hashers := make([]*merkle.ColumnHasher, params.Sizes.N)
	for i := range hashers {
		hashers[i] = merkle.NewColumnHasher()
	}
	return &Prover{params: params, engine: engine, anyRNG: anyRNG, columnHashers: hashers}
}

// CommitRow handles one committed row: pad to k, encode to n, absorb
// each column into its hasher, append the encoded rows, and
// accumulate the linear running sum over the unencoded l-entry row.
func (p *Prover) CommitRow(code, linear, quadratic []field.Fp) {
	codeN := p.engine.Encode(p.padToK(code))
	linearN := p.engine.Encode(p.padToK(linear))
	quadN := p.engine.Encode(p.padToK(quadratic))

	for j := 0; j < p.params.Sizes.N; j++ {
		p.columnHashers[j].Absorb(columnBytes(codeN[j], linearN[j], quadN[j]))
	}

	for _, v := range linear {
		p.linearSum = field.Add(p.linearSum, v)
	}

	p.codeRows = append(p.codeRows, codeN)
	p.linearRows = append(p.linearRows, linearN)
	p.quadRows = append(p.quadRows, quadN)
}

func (p *Prover) padToK(row []field.Fp) []field.Fp {
	if len(row) == p.params.Sizes.K {
		return row
	}
	out := make([]field.Fp, p.params.Sizes.K)
	copy(out, row)
	for i := len(row); i < p.params.Sizes.K; i++ {
		out[i] = p.anyRNG.DrawFieldElement()
	}
	return out
}

func columnBytes(code, linear, quad field.Fp) []byte {
	cb, lb, qb := code.Bytes(), linear.Bytes(), quad.Bytes()
	out := make([]byte, 0, 96)
	out = append(out, cb[:]...)
	out = append(out, lb[:]...)
	out = append(out, qb[:]...)
	return out
}

// Finalize runs stage 1 of the commitment: finalize every column
// hash, build the Merkle tree, derive the sample seed and index set,
// open the decommitment for the sampled columns, and package the
// Proof.
func (p *Prover) Finalize() *Proof {
	leaves := make([]merkle.Digest, p.params.Sizes.N)
	for j, h := range p.columnHashers {
		leaves[j] = h.Final()
	}
	tree := merkle.Build(leaves)
	root := tree.Root()
	seed := prg.SampleSeed(root, p.params.AnyIV)
	sampleIndex := prg.FisherYatesSample(seed, p.params.Sizes.N, p.params.SampleSize)
	dec := tree.Decommit(sampleIndex)

	return &Proof{
		Root:            root,
		SampleSeed:      seed,
		SampleIndex:     sampleIndex,
		CodeCodewords:   p.codeRows,
		LinearCodewords: p.linearRows,
		QuadCodewords:   p.quadRows,
		Decommitment:    dec,
	}
}

// LinearSum returns the prover's running linear accumulator. It is
// internal state only: the proof stream never carries it, since the
// verifier derives the expected sum from its own replayed execution.
func (p *Prover) LinearSum() field.Fp { return p.linearSum }

// Proof is the in-memory form of the proof stream; codec.go
// serializes it to the wire format.
type Proof struct {
	Root            merkle.Digest
	SampleSeed      [32]byte
	SampleIndex     []int
	CodeCodewords   [][]field.Fp
	LinearCodewords [][]field.Fp
	QuadCodewords   [][]field.Fp
	Decommitment    *merkle.Decommitment
}
