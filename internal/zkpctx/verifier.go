// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package zkpctx

import (
	"fmt"

	"github.com/luxfi/ligetron/internal/field"
	"github.com/luxfi/ligetron/internal/merkle"
	"github.com/luxfi/ligetron/internal/ntt"
	"github.com/luxfi/ligetron/internal/prg"
	"github.com/luxfi/ligetron/internal/trapkind"
)

// Verify runs the proof checks against a replayed execution, any one
// of which failing rejects the proof. replay is the trace the
// verifier recorded by re-running the same program on the same argv
// (see ReplayRecorder); nothing the prover self-reports is trusted
// without being held against it. The checks:
//  1. the sample seed/index set derived from the claimed root matches
//     what the prover used to pick its decommitment, and the
//     decommitment itself recombines, with the shipped codewords re-
//     hashed column-by-column, back to that claimed root.
//  2. every row's code codeword decodes to zero beyond position k.
//  3. every shipped row decodes, over the packing width, to exactly
//     the row the replayed execution produced (code, linear, and
//     quadratic streams alike).
//  4. the linear rows sum to the running sum derived from the replay.
//  5. the quadratic rows sum to zero.
func Verify(params Params, proof *Proof, replay *ReplayRecorder) *trapkind.Rejection {
	engine := ntt.NewEngine(params.Sizes, nil)

	seed := prg.SampleSeed(proof.Root, params.AnyIV)
	if seed != proof.SampleSeed {
		return trapkind.NewRejection(trapkind.RootMismatch, "sample seed does not match claimed root")
	}
	expectedIndex := prg.FisherYatesSample(seed, params.Sizes.N, params.SampleSize)
	if !sameIndexSet(expectedIndex, proof.SampleIndex) {
		return trapkind.NewRejection(trapkind.RootMismatch, "sample index set does not match the derived seed")
	}

	if rej := verifyRootBinding(params, proof); rej != nil {
		return rej
	}

	if len(proof.CodeCodewords) != len(replay.CodeRows) {
		return trapkind.NewRejection(trapkind.ColumnMismatch,
			fmt.Sprintf("proof carries %d rows but the replayed execution produced %d",
				len(proof.CodeCodewords), len(replay.CodeRows)))
	}

	var linearSum, quadSum field.Fp
	for r := range proof.CodeCodewords {
		coeffs := engine.DecodeCoefficients(proof.CodeCodewords[r])
		for i := params.Sizes.K; i < params.Sizes.N; i++ {
			if !coeffs[i].IsZero() {
				return trapkind.NewRejection(trapkind.CodeNonZeroBeyondDegree,
					"code codeword has a non-zero coefficient beyond the degree bound")
			}
		}

		code := engine.DecodeRow(proof.CodeCodewords[r])
		linear := engine.DecodeRow(proof.LinearCodewords[r])
		quad := engine.DecodeRow(proof.QuadCodewords[r])
		for i := 0; i < params.Sizes.L; i++ {
			if !code[i].Equal(replay.CodeRows[r][i]) ||
				!linear[i].Equal(replay.LinearRows[r][i]) ||
				!quad[i].Equal(replay.QuadRows[r][i]) {
				return trapkind.NewRejection(trapkind.ColumnMismatch,
					fmt.Sprintf("shipped row %d does not match the replayed execution at position %d", r, i))
			}
			linearSum = field.Add(linearSum, linear[i])
			quadSum = field.Add(quadSum, quad[i])
		}
	}

	if !linearSum.Equal(replay.LinearSum()) {
		return trapkind.NewRejection(trapkind.LinearSumMismatch, "linear row sum does not match the replayed running sum")
	}
	if !quadSum.IsZero() {
		return trapkind.NewRejection(trapkind.QuadraticSumNonZero, "quadratic row sum is non-zero")
	}

	return nil
}

// verifyRootBinding re-hashes the shipped codewords at the sampled
// column positions the same way the prover's column hasher did, then
// uses the decommitment to recombine them into a root and compares it
// against the root the proof claims. This is what catches a
// proof-stream tamper: flipping any bit of a shipped codeword at a
// sampled position changes its column digest, which the decommitment
// can no longer recombine into the original root.
func verifyRootBinding(params Params, proof *Proof) *trapkind.Rejection {
	rows := len(proof.CodeCodewords)
	codeCols := make([][]field.Fp, rows)
	linearCols := make([][]field.Fp, rows)
	quadCols := make([][]field.Fp, rows)
	for r := 0; r < rows; r++ {
		codeCols[r] = ntt.SampleGather(proof.CodeCodewords[r], proof.SampleIndex)
		linearCols[r] = ntt.SampleGather(proof.LinearCodewords[r], proof.SampleIndex)
		quadCols[r] = ntt.SampleGather(proof.QuadCodewords[r], proof.SampleIndex)
	}

	known := make(map[int]merkle.Digest, len(proof.SampleIndex))
	for i, col := range proof.SampleIndex {
		h := merkle.NewColumnHasher()
		for r := 0; r < rows; r++ {
			h.Absorb(columnBytes(codeCols[r][i], linearCols[r][i], quadCols[r][i]))
		}
		known[col] = h.Final()
	}
	root, ok := merkle.Recommit(params.Sizes.N, known, proof.Decommitment)
	if !ok {
		return trapkind.NewRejection(trapkind.ColumnMismatch, "decommitment is structurally inconsistent with the sampled columns")
	}
	if root != proof.Root {
		return trapkind.NewRejection(trapkind.ColumnMismatch, "recomputed root from sampled columns does not match the claimed root")
	}
	return nil
}

func sameIndexSet(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
