// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package zkpctx

import "github.com/luxfi/ligetron/internal/field"

// ReplayRecorder is the verifier-side row sink: the verifier runs the
// same interpreter over the same program and argv as the prover did,
// but the witness manager's rows are recorded here instead of being
// encoded and committed. Verify then holds the shipped codewords
// against this replayed trace, so a proof only passes if a real
// execution of that program on that input stands behind it.
//
// It implements witness.RowSink.
type ReplayRecorder struct {
	CodeRows   [][]field.Fp
	LinearRows [][]field.Fp
	QuadRows   [][]field.Fp

	linearSum field.Fp
}

func NewReplayRecorder() *ReplayRecorder {
	return &ReplayRecorder{}
}

// CommitRow records one packed row and folds its linear entries into
// the running sum, mirroring the prover's accumulator.
func (r *ReplayRecorder) CommitRow(code, linear, quadratic []field.Fp) {
	r.CodeRows = append(r.CodeRows, append([]field.Fp(nil), code...))
	r.LinearRows = append(r.LinearRows, append([]field.Fp(nil), linear...))
	r.QuadRows = append(r.QuadRows, append([]field.Fp(nil), quadratic...))
	for _, v := range linear {
		r.linearSum = field.Add(r.linearSum, v)
	}
}

// LinearSum returns the running linear sum derived from the replayed
// execution. This is the value the shipped linear codewords must sum
// to; it is never read from the proof stream.
func (r *ReplayRecorder) LinearSum() field.Fp { return r.linearSum }
