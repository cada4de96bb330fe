// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package zkpctx

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/luxfi/ligetron/internal/field"
	"github.com/luxfi/ligetron/internal/ntt"
	"github.com/luxfi/ligetron/internal/prg"
	"github.com/luxfi/ligetron/internal/trapkind"
)

func testParams() (Params, *ntt.Engine) {
	sizes := ntt.NewSizes(8, 4) // k=8, l=4, n=32
	params := Params{Sizes: sizes, SampleSize: 6, AnyIV: [16]byte{1, 2, 3}}
	return params, ntt.NewEngine(sizes, nil)
}

func rowOf(vals ...uint64) []field.Fp {
	out := make([]field.Fp, len(vals))
	for i, v := range vals {
		out[i] = field.FromUint64(v)
	}
	return out
}

// buildValidProof commits one row through a prover and mirrors the
// same row into a replay recorder, standing in for the verifier's
// re-execution of the same program.
func buildValidProof(t *testing.T) (Params, *Proof, *ReplayRecorder) {
	t.Helper()
	params, engine := testParams()
	anyRNG, err := prg.NewEngine(prg.PolicyZero, [32]byte{}, [16]byte{})
	require.NoError(t, err)

	prover := NewProver(params, engine, anyRNG)
	code := rowOf(1, 2, 3, 4)
	linear := rowOf(1, 2, 3, 4)
	quad := rowOf(0, 0, 0, 0)
	prover.CommitRow(code, linear, quad)

	replay := NewReplayRecorder()
	replay.CommitRow(code, linear, quad)
	require.True(t, prover.LinearSum().Equal(replay.LinearSum()))

	return params, prover.Finalize(), replay
}

func TestProveVerifyRoundtrip(t *testing.T) {
	params, proof, replay := buildValidProof(t)
	rej := Verify(params, proof, replay)
	require.Nil(t, rej)
}

func TestProofStreamSerializeDeserializeRoundtrip(t *testing.T) {
	params, proof, replay := buildValidProof(t)

	var buf bytes.Buffer
	require.NoError(t, WriteProofStream(&buf, proof))

	back, rej := ReadProofStream(&buf, params.Sizes)
	require.Nil(t, rej)

	require.Equal(t, proof.Root, back.Root)
	require.Equal(t, proof.SampleIndex, back.SampleIndex)

	rej2 := Verify(params, back, replay)
	require.Nil(t, rej2)
}

func TestProofStreamRejectsTrailingBytes(t *testing.T) {
	params, proof, _ := buildValidProof(t)

	var buf bytes.Buffer
	require.NoError(t, WriteProofStream(&buf, proof))
	buf.WriteByte(0xAB)

	_, rej := ReadProofStream(&buf, params.Sizes)
	require.NotNil(t, rej)
}

func TestProofStreamRejectsTruncation(t *testing.T) {
	params, proof, _ := buildValidProof(t)

	var buf bytes.Buffer
	require.NoError(t, WriteProofStream(&buf, proof))
	truncated := bytes.NewReader(buf.Bytes()[:buf.Len()/2])

	_, rej := ReadProofStream(truncated, params.Sizes)
	require.NotNil(t, rej)
}

func TestTamperedCodewordFailsRootBinding(t *testing.T) {
	params, proof, replay := buildValidProof(t)

	tampered := *proof
	tampered.CodeCodewords = append([][]field.Fp(nil), proof.CodeCodewords...)
	row := append([]field.Fp(nil), proof.CodeCodewords[0]...)
	col := proof.SampleIndex[0]
	row[col] = field.Add(row[col], field.One())
	tampered.CodeCodewords[0] = row

	rej := Verify(params, &tampered, replay)
	require.NotNil(t, rej)
	require.Equal(t, trapkind.ColumnMismatch, rej.Reason)
}

// A proof that is fully self-consistent (valid codewords, zero
// quadratic sum, matching root binding) must still reject when the
// replayed execution does not stand behind it.
func TestReplayValueMismatchRejects(t *testing.T) {
	params, proof, _ := buildValidProof(t)

	replay := NewReplayRecorder()
	replay.CommitRow(rowOf(1, 2, 3, 5), rowOf(1, 2, 3, 4), rowOf(0, 0, 0, 0))

	rej := Verify(params, proof, replay)
	require.NotNil(t, rej)
}

func TestReplayRowCountMismatchRejects(t *testing.T) {
	params, proof, _ := buildValidProof(t)

	rej := Verify(params, proof, NewReplayRecorder())
	require.NotNil(t, rej)
}
