// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package ntt

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/luxfi/ligetron/internal/field"
)

func rowOf(vals ...uint64) []field.Fp {
	out := make([]field.Fp, len(vals))
	for i, v := range vals {
		out[i] = field.FromUint64(v)
	}
	return out
}

func TestEncodeDecodeRowRoundtrip(t *testing.T) {
	sizes := NewSizes(8, 4) // k=8, n=32
	e := NewEngine(sizes, nil)

	row := rowOf(1, 2, 3, 4, 5, 6, 7, 8)
	codeword := e.Encode(row)
	require.Len(t, codeword, sizes.N)

	back := e.DecodeRow(codeword)
	require.Len(t, back, sizes.K)
	for i := range row {
		require.True(t, row[i].Equal(back[i]), "index %d", i)
	}
}

func TestDecodeCoefficientsZeroBeyondDegree(t *testing.T) {
	sizes := NewSizes(8, 4)
	e := NewEngine(sizes, nil)

	row := rowOf(9, 8, 7, 6, 5, 4, 3, 2)
	codeword := e.Encode(row)

	coeffs := e.DecodeCoefficients(codeword)
	require.Len(t, coeffs, sizes.N)
	for i := sizes.K; i < sizes.N; i++ {
		require.True(t, coeffs[i].IsZero(), "coefficient %d should be zero beyond the degree bound", i)
	}
}

func TestDecodeInvertsEncodeOnMessage(t *testing.T) {
	sizes := NewSizes(8, 4) // l = 4
	e := NewEngine(sizes, nil)

	msg := rowOf(1, 2, 3, 4)
	row := append(append([]field.Fp(nil), msg...), rowOf(9, 8, 7, 6)...) // arbitrary l-to-k padding
	codeword := e.Encode(row)

	decoded := e.Decode(codeword)
	require.Len(t, decoded, sizes.L)
	for i := range msg {
		require.True(t, msg[i].Equal(decoded[i]), "message entry %d", i)
	}
}

func TestNewSizesRejectsNonPowerOfTwo(t *testing.T) {
	require.Panics(t, func() { NewSizes(6, 2) })
}

func TestEncodeRejectsWrongLength(t *testing.T) {
	sizes := NewSizes(8, 4)
	e := NewEngine(sizes, nil)
	require.Panics(t, func() { e.Encode(rowOf(1, 2, 3)) })
}

func TestTamperedCodewordFailsZeroCheck(t *testing.T) {
	sizes := NewSizes(8, 4)
	e := NewEngine(sizes, nil)

	row := rowOf(1, 2, 3, 4, 5, 6, 7, 8)
	codeword := e.Encode(row)
	codeword[0] = field.Add(codeword[0], field.One())

	coeffs := e.DecodeCoefficients(codeword)
	nonZeroBeyond := false
	for i := sizes.K; i < sizes.N; i++ {
		if !coeffs[i].IsZero() {
			nonZeroBeyond = true
		}
	}
	require.True(t, nonZeroBeyond, "tampering a codeword value should break the zero-beyond-degree invariant")
}
