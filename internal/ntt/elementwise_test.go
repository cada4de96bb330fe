// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package ntt

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/luxfi/ligetron/internal/field"
)

func TestEltwiseAddSubMulMod(t *testing.T) {
	x := rowOf(1, 2, 3)
	y := rowOf(10, 20, 30)
	out := make([]field.Fp, 3)

	EltwiseAddMod(out, x, y, 0, 0, 0, 3)
	require.True(t, out[0].Equal(field.FromUint64(11)))
	require.True(t, out[1].Equal(field.FromUint64(22)))
	require.True(t, out[2].Equal(field.FromUint64(33)))

	EltwiseSubMod(out, y, x, 0, 0, 0, 3)
	require.True(t, out[0].Equal(field.FromUint64(9)))

	EltwiseMulMod(out, x, y, 0, 0, 0, 3)
	require.True(t, out[2].Equal(field.FromUint64(90)))
}

func TestEltwiseDivModReportsFailure(t *testing.T) {
	x := rowOf(10, 20)
	y := []field.Fp{field.FromUint64(2), field.Zero()}
	out := make([]field.Fp, 2)

	ok := EltwiseDivMod(out, x, y, 0, 0, 0, 2)
	require.False(t, ok)
	require.True(t, out[0].Equal(field.FromUint64(5)))
}

func TestEltwiseFMAMod(t *testing.T) {
	x := rowOf(2, 3)
	y := rowOf(4, 5)
	z := rowOf(1, 1)
	out := make([]field.Fp, 2)
	EltwiseFMAMod(out, x, y, z, 0, 0, 0, 0, 2)
	require.True(t, out[0].Equal(field.FromUint64(9)))
	require.True(t, out[1].Equal(field.FromUint64(16)))
}

func TestConstOps(t *testing.T) {
	x := rowOf(5, 6)
	out := make([]field.Fp, 2)
	c := field.FromUint64(2)

	AddConstMod(out, x, c, 0, 0, 2)
	require.True(t, out[0].Equal(field.FromUint64(7)))

	SubConstMod(out, x, c, 0, 0, 2)
	require.True(t, out[0].Equal(field.FromUint64(3)))

	ConstSubMod(out, x, c, 0, 0, 2)
	require.True(t, out[0].Equal(field.Sub(c, field.FromUint64(5))))

	MulConstMod(out, x, c, 0, 0, 2)
	require.True(t, out[1].Equal(field.FromUint64(12)))
}

func TestAddAssignMod(t *testing.T) {
	out := rowOf(1, 2)
	x := rowOf(10, 20)
	AddAssignMod(out, x, 0, 0, 2)
	require.True(t, out[0].Equal(field.FromUint64(11)))
	require.True(t, out[1].Equal(field.FromUint64(22)))
}

func TestPowModAndPowAddMod(t *testing.T) {
	x := rowOf(3)
	out := make([]field.Fp, 1)
	PowMod(out, x, 4, 0, 0, 1)
	require.True(t, out[0].Equal(field.FromUint64(81)))

	y := rowOf(1)
	PowAddMod(out, x, y, 4, 0, 0, 0, 1)
	require.True(t, out[0].Equal(field.FromUint64(82)))
}

func TestBitDecompose(t *testing.T) {
	x := rowOf(0b1010)
	out := make([]field.Fp, 4)
	for bit := uint(0); bit < 4; bit++ {
		BitDecompose(out, x, bit, int(bit), 0, 1)
	}
	require.True(t, out[0].IsZero())
	require.True(t, out[1].Equal(field.One()))
	require.True(t, out[2].IsZero())
	require.True(t, out[3].Equal(field.One()))
}

func TestSampleGather(t *testing.T) {
	codeword := rowOf(10, 11, 12, 13, 14)
	got := SampleGather(codeword, []int{4, 1, 2})
	require.True(t, got[0].Equal(field.FromUint64(14)))
	require.True(t, got[1].Equal(field.FromUint64(11)))
	require.True(t, got[2].Equal(field.FromUint64(12)))
}
