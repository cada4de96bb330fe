// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package field

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAddSubRoundtrip(t *testing.T) {
	a := FromUint64(17)
	b := FromUint64(5)
	sum := Add(a, b)
	require.True(t, sum.Equal(FromUint64(22)))
	require.True(t, Sub(sum, b).Equal(a))
}

func TestMulAndInv(t *testing.T) {
	a := FromUint64(7)
	inv := Inv(a)
	require.True(t, Mul(a, inv).Equal(One()))
}

func TestInvOfZeroPanics(t *testing.T) {
	require.Panics(t, func() { Inv(Zero()) })
}

func TestTryInvOfZero(t *testing.T) {
	_, ok := TryInv(Zero())
	require.False(t, ok)
}

func TestFromBigIntReducesModP(t *testing.T) {
	p := Modulus()
	twiceP := new(big.Int).Lsh(p, 1)
	f := FromBigInt(twiceP)
	require.True(t, f.IsZero())
}

func TestBytesRoundtrip(t *testing.T) {
	a := FromUint64(123456789)
	b := a.Bytes()
	back := FromBytes(b[:])
	require.True(t, a.Equal(back))
}

func TestPowmUI(t *testing.T) {
	a := FromUint64(3)
	require.True(t, PowmUI(a, 4).Equal(FromUint64(81)))
}

func TestDivByZeroFails(t *testing.T) {
	_, ok := Div(One(), Zero())
	require.False(t, ok)
}

func TestBarrettAndMontgomeryConstants(t *testing.T) {
	require.Equal(t, 0, MontgomeryR().Cmp(new(big.Int).Lsh(big.NewInt(1), 256)))
	require.True(t, BarrettFactor().Sign() > 0)
}
