// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package bigint

import (
	"math"
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAddCCCarries(t *testing.T) {
	maxU64 := FromUint64(math.MaxUint64)
	sum, carry := AddCC(maxU64, FromUint64(1))
	require.Equal(t, 0, sum.BigInt().Cmp(new(big.Int).Lsh(big.NewInt(1), 64)))
	require.Equal(t, uint64(0), carry) // well within 256 bits, no overflow

	big1 := FromBigInt(new(big.Int).Lsh(big.NewInt(1), 255))
	sum2, carry2 := AddCC(big1, big1)
	require.True(t, sum2.IsZero())
	require.Equal(t, uint64(1), carry2)
}

func TestSubCCBorrows(t *testing.T) {
	diff, borrow := SubCC(FromUint64(3), FromUint64(5))
	require.Equal(t, uint64(1), borrow)
	expect := new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 256), big.NewInt(2))
	require.Equal(t, 0, diff.BigInt().Cmp(expect))
}

func TestMulWideRoundtrip(t *testing.T) {
	a := FromBigInt(new(big.Int).Lsh(big.NewInt(1), 200))
	b := FromBigInt(new(big.Int).Lsh(big.NewInt(1), 100))
	wide := MulWide(a, b)
	expect := new(big.Int).Lsh(big.NewInt(1), 300)
	require.Equal(t, 0, wide.BigInt().Cmp(expect))
}

func TestDivQRNormalised(t *testing.T) {
	num := Wide512{Lo: FromUint64(100), Hi: FromUint64(0)}
	div := FromBigInt(new(big.Int).SetInt64(7))
	// divisor's top limb is zero here, so this must report "not normalised"
	_, _, ok := DivQRNormalised(num, div)
	require.False(t, ok)

	normalisedDivisor := FromBigInt(new(big.Int).Lsh(big.NewInt(1), 255))
	q, r, ok := DivQRNormalised(num, normalisedDivisor)
	require.True(t, ok)
	require.True(t, q.IsZero())
	require.Equal(t, int64(100), r.BigInt().Int64())
}

func TestInvMod(t *testing.T) {
	a := FromUint64(3)
	m := FromUint64(7)
	inv, ok := InvMod(a, m)
	require.True(t, ok)
	product := new(big.Int).Mod(new(big.Int).Mul(a.BigInt(), inv.BigInt()), m.BigInt())
	require.Equal(t, int64(1), product.Int64())
}

func TestInvModNoInverse(t *testing.T) {
	_, ok := InvMod(FromUint64(4), FromUint64(8))
	require.False(t, ok)
}

func TestBytesLittleBigEndianAgree(t *testing.T) {
	v := FromUint64(0x0102030405060708)
	be := v.BigInt().Bytes()
	padded := make([]byte, 32)
	copy(padded[32-len(be):], be)
	leBack := FromBytesBigEndian(padded)
	require.Equal(t, 0, v.Cmp(leBack))

	le := make([]byte, 32)
	for i, c := range padded {
		le[31-i] = c
	}
	require.Equal(t, 0, v.Cmp(FromBytesLittleEndian(le)))
}

func TestCheckedOps(t *testing.T) {
	c := CheckedAddCC(FromUint64(2), FromUint64(3))
	require.Equal(t, int64(5), c.Sum.BigInt().Int64())
	require.Equal(t, uint64(0), c.Carry)

	s := CheckedSubCC(FromUint64(5), FromUint64(2))
	require.Equal(t, int64(3), s.Diff.BigInt().Int64())
	require.Equal(t, uint64(0), s.Borrow)
}
