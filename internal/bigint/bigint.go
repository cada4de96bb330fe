// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package bigint implements unsigned 256-bit integers: four 64-bit
// limbs, little-endian, with carry/borrow-producing add/sub, a wide
// (512-bit) multiply, and normalised 512-by-256 division, backed by
// holiman/uint256 instead of hand-rolled limb arithmetic.
package bigint

import (
	"math/big"

	"github.com/holiman/uint256"
)

// U256 is an unsigned 256-bit integer, four 64-bit limbs little-endian
// (matches holiman/uint256's internal layout exactly).
type U256 struct {
	v uint256.Int
}

func FromUint64(x uint64) U256 {
	return U256{v: *uint256.NewInt(x)}
}

func FromBigInt(x *big.Int) U256 {
	var u U256
	u.v.SetFromBig(x)
	return u
}

func FromBytesLittleEndian(b []byte) U256 {
	var u U256
	rev := make([]byte, len(b))
	for i, c := range b {
		rev[len(b)-1-i] = c
	}
	u.v.SetBytes(rev)
	return u
}

func FromBytesBigEndian(b []byte) U256 {
	var u U256
	u.v.SetBytes(b)
	return u
}

func (u U256) BigInt() *big.Int {
	return u.v.ToBig()
}

// Limbs returns the four little-endian 64-bit words.
func (u U256) Limbs() [4]uint64 {
	return [4]uint64(u.v)
}

func (u U256) IsZero() bool { return u.v.IsZero() }

func (u U256) Cmp(o U256) int { return u.v.Cmp(&o.v) }

// AddCC computes a+b and returns the result plus the carry-out bit.
func AddCC(a, b U256) (sum U256, carry uint64) {
	var r uint256.Int
	_, c := r.AddOverflow(&a.v, &b.v)
	return U256{v: r}, b64(c)
}

// SubCC computes a-b and returns the result plus the borrow-out bit.
func SubCC(a, b U256) (diff U256, borrow uint64) {
	var r uint256.Int
	_, br := r.SubOverflow(&a.v, &b.v)
	return U256{v: r}, b64(br)
}

func b64(b bool) uint64 {
	if b {
		return 1
	}
	return 0
}

// Wide512 is a 512-bit value, little-endian halves (Lo holds bits
// [0,256), Hi holds bits [256,512)).
type Wide512 struct {
	Lo, Hi U256
}

// MulWide computes the full 512-bit product of two 256-bit operands.
// holiman/uint256 intentionally only
// exposes modular/overflow-checked 256-bit multiplication, so the
// double-width product is computed through math/big at the boundary
// and repacked into two U256 halves.
func MulWide(a, b U256) Wide512 {
	prod := new(big.Int).Mul(a.BigInt(), b.BigInt())
	mask := new(big.Int).Lsh(big.NewInt(1), 256)
	lo := new(big.Int).Mod(prod, mask)
	hi := new(big.Int).Rsh(prod, 256)
	return Wide512{Lo: FromBigInt(lo), Hi: FromBigInt(hi)}
}

// BigInt reinterprets the wide value as a single big.Int.
func (w Wide512) BigInt() *big.Int {
	hi := new(big.Int).Lsh(w.Hi.BigInt(), 256)
	return hi.Add(hi, w.Lo.BigInt())
}

// DivQRNormalised performs 512-by-256 division assuming the divisor
// is normalised (top limb non-zero). It
// traps (returns ok=false) on a zero divisor or a non-normalised
// divisor, leaving the caller to raise the appropriate trap.Kind.
func DivQRNormalised(num Wide512, divisor U256) (quotient, remainder U256, ok bool) {
	if divisor.IsZero() {
		return U256{}, U256{}, false
	}
	if divisor.Limbs()[3] == 0 {
		return U256{}, U256{}, false // top limb must be non-zero: normalised precondition
	}
	q, r := new(big.Int).QuoRem(num.BigInt(), divisor.BigInt(), new(big.Int))
	return FromBigInt(q), FromBigInt(r), true
}

// InvMod computes a^-1 mod m via extended gcd; undefined (ok=false)
// for a == 0 or gcd(a, m) != 1.
func InvMod(a, m U256) (inv U256, ok bool) {
	if a.IsZero() || m.IsZero() {
		return U256{}, false
	}
	g := new(big.Int)
	x := new(big.Int)
	mb := m.BigInt()
	g.GCD(x, nil, a.BigInt(), mb)
	if g.Cmp(big.NewInt(1)) != 0 {
		return U256{}, false
	}
	x.Mod(x, mb)
	return FromBigInt(x), true
}

// Checked variants bundle the result with the operands so the host
// layer, which owns the witness manager handle, can emit the matching
// equality/assert constraint without recomputing anything.
type CheckedAdd struct {
	A, B, Sum U256
	Carry     uint64
}

func CheckedAddCC(a, b U256) CheckedAdd {
	sum, carry := AddCC(a, b)
	return CheckedAdd{A: a, B: b, Sum: sum, Carry: carry}
}

type CheckedSub struct {
	A, B, Diff U256
	Borrow     uint64
}

func CheckedSubCC(a, b U256) CheckedSub {
	diff, borrow := SubCC(a, b)
	return CheckedSub{A: a, B: b, Diff: diff, Borrow: borrow}
}
