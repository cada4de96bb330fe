// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package field provides bn254 scalar field (Fp) arithmetic, backed
// by gnark-crypto's Montgomery-form Element. All operations take
// canonical (reduced) inputs and produce canonical outputs.
package field

import (
	"math/big"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
)

// Fp is a canonical (reduced) element of the bn254 scalar field.
// The zero value is the additive identity.
type Fp struct {
	e fr.Element
}

// Modulus returns the bn254 scalar field prime p, a 254-bit value.
func Modulus() *big.Int {
	return fr.Modulus()
}

// Zero and One are the additive and multiplicative identities.
func Zero() Fp { return Fp{} }

func One() Fp {
	var f Fp
	f.e.SetOne()
	return f
}

// FromUint64 builds an Fp from a native unsigned integer.
func FromUint64(v uint64) Fp {
	var f Fp
	f.e.SetUint64(v)
	return f
}

// FromBigInt reduces x mod p into canonical form. Any integer input,
// canonical output.
func FromBigInt(x *big.Int) Fp {
	var f Fp
	f.e.SetBigInt(x)
	return f
}

// FromBytes interprets b as a big-endian integer and reduces it mod p.
func FromBytes(b []byte) Fp {
	var f Fp
	f.e.SetBytes(b)
	return f
}

// BigInt returns the canonical representative as a big.Int.
func (f Fp) BigInt() *big.Int {
	var z big.Int
	f.e.BigInt(&z)
	return &z
}

// Bytes returns the canonical 32-byte big-endian encoding.
func (f Fp) Bytes() [32]byte {
	return f.e.Bytes()
}

func (f Fp) IsZero() bool { return f.e.IsZero() }

func (f Fp) Equal(o Fp) bool { return f.e.Equal(&o.e) }

// Add, Sub, Mul are standard modular arithmetic. gnark-crypto's
// Element performs Montgomery reduction internally.
func Add(a, b Fp) Fp {
	var r Fp
	r.e.Add(&a.e, &b.e)
	return r
}

func Sub(a, b Fp) Fp {
	var r Fp
	r.e.Sub(&a.e, &b.e)
	return r
}

func Mul(a, b Fp) Fp {
	var r Fp
	r.e.Mul(&a.e, &b.e)
	return r
}

// Neg returns -a mod p.
func Neg(a Fp) Fp {
	var r Fp
	r.e.Neg(&a.e)
	return r
}

// MontMul computes a*b*R^-1 mod p with R = 2^256, used by GPU kernels
// that keep intermediates in Montgomery form.
func MontMul(a, b Fp) Fp { return Mul(Mul(a, b), montgomeryRInv) }

// Inv computes the multiplicative inverse. Calling Inv on zero is a
// programming error and panics (gnark-crypto's own Inverse returns
// zero silently on a zero element); callers that must not trap on
// zero use TryInv.
func Inv(a Fp) Fp {
	r, ok := TryInv(a)
	if !ok {
		panic("field: inverse of zero is undefined")
	}
	return r
}

// TryInv is the checked form of Inv used by host module wrappers that
// need to turn the zero-input case into a trap rather than a panic.
func TryInv(a Fp) (Fp, bool) {
	if a.IsZero() {
		return Fp{}, false
	}
	var r Fp
	r.e.Inverse(&a.e)
	return r, true
}

// Div computes a/b = a * b^-1.
func Div(a, b Fp) (Fp, bool) {
	bi, ok := TryInv(b)
	if !ok {
		return Fp{}, false
	}
	return Mul(a, bi), true
}

// PowMod computes base^exp mod p via left-to-right binary
// exponentiation.
func PowMod(base Fp, exp *big.Int) Fp {
	var r Fp
	r.e.Exp(base.e, exp)
	return r
}

// PowmUI is the common case of PowMod with a native uint64 exponent.
func PowmUI(base Fp, exp uint64) Fp {
	return PowMod(base, new(big.Int).SetUint64(exp))
}

// barrettFactor and montgomeryFactor are the reduction constants
// precomputed from p. gnark-crypto's Element folds Montgomery
// reduction into every operation, so these are only surfaced for
// diagnostics and tests, and montgomeryFactor also yields MontMul's
// R^-1.
var (
	barrettFactor    *big.Int
	montgomeryFactor = new(big.Int).Lsh(big.NewInt(1), 256) // R = 2^256
)

// montgomeryRInv is R^-1 mod p, the factor MontMul applies.
var montgomeryRInv Fp

func init() {
	p := Modulus()
	shift := new(big.Int).Lsh(big.NewInt(1), 508)
	barrettFactor = new(big.Int).Div(shift, p)
	montgomeryRInv = Inv(FromBigInt(montgomeryFactor))
}

// BarrettFactor returns floor(2^508 / p).
func BarrettFactor() *big.Int { return new(big.Int).Set(barrettFactor) }

// MontgomeryR returns R = 2^256.
func MontgomeryR() *big.Int { return new(big.Int).Set(montgomeryFactor) }
