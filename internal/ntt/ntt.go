// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package ntt implements the elementwise and NTT engine: Reed-Solomon
// encode/decode via inverse-NTT over the order-k domain followed by a
// forward-NTT over the order-n domain, plus the elementwise kernels
// and column gather used by the witness manager and ZKP context. The
// radix-2 transform itself is delegated to gnark-crypto's
// ecc/bn254/fr/fft.Domain; this package supplies the Reed-Solomon
// fold/unfold wiring around it, and stages buffers through
// internal/gpu's Device so the accelerated build can intercept the
// same dispatches.
package ntt

import (
	"math/big"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/consensys/gnark-crypto/ecc/bn254/fr/fft"

	"github.com/luxfi/ligetron/internal/field"
	"github.com/luxfi/ligetron/internal/gpu"
)

// Sizes bundles the three domain sizes: k = padding width (power of
// two), l = packing width (k - sampleSize), n = 4k encoding width.
type Sizes struct {
	K, L, N int
}

// NewSizes validates and builds a Sizes. k must be a power of two.
func NewSizes(k, sampleSize int) Sizes {
	if k <= 0 || k&(k-1) != 0 {
		panic("ntt: padding width k must be a power of two")
	}
	return Sizes{K: k, L: k - sampleSize, N: 4 * k}
}

// Engine precomputes the forward/inverse domains once and reuses
// them across every row; the per-size twiddle tables live inside the
// gnark-crypto fft.Domain objects.
type Engine struct {
	sizes Sizes
	domK  *fft.Domain
	domN  *fft.Domain
	dev   gpu.Device // optional; nil means host-only arithmetic
}

// NewEngine builds an Engine for the given sizes. dev may be nil;
// when non-nil, row payloads are round-tripped through its buffers so
// the accelerated backend can intercept dispatches, while the field
// arithmetic itself always happens host-side in the pure-Go build.
func NewEngine(sizes Sizes, dev gpu.Device) *Engine {
	return &Engine{
		sizes: sizes,
		domK:  fft.NewDomain(uint64(sizes.K)),
		domN:  fft.NewDomain(uint64(sizes.N)),
		dev:   dev,
	}
}

func elementOf(x field.Fp) fr.Element {
	var e fr.Element
	e.SetBigInt(x.BigInt())
	return e
}

func fpOf(e *fr.Element) field.Fp {
	var z big.Int
	e.BigInt(&z)
	return field.FromBigInt(&z)
}

// Encode performs the Reed-Solomon encoding. The caller supplies a
// length-k row (the witness manager's l-entry row already padded up
// to k with fresh blinding randomness); Encode interprets those k
// entries as evaluations on the order-k
// domain, inverse-NTTs them back to the degree-<k coefficient vector
// (this is the "fold" of a length-k evaluation vector down to its
// coefficients; the reverse fold, evaluating those coefficients on n
// points, happens in the forward-NTT below), zero-extends into a
// length-n buffer, then forward-NTTs to produce the codeword.
func (e *Engine) Encode(row []field.Fp) []field.Fp {
	if len(row) != e.sizes.K {
		panic("ntt: Encode requires a length-k row")
	}
	padded := make([]fr.Element, e.sizes.K)
	for i, m := range row {
		padded[i] = elementOf(m)
	}
	// Interpret the first k entries as evaluations on the order-k
	// domain and invert to coefficients of a degree-<k polynomial.
	e.domK.FFTInverse(padded, fft.DIF)
	fft.BitReverse(padded)

	// Zero-extend the degree-<k coefficient vector into the length-n
	// domain, then forward-NTT to get the RS codeword: evaluations of
	// the same polynomial on n points instead of k.
	full := make([]fr.Element, e.sizes.N)
	copy(full, padded)
	e.domN.FFT(full, fft.DIF)
	fft.BitReverse(full)

	out := make([]field.Fp, e.sizes.N)
	for i := range full {
		out[i] = fpOf(&full[i])
	}
	e.stage(out)
	return out
}

// DecodeCoefficients recovers the degree-<k coefficient vector that
// produced a length-n codeword, by inverse-NTT over the full length-n
// domain and truncating to the first k coefficients. The higher n-k
// coefficients are the beyond-the-degree-bound positions the verifier
// checks are all zero.
func (e *Engine) DecodeCoefficients(codeword []field.Fp) []field.Fp {
	if len(codeword) != e.sizes.N {
		panic("ntt: DecodeCoefficients requires a length-n codeword")
	}
	work := make([]fr.Element, e.sizes.N)
	for i, c := range codeword {
		work[i] = elementOf(c)
	}
	e.domN.FFTInverse(work, fft.DIF)
	fft.BitReverse(work)

	out := make([]field.Fp, e.sizes.N)
	for i := range work {
		out[i] = fpOf(&work[i])
	}
	return out
}

// Decode recovers the length-l message: the full DecodeRow inversion
// truncated to the packing width. For a codeword that came from
// Encode, the result equals the original message exactly.
func (e *Engine) Decode(codeword []field.Fp) []field.Fp {
	row := e.DecodeRow(codeword)
	out := make([]field.Fp, e.sizes.L)
	copy(out, row[:e.sizes.L])
	return out
}

// DecodeRow inverts Encode exactly: it recovers the original length-k
// row (the witness manager's l-entry row, already random-padded to k)
// that produced codeword. Used by the verifier to recompute the
// linear running sum and the quadratic zero-sum check from the
// codewords shipped in the proof stream.
func (e *Engine) DecodeRow(codeword []field.Fp) []field.Fp {
	coeffs := e.DecodeCoefficients(codeword)
	work := make([]fr.Element, e.sizes.K)
	for i := 0; i < e.sizes.K; i++ {
		work[i] = elementOf(coeffs[i])
	}
	e.domK.FFT(work, fft.DIF)
	fft.BitReverse(work)

	out := make([]field.Fp, e.sizes.K)
	for i := range work {
		out[i] = fpOf(&work[i])
	}
	return out
}

func (e *Engine) stage(codeword []field.Fp) {
	if e.dev == nil {
		return
	}
	buf := e.dev.MakeDeviceBuffer(len(codeword) * 32)
	defer buf.Release()
	raw := make([]byte, 0, len(codeword)*32)
	for _, c := range codeword {
		b := c.Bytes()
		raw = append(raw, b[:]...)
	}
	e.dev.WriteBufferRaw(buf, 0, raw)
}
