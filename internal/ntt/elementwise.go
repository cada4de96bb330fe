// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package ntt

import "github.com/luxfi/ligetron/internal/field"

// Elementwise kernels (EltwiseAddMod, SubMod, MulMod, DivMod, FMAMod,
// BitDecompose, PowMod, PowAddMod) plus the column-sampling gather.
// Each accepts explicit x_off/y_off/out_off operand offsets,
// computing out[i+out_off] = op(x[i+x_off], y[i+y_off]), rather than
// carrying module-level offset state. The host-side vbn254fr module
// and the verifier's column sampling call through these rather than
// looping field ops by hand, so a GPU build can intercept the same
// dispatch points.

// EltwiseAddMod computes out[i] = x[i+xOff] + y[i+yOff] for n lanes.
func EltwiseAddMod(out, x, y []field.Fp, outOff, xOff, yOff, n int) {
	for i := 0; i < n; i++ {
		out[outOff+i] = field.Add(x[xOff+i], y[yOff+i])
	}
}

// EltwiseSubMod computes out[i] = x[i+xOff] - y[i+yOff].
func EltwiseSubMod(out, x, y []field.Fp, outOff, xOff, yOff, n int) {
	for i := 0; i < n; i++ {
		out[outOff+i] = field.Sub(x[xOff+i], y[yOff+i])
	}
}

// EltwiseMulMod computes out[i] = x[i+xOff] * y[i+yOff].
func EltwiseMulMod(out, x, y []field.Fp, outOff, xOff, yOff, n int) {
	for i := 0; i < n; i++ {
		out[outOff+i] = field.Mul(x[xOff+i], y[yOff+i])
	}
}

// EltwiseDivMod computes out[i] = x[i+xOff] / y[i+yOff]. A division by
// zero lane is a caller-level trap, not silently skipped; the bool
// result reports whether every lane divided cleanly.
func EltwiseDivMod(out, x, y []field.Fp, outOff, xOff, yOff, n int) bool {
	ok := true
	for i := 0; i < n; i++ {
		q, divOK := field.Div(x[xOff+i], y[yOff+i])
		if !divOK {
			ok = false
			continue
		}
		out[outOff+i] = q
	}
	return ok
}

// EltwiseFMAMod computes out[i] = x[i+xOff]*y[i+yOff] + z[i+zOff].
func EltwiseFMAMod(out, x, y, z []field.Fp, outOff, xOff, yOff, zOff, n int) {
	for i := 0; i < n; i++ {
		out[outOff+i] = field.Add(field.Mul(x[xOff+i], y[yOff+i]), z[zOff+i])
	}
}

// AddConstMod computes out[i] = x[i+xOff] + c for a scalar constant.
func AddConstMod(out, x []field.Fp, c field.Fp, outOff, xOff, n int) {
	for i := 0; i < n; i++ {
		out[outOff+i] = field.Add(x[xOff+i], c)
	}
}

// SubConstMod computes out[i] = x[i+xOff] - c.
func SubConstMod(out, x []field.Fp, c field.Fp, outOff, xOff, n int) {
	for i := 0; i < n; i++ {
		out[outOff+i] = field.Sub(x[xOff+i], c)
	}
}

// ConstSubMod computes out[i] = c - x[i+xOff].
func ConstSubMod(out, x []field.Fp, c field.Fp, outOff, xOff, n int) {
	for i := 0; i < n; i++ {
		out[outOff+i] = field.Sub(c, x[xOff+i])
	}
}

// MulConstMod computes out[i] = x[i+xOff] * c.
func MulConstMod(out, x []field.Fp, c field.Fp, outOff, xOff, n int) {
	for i := 0; i < n; i++ {
		out[outOff+i] = field.Mul(x[xOff+i], c)
	}
}

// AddAssignMod computes out[i+outOff] += x[i+xOff] in place.
func AddAssignMod(out, x []field.Fp, outOff, xOff, n int) {
	for i := 0; i < n; i++ {
		out[outOff+i] = field.Add(out[outOff+i], x[xOff+i])
	}
}

// PowMod computes out[i] = x[i+xOff]^exp.
func PowMod(out, x []field.Fp, exp uint64, outOff, xOff, n int) {
	for i := 0; i < n; i++ {
		out[outOff+i] = field.PowmUI(x[xOff+i], exp)
	}
}

// PowAddMod computes out[i] = x[i+xOff]^exp + y[i+yOff].
func PowAddMod(out, x, y []field.Fp, exp uint64, outOff, xOff, yOff, n int) {
	for i := 0; i < n; i++ {
		out[outOff+i] = field.Add(field.PowmUI(x[xOff+i], exp), y[yOff+i])
	}
}

// BitDecompose writes bit i of every entry of x into out, as a 0/1
// field element. The kernel itself does not assert the 0/1
// invariant; the caller is responsible for emitting the b*(b-1)=0
// constraint.
func BitDecompose(out, x []field.Fp, bit uint, outOff, xOff, n int) {
	for i := 0; i < n; i++ {
		v := x[xOff+i].BigInt()
		out[outOff+i] = field.FromUint64(uint64(v.Bit(int(bit))))
	}
}

// SampleGather copies the columns named by indices out of a long
// codeword into a dense buffer in one pass.
func SampleGather(codeword []field.Fp, indices []int) []field.Fp {
	out := make([]field.Fp, len(indices))
	for i, idx := range indices {
		out[i] = codeword[idx]
	}
	return out
}
