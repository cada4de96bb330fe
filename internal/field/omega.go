// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package field

import "github.com/consensys/gnark-crypto/ecc/bn254/fr/fft"

// Omegas holds the three domain generators for n = 4*k: the order-k
// root used for the inverse-NTT over the packed row, the order-2k
// root used in the NTT-fold twiddle step, and the order-n root used
// for the final forward-NTT over the Reed-Solomon codeword.
type Omegas struct {
	WK  Fp // primitive k-th root of unity
	W2K Fp // primitive 2k-th root of unity
	WN  Fp // primitive n-th root of unity
}

// GenerateOmegas derives the three domain generators for n = 4*k. It
// delegates to gnark-crypto's fft.NewDomain, which picks generators
// from the field's known 2-adicity.
func GenerateOmegas(k, n uint64) Omegas {
	dk := fft.NewDomain(k)
	d2k := fft.NewDomain(2 * k)
	dn := fft.NewDomain(n)
	return Omegas{
		WK:  Fp{e: dk.Generator},
		W2K: Fp{e: d2k.Generator},
		WN:  Fp{e: dn.Generator},
	}
}
