// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package fixtures

import "github.com/luxfi/ligetron/internal/zkpctx"

// FlipRootByte returns a copy of proof with the low bit of its root's
// first byte flipped, simulating a proof stream corrupted or forged in
// transit. verifyRootBinding rehashes the shipped, sampled columns and
// recombines them through the decommitment; a changed root can no
// longer equal that recombination, so this is caught earlier still,
// at the sample-seed re-derivation in zkpctx.Verify:
// prg.SampleSeed is keyed off the root, so a tampered root derives a
// different seed than the one recorded in the proof.
func FlipRootByte(proof *zkpctx.Proof) *zkpctx.Proof {
	tampered := *proof
	tampered.Root[0] ^= 0x01
	return &tampered
}
