// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package fixtures

import "github.com/luxfi/ligetron/internal/wasm/ir"

// ConstantAssertionModule builds the simplest possible guest program
// exercising the core soundness invariant: a native
// value is promoted to a managed witness via env.witness_cast_u32,
// then checked against a constant via env.assert_constant. When
// value == expected the claim is true and the produced proof
// verifies; when they differ, the quadratic row carrying the
// assertion's triple is non-zero and the verifier rejects with
// QuadraticSumNonZero. TestEnvAssertZeroOnBadValueDoesNotTrap shows
// at the host-module level that the assertion itself never traps.
func ConstantAssertionModule(value uint32, expected int64) *ir.Module {
	body := []ir.Instr{
		constI32(int32(value)),
		hostCall("env", "witness_cast_u32"),
		constI64(expected),
		hostCall("env", "assert_constant"),
	}
	return &ir.Module{
		Functions: []ir.Function{{Body: body}},
		Start:     0,
	}
}
