// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package fixtures

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/luxfi/ligetron/internal/trapkind"
)

func TestUInt256DivisionModuleProvesAndVerifies(t *testing.T) {
	numLo := big.NewInt(0)
	numHi := big.NewInt(1)
	divisor := new(big.Int).Lsh(big.NewInt(1), 200)

	argv := UInt256DivisionArgv(numLo, numHi, divisor)
	mod := UInt256DivisionModule()
	params := DefaultParams(256)

	proof, exitCode, trap, cerr := Prove(mod, argv, params)
	require.Nil(t, cerr)
	require.Nil(t, trap)
	require.Equal(t, int32(0), exitCode)
	require.NotNil(t, proof)

	rej, vtrap, vcerr := Verify(mod, argv, params, proof)
	require.Nil(t, vcerr)
	require.Nil(t, vtrap)
	require.Nil(t, rej)
}

func TestUInt256DivisionModuleRejectsWrongQuotient(t *testing.T) {
	numLo := big.NewInt(0)
	numHi := big.NewInt(1)
	divisor := new(big.Int).Lsh(big.NewInt(1), 200)

	argv := UInt256DivisionArgv(numLo, numHi, divisor)
	// Corrupt the expected quotient (argv index 4) so the guest's
	// checked comparison against uint256.div's real result is false.
	wrongQuot := pad32BE(new(big.Int).Add(new(big.Int).SetBytes(argv[4]), big.NewInt(1)))
	argv[4] = wrongQuot

	mod := UInt256DivisionModule()
	params := DefaultParams(256)

	proof, exitCode, trap, cerr := Prove(mod, argv, params)
	require.Nil(t, cerr)
	require.Nil(t, trap)
	require.Equal(t, int32(0), exitCode)
	require.NotNil(t, proof)

	rej, vtrap, vcerr := Verify(mod, argv, params, proof)
	require.Nil(t, vcerr)
	require.Nil(t, vtrap)
	require.NotNil(t, rej)
	require.Equal(t, trapkind.QuadraticSumNonZero, rej.Reason)
}
