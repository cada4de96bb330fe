// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package fixtures

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/luxfi/ligetron/internal/trapkind"
)

func TestConstantAssertionModuleTrueClaimVerifies(t *testing.T) {
	mod := ConstantAssertionModule(5, 5)
	params := DefaultParams(256)

	proof, exitCode, trap, cerr := Prove(mod, nil, params)
	require.Nil(t, cerr)
	require.Nil(t, trap)
	require.Equal(t, int32(0), exitCode)

	rej, vtrap, vcerr := Verify(mod, nil, params, proof)
	require.Nil(t, vcerr)
	require.Nil(t, vtrap)
	require.Nil(t, rej)
}

func TestConstantAssertionModuleFalseClaimRejects(t *testing.T) {
	mod := ConstantAssertionModule(5, 7)
	params := DefaultParams(256)

	proof, exitCode, trap, cerr := Prove(mod, nil, params)
	require.Nil(t, cerr)
	require.Nil(t, trap)
	require.Equal(t, int32(0), exitCode)

	rej, vtrap, vcerr := Verify(mod, nil, params, proof)
	require.Nil(t, vcerr)
	require.Nil(t, vtrap)
	require.NotNil(t, rej)
	require.Equal(t, trapkind.QuadraticSumNonZero, rej.Reason)
}

func TestConstantAssertionProofTamperedRootRejects(t *testing.T) {
	mod := ConstantAssertionModule(5, 5)
	params := DefaultParams(256)

	proof, _, trap, cerr := Prove(mod, nil, params)
	require.Nil(t, cerr)
	require.Nil(t, trap)

	tampered := FlipRootByte(proof)
	rej, vtrap, vcerr := Verify(mod, nil, params, tampered)
	require.Nil(t, vcerr)
	require.Nil(t, vtrap)
	require.NotNil(t, rej)
	require.Equal(t, trapkind.RootMismatch, rej.Reason)
}
