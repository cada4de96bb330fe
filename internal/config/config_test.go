// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package config

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/luxfi/ligetron/internal/prg"
)

func TestParseAndResolve(t *testing.T) {
	doc := `{
		"program": "sha256.wasm",
		"args": [{"str": "Ligero"}, {"i64": 6}, {"hex": "0x2f4b"}],
		"private-indices": [1],
		"packing": 1024
	}`
	run, cerr := Parse([]byte(doc))
	require.Nil(t, cerr)

	resolved, cerr := run.Resolve()
	require.Nil(t, cerr)
	require.Equal(t, "sha256.wasm", resolved.Program)
	require.Equal(t, 1024, resolved.Sizes.K)
	require.Equal(t, 1024-SampleSize, resolved.Sizes.L)
	require.Equal(t, 4*1024, resolved.Sizes.N)
	require.True(t, resolved.PrivateIndices[1])
	require.Equal(t, "Ligero", string(resolved.Argv[0]))
	require.Equal(t, "Ligero", string(resolved.Argv[1]))
	require.Equal(t, "6", string(resolved.Argv[2]))
	require.Equal(t, []byte{0x2f, 0x4b}, resolved.Argv[3])
}

func TestResolveRejectsMissingProgram(t *testing.T) {
	run := &Run{}
	_, cerr := run.Resolve()
	require.NotNil(t, cerr)
}

func TestResolveRejectsNonPowerOfTwoPacking(t *testing.T) {
	run := &Run{Program: "x.wasm", Packing: 1000}
	_, cerr := run.Resolve()
	require.NotNil(t, cerr)
}

func TestResolveDefaultsPacking(t *testing.T) {
	run := &Run{Program: "x.wasm"}
	resolved, cerr := run.Resolve()
	require.Nil(t, cerr)
	require.Equal(t, DefaultPacking, resolved.Sizes.K)
}

func TestArgSpecRejectsMultipleTags(t *testing.T) {
	i := int64(1)
	s := "x"
	spec := ArgSpec{I64: &i, Str: &s}
	_, cerr := spec.Bytes()
	require.NotNil(t, cerr)
}

func TestResolveRandomPolicy(t *testing.T) {
	run := &Run{Program: "x.wasm", RandomPolicy: "zero"}
	resolved, cerr := run.Resolve()
	require.Nil(t, cerr)
	require.Equal(t, prg.PolicyZero, resolved.RandomPolicy)

	run = &Run{Program: "x.wasm"}
	resolved, cerr = run.Resolve()
	require.Nil(t, cerr)
	require.Equal(t, prg.PolicyAESCTR, resolved.RandomPolicy)

	run = &Run{Program: "x.wasm", RandomPolicy: "bogus"}
	_, cerr = run.Resolve()
	require.NotNil(t, cerr)
}

func TestParseRejectsUnknownField(t *testing.T) {
	_, cerr := Parse([]byte(`{"program": "x.wasm", "bogus": 1}`))
	require.NotNil(t, cerr)
}
