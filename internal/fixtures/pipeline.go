// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package fixtures

import (
	"github.com/luxfi/ligetron/internal/config"
	"github.com/luxfi/ligetron/internal/host"
	"github.com/luxfi/ligetron/internal/ntt"
	"github.com/luxfi/ligetron/internal/prg"
	"github.com/luxfi/ligetron/internal/trapkind"
	"github.com/luxfi/ligetron/internal/wasm/interp"
	"github.com/luxfi/ligetron/internal/wasm/ir"
	"github.com/luxfi/ligetron/internal/witness"
	"github.com/luxfi/ligetron/internal/zkpctx"
)

// DefaultParams builds small-packing zkpctx.Params suitable for a
// fixture run (the real CLI defaults to config.DefaultPacking, but
// these fixtures run a handful of rows, so a much smaller k keeps the
// NTT/Merkle work trivial).
func DefaultParams(k int) zkpctx.Params {
	sizes := ntt.NewSizes(k, config.SampleSize)
	return zkpctx.Params{
		Sizes:      sizes,
		SampleSize: config.SampleSize,
		AnyIV:      [16]byte{'f', 'i', 'x', 't', 'u', 'r', 'e', '-', 'a', 'n', 'y'},
	}
}

// Prove runs mod to completion against a fresh witness manager and
// ZKP context seeded deterministically (PolicyZero row PRGs; fixtures
// don't need the blinding a real run does), and returns the finished
// proof alongside the guest's exit code and trap, if any.
func Prove(mod *ir.Module, argv [][]byte, params zkpctx.Params) (*zkpctx.Proof, int32, *trapkind.Trap, *trapkind.ConfigError) {
	engine := ntt.NewEngine(params.Sizes, nil)
	witnessRNG, _ := prg.NewEngine(prg.PolicyZero, [32]byte{}, [16]byte{})
	anyRNG, _ := prg.NewEngine(prg.PolicyZero, [32]byte{}, [16]byte{})
	randomRNG, _ := prg.NewEngine(prg.PolicyZero, [32]byte{}, [16]byte{})

	prover := zkpctx.NewProver(params, engine, anyRNG)
	w := witness.NewManager(params.Sizes.L, witnessRNG, anyRNG, prover)
	ctx := host.NewCtx(w, params.Sizes.L, argv, nil, randomRNG, nil)

	it, cerr := interp.Instantiate(mod, ctx.Modules(), nil)
	if cerr != nil {
		return nil, 0, nil, cerr
	}
	exitCode, trap := it.Run(mod.Start)
	if trap != nil {
		return nil, exitCode, trap, nil
	}
	w.FlushFinal()
	return prover.Finalize(), exitCode, nil, nil
}

// Verify re-runs mod on the same argv with a replay-recording witness
// manager, then checks proof against the replayed trace. This is the
// full verifier path: nothing in the proof is trusted without the
// re-execution standing behind it.
func Verify(mod *ir.Module, argv [][]byte, params zkpctx.Params, proof *zkpctx.Proof) (*trapkind.Rejection, *trapkind.Trap, *trapkind.ConfigError) {
	witnessRNG, _ := prg.NewEngine(prg.PolicyZero, [32]byte{}, [16]byte{})
	anyRNG, _ := prg.NewEngine(prg.PolicyZero, [32]byte{}, [16]byte{})
	randomRNG, _ := prg.NewEngine(prg.PolicyZero, [32]byte{}, [16]byte{})

	replay := zkpctx.NewReplayRecorder()
	w := witness.NewManager(params.Sizes.L, witnessRNG, anyRNG, replay)
	ctx := host.NewCtx(w, params.Sizes.L, argv, nil, randomRNG, nil)

	it, cerr := interp.Instantiate(mod, ctx.Modules(), nil)
	if cerr != nil {
		return nil, nil, cerr
	}
	_, trap := it.Run(mod.Start)
	if trap != nil {
		return nil, trap, nil
	}
	w.FlushFinal()
	return zkpctx.Verify(params, proof, replay), nil, nil
}
