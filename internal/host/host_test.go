// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package host

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/luxfi/ligetron/internal/bigint"
	"github.com/luxfi/ligetron/internal/field"
	"github.com/luxfi/ligetron/internal/prg"
	"github.com/luxfi/ligetron/internal/wasm/interp"
	"github.com/luxfi/ligetron/internal/wasm/ir"
	"github.com/luxfi/ligetron/internal/witness"
)

type recordingSink struct {
	rows int
}

func (r *recordingSink) CommitRow(code, linear, quadratic []field.Fp) { r.rows++ }

func newTestCtx(t *testing.T, packingWidth int) *Ctx {
	t.Helper()
	witnessRNG, err := prg.NewEngine(prg.PolicyZero, [32]byte{}, [16]byte{})
	require.NoError(t, err)
	anyRNG, err := prg.NewEngine(prg.PolicyZero, [32]byte{}, [16]byte{})
	require.NoError(t, err)
	randomRNG, err := prg.NewEngine(prg.PolicyZero, [32]byte{}, [16]byte{})
	require.NoError(t, err)
	w := witness.NewManager(packingWidth, witnessRNG, anyRNG, &recordingSink{})
	return NewCtx(w, packingWidth, [][]byte{[]byte("Ligero")}, nil, randomRNG, nil)
}

// buildHostCallModule wraps a single host call (with the given i32
// arguments pushed beforehand) in a tiny function body so Instantiate
// can resolve OpHostCall against the registered modules.
func buildHostCallModule(hostModule, hostName string, pushArgs []int32, resultCount int) *ir.Module {
	body := make([]ir.Instr, 0, len(pushArgs)+1)
	for _, v := range pushArgs {
		body = append(body, ir.Instr{Op: ir.OpI32Const, Imm: [4]int64{int64(v)}})
	}
	body = append(body, ir.Instr{Op: ir.OpHostCall, HostModule: hostModule, HostName: hostName})
	results := make([]ir.ValType, resultCount)
	return &ir.Module{
		Imports:   []ir.Import{{Module: hostModule, Name: hostName}},
		Functions: []ir.Function{{Results: results, Body: body}},
	}
}

func TestEnvWitnessCastAndAssertOne(t *testing.T) {
	c := newTestCtx(t, 4)
	mod := buildHostCallModule("env", "witness_cast_u32", []int32{1}, 1)
	it, cerr := interp.Instantiate(mod, c.Modules(), nil)
	require.Nil(t, cerr)

	_, trap := it.Run(0)
	require.Nil(t, trap)
	require.Equal(t, 1, it.Stack.Len())
	w := it.Stack.PeekValue().Witness
	require.True(t, c.W.Value(w).Equal(field.One()))
	require.Nil(t, envModule{c}.assertOne(it))
}

func TestEnvAssertZeroOnBadValueDoesNotTrap(t *testing.T) {
	c := newTestCtx(t, 8)
	h := c.W.AcquireWitness()
	c.commitValue(h, field.FromUint64(5)) // not zero

	m := envModule{c}
	// Manually drive the host func the way the interpreter would:
	// push the witness value, then call assert_zero.
	it, cerr := interp.Instantiate(&ir.Module{Functions: []ir.Function{{}}}, c.Modules(), nil)
	require.Nil(t, cerr)
	it.Stack.PushValue(interp.WitnessValue(h))
	trap := m.assertZero(it)
	require.Nil(t, trap) // assert_zero never traps; unsoundness shows up in the quadratic sum
}

func TestBn254frAddRoundtrip(t *testing.T) {
	c := newTestCtx(t, 4)
	m := bn254frModule{c}

	aH, aCell := c.allocFr()
	bH, bCell := c.allocFr()
	aCell.value = field.FromUint64(3)
	c.commitValue(aCell.handle, aCell.value)
	bCell.value = field.FromUint64(4)
	c.commitValue(bCell.handle, bCell.value)

	it, cerr := interp.Instantiate(&ir.Module{Functions: []ir.Function{{}}}, c.Modules(), nil)
	require.Nil(t, cerr)

	dstH, _ := c.allocFr()
	it.Stack.PushValue(interp.I32Value(dstH))
	it.Stack.PushValue(interp.I32Value(aH))
	it.Stack.PushValue(interp.I32Value(bH))
	trap := m.add(true)(it)
	require.Nil(t, trap)
	require.True(t, c.fr(dstH).value.Equal(field.FromUint64(7)))
}

func TestBn254frDivByZeroTraps(t *testing.T) {
	c := newTestCtx(t, 4)
	m := bn254frModule{c}
	dstH, _ := c.allocFr()
	aH, aCell := c.allocFr()
	aCell.value = field.FromUint64(9)
	bH, _ := c.allocFr() // zero

	it, cerr := interp.Instantiate(&ir.Module{Functions: []ir.Function{{}}}, c.Modules(), nil)
	require.Nil(t, cerr)
	it.Stack.PushValue(interp.I32Value(dstH))
	it.Stack.PushValue(interp.I32Value(aH))
	it.Stack.PushValue(interp.I32Value(bH))
	trap := m.div(false)(it)
	require.NotNil(t, trap)
}

func TestUint256DivNormalised(t *testing.T) {
	c := newTestCtx(t, 4)
	m := uint256Module{c}

	numLoH := mustAllocU256(c)
	numHiH := mustAllocU256(c)
	divisorH := mustAllocU256(c)
	qH := mustAllocU256(c)
	rH := mustAllocU256(c)

	// numerator = 2^256 (Lo=0, Hi=1), divisor = 2^192 (top limb
	// non-zero, satisfying DivQRNormalised's precondition) ->
	// quotient = 2^64, remainder = 0.
	divisor := new(big.Int).Lsh(big.NewInt(1), 192)
	c.u256Cells[numLoH].value = bigint.FromUint64(0)
	c.u256Cells[numHiH].value = bigint.FromUint64(1)
	c.u256Cells[divisorH].value = bigint.FromBigInt(divisor)

	it, cerr := interp.Instantiate(&ir.Module{Functions: []ir.Function{{}}}, c.Modules(), nil)
	require.Nil(t, cerr)
	it.Stack.PushValue(interp.I32Value(qH))
	it.Stack.PushValue(interp.I32Value(rH))
	it.Stack.PushValue(interp.I32Value(numLoH))
	it.Stack.PushValue(interp.I32Value(numHiH))
	it.Stack.PushValue(interp.I32Value(divisorH))
	trap := m.div(it)
	require.Nil(t, trap)
	require.True(t, c.u256Cells[rH].value.IsZero())
	require.Equal(t, new(big.Int).Lsh(big.NewInt(1), 64), c.u256Cells[qH].value.BigInt())
}

func mustAllocU256(c *Ctx) int32 {
	h := c.nextU256
	c.nextU256++
	c.u256Cells[h] = &u256Cell{}
	return h
}
