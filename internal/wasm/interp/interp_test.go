// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package interp

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/luxfi/ligetron/internal/trapkind"
	"github.com/luxfi/ligetron/internal/wasm/ir"
)

// sumLoop builds local 0 = n (param), local 1 = accumulator, and
// loops `local1 += local0; local0 -= 1` until local0 reaches zero,
// returning local1. It exercises OpLoop/OpBrIf's re-entry and
// normal-exit paths together.
func sumLoopModule() *ir.Module {
	body := []ir.Instr{
		{
			Op:   ir.OpLoop,
			Type: ir.BlockType{Params: 0, Results: 0},
			Body: []ir.Instr{
				// local1 += local0
				{Op: ir.OpLocalGet, Imm: [4]int64{1}},
				{Op: ir.OpLocalGet, Imm: [4]int64{0}},
				{Op: ir.OpI32Add},
				{Op: ir.OpLocalSet, Imm: [4]int64{1}},
				// local0 -= 1
				{Op: ir.OpLocalGet, Imm: [4]int64{0}},
				{Op: ir.OpI32Const, Imm: [4]int64{1}},
				{Op: ir.OpI32Sub},
				{Op: ir.OpLocalTee, Imm: [4]int64{0}},
				// br_if 0 when local0 != 0
				{Op: ir.OpI32Eqz},
				{Op: ir.OpI32Eqz},
				{Op: ir.OpBrIf, Imm: [4]int64{0}},
			},
		},
		{Op: ir.OpLocalGet, Imm: [4]int64{1}},
		{Op: ir.OpReturn},
	}
	return &ir.Module{
		Functions: []ir.Function{
			{
				Params:  []ir.ValType{ir.ValI32},
				Results: []ir.ValType{ir.ValI32},
				Locals:  []ir.ValType{ir.ValI32},
				Body:    body,
			},
		},
	}
}

func TestInterpreterSumLoop(t *testing.T) {
	mod := sumLoopModule()
	it, cerr := Instantiate(mod, nil, nil)
	require.Nil(t, cerr)

	it.Stack.PushValue(I32Value(5))
	res := it.call(0)
	require.Equal(t, outcomeNormal, res.kind)
	require.Equal(t, 1, it.Stack.Len())
	got := it.Stack.PopValue()
	require.Equal(t, int32(15), got.I32) // 5+4+3+2+1
}

func TestInterpreterHostCallRoundtrip(t *testing.T) {
	var seen int32
	hm := fakeHostModule{
		"env": {
			"capture": func(it *Interpreter) *trapkind.Trap {
				seen = it.Stack.PopValue().I32
				it.Stack.PushValue(I32Value(seen + 1))
				return nil
			},
		},
	}
	mod := &ir.Module{
		Imports: []ir.Import{{Module: "env", Name: "capture"}},
		Functions: []ir.Function{
			{
				Params:  []ir.ValType{ir.ValI32},
				Results: []ir.ValType{ir.ValI32},
				Body: []ir.Instr{
					{Op: ir.OpLocalGet, Imm: [4]int64{0}},
					{Op: ir.OpHostCall, HostModule: "env", HostName: "capture"},
					{Op: ir.OpReturn},
				},
			},
		},
	}
	it, cerr := Instantiate(mod, hm.modules(), nil)
	require.Nil(t, cerr)
	it.Stack.PushValue(I32Value(41))
	res := it.call(0)
	require.Equal(t, outcomeNormal, res.kind)
	require.Equal(t, int32(42), it.Stack.PopValue().I32)
	require.Equal(t, int32(41), seen)
}

func TestInterpreterTrapOnDivideByZero(t *testing.T) {
	mod := &ir.Module{
		Functions: []ir.Function{
			{
				Results: []ir.ValType{ir.ValI32},
				Body: []ir.Instr{
					{Op: ir.OpI32Const, Imm: [4]int64{1}},
					{Op: ir.OpI32Const, Imm: [4]int64{0}},
					{Op: ir.OpI32DivS},
				},
			},
		},
	}
	it, cerr := Instantiate(mod, nil, nil)
	require.Nil(t, cerr)
	_, trap := it.Run(0)
	require.NotNil(t, trap)
	require.Equal(t, trapkind.IntegerDivideByZero, trap.Kind)
}

func TestInterpreterCallIndirectNullTraps(t *testing.T) {
	mod := &ir.Module{
		TableMin: 1,
		Functions: []ir.Function{
			{
				Body: []ir.Instr{
					{Op: ir.OpI32Const, Imm: [4]int64{0}},
					{Op: ir.OpCallIndirect},
				},
			},
		},
	}
	it, cerr := Instantiate(mod, nil, nil)
	require.Nil(t, cerr)
	_, trap := it.Run(0)
	require.NotNil(t, trap)
	require.Equal(t, trapkind.NullIndirectCall, trap.Kind)
}

type fakeHostModule map[string]map[string]HostFunc

func (f fakeHostModule) modules() []HostModule {
	out := make([]HostModule, 0, len(f))
	for name, fns := range f {
		out = append(out, simpleHostModule{name: name, fns: fns})
	}
	return out
}

type simpleHostModule struct {
	name string
	fns  map[string]HostFunc
}

func (s simpleHostModule) Name() string                   { return s.name }
func (s simpleHostModule) Functions() map[string]HostFunc { return s.fns }
