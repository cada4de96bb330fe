// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package ir

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeRoundtrip(t *testing.T) {
	m := &Module{
		Imports: []Import{
			{Module: "env", Name: "assert_one", Func: Function{Params: []ValType{ValI32}}},
		},
		Functions: []Function{
			{
				Params:  []ValType{ValI32, ValI32},
				Results: []ValType{ValI32},
				Locals:  []ValType{ValI64},
				Body: []Instr{
					{Op: OpLocalGet, Imm: [4]int64{0}},
					{Op: OpLocalGet, Imm: [4]int64{1}},
					{Op: OpI32Add},
					{
						Op:   OpIf,
						Type: BlockType{Params: 0, Results: 1},
						Body: []Instr{{Op: OpI32Const, Imm: [4]int64{1}}},
						Else: []Instr{{Op: OpI32Const, Imm: [4]int64{0}}},
					},
					{Op: OpBrTable, Targets: []int64{0, 1, 2}, Imm: [4]int64{3}},
					{Op: OpHostCall, HostModule: "env", HostName: "assert_one"},
					{Op: OpReturn},
				},
			},
		},
		MemoryMin: 1,
		TableMin:  0,
		Globals:   []GlobalDecl{{Type: ValI32, Mutable: true, Init: 42}},
		Start:     1,
	}

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, m))

	back, err := Decode(&buf)
	require.NoError(t, err)

	require.Equal(t, m.Imports, back.Imports)
	require.Equal(t, m.MemoryMin, back.MemoryMin)
	require.Equal(t, m.Globals, back.Globals)
	require.Equal(t, m.Start, back.Start)
	require.Len(t, back.Functions, 1)
	require.Equal(t, m.Functions[0].Params, back.Functions[0].Params)
	require.Equal(t, m.Functions[0].Locals, back.Functions[0].Locals)
	require.Len(t, back.Functions[0].Body, 7)
	require.Equal(t, OpIf, back.Functions[0].Body[3].Op)
	require.Equal(t, 1, back.Functions[0].Body[3].Type.Results)
	require.Equal(t, []int64{0, 1, 2}, back.Functions[0].Body[4].Targets)
	require.Equal(t, "assert_one", back.Functions[0].Body[5].HostName)
}

func TestDecodeRejectsTruncatedStream(t *testing.T) {
	_, err := Decode(bytes.NewReader([]byte{0x01}))
	require.Error(t, err)
}
