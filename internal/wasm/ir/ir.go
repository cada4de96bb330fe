// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package ir is the structured instruction tree the interpreter
// executes: a tagged tree of block, loop, if/else, br, br_if,
// br_table, call, call_indirect and ret nodes, carrying inner blocks
// and up to four 64-bit immediates per opcode. Decoding an actual
// .wasm binary is a third-party concern; this package instead
// defines the tree directly (constructible in Go, or read back from
// the minimal self-describing encoding in codec.go) and keeps only
// the integer/control/memory/host-call opcode subset the trace
// needs. Floating point opcodes decode but trap if ever executed.
package ir

// Opcode identifies the operation an Instr performs. Kept to the
// integer/control/memory/host-call subset the trace needs.
type Opcode uint8

const (
	OpUnreachable Opcode = iota
	OpNop
	OpDrop
	OpSelect

	OpI32Const
	OpI64Const

	OpLocalGet
	OpLocalSet
	OpLocalTee
	OpGlobalGet
	OpGlobalSet

	OpI32Load
	OpI64Load
	OpI32Store
	OpI64Store
	OpMemorySize
	OpMemoryGrow

	OpI32Add
	OpI32Sub
	OpI32Mul
	OpI32DivU
	OpI32DivS
	OpI32RemU
	OpI32RemS
	OpI32And
	OpI32Or
	OpI32Xor
	OpI32Shl
	OpI32ShrU
	OpI32ShrS
	OpI32Eqz
	OpI32Eq
	OpI32Ne
	OpI32LtU
	OpI32LtS
	OpI32GtU
	OpI32GtS
	OpI32LeU
	OpI32LeS
	OpI32GeU
	OpI32GeS

	OpI64Add
	OpI64Sub
	OpI64Mul
	OpI64DivU
	OpI64DivS
	OpI64RemU
	OpI64RemS
	OpI64And
	OpI64Or
	OpI64Xor
	OpI64Shl
	OpI64ShrU
	OpI64ShrS
	OpI64Eqz
	OpI64Eq
	OpI64Ne
	OpI64LtU
	OpI64LtS
	OpI64GtU
	OpI64GtS
	OpI64LeU
	OpI64LeS
	OpI64GeU
	OpI64GeS

	OpI32WrapI64
	OpI64ExtendI32U
	OpI64ExtendI32S

	// FloatPlaceholder marks every floating-point opcode the decoder
	// recognizes structurally (so a binary stream can skip past them)
	// but never evaluates.
	OpFloatPlaceholder

	// Control-flow nodes. Block, Loop and If carry a nested Body (and,
	// for If, an Else); Br/BrIf/BrTable carry label distances in Imm.
	OpBlock
	OpLoop
	OpIf
	OpBr
	OpBrIf
	OpBrTable
	OpCall
	OpCallIndirect
	OpReturn

	// OpHostCall is resolved at module-instantiate time to a direct
	// index into the module instance's host function table; Imm[0]
	// holds that resolved index.
	OpHostCall
)

// BlockType is the parametric signature a scoped block carries: the
// number of values it consumes (Params) and produces (Results), used
// by label arity bookkeeping.
type BlockType struct {
	Params  int
	Results int
}

// Instr is one node of the structured instruction tree. Up to four
// 64-bit immediates (Imm) cover every opcode's literal/offset/label
// operands; Body and Else hold nested instruction sequences for
// block/loop/if; BrTable's branch targets live in Targets with Imm[0]
// as the default label distance.
type Instr struct {
	Op      Opcode
	Imm     [4]int64
	Type    BlockType
	Body    []Instr
	Else    []Instr
	Targets []int64

	// HostModule/HostName are resolved to Imm[0] (a direct host-table
	// index) at instantiate time; kept here only until that resolution
	// runs, per the interpreter's load phase.
	HostModule string
	HostName   string
}

// Function is one function body: a parameter/local layout and its
// instruction tree.
type Function struct {
	Params  []ValType
	Results []ValType
	Locals  []ValType // additional locals beyond params, zero-initialised
	Body    []Instr
}

// ValType is a WASM value type, restricted to the integer subset this
// repo interprets (plus the float tags needed to size a stack slot
// without evaluating them).
type ValType uint8

const (
	ValI32 ValType = iota
	ValI64
	ValF32
	ValF64
	ValFuncRef
)

// Import describes a module-level import: a function imported from a
// host module (module/name), resolved against the interpreter's
// registered host modules at instantiate time.
type Import struct {
	Module string
	Name   string
	Func   Function // signature only; Body is empty for imports
}

// Module is a complete structured program: its own functions, its
// imports (host calls), table/memory/global declarations, and the
// start function index.
type Module struct {
	Imports   []Import
	Functions []Function // local function bodies; call, table entries and Start index this slice directly
	MemoryMin int        // initial linear memory size, in 64KiB pages
	TableMin  int        // initial table size, in elements
	Globals   []GlobalDecl
	Start     int // index into Functions of the entry function
}

// GlobalDecl is a module-level global's type and initial value.
type GlobalDecl struct {
	Type    ValType
	Mutable bool
	Init    int64
}
