// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package interp

import "github.com/luxfi/ligetron/internal/wasm/ir"

// FunctionInstance is one local function body, addressed by index
// into Store.Functions. call and call_indirect both index this
// table; imports are host intrinsics reached through the distinct
// OpHostCall opcode instead, whose Imm[0] Instantiate rewrites once
// to a direct index into the interpreter's flat host function table.
type FunctionInstance struct {
	Local *ir.Function
}

// TableInstance holds function references; -1 denotes null.
type TableInstance struct {
	Elems []int32
}

// MemoryInstance is linear memory, grown in 64KiB pages.
type MemoryInstance struct {
	Data []byte
}

const pageSize = 65536

func (m *MemoryInstance) Grow(pages int) (oldPages int32) {
	old := len(m.Data) / pageSize
	m.Data = append(m.Data, make([]byte, pages*pageSize)...)
	return int32(old)
}

func (m *MemoryInstance) SizePages() int32 { return int32(len(m.Data) / pageSize) }

// GlobalInstance holds one module-level global's current value.
type GlobalInstance struct {
	Value   Value
	Mutable bool
}

// Store owns every instance created for the run's lifetime.
type Store struct {
	Functions []FunctionInstance
	Tables    []TableInstance
	Memories  []MemoryInstance
	Globals   []GlobalInstance
}

// ModuleInstance holds the address tables (indices into the Store)
// for the one module this interpreter instantiates.
type ModuleInstance struct {
	FuncAddrs   []int // not populated by Instantiate; calls index Store.Functions directly
	TableAddr   int   // Instantiate always sets 0: one table of TableMin entries, possibly empty
	MemoryAddr  int   // Instantiate always sets 0: one memory of MemoryMin pages, possibly empty
	GlobalAddrs []int
}

func (m *ModuleInstance) HasTable() bool  { return m.TableAddr >= 0 }
func (m *ModuleInstance) HasMemory() bool { return m.MemoryAddr >= 0 }
