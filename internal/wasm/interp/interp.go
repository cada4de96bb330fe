// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package interp

import (
	"encoding/binary"
	"fmt"

	"go.uber.org/zap"

	"github.com/luxfi/ligetron/internal/trapkind"
	"github.com/luxfi/ligetron/internal/wasm/ir"
)

// outcome is the in-tree fragment of the execution-result variant
// (normal, return, jump) threaded through execBody's return values.
// Exit and trap are instead carried by panic/recover, since both
// unwind across all frames up to the outermost exactly like a Go
// panic does; see exitSignal and trapkind.Trap's use via panic below.
type outcome uint8

const (
	outcomeNormal outcome = iota
	outcomeReturn
	outcomeJump
)

type execResult struct {
	kind         outcome
	jumpDistance int
}

// exitSignal is the panic payload RequestExit raises; Run's recover
// turns it into a returned exit code instead of a trap.
type exitSignal struct{ code int32 }

// RequestExit serves proc_exit: it unwinds every active frame
// immediately, the same way a trap does, but is not an error; Run
// reports it as a normal exit code.
func (it *Interpreter) RequestExit(code int32) {
	panic(exitSignal{code: code})
}

var resultNormal = execResult{kind: outcomeNormal}

// Interpreter executes one instantiated module's structured
// instruction tree over a typed value stack. Single-threaded
// cooperative: no opcode ever yields, and the only blocking
// operations are in internal/gpu's buffer map/synchronize calls made
// by a host module's implementation.
type Interpreter struct {
	Stack  Stack
	Store  *Store
	Module *ModuleInstance

	hostFuncs []HostFunc
	hostNames []string // "module.name", parallel to hostFuncs, for diagnostics

	logger *zap.Logger
}

// Instantiate builds a Store and ModuleInstance for mod, registers
// the given host modules into a flat dispatch table, and resolves
// every OpHostCall in every function body to a direct index into that
// table, done once here rather than per call.
func Instantiate(mod *ir.Module, hostModules []HostModule, logger *zap.Logger) (*Interpreter, *trapkind.ConfigError) {
	if logger == nil {
		logger = zap.NewNop()
	}
	it := &Interpreter{logger: logger}

	byName := make(map[string]int)
	for _, hm := range hostModules {
		for name, fn := range hm.Functions() {
			key := hm.Name() + "." + name
			byName[key] = len(it.hostFuncs)
			it.hostFuncs = append(it.hostFuncs, fn)
			it.hostNames = append(it.hostNames, key)
		}
	}

	for _, imp := range mod.Imports {
		key := imp.Module + "." + imp.Name
		if _, ok := byName[key]; !ok {
			return nil, trapkind.NewConfigError("unresolved host import %s", key)
		}
	}

	store := &Store{
		Functions: make([]FunctionInstance, len(mod.Functions)),
		Tables:    []TableInstance{{Elems: newNullTable(mod.TableMin)}},
		Memories:  []MemoryInstance{{Data: make([]byte, mod.MemoryMin*pageSize)}},
		Globals:   make([]GlobalInstance, len(mod.Globals)),
	}
	for i := range mod.Functions {
		fn := mod.Functions[i]
		store.Functions[i] = FunctionInstance{Local: &fn}
		if err := resolveHostCalls(fn.Body, byName); err != nil {
			return nil, err
		}
	}
	for i, g := range mod.Globals {
		var v Value
		switch g.Type {
		case ir.ValI64:
			v = I64Value(g.Init)
		default:
			v = I32Value(int32(g.Init))
		}
		store.Globals[i] = GlobalInstance{Value: v, Mutable: g.Mutable}
	}

	moduleInst := &ModuleInstance{
		TableAddr:  0,
		MemoryAddr: 0,
	}
	moduleInst.GlobalAddrs = make([]int, len(mod.Globals))
	for i := range moduleInst.GlobalAddrs {
		moduleInst.GlobalAddrs[i] = i
	}

	it.Store = store
	it.Module = moduleInst
	return it, nil
}

func newNullTable(n int) []int32 {
	t := make([]int32, n)
	for i := range t {
		t[i] = -1
	}
	return t
}

func resolveHostCalls(body []ir.Instr, byName map[string]int) *trapkind.ConfigError {
	for i := range body {
		in := &body[i]
		if in.Op == ir.OpHostCall {
			key := in.HostModule + "." + in.HostName
			idx, ok := byName[key]
			if !ok {
				return trapkind.NewConfigError("unresolved host call %s", key)
			}
			in.Imm[0] = int64(idx)
		}
		if err := resolveHostCalls(in.Body, byName); err != nil {
			return err
		}
		if err := resolveHostCalls(in.Else, byName); err != nil {
			return err
		}
	}
	return nil
}

// Memory returns the module's linear memory. Instantiate always
// creates one (MemoryMin pages, possibly zero-length), so this
// returns nil only for a ModuleInstance whose MemoryAddr is -1.
func (it *Interpreter) Memory() *MemoryInstance {
	if !it.Module.HasMemory() {
		return nil
	}
	return &it.Store.Memories[it.Module.MemoryAddr]
}

// Run calls the entrypoint function (conventionally _start) by local
// index. A returned *trapkind.Trap means
// the run aborted fatally; a returned int32 is the process exit code
// a wasi proc_exit call requested (0 if the function simply fell off
// the end or returned normally).
func (it *Interpreter) Run(entryFuncIdx int) (exitCode int32, trap *trapkind.Trap) {
	defer func() {
		if r := recover(); r != nil {
			if t, ok := r.(*trapkind.Trap); ok {
				trap = t
				return
			}
			if e, ok := r.(exitSignal); ok {
				exitCode = e.code
				return
			}
			trap = trapkind.NewTrap(trapkind.Unreachable, fmt.Sprintf("%v", r))
		}
	}()
	it.call(entryFuncIdx)
	return 0, nil
}

// call pops the argument arity, constructs a frame with locals
// (params followed by zero-initialised declared locals), runs the
// callee body, and unwinds to the frame boundary on return.
func (it *Interpreter) call(funcIdx int) execResult {
	fn := it.Store.Functions[funcIdx].Local
	locals := make([]Value, len(fn.Params)+len(fn.Locals))
	for i := len(fn.Params) - 1; i >= 0; i-- {
		locals[i] = it.Stack.PopValue()
	}
	for i, t := range fn.Locals {
		locals[len(fn.Params)+i] = zeroValue(t)
	}
	frame := &Frame{Arity: len(fn.Results), Locals: locals, Module: it.Module}
	it.Stack.PushFrame(frame)

	res := it.execBody(fn.Body, frame)
	switch res.kind {
	case outcomeJump:
		panic(trapkind.NewTrap(trapkind.Unreachable, "branch escaped its enclosing function"))
	default:
		// Normal fallthrough or an already-resolved `ret` (Return()
		// already dropped the frame and aligned the arity values in
		// place); either way the frame boundary still needs popping
		// unless ret already did it.
		if res.kind == outcomeNormal {
			it.Stack.PopCallFrame(frame.Arity)
		}
		return resultNormal
	}
}

func zeroValue(t ir.ValType) Value {
	switch t {
	case ir.ValI64:
		return I64Value(0)
	case ir.ValFuncRef:
		return RefValue(-1)
	default:
		return I32Value(0)
	}
}

// execBody runs a sequence of instructions in order, stopping early
// on any non-normal outcome (return/exit/jump).
func (it *Interpreter) execBody(body []ir.Instr, frame *Frame) execResult {
	for i := range body {
		res := it.execInstr(&body[i], frame)
		if res.kind != outcomeNormal {
			return res
		}
	}
	return resultNormal
}

func (it *Interpreter) execInstr(in *ir.Instr, frame *Frame) execResult {
	switch in.Op {
	case ir.OpUnreachable:
		panic(trapkind.NewTrap(trapkind.Unreachable, "unreachable instruction executed"))
	case ir.OpNop:
		return resultNormal
	case ir.OpDrop:
		it.Stack.PopValue()
		return resultNormal
	case ir.OpSelect:
		cond := it.Stack.PopValue().I32
		b := it.Stack.PopValue()
		a := it.Stack.PopValue()
		if cond != 0 {
			it.Stack.PushValue(a)
		} else {
			it.Stack.PushValue(b)
		}
		return resultNormal

	case ir.OpI32Const:
		it.Stack.PushValue(I32Value(int32(in.Imm[0])))
		return resultNormal
	case ir.OpI64Const:
		it.Stack.PushValue(I64Value(in.Imm[0]))
		return resultNormal

	case ir.OpLocalGet:
		it.Stack.PushValue(frame.Locals[in.Imm[0]])
		return resultNormal
	case ir.OpLocalSet:
		frame.Locals[in.Imm[0]] = it.Stack.PopValue()
		return resultNormal
	case ir.OpLocalTee:
		frame.Locals[in.Imm[0]] = it.Stack.PeekValue()
		return resultNormal
	case ir.OpGlobalGet:
		it.Stack.PushValue(it.Store.Globals[it.Module.GlobalAddrs[in.Imm[0]]].Value)
		return resultNormal
	case ir.OpGlobalSet:
		addr := it.Module.GlobalAddrs[in.Imm[0]]
		it.Store.Globals[addr].Value = it.Stack.PopValue()
		return resultNormal

	case ir.OpI32Load, ir.OpI64Load, ir.OpI32Store, ir.OpI64Store:
		return it.execMemOp(in)
	case ir.OpMemorySize:
		it.Stack.PushValue(I32Value(it.Memory().SizePages()))
		return resultNormal
	case ir.OpMemoryGrow:
		n := it.Stack.PopValue().I32
		it.Stack.PushValue(I32Value(it.Memory().Grow(int(n))))
		return resultNormal

	case ir.OpBlock:
		return it.execScoped(in, frame, false)
	case ir.OpLoop:
		return it.execLoop(in, frame)
	case ir.OpIf:
		return it.execIf(in, frame)
	case ir.OpBr:
		it.Stack.Branch(int(in.Imm[0]))
		return execResult{kind: outcomeJump, jumpDistance: int(in.Imm[0])}
	case ir.OpBrIf:
		cond := it.Stack.PopValue().I32
		if cond == 0 {
			return resultNormal
		}
		it.Stack.Branch(int(in.Imm[0]))
		return execResult{kind: outcomeJump, jumpDistance: int(in.Imm[0])}
	case ir.OpBrTable:
		idx := it.Stack.PopValue().I32
		target := in.Imm[0] // default, per codec's encoding (Targets holds the branch table, Imm[0] the default)
		if int(idx) >= 0 && int(idx) < len(in.Targets) {
			target = in.Targets[idx]
		}
		it.Stack.Branch(int(target))
		return execResult{kind: outcomeJump, jumpDistance: int(target)}
	case ir.OpReturn:
		it.Stack.Return()
		return execResult{kind: outcomeReturn}

	case ir.OpCall:
		return it.call(int(in.Imm[0]))
	case ir.OpCallIndirect:
		return it.execCallIndirect(in)
	case ir.OpHostCall:
		idx := in.Imm[0]
		if trap := it.hostFuncs[idx](it); trap != nil {
			it.logger.Debug("host call trapped",
				zap.String("fn", it.hostNames[idx]),
				zap.String("trap", trap.Error()))
			panic(trap)
		}
		return resultNormal

	case ir.OpFloatPlaceholder:
		panic(trapkind.NewTrap(trapkind.UnsupportedOpcode, "floating point opcodes are not interpreted"))

	default:
		return it.execArith(in)
	}
}

func (it *Interpreter) execScoped(in *ir.Instr, frame *Frame, isLoop bool) execResult {
	label := blockTypeLabel(in.Type, isLoop)
	it.Stack.PushLabel(label)
	res := it.execBody(in.Body, frame)
	return it.unwindScoped(res)
}

// execLoop re-enters the loop body whenever a branch targets it at
// distance zero; any other scoped block exits normally instead.
func (it *Interpreter) execLoop(in *ir.Instr, frame *Frame) execResult {
	label := blockTypeLabel(in.Type, true)
	it.Stack.PushLabel(label)
	for {
		res := it.execBody(in.Body, frame)
		if res.kind == outcomeJump && res.jumpDistance == 0 {
			continue // Branch() already re-pushed the label and param values
		}
		return it.unwindScoped(res)
	}
}

func (it *Interpreter) execIf(in *ir.Instr, frame *Frame) execResult {
	cond := it.Stack.PopValue().I32
	label := blockTypeLabel(in.Type, false)
	it.Stack.PushLabel(label)
	var res execResult
	if cond != 0 {
		res = it.execBody(in.Body, frame)
	} else {
		res = it.execBody(in.Else, frame)
	}
	return it.unwindScoped(res)
}

// unwindScoped handles a scoped construct's child-body outcome: a
// normal fallthrough exits the label; a jump at distance zero targets
// this construct and is resolved the same way (Branch() already did
// the stack surgery); any other outcome (deeper jump, return, exit)
// passes through, decrementing a jump's distance by one level.
func (it *Interpreter) unwindScoped(res execResult) execResult {
	switch res.kind {
	case outcomeNormal:
		it.Stack.ExitLabel()
		return resultNormal
	case outcomeJump:
		if res.jumpDistance == 0 {
			return resultNormal
		}
		return execResult{kind: outcomeJump, jumpDistance: res.jumpDistance - 1}
	default:
		return res
	}
}

func (it *Interpreter) execCallIndirect(in *ir.Instr) execResult {
	idx := it.Stack.PopValue().I32
	table := &it.Store.Tables[it.Module.TableAddr]
	if idx < 0 || int(idx) >= len(table.Elems) {
		panic(trapkind.NewTrap(trapkind.OutOfBoundsTable, "call_indirect index out of bounds"))
	}
	funcIdx := table.Elems[idx]
	if funcIdx < 0 {
		panic(trapkind.NewTrap(trapkind.NullIndirectCall, "call_indirect through null reference"))
	}
	return it.call(int(funcIdx))
}

func (it *Interpreter) execMemOp(in *ir.Instr) execResult {
	mem := it.Memory()
	offset := in.Imm[0]
	switch in.Op {
	case ir.OpI32Load:
		addr := it.Stack.PopValue().I32
		v := it.loadBounds(mem, addr, offset, 4)
		it.Stack.PushValue(I32Value(int32(binary.LittleEndian.Uint32(v))))
	case ir.OpI64Load:
		addr := it.Stack.PopValue().I32
		v := it.loadBounds(mem, addr, offset, 8)
		it.Stack.PushValue(I64Value(int64(binary.LittleEndian.Uint64(v))))
	case ir.OpI32Store:
		val := it.Stack.PopValue().I32
		addr := it.Stack.PopValue().I32
		v := it.loadBounds(mem, addr, offset, 4)
		binary.LittleEndian.PutUint32(v, uint32(val))
	case ir.OpI64Store:
		val := it.Stack.PopValue().I64
		addr := it.Stack.PopValue().I32
		v := it.loadBounds(mem, addr, offset, 8)
		binary.LittleEndian.PutUint64(v, uint64(val))
	}
	return resultNormal
}

func (it *Interpreter) loadBounds(mem *MemoryInstance, addr int32, offset int64, n int) []byte {
	start := int64(addr) + offset
	if start < 0 || start+int64(n) > int64(len(mem.Data)) {
		panic(trapkind.NewTrap(trapkind.OutOfBoundsMemory, "memory access out of bounds"))
	}
	return mem.Data[start : start+int64(n)]
}
