// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package interp implements the WASM interpreter: structured-control
// execution over a single heterogeneous value stack, with
// locals/globals/memory/tables held in a store. Stack entries are
// tagged variants with explicit accessors; there are no hidden
// coercions between numeric widths.
package interp

import (
	"github.com/luxfi/ligetron/internal/field"
	"github.com/luxfi/ligetron/internal/wasm/ir"
	"github.com/luxfi/ligetron/internal/witness"
)

// ValueKind tags a Value's active field. Floating point kinds carry
// raw bits only and are never evaluated arithmetically; the trace
// only needs the integer/memory subset.
type ValueKind uint8

const (
	KindI32 ValueKind = iota
	KindI64
	KindF32
	KindF64
	KindRef     // nullable function/table reference; -1 is null
	KindWitness // a managed witness value
	KindBits    // a decomposed-bits vector (BitDecompose result)
)

// Value is one tagged entry of the value stack's native-numeric /
// reference / managed-witness / decomposed-bits family. Exactly one
// field is meaningful, selected by Kind.
type Value struct {
	Kind    ValueKind
	I32     int32
	I64     int64
	F32Bits uint32
	F64Bits uint64
	Ref     int32
	Witness witness.Handle
	Bits    []field.Fp
}

func I32Value(v int32) Value { return Value{Kind: KindI32, I32: v} }
func I64Value(v int64) Value { return Value{Kind: KindI64, I64: v} }
func RefValue(v int32) Value { return Value{Kind: KindRef, Ref: v} }
func WitnessValue(h witness.Handle) Value {
	return Value{Kind: KindWitness, Witness: h}
}
func BitsValue(bits []field.Fp) Value { return Value{Kind: KindBits, Bits: bits} }

// Bool32 renders a boolean comparison result as the i32 0/1 WASM
// convention.
func Bool32(b bool) Value {
	if b {
		return I32Value(1)
	}
	return I32Value(0)
}

// entryTag distinguishes the value stack's three entry families:
// Value (numeric/ref/witness/bits) plus the two scope-delimiter
// tags, label and frame.
type entryTag uint8

const (
	tagValue entryTag = iota
	tagLabel
	tagFrame
)

// Label is a scope delimiter pushed by a block/loop/if construct.
// Arity is the number of values the construct is exited (block/if)
// or re-entered (loop) with; on normal exit the label and any excess
// values are dropped and the declared arity is preserved.
type Label struct {
	Arity int
	Loop  bool
}

// Frame is a call's owned activation record: its declared return
// arity, its locals (params followed by zero-initialised declared
// locals), and a back-pointer to its defining module instance.
type Frame struct {
	Arity  int
	Locals []Value
	Module *ModuleInstance
}

type entry struct {
	tag   entryTag
	value Value
	label *Label
	frame *Frame
}

// Stack is the interpreter's single LIFO value stack: a sequence of
// tagged entries where frames and labels delimit scopes.
type Stack struct {
	entries []entry
}

func (s *Stack) Len() int { return len(s.entries) }

func (s *Stack) PushValue(v Value) {
	s.entries = append(s.entries, entry{tag: tagValue, value: v})
}

// PopValue pops the top entry, which must be a value. A type
// mismatch here is a programming error in the interpreter or a
// malformed instruction tree, not a guest-recoverable trap.
func (s *Stack) PopValue() Value {
	n := len(s.entries)
	e := s.entries[n-1]
	if e.tag != tagValue {
		panic("interp: expected value on top of stack")
	}
	s.entries = s.entries[:n-1]
	return e.value
}

// PeekValue returns the top value without popping it.
func (s *Stack) PeekValue() Value {
	e := s.entries[len(s.entries)-1]
	if e.tag != tagValue {
		panic("interp: expected value on top of stack")
	}
	return e.value
}

func (s *Stack) PushLabel(l *Label) {
	s.entries = append(s.entries, entry{tag: tagLabel, label: l})
}

func (s *Stack) PushFrame(f *Frame) {
	s.entries = append(s.entries, entry{tag: tagFrame, frame: f})
}

// CurrentFrame returns the nearest enclosing frame, searching from
// the top of the stack, used to resolve local/global accesses.
func (s *Stack) CurrentFrame() *Frame {
	for i := len(s.entries) - 1; i >= 0; i-- {
		if s.entries[i].tag == tagFrame {
			return s.entries[i].frame
		}
	}
	panic("interp: no active frame")
}

// collectTopValues gathers up to n Value-tagged entries found above
// position pos (exclusive), scanning from the top down and skipping
// any non-value entries it passes over, then returns them in their
// original bottom-to-top order. The preserved payload is always the
// arity topmost *values*, irrespective of any abandoned nested
// labels interleaved above the target.
func collectTopValues(entries []entry, pos, n int) []Value {
	values := make([]Value, 0, n)
	for i := len(entries) - 1; i > pos && len(values) < n; i-- {
		if entries[i].tag == tagValue {
			values = append(values, entries[i].value)
		}
	}
	for i, j := 0, len(values)-1; i < j; i, j = i+1, j-1 {
		values[i], values[j] = values[j], values[i]
	}
	return values
}

// ExitLabel implements a scoped block/if/loop's normal (fallthrough)
// exit: the label nearest the top of the stack is dropped along with
// any values above it, preserving exactly its arity topmost values.
func (s *Stack) ExitLabel() {
	pos := -1
	for i := len(s.entries) - 1; i >= 0; i-- {
		if s.entries[i].tag == tagLabel {
			pos = i
			break
		}
	}
	if pos < 0 {
		panic("interp: no active label to exit")
	}
	label := s.entries[pos].label
	values := collectTopValues(s.entries, pos, label.Arity)
	s.entries = s.entries[:pos]
	for _, v := range values {
		s.PushValue(v)
	}
}

// Branch implements br(l): search the stack for the (l+1)-th label
// counting from the top, drop everything above it
// except its arity topmost values, and report whether the target is
// a loop (re-enter, keeping the label) or any other block (exit,
// dropping the label too).
func (s *Stack) Branch(l int) *Label {
	labelsSeen := 0
	pos := -1
	var target *Label
	for i := len(s.entries) - 1; i >= 0; i-- {
		if s.entries[i].tag == tagLabel {
			labelsSeen++
			if labelsSeen == l+1 {
				pos = i
				target = s.entries[i].label
				break
			}
		}
	}
	if pos < 0 {
		panic("interp: branch to unknown label depth")
	}
	values := collectTopValues(s.entries, pos, target.Arity)
	if target.Loop {
		s.entries = s.entries[:pos+1] // keep the label itself; re-enter
	} else {
		s.entries = s.entries[:pos] // drop the label too; exit
	}
	for _, v := range values {
		s.PushValue(v)
	}
	return target
}

// Return implements the ret opcode: drop everything up to and
// including the nearest frame, preserving exactly its arity topmost
// values.
func (s *Stack) Return() {
	pos := -1
	var frame *Frame
	for i := len(s.entries) - 1; i >= 0; i-- {
		if s.entries[i].tag == tagFrame {
			pos = i
			frame = s.entries[i].frame
			break
		}
	}
	if pos < 0 {
		panic("interp: return with no active frame")
	}
	values := collectTopValues(s.entries, pos, frame.Arity)
	s.entries = s.entries[:pos]
	for _, v := range values {
		s.PushValue(v)
	}
}

// PopCallFrame drops the frame most recently pushed by Call, along
// with the callee's own leftover stack contents, preserving exactly
// arity topmost values. Used once a callee body has fallen through
// its end; a ret has already dropped the frame via Return.
func (s *Stack) PopCallFrame(arity int) {
	pos := len(s.entries) - 1
	for pos >= 0 && s.entries[pos].tag != tagFrame {
		pos--
	}
	if pos < 0 {
		panic("interp: no call frame to pop")
	}
	values := collectTopValues(s.entries, pos, arity)
	s.entries = s.entries[:pos]
	for _, v := range values {
		s.PushValue(v)
	}
}

// blockTypeLabel builds the Label for a scoped_block/if_then_else
// (arity = Results, exits forward) or a loop (arity = Params,
// re-enters at the top).
func blockTypeLabel(bt ir.BlockType, isLoop bool) *Label {
	if isLoop {
		return &Label{Arity: bt.Params, Loop: true}
	}
	return &Label{Arity: bt.Results}
}
