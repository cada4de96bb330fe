// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package ir

import (
	"encoding/binary"
	"fmt"
	"io"
)

// Encode writes a Module to a minimal self-describing binary format:
// every Instr is (opcode byte, 4 little-endian varint immediates,
// nested Body/Else length-prefixed). This is not the WASM binary
// format; it exists so fixture programs can be serialized once and
// loaded by path like any other program file.
func Encode(w io.Writer, m *Module) error {
	if err := writeUvarint(w, uint64(len(m.Imports))); err != nil {
		return err
	}
	for _, imp := range m.Imports {
		if err := writeString(w, imp.Module); err != nil {
			return err
		}
		if err := writeString(w, imp.Name); err != nil {
			return err
		}
		if err := encodeFunction(w, imp.Func); err != nil {
			return err
		}
	}
	if err := writeUvarint(w, uint64(len(m.Functions))); err != nil {
		return err
	}
	for _, fn := range m.Functions {
		if err := encodeFunction(w, fn); err != nil {
			return err
		}
	}
	if err := writeUvarint(w, uint64(m.MemoryMin)); err != nil {
		return err
	}
	if err := writeUvarint(w, uint64(m.TableMin)); err != nil {
		return err
	}
	if err := writeUvarint(w, uint64(len(m.Globals))); err != nil {
		return err
	}
	for _, g := range m.Globals {
		if err := writeByte(w, byte(g.Type)); err != nil {
			return err
		}
		mut := byte(0)
		if g.Mutable {
			mut = 1
		}
		if err := writeByte(w, mut); err != nil {
			return err
		}
		if err := writeVarint(w, g.Init); err != nil {
			return err
		}
	}
	return writeVarint(w, int64(m.Start))
}

func encodeFunction(w io.Writer, fn Function) error {
	if err := writeTypes(w, fn.Params); err != nil {
		return err
	}
	if err := writeTypes(w, fn.Results); err != nil {
		return err
	}
	if err := writeTypes(w, fn.Locals); err != nil {
		return err
	}
	return encodeBody(w, fn.Body)
}

func writeTypes(w io.Writer, types []ValType) error {
	if err := writeUvarint(w, uint64(len(types))); err != nil {
		return err
	}
	for _, t := range types {
		if err := writeByte(w, byte(t)); err != nil {
			return err
		}
	}
	return nil
}

func encodeBody(w io.Writer, body []Instr) error {
	if err := writeUvarint(w, uint64(len(body))); err != nil {
		return err
	}
	for _, in := range body {
		if err := encodeInstr(w, in); err != nil {
			return err
		}
	}
	return nil
}

func encodeInstr(w io.Writer, in Instr) error {
	if err := writeByte(w, byte(in.Op)); err != nil {
		return err
	}
	for _, imm := range in.Imm {
		if err := writeVarint(w, imm); err != nil {
			return err
		}
	}
	if err := writeVarint(w, int64(in.Type.Params)); err != nil {
		return err
	}
	if err := writeVarint(w, int64(in.Type.Results)); err != nil {
		return err
	}
	if err := writeString(w, in.HostModule); err != nil {
		return err
	}
	if err := writeString(w, in.HostName); err != nil {
		return err
	}
	if err := encodeBody(w, in.Body); err != nil {
		return err
	}
	if err := encodeBody(w, in.Else); err != nil {
		return err
	}
	if err := writeUvarint(w, uint64(len(in.Targets))); err != nil {
		return err
	}
	for _, tgt := range in.Targets {
		if err := writeVarint(w, tgt); err != nil {
			return err
		}
	}
	return nil
}

// Decode reads a Module back from the Encode format.
func Decode(r io.Reader) (*Module, error) {
	br := &byteReader{r: r}
	m := &Module{}

	importCount, err := readUvarint(br)
	if err != nil {
		return nil, err
	}
	m.Imports = make([]Import, importCount)
	for i := range m.Imports {
		mod, err := readString(br)
		if err != nil {
			return nil, err
		}
		name, err := readString(br)
		if err != nil {
			return nil, err
		}
		fn, err := decodeFunction(br)
		if err != nil {
			return nil, err
		}
		m.Imports[i] = Import{Module: mod, Name: name, Func: fn}
	}

	fnCount, err := readUvarint(br)
	if err != nil {
		return nil, err
	}
	m.Functions = make([]Function, fnCount)
	for i := range m.Functions {
		fn, err := decodeFunction(br)
		if err != nil {
			return nil, err
		}
		m.Functions[i] = fn
	}

	memMin, err := readUvarint(br)
	if err != nil {
		return nil, err
	}
	m.MemoryMin = int(memMin)

	tblMin, err := readUvarint(br)
	if err != nil {
		return nil, err
	}
	m.TableMin = int(tblMin)

	globalCount, err := readUvarint(br)
	if err != nil {
		return nil, err
	}
	m.Globals = make([]GlobalDecl, globalCount)
	for i := range m.Globals {
		typ, err := readByte(br)
		if err != nil {
			return nil, err
		}
		mut, err := readByte(br)
		if err != nil {
			return nil, err
		}
		init, err := readVarint(br)
		if err != nil {
			return nil, err
		}
		m.Globals[i] = GlobalDecl{Type: ValType(typ), Mutable: mut != 0, Init: init}
	}

	start, err := readVarint(br)
	if err != nil {
		return nil, err
	}
	m.Start = int(start)
	return m, nil
}

func decodeFunction(br *byteReader) (Function, error) {
	var fn Function
	var err error
	if fn.Params, err = readTypes(br); err != nil {
		return fn, err
	}
	if fn.Results, err = readTypes(br); err != nil {
		return fn, err
	}
	if fn.Locals, err = readTypes(br); err != nil {
		return fn, err
	}
	if fn.Body, err = decodeBody(br); err != nil {
		return fn, err
	}
	return fn, nil
}

func readTypes(br *byteReader) ([]ValType, error) {
	n, err := readUvarint(br)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, nil // keep nil/empty parity with what Encode saw
	}
	out := make([]ValType, n)
	for i := range out {
		b, err := readByte(br)
		if err != nil {
			return nil, err
		}
		out[i] = ValType(b)
	}
	return out, nil
}

func decodeBody(br *byteReader) ([]Instr, error) {
	n, err := readUvarint(br)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, nil
	}
	out := make([]Instr, n)
	for i := range out {
		in, err := decodeInstr(br)
		if err != nil {
			return nil, err
		}
		out[i] = in
	}
	return out, nil
}

func decodeInstr(br *byteReader) (Instr, error) {
	var in Instr
	op, err := readByte(br)
	if err != nil {
		return in, err
	}
	in.Op = Opcode(op)
	for i := range in.Imm {
		v, err := readVarint(br)
		if err != nil {
			return in, err
		}
		in.Imm[i] = v
	}
	params, err := readVarint(br)
	if err != nil {
		return in, err
	}
	results, err := readVarint(br)
	if err != nil {
		return in, err
	}
	in.Type = BlockType{Params: int(params), Results: int(results)}
	if in.HostModule, err = readString(br); err != nil {
		return in, err
	}
	if in.HostName, err = readString(br); err != nil {
		return in, err
	}
	if in.Body, err = decodeBody(br); err != nil {
		return in, err
	}
	if in.Else, err = decodeBody(br); err != nil {
		return in, err
	}
	targetCount, err := readUvarint(br)
	if err != nil {
		return in, err
	}
	if targetCount > 0 {
		in.Targets = make([]int64, targetCount)
		for i := range in.Targets {
			if in.Targets[i], err = readVarint(br); err != nil {
				return in, err
			}
		}
	}
	return in, nil
}

type byteReader struct{ r io.Reader }

func (b *byteReader) ReadByte() (byte, error) {
	var buf [1]byte
	if _, err := io.ReadFull(b.r, buf[:]); err != nil {
		return 0, err
	}
	return buf[0], nil
}

func writeByte(w io.Writer, b byte) error {
	_, err := w.Write([]byte{b})
	return err
}

func readByte(br *byteReader) (byte, error) { return br.ReadByte() }

func writeUvarint(w io.Writer, v uint64) error {
	var buf [binary.MaxVarintLen64]byte
	n := binary.PutUvarint(buf[:], v)
	_, err := w.Write(buf[:n])
	return err
}

func readUvarint(br *byteReader) (uint64, error) {
	return binary.ReadUvarint(br)
}

func writeVarint(w io.Writer, v int64) error {
	var buf [binary.MaxVarintLen64]byte
	n := binary.PutVarint(buf[:], v)
	_, err := w.Write(buf[:n])
	return err
}

func readVarint(br *byteReader) (int64, error) {
	return binary.ReadVarint(br)
}

func writeString(w io.Writer, s string) error {
	if err := writeUvarint(w, uint64(len(s))); err != nil {
		return err
	}
	_, err := io.WriteString(w, s)
	return err
}

func readString(br *byteReader) (string, error) {
	n, err := readUvarint(br)
	if err != nil {
		return "", err
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(br.r, buf); err != nil {
		return "", fmt.Errorf("ir: reading string of length %d: %w", n, err)
	}
	return string(buf), nil
}
