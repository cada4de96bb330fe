// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package zkpctx

import (
	"encoding/binary"
	"io"
	"sort"

	"github.com/luxfi/ligetron/internal/field"
	"github.com/luxfi/ligetron/internal/merkle"
	"github.com/luxfi/ligetron/internal/ntt"
	"github.com/luxfi/ligetron/internal/trapkind"
)

// WriteProofStream serializes a Proof to its portable binary layout:
// root, sample seed, a row count, the three codeword families (each
// row's n field elements as 32 bytes apiece), then the decommitment.
// The row count generalizes the layout to multi-row runs; a
// single-row run is just the count followed by one row per family.
func WriteProofStream(w io.Writer, p *Proof) error {
	if err := writeAll(w, p.Root[:]); err != nil {
		return err
	}
	if err := writeAll(w, p.SampleSeed[:]); err != nil {
		return err
	}
	if err := writeUint64(w, uint64(len(p.CodeCodewords))); err != nil {
		return err
	}
	for _, stream := range [][][]field.Fp{p.CodeCodewords, p.LinearCodewords, p.QuadCodewords} {
		for _, row := range stream {
			for _, c := range row {
				b := c.Bytes()
				if err := writeAll(w, b[:]); err != nil {
					return err
				}
			}
		}
	}
	return writeDecommitment(w, p.Decommitment)
}

func writeDecommitment(w io.Writer, d *merkle.Decommitment) error {
	if err := writeUint64(w, uint64(d.TotalNodeCount)); err != nil {
		return err
	}
	if err := writeUint64(w, uint64(len(d.KnownIndices))); err != nil {
		return err
	}
	for _, idx := range d.KnownIndices {
		if err := writeUint64(w, uint64(idx)); err != nil {
			return err
		}
	}
	if err := writeUint64(w, uint64(len(d.Siblings))); err != nil {
		return err
	}
	keys := make([]uint64, 0, len(d.Siblings))
	for k := range d.Siblings {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	for _, k := range keys {
		if err := writeUint64(w, k); err != nil {
			return err
		}
		v := d.Siblings[k]
		if err := writeAll(w, v[:]); err != nil {
			return err
		}
	}
	return nil
}

func writeUint64(w io.Writer, v uint64) error {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], v)
	return writeAll(w, b[:])
}

func writeAll(w io.Writer, b []byte) error {
	_, err := w.Write(b)
	return err
}

// ReadProofStream deserializes a Proof from the wire layout written
// by WriteProofStream, rejecting if the stream is truncated,
// malformed, or has trailing bytes once n is known from sizes.
func ReadProofStream(r io.Reader, sizes ntt.Sizes) (*Proof, *trapkind.Rejection) {
	p := &Proof{}

	if err := readExact(r, p.Root[:]); err != nil {
		return nil, truncated(err)
	}
	if err := readExact(r, p.SampleSeed[:]); err != nil {
		return nil, truncated(err)
	}
	rows, err := readUint64(r)
	if err != nil {
		return nil, truncated(err)
	}

	readStream := func() ([][]field.Fp, *trapkind.Rejection) {
		out := make([][]field.Fp, rows)
		for ri := range out {
			row := make([]field.Fp, sizes.N)
			for j := range row {
				var buf [32]byte
				if err := readExact(r, buf[:]); err != nil {
					return nil, truncated(err)
				}
				row[j] = field.FromBytes(buf[:])
			}
			out[ri] = row
		}
		return out, nil
	}

	var rej *trapkind.Rejection
	if p.CodeCodewords, rej = readStream(); rej != nil {
		return nil, rej
	}
	if p.LinearCodewords, rej = readStream(); rej != nil {
		return nil, rej
	}
	if p.QuadCodewords, rej = readStream(); rej != nil {
		return nil, rej
	}

	dec, rej := readDecommitment(r)
	if rej != nil {
		return nil, rej
	}
	p.Decommitment = dec
	p.SampleIndex = append([]int(nil), dec.KnownIndices...)

	var probe [1]byte
	if n, _ := r.Read(probe[:]); n > 0 {
		return nil, trapkind.NewRejection(trapkind.StreamOverlong, "trailing bytes remain after proof stream consumption")
	}

	return p, nil
}

func readDecommitment(r io.Reader) (*merkle.Decommitment, *trapkind.Rejection) {
	total, err := readUint64(r)
	if err != nil {
		return nil, truncated(err)
	}
	indexCount, err := readUint64(r)
	if err != nil {
		return nil, truncated(err)
	}
	indices := make([]int, indexCount)
	for i := range indices {
		v, err := readUint64(r)
		if err != nil {
			return nil, truncated(err)
		}
		indices[i] = int(v)
	}
	mapSize, err := readUint64(r)
	if err != nil {
		return nil, truncated(err)
	}
	siblings := make(map[uint64]merkle.Digest, mapSize)
	for i := uint64(0); i < mapSize; i++ {
		key, err := readUint64(r)
		if err != nil {
			return nil, truncated(err)
		}
		var d merkle.Digest
		if err := readExact(r, d[:]); err != nil {
			return nil, truncated(err)
		}
		siblings[key] = d
	}
	return &merkle.Decommitment{
		TotalNodeCount: int(total),
		KnownIndices:   indices,
		Siblings:       siblings,
	}, nil
}

func readUint64(r io.Reader) (uint64, error) {
	var b [8]byte
	if err := readExact(r, b[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b[:]), nil
}

func readExact(r io.Reader, b []byte) error {
	_, err := io.ReadFull(r, b)
	return err
}

func truncated(err error) *trapkind.Rejection {
	return trapkind.NewRejection(trapkind.StreamTruncated, err.Error())
}
