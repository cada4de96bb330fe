// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package config decodes and resolves the single JSON document that
// is the CLI's entire front end: a program path, an argv array of
// tagged values, a set of private argv indices, and the packing/GPU
// knobs that derive the ZKP context's sizes.
package config

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/luxfi/ligetron/internal/ntt"
	"github.com/luxfi/ligetron/internal/prg"
	"github.com/luxfi/ligetron/internal/trapkind"
)

// DefaultPacking is the default k (padding width).
const DefaultPacking = 8192

// SampleSize is the fixed number of columns opened per proof.
const SampleSize = 192

// ArgSpec is one element of the JSON "args" array: exactly one of
// i64, str, or hex must be set.
type ArgSpec struct {
	I64 *int64  `json:"i64,omitempty"`
	Str *string `json:"str,omitempty"`
	Hex *string `json:"hex,omitempty"`
}

// Bytes renders the argument to its raw byte form: an i64 becomes its
// decimal string representation, matching the SDK's
// convention of passing argv entries as C strings.
func (a ArgSpec) Bytes() ([]byte, *trapkind.ConfigError) {
	set := 0
	if a.I64 != nil {
		set++
	}
	if a.Str != nil {
		set++
	}
	if a.Hex != nil {
		set++
	}
	if set != 1 {
		return nil, trapkind.NewConfigError("args: exactly one of i64, str, hex must be set, got %d", set)
	}
	switch {
	case a.I64 != nil:
		return []byte(fmt.Sprintf("%d", *a.I64)), nil
	case a.Str != nil:
		return []byte(*a.Str), nil
	default:
		h := *a.Hex
		if len(h) >= 2 && h[0] == '0' && (h[1] == 'x' || h[1] == 'X') {
			h = h[2:]
		}
		b, err := hex.DecodeString(h)
		if err != nil {
			return nil, trapkind.NewConfigError("args: invalid hex literal: %v", err)
		}
		return b, nil
	}
}

// Run is the raw JSON-decoded document.
type Run struct {
	Program        string    `json:"program"`
	Args           []ArgSpec `json:"args"`
	PrivateIndices []int     `json:"private-indices"`
	Packing        int       `json:"packing"`
	GPUThreads     int       `json:"gpu-threads"`
	ShaderPath     string    `json:"shader-path"`
	RandomPolicy   string    `json:"random-policy,omitempty"`
}

// Parse decodes a Run from a single JSON document (the CLI's sole
// argument).
func Parse(data []byte) (*Run, *trapkind.ConfigError) {
	var r Run
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&r); err != nil {
		return nil, trapkind.NewConfigError("malformed run config: %v", err)
	}
	return &r, nil
}

// Resolved is the validated, fully derived configuration the rest of
// the runtime consumes.
type Resolved struct {
	Program        string
	Argv           [][]byte
	PrivateIndices map[int]bool
	Sizes          ntt.Sizes
	SampleSize     int
	GPUThreads     int
	ShaderPath     string
	RandomPolicy   prg.Policy
}

// Resolve validates a Run and derives the row sizes: k = packing
// (default 8192), l = k - 192, n = 4*k.
func (r *Run) Resolve() (*Resolved, *trapkind.ConfigError) {
	if r.Program == "" {
		return nil, trapkind.NewConfigError("missing required field: program")
	}

	k := r.Packing
	if k == 0 {
		k = DefaultPacking
	}
	if k <= SampleSize || k&(k-1) != 0 {
		return nil, trapkind.NewConfigError("invalid packing size %d: must be a power of two greater than %d", k, SampleSize)
	}

	argv := make([][]byte, 0, len(r.Args)+1)
	argv = append(argv, []byte("Ligero"))
	for i, a := range r.Args {
		b, cerr := a.Bytes()
		if cerr != nil {
			return nil, trapkind.NewConfigError("args[%d]: %s", i, cerr.Message)
		}
		argv = append(argv, b)
	}

	private := make(map[int]bool, len(r.PrivateIndices))
	for _, idx := range r.PrivateIndices {
		private[idx] = true
	}

	gpuThreads := r.GPUThreads
	if gpuThreads == 0 {
		gpuThreads = 256
	}

	var policy prg.Policy
	switch r.RandomPolicy {
	case "", "aes-ctr":
		policy = prg.PolicyAESCTR
	case "zero":
		policy = prg.PolicyZero
	case "one":
		policy = prg.PolicyOne
	default:
		return nil, trapkind.NewConfigError("unknown random-policy %q (want aes-ctr, zero, or one)", r.RandomPolicy)
	}

	return &Resolved{
		Program:        r.Program,
		Argv:           argv,
		PrivateIndices: private,
		Sizes:          ntt.NewSizes(k, SampleSize),
		SampleSize:     SampleSize,
		GPUThreads:     gpuThreads,
		ShaderPath:     r.ShaderPath,
		RandomPolicy:   policy,
	}, nil
}
