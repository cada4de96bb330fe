// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package host implements the guest-visible host modules: env,
// bn254fr, vbn254fr, uint256, and a wasi_snapshot_preview1 subset,
// all registered through interp.HostModule so the interpreter
// (package interp) never knows their internals. Every module closes
// over a shared Ctx holding the witness manager and the opaque
// guest-visible cell tables bn254fr/vbn254fr/uint256 hand out as i32
// handles; the packing width is passed in explicitly rather than
// kept as module-level state.
package host

import (
	"go.uber.org/zap"

	"github.com/luxfi/ligetron/internal/field"
	"github.com/luxfi/ligetron/internal/prg"
	"github.com/luxfi/ligetron/internal/wasm/interp"
	"github.com/luxfi/ligetron/internal/witness"
)

// frCell is one bn254fr-module cell: an owning witness handle plus
// the field value currently assigned to it. Every mutation re-Assigns
// the handle and calls CommitNotify, so a cell's value is always part
// of the witness manager's row stream as it changes.
type frCell struct {
	handle witness.Handle
	value  field.Fp
}

// vfrCell is the vbn254fr analogue: l parallel lanes, each its own
// witness handle.
type vfrCell struct {
	handles []witness.Handle
	values  []field.Fp
}

// Ctx is the state every host module shares. It is constructed once
// per run by the CLI entrypoint and handed to interp.Instantiate via
// Modules().
type Ctx struct {
	W            *witness.Manager
	PackingWidth int
	Argv         [][]byte
	PrivateArgv  map[int]bool
	Files        map[string][]byte
	RandomRNG    *prg.Engine
	Logger       *zap.Logger

	// PrivateArgRanges records the (ptr, len) guest memory ranges
	// wasi.args_get wrote for each private argv index, for a caller
	// that wants to witness_cast them afterward. args_get itself only
	// tags metadata; it does not promote memory to witness data, since
	// the SDK discipline is for guest code to call env.witness_cast_*
	// explicitly on whatever it reads; promotion is a guest-driven
	// cast, not an automatic host action.
	PrivateArgRanges map[int][2]int32

	frCells   map[int32]*frCell
	vfrCells  map[int32]*vfrCell
	u256Cells map[int32]*u256Cell
	nextFr    int32
	nextVfr   int32
	nextU256  int32
}

// NewCtx builds a Ctx for one run. argv[0] is conventionally
// "Ligero"; privateArgv names the argv indices whose args_get range
// is tagged private.
func NewCtx(w *witness.Manager, packingWidth int, argv [][]byte, privateArgv map[int]bool, randomRNG *prg.Engine, logger *zap.Logger) *Ctx {
	if logger == nil {
		logger = zap.NewNop()
	}
	if privateArgv == nil {
		privateArgv = map[int]bool{}
	}
	return &Ctx{
		W:                w,
		PackingWidth:     packingWidth,
		Argv:             argv,
		PrivateArgv:      privateArgv,
		Files:            map[string][]byte{},
		RandomRNG:        randomRNG,
		Logger:           logger,
		PrivateArgRanges: map[int][2]int32{},
		frCells:          map[int32]*frCell{},
		vfrCells:         map[int32]*vfrCell{},
		u256Cells:        map[int32]*u256Cell{},
		nextFr:           1,
		nextVfr:          1,
		nextU256:         1,
	}
}

// Modules returns every host module backed by this Ctx, ready to hand
// to interp.Instantiate.
func (c *Ctx) Modules() []interp.HostModule {
	return []interp.HostModule{
		envModule{c},
		bn254frModule{c},
		vbn254frModule{c},
		uint256Module{c},
		wasiModule{c},
	}
}

func (c *Ctx) allocFr() (int32, *frCell) {
	h := c.nextFr
	c.nextFr++
	cell := &frCell{handle: c.W.AcquireWitness()}
	c.frCells[h] = cell
	return h, cell
}

func (c *Ctx) fr(h int32) *frCell {
	cell, ok := c.frCells[h]
	if !ok {
		panic("host: unknown bn254fr handle")
	}
	return cell
}

func (c *Ctx) allocVfr() (int32, *vfrCell) {
	h := c.nextVfr
	c.nextVfr++
	handles := make([]witness.Handle, c.PackingWidth)
	for i := range handles {
		handles[i] = c.W.AcquireWitness()
	}
	cell := &vfrCell{handles: handles, values: make([]field.Fp, c.PackingWidth)}
	c.vfrCells[h] = cell
	return h, cell
}

func (c *Ctx) vfr(h int32) *vfrCell {
	cell, ok := c.vfrCells[h]
	if !ok {
		panic("host: unknown vbn254fr handle")
	}
	return cell
}

// commitValue re-assigns h and notifies the witness manager, folding
// the cell's current value into whichever row stream CommitNotify
// selects.
func (c *Ctx) commitValue(h witness.Handle, v field.Fp) {
	c.W.Assign(h, v)
	c.W.CommitNotify(h)
}

// assertZeroValue forces v == 0 into the quadratic row stream via a
// fresh triple (v, 1, 0): v·1 − 0 = 0 iff v = 0.
func (c *Ctx) assertZeroValue(v field.Fp) {
	a := c.W.AcquireWitness()
	b := c.W.AcquireWitness()
	cc := c.W.AcquireWitness()
	c.W.Assign(a, v)
	c.W.Assign(b, field.One())
	c.W.Assign(cc, field.Zero())
	c.W.AcquireTriple(a, b, cc)
	c.W.CommitNotify(a)
	c.W.CommitNotify(b)
	c.W.CommitNotify(cc)
}

// assertEqualValue forces v == expect.
func (c *Ctx) assertEqualValue(v, expect field.Fp) {
	c.assertZeroValue(field.Sub(v, expect))
}

// assertProductValue forces a·b == product via a genuine quadratic
// triple, the natural shape for mul_checked/div_checked/inv_checked.
func (c *Ctx) assertProductValue(a, b, product field.Fp) {
	ah := c.W.AcquireWitness()
	bh := c.W.AcquireWitness()
	ch := c.W.AcquireWitness()
	c.W.Assign(ah, a)
	c.W.Assign(bh, b)
	c.W.Assign(ch, product)
	c.W.AcquireTriple(ah, bh, ch)
	c.W.CommitNotify(ah)
	c.W.CommitNotify(bh)
	c.W.CommitNotify(ch)
}
