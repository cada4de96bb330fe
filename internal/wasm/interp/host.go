// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package interp

import "github.com/luxfi/ligetron/internal/trapkind"

// HostFunc is one host intrinsic: it pops its own arguments off the
// interpreter's value stack, performs its semantic effect, and pushes
// its results. A non-nil Trap aborts the run.
type HostFunc func(it *Interpreter) *trapkind.Trap

// HostModule is a name-indexed table of host functions.
// internal/host implements one of these per module name (env,
// bn254fr, vbn254fr, uint256, wasi_snapshot_preview1).
type HostModule interface {
	Name() string
	Functions() map[string]HostFunc
}
