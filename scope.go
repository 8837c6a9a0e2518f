// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package lend

import (
	"sync/atomic"
)

// Mode is the access mode of a borrow window.
type Mode uint8

const (
	// SharedMode marks a read-only, non-exclusive borrow.
	SharedMode Mode = iota
	// ExclusiveMode marks a unique, mutation-capable borrow.
	ExclusiveMode
)

// String returns a human-readable representation of the mode.
func (m Mode) String() string {
	switch m {
	case SharedMode:
		return "shared"
	case ExclusiveMode:
		return "exclusive"
	default:
		return "?"
	}
}

// Scope is a borrow token: the runtime stand-in for a lifetime. A scope
// comes into existence when a borrow window opens on an owner's [Ledger]
// and is the only evidence that the window is still open. Views resolved
// under a scope are valid exactly while the scope is active.
//
// End is affine: a scope can be ended at most once, and ending it
// invalidates every view resolved under it.
//
// The generation counter is odd while the scope is active and even once
// ended; views capture the generation at resolution time and compare it
// on access, which keeps stale views detectable across scope reuse.
type Scope struct {
	ledger *Ledger
	mode   Mode
	gen    atomic.Uint64
}

// Mode returns the access mode of the borrow window this scope tracks.
func (s *Scope) Mode() Mode { return s.mode }

// Ledger returns the borrow ledger this scope was opened on.
func (s *Scope) Ledger() *Ledger { return s.ledger }

// Active reports whether the borrow window is still open.
func (s *Scope) Active() bool { return s.gen.Load()&1 == 1 }

// epoch returns the current generation for view validity capture.
func (s *Scope) epoch() uint64 { return s.gen.Load() }

// End closes the borrow window, releasing the ledger slot and
// invalidating every view resolved under this scope.
// Panics if the scope has already ended.
func (s *Scope) End() {
	for {
		g := s.gen.Load()
		if g&1 == 0 {
			panic("lend: scope ended twice")
		}
		if s.gen.CompareAndSwap(g, g+1) {
			break
		}
	}
	s.ledger.release(s.mode)
	releaseScope(s)
}

// TryEnd closes the borrow window if it is still open.
// Returns false instead of panicking when the scope has already ended.
func (s *Scope) TryEnd() bool {
	for {
		g := s.gen.Load()
		if g&1 == 0 {
			return false
		}
		if s.gen.CompareAndSwap(g, g+1) {
			break
		}
	}
	s.ledger.release(s.mode)
	releaseScope(s)
	return true
}
