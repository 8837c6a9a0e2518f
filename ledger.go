// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package lend

import (
	"sync/atomic"
)

// exclusiveState marks a ledger held by a single exclusive borrow.
// Positive values count live shared borrows; zero means idle.
const exclusiveState = -1

// Ledger is an owner's borrow ledger: the runtime stand-in for a borrow
// checker. It tracks how many views of the owner are live and in which
// access mode, and refuses borrows that would violate the aliasing
// discipline — any number of shared borrows, or exactly one exclusive
// borrow, never both.
//
// The zero Ledger is ready to use. Embed one in the owner:
//
//	type Buffer struct {
//		items   []int
//		borrows lend.Ledger
//	}
//
// Ledger state transitions are lock-free; concurrent borrow attempts
// resolve atomically, with at most one winner for an exclusive slot.
type Ledger struct {
	state atomic.Int64
}

// Shared opens a shared borrow window and returns its scope.
// Panics if the ledger is exclusively borrowed.
func (l *Ledger) Shared() *Scope {
	s, ok := l.TryShared()
	if !ok {
		panic("lend: shared borrow while exclusively borrowed")
	}
	return s
}

// TryShared attempts to open a shared borrow window.
// Returns (nil, false) if the ledger is exclusively borrowed.
func (l *Ledger) TryShared() (*Scope, bool) {
	for {
		cur := l.state.Load()
		if cur < 0 {
			return nil, false
		}
		if l.state.CompareAndSwap(cur, cur+1) {
			return acquireScope(l, SharedMode), true
		}
	}
}

// Exclusive opens an exclusive borrow window and returns its scope.
// Panics if any borrow — shared or exclusive — is live.
func (l *Ledger) Exclusive() *Scope {
	s, ok := l.TryExclusive()
	if !ok {
		panic("lend: exclusive borrow while already borrowed")
	}
	return s
}

// TryExclusive attempts to open an exclusive borrow window.
// Returns (nil, false) if any borrow is live.
func (l *Ledger) TryExclusive() (*Scope, bool) {
	if !l.state.CompareAndSwap(0, exclusiveState) {
		return nil, false
	}
	return acquireScope(l, ExclusiveMode), true
}

// release closes one borrow window of the given mode.
func (l *Ledger) release(m Mode) {
	if m == ExclusiveMode {
		l.state.Store(0)
		return
	}
	l.state.Add(-1)
}
