// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package lend

import "sync"

// Scope pool for steady-state allocation-free borrow windows.
// A released scope's generation counter is never reset, so views resolved
// under an earlier incarnation keep failing their epoch check after reuse.
// Ending a scope through a pointer retained past End is not protected
// against reuse; callers must treat scopes as affine (end-at-most-once)
// tokens, which [Scope.End] enforces within a single incarnation.

var scopePool = sync.Pool{
	New: func() any { return new(Scope) },
}

// acquireScope takes a pooled scope and opens it for the given ledger and
// mode. The generation transition even→odd marks the scope active.
func acquireScope(l *Ledger, m Mode) *Scope {
	s := scopePool.Get().(*Scope)
	s.ledger = l
	s.mode = m
	s.gen.Add(1)
	return s
}

// releaseScope returns an ended scope to the pool. The ledger pointer is
// dropped so pooled scopes do not pin owners.
func releaseScope(s *Scope) {
	s.ledger = nil
	scopePool.Put(s)
}
