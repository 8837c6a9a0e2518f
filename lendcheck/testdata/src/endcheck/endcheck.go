// Package endcheck contains test fixtures for the unended scope checker.
package endcheck

import "code.hybscloud.com/lend"

type box struct {
	n       int
	borrows lend.Ledger
}

func (b *box) Views() lend.Ptr[int]  { return lend.PtrTo(&b.n) }
func (b *box) Borrows() *lend.Ledger { return &b.borrows }

func use(s *lend.Scope) {
	defer s.End()
}

// ===== SHOULD REPORT =====

// [BAD]: the window is opened and forgotten; the owner is wedged.
func badForgottenScope(b *box) {
	s := b.Borrows().Exclusive() // want `scope "s" is never ended`
	_ = s
}

// [BAD]: discarding the scope leaks the ledger slot outright.
func badBlankScope(b *box) {
	_ = b.Borrows().Shared() // want `borrow of "b" opens a scope that is never ended`
}

// [BAD]: borrowing for effect alone still opens a window.
func badBareBorrow(b *box) {
	b.Borrows().Shared() // want `borrow of "b" opens a scope that is never ended`
}

// ===== SHOULD NOT REPORT =====

// [GOOD]: ended on the spot.
func goodEnded(b *box) {
	s := b.Borrows().Exclusive()
	s.End()
}

// [GOOD]: deferred End counts.
func goodDeferredEnd(b *box) int {
	s := b.Borrows().Shared()
	defer s.End()
	return *lend.Lend[lend.Ptr[int], *int](b, s).Unwrap()
}

// [GOOD]: TryEnd counts.
func goodTryEnd(b *box) {
	s := b.Borrows().Shared()
	s.TryEnd()
}

// [GOOD]: handing the scope to another function delegates the duty.
func goodDelegatedBinding(b *box) {
	s := b.Borrows().Exclusive()
	use(s)
}

// [GOOD]: delegating the borrow result directly.
func goodDelegatedCall(b *box) {
	use(b.Borrows().Exclusive())
}

// [GOOD]: returning the scope makes it the caller's responsibility.
func goodReturnedScope(b *box) *lend.Scope {
	s := b.Borrows().Shared()
	return s
}

// [GOOD]: Try variants are not tracked.
func goodTryBorrow(b *box) {
	if s, ok := b.Borrows().TryExclusive(); ok {
		s.End()
	}
}

// [GOOD]: suppressed by directive.
func goodIgnoredLeak(b *box) {
	s := b.Borrows().Exclusive() //lendcheck:ignore
	_ = s
}
