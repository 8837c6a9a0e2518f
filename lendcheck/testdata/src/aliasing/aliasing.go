// Package aliasing contains test fixtures for the overlapping borrow checker.
package aliasing

import "code.hybscloud.com/lend"

type box struct {
	n       int
	borrows lend.Ledger
}

func (b *box) Views() lend.Ptr[int]  { return lend.PtrTo(&b.n) }
func (b *box) Borrows() *lend.Ledger { return &b.borrows }

// ===== SHOULD REPORT =====

// [BAD]: exclusive borrow while an exclusive window is live.
func badExclusiveOverExclusive(b *box) {
	s1 := b.Borrows().Exclusive()
	s2 := b.Borrows().Exclusive() // want `exclusive borrow of "b" overlaps a live exclusive borrow`
	s2.End()
	s1.End()
}

// [BAD]: shared borrow while an exclusive window is live.
func badSharedUnderExclusive(b *box) {
	s1 := b.Borrows().Exclusive()
	s2 := b.Borrows().Shared() // want `shared borrow of "b" overlaps a live exclusive borrow`
	s2.End()
	s1.End()
}

// [BAD]: exclusive borrow while shared windows are live.
func badExclusiveOverShared(b *box) {
	s1 := b.Borrows().Shared()
	s2 := b.Borrows().Exclusive() // want `exclusive borrow of "b" overlaps a live shared borrow`
	s2.End()
	s1.End()
}

// [BAD]: a deferred End keeps the window open for the whole function.
func badDeferredEndStillOverlaps(b *box) {
	s1 := b.Borrows().Exclusive()
	defer s1.End()
	s2 := b.Borrows().Shared() // want `shared borrow of "b" overlaps a live exclusive borrow`
	s2.End()
}

// [BAD]: nested WithMut on the same owner inside a With callback.
func badNestedWithMut(b *box) int {
	return lend.With[lend.Ptr[int], *int](b, func(r lend.Reference[*int]) int {
		return lend.WithMut[lend.Ptr[int], *int](b, func(m lend.ReferenceMut[*int]) int { // want `exclusive borrow of "b" overlaps a live shared borrow`
			return *m.Unwrap()
		})
	})
}

// [BAD]: explicit exclusive window around a WithMut helper.
func badWithMutUnderExplicitBorrow(b *box) {
	s := b.Borrows().Exclusive()
	lend.WithMut[lend.Ptr[int], *int](b, func(m lend.ReferenceMut[*int]) int { // want `exclusive borrow of "b" overlaps a live exclusive borrow`
		return *m.Unwrap()
	})
	s.End()
}

// [BAD]: an End on one branch may not run; the window is still open on
// the path that skips it.
func badConditionalEnd(b *box, done bool) {
	s1 := b.Borrows().Exclusive()
	if done {
		s1.End()
	}
	s2 := b.Borrows().Shared() // want `shared borrow of "b" overlaps a live exclusive borrow`
	s2.End()
	s1.TryEnd()
}

// [BAD]: borrowing a bare ledger variable follows the same rules.
func badDirectLedger() {
	var l lend.Ledger
	s1 := l.Exclusive()
	s2 := l.Exclusive() // want `exclusive borrow of "l" overlaps a live exclusive borrow`
	s2.End()
	s1.End()
}

// ===== SHOULD NOT REPORT =====

// [GOOD]: sequential exclusive windows never overlap.
func goodSequentialExclusive(b *box) {
	s1 := b.Borrows().Exclusive()
	s1.End()
	s2 := b.Borrows().Exclusive()
	s2.End()
}

// [GOOD]: shared windows may pile up freely.
func goodSharedPile(b *box) {
	s1 := b.Borrows().Shared()
	s2 := b.Borrows().Shared()
	s3 := b.Borrows().Shared()
	s3.End()
	s2.End()
	s1.End()
}

// [GOOD]: nested With helpers on distinct owners.
func goodNestedDistinctOwners(a, b *box) int {
	return lend.With[lend.Ptr[int], *int](a, func(r lend.Reference[*int]) int {
		return lend.WithMut[lend.Ptr[int], *int](b, func(m lend.ReferenceMut[*int]) int {
			return *r.Unwrap() + *m.Unwrap()
		})
	})
}

// [GOOD]: Try variants are the runtime-checked path; no static report.
func goodTryUnderExclusive(b *box) {
	s := b.Borrows().Exclusive()
	if s2, ok := b.Borrows().TryShared(); ok {
		s2.End()
	}
	s.End()
}

// [GOOD]: a window opened in an inner block dies with the block's scope
// variable; the checker does not carry it past the block.
func goodBlockScopedWindows(b *box) {
	{
		s := b.Borrows().Exclusive()
		s.End()
	}
	s := b.Borrows().Exclusive()
	s.End()
}

// [GOOD]: an End inside a bare block always runs; the outer window does
// not come back when the block exits.
func goodOuterEndInBlock(b *box) {
	s1 := b.Borrows().Exclusive()
	{
		s1.End()
	}
	s2 := b.Borrows().Exclusive()
	s2.End()
}

// [GOOD]: several outer windows closed inside a bare block all stay
// closed, in whichever order they end.
func goodOuterEndsInBlock(b *box) {
	s1 := b.Borrows().Shared()
	s2 := b.Borrows().Shared()
	{
		s1.End()
		s2.End()
	}
	s3 := b.Borrows().Exclusive()
	s3.End()
}

// [GOOD]: a binding the callback leaves open dies with the callback; it
// does not displace the helper's own window when the call returns.
func goodCallbackWindowDies(a, b *box) {
	lend.With[lend.Ptr[int], *int](a, func(r lend.Reference[*int]) int {
		s := b.Borrows().Shared()
		defer s.End()
		return *r.Unwrap()
	})
	s := a.Borrows().Exclusive()
	s.End()
}

// [GOOD]: suppressed by directive.
func goodIgnoredOverlap(b *box) {
	s1 := b.Borrows().Exclusive()
	s2 := b.Borrows().Exclusive() //lendcheck:ignore
	s2.End()
	s1.End()
}
