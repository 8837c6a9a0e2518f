// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package lend

// Lender is the consuming interface for owners that lend scope-bound
// views of themselves. Instead of naming a concrete view type, an owner
// declares its view family — the relation that produces the view for
// whatever scope a caller is working in — together with the borrow
// ledger that scopes are opened on.
//
// Generic calling code abstracts over "some family" by quantifying over
// F and V, which is where the scope-indexed associated type lives: the
// quantification moves from the interface's associated item (which Go
// cannot express) into the caller's own signature.
//
// Two conformance shapes are interchangeable behind this interface: a
// family resolving to a plain pointer into the owner ([Ptr]), and a
// family resolving to a composite type that embeds its scope token.
// Callers cannot tell which shape is in play.
type Lender[F Family[F, V], V any] interface {
	// Views returns the owner's view family.
	Views() F
	// Borrows returns the owner's borrow ledger.
	Borrows() *Ledger
}

// Lend resolves the owner's family at the caller's scope as a shared
// view. The scope must be active and opened on the owner's own ledger.
func Lend[F Family[F, V], V any](l Lender[F, V], s *Scope) Reference[V] {
	if !s.Active() {
		// An ended scope has released its ledger; check liveness before
		// ownership so the panic names the actual violation.
		panic("lend: lend on ended scope")
	}
	if s.Ledger() != l.Borrows() {
		panic("lend: scope opened on a different owner")
	}
	return Resolve(s, l.Views())
}

// LendMut resolves the owner's family at the caller's scope as an
// exclusive view. The scope must be an active exclusive borrow window
// opened on the owner's own ledger.
func LendMut[F Family[F, V], V any](l Lender[F, V], s *Scope) ReferenceMut[V] {
	if !s.Active() {
		panic("lend: lend on ended scope")
	}
	if s.Ledger() != l.Borrows() {
		panic("lend: scope opened on a different owner")
	}
	return ResolveMut(s, l.Views())
}

// With opens a shared borrow window on the owner, resolves the family
// for it, and runs f with the wrapped view. The scope is ended when f
// returns, invalidating the reference; f must not retain the reference
// or the scope.
func With[F Family[F, V], V, R any](l Lender[F, V], f func(Reference[V]) R) R {
	s := l.Borrows().Shared()
	defer s.End()
	return f(Resolve(s, l.Views()))
}

// WithMut opens an exclusive borrow window on the owner, resolves the
// family for it, and runs f with the wrapped view. The scope is ended
// when f returns, invalidating the reference; f must not retain the
// reference or the scope.
func WithMut[F Family[F, V], V, R any](l Lender[F, V], f func(ReferenceMut[V]) R) R {
	s := l.Borrows().Exclusive()
	defer s.End()
	return f(ResolveMut(s, l.Views()))
}

// TryWith is the non-panicking variant of [With]. Returns (zero, false)
// without running f if the owner is exclusively borrowed.
func TryWith[F Family[F, V], V, R any](l Lender[F, V], f func(Reference[V]) R) (R, bool) {
	s, ok := l.Borrows().TryShared()
	if !ok {
		var zero R
		return zero, false
	}
	defer s.End()
	return f(Resolve(s, l.Views())), true
}

// TryWithMut is the non-panicking variant of [WithMut]. Returns
// (zero, false) without running f if any borrow on the owner is live.
func TryWithMut[F Family[F, V], V, R any](l Lender[F, V], f func(ReferenceMut[V]) R) (R, bool) {
	s, ok := l.Borrows().TryExclusive()
	if !ok {
		var zero R
		return zero, false
	}
	defer s.End()
	return f(ResolveMut(s, l.Views())), true
}
