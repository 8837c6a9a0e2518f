// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package lend provides scope-indexed lending views: the pattern of an
// owner handing out short-lived views of itself whose concrete type
// varies with the borrow scope of each call.
//
// The motivating shape is an interface whose "result type" depends on a
// lifetime supplied at the call site — an iterator yielding items that
// borrow its internal buffer, a cursor whose next result is only valid
// until the cursor advances. Go has no lifetimes and no associated
// types, so the package reconstructs the capability from two parts:
//
//   - an explicit scope token ([Scope]) standing in for the lifetime,
//     opened on the owner's borrow ledger ([Ledger]) and enforcing the
//     aliasing discipline at runtime, and
//   - an F-bounded view family ([Family]) standing in for the
//     scope-parameterized associated type, resolved per call through
//     zero-indirection wrappers ([Reference], [ReferenceMut]).
//
// # F-Bounded Families
//
// A family is a relation from scope to concrete view type, declared as a
// type implementing the self-referencing constraint
// Family[F Family[F, V], V any]. The constraint gives the compiler the
// concrete family type at monomorphization time, so resolution
// devirtualizes; the per-call generic instantiation in callers is what
// emulates "an associated type generic over an input lifetime".
//
//   - [Family]: the scope-indexed relation implementers define
//   - [FamilyFunc]: adapter for plain functions
//   - [Ptr]: the library-provided direct-reference family (*T for every scope)
//
// # Borrow Ledger and Scopes
//
// Every owner embeds a [Ledger]. A borrow opens a window on the ledger
// and yields a [Scope]; any number of shared windows may coexist, an
// exclusive window excludes everything else. Violations panic; Try
// variants report failure instead.
//
//   - [Ledger.Shared], [Ledger.TryShared]: open a shared window
//   - [Ledger.Exclusive], [Ledger.TryExclusive]: open an exclusive window
//   - [Scope.End]: close the window (affine — at most once)
//   - [Scope.Active], [Scope.Mode], [Scope.Ledger]: introspection
//
// Scopes are pooled; a generation counter keeps views resolved under an
// ended scope detectably stale across reuse.
//
// # View Wrappers
//
// Wrappers bind a scope to a resolved view and bound its validity:
//
//   - [Resolve], [ResolveMut]: resolve a family at a scope
//   - [Reference.Unwrap], [ReferenceMut.Unwrap]: extract the view
//     (panics once the scope has ended)
//   - [Reference.TryUnwrap], [ReferenceMut.TryUnwrap]: non-panicking
//   - [ReferenceMut.Share]: downgrade exclusive to shared
//
// # Consuming Interface
//
// Owners implement [Lender] by exposing their family and their ledger;
// generic callers quantify over the family instead of naming a view type:
//
//   - [Lend], [LendMut]: resolve at a caller-opened scope
//   - [With], [WithMut]: scoped helpers owning the window lifecycle
//   - [TryWith], [TryWithMut]: non-panicking variants
//
// # Static Checking
//
// The runtime ledger is a strictly weaker guarantee than a borrow
// checker: it catches violations when they execute. The companion
// analyzer in lendcheck moves the common violation classes back to build
// time — overlapping borrows, views or scopes escaping a With callback,
// and scopes that are never ended.
//
// # Example
//
//	type Buffer struct {
//		items   []int
//		pos     int
//		borrows lend.Ledger
//	}
//
//	type Cursor struct {
//		Index int
//		Value *int
//	}
//
//	type cursorFamily struct{ buf *Buffer }
//
//	func (f cursorFamily) At(*lend.Scope) Cursor {
//		return Cursor{Index: f.buf.pos, Value: &f.buf.items[f.buf.pos]}
//	}
//
//	func (b *Buffer) Views() cursorFamily   { return cursorFamily{buf: b} }
//	func (b *Buffer) Borrows() *lend.Ledger { return &b.borrows }
//
//	sum := lend.WithMut[cursorFamily, Cursor](buf, func(r lend.ReferenceMut[Cursor]) int {
//		c := r.Unwrap()
//		*c.Value += 10
//		return c.Index
//	})
package lend
