// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package lend

// Family is the F-bounded interface for scope-indexed view families.
// A family is a named relation from a borrow scope to a concrete view
// type V: the emulation of an associated type that varies with the
// lifetime of the borrow. The self-referencing constraint F Family[F, V]
// gives the compiler knowledge of the concrete family type at
// monomorphization time, so resolving through a family devirtualizes to
// a direct call.
//
// At must be total and deterministic: defined for every active scope of
// the owner's ledger, and pure per (family value, scope) pair. The scope
// is passed through so composite view types can embed their scope token.
//
// Example:
//
//	type cursorFamily struct{ buf *Buffer }
//
//	func (f cursorFamily) At(s *lend.Scope) Cursor {
//		return Cursor{Index: f.buf.pos, Value: &f.buf.items[f.buf.pos], scope: s}
//	}
type Family[F Family[F, V], V any] interface {
	At(s *Scope) V
}

// FamilyFunc adapts a plain function into a [Family].
// FamilyFunc[V] satisfies Family[FamilyFunc[V], V].
type FamilyFunc[V any] func(s *Scope) V

// At implements [Family] by calling the function.
func (f FamilyFunc[V]) At(s *Scope) V { return f(s) }

// Ptr is the direct-reference family: for every scope it resolves to the
// same *T into the owner's storage. This is the trivial conformance
// shape — the lent view literally is a pointer into the owner — shipped
// by the library so the common case needs no hand-written family.
// Ptr[T] satisfies Family[Ptr[T], *T].
type Ptr[T any] struct {
	target *T
}

// PtrTo builds the direct-reference family for the given storage slot.
func PtrTo[T any](target *T) Ptr[T] {
	return Ptr[T]{target: target}
}

// At implements [Family]. The resolved view is the storage pointer
// itself, for any scope.
func (f Ptr[T]) At(*Scope) *T { return f.target }
