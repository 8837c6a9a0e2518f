// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package lend

// View wrappers bind a scope token to a resolved family view. They are
// plain value types: no allocation, no indirection beyond the view
// itself. Their whole job is to give the validity window a name — the
// wrapped view can only be reached while the scope that produced it is
// still the same open borrow window.

// Reference carries a shared (read-only, non-exclusive) view resolved
// for one scope. The zero Reference is invalid; obtain one from
// [Resolve], [Lend], or [With].
type Reference[V any] struct {
	scope *Scope
	epoch uint64
	view  V
}

// ReferenceMut carries an exclusive (unique, mutation-capable) view
// resolved for one scope. The zero ReferenceMut is invalid; obtain one
// from [ResolveMut], [LendMut], or [WithMut].
type ReferenceMut[V any] struct {
	scope *Scope
	epoch uint64
	view  V
}

// Resolve resolves the family at the given scope and wraps the view as a
// shared reference. Any active scope may resolve shared views, including
// an exclusive one (an exclusive window subsumes read access).
// Panics if the scope has already ended.
func Resolve[F Family[F, V], V any](s *Scope, f F) Reference[V] {
	g := s.epoch()
	if g&1 == 0 {
		panic("lend: resolve on ended scope")
	}
	return Reference[V]{scope: s, epoch: g, view: f.At(s)}
}

// ResolveMut resolves the family at the given scope and wraps the view
// as an exclusive reference. The scope must be an active exclusive
// borrow window; a shared scope cannot back a mutation-capable view.
func ResolveMut[F Family[F, V], V any](s *Scope, f F) ReferenceMut[V] {
	if s.Mode() != ExclusiveMode {
		panic("lend: exclusive view requires an exclusive scope")
	}
	g := s.epoch()
	if g&1 == 0 {
		panic("lend: resolve on ended scope")
	}
	return ReferenceMut[V]{scope: s, epoch: g, view: f.At(s)}
}

// Valid reports whether the reference's scope is still the open borrow
// window it was resolved under.
func (r Reference[V]) Valid() bool {
	return r.scope != nil && r.scope.gen.Load() == r.epoch
}

// Unwrap extracts the resolved view.
// Panics if the scope has ended: a view must not outlive its scope.
func (r Reference[V]) Unwrap() V {
	if !r.Valid() {
		panic("lend: view used outside its scope")
	}
	return r.view
}

// TryUnwrap extracts the resolved view, or returns (zero, false) if the
// scope has ended.
func (r Reference[V]) TryUnwrap() (V, bool) {
	if !r.Valid() {
		var zero V
		return zero, false
	}
	return r.view, true
}

// Scope returns the scope this reference was resolved under.
func (r Reference[V]) Scope() *Scope { return r.scope }

// Valid reports whether the reference's scope is still the open borrow
// window it was resolved under.
func (r ReferenceMut[V]) Valid() bool {
	return r.scope != nil && r.scope.gen.Load() == r.epoch
}

// Unwrap extracts the resolved view.
// Panics if the scope has ended: a view must not outlive its scope.
func (r ReferenceMut[V]) Unwrap() V {
	if !r.Valid() {
		panic("lend: view used outside its scope")
	}
	return r.view
}

// TryUnwrap extracts the resolved view, or returns (zero, false) if the
// scope has ended.
func (r ReferenceMut[V]) TryUnwrap() (V, bool) {
	if !r.Valid() {
		var zero V
		return zero, false
	}
	return r.view, true
}

// Scope returns the scope this reference was resolved under.
func (r ReferenceMut[V]) Scope() *Scope { return r.scope }

// Share downgrades an exclusive reference to a shared one over the same
// scope and view. The exclusive borrow window stays open; this only
// weakens what the wrapper asserts about access.
func (r ReferenceMut[V]) Share() Reference[V] {
	return Reference[V]{scope: r.scope, epoch: r.epoch, view: r.view}
}
