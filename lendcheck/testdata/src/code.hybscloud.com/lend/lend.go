// Package lend is a minimal stub of code.hybscloud.com/lend for
// analysis test fixtures. Signatures mirror the real package; bodies are
// stand-ins — fixtures are type-checked, never executed.
package lend

// Mode is the access mode of a borrow window.
type Mode uint8

const (
	SharedMode Mode = iota
	ExclusiveMode
)

// Ledger is an owner's borrow ledger.
type Ledger struct {
	state int64
}

func (l *Ledger) Shared() *Scope            { return &Scope{ledger: l, mode: SharedMode} }
func (l *Ledger) TryShared() (*Scope, bool) { return l.Shared(), true }
func (l *Ledger) Exclusive() *Scope {
	return &Scope{ledger: l, mode: ExclusiveMode}
}
func (l *Ledger) TryExclusive() (*Scope, bool) { return l.Exclusive(), true }

// Scope is a borrow token.
type Scope struct {
	ledger *Ledger
	mode   Mode
}

func (s *Scope) Mode() Mode      { return s.mode }
func (s *Scope) Ledger() *Ledger { return s.ledger }
func (s *Scope) Active() bool    { return true }
func (s *Scope) End()            {}
func (s *Scope) TryEnd() bool    { return true }

// Family is the scope-indexed view family relation.
type Family[F Family[F, V], V any] interface {
	At(s *Scope) V
}

// FamilyFunc adapts a function into a Family.
type FamilyFunc[V any] func(s *Scope) V

func (f FamilyFunc[V]) At(s *Scope) V { return f(s) }

// Ptr is the direct-reference family.
type Ptr[T any] struct {
	target *T
}

func PtrTo[T any](target *T) Ptr[T] { return Ptr[T]{target: target} }
func (f Ptr[T]) At(*Scope) *T       { return f.target }

// Reference carries a shared view.
type Reference[V any] struct {
	scope *Scope
	view  V
}

func (r Reference[V]) Valid() bool          { return true }
func (r Reference[V]) Unwrap() V            { return r.view }
func (r Reference[V]) TryUnwrap() (V, bool) { return r.view, true }
func (r Reference[V]) Scope() *Scope        { return r.scope }

// ReferenceMut carries an exclusive view.
type ReferenceMut[V any] struct {
	scope *Scope
	view  V
}

func (r ReferenceMut[V]) Valid() bool          { return true }
func (r ReferenceMut[V]) Unwrap() V            { return r.view }
func (r ReferenceMut[V]) TryUnwrap() (V, bool) { return r.view, true }
func (r ReferenceMut[V]) Scope() *Scope        { return r.scope }
func (r ReferenceMut[V]) Share() Reference[V]  { return Reference[V]{scope: r.scope, view: r.view} }

// Resolve resolves the family at the scope as a shared view.
func Resolve[F Family[F, V], V any](s *Scope, f F) Reference[V] {
	return Reference[V]{scope: s, view: f.At(s)}
}

// ResolveMut resolves the family at the scope as an exclusive view.
func ResolveMut[F Family[F, V], V any](s *Scope, f F) ReferenceMut[V] {
	return ReferenceMut[V]{scope: s, view: f.At(s)}
}

// Lender is the consuming interface for lending owners.
type Lender[F Family[F, V], V any] interface {
	Views() F
	Borrows() *Ledger
}

func Lend[F Family[F, V], V any](l Lender[F, V], s *Scope) Reference[V] {
	return Resolve(s, l.Views())
}

func LendMut[F Family[F, V], V any](l Lender[F, V], s *Scope) ReferenceMut[V] {
	return ResolveMut(s, l.Views())
}

func With[F Family[F, V], V, R any](l Lender[F, V], f func(Reference[V]) R) R {
	s := l.Borrows().Shared()
	defer s.End()
	return f(Resolve(s, l.Views()))
}

func WithMut[F Family[F, V], V, R any](l Lender[F, V], f func(ReferenceMut[V]) R) R {
	s := l.Borrows().Exclusive()
	defer s.End()
	return f(ResolveMut(s, l.Views()))
}

func TryWith[F Family[F, V], V, R any](l Lender[F, V], f func(Reference[V]) R) (R, bool) {
	return With[F, V, R](l, f), true
}

func TryWithMut[F Family[F, V], V, R any](l Lender[F, V], f func(ReferenceMut[V]) R) (R, bool) {
	return WithMut[F, V, R](l, f), true
}
