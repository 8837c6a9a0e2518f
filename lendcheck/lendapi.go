// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package lendcheck

import (
	"go/ast"
	"go/types"
	"strings"
)

// lendPath is the import path of the checked package.
const lendPath = "code.hybscloud.com/lend"

// borrowCall is a recognized Ledger borrow: l.Shared(), b.Borrows().Exclusive(), ...
type borrowCall struct {
	call      *ast.CallExpr
	owner     string // stable key for the borrowed owner expression
	exclusive bool
	try       bool
}

// withCall is a recognized scoped lending helper: lend.With(owner, func...), ...
type withCall struct {
	call      *ast.CallExpr
	owner     string
	callback  *ast.FuncLit // nil when the callback is not a literal
	exclusive bool
	try       bool
}

func isLendPkg(pkg *types.Package) bool {
	return pkg != nil && pkg.Path() == lendPath
}

// namedLendType reports whether t (possibly behind a pointer) is the
// named lend type with the given name, regardless of instantiation.
func namedLendType(t types.Type, name string) bool {
	if t == nil {
		return false
	}
	if p, ok := t.Underlying().(*types.Pointer); ok {
		t = p.Elem()
	}
	n, ok := t.(*types.Named)
	if !ok {
		return false
	}
	obj := n.Obj()
	return obj.Name() == name && isLendPkg(obj.Pkg())
}

// unwrapIndex strips explicit type-argument syntax from a call target.
func unwrapIndex(fun ast.Expr) ast.Expr {
	switch e := fun.(type) {
	case *ast.IndexExpr:
		return e.X
	case *ast.IndexListExpr:
		return e.X
	}
	return fun
}

// asBorrowCall recognizes a borrow method call on a lend.Ledger and
// extracts the owner expression behind it. For the b.Borrows().Shared()
// chain the owner is b; for a direct ledger value it is the ledger
// expression itself.
func (c *checker) asBorrowCall(call *ast.CallExpr) (borrowCall, bool) {
	sel, ok := call.Fun.(*ast.SelectorExpr)
	if !ok {
		return borrowCall{}, false
	}

	var exclusive, try bool
	switch sel.Sel.Name {
	case "Shared":
	case "Exclusive":
		exclusive = true
	case "TryShared":
		try = true
	case "TryExclusive":
		exclusive, try = true, true
	default:
		return borrowCall{}, false
	}

	tv, ok := c.pass.TypesInfo.Types[sel.X]
	if !ok || !namedLendType(tv.Type, "Ledger") {
		return borrowCall{}, false
	}

	ownerExpr := sel.X
	if inner, ok := sel.X.(*ast.CallExpr); ok {
		if innerSel, ok := inner.Fun.(*ast.SelectorExpr); ok && innerSel.Sel.Name == "Borrows" {
			ownerExpr = innerSel.X
		}
	}

	return borrowCall{
		call:      call,
		owner:     types.ExprString(ownerExpr),
		exclusive: exclusive,
		try:       try,
	}, true
}

// asWithCall recognizes the lend.With family of scoped lending helpers.
func (c *checker) asWithCall(call *ast.CallExpr) (withCall, bool) {
	sel, ok := unwrapIndex(call.Fun).(*ast.SelectorExpr)
	if !ok {
		return withCall{}, false
	}
	ident, ok := sel.X.(*ast.Ident)
	if !ok {
		return withCall{}, false
	}
	pkgName, ok := c.pass.TypesInfo.Uses[ident].(*types.PkgName)
	if !ok || pkgName.Imported().Path() != lendPath {
		return withCall{}, false
	}

	name := sel.Sel.Name
	switch name {
	case "With", "WithMut", "TryWith", "TryWithMut":
	default:
		return withCall{}, false
	}
	if len(call.Args) != 2 {
		return withCall{}, false
	}

	w := withCall{
		call:      call,
		owner:     types.ExprString(call.Args[0]),
		exclusive: strings.Contains(name, "Mut"),
		try:       strings.HasPrefix(name, "Try"),
	}
	if fl, ok := call.Args[1].(*ast.FuncLit); ok {
		w.callback = fl
	}
	return w, true
}

// asEndCall recognizes s.End() or s.TryEnd() on a lend.Scope and
// returns the scope variable's object.
func (c *checker) asEndCall(call *ast.CallExpr) (types.Object, bool) {
	sel, ok := call.Fun.(*ast.SelectorExpr)
	if !ok {
		return nil, false
	}
	if sel.Sel.Name != "End" && sel.Sel.Name != "TryEnd" {
		return nil, false
	}
	ident, ok := sel.X.(*ast.Ident)
	if !ok {
		return nil, false
	}
	tv, ok := c.pass.TypesInfo.Types[sel.X]
	if !ok || !namedLendType(tv.Type, "Scope") {
		return nil, false
	}
	obj := c.pass.TypesInfo.ObjectOf(ident)
	if obj == nil {
		return nil, false
	}
	return obj, true
}

// isScopeOrViewType reports whether t is a lend.Scope, lend.Reference,
// or lend.ReferenceMut — the token types the escape check tracks.
func isScopeOrViewType(t types.Type) bool {
	return namedLendType(t, "Scope") ||
		namedLendType(t, "Reference") ||
		namedLendType(t, "ReferenceMut")
}

// tokenNoun names a tracked token in diagnostics: scopes are "scope",
// view wrappers are "view".
func tokenNoun(t types.Type) string {
	if namedLendType(t, "Scope") {
		return "scope"
	}
	return "view"
}
