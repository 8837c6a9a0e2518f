// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package lendcheck

import (
	"go/ast"
	"go/token"
	"go/types"
)

// The end check is lostcancel for borrow windows: a scope obtained from
// a ledger must be ended, or the ledger slot leaks and every later
// exclusive borrow of the owner fails. A scope that is returned or
// handed to another function is assumed delegated and left alone.

func (c *checker) checkEnds(body *ast.BlockStmt) {
	// Scope bindings in this function, and borrow calls whose result was
	// bound to them.
	bound := make(map[types.Object]token.Pos)
	boundCalls := make(map[*ast.CallExpr]bool)

	ast.Inspect(body, func(n ast.Node) bool {
		switch n := n.(type) {
		case *ast.AssignStmt:
			if len(n.Rhs) != 1 || len(n.Lhs) != 1 {
				return true
			}
			call, ok := n.Rhs[0].(*ast.CallExpr)
			if !ok {
				return true
			}
			bc, ok := c.asBorrowCall(call)
			if !ok || bc.try {
				return true
			}
			ident, ok := n.Lhs[0].(*ast.Ident)
			if !ok {
				return true
			}
			if ident.Name == "_" {
				boundCalls[call] = true
				c.report(call.Pos(), "borrow of %q opens a scope that is never ended", bc.owner)
				return true
			}
			if obj := c.pass.TypesInfo.ObjectOf(ident); obj != nil {
				bound[obj] = call.Pos()
				boundCalls[call] = true
			}
		case *ast.ValueSpec:
			if len(n.Values) != 1 || len(n.Names) != 1 {
				return true
			}
			call, ok := n.Values[0].(*ast.CallExpr)
			if !ok {
				return true
			}
			bc, ok := c.asBorrowCall(call)
			if !ok || bc.try {
				return true
			}
			if obj := c.pass.TypesInfo.ObjectOf(n.Names[0]); obj != nil {
				bound[obj] = call.Pos()
				boundCalls[call] = true
			}
		}
		return true
	})

	// Unbound borrow results: reported unless the scope is immediately
	// handed off as a call argument.
	ast.Inspect(body, func(n ast.Node) bool {
		call, ok := n.(*ast.CallExpr)
		if !ok {
			return true
		}
		bc, ok := c.asBorrowCall(call)
		if !ok || bc.try || boundCalls[call] {
			return true
		}
		if c.delegatedCall(body, call) {
			return true
		}
		c.report(call.Pos(), "borrow of %q opens a scope that is never ended", bc.owner)
		return true
	})

	if len(bound) == 0 {
		return
	}

	// A binding is satisfied by an End/TryEnd call, or excused by any
	// use that moves the scope elsewhere.
	ended := make(map[types.Object]bool)
	ast.Inspect(body, func(n ast.Node) bool {
		switch n := n.(type) {
		case *ast.CallExpr:
			if obj, ok := c.asEndCall(n); ok {
				if _, tracked := bound[obj]; tracked {
					ended[obj] = true
				}
				return true
			}
			for _, arg := range n.Args {
				if obj := c.boundIdent(bound, arg); obj != nil {
					ended[obj] = true // delegated
				}
			}
		case *ast.ReturnStmt:
			for _, res := range n.Results {
				if obj := c.boundIdent(bound, res); obj != nil {
					ended[obj] = true // caller's responsibility now
				}
			}
		case *ast.AssignStmt:
			for i, rhs := range n.Rhs {
				if _, isCall := rhs.(*ast.CallExpr); isCall {
					continue
				}
				if i < len(n.Lhs) {
					if lhs, ok := n.Lhs[i].(*ast.Ident); ok && lhs.Name == "_" {
						continue // discarded, not moved
					}
				}
				if obj := c.boundIdent(bound, rhs); obj != nil {
					ended[obj] = true // moved
				}
			}
		case *ast.CompositeLit:
			for _, elt := range n.Elts {
				e := elt
				if kv, ok := elt.(*ast.KeyValueExpr); ok {
					e = kv.Value
				}
				if obj := c.boundIdent(bound, e); obj != nil {
					ended[obj] = true // stored
				}
			}
		case *ast.SendStmt:
			if obj := c.boundIdent(bound, n.Value); obj != nil {
				ended[obj] = true
			}
		}
		return true
	})

	for obj, pos := range bound {
		if !ended[obj] {
			c.report(pos, "scope %q is never ended", obj.Name())
		}
	}
}

// boundIdent resolves e to a tracked scope binding, or nil.
func (c *checker) boundIdent(bound map[types.Object]token.Pos, e ast.Expr) types.Object {
	ident, ok := e.(*ast.Ident)
	if !ok {
		return nil
	}
	obj := c.pass.TypesInfo.ObjectOf(ident)
	if obj == nil {
		return nil
	}
	if _, tracked := bound[obj]; !tracked {
		return nil
	}
	return obj
}

// delegatedCall reports whether the borrow call's result is used
// directly as an argument to another call.
func (c *checker) delegatedCall(body *ast.BlockStmt, borrow *ast.CallExpr) bool {
	delegated := false
	ast.Inspect(body, func(n ast.Node) bool {
		call, ok := n.(*ast.CallExpr)
		if !ok || call == borrow {
			return true
		}
		for _, arg := range call.Args {
			if arg == borrow {
				delegated = true
			}
		}
		return !delegated
	})
	return delegated
}
