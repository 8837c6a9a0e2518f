// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package lendcheck

import (
	"go/ast"
	"go/types"
)

// The escape check guards the With/WithMut callback boundary: the view
// and scope tokens handed to the callback are valid only for the
// callback's extent, so any route that carries them past it — return,
// assignment to an outer variable, goroutine capture, channel send — is
// a scope escape. Unwrapped payloads are not tracked; the check follows
// the tokens the lending machinery hands out.

func (c *checker) checkEscapes(body *ast.BlockStmt) {
	ast.Inspect(body, func(n ast.Node) bool {
		call, ok := n.(*ast.CallExpr)
		if !ok {
			return true
		}
		wc, ok := c.asWithCall(call)
		if !ok || wc.callback == nil {
			return true
		}
		c.checkCallbackEscapes(wc.callback)
		return true
	})
}

// checkCallbackEscapes inspects one callback for routes that carry its
// scope or view parameters out of the callback's extent.
func (c *checker) checkCallbackEscapes(callback *ast.FuncLit) {
	tracked := make(map[types.Object]string)
	if callback.Type.Params != nil {
		for _, field := range callback.Type.Params.List {
			tv, ok := c.pass.TypesInfo.Types[field.Type]
			if !ok || !isScopeOrViewType(tv.Type) {
				continue
			}
			for _, name := range field.Names {
				if obj := c.pass.TypesInfo.ObjectOf(name); obj != nil {
					tracked[obj] = tokenNoun(tv.Type)
				}
			}
		}
	}
	if len(tracked) == 0 {
		return
	}

	// Ancestor stack; every visited node is pushed and popped on the
	// matching nil callback, so the handlers below can ask whether they
	// sit inside a nested function literal.
	var stack []ast.Node
	inNestedFunc := func() bool {
		for _, anc := range stack[:len(stack)-1] {
			if _, ok := anc.(*ast.FuncLit); ok {
				return true
			}
		}
		return false
	}
	ast.Inspect(callback.Body, func(n ast.Node) bool {
		if n == nil {
			stack = stack[:len(stack)-1]
			return true
		}
		stack = append(stack, n)
		switch n := n.(type) {
		case *ast.ReturnStmt:
			// Only the callback's own returns cross the boundary.
			if inNestedFunc() {
				return true
			}
			for _, res := range n.Results {
				if obj, noun, ok := c.trackedIn(tracked, res); ok {
					c.report(res.Pos(), "%s %q escapes its lending scope via return", noun, obj.Name())
				}
			}
		case *ast.AssignStmt:
			for i, rhs := range n.Rhs {
				obj, noun, ok := c.trackedIn(tracked, rhs)
				if !ok {
					continue
				}
				if i < len(n.Lhs) {
					if target := c.outerTarget(callback, n.Lhs[i]); target != "" {
						c.report(rhs.Pos(), "%s %q escapes its lending scope via assignment to %q", noun, obj.Name(), target)
					}
				}
			}
		case *ast.GoStmt:
			for obj, noun := range tracked {
				if c.mentions(n.Call, obj) {
					c.report(n.Pos(), "%s %q is captured by a goroutine that may outlive its lending scope", noun, obj.Name())
				}
			}
		case *ast.SendStmt:
			if obj, noun, ok := c.trackedIn(tracked, n.Value); ok {
				c.report(n.Value.Pos(), "%s %q escapes its lending scope via channel send", noun, obj.Name())
			}
		}
		return true
	})
}

// trackedIn reports whether e is (exactly) one of the tracked tokens.
func (c *checker) trackedIn(tracked map[types.Object]string, e ast.Expr) (types.Object, string, bool) {
	ident, ok := e.(*ast.Ident)
	if !ok {
		return nil, "", false
	}
	obj := c.pass.TypesInfo.ObjectOf(ident)
	if obj == nil {
		return nil, "", false
	}
	noun, ok := tracked[obj]
	return obj, noun, ok
}

// outerTarget returns the name of an assignment target declared outside
// the callback, or "" when the target stays inside it. Field and element
// stores park the token in the base value, so they escape exactly when
// the base identifier does; a base the checker cannot resolve is treated
// as escaping.
func (c *checker) outerTarget(callback *ast.FuncLit, lhs ast.Expr) string {
	switch lhs := lhs.(type) {
	case *ast.Ident:
		if lhs.Name == "_" {
			return ""
		}
		if c.declaredOutside(callback, lhs) {
			return lhs.Name
		}
		return ""
	case *ast.SelectorExpr:
		if base := baseIdent(lhs.X); base != nil && !c.declaredOutside(callback, base) {
			return ""
		}
		return types.ExprString(lhs)
	case *ast.IndexExpr:
		if base := baseIdent(lhs.X); base != nil && !c.declaredOutside(callback, base) {
			return ""
		}
		return types.ExprString(lhs.X)
	}
	return ""
}

// declaredOutside reports whether the identifier's object is declared
// outside the callback's extent.
func (c *checker) declaredOutside(callback *ast.FuncLit, ident *ast.Ident) bool {
	obj := c.pass.TypesInfo.ObjectOf(ident)
	if obj == nil {
		return false
	}
	return obj.Pos() < callback.Pos() || obj.Pos() > callback.End()
}

// baseIdent walks a selector, index, deref, or paren chain down to its
// root identifier, or nil when the root is something else (a call
// result, a composite literal).
func baseIdent(e ast.Expr) *ast.Ident {
	for {
		switch x := e.(type) {
		case *ast.Ident:
			return x
		case *ast.SelectorExpr:
			e = x.X
		case *ast.IndexExpr:
			e = x.X
		case *ast.ParenExpr:
			e = x.X
		case *ast.StarExpr:
			e = x.X
		default:
			return nil
		}
	}
}

// mentions reports whether the node references obj anywhere.
func (c *checker) mentions(n ast.Node, obj types.Object) bool {
	found := false
	ast.Inspect(n, func(n ast.Node) bool {
		if found {
			return false
		}
		if ident, ok := n.(*ast.Ident); ok && c.pass.TypesInfo.ObjectOf(ident) == obj {
			found = true
			return false
		}
		return true
	})
	return found
}
