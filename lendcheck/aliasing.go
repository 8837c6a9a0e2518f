// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package lendcheck

import (
	"go/ast"
	"go/types"
)

// The aliasing check walks a function body in statement order and keeps
// the set of borrow windows it can prove are still open. A borrow on an
// owner with a live window is reported when either side is exclusive;
// shared borrows may pile up freely. Try variants are the
// runtime-checked path: they neither report nor open windows. A window
// closed only by a deferred End stays open for the rest of the walk,
// which is exactly when it can still overlap later borrows.

// window is one open borrow that the walker is tracking. Closed windows
// are marked rather than removed, so nested blocks can truncate or
// restore the set without disturbing outer entries in place.
type window struct {
	owner     string
	exclusive bool
	closed    bool
	scope     types.Object // nil for With-managed windows
}

type aliasingWalker struct {
	c    *checker
	open []window
}

func (c *checker) checkAliasing(body *ast.BlockStmt) {
	w := &aliasingWalker{c: c}
	w.stmts(body.List)
}

func (w *aliasingWalker) stmts(list []ast.Stmt) {
	for _, s := range list {
		w.stmt(s)
	}
}

// stmt processes one statement, opening and closing windows as it goes.
// Nested blocks run against the current window set; windows they open
// die with the block.
func (w *aliasingWalker) stmt(s ast.Stmt) {
	switch s := s.(type) {
	case *ast.AssignStmt:
		if len(s.Rhs) == 1 {
			if call, ok := s.Rhs[0].(*ast.CallExpr); ok {
				if bc, ok := w.c.asBorrowCall(call); ok {
					var scope types.Object
					if len(s.Lhs) > 0 {
						if ident, ok := s.Lhs[0].(*ast.Ident); ok {
							scope = w.c.pass.TypesInfo.ObjectOf(ident)
						}
					}
					w.enterBorrow(bc, scope)
					return
				}
			}
		}
		for _, e := range s.Rhs {
			w.exprCalls(e)
		}
	case *ast.DeclStmt:
		if gd, ok := s.Decl.(*ast.GenDecl); ok {
			for _, spec := range gd.Specs {
				vs, ok := spec.(*ast.ValueSpec)
				if !ok || len(vs.Values) != 1 {
					continue
				}
				if call, ok := vs.Values[0].(*ast.CallExpr); ok {
					if bc, ok := w.c.asBorrowCall(call); ok {
						var scope types.Object
						if len(vs.Names) > 0 {
							scope = w.c.pass.TypesInfo.ObjectOf(vs.Names[0])
						}
						w.enterBorrow(bc, scope)
						continue
					}
				}
				for _, e := range vs.Values {
					w.exprCalls(e)
				}
			}
		}
	case *ast.ExprStmt:
		if call, ok := s.X.(*ast.CallExpr); ok {
			if obj, ok := w.c.asEndCall(call); ok {
				w.closeWindow(obj)
				return
			}
		}
		w.exprCalls(s.X)
	case *ast.DeferStmt:
		// A deferred End closes the window at function exit, after every
		// statement the walker still has to see. Keep the window open.
	case *ast.ReturnStmt:
		for _, e := range s.Results {
			w.exprCalls(e)
		}
	case *ast.BlockStmt:
		w.scoped(func() { w.stmts(s.List) })
	case *ast.IfStmt:
		if s.Init != nil {
			w.stmt(s.Init)
		}
		w.exprCalls(s.Cond)
		w.branch(func() { w.stmts(s.Body.List) })
		if s.Else != nil {
			w.branch(func() { w.stmt(s.Else) })
		}
	case *ast.ForStmt:
		if s.Init != nil {
			w.stmt(s.Init)
		}
		w.branch(func() { w.stmts(s.Body.List) })
	case *ast.RangeStmt:
		w.branch(func() { w.stmts(s.Body.List) })
	case *ast.SwitchStmt:
		if s.Init != nil {
			w.stmt(s.Init)
		}
		for _, clause := range s.Body.List {
			if cc, ok := clause.(*ast.CaseClause); ok {
				w.branch(func() { w.stmts(cc.Body) })
			}
		}
	case *ast.TypeSwitchStmt:
		for _, clause := range s.Body.List {
			if cc, ok := clause.(*ast.CaseClause); ok {
				w.branch(func() { w.stmts(cc.Body) })
			}
		}
	case *ast.GoStmt:
		// Borrows inside a goroutine overlap nondeterministically with
		// the spawning function; the runtime ledger owns that case.
	case *ast.LabeledStmt:
		w.stmt(s.Stmt)
	}
}

// scoped runs f for a block that always executes. Windows f opened die
// with the block, while an End inside f on an outer window stays closed:
// closeWindow marks entries in place and never shifts them, so
// truncating to the entry length touches only the block's own windows.
func (w *aliasingWalker) scoped(f func()) {
	n := len(w.open)
	f()
	w.open = w.open[:n]
}

// branch runs f for a body that may not execute. Windows f opened die
// with it, and outer windows f closed come back: the End may not run on
// every path, so the conservative answer is that they are still open.
func (w *aliasingWalker) branch(f func()) {
	saved := append([]window(nil), w.open...)
	f()
	w.open = saved
}

// exprCalls scans an expression for With-family calls, entering their
// windows and walking their callbacks in place.
func (w *aliasingWalker) exprCalls(e ast.Expr) {
	if e == nil {
		return
	}
	ast.Inspect(e, func(n ast.Node) bool {
		if _, ok := n.(*ast.FuncLit); ok {
			// Reached only for literals that are not a With callback;
			// their execution point is unknown.
			return false
		}
		call, ok := n.(*ast.CallExpr)
		if !ok {
			return true
		}
		if wc, ok := w.c.asWithCall(call); ok {
			w.enterWith(wc)
			return false
		}
		if bc, ok := w.c.asBorrowCall(call); ok {
			// Borrow in expression position: no binding to close it
			// through, so it only participates in overlap detection.
			w.enterBorrow(bc, nil)
			return false
		}
		return true
	})
}

// enterBorrow reports an overlap and opens a window for non-Try borrows.
func (w *aliasingWalker) enterBorrow(bc borrowCall, scope types.Object) {
	if bc.try {
		return
	}
	w.reportOverlap(bc.call, bc.owner, bc.exclusive)
	w.open = append(w.open, window{owner: bc.owner, exclusive: bc.exclusive, scope: scope})
}

// enterWith opens the helper's window around its callback walk.
// Truncating back to the entry length drops the helper's window along
// with any binding the callback left open, since the callback's
// variables are out of scope once it returns.
func (w *aliasingWalker) enterWith(wc withCall) {
	if !wc.try {
		w.reportOverlap(wc.call, wc.owner, wc.exclusive)
	}
	n := len(w.open)
	w.open = append(w.open, window{owner: wc.owner, exclusive: wc.exclusive})
	if wc.callback != nil {
		w.stmts(wc.callback.Body.List)
	}
	w.open = w.open[:n]
}

// closeWindow marks the most recent open window tracked for the scope.
func (w *aliasingWalker) closeWindow(scope types.Object) {
	for i := len(w.open) - 1; i >= 0; i-- {
		if w.open[i].scope == scope && !w.open[i].closed {
			w.open[i].closed = true
			return
		}
	}
}

func (w *aliasingWalker) reportOverlap(call *ast.CallExpr, owner string, exclusive bool) {
	for i := len(w.open) - 1; i >= 0; i-- {
		live := w.open[i]
		if live.closed || live.owner != owner {
			continue
		}
		if !exclusive && !live.exclusive {
			continue
		}
		newMode, liveMode := "shared", "shared"
		if exclusive {
			newMode = "exclusive"
		}
		if live.exclusive {
			liveMode = "exclusive"
		}
		w.c.report(call.Pos(), "%s borrow of %q overlaps a live %s borrow", newMode, owner, liveMode)
		return
	}
}
