// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package lendcheck provides a go/analysis based analyzer for the lend
// package's borrow discipline.
//
// The runtime ledger in code.hybscloud.com/lend catches violations when
// they execute; lendcheck reports the statically visible ones at build
// time instead:
//
//   - aliasing: a borrow taken while an earlier borrow on the same owner
//     is still live in the enclosing function, when either side is
//     exclusive
//   - escape: a view or scope handed to a With/WithMut callback leaving
//     the callback via return, assignment, goroutine capture, or channel
//     send
//   - endcheck: a scope obtained from a ledger that is never ended on
//     the paths the checker can see
//
// Reports can be suppressed with a //lendcheck:ignore comment on the
// offending line or the line above it.
package lendcheck

import (
	"errors"
	"flag"
	"go/ast"
	"go/token"

	"golang.org/x/tools/go/analysis"
	"golang.org/x/tools/go/analysis/passes/inspect"
	"golang.org/x/tools/go/ast/inspector"
)

// Flags for the analyzer (all checks enabled by default).
var (
	enableAliasing bool
	enableEscape   bool
	enableEndcheck bool
)

func init() {
	Analyzer.Flags.BoolVar(&enableAliasing, "aliasing", true, "enable overlapping borrow checker")
	Analyzer.Flags.BoolVar(&enableEscape, "escape", true, "enable scope escape checker")
	Analyzer.Flags.BoolVar(&enableEndcheck, "endcheck", true, "enable unended scope checker")
}

// Analyzer is the main analyzer for lendcheck.
var Analyzer = &analysis.Analyzer{
	Name:     "lendcheck",
	Doc:      "checks borrow aliasing, scope escapes, and unended scopes in users of code.hybscloud.com/lend",
	Requires: []*analysis.Analyzer{inspect.Analyzer},
	Run:      run,
	Flags:    flag.FlagSet{},
}

var ErrNoInspector = errors.New("inspector analyzer result not found")

func run(pass *analysis.Pass) (any, error) {
	insp, ok := pass.ResultOf[inspect.Analyzer].(*inspector.Inspector)
	if !ok {
		return nil, ErrNoInspector
	}

	c := &checker{
		pass:    pass,
		ignores: buildIgnores(pass),
	}

	nodeFilter := []ast.Node{
		(*ast.FuncDecl)(nil),
	}
	insp.Preorder(nodeFilter, func(n ast.Node) {
		decl := n.(*ast.FuncDecl)
		if decl.Body == nil {
			return
		}
		if enableAliasing {
			c.checkAliasing(decl.Body)
		}
		if enableEscape {
			c.checkEscapes(decl.Body)
		}
		if enableEndcheck {
			c.checkEnds(decl.Body)
		}
	})

	return nil, nil
}

// checker carries per-pass state shared by the individual checks.
type checker struct {
	pass    *analysis.Pass
	ignores map[string]map[int]bool // filename -> set of ignored lines
}

// buildIgnores collects //lendcheck:ignore comment lines per file.
func buildIgnores(pass *analysis.Pass) map[string]map[int]bool {
	ignores := make(map[string]map[int]bool)
	for _, file := range pass.Files {
		for _, group := range file.Comments {
			for _, comment := range group.List {
				if comment.Text != "//lendcheck:ignore" {
					continue
				}
				pos := pass.Fset.Position(comment.Pos())
				lines := ignores[pos.Filename]
				if lines == nil {
					lines = make(map[int]bool)
					ignores[pos.Filename] = lines
				}
				lines[pos.Line] = true
			}
		}
	}
	return ignores
}

// report emits a diagnostic unless it is suppressed by an ignore
// directive on the same line or the line above.
func (c *checker) report(pos token.Pos, format string, args ...any) {
	p := c.pass.Fset.Position(pos)
	if lines := c.ignores[p.Filename]; lines != nil {
		if lines[p.Line] || lines[p.Line-1] {
			return
		}
	}
	c.pass.Reportf(pos, format, args...)
}
