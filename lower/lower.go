// Package lower implements the AST lowering pass (spec.md §4.C): a
// pure, idempotent AST-to-AST rewrite that desugars a small set of
// surface forms into the canonical shapes the checker and codegen
// expect, run once per program before env.Build.
//
// check's stdr-prelude resolution (context.go's stdrBareNames) only
// ever resolves a bare call — there is no registered "stdr" module in
// GlobalEnv for a cask-qualified stdr.len(x)/stdr.writef(...) to
// resolve against. So both lowering rules that mention `stdr.` target
// the same canonical bare-call shape: `#x` becomes bare `len(x)`, and
// an explicit `stdr.writef(...)`/`stdr.readf(...)`/`stdr.str(...)`
// is stripped down to its bare form too.
package lower

import (
	"github.com/yis-lang/yisc/arena"
	"github.com/yis-lang/yisc/ast"
)

// Lowerer owns the arena backing every node it synthesizes during one
// pass, the way check.Locals owns the arena backing one function's
// scope chain.
type Lowerer struct {
	arena *arena.Arena[ast.Node]
}

func New() *Lowerer {
	return &Lowerer{arena: arena.New[ast.Node](64)}
}

func (l *Lowerer) track(n ast.Node) ast.Node {
	l.arena.Alloc(n)
	return n
}

// Program lowers every module's bodies in place and returns prog for
// chaining.
func Program(prog *ast.Program) *ast.Program {
	l := New()
	for _, m := range prog.Modules {
		l.module(m)
	}
	return prog
}

func (l *Lowerer) module(m *ast.Module) {
	for _, d := range m.Decls {
		switch decl := d.(type) {
		case *ast.FunDecl:
			l.block(decl.Body)
		case *ast.ClassDecl:
			for _, meth := range decl.Methods {
				l.block(meth.Body)
			}
		case *ast.EntryDecl:
			l.block(decl.Body)
		case *ast.DefDecl:
			decl.Value = l.expr(decl.Value)
		}
	}
}
