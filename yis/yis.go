// Package yis is the thin facade a driver embeds: it wires the
// pipeline stages (lower, env, check, lint, codegen) together in the
// one order the data flow allows, the way pkg/dwscript's Engine is the
// single entry point wrapping its own compile pipeline.
package yis

import (
	"github.com/yis-lang/yisc/ast"
	"github.com/yis-lang/yisc/check"
	"github.com/yis-lang/yisc/codegen"
	"github.com/yis-lang/yisc/diag"
	"github.com/yis-lang/yisc/env"
	"github.com/yis-lang/yisc/lint"
	"github.com/yis-lang/yisc/lower"
)

// Result is the successful output of Compile: generated C source plus
// the environment it was built from, in case a caller wants to
// inspect resolved types or class layouts.
type Result struct {
	C    string
	Genv *env.GlobalEnv
}

// Compile runs prog through AST lowering, global-environment
// construction, per-function type checking, the control-flow lint
// pass, and C emission, stopping at the first stage that reports an
// error (or a lint warning under opts.LintMode's strict setting). It
// never writes to an output stream itself; rendering diagnostics is
// left to a diag.Renderer the caller owns.
func Compile(prog *ast.Program, opts diag.Options) (*Result, []diag.Diagnostic) {
	prog = lower.Program(prog)

	genv, diags := env.Build(prog, check.Checker{})
	if diag.HasErrors(diags, opts.LintMode) {
		return nil, diags
	}

	for _, mod := range prog.Modules {
		for _, decl := range mod.Decls {
			switch d := decl.(type) {
			case *ast.FunDecl:
				diags = append(diags, check.CheckFunction(d, mod.Path, genv)...)
			case *ast.ClassDecl:
				for _, m := range d.Methods {
					diags = append(diags, check.CheckMethod(m, d.Name, mod.Path, genv)...)
				}
			case *ast.EntryDecl:
				diags = append(diags, check.CheckEntry(d, mod.Path, genv)...)
			}
		}
	}
	if diag.HasErrors(diags, opts.LintMode) {
		return nil, diags
	}

	diags = append(diags, lint.Run(prog, genv, opts.LintMode)...)
	if diag.HasErrors(diags, opts.LintMode) {
		return nil, diags
	}

	c, err := codegen.Emit(prog, genv)
	if err != nil {
		diags = append(diags, diag.Errorf("", ast.Position{}, "%s", err.Error()))
		return nil, diags
	}
	return &Result{C: c, Genv: genv}, diags
}
