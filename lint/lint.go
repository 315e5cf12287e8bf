// Package lint implements the control-flow lint pass (spec.md §4.E):
// it runs after type checking, over the whole program, and produces
// non-fatal findings in warn mode or promotes them to errors in
// strict mode.
package lint

import (
	"github.com/yis-lang/yisc/ast"
	"github.com/yis-lang/yisc/check"
	"github.com/yis-lang/yisc/diag"
	"github.com/yis-lang/yisc/env"
	"github.com/yis-lang/yisc/types"
)

// Linter walks every function, method, and entry body in the program
// looking for the four findings of spec.md §4.E.
type Linter struct {
	genv  *env.GlobalEnv
	mode  diag.LintMode
	diags []diag.Diagnostic
}

// Run lints prog against the already-built genv and returns every
// finding, at SeverityWarning (warn mode) or SeverityError (strict
// mode, per spec.md §4.E "promote to error, final nonzero exit").
func Run(prog *ast.Program, genv *env.GlobalEnv, mode diag.LintMode) []diag.Diagnostic {
	l := &Linter{genv: genv, mode: mode}
	for _, mod := range prog.Modules {
		for _, decl := range mod.Decls {
			switch d := decl.(type) {
			case *ast.FunDecl:
				sig := genv.Functions[env.FuncQName(mod.Path, d.Name)]
				l.lintBody(d.Body, mod.Path, "", sig, nil)
			case *ast.ClassDecl:
				ci := genv.Classes[env.ClassQName(mod.Path, d.Name)]
				for _, m := range d.Methods {
					var sig *env.FunSig
					if ci != nil {
						sig, _ = ci.MethodByName(m.Name)
					}
					l.lintBody(m.Body, mod.Path, d.Name, sig, m.Params)
				}
			case *ast.EntryDecl:
				l.lintBody(d.Body, mod.Path, "", nil, nil)
			}
		}
	}
	return l.diags
}

func retOf(sig *env.FunSig) *types.Type {
	if sig == nil || sig.Ret == nil {
		return types.VoidType
	}
	return sig.Ret
}

func (l *Linter) warn(path string, pos ast.Position, format string, args ...any) {
	d := diag.Warnf(path, pos, format, args...)
	if l.mode == diag.LintStrict {
		d.Severity = diag.SeverityError
	}
	l.diags = append(l.diags, d)
}

// lintBody runs the four checks of spec.md §4.E against one function
// body, using a scratch check.Context purely to recover expression
// types — its own diagnostics (already raised by the type-checking
// pass) are discarded here. methodParams is non-nil only for a
// method, and its Params[0] ("this") is bound alongside the resolved
// signature's remaining parameter types.
func (l *Linter) lintBody(body *ast.BlockStmt, modulePath, className string, sig *env.FunSig, methodParams []ast.Param) {
	if body == nil {
		return
	}
	c := check.NewContext(l.genv, modulePath)
	c.CurrentClass = className

	if className != "" && len(methodParams) > 0 {
		c.Locals.Define(check.Binding{Name: "this", Type: types.ClassType(env.ClassQName(modulePath, className)), IsMut: methodParams[0].IsMut})
		rest := methodParams[1:]
		for i, p := range rest {
			pt := types.AnyType
			if sig != nil && i < len(sig.Params) {
				pt = sig.Params[i]
			}
			c.Locals.Define(check.Binding{Name: p.Name, Type: pt, IsMut: p.IsMut})
		}
	} else if sig != nil {
		for i, name := range sig.ParamNames {
			mut := false
			if i < len(sig.ParamMut) {
				mut = sig.ParamMut[i]
			}
			c.Locals.Define(check.Binding{Name: name, Type: sig.Params[i], IsMut: mut})
		}
	}

	retType := retOf(sig)
	l.checkReturnCoverage(body, retType)
	l.walkStmt(body, c, retType)
}

// exprType recovers e's type using c without retaining any
// diagnostics c.ExprType raised along the way.
func exprType(c *check.Context, e ast.Expr) *types.Type {
	before := len(c.Diags)
	t := c.ExprType(e)
	c.Diags = c.Diags[:before]
	return t
}
