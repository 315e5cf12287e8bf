package env

import (
	"github.com/yis-lang/yisc/ast"
	"github.com/yis-lang/yisc/diag"
)

// Build runs the full global-environment pipeline over prog (spec.md
// §4.B) and returns the resulting GlobalEnv along with any
// diagnostics raised along the way. checker lets the constant and
// global-typing passes delegate into the expression type checker
// without env importing the check package (see TypeChecker's doc
// comment).
func Build(prog *ast.Program, checker TypeChecker) (*GlobalEnv, []diag.Diagnostic) {
	ctx := newBuildContext(checker)

	pm := NewPassManager(
		DeclarePass{},
		ResolvePass{},
		ConstantsPass{},
		TypeGlobalsPass{},
	)
	pm.RunAll(prog, ctx)

	return ctx.genv, ctx.diags
}
