package env

import "github.com/yis-lang/yisc/ast"

// ConstantsPass evaluates every module-level `const` with the tiny
// literal-folding interpreter of spec.md §4.B pass 5, storing the
// resulting ConstVal. It runs after DeclarePass and before
// TypeGlobalsPass, since a global `def` initializer may reference a
// const from another cask.
type ConstantsPass struct{}

func (ConstantsPass) Name() string { return "constants" }

func (p ConstantsPass) Run(prog *ast.Program, ctx *buildContext) {
	for _, mod := range prog.Modules {
		for _, decl := range mod.Decls {
			d, ok := decl.(*ast.ConstDecl)
			if !ok {
				continue
			}
			val, err := ctx.checker.TypeOfConstExpr(d.Value, mod.Path, ctx.genv)
			if err != nil {
				ctx.errorf(mod.Path, d.Position, "const %q: %s", d.Name, err)
				continue
			}
			ctx.genv.Modules[mod.Path].Consts[d.Name] = val
		}
	}
}
