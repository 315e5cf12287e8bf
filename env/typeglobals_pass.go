package env

import "github.com/yis-lang/yisc/ast"

// TypeGlobalsPass implements spec.md §4.B pass 10. Every `def`'s
// initializer is type-checked in declaration order, with the global's
// slot type populated immediately afterward so later initializers can
// see it. A cycle among globals therefore always surfaces as the
// checker's "used before definition" error on whichever Def is
// reached first in declaration order — see DESIGN.md's decision for
// why no separate dependency-graph cycle detector is built.
type TypeGlobalsPass struct{}

func (TypeGlobalsPass) Name() string { return "type-globals" }

func (p TypeGlobalsPass) Run(prog *ast.Program, ctx *buildContext) {
	byPath := make(map[string]*ast.Module, len(prog.Modules))
	for _, mod := range prog.Modules {
		byPath[mod.Path] = mod
	}

	for _, path := range ctx.moduleOrder {
		mod := byPath[path]
		if mod == nil {
			continue
		}
		for _, decl := range mod.Decls {
			d, ok := decl.(*ast.DefDecl)
			if !ok {
				continue
			}
			ty, err := ctx.checker.TypeOfGlobalExpr(d.Value, mod.Path, ctx.genv)
			if err != nil {
				ctx.errorf(mod.Path, d.Position, "global %q: %s", d.Name, err)
				continue
			}
			gv := ctx.genv.Modules[mod.Path].Globals[d.Name]
			gv.Type = ty
			ctx.genv.Modules[mod.Path].Globals[d.Name] = gv
		}
	}
}
