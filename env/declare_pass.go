package env

import (
	"strings"

	"github.com/yis-lang/yisc/ast"
)

// DeclarePass registers every module, class, and function name before
// any type reference is resolved, so later passes can see forward
// declarations regardless of declaration order (spec.md §4.B passes
// 2-4; the cask-name check of pass 1 runs in ResolvePass; grounded on the teacher's DeclarationPass doc comment: "Register
// all type and function names without resolving their references").
type DeclarePass struct{}

func (DeclarePass) Name() string { return "declare" }

func (p DeclarePass) Run(prog *ast.Program, ctx *buildContext) {
	var entryModules []string

	for _, mod := range prog.Modules {
		if _, dup := ctx.genv.Modules[mod.Path]; dup {
			ctx.errorf(mod.Path, mod.Position, "duplicate module path %q", mod.Path)
			continue
		}
		imports := make([]string, len(mod.Imports))
		for i, imp := range mod.Imports {
			imports[i] = strings.TrimSuffix(imp.Name, ".yi")
		}
		info := &ModuleInfo{
			Path:         mod.Path,
			DeclaredName: mod.DeclaredName,
			Imports:      imports,
			Consts:       make(map[string]ConstVal),
			Globals:      make(map[string]GlobalVar),
			IsEntry:      mod.IsEntryModule,
		}
		ctx.genv.Modules[mod.Path] = info
		ctx.moduleOrder = append(ctx.moduleOrder, mod.Path)
		if mod.IsEntryModule {
			entryModules = append(entryModules, mod.Path)
		}

		for _, decl := range mod.Decls {
			p.declare(decl, mod, ctx)
		}
	}

	if len(entryModules) == 0 {
		ctx.errorf("", ast.Position{}, "program has no entry cask: exactly one module must be marked as the entry module")
	} else if len(entryModules) > 1 {
		for _, m := range entryModules[1:] {
			ctx.errorf(m, ast.Position{}, "multiple entry casks found; entry() is only allowed in the entry module")
		}
	}
}

func (p DeclarePass) declare(decl ast.Decl, mod *ast.Module, ctx *buildContext) {
	switch d := decl.(type) {
	case *ast.FunDecl:
		qname := FuncQName(mod.Path, d.Name)
		if _, dup := ctx.genv.Functions[qname]; dup {
			ctx.errorf(mod.Path, d.Position, "duplicate function %q", d.Name)
			return
		}
		ctx.genv.Functions[qname] = &FunSig{
			Name:       d.Name,
			Module:     mod.DeclaredName,
			ModulePath: mod.Path,
			Vis:        d.Vis,
		}

	case *ast.ClassDecl:
		qname := ClassQName(mod.Path, d.Name)
		if _, dup := ctx.genv.Classes[qname]; dup {
			ctx.errorf(mod.Path, d.Position, "duplicate class %q", d.Name)
			return
		}
		ci := &ClassInfo{
			Name:       d.Name,
			Module:     mod.DeclaredName,
			QName:      qname,
			Vis:        d.Vis,
			Kind:       d.Kind,
			ModulePath: mod.Path,
		}
		for _, m := range d.Methods {
			if m.Name == "init" {
				ci.HasInit = true
			}
		}
		ctx.genv.Classes[qname] = ci

	case *ast.ConstDecl:
		if _, dup := ctx.genv.Modules[mod.Path].Consts[d.Name]; dup {
			ctx.errorf(mod.Path, d.Position, "duplicate const %q", d.Name)
			return
		}
		// Value is resolved in ConstantsPass; placeholder registers the name.
		ctx.genv.Modules[mod.Path].Consts[d.Name] = ConstVal{}

	case *ast.DefDecl:
		if _, dup := ctx.genv.Modules[mod.Path].Globals[d.Name]; dup {
			ctx.errorf(mod.Path, d.Position, "duplicate global %q", d.Name)
			return
		}
		ctx.genv.Modules[mod.Path].Globals[d.Name] = GlobalVar{Name: d.Name, IsMut: d.IsMut}

	case *ast.EntryDecl:
		// Entry uniqueness/placement is validated at the module level above;
		// the function signature itself is installed in ResolvePass.
	}
}
