package env

import (
	"github.com/yis-lang/yisc/ast"
	"github.com/yis-lang/yisc/types"
)

// ResolvePass performs spec.md §4.B passes 1, 7, 8, and 9: deriving
// and validating each cask's name, resolving class field/method
// signatures and free-function signatures via TypeRef→Type, and
// installing the program's single entry() signature.
type ResolvePass struct{}

func (ResolvePass) Name() string { return "resolve" }

func (p ResolvePass) Run(prog *ast.Program, ctx *buildContext) {
	for _, mod := range prog.Modules {
		p.validateCaskName(mod, ctx)
	}
	for _, mod := range prog.Modules {
		for _, decl := range mod.Decls {
			switch d := decl.(type) {
			case *ast.ClassDecl:
				p.resolveClassBody(d, mod, ctx)
			case *ast.FunDecl:
				p.resolveFunSig(d, mod, ctx)
			case *ast.EntryDecl:
				p.resolveEntry(d, mod, ctx)
			}
		}
	}
}

func (p ResolvePass) validateCaskName(mod *ast.Module, ctx *buildContext) {
	derived := deriveCaskName(mod.Path)
	info := ctx.genv.Modules[mod.Path]
	if info == nil {
		return
	}
	if info.DeclaredName == "" {
		info.DeclaredName = derived
		return
	}
	if info.DeclaredName != derived && !mod.IsEntryModule {
		ctx.errorf(mod.Path, mod.Position,
			"cask declaration %q does not match filename-derived name %q", info.DeclaredName, derived)
	}
}

func (p ResolvePass) resolveClassBody(d *ast.ClassDecl, mod *ast.Module, ctx *buildContext) {
	ci := ctx.genv.Classes[ClassQName(mod.Path, d.Name)]
	if ci == nil {
		return
	}

	seenFields := map[string]bool{}
	for _, f := range d.Fields {
		if seenFields[f.Name] {
			ctx.errorf(mod.Path, f.Position, "duplicate field %q in class %q", f.Name, d.Name)
			continue
		}
		seenFields[f.Name] = true
		ty, err := resolveTypeRef(f.Type, mod.Path, ctx)
		if err != nil {
			ctx.errorf(mod.Path, f.Position, "field %q: %s", f.Name, err)
			continue
		}
		ci.Fields = append(ci.Fields, FieldEntry{Name: f.Name, Type: ty})
	}

	seenMethods := map[string]bool{}
	for _, m := range d.Methods {
		if seenMethods[m.Name] {
			ctx.errorf(mod.Path, m.Position, "duplicate method %q in class %q", m.Name, d.Name)
			continue
		}
		seenMethods[m.Name] = true
		if sig, ok := p.resolveMethodSig(m, d.Name, mod, ctx); ok {
			ci.Methods = append(ci.Methods, MethodEntry{Name: m.Name, Sig: sig})
		}
	}
}

// resolveMethodSig validates the `this`-receiver rule and resolves
// the remaining parameters and return type (spec.md §4.B pass 7).
func (p ResolvePass) resolveMethodSig(m *ast.MethodDecl, className string, mod *ast.Module, ctx *buildContext) (*FunSig, bool) {
	if len(m.Params) == 0 || !m.Params[0].IsThis {
		ctx.errorf(mod.Path, m.Position, "method %q must begin with a `this` parameter", m.Name)
		return nil, false
	}
	recvMut := m.Params[0].IsMut
	rest := m.Params[1:]

	ok := true
	params := make([]*types.Type, 0, len(rest))
	names := make([]string, 0, len(rest))
	mut := make([]bool, 0, len(rest))
	for _, param := range rest {
		if param.IsThis {
			ctx.errorf(mod.Path, param.Position, "parameter named `this` is only allowed as a method's first parameter")
			ok = false
			continue
		}
		ty, err := resolveTypeRef(param.Type, mod.Path, ctx)
		if err != nil {
			ctx.errorf(mod.Path, param.Position, "parameter %q: %s", param.Name, err)
			ok = false
			continue
		}
		params = append(params, ty)
		names = append(names, param.Name)
		mut = append(mut, param.IsMut)
	}

	ret, err := resolveTypeRef(m.Return, mod.Path, ctx)
	if err != nil {
		ctx.errorf(mod.Path, m.Position, "method %q return type: %s", m.Name, err)
		ok = false
	}
	if !ok {
		return nil, false
	}

	return &FunSig{
		Name:       m.Name,
		Module:     mod.DeclaredName,
		ModulePath: mod.Path,
		Params:     params,
		ParamNames: names,
		ParamMut:   mut,
		Ret:        ret,
		IsMethod:   true,
		RecvMut:    recvMut,
		OwnerClass: className,
	}, true
}

func (p ResolvePass) resolveFunSig(d *ast.FunDecl, mod *ast.Module, ctx *buildContext) {
	sig := ctx.genv.Functions[FuncQName(mod.Path, d.Name)]
	if sig == nil {
		return
	}

	ok := true
	params := make([]*types.Type, 0, len(d.Params))
	names := make([]string, 0, len(d.Params))
	mut := make([]bool, 0, len(d.Params))
	for _, param := range d.Params {
		if param.IsThis {
			ctx.errorf(mod.Path, param.Position, "`this` is only allowed as a method's first parameter, not in a free function")
			ok = false
			continue
		}
		ty, err := resolveTypeRef(param.Type, mod.Path, ctx)
		if err != nil {
			ctx.errorf(mod.Path, param.Position, "parameter %q: %s", param.Name, err)
			ok = false
			continue
		}
		params = append(params, ty)
		names = append(names, param.Name)
		mut = append(mut, param.IsMut)
	}

	ret, err := resolveTypeRef(d.Return, mod.Path, ctx)
	if err != nil {
		ctx.errorf(mod.Path, d.Position, "function %q return type: %s", d.Name, err)
		ok = false
	}
	if !ok {
		return
	}

	sig.Params = params
	sig.ParamNames = names
	sig.ParamMut = mut
	sig.Ret = ret
}

func (p ResolvePass) resolveEntry(d *ast.EntryDecl, mod *ast.Module, ctx *buildContext) {
	if !mod.IsEntryModule {
		ctx.errorf(mod.Path, d.Position, "entry() is only allowed in the entry module")
		return
	}
	if ctx.genv.Entry != nil {
		ctx.errorf(mod.Path, d.Position, "duplicate entry() declaration")
		return
	}
	sig := &FunSig{Name: "entry", Module: mod.DeclaredName, ModulePath: mod.Path, Ret: types.VoidType}
	ctx.genv.Entry = sig
}
