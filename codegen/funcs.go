package codegen

import (
	"github.com/yis-lang/yisc/ast"
	"github.com/yis-lang/yisc/check"
	"github.com/yis-lang/yisc/env"
	"github.com/yis-lang/yisc/types"
)

func retOf(sig *env.FunSig) *types.Type {
	if sig == nil || sig.Ret == nil {
		return types.VoidType
	}
	return sig.Ret
}

func (e *Emitter) emitFunctionsAndMethods() error {
	e.w.line("// ---- compiled functions ----")
	for _, path := range e.sortedModulePaths() {
		for _, decl := range moduleDecl(e.prog, path).Decls {
			switch d := decl.(type) {
			case *ast.ClassDecl:
				for _, m := range d.Methods {
					if err := e.emitMethod(path, d.Name, m); err != nil {
						return err
					}
				}
			case *ast.FunDecl:
				if err := e.emitFunction(path, d); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func (e *Emitter) emitFunction(path string, d *ast.FunDecl) error {
	sig := e.genv.Functions[env.FuncQName(path, d.Name)]
	retTy := "void"
	if retOf(sig).Kind != types.KVoid {
		retTy = "ErgoVal"
	}
	e.w.line("static %s %s(%s) {", retTy, mangleGlobal(path, d.Name), cParams(sig, false))
	e.w.indent++

	c := check.NewContext(e.genv, path)
	for i, name := range sig.ParamNames {
		c.Locals.Define(check.Binding{Name: name, Type: sig.Params[i]})
	}
	if err := e.emitBlock(d.Body, c); err != nil {
		return err
	}
	e.w.indent--
	e.w.line("}")
	e.w.line("")
	return nil
}

func (e *Emitter) emitMethod(path, className string, m *ast.MethodDecl) error {
	ci := e.genv.Classes[env.ClassQName(path, className)]
	sig, _ := ci.MethodByName(m.Name)
	retTy := "void"
	if retOf(sig).Kind != types.KVoid {
		retTy = "ErgoVal"
	}
	e.w.line("static %s %s(%s) {", retTy, mangleMethod(path, className, m.Name), cParams(sig, true))
	e.w.indent++
	cname := mangleClass(path, className)
	e.w.line("%s *this_obj = (%s *)self.as.p;", cname, cname)

	c := check.NewContext(e.genv, path)
	c.CurrentClass = className
	c.Locals.Define(check.Binding{Name: "this", Type: types.ClassType(env.ClassQName(path, className)), IsMut: true})
	if sig != nil {
		for i, name := range sig.ParamNames {
			c.Locals.Define(check.Binding{Name: name, Type: sig.Params[i]})
		}
	}
	if err := e.emitBlock(m.Body, c); err != nil {
		return err
	}
	e.w.indent--
	e.w.line("}")
	e.w.line("")
	return nil
}

func (e *Emitter) emitEntryAndMain() error {
	e.w.line("// ---- entry ----")
	var entryMod string
	var entryBody *ast.BlockStmt
	for _, path := range e.sortedModulePaths() {
		for _, decl := range moduleDecl(e.prog, path).Decls {
			if d, ok := decl.(*ast.EntryDecl); ok {
				entryMod = path
				entryBody = d.Body
			}
		}
	}
	e.w.line("static void ergo_entry(void) {")
	e.w.indent++
	for _, path := range e.sortedModulePaths() {
		if mod := e.genv.Modules[path]; mod != nil && len(mod.Globals) > 0 {
			e.w.line("%s();", mangleGlobalInit(path))
		}
	}
	if entryBody != nil {
		c := check.NewContext(e.genv, entryMod)
		if err := e.emitBlock(entryBody, c); err != nil {
			return err
		}
	}
	e.w.indent--
	e.w.line("}")
	e.w.line("")

	e.w.line("int main(void) {")
	e.w.indent++
	e.w.line("ergo_runtime_init();")
	e.w.line("ergo_entry();")
	e.w.line("return 0;")
	e.w.indent--
	e.w.line("}")
	return nil
}
