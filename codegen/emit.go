package codegen

import (
	"fmt"
	"sort"
	"strings"

	"github.com/yis-lang/yisc/ast"
	"github.com/yis-lang/yisc/check"
	"github.com/yis-lang/yisc/env"
	"github.com/yis-lang/yisc/types"
)

// Emitter walks the whole program once the checker and linter have
// signed off on it, producing one C translation unit.
type Emitter struct {
	genv       *env.GlobalEnv
	prog       *ast.Program
	w          *writer
	tmp        int
	lambdas    []lambdaUnit
	lambdaName map[*ast.LambdaExpr]string
	fnWrappers []fnWrapperUnit
}

// lambdaUnit is one synthesized closure body queued for emission.
// Lambdas in this language capture nothing from their enclosing scope
// (the original codegen resets all lexical state before generating a
// lambda body), so a unit only needs the literal node and the module
// it was found in to type-check its own parameters.
type lambdaUnit struct {
	name string
	lam  *ast.LambdaExpr
	mod  string
}

// fnWrapperUnit is a thin ErgoFn-shaped trampoline generated so a free
// function can be passed around as a first-class value.
type fnWrapperUnit struct {
	mod  string
	name string
	sig  *env.FunSig
}

// Emit produces the full C source for prog, assuming prog has already
// passed lowering, env.Build, per-function checking, and lint.
func Emit(prog *ast.Program, genv *env.GlobalEnv) (string, error) {
	e := &Emitter{genv: genv, prog: prog, w: &writer{}, lambdaName: map[*ast.LambdaExpr]string{}}
	e.w.raw(runtimePrelude)
	e.w.line("")

	e.collectLambdas()

	e.emitGlobalSlots()
	if err := e.emitClassDefs(); err != nil {
		return "", err
	}
	e.emitForwardDecls()
	if err := e.emitLambdaDefs(); err != nil {
		return "", err
	}
	if err := e.emitModuleInits(); err != nil {
		return "", err
	}
	if err := e.emitFunctionsAndMethods(); err != nil {
		return "", err
	}
	if err := e.emitFnWrapperDefs(); err != nil {
		return "", err
	}
	if err := e.emitEntryAndMain(); err != nil {
		return "", err
	}
	return e.w.String(), nil
}

func (e *Emitter) nextTmp() string {
	e.tmp++
	return fmt.Sprintf("__t%d", e.tmp)
}

// sortedModulePaths returns genv.Modules' keys in the order they were
// declared (prog.Modules is already that order) rather than Go's
// randomized map order, so generated output is deterministic.
func (e *Emitter) sortedModulePaths() []string {
	paths := make([]string, 0, len(e.prog.Modules))
	for _, m := range e.prog.Modules {
		paths = append(paths, m.Path)
	}
	return paths
}

func (e *Emitter) emitGlobalSlots() {
	e.w.line("// ---- module globals ----")
	for _, path := range e.sortedModulePaths() {
		mod := e.genv.Modules[path]
		if mod == nil || len(mod.Globals) == 0 {
			continue
		}
		names := make([]string, 0, len(mod.Globals))
		for name := range mod.Globals {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			e.w.line("static ErgoVal %s = EV_NULLV;", mangleGlobalVar(path, name))
		}
	}
	e.w.line("")
}

func (e *Emitter) emitClassDefs() error {
	e.w.line("// ---- class definitions ----")
	names := make([]string, 0, len(e.genv.Classes))
	for qn := range e.genv.Classes {
		names = append(names, qn)
	}
	sort.Strings(names)
	for _, qn := range names {
		ci := e.genv.Classes[qn]
		cname := mangleClass(ci.ModulePath, ci.Name)
		e.w.line("typedef struct %s {", cname)
		e.w.indent++
		e.w.line("int ref;")
		e.w.line("void (*drop)(ErgoObj *o);")
		for _, f := range ci.Fields {
			e.w.line("ErgoVal f_%s;", f.Name)
		}
		e.w.indent--
		e.w.line("} %s;", cname)

		drop := mangleDrop(ci.ModulePath, ci.Name)
		e.w.line("static void %s(ErgoObj *o) {", drop)
		e.w.indent++
		e.w.line("%s *self = (%s *)o;", cname, cname)
		for _, f := range ci.Fields {
			e.w.line("ergo_release_val(self->f_%s);", f.Name)
		}
		e.w.indent--
		e.w.line("}")
		e.w.line("")
	}
	return nil
}

func (e *Emitter) emitForwardDecls() {
	e.w.line("// ---- forward decls ----")
	for _, path := range e.sortedModulePaths() {
		mod := e.genv.Modules[path]
		if mod == nil {
			continue
		}
		for _, decl := range moduleDecl(e.prog, path).Decls {
			switch d := decl.(type) {
			case *ast.ClassDecl:
				ci := e.genv.Classes[env.ClassQName(path, d.Name)]
				for _, m := range d.Methods {
					sig, _ := ci.MethodByName(m.Name)
					retTy := "void"
					if sig != nil && retOf(sig).Kind != types.KVoid {
						retTy = "ErgoVal"
					}
					e.w.line("static %s %s(%s);", retTy, mangleMethod(path, d.Name, m.Name), cParams(sig, true))
				}
			case *ast.FunDecl:
				sig := e.genv.Functions[env.FuncQName(path, d.Name)]
				retTy := "void"
				if sig != nil && retOf(sig).Kind != types.KVoid {
					retTy = "ErgoVal"
				}
				e.w.line("static %s %s(%s);", retTy, mangleGlobal(path, d.Name), cParams(sig, false))
			}
		}
		if mod != nil && len(mod.Globals) > 0 {
			e.w.line("static void %s(void);", mangleGlobalInit(path))
		}
	}
	e.w.line("static void ergo_entry(void);")
	for _, u := range e.fnWrappers {
		e.w.line("static ErgoVal %s(void *env, int argc, ErgoVal *argv);", mangleFnWrapper(u.mod, u.name))
	}
	e.w.line("")
}

func moduleDecl(prog *ast.Program, path string) *ast.Module {
	for _, m := range prog.Modules {
		if m.Path == path {
			return m
		}
	}
	return &ast.Module{}
}

func cParams(sig *env.FunSig, skipFirst bool) string {
	if sig == nil {
		return "void"
	}
	names := sig.ParamNames
	if len(names) == 0 {
		if skipFirst {
			return "ErgoVal self"
		}
		return "void"
	}
	parts := make([]string, 0, len(names)+1)
	if skipFirst {
		parts = append(parts, "ErgoVal self")
	}
	for _, n := range names {
		parts = append(parts, "ErgoVal "+n)
	}
	return strings.Join(parts, ", ")
}

func (e *Emitter) emitModuleInits() error {
	e.w.line("// ---- module global init ----")
	for _, path := range e.sortedModulePaths() {
		mod := e.genv.Modules[path]
		if mod == nil || len(mod.Globals) == 0 {
			continue
		}
		e.w.line("static void %s(void) {", mangleGlobalInit(path))
		e.w.indent++
		c := check.NewContext(e.genv, path)
		for _, decl := range moduleDecl(e.prog, path).Decls {
			d, ok := decl.(*ast.DefDecl)
			if !ok {
				continue
			}
			val, err := e.emitExpr(d.Value, c)
			if err != nil {
				return err
			}
			e.w.line("ergo_move_into(&%s, %s);", mangleGlobalVar(path, d.Name), val)
		}
		e.w.indent--
		e.w.line("}")
		e.w.line("")
	}
	return nil
}
