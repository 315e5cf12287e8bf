package codegen

import (
	"fmt"

	"github.com/yis-lang/yisc/ast"
	"github.com/yis-lang/yisc/check"
	"github.com/yis-lang/yisc/env"
	"github.com/yis-lang/yisc/types"
)

// collectLambdas walks every function, method, entry, and global-init
// body up front, before any declaration is written, mirroring
// codegen_collect_lambdas: the original generates lambda bodies ahead
// of the functions that reference them, which only works if every
// lambda in the program is known before forward declarations are
// emitted. This pass also precomputes e.fnWrappers for every
// module-level function so a function-value reference never needs a
// forward declaration inserted retroactively.
func (e *Emitter) collectLambdas() {
	n := 0
	walkBody := func(mod string, body ast.Stmt) {
		walkStmtForLambdas(body, func(lam *ast.LambdaExpr) {
			n++
			name := mangleLambda(mod, n)
			e.lambdaName[lam] = name
			e.lambdas = append(e.lambdas, lambdaUnit{name: name, lam: lam, mod: mod})
		})
	}

	for _, path := range e.sortedModulePaths() {
		for _, decl := range moduleDecl(e.prog, path).Decls {
			switch d := decl.(type) {
			case *ast.FunDecl:
				walkBody(path, d.Body)
				sig := e.genv.Functions[env.FuncQName(path, d.Name)]
				e.fnWrappers = append(e.fnWrappers, fnWrapperUnit{mod: path, name: d.Name, sig: sig})
			case *ast.ClassDecl:
				for _, m := range d.Methods {
					walkBody(path, m.Body)
				}
			case *ast.DefDecl:
				walkExprForLambdas(d.Value, func(lam *ast.LambdaExpr) {
					n++
					name := mangleLambda(path, n)
					e.lambdaName[lam] = name
					e.lambdas = append(e.lambdas, lambdaUnit{name: name, lam: lam, mod: path})
				})
			case *ast.EntryDecl:
				walkBody(path, d.Body)
			}
		}
	}
}

// emitLambdaDefs emits every collected lambda as a standalone
// top-level function. Lambdas see only their own parameters
// (argv[0..N-1]); env is always NULL since this language's lambdas do
// not close over the enclosing scope.
func (e *Emitter) emitLambdaDefs() error {
	if len(e.lambdas) == 0 {
		return nil
	}
	e.w.line("// ---- lambdas ----")
	for _, u := range e.lambdas {
		e.w.line("static ErgoVal %s(void *env, int argc, ErgoVal *argv) {", u.name)
		e.w.indent++
		e.w.line("(void)env; (void)argc;")
		c := check.NewContext(e.genv, u.mod)
		for i, p := range u.lam.Params {
			e.w.line("ErgoVal %s = argv[%d];", p.Name, i)
			c.Locals.Define(check.Binding{Name: p.Name, Type: types.AnyType})
		}
		val, err := e.emitExpr(u.lam.Body, c)
		if err != nil {
			return err
		}
		e.w.line("return %s;", val)
		e.w.indent--
		e.w.line("}")
		e.w.line("")
	}
	return nil
}

// emitLambdaRef returns the pre-collected wrapper value for a lambda
// literal encountered at expression position.
func (e *Emitter) emitLambdaRef(x *ast.LambdaExpr, c *check.Context) (string, error) {
	name, ok := e.lambdaName[x]
	if !ok {
		return "", fmt.Errorf("codegen: lambda not found in collection pass")
	}
	return fmt.Sprintf("EV_FN(ergo_fn_new(%s, %d))", name, len(x.Params)), nil
}

// emitFnWrapperDefs emits one trampoline per module-level function so
// it can be passed around as an ErgoVal. Declared for every function
// unconditionally rather than only ones actually referenced as
// values, which avoids re-deriving whether each call site is a direct
// call or a value use.
func (e *Emitter) emitFnWrapperDefs() error {
	if len(e.fnWrappers) == 0 {
		return nil
	}
	e.w.line("// ---- function value wrappers ----")
	for _, u := range e.fnWrappers {
		e.w.line("static ErgoVal %s(void *env, int argc, ErgoVal *argv) {", mangleFnWrapper(u.mod, u.name))
		e.w.indent++
		e.w.line("(void)env; (void)argc;")
		args := ""
		for i := range u.sig.Params {
			if i > 0 {
				args += ", "
			}
			args += fmt.Sprintf("argv[%d]", i)
		}
		if retTy := retOf(u.sig); retTy.Kind == types.KVoid {
			e.w.line("%s(%s);", mangleGlobal(u.mod, u.name), args)
			e.w.line("return EV_NULLV;")
		} else {
			e.w.line("return %s(%s);", mangleGlobal(u.mod, u.name), args)
		}
		e.w.indent--
		e.w.line("}")
		e.w.line("")
	}
	return nil
}

// walkStmtForLambdas visits every lambda literal reachable from a
// statement's expressions, recursing into nested blocks.
func walkStmtForLambdas(s ast.Stmt, visit func(*ast.LambdaExpr)) {
	switch st := s.(type) {
	case *ast.LetStmt:
		walkExprForLambdas(st.Value, visit)
	case *ast.ConstStmt:
		walkExprForLambdas(st.Value, visit)
	case *ast.ReturnStmt:
		if st.Value != nil {
			walkExprForLambdas(st.Value, visit)
		}
	case *ast.IfStmt:
		for _, arm := range st.Arms {
			if arm.Cond != nil {
				walkExprForLambdas(arm.Cond, visit)
			}
			walkStmtForLambdas(arm.Body, visit)
		}
	case *ast.ForStmt:
		if st.Init != nil {
			walkStmtForLambdas(st.Init, visit)
		}
		if st.Cond != nil {
			walkExprForLambdas(st.Cond, visit)
		}
		if st.Step != nil {
			walkStmtForLambdas(st.Step, visit)
		}
		walkStmtForLambdas(st.Body, visit)
	case *ast.ForeachStmt:
		walkExprForLambdas(st.Iterable, visit)
		walkStmtForLambdas(st.Body, visit)
	case *ast.BlockStmt:
		for _, inner := range st.Stmts {
			walkStmtForLambdas(inner, visit)
		}
	case *ast.ExprStmt:
		walkExprForLambdas(st.X, visit)
	}
}

// walkExprForLambdas visits every lambda literal reachable from an
// expression tree, including lambda bodies nested inside other
// lambdas.
func walkExprForLambdas(expr ast.Expr, visit func(*ast.LambdaExpr)) {
	switch x := expr.(type) {
	case *ast.LambdaExpr:
		visit(x)
		walkExprForLambdas(x.Body, visit)
	case *ast.TupleExpr:
		for _, el := range x.Elems {
			walkExprForLambdas(el, visit)
		}
	case *ast.ArrayExpr:
		for _, el := range x.Elems {
			walkExprForLambdas(el, visit)
		}
	case *ast.UnaryExpr:
		walkExprForLambdas(x.X, visit)
	case *ast.BinaryExpr:
		walkExprForLambdas(x.L, visit)
		walkExprForLambdas(x.R, visit)
	case *ast.AssignExpr:
		walkExprForLambdas(x.Target, visit)
		walkExprForLambdas(x.Value, visit)
	case *ast.CallExpr:
		walkExprForLambdas(x.Callee, visit)
		for _, a := range x.Args {
			walkExprForLambdas(a, visit)
		}
	case *ast.IndexExpr:
		walkExprForLambdas(x.X, visit)
		walkExprForLambdas(x.Index, visit)
	case *ast.MemberExpr:
		walkExprForLambdas(x.X, visit)
	case *ast.ParenExpr:
		walkExprForLambdas(x.X, visit)
	case *ast.TernaryExpr:
		walkExprForLambdas(x.Cond, visit)
		walkExprForLambdas(x.Then, visit)
		walkExprForLambdas(x.Else, visit)
	case *ast.NewExpr:
		for _, a := range x.Positional {
			walkExprForLambdas(a, visit)
		}
		for _, na := range x.Named {
			walkExprForLambdas(na.Value, visit)
		}
	case *ast.MoveExpr:
		walkExprForLambdas(x.X, visit)
	case *ast.BlockExpr:
		walkStmtForLambdas(x.Block, visit)
	case *ast.IfExpr:
		for _, arm := range x.Arms {
			if arm.Cond != nil {
				walkExprForLambdas(arm.Cond, visit)
			}
			walkExprForLambdas(arm.Body, visit)
		}
	case *ast.MatchExpr:
		walkExprForLambdas(x.Scrutinee, visit)
		for _, arm := range x.Arms {
			walkExprForLambdas(arm.Body, visit)
		}
	case *ast.StringLit:
		for _, part := range x.Parts {
			if part.Expr != nil {
				walkExprForLambdas(part.Expr, visit)
			}
		}
	}
}
