package lint

import (
	"github.com/yis-lang/yisc/ast"
	"github.com/yis-lang/yisc/check"
	"github.com/yis-lang/yisc/env"
	"github.com/yis-lang/yisc/types"
)

// checkReturnCoverage re-derives spec.md §4.D's return-coverage rule
// structurally, independent of the type checker, since the lint pass
// must be runnable as a standalone sweep over the whole program
// (spec.md §4.E "runs after type checking... " but is specified as
// its own checklist, item 3).
func (l *Linter) checkReturnCoverage(body *ast.BlockStmt, retType *types.Type) {
	if retType.Kind == types.KVoid {
		return
	}
	if guarantees, _ := blockGuarantees(body); !guarantees {
		pos := body.Position
		if len(body.Stmts) > 0 {
			pos = body.Stmts[len(body.Stmts)-1].Pos()
		}
		l.warn("", pos, "missing return coverage: not every path returns a value")
	}
}

func blockGuarantees(b *ast.BlockStmt) (bool, ast.Position) {
	g := false
	pos := b.Position
	for _, s := range b.Stmts {
		g, pos = stmtGuarantees(s)
	}
	return g, pos
}

func stmtGuarantees(s ast.Stmt) (bool, ast.Position) {
	switch st := s.(type) {
	case *ast.ReturnStmt:
		return true, st.Position
	case *ast.BlockStmt:
		return blockGuarantees(st)
	case *ast.IfStmt:
		if len(st.Arms) == 0 || st.Arms[len(st.Arms)-1].Cond != nil {
			return false, st.Position
		}
		for _, arm := range st.Arms {
			if g, _ := stmtGuarantees(arm.Body); !g {
				return false, arm.Body.Pos()
			}
		}
		return true, st.Position
	default:
		return false, s.Pos()
	}
}

// walkStmt recurses through the body re-running the truthiness,
// null-flow, and call-argument checks at every relevant site.
func (l *Linter) walkStmt(s ast.Stmt, c *check.Context, retType *types.Type) {
	switch st := s.(type) {
	case *ast.LetStmt:
		l.walkExprSite(st.Value, c, false)
		lt := exprType(c, st.Value)
		if st.Annotation != nil {
			if at, err := env.ResolveTypeRef(st.Annotation, c.ModulePath, l.genv); err == nil {
				lt = at
			}
		}
		c.Locals.Define(check.Binding{Name: st.Name, Type: lt, IsMut: st.IsMut})
	case *ast.ConstStmt:
		l.walkExprSite(st.Value, c, false)
		c.Locals.Define(check.Binding{Name: st.Name, Type: exprType(c, st.Value)})
	case *ast.ReturnStmt:
		if st.Value != nil {
			requireNonNull := retType != nil && retType.Kind != types.KNullable
			l.walkExprSite(st.Value, c, requireNonNull)
		}
	case *ast.IfStmt:
		c.Locals.Push()
		for _, arm := range st.Arms {
			if arm.Cond != nil {
				l.checkTruthiness(arm.Cond, c)
				l.walkExprSite(arm.Cond, c, false)
			}
			l.walkStmt(arm.Body, c, retType)
		}
		c.Locals.Pop()
	case *ast.ForStmt:
		c.Locals.Push()
		if st.Init != nil {
			l.walkStmt(st.Init, c, retType)
		}
		if st.Cond != nil {
			l.checkTruthiness(st.Cond, c)
			l.walkExprSite(st.Cond, c, false)
		}
		l.walkStmt(st.Body, c, retType)
		if st.Step != nil {
			l.walkStmt(st.Step, c, retType)
		}
		c.Locals.Pop()
	case *ast.ForeachStmt:
		l.walkExprSite(st.Iterable, c, false)
		c.Locals.Push()
		elemT := types.AnyType
		if it := exprType(c, st.Iterable); it != nil && it.Kind == types.KArray {
			elemT = it.Elem
		} else if it != nil && types.Equal(it, types.StrType) {
			elemT = types.StrType
		}
		c.Locals.Define(check.Binding{Name: st.Name, Type: elemT})
		l.walkStmt(st.Body, c, retType)
		c.Locals.Pop()
	case *ast.BlockStmt:
		c.Locals.Push()
		for _, inner := range st.Stmts {
			l.walkStmt(inner, c, retType)
		}
		c.Locals.Pop()
	case *ast.ExprStmt:
		l.walkExprSite(st.X, c, false)
	}
}

// walkExprSite recurses into e, flagging an unguarded index
// subexpression when requireNonNull marks this position as one that
// spec.md §4.E item 2 requires a non-null value (a non-null function
// argument, a non-null assignment target, or a non-null return).
func (l *Linter) walkExprSite(e ast.Expr, c *check.Context, requireNonNull bool) {
	if e == nil {
		return
	}
	if requireNonNull && !guardedIndex(e) && containsIndex(e) {
		l.warn("", e.Pos(), "value may flow from an unguarded index expression into a position requiring a non-null value")
	}

	switch x := e.(type) {
	case *ast.TernaryExpr:
		l.checkTruthiness(x.Cond, c)
		l.walkExprSite(x.Cond, c, false)
		l.walkExprSite(x.Then, c, false)
		l.walkExprSite(x.Else, c, false)
	case *ast.BinaryExpr:
		l.walkExprSite(x.L, c, false)
		l.walkExprSite(x.R, c, false)
	case *ast.UnaryExpr:
		l.walkExprSite(x.X, c, false)
	case *ast.AssignExpr:
		targetType := exprType(c, x.Target)
		l.walkExprSite(x.Value, c, targetType != nil && targetType.Kind != types.KNullable)
	case *ast.CallExpr:
		l.walkCall(x, c)
	case *ast.IndexExpr:
		l.walkExprSite(x.X, c, false)
		l.walkExprSite(x.Index, c, false)
	case *ast.MemberExpr:
		l.walkExprSite(x.X, c, false)
	case *ast.ParenExpr:
		l.walkExprSite(x.X, c, requireNonNull)
	case *ast.TupleExpr:
		for _, el := range x.Elems {
			l.walkExprSite(el, c, false)
		}
	case *ast.ArrayExpr:
		for _, el := range x.Elems {
			l.walkExprSite(el, c, false)
		}
	case *ast.NewExpr:
		for _, el := range x.Positional {
			l.walkExprSite(el, c, false)
		}
		for _, na := range x.Named {
			l.walkExprSite(na.Value, c, false)
		}
	case *ast.IfExpr:
		for _, arm := range x.Arms {
			if arm.Cond != nil {
				l.checkTruthiness(arm.Cond, c)
				l.walkExprSite(arm.Cond, c, false)
			}
			l.walkExprSite(arm.Body, c, false)
		}
	case *ast.MatchExpr:
		l.walkExprSite(x.Scrutinee, c, false)
		for _, arm := range x.Arms {
			l.walkExprSite(arm.Body, c, false)
		}
	case *ast.BlockExpr:
		c.Locals.Push()
		for _, inner := range x.Block.Stmts {
			l.walkStmt(inner, c, nil)
		}
		c.Locals.Pop()
	case *ast.MoveExpr:
		l.walkExprSite(x.X, c, false)
	}
}

// checkTruthiness implements spec.md §4.E item 1.
func (l *Linter) checkTruthiness(cond ast.Expr, c *check.Context) {
	t := exprType(c, cond)
	if t == nil {
		return
	}
	if t.Kind == types.KVoid {
		return
	}
	if !types.Equal(t, types.BoolType) {
		l.warn("", cond.Pos(), "implicit truthiness check on non-bool type %s", t)
	}
}

// walkCall implements spec.md §4.E item 4: re-verify each call's
// argument count against its resolved signature, and propagate the
// non-null requirement of each matching parameter into its argument
// expression for the null-flow check.
func (l *Linter) walkCall(call *ast.CallExpr, c *check.Context) {
	sig := l.resolveCallSig(call, c)
	for i, arg := range call.Args {
		requireNonNull := false
		if sig != nil && i < len(sig.Params) {
			requireNonNull = sig.Params[i].Kind != types.KNullable
		}
		l.walkExprSite(arg, c, requireNonNull)
	}
	if sig != nil && len(call.Args) != len(sig.Params) {
		l.warn("", call.Position, "arity mismatch: %s expects %d argument(s), found %d", sig.Name, len(sig.Params), len(call.Args))
	}
}

func (l *Linter) resolveCallSig(call *ast.CallExpr, c *check.Context) *env.FunSig {
	switch callee := call.Callee.(type) {
	case *ast.Ident:
		if sig, ok := l.genv.Functions[env.FuncQName(c.ModulePath, callee.Name)]; ok {
			return sig
		}
		return nil
	case *ast.MemberExpr:
		baseType := exprType(c, callee.X)
		if baseType == nil {
			return nil
		}
		if baseType.Kind == types.KModule {
			sig, _ := l.genv.Functions[env.FuncQName(baseType.ModuleName, callee.Name)]
			return sig
		}
		if baseType.Kind == types.KClass {
			if ci := l.genv.Classes[baseType.ClassName]; ci != nil {
				sig, _ := ci.MethodByName(callee.Name)
				return sig
			}
		}
		return nil
	default:
		return nil
	}
}

// guardedIndex reports whether e is itself the left side of `??` or
// otherwise written in a way spec.md §4.E calls guarded; containsIndex
// is only consulted on the unwrapped expression so a `x[i] ?? d`
// counts as guarded while a bare `x[i]` does not.
func guardedIndex(e ast.Expr) bool {
	if bin, ok := e.(*ast.BinaryExpr); ok && bin.Op == ast.OpCoalesce {
		return true
	}
	if m, ok := e.(*ast.MatchExpr); ok {
		for _, arm := range m.Arms {
			if _, ok := arm.Pattern.(*ast.NullPattern); ok {
				return true
			}
		}
	}
	return false
}

func containsIndex(e ast.Expr) bool {
	switch x := e.(type) {
	case *ast.IndexExpr:
		return true
	case *ast.BinaryExpr:
		return containsIndex(x.L) || containsIndex(x.R)
	case *ast.UnaryExpr:
		return containsIndex(x.X)
	case *ast.ParenExpr:
		return containsIndex(x.X)
	case *ast.MemberExpr:
		return containsIndex(x.X)
	case *ast.MoveExpr:
		return containsIndex(x.X)
	default:
		return false
	}
}
