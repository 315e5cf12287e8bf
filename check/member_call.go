package check

import (
	"github.com/yis-lang/yisc/ast"
	"github.com/yis-lang/yisc/env"
	"github.com/yis-lang/yisc/types"
)

// memberType implements spec.md §4.D's "Member access a.x" rule for
// non-call positions: module constants/globals, or class fields.
// Referencing a function or method without calling it is an error.
// forAssign additionally reports whether the resolved slot is
// mutable, for lvalueType.
func (c *Context) memberType(x *ast.MemberExpr, forAssign bool) (*types.Type, bool) {
	baseType := c.ExprType(x.X)

	if baseType.Kind == types.KModule {
		mod := c.Genv.Modules[baseType.ModuleName]
		if mod == nil {
			c.errorf(x.Position, "unknown module member %q", x.Name)
			return types.AnyType, false
		}
		if cv, ok := mod.Consts[x.Name]; ok {
			return cv.Type, false
		}
		if gv, ok := mod.Globals[x.Name]; ok {
			return gv.Type, gv.IsMut
		}
		if _, ok := c.Genv.Functions[env.FuncQName(baseType.ModuleName, x.Name)]; ok {
			c.errorf(x.Position, "function %q must be called, not captured", x.Name)
			return types.AnyType, false
		}
		c.errorf(x.Position, "unknown module member %q", x.Name)
		return types.AnyType, false
	}

	if baseType.Kind == types.KNullable {
		c.errorf(x.Position, "member access on nullable value")
		baseType, _ = types.StripNullable(baseType)
	}

	if baseType.Kind == types.KClass {
		ci := c.Genv.Classes[baseType.ClassName]
		if ci == nil {
			c.errorf(x.Position, "unknown class %q", baseType.ClassName)
			return types.AnyType, false
		}
		if !c.fieldVisible(ci) {
			c.errorf(x.Position, "field access on lock class %q is only allowed within its own file or methods", ci.Name)
		}
		if f, ok := ci.FieldByName(x.Name); ok {
			return f.Type, true
		}
		if _, ok := ci.MethodByName(x.Name); ok {
			if !forAssign {
				c.errorf(x.Position, "method %q must be called, not referenced", x.Name)
			}
			return types.AnyType, false
		}
		c.errorf(x.Position, "unknown member %q on class %q", x.Name, ci.Name)
		return types.AnyType, false
	}

	c.errorf(x.Position, "member access on non-object type %s", baseType)
	return types.AnyType, false
}

// fieldVisible applies spec.md §4.D's lock-class rule: a `lock`
// class's fields are visible only within the declaring file or from
// that class's own methods.
func (c *Context) fieldVisible(ci *env.ClassInfo) bool {
	if ci.Vis != ast.VisLock {
		return true
	}
	if c.ModulePath == ci.ModulePath {
		return true
	}
	return c.CurrentClass == ci.Name && c.ModulePath == ci.ModulePath
}

// callType implements spec.md §4.D's three call shapes.
func (c *Context) callType(x *ast.CallExpr) *types.Type {
	switch callee := x.Callee.(type) {
	case *ast.MemberExpr:
		return c.callMember(callee, x)
	case *ast.Ident:
		return c.callBare(callee, x)
	default:
		fnType := c.ExprType(x.Callee)
		return c.applyCall(fnType, x, nil)
	}
}

func (c *Context) callMember(callee *ast.MemberExpr, call *ast.CallExpr) *types.Type {
	baseType := c.ExprType(callee.X)

	if baseType.Kind == types.KModule {
		sig, ok := c.Genv.Functions[env.FuncQName(baseType.ModuleName, callee.Name)]
		if !ok {
			c.errorf(callee.Position, "unknown function %q in module", callee.Name)
			return types.AnyType
		}
		return c.applyFunSig(sig, call, nil)
	}

	if baseType.Kind == types.KNullable {
		c.errorf(callee.Position, "call on nullable value")
		baseType, _ = types.StripNullable(baseType)
	}

	if types.Equal(baseType, types.NumType) || types.Equal(baseType, types.BoolType) {
		if callee.Name == "to_string" && len(call.Args) == 0 {
			return types.StrType
		}
		c.errorf(callee.Position, "unknown method %q on %s", callee.Name, baseType)
		return types.AnyType
	}

	if baseType.Kind == types.KArray {
		return c.callArrayBuiltin(callee, call, baseType)
	}

	if baseType.Kind == types.KClass {
		ci := c.Genv.Classes[baseType.ClassName]
		if ci == nil {
			c.errorf(callee.Position, "unknown class %q", baseType.ClassName)
			return types.AnyType
		}
		sig, ok := ci.MethodByName(callee.Name)
		if !ok {
			c.errorf(callee.Position, "unknown method %q on class %q", callee.Name, ci.Name)
			return types.AnyType
		}
		if sig.RecvMut {
			_, mutable := c.lvalueType(callee.X)
			if !mutable {
				c.errorf(callee.Position, "method %q requires mutable receiver", callee.Name)
			}
		}
		return c.applyFunSig(sig, call, nil)
	}

	c.errorf(callee.Position, "member access on non-object type %s", baseType)
	return types.AnyType
}

func (c *Context) callArrayBuiltin(callee *ast.MemberExpr, call *ast.CallExpr, arrType *types.Type) *types.Type {
	switch callee.Name {
	case "add":
		if _, mutable := c.lvalueType(callee.X); !mutable {
			c.errorf(callee.Position, "array.add requires mutable base")
		}
		if len(call.Args) != 1 {
			c.errorf(call.Position, "arity mismatch: array.add expects 1 argument, found %d", len(call.Args))
			return types.VoidType
		}
		argT := c.ExprType(call.Args[0])
		if !types.Assignable(arrType.Elem, argT) {
			c.errorf(call.Args[0].Pos(), "type mismatch: cannot add %s to array of %s", argT, arrType.Elem)
		}
		return types.VoidType
	case "remove":
		if _, mutable := c.lvalueType(callee.X); !mutable {
			c.errorf(callee.Position, "array.remove requires mutable base")
		}
		if len(call.Args) != 1 {
			c.errorf(call.Position, "arity mismatch: array.remove expects 1 argument, found %d", len(call.Args))
			return arrType.Elem
		}
		idxT := c.ExprType(call.Args[0])
		if !types.Equal(idxT, types.NumType) {
			c.errorf(call.Args[0].Pos(), "type mismatch: array.remove index must be num")
		}
		return arrType.Elem
	default:
		c.errorf(callee.Position, "unknown method %q on array", callee.Name)
		return types.AnyType
	}
}

// callBare implements the bare-call resolution order: locals, then
// current-cask functions, then the stdr prelude, then any generic
// function value already in scope (covered by the locals check).
func (c *Context) callBare(callee *ast.Ident, call *ast.CallExpr) *types.Type {
	if b, ok := c.Locals.Lookup(callee.Name); ok {
		return c.applyCall(b.Type, call, nil)
	}
	if sig, ok := c.Genv.Functions[env.FuncQName(c.ModulePath, callee.Name)]; ok {
		return c.applyFunSig(sig, call, nil)
	}
	if stdrBareNames[callee.Name] {
		return c.applyStdr(callee, call)
	}
	c.errorf(callee.Position, "unknown function %q", callee.Name)
	return types.AnyType
}

// applyStdr types the small set of always-importable prelude
// functions (spec.md §4.C's writef/readf/str lowering targets and the
// len/is_null helpers).
func (c *Context) applyStdr(callee *ast.Ident, call *ast.CallExpr) *types.Type {
	for _, a := range call.Args {
		c.ExprType(a)
	}
	switch callee.Name {
	case "write", "writef":
		return types.VoidType
	case "readf":
		return types.StrType
	case "len":
		return types.NumType
	case "is_null":
		return types.BoolType
	case "str":
		return types.StrType
	default:
		return types.AnyType
	}
}

// applyFunSig checks args against sig under a fresh per-call
// Substitution and returns the substituted return type (spec.md
// §4.D "Call").
func (c *Context) applyFunSig(sig *env.FunSig, call *ast.CallExpr, recv *types.Type) *types.Type {
	if len(call.Args) != len(sig.Params) {
		c.errorf(call.Position, "arity mismatch: %s expects %d argument(s), found %d", sig.Name, len(sig.Params), len(call.Args))
	}
	subst := types.NewSubstitution()
	n := len(call.Args)
	if len(sig.Params) < n {
		n = len(sig.Params)
	}
	for i := 0; i < n; i++ {
		argT := c.ExprType(call.Args[i])
		if !types.Assignable(sig.Params[i], argT) {
			c.errorf(call.Args[i].Pos(), "type mismatch: argument %d expected %s, found %s", i+1, sig.Params[i], argT)
			continue
		}
		types.Unify(sig.Params[i], argT, subst)
	}
	for i := n; i < len(call.Args); i++ {
		c.ExprType(call.Args[i])
	}
	return types.Apply(sig.Ret, subst)
}

// applyCall types a call through a plain Fn-typed value (a local
// holding a function or a lambda result).
func (c *Context) applyCall(fnType *types.Type, call *ast.CallExpr, _ any) *types.Type {
	if fnType.Kind != types.KFn {
		c.errorf(call.Position, "call target is not callable: %s", fnType)
		for _, a := range call.Args {
			c.ExprType(a)
		}
		return types.AnyType
	}
	if len(call.Args) != len(fnType.Params) {
		c.errorf(call.Position, "arity mismatch: expected %d argument(s), found %d", len(fnType.Params), len(call.Args))
	}
	n := len(call.Args)
	if len(fnType.Params) < n {
		n = len(fnType.Params)
	}
	for i := 0; i < n; i++ {
		argT := c.ExprType(call.Args[i])
		if !types.Assignable(fnType.Params[i], argT) {
			c.errorf(call.Args[i].Pos(), "type mismatch: argument %d expected %s, found %s", i+1, fnType.Params[i], argT)
		}
	}
	for i := n; i < len(call.Args); i++ {
		c.ExprType(call.Args[i])
	}
	return fnType.Ret
}
