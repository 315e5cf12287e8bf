package check

import (
	"github.com/yis-lang/yisc/ast"
	"github.com/yis-lang/yisc/env"
	"github.com/yis-lang/yisc/types"
)

// ExprType implements spec.md §4.D's expression rules, dispatching on
// the concrete AST node kind the way the teacher's
// compiler_expressions.go switches on ast.Expression.
func (c *Context) ExprType(e ast.Expr) *types.Type {
	switch x := e.(type) {
	case *ast.IntLit, *ast.FloatLit:
		return types.NumType
	case *ast.BoolLit:
		return types.BoolType
	case *ast.NullLit:
		return types.NullType
	case *ast.StringLit:
		for _, part := range x.Parts {
			if part.Expr != nil {
				c.ExprType(part.Expr)
			}
		}
		return types.StrType

	case *ast.Ident:
		return c.identType(x)

	case *ast.TupleExpr:
		items := make([]*types.Type, len(x.Elems))
		for i, el := range x.Elems {
			items[i] = c.ExprType(el)
		}
		return types.TupleType(items...)

	case *ast.ArrayExpr:
		return c.arrayType(x)

	case *ast.UnaryExpr:
		return c.unaryType(x)

	case *ast.BinaryExpr:
		return c.binaryType(x)

	case *ast.AssignExpr:
		return c.assignType(x)

	case *ast.CallExpr:
		return c.callType(x)

	case *ast.IndexExpr:
		return c.indexType(x)

	case *ast.MemberExpr:
		t, _ := c.memberType(x, false)
		return t

	case *ast.ParenExpr:
		return c.ExprType(x.X)

	case *ast.TernaryExpr:
		cond := c.ExprType(x.Cond)
		if cond.Kind == types.KVoid {
			c.errorf(x.Position, "condition cannot be void")
		}
		then := c.ExprType(x.Then)
		els := c.ExprType(x.Else)
		r, ok := types.Unify(then, els, types.NewSubstitution())
		if !ok {
			c.errorf(x.Position, "type mismatch: ternary branches have incompatible types %s and %s", then, els)
			return types.AnyType
		}
		return r

	case *ast.IfExpr:
		return c.ifExprType(x)

	case *ast.MatchExpr:
		return c.matchType(x)

	case *ast.LambdaExpr:
		return c.lambdaType(x)

	case *ast.BlockExpr:
		c.checkBlock(x.Block)
		return types.NullType

	case *ast.NewExpr:
		return c.newType(x)

	case *ast.MoveExpr:
		if id, ok := x.X.(*ast.Ident); ok {
			if !c.Locals.SetMoved(id.Name) {
				c.errorf(x.Position, "move target must be an identifier bound in scope")
			}
		} else {
			c.errorf(x.Position, "move target must be an identifier")
		}
		return c.ExprType(x.X)

	default:
		c.errorf(e.Pos(), "internal: unhandled expression node")
		return types.AnyType
	}
}

func (c *Context) identType(x *ast.Ident) *types.Type {
	if b, ok := c.Locals.Lookup(x.Name); ok {
		if b.Moved {
			c.errorf(x.Position, "used after move: %q", x.Name)
		}
		return b.Type
	}
	if path, ok := c.isCaskName(x.Name); ok {
		return types.ModuleType(path)
	}
	if mod := c.Genv.Modules[c.ModulePath]; mod != nil {
		if gv, ok := mod.Globals[x.Name]; ok {
			if gv.Type == nil {
				c.errorf(x.Position, "global %q used before definition", x.Name)
				return types.AnyType
			}
			return gv.Type
		}
	}
	if sig, ok := c.Genv.Functions[env.FuncQName(c.ModulePath, x.Name)]; ok {
		params := make([]*types.Type, len(sig.Params))
		copy(params, sig.Params)
		return types.FnType(params, sig.Ret)
	}
	c.errorf(x.Position, "unknown name %q", x.Name)
	return types.AnyType
}

func (c *Context) arrayType(x *ast.ArrayExpr) *types.Type {
	if len(x.Elems) == 0 {
		if x.Annotation == nil {
			c.errorf(x.Position, "cannot infer type of empty array; add a type annotation")
			return types.ArrayType(types.AnyType)
		}
		t, err := resolveCheckerTypeRef(x.Annotation, c)
		if err != nil || t.Kind != types.KArray {
			c.errorf(x.Position, "empty array annotation must be an array type")
			return types.ArrayType(types.AnyType)
		}
		return t
	}
	elem := c.ExprType(x.Elems[0])
	subst := types.NewSubstitution()
	for _, el := range x.Elems[1:] {
		t := c.ExprType(el)
		r, ok := types.Unify(elem, t, subst)
		if !ok {
			c.errorf(el.Pos(), "type mismatch: array element type %s does not unify with %s", t, elem)
			continue
		}
		elem = r
	}
	return types.ArrayType(elem)
}

func (c *Context) unaryType(x *ast.UnaryExpr) *types.Type {
	t := c.ExprType(x.X)
	switch x.Op {
	case ast.OpNot:
		if !types.Equal(t, types.BoolType) {
			c.errorf(x.Position, "type mismatch: ! requires bool, found %s", t)
		}
		return types.BoolType
	case ast.OpNeg:
		if !types.Equal(t, types.NumType) {
			c.errorf(x.Position, "type mismatch: unary - requires num, found %s", t)
		}
		return types.NumType
	case ast.OpLen:
		if t.Kind != types.KArray && !types.Equal(t, types.StrType) {
			c.errorf(x.Position, "indexing requires array or string for #, found %s", t)
		}
		return types.NumType
	}
	return types.AnyType
}

func (c *Context) binaryType(x *ast.BinaryExpr) *types.Type {
	l := c.ExprType(x.L)
	r := c.ExprType(x.R)

	switch x.Op {
	case ast.OpAdd, ast.OpSub, ast.OpMul, ast.OpDiv, ast.OpMod:
		c.requireNonNullNum(x.Position, l, "numeric op on nullable")
		c.requireNonNullNum(x.Position, r, "numeric op on nullable")
		return types.NumType
	case ast.OpLt, ast.OpLe, ast.OpGt, ast.OpGe:
		c.requireNonNullNum(x.Position, l, "comparison on nullable")
		c.requireNonNullNum(x.Position, r, "comparison on nullable")
		return types.BoolType
	case ast.OpEq, ast.OpNe:
		if l.Kind == types.KNullable || r.Kind == types.KNullable {
			c.errorf(x.Position, "comparison on nullable operand")
		}
		if _, ok := types.Unify(l, r, types.NewSubstitution()); !ok {
			c.errorf(x.Position, "type mismatch: cannot compare %s and %s", l, r)
		}
		return types.BoolType
	case ast.OpAnd, ast.OpOr:
		if l.Kind == types.KVoid || r.Kind == types.KVoid {
			c.errorf(x.Position, "logical op on void operand")
		}
		if l.Kind == types.KNullable || r.Kind == types.KNullable {
			c.errorf(x.Position, "logical op on nullable")
		}
		return types.BoolType
	case ast.OpCoalesce:
		if l.Kind == types.KVoid || r.Kind == types.KVoid {
			c.errorf(x.Position, "?? requires non-void operands")
		}
		inner, _ := types.StripNullable(l)
		result, ok := types.Unify(inner, r, types.NewSubstitution())
		if !ok {
			c.errorf(x.Position, "type mismatch: ?? branches %s and %s do not unify", inner, r)
			return types.AnyType
		}
		return result
	}
	return types.AnyType
}

func (c *Context) requireNonNullNum(pos ast.Position, t *types.Type, nullMsg string) {
	if t.Kind == types.KNullable {
		c.errorf(pos, nullMsg)
		return
	}
	if !types.Equal(t, types.NumType) && !(t.Kind == types.KPrim && t.Prim == types.Any) {
		c.errorf(pos, "type mismatch: expected num, found %s", t)
	}
}

func (c *Context) assignType(x *ast.AssignExpr) *types.Type {
	targetType, mutable := c.lvalueType(x.Target)
	if !mutable {
		c.errorf(x.Position, "cannot assign to immutable binding")
	}
	valType := c.ExprType(x.Value)
	if x.Op == ast.OpAssign {
		if !types.Assignable(targetType, valType) {
			c.errorf(x.Position, "type mismatch: cannot assign %s to %s", valType, targetType)
		}
		return targetType
	}
	if !types.Equal(targetType, types.NumType) || !types.Equal(valType, types.NumType) {
		c.errorf(x.Position, "type mismatch: compound assignment requires num operands")
	}
	return targetType
}

// lvalueType resolves the static type and mutability of an assignment
// target: an identifier, an index into a mutable base, or a member of
// a mutable base (spec.md §4.D "Assignment").
func (c *Context) lvalueType(target ast.Expr) (*types.Type, bool) {
	switch t := target.(type) {
	case *ast.Ident:
		if b, ok := c.Locals.Lookup(t.Name); ok {
			return b.Type, b.IsMut
		}
		if mod := c.Genv.Modules[c.ModulePath]; mod != nil {
			if gv, ok := mod.Globals[t.Name]; ok {
				return gv.Type, gv.IsMut
			}
		}
		c.errorf(t.Position, "unknown name %q", t.Name)
		return types.AnyType, false
	case *ast.IndexExpr:
		baseType, baseMut := c.lvalueType(t.X)
		_ = baseType
		elemType := c.indexType(t)
		if !baseMut {
			c.errorf(t.Position, "mutation through immutable base")
		}
		return elemType, baseMut
	case *ast.MemberExpr:
		baseType, baseMut := c.lvalueType(t.X)
		_ = baseType
		fieldType, _ := c.memberType(t, true)
		return fieldType, baseMut
	default:
		c.errorf(target.Pos(), "assignment target must be an identifier, index, or member expression")
		return c.ExprType(target), false
	}
}

func (c *Context) indexType(x *ast.IndexExpr) *types.Type {
	base := c.ExprType(x.X)
	idx := c.ExprType(x.Index)

	if base.Kind == types.KTuple {
		lit, ok := x.Index.(*ast.IntLit)
		if !ok {
			c.errorf(x.Position, "tuple index must be a literal")
			return types.AnyType
		}
		if lit.Value < 0 || int(lit.Value) >= len(base.Items) {
			c.errorf(x.Position, "tuple index %d out of range", lit.Value)
			return types.AnyType
		}
		return base.Items[lit.Value]
	}

	if !types.Equal(idx, types.NumType) {
		c.errorf(x.Position, "type mismatch: index must be num, found %s", idx)
	}
	switch {
	case base.Kind == types.KArray:
		return base.Elem
	case types.Equal(base, types.StrType):
		return types.StrType
	default:
		c.errorf(x.Position, "indexing requires array or string, found %s", base)
		return types.AnyType
	}
}
