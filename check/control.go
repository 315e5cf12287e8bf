package check

import (
	"github.com/yis-lang/yisc/ast"
	"github.com/yis-lang/yisc/types"
)

// ifExprType implements spec.md §4.D's if-expression rule: a final
// else is mandatory and the overall type is the unification of every
// arm's body type.
func (c *Context) ifExprType(x *ast.IfExpr) *types.Type {
	if len(x.Arms) == 0 || x.Arms[len(x.Arms)-1].Cond != nil {
		c.errorf(x.Position, "if-expression requires a final else arm")
	}

	var result *types.Type
	subst := types.NewSubstitution()
	for _, arm := range x.Arms {
		if arm.Cond != nil {
			cond := c.ExprType(arm.Cond)
			if cond.Kind == types.KVoid {
				c.errorf(x.Position, "condition cannot be void")
			}
		}
		bodyType := c.ExprType(arm.Body)
		if result == nil {
			result = bodyType
			continue
		}
		r, ok := types.Unify(result, bodyType, subst)
		if !ok {
			c.errorf(arm.Body.Pos(), "type mismatch: if-expression arms have incompatible types %s and %s", result, bodyType)
			continue
		}
		result = r
	}
	if result == nil {
		return types.VoidType
	}
	return result
}

// matchType implements spec.md §4.D's match rule.
func (c *Context) matchType(x *ast.MatchExpr) *types.Type {
	scrut := c.ExprType(x.Scrutinee)
	if len(x.Arms) == 0 {
		c.errorf(x.Position, "match requires at least one arm")
		return types.VoidType
	}

	var result *types.Type
	subst := types.NewSubstitution()
	for _, arm := range x.Arms {
		c.checkPattern(arm.Pattern, scrut)

		c.Locals.Push()
		if id, ok := arm.Pattern.(*ast.IdentPattern); ok {
			c.Locals.Define(Binding{Name: id.Name, Type: scrut})
		}
		bodyType := c.ExprType(arm.Body)
		c.Locals.Pop()

		if result == nil {
			result = bodyType
			continue
		}
		r, ok := types.Unify(result, bodyType, subst)
		if !ok {
			c.errorf(arm.Body.Pos(), "type mismatch: match arms have incompatible types %s and %s", result, bodyType)
			continue
		}
		result = r
	}
	return result
}

func (c *Context) checkPattern(p ast.Pattern, scrut *types.Type) {
	switch pat := p.(type) {
	case *ast.WildcardPattern, *ast.IdentPattern:
		// Matches anything.
	case *ast.IntPattern:
		if !types.Equal(scrut, types.NumType) && scrut.Kind != types.KNullable {
			c.errorf(pat.Position, "type mismatch: integer pattern against %s", scrut)
		}
	case *ast.StringPattern:
		if !types.Equal(scrut, types.StrType) && scrut.Kind != types.KNullable {
			c.errorf(pat.Position, "type mismatch: string pattern against %s", scrut)
		}
	case *ast.BoolPattern:
		if !types.Equal(scrut, types.BoolType) && scrut.Kind != types.KNullable {
			c.errorf(pat.Position, "type mismatch: bool pattern against %s", scrut)
		}
	case *ast.NullPattern:
		if scrut.Kind != types.KNullable && scrut.Kind != types.KNull {
			c.errorf(pat.Position, "null pattern against non-nullable type %s", scrut)
		}
	}
}

// lambdaType implements spec.md §4.D's lambda rule: untyped params
// receive fresh generics stable per position, and the body is typed
// in a cloned scope.
func (c *Context) lambdaType(x *ast.LambdaExpr) *types.Type {
	clone := c.Locals.Clone()
	saved := c.Locals
	c.Locals = clone
	defer func() { c.Locals = saved }()

	c.Locals.Push()
	params := make([]*types.Type, len(x.Params))
	for i, p := range x.Params {
		if p.IsThis {
			c.errorf(p.Position, "lambda parameters may not be named this")
		}
		var pt *types.Type
		if p.Type != nil {
			var err error
			pt, err = resolveCheckerTypeRef(p.Type, c)
			if err != nil {
				c.errorf(p.Position, "parameter %q: %s", p.Name, err)
				pt = types.AnyType
			}
		} else {
			pt = types.GenType(lambdaGenName(i))
		}
		params[i] = pt
		c.Locals.Define(Binding{Name: p.Name, Type: pt, IsMut: p.IsMut})
	}
	bodyType := c.ExprType(x.Body)
	c.Locals.Pop()

	return types.FnType(params, bodyType)
}

func lambdaGenName(i int) string {
	letters := "TUVWXYZ"
	if i < len(letters) {
		return string(letters[i])
	}
	return "T" + string(rune('0'+i))
}

// newType implements spec.md §4.D's `new ClassName(...)` rule.
func (c *Context) newType(x *ast.NewExpr) *types.Type {
	classType, err := resolveCheckerTypeRef(x.Class, c)
	if err != nil || classType.Kind != types.KClass {
		c.errorf(x.Position, "unknown class in new expression")
		return types.AnyType
	}
	ci := c.Genv.Classes[classType.ClassName]
	if ci == nil {
		c.errorf(x.Position, "unknown class %q", classType.ClassName)
		return classType
	}

	if len(x.Positional) > 0 && len(x.Named) > 0 {
		c.errorf(x.Position, "constructor arguments must be all-named or all-positional, not mixed")
	}

	if ci.HasInit {
		sig, _ := ci.MethodByName("init")
		call := &ast.CallExpr{Args: x.Positional, Position: x.Position}
		if len(x.Named) > 0 {
			for _, na := range x.Named {
				c.ExprType(na.Value)
			}
			return classType
		}
		c.applyFunSig(sig, call, nil)
		return classType
	}

	if ci.Kind == ast.KindClass {
		c.errorf(x.Position, "class %q has no init method", ci.Name)
	}

	if len(x.Named) > 0 {
		seen := map[string]bool{}
		for _, na := range x.Named {
			if seen[na.Name] {
				c.errorf(x.Position, "duplicate constructor argument %q", na.Name)
				continue
			}
			seen[na.Name] = true
			f, ok := ci.FieldByName(na.Name)
			if !ok {
				c.errorf(x.Position, "unknown field %q on class %q", na.Name, ci.Name)
				c.ExprType(na.Value)
				continue
			}
			vt := c.ExprType(na.Value)
			if !types.Assignable(f.Type, vt) {
				c.errorf(na.Value.Pos(), "type mismatch: field %q expected %s, found %s", na.Name, f.Type, vt)
			}
		}
		return classType
	}

	if len(x.Positional) != len(ci.Fields) {
		c.errorf(x.Position, "arity mismatch: %s expects %d field value(s), found %d", ci.Name, len(ci.Fields), len(x.Positional))
	}
	n := len(x.Positional)
	if len(ci.Fields) < n {
		n = len(ci.Fields)
	}
	for i := 0; i < n; i++ {
		vt := c.ExprType(x.Positional[i])
		if !types.Assignable(ci.Fields[i].Type, vt) {
			c.errorf(x.Positional[i].Pos(), "type mismatch: field %q expected %s, found %s", ci.Fields[i].Name, ci.Fields[i].Type, vt)
		}
	}
	for i := n; i < len(x.Positional); i++ {
		c.ExprType(x.Positional[i])
	}
	return classType
}
