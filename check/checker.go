package check

import (
	"fmt"

	"github.com/yis-lang/yisc/ast"
	"github.com/yis-lang/yisc/diag"
	"github.com/yis-lang/yisc/env"
	"github.com/yis-lang/yisc/types"
)

// Checker implements env.TypeChecker, letting env.Build delegate
// constant folding and global-initializer typing back into this
// package without an import cycle (env/env.go's TypeChecker doc
// comment).
type Checker struct{}

func (Checker) TypeOfConstExpr(expr ast.Expr, modulePath string, genv *env.GlobalEnv) (env.ConstVal, error) {
	return evalConst(expr, modulePath, genv)
}

func (Checker) TypeOfGlobalExpr(expr ast.Expr, modulePath string, genv *env.GlobalEnv) (*types.Type, error) {
	c := NewContext(genv, modulePath)
	t := c.ExprType(expr)
	if len(c.Diags) > 0 {
		return nil, fmt.Errorf("%s", c.Diags[0].Message)
	}
	return t, nil
}

// evalConst implements spec.md §4.B pass 5's tiny constant-folding
// interpreter: literals, parens, unary -/!, and + - * / % over
// literal operands, forbidding string interpolation.
func evalConst(expr ast.Expr, modulePath string, genv *env.GlobalEnv) (env.ConstVal, error) {
	switch e := expr.(type) {
	case *ast.IntLit:
		return env.ConstVal{Type: types.NumType, Int: e.Value}, nil
	case *ast.FloatLit:
		return env.ConstVal{Type: types.NumType, IsFloat: true, Float: e.Value}, nil
	case *ast.BoolLit:
		return env.ConstVal{Type: types.BoolType, Bool: e.Value}, nil
	case *ast.StringLit:
		s, ok := e.Literal()
		if !ok {
			return env.ConstVal{}, fmt.Errorf("string interpolation is forbidden inside a const expression")
		}
		return env.ConstVal{Type: types.StrType, Str: s}, nil
	case *ast.ParenExpr:
		return evalConst(e.X, modulePath, genv)
	case *ast.UnaryExpr:
		return evalConstUnary(e, modulePath, genv)
	case *ast.BinaryExpr:
		return evalConstBinary(e, modulePath, genv)
	default:
		return env.ConstVal{}, fmt.Errorf("const expression must be a literal or simple numeric expression over literals")
	}
}

func evalConstUnary(e *ast.UnaryExpr, modulePath string, genv *env.GlobalEnv) (env.ConstVal, error) {
	v, err := evalConst(e.X, modulePath, genv)
	if err != nil {
		return env.ConstVal{}, err
	}
	switch e.Op {
	case ast.OpNeg:
		if v.IsFloat {
			v.Float = -v.Float
		} else {
			v.Int = -v.Int
		}
		return v, nil
	case ast.OpNot:
		if !types.Equal(v.Type, types.BoolType) {
			return env.ConstVal{}, fmt.Errorf("! requires a bool const operand")
		}
		v.Bool = !v.Bool
		return v, nil
	default:
		return env.ConstVal{}, fmt.Errorf("operator not allowed in a const expression")
	}
}

func evalConstBinary(e *ast.BinaryExpr, modulePath string, genv *env.GlobalEnv) (env.ConstVal, error) {
	l, err := evalConst(e.L, modulePath, genv)
	if err != nil {
		return env.ConstVal{}, err
	}
	r, err := evalConst(e.R, modulePath, genv)
	if err != nil {
		return env.ConstVal{}, err
	}
	if !types.Equal(l.Type, types.NumType) || !types.Equal(r.Type, types.NumType) {
		return env.ConstVal{}, fmt.Errorf("const expression must be a literal or simple numeric expression over literals")
	}
	isFloat := l.IsFloat || r.IsFloat
	if e.Op == ast.OpMod && isFloat {
		return env.ConstVal{}, fmt.Errorf("%% is only allowed on integer const operands")
	}
	if isFloat {
		lf, rf := asFloat(l), asFloat(r)
		var res float64
		switch e.Op {
		case ast.OpAdd:
			res = lf + rf
		case ast.OpSub:
			res = lf - rf
		case ast.OpMul:
			res = lf * rf
		case ast.OpDiv:
			res = lf / rf
		default:
			return env.ConstVal{}, fmt.Errorf("operator not allowed in a const expression")
		}
		return env.ConstVal{Type: types.NumType, IsFloat: true, Float: res}, nil
	}
	var res int64
	switch e.Op {
	case ast.OpAdd:
		res = l.Int + r.Int
	case ast.OpSub:
		res = l.Int - r.Int
	case ast.OpMul:
		res = l.Int * r.Int
	case ast.OpDiv:
		if r.Int == 0 {
			return env.ConstVal{}, fmt.Errorf("division by zero in const expression")
		}
		res = l.Int / r.Int
	case ast.OpMod:
		if r.Int == 0 {
			return env.ConstVal{}, fmt.Errorf("division by zero in const expression")
		}
		res = l.Int % r.Int
	default:
		return env.ConstVal{}, fmt.Errorf("operator not allowed in a const expression")
	}
	return env.ConstVal{Type: types.NumType, Int: res}, nil
}

func asFloat(v env.ConstVal) float64 {
	if v.IsFloat {
		return v.Float
	}
	return float64(v.Int)
}

// CheckFunction type-checks a free function's body and returns any
// diagnostics raised.
func CheckFunction(d *ast.FunDecl, modulePath string, genv *env.GlobalEnv) []diag.Diagnostic {
	sig := genv.Functions[env.FuncQName(modulePath, d.Name)]
	c := NewContext(genv, modulePath)
	bindParams(c, d.Params, sig)
	c.CheckBody(d.Body, retOf(sig))
	return c.Diags
}

// CheckMethod type-checks a method body within its owning class.
func CheckMethod(m *ast.MethodDecl, className, modulePath string, genv *env.GlobalEnv) []diag.Diagnostic {
	ci := genv.Classes[env.ClassQName(modulePath, className)]
	var sig *env.FunSig
	if ci != nil {
		sig, _ = ci.MethodByName(m.Name)
	}
	c := NewContext(genv, modulePath)
	c.CurrentClass = className
	if len(m.Params) > 0 {
		c.Locals.Define(Binding{Name: "this", Type: types.ClassType(env.ClassQName(modulePath, className)), IsMut: m.Params[0].IsMut})
		rest := m.Params[1:]
		var restParams []*types.Type
		var restMut []bool
		if sig != nil {
			restParams, restMut = sig.Params, sig.ParamMut
		}
		for i, p := range rest {
			var pt *types.Type
			if restParams != nil && i < len(restParams) {
				pt = restParams[i]
			} else {
				pt = types.AnyType
			}
			mut := p.IsMut
			if restMut != nil && i < len(restMut) {
				mut = restMut[i]
			}
			c.Locals.Define(Binding{Name: p.Name, Type: pt, IsMut: mut})
		}
	}
	c.CheckBody(m.Body, retOf(sig))
	return c.Diags
}

// CheckEntry type-checks the program's entry() body.
func CheckEntry(d *ast.EntryDecl, modulePath string, genv *env.GlobalEnv) []diag.Diagnostic {
	c := NewContext(genv, modulePath)
	c.CheckBody(d.Body, types.VoidType)
	return c.Diags
}

func bindParams(c *Context, params []ast.Param, sig *env.FunSig) {
	for i, p := range params {
		var pt *types.Type
		if sig != nil && i < len(sig.Params) {
			pt = sig.Params[i]
		} else {
			pt = types.AnyType
		}
		c.Locals.Define(Binding{Name: p.Name, Type: pt, IsMut: p.IsMut})
	}
}

func retOf(sig *env.FunSig) *types.Type {
	if sig == nil || sig.Ret == nil {
		return types.VoidType
	}
	return sig.Ret
}
