package check

import (
	"github.com/yis-lang/yisc/ast"
	"github.com/yis-lang/yisc/types"
)

// CheckBody type-checks a function/method/entry body against expected
// return type ret (types.VoidType for void), reporting missing-return
// coverage when required.
func (c *Context) CheckBody(body *ast.BlockStmt, ret *types.Type) {
	c.retType = ret
	guarantees := c.checkBlock(body)
	if ret.Kind != types.KVoid && !guarantees {
		pos := body.Position
		if len(body.Stmts) > 0 {
			pos = body.Stmts[len(body.Stmts)-1].Pos()
		}
		c.errorf(pos, "missing return: not every path returns a value")
	}
}

// checkBlock type-checks every statement in order and returns whether
// the block guarantees a return on every path (spec.md §4.D
// "Return-coverage analysis").
func (c *Context) checkBlock(b *ast.BlockStmt) bool {
	c.Locals.Push()
	defer c.Locals.Pop()

	guarantees := false
	for _, s := range b.Stmts {
		guarantees = c.checkStmt(s)
	}
	return guarantees
}

// checkStmt type-checks one statement and reports whether it
// guarantees a return on every path through it.
func (c *Context) checkStmt(s ast.Stmt) bool {
	switch st := s.(type) {
	case *ast.LetStmt:
		c.checkLet(st)
		return false

	case *ast.ConstStmt:
		valType := c.ExprType(st.Value)
		c.Locals.Define(Binding{Name: st.Name, Type: valType})
		return false

	case *ast.ReturnStmt:
		c.checkReturn(st)
		return true

	case *ast.BreakStmt:
		if c.LoopDepth == 0 {
			c.errorf(st.Position, "break outside a loop")
		}
		return false

	case *ast.ContinueStmt:
		if c.LoopDepth == 0 {
			c.errorf(st.Position, "continue outside a loop")
		}
		return false

	case *ast.IfStmt:
		return c.checkIfStmt(st)

	case *ast.ForStmt:
		c.checkFor(st)
		return false

	case *ast.ForeachStmt:
		c.checkForeach(st)
		return false

	case *ast.BlockStmt:
		return c.checkBlock(st)

	case *ast.ExprStmt:
		c.ExprType(st.X)
		return false

	default:
		c.errorf(s.Pos(), "internal: unhandled statement node")
		return false
	}
}

func (c *Context) checkLet(st *ast.LetStmt) {
	valType := c.ExprType(st.Value)
	declType := valType
	if st.Annotation != nil {
		t, err := resolveCheckerTypeRef(st.Annotation, c)
		if err != nil {
			c.errorf(st.Position, "let %q: %s", st.Name, err)
		} else {
			if !types.Assignable(t, valType) {
				c.errorf(st.Position, "type mismatch: cannot assign %s to declared type %s", valType, t)
			}
			declType = t
		}
	}
	c.Locals.Define(Binding{Name: st.Name, Type: declType, IsMut: st.IsMut})
}

func (c *Context) checkReturn(st *ast.ReturnStmt) {
	if st.Value == nil {
		if c.retType != nil && c.retType.Kind != types.KVoid {
			c.errorf(st.Position, "missing return value")
		}
		return
	}
	valType := c.ExprType(st.Value)
	if c.retType == nil {
		return
	}
	if c.retType.Kind == types.KVoid {
		c.errorf(st.Position, "return value in void function")
		return
	}
	if !types.Assignable(c.retType, valType) {
		c.errorf(st.Position, "type mismatch: return expected %s, found %s", c.retType, valType)
	}
}

func (c *Context) checkIfStmt(st *ast.IfStmt) bool {
	hasElse := len(st.Arms) > 0 && st.Arms[len(st.Arms)-1].Cond == nil
	allGuarantee := hasElse
	for _, arm := range st.Arms {
		if arm.Cond != nil {
			cond := c.ExprType(arm.Cond)
			if cond.Kind == types.KVoid {
				c.errorf(st.Position, "condition cannot be void")
			}
		}
		if !c.checkStmt(arm.Body) {
			allGuarantee = false
		}
	}
	return allGuarantee
}

func (c *Context) checkFor(st *ast.ForStmt) {
	c.Locals.Push()
	defer c.Locals.Pop()

	if st.Init != nil {
		c.checkStmt(st.Init)
	}
	if st.Cond != nil {
		cond := c.ExprType(st.Cond)
		if cond.Kind == types.KVoid {
			c.errorf(st.Position, "condition cannot be void")
		}
	}
	c.LoopDepth++
	c.checkStmt(st.Body)
	c.LoopDepth--
	if st.Step != nil {
		c.checkStmt(st.Step)
	}
}

func (c *Context) checkForeach(st *ast.ForeachStmt) {
	iterT := c.ExprType(st.Iterable)
	var elemT *types.Type
	switch {
	case iterT.Kind == types.KArray:
		elemT = iterT.Elem
	case types.Equal(iterT, types.StrType):
		elemT = types.StrType
	default:
		c.errorf(st.Position, "foreach requires an array or string, found %s", iterT)
		elemT = types.AnyType
	}

	c.Locals.Push()
	c.Locals.Define(Binding{Name: st.Name, Type: elemT})
	c.LoopDepth++
	c.checkStmt(st.Body)
	c.LoopDepth--
	c.Locals.Pop()
}
