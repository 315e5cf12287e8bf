package codegen

import (
	"fmt"

	"github.com/yis-lang/yisc/ast"
	"github.com/yis-lang/yisc/check"
	"github.com/yis-lang/yisc/types"
)

// emitBlock opens a C block, emits each statement, and releases every
// local declared directly in this block before closing it (spec.md
// §4.F's retain/release discipline for scope exit).
func (e *Emitter) emitBlock(b *ast.BlockStmt, c *check.Context) error {
	e.w.line("{")
	e.w.indent++
	c.Locals.Push()

	var declared []string
	for _, s := range b.Stmts {
		names, err := e.emitStmt(s, c)
		if err != nil {
			return err
		}
		declared = append(declared, names...)
	}

	for i := len(declared) - 1; i >= 0; i-- {
		e.w.line("ergo_release_val(%s);", declared[i])
	}
	c.Locals.Pop()
	e.w.indent--
	e.w.line("}")
	return nil
}

// emitStmt emits one statement and returns the C-local names it
// introduced directly into the enclosing block (only LetStmt and
// ConstStmt introduce any).
func (e *Emitter) emitStmt(s ast.Stmt, c *check.Context) ([]string, error) {
	switch st := s.(type) {
	case *ast.LetStmt:
		val, err := e.emitExpr(st.Value, c)
		if err != nil {
			return nil, err
		}
		valType := c.ExprType(st.Value)
		e.w.line("ErgoVal %s = %s;", st.Name, val)
		c.Locals.Define(check.Binding{Name: st.Name, Type: valType, IsMut: st.IsMut})
		return []string{st.Name}, nil

	case *ast.ConstStmt:
		val, err := e.emitExpr(st.Value, c)
		if err != nil {
			return nil, err
		}
		valType := c.ExprType(st.Value)
		e.w.line("ErgoVal %s = %s;", st.Name, val)
		c.Locals.Define(check.Binding{Name: st.Name, Type: valType})
		return []string{st.Name}, nil

	case *ast.ReturnStmt:
		if st.Value == nil {
			e.w.line("return;")
			return nil, nil
		}
		val, err := e.emitExpr(st.Value, c)
		if err != nil {
			return nil, err
		}
		e.w.line("return %s;", val)
		return nil, nil

	case *ast.BreakStmt:
		e.w.line("break;")
		return nil, nil

	case *ast.ContinueStmt:
		e.w.line("continue;")
		return nil, nil

	case *ast.IfStmt:
		return nil, e.emitIfStmt(st, c)

	case *ast.ForStmt:
		return nil, e.emitForStmt(st, c)

	case *ast.ForeachStmt:
		return nil, e.emitForeachStmt(st, c)

	case *ast.BlockStmt:
		return nil, e.emitBlock(st, c)

	case *ast.ExprStmt:
		val, err := e.emitExpr(st.X, c)
		if err != nil {
			return nil, err
		}
		if val != "" {
			e.w.line("ergo_release_val(%s);", val)
		}
		return nil, nil

	default:
		return nil, fmt.Errorf("codegen: unhandled statement node %T", s)
	}
}

func (e *Emitter) emitIfStmt(st *ast.IfStmt, c *check.Context) error {
	for i, arm := range st.Arms {
		if arm.Cond == nil {
			e.w.line("else")
		} else {
			cond, err := e.emitExpr(arm.Cond, c)
			if err != nil {
				return err
			}
			kw := "if"
			if i > 0 {
				kw = "else if"
			}
			e.w.line("%s (ergo_as_bool(%s))", kw, cond)
		}
		body, ok := arm.Body.(*ast.BlockStmt)
		if !ok {
			body = &ast.BlockStmt{Stmts: []ast.Stmt{arm.Body}}
		}
		if err := e.emitBlock(body, c); err != nil {
			return err
		}
	}
	return nil
}

func (e *Emitter) emitForStmt(st *ast.ForStmt, c *check.Context) error {
	e.w.line("{")
	e.w.indent++
	c.Locals.Push()

	var initNames []string
	if st.Init != nil {
		var err error
		initNames, err = e.emitStmt(st.Init, c)
		if err != nil {
			return err
		}
	}

	if st.Cond != nil {
		cond, err := e.emitExpr(st.Cond, c)
		if err != nil {
			return err
		}
		e.w.line("while (ergo_as_bool(%s)) {", cond)
	} else {
		e.w.line("while (true) {")
	}
	e.w.indent++

	body, ok := st.Body.(*ast.BlockStmt)
	if !ok {
		body = &ast.BlockStmt{Stmts: []ast.Stmt{st.Body}}
	}
	if err := e.emitBlock(body, c); err != nil {
		return err
	}
	if st.Step != nil {
		if _, err := e.emitStmt(st.Step, c); err != nil {
			return err
		}
	}
	e.w.indent--
	e.w.line("}")

	for i := len(initNames) - 1; i >= 0; i-- {
		e.w.line("ergo_release_val(%s);", initNames[i])
	}
	c.Locals.Pop()
	e.w.indent--
	e.w.line("}")
	return nil
}

func (e *Emitter) emitForeachStmt(st *ast.ForeachStmt, c *check.Context) error {
	iterable, err := e.emitExpr(st.Iterable, c)
	if err != nil {
		return err
	}
	iterT := c.ExprType(st.Iterable)

	e.w.line("{")
	e.w.indent++
	arrTmp := e.nextTmp()
	e.w.line("ErgoVal %s = %s;", arrTmp, iterable)

	idx := e.nextTmp()
	c.Locals.Push()

	// checkForeach accepts a string iterand too, and a string's backing
	// ErgoStr has no shared layout with ErgoArr, so the loop and the
	// per-element load both need a distinct path for it (the same split
	// emitIndex makes for indexing).
	if types.Equal(iterT, types.StrType) {
		e.w.line("for (size_t %s = 0; %s < ((ErgoStr *)%s.as.p)->len; ) {", idx, idx, arrTmp)
		e.w.indent++
		e.w.line("ErgoStr *__fs = (ErgoStr *)%s.as.p;", arrTmp)
		e.w.line("unsigned char __lead = (unsigned char)__fs->data[%s];", idx)
		e.w.line("size_t __n = __lead < 0xC0 ? 1 : __lead < 0xE0 ? 2 : __lead < 0xF0 ? 3 : 4;")
		e.w.line("if (%s + __n > __fs->len) __n = __fs->len - %s;", idx, idx)
		e.w.line("ErgoVal %s = EV_STR(ergo_str_from_slice(__fs->data + %s, __n));", st.Name, idx)
		e.w.line("%s += __n;", idx)
		c.Locals.Define(check.Binding{Name: st.Name, Type: types.StrType})
	} else {
		e.w.line("for (size_t %s = 0; %s < ((ErgoArr *)%s.as.p)->len; %s++) {", idx, idx, arrTmp, idx)
		e.w.indent++
		elemT := iterT
		if iterT.Kind == types.KArray {
			elemT = iterT.Elem
		}
		e.w.line("ErgoVal %s = ergo_arr_get((ErgoArr *)%s.as.p, (int64_t)%s);", st.Name, arrTmp, idx)
		c.Locals.Define(check.Binding{Name: st.Name, Type: elemT})
	}

	body, ok := st.Body.(*ast.BlockStmt)
	if !ok {
		body = &ast.BlockStmt{Stmts: []ast.Stmt{st.Body}}
	}
	for _, s := range body.Stmts {
		if _, err := e.emitStmt(s, c); err != nil {
			return err
		}
	}
	e.w.line("ergo_release_val(%s);", st.Name)
	c.Locals.Pop()

	e.w.indent--
	e.w.line("}")
	e.w.line("ergo_release_val(%s);", arrTmp)
	e.w.indent--
	e.w.line("}")
	return nil
}
