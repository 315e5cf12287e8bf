package lower

import "github.com/yis-lang/yisc/ast"

func (l *Lowerer) block(b *ast.BlockStmt) {
	if b == nil {
		return
	}
	for i, s := range b.Stmts {
		b.Stmts[i] = l.stmt(s)
	}
}

func (l *Lowerer) stmt(s ast.Stmt) ast.Stmt {
	switch st := s.(type) {
	case *ast.LetStmt:
		st.Value = l.expr(st.Value)
		return st
	case *ast.ConstStmt:
		st.Value = l.expr(st.Value)
		return st
	case *ast.ReturnStmt:
		if st.Value != nil {
			st.Value = l.expr(st.Value)
		}
		return st
	case *ast.IfStmt:
		for i := range st.Arms {
			if st.Arms[i].Cond != nil {
				st.Arms[i].Cond = l.expr(st.Arms[i].Cond)
			}
			st.Arms[i].Body = l.stmt(st.Arms[i].Body)
		}
		return st
	case *ast.ForStmt:
		if st.Init != nil {
			st.Init = l.stmt(st.Init)
		}
		if st.Cond != nil {
			st.Cond = l.expr(st.Cond)
		}
		if st.Step != nil {
			st.Step = l.stmt(st.Step)
		}
		st.Body = l.stmt(st.Body)
		return st
	case *ast.ForeachStmt:
		st.Iterable = l.expr(st.Iterable)
		st.Body = l.stmt(st.Body)
		return st
	case *ast.BlockStmt:
		l.block(st)
		return st
	case *ast.ExprStmt:
		st.X = l.expr(st.X)
		return st
	default:
		return s
	}
}

// expr lowers e and returns its replacement (itself, if no rewrite
// rule applies at this node).
func (l *Lowerer) expr(e ast.Expr) ast.Expr {
	if e == nil {
		return nil
	}
	switch x := e.(type) {
	case *ast.StringLit:
		for i := range x.Parts {
			if x.Parts[i].Expr != nil {
				x.Parts[i].Expr = l.expr(x.Parts[i].Expr)
			}
		}
		return x

	case *ast.TupleExpr:
		for i := range x.Elems {
			x.Elems[i] = l.expr(x.Elems[i])
		}
		return x

	case *ast.ArrayExpr:
		for i := range x.Elems {
			x.Elems[i] = l.expr(x.Elems[i])
		}
		return x

	case *ast.UnaryExpr:
		x.X = l.expr(x.X)
		if x.Op == ast.OpLen {
			return l.track(&ast.CallExpr{
				Callee:   &ast.Ident{Name: "len", Position: x.Position},
				Args:     []ast.Expr{x.X},
				Position: x.Position,
			}).(ast.Expr)
		}
		return x

	case *ast.BinaryExpr:
		x.L = l.expr(x.L)
		x.R = l.expr(x.R)
		return x

	case *ast.AssignExpr:
		x.Target = l.expr(x.Target)
		x.Value = l.expr(x.Value)
		return x

	case *ast.CallExpr:
		return l.call(x)

	case *ast.IndexExpr:
		x.X = l.expr(x.X)
		x.Index = l.expr(x.Index)
		return x

	case *ast.MemberExpr:
		x.X = l.expr(x.X)
		return x

	case *ast.ParenExpr:
		x.X = l.expr(x.X)
		return x

	case *ast.TernaryExpr:
		x.Cond = l.expr(x.Cond)
		x.Then = l.expr(x.Then)
		x.Else = l.expr(x.Else)
		return x

	case *ast.IfExpr:
		for i := range x.Arms {
			if x.Arms[i].Cond != nil {
				x.Arms[i].Cond = l.expr(x.Arms[i].Cond)
			}
			x.Arms[i].Body = l.expr(x.Arms[i].Body)
		}
		return x

	case *ast.MatchExpr:
		x.Scrutinee = l.expr(x.Scrutinee)
		for i := range x.Arms {
			x.Arms[i].Body = l.expr(x.Arms[i].Body)
		}
		return x

	case *ast.LambdaExpr:
		x.Body = l.expr(x.Body)
		return x

	case *ast.BlockExpr:
		l.block(x.Block)
		return x

	case *ast.NewExpr:
		for i := range x.Positional {
			x.Positional[i] = l.expr(x.Positional[i])
		}
		for i := range x.Named {
			x.Named[i].Value = l.expr(x.Named[i].Value)
		}
		return x

	case *ast.MoveExpr:
		x.X = l.expr(x.X)
		return x

	default:
		return e
	}
}

// call lowers a CallExpr, applying the stdr-normalization and
// writef-tupling rules, and rewriting a bare `move(x)` into a
// dedicated Move node.
func (l *Lowerer) call(call *ast.CallExpr) ast.Expr {
	for i := range call.Args {
		call.Args[i] = l.expr(call.Args[i])
	}

	if name, ok := stdrQualifiedCall(call.Callee); ok {
		call.Callee = &ast.Ident{Name: name, Position: call.Position}
	}

	if ident, ok := call.Callee.(*ast.Ident); ok {
		switch ident.Name {
		case "move":
			if len(call.Args) == 1 {
				return l.track(&ast.MoveExpr{X: call.Args[0], Position: call.Position}).(ast.Expr)
			}
		case "writef":
			tupleWritefArgs(call)
		}
	}

	return call
}

// stdrQualifiedCall recognizes `stdr.writef`/`stdr.readf`/`stdr.str`
// and returns the bare name they normalize to.
func stdrQualifiedCall(callee ast.Expr) (string, bool) {
	m, ok := callee.(*ast.MemberExpr)
	if !ok {
		return "", false
	}
	base, ok := m.X.(*ast.Ident)
	if !ok || base.Name != "stdr" {
		return "", false
	}
	switch m.Name {
	case "writef", "readf", "str":
		return m.Name, true
	default:
		return "", false
	}
}

// tupleWritefArgs collapses writef's variadic data arguments into a
// single trailing tuple, passing through a call already written in
// that canonical two-argument form.
func tupleWritefArgs(call *ast.CallExpr) {
	if len(call.Args) < 2 {
		return
	}
	rest := call.Args[1:]
	if len(rest) == 1 {
		if _, already := rest[0].(*ast.TupleExpr); already {
			return
		}
	}
	elems := make([]ast.Expr, len(rest))
	copy(elems, rest)
	call.Args = []ast.Expr{call.Args[0], &ast.TupleExpr{Elems: elems, Position: call.Position}}
}
