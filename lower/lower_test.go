package lower

import (
	"testing"

	"github.com/yis-lang/yisc/ast"
)

func TestLowerLenOperator(t *testing.T) {
	body := &ast.BlockStmt{Stmts: []ast.Stmt{
		&ast.ExprStmt{X: &ast.UnaryExpr{Op: ast.OpLen, X: &ast.Ident{Name: "xs"}}},
	}}
	Program(&ast.Program{Modules: []*ast.Module{{Decls: []ast.Decl{
		&ast.FunDecl{Name: "f", Body: body},
	}}}})

	call, ok := body.Stmts[0].(*ast.ExprStmt).X.(*ast.CallExpr)
	if !ok {
		t.Fatalf("expected #xs to lower to a call, got %T", body.Stmts[0].(*ast.ExprStmt).X)
	}
	ident, ok := call.Callee.(*ast.Ident)
	if !ok || ident.Name != "len" {
		t.Fatalf("expected bare len() call, got %+v", call.Callee)
	}
	if len(call.Args) != 1 {
		t.Fatalf("expected 1 argument, got %d", len(call.Args))
	}
}

func TestLowerStdrQualifiedCallsBecomeBare(t *testing.T) {
	body := &ast.BlockStmt{Stmts: []ast.Stmt{
		&ast.ExprStmt{X: &ast.CallExpr{
			Callee: &ast.MemberExpr{X: &ast.Ident{Name: "stdr"}, Name: "str"},
			Args:   []ast.Expr{&ast.IntLit{Value: 1}},
		}},
	}}
	Program(&ast.Program{Modules: []*ast.Module{{Decls: []ast.Decl{
		&ast.FunDecl{Name: "f", Body: body},
	}}}})

	call := body.Stmts[0].(*ast.ExprStmt).X.(*ast.CallExpr)
	ident, ok := call.Callee.(*ast.Ident)
	if !ok || ident.Name != "str" {
		t.Fatalf("expected bare str() call, got %+v", call.Callee)
	}
}

func TestLowerWritefTupling(t *testing.T) {
	body := &ast.BlockStmt{Stmts: []ast.Stmt{
		&ast.ExprStmt{X: &ast.CallExpr{
			Callee: &ast.Ident{Name: "writef"},
			Args: []ast.Expr{
				&ast.StringLit{Parts: []ast.StringPart{{Text: "%d %d"}}},
				&ast.IntLit{Value: 1},
				&ast.IntLit{Value: 2},
			},
		}},
	}}
	Program(&ast.Program{Modules: []*ast.Module{{Decls: []ast.Decl{
		&ast.FunDecl{Name: "f", Body: body},
	}}}})

	call := body.Stmts[0].(*ast.ExprStmt).X.(*ast.CallExpr)
	if len(call.Args) != 2 {
		t.Fatalf("expected writef to collapse to 2 args, got %d", len(call.Args))
	}
	tuple, ok := call.Args[1].(*ast.TupleExpr)
	if !ok || len(tuple.Elems) != 2 {
		t.Fatalf("expected a 2-element tuple, got %+v", call.Args[1])
	}
}

func TestLowerWritefAlreadyTupledPassesThrough(t *testing.T) {
	tuple := &ast.TupleExpr{Elems: []ast.Expr{&ast.IntLit{Value: 1}, &ast.IntLit{Value: 2}}}
	call := &ast.CallExpr{
		Callee: &ast.Ident{Name: "writef"},
		Args:   []ast.Expr{&ast.StringLit{}, tuple},
	}
	body := &ast.BlockStmt{Stmts: []ast.Stmt{&ast.ExprStmt{X: call}}}
	Program(&ast.Program{Modules: []*ast.Module{{Decls: []ast.Decl{
		&ast.FunDecl{Name: "f", Body: body},
	}}}})

	if len(call.Args) != 2 || call.Args[1] != ast.Expr(tuple) {
		t.Fatalf("expected already-tupled writef call to pass through unchanged, got %+v", call.Args)
	}
}

func TestLowerMoveBecomesMoveExpr(t *testing.T) {
	body := &ast.BlockStmt{Stmts: []ast.Stmt{
		&ast.LetStmt{Name: "y", Value: &ast.CallExpr{
			Callee: &ast.Ident{Name: "move"},
			Args:   []ast.Expr{&ast.Ident{Name: "x"}},
		}},
	}}
	Program(&ast.Program{Modules: []*ast.Module{{Decls: []ast.Decl{
		&ast.FunDecl{Name: "f", Body: body},
	}}}})

	mv, ok := body.Stmts[0].(*ast.LetStmt).Value.(*ast.MoveExpr)
	if !ok {
		t.Fatalf("expected move(x) to lower to a MoveExpr, got %T", body.Stmts[0].(*ast.LetStmt).Value)
	}
	if ident, ok := mv.X.(*ast.Ident); !ok || ident.Name != "x" {
		t.Fatalf("expected MoveExpr.X = x, got %+v", mv.X)
	}
}

func TestLowerIsIdempotent(t *testing.T) {
	body := &ast.BlockStmt{Stmts: []ast.Stmt{
		&ast.ExprStmt{X: &ast.UnaryExpr{Op: ast.OpLen, X: &ast.Ident{Name: "xs"}}},
		&ast.ExprStmt{X: &ast.CallExpr{
			Callee: &ast.Ident{Name: "move"},
			Args:   []ast.Expr{&ast.Ident{Name: "x"}},
		}},
	}}
	prog := &ast.Program{Modules: []*ast.Module{{Decls: []ast.Decl{
		&ast.FunDecl{Name: "f", Body: body},
	}}}}

	Program(prog)
	first := body.Stmts[0].(*ast.ExprStmt).X
	firstMove := body.Stmts[1].(*ast.ExprStmt).X

	Program(prog)
	second := body.Stmts[0].(*ast.ExprStmt).X
	secondMove := body.Stmts[1].(*ast.ExprStmt).X

	if _, ok := second.(*ast.CallExpr); !ok {
		t.Fatalf("second lowering pass changed shape: %T -> %T", first, second)
	}
	if _, ok := secondMove.(*ast.MoveExpr); !ok {
		t.Fatalf("second lowering pass changed move shape: %T -> %T", firstMove, secondMove)
	}
}
