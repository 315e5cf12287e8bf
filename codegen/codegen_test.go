package codegen

import (
	"strings"
	"testing"

	"github.com/yis-lang/yisc/ast"
	"github.com/yis-lang/yisc/check"
	"github.com/yis-lang/yisc/diag"
	"github.com/yis-lang/yisc/env"
)

func numRef() ast.TypeRef { return &ast.NamedTypeRef{Name: "num"} }
func strRef() ast.TypeRef { return &ast.NamedTypeRef{Name: "string"} }

func build(t *testing.T, mods ...*ast.Module) *env.GlobalEnv {
	t.Helper()
	prog := &ast.Program{Modules: mods}
	genv, diags := env.Build(prog, check.Checker{})
	if diag.HasErrors(diags, diag.LintStrict) {
		t.Fatalf("unexpected build errors: %v", diags)
	}
	return genv
}

func emitOK(t *testing.T, prog *ast.Program, genv *env.GlobalEnv) string {
	t.Helper()
	out, err := Emit(prog, genv)
	if err != nil {
		t.Fatalf("Emit: %v", err)
	}
	return out
}

func TestEmitArithmeticEntry(t *testing.T) {
	entry := &ast.EntryDecl{Body: &ast.BlockStmt{Stmts: []ast.Stmt{
		&ast.LetStmt{Name: "x", Value: &ast.BinaryExpr{
			Op: ast.OpAdd,
			L:  &ast.IntLit{Value: 1},
			R:  &ast.IntLit{Value: 2},
		}},
	}}}
	m := &ast.Module{Path: "main.yis", DeclaredName: "main", IsEntryModule: true, Decls: []ast.Decl{entry}}
	genv := build(t, m)
	prog := &ast.Program{Modules: []*ast.Module{m}}

	out := emitOK(t, prog, genv)
	if !strings.Contains(out, "int main(void)") {
		t.Fatalf("expected a main function, got:\n%s", out)
	}
	if !strings.Contains(out, "ergo_entry") {
		t.Fatalf("expected an entry function, got:\n%s", out)
	}
}

func TestEmitFunctionCallAndReturn(t *testing.T) {
	add := &ast.FunDecl{
		Name:   "add",
		Params: []ast.Param{{Name: "a", Type: numRef()}, {Name: "b", Type: numRef()}},
		Return: numRef(),
		Body: &ast.BlockStmt{Stmts: []ast.Stmt{
			&ast.ReturnStmt{Value: &ast.BinaryExpr{Op: ast.OpAdd, L: &ast.Ident{Name: "a"}, R: &ast.Ident{Name: "b"}}},
		}},
	}
	entry := &ast.EntryDecl{Body: &ast.BlockStmt{Stmts: []ast.Stmt{
		&ast.LetStmt{Name: "r", Value: &ast.CallExpr{
			Callee: &ast.Ident{Name: "add"},
			Args:   []ast.Expr{&ast.IntLit{Value: 3}, &ast.IntLit{Value: 4}},
		}},
	}}}
	m := &ast.Module{Path: "main.yis", DeclaredName: "main", IsEntryModule: true, Decls: []ast.Decl{add, entry}}
	genv := build(t, m)
	prog := &ast.Program{Modules: []*ast.Module{m}}

	out := emitOK(t, prog, genv)
	if !strings.Contains(out, mangleGlobal("main.yis", "add")) {
		t.Fatalf("expected mangled add function in output, got:\n%s", out)
	}
}

func TestEmitClassNewAndFieldAccess(t *testing.T) {
	cls := &ast.ClassDecl{
		Name:   "Point",
		Fields: []ast.FieldDecl{{Name: "x", Type: numRef()}, {Name: "y", Type: numRef()}},
	}
	entry := &ast.EntryDecl{Body: &ast.BlockStmt{Stmts: []ast.Stmt{
		&ast.LetStmt{Name: "p", IsMut: true, Value: &ast.NewExpr{
			Class:      &ast.NamedTypeRef{Name: "Point"},
			Positional: []ast.Expr{&ast.IntLit{Value: 1}, &ast.IntLit{Value: 2}},
		}},
		&ast.ExprStmt{X: &ast.MemberExpr{X: &ast.Ident{Name: "p"}, Name: "x"}},
	}}}
	m := &ast.Module{Path: "main.yis", DeclaredName: "main", IsEntryModule: true, Decls: []ast.Decl{cls, entry}}
	genv := build(t, m)
	prog := &ast.Program{Modules: []*ast.Module{m}}

	out := emitOK(t, prog, genv)
	if !strings.Contains(out, mangleClass("main.yis", "Point")) {
		t.Fatalf("expected mangled Point struct in output, got:\n%s", out)
	}
	if !strings.Contains(out, "f_x") || !strings.Contains(out, "f_y") {
		t.Fatalf("expected generated field names in output, got:\n%s", out)
	}
}

func TestEmitLambdaNoCapture(t *testing.T) {
	entry := &ast.EntryDecl{Body: &ast.BlockStmt{Stmts: []ast.Stmt{
		&ast.LetStmt{Name: "f", Value: &ast.LambdaExpr{
			Params: []ast.Param{{Name: "n", Type: numRef()}},
			Body:   &ast.BinaryExpr{Op: ast.OpAdd, L: &ast.Ident{Name: "n"}, R: &ast.IntLit{Value: 1}},
		}},
	}}}
	m := &ast.Module{Path: "main.yis", DeclaredName: "main", IsEntryModule: true, Decls: []ast.Decl{entry}}
	genv := build(t, m)
	prog := &ast.Program{Modules: []*ast.Module{m}}

	out := emitOK(t, prog, genv)
	if !strings.Contains(out, "__lambda_main_yis_1") {
		t.Fatalf("expected a generated lambda function, got:\n%s", out)
	}
	if !strings.Contains(out, "ergo_fn_new") {
		t.Fatalf("expected the lambda to be wrapped as an ErgoFn, got:\n%s", out)
	}
}

func TestEmitWritefPreludeCall(t *testing.T) {
	entry := &ast.EntryDecl{Body: &ast.BlockStmt{Stmts: []ast.Stmt{
		&ast.ExprStmt{X: &ast.CallExpr{
			Callee: &ast.Ident{Name: "writef"},
			Args: []ast.Expr{
				&ast.StringLit{Parts: []ast.StringPart{{Text: "hi {}"}}},
				&ast.TupleExpr{Elems: []ast.Expr{&ast.IntLit{Value: 5}}},
			},
		}},
	}}}
	m := &ast.Module{Path: "main.yis", DeclaredName: "main", IsEntryModule: true, Decls: []ast.Decl{entry}}
	genv := build(t, m)
	prog := &ast.Program{Modules: []*ast.Module{m}}

	out := emitOK(t, prog, genv)
	if !strings.Contains(out, "stdr_writef_args") {
		t.Fatalf("expected a stdr_writef_args call, got:\n%s", out)
	}
}

func TestEmitMatchExprBindsIdentPattern(t *testing.T) {
	entry := &ast.EntryDecl{Body: &ast.BlockStmt{Stmts: []ast.Stmt{
		&ast.LetStmt{Name: "r", Value: &ast.MatchExpr{
			Scrutinee: &ast.IntLit{Value: 7},
			Arms: []ast.MatchArm{
				{Pattern: &ast.IntPattern{Value: 0}, Body: &ast.StringLit{Parts: []ast.StringPart{{Text: "zero"}}}},
				{Pattern: &ast.IdentPattern{Name: "n"}, Body: &ast.Ident{Name: "n"}},
			},
		}},
	}}}
	m := &ast.Module{Path: "main.yis", DeclaredName: "main", IsEntryModule: true, Decls: []ast.Decl{entry}}
	genv := build(t, m)
	prog := &ast.Program{Modules: []*ast.Module{m}}

	out := emitOK(t, prog, genv)
	if !strings.Contains(out, "ergo_as_int(") {
		t.Fatalf("expected an int-pattern comparison in output, got:\n%s", out)
	}
	if !strings.Contains(out, "ErgoVal n = ") {
		t.Fatalf("expected the ident pattern to bind n, got:\n%s", out)
	}
}
