package yis

import (
	"strings"
	"testing"

	"github.com/yis-lang/yisc/ast"
	"github.com/yis-lang/yisc/diag"
)

func numRef() ast.TypeRef { return &ast.NamedTypeRef{Name: "num"} }

func TestCompileSimpleEntry(t *testing.T) {
	entry := &ast.EntryDecl{Body: &ast.BlockStmt{Stmts: []ast.Stmt{
		&ast.LetStmt{Name: "x", Value: &ast.BinaryExpr{
			Op: ast.OpAdd,
			L:  &ast.IntLit{Value: 1},
			R:  &ast.IntLit{Value: 2},
		}},
	}}}
	m := &ast.Module{Path: "main.yis", DeclaredName: "main", IsEntryModule: true, Decls: []ast.Decl{entry}}
	prog := &ast.Program{Modules: []*ast.Module{m}}

	res, diags := Compile(prog, diag.Options{})
	if diag.HasErrors(diags, diag.LintWarn) {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}
	if res == nil {
		t.Fatal("expected a non-nil result")
	}
	if !strings.Contains(res.C, "int main(void)") {
		t.Fatalf("expected generated C to contain a main function, got:\n%s", res.C)
	}
}

func TestCompileReportsCheckErrors(t *testing.T) {
	// Calling an undeclared function should surface as a diagnostic
	// rather than panicking the facade.
	entry := &ast.EntryDecl{Body: &ast.BlockStmt{Stmts: []ast.Stmt{
		&ast.ExprStmt{X: &ast.CallExpr{Callee: &ast.Ident{Name: "nonexistent"}}},
	}}}
	m := &ast.Module{Path: "main.yis", DeclaredName: "main", IsEntryModule: true, Decls: []ast.Decl{entry}}
	prog := &ast.Program{Modules: []*ast.Module{m}}

	res, diags := Compile(prog, diag.Options{})
	if res != nil {
		t.Fatalf("expected no result for an unresolved call, got C output")
	}
	if !diag.HasErrors(diags, diag.LintWarn) {
		t.Fatalf("expected at least one error diagnostic, got: %v", diags)
	}
}

func TestCompileFunctionDecl(t *testing.T) {
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
	prog := &ast.Program{Modules: []*ast.Module{m}}

	res, diags := Compile(prog, diag.Options{})
	if diag.HasErrors(diags, diag.LintWarn) {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}
	if res == nil {
		t.Fatal("expected a non-nil result")
	}
}
