package lint

import (
	"testing"

	"github.com/yis-lang/yisc/ast"
	"github.com/yis-lang/yisc/check"
	"github.com/yis-lang/yisc/diag"
	"github.com/yis-lang/yisc/env"
)

func numRef() ast.TypeRef               { return &ast.NamedTypeRef{Name: "num"} }
func strRef() ast.TypeRef               { return &ast.NamedTypeRef{Name: "string"} }
func arrRef(e ast.TypeRef) ast.TypeRef  { return &ast.ArrayTypeRef{Elem: e} }

func build(t *testing.T, mods ...*ast.Module) *env.GlobalEnv {
	t.Helper()
	prog := &ast.Program{Modules: mods}
	genv, diags := env.Build(prog, check.Checker{})
	if diag.HasErrors(diags, diag.LintStrict) {
		t.Fatalf("unexpected build errors: %v", diags)
	}
	return genv
}

func hasWarning(diags []diag.Diagnostic, substr string) bool {
	for _, d := range diags {
		if containsSub(d.Message, substr) {
			return true
		}
	}
	return false
}

func containsSub(s, sub string) bool {
	for i := 0; i+len(sub) <= len(s); i++ {
		if s[i:i+len(sub)] == sub {
			return true
		}
	}
	return false
}

func TestLintImplicitTruthiness(t *testing.T) {
	body := &ast.BlockStmt{Stmts: []ast.Stmt{
		&ast.IfStmt{Arms: []ast.StmtIfArm{
			{Cond: &ast.Ident{Name: "n"}, Body: &ast.BlockStmt{}},
		}},
	}}
	fn := &ast.FunDecl{Name: "f", Params: []ast.Param{{Name: "n", Type: numRef()}}, Body: body}
	m := &ast.Module{Path: "a.yis", DeclaredName: "a", IsEntryModule: true, Decls: []ast.Decl{
		fn,
		&ast.EntryDecl{Body: &ast.BlockStmt{}},
	}}
	genv := build(t, m)

	diags := Run(&ast.Program{Modules: []*ast.Module{m}}, genv, diag.LintWarn)
	if !hasWarning(diags, "implicit truthiness") {
		t.Fatalf("expected implicit-truthiness warning, got %v", diags)
	}
}

func TestLintMissingReturnCoverage(t *testing.T) {
	body := &ast.BlockStmt{Stmts: []ast.Stmt{
		&ast.IfStmt{Arms: []ast.StmtIfArm{
			{Cond: &ast.BinaryExpr{Op: ast.OpGt, L: &ast.Ident{Name: "n"}, R: &ast.IntLit{Value: 0}},
				Body: &ast.ReturnStmt{Value: &ast.Ident{Name: "n"}}},
		}},
	}}
	fn := &ast.FunDecl{Name: "f", Params: []ast.Param{{Name: "n", Type: numRef()}}, Return: numRef(), Body: body}
	m := &ast.Module{Path: "a.yis", DeclaredName: "a", IsEntryModule: true, Decls: []ast.Decl{
		fn,
		&ast.EntryDecl{Body: &ast.BlockStmt{}},
	}}
	genv := build(t, m)

	diags := Run(&ast.Program{Modules: []*ast.Module{m}}, genv, diag.LintWarn)
	if !hasWarning(diags, "missing return coverage") {
		t.Fatalf("expected missing-return-coverage warning, got %v", diags)
	}
}

func TestLintUnguardedIndexNullFlow(t *testing.T) {
	needs := &ast.FunDecl{Name: "needs", Params: []ast.Param{{Name: "s", Type: strRef()}}, Body: &ast.BlockStmt{}}
	body := &ast.BlockStmt{Stmts: []ast.Stmt{
		&ast.ExprStmt{X: &ast.CallExpr{
			Callee: &ast.Ident{Name: "needs"},
			Args:   []ast.Expr{&ast.IndexExpr{X: &ast.Ident{Name: "arr"}, Index: &ast.IntLit{Value: 0}}},
		}},
	}}
	caller := &ast.FunDecl{Name: "f", Params: []ast.Param{{Name: "arr", Type: arrRef(strRef())}}, Body: body}
	m := &ast.Module{Path: "a.yis", DeclaredName: "a", IsEntryModule: true, Decls: []ast.Decl{
		needs, caller,
		&ast.EntryDecl{Body: &ast.BlockStmt{}},
	}}
	genv := build(t, m)

	diags := Run(&ast.Program{Modules: []*ast.Module{m}}, genv, diag.LintWarn)
	if !hasWarning(diags, "unguarded index") {
		t.Fatalf("expected unguarded-index warning, got %v", diags)
	}
}

func TestLintStrictModePromotesToError(t *testing.T) {
	body := &ast.BlockStmt{Stmts: []ast.Stmt{
		&ast.IfStmt{Arms: []ast.StmtIfArm{
			{Cond: &ast.Ident{Name: "n"}, Body: &ast.BlockStmt{}},
		}},
	}}
	fn := &ast.FunDecl{Name: "f", Params: []ast.Param{{Name: "n", Type: numRef()}}, Body: body}
	m := &ast.Module{Path: "a.yis", DeclaredName: "a", IsEntryModule: true, Decls: []ast.Decl{
		fn,
		&ast.EntryDecl{Body: &ast.BlockStmt{}},
	}}
	genv := build(t, m)

	diags := Run(&ast.Program{Modules: []*ast.Module{m}}, genv, diag.LintStrict)
	found := false
	for _, d := range diags {
		if d.Severity == diag.SeverityError {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected strict mode to promote warning to error, got %v", diags)
	}
}

func TestLintCleanFunctionHasNoFindings(t *testing.T) {
	body := &ast.BlockStmt{Stmts: []ast.Stmt{
		&ast.IfStmt{Arms: []ast.StmtIfArm{
			{Cond: &ast.BinaryExpr{Op: ast.OpGt, L: &ast.Ident{Name: "n"}, R: &ast.IntLit{Value: 0}},
				Body: &ast.ReturnStmt{Value: &ast.Ident{Name: "n"}}},
			{Body: &ast.ReturnStmt{Value: &ast.IntLit{Value: 0}}},
		}},
	}}
	fn := &ast.FunDecl{Name: "f", Params: []ast.Param{{Name: "n", Type: numRef()}}, Return: numRef(), Body: body}
	m := &ast.Module{Path: "a.yis", DeclaredName: "a", IsEntryModule: true, Decls: []ast.Decl{
		fn,
		&ast.EntryDecl{Body: &ast.BlockStmt{}},
	}}
	genv := build(t, m)

	diags := Run(&ast.Program{Modules: []*ast.Module{m}}, genv, diag.LintWarn)
	if len(diags) != 0 {
		t.Fatalf("expected no findings, got %v", diags)
	}
}
