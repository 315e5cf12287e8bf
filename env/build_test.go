package env

import (
	"fmt"
	"testing"

	"github.com/yis-lang/yisc/ast"
	"github.com/yis-lang/yisc/diag"
	"github.com/yis-lang/yisc/types"
)

// fakeChecker stubs the expression-typing boundary so env tests don't
// depend on the check package, mirroring how the teacher's
// declaration_pass tests exercise PassContext without a real
// analyzer.
type fakeChecker struct{}

func (fakeChecker) TypeOfConstExpr(expr ast.Expr, modulePath string, genv *GlobalEnv) (ConstVal, error) {
	lit, ok := expr.(*ast.IntLit)
	if !ok {
		return ConstVal{}, fmt.Errorf("const expression must be a literal")
	}
	return ConstVal{Type: types.NumType, Int: lit.Value}, nil
}

func (fakeChecker) TypeOfGlobalExpr(expr ast.Expr, modulePath string, genv *GlobalEnv) (*types.Type, error) {
	switch e := expr.(type) {
	case *ast.IntLit:
		return types.NumType, nil
	case *ast.Ident:
		for _, mod := range genv.Modules {
			if gv, ok := mod.Globals[e.Name]; ok {
				if gv.Type == nil {
					return nil, fmt.Errorf("global %q used before definition", e.Name)
				}
				return gv.Type, nil
			}
		}
		return nil, fmt.Errorf("unknown name %q", e.Name)
	default:
		return nil, fmt.Errorf("unsupported expression in test checker")
	}
}

func mod(path, name string, entry bool, decls ...ast.Decl) *ast.Module {
	return &ast.Module{Path: path, DeclaredName: name, Decls: decls, IsEntryModule: entry}
}

func TestBuildRegistersClassesAndFunctions(t *testing.T) {
	prog := &ast.Program{Modules: []*ast.Module{
		mod("box.yis", "box", false,
			&ast.ClassDecl{Name: "Box", Fields: []ast.FieldDecl{
				{Name: "value", Type: &ast.NamedTypeRef{Name: "num"}},
			}},
			&ast.FunDecl{Name: "make", Params: []ast.Param{
				{Name: "v", Type: &ast.NamedTypeRef{Name: "num"}},
			}, Return: &ast.NamedTypeRef{Cask: "box", Name: "Box"}},
		),
		mod("main.yis", "main", true, &ast.EntryDecl{}),
	}}

	genv, diags := Build(prog, fakeChecker{})
	if diag.HasErrors(diags, diag.LintStrict) {
		t.Fatalf("unexpected errors: %v", diags)
	}

	ci, ok := genv.Classes["box.yis.Box"]
	if !ok {
		t.Fatalf("class Box not registered")
	}
	if len(ci.Fields) != 1 || ci.Fields[0].Name != "value" {
		t.Fatalf("Box fields = %+v", ci.Fields)
	}
	if !types.Equal(ci.Fields[0].Type, types.NumType) {
		t.Fatalf("Box.value type = %s, want num", ci.Fields[0].Type)
	}

	fn, ok := genv.Functions["box.yis.make"]
	if !ok {
		t.Fatalf("function make not registered")
	}
	wantRet := types.ClassType("box.yis.Box")
	if !types.Equal(wantRet, fn.Ret) {
		t.Errorf("make() return type = %s, want %s", fn.Ret, wantRet)
	}

	if genv.Entry == nil {
		t.Fatalf("entry() not registered")
	}
}

func TestBuildRejectsMissingEntry(t *testing.T) {
	prog := &ast.Program{Modules: []*ast.Module{
		mod("a.yis", "a", false),
	}}
	_, diags := Build(prog, fakeChecker{})
	if !diag.HasErrors(diags, diag.LintStrict) {
		t.Fatalf("expected a missing-entry error")
	}
}

func TestBuildRejectsDuplicateFunction(t *testing.T) {
	prog := &ast.Program{Modules: []*ast.Module{
		mod("a.yis", "a", true,
			&ast.FunDecl{Name: "f"},
			&ast.FunDecl{Name: "f"},
			&ast.EntryDecl{},
		),
	}}
	_, diags := Build(prog, fakeChecker{})
	if !diag.HasErrors(diags, diag.LintStrict) {
		t.Fatalf("expected a duplicate-function error")
	}
}

func TestBuildGlobalUsedBeforeDefinition(t *testing.T) {
	prog := &ast.Program{Modules: []*ast.Module{
		mod("a.yis", "a", true,
			&ast.DefDecl{Name: "x", Value: &ast.Ident{Name: "y"}},
			&ast.DefDecl{Name: "y", Value: &ast.IntLit{Value: 1}},
			&ast.EntryDecl{},
		),
	}}
	_, diags := Build(prog, fakeChecker{})
	found := false
	for _, d := range diags {
		if d.Severity == diag.SeverityError {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected 'used before definition' diagnostic for x, got %v", diags)
	}
}

func TestBuildConstantEvaluation(t *testing.T) {
	prog := &ast.Program{Modules: []*ast.Module{
		mod("a.yis", "a", true,
			&ast.ConstDecl{Name: "N", Value: &ast.IntLit{Value: 42}},
			&ast.EntryDecl{},
		),
	}}
	genv, diags := Build(prog, fakeChecker{})
	if diag.HasErrors(diags, diag.LintStrict) {
		t.Fatalf("unexpected errors: %v", diags)
	}
	cv := genv.Modules["a.yis"].Consts["N"]
	if cv.Int != 42 {
		t.Fatalf("const N = %+v, want Int=42", cv)
	}
}
