// Package env builds the whole-program GlobalEnv: the cross-module
// symbol tables a Yis program's classes, functions, constants, and
// globals are resolved against (spec.md §4.B). It runs once, after
// lowering, and before per-function type checking.
package env

import (
	"github.com/yis-lang/yisc/ast"
	"github.com/yis-lang/yisc/types"
)

// FieldEntry is one resolved class field.
type FieldEntry struct {
	Name string
	Type *types.Type
}

// MethodEntry is one resolved method signature, keyed by name within
// its owning ClassInfo.
type MethodEntry struct {
	Name string
	Sig  *FunSig
}

// FunSig is a fully resolved function or method signature (grounded on
// original_source/src/ergo/typecheck.h's FunSig).
type FunSig struct {
	Name       string
	Module     string // declared cask name
	ModulePath string // import path used by other modules
	Params     []*types.Type
	ParamNames []string
	ParamMut   []bool // per-parameter mutability, for method receivers and `?mut` params
	Ret        *types.Type
	IsMethod   bool
	RecvMut    bool
	OwnerClass string
	Vis        ast.Visibility
}

// ClassInfo is a fully resolved class, struct, or enum declaration.
type ClassInfo struct {
	Name       string
	Module     string
	QName      string // "module.Name", the globally unique key
	Vis        ast.Visibility
	Kind       ast.ClassKind
	ModulePath string
	Fields     []FieldEntry
	Methods    []MethodEntry
	HasInit    bool // true when an `init` method exists
}

// MethodByName finds a method by name, returning (sig, true) or (nil, false).
func (c *ClassInfo) MethodByName(name string) (*FunSig, bool) {
	for _, m := range c.Methods {
		if m.Name == name {
			return m.Sig, true
		}
	}
	return nil, false
}

// FieldByName finds a field by name.
func (c *ClassInfo) FieldByName(name string) (FieldEntry, bool) {
	for _, f := range c.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return FieldEntry{}, false
}

// GlobalVar is one module-level `def`.
type GlobalVar struct {
	Name  string
	Type  *types.Type
	IsMut bool
}

// ConstVal is the statically-evaluated value of a module-level `const`
// (spec.md §4.B pass 5's tiny constant-folding interpreter).
type ConstVal struct {
	Type    *types.Type
	IsFloat bool
	Int     int64
	Float   float64
	Bool    bool
	Str     string
}

// ModuleInfo tracks the per-cask bookkeeping a whole-program build
// needs: its declared name, its import list, its constants, and its
// globals, keyed by module path (spec.md's "cask").
type ModuleInfo struct {
	Path         string
	DeclaredName string
	Imports      []string
	Consts       map[string]ConstVal
	Globals      map[string]GlobalVar
	IsEntry      bool
}

// GlobalEnv is the whole-program symbol table produced by Build
// (spec.md §4.B), grounded on original_source/src/ergo/typecheck.h's
// GlobalEnv struct-of-arrays shape, reorganized into Go maps since Go
// has no arena-indexed array idiom worth imitating here.
type GlobalEnv struct {
	Modules   map[string]*ModuleInfo // keyed by module path
	Classes   map[string]*ClassInfo  // keyed by "module.Name"
	Functions map[string]*FunSig     // keyed by "module.name"
	Entry     *FunSig                // the resolved entry() function, if any
}

func newGlobalEnv() *GlobalEnv {
	return &GlobalEnv{
		Modules:   make(map[string]*ModuleInfo),
		Classes:   make(map[string]*ClassInfo),
		Functions: make(map[string]*FunSig),
	}
}

// ClassQName builds the "module.Name" key ClassInfo and field/method
// resolution use throughout env and check.
func ClassQName(module, name string) string {
	return module + "." + name
}

// FuncQName builds the "module.name" key Functions is keyed by.
func FuncQName(module, name string) string {
	return module + "." + name
}

// TypeChecker is the dependency env.Build injects to type-check
// constant and global initializer expressions (spec.md §4.B pass 5
// and pass 10) without importing the check package directly — the
// same inversion the teacher uses for its BuiltinChecker interface in
// pass_context.go, avoiding an env<->check import cycle.
type TypeChecker interface {
	// TypeOfConstExpr evaluates a const initializer to a concrete
	// value, or returns an error if it is not a literal-foldable
	// expression (spec.md §4.B pass 5: "const expressions must be
	// literals or simple numeric expressions over them").
	TypeOfConstExpr(expr ast.Expr, modulePath string, genv *GlobalEnv) (ConstVal, error)

	// TypeOfGlobalExpr type-checks a `def` initializer expression in
	// module scope, returning its static type.
	TypeOfGlobalExpr(expr ast.Expr, modulePath string, genv *GlobalEnv) (*types.Type, error)
}
