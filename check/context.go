// Package check implements the expression and statement type checker
// (spec.md §4.D): given a function or method body and the whole-program
// GlobalEnv, it assigns a types.Type to every expression and validates
// every statement rule, producing diagnostics.
package check

import (
	"github.com/yis-lang/yisc/ast"
	"github.com/yis-lang/yisc/diag"
	"github.com/yis-lang/yisc/env"
	"github.com/yis-lang/yisc/types"
)

// Context is the per-function type-checking state: which module and
// (optionally) class the body belongs to, its local scope chain, and
// the accumulated diagnostics. One Context is created per function,
// method, or entry body.
type Context struct {
	Genv         *env.GlobalEnv
	ModulePath   string
	ModuleName   string
	CurrentClass string // "" outside a method body
	Locals       *Locals
	LoopDepth    int
	Diags        []diag.Diagnostic

	// retType is the enclosing function's declared return type, used
	// by checkReturn to validate each `return` against it.
	retType *types.Type
}

func NewContext(genv *env.GlobalEnv, modulePath string) *Context {
	mod := genv.Modules[modulePath]
	name := ""
	if mod != nil {
		name = mod.DeclaredName
	}
	return &Context{Genv: genv, ModulePath: modulePath, ModuleName: name, Locals: NewLocals()}
}

func (c *Context) errorf(pos ast.Position, format string, args ...any) {
	c.Diags = append(c.Diags, diag.Errorf(c.ModulePath, pos, format, args...))
}

func (c *Context) currentClassInfo() *env.ClassInfo {
	if c.CurrentClass == "" {
		return nil
	}
	return c.Genv.Classes[env.ClassQName(c.ModulePath, c.CurrentClass)]
}

// isCaskName reports whether name refers to the current cask or one
// of its imports, used by both identifier and call-shape resolution.
func (c *Context) isCaskName(name string) (modulePath string, ok bool) {
	if name == c.ModuleName {
		return c.ModulePath, true
	}
	mod := c.Genv.Modules[c.ModulePath]
	if mod == nil {
		return "", false
	}
	for _, imp := range mod.Imports {
		if m, ok := c.Genv.Modules[imp]; ok && m.DeclaredName == name {
			return imp, true
		}
		if imp == name {
			return imp, true
		}
	}
	return "", false
}

// stdrBareNames is the set of bare-callable names of the
// implicitly-imported `stdr` module surface (spec.md §4.D's bare-call
// resolution: "then imported stdr prelude — write|writef|readf|len|
// is_null|str — if importable").
var stdrBareNames = map[string]bool{
	"write": true, "writef": true, "readf": true,
	"len": true, "is_null": true, "str": true,
}
