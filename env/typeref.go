package env

import (
	"fmt"
	"strings"

	"github.com/yis-lang/yisc/ast"
	"github.com/yis-lang/yisc/types"
)

// ResolveTypeRef implements spec.md §4.B's "Name resolution for
// TypeRef" directly against a GlobalEnv. It is exported so the check
// package can resolve annotations (e.g. an empty array's type
// annotation) without reaching into env's pass-local buildContext.
// modulePath is the cask the reference appears in.
func ResolveTypeRef(ref ast.TypeRef, modulePath string, genv *GlobalEnv) (*types.Type, error) {
	if ref == nil {
		return types.VoidType, nil
	}
	switch t := ref.(type) {
	case *ast.ArrayTypeRef:
		elem, err := ResolveTypeRef(t.Elem, modulePath, genv)
		if err != nil {
			return nil, err
		}
		return types.ArrayType(elem), nil

	case *ast.NamedTypeRef:
		return resolveNamed(t, modulePath, genv)

	default:
		return nil, fmt.Errorf("unknown type reference node")
	}
}

func resolveTypeRef(ref ast.TypeRef, modulePath string, ctx *buildContext) (*types.Type, error) {
	return ResolveTypeRef(ref, modulePath, ctx.genv)
}

func resolveNamed(t *ast.NamedTypeRef, modulePath string, genv *GlobalEnv) (*types.Type, error) {
	if t.Cask == "" {
		switch t.Name {
		case "num":
			return types.NumType, nil
		case "bool":
			return types.BoolType, nil
		case "string":
			return types.StrType, nil
		case "any":
			return types.AnyType, nil
		case "void":
			return types.VoidType, nil
		case "int", "float", "char", "byte":
			return nil, fmt.Errorf("unknown type %q (use num)", t.Name)
		}

		if qname := ClassQName(modulePath, t.Name); classExists(genv, qname) {
			return types.ClassType(qname), nil
		}

		if isGenericName(t.Name) {
			return types.GenType(t.Name), nil
		}

		return nil, fmt.Errorf("unknown type %q", t.Name)
	}

	mod, ok := resolveCaskRef(t.Cask, modulePath, genv)
	if !ok {
		return nil, fmt.Errorf("unknown cask %q", t.Cask)
	}
	qname := ClassQName(mod, t.Name)
	if !classExists(genv, qname) {
		return nil, fmt.Errorf("unknown type %q in cask %q", t.Name, t.Cask)
	}
	return types.ClassType(qname), nil
}

func classExists(genv *GlobalEnv, qname string) bool {
	_, ok := genv.Classes[qname]
	return ok
}

// resolveCaskRef resolves a cask name (possibly the current cask or
// an imported one) to its module path.
func resolveCaskRef(cask, modulePath string, genv *GlobalEnv) (string, bool) {
	cur := genv.Modules[modulePath]
	if cur != nil && cur.DeclaredName == cask {
		return modulePath, true
	}
	if cur != nil {
		for _, imp := range cur.Imports {
			if m, ok := genv.Modules[imp]; ok && m.DeclaredName == cask {
				return imp, true
			}
			if imp == cask {
				return imp, true
			}
		}
	}
	return "", false
}

// isGenericName matches spec.md §4.B's rule: "all-uppercase or starts
// with uppercase + only [A-Z0-9_]".
func isGenericName(name string) bool {
	if name == "" || !isUpper(rune(name[0])) {
		return false
	}
	for _, r := range name {
		if !(isUpper(r) || (r >= '0' && r <= '9') || r == '_') {
			return false
		}
	}
	return true
}

func isUpper(r rune) bool { return r >= 'A' && r <= 'Z' }

// deriveCaskName strips directory and extension from a module path,
// the way spec.md §4.B pass 1 derives the cask name.
func deriveCaskName(modulePath string) string {
	name := modulePath
	if i := strings.LastIndexByte(name, '/'); i >= 0 {
		name = name[i+1:]
	}
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		name = name[:i]
	}
	return name
}
