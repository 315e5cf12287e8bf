// Package types implements the Yis type system: the algebraic type
// representation, substitution, and unification of spec.md §3 and
// §4.A. Every Type is an immutable, arena-friendly record carrying a
// discriminant Kind, mirroring original_source/src/ergo/typecheck.h's
// `Ty`/`TyTag` union (the ground truth this component was distilled
// from) more directly than the teacher's own type system, which is a
// set of separate Go types per kind rather than one tagged union.
package types

import (
	"fmt"
	"strings"
)

// Kind is the discriminant of a Type.
type Kind int

const (
	KPrim Kind = iota
	KClass
	KArray
	KTuple
	KFn
	KVoid
	KNull
	KNullable
	KModule
	KGen
)

// PrimKind enumerates the four primitive types (spec.md §3: "Prim").
type PrimKind int

const (
	Num PrimKind = iota
	Bool
	String
	Any
)

func (p PrimKind) String() string {
	switch p {
	case Num:
		return "num"
	case Bool:
		return "bool"
	case String:
		return "string"
	case Any:
		return "any"
	default:
		return "?prim"
	}
}

// Type is a closed sum over the variants of spec.md §3's type model.
// Only the fields relevant to Kind are meaningful; the rest are zero.
type Type struct {
	Kind       Kind
	Prim       PrimKind // KPrim
	ClassName  string   // KClass: qualified "cask.Class"
	Elem       *Type    // KArray elem; KNullable inner
	Items      []*Type  // KTuple
	Params     []*Type  // KFn
	Ret        *Type    // KFn
	ModuleName string   // KModule
	GenName    string   // KGen
}

func PrimType(p PrimKind) *Type       { return &Type{Kind: KPrim, Prim: p} }
func ClassType(qualified string) *Type { return &Type{Kind: KClass, ClassName: qualified} }
func ArrayType(elem *Type) *Type      { return &Type{Kind: KArray, Elem: elem} }
func TupleType(items ...*Type) *Type  { return &Type{Kind: KTuple, Items: items} }
func FnType(params []*Type, ret *Type) *Type {
	return &Type{Kind: KFn, Params: params, Ret: ret}
}
func ModuleType(name string) *Type { return &Type{Kind: KModule, ModuleName: name} }
func GenType(name string) *Type    { return &Type{Kind: KGen, GenName: name} }

var (
	VoidType = &Type{Kind: KVoid}
	NullType = &Type{Kind: KNull}
	NumType  = PrimType(Num)
	BoolType = PrimType(Bool)
	StrType  = PrimType(String)
	AnyType  = PrimType(Any)
)

// Nullable wraps t, collapsing Nullable(Nullable(T)) to Nullable(T)
// (spec.md §3 invariant, tested in §8's "Round-trip / idempotence").
func Nullable(t *Type) *Type {
	if t == nil {
		return nil
	}
	if t.Kind == KNullable {
		return t
	}
	return &Type{Kind: KNullable, Elem: t}
}

// IsNullable reports whether t is a Nullable(_).
func (t *Type) IsNullable() bool {
	return t != nil && t.Kind == KNullable
}

// StripNullable returns the inner type of a Nullable, or t unchanged
// along with false if t is not nullable.
func StripNullable(t *Type) (*Type, bool) {
	if t == nil {
		return t, false
	}
	if t.Kind == KNullable {
		return t.Elem, true
	}
	return t, false
}

// String renders the type the way Yis diagnostics quote it.
func (t *Type) String() string {
	if t == nil {
		return "<nil>"
	}
	switch t.Kind {
	case KPrim:
		return t.Prim.String()
	case KClass:
		return t.ClassName
	case KArray:
		return "[" + t.Elem.String() + "]"
	case KTuple:
		parts := make([]string, len(t.Items))
		for i, it := range t.Items {
			parts[i] = it.String()
		}
		return "(" + strings.Join(parts, ", ") + ")"
	case KFn:
		parts := make([]string, len(t.Params))
		for i, p := range t.Params {
			parts[i] = p.String()
		}
		return "fn(" + strings.Join(parts, ", ") + ") -> " + t.Ret.String()
	case KVoid:
		return "void"
	case KNull:
		return "null"
	case KNullable:
		return t.Elem.String() + "?"
	case KModule:
		return "module " + t.ModuleName
	case KGen:
		return t.GenName
	default:
		return fmt.Sprintf("<kind %d>", t.Kind)
	}
}

// Equal is structural equality: class types compare by qualified name,
// primitives by name, everything else recursively (spec.md §3).
func Equal(a, b *Type) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case KPrim:
		return a.Prim == b.Prim
	case KClass:
		return a.ClassName == b.ClassName
	case KArray:
		return Equal(a.Elem, b.Elem)
	case KNullable:
		return Equal(a.Elem, b.Elem)
	case KTuple:
		if len(a.Items) != len(b.Items) {
			return false
		}
		for i := range a.Items {
			if !Equal(a.Items[i], b.Items[i]) {
				return false
			}
		}
		return true
	case KFn:
		if len(a.Params) != len(b.Params) {
			return false
		}
		for i := range a.Params {
			if !Equal(a.Params[i], b.Params[i]) {
				return false
			}
		}
		return Equal(a.Ret, b.Ret)
	case KModule:
		return a.ModuleName == b.ModuleName
	case KGen:
		return a.GenName == b.GenName
	case KVoid, KNull:
		return true
	default:
		return false
	}
}
