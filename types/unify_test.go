package types

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func mustUnify(t *testing.T, a, b *Type) *Type {
	t.Helper()
	r, ok := Unify(a, b, NewSubstitution())
	if !ok {
		t.Fatalf("Unify(%s, %s) failed, want success", a, b)
	}
	return r
}

func TestUnifyAnyIsUnit(t *testing.T) {
	for _, tc := range []*Type{NumType, BoolType, StrType, ArrayType(NumType)} {
		if r := mustUnify(t, AnyType, tc); !Equal(r, tc) {
			t.Errorf("unify(any, %s) = %s, want %s", tc, r, tc)
		}
		if r := mustUnify(t, tc, AnyType); !Equal(r, tc) {
			t.Errorf("unify(%s, any) = %s, want %s", tc, r, tc)
		}
	}
}

func TestUnifyNullCollapsesNullable(t *testing.T) {
	r := mustUnify(t, NullType, NumType)
	if !Equal(r, Nullable(NumType)) {
		t.Fatalf("unify(null, num) = %s, want num?", r)
	}

	// Nullable(Nullable(T)) normalizes to Nullable(T).
	doubled := Nullable(Nullable(NumType))
	if !Equal(doubled, Nullable(NumType)) {
		t.Fatalf("Nullable(Nullable(num)) = %s, want num?", doubled)
	}

	r2 := mustUnify(t, NullType, doubled)
	if !Equal(r2, Nullable(NumType)) {
		t.Fatalf("unify(null, num??) = %s, want num?", r2)
	}
}

func TestUnifyGenBindsOnce(t *testing.T) {
	subst := NewSubstitution()
	r1, ok := Unify(GenType("T"), NumType, subst)
	if !ok || !Equal(r1, NumType) {
		t.Fatalf("unify(T, num) = %v, %v", r1, ok)
	}
	// Same call-site substitution: T is already bound, so unifying
	// again recurses into the bound type rather than rebinding.
	if _, ok := Unify(GenType("T"), StrType, subst); ok {
		t.Fatalf("unify(T=num, string) should fail once T is bound")
	}
}

func TestUnifyStructural(t *testing.T) {
	cases := []struct {
		name string
		a, b *Type
		want bool
	}{
		{"arrays elementwise", ArrayType(NumType), ArrayType(NumType), true},
		{"arrays mismatch", ArrayType(NumType), ArrayType(BoolType), false},
		{"tuples equal arity", TupleType(NumType, BoolType), TupleType(NumType, BoolType), true},
		{"tuples unequal arity", TupleType(NumType), TupleType(NumType, BoolType), false},
		{"fn equal arity+ret", FnType([]*Type{NumType}, BoolType), FnType([]*Type{NumType}, BoolType), true},
		{"fn mismatched ret", FnType([]*Type{NumType}, BoolType), FnType([]*Type{NumType}, NumType), false},
		{"void only matches void", VoidType, VoidType, true},
		{"void vs num", VoidType, NumType, false},
		{"class by name", ClassType("a.Box"), ClassType("a.Box"), true},
		{"class mismatch", ClassType("a.Box"), ClassType("b.Box"), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, ok := Unify(tc.a, tc.b, NewSubstitution())
			if ok != tc.want {
				t.Errorf("Unify(%s, %s) ok=%v, want %v", tc.a, tc.b, ok, tc.want)
			}
		})
	}
}

func TestAssignable(t *testing.T) {
	cases := []struct {
		name             string
		expected, actual *Type
		want             bool
	}{
		{"any expected", AnyType, NumType, true},
		{"any actual", NumType, AnyType, true},
		{"nullable accepts null", Nullable(NumType), NullType, true},
		{"non-nullable rejects null", NumType, NullType, false},
		{"nullable accepts inner", Nullable(NumType), NumType, true},
		{"exact class", ClassType("a.Box"), ClassType("a.Box"), true},
		{"array covariance none", ArrayType(NumType), ArrayType(BoolType), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Assignable(tc.expected, tc.actual); got != tc.want {
				t.Errorf("Assignable(%s, %s) = %v, want %v", tc.expected, tc.actual, got, tc.want)
			}
		})
	}
}

func TestApplySubstitution(t *testing.T) {
	subst := NewSubstitution()
	subst.Bind("T", NumType)
	got := Apply(ArrayType(GenType("T")), subst)
	want := ArrayType(NumType)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Apply mismatch (-want +got):\n%s", diff)
	}
}
