package types

// Substitution is an ordered mapping from generic variable names to
// types, created fresh per call-site unification (spec.md §4.A).
// Insertion order is preserved because Apply must be deterministic and
// a plain Go map would not guarantee that when walked for debugging.
type Substitution struct {
	order []string
	binds map[string]*Type
}

// NewSubstitution creates an empty substitution.
func NewSubstitution() *Substitution {
	return &Substitution{binds: make(map[string]*Type)}
}

// Bind records n ↦ t, replacing any earlier binding for n. Unify only
// binds an n that is still unbound (a bound n recurses into its bound
// type instead), so within a unification the first binding stands.
func (s *Substitution) Bind(n string, t *Type) {
	if _, ok := s.binds[n]; !ok {
		s.order = append(s.order, n)
	}
	s.binds[n] = t
}

// Lookup returns the type bound to n, if any.
func (s *Substitution) Lookup(n string) (*Type, bool) {
	t, ok := s.binds[n]
	return t, ok
}

// Apply rewrites every Gen leaf of t to its bound type, recursing
// structurally. No substitution is ever applied across call-site
// boundaries (spec.md §4.A): callers must apply immediately after the
// unification pass that produced the Substitution.
func Apply(t *Type, s *Substitution) *Type {
	if t == nil || s == nil {
		return t
	}
	switch t.Kind {
	case KGen:
		if bound, ok := s.Lookup(t.GenName); ok {
			return Apply(bound, s)
		}
		return t
	case KArray:
		return ArrayType(Apply(t.Elem, s))
	case KNullable:
		return Nullable(Apply(t.Elem, s))
	case KTuple:
		items := make([]*Type, len(t.Items))
		for i, it := range t.Items {
			items[i] = Apply(it, s)
		}
		return TupleType(items...)
	case KFn:
		params := make([]*Type, len(t.Params))
		for i, p := range t.Params {
			params[i] = Apply(p, s)
		}
		return FnType(params, Apply(t.Ret, s))
	default:
		return t
	}
}

// Unify implements spec.md §4.A's unify(a, b, subst) -> Option<T>.
// A nil *Type result with ok=false means the types do not unify.
func Unify(a, b *Type, subst *Substitution) (*Type, bool) {
	if a == nil || b == nil {
		return nil, false
	}

	// any on either side returns the other.
	if a.Kind == KPrim && a.Prim == Any {
		return b, true
	}
	if b.Kind == KPrim && b.Prim == Any {
		return a, true
	}

	// Two Null unify to Null.
	if a.Kind == KNull && b.Kind == KNull {
		return NullType, true
	}
	// Null + T -> Nullable(T), collapsing an existing nullable.
	if a.Kind == KNull {
		return Nullable(b), true
	}
	if b.Kind == KNull {
		return Nullable(a), true
	}

	// Nullable on either side: strip both, unify inner, re-wrap.
	if a.Kind == KNullable || b.Kind == KNullable {
		ai, _ := StripNullable(a)
		bi, _ := StripNullable(b)
		inner, ok := Unify(ai, bi, subst)
		if !ok {
			return nil, false
		}
		return Nullable(inner), true
	}

	// Gen on either side.
	if a.Kind == KGen {
		if bound, ok := subst.Lookup(a.GenName); ok {
			return Unify(bound, b, subst)
		}
		subst.Bind(a.GenName, b)
		return b, true
	}
	if b.Kind == KGen {
		if bound, ok := subst.Lookup(b.GenName); ok {
			return Unify(a, bound, subst)
		}
		subst.Bind(b.GenName, a)
		return a, true
	}

	if a.Kind != b.Kind {
		return nil, false
	}

	switch a.Kind {
	case KPrim:
		if a.Prim == b.Prim {
			return a, true
		}
		return nil, false
	case KClass:
		if a.ClassName == b.ClassName {
			return a, true
		}
		return nil, false
	case KArray:
		elem, ok := Unify(a.Elem, b.Elem, subst)
		if !ok {
			return nil, false
		}
		return ArrayType(elem), true
	case KTuple:
		if len(a.Items) != len(b.Items) {
			return nil, false
		}
		items := make([]*Type, len(a.Items))
		for i := range a.Items {
			it, ok := Unify(a.Items[i], b.Items[i], subst)
			if !ok {
				return nil, false
			}
			items[i] = it
		}
		return TupleType(items...), true
	case KFn:
		if len(a.Params) != len(b.Params) {
			return nil, false
		}
		params := make([]*Type, len(a.Params))
		for i := range a.Params {
			p, ok := Unify(a.Params[i], b.Params[i], subst)
			if !ok {
				return nil, false
			}
			params[i] = p
		}
		ret, ok := Unify(a.Ret, b.Ret, subst)
		if !ok {
			return nil, false
		}
		return FnType(params, ret), true
	case KVoid:
		return VoidType, true
	case KModule:
		if a.ModuleName == b.ModuleName {
			return a, true
		}
		return nil, false
	default:
		return nil, false
	}
}

// Assignable implements spec.md §4.A's one-way assignable(expected,
// actual) check used for argument passing, field initialization, and
// plain `=` assignment.
func Assignable(expected, actual *Type) bool {
	if expected == nil || actual == nil {
		return false
	}
	if expected.Kind == KPrim && expected.Prim == Any {
		return true
	}
	if actual.Kind == KPrim && actual.Prim == Any {
		return true
	}
	if expected.Kind == KNullable || actual.Kind == KNullable {
		ei, eWasNullable := StripNullable(expected)
		ai, _ := StripNullable(actual)
		if actual.Kind == KNull {
			return eWasNullable
		}
		return Assignable(ei, ai)
	}
	if actual.Kind == KNull {
		return false
	}
	if expected.Kind != actual.Kind {
		return false
	}
	switch expected.Kind {
	case KPrim:
		return expected.Prim == actual.Prim
	case KClass:
		return expected.ClassName == actual.ClassName
	case KArray:
		return Assignable(expected.Elem, actual.Elem)
	case KTuple:
		if len(expected.Items) != len(actual.Items) {
			return false
		}
		for i := range expected.Items {
			if !Assignable(expected.Items[i], actual.Items[i]) {
				return false
			}
		}
		return true
	case KFn:
		if len(expected.Params) != len(actual.Params) {
			return false
		}
		for i := range expected.Params {
			if !Assignable(expected.Params[i], actual.Params[i]) {
				return false
			}
		}
		return Assignable(expected.Ret, actual.Ret)
	case KVoid:
		return true
	case KModule:
		return expected.ModuleName == actual.ModuleName
	case KGen:
		return expected.GenName == actual.GenName
	default:
		return false
	}
}
