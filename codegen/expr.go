package codegen

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/yis-lang/yisc/ast"
	"github.com/yis-lang/yisc/check"
	"github.com/yis-lang/yisc/env"
	"github.com/yis-lang/yisc/types"
)

// retained wraps a read of an existing owned slot (a local, a global,
// a field) in a GNU statement expression that retains before
// yielding, so the result can be handed to a new owner. ergo_retain_val
// is a tag-dispatched no-op for num/bool/null, so this applies
// unconditionally rather than gating on the static type.
func (e *Emitter) retained(cExpr string) string {
	t := e.nextTmp()
	return fmt.Sprintf("({ ErgoVal %s = %s; ergo_retain_val(%s); %s; })", t, cExpr, t, t)
}

// emitExpr lowers expr to a C expression yielding an owned ErgoVal. A
// void-returning call is still an expression: a statement expression
// that makes the call and then yields EV_NULLV.
func (e *Emitter) emitExpr(expr ast.Expr, c *check.Context) (string, error) {
	switch x := expr.(type) {
	case *ast.IntLit:
		return fmt.Sprintf("EV_INT(%dLL)", x.Value), nil
	case *ast.FloatLit:
		return fmt.Sprintf("EV_FLOAT(%s)", strconv.FormatFloat(x.Value, 'g', -1, 64)), nil
	case *ast.BoolLit:
		if x.Value {
			return "EV_BOOL(true)", nil
		}
		return "EV_BOOL(false)", nil
	case *ast.NullLit:
		return "EV_NULLV", nil
	case *ast.StringLit:
		return e.emitStringLit(x, c)
	case *ast.Ident:
		return e.emitIdent(x, c)
	case *ast.TupleExpr:
		return e.emitArrayLike(x.Elems, c)
	case *ast.ArrayExpr:
		return e.emitArrayLike(x.Elems, c)
	case *ast.UnaryExpr:
		return e.emitUnary(x, c)
	case *ast.BinaryExpr:
		return e.emitBinary(x, c)
	case *ast.AssignExpr:
		return e.emitAssign(x, c)
	case *ast.CallExpr:
		return e.emitCall(x, c)
	case *ast.IndexExpr:
		return e.emitIndex(x, c)
	case *ast.MemberExpr:
		return e.emitMember(x, c)
	case *ast.ParenExpr:
		return e.emitExpr(x.X, c)
	case *ast.TernaryExpr:
		return e.emitTernary(x, c)
	case *ast.NewExpr:
		return e.emitNew(x, c)
	case *ast.MoveExpr:
		return e.emitMove(x, c)
	case *ast.BlockExpr:
		if err := e.emitBlock(x.Block, c); err != nil {
			return "", err
		}
		return "EV_NULLV", nil
	case *ast.IfExpr:
		return e.emitIfExpr(x, c)
	case *ast.MatchExpr:
		return e.emitMatchExpr(x, c)
	case *ast.LambdaExpr:
		return e.emitLambdaRef(x, c)
	default:
		return "", fmt.Errorf("codegen: unhandled expression node %T", expr)
	}
}

func (e *Emitter) emitStringLit(x *ast.StringLit, c *check.Context) (string, error) {
	if lit, ok := x.Literal(); ok {
		return fmt.Sprintf("EV_STR(ergo_str_lit(%s))", cQuote(lit)), nil
	}
	var acc string
	for i, part := range x.Parts {
		var piece string
		if part.Expr == nil {
			piece = fmt.Sprintf("EV_STR(ergo_str_lit(%s))", cQuote(part.Text))
		} else {
			val, err := e.emitExpr(part.Expr, c)
			if err != nil {
				return "", err
			}
			tmp := e.nextTmp()
			piece = fmt.Sprintf("({ ErgoVal %s = %s; ErgoVal __r = EV_STR(stdr_to_string(%s)); ergo_release_val(%s); __r; })", tmp, val, tmp, tmp)
		}
		if i == 0 {
			acc = piece
			continue
		}
		at, pt := e.nextTmp(), e.nextTmp()
		acc = fmt.Sprintf("({ ErgoVal %s = %s; ErgoVal %s = %s; ErgoVal __r = EV_STR(ergo_str_concat((ErgoStr *)%s.as.p, (ErgoStr *)%s.as.p)); ergo_release_val(%s); ergo_release_val(%s); __r; })",
			at, acc, pt, piece, at, pt, at, pt)
	}
	if acc == "" {
		return "EV_STR(ergo_str_lit(\"\"))", nil
	}
	return acc, nil
}

// cQuote escapes s into a C string literal. Source text is
// NFC-normalized first so two differently-composed encodings of the
// same string (e.g. a precomposed accented letter vs. base+combining
// mark) always emit identical C byte sequences.
func cQuote(s string) string {
	s = norm.NFC.String(s)
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '\\':
			b.WriteString("\\\\")
		case '"':
			b.WriteString("\\\"")
		case '\n':
			b.WriteString("\\n")
		case '\t':
			b.WriteString("\\t")
		case '\r':
			b.WriteString("\\r")
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	return b.String()
}

func (e *Emitter) emitIdent(x *ast.Ident, c *check.Context) (string, error) {
	if _, ok := c.Locals.Lookup(x.Name); ok {
		return e.retained(x.Name), nil
	}
	if mod := c.Genv.Modules[c.ModulePath]; mod != nil {
		if cv, ok := mod.Consts[x.Name]; ok {
			return e.constLiteral(cv), nil
		}
		if _, ok := mod.Globals[x.Name]; ok {
			return e.retained(mangleGlobalVar(c.ModulePath, x.Name)), nil
		}
	}
	if sig, ok := c.Genv.Functions[env.FuncQName(c.ModulePath, x.Name)]; ok {
		return e.funcValue(c.ModulePath, x.Name, sig), nil
	}
	return "", fmt.Errorf("codegen: unresolved identifier %q", x.Name)
}

// funcValue builds an ErgoFn wrapper for a free function referenced as
// a first-class value rather than called directly, grounded on
// codegen.c's `__fnwrap_%s_%s` naming (the wrapper forwards argv[i]
// into the real parameters). Every module-level function gets a
// wrapper predeclared up front (see collectLambdas), so this only
// needs to reference the name, not queue anything.
func (e *Emitter) funcValue(mod, name string, sig *env.FunSig) string {
	return fmt.Sprintf("EV_FN(ergo_fn_new(%s, %d))", mangleFnWrapper(mod, name), len(sig.Params))
}

func (e *Emitter) constLiteral(cv env.ConstVal) string {
	switch {
	case types.Equal(cv.Type, types.NumType) && cv.IsFloat:
		return fmt.Sprintf("EV_FLOAT(%s)", strconv.FormatFloat(cv.Float, 'g', -1, 64))
	case types.Equal(cv.Type, types.NumType):
		return fmt.Sprintf("EV_INT(%dLL)", cv.Int)
	case types.Equal(cv.Type, types.BoolType):
		if cv.Bool {
			return "EV_BOOL(true)"
		}
		return "EV_BOOL(false)"
	default:
		return fmt.Sprintf("EV_STR(ergo_str_lit(%s))", cQuote(cv.Str))
	}
}

func (e *Emitter) emitArrayLike(elems []ast.Expr, c *check.Context) (string, error) {
	tmp := e.nextTmp()
	var b strings.Builder
	fmt.Fprintf(&b, "({ ErgoArr *%s = ergo_arr_new(%d); ", tmp, len(elems))
	for _, el := range elems {
		val, err := e.emitExpr(el, c)
		if err != nil {
			return "", err
		}
		fmt.Fprintf(&b, "ergo_arr_push(%s, %s); ", tmp, val)
	}
	fmt.Fprintf(&b, "EV_ARR(%s); })", tmp)
	return b.String(), nil
}

func (e *Emitter) emitUnary(x *ast.UnaryExpr, c *check.Context) (string, error) {
	if x.Op == ast.OpLen {
		// lowering rewrites every `#x` into a bare len(x) call before
		// codegen ever runs (see lower.Program), so this node shape
		// never reaches emission.
		return "", fmt.Errorf("codegen: unlowered len operator reached emission")
	}
	val, err := e.emitExpr(x.X, c)
	if err != nil {
		return "", err
	}
	switch x.Op {
	case ast.OpNot:
		tmp := e.nextTmp()
		return fmt.Sprintf("({ ErgoVal %s = %s; EV_BOOL(!ergo_as_bool(%s)); })", tmp, val, tmp), nil
	case ast.OpNeg:
		t := c.ExprType(x.X)
		tmp := e.nextTmp()
		if types.Equal(t, types.NumType) {
			return fmt.Sprintf("({ ErgoVal %s = %s; (%s.tag == ERGO_FLOAT) ? EV_FLOAT(-%s.as.f) : EV_INT(-%s.as.i); })", tmp, val, tmp, tmp, tmp), nil
		}
		return fmt.Sprintf("({ ErgoVal %s = %s; EV_INT(-ergo_as_int(%s)); })", tmp, val, tmp), nil
	default:
		return "", fmt.Errorf("codegen: unhandled unary operator")
	}
}

func (e *Emitter) emitBinary(x *ast.BinaryExpr, c *check.Context) (string, error) {
	if x.Op == ast.OpAnd || x.Op == ast.OpOr {
		l, err := e.emitExpr(x.L, c)
		if err != nil {
			return "", err
		}
		r, err := e.emitExpr(x.R, c)
		if err != nil {
			return "", err
		}
		op := "&&"
		if x.Op == ast.OpOr {
			op = "||"
		}
		return fmt.Sprintf("EV_BOOL(ergo_as_bool(%s) %s ergo_as_bool(%s))", l, op, r), nil
	}
	if x.Op == ast.OpCoalesce {
		l, err := e.emitExpr(x.L, c)
		if err != nil {
			return "", err
		}
		r, err := e.emitExpr(x.R, c)
		if err != nil {
			return "", err
		}
		tmp := e.nextTmp()
		return fmt.Sprintf("({ ErgoVal %s = %s; (%s.tag == ERGO_NULL) ? (%s) : %s; })", tmp, l, tmp, r, tmp), nil
	}

	l, err := e.emitExpr(x.L, c)
	if err != nil {
		return "", err
	}
	r, err := e.emitExpr(x.R, c)
	if err != nil {
		return "", err
	}
	lTmp, rTmp := e.nextTmp(), e.nextTmp()

	if x.Op == ast.OpAdd {
		// Dispatched on the runtime tag rather than the static type so
		// generically-typed values (lambda params, Any) still concatenate
		// correctly when they turn out to hold strings at run time.
		return fmt.Sprintf("({ ErgoVal %s = %s; ErgoVal %s = %s; (%s.tag == ERGO_STR || %s.tag == ERGO_STR) ? EV_STR(ergo_str_concat((ErgoStr *)%s.as.p, (ErgoStr *)%s.as.p)) : ((%s.tag == ERGO_FLOAT || %s.tag == ERGO_FLOAT) ? EV_FLOAT(ergo_as_float(%s) + ergo_as_float(%s)) : EV_INT(ergo_as_int(%s) + ergo_as_int(%s))); })",
			lTmp, l, rTmp, r, lTmp, rTmp, lTmp, rTmp, lTmp, rTmp, lTmp, rTmp, lTmp, rTmp), nil
	}

	switch x.Op {
	case ast.OpEq, ast.OpNe:
		// Dispatched on the runtime tag via ergo_val_eq: a generically
		// typed operand (Any) can hold a string at run time, and string
		// equality means content comparison, not the float coercion
		// every other primitive pair falls back to.
		eq := fmt.Sprintf("ergo_val_eq(%s, %s)", lTmp, rTmp)
		if x.Op == ast.OpNe {
			eq = "!" + eq
		}
		return fmt.Sprintf("({ ErgoVal %s = %s; ErgoVal %s = %s; EV_BOOL(%s); })",
			lTmp, l, rTmp, r, eq), nil
	case ast.OpLt, ast.OpLe, ast.OpGt, ast.OpGe:
		cOp := map[ast.BinaryOp]string{ast.OpLt: "<", ast.OpLe: "<=", ast.OpGt: ">", ast.OpGe: ">="}[x.Op]
		return fmt.Sprintf("({ ErgoVal %s = %s; ErgoVal %s = %s; EV_BOOL(ergo_val_cmp(%s, %s) %s 0); })",
			lTmp, l, rTmp, r, lTmp, rTmp, cOp), nil
	case ast.OpMod:
		return fmt.Sprintf("({ ErgoVal %s = %s; ErgoVal %s = %s; EV_INT(ergo_as_int(%s) %% ergo_as_int(%s)); })",
			lTmp, l, rTmp, r, lTmp, rTmp), nil
	default:
		cOp := map[ast.BinaryOp]string{ast.OpAdd: "+", ast.OpSub: "-", ast.OpMul: "*", ast.OpDiv: "/"}[x.Op]
		return fmt.Sprintf("({ ErgoVal %s = %s; ErgoVal %s = %s; (%s.tag == ERGO_FLOAT || %s.tag == ERGO_FLOAT) ? EV_FLOAT(ergo_as_float(%s) %s ergo_as_float(%s)) : EV_INT(ergo_as_int(%s) %s ergo_as_int(%s)); })",
			lTmp, l, rTmp, r, lTmp, rTmp, lTmp, cOp, rTmp, lTmp, cOp, rTmp), nil
	}
}

func (e *Emitter) emitTernary(x *ast.TernaryExpr, c *check.Context) (string, error) {
	cond, err := e.emitExpr(x.Cond, c)
	if err != nil {
		return "", err
	}
	then, err := e.emitExpr(x.Then, c)
	if err != nil {
		return "", err
	}
	els, err := e.emitExpr(x.Else, c)
	if err != nil {
		return "", err
	}
	tmp := e.nextTmp()
	return fmt.Sprintf("({ ErgoVal %s = %s; ergo_as_bool(%s) ? (%s) : (%s); })", tmp, cond, tmp, then, els), nil
}

func (e *Emitter) emitMove(x *ast.MoveExpr, c *check.Context) (string, error) {
	if ident, ok := x.X.(*ast.Ident); ok {
		if _, ok := c.Locals.Lookup(ident.Name); ok {
			return fmt.Sprintf("ergo_move(&%s)", ident.Name), nil
		}
	}
	return e.emitExpr(x.X, c)
}

func (e *Emitter) emitIfExpr(x *ast.IfExpr, c *check.Context) (string, error) {
	var expr string
	for i := len(x.Arms) - 1; i >= 0; i-- {
		arm := x.Arms[i]
		body, err := e.emitExpr(arm.Body, c)
		if err != nil {
			return "", err
		}
		if arm.Cond == nil {
			expr = body
			continue
		}
		cond, err := e.emitExpr(arm.Cond, c)
		if err != nil {
			return "", err
		}
		tmp := e.nextTmp()
		expr = fmt.Sprintf("({ ErgoVal %s = %s; ergo_as_bool(%s) ? (%s) : (%s); })", tmp, cond, tmp, body, expr)
	}
	return expr, nil
}

func (e *Emitter) emitAssign(x *ast.AssignExpr, c *check.Context) (string, error) {
	val, err := e.emitExpr(x.Value, c)
	if err != nil {
		return "", err
	}
	if x.Op != ast.OpAssign {
		opC := map[ast.AssignOp]string{ast.OpAddAssign: "+", ast.OpSubAssign: "-", ast.OpMulAssign: "*", ast.OpDivAssign: "/"}[x.Op]
		cur, err := e.emitExpr(x.Target, c)
		if err != nil {
			return "", err
		}
		vTmp, cTmp := e.nextTmp(), e.nextTmp()
		val = fmt.Sprintf("({ ErgoVal %s = %s; ErgoVal %s = %s; EV_FLOAT(ergo_as_float(%s) %s ergo_as_float(%s)); })", cTmp, cur, vTmp, val, cTmp, opC, vTmp)
	}
	return e.emitStore(x.Target, val, c)
}

// emitStore assigns val (already an owned ErgoVal C expression) into
// target, releasing whatever owner previously held the slot and
// yielding a freshly retained read of the new value (assignment is an
// expression per spec.md §4.D).
func (e *Emitter) emitStore(target ast.Expr, val string, c *check.Context) (string, error) {
	switch t := target.(type) {
	case *ast.Ident:
		if _, ok := c.Locals.Lookup(t.Name); ok {
			return fmt.Sprintf("({ ergo_move_into(&%s, %s); ergo_retain_val(%s); %s; })", t.Name, val, t.Name, t.Name), nil
		}
		if mod := c.Genv.Modules[c.ModulePath]; mod != nil {
			if _, ok := mod.Globals[t.Name]; ok {
				slot := mangleGlobalVar(c.ModulePath, t.Name)
				return fmt.Sprintf("({ ergo_move_into(&%s, %s); ergo_retain_val(%s); %s; })", slot, val, slot, slot), nil
			}
		}
		return "", fmt.Errorf("codegen: unknown assignment target %q", t.Name)

	case *ast.IndexExpr:
		base, err := e.emitExpr(t.X, c)
		if err != nil {
			return "", err
		}
		idx, err := e.emitExpr(t.Index, c)
		if err != nil {
			return "", err
		}
		bTmp, iTmp, vTmp := e.nextTmp(), e.nextTmp(), e.nextTmp()
		return fmt.Sprintf("({ ErgoVal %s = %s; ErgoVal %s = %s; ErgoVal %s = %s; ergo_arr_set((ErgoArr *)%s.as.p, ergo_as_int(%s), %s); ergo_retain_val(%s); %s; })",
			bTmp, base, iTmp, idx, vTmp, val, bTmp, iTmp, vTmp, vTmp, vTmp), nil

	case *ast.MemberExpr:
		baseType := c.ExprType(t.X)
		if baseType.Kind == types.KNullable {
			baseType, _ = types.StripNullable(baseType)
		}
		ci := c.Genv.Classes[baseType.ClassName]
		if ci == nil {
			return "", fmt.Errorf("codegen: unknown class %q in member assignment", baseType.ClassName)
		}
		base, err := e.emitExpr(t.X, c)
		if err != nil {
			return "", err
		}
		cname := mangleClass(ci.ModulePath, ci.Name)
		bTmp, vTmp := e.nextTmp(), e.nextTmp()
		return fmt.Sprintf("({ %s *%s = (%s *)(%s).as.p; ErgoVal %s = %s; ergo_move_into(&%s->f_%s, %s); ergo_retain_val(%s->f_%s); %s->f_%s; })",
			cname, bTmp, cname, base, vTmp, val, bTmp, t.Name, vTmp, bTmp, t.Name, bTmp, t.Name), nil

	default:
		return "", fmt.Errorf("codegen: unsupported assignment target %T", target)
	}
}

func (e *Emitter) emitIndex(x *ast.IndexExpr, c *check.Context) (string, error) {
	baseT := c.ExprType(x.X)
	base, err := e.emitExpr(x.X, c)
	if err != nil {
		return "", err
	}
	idx, err := e.emitExpr(x.Index, c)
	if err != nil {
		return "", err
	}
	bTmp := e.nextTmp()
	if baseT.Kind == types.KTuple {
		lit := x.Index.(*ast.IntLit)
		return fmt.Sprintf("({ ErgoVal %s = %s; ErgoVal __r = ergo_arr_get((ErgoArr *)%s.as.p, %dLL); ergo_release_val(%s); __r; })", bTmp, base, bTmp, lit.Value, bTmp), nil
	}
	if types.Equal(baseT, types.StrType) {
		iTmp := e.nextTmp()
		return fmt.Sprintf("({ ErgoVal %s = %s; ErgoVal %s = %s; ErgoStr *__s = (ErgoStr *)%s.as.p; char __c[2] = { __s->data[ergo_as_int(%s)], 0 }; ErgoVal __r = EV_STR(ergo_str_lit(__c)); ergo_release_val(%s); __r; })",
			bTmp, base, iTmp, idx, bTmp, iTmp, bTmp), nil
	}
	iTmp := e.nextTmp()
	return fmt.Sprintf("({ ErgoVal %s = %s; ErgoVal %s = %s; ErgoVal __r = ergo_arr_get((ErgoArr *)%s.as.p, ergo_as_int(%s)); ergo_release_val(%s); __r; })", bTmp, base, iTmp, idx, bTmp, iTmp, bTmp), nil
}

func (e *Emitter) emitMember(x *ast.MemberExpr, c *check.Context) (string, error) {
	baseType := c.ExprType(x.X)
	if baseType.Kind == types.KNullable {
		baseType, _ = types.StripNullable(baseType)
	}

	if baseType.Kind == types.KModule {
		mod := c.Genv.Modules[baseType.ModuleName]
		if mod == nil {
			return "", fmt.Errorf("codegen: unknown module %q", baseType.ModuleName)
		}
		if cv, ok := mod.Consts[x.Name]; ok {
			return e.constLiteral(cv), nil
		}
		if _, ok := mod.Globals[x.Name]; ok {
			return e.retained(mangleGlobalVar(baseType.ModuleName, x.Name)), nil
		}
		return "", fmt.Errorf("codegen: unknown module member %q", x.Name)
	}

	if baseType.Kind == types.KClass {
		ci := c.Genv.Classes[baseType.ClassName]
		if ci == nil {
			return "", fmt.Errorf("codegen: unknown class %q", baseType.ClassName)
		}
		base, err := e.emitExpr(x.X, c)
		if err != nil {
			return "", err
		}
		cname := mangleClass(ci.ModulePath, ci.Name)
		tmp := e.nextTmp()
		return fmt.Sprintf("({ ErgoVal %s = %s; ergo_retain_val(((%s *)%s.as.p)->f_%s); ((%s *)%s.as.p)->f_%s; })",
			tmp, base, cname, tmp, x.Name, cname, tmp, x.Name), nil
	}

	return "", fmt.Errorf("codegen: member access on unsupported base type %s", baseType)
}

func (e *Emitter) emitNew(x *ast.NewExpr, c *check.Context) (string, error) {
	classType := c.ExprType(x)
	if classType.Kind != types.KClass {
		return "", fmt.Errorf("codegen: new expression did not resolve to a class type")
	}
	ci := c.Genv.Classes[classType.ClassName]
	if ci == nil {
		return "", fmt.Errorf("codegen: unknown class %q", classType.ClassName)
	}
	cname := mangleClass(ci.ModulePath, ci.Name)
	drop := mangleDrop(ci.ModulePath, ci.Name)
	tmp := e.nextTmp()

	var b strings.Builder
	fmt.Fprintf(&b, "({ %s *%s = (%s *)ergo_obj_new(sizeof(%s), %s); ", cname, tmp, cname, cname, drop)

	switch {
	case ci.HasInit && len(x.Named) == 0:
		var argVals []string
		for _, a := range x.Positional {
			v, err := e.emitExpr(a, c)
			if err != nil {
				return "", err
			}
			argVals = append(argVals, v)
		}
		fmt.Fprintf(&b, "%s(EV_OBJ(%s)", mangleMethod(ci.ModulePath, ci.Name, "init"), tmp)
		for _, v := range argVals {
			fmt.Fprintf(&b, ", %s", v)
		}
		b.WriteString("); ")

	case len(x.Named) > 0:
		for _, na := range x.Named {
			v, err := e.emitExpr(na.Value, c)
			if err != nil {
				return "", err
			}
			fmt.Fprintf(&b, "%s->f_%s = %s; ", tmp, na.Name, v)
		}

	default:
		for i, a := range x.Positional {
			if i >= len(ci.Fields) {
				break
			}
			v, err := e.emitExpr(a, c)
			if err != nil {
				return "", err
			}
			fmt.Fprintf(&b, "%s->f_%s = %s; ", tmp, ci.Fields[i].Name, v)
		}
	}

	fmt.Fprintf(&b, "EV_OBJ(%s); })", tmp)
	return b.String(), nil
}

func (e *Emitter) emitMatchExpr(x *ast.MatchExpr, c *check.Context) (string, error) {
	scrutVal, err := e.emitExpr(x.Scrutinee, c)
	if err != nil {
		return "", err
	}
	scrutT := c.ExprType(x.Scrutinee)
	stmp := e.nextTmp()

	chain := "EV_NULLV"
	for i := len(x.Arms) - 1; i >= 0; i-- {
		arm := x.Arms[i]
		c.Locals.Push()
		bindName := ""
		if id, ok := arm.Pattern.(*ast.IdentPattern); ok {
			bindName = id.Name
			c.Locals.Define(check.Binding{Name: bindName, Type: scrutT})
		}
		body, err := e.emitExpr(arm.Body, c)
		c.Locals.Pop()
		if err != nil {
			return "", err
		}
		if bindName != "" {
			body = fmt.Sprintf("({ ErgoVal %s = %s; ergo_retain_val(%s); %s; })", bindName, stmp, bindName, body)
		}

		cond := matchPatternCond(arm.Pattern, stmp)
		if cond == "" {
			chain = body
			continue
		}
		chain = fmt.Sprintf("(%s) ? (%s) : (%s)", cond, body, chain)
	}
	return fmt.Sprintf("({ ErgoVal %s = %s; %s; })", stmp, scrutVal, chain), nil
}

func matchPatternCond(p ast.Pattern, slot string) string {
	switch pat := p.(type) {
	case *ast.IntPattern:
		return fmt.Sprintf("ergo_as_int(%s) == %dLL", slot, pat.Value)
	case *ast.StringPattern:
		return fmt.Sprintf("%s.tag == ERGO_STR && strcmp(((ErgoStr *)%s.as.p)->data, %s) == 0", slot, slot, cQuote(pat.Value))
	case *ast.BoolPattern:
		val := "false"
		if pat.Value {
			val = "true"
		}
		return fmt.Sprintf("ergo_as_bool(%s) == %s", slot, val)
	case *ast.NullPattern:
		return fmt.Sprintf("%s.tag == ERGO_NULL", slot)
	default:
		return ""
	}
}
