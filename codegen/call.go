package codegen

import (
	"fmt"
	"strings"

	"github.com/yis-lang/yisc/ast"
	"github.com/yis-lang/yisc/check"
	"github.com/yis-lang/yisc/env"
	"github.com/yis-lang/yisc/types"
)

// stdrBareNames mirrors check.stdrBareNames (unexported), the small
// set of always-importable prelude functions callable without a
// module qualifier.
var stdrBareNames = map[string]bool{
	"write": true, "writef": true, "readf": true,
	"len": true, "is_null": true, "str": true,
}

// emitCall lowers a call expression following the same three-shape
// resolution order as check.callType: member call, bare call, or a
// call through an arbitrary Fn-typed expression.
func (e *Emitter) emitCall(x *ast.CallExpr, c *check.Context) (string, error) {
	switch callee := x.Callee.(type) {
	case *ast.MemberExpr:
		return e.emitMemberCall(callee, x, c)
	case *ast.Ident:
		return e.emitBareCall(callee, x, c)
	default:
		fnVal, err := e.emitExpr(x.Callee, c)
		if err != nil {
			return "", err
		}
		return e.emitValueCall(fnVal, x.Args, c)
	}
}

func (e *Emitter) emitBareCall(callee *ast.Ident, call *ast.CallExpr, c *check.Context) (string, error) {
	if _, ok := c.Locals.Lookup(callee.Name); ok {
		return e.emitValueCall(e.retained(callee.Name), call.Args, c)
	}
	if sig, ok := c.Genv.Functions[env.FuncQName(c.ModulePath, callee.Name)]; ok {
		return e.emitDirectCall(mangleGlobal(c.ModulePath, callee.Name), sig, call.Args, nil, c)
	}
	if isig, ok := intrinsicTable[callee.Name]; ok {
		return e.emitIntrinsicCall(callee.Name, isig, call.Args, c)
	}
	if stdrBareNames[callee.Name] {
		return e.emitStdrCall(callee.Name, call.Args, c)
	}
	return "", fmt.Errorf("codegen: unresolved call to %q", callee.Name)
}

func (e *Emitter) emitMemberCall(callee *ast.MemberExpr, call *ast.CallExpr, c *check.Context) (string, error) {
	baseType := c.ExprType(callee.X)
	if baseType.Kind == types.KNullable {
		baseType, _ = types.StripNullable(baseType)
	}

	if baseType.Kind == types.KModule {
		sig, ok := c.Genv.Functions[env.FuncQName(baseType.ModuleName, callee.Name)]
		if !ok {
			return "", fmt.Errorf("codegen: unknown function %q in module %q", callee.Name, baseType.ModuleName)
		}
		return e.emitDirectCall(mangleGlobal(baseType.ModuleName, callee.Name), sig, call.Args, nil, c)
	}

	if types.Equal(baseType, types.NumType) || types.Equal(baseType, types.BoolType) {
		recv, err := e.emitExpr(callee.X, c)
		if err != nil {
			return "", err
		}
		tmp := e.nextTmp()
		return fmt.Sprintf("({ ErgoVal %s = %s; EV_STR(stdr_to_string(%s)); })", tmp, recv, tmp), nil
	}

	if baseType.Kind == types.KArray {
		return e.emitArrayBuiltin(callee, call, c)
	}

	if baseType.Kind == types.KClass {
		ci := c.Genv.Classes[baseType.ClassName]
		if ci == nil {
			return "", fmt.Errorf("codegen: unknown class %q", baseType.ClassName)
		}
		sig, ok := ci.MethodByName(callee.Name)
		if !ok {
			return "", fmt.Errorf("codegen: unknown method %q on class %q", callee.Name, ci.Name)
		}
		recv, err := e.emitExpr(callee.X, c)
		if err != nil {
			return "", err
		}
		return e.emitDirectCall(mangleMethod(ci.ModulePath, ci.Name, callee.Name), sig, call.Args, &recv, c)
	}

	return "", fmt.Errorf("codegen: call on unsupported base type %s", baseType)
}

// emitDirectCall emits a statement-expression wrapping a direct call
// to a statically known C function. recv, if non-nil, is prepended as
// the receiver argument (methods take `self` first).
func (e *Emitter) emitDirectCall(cFunc string, sig *env.FunSig, args []ast.Expr, recv *string, c *check.Context) (string, error) {
	var parts []string
	var argTmps []string
	if recv != nil {
		t := e.nextTmp()
		parts = append(parts, fmt.Sprintf("ErgoVal %s = %s;", t, *recv))
		argTmps = append(argTmps, t)
	}
	for _, a := range args {
		val, err := e.emitExpr(a, c)
		if err != nil {
			return "", err
		}
		t := e.nextTmp()
		parts = append(parts, fmt.Sprintf("ErgoVal %s = %s;", t, val))
		argTmps = append(argTmps, t)
	}

	call := fmt.Sprintf("%s(%s)", cFunc, strings.Join(argTmps, ", "))
	if retOf(sig).Kind == types.KVoid {
		var b strings.Builder
		b.WriteString("({ ")
		for _, p := range parts {
			b.WriteString(p)
			b.WriteByte(' ')
		}
		fmt.Fprintf(&b, "%s; EV_NULLV; })", call)
		return b.String(), nil
	}
	var b strings.Builder
	b.WriteString("({ ")
	for _, p := range parts {
		b.WriteString(p)
		b.WriteByte(' ')
	}
	fmt.Fprintf(&b, "%s; })", call)
	return b.String(), nil
}

func (e *Emitter) emitArrayBuiltin(callee *ast.MemberExpr, call *ast.CallExpr, c *check.Context) (string, error) {
	base, err := e.emitExpr(callee.X, c)
	if err != nil {
		return "", err
	}
	bTmp := e.nextTmp()
	switch callee.Name {
	case "add":
		val, err := e.emitExpr(call.Args[0], c)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("({ ErgoVal %s = %s; ergo_arr_push((ErgoArr *)%s.as.p, %s); EV_NULLV; })", bTmp, base, bTmp, val), nil
	case "remove":
		idx, err := e.emitExpr(call.Args[0], c)
		if err != nil {
			return "", err
		}
		iTmp := e.nextTmp()
		return fmt.Sprintf("({ ErgoVal %s = %s; ErgoVal %s = %s; ergo_arr_remove((ErgoArr *)%s.as.p, ergo_as_int(%s)); })",
			bTmp, base, iTmp, idx, bTmp, iTmp), nil
	default:
		return "", fmt.Errorf("codegen: unknown array builtin %q", callee.Name)
	}
}

// emitValueCall invokes an arbitrary Fn-typed ErgoVal through the
// generic runtime trampoline, building the argument vector as a
// compound literal inside the same statement expression.
func (e *Emitter) emitValueCall(fnVal string, args []ast.Expr, c *check.Context) (string, error) {
	fTmp := e.nextTmp()
	var b strings.Builder
	fmt.Fprintf(&b, "({ ErgoVal %s = %s; ", fTmp, fnVal)
	argTmps := make([]string, 0, len(args))
	for _, a := range args {
		val, err := e.emitExpr(a, c)
		if err != nil {
			return "", err
		}
		t := e.nextTmp()
		fmt.Fprintf(&b, "ErgoVal %s = %s; ", t, val)
		argTmps = append(argTmps, t)
	}
	argvName := e.nextTmp()
	fmt.Fprintf(&b, "ErgoVal %s[] = { %s }; ergo_call(%s, %d, %s); })", argvName, joinOrZero(argTmps), fTmp, len(argTmps), argvName)
	return b.String(), nil
}

func joinOrZero(items []string) string {
	if len(items) == 0 {
		return "EV_NULLV"
	}
	return strings.Join(items, ", ")
}

// emitStdrCall lowers a bare call to one of the always-importable
// prelude functions onto the stdr_*/ergo_* runtime surface.
func (e *Emitter) emitStdrCall(name string, args []ast.Expr, c *check.Context) (string, error) {
	switch name {
	case "str":
		val, err := e.emitExpr(args[0], c)
		if err != nil {
			return "", err
		}
		tmp := e.nextTmp()
		return fmt.Sprintf("({ ErgoVal %s = %s; EV_STR(stdr_to_string(%s)); })", tmp, val, tmp), nil

	case "len":
		val, err := e.emitExpr(args[0], c)
		if err != nil {
			return "", err
		}
		tmp := e.nextTmp()
		return fmt.Sprintf("({ ErgoVal %s = %s; EV_INT(stdr_len(%s)); })", tmp, val, tmp), nil

	case "is_null":
		val, err := e.emitExpr(args[0], c)
		if err != nil {
			return "", err
		}
		tmp := e.nextTmp()
		return fmt.Sprintf("({ ErgoVal %s = %s; EV_BOOL(%s.tag == ERGO_NULL); })", tmp, val, tmp), nil

	case "write":
		val, err := e.emitExpr(args[0], c)
		if err != nil {
			return "", err
		}
		tmp := e.nextTmp()
		return fmt.Sprintf("({ ErgoVal %s = %s; ergo_write((ErgoStr *)%s.as.p); EV_NULLV; })", tmp, val, tmp), nil

	case "writef":
		// lowering's tupleWritefArgs always leaves exactly a (fmt, tuple)
		// pair here, so args[1] already evaluates to the data array;
		// there is no remaining variadic tail to collect.
		fmtVal, err := e.emitExpr(args[0], c)
		if err != nil {
			return "", err
		}
		arr, err := e.emitExpr(args[1], c)
		if err != nil {
			return "", err
		}
		fTmp, aTmp := e.nextTmp(), e.nextTmp()
		return fmt.Sprintf("({ ErgoVal %s = %s; ErgoVal %s = %s; stdr_writef_args(%s, %s); EV_NULLV; })",
			fTmp, fmtVal, aTmp, arr, fTmp, aTmp), nil

	case "readf":
		// The lowering surface only ever produces a bare single-format
		// call here (no multi-variable binding syntax exists in this
		// AST), so readf prints its format as a prompt and returns one
		// line of input rather than the original's template-parse path.
		fmtVal, err := e.emitExpr(args[0], c)
		if err != nil {
			return "", err
		}
		tmp := e.nextTmp()
		return fmt.Sprintf("({ ErgoVal %s = %s; ergo_write((ErgoStr *)%s.as.p); EV_STR(stdr_read_line()); })", tmp, fmtVal, tmp), nil

	default:
		return "", fmt.Errorf("codegen: unknown prelude function %q", name)
	}
}
