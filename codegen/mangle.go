package codegen

import (
	"strings"
)

// mangleMod sanitizes a module path into a C identifier fragment,
// grounded on codegen.c's mangle_mod (every non-alnum, non-underscore
// byte becomes '_').
func mangleMod(path string) string {
	var b strings.Builder
	b.Grow(len(path))
	for i := 0; i < len(path); i++ {
		r := path[i]
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '_' {
			b.WriteByte(r)
		} else {
			b.WriteByte('_')
		}
	}
	return b.String()
}

// mangleGlobal names a free function, grounded on mangle_global.
func mangleGlobal(mod, name string) string {
	return "ergo_" + mangleMod(mod) + "_" + name
}

// mangleGlobalVar names a module-level def slot, grounded on
// mangle_global_var.
func mangleGlobalVar(mod, name string) string {
	return "ergo_g_" + mangleMod(mod) + "_" + name
}

// mangleGlobalInit names a module's global-initializer function,
// grounded on mangle_global_init.
func mangleGlobalInit(mod string) string {
	return "ergo_init_" + mangleMod(mod)
}

// mangleMethod names a class method, grounded on mangle_method.
func mangleMethod(mod, class, name string) string {
	return "ergo_m_" + mangleMod(mod) + "_" + class + "_" + name
}

// mangleClass names a class's C struct typedef, grounded on
// codegen.c's `ErgoObj_%s_%s` class-typedef naming.
func mangleClass(mod, class string) string {
	return "ErgoObj_" + mangleMod(mod) + "_" + class
}

// mangleDrop names a class's generated drop function.
func mangleDrop(mod, class string) string {
	return "ergo_drop_" + mangleMod(mod) + "_" + class
}

// mangleFnWrapper names the ErgoFn-shaped C wrapper synthesized for a
// free function referenced as a value, grounded on codegen.c's
// `__fnwrap_%s_%s`.
func mangleFnWrapper(mod, name string) string {
	return "__fnwrap_" + mangleMod(mod) + "_" + name
}

// mangleLambda names a lambda body's generated C function.
func mangleLambda(mod string, n int) string {
	return "__lambda_" + mangleMod(mod) + "_" + itoa(n)
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}
