package check

import (
	"github.com/yis-lang/yisc/ast"
	"github.com/yis-lang/yisc/env"
	"github.com/yis-lang/yisc/types"
)

// resolveCheckerTypeRef resolves a TypeRef encountered inside a
// function body (e.g. a `let` annotation or an empty-array literal's
// annotation) against the already-built GlobalEnv.
func resolveCheckerTypeRef(ref ast.TypeRef, c *Context) (*types.Type, error) {
	return env.ResolveTypeRef(ref, c.ModulePath, c.Genv)
}
