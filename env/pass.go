package env

import (
	"github.com/yis-lang/yisc/ast"
	"github.com/yis-lang/yisc/diag"
)

// Pass is one step of the global-environment build, folded from
// spec.md §4.B's ten described sub-steps into four coarser passes the
// way the teacher's semantic.Pass/PassManager splits declaration
// collection from validation (internal/semantic/pass.go,
// internal/semantic/passes/declaration_pass.go).
type Pass interface {
	Name() string
	Run(prog *ast.Program, ctx *buildContext)
}

// PassManager runs passes in order and stops early once a pass has
// produced a fatal diagnostic, mirroring PassManager.RunAll's
// HasCriticalErrors short-circuit.
type PassManager struct {
	passes []Pass
}

func NewPassManager(passes ...Pass) *PassManager {
	return &PassManager{passes: passes}
}

func (pm *PassManager) RunAll(prog *ast.Program, ctx *buildContext) {
	for _, p := range pm.passes {
		p.Run(prog, ctx)
		if ctx.hasFatalErrors() {
			return
		}
	}
}

// buildContext is the shared state threaded through every pass,
// grounded on the teacher's PassContext.
type buildContext struct {
	genv    *GlobalEnv
	checker TypeChecker
	diags   []diag.Diagnostic

	// moduleOrder preserves declaration order across casks, needed by
	// the global-cycle check in TypeGlobalsPass (DESIGN.md's decision
	// on spec.md §9's "used before definition").
	moduleOrder []string
}

func newBuildContext(checker TypeChecker) *buildContext {
	return &buildContext{genv: newGlobalEnv(), checker: checker}
}

func (c *buildContext) errorf(path string, pos ast.Position, format string, args ...any) {
	c.diags = append(c.diags, diag.Errorf(path, pos, format, args...))
}

func (c *buildContext) hasFatalErrors() bool {
	return diag.HasErrors(c.diags, diag.LintStrict)
}
