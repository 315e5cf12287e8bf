// Package diag renders Yis compile diagnostics: colorized,
// source-mapped errors, warnings, and notes with contextual hints
// (spec.md §4.G). It is the only place any component writes to an
// output stream; every other component returns Diagnostic values.
package diag

import (
	"fmt"
	"os"

	"github.com/yis-lang/yisc/ast"
)

// Severity classifies a Diagnostic.
type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
	SeverityNote
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	case SeverityNote:
		return "note"
	default:
		return "diagnostic"
	}
}

// Diagnostic is one fatal error or lint finding (spec.md §4.D "Error
// emission": "(path, line, column, formatted message)").
type Diagnostic struct {
	Path     string // "" when no source file is associated
	Pos      ast.Position
	EndPos   ast.Position // zero value means "single token, estimate length"
	Severity Severity
	Message  string
}

// Errorf builds a SeverityError Diagnostic at pos.
func Errorf(path string, pos ast.Position, format string, args ...any) Diagnostic {
	return Diagnostic{Path: path, Pos: pos, Severity: SeverityError, Message: fmt.Sprintf(format, args...)}
}

// Warnf builds a SeverityWarning Diagnostic at pos.
func Warnf(path string, pos ast.Position, format string, args ...any) Diagnostic {
	return Diagnostic{Path: path, Pos: pos, Severity: SeverityWarning, Message: fmt.Sprintf(format, args...)}
}

// LintMode selects whether lint findings are advisory or fatal
// (spec.md §6 "Lint mode is one of warn or strict").
type LintMode int

const (
	LintWarn LintMode = iota
	LintStrict
)

// Options are the observed environment/configuration knobs of
// spec.md §6 that belong to the core rather than to the out-of-scope
// driver: color suppression, snippet verbosity, and lint mode.
// Renderer does not read Verbose: every snippet shows contextLines
// lines on each side of the reported line, whatever Verbose says.
type Options struct {
	NoColor  bool
	Verbose  bool
	LintMode LintMode
}

// OptionsFromEnv reads the one environment variable the core itself
// is specified to observe (NO_COLOR); Verbose and LintMode are left at
// their zero values for a driver to set explicitly.
func OptionsFromEnv() Options {
	_, noColor := os.LookupEnv("NO_COLOR")
	return Options{NoColor: noColor}
}

// HasErrors reports whether any diagnostic in ds is an error, or a
// warning under strict lint mode (spec.md §4.E "strict (promote to
// error, final nonzero exit)").
func HasErrors(ds []Diagnostic, mode LintMode) bool {
	for _, d := range ds {
		if d.Severity == SeverityError {
			return true
		}
		if d.Severity == SeverityWarning && mode == LintStrict {
			return true
		}
	}
	return false
}
