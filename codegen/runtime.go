// Package codegen implements the C emitter (spec.md §4.F): it walks a
// type-checked program and a GlobalEnv and produces a single C
// translation unit a host compiler can build directly, grounded on
// original_source/src/ergo/codegen.c's per-node-kind emission and
// name mangling.
package codegen

import _ "embed"

// runtimePrelude is included verbatim ahead of every generated
// translation unit (spec.md §4.F "Runtime header ... included
// verbatim"), grounded on original_source/cogito/src/ergo_compat.h/.c.
//
//go:embed runtime.c
var runtimePrelude string
