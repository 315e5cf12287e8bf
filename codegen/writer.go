package codegen

import (
	"fmt"
	"strings"
)

// writer accumulates generated C source with indentation tracking,
// grounded on codegen.c's `w_line`/`w.indent` writer.
type writer struct {
	buf    strings.Builder
	indent int
}

func (w *writer) line(format string, args ...any) {
	if format != "" {
		w.buf.WriteString(strings.Repeat("    ", w.indent))
		fmt.Fprintf(&w.buf, format, args...)
	}
	w.buf.WriteByte('\n')
}

func (w *writer) raw(s string) {
	w.buf.WriteString(s)
}

func (w *writer) String() string {
	return w.buf.String()
}
