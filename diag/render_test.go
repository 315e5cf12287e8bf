package diag

import (
	"bytes"
	"os"
	"testing"

	"github.com/gkampitakis/go-snaps/snaps"
	"github.com/yis-lang/yisc/ast"
)

func TestMain(m *testing.M) {
	v := m.Run()
	snaps.Clean(m)
	os.Exit(v)
}

func render(d Diagnostic, source string) string {
	var buf bytes.Buffer
	r := NewRenderer(&buf, Options{NoColor: true})
	r.Render(d, source)
	return buf.String()
}

func TestRenderSingleLineFrame(t *testing.T) {
	src := "let x = 1\nlet y = x + true\nwritef(y)\n"
	d := Errorf("main.yis", ast.Position{Line: 2, Column: 13}, "type mismatch: expected num, found bool")
	snaps.MatchSnapshot(t, render(d, src))
}

func TestRenderSpanUnderline(t *testing.T) {
	src := "class Box {\n  value: num\n}\nentry() {\n  let b = Box(1, 2)\n}\n"
	d := Diagnostic{
		Path:     "main.yis",
		Pos:      ast.Position{Line: 5, Column: 11},
		EndPos:   ast.Position{Line: 5, Column: 20},
		Severity: SeverityError,
		Message:  "arity mismatch: Box.init expects 1 argument, found 2",
	}
	snaps.MatchSnapshot(t, render(d, src))
}

func TestRenderWithoutSource(t *testing.T) {
	d := Errorf("", ast.Position{}, "out of memory")
	snaps.MatchSnapshot(t, render(d, ""))
}

func TestRenderWarning(t *testing.T) {
	src := "if (flag) {\n  writef(\"on\")\n}\n"
	d := Warnf("main.yis", ast.Position{Line: 1, Column: 5}, "implicit truthiness check on non-bool value")
	snaps.MatchSnapshot(t, render(d, src))
}

func TestHintLookupMiss(t *testing.T) {
	if got := Hint("a message with no matching rule"); got != "" {
		t.Fatalf("Hint() = %q, want empty", got)
	}
}
