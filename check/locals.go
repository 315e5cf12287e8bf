package check

import (
	"github.com/yis-lang/yisc/arena"
	"github.com/yis-lang/yisc/types"
)

// Binding is one local variable or parameter slot.
type Binding struct {
	Name   string
	Type   *types.Type
	IsMut  bool
	Moved  bool // true after `move(x)`, per spec.md §4.D "Move"
}

// scopeFrame remembers, for one lexical scope, the arena high-water
// mark at entry and the names it introduced (for shadowing lookup:
// later frames' Define calls simply push, and lookup walks frames
// innermost-first).
type scopeFrame struct {
	mark  int
	names map[string]int // name -> arena index, this frame only
}

// Locals is the per-function scope chain. Bindings are bump-allocated
// into an arena and a scope pop truncates back to the mark recorded
// at push time — the arena's Truncate existing specifically to let
// this type discard a scope's bindings in O(1), the way the original
// C implementation's locals_push/locals_pop manage a LocalScope stack
// (original_source/src/ergo/typecheck.h's Locals/LocalScope).
type Locals struct {
	arena  *arena.Arena[Binding]
	frames []scopeFrame
}

func NewLocals() *Locals {
	l := &Locals{arena: arena.New[Binding](16)}
	l.Push()
	return l
}

// Push opens a new scope on top of the current one.
func (l *Locals) Push() {
	l.frames = append(l.frames, scopeFrame{mark: l.arena.Len(), names: make(map[string]int)})
}

// Pop closes the innermost scope, discarding every binding it introduced.
func (l *Locals) Pop() {
	n := len(l.frames)
	top := l.frames[n-1]
	l.arena.Truncate(top.mark)
	l.frames = l.frames[:n-1]
}

// Define adds a binding to the innermost scope.
func (l *Locals) Define(b Binding) {
	idx := l.arena.Alloc(b)
	l.frames[len(l.frames)-1].names[b.Name] = idx
}

// Lookup searches the scope chain innermost-first.
func (l *Locals) Lookup(name string) (Binding, bool) {
	for i := len(l.frames) - 1; i >= 0; i-- {
		if idx, ok := l.frames[i].names[name]; ok {
			return l.arena.Get(idx), true
		}
	}
	return Binding{}, false
}

// SetMoved marks name as moved-from in whichever frame defines it,
// implementing the used-after-move check of spec.md §7.
func (l *Locals) SetMoved(name string) bool {
	for i := len(l.frames) - 1; i >= 0; i-- {
		if idx, ok := l.frames[i].names[name]; ok {
			b := l.arena.Get(idx)
			b.Moved = true
			l.arena.Set(idx, b)
			return true
		}
	}
	return false
}

// Clone returns an independent copy of the scope chain. lambdaType
// types a lambda body in such a copy, so bindings made while typing
// the body never reach the enclosing scope chain.
func (l *Locals) Clone() *Locals {
	clone := &Locals{arena: arena.New[Binding](l.arena.Len())}
	for _, f := range l.frames {
		newFrame := scopeFrame{mark: clone.arena.Len(), names: make(map[string]int, len(f.names))}
		for name, idx := range f.names {
			b := l.arena.Get(idx)
			newFrame.names[name] = clone.arena.Alloc(b)
		}
		clone.frames = append(clone.frames, newFrame)
	}
	return clone
}
