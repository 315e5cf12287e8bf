package ast

// Param is one function/method/lambda parameter.
type Param struct {
	Name     string
	Type     TypeRef // nil for an untyped lambda parameter
	IsThis   bool    // true only for a method's first parameter
	IsMut    bool    // `?this` or a mutable-by-convention marker
	Position Position
}

// FunDecl is a free (non-method) function.
type FunDecl struct {
	Name     string
	Vis      Visibility
	Params   []Param
	Return   TypeRef // nil means Void
	Body     *BlockStmt
	Position Position
}

func (d *FunDecl) Pos() Position { return d.Position }
func (d *FunDecl) declNode()     {}

// MethodDecl is a function declared inside a ClassDecl. Its first
// parameter must be named "this" (spec.md §4.B pass 7).
type MethodDecl struct {
	Name     string
	Params   []Param // Params[0] is the `this` receiver
	Return   TypeRef
	Body     *BlockStmt
	Position Position
}

func (d *MethodDecl) Pos() Position { return d.Position }
func (d *MethodDecl) declNode()     {}

// FieldDecl is one field of a ClassDecl.
type FieldDecl struct {
	Name     string
	Type     TypeRef
	Position Position
}

// ClassDecl declares a class, struct, or enum-kind type.
type ClassDecl struct {
	Name     string
	Vis      Visibility
	Kind     ClassKind
	Fields   []FieldDecl
	Methods  []*MethodDecl
	Position Position
}

func (d *ClassDecl) Pos() Position { return d.Position }
func (d *ClassDecl) declNode()     {}

// ConstDecl is a module-level compile-time constant.
type ConstDecl struct {
	Name     string
	Value    Expr
	Position Position
}

func (d *ConstDecl) Pos() Position { return d.Position }
func (d *ConstDecl) declNode()     {}

// DefDecl is a module-level global value slot, mutable or immutable.
type DefDecl struct {
	Name     string
	IsMut    bool
	Value    Expr
	Position Position
}

func (d *DefDecl) Pos() Position { return d.Position }
func (d *DefDecl) declNode()     {}

// EntryDecl is the program's unique entry point; only the entry
// module may contain one (spec.md §4.B pass 9).
type EntryDecl struct {
	Body     *BlockStmt
	Position Position
}

func (d *EntryDecl) Pos() Position { return d.Position }
func (d *EntryDecl) declNode()     {}
