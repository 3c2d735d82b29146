// Package scriptast provides the host engine's source-file primitives: a
// minimal script-language tree with byte-accurate spans, a shallow top-level
// parser, and a printer. The lifecycle manager layers synthetic documents on
// top of these primitives.
package scriptast

// ScriptKind classifies how a source file entered the host engine.
type ScriptKind int

const (
	KindUnknown ScriptKind = iota
	// KindScript is a plain script file
	KindScript
	// KindComponent is a script section extracted from a component file
	KindComponent
)

func (k ScriptKind) String() string {
	switch k {
	case KindScript:
		return "script"
	case KindComponent:
		return "component"
	default:
		return "unknown"
	}
}

// Node is any tree node with a byte span in its document text.
type Node interface {
	Pos() int
	End() int
}

// Span implements Node for every concrete node type. Synthesized nodes that
// must not overlap existing statements carry a zero-width span.
type Span struct {
	From int
	To   int
}

func (s Span) Pos() int { return s.From }
func (s Span) End() int { return s.To }

type Stmt interface {
	Node
	stmtNode()
}

type Expr interface {
	Node
	exprNode()
}

// File is a parsed source file. The host engine supersedes a File on every
// edit; a given File object is never mutated textually after creation, only
// structurally by the synthetic-document transformations.
type File struct {
	Path    string
	Text    string
	Version int32
	Kind    ScriptKind
	// Module marks the file as module-scoped so its symbols do not collide
	// globally across unrelated files
	Module bool
	Stmts  []Stmt
}

// DefaultExport returns the single top-level default-export statement, if any.
func (f *File) DefaultExport() (*ExportDefault, bool) {
	for _, s := range f.Stmts {
		if ed, ok := s.(*ExportDefault); ok {
			return ed, true
		}
	}
	return nil, false
}

// ImportDecl is an import statement. Default is the default binding name
// ("" if none), Namespace the `* as ns` binding ("" if none), Named the
// named bindings, From the module specifier.
type ImportDecl struct {
	Span
	Default   string
	Namespace string
	Named     []string
	From      string
}

// ExportDefault is an `export default <expr>` statement.
type ExportDefault struct {
	Span
	Value Expr
}

// ExprStmt is a bare expression statement.
type ExprStmt struct {
	Span
	X Expr
}

// RawStmt is any top-level statement kept verbatim.
type RawStmt struct {
	Span
	Text string
}

func (*ImportDecl) stmtNode()    {}
func (*ExportDefault) stmtNode() {}
func (*ExprStmt) stmtNode()      {}
func (*RawStmt) stmtNode()       {}

type Ident struct {
	Span
	Name string
}

// ObjectLit is an object literal kept verbatim, braces included.
type ObjectLit struct {
	Span
	Text string
}

// FuncLit is an anonymous function literal.
type FuncLit struct {
	Span
	Params []string
	Body   []Stmt
}

// CallExpr is a call. When a call wraps an existing expression in place, the
// call and its argument list take the wrapped expression's exact span so
// range-based tooling keeps working.
type CallExpr struct {
	Span
	Fun  Expr
	Args *ArgList
}

type ArgList struct {
	Span
	List []Expr
}

// RawExpr is an expression kept verbatim.
type RawExpr struct {
	Span
	Text string
}

func (*Ident) exprNode()     {}
func (*ObjectLit) exprNode() {}
func (*FuncLit) exprNode()   {}
func (*CallExpr) exprNode()  {}
func (*RawExpr) exprNode()   {}
