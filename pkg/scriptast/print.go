package scriptast

import (
	"strings"

	"github.com/walteh/vuesynth/pkg/position"
)

// Print renders the file's tree back to source text. Synthesized nodes have
// no trustworthy textual provenance, so callers must re-parse the printed
// text before handing the document to range-sensitive tooling.
func Print(f *File) string {
	text, _ := print(f)
	return text
}

// PrintWithSpans renders the tree and reports, per node, the byte range the
// node occupies in the printed text. The spans are valid against the re-parsed
// document because re-parsing the printed text does not move any bytes.
func PrintWithSpans(f *File) (string, map[Node]position.Range) {
	return print(f)
}

type printer struct {
	b     strings.Builder
	spans map[Node]position.Range
}

func print(f *File) (string, map[Node]position.Range) {
	p := &printer{spans: make(map[Node]position.Range)}
	for _, s := range f.Stmts {
		p.stmt(s, "")
	}
	return p.b.String(), p.spans
}

func (p *printer) mark(n Node, start int) {
	p.spans[n] = position.NewRange(start, p.b.Len())
}

func (p *printer) stmt(s Stmt, indent string) {
	start := p.b.Len()
	p.b.WriteString(indent)

	switch s := s.(type) {
	case *ImportDecl:
		p.b.WriteString("import ")
		if s.Default != "" {
			p.b.WriteString(s.Default)
			if s.Namespace != "" || len(s.Named) > 0 {
				p.b.WriteString(", ")
			}
		}
		if s.Namespace != "" {
			p.b.WriteString("* as ")
			p.b.WriteString(s.Namespace)
			if len(s.Named) > 0 {
				p.b.WriteString(", ")
			}
		}
		if len(s.Named) > 0 {
			p.b.WriteString("{ ")
			p.b.WriteString(strings.Join(s.Named, ", "))
			p.b.WriteString(" }")
		}
		if s.Default != "" || s.Namespace != "" || len(s.Named) > 0 {
			p.b.WriteString(" from ")
		}
		p.b.WriteString("'")
		p.b.WriteString(s.From)
		p.b.WriteString("';\n")
	case *ExportDefault:
		p.b.WriteString("export default ")
		p.expr(s.Value)
		p.b.WriteString(";\n")
	case *ExprStmt:
		p.expr(s.X)
		p.b.WriteString(";\n")
	case *RawStmt:
		p.b.WriteString(s.Text)
		p.b.WriteString("\n")
	}

	p.mark(s, start)
}

func (p *printer) expr(e Expr) {
	start := p.b.Len()

	switch e := e.(type) {
	case *Ident:
		p.b.WriteString(e.Name)
	case *ObjectLit:
		p.b.WriteString(e.Text)
	case *RawExpr:
		p.b.WriteString(e.Text)
	case *CallExpr:
		p.expr(e.Fun)
		p.b.WriteString("(")
		if e.Args != nil {
			for i, arg := range e.Args.List {
				if i > 0 {
					p.b.WriteString(", ")
				}
				p.expr(arg)
			}
		}
		p.b.WriteString(")")
	case *FuncLit:
		p.b.WriteString("function (")
		p.b.WriteString(strings.Join(e.Params, ", "))
		p.b.WriteString(") {")
		if len(e.Body) > 0 {
			p.b.WriteString("\n")
			for _, s := range e.Body {
				p.stmt(s, "    ")
			}
		}
		p.b.WriteString("}")
	}

	p.mark(e, start)
}
