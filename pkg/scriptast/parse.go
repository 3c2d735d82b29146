package scriptast

import (
	"regexp"
	"strings"
)

// Parse shallow-parses text into a File. It recognizes top-level import
// declarations and a default-exported object literal; every other top-level
// statement is kept verbatim as a RawStmt. Parse never fails: unrecognized
// content degrades to raw statements so the result is always a structurally
// valid, position-indexed tree.
func Parse(path, text string, version int32, kind ScriptKind) *File {
	f := &File{
		Path:    path,
		Text:    text,
		Version: version,
		Kind:    kind,
		Stmts:   make([]Stmt, 0),
	}

	for _, span := range scanStatements(text) {
		f.Stmts = append(f.Stmts, classify(text, span))
	}

	for _, s := range f.Stmts {
		if _, ok := s.(*ImportDecl); ok {
			f.Module = true
			break
		}
	}

	return f
}

// scanStatements splits text into top-level statement spans. A statement ends
// at a `;` at nesting depth zero, at a depth-zero newline once its braces are
// balanced and it plausibly terminated (last significant byte is `}` or a
// closing quote, or the next line opens with a declaration keyword), or at
// end of input. Strings and comments are skipped.
func scanStatements(text string) []Span {
	var spans []Span
	i := 0
	n := len(text)

	for i < n {
		i = skipBlank(text, i)
		if i >= n {
			break
		}

		start := i
		depth := 0
		last := byte(0) // last significant byte seen in this statement
		end := -1

		for i < n {
			c := text[i]
			switch c {
			case '/':
				if j := skipComment(text, i); j > i {
					i = j
					continue
				}
				last = c
				i++
			case '\'', '"', '`':
				i = skipString(text, i)
				last = c
			case '{', '[', '(':
				depth++
				last = c
				i++
			case '}', ']', ')':
				depth--
				last = c
				i++
			case ';':
				if depth <= 0 {
					i++
					end = i
				} else {
					last = c
					i++
				}
			case '\n':
				if depth <= 0 && (last == '}' || last == '\'' || last == '"' || startsDeclaration(text, i+1)) {
					end = i
					i++
				} else {
					i++
				}
			default:
				if !isSpace(c) {
					last = c
				}
				i++
			}
			if end >= 0 {
				break
			}
		}
		if end < 0 {
			end = n
		}

		// trim trailing whitespace from the span
		for end > start && isSpace(text[end-1]) {
			end--
		}
		if end > start {
			spans = append(spans, Span{From: start, To: end})
		}
	}

	return spans
}

var declarationKeywords = []string{"import", "export", "const", "let", "var", "function", "class"}

// startsDeclaration reports whether the next non-blank token at or after i
// opens a new top-level declaration. Semicolon-free scripts rely on this to
// keep a plain statement from swallowing the declaration on the next line.
func startsDeclaration(text string, i int) bool {
	i = skipBlank(text, i)
	for _, kw := range declarationKeywords {
		if strings.HasPrefix(text[i:], kw) {
			if j := i + len(kw); j >= len(text) || isSpace(text[j]) {
				return true
			}
		}
	}
	return false
}

var importRe = regexp.MustCompile(`^import\s*(?:([A-Za-z_$][\w$]*)\s*,?\s*)?(?:\*\s*as\s+([A-Za-z_$][\w$]*)\s*,?\s*)?(?:\{([^}]*)\}\s*)?(?:from\s*)?['"]([^'"]+)['"]\s*;?$`)

func classify(text string, span Span) Stmt {
	chunk := text[span.From:span.To]

	if strings.HasPrefix(chunk, "import") {
		if m := importRe.FindStringSubmatch(chunk); m != nil {
			imp := &ImportDecl{Span: span, Default: m[1], Namespace: m[2], From: m[4]}
			if m[3] != "" {
				for _, name := range strings.Split(m[3], ",") {
					if name = strings.TrimSpace(name); name != "" {
						imp.Named = append(imp.Named, name)
					}
				}
			}
			return imp
		}
	}

	if rest, ok := cutKeywords(chunk, "export", "default"); ok {
		valueStart := span.From + (len(chunk) - len(rest))
		return &ExportDefault{Span: span, Value: parseValue(text, valueStart, span.To)}
	}

	return &RawStmt{Span: span, Text: chunk}
}

// cutKeywords strips the given leading keywords (whitespace separated) and
// returns the remainder, reporting whether all keywords matched.
func cutKeywords(s string, keywords ...string) (string, bool) {
	for _, kw := range keywords {
		trimmed := strings.TrimLeft(s, " \t\r\n")
		if !strings.HasPrefix(trimmed, kw) {
			return "", false
		}
		rest := trimmed[len(kw):]
		if rest != "" && !isSpace(rest[0]) && rest[0] != '{' {
			return "", false
		}
		s = rest
	}
	return strings.TrimLeft(s, " \t\r\n"), true
}

func parseValue(text string, start, limit int) Expr {
	if start < len(text) && text[start] == '{' {
		if close, ok := scanBalanced(text, start); ok {
			return &ObjectLit{
				Span: Span{From: start, To: close + 1},
				Text: text[start : close+1],
			}
		}
	}

	end := limit
	for end > start && (isSpace(text[end-1]) || text[end-1] == ';') {
		end--
	}
	return &RawExpr{Span: Span{From: start, To: end}, Text: text[start:end]}
}

// scanBalanced returns the offset of the brace closing the one at open.
func scanBalanced(text string, open int) (int, bool) {
	depth := 0
	i := open
	for i < len(text) {
		switch text[i] {
		case '/':
			if j := skipComment(text, i); j > i {
				i = j
				continue
			}
			i++
		case '\'', '"', '`':
			i = skipString(text, i)
		case '{':
			depth++
			i++
		case '}':
			depth--
			if depth == 0 {
				return i, true
			}
			i++
		default:
			i++
		}
	}
	return 0, false
}

func skipBlank(text string, i int) int {
	for i < len(text) {
		if isSpace(text[i]) {
			i++
			continue
		}
		if j := skipComment(text, i); j > i {
			i = j
			continue
		}
		break
	}
	return i
}

// skipComment returns the offset past a comment starting at i, or i when no
// comment starts there.
func skipComment(text string, i int) int {
	if i+1 >= len(text) || text[i] != '/' {
		return i
	}
	switch text[i+1] {
	case '/':
		for i < len(text) && text[i] != '\n' {
			i++
		}
		return i
	case '*':
		j := strings.Index(text[i+2:], "*/")
		if j < 0 {
			return len(text)
		}
		return i + 2 + j + 2
	}
	return i
}

// skipString returns the offset past a string literal starting at i.
func skipString(text string, i int) int {
	quote := text[i]
	i++
	for i < len(text) {
		switch text[i] {
		case '\\':
			i += 2
		case quote:
			return i + 1
		default:
			i++
		}
	}
	return i
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\r' || c == '\n'
}
