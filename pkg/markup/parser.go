package markup

import (
	"strings"

	"github.com/walteh/vuesynth/pkg/position"
	"gitlab.com/tozd/go/errors"
)

// voidElements never have children or a closing tag.
var voidElements = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true,
	"hr": true, "img": true, "input": true, "link": true, "meta": true,
	"param": true, "source": true, "track": true, "wbr": true,
}

// Parse parses template text into a Tree. Malformed markup (unterminated
// constructs, mismatched closing tags) fails with a parse error.
func Parse(src string) (*Tree, error) {
	p := &parser{src: src}
	roots, err := p.parseNodes("")
	if err != nil {
		return nil, err
	}
	return &Tree{Source: src, Roots: roots}, nil
}

type parser struct {
	src string
	pos int
}

func (p *parser) rest() string {
	return p.src[p.pos:]
}

// parseNodes parses sibling nodes until the closing tag for closeTag (or end
// of input when closeTag is empty).
func (p *parser) parseNodes(closeTag string) ([]Node, error) {
	var nodes []Node

	for p.pos < len(p.src) {
		rest := p.rest()

		switch {
		case strings.HasPrefix(rest, "</"):
			end := strings.IndexByte(rest, '>')
			if end < 0 {
				return nil, errors.Errorf("unterminated closing tag at offset %d", p.pos)
			}
			name := strings.TrimSpace(rest[2:end])
			if closeTag == "" || !strings.EqualFold(name, closeTag) {
				return nil, errors.Errorf("unexpected closing tag </%s> at offset %d", name, p.pos)
			}
			p.pos += end + 1
			return nodes, nil

		case strings.HasPrefix(rest, "<!--"):
			n, err := p.parseComment()
			if err != nil {
				return nil, err
			}
			nodes = append(nodes, n)

		case strings.HasPrefix(rest, "{{"):
			n, err := p.parseInterpolation()
			if err != nil {
				return nil, err
			}
			nodes = append(nodes, n)

		case strings.HasPrefix(rest, "<") && len(rest) > 1 && isTagStart(rest[1]):
			n, err := p.parseElement()
			if err != nil {
				return nil, err
			}
			nodes = append(nodes, n)

		default:
			nodes = append(nodes, p.parseText())
		}
	}

	if closeTag != "" {
		return nil, errors.Errorf("missing closing tag </%s>", closeTag)
	}
	return nodes, nil
}

func (p *parser) parseComment() (*CommentNode, error) {
	start := p.pos
	end := strings.Index(p.rest(), "-->")
	if end < 0 {
		return nil, errors.Errorf("unterminated comment at offset %d", start)
	}
	p.pos += end + 3
	return &CommentNode{
		Span: position.NewRange(start, p.pos),
		Text: p.src[start+4 : start+end],
	}, nil
}

func (p *parser) parseInterpolation() (*InterpolationNode, error) {
	start := p.pos
	end := strings.Index(p.rest(), "}}")
	if end < 0 {
		return nil, errors.Errorf("unterminated interpolation at offset %d", start)
	}
	raw := p.rest()[2:end]
	p.pos += end + 2

	// the expression range excludes surrounding whitespace inside the braces
	exprStart := start + 2 + leadingSpace(raw)
	expr := strings.TrimSpace(raw)

	return &InterpolationNode{
		Span:      position.NewRange(start, p.pos),
		Expr:      expr,
		ExprRange: position.NewRange(exprStart, exprStart+len(expr)),
	}, nil
}

func (p *parser) parseText() *TextNode {
	start := p.pos
	for p.pos < len(p.src) {
		rest := p.rest()
		if strings.HasPrefix(rest, "<") || strings.HasPrefix(rest, "{{") {
			break
		}
		p.pos++
	}
	// a lone '<' that did not open a construct is consumed as text
	if p.pos == start {
		p.pos++
	}
	return &TextNode{
		Span: position.NewRange(start, p.pos),
		Text: p.src[start:p.pos],
	}
}

func (p *parser) parseElement() (*ElementNode, error) {
	start := p.pos
	p.pos++ // consume '<'

	tagStart := p.pos
	for p.pos < len(p.src) && isTagByte(p.src[p.pos]) {
		p.pos++
	}
	tag := p.src[tagStart:p.pos]

	el := &ElementNode{
		Tag:      tag,
		TagRange: position.NewRange(tagStart, p.pos),
	}

	if err := p.parseAttrs(el); err != nil {
		return nil, err
	}

	if el.SelfClosing || voidElements[strings.ToLower(tag)] {
		el.Span = position.NewRange(start, p.pos)
		return el, nil
	}

	children, err := p.parseNodes(tag)
	if err != nil {
		return nil, err
	}
	el.Children = children
	el.Span = position.NewRange(start, p.pos)
	return el, nil
}

func (p *parser) parseAttrs(el *ElementNode) error {
	for p.pos < len(p.src) {
		p.skipSpace()
		if p.pos >= len(p.src) {
			break
		}

		switch p.src[p.pos] {
		case '>':
			p.pos++
			return nil
		case '/':
			if strings.HasPrefix(p.rest(), "/>") {
				p.pos += 2
				el.SelfClosing = true
				return nil
			}
			p.pos++
			continue
		}

		nameStart := p.pos
		for p.pos < len(p.src) && isAttrNameByte(p.src[p.pos]) {
			p.pos++
		}
		if p.pos == nameStart {
			return errors.Errorf("malformed tag <%s> at offset %d", el.Tag, p.pos)
		}

		attr := Attr{
			Name:      p.src[nameStart:p.pos],
			NameRange: position.NewRange(nameStart, p.pos),
		}

		p.skipSpace()
		if p.pos < len(p.src) && p.src[p.pos] == '=' {
			p.pos++
			p.skipSpace()
			value, valueRange, err := p.parseAttrValue(el.Tag)
			if err != nil {
				return err
			}
			attr.Value = value
			attr.ValueRange = valueRange
			attr.HasValue = true
		}

		el.Attrs = append(el.Attrs, attr)
	}
	return errors.Errorf("unterminated tag <%s>", el.Tag)
}

func (p *parser) parseAttrValue(tag string) (string, position.Range, error) {
	if p.pos < len(p.src) && (p.src[p.pos] == '"' || p.src[p.pos] == '\'') {
		quote := p.src[p.pos]
		p.pos++
		start := p.pos
		for p.pos < len(p.src) && p.src[p.pos] != quote {
			p.pos++
		}
		if p.pos >= len(p.src) {
			return "", position.Range{}, errors.Errorf("unterminated attribute value in <%s>", tag)
		}
		value := p.src[start:p.pos]
		p.pos++ // closing quote
		return value, position.NewRange(start, start+len(value)), nil
	}

	// unquoted value
	start := p.pos
	for p.pos < len(p.src) && !isSpaceByte(p.src[p.pos]) && p.src[p.pos] != '>' && p.src[p.pos] != '/' {
		p.pos++
	}
	value := p.src[start:p.pos]
	return value, position.NewRange(start, p.pos), nil
}

func (p *parser) skipSpace() {
	for p.pos < len(p.src) && isSpaceByte(p.src[p.pos]) {
		p.pos++
	}
}

func leadingSpace(s string) int {
	return len(s) - len(strings.TrimLeft(s, " \t\r\n"))
}

func isTagStart(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
}

func isTagByte(c byte) bool {
	return isTagStart(c) || c >= '0' && c <= '9' || c == '-' || c == ':'
}

func isAttrNameByte(c byte) bool {
	return !isSpaceByte(c) && c != '=' && c != '>' && c != '/' && c != '"' && c != '\''
}

func isSpaceByte(c byte) bool {
	return c == ' ' || c == '\t' || c == '\r' || c == '\n'
}
