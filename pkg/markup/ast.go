// Package markup parses the template dialect of a component file into a
// generic tree. The tree carries byte offsets for every construct so the
// transform visitor can attach an origin range to each expression it emits.
package markup

import (
	"github.com/walteh/vuesynth/pkg/position"
)

// Node is any construct in the template dialect.
type Node interface {
	Range() position.Range
}

// Tree is a parsed template section.
type Tree struct {
	Source string
	Roots  []Node
}

// TextNode is plain text between markup constructs.
type TextNode struct {
	Span position.Range
	Text string
}

// CommentNode is a `<!-- -->` comment.
type CommentNode struct {
	Span position.Range
	Text string
}

// InterpolationNode is a `{{ expr }}` construct. ExprRange covers only the
// expression text between the delimiters.
type InterpolationNode struct {
	Span      position.Range
	Expr      string
	ExprRange position.Range
}

// Attr is an attribute on an element, directives included. ValueRange covers
// the value text between the quotes; for value-less attributes HasValue is
// false and ValueRange is empty.
type Attr struct {
	Name       string
	NameRange  position.Range
	Value      string
	ValueRange position.Range
	HasValue   bool
}

// ElementNode is a markup element.
type ElementNode struct {
	Span        position.Range
	Tag         string
	TagRange    position.Range
	Attrs       []Attr
	Children    []Node
	SelfClosing bool
}

func (n *TextNode) Range() position.Range          { return n.Span }
func (n *CommentNode) Range() position.Range       { return n.Span }
func (n *InterpolationNode) Range() position.Range { return n.Span }
func (n *ElementNode) Range() position.Range       { return n.Span }
