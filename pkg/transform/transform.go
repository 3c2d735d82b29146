// Package transform walks a parsed template tree and emits the ordered
// sequence of target-language expressions that stand in for the template's
// constructs. Every expression carries the byte range of the construct it
// came from; emission order equals template source order.
package transform

import (
	"context"
	"fmt"
	"strings"

	"github.com/walteh/vuesynth/pkg/config"
	"github.com/walteh/vuesynth/pkg/markup"
	"github.com/walteh/vuesynth/pkg/position"
	"gitlab.com/tozd/go/errors"
)

// Expression is one transformed template construct.
type Expression struct {
	// Code is the target-language expression text
	Code string
	// Origin is the construct's range in the template text
	Origin position.Range
}

// Template transforms tree into expressions. On failure the expressions
// produced before the failing construct are returned alongside the error, so
// callers can degrade to a partial synthetic body.
func Template(ctx context.Context, tree *markup.Tree, cfg *config.Config) ([]Expression, error) {
	v := &visitor{cfg: cfg, out: make([]Expression, 0)}
	for _, n := range tree.Roots {
		if err := v.node(ctx, n); err != nil {
			return v.out, err
		}
	}
	return v.out, nil
}

type visitor struct {
	cfg *config.Config
	out []Expression
}

func (v *visitor) emit(code string, origin position.Range) {
	v.out = append(v.out, Expression{Code: code, Origin: origin})
}

func (v *visitor) node(ctx context.Context, n markup.Node) error {
	switch n := n.(type) {
	case *markup.InterpolationNode:
		if n.Expr == "" {
			return errors.Errorf("empty interpolation at %s", n.Span)
		}
		v.emit(n.Expr, n.ExprRange)
	case *markup.ElementNode:
		return v.element(ctx, n)
	}
	return nil
}

func (v *visitor) element(ctx context.Context, el *markup.ElementNode) error {
	if isComponentTag(el.Tag) {
		v.emitComponent(el)
	}

	for _, attr := range el.Attrs {
		if !attr.HasValue || strings.TrimSpace(attr.Value) == "" {
			continue
		}

		switch {
		case attr.Name == "v-if" || attr.Name == "v-else-if" || attr.Name == "v-show":
			v.emit(attr.Value, attr.ValueRange)

		case attr.Name == "v-for":
			code, err := v.iteration(attr.Value)
			if err != nil {
				return err
			}
			v.emit(code, attr.ValueRange)

		case strings.HasPrefix(attr.Name, "v-on:") || strings.HasPrefix(attr.Name, "@"):
			code := fmt.Sprintf("%s(function ($event) { %s; })", v.cfg.Helpers.Listener, attr.Value)
			v.emit(code, attr.ValueRange)

		case strings.HasPrefix(attr.Name, "v-bind:") || strings.HasPrefix(attr.Name, ":"):
			// component-tag bindings are already folded into the component
			// helper call
			if !isComponentTag(el.Tag) {
				v.emit(attr.Value, attr.ValueRange)
			}

		case attr.Name == "v-model":
			v.emit(attr.Value, attr.ValueRange)
		}
	}

	for _, child := range el.Children {
		if err := v.node(ctx, child); err != nil {
			return err
		}
	}
	return nil
}

// emitComponent folds a component element's bound props into a single
// component helper call anchored at the tag name.
func (v *visitor) emitComponent(el *markup.ElementNode) {
	var props []string
	for _, attr := range el.Attrs {
		name := strings.TrimPrefix(strings.TrimPrefix(attr.Name, "v-bind:"), ":")
		if name == attr.Name || !attr.HasValue {
			continue
		}
		props = append(props, fmt.Sprintf("%s: %s", propertyName(name), attr.Value))
	}

	code := fmt.Sprintf("%s(%q, { %s })", v.cfg.Helpers.Component, el.Tag, strings.Join(props, ", "))
	if len(props) == 0 {
		code = fmt.Sprintf("%s(%q, {})", v.cfg.Helpers.Component, el.Tag)
	}
	v.emit(code, el.TagRange)
}

// iteration converts a `v-for` expression of the form `item in seq` or
// `(item, index) in seq` into an iteration helper call.
func (v *visitor) iteration(value string) (string, error) {
	vars, seq, ok := strings.Cut(value, " in ")
	if !ok {
		vars, seq, ok = strings.Cut(value, " of ")
	}
	if !ok {
		return "", errors.Errorf("invalid iteration expression %q: missing 'in'", value)
	}

	vars = strings.TrimSpace(vars)
	vars = strings.TrimSuffix(strings.TrimPrefix(vars, "("), ")")
	seq = strings.TrimSpace(seq)
	if vars == "" || seq == "" {
		return "", errors.Errorf("invalid iteration expression %q", value)
	}

	return fmt.Sprintf("%s(%s, function (%s) {})", v.cfg.Helpers.Iteration, seq, vars), nil
}

// isComponentTag reports whether tag names a custom component rather than a
// plain markup element.
func isComponentTag(tag string) bool {
	if strings.ContainsRune(tag, '-') {
		return true
	}
	return tag != "" && tag[0] >= 'A' && tag[0] <= 'Z'
}

// propertyName converts a kebab-case attribute name to a camelCase property.
func propertyName(name string) string {
	parts := strings.Split(name, "-")
	for i := 1; i < len(parts); i++ {
		if parts[i] != "" {
			parts[i] = strings.ToUpper(parts[i][:1]) + parts[i][1:]
		}
	}
	return strings.Join(parts, "")
}
