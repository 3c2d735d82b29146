// Package inject builds the synthetic document that stands in for a
// component's template section. The transformed template expressions are
// wrapped into an anonymous function body and handed to the render helper,
// alongside imports binding the sibling component and the typed helper
// surface from the bridge module.
package inject

import (
	"context"
	"path"
	"strings"

	"github.com/rs/zerolog"
	"github.com/walteh/vuesynth/pkg/config"
	"github.com/walteh/vuesynth/pkg/markup"
	"github.com/walteh/vuesynth/pkg/position"
	"github.com/walteh/vuesynth/pkg/scriptast"
	"github.com/walteh/vuesynth/pkg/transform"
)

// InjectTemplate transforms tree and injects the result into doc. A failure
// in the transform visitor must not take the host down: it is logged with the
// document identity and injection proceeds with the expressions produced
// before the failure, so the host always receives a structurally valid
// document.
func InjectTemplate(ctx context.Context, doc *scriptast.File, tree *markup.Tree, cfg *config.Config) (*scriptast.File, *position.PositionMap) {
	exprs, err := transform.Template(ctx, tree, cfg)
	if err != nil {
		zerolog.Ctx(ctx).Warn().
			Str("document", doc.Path).
			Int("expressions_kept", len(exprs)).
			Err(err).
			Msg("template transform failed, injecting partial expression list")
	}
	return Inject(ctx, doc, exprs, cfg)
}

// Inject replaces doc's top-level statements with exactly three: the
// component import, the helper import, and the render helper call wrapping
// exprs. The mutated tree contains synthesized nodes without textual
// provenance, so it is printed and re-parsed from that text; the re-parsed
// document is returned together with the position map pairing each
// expression's origin range with its synthetic range.
func Inject(ctx context.Context, doc *scriptast.File, exprs []transform.Expression, cfg *config.Config) (*scriptast.File, *position.PositionMap) {
	componentImport := &scriptast.ImportDecl{
		Default: cfg.ComponentName,
		From:    componentImportPath(doc.Path, cfg.TemplateSuffix),
	}
	helperImport := &scriptast.ImportDecl{
		Named: []string{
			cfg.Helpers.Render,
			cfg.Helpers.Component,
			cfg.Helpers.Iteration,
			cfg.Helpers.Listener,
		},
		From: cfg.BridgeModule,
	}

	body := make([]scriptast.Stmt, 0, len(exprs))
	raws := make([]*scriptast.RawExpr, 0, len(exprs))
	for _, expr := range exprs {
		raw := &scriptast.RawExpr{Text: expr.Code}
		raws = append(raws, raw)
		body = append(body, &scriptast.ExprStmt{X: raw})
	}

	render := &scriptast.CallExpr{
		Fun: &scriptast.Ident{Name: cfg.Helpers.Render},
		Args: &scriptast.ArgList{
			List: []scriptast.Expr{
				&scriptast.Ident{Name: cfg.ComponentName},
				&scriptast.FuncLit{Body: body},
			},
		},
	}

	doc.Stmts = []scriptast.Stmt{
		componentImport,
		helperImport,
		&scriptast.ExprStmt{X: render},
	}
	// the import marks the document as module-scoped, keeping its symbols
	// from colliding globally across unrelated component files
	doc.Module = true

	text, spans := scriptast.PrintWithSpans(doc)
	fresh := scriptast.Parse(doc.Path, text, doc.Version, doc.Kind)

	builder := position.NewMapBuilder()
	for i, expr := range exprs {
		if synthetic, ok := spans[raws[i]]; ok {
			builder.Add(expr.Origin, synthetic)
		}
	}

	return fresh, builder.Build()
}

// componentImportPath derives the sibling component import from the virtual
// document's own path by stripping the reserved template suffix.
func componentImportPath(docPath, suffix string) string {
	return "./" + path.Base(strings.TrimSuffix(docPath, suffix))
}
