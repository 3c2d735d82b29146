// Package rewrite wraps a component script's default-exported configuration
// object with the bridge helper so the host engine resolves the augmented
// component type instead of the bare object literal.
package rewrite

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/walteh/vuesynth/pkg/config"
	"github.com/walteh/vuesynth/pkg/scriptast"
)

// Rewrite mutates doc in place, replacing `export default { … }` with
// `export default bridge({ … })` plus a bridge import. It reports whether
// anything changed; a document without a default-exported object literal is
// left untouched.
//
// Every synthesized node keeps exact source ranges: the import is zero-width
// at offset zero so it cannot overlap any existing statement, and the call
// and its argument list take the object literal's original range so
// range-based tooling (outline, selection, incremental re-parse diffing)
// still sees the literal at its original span. Re-running Rewrite on an
// already-wrapped document would double-import and corrupt the export, so
// callers must guarantee at most one invocation per document object.
func Rewrite(ctx context.Context, doc *scriptast.File, cfg *config.Config) bool {
	export, ok := doc.DefaultExport()
	if !ok {
		return false
	}
	obj, ok := export.Value.(*scriptast.ObjectLit)
	if !ok {
		return false
	}

	bridgeImport := &scriptast.ImportDecl{
		Span:  scriptast.Span{From: 0, To: 0},
		Named: []string{cfg.BridgeFunc},
		From:  cfg.BridgeModule,
	}

	export.Value = &scriptast.CallExpr{
		Span: obj.Span,
		Fun: &scriptast.Ident{
			Span: scriptast.Span{From: obj.From, To: obj.From + 1},
			Name: cfg.BridgeFunc,
		},
		Args: &scriptast.ArgList{
			Span: obj.Span,
			List: []scriptast.Expr{obj},
		},
	}

	doc.Stmts = append([]scriptast.Stmt{bridgeImport}, doc.Stmts...)
	doc.Module = true

	zerolog.Ctx(ctx).Debug().
		Str("document", doc.Path).
		Int("object_start", obj.From).
		Int("object_end", obj.To).
		Msg("wrapped default export with bridge helper")

	return true
}
