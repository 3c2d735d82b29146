package inject_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/vuesynth/pkg/config"
	"github.com/walteh/vuesynth/pkg/inject"
	"github.com/walteh/vuesynth/pkg/markup"
	"github.com/walteh/vuesynth/pkg/position"
	"github.com/walteh/vuesynth/pkg/scriptast"
	"github.com/walteh/vuesynth/pkg/transform"
)

func templateDoc(src string) *scriptast.File {
	return scriptast.Parse("/src/x.vue.template", src, 1, scriptast.KindScript)
}

func TestInject_EndToEnd(t *testing.T) {
	src := "<div>{{ msg }}</div>"
	tree, err := markup.Parse(src)
	require.NoError(t, err)

	doc := templateDoc(src)
	fresh, pmap := inject.InjectTemplate(context.Background(), doc, tree, config.Default())

	require.Len(t, fresh.Stmts, 3)
	assert.True(t, fresh.Module)

	componentImport, ok := fresh.Stmts[0].(*scriptast.ImportDecl)
	require.True(t, ok)
	assert.Equal(t, "__Component", componentImport.Default)
	assert.Equal(t, "./x.vue", componentImport.From)

	helperImport, ok := fresh.Stmts[1].(*scriptast.ImportDecl)
	require.True(t, ok)
	assert.Equal(t, "vue-editor-bridge", helperImport.From)
	assert.Equal(t,
		[]string{"__renderHelper", "__componentHelper", "__iterationHelper", "__listenerHelper"},
		helperImport.Named)

	assert.Contains(t, fresh.Text, "__renderHelper(__Component, function () {")
	assert.Contains(t, fresh.Text, "msg;")

	// the single mapping pairs the interpolation expression with its wrapped
	// statement in the synthetic text
	require.Equal(t, 1, pmap.Len())
	entry := pmap.Entries()[0]
	assert.Equal(t, "msg", src[entry.Original.Start:entry.Original.End])
	assert.Equal(t, "msg", fresh.Text[entry.Synthetic.Start:entry.Synthetic.End])
}

func TestInject_ReparsedFromPrintedText(t *testing.T) {
	src := "<p>{{ a }}{{ b }}</p>"
	tree, err := markup.Parse(src)
	require.NoError(t, err)

	doc := templateDoc(src)
	fresh, _ := inject.InjectTemplate(context.Background(), doc, tree, config.Default())

	// the returned document is a fresh parse of the printed text, so every
	// node's span is consistent with the text
	assert.NotSame(t, doc, fresh)
	reparsed := scriptast.Parse(fresh.Path, fresh.Text, fresh.Version, fresh.Kind)
	require.Len(t, reparsed.Stmts, len(fresh.Stmts))
	for i := range fresh.Stmts {
		assert.Equal(t, reparsed.Stmts[i].Pos(), fresh.Stmts[i].Pos())
		assert.Equal(t, reparsed.Stmts[i].End(), fresh.Stmts[i].End())
	}
}

func TestInject_DegradedPathStillValid(t *testing.T) {
	// the iteration expression is malformed, so the transform fails after two
	// expressions
	src := `<div>{{ a }}<span>{{ b }}</span><p v-for="broken">x</p>{{ never }}</div>`
	tree, err := markup.Parse(src)
	require.NoError(t, err)

	exprs, terr := transform.Template(context.Background(), tree, config.Default())
	require.Error(t, terr)
	require.Len(t, exprs, 2)

	doc := templateDoc(src)
	fresh, pmap := inject.InjectTemplate(context.Background(), doc, tree, config.Default())

	// still a structurally valid document with exactly k wrapped statements
	require.Len(t, fresh.Stmts, 3)
	assert.Contains(t, fresh.Text, "a;")
	assert.Contains(t, fresh.Text, "b;")
	assert.NotContains(t, fresh.Text, "never")
	assert.Equal(t, 2, pmap.Len())
}

func TestInject_EmptyExpressionList(t *testing.T) {
	doc := templateDoc("")
	fresh, pmap := inject.Inject(context.Background(), doc, nil, config.Default())

	require.Len(t, fresh.Stmts, 3)
	assert.Contains(t, fresh.Text, "function () {}")
	assert.Equal(t, 0, pmap.Len())
}

func TestInject_MappingMonotonic(t *testing.T) {
	src := `<ul><li v-for="item in items">{{ item.name }}</li></ul><footer>{{ year }}</footer>`
	tree, err := markup.Parse(src)
	require.NoError(t, err)

	doc := templateDoc(src)
	_, pmap := inject.InjectTemplate(context.Background(), doc, tree, config.Default())

	entries := pmap.Entries()
	require.NotEmpty(t, entries)
	for i := 1; i < len(entries); i++ {
		assert.GreaterOrEqual(t, entries[i].Original.Start, entries[i-1].Original.Start)
		assert.GreaterOrEqual(t, entries[i].Synthetic.Start, entries[i-1].Synthetic.Start)
	}
}

func TestInject_ComponentImportPath(t *testing.T) {
	tests := []struct {
		name    string
		docPath string
		want    string
	}{
		{name: "virtual template document", docPath: "/a/b/widget.vue.template", want: "./widget.vue"},
		{name: "no suffix to strip", docPath: "/a/b/widget.vue", want: "./widget.vue"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := scriptast.Parse(tt.docPath, "", 1, scriptast.KindScript)
			fresh, _ := inject.Inject(context.Background(), doc, nil, config.Default())

			imp, ok := fresh.Stmts[0].(*scriptast.ImportDecl)
			require.True(t, ok)
			assert.Equal(t, tt.want, imp.From)
		})
	}
}

func TestInject_SyntheticRangesInsideRenderBody(t *testing.T) {
	src := "<div>{{ msg }}</div>"
	tree, err := markup.Parse(src)
	require.NoError(t, err)

	doc := templateDoc(src)
	fresh, pmap := inject.InjectTemplate(context.Background(), doc, tree, config.Default())

	renderStart := strings.Index(fresh.Text, "__renderHelper(")
	require.GreaterOrEqual(t, renderStart, 0)

	for _, entry := range pmap.Entries() {
		assert.Greater(t, entry.Synthetic.Start, renderStart,
			"mapped ranges must fall inside the render call, not the injected imports")
		assert.LessOrEqual(t, entry.Synthetic.End, len(fresh.Text))
	}

	var zero position.Range
	assert.NotEqual(t, zero, pmap.Entries()[0].Synthetic)
}
