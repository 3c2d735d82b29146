package lifecycle_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/vuesynth/pkg/config"
	"github.com/walteh/vuesynth/pkg/lifecycle"
	"github.com/walteh/vuesynth/pkg/scriptast"
)

// pinnedEngine returns the same document object from updates, mimicking a
// host that patches a tree in place.
type pinnedEngine struct{}

func (e *pinnedEngine) CreateSourceFile(path, text string, version int32, kind scriptast.ScriptKind) *scriptast.File {
	return scriptast.Parse(path, text, version, kind)
}

func (e *pinnedEngine) UpdateSourceFile(doc *scriptast.File, text string, version int32, change lifecycle.ChangeRange) *scriptast.File {
	return doc
}

func newManager(t *testing.T, engine lifecycle.Engine) *lifecycle.Manager {
	t.Helper()
	if engine == nil {
		engine = lifecycle.NewDefaultEngine()
	}
	return lifecycle.NewManager(engine, config.Default())
}

func TestMaterialize_RoutesComponentScript(t *testing.T) {
	mgr := newManager(t, nil)

	doc := mgr.Materialize(context.Background(), "/src/app.vue", "export default { a: 1 };", 1, scriptast.KindComponent)

	imp, ok := doc.Stmts[0].(*scriptast.ImportDecl)
	require.True(t, ok)
	assert.Equal(t, []string{"bridge"}, imp.Named)

	export, ok := doc.DefaultExport()
	require.True(t, ok)
	_, ok = export.Value.(*scriptast.CallExpr)
	assert.True(t, ok)
}

func TestMaterialize_PlainScriptUntouched(t *testing.T) {
	mgr := newManager(t, nil)

	doc := mgr.Materialize(context.Background(), "/src/util.js", "export default { a: 1 };", 1, scriptast.KindScript)

	export, ok := doc.DefaultExport()
	require.True(t, ok)
	_, ok = export.Value.(*scriptast.ObjectLit)
	assert.True(t, ok, "a plain script must keep the host-default parse result")
}

func TestMaterialize_SynthesizesTemplateDocument(t *testing.T) {
	mgr := newManager(t, nil)

	doc := mgr.Materialize(context.Background(), "/src/x.vue.template", "<div>{{ msg }}</div>", 1, scriptast.KindScript)

	assert.Contains(t, doc.Text, "import __Component from './x.vue';")
	assert.Contains(t, doc.Text, "__renderHelper(__Component, function () {")
	assert.Contains(t, doc.Text, "msg;")

	// maps are stored under both the virtual identity and its alias
	virtual, ok := mgr.Maps().Get("/src/x.vue.template")
	require.True(t, ok)
	alias, ok := mgr.Maps().Get("/src/x.vue")
	require.True(t, ok)
	assert.Same(t, virtual, alias)
	assert.Equal(t, 1, virtual.Len())
}

func TestLifecycle_Idempotence(t *testing.T) {
	mgr := newManager(t, &pinnedEngine{})

	doc := mgr.Materialize(context.Background(), "/src/app.vue", "export default { a: 1 };", 1, scriptast.KindComponent)
	stmtsAfterFirst := make([]scriptast.Stmt, len(doc.Stmts))
	copy(stmtsAfterFirst, doc.Stmts)

	// the pinned engine hands the same object back, so the processed mark
	// must suppress a second transformation
	again := mgr.Reapply(context.Background(), doc, "export default { a: 1 };", 2, lifecycle.ChangeRange{})

	assert.Same(t, doc, again)
	require.Len(t, again.Stmts, len(stmtsAfterFirst))
	for i := range stmtsAfterFirst {
		assert.Same(t, stmtsAfterFirst[i], again.Stmts[i])
	}
}

func TestReapply_RecoversScriptKind(t *testing.T) {
	mgr := newManager(t, nil)

	doc := mgr.Materialize(context.Background(), "/src/app.vue", "export default { a: 1 };", 1, scriptast.KindComponent)

	// the default engine re-derives a new object; the update call does not
	// re-supply the classification, so the manager must recover it
	updated := mgr.Reapply(context.Background(), doc, "export default { b: 2 };", 2, lifecycle.ChangeRange{})

	require.NotSame(t, doc, updated)
	assert.Equal(t, scriptast.KindComponent, updated.Kind)

	imp, ok := updated.Stmts[0].(*scriptast.ImportDecl)
	require.True(t, ok)
	assert.Equal(t, []string{"bridge"}, imp.Named)
}

func TestReapply_RederivesTemplateDocument(t *testing.T) {
	mgr := newManager(t, nil)

	doc := mgr.Materialize(context.Background(), "/src/x.vue.template", "<div>{{ one }}</div>", 1, scriptast.KindScript)
	first, ok := mgr.Maps().Get("/src/x.vue")
	require.True(t, ok)

	updated := mgr.Reapply(context.Background(), doc, "<div>{{ one }}{{ two }}</div>", 2, lifecycle.ChangeRange{})

	assert.Contains(t, updated.Text, "one;")
	assert.Contains(t, updated.Text, "two;")

	// the paired map entries are overwritten on every re-derivation
	second, ok := mgr.Maps().Get("/src/x.vue")
	require.True(t, ok)
	assert.NotSame(t, first, second)
	assert.Equal(t, 2, second.Len())
}

func TestMaterialize_WhitespaceTemplateProducesEmptyDocument(t *testing.T) {
	mgr := newManager(t, nil)

	doc := mgr.Materialize(context.Background(), "/src/x.vue.template", "   \n\t  ", 1, scriptast.KindScript)

	assert.Empty(t, doc.Stmts)
	assert.Equal(t, "", doc.Text)

	pmap, ok := mgr.Maps().Get("/src/x.vue")
	require.True(t, ok)
	assert.Equal(t, 0, pmap.Len())
}

func TestMaterialize_DegradesOnTransformFailure(t *testing.T) {
	mgr := newManager(t, nil)

	doc := mgr.Materialize(context.Background(), "/src/x.vue.template",
		`<div>{{ kept }}<p v-for="broken">x</p></div>`, 1, scriptast.KindScript)

	// the host still receives a structurally valid document with the
	// expressions produced before the failure
	require.Len(t, doc.Stmts, 3)
	assert.Contains(t, doc.Text, "kept;")

	pmap, ok := mgr.Maps().Get("/src/x.vue")
	require.True(t, ok)
	assert.Equal(t, 1, pmap.Len())
}

func TestMaterialize_DegradesOnMarkupParseFailure(t *testing.T) {
	mgr := newManager(t, nil)

	doc := mgr.Materialize(context.Background(), "/src/x.vue.template", "<div>{{ broken", 1, scriptast.KindScript)

	// malformed markup degrades to an empty synthetic body
	require.Len(t, doc.Stmts, 3)
	assert.Contains(t, doc.Text, "function () {}")

	pmap, ok := mgr.Maps().Get("/src/x.vue")
	require.True(t, ok)
	assert.Equal(t, 0, pmap.Len())
}

func TestManager_TemplateParseCache(t *testing.T) {
	mgr := newManager(t, nil)

	// identical snapshots across distinct documents hit the cached tree; this
	// must not leak state between identities
	a := mgr.Materialize(context.Background(), "/src/a.vue.template", "<div>{{ msg }}</div>", 1, scriptast.KindScript)
	b := mgr.Materialize(context.Background(), "/src/b.vue.template", "<div>{{ msg }}</div>", 1, scriptast.KindScript)

	assert.Contains(t, a.Text, "'./a.vue'")
	assert.Contains(t, b.Text, "'./b.vue'")

	_, ok := mgr.Maps().Get("/src/a.vue")
	assert.True(t, ok)
	_, ok = mgr.Maps().Get("/src/b.vue")
	assert.True(t, ok)
}
