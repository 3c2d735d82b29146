// Package lifecycle manages synthetic documents layered on top of a host
// engine's source-file cache. It is the single entry point the host calls:
// per document identity it decides whether a document is a virtual template
// document (routed through the template injector), a component script
// (routed through the script rewriter), or a plain script left to the host's
// default parse. Each document object is transformed at most once.
package lifecycle

import (
	"context"
	"strings"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/rs/zerolog"
	"github.com/walteh/vuesynth/pkg/config"
	"github.com/walteh/vuesynth/pkg/inject"
	"github.com/walteh/vuesynth/pkg/markup"
	"github.com/walteh/vuesynth/pkg/position"
	"github.com/walteh/vuesynth/pkg/rewrite"
	"github.com/walteh/vuesynth/pkg/scriptast"
)

const treeCacheSize = 64

// docState is the per-document-object side record: the processed mark that
// makes both lifecycle operations idempotent, and the script classification
// captured at creation time because an in-place update does not re-supply it.
// Entries are removed when the document object they mark is superseded, so
// discarded documents do not keep accumulating state.
type docState struct {
	processed bool
	kind      scriptast.ScriptKind
}

// Manager intercepts the host engine's create and update operations and owns
// the "already processed" bookkeeping. The host guarantees single-threaded,
// one-call-at-a-time access to its source-file cache, so the per-object marks
// are plain fields.
type Manager struct {
	id     string
	cfg    *config.Config
	engine Engine
	maps   *position.Table
	marks  map[*scriptast.File]*docState
	trees  *lru.Cache[string, *markup.Tree]
}

func NewManager(engine Engine, cfg *config.Config) *Manager {
	if cfg == nil {
		cfg = config.Default()
	}
	trees, _ := lru.New[string, *markup.Tree](treeCacheSize)
	return &Manager{
		id:     uuid.New().String(),
		cfg:    cfg,
		engine: engine,
		maps:   position.NewTable(cfg.TemplateSuffix),
		marks:  make(map[*scriptast.File]*docState),
		trees:  trees,
	}
}

// Maps exposes the process-wide position-map table to tooling consumers.
// Maps are keyed by document identity, under both the virtual-document
// identity and its suffix-stripped alias.
func (m *Manager) Maps() *position.Table {
	return m.maps
}

// Materialize is the drop-in replacement for the host's create operation.
// Virtual template documents are synthesized via the template injector;
// component scripts are rewritten in place; everything else is returned as
// the host's default parse result.
func (m *Manager) Materialize(ctx context.Context, path, text string, version int32, kind scriptast.ScriptKind) *scriptast.File {
	doc := m.engine.CreateSourceFile(path, text, version, kind)
	m.marks[doc] = &docState{kind: kind}
	return m.route(ctx, doc)
}

// Reapply is the drop-in replacement for the host's update operation. It
// recovers the stored classification for doc, asks the host to apply its
// normal incremental update, then re-runs the same routing decision against
// the updated result. A synthetic tree's shape depends on the whole template
// text, so template documents are always fully re-derived, never patched.
func (m *Manager) Reapply(ctx context.Context, doc *scriptast.File, text string, version int32, change ChangeRange) *scriptast.File {
	kind := doc.Kind
	if st, ok := m.marks[doc]; ok {
		kind = st.kind
	}

	updated := m.engine.UpdateSourceFile(doc, text, version, change)
	updated.Kind = kind
	if updated != doc {
		// doc is superseded; drop its mark so the new object is processed
		// from scratch
		delete(m.marks, doc)
		m.marks[updated] = &docState{kind: kind}
	}

	return m.route(ctx, updated)
}

// route applies the per-identity transformation decision. The processed mark
// guarantees a given document object is transformed at most once: routing an
// already-processed object is a no-op.
func (m *Manager) route(ctx context.Context, doc *scriptast.File) *scriptast.File {
	st, ok := m.marks[doc]
	if !ok {
		st = &docState{kind: doc.Kind}
		m.marks[doc] = st
	}
	if st.processed {
		return doc
	}
	st.processed = true

	if strings.HasSuffix(doc.Path, m.cfg.TemplateSuffix) {
		fresh := m.synthesize(ctx, doc)
		if fresh != doc {
			delete(m.marks, doc)
			m.marks[fresh] = &docState{kind: st.kind, processed: true}
		}
		return fresh
	}

	if st.kind == scriptast.KindComponent {
		rewrite.Rewrite(ctx, doc, m.cfg)
	}
	return doc
}

// synthesize fully re-derives a virtual template document from its snapshot
// text and overwrites the paired position-map entries.
func (m *Manager) synthesize(ctx context.Context, doc *scriptast.File) *scriptast.File {
	logger := zerolog.Ctx(ctx)

	// a whitespace-only template produces an empty document without invoking
	// the transform
	if strings.TrimSpace(doc.Text) == "" {
		empty := scriptast.Parse(doc.Path, "", doc.Version, doc.Kind)
		m.maps.Set(doc.Path, position.NewMapBuilder().Build())
		return empty
	}

	tree, err := m.parseTemplate(doc.Text)
	if err != nil {
		logger.Warn().
			Str("document", doc.Path).
			Str("manager", m.id).
			Err(err).
			Msg("template markup failed to parse, synthesizing empty body")
		fresh, pmap := inject.Inject(ctx, doc, nil, m.cfg)
		m.maps.Set(doc.Path, pmap)
		return fresh
	}

	fresh, pmap := inject.InjectTemplate(ctx, doc, tree, m.cfg)
	m.maps.Set(doc.Path, pmap)

	logger.Debug().
		Str("document", doc.Path).
		Int("mappings", pmap.Len()).
		Msg("synthesized template document")

	return fresh
}

// parseTemplate parses template text through a bounded cache keyed by the
// text itself; identical snapshots (open/close cycles, reverted edits) skip
// the reparse.
func (m *Manager) parseTemplate(text string) (*markup.Tree, error) {
	if tree, ok := m.trees.Get(text); ok {
		return tree, nil
	}
	tree, err := markup.Parse(text)
	if err != nil {
		return nil, err
	}
	m.trees.Add(text, tree)
	return tree, nil
}
