package lifecycle

import (
	"github.com/walteh/vuesynth/pkg/position"
	"github.com/walteh/vuesynth/pkg/scriptast"
)

// ChangeRange describes the edited span of a document snapshot the way the
// host engine reports it: the replaced range in the old text and the length
// of the replacement.
type ChangeRange struct {
	Span      position.Range
	NewLength int
}

// Engine is the host engine's native source-file lifecycle. The manager
// wraps these two operations; it never reimplements the host's own
// incremental algorithms.
type Engine interface {
	// CreateSourceFile parses a fresh document from a text snapshot
	CreateSourceFile(path, text string, version int32, kind scriptast.ScriptKind) *scriptast.File
	// UpdateSourceFile applies an edit to an existing document, producing a
	// new document object that supersedes it
	UpdateSourceFile(doc *scriptast.File, text string, version int32, change ChangeRange) *scriptast.File
}

var _ Engine = &DefaultEngine{}

// DefaultEngine is the in-repo host built on the scriptast primitives. Its
// update is a full reparse of the new snapshot; a host with a real
// incremental parser supplies its own Engine.
type DefaultEngine struct{}

func NewDefaultEngine() *DefaultEngine {
	return &DefaultEngine{}
}

func (e *DefaultEngine) CreateSourceFile(path, text string, version int32, kind scriptast.ScriptKind) *scriptast.File {
	return scriptast.Parse(path, text, version, kind)
}

func (e *DefaultEngine) UpdateSourceFile(doc *scriptast.File, text string, version int32, change ChangeRange) *scriptast.File {
	return scriptast.Parse(doc.Path, text, version, doc.Kind)
}
