package position

import (
	"sort"
)

// Mapping is a single correspondence between a range in the original section
// text and a range in the synthetic document derived from it.
type Mapping struct {
	Original  Range
	Synthetic Range
}

// PositionMap is an ordered sequence of range correspondences between an
// original section and its synthetic document. Entries are ordered by
// ascending original start offset, ties broken by ascending synthetic start
// offset. A construct with no entry simply has no mapping available.
type PositionMap struct {
	entries []Mapping
}

func (m *PositionMap) Entries() []Mapping {
	if m == nil {
		return nil
	}
	return m.entries
}

func (m *PositionMap) Len() int {
	if m == nil {
		return 0
	}
	return len(m.entries)
}

// ToSynthetic resolves an offset in the original text to the synthetic range
// covering it. The boolean is false when no mapping covers the offset.
func (m *PositionMap) ToSynthetic(originalOffset int) (Range, bool) {
	if m == nil {
		return Range{}, false
	}
	for _, e := range m.entries {
		if e.Original.Contains(originalOffset) {
			return e.Synthetic, true
		}
	}
	return Range{}, false
}

// ToOriginal resolves an offset in the synthetic document back to the
// original range it was derived from. The boolean is false when the offset
// falls inside injected scaffolding that has no original counterpart.
func (m *PositionMap) ToOriginal(syntheticOffset int) (Range, bool) {
	if m == nil {
		return Range{}, false
	}
	for _, e := range m.entries {
		if e.Synthetic.Contains(syntheticOffset) {
			return e.Original, true
		}
	}
	return Range{}, false
}

// MapBuilder accumulates correspondences while a synthetic document is being
// derived and produces the ordered PositionMap.
type MapBuilder struct {
	entries []Mapping
}

func NewMapBuilder() *MapBuilder {
	return &MapBuilder{entries: make([]Mapping, 0)}
}

func (b *MapBuilder) Add(original, synthetic Range) {
	b.entries = append(b.entries, Mapping{Original: original, Synthetic: synthetic})
}

// Build sorts the accumulated entries into map order and returns the map.
// The builder must not be reused afterwards.
func (b *MapBuilder) Build() *PositionMap {
	sort.SliceStable(b.entries, func(i, j int) bool {
		if b.entries[i].Original.Start != b.entries[j].Original.Start {
			return b.entries[i].Original.Start < b.entries[j].Original.Start
		}
		return b.entries[i].Synthetic.Start < b.entries[j].Synthetic.Start
	})
	return &PositionMap{entries: b.entries}
}
