package position

import (
	"strings"
	"sync"
)

// Table is the process-wide lookup from document identity to PositionMap.
//
// A synthetic template document is registered under two identities: its own
// path (ending in the reserved template suffix) and the component path with
// the suffix stripped. Both keys always resolve to the same map. Entries are
// replaced whole on every re-synthesis, never merged.
type Table struct {
	store  *sync.Map // map[string]*PositionMap
	suffix string
}

func NewTable(templateSuffix string) *Table {
	return &Table{
		store:  &sync.Map{},
		suffix: templateSuffix,
	}
}

// normalizeIdentity ensures consistent key handling by removing the file://
// prefix if present
func normalizeIdentity(identity string) string {
	identity = strings.TrimPrefix(identity, "file://")
	return identity
}

// Set stores m under identity and, when identity carries the template
// suffix, under the suffix-stripped alias as well.
func (t *Table) Set(identity string, m *PositionMap) {
	identity = normalizeIdentity(identity)
	t.store.Store(identity, m)
	if alias := strings.TrimSuffix(identity, t.suffix); alias != identity {
		t.store.Store(alias, m)
	}
}

func (t *Table) Get(identity string) (*PositionMap, bool) {
	v, ok := t.store.Load(normalizeIdentity(identity))
	if !ok {
		return nil, false
	}
	return v.(*PositionMap), true
}

// Delete removes the entry for identity along with its suffix-stripped alias.
func (t *Table) Delete(identity string) {
	identity = normalizeIdentity(identity)
	t.store.Delete(identity)
	if alias := strings.TrimSuffix(identity, t.suffix); alias != identity {
		t.store.Delete(alias)
	}
}
