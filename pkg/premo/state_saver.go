package premo

import (
	"maps"
	"slices"
	"strings"

	"github.com/BrandonKowalski/premo/pkg/premo/constants"
)

// StateSaver is the persistence backend the tree writes saved values into.
// Values are opaque to the core; backends that encode them hand back Encoded
// values on read.
type StateSaver interface {
	// ReadValue returns the value stored under (tag, key).
	ReadValue(tag, key string) (any, bool)

	// WriteValue stores value under (tag, key), creating the tag entry lazily.
	WriteValue(tag, key string, value any)

	// DeleteValue removes a single key.
	DeleteValue(tag, key string)

	// DeleteSubtree removes tag and every tag below it.
	DeleteSubtree(tag string)
}

// Encoded is a persisted value that has not been decoded yet. Codec-backed
// savers return Encoded values so the reader decides the target type.
type Encoded interface {
	Decode(target any) error
}

// Snapshot maps tag -> key -> value.
type Snapshot map[string]map[string]any

// Tags returns the snapshot's tags in sorted order.
func (s Snapshot) Tags() []string {
	return slices.Sorted(maps.Keys(s))
}

// Clone copies both map levels. Values are shared.
func (s Snapshot) Clone() Snapshot {
	out := make(Snapshot, len(s))
	for tag, values := range s {
		out[tag] = maps.Clone(values)
	}
	return out
}

// Compile-time contract assertion.
var _ StateSaver = (*MemoryStateSaver)(nil)

// MemoryStateSaver is a map-backed StateSaver. It is the in-memory buffer the
// file and SQLite savers build on. Like the rest of the tree it expects a
// single owner.
type MemoryStateSaver struct {
	states Snapshot
}

// NewMemoryStateSaver creates an empty saver.
func NewMemoryStateSaver() *MemoryStateSaver {
	return &MemoryStateSaver{states: make(Snapshot)}
}

// NewMemoryStateSaverFrom creates a saver seeded with a previous snapshot.
func NewMemoryStateSaverFrom(snapshot Snapshot) *MemoryStateSaver {
	m := NewMemoryStateSaver()
	m.Restore(snapshot)
	return m
}

func (m *MemoryStateSaver) ReadValue(tag, key string) (any, bool) {
	values, ok := m.states[tag]
	if !ok {
		return nil, false
	}
	v, ok := values[key]
	return v, ok
}

func (m *MemoryStateSaver) WriteValue(tag, key string, value any) {
	values, ok := m.states[tag]
	if !ok {
		values = make(map[string]any)
		m.states[tag] = values
	}
	values[key] = value
}

func (m *MemoryStateSaver) DeleteValue(tag, key string) {
	values, ok := m.states[tag]
	if !ok {
		return
	}
	delete(values, key)
}

func (m *MemoryStateSaver) DeleteSubtree(tag string) {
	prefix := tag + constants.TagSeparator
	for t := range m.states {
		if t == tag || strings.HasPrefix(t, prefix) {
			delete(m.states, t)
		}
	}
}

// Snapshot returns a copy of everything currently stored.
func (m *MemoryStateSaver) Snapshot() Snapshot {
	return m.states.Clone()
}

// Restore replaces the stored state with a copy of snapshot.
func (m *MemoryStateSaver) Restore(snapshot Snapshot) {
	m.states = snapshot.Clone()
}

// Len returns the number of tags with stored values.
func (m *MemoryStateSaver) Len() int {
	return len(m.states)
}
