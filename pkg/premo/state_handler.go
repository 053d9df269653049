package premo

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/BrandonKowalski/premo/pkg/premo/internal"
)

// ErrTypeMismatch indicates a persisted value whose shape does not match what
// the restoring key expects.
var ErrTypeMismatch = errors.New("saved value has unexpected type")

type saverEntry struct {
	key string
	fn  func() any
}

// StateHandler is a presentation model's handle on the keyed store, scoped to
// its tag.
type StateHandler struct {
	tag    string
	saver  StateSaver
	savers []saverEntry
	logger *slog.Logger
}

func newStateHandler(tag string, saver StateSaver, logger *slog.Logger) *StateHandler {
	return &StateHandler{tag: tag, saver: saver, logger: logger}
}

// Tag returns the tag the handler reads and writes under.
func (h *StateHandler) Tag() string {
	return h.tag
}

// Saved returns the previously persisted value for key, if any.
func (h *StateHandler) Saved(key string) (any, bool) {
	return h.saver.ReadValue(h.tag, key)
}

// SetSaver registers fn to capture the value of key at save time. A nil result
// removes the key. Setting a saver for an existing key replaces it.
func (h *StateHandler) SetSaver(key string, fn func() any) {
	for i := range h.savers {
		if h.savers[i].key == key {
			h.savers[i].fn = fn
			return
		}
	}
	h.savers = append(h.savers, saverEntry{key: key, fn: fn})
}

// RemoveSaver unregisters the saver for key.
func (h *StateHandler) RemoveSaver(key string) {
	for i := range h.savers {
		if h.savers[i].key == key {
			h.savers = append(h.savers[:i:i], h.savers[i+1:]...)
			return
		}
	}
}

// SaveState writes every registered saver's current value.
func (h *StateHandler) SaveState() {
	for _, s := range h.savers {
		v := s.fn()
		if v == nil {
			h.saver.DeleteValue(h.tag, s.key)
			continue
		}
		h.saver.WriteValue(h.tag, s.key, v)
	}
}

// Discard drops the value saved under key after it turned out to be unusable.
// err is logged at WARN.
func (h *StateHandler) Discard(key string, err error) {
	h.logger.Warn("discarding saved value", internal.StateKey(key), internal.Error(err))
	h.saver.DeleteValue(h.tag, key)
}

// Saved returns the value persisted under key as a T. Encoded values are
// decoded into T. A value that cannot be turned into a T is discarded and
// reported as absent so callers fall back to their initial value.
func Saved[T any](h *StateHandler, key string) (T, bool) {
	var zero T

	raw, ok := h.Saved(key)
	if !ok {
		return zero, false
	}

	if v, ok := raw.(T); ok {
		return v, true
	}

	if enc, ok := raw.(Encoded); ok {
		var out T
		if err := enc.Decode(&out); err != nil {
			h.Discard(key, fmt.Errorf("%w: %w", ErrTypeMismatch, err))
			return zero, false
		}
		return out, true
	}

	h.Discard(key, fmt.Errorf("%w: have %T, want %T", ErrTypeMismatch, raw, zero))
	return zero, false
}

// SavedOr returns the persisted value for key, or initial() when there is none.
func SavedOr[T any](h *StateHandler, key string, initial func() T) T {
	if v, ok := Saved[T](h, key); ok {
		return v
	}
	return initial()
}

// Value is a saved value owned by a presentation model. Every Set is emitted
// on Changes.
type Value[T any] struct {
	mu      sync.RWMutex
	value   T
	changes *Action[T]
}

// Saveable creates a Value seeded from the store, or from initial on a cold
// start, and registers it to be saved under key.
func Saveable[T any](pm *PresentationModel, key string, initial T) *Value[T] {
	v := &Value[T]{
		value:   SavedOr(pm.stateHandler, key, func() T { return initial }),
		changes: NewAction[T](),
	}
	pm.stateHandler.SetSaver(key, func() any { return v.Get() })
	return v
}

func (v *Value[T]) Get() T {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.value
}

func (v *Value[T]) Set(value T) {
	v.mu.Lock()
	v.value = value
	v.mu.Unlock()
	v.changes.Emit(value)
}

// Changes is emitted with every new value.
func (v *Value[T]) Changes() *Action[T] {
	return v.changes
}
