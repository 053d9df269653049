// Package saver provides persistent premo.StateSaver backends.
//
// Every backend buffers the tree's values in a premo.MemoryStateSaver and
// talks to storage only in Load and Flush, so the tree never blocks on I/O.
// A host calls Load before building the root and Flush after the root saved
// its state.
package saver

import (
	"context"

	"github.com/BrandonKowalski/premo/pkg/premo"
)

// Backend is a premo.StateSaver that can be loaded from and flushed to
// storage.
type Backend interface {
	premo.StateSaver

	// Load replaces the buffered values with the stored ones.
	Load(ctx context.Context) error

	// Flush writes the buffered values to storage.
	Flush(ctx context.Context) error

	// Snapshot returns a copy of the buffered values.
	Snapshot() premo.Snapshot

	Close() error
}

var (
	_ Backend = (*MemoryBackend)(nil)
	_ Backend = (*FileStateSaver)(nil)
	_ Backend = (*SQLiteStateSaver)(nil)
)

// MemoryBackend is a Backend without storage. State lives as long as the
// process.
type MemoryBackend struct {
	*premo.MemoryStateSaver
}

// NewMemoryBackend creates an empty in-memory backend.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{MemoryStateSaver: premo.NewMemoryStateSaver()}
}

func (*MemoryBackend) Load(context.Context) error  { return nil }
func (*MemoryBackend) Flush(context.Context) error { return nil }
func (*MemoryBackend) Close() error                { return nil }
