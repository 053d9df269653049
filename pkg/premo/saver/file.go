package saver

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/BrandonKowalski/premo/pkg/premo"
	"github.com/BrandonKowalski/premo/pkg/premo/internal"
)

// FileStateSaver keeps the whole snapshot in one file encoded by a Codec.
type FileStateSaver struct {
	*premo.MemoryStateSaver
	path   string
	codec  Codec
	logger *slog.Logger
}

// NewFileStateSaver creates a saver for path. Nothing is read until Load.
// A nil codec selects JSON.
func NewFileStateSaver(path string, codec Codec) *FileStateSaver {
	if codec == nil {
		codec = JSON
	}
	return &FileStateSaver{
		MemoryStateSaver: premo.NewMemoryStateSaver(),
		path:             path,
		codec:            codec,
		logger:           internal.GetInternalLogger().With(internal.Backend("file")),
	}
}

// Path returns the snapshot file location.
func (s *FileStateSaver) Path() string {
	return s.path
}

// Codec returns the codec used for the snapshot file.
func (s *FileStateSaver) Codec() Codec {
	return s.codec
}

// Load reads the snapshot file. A missing file is a cold start and leaves the
// saver empty.
func (s *FileStateSaver) Load(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		s.Restore(premo.Snapshot{})
		s.logger.Debug("no saved state", internal.Path(s.path))
		return nil
	}
	if err != nil {
		return fmt.Errorf("read state file: %w", err)
	}

	snapshot, err := s.codec.UnmarshalSnapshot(data)
	if err != nil {
		return fmt.Errorf("load %s: %w", s.path, err)
	}
	s.Restore(snapshot)
	s.logger.Debug("state loaded", internal.Path(s.path), internal.Size(len(snapshot)))
	return nil
}

// Flush writes the snapshot next to the target and renames it into place so
// a crash never leaves a truncated file.
func (s *FileStateSaver) Flush(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := s.codec.MarshalSnapshot(s.Snapshot())
	if err != nil {
		return fmt.Errorf("flush %s: %w", s.path, err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create state directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp state file: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write temp state file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp state file: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("replace state file: %w", err)
	}

	s.logger.Debug("state flushed", internal.Path(s.path), internal.Size(s.Len()))
	return nil
}

// Clear removes the snapshot file and every buffered value.
func (s *FileStateSaver) Clear() error {
	s.Restore(premo.Snapshot{})
	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove state file: %w", err)
	}
	return nil
}

func (s *FileStateSaver) Close() error {
	return nil
}
