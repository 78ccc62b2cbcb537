package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"conta/internal/core"
	"conta/internal/log"
)

// FileStore keeps the snapshot in a single JSON file.
type FileStore struct {
	path   string
	logger *log.Logger
}

// NewFileStore returns a store for path. A nil logger discards diagnostics.
func NewFileStore(path string, logger *log.Logger) *FileStore {
	return &FileStore{path: path, logger: storageLogger(logger)}
}

func (s *FileStore) Path() string {
	return s.path
}

func (s *FileStore) Load(ctx context.Context) (core.Snapshot, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return core.Snapshot{}, ErrNotFound
	}
	if err != nil {
		return core.Snapshot{}, fmt.Errorf("%w: read %s: %v", core.ErrPersistenceCorrupt, s.path, err)
	}
	snap, err := Decode(data)
	if err != nil {
		return core.Snapshot{}, err
	}
	s.logger.DebugContext(ctx, "Snapshot loaded from file",
		log.FieldOperation, log.OpLoad,
		log.FieldPath, s.path,
		log.FieldTransactions, len(snap.Transactions))
	return snap, nil
}

// Save writes to a temporary file in the target directory and renames it
// into place, so readers only ever see a complete document.
func (s *FileStore) Save(ctx context.Context, snap core.Snapshot) error {
	data, err := Encode(snap)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPersistenceWrite, err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("%w: create directory: %v", ErrPersistenceWrite, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("%w: create temp file: %v", ErrPersistenceWrite, err)
	}
	tmpName := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpName) }

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		cleanup()
		return fmt.Errorf("%w: write: %v", ErrPersistenceWrite, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		cleanup()
		return fmt.Errorf("%w: sync: %v", ErrPersistenceWrite, err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return fmt.Errorf("%w: close: %v", ErrPersistenceWrite, err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		cleanup()
		return fmt.Errorf("%w: rename: %v", ErrPersistenceWrite, err)
	}

	s.logger.DebugContext(ctx, "Snapshot saved to file",
		log.FieldOperation, log.OpSave,
		log.FieldPath, s.path,
		log.FieldBalanceCents, snap.Balance.Cents,
		log.FieldTransactions, len(snap.Transactions))
	return nil
}

func (s *FileStore) Remove(ctx context.Context) error {
	err := os.Remove(s.path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove %s: %w", s.path, err)
	}
	return nil
}

func (s *FileStore) Close() error {
	return nil
}
