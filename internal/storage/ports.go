package storage

import (
	"context"
	"errors"

	"conta/internal/core"
	"conta/internal/log"
)

var (
	// ErrNotFound means nothing has been saved yet.
	ErrNotFound = errors.New("snapshot not found")
	// ErrPersistenceWrite wraps any failure to write a snapshot.
	ErrPersistenceWrite = errors.New("failed to persist ledger")
)

// Store holds the single ledger snapshot of this process.
type Store interface {
	// Load returns the last saved snapshot, ErrNotFound when none exists,
	// or an error wrapping core.ErrPersistenceCorrupt when it cannot be
	// decoded.
	Load(ctx context.Context) (core.Snapshot, error)
	// Save replaces the stored snapshot.
	Save(ctx context.Context, s core.Snapshot) error
	// Remove deletes the stored snapshot. Removing a missing snapshot is
	// not an error.
	Remove(ctx context.Context) error
	Close() error
}

func storageLogger(l *log.Logger) *log.Logger {
	if l == nil {
		l = log.Discard()
	}
	return l.WithComponent(log.ComponentStorage)
}
