package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"conta/internal/core"
	"conta/internal/log"

	_ "modernc.org/sqlite"
)

// SQLiteStore keeps the encoded snapshot in a single-row table.
type SQLiteStore struct {
	db     *sql.DB
	path   string
	logger *log.Logger
}

// NewSQLiteStore opens dbPath and migrates it. A nil logger discards
// diagnostics.
func NewSQLiteStore(dbPath string, logger *log.Logger) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteStore{db: db, path: dbPath, logger: storageLogger(logger)}, nil
}

func (s *SQLiteStore) Load(ctx context.Context) (core.Snapshot, error) {
	var document string
	err := s.db.QueryRowContext(ctx,
		`SELECT document FROM ledger_snapshots WHERE id = 1`).Scan(&document)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Snapshot{}, ErrNotFound
	}
	if err != nil {
		return core.Snapshot{}, fmt.Errorf("%w: query snapshot: %v", core.ErrPersistenceCorrupt, err)
	}
	return Decode([]byte(document))
}

func (s *SQLiteStore) Save(ctx context.Context, snap core.Snapshot) error {
	data, err := Encode(snap)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPersistenceWrite, err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO ledger_snapshots (id, document, updated_at)
		VALUES (1, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			document = excluded.document,
			updated_at = excluded.updated_at`,
		string(data), time.Now().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("%w: upsert snapshot: %v", ErrPersistenceWrite, err)
	}

	s.logger.DebugContext(ctx, "Snapshot saved to SQLite",
		log.FieldOperation, log.OpSave,
		log.FieldPath, s.path,
		log.FieldBalanceCents, snap.Balance.Cents,
		log.FieldTransactions, len(snap.Transactions))
	return nil
}

func (s *SQLiteStore) Remove(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM ledger_snapshots`); err != nil {
		return fmt.Errorf("delete snapshot: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
