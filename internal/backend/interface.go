package backend

import (
	"context"

	"conta/internal/services"
	"conta/internal/storage"
)

// Result holds what the ledger service needs from the environment.
// Publisher is nil when event publishing is disabled.
type Result struct {
	Store     storage.Store
	Publisher services.EventPublisher
}

// Factory creates backends based on configuration
type Factory interface {
	Create(ctx context.Context, config Config) (*Result, error)
}

// Config holds configuration for backend creation
type Config struct {
	Type BackendType

	// File specific
	DataFile string

	// SQLite specific
	SQLiteDBPath string

	// Event publishing, enabled when AMQPURL is set
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string
}

// BackendType represents the type of backend
type BackendType string

const (
	FileBackend   BackendType = "file"
	SQLiteBackend BackendType = "sqlite"
	MemoryBackend BackendType = "memory"
)

// String implements fmt.Stringer
func (bt BackendType) String() string {
	return string(bt)
}

// IsValid returns true if the backend type is valid
func (bt BackendType) IsValid() bool {
	for _, valid := range GetBackendTypes() {
		if bt == valid {
			return true
		}
	}
	return false
}
