package storage

import (
	"context"
	"sync"

	"conta/internal/core"
)

// MemoryStore keeps the encoded snapshot in process memory. It goes through
// the same codec as the other stores.
type MemoryStore struct {
	mu   sync.Mutex
	data []byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// NewMemoryStoreFromBytes seeds the store with a raw document.
func NewMemoryStoreFromBytes(data []byte) *MemoryStore {
	return &MemoryStore{data: append([]byte(nil), data...)}
}

func (s *MemoryStore) Load(_ context.Context) (core.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.data == nil {
		return core.Snapshot{}, ErrNotFound
	}
	return Decode(s.data)
}

func (s *MemoryStore) Save(_ context.Context, snap core.Snapshot) error {
	data, err := Encode(snap)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = data
	return nil
}

func (s *MemoryStore) Remove(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = nil
	return nil
}

// Bytes returns a copy of the stored document, or nil.
func (s *MemoryStore) Bytes() []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.data == nil {
		return nil
	}
	return append([]byte(nil), s.data...)
}

func (s *MemoryStore) Close() error {
	return nil
}
