package store

import (
	"context"
	"sync"

	"github.com/tbourn/go-moodreel-backend/internal/domain"
)

// MemoryStore keeps encoded documents in process memory. Documents are
// stored serialized so callers never share references with the store.
type MemoryStore struct {
	mu   sync.RWMutex
	docs map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{docs: make(map[string][]byte)}
}

func (s *MemoryStore) Load(_ context.Context, owner string) (*domain.UserData, error) {
	s.mu.RLock()
	b, ok := s.docs[owner]
	s.mu.RUnlock()
	if !ok {
		return nil, nil
	}
	return Decode(b)
}

func (s *MemoryStore) Save(_ context.Context, owner string, data *domain.UserData) error {
	b, err := Encode(data)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.docs[owner] = b
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, owner string) error {
	s.mu.Lock()
	delete(s.docs, owner)
	s.mu.Unlock()
	return nil
}

// Put stores a raw document for owner, bypassing encoding.
func (s *MemoryStore) Put(owner string, raw []byte) {
	s.mu.Lock()
	s.docs[owner] = append([]byte(nil), raw...)
	s.mu.Unlock()
}
