package cart

import (
	"context"
	"sync"

	"cake-shop/internal/domain"
)

// MemoryStore keeps serialized snapshots in process memory.
type MemoryStore struct {
	mu    sync.RWMutex
	carts map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{carts: make(map[string][]byte)}
}

func (s *MemoryStore) Get(_ context.Context, sessionID string) (domain.Cart, error) {
	s.mu.RLock()
	b := s.carts[sessionID]
	s.mu.RUnlock()
	return decode(b)
}

func (s *MemoryStore) Set(_ context.Context, sessionID string, c domain.Cart) error {
	b, err := encode(c)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.carts[sessionID] = b
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Clear(_ context.Context, sessionID string) error {
	s.mu.Lock()
	delete(s.carts, sessionID)
	s.mu.Unlock()
	return nil
}

// Raw exposes the persisted bytes for a session.
func (s *MemoryStore) Raw(sessionID string) ([]byte, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.carts[sessionID]
	return b, ok
}

var _ Store = (*MemoryStore)(nil)
