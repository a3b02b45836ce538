package cache

import (
	"context"
	"sync"
	"time"

	"github.com/jhoicas/Inventario-ledger/internal/application/documents"
	"github.com/jhoicas/Inventario-ledger/internal/domain"
)

type memoryEntry struct {
	value     string
	expiresAt time.Time
}

// MemoryIdempotencyStore equivalente en proceso de RedisIdempotencyStore (desarrollo y tests).
type MemoryIdempotencyStore struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	ttl     time.Duration
	now     func() time.Time
}

var _ documents.IdempotencyStore = (*MemoryIdempotencyStore)(nil)

// NewMemoryIdempotencyStore crea el almacén con el TTL dado.
func NewMemoryIdempotencyStore(ttl time.Duration) *MemoryIdempotencyStore {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &MemoryIdempotencyStore{entries: make(map[string]memoryEntry), ttl: ttl, now: time.Now}
}

func (s *MemoryIdempotencyStore) get(k string) (memoryEntry, bool) {
	e, ok := s.entries[k]
	if ok && !s.now().Before(e.expiresAt) {
		delete(s.entries, k)
		return memoryEntry{}, false
	}
	return e, ok
}

// Reserve implementa documents.IdempotencyStore.
func (s *MemoryIdempotencyStore) Reserve(_ context.Context, scope, key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	k := scope + ":" + key
	if e, ok := s.get(k); ok {
		if e.value == pendingValue {
			return "", domain.ErrInProgress
		}
		return e.value, nil
	}
	s.entries[k] = memoryEntry{value: pendingValue, expiresAt: s.now().Add(s.ttl)}
	return "", nil
}

// Bind implementa documents.IdempotencyStore.
func (s *MemoryIdempotencyStore) Bind(_ context.Context, scope, key, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[scope+":"+key] = memoryEntry{value: id, expiresAt: s.now().Add(s.ttl)}
	return nil
}

// Release implementa documents.IdempotencyStore.
func (s *MemoryIdempotencyStore) Release(_ context.Context, scope, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, scope+":"+key)
	return nil
}
