package store

import (
	"context"
	"sync"
	"time"

	dErrors "permit-gateway/pkg/domain-errors"
)

// nowFunc is swapped in tests to pin the expiry boundary.
var nowFunc = time.Now

type entry struct {
	value     string
	expiresAt time.Time
}

// MemoryStore is a process-local fallback used when no cache is configured,
// and the fixture for unit tests. Semantics mirror RedisStore: a value is
// readable strictly before its expiry and gone at exactly T+TTL.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]entry
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]entry)}
}

func (s *MemoryStore) SaveCode(ctx context.Context, subject, code string, ttl time.Duration) error {
	s.set(codeKeyPrefix+subject, code, ttl)
	return nil
}

func (s *MemoryStore) Code(ctx context.Context, subject string) (string, error) {
	value, ok := s.get(codeKeyPrefix + subject)
	if !ok {
		return "", dErrors.New(dErrors.CodeNotFound, "code expired or not found")
	}
	return value, nil
}

func (s *MemoryStore) ConsumeCode(ctx context.Context, subject string) (string, error) {
	value, ok := s.consume(codeKeyPrefix + subject)
	if !ok {
		return "", dErrors.New(dErrors.CodeNotFound, "code expired or not found")
	}
	return value, nil
}

func (s *MemoryStore) SaveGrant(ctx context.Context, grant, subject string, ttl time.Duration) error {
	s.set(grantKeyPrefix+grant, subject, ttl)
	return nil
}

func (s *MemoryStore) ConsumeGrant(ctx context.Context, grant string) (string, error) {
	value, ok := s.consume(grantKeyPrefix + grant)
	if !ok {
		return "", dErrors.New(dErrors.CodeNotFound, "reset token expired or not found")
	}
	return value, nil
}

func (s *MemoryStore) set(key, value string, ttl time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = entry{value: value, expiresAt: nowFunc().Add(ttl)}
}

func (s *MemoryStore) get(key string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[key]
	if !ok || !nowFunc().Before(e.expiresAt) {
		delete(s.entries, key)
		return "", false
	}
	return e.value, true
}

func (s *MemoryStore) consume(key string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[key]
	if !ok || !nowFunc().Before(e.expiresAt) {
		delete(s.entries, key)
		return "", false
	}
	delete(s.entries, key)
	return e.value, true
}
