package store

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrNotFound indicates no session is stored under the given key.
var ErrNotFound = errors.New("session not found")

// SessionState is the lightweight per-client session persisted between
// requests: the platform credentials and the backend domain in use.
type SessionState struct {
	PlatformID int64  `json:"plataformId"`
	Token      string `json:"token"`
	Domain     string `json:"domain"`
}

// SessionStore persists session state keyed by client id.
type SessionStore interface {
	Save(ctx context.Context, clientID string, state SessionState) error
	Load(ctx context.Context, clientID string) (SessionState, error)
	Delete(ctx context.Context, clientID string) error
}

// MemoryStore is the in-process fallback used when redis is unreachable and
// in tests. Entries expire lazily on read.
type MemoryStore struct {
	ttl time.Duration

	mu      sync.RWMutex
	entries map[string]memoryEntry
}

type memoryEntry struct {
	state     SessionState
	expiresAt time.Time
}

// NewMemoryStore creates an in-memory store with the given TTL. A zero TTL
// means entries never expire.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{ttl: ttl, entries: make(map[string]memoryEntry)}
}

func (s *MemoryStore) Save(ctx context.Context, clientID string, state SessionState) error {
	var expiresAt time.Time
	if s.ttl > 0 {
		expiresAt = time.Now().Add(s.ttl)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[clientID] = memoryEntry{state: state, expiresAt: expiresAt}
	return nil
}

func (s *MemoryStore) Load(ctx context.Context, clientID string) (SessionState, error) {
	s.mu.RLock()
	entry, ok := s.entries[clientID]
	s.mu.RUnlock()

	if !ok {
		return SessionState{}, ErrNotFound
	}
	if !entry.expiresAt.IsZero() && time.Now().After(entry.expiresAt) {
		s.mu.Lock()
		delete(s.entries, clientID)
		s.mu.Unlock()
		return SessionState{}, ErrNotFound
	}
	return entry.state, nil
}

func (s *MemoryStore) Delete(ctx context.Context, clientID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, clientID)
	return nil
}
