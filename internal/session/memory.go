package session

import (
	"context"
	"sync"
	"time"

	"github.com/polkiloo/secondfamilies/internal/domain/model"
)

type entry struct {
	handoff   *model.Handoff
	expiresAt time.Time
}

// MemoryStore is a process-local Store with TTL expiry.
type MemoryStore struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	entries map[string]entry
}

// NewMemoryStore constructs an empty store whose values live for ttl.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{ttl: ttl, now: time.Now, entries: make(map[string]entry)}
}

func (s *MemoryStore) SaveHandoff(_ context.Context, sessionID string, h model.Handoff) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := h
	s.entries[handoffKey(sessionID)] = entry{handoff: &copied, expiresAt: s.now().Add(s.ttl)}
	return nil
}

func (s *MemoryStore) TakeHandoff(_ context.Context, sessionID string) (*model.Handoff, error) {
	e, ok := s.take(handoffKey(sessionID))
	if !ok {
		return nil, nil
	}
	return e.handoff, nil
}

func (s *MemoryStore) take(key string) (entry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[key]
	if !ok {
		return entry{}, false
	}
	delete(s.entries, key)
	if !s.now().Before(e.expiresAt) {
		return entry{}, false
	}
	return e, true
}

// Purge drops expired entries and reports how many were removed.
func (s *MemoryStore) Purge() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	removed := 0
	for key, e := range s.entries {
		if !now.Before(e.expiresAt) {
			delete(s.entries, key)
			removed++
		}
	}
	return removed
}
