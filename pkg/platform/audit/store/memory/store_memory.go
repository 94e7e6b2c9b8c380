package memory

import (
	"context"
	"sync"

	audit "teranga/pkg/platform/audit"
)

// InMemoryStore keeps audit events in process memory, keyed by audit ref.
// Used in tests and single-node development.
type InMemoryStore struct {
	mu     sync.RWMutex
	events map[string][]audit.Event
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{events: make(map[string][]audit.Event)}
}

func (s *InMemoryStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = make(map[string][]audit.Event)
}

func (s *InMemoryStore) Append(_ context.Context, event audit.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events[event.AuditRef] = append(s.events[event.AuditRef], event)
	return nil
}

func (s *InMemoryStore) FindByRef(_ context.Context, auditRef string) ([]audit.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]audit.Event{}, s.events[auditRef]...), nil
}
