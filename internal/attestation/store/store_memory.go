package store

import (
	"context"
	"sync"
	"time"

	"teranga/internal/attestation"
	"teranga/pkg/platform/sentinel"
)

// InMemoryStore keeps attestations in process memory.
type InMemoryStore struct {
	mu           sync.RWMutex
	attestations map[string]attestation.Attestation
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{attestations: make(map[string]attestation.Attestation)}
}

func (s *InMemoryStore) Save(_ context.Context, att attestation.Attestation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.attestations[att.ID]; exists {
		return sentinel.ErrConflict
	}
	s.attestations[att.ID] = att
	return nil
}

func (s *InMemoryStore) FindByID(_ context.Context, id string) (*attestation.Attestation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	att, ok := s.attestations[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return &att, nil
}

func (s *InMemoryStore) Revoke(_ context.Context, id string, revokedAt time.Time, reason string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	att, ok := s.attestations[id]
	if !ok {
		return sentinel.ErrNotFound
	}
	if att.RevokedAt != nil {
		return sentinel.ErrInvalidState
	}
	att.RevokedAt = &revokedAt
	att.RevocationReason = reason
	s.attestations[id] = att
	return nil
}
