package store

import (
	"context"
	"sync"

	"teranga/internal/fusion"
	"teranga/pkg/domain"
)

// InMemoryStore keeps per-subject evidence history in process memory.
// Append-only, like its postgres counterpart.
type InMemoryStore struct {
	mu      sync.RWMutex
	history map[string][]fusion.DataSourceInfo
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{history: make(map[string][]fusion.DataSourceInfo)}
}

func (s *InMemoryStore) Append(_ context.Context, subjectID domain.SubjectID, entries []fusion.DataSourceInfo) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range entries {
		// Copy slice fields so callers cannot mutate stored notes.
		e.DiscrepancyNotes = append([]string(nil), e.DiscrepancyNotes...)
		s.history[subjectID.String()] = append(s.history[subjectID.String()], e)
	}
	return nil
}

func (s *InMemoryStore) History(_ context.Context, subjectID domain.SubjectID) ([]fusion.DataSourceInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]fusion.DataSourceInfo{}, s.history[subjectID.String()]...), nil
}
