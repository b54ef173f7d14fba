package sleep

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// InMemoryStore is a simple in-process summary store for local/dev use.
type InMemoryStore struct {
	mu     sync.RWMutex
	byUser map[string][]Summary
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{byUser: make(map[string][]Summary)}
}

func (s *InMemoryStore) Add(_ context.Context, summary Summary) (Summary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if summary.ID == "" {
		summary.ID = uuid.NewString()
	}
	if summary.ProcessedAt.IsZero() {
		summary.ProcessedAt = time.Now().UTC()
	}
	s.byUser[summary.UserID] = append(s.byUser[summary.UserID], summary)
	return summary, nil
}

func (s *InMemoryStore) GetByUserAndDate(_ context.Context, userID, date string) (Summary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, summary := range s.byUser[userID] {
		if summary.Date == date {
			return summary, nil
		}
	}
	return Summary{}, ErrNotFound
}

func (s *InMemoryStore) ListByUser(_ context.Context, userID string) ([]Summary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	arr := s.byUser[userID]
	if len(arr) == 0 {
		return nil, nil
	}
	out := make([]Summary, len(arr))
	copy(out, arr)
	sort.Slice(out, func(i, j int) bool { return out[i].Date > out[j].Date })
	return out, nil
}

func (s *InMemoryStore) Close() error { return nil }
