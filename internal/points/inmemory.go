package points

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// InMemoryStore is a simple in-process points store for local/dev use.
type InMemoryStore struct {
	mu     sync.RWMutex
	byUser map[string][]Record
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{byUser: make(map[string][]Record)}
}

func (s *InMemoryStore) Insert(_ context.Context, r Record) (Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now().UTC()
	}
	s.byUser[r.UserID] = append(s.byUser[r.UserID], r)
	return r, nil
}

func (s *InMemoryStore) GetByUserAndDate(_ context.Context, userID, date string) (Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, r := range s.byUser[userID] {
		if r.Date == date {
			return r, nil
		}
	}
	return Record{}, ErrNoRecord
}

func (s *InMemoryStore) ListByUser(_ context.Context, userID string) ([]Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	arr := s.byUser[userID]
	if len(arr) == 0 {
		return nil, nil
	}
	out := make([]Record, len(arr))
	copy(out, arr)
	sort.Slice(out, func(i, j int) bool { return out[i].Date > out[j].Date })
	return out, nil
}

func (s *InMemoryStore) TotalForUser(_ context.Context, userID string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	total := 0
	for _, r := range s.byUser[userID] {
		total += r.Points
	}
	return total, nil
}

func (s *InMemoryStore) Close() error { return nil }
