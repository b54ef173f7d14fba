package users

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// InMemoryStore is a simple in-process user store for local/dev use.
type InMemoryStore struct {
	mu       sync.RWMutex
	byID     map[string]User
	byWallet map[string]string
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		byID:     make(map[string]User),
		byWallet: make(map[string]string),
	}
}

func (s *InMemoryStore) Create(_ context.Context, u User) (User, error) {
	wallet := strings.TrimSpace(u.WalletAddress)
	if wallet == "" {
		return User{}, ErrInvalidWallet
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, taken := s.byWallet[wallet]; taken {
		return User{}, ErrWalletTaken
	}

	now := time.Now().UTC()
	u.WalletAddress = wallet
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	u.CreatedAt = now
	u.UpdatedAt = now

	s.byID[u.ID] = u
	s.byWallet[wallet] = u.ID
	return u, nil
}

func (s *InMemoryStore) GetByID(_ context.Context, id string) (User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.byID[id]
	if !ok {
		return User{}, ErrNotFound
	}
	return u, nil
}

func (s *InMemoryStore) GetByWallet(_ context.Context, walletAddress string) (User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.byWallet[strings.TrimSpace(walletAddress)]
	if !ok {
		return User{}, ErrNotFound
	}
	return s.byID[id], nil
}

func (s *InMemoryStore) Update(_ context.Context, u User) (User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	current, ok := s.byID[u.ID]
	if !ok {
		return User{}, ErrNotFound
	}
	if u.Username != "" {
		current.Username = u.Username
	}
	if u.Avatar != "" {
		current.Avatar = u.Avatar
	}
	current.UpdatedAt = time.Now().UTC()
	s.byID[current.ID] = current
	return current, nil
}

func (s *InMemoryStore) Close() error { return nil }
