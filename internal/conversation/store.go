package conversation

import (
	"context"
	"hash/fnv"
	"sync"
	"time"
)

// MaxHistoryTurns bounds each user's history to five exchanges
// (a user message and its assistant reply count as two turns).
const MaxHistoryTurns = 10

const shardCount = 16

type userHistory struct {
	turns        []string
	lastActivity time.Time
}

type shard struct {
	mu        sync.RWMutex
	histories map[string]*userHistory
}

// Store keeps bounded per-user conversation history in memory. Shards are
// striped by user ID so traffic for different users does not contend on a
// single lock; operations on one user are serialized by its shard lock.
type Store struct {
	shards  [shardCount]*shard
	idleTTL time.Duration
	now     func() time.Time
}

// NewStore creates a conversation store. idleTTL > 0 enables janitor-based
// eviction of histories untouched for that long; zero keeps histories for
// the process lifetime.
func NewStore(idleTTL time.Duration) *Store {
	s := &Store{idleTTL: idleTTL, now: time.Now}
	for i := range s.shards {
		s.shards[i] = &shard{histories: make(map[string]*userHistory)}
	}
	return s
}

func (s *Store) shardFor(userID string) *shard {
	h := fnv.New32a()
	_, _ = h.Write([]byte(userID))
	return s.shards[h.Sum32()%shardCount]
}

// Append records one full exchange for userID: the user turn followed by
// the assistant turn, then evicts from the front down to MaxHistoryTurns.
// The pair is inserted atomically; readers never observe only one half.
func (s *Store) Append(userID, userMessage, assistantReply string) {
	sh := s.shardFor(userID)
	sh.mu.Lock()
	defer sh.mu.Unlock()

	h, ok := sh.histories[userID]
	if !ok {
		h = &userHistory{}
		sh.histories[userID] = h
	}
	h.turns = append(h.turns, "user: "+userMessage, "assistant: "+assistantReply)
	if overflow := len(h.turns) - MaxHistoryTurns; overflow > 0 {
		h.turns = append(h.turns[:0:0], h.turns[overflow:]...)
	}
	h.lastActivity = s.now()
}

// History returns a snapshot of the user's turns, oldest first. The
// returned slice is a copy; later store mutations do not alter it.
func (s *Store) History(userID string) []string {
	sh := s.shardFor(userID)
	sh.mu.RLock()
	defer sh.mu.RUnlock()

	h, ok := sh.histories[userID]
	if !ok || len(h.turns) == 0 {
		return nil
	}
	out := make([]string, len(h.turns))
	copy(out, h.turns)
	return out
}

// Clear removes the user's history entirely. Clearing an unknown user is
// a no-op.
func (s *Store) Clear(userID string) {
	sh := s.shardFor(userID)
	sh.mu.Lock()
	defer sh.mu.Unlock()
	delete(sh.histories, userID)
}

// TurnCount reports the number of stored turns for the user.
func (s *Store) TurnCount(userID string) int {
	sh := s.shardFor(userID)
	sh.mu.RLock()
	defer sh.mu.RUnlock()
	if h, ok := sh.histories[userID]; ok {
		return len(h.turns)
	}
	return 0
}

// ActiveUserCount reports how many distinct users currently hold history.
func (s *Store) ActiveUserCount() int {
	count := 0
	for _, sh := range s.shards {
		sh.mu.RLock()
		for _, h := range sh.histories {
			if len(h.turns) > 0 {
				count++
			}
		}
		sh.mu.RUnlock()
	}
	return count
}

// StartJanitor evicts idle histories on a fixed interval until ctx is
// cancelled. It is a no-op when the store was built without an idle TTL.
func (s *Store) StartJanitor(ctx context.Context, interval time.Duration) {
	if s.idleTTL <= 0 {
		return
	}
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.evictIdle()
			}
		}
	}()
}

func (s *Store) evictIdle() {
	cutoff := s.now().Add(-s.idleTTL)
	for _, sh := range s.shards {
		sh.mu.Lock()
		for userID, h := range sh.histories {
			if h.lastActivity.Before(cutoff) {
				delete(sh.histories, userID)
			}
		}
		sh.mu.Unlock()
	}
}
