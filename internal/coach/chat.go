package coach

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/somnuslabs/somnus/internal/ai"
	"github.com/somnuslabs/somnus/internal/conversation"
	"github.com/somnuslabs/somnus/internal/genai"
	"github.com/somnuslabs/somnus/internal/observability"
)

// ChatService drives the multi-turn sleep-assistant conversation.
type ChatService struct {
	store     *conversation.Store
	generator Generator
	metrics   *observability.Metrics
}

func NewChatService(store *conversation.Store, generator Generator, metrics *observability.Metrics) *ChatService {
	return &ChatService{store: store, generator: generator, metrics: metrics}
}

// Chat answers one user message, reading history before the upstream call
// and appending the exchange only after it succeeds. A failed exchange
// never occupies history capacity. The reply is always usable text.
func (s *ChatService) Chat(ctx context.Context, userID, message string) string {
	userID = strings.TrimSpace(userID)
	message = strings.TrimSpace(message)
	if userID == "" {
		s.metrics.ChatEvents.WithLabelValues("rejected").Inc()
		return replyUnknownUser
	}
	if message == "" {
		s.metrics.ChatEvents.WithLabelValues("rejected").Inc()
		return replyEmptyMessage
	}

	history := ai.FormatHistory(s.store.History(userID))
	prompt := ai.ChatPrompt(message, history)

	start := time.Now()
	reply, err := s.generator.Generate(ctx, prompt)
	if err != nil {
		kind, _ := genai.KindOf(err)
		s.metrics.ObserveGeneration(string(kind), time.Since(start))
		s.metrics.ChatEvents.WithLabelValues("fallback").Inc()
		log.Printf("chat generation failed user=%s kind=%s: %v", userID, kind, err)
		return errorChatReply
	}
	s.metrics.ObserveGeneration("success", time.Since(start))

	s.store.Append(userID, message, reply)
	s.metrics.ChatEvents.WithLabelValues("exchange").Inc()
	s.metrics.ActiveConversations.Set(float64(s.store.ActiveUserCount()))
	return reply
}

// ClearHistory wipes the user's conversation and confirms in plain text.
func (s *ChatService) ClearHistory(userID string) string {
	s.store.Clear(strings.TrimSpace(userID))
	s.metrics.ChatEvents.WithLabelValues("cleared").Inc()
	s.metrics.ActiveConversations.Set(float64(s.store.ActiveUserCount()))
	return replyHistoryCleared
}

// Statistics reports the user's exchange count and overall activity as a
// human sentence.
func (s *ChatService) Statistics(userID string) string {
	exchanges := s.store.TurnCount(strings.TrimSpace(userID)) / 2
	active := s.store.ActiveUserCount()
	return fmt.Sprintf("You have had %d exchanges so far; %d users are chatting right now.", exchanges, active)
}

// HelpMessage returns the fixed assistant help text.
func (s *ChatService) HelpMessage() string {
	return helpMessage
}
