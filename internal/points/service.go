package points

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/somnuslabs/somnus/internal/sleep"
)

// ErrNoSleepData reports that points cannot be generated because the user
// has no summary for the requested date.
var ErrNoSleepData = errors.New("no sleep data for date")

// Service awards and reads sleep points. Generation is idempotent per
// (user, date): repeated requests return the existing record.
type Service struct {
	store     Store
	summaries sleep.SummaryReader
}

func NewService(store Store, summaries sleep.SummaryReader) *Service {
	return &Service{store: store, summaries: summaries}
}

func (s *Service) Generate(ctx context.Context, userID, date string) (Record, error) {
	summary, err := s.summaries.GetByUserAndDate(ctx, userID, date)
	if errors.Is(err, sleep.ErrNotFound) {
		return Record{}, ErrNoSleepData
	}
	if err != nil {
		return Record{}, fmt.Errorf("load summary: %w", err)
	}

	existing, err := s.store.GetByUserAndDate(ctx, userID, date)
	if err == nil {
		log.Printf("points already generated for user=%s date=%s, returning existing record", userID, date)
		return existing, nil
	}
	if !errors.Is(err, ErrNoRecord) {
		return Record{}, fmt.Errorf("check existing points: %w", err)
	}

	record, err := s.store.Insert(ctx, Record{
		UserID: userID,
		Date:   date,
		Points: Calculate(summary.Score, summary.DeepSleepMins),
	})
	if err != nil {
		return Record{}, fmt.Errorf("save points: %w", err)
	}
	return record, nil
}

func (s *Service) History(ctx context.Context, userID string) ([]Record, error) {
	return s.store.ListByUser(ctx, userID)
}

func (s *Service) Total(ctx context.Context, userID string) (int, error) {
	return s.store.TotalForUser(ctx, userID)
}
