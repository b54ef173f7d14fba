package sleep

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound reports that no summary exists for the requested user and date.
var ErrNotFound = errors.New("sleep summary not found")

// Summary is one night's processed sleep record. Dates use YYYY-MM-DD.
type Summary struct {
	ID             string    `json:"id"`
	UserID         string    `json:"user_id"`
	Date           string    `json:"date"`
	TotalSleepMins int       `json:"total_sleep_minutes"`
	DeepSleepMins  int       `json:"deep_sleep_minutes"`
	RemSleepMins   int       `json:"rem_sleep_minutes"`
	Score          int       `json:"sleep_score"`
	ProcessedAt    time.Time `json:"processed_at"`
}

// SummaryReader is the narrow read view consumed by the report path.
type SummaryReader interface {
	GetByUserAndDate(ctx context.Context, userID, date string) (Summary, error)
}

// Store persists and retrieves sleep summaries.
type Store interface {
	SummaryReader
	Add(ctx context.Context, s Summary) (Summary, error)
	ListByUser(ctx context.Context, userID string) ([]Summary, error)
	Close() error
}
