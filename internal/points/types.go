package points

import (
	"context"
	"errors"
	"time"
)

// ErrNoRecord reports that no points record exists for the user and date.
var ErrNoRecord = errors.New("points record not found")

// Record is the points awarded to a user for one night of sleep.
type Record struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Date      string    `json:"date"`
	Points    int       `json:"points"`
	CreatedAt time.Time `json:"created_at"`
}

// Store persists points records.
type Store interface {
	Insert(ctx context.Context, r Record) (Record, error)
	GetByUserAndDate(ctx context.Context, userID, date string) (Record, error)
	ListByUser(ctx context.Context, userID string) ([]Record, error)
	TotalForUser(ctx context.Context, userID string) (int, error)
	Close() error
}
