package sleep

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore persists sleep summaries in PostgreSQL.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}

	if err := initSchema(ctx, pool); err != nil {
		pool.Close()
		return nil, err
	}

	return &PostgresStore{pool: pool}, nil
}

func initSchema(ctx context.Context, pool *pgxpool.Pool) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS sleep_summaries (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			date_of_sleep TEXT NOT NULL,
			total_sleep_minutes INTEGER NOT NULL,
			deep_sleep_minutes INTEGER NOT NULL,
			rem_sleep_minutes INTEGER NOT NULL,
			sleep_score INTEGER NOT NULL,
			processed_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);`,
		`CREATE INDEX IF NOT EXISTS idx_sleep_summaries_user_date ON sleep_summaries (user_id, date_of_sleep);`,
	}

	for _, stmt := range stmts {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("init schema failed on %q: %w", stmt, err)
		}
	}
	return nil
}

func (s *PostgresStore) Add(ctx context.Context, summary Summary) (Summary, error) {
	if summary.ID == "" {
		summary.ID = uuid.NewString()
	}
	if summary.ProcessedAt.IsZero() {
		summary.ProcessedAt = time.Now().UTC()
	}

	_, err := s.pool.Exec(ctx,
		`INSERT INTO sleep_summaries (id, user_id, date_of_sleep, total_sleep_minutes, deep_sleep_minutes, rem_sleep_minutes, sleep_score, processed_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		summary.ID,
		summary.UserID,
		summary.Date,
		summary.TotalSleepMins,
		summary.DeepSleepMins,
		summary.RemSleepMins,
		summary.Score,
		summary.ProcessedAt,
	)
	if err != nil {
		return Summary{}, fmt.Errorf("save summary: %w", err)
	}
	return summary, nil
}

func (s *PostgresStore) GetByUserAndDate(ctx context.Context, userID, date string) (Summary, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT id, user_id, date_of_sleep, total_sleep_minutes, deep_sleep_minutes, rem_sleep_minutes, sleep_score, processed_at
		 FROM sleep_summaries WHERE user_id=$1 AND date_of_sleep=$2
		 ORDER BY processed_at DESC LIMIT 1`,
		userID,
		date,
	)

	var out Summary
	err := row.Scan(&out.ID, &out.UserID, &out.Date, &out.TotalSleepMins, &out.DeepSleepMins, &out.RemSleepMins, &out.Score, &out.ProcessedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Summary{}, ErrNotFound
	}
	if err != nil {
		return Summary{}, fmt.Errorf("query summary: %w", err)
	}
	return out, nil
}

func (s *PostgresStore) ListByUser(ctx context.Context, userID string) ([]Summary, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, user_id, date_of_sleep, total_sleep_minutes, deep_sleep_minutes, rem_sleep_minutes, sleep_score, processed_at
		 FROM sleep_summaries WHERE user_id=$1 ORDER BY date_of_sleep DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("query summaries: %w", err)
	}
	defer rows.Close()

	var items []Summary
	for rows.Next() {
		var s Summary
		if err := rows.Scan(&s.ID, &s.UserID, &s.Date, &s.TotalSleepMins, &s.DeepSleepMins, &s.RemSleepMins, &s.Score, &s.ProcessedAt); err != nil {
			return nil, fmt.Errorf("scan summary row: %w", err)
		}
		items = append(items, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate summary rows: %w", err)
	}
	return items, nil
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}
