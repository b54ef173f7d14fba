package points

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore persists points records in PostgreSQL.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}

	stmts := []string{
		`CREATE TABLE IF NOT EXISTS sleep_points (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			date_of_sleep TEXT NOT NULL,
			points INTEGER NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			UNIQUE (user_id, date_of_sleep)
		);`,
	}
	for _, stmt := range stmts {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			pool.Close()
			return nil, fmt.Errorf("init schema failed on %q: %w", stmt, err)
		}
	}

	return &PostgresStore{pool: pool}, nil
}

func (s *PostgresStore) Insert(ctx context.Context, r Record) (Record, error) {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now().UTC()
	}

	_, err := s.pool.Exec(ctx,
		`INSERT INTO sleep_points (id, user_id, date_of_sleep, points, created_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		r.ID, r.UserID, r.Date, r.Points, r.CreatedAt,
	)
	if err != nil {
		return Record{}, fmt.Errorf("save points: %w", err)
	}
	return r, nil
}

func (s *PostgresStore) GetByUserAndDate(ctx context.Context, userID, date string) (Record, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT id, user_id, date_of_sleep, points, created_at
		 FROM sleep_points WHERE user_id=$1 AND date_of_sleep=$2`,
		userID, date,
	)

	var out Record
	err := row.Scan(&out.ID, &out.UserID, &out.Date, &out.Points, &out.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Record{}, ErrNoRecord
	}
	if err != nil {
		return Record{}, fmt.Errorf("query points: %w", err)
	}
	return out, nil
}

func (s *PostgresStore) ListByUser(ctx context.Context, userID string) ([]Record, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, user_id, date_of_sleep, points, created_at
		 FROM sleep_points WHERE user_id=$1 ORDER BY date_of_sleep DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("query points history: %w", err)
	}
	defer rows.Close()

	var items []Record
	for rows.Next() {
		var r Record
		if err := rows.Scan(&r.ID, &r.UserID, &r.Date, &r.Points, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan points row: %w", err)
		}
		items = append(items, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate points rows: %w", err)
	}
	return items, nil
}

func (s *PostgresStore) TotalForUser(ctx context.Context, userID string) (int, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT COALESCE(SUM(points), 0) FROM sleep_points WHERE user_id=$1`,
		userID,
	)
	var total int
	if err := row.Scan(&total); err != nil {
		return 0, fmt.Errorf("sum points: %w", err)
	}
	return total, nil
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}
