package users

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore persists user accounts in PostgreSQL.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}

	stmt := `CREATE TABLE IF NOT EXISTS users (
		id TEXT PRIMARY KEY,
		wallet_address TEXT NOT NULL UNIQUE,
		username TEXT NOT NULL DEFAULT '',
		avatar TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	);`
	if _, err := pool.Exec(ctx, stmt); err != nil {
		pool.Close()
		return nil, fmt.Errorf("init schema failed on %q: %w", stmt, err)
	}

	return &PostgresStore{pool: pool}, nil
}

func (s *PostgresStore) Create(ctx context.Context, u User) (User, error) {
	wallet := strings.TrimSpace(u.WalletAddress)
	if wallet == "" {
		return User{}, ErrInvalidWallet
	}
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	u.WalletAddress = wallet
	u.CreatedAt = now
	u.UpdatedAt = now

	_, err := s.pool.Exec(ctx,
		`INSERT INTO users (id, wallet_address, username, avatar, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		u.ID, u.WalletAddress, u.Username, u.Avatar, u.CreatedAt, u.UpdatedAt,
	)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return User{}, ErrWalletTaken
	}
	if err != nil {
		return User{}, fmt.Errorf("save user: %w", err)
	}
	return u, nil
}

func (s *PostgresStore) GetByID(ctx context.Context, id string) (User, error) {
	return s.scanOne(s.pool.QueryRow(ctx,
		`SELECT id, wallet_address, username, avatar, created_at, updated_at FROM users WHERE id=$1`, id))
}

func (s *PostgresStore) GetByWallet(ctx context.Context, walletAddress string) (User, error) {
	return s.scanOne(s.pool.QueryRow(ctx,
		`SELECT id, wallet_address, username, avatar, created_at, updated_at FROM users WHERE wallet_address=$1`,
		strings.TrimSpace(walletAddress)))
}

func (s *PostgresStore) Update(ctx context.Context, u User) (User, error) {
	row := s.pool.QueryRow(ctx,
		`UPDATE users
		 SET username = CASE WHEN $2 <> '' THEN $2 ELSE username END,
		     avatar   = CASE WHEN $3 <> '' THEN $3 ELSE avatar END,
		     updated_at = now()
		 WHERE id=$1
		 RETURNING id, wallet_address, username, avatar, created_at, updated_at`,
		u.ID, u.Username, u.Avatar,
	)
	return s.scanOne(row)
}

func (s *PostgresStore) scanOne(row pgx.Row) (User, error) {
	var u User
	err := row.Scan(&u.ID, &u.WalletAddress, &u.Username, &u.Avatar, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return User{}, ErrNotFound
	}
	if err != nil {
		return User{}, fmt.Errorf("scan user: %w", err)
	}
	return u, nil
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}
