package users

import (
	"context"
	"errors"
	"time"
)

var (
	ErrNotFound      = errors.New("user not found")
	ErrWalletTaken   = errors.New("wallet address already registered")
	ErrInvalidWallet = errors.New("wallet address must not be empty")
)

// User is an account tracked by the service, keyed by a wallet address.
type User struct {
	ID            string    `json:"id"`
	WalletAddress string    `json:"wallet_address"`
	Username      string    `json:"username"`
	Avatar        string    `json:"avatar"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Store persists user accounts.
type Store interface {
	Create(ctx context.Context, u User) (User, error)
	GetByID(ctx context.Context, id string) (User, error)
	GetByWallet(ctx context.Context, walletAddress string) (User, error)
	Update(ctx context.Context, u User) (User, error)
	Close() error
}
