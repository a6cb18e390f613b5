package storage

import (
	"context"

	"github.com/Ken19931113/debook/internal/domain"
)

// UserStore provides access to the users table. Every method is a single
// atomic row operation.
type UserStore interface {
	// Create inserts a new user. Returns ErrDuplicateKey if username or email exists.
	Create(ctx context.Context, u *domain.User) error

	// GetByID retrieves a user by id. Returns ErrNotFound if not exists.
	GetByID(ctx context.Context, id string) (*domain.User, error)

	// GetByUsername retrieves a user by username. Returns ErrNotFound if not exists.
	GetByUsername(ctx context.Context, username string) (*domain.User, error)

	// GetByEmail retrieves a user by email. Returns ErrNotFound if not exists.
	GetByEmail(ctx context.Context, email string) (*domain.User, error)

	// UpdateWallet overwrites the linked wallet address. Returns ErrNotFound if not exists.
	UpdateWallet(ctx context.Context, id, wallet string) error

	// SetLandlord marks the user as a landlord. Returns ErrNotFound if not exists.
	SetLandlord(ctx context.Context, id string) error
}

// ActivityFilter selects journal entries. Zero fields match everything.
type ActivityFilter struct {
	Kind    domain.ActivityKind
	Subject string
	Limit   int
}

// ActivityStore provides access to the append-only activity journal.
type ActivityStore interface {
	// Append adds an event.
	Append(ctx context.Context, ev *domain.ActivityEvent) error

	// Recent returns matching events, newest first, at most filter.Limit.
	Recent(ctx context.Context, filter ActivityFilter) ([]*domain.ActivityEvent, error)
}
