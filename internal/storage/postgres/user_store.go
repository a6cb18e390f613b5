package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/Ken19931113/debook/internal/domain"
	"github.com/Ken19931113/debook/internal/storage"
)

// UserStore implements storage.UserStore using PostgreSQL.
type UserStore struct {
	pool *Pool
}

// NewUserStore creates a new UserStore.
func NewUserStore(pool *Pool) *UserStore {
	return &UserStore{pool: pool}
}

// Compile-time interface check.
var _ storage.UserStore = (*UserStore)(nil)

const userColumns = `id, username, email, hashed_password, wallet_address,
		is_active, is_landlord, created_at, updated_at`

// Create inserts a new user. Returns ErrDuplicateKey if username or email exists.
func (s *UserStore) Create(ctx context.Context, u *domain.User) (err error) {
	defer track("user_create")(&err)

	query := `
		INSERT INTO users (` + userColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err = s.pool.Exec(ctx, query,
		u.ID,
		u.Username,
		u.Email,
		u.HashedPassword,
		u.WalletAddress,
		u.IsActive,
		u.IsLandlord,
		u.CreatedAt,
		u.UpdatedAt,
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

// GetByID retrieves a user by id. Returns ErrNotFound if not exists.
func (s *UserStore) GetByID(ctx context.Context, id string) (*domain.User, error) {
	return s.getOne(ctx, "user_get_by_id", `WHERE id = $1`, id)
}

// GetByUsername retrieves a user by username. Returns ErrNotFound if not exists.
func (s *UserStore) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	return s.getOne(ctx, "user_get_by_username", `WHERE username = $1`, username)
}

// GetByEmail retrieves a user by email, case-insensitively. Returns ErrNotFound if not exists.
func (s *UserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return s.getOne(ctx, "user_get_by_email", `WHERE lower(email) = lower($1)`, email)
}

func (s *UserStore) getOne(ctx context.Context, operation, where string, arg string) (u *domain.User, err error) {
	defer track(operation)(&err)

	query := `SELECT ` + userColumns + ` FROM users ` + where

	u, err = scanUser(s.pool.QueryRow(ctx, query, arg))
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("%s: %w", operation, err)
	}
	return u, nil
}

// UpdateWallet overwrites the linked wallet address.
func (s *UserStore) UpdateWallet(ctx context.Context, id, wallet string) (err error) {
	defer track("user_update_wallet")(&err)

	tag, err := s.pool.Exec(ctx,
		`UPDATE users SET wallet_address = $2, updated_at = now() WHERE id = $1`,
		id, wallet,
	)
	if err != nil {
		return fmt.Errorf("update wallet: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// SetLandlord marks the user as a landlord.
func (s *UserStore) SetLandlord(ctx context.Context, id string) (err error) {
	defer track("user_set_landlord")(&err)

	tag, err := s.pool.Exec(ctx,
		`UPDATE users SET is_landlord = TRUE, updated_at = now() WHERE id = $1`,
		id,
	)
	if err != nil {
		return fmt.Errorf("set landlord: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// scanUser scans a single row into a User.
func scanUser(row pgx.Row) (*domain.User, error) {
	var u domain.User

	err := row.Scan(
		&u.ID,
		&u.Username,
		&u.Email,
		&u.HashedPassword,
		&u.WalletAddress,
		&u.IsActive,
		&u.IsLandlord,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	u.CreatedAt = u.CreatedAt.UTC()
	if u.UpdatedAt != nil {
		t := u.UpdatedAt.UTC()
		u.UpdatedAt = &t
	}
	return &u, nil
}
