package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Ken19931113/debook/internal/domain"
	"github.com/Ken19931113/debook/internal/storage"
)

// UserStore implements storage.UserStore using SQLite.
type UserStore struct {
	db  *sql.DB
	now func() time.Time
}

// NewUserStore creates a new UserStore over an opened database.
func NewUserStore(db *sql.DB) *UserStore {
	return &UserStore{db: db, now: time.Now}
}

// Compile-time interface check.
var _ storage.UserStore = (*UserStore)(nil)

const userColumns = `id, username, email, hashed_password, wallet_address,
		is_active, is_landlord, created_at, updated_at`

// Create inserts a new user. Returns ErrDuplicateKey if username or email exists.
func (s *UserStore) Create(ctx context.Context, u *domain.User) (err error) {
	defer track("user_create")(&err)

	var wallet sql.NullString
	if u.WalletAddress != nil {
		wallet = sql.NullString{String: *u.WalletAddress, Valid: true}
	}
	var updated sql.NullTime
	if u.UpdatedAt != nil {
		updated = sql.NullTime{Time: u.UpdatedAt.UTC(), Valid: true}
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO users (`+userColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		u.ID, u.Username, u.Email, u.HashedPassword, wallet,
		u.IsActive, u.IsLandlord, u.CreatedAt.UTC(), updated,
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
	return s.getOne(ctx, "user_get_by_id", `WHERE id = ?`, id)
}

// GetByUsername retrieves a user by username. Returns ErrNotFound if not exists.
func (s *UserStore) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	return s.getOne(ctx, "user_get_by_username", `WHERE username = ?`, username)
}

// GetByEmail retrieves a user by email, case-insensitively. Returns ErrNotFound if not exists.
func (s *UserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return s.getOne(ctx, "user_get_by_email", `WHERE lower(email) = lower(?)`, email)
}

func (s *UserStore) getOne(ctx context.Context, operation, where, arg string) (u *domain.User, err error) {
	defer track(operation)(&err)

	row := s.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users `+where, arg)
	u, err = scanUser(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("%s: %w", operation, err)
	}
	return u, nil
}

// UpdateWallet overwrites the linked wallet address.
func (s *UserStore) UpdateWallet(ctx context.Context, id, wallet string) (err error) {
	defer track("user_update_wallet")(&err)

	res, err := s.db.ExecContext(ctx,
		`UPDATE users SET wallet_address = ?, updated_at = ? WHERE id = ?`,
		wallet, s.now().UTC(), id,
	)
	if err != nil {
		return fmt.Errorf("update wallet: %w", err)
	}
	return requireRow(res)
}

// SetLandlord marks the user as a landlord.
func (s *UserStore) SetLandlord(ctx context.Context, id string) (err error) {
	defer track("user_set_landlord")(&err)

	res, err := s.db.ExecContext(ctx,
		`UPDATE users SET is_landlord = 1, updated_at = ? WHERE id = ?`,
		s.now().UTC(), id,
	)
	if err != nil {
		return fmt.Errorf("set landlord: %w", err)
	}
	return requireRow(res)
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func scanUser(row *sql.Row) (*domain.User, error) {
	var u domain.User
	var wallet sql.NullString
	var updated sql.NullTime

	err := row.Scan(
		&u.ID,
		&u.Username,
		&u.Email,
		&u.HashedPassword,
		&wallet,
		&u.IsActive,
		&u.IsLandlord,
		&u.CreatedAt,
		&updated,
	)
	if err != nil {
		return nil, err
	}

	if wallet.Valid {
		u.WalletAddress = &wallet.String
	}
	u.CreatedAt = u.CreatedAt.UTC()
	if updated.Valid {
		t := updated.Time.UTC()
		u.UpdatedAt = &t
	}
	return &u, nil
}
