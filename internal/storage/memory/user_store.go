package memory

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/Ken19931113/debook/internal/domain"
	"github.com/Ken19931113/debook/internal/storage"
)

// UserStore is an in-memory implementation of storage.UserStore.
type UserStore struct {
	mu         sync.RWMutex
	byID       map[string]*domain.User
	byUsername map[string]string // username -> id
	byEmail    map[string]string // lower-cased email -> id
	now        func() time.Time
}

// NewUserStore creates a new in-memory user store.
func NewUserStore() *UserStore {
	return &UserStore{
		byID:       make(map[string]*domain.User),
		byUsername: make(map[string]string),
		byEmail:    make(map[string]string),
		now:        time.Now,
	}
}

var _ storage.UserStore = (*UserStore)(nil)

// Create inserts a new user. Returns ErrDuplicateKey if username or email exists.
func (s *UserStore) Create(_ context.Context, u *domain.User) error {
	if u == nil || u.ID == "" || u.Username == "" || u.Email == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byID[u.ID]; exists {
		return storage.ErrDuplicateKey
	}
	if _, exists := s.byUsername[u.Username]; exists {
		return storage.ErrDuplicateKey
	}
	email := strings.ToLower(u.Email)
	if _, exists := s.byEmail[email]; exists {
		return storage.ErrDuplicateKey
	}

	s.byID[u.ID] = copyUser(u)
	s.byUsername[u.Username] = u.ID
	s.byEmail[email] = u.ID
	return nil
}

// GetByID retrieves a user by id. Returns ErrNotFound if not exists.
func (s *UserStore) GetByID(_ context.Context, id string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, exists := s.byID[id]
	if !exists {
		return nil, storage.ErrNotFound
	}
	return copyUser(u), nil
}

// GetByUsername retrieves a user by username. Returns ErrNotFound if not exists.
func (s *UserStore) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	s.mu.RLock()
	id, exists := s.byUsername[username]
	s.mu.RUnlock()

	if !exists {
		return nil, storage.ErrNotFound
	}
	return s.GetByID(ctx, id)
}

// GetByEmail retrieves a user by email. Returns ErrNotFound if not exists.
func (s *UserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	s.mu.RLock()
	id, exists := s.byEmail[strings.ToLower(email)]
	s.mu.RUnlock()

	if !exists {
		return nil, storage.ErrNotFound
	}
	return s.GetByID(ctx, id)
}

// UpdateWallet overwrites the linked wallet address.
func (s *UserStore) UpdateWallet(_ context.Context, id, wallet string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, exists := s.byID[id]
	if !exists {
		return storage.ErrNotFound
	}
	w := wallet
	now := s.now().UTC()
	u.WalletAddress = &w
	u.UpdatedAt = &now
	return nil
}

// SetLandlord marks the user as a landlord.
func (s *UserStore) SetLandlord(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, exists := s.byID[id]
	if !exists {
		return storage.ErrNotFound
	}
	if u.IsLandlord {
		return nil
	}
	now := s.now().UTC()
	u.IsLandlord = true
	u.UpdatedAt = &now
	return nil
}

func copyUser(u *domain.User) *domain.User {
	c := *u
	if u.WalletAddress != nil {
		w := *u.WalletAddress
		c.WalletAddress = &w
	}
	if u.UpdatedAt != nil {
		t := *u.UpdatedAt
		c.UpdatedAt = &t
	}
	return &c
}
