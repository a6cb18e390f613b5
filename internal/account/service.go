// Package account manages local user identities: registration, password
// login, bearer tokens and wallet linkage.
package account

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/Ken19931113/debook/internal/domain"
	"github.com/Ken19931113/debook/internal/journal"
	"github.com/Ken19931113/debook/internal/observability"
	"github.com/Ken19931113/debook/internal/storage"
)

// DefaultTokenTTL is the access token lifetime (7 days).
const DefaultTokenTTL = 7 * 24 * time.Hour

// RegisterInput carries a registration request.
type RegisterInput struct {
	Username      string
	Email         string
	Password      string
	WalletAddress *string
}

// Option configures a Service.
type Option func(*Service)

// WithTokenTTL sets the lifetime of issued tokens.
func WithTokenTTL(ttl time.Duration) Option {
	return func(s *Service) {
		s.ttl = ttl
	}
}

// WithBcryptCost sets the password hashing cost.
func WithBcryptCost(cost int) Option {
	return func(s *Service) {
		s.cost = cost
	}
}

// WithRecorder journals registrations and wallet links.
func WithRecorder(r journal.Recorder) Option {
	return func(s *Service) {
		if r != nil {
			s.recorder = r
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *log.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// Service implements account operations over a storage.UserStore.
type Service struct {
	users    storage.UserStore
	tokens   *TokenIssuer
	ttl      time.Duration
	cost     int
	recorder journal.Recorder
	logger   *log.Logger
}

// NewService creates an account service.
func NewService(users storage.UserStore, tokens *TokenIssuer, opts ...Option) *Service {
	s := &Service{
		users:    users,
		tokens:   tokens,
		ttl:      DefaultTokenTTL,
		cost:     bcrypt.DefaultCost,
		recorder: journal.Nop{},
		logger:   log.New(os.Stdout, "[account] ", log.LstdFlags|log.Lshortfile),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register creates a user and returns it with a fresh token. Username
// conflicts are reported before email conflicts.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*domain.User, string, error) {
	switch {
	case strings.TrimSpace(in.Username) == "":
		return nil, "", &domain.ValidationError{Field: "username"}
	case strings.TrimSpace(in.Email) == "":
		return nil, "", &domain.ValidationError{Field: "email"}
	case in.Password == "":
		return nil, "", &domain.ValidationError{Field: "password"}
	}

	if err := s.checkAvailable(ctx, in.Username, in.Email); err != nil {
		return nil, "", err
	}

	hash, err := HashPassword(in.Password, s.cost)
	if err != nil {
		return nil, "", err
	}

	u := &domain.User{
		ID:             uuid.NewString(),
		Username:       in.Username,
		Email:          in.Email,
		HashedPassword: hash,
		IsActive:       true,
		CreatedAt:      time.Now().UTC(),
	}
	if in.WalletAddress != nil && *in.WalletAddress != "" {
		w := *in.WalletAddress
		u.WalletAddress = &w
	}

	if err := s.users.Create(ctx, u); err != nil {
		if errors.Is(err, storage.ErrDuplicateKey) {
			// lost a race with a concurrent registration
			if cerr := s.checkAvailable(ctx, in.Username, in.Email); cerr != nil {
				return nil, "", cerr
			}
		}
		return nil, "", fmt.Errorf("create user: %w", err)
	}

	token, err := s.tokens.Issue(u.Username, s.ttl)
	if err != nil {
		return nil, "", err
	}

	observability.RecordUserRegistered()
	s.recorder.Record(ctx, domain.ActivityEvent{
		Kind:    domain.ActivityUserRegistered,
		Subject: u.Username,
	})
	return u, token, nil
}

func (s *Service) checkAvailable(ctx context.Context, username, email string) error {
	if _, err := s.users.GetByUsername(ctx, username); err == nil {
		return &domain.ConflictError{Field: "username"}
	} else if !errors.Is(err, storage.ErrNotFound) {
		return fmt.Errorf("lookup username: %w", err)
	}

	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return &domain.ConflictError{Field: "email"}
	} else if !errors.Is(err, storage.ErrNotFound) {
		return fmt.Errorf("lookup email: %w", err)
	}
	return nil
}

// Authenticate checks a username and password. Unknown users, inactive
// accounts and wrong passwords all return domain.ErrBadCredentials.
func (s *Service) Authenticate(ctx context.Context, username, password string) (*domain.User, error) {
	u, err := s.users.GetByUsername(ctx, username)
	if errors.Is(err, storage.ErrNotFound) {
		observability.RecordAuthFailure("unknown_user")
		return nil, domain.ErrBadCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("lookup username: %w", err)
	}
	if !u.IsActive {
		observability.RecordAuthFailure("inactive")
		return nil, domain.ErrBadCredentials
	}
	if !CheckPassword(password, u.HashedPassword) {
		observability.RecordAuthFailure("bad_password")
		return nil, domain.ErrBadCredentials
	}
	return u, nil
}

// Login authenticates and issues a token.
func (s *Service) Login(ctx context.Context, username, password string) (string, error) {
	u, err := s.Authenticate(ctx, username, password)
	if err != nil {
		return "", err
	}
	return s.tokens.Issue(u.Username, s.ttl)
}

// IssueToken issues a token for subject valid for ttl.
func (s *Service) IssueToken(subject string, ttl time.Duration) (string, error) {
	return s.tokens.Issue(subject, ttl)
}

// VerifyToken returns the subject of a valid token.
func (s *Service) VerifyToken(token string) (string, error) {
	return s.tokens.Verify(token)
}

// CurrentUser resolves a bearer token to an active user.
func (s *Service) CurrentUser(ctx context.Context, token string) (*domain.User, error) {
	subject, err := s.tokens.Verify(token)
	if err != nil {
		observability.RecordAuthFailure("token")
		return nil, err
	}

	u, err := s.users.GetByUsername(ctx, subject)
	if errors.Is(err, storage.ErrNotFound) {
		observability.RecordAuthFailure("token_subject")
		return nil, domain.ErrTokenInvalid
	}
	if err != nil {
		return nil, fmt.Errorf("lookup username: %w", err)
	}
	if !u.IsActive {
		return nil, domain.ErrInactiveAccount
	}
	return u, nil
}

// LinkWallet overwrites the user's wallet address and returns the updated
// user. Other accounts may link the same address.
func (s *Service) LinkWallet(ctx context.Context, userID, address string) (*domain.User, error) {
	address = strings.TrimSpace(address)
	if address == "" {
		return nil, &domain.ValidationError{Field: "wallet_address"}
	}

	if err := s.users.UpdateWallet(ctx, userID, address); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("update wallet: %w", err)
	}

	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("reload user: %w", err)
	}
	s.logger.Printf("user %s linked wallet %s", u.Username, address)
	s.recorder.Record(ctx, domain.ActivityEvent{
		Kind:    domain.ActivityWalletLinked,
		Subject: u.Username,
		Detail:  address,
	})
	return u, nil
}

// MarkLandlord flags the user as a landlord.
func (s *Service) MarkLandlord(ctx context.Context, userID string) error {
	if err := s.users.SetLandlord(ctx, userID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("set landlord: %w", err)
	}
	return nil
}
