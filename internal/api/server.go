// Package api exposes the rental services over HTTP.
package api

import (
	"context"
	"crypto/ecdsa"
	"log"
	"net/http"
	"os"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Ken19931113/debook/internal/account"
	"github.com/Ken19931113/debook/internal/catalog"
	"github.com/Ken19931113/debook/internal/domain"
	"github.com/Ken19931113/debook/internal/gateway"
	"github.com/Ken19931113/debook/internal/journal"
	"github.com/Ken19931113/debook/internal/pricing"
)

// Accounts is the account surface the handlers use.
type Accounts interface {
	Register(ctx context.Context, in account.RegisterInput) (*domain.User, string, error)
	Login(ctx context.Context, username, password string) (string, error)
	CurrentUser(ctx context.Context, token string) (*domain.User, error)
	LinkWallet(ctx context.Context, userID, address string) (*domain.User, error)
	MarkLandlord(ctx context.Context, userID string) error
}

// Properties reads hydrated properties.
type Properties interface {
	ListAvailable(ctx context.Context, skip, limit int) ([]*domain.Property, error)
	GetProperty(ctx context.Context, id uint64) (*domain.Property, bool)
	LandlordProperties(ctx context.Context, landlord string) ([]*domain.Property, error)
}

// Rentals reads rental records.
type Rentals interface {
	UserRentals(ctx context.Context, tenant string) ([]*domain.Rental, error)
	GetRental(ctx context.Context, id uint64) (*domain.Rental, bool)
}

// Quoter prices a stay.
type Quoter interface {
	Quote(ctx context.Context, propertyID uint64, start, end int64) (*domain.PriceQuote, bool)
}

// Lister submits property listings to the chain.
type Lister interface {
	ListProperty(ctx context.Context, owner string, in domain.ListingInput, key *ecdsa.PrivateKey) (*domain.ListingReceipt, error)
}

// ActivityReader reads the activity journal.
type ActivityReader interface {
	Recent(ctx context.Context, kind domain.ActivityKind, subject string, limit int) ([]*domain.ActivityEvent, error)
}

// Compile-time interface checks.
var (
	_ Accounts       = (*account.Service)(nil)
	_ Properties     = (*catalog.Catalog)(nil)
	_ Rentals        = (*catalog.Ledger)(nil)
	_ Quoter         = (*pricing.Facade)(nil)
	_ Lister         = (*gateway.Gateway)(nil)
	_ ActivityReader = (*journal.Journal)(nil)
)

// Deps are the services behind the routes.
type Deps struct {
	Accounts   Accounts
	Properties Properties
	Rentals    Rentals
	Pricing    Quoter
	Lister     Lister
	Activity   ActivityReader
	Contracts  []ContractResponse
}

// Config holds HTTP-level settings.
type Config struct {
	// Prefix mounts a second copy of every route, e.g. "/api".
	Prefix           string
	CORSOrigins      []string
	DefaultPageLimit int
	MaxPageLimit     int
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the logger used for request logs and internal errors.
func WithLogger(logger *log.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// Server routes HTTP requests to the services.
type Server struct {
	Deps
	cfg    Config
	logger *log.Logger
	engine *gin.Engine
}

// NewServer builds the router.
func NewServer(deps Deps, cfg Config, opts ...Option) *Server {
	if cfg.DefaultPageLimit <= 0 {
		cfg.DefaultPageLimit = 20
	}
	if cfg.MaxPageLimit < cfg.DefaultPageLimit {
		cfg.MaxPageLimit = cfg.DefaultPageLimit
	}

	s := &Server{
		Deps:   deps,
		cfg:    cfg,
		logger: log.New(os.Stdout, "[api] ", log.LstdFlags|log.Lshortfile),
	}
	for _, opt := range opts {
		opt(s)
	}

	engine := gin.New()
	engine.Use(
		gin.LoggerWithWriter(s.logger.Writer()),
		gin.RecoveryWithWriter(s.logger.Writer()),
		instrument(),
		cors(cfg.CORSOrigins),
	)
	engine.NoRoute(func(c *gin.Context) {
		abort(c, http.StatusNotFound, "Not Found")
	})

	s.routes(&engine.RouterGroup)
	if p := strings.TrimRight(cfg.Prefix, "/"); p != "" {
		s.routes(engine.Group(p))
	}

	s.engine = engine
	return s
}

// Handler returns the http.Handler serving every route.
func (s *Server) Handler() http.Handler {
	return s.engine
}

func (s *Server) routes(r *gin.RouterGroup) {
	r.GET("/", s.root)
	r.GET("/health", s.health)
	r.GET("/contracts", s.listContracts)

	r.POST("/register", s.register)
	r.POST("/token", s.login)

	r.GET("/properties/", s.listProperties)
	r.GET("/properties/:id", s.getProperty)
	r.GET("/rentals/:id", s.getRental)
	r.POST("/rentals/calculate", s.calculatePrice)

	auth := r.Group("", s.requireUser())
	auth.GET("/users/me", s.me)
	auth.POST("/users/me/wallet", s.linkWallet)
	auth.POST("/properties/", s.createProperty)
	auth.GET("/rentals/", s.listRentals)
	auth.GET("/landlord/properties/", s.landlordProperties)
	auth.GET("/activity", s.listActivity)
}

func (s *Server) root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "Welcome to the property rental API"})
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

func (s *Server) listContracts(c *gin.Context) {
	out := s.Contracts
	if out == nil {
		out = []ContractResponse{}
	}
	c.JSON(http.StatusOK, out)
}
