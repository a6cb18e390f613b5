package api

import (
	"context"
	"net/http"
	"sort"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gin-gonic/gin"

	"github.com/Ken19931113/debook/internal/account"
	"github.com/Ken19931113/debook/internal/domain"
)

func (s *Server) register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abort(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	_, token, err := s.Accounts.Register(c.Request.Context(), account.RegisterInput{
		Username:      req.Username,
		Email:         req.Email,
		Password:      req.Password,
		WalletAddress: req.WalletAddress,
	})
	if err != nil {
		s.writeError(c, err, http.StatusBadGateway)
		return
	}
	c.JSON(http.StatusOK, TokenResponse{AccessToken: token, TokenType: "bearer"})
}

// login accepts JSON or OAuth2 password-form credentials.
func (s *Server) login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBind(&req); err != nil || req.Username == "" || req.Password == "" {
		abort(c, http.StatusBadRequest, "Username and password are required")
		return
	}

	token, err := s.Accounts.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		s.writeError(c, err, http.StatusBadGateway)
		return
	}
	c.JSON(http.StatusOK, TokenResponse{AccessToken: token, TokenType: "bearer"})
}

func (s *Server) me(c *gin.Context) {
	c.JSON(http.StatusOK, newUserResponse(currentUser(c)))
}

// linkWallet takes the address from a JSON body or the wallet_address query.
func (s *Server) linkWallet(c *gin.Context) {
	address := c.Query("wallet_address")
	if address == "" && c.Request.ContentLength != 0 {
		var req WalletRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			abort(c, http.StatusBadRequest, "Invalid request body")
			return
		}
		address = req.WalletAddress
	}

	u, err := s.Accounts.LinkWallet(c.Request.Context(), currentUser(c).ID, strings.TrimSpace(address))
	if err != nil {
		s.writeError(c, err, http.StatusBadGateway)
		return
	}
	c.JSON(http.StatusOK, WalletResponse{Status: "success", WalletAddress: *u.WalletAddress})
}

func (s *Server) listActivity(c *gin.Context) {
	limit, err := queryInt(c, "limit", s.cfg.DefaultPageLimit)
	if err == nil && (limit < 1 || limit > s.cfg.MaxPageLimit) {
		err = &domain.ValidationError{Field: "limit", Reason: "out of range"}
	}
	if err != nil {
		s.writeError(c, err, http.StatusBadGateway)
		return
	}

	events, err := s.ownActivity(c.Request.Context(), currentUser(c),
		domain.ActivityKind(strings.ToUpper(c.Query("kind"))), limit)
	if err != nil {
		s.writeError(c, domain.Upstream("read activity", err), http.StatusBadGateway)
		return
	}

	out := make([]ActivityResponse, len(events))
	for i, ev := range events {
		out[i] = newActivityResponse(ev)
	}
	c.JSON(http.StatusOK, out)
}

// ownActivity returns the newest events about u: those recorded under the
// username and, when a wallet is linked, those recorded under its address.
func (s *Server) ownActivity(ctx context.Context, u *domain.User, kind domain.ActivityKind, limit int) ([]*domain.ActivityEvent, error) {
	events, err := s.Activity.Recent(ctx, kind, u.Username, limit)
	if err != nil {
		return nil, err
	}
	if !u.HasWallet() || !common.IsHexAddress(*u.WalletAddress) {
		return events, nil
	}

	// chain events carry the checksummed sender
	byWallet, err := s.Activity.Recent(ctx, kind, common.HexToAddress(*u.WalletAddress).Hex(), limit)
	if err != nil {
		return nil, err
	}
	events = append(events, byWallet...)
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].OccurredAt.After(events[j].OccurredAt)
	})
	if len(events) > limit {
		events = events[:limit]
	}
	return events, nil
}
