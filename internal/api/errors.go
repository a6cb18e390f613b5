package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Ken19931113/debook/internal/domain"
)

// abort writes {"detail": detail} with status and stops the chain.
func abort(c *gin.Context, status int, detail string) {
	c.AbortWithStatusJSON(status, ErrorResponse{Detail: detail})
}

func unauthorized(c *gin.Context, detail string) {
	c.Header("WWW-Authenticate", "Bearer")
	abort(c, http.StatusUnauthorized, detail)
}

// writeError maps err to a status. Chain and metadata failures get
// upstreamStatus: 400 on write and quote endpoints, 502 elsewhere.
func (s *Server) writeError(c *gin.Context, err error, upstreamStatus int) {
	var (
		validation *domain.ValidationError
		conflict   *domain.ConflictError
		upstream   *domain.UpstreamError
		timeout    *domain.ReceiptTimeoutError
		reverted   *domain.RevertedError
	)

	switch {
	case errors.Is(err, domain.ErrNotFound):
		abort(c, http.StatusNotFound, "Not found")
	case errors.As(err, &validation):
		abort(c, http.StatusBadRequest, validation.Error())
	case errors.Is(err, domain.ErrBadCredentials):
		unauthorized(c, "Incorrect username or password")
	case errors.Is(err, domain.ErrTokenExpired):
		unauthorized(c, "Token expired")
	case errors.Is(err, domain.ErrTokenInvalid):
		unauthorized(c, "Could not validate credentials")
	case errors.Is(err, domain.ErrInactiveAccount):
		abort(c, http.StatusBadRequest, "Inactive user")
	case errors.As(err, &conflict):
		abort(c, http.StatusConflict, conflictDetail(conflict.Field))
	case errors.Is(err, domain.ErrSigningAuthority), errors.Is(err, domain.ErrWalletNotSet):
		abort(c, http.StatusBadRequest, err.Error())
	case errors.As(err, &upstream), errors.As(err, &timeout), errors.As(err, &reverted):
		abort(c, upstreamStatus, err.Error())
	default:
		s.logger.Printf("%s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		abort(c, http.StatusInternalServerError, "Internal server error")
	}
}

func conflictDetail(field string) string {
	switch field {
	case "username":
		return "Username already registered"
	case "email":
		return "Email already registered"
	}
	return field + " already registered"
}
