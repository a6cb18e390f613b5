package api

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/Ken19931113/debook/internal/catalog"
	"github.com/Ken19931113/debook/internal/domain"
)

// pagination reads skip and limit, applying the configured bounds.
func (s *Server) pagination(c *gin.Context) (skip, limit int, err error) {
	skip, err = queryInt(c, "skip", 0)
	if err != nil {
		return 0, 0, err
	}
	if skip < 0 {
		return 0, 0, &domain.ValidationError{Field: "skip", Reason: "must be >= 0"}
	}

	limit, err = queryInt(c, "limit", s.cfg.DefaultPageLimit)
	if err != nil {
		return 0, 0, err
	}
	if limit < 1 || limit > s.cfg.MaxPageLimit {
		return 0, 0, &domain.ValidationError{Field: "limit", Reason: "must be between 1 and " + strconv.Itoa(s.cfg.MaxPageLimit)}
	}
	return skip, limit, nil
}

func queryInt(c *gin.Context, name string, def int) (int, error) {
	raw, ok := c.GetQuery(name)
	if !ok || raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, &domain.ValidationError{Field: name, Reason: "not an integer"}
	}
	return v, nil
}

func queryDecimal(c *gin.Context, name string) (*decimal.Decimal, error) {
	raw, ok := c.GetQuery(name)
	if !ok || raw == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return nil, &domain.ValidationError{Field: name, Reason: "not a number"}
	}
	return &d, nil
}

func queryUint(c *gin.Context, name string) (*uint64, error) {
	raw, ok := c.GetQuery(name)
	if !ok || raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return nil, &domain.ValidationError{Field: name, Reason: "not a non-negative integer"}
	}
	return &v, nil
}

// propertyFilter reads the optional list filters.
func propertyFilter(c *gin.Context) (catalog.PropertyFilter, error) {
	f := catalog.PropertyFilter{Location: c.Query("location")}
	var err error
	if f.MinPrice, err = queryDecimal(c, "min_price"); err != nil {
		return f, err
	}
	if f.MaxPrice, err = queryDecimal(c, "max_price"); err != nil {
		return f, err
	}
	if f.MinDuration, err = queryUint(c, "min_duration"); err != nil {
		return f, err
	}
	if f.MaxDuration, err = queryUint(c, "max_duration"); err != nil {
		return f, err
	}
	return f, nil
}

// pathID parses a positive numeric id from the route.
func pathID(c *gin.Context, name string) (uint64, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, &domain.ValidationError{Field: name, Reason: "must be a positive integer"}
	}
	return id, nil
}
