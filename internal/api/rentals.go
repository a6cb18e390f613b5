package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Ken19931113/debook/internal/domain"
)

func (s *Server) listRentals(c *gin.Context) {
	wallet, ok := requireWallet(c)
	if !ok {
		return
	}
	rentals, err := s.Rentals.UserRentals(c.Request.Context(), wallet)
	if err != nil {
		s.writeError(c, domain.Upstream("user rentals", err), http.StatusBadGateway)
		return
	}

	out := make([]RentalResponse, len(rentals))
	for i, r := range rentals {
		out[i] = newRentalResponse(r)
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) getRental(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		s.writeError(c, err, http.StatusBadGateway)
		return
	}
	r, ok := s.Rentals.GetRental(c.Request.Context(), id)
	if !ok {
		abort(c, http.StatusNotFound, "Rental not found")
		return
	}
	c.JSON(http.StatusOK, newRentalResponse(r))
}

func (s *Server) calculatePrice(c *gin.Context) {
	var req CalculateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abort(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	switch {
	case req.PropertyID == nil:
		s.writeError(c, &domain.ValidationError{Field: "property_id"}, http.StatusBadRequest)
		return
	case req.StartDate == nil:
		s.writeError(c, &domain.ValidationError{Field: "start_date"}, http.StatusBadRequest)
		return
	case req.EndDate == nil:
		s.writeError(c, &domain.ValidationError{Field: "end_date"}, http.StatusBadRequest)
		return
	}

	q, ok := s.Pricing.Quote(c.Request.Context(), *req.PropertyID, *req.StartDate, *req.EndDate)
	if !ok {
		abort(c, http.StatusBadRequest, "Failed to calculate price")
		return
	}
	c.JSON(http.StatusOK, newPriceQuoteResponse(q))
}
