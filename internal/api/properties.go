package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Ken19931113/debook/internal/domain"
)

// listProperties pages available properties; filters apply to the page.
func (s *Server) listProperties(c *gin.Context) {
	skip, limit, err := s.pagination(c)
	if err != nil {
		s.writeError(c, err, http.StatusBadGateway)
		return
	}
	filter, err := propertyFilter(c)
	if err != nil {
		s.writeError(c, err, http.StatusBadGateway)
		return
	}

	props, err := s.Properties.ListAvailable(c.Request.Context(), skip, limit)
	if err != nil {
		s.writeError(c, domain.Upstream("list properties", err), http.StatusBadGateway)
		return
	}
	c.JSON(http.StatusOK, newPropertyList(filter.Apply(props)))
}

func (s *Server) getProperty(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		s.writeError(c, err, http.StatusBadGateway)
		return
	}
	p, ok := s.Properties.GetProperty(c.Request.Context(), id)
	if !ok {
		abort(c, http.StatusNotFound, "Property not found")
		return
	}
	c.JSON(http.StatusOK, newPropertyResponse(p))
}

// createProperty lists a property owned by the caller's wallet. The
// operator key signs, so it must control that wallet.
func (s *Server) createProperty(c *gin.Context) {
	wallet, ok := requireWallet(c)
	if !ok {
		return
	}

	var req CreatePropertyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abort(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	receipt, err := s.Lister.ListProperty(c.Request.Context(), wallet, req.toInput(), nil)
	if err != nil {
		s.writeError(c, err, http.StatusBadRequest)
		return
	}

	user := currentUser(c)
	if err := s.Accounts.MarkLandlord(c.Request.Context(), user.ID); err != nil {
		s.logger.Printf("mark landlord %s: %v", user.Username, err)
	}

	c.JSON(http.StatusOK, TransactionResponse{
		Success:     true,
		PropertyID:  receipt.PropertyID,
		MetadataURI: receipt.MetadataURI,
		Transaction: &TransactionInfo{Hash: receipt.TxHash, BlockNumber: receipt.BlockNumber},
	})
}

func (s *Server) landlordProperties(c *gin.Context) {
	wallet, ok := requireWallet(c)
	if !ok {
		return
	}
	props, err := s.Properties.LandlordProperties(c.Request.Context(), wallet)
	if err != nil {
		s.writeError(c, domain.Upstream("landlord properties", err), http.StatusBadGateway)
		return
	}
	c.JSON(http.StatusOK, newPropertyList(props))
}
