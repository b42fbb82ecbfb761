package handler

import (
	"errors"
	"net/http"

	"addressjp-api/internal/models"
	"addressjp-api/internal/service"

	"github.com/gin-gonic/gin"
)

// ParseHandler handles address parsing requests
type ParseHandler struct {
	resolver AddressResolver
}

// AddressResolver interface for dependency injection
type AddressResolver interface {
	Resolve(string) (*models.Address, error)
}

// NewParseHandler creates a new parse handler
func NewParseHandler(resolver AddressResolver) *ParseHandler {
	return &ParseHandler{resolver: resolver}
}

// Parse handles GET /parse requests
func (h *ParseHandler) Parse(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing required query parameter 'q'"})
		return
	}

	address, err := h.resolver.Resolve(query)
	if err != nil {
		if errors.Is(err, service.ErrInvalidInput) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "address cannot be empty"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, address)
}
