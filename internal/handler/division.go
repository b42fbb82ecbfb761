package handler

import (
	"errors"
	"net/http"
	"strconv"

	"addressjp-api/internal/models"
	"addressjp-api/internal/service"

	"github.com/gin-gonic/gin"
)

// DivisionHandler serves the reference divisions
type DivisionHandler struct {
	service DivisionService
}

// DivisionService interface for dependency injection
type DivisionService interface {
	ListPrefectures() []models.Division
	ListChildren(prefectureID int, kind models.Kind) ([]models.Division, error)
}

// NewDivisionHandler creates a new division handler
func NewDivisionHandler(svc DivisionService) *DivisionHandler {
	return &DivisionHandler{service: svc}
}

// Prefectures handles GET /prefectures requests
func (h *DivisionHandler) Prefectures(c *gin.Context) {
	c.JSON(http.StatusOK, h.service.ListPrefectures())
}

// Children handles GET /prefectures/:id/:kind requests, where kind is one of
// cities, counties, towns or villages.
func (h *DivisionHandler) Children(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid prefecture id"})
		return
	}

	kind, err := models.ParseKind(c.Param("kind"))
	if err != nil || kind == models.KindPrefecture {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown division kind"})
		return
	}

	divisions, err := h.service.ListChildren(id, kind)
	if err != nil {
		if errors.Is(err, service.ErrDivisionNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "prefecture not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, divisions)
}
