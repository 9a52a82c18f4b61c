package statement

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/43bits/mess-calender-gec/internal/httpx"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type exportRequest struct {
	Owner string `json:"owner"`
	Year  int    `json:"year"`
	Month int    `json:"month"`
}

// POST /statements
func (h *Handler) Export(c *gin.Context) {
	var req exportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	st, err := h.service.Export(c.Request.Context(), httpx.CallerFrom(c), req.Owner, req.Year, req.Month)
	if errors.Is(err, ErrStorageDisabled) {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		httpx.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, st)
}
