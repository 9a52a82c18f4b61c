package menu

import (
	"encoding/json"
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

// GET /menu
func (h *Handler) Get(c *gin.Context) {
	card, err := h.service.Get(c.Request.Context())
	if err != nil {
		httpx.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, card)
}

// PUT /admin/menu  body {"data": {...}}
func (h *Handler) Update(c *gin.Context) {
	var req struct {
		Data json.RawMessage `json:"data"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	card, err := h.service.Update(c.Request.Context(), httpx.CallerFrom(c), req.Data)
	if err != nil {
		httpx.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, card)
}
