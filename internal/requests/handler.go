package requests

import (
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

// POST /requests
func (h *Handler) Submit(c *gin.Context) {
	var in SubmitInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	req, err := h.service.Submit(c.Request.Context(), httpx.CallerFrom(c), in)
	if err != nil {
		httpx.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, req)
}

// GET /requests/me
func (h *Handler) Mine(c *gin.Context) {
	caller := httpx.CallerFrom(c)
	h.listForOwner(c, caller.ID)
}

// GET /admin/residents/:id/requests
func (h *Handler) ForOwner(c *gin.Context) {
	h.listForOwner(c, c.Param("id"))
}

func (h *Handler) listForOwner(c *gin.Context, ownerID string) {
	reqs, err := h.service.ListForOwner(c.Request.Context(), httpx.CallerFrom(c), ownerID)
	if err != nil {
		httpx.RespondError(c, err)
		return
	}
	if reqs == nil {
		reqs = []*Request{}
	}
	c.JSON(http.StatusOK, reqs)
}

// GET /admin/requests
func (h *Handler) All(c *gin.Context) {
	list, err := h.service.ListForAdmin(c.Request.Context(), httpx.CallerFrom(c))
	if err != nil {
		httpx.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// POST /admin/requests/:id/approve
func (h *Handler) Approve(c *gin.Context) {
	req, err := h.service.Approve(c.Request.Context(), httpx.CallerFrom(c), c.Param("id"))
	if err != nil {
		httpx.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, req)
}

type rejectRequest struct {
	Note string `json:"note"`
}

// POST /admin/requests/:id/reject
func (h *Handler) Reject(c *gin.Context) {
	var body rejectRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
	}

	req, err := h.service.Reject(c.Request.Context(), httpx.CallerFrom(c), c.Param("id"), body.Note)
	if err != nil {
		httpx.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, req)
}

// DELETE /admin/requests/approved
func (h *Handler) ClearApproved(c *gin.Context) {
	n, err := h.service.ClearApproved(c.Request.Context(), httpx.CallerFrom(c))
	if err != nil {
		httpx.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deletedCount": n})
}
