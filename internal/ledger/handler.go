package ledger

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/43bits/mess-calender-gec/internal/core"
	"github.com/43bits/mess-calender-gec/internal/httpx"
	"github.com/43bits/mess-calender-gec/internal/meal"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type selectionResponse struct {
	Key     string     `json:"key"`
	Owner   string     `json:"owner"`
	Type    *meal.Diet `json:"type"`
	Version int        `json:"version,omitempty"`
	Entry   *Entry     `json:"entry,omitempty"`
}

func respond(c *gin.Context, owner, key string, e *Entry) {
	res := selectionResponse{Key: key, Owner: owner}
	if e != nil {
		diet := e.Diet
		res.Key = e.Key
		res.Type = &diet
		res.Version = e.Version
		res.Entry = e
	}
	c.JSON(http.StatusOK, res)
}

// GET /selections/:key?owner=
func (h *Handler) Get(c *gin.Context) {
	caller := httpx.CallerFrom(c)
	owner := c.Query("owner")
	if owner == "" {
		owner = caller.ID
	}

	e, err := h.service.GetSelection(c.Request.Context(), caller, owner, c.Param("key"))
	if err != nil {
		httpx.RespondError(c, err)
		return
	}
	respond(c, owner, c.Param("key"), e)
}

// Type must be present: a meal type marks the slot, an explicit null
// unmarks it.
type setSelectionRequest struct {
	Owner           string          `json:"owner"`
	Type            json.RawMessage `json:"type"`
	IsAdminAction   bool            `json:"isAdminAction"`
	ExpectedVersion int             `json:"expectedVersion"`
}

func (r setSelectionRequest) diet() (*meal.Diet, error) {
	if len(r.Type) == 0 {
		return nil, fmt.Errorf("type is required, send null to unmark: %w", core.ErrInvalidArgument)
	}
	if bytes.Equal(r.Type, []byte("null")) {
		return nil, nil
	}
	var s string
	if err := json.Unmarshal(r.Type, &s); err != nil {
		return nil, fmt.Errorf("type must be a string or null: %w", core.ErrInvalidArgument)
	}
	d, err := meal.ParseDiet(s)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// PUT /selections/:key
func (h *Handler) Set(c *gin.Context) {
	var req setSelectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	cmd := SetCommand{
		OwnerID:         req.Owner,
		Key:             c.Param("key"),
		AdminAction:     req.IsAdminAction,
		ExpectedVersion: req.ExpectedVersion,
	}
	diet, err := req.diet()
	if err != nil {
		httpx.RespondError(c, err)
		return
	}
	cmd.Diet = diet

	caller := httpx.CallerFrom(c)
	e, err := h.service.SetSelection(c.Request.Context(), caller, cmd)
	if err != nil {
		httpx.RespondError(c, err)
		return
	}

	owner := req.Owner
	if owner == "" {
		owner = caller.ID
	}
	respond(c, owner, c.Param("key"), e)
}
