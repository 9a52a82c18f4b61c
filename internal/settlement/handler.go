package settlement

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

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

// GET /selections/me
func (h *Handler) Own(c *gin.Context) {
	r, err := h.service.OwnSelections(c.Request.Context(), httpx.CallerFrom(c))
	if err != nil {
		httpx.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, r)
}

// GET /selections/me/window?year=&month=
func (h *Handler) OwnWindow(c *gin.Context) {
	caller := httpx.CallerFrom(c)
	h.window(c, caller, caller.ID)
}

// GET /admin/residents/:id/selections
func (h *Handler) Owner(c *gin.Context) {
	r, err := h.service.OwnerSelections(c.Request.Context(), httpx.CallerFrom(c), c.Param("id"))
	if err != nil {
		httpx.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, r)
}

// GET /admin/residents/:id/selections/window?year=&month=
func (h *Handler) OwnerWindow(c *gin.Context) {
	h.window(c, httpx.CallerFrom(c), c.Param("id"))
}

func (h *Handler) window(c *gin.Context, caller core.Caller, ownerID string) {
	now := time.Now()
	year, err := intQuery(c, "year", now.Year())
	if err != nil {
		httpx.RespondError(c, err)
		return
	}
	month, err := intQuery(c, "month", int(now.Month()))
	if err != nil {
		httpx.RespondError(c, err)
		return
	}

	w, err := h.service.OwnerWindow(c.Request.Context(), caller, ownerID, year, month)
	if err != nil {
		httpx.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, w)
}

// GET /admin/stats/daily?date=YYYY-MM-DD
func (h *Handler) Daily(c *gin.Context) {
	date := meal.DateOf(time.Now())
	if raw := c.Query("date"); raw != "" {
		d, err := meal.ParseDate(raw)
		if err != nil {
			httpx.RespondError(c, err)
			return
		}
		date = d
	}

	stats, err := h.service.DailyStats(c.Request.Context(), httpx.CallerFrom(c), date)
	if err != nil {
		httpx.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func intQuery(c *gin.Context, name string, fallback int) (int, error) {
	raw := c.Query(name)
	if raw == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be a number: %w", name, core.ErrInvalidArgument)
	}
	return n, nil
}
