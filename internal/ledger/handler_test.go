package ledger

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/43bits/mess-calender-gec/internal/httpx"
)

func setupTestRouter(userID, role string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	service, _, _ := setup()
	h := NewHandler(service)

	r := gin.New()
	r.Use(func(c *gin.Context) {
		if userID != "" {
			c.Set(httpx.KeyUserID, userID)
			c.Set(httpx.KeyUserRole, role)
		}
		c.Next()
	})
	r.GET("/selections/:key", h.Get)
	r.PUT("/selections/:key", h.Set)
	return r
}

func put(r *gin.Engine, path string, payload any) *httptest.ResponseRecorder {
	body, _ := json.Marshal(payload)
	req := httptest.NewRequest(http.MethodPut, path, bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHandler_MarkAndRead(t *testing.T) {
	r := setupTestRouter("resident-1", "student")

	w := put(r, "/selections/2025-03-10-lunch", map[string]any{"type": "non-veg"})
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	req := httptest.NewRequest(http.MethodGet, "/selections/2025-03-10-lunch", nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var res struct {
		Type *string `json:"type"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &res); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if res.Type == nil || *res.Type != "non-veg" {
		t.Fatalf("expected non-veg, got %v", res.Type)
	}
}

func TestHandler_NullTypeUnmarks(t *testing.T) {
	r := setupTestRouter("resident-1", "student")

	put(r, "/selections/2025-03-10-lunch", map[string]any{"type": "veg"})
	w := put(r, "/selections/2025-03-10-lunch", map[string]any{"type": nil})
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	var res map[string]any
	json.Unmarshal(w.Body.Bytes(), &res)
	if res["type"] != nil {
		t.Fatalf("expected null type, got %v", res["type"])
	}
}

func TestHandler_ErrorStatuses(t *testing.T) {
	anon := setupTestRouter("", "")
	if w := put(anon, "/selections/2025-03-10-lunch", map[string]any{"type": "veg"}); w.Code != http.StatusUnauthorized {
		t.Errorf("expected status 401, got %d", w.Code)
	}

	r := setupTestRouter("resident-1", "student")
	if w := put(r, "/selections/2025-03-10-lunch", map[string]any{"type": "vegan"}); w.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", w.Code)
	}
	if w := put(r, "/selections/2025-03-10-lunch", map[string]any{"type": "veg", "owner": "resident-2"}); w.Code != http.StatusForbidden {
		t.Errorf("expected status 403, got %d", w.Code)
	}
}

func TestHandler_MissingTypeKeepsSelection(t *testing.T) {
	r := setupTestRouter("resident-1", "student")
	put(r, "/selections/2025-03-10-lunch", map[string]any{"type": "veg"})

	for _, body := range []any{map[string]any{}, map[string]any{"type": 1}} {
		if w := put(r, "/selections/2025-03-10-lunch", body); w.Code != http.StatusBadRequest {
			t.Errorf("body %v: expected status 400, got %d", body, w.Code)
		}
	}

	req := httptest.NewRequest(http.MethodGet, "/selections/2025-03-10-lunch", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var res struct {
		Type *string `json:"type"`
	}
	json.Unmarshal(w.Body.Bytes(), &res)
	if res.Type == nil || *res.Type != "veg" {
		t.Fatalf("expected selection to survive, got %v", res.Type)
	}
}
