package requests

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/43bits/mess-calender-gec/internal/httpx"
)

func as(userID, role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(httpx.KeyUserID, userID)
		c.Set(httpx.KeyUserRole, role)
		c.Next()
	}
}

func TestHandler_SubmitApproveClear(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewHandler(setup().service)

	r := gin.New()
	r.POST("/requests", as("r1", "student"), h.Submit)
	r.POST("/admin/requests/:id/approve", as("admin-1", "admin"), h.Approve)
	r.DELETE("/admin/requests/approved", as("admin-1", "admin"), h.ClearApproved)

	body, _ := json.Marshal(map[string]string{"meal": "dinner", "date": "2025-03-10", "type": "veg"})
	req := httptest.NewRequest(http.MethodPost, "/requests", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", w.Code, w.Body.String())
	}
	var created Request
	json.Unmarshal(w.Body.Bytes(), &created)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/admin/requests/"+created.ID+"/approve", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/admin/requests/unknown/approve", nil))
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", w.Code)
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/admin/requests/approved", nil))

	var res map[string]int
	json.Unmarshal(w.Body.Bytes(), &res)
	if res["deletedCount"] != 1 {
		t.Fatalf("expected deletedCount 1, got %v", res)
	}
}

func TestHandler_SubmitInvalidMeal(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewHandler(setup().service)

	r := gin.New()
	r.POST("/requests", as("r1", "student"), h.Submit)

	body, _ := json.Marshal(map[string]string{"meal": "brunch", "date": "2025-03-10"})
	req := httptest.NewRequest(http.MethodPost, "/requests", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", w.Code)
	}
}
