package httpx

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/43bits/mess-calender-gec/internal/core"
)

// Context keys written by the auth middleware.
const (
	KeyUserID    = "userID"
	KeyUserEmail = "userEmail"
	KeyUserRole  = "userRole"
)

// CallerFrom builds the caller identity attached by the auth middleware.
// An unauthenticated request yields the zero Caller.
func CallerFrom(c *gin.Context) core.Caller {
	return core.Caller{
		ID:   c.GetString(KeyUserID),
		Role: c.GetString(KeyUserRole),
	}
}

// StatusFor maps the error taxonomy onto HTTP status codes.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, core.ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, core.ErrUnauthorized):
		return http.StatusForbidden
	case errors.Is(err, core.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, core.ErrInvalidArgument):
		return http.StatusBadRequest
	case errors.Is(err, core.ErrConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func RespondError(c *gin.Context, err error) {
	status := StatusFor(err)
	if status == http.StatusInternalServerError {
		log.Printf("[HTTP] %s %s failed: %v", c.Request.Method, c.FullPath(), err)
		c.JSON(status, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
