package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/43bits/mess-calender-gec/internal/auth"
	"github.com/43bits/mess-calender-gec/internal/core"
	"github.com/43bits/mess-calender-gec/internal/ledger"
	"github.com/43bits/mess-calender-gec/internal/menu"
	"github.com/43bits/mess-calender-gec/internal/middleware"
	"github.com/43bits/mess-calender-gec/internal/pricing"
	"github.com/43bits/mess-calender-gec/internal/realtime"
	"github.com/43bits/mess-calender-gec/internal/requests"
	"github.com/43bits/mess-calender-gec/internal/settlement"
	"github.com/43bits/mess-calender-gec/internal/statement"
)

// Handlers groups every HTTP handler the router mounts.
type Handlers struct {
	Auth       *auth.Handler
	Prices     *pricing.Handler
	Selections *ledger.Handler
	Settlement *settlement.Handler
	Requests   *requests.Handler
	Menu       *menu.Handler
	Statements *statement.Handler
	Realtime   *realtime.Handler
}

// NewRouter mounts every route. roles supplies the stored role for each
// authenticated request.
func NewRouter(h Handlers, roles middleware.RoleLookup, allowedOrigins []string) *gin.Engine {
	r := gin.Default()

	corsConfig := cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(allowedOrigins) == 0 {
		corsConfig.AllowOrigins = nil
		corsConfig.AllowAllOrigins = true
		corsConfig.AllowCredentials = false
	}
	r.Use(cors.New(corsConfig))

	// ───────────────────────── HEALTH ─────────────────────────
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// ───────────────────────── PUBLIC ─────────────────────────
	r.GET("/prices", h.Prices.Get)
	r.GET("/menu", h.Menu.Get)
	r.GET("/ws", middleware.QueryTokenAuth(), middleware.RefreshRole(roles), h.Realtime.Serve)

	// ───────────────────────── AUTH ─────────────────────────
	authGroup := r.Group("/auth")
	{
		authGroup.POST("/register", h.Auth.Register)
		authGroup.POST("/login", h.Auth.Login)

		me := authGroup.Group("/me")
		me.Use(middleware.AuthMiddleware(), middleware.RefreshRole(roles))
		{
			me.GET("", h.Auth.Me)
			me.PATCH("/profile", h.Auth.UpdateProfile)
		}
	}

	// ───────────────────────── RESIDENT ROUTES ─────────────────────────
	protected := r.Group("")
	protected.Use(middleware.AuthMiddleware(), middleware.RefreshRole(roles))
	{
		protected.GET("/selections/me", h.Settlement.Own)
		protected.GET("/selections/me/window", h.Settlement.OwnWindow)
		protected.GET("/selections/:key", h.Selections.Get)
		protected.PUT("/selections/:key", h.Selections.Set)

		protected.POST("/requests", h.Requests.Submit)
		protected.GET("/requests/me", h.Requests.Mine)

		protected.POST("/statements", h.Statements.Export)
	}

	// ───────────────────────── ADMIN ROUTES ─────────────────────────
	admin := r.Group("/admin")
	admin.Use(
		middleware.AuthMiddleware(),
		middleware.RefreshRole(roles),
		middleware.RequireRole(core.RoleAdmin),
	)
	{
		admin.PUT("/prices", h.Prices.Set)
		admin.PUT("/menu", h.Menu.Update)

		admin.GET("/users", h.Auth.ListUsers)
		admin.PATCH("/users/:id/role", h.Auth.UpdateRole)

		admin.GET("/residents/:id/selections", h.Settlement.Owner)
		admin.GET("/residents/:id/selections/window", h.Settlement.OwnerWindow)
		admin.GET("/residents/:id/requests", h.Requests.ForOwner)

		admin.GET("/stats/daily", h.Settlement.Daily)

		admin.GET("/requests", h.Requests.All)
		admin.POST("/requests/:id/approve", h.Requests.Approve)
		admin.POST("/requests/:id/reject", h.Requests.Reject)
		admin.DELETE("/requests/approved", h.Requests.ClearApproved)
	}

	return r
}
