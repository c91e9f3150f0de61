package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/library-seat-reservation/internal/config"
	"github.com/iliyamo/library-seat-reservation/internal/handler"
	"github.com/iliyamo/library-seat-reservation/internal/middleware"
	"github.com/iliyamo/library-seat-reservation/internal/model"
)

// Deps carries everything the routes need.  Redis is optional; when it
// is nil the cache and rate limit middlewares turn into passthroughs.
type Deps struct {
	Cfg       config.Config
	Auth      *handler.AuthHandler
	Seats     *handler.SeatHandler
	Stats     *handler.StatsHandler
	Analytics *handler.AnalyticsHandler
	Events    *handler.EventsHandler
	Redis     *redis.Client
}

// Register mounts all routes on the echo instance.
func Register(e *echo.Echo, d Deps) {
	e.GET("/healthz", handler.Health)

	cache := middleware.NewRedisCache(config.LoadCacheConfig(), d.Redis)
	limit := middleware.NewTokenBucket(config.LoadRateLimitConfig(), d.Redis)

	auth := e.Group("/v1/auth")
	auth.POST("/register", d.Auth.Register)
	auth.POST("/login", d.Auth.Login, limit)
	auth.POST("/refresh", d.Auth.Refresh, limit)
	auth.POST("/refresh-access", d.Auth.RefreshAccess, limit)
	auth.POST("/logout", d.Auth.Logout)

	v1 := e.Group("/v1", middleware.JWTAuth(d.Cfg.JWTSecret), middleware.RequireRole(model.RoleMember, model.RoleAdmin))
	v1.GET("/me", d.Auth.Me)

	v1.GET("/seats", d.Seats.List, cache)
	v1.GET("/seats/events", d.Events.Stream)
	v1.POST("/seats/:id/book", d.Seats.Book, limit)
	v1.POST("/seats/:id/release", d.Seats.Release, limit)

	v1.GET("/stats", d.Stats.Stats)
	v1.GET("/facility/status", d.Stats.FacilityStatus)

	v1.GET("/analytics/best-times", d.Analytics.BestTimes, cache)
	v1.GET("/analytics/today", d.Analytics.Today, cache)
	v1.GET("/analytics/weekly", d.Analytics.Weekly, cache)
}
