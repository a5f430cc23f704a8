package router // package router defines how HTTP routes are registered for the API

import (
    "github.com/labstack/echo/v4"
    "github.com/redis/go-redis/v9"

    "github.com/fitclub/class-booking/internal/config"
    "github.com/fitclub/class-booking/internal/handler"
    "github.com/fitclub/class-booking/internal/middleware"
    "github.com/fitclub/class-booking/internal/model"
)

// RegisterRoutes registers routes that do not require authentication on
// the provided Echo instance.  Currently it exposes only a health check.
func RegisterRoutes(e *echo.Echo) {
    // Used by load balancers and monitoring to verify liveness.
    e.GET("/healthz", handler.Health)
}

// RegisterPublic registers the unauthenticated session catalogue.  The
// listing endpoints sit behind the Redis response cache (short TTL, the
// seats_left numbers are advisory) so polling clients do not hammer
// MySQL.
func RegisterPublic(e *echo.Echo, p *handler.PublicHandler, rdb *redis.Client, cacheCfg config.CacheConfig) {
    cached := middleware.NewRedisCache(cacheCfg, rdb)
    e.GET("/v1/sessions", p.ListSessions, cached)
    e.GET("/v1/sessions/:id", p.GetSession, cached)
}

// RegisterBooking registers the authenticated booking lifecycle routes.
// All of them require a valid access token.  Creating a booking is
// member-only; cancellation and reads also admit admins, who may cancel
// any member's booking.  Booking writes additionally pass through the
// distributed rate limiter, since those are the requests that contend
// for session row locks.
func RegisterBooking(e *echo.Echo, h *handler.BookingHandler, jwtSecret string, rdb *redis.Client, rlCfg config.RateLimitConfig) {
    g := e.Group("/v1")
    g.Use(middleware.JWTAuth(jwtSecret))

    memberOnly := middleware.RequireRole(model.RoleMember)
    memberOrAdmin := middleware.RequireRole(model.RoleMember, model.RoleAdmin)
    limited := middleware.NewTokenBucket(rlCfg, rdb)

    g.POST("/sessions/:id/bookings", h.CreateBooking, memberOnly, limited)
    g.DELETE("/bookings/:id", h.CancelBooking, memberOrAdmin, limited)

    g.GET("/my-bookings", h.ListMyBookings, memberOrAdmin)
    g.GET("/bookings/:id", h.GetBooking, memberOrAdmin)
}

// RegisterAdmin registers session management endpoints restricted to
// the ADMIN role.
func RegisterAdmin(e *echo.Echo, a *handler.AdminHandler, jwtSecret string) {
    g := e.Group("/v1/admin")
    g.Use(middleware.JWTAuth(jwtSecret))
    g.Use(middleware.RequireRole(model.RoleAdmin))

    g.POST("/sessions", a.CreateSession)
    g.PATCH("/sessions/:id/capacity", a.UpdateCapacity)
    g.GET("/sessions/:id/bookings", a.ListSessionBookings)
}
