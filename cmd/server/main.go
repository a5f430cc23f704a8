package main // Entry point package

import (
    "log"

    "github.com/joho/godotenv"
    "github.com/labstack/echo/v4"

    "github.com/fitclub/class-booking/internal/booking"
    "github.com/fitclub/class-booking/internal/clock"
    "github.com/fitclub/class-booking/internal/config"
    "github.com/fitclub/class-booking/internal/database"
    "github.com/fitclub/class-booking/internal/handler"
    "github.com/fitclub/class-booking/internal/queue"
    "github.com/fitclub/class-booking/internal/repository"
    "github.com/fitclub/class-booking/internal/router"
)

func main() {
    // Load .env when present; real deployments set the environment directly.
    _ = godotenv.Load()
    cfg := config.Load()

    db, err := database.Open(cfg)
    if err != nil {
        log.Fatalf("database: %v", err)
    }
    defer db.Close()

    // Redis is optional: a nil client disables rate limiting and caching.
    rdb := config.NewRedisClient()
    if rdb == nil {
        log.Printf("redis unavailable; rate limiting and response cache disabled")
    }

    sessionRepo := repository.NewSessionRepo(db)
    bookingRepo := repository.NewBookingRepo(db)
    store := repository.NewStore(db, sessionRepo, bookingRepo, cfg.LockWait)

    clk := clock.NewSystem()
    coordinator := booking.NewCoordinator(store, clk)

    bookingHandler := handler.NewBookingHandler(coordinator, bookingRepo, sessionRepo, cfg.BrokerURL, clk)
    publicHandler := handler.NewPublicHandler(sessionRepo, clk)
    adminHandler := handler.NewAdminHandler(sessionRepo, bookingRepo, store, clk)

    e := echo.New()
    router.RegisterRoutes(e)
    router.RegisterPublic(e, publicHandler, rdb, config.LoadCacheConfig())
    router.RegisterBooking(e, bookingHandler, cfg.JWTSecret, rdb, config.LoadRateLimitConfig())
    router.RegisterAdmin(e, adminHandler, cfg.JWTSecret)

    // Audit-log consumer; runs its own reconnect loop for the life of
    // the process.  No broker URL means no event pipeline, matching the
    // publish side.
    if cfg.BrokerURL != "" {
        go func() {
            if err := queue.StartBookingConsumer(cfg.BrokerURL); err != nil {
                log.Printf("booking consumer stopped: %v", err)
            }
        }()
    } else {
        log.Printf("RABBITMQ_URL not set; booking events disabled")
    }

    addr := ":" + cfg.Port
    log.Printf("listening on %s (env=%s)", addr, cfg.Env)

    if err := e.Start(addr); err != nil {
        log.Fatal(err)
    }
}
