package database // MySQL connection pool setup

import (
    "context"
    "database/sql"
    "fmt"

    _ "github.com/go-sql-driver/mysql"

    "github.com/fitclub/class-booking/internal/config"
)

// Open builds the MySQL pool from the loaded configuration and verifies
// connectivity before the server starts taking bookings.  parseTime
// maps DATETIME columns onto time.Time and loc=UTC matches the UTC-only
// timestamps the repositories read and write.  Pool sizing and the
// startup ping bound come from config so deployments can tune them
// without a rebuild.
func Open(cfg config.Config) (*sql.DB, error) {
    auth := cfg.DBUser
    if cfg.DBPass != "" {
        auth = cfg.DBUser + ":" + cfg.DBPass
    }
    dsn := fmt.Sprintf("%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=true&loc=UTC",
        auth, cfg.DBHost, cfg.DBPort, cfg.DBName)

    db, err := sql.Open("mysql", dsn)
    if err != nil {
        return nil, err
    }

    db.SetMaxOpenConns(cfg.DBMaxOpen)
    db.SetMaxIdleConns(cfg.DBMaxIdle)
    db.SetConnMaxLifetime(cfg.DBConnTTL)

    ctx, cancel := context.WithTimeout(context.Background(), cfg.DBPingTimeout)
    defer cancel()
    if err := db.PingContext(ctx); err != nil {
        _ = db.Close()
        return nil, err
    }
    return db, nil
}
