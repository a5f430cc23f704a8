package config // package config loads application configuration from environment variables

import (
    "log"     // log is used to report configuration errors and halt execution
    "os"      // os provides access to environment variables
    "strconv" // strconv converts strings to other types
    "time"    // time is used for duration-typed settings
)

// Config holds all runtime configuration values.  Each field corresponds to
// an environment variable.  The types reflect how the values are used in
// the application: strings for identifiers and secrets, durations for
// timeouts.
type Config struct {
    Env         string        // application environment (e.g. "dev", "prod")
    Port        string        // HTTP port to listen on
    DBUser      string        // database username
    DBPass      string        // database password (optional)
    DBHost      string        // database host address
    DBPort      string        // database port number
    DBName      string        // database name
    JWTSecret   string        // secret the identity service signs access tokens with
    LockWait    time.Duration // upper bound on row-lock waits inside booking transactions
    BrokerURL   string        // RabbitMQ URL for booking events (optional; empty disables the pipeline)

    DBMaxOpen     int           // max open connections in the MySQL pool
    DBMaxIdle     int           // max idle connections kept in the pool
    DBConnTTL     time.Duration // recycle pooled connections after this lifetime
    DBPingTimeout time.Duration // bound on the startup connectivity check
}

// Load reads configuration values from environment variables and returns a
// Config.  Required variables are enforced by must() and missing values
// cause the program to exit with a fatal log message.
func Load() Config {
    return Config{
        Env:       must("APP_ENV"),                       // environment (dev/test/prod)
        Port:      must("APP_PORT"),                      // port to bind the HTTP server
        DBUser:    must("DB_USER"),                       // database user
        DBPass:    os.Getenv("DB_PASS"),                  // database password (empty allowed)
        DBHost:    must("DB_HOST"),                       // database host
        DBPort:    must("DB_PORT"),                       // database port
        DBName:    must("DB_NAME"),                       // database name
        JWTSecret: must("JWT_SECRET"),                    // secret used to verify JWTs
        LockWait:  secondsOr("BOOKING_LOCK_WAIT_SEC", 5), // lock-wait bound in seconds
        BrokerURL: os.Getenv("RABBITMQ_URL"),             // broker URL (empty allowed)

        DBMaxOpen:     intOr("DB_MAX_OPEN_CONNS", 25),
        DBMaxIdle:     intOr("DB_MAX_IDLE_CONNS", 25),
        DBConnTTL:     secondsOr("DB_CONN_MAX_LIFETIME_SEC", 1800),
        DBPingTimeout: secondsOr("DB_PING_TIMEOUT_SEC", 5),
    }
}

// must retrieves the value of a required environment variable.  If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
    v, ok := os.LookupEnv(key)
    if !ok || v == "" {
        log.Fatalf("missing required env var: %s", key)
    }
    return v
}

// intOr reads a positive integer from the environment, falling back to
// def when unset.  A non-numeric or non-positive value is fatal.
func intOr(key string, def int) int {
    v := os.Getenv(key)
    if v == "" {
        return def
    }
    n, err := strconv.Atoi(v)
    if err != nil || n < 1 {
        log.Fatalf("invalid int for %s: %q", key, v)
    }
    return n
}

// secondsOr reads an integer number of seconds from the environment,
// falling back to def when unset.  A non-numeric value is fatal so a
// typo cannot silently disable the lock-wait bound.
func secondsOr(key string, def int) time.Duration {
    v := os.Getenv(key)
    if v == "" {
        return time.Duration(def) * time.Second
    }
    n, err := strconv.Atoi(v)
    if err != nil || n < 0 {
        log.Fatalf("invalid int for %s: %q", key, v)
    }
    return time.Duration(n) * time.Second
}
