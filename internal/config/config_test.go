package config

import (
    "testing"
    "time"
)

func TestIntOr(t *testing.T) {
    t.Run("default when unset", func(t *testing.T) {
        t.Setenv("TEST_POOL_SIZE", "")
        if got := intOr("TEST_POOL_SIZE", 25); got != 25 {
            t.Fatalf("expected default 25, got %d", got)
        }
    })

    t.Run("reads the env value", func(t *testing.T) {
        t.Setenv("TEST_POOL_SIZE", "40")
        if got := intOr("TEST_POOL_SIZE", 25); got != 40 {
            t.Fatalf("expected 40, got %d", got)
        }
    })
}

func TestSecondsOr(t *testing.T) {
    t.Run("default when unset", func(t *testing.T) {
        t.Setenv("TEST_WAIT_SEC", "")
        if got := secondsOr("TEST_WAIT_SEC", 5); got != 5*time.Second {
            t.Fatalf("expected 5s, got %s", got)
        }
    })

    t.Run("reads the env value", func(t *testing.T) {
        t.Setenv("TEST_WAIT_SEC", "12")
        if got := secondsOr("TEST_WAIT_SEC", 5); got != 12*time.Second {
            t.Fatalf("expected 12s, got %s", got)
        }
    })

    t.Run("zero disables the bound", func(t *testing.T) {
        t.Setenv("TEST_WAIT_SEC", "0")
        if got := secondsOr("TEST_WAIT_SEC", 5); got != 0 {
            t.Fatalf("expected 0, got %s", got)
        }
    })
}
