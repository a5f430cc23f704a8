package middleware

import (
    "net/http"
    "net/http/httptest"
    "testing"
    "time"

    "github.com/golang-jwt/jwt/v5"
    "github.com/labstack/echo/v4"

    "github.com/fitclub/class-booking/internal/model"
)

const testSecret = "test-secret"

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
    t.Helper()
    tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
    signed, err := tok.SignedString([]byte(secret))
    if err != nil {
        t.Fatalf("signing token: %v", err)
    }
    return signed
}

// runJWT sends a request through JWTAuth and a handler that echoes the
// principal it finds.
func runJWT(t *testing.T, authorization string) (*httptest.ResponseRecorder, *model.Principal) {
    t.Helper()
    e := echo.New()
    req := httptest.NewRequest(http.MethodGet, "/", nil)
    if authorization != "" {
        req.Header.Set("Authorization", authorization)
    }
    rec := httptest.NewRecorder()
    c := e.NewContext(req, rec)

    var seen *model.Principal
    h := JWTAuth(testSecret)(func(c echo.Context) error {
        seen = PrincipalFrom(c)
        return c.NoContent(http.StatusOK)
    })
    if err := h(c); err != nil {
        t.Fatalf("handler returned error: %v", err)
    }
    return rec, seen
}

func TestJWTAuth(t *testing.T) {
    t.Parallel()

    exp := time.Now().Add(time.Hour).Unix()

    t.Run("accepts valid token and injects principal", func(t *testing.T) {
        tok := signToken(t, testSecret, jwt.MapClaims{"sub": float64(42), "role": model.RoleMember, "exp": exp})
        rec, p := runJWT(t, "Bearer "+tok)
        if rec.Code != http.StatusOK {
            t.Fatalf("expected 200, got %d", rec.Code)
        }
        if p == nil || p.ID != 42 || p.Role != model.RoleMember {
            t.Fatalf("unexpected principal: %+v", p)
        }
    })

    t.Run("accepts string subject claim", func(t *testing.T) {
        tok := signToken(t, testSecret, jwt.MapClaims{"sub": "7", "role": model.RoleAdmin, "exp": exp})
        rec, p := runJWT(t, "Bearer "+tok)
        if rec.Code != http.StatusOK {
            t.Fatalf("expected 200, got %d", rec.Code)
        }
        if p == nil || p.ID != 7 || p.Role != model.RoleAdmin {
            t.Fatalf("unexpected principal: %+v", p)
        }
    })

    t.Run("rejects missing header", func(t *testing.T) {
        rec, _ := runJWT(t, "")
        if rec.Code != http.StatusUnauthorized {
            t.Fatalf("expected 401, got %d", rec.Code)
        }
    })

    t.Run("rejects non-bearer scheme", func(t *testing.T) {
        rec, _ := runJWT(t, "Basic abc123")
        if rec.Code != http.StatusUnauthorized {
            t.Fatalf("expected 401, got %d", rec.Code)
        }
    })

    t.Run("rejects token signed with another secret", func(t *testing.T) {
        tok := signToken(t, "wrong-secret", jwt.MapClaims{"sub": float64(42), "role": model.RoleMember, "exp": exp})
        rec, _ := runJWT(t, "Bearer "+tok)
        if rec.Code != http.StatusUnauthorized {
            t.Fatalf("expected 401, got %d", rec.Code)
        }
    })

    t.Run("rejects expired token", func(t *testing.T) {
        tok := signToken(t, testSecret, jwt.MapClaims{"sub": float64(42), "role": model.RoleMember, "exp": time.Now().Add(-time.Hour).Unix()})
        rec, _ := runJWT(t, "Bearer "+tok)
        if rec.Code != http.StatusUnauthorized {
            t.Fatalf("expected 401, got %d", rec.Code)
        }
    })

    t.Run("rejects token without role claim", func(t *testing.T) {
        tok := signToken(t, testSecret, jwt.MapClaims{"sub": float64(42), "exp": exp})
        rec, _ := runJWT(t, "Bearer "+tok)
        if rec.Code != http.StatusUnauthorized {
            t.Fatalf("expected 401, got %d", rec.Code)
        }
    })

    t.Run("rejects token with zero subject", func(t *testing.T) {
        tok := signToken(t, testSecret, jwt.MapClaims{"sub": float64(0), "role": model.RoleMember, "exp": exp})
        rec, _ := runJWT(t, "Bearer "+tok)
        if rec.Code != http.StatusUnauthorized {
            t.Fatalf("expected 401, got %d", rec.Code)
        }
    })
}

func TestSubjectID(t *testing.T) {
    t.Parallel()

    tests := []struct {
        name string
        in   interface{}
        want uint64
        ok   bool
    }{
        {"float", float64(15), 15, true},
        {"numeric string", "15", 15, true},
        {"negative float", float64(-1), 0, false},
        {"garbage string", "abc", 0, false},
        {"nil", nil, 0, false},
    }
    for _, tt := range tests {
        t.Run(tt.name, func(t *testing.T) {
            got, ok := subjectID(tt.in)
            if got != tt.want || ok != tt.ok {
                t.Fatalf("subjectID(%v) = (%d, %v), want (%d, %v)", tt.in, got, ok, tt.want, tt.ok)
            }
        })
    }
}
