package middleware // reusable HTTP middleware for the booking API

import (
    "net/http"
    "strings"

    "github.com/golang-jwt/jwt/v5"
    "github.com/labstack/echo/v4"
)

// principalKey is the context key under which JWTAuth stores the
// authenticated caller.  Handlers read it back via PrincipalFrom.
const principalKey = "principal"

// JWTAuth returns an Echo middleware that validates a Bearer access
// token and injects the resulting principal into the request context.
// Token issuance happens in a separate identity service; this side only
// verifies the HS256 signature with the shared secret and extracts the
// subject and role claims.  Requests without a valid token are rejected
// with 401 before any handler runs, so handlers can treat a missing
// principal afterwards as an internal error rather than a user one.
func JWTAuth(secret string) echo.MiddlewareFunc {
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            auth := c.Request().Header.Get("Authorization")
            if !strings.HasPrefix(auth, "Bearer ") {
                return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing bearer token"})
            }
            raw := strings.TrimPrefix(auth, "Bearer ")

            // Pin the signing method to HMAC; a token signed any other
            // way is rejected regardless of its payload.
            tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
                if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
                    return nil, echo.ErrUnauthorized
                }
                return []byte(secret), nil
            })
            if err != nil || !tok.Valid {
                return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
            }

            claims, ok := tok.Claims.(jwt.MapClaims)
            if !ok {
                return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid claims"})
            }

            p, ok := principalFromClaims(claims)
            if !ok {
                return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid claims"})
            }
            c.Set(principalKey, p)
            return next(c)
        }
    }
}
