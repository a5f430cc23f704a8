package middleware

// identity.go holds the helpers shared between middleware and handlers
// for reading the authenticated principal out of the request context.
// JSON numbers arrive from jwt.MapClaims as float64, so claim
// extraction tolerates the numeric and string encodings an identity
// service might emit for the subject.

import (
    "strconv"

    "github.com/golang-jwt/jwt/v5"
    "github.com/labstack/echo/v4"

    "github.com/fitclub/class-booking/internal/model"
)

// PrincipalFrom returns the principal stored by JWTAuth, or nil when
// the request was not authenticated.
func PrincipalFrom(c echo.Context) *model.Principal {
    p, _ := c.Get(principalKey).(*model.Principal)
    return p
}

// principalFromClaims builds a Principal from validated token claims.
// It returns false when the subject or role claim is missing or
// malformed.
func principalFromClaims(claims jwt.MapClaims) (*model.Principal, bool) {
    id, ok := subjectID(claims["sub"])
    if !ok || id == 0 {
        return nil, false
    }
    role, ok := claims["role"].(string)
    if !ok || role == "" {
        return nil, false
    }
    return &model.Principal{ID: id, Role: role}, true
}

func subjectID(v interface{}) (uint64, bool) {
    switch t := v.(type) {
    case float64:
        if t < 0 {
            return 0, false
        }
        return uint64(t), true
    case string:
        if n, err := strconv.ParseUint(t, 10, 64); err == nil {
            return n, true
        }
    }
    return 0, false
}
