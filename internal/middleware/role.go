package middleware

import (
    "net/http"

    "github.com/labstack/echo/v4"
)

// RequireRole returns a middleware that enforces that the authenticated
// principal holds one of the specified roles.  The role values
// correspond to the JWT "role" claim (MEMBER or ADMIN).  It assumes
// JWTAuth ran earlier in the chain; requests whose principal is missing
// or whose role is not in the allowed set are aborted with 403.
func RequireRole(roles ...string) echo.MiddlewareFunc {
    // Build a set of allowed roles for constant-time lookups.
    allowed := make(map[string]bool, len(roles))
    for _, r := range roles {
        allowed[r] = true
    }
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            p := PrincipalFrom(c)
            if p == nil || !allowed[p.Role] {
                return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
            }
            return next(c)
        }
    }
}
