package middleware

import (
    "net/http"
    "net/http/httptest"
    "testing"

    "github.com/labstack/echo/v4"

    "github.com/fitclub/class-booking/internal/model"
)

func runRole(t *testing.T, p *model.Principal, allowed ...string) *httptest.ResponseRecorder {
    t.Helper()
    e := echo.New()
    req := httptest.NewRequest(http.MethodGet, "/", nil)
    rec := httptest.NewRecorder()
    c := e.NewContext(req, rec)
    if p != nil {
        c.Set(principalKey, p)
    }
    h := RequireRole(allowed...)(func(c echo.Context) error {
        return c.NoContent(http.StatusOK)
    })
    if err := h(c); err != nil {
        t.Fatalf("handler returned error: %v", err)
    }
    return rec
}

func TestRequireRole(t *testing.T) {
    t.Parallel()

    t.Run("allows listed role", func(t *testing.T) {
        rec := runRole(t, &model.Principal{ID: 1, Role: model.RoleMember}, model.RoleMember, model.RoleAdmin)
        if rec.Code != http.StatusOK {
            t.Fatalf("expected 200, got %d", rec.Code)
        }
    })

    t.Run("rejects missing principal", func(t *testing.T) {
        rec := runRole(t, nil, model.RoleMember)
        if rec.Code != http.StatusForbidden {
            t.Fatalf("expected 403, got %d", rec.Code)
        }
    })

    t.Run("rejects role outside the set", func(t *testing.T) {
        rec := runRole(t, &model.Principal{ID: 1, Role: model.RoleMember}, model.RoleAdmin)
        if rec.Code != http.StatusForbidden {
            t.Fatalf("expected 403, got %d", rec.Code)
        }
    })
}
