package handler

import (
    "context"
    "errors"
    "net/http"
    "strconv"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/fitclub/class-booking/internal/booking"
    "github.com/fitclub/class-booking/internal/clock"
    "github.com/fitclub/class-booking/internal/model"
    "github.com/fitclub/class-booking/internal/repository"
)

// CapacityStore is the slice of the store the admin handlers need:
// resizing a session's maximum under its row lock.  Production wires in
// *repository.Store; tests may stub it.
type CapacityStore interface {
    UpdateMaxCapacity(ctx context.Context, sessionID uint64, maxCapacity uint32) (*model.Session, error)
}

// AdminHandler bundles the session management operations reserved for
// the ADMIN role: creating sessions, resizing their capacity and
// inspecting their booking history.  Capacity resizing goes through the
// store so it runs under the session's row lock and cannot race an
// in-flight booking.
type AdminHandler struct {
    SessionRepo *repository.SessionRepo
    BookingRepo *repository.BookingRepo
    Store       CapacityStore
    Clock       clock.Clock
}

// NewAdminHandler constructs an AdminHandler and panics if any
// dependency is nil.
func NewAdminHandler(sessionRepo *repository.SessionRepo, bookingRepo *repository.BookingRepo, store CapacityStore, clk clock.Clock) *AdminHandler {
    if sessionRepo == nil || bookingRepo == nil || store == nil || clk == nil {
        panic("nil dependency passed to NewAdminHandler")
    }
    return &AdminHandler{SessionRepo: sessionRepo, BookingRepo: bookingRepo, Store: store, Clock: clk}
}

// CreateSession handles POST /v1/admin/sessions.  The body must carry a
// title, instructor, RFC3339 start/end instants and a positive maximum
// capacity.  Sessions always start empty; the capacity counter is owned
// by the coordinator from then on.
func (h *AdminHandler) CreateSession(c echo.Context) error {
    var body struct {
        Title       string `json:"title"`
        Instructor  string `json:"instructor"`
        StartsAt    string `json:"starts_at"`
        EndsAt      string `json:"ends_at"`
        MaxCapacity uint32 `json:"max_capacity"`
    }
    if err := c.Bind(&body); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    if body.Title == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "title is required"})
    }
    if body.MaxCapacity == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "max_capacity must be positive"})
    }
    startsAt, err := time.Parse(time.RFC3339, body.StartsAt)
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid starts_at"})
    }
    endsAt, err := time.Parse(time.RFC3339, body.EndsAt)
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid ends_at"})
    }
    if !startsAt.Before(endsAt) {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "starts_at must be before ends_at"})
    }
    if startsAt.Before(h.Clock.Now()) {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "starts_at is in the past"})
    }

    s := &model.Session{
        Title:       body.Title,
        Instructor:  body.Instructor,
        StartsAt:    startsAt.UTC(),
        EndsAt:      endsAt.UTC(),
        MaxCapacity: body.MaxCapacity,
    }
    if err := h.SessionRepo.Create(c.Request().Context(), s); err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create session"})
    }
    return c.JSON(http.StatusCreated, echo.Map{"item": viewOf(s, h.Clock.Now())})
}

// UpdateCapacity handles PATCH /v1/admin/sessions/:id/capacity.  The
// new maximum may raise or lower the ceiling but can never undercut
// the confirmed bookings already held; that is a 409, not a silent
// clamp.
func (h *AdminHandler) UpdateCapacity(c echo.Context) error {
    id, err := strconv.ParseUint(c.Param("id"), 10, 64)
    if err != nil || id == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid session id"})
    }
    var body struct {
        MaxCapacity uint32 `json:"max_capacity"`
    }
    if err := c.Bind(&body); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    if body.MaxCapacity == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "max_capacity must be positive"})
    }

    s, err := h.Store.UpdateMaxCapacity(c.Request().Context(), id, body.MaxCapacity)
    if err != nil {
        switch {
        case errors.Is(err, booking.ErrSessionNotFound):
            return c.JSON(http.StatusNotFound, echo.Map{"error": "session not found"})
        case errors.Is(err, repository.ErrCapacityBelowBooked):
            return c.JSON(http.StatusConflict, echo.Map{"error": "max_capacity below confirmed bookings"})
        case booking.Retryable(err):
            return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "temporarily unavailable", "retryable": true})
        default:
            return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update capacity"})
        }
    }
    return c.JSON(http.StatusOK, echo.Map{"item": viewOf(s, h.Clock.Now())})
}

// ListSessionBookings handles GET /v1/admin/sessions/:id/bookings.  It
// returns the full booking history for a session, cancelled entries
// included, newest first.
func (h *AdminHandler) ListSessionBookings(c echo.Context) error {
    id, err := strconv.ParseUint(c.Param("id"), 10, 64)
    if err != nil || id == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid session id"})
    }
    details, err := h.BookingRepo.ListBySession(c.Request().Context(), id)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load bookings"})
    }
    return c.JSON(http.StatusOK, echo.Map{"items": details})
}
