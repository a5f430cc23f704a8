package handler

import (
    "context"
    "database/sql"
    "errors"
    "net/http"
    "strconv"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/fitclub/class-booking/internal/booking"
    "github.com/fitclub/class-booking/internal/clock"
    "github.com/fitclub/class-booking/internal/middleware"
    "github.com/fitclub/class-booking/internal/model"
    "github.com/fitclub/class-booking/internal/queue"
    "github.com/fitclub/class-booking/internal/repository"
    queue_publisher "github.com/fitclub/class-booking/internal/service"
)

// BookingCoordinator is the slice of the coordinator the booking
// handlers need.  Declaring it here keeps the handlers testable with a
// stub while production wires in *booking.Coordinator.
type BookingCoordinator interface {
    RequestBooking(ctx context.Context, principal *model.Principal, sessionID uint64, notes string) (*model.Booking, error)
    CancelBooking(ctx context.Context, principal *model.Principal, bookingID uint64) error
}

// BookingHandler exposes the booking lifecycle over HTTP.  Every
// capacity decision is delegated to the coordinator; the handler only
// parses requests, maps the error taxonomy onto status codes and
// publishes lifecycle events after a successful commit.  JWT and role
// middleware have already run, so a missing principal here is an
// internal inconsistency, not a user error.
type BookingHandler struct {
    Coordinator BookingCoordinator
    BookingRepo *repository.BookingRepo // read-only display queries
    SessionRepo *repository.SessionRepo // event enrichment after commit
    BrokerURL   string                  // RabbitMQ URL; empty disables publishing
    Clock       clock.Clock             // timestamps on published events
}

// NewBookingHandler constructs a BookingHandler.  The coordinator,
// repos and clock must be non-nil.
func NewBookingHandler(coord BookingCoordinator, bookingRepo *repository.BookingRepo, sessionRepo *repository.SessionRepo, brokerURL string, clk clock.Clock) *BookingHandler {
    if coord == nil || bookingRepo == nil || sessionRepo == nil || clk == nil {
        panic("nil dependency passed to NewBookingHandler")
    }
    return &BookingHandler{
        Coordinator: coord,
        BookingRepo: bookingRepo,
        SessionRepo: sessionRepo,
        BrokerURL:   brokerURL,
        Clock:       clk,
    }
}

// writeBookingError maps the booking error taxonomy onto HTTP responses.
// Retryable infrastructure failures get 503 plus a retryable flag so
// clients know backing off and retrying is safe; every business-rule
// failure keeps its own 4xx.
func writeBookingError(c echo.Context, err error) error {
    switch {
    case errors.Is(err, booking.ErrUnauthenticated):
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    case errors.Is(err, booking.ErrForbidden):
        return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
    case errors.Is(err, booking.ErrSessionNotFound):
        return c.JSON(http.StatusNotFound, echo.Map{"error": "session not found"})
    case errors.Is(err, booking.ErrBookingNotFound):
        return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
    case errors.Is(err, booking.ErrSessionStarted):
        return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "session already started"})
    case errors.Is(err, booking.ErrSessionFull):
        return c.JSON(http.StatusConflict, echo.Map{"error": "session full"})
    case errors.Is(err, booking.ErrDuplicateBooking):
        return c.JSON(http.StatusConflict, echo.Map{"error": "already booked"})
    case errors.Is(err, booking.ErrAlreadyCancelled):
        return c.JSON(http.StatusConflict, echo.Map{"error": "booking already cancelled"})
    case booking.Retryable(err):
        return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "temporarily unavailable", "retryable": true})
    default:
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
    }
}

// CreateBooking handles POST /v1/sessions/:id/bookings.  It reserves a
// seat in the session for the authenticated member.  The request body
// may carry an optional JSON "notes" field.  On success it returns 201
// with the new booking; conflicts (full, duplicate), temporal cutoffs
// and missing sessions map to the statuses documented on
// writeBookingError.
func (h *BookingHandler) CreateBooking(c echo.Context) error {
    p := middleware.PrincipalFrom(c)
    if p == nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    sessionID, err := strconv.ParseUint(c.Param("id"), 10, 64)
    if err != nil || sessionID == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid session id"})
    }
    var body struct {
        Notes string `json:"notes"`
    }
    if err := c.Bind(&body); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }

    ctx := c.Request().Context()
    b, err := h.Coordinator.RequestBooking(ctx, p, sessionID, body.Notes)
    if err != nil {
        return writeBookingError(c, err)
    }

    h.publishConfirmed(ctx, b)

    resp := echo.Map{
        "id":         b.ID,
        "member_id":  b.MemberID,
        "session_id": b.SessionID,
        "status":     b.Status,
        "booked_at":  b.BookedAt.UTC().Format(time.RFC3339),
    }
    if b.Notes != nil {
        resp["notes"] = *b.Notes
    }
    return c.JSON(http.StatusCreated, resp)
}

// CancelBooking handles DELETE /v1/bookings/:id.  The caller must be
// the booking's owner or an admin, and the session must not have
// started.  Cancellation is idempotent in outcome but not in status:
// the second call gets 409 because the booking is already cancelled.
func (h *BookingHandler) CancelBooking(c echo.Context) error {
    p := middleware.PrincipalFrom(c)
    if p == nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    bookingID, err := strconv.ParseUint(c.Param("id"), 10, 64)
    if err != nil || bookingID == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
    }

    ctx := c.Request().Context()
    if err := h.Coordinator.CancelBooking(ctx, p, bookingID); err != nil {
        return writeBookingError(c, err)
    }

    h.publishCancelled(ctx, bookingID, p.ID)

    return c.NoContent(http.StatusNoContent)
}

// ListMyBookings handles GET /v1/my-bookings.  It returns all bookings
// made by the authenticated member, newest first, with session details
// attached.  Cancelled bookings are included; they are the member's
// history.
func (h *BookingHandler) ListMyBookings(c echo.Context) error {
    p := middleware.PrincipalFrom(c)
    if p == nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    details, err := h.BookingRepo.ListByMember(c.Request().Context(), p.ID)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load bookings"})
    }
    return c.JSON(http.StatusOK, echo.Map{"items": details})
}

// GetBooking handles GET /v1/bookings/:id.  Members may read their own
// bookings; admins may read any.  Bookings belonging to someone else
// respond 404 rather than 403 so booking IDs are not probeable.
func (h *BookingHandler) GetBooking(c echo.Context) error {
    p := middleware.PrincipalFrom(c)
    if p == nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    bookingID, err := strconv.ParseUint(c.Param("id"), 10, 64)
    if err != nil || bookingID == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
    }
    detail, err := h.BookingRepo.GetDetail(c.Request().Context(), bookingID)
    if err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch booking"})
    }
    if detail.MemberID != p.ID && !p.IsAdmin() {
        return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
    }
    return c.JSON(http.StatusOK, echo.Map{"item": detail})
}

// publishConfirmed enriches and publishes the confirmed event.  Event
// delivery is best effort: the booking already committed, so a broker
// outage must not fail the request.
func (h *BookingHandler) publishConfirmed(ctx context.Context, b *model.Booking) {
    if h.BrokerURL == "" {
        return
    }
    ev := queue.BookingConfirmedEvent{
        BookingID: b.ID,
        MemberID:  b.MemberID,
        SessionID: b.SessionID,
        BookedAt:  b.BookedAt.UTC().Format(time.RFC3339),
    }
    if s, err := h.SessionRepo.GetByID(ctx, b.SessionID); err == nil {
        ev.SessionTitle = s.Title
        ev.Instructor = s.Instructor
        ev.StartsAt = s.StartsAt.UTC().Format(time.RFC3339)
        ev.EndsAt = s.EndsAt.UTC().Format(time.RFC3339)
        ev.SeatsTaken = s.CurrentCapacity
        ev.MaxCapacity = s.MaxCapacity
    }
    _ = queue_publisher.PublishBookingConfirmed(ctx, h.BrokerURL, ev)
}

// publishCancelled enriches and publishes the cancelled event, best
// effort like publishConfirmed.
func (h *BookingHandler) publishCancelled(ctx context.Context, bookingID, cancelledBy uint64) {
    if h.BrokerURL == "" {
        return
    }
    detail, err := h.BookingRepo.GetDetail(ctx, bookingID)
    if err != nil {
        return
    }
    ev := cancelledEvent(detail, cancelledBy, h.Clock.Now())
    if s, err := h.SessionRepo.GetByID(ctx, detail.SessionID); err == nil {
        ev.SeatsTaken = s.CurrentCapacity
        ev.MaxCapacity = s.MaxCapacity
    }
    _ = queue_publisher.PublishBookingCancelled(ctx, h.BrokerURL, ev)
}

// cancelledEvent builds the cancellation event payload, stamped with
// the service clock rather than the wall clock directly.
func cancelledEvent(detail *repository.BookingDetail, cancelledBy uint64, now time.Time) queue.BookingCancelledEvent {
    return queue.BookingCancelledEvent{
        BookingID:    detail.ID,
        MemberID:     detail.MemberID,
        SessionID:    detail.SessionID,
        SessionTitle: detail.SessionTitle,
        CancelledBy:  cancelledBy,
        CancelledAt:  now.UTC().Format(time.RFC3339),
    }
}
