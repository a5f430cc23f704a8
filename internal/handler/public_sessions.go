package handler

import (
    "database/sql"
    "errors"
    "net/http"
    "strconv"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/fitclub/class-booking/internal/clock"
    "github.com/fitclub/class-booking/internal/model"
    "github.com/fitclub/class-booking/internal/repository"
)

// PublicHandler exposes the session catalogue without authentication so
// prospective members can browse classes before booking.  Responses are
// snapshot reads outside any transaction; the remaining-seat numbers
// are advisory and only the coordinator's locked transaction decides
// admission.
type PublicHandler struct {
    SessionRepo *repository.SessionRepo
    Clock       clock.Clock
}

// NewPublicHandler constructs a PublicHandler.
func NewPublicHandler(sessionRepo *repository.SessionRepo, clk clock.Clock) *PublicHandler {
    if sessionRepo == nil || clk == nil {
        panic("nil dependency passed to NewPublicHandler")
    }
    return &PublicHandler{SessionRepo: sessionRepo, Clock: clk}
}

// sessionView is the public JSON shape of a session.  It exposes the
// remaining seats instead of the raw counter pair.
type sessionView struct {
    ID          uint64 `json:"id"`
    Title       string `json:"title"`
    Instructor  string `json:"instructor"`
    StartsAt    string `json:"starts_at"`
    EndsAt      string `json:"ends_at"`
    MaxCapacity uint32 `json:"max_capacity"`
    SeatsLeft   uint32 `json:"seats_left"`
    Started     bool   `json:"started"`
}

func viewOf(s *model.Session, now time.Time) sessionView {
    left := uint32(0)
    if s.MaxCapacity > s.CurrentCapacity {
        left = s.MaxCapacity - s.CurrentCapacity
    }
    return sessionView{
        ID:          s.ID,
        Title:       s.Title,
        Instructor:  s.Instructor,
        StartsAt:    s.StartsAt.UTC().Format(time.RFC3339),
        EndsAt:      s.EndsAt.UTC().Format(time.RFC3339),
        MaxCapacity: s.MaxCapacity,
        SeatsLeft:   left,
        Started:     s.Started(now),
    }
}

// ListSessions handles GET /v1/sessions.  It returns upcoming sessions
// ordered by start time.  The optional ?limit query parameter bounds
// the page size.
func (h *PublicHandler) ListSessions(c echo.Context) error {
    limit := 50
    if raw := c.QueryParam("limit"); raw != "" {
        if n, err := strconv.Atoi(raw); err == nil {
            limit = n
        }
    }
    now := h.Clock.Now()
    sessions, err := h.SessionRepo.ListUpcoming(c.Request().Context(), now, limit)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load sessions"})
    }
    items := make([]sessionView, 0, len(sessions))
    for i := range sessions {
        items = append(items, viewOf(&sessions[i], now))
    }
    return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// GetSession handles GET /v1/sessions/:id.  Past sessions remain
// readable; they just carry started=true and cannot be booked.
func (h *PublicHandler) GetSession(c echo.Context) error {
    id, err := strconv.ParseUint(c.Param("id"), 10, 64)
    if err != nil || id == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid session id"})
    }
    s, err := h.SessionRepo.GetByID(c.Request().Context(), id)
    if err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "session not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch session"})
    }
    return c.JSON(http.StatusOK, echo.Map{"item": viewOf(s, h.Clock.Now())})
}
