package handler

import (
    "context"
    "encoding/json"
    "net/http"
    "testing"
    "time"

    "github.com/fitclub/class-booking/internal/booking"
    "github.com/fitclub/class-booking/internal/clock"
    "github.com/fitclub/class-booking/internal/model"
    "github.com/fitclub/class-booking/internal/repository"
)

// stubCapacityStore returns a canned result for UpdateMaxCapacity so
// the handler's status-code mapping can be tested without a database.
type stubCapacityStore struct {
    session *model.Session
    err     error

    gotSessionID uint64
    gotMax       uint32
}

func (s *stubCapacityStore) UpdateMaxCapacity(ctx context.Context, sessionID uint64, maxCapacity uint32) (*model.Session, error) {
    s.gotSessionID = sessionID
    s.gotMax = maxCapacity
    if s.err != nil {
        return nil, s.err
    }
    return s.session, nil
}

func TestUpdateCapacityStatusMapping(t *testing.T) {
    t.Parallel()

    tests := []struct {
        name string
        err  error
        code int
    }{
        {"session not found", booking.ErrSessionNotFound, http.StatusNotFound},
        {"below confirmed bookings", repository.ErrCapacityBelowBooked, http.StatusConflict},
        {"unavailable", booking.ErrUnavailable, http.StatusServiceUnavailable},
    }
    for _, tt := range tests {
        t.Run(tt.name, func(t *testing.T) {
            h := &AdminHandler{
                Store: &stubCapacityStore{err: tt.err},
                Clock: clock.NewFixed(time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)),
            }
            c, rec := newBookingContext(http.MethodPatch, "/v1/admin/sessions/1/capacity", `{"max_capacity":5}`, &model.Principal{ID: 99, Role: model.RoleAdmin})
            c.SetParamNames("id")
            c.SetParamValues("1")

            if err := h.UpdateCapacity(c); err != nil {
                t.Fatalf("handler returned error: %v", err)
            }
            if rec.Code != tt.code {
                t.Fatalf("expected %d, got %d (body %s)", tt.code, rec.Code, rec.Body.String())
            }
        })
    }
}

func TestUpdateCapacitySuccess(t *testing.T) {
    t.Parallel()

    now := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
    store := &stubCapacityStore{session: &model.Session{
        ID:              1,
        Title:           "Morning Yoga",
        StartsAt:        now.Add(time.Hour),
        EndsAt:          now.Add(2 * time.Hour),
        MaxCapacity:     5,
        CurrentCapacity: 3,
    }}
    h := &AdminHandler{Store: store, Clock: clock.NewFixed(now)}
    c, rec := newBookingContext(http.MethodPatch, "/v1/admin/sessions/1/capacity", `{"max_capacity":5}`, &model.Principal{ID: 99, Role: model.RoleAdmin})
    c.SetParamNames("id")
    c.SetParamValues("1")

    if err := h.UpdateCapacity(c); err != nil {
        t.Fatalf("handler returned error: %v", err)
    }
    if rec.Code != http.StatusOK {
        t.Fatalf("expected 200, got %d (body %s)", rec.Code, rec.Body.String())
    }
    if store.gotSessionID != 1 || store.gotMax != 5 {
        t.Fatalf("expected store call (1, 5), got (%d, %d)", store.gotSessionID, store.gotMax)
    }

    var resp struct {
        Item struct {
            MaxCapacity uint32 `json:"max_capacity"`
            SeatsLeft   uint32 `json:"seats_left"`
        } `json:"item"`
    }
    if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
        t.Fatalf("decoding response: %v", err)
    }
    if resp.Item.MaxCapacity != 5 || resp.Item.SeatsLeft != 2 {
        t.Fatalf("unexpected view: %+v", resp.Item)
    }
}

func TestUpdateCapacityRejectsBadInput(t *testing.T) {
    t.Parallel()

    h := &AdminHandler{Store: &stubCapacityStore{}, Clock: clock.NewFixed(time.Now())}

    t.Run("non-numeric session id", func(t *testing.T) {
        c, rec := newBookingContext(http.MethodPatch, "/v1/admin/sessions/abc/capacity", `{"max_capacity":5}`, &model.Principal{ID: 99, Role: model.RoleAdmin})
        c.SetParamNames("id")
        c.SetParamValues("abc")
        if err := h.UpdateCapacity(c); err != nil {
            t.Fatalf("handler returned error: %v", err)
        }
        if rec.Code != http.StatusBadRequest {
            t.Fatalf("expected 400, got %d", rec.Code)
        }
    })

    t.Run("zero max capacity", func(t *testing.T) {
        c, rec := newBookingContext(http.MethodPatch, "/v1/admin/sessions/1/capacity", `{"max_capacity":0}`, &model.Principal{ID: 99, Role: model.RoleAdmin})
        c.SetParamNames("id")
        c.SetParamValues("1")
        if err := h.UpdateCapacity(c); err != nil {
            t.Fatalf("handler returned error: %v", err)
        }
        if rec.Code != http.StatusBadRequest {
            t.Fatalf("expected 400, got %d", rec.Code)
        }
    })
}
