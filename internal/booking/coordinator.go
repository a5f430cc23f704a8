package booking

import (
    "context"
    "strings"

    "github.com/fitclub/class-booking/internal/clock"
    "github.com/fitclub/class-booking/internal/model"
)

// Store is the transactional facade the Coordinator drives.  The two
// With*Tx primitives open a transaction and take an exclusive lock on
// the named row before invoking fn; the lock is held until the
// transaction commits (fn returns nil) or rolls back (fn returns an
// error).  The remaining methods are only valid inside fn and operate
// on the same transaction, which implementations carry through the
// context they pass to fn.
//
// The contract gives strict per-session serialization: no two
// transactions observe or mutate one session's state concurrently,
// while unrelated sessions proceed in parallel.  Lock acquisition must
// be bounded; implementations surface a timeout as ErrUnavailable.
type Store interface {
    // WithSessionTx locks the session row exclusively and runs fn with
    // the locked snapshot.  Returns ErrSessionNotFound when absent.
    WithSessionTx(ctx context.Context, sessionID uint64, fn func(ctx context.Context, s *model.Session) error) error

    // WithBookingTx locks the booking row exclusively and runs fn with
    // the locked snapshot.  Returns ErrBookingNotFound when absent.
    WithBookingTx(ctx context.Context, bookingID uint64, fn func(ctx context.Context, b *model.Booking) error) error

    // LockSession acquires the exclusive lock on a session row inside
    // an already-open transaction.  Used by cancellation, which locks
    // the booking first and then its parent session.
    LockSession(ctx context.Context, sessionID uint64) (*model.Session, error)

    // HasConfirmed reports whether the member holds a confirmed booking
    // for the session, read under the enclosing transaction's snapshot.
    HasConfirmed(ctx context.Context, memberID, sessionID uint64) (bool, error)

    // InsertBooking persists a new booking and fills in its generated
    // ID and timestamps.
    InsertBooking(ctx context.Context, b *model.Booking) error

    // MarkCancelled flips the booking's status to CANCELLED.
    MarkCancelled(ctx context.Context, bookingID uint64) error

    // AdjustCapacity adds delta to the session's current capacity,
    // clamped to the range [0, max_capacity].
    AdjustCapacity(ctx context.Context, sessionID uint64, delta int) error
}

// Coordinator enforces the capacity and uniqueness invariants for
// session bookings.  Every mutation of session capacity or booking
// status in the whole service funnels through its two methods, each of
// which runs as a single all-or-nothing transaction: the first failing
// gate aborts with no side effect.
type Coordinator struct {
    store Store
    clock clock.Clock
}

// NewCoordinator constructs a Coordinator.  Both dependencies must be
// non-nil.
func NewCoordinator(store Store, clk clock.Clock) *Coordinator {
    if store == nil || clk == nil {
        panic("nil dependency passed to NewCoordinator")
    }
    return &Coordinator{store: store, clock: clk}
}

// RequestBooking reserves a seat in the session for the principal, who
// must hold the member role.  The gates run in order inside one
// transaction holding the session's row
// lock: the session must exist, must not have started, must have a free
// seat, and the member must not already hold a confirmed booking for
// it.  On success the capacity counter is incremented and the new
// CONFIRMED booking returned.
func (c *Coordinator) RequestBooking(ctx context.Context, principal *model.Principal, sessionID uint64, notes string) (*model.Booking, error) {
    if principal == nil {
        return nil, ErrUnauthenticated
    }
    // Seats belong to members.  Admins manage sessions and may cancel
    // on a member's behalf, but they do not book.
    if principal.Role != model.RoleMember {
        return nil, ErrForbidden
    }

    now := c.clock.Now()
    var created *model.Booking

    err := c.store.WithSessionTx(ctx, sessionID, func(txCtx context.Context, s *model.Session) error {
        if s.Started(now) {
            return ErrSessionStarted
        }
        if s.Full() {
            return ErrSessionFull
        }
        dup, err := c.store.HasConfirmed(txCtx, principal.ID, sessionID)
        if err != nil {
            return err
        }
        if dup {
            return ErrDuplicateBooking
        }

        if err := c.store.AdjustCapacity(txCtx, sessionID, +1); err != nil {
            return err
        }
        b := &model.Booking{
            MemberID:  principal.ID,
            SessionID: sessionID,
            Status:    model.StatusConfirmed,
            BookedAt:  now,
        }
        if trimmed := strings.TrimSpace(notes); trimmed != "" {
            b.Notes = &trimmed
        }
        if err := c.store.InsertBooking(txCtx, b); err != nil {
            return err
        }
        created = b
        return nil
    })
    if err != nil {
        return nil, err
    }
    return created, nil
}

// CancelBooking cancels the booking on behalf of the principal, who
// must be the owning member or an admin.  The booking row is locked
// first, then its parent session, mirroring the booking path's cutoff:
// a session that has already started can no longer be cancelled.  The
// capacity counter is decremented exactly once, when the booking being
// cancelled was still confirmed.
func (c *Coordinator) CancelBooking(ctx context.Context, principal *model.Principal, bookingID uint64) error {
    if principal == nil {
        return ErrUnauthenticated
    }

    now := c.clock.Now()

    return c.store.WithBookingTx(ctx, bookingID, func(txCtx context.Context, b *model.Booking) error {
        if b.MemberID != principal.ID && !principal.IsAdmin() {
            return ErrForbidden
        }
        if b.Status == model.StatusCancelled {
            return ErrAlreadyCancelled
        }

        s, err := c.store.LockSession(txCtx, b.SessionID)
        if err != nil {
            return err
        }
        if s.Started(now) {
            return ErrSessionStarted
        }

        if err := c.store.MarkCancelled(txCtx, b.ID); err != nil {
            return err
        }
        // A confirmed booking holds exactly one seat.
        return c.store.AdjustCapacity(txCtx, b.SessionID, -1)
    })
}
