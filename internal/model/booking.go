package model

import "time"

// BookingStatus enumerates the lifecycle states of a booking.  The set
// is closed: a booking starts CONFIRMED and may only move to CANCELLED,
// which is terminal.  Using a dedicated type instead of a raw string
// keeps invalid states out of the rest of the codebase.
type BookingStatus string

const (
    // StatusConfirmed is the initial state of every booking and counts
    // against the session's capacity.
    StatusConfirmed BookingStatus = "CONFIRMED"
    // StatusCancelled is terminal; cancelled bookings are kept for
    // auditing and never deleted or re-confirmed.
    StatusCancelled BookingStatus = "CANCELLED"
)

// Valid reports whether the status is one of the known lifecycle states.
func (s BookingStatus) Valid() bool {
    return s == StatusConfirmed || s == StatusCancelled
}

// CanTransitionTo reports whether moving from s to next is a legal
// lifecycle transition.  The only permitted move is CONFIRMED to
// CANCELLED.
func (s BookingStatus) CanTransitionTo(next BookingStatus) bool {
    return s == StatusConfirmed && next == StatusCancelled
}

// Booking records a member's reservation against a session.  A
// cancellation flips Status to CANCELLED; the row itself is immutable
// history from then on.
//
// Fields:
//  ID        – primary key identifier, assigned at creation.
//  MemberID  – member who made the booking.
//  SessionID – session the seat was reserved in.
//  Status    – lifecycle state (CONFIRMED or CANCELLED).
//  BookedAt  – when the booking was created (UTC).
//  Notes     – optional free text supplied by the member (nullable).
//  CreatedAt – creation timestamp.
//  UpdatedAt – last update timestamp.
type Booking struct {
    ID        uint64        // bookings.id
    MemberID  uint64        // bookings.member_id
    SessionID uint64        // bookings.session_id
    Status    BookingStatus // bookings.status
    BookedAt  time.Time     // bookings.booked_at
    Notes     *string       // bookings.notes (nullable)
    CreatedAt time.Time     // bookings.created_at
    UpdatedAt time.Time     // bookings.updated_at
}
