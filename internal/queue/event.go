// Package queue defines message payloads exchanged over the message broker
// and the background consumer that turns them into audit log lines.
package queue

// Queue names used for booking lifecycle events.  Routing keys equal
// queue names; the default exchange is used throughout.
const (
    BookingConfirmedQueue = "booking.confirmed"
    BookingCancelledQueue = "booking.cancelled"
)

// BookingConfirmedEvent is published after a booking transaction commits.
// It carries enough denormalized information for downstream consumers to
// log or notify without querying the primary database.
type BookingConfirmedEvent struct {
    BookingID    uint64 `json:"booking_id"`
    MemberID     uint64 `json:"member_id"`
    SessionID    uint64 `json:"session_id"`
    SessionTitle string `json:"session_title"`
    Instructor   string `json:"instructor"`
    StartsAt     string `json:"starts_at"`
    EndsAt       string `json:"ends_at"`
    SeatsTaken   uint32 `json:"seats_taken"`
    MaxCapacity  uint32 `json:"max_capacity"`
    BookedAt     string `json:"booked_at"`
}

// BookingCancelledEvent is published after a cancellation commits.  The
// freed capacity lets consumers (a future waitlist, for instance) react
// without another read.
type BookingCancelledEvent struct {
    BookingID    uint64 `json:"booking_id"`
    MemberID     uint64 `json:"member_id"`
    SessionID    uint64 `json:"session_id"`
    SessionTitle string `json:"session_title"`
    SeatsTaken   uint32 `json:"seats_taken"`
    MaxCapacity  uint32 `json:"max_capacity"`
    CancelledBy  uint64 `json:"cancelled_by"`
    CancelledAt  string `json:"cancelled_at"`
}
