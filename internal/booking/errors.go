// Package booking contains the Capacity Coordinator, the only code path
// allowed to mutate session capacity and booking status.  All checks and
// writes of a single request run inside one storage transaction; the
// sentinel errors below classify every way such a request can fail.
package booking

import "errors"

var (
    // ErrUnauthenticated is returned when no principal accompanies the
    // request.  Handlers translate this into HTTP 401.
    ErrUnauthenticated = errors.New("unauthenticated")

    // ErrForbidden is returned when the principal is authenticated but
    // not permitted: booking without the member role, or cancelling a
    // booking owned by someone else without the admin role.  HTTP 403.
    ErrForbidden = errors.New("forbidden")

    // ErrSessionNotFound is returned when the referenced session does
    // not exist.  HTTP 404.
    ErrSessionNotFound = errors.New("session not found")

    // ErrBookingNotFound is returned when the referenced booking does
    // not exist.  HTTP 404.
    ErrBookingNotFound = errors.New("booking not found")

    // ErrSessionStarted is returned when the session's start time has
    // passed.  Both booking and cancellation are rejected after the
    // cutoff.  HTTP 422.
    ErrSessionStarted = errors.New("session already started")

    // ErrSessionFull is returned when every seat in the session is
    // already confirmed.  HTTP 409.
    ErrSessionFull = errors.New("session full")

    // ErrDuplicateBooking is returned when the member already holds a
    // confirmed booking for the session.  HTTP 409.
    ErrDuplicateBooking = errors.New("duplicate booking")

    // ErrAlreadyCancelled is returned when the booking was cancelled by
    // an earlier request.  HTTP 409.
    ErrAlreadyCancelled = errors.New("booking already cancelled")

    // ErrUnavailable classifies infrastructure failures: lock-wait
    // timeouts, dead connections, broker outages.  Unlike every other
    // error in this package it is safe to retry with backoff, because
    // the failing transaction rolled back without leaving partial
    // state.  Storage implementations wrap the underlying cause.
    ErrUnavailable = errors.New("storage unavailable")
)

// Retryable reports whether the error is an infrastructure failure that
// a caller may retry without changing the request.  Business-rule
// failures (full, duplicate, started, not found, forbidden) are never
// retryable.
func Retryable(err error) bool {
    return errors.Is(err, ErrUnavailable)
}
