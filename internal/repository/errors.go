// Package repository implements the MySQL persistence layer: one repo
// per table plus the transactional Store facade consumed by the
// booking coordinator. Sentinel values defined here cover failures
// that belong to storage administration rather than the booking
// lifecycle; lifecycle errors live in the booking package.
package repository

import "errors"

// ErrCapacityBelowBooked is returned when an admin tries to lower a
// session's maximum capacity beneath the number of confirmed bookings
// it already holds. Handlers should translate this into an HTTP 409
// response.
var ErrCapacityBelowBooked = errors.New("max capacity below confirmed bookings")
