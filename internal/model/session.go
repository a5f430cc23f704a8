package model

import "time"

// Session represents a scheduled, capacity-limited class that members
// can reserve a seat in.  The current capacity column is the single
// source of truth for how many confirmed bookings exist; it is only
// ever mutated inside a transaction holding the session's row lock.
//
// Fields:
//  ID              – primary key identifier.
//  Title           – class title shown to members (e.g. "Morning Yoga").
//  Instructor      – display name of the instructor leading the class.
//  StartsAt        – when the session begins (UTC).
//  EndsAt          – when the session ends (must be after StartsAt).
//  MaxCapacity     – maximum number of confirmed bookings allowed.
//  CurrentCapacity – number of currently confirmed bookings (0..MaxCapacity).
//  CreatedAt       – creation timestamp.
//  UpdatedAt       – last update timestamp.
type Session struct {
    ID              uint64    // sessions.id
    Title           string    // sessions.title
    Instructor      string    // sessions.instructor
    StartsAt        time.Time // sessions.starts_at
    EndsAt          time.Time // sessions.ends_at
    MaxCapacity     uint32    // sessions.max_capacity
    CurrentCapacity uint32    // sessions.current_capacity
    CreatedAt       time.Time // sessions.created_at
    UpdatedAt       time.Time // sessions.updated_at
}

// Started reports whether the session has already begun at the given
// instant.  Both booking and cancellation are rejected once a session
// has started.
func (s *Session) Started(now time.Time) bool {
    return !now.Before(s.StartsAt)
}

// Full reports whether every seat in the session is taken.
func (s *Session) Full() bool {
    return s.CurrentCapacity >= s.MaxCapacity
}
