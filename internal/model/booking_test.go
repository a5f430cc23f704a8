package model

import "testing"

func TestBookingStatusValid(t *testing.T) {
    if !StatusConfirmed.Valid() || !StatusCancelled.Valid() {
        t.Fatalf("known statuses must be valid")
    }
    if BookingStatus("PENDING").Valid() {
        t.Fatalf("unknown status must not be valid")
    }
}

func TestBookingStatusTransitions(t *testing.T) {
    if !StatusConfirmed.CanTransitionTo(StatusCancelled) {
        t.Fatalf("CONFIRMED -> CANCELLED must be allowed")
    }
    if StatusCancelled.CanTransitionTo(StatusConfirmed) {
        t.Fatalf("CANCELLED is terminal; re-confirming must be rejected")
    }
    if StatusConfirmed.CanTransitionTo(StatusConfirmed) {
        t.Fatalf("self transition must be rejected")
    }
}
