package queue

import "testing"

func TestStartBookingConsumerRequiresURL(t *testing.T) {
    // An unset broker URL disables the event pipeline; the consumer
    // must bail out instead of entering its reconnect loop.
    if err := StartBookingConsumer(""); err == nil {
        t.Fatalf("expected an error for an empty broker URL")
    }
}
