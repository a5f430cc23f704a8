package queue

import (
    "encoding/json"
    "errors"
    "fmt"
    "log"
    "os"
    "path/filepath"
    "time"

    amqp "github.com/rabbitmq/amqp091-go"
)

// StartBookingConsumer connects to RabbitMQ, declares the booking event
// queues (durable), and starts consuming messages. Each message is appended
// to logs/booking.log in a single-line, human-friendly format, giving an
// append-only audit trail beside the database. The function runs a
// reconnect loop with exponential backoff; it keeps running and logs any
// processing errors while rejecting the offending message so the server
// continues operating.  An empty url means the event pipeline is
// disabled; the function returns immediately instead of retrying
// against a broker that was never configured.
func StartBookingConsumer(url string) error {
    if url == "" {
        return errors.New("booking-consumer: no broker URL configured")
    }

    backoff := time.Second
    for {
        conn, err := amqp.Dial(url)
        if err != nil {
            log.Printf("booking-consumer: failed to dial broker: %v; retrying in %s", err, backoff)
            time.Sleep(backoff)
            if backoff < 30*time.Second {
                backoff *= 2
            }
            continue
        }
        backoff = time.Second // reset after successful connect

        if err := consumeLoop(conn); err != nil {
            log.Printf("booking-consumer: consume loop ended: %v; reconnecting", err)
            time.Sleep(2 * time.Second)
            continue
        }
    }
}

func consumeLoop(conn *amqp.Connection) error {
    ch, err := conn.Channel()
    if err != nil {
        return fmt.Errorf("channel open: %w", err)
    }
    defer func() { _ = ch.Close() }()

    if err := ch.Qos(50, 0, false); err != nil {
        log.Printf("booking-consumer: set QoS failed: %v", err)
    }

    for _, name := range []string{BookingConfirmedQueue, BookingCancelledQueue} {
        if _, err := ch.QueueDeclare(name, true, false, false, false, nil); err != nil {
            return fmt.Errorf("queue declare %s: %w", name, err)
        }
    }

    confirmed, err := ch.Consume(BookingConfirmedQueue, "", false, false, false, false, nil)
    if err != nil {
        return fmt.Errorf("queue consume %s: %w", BookingConfirmedQueue, err)
    }
    cancelled, err := ch.Consume(BookingCancelledQueue, "", false, false, false, false, nil)
    if err != nil {
        return fmt.Errorf("queue consume %s: %w", BookingCancelledQueue, err)
    }

    for {
        var d amqp.Delivery
        var ok bool
        select {
        case d, ok = <-confirmed:
        case d, ok = <-cancelled:
        }
        if !ok {
            return errors.New("deliveries channel closed")
        }
        if err := handleMessage(d.RoutingKey, d.Body); err != nil {
            log.Printf("booking-consumer: handle message failed: %v", err)
            _ = d.Nack(false, false) // reject, do not requeue to avoid tight loops
            continue
        }
        _ = d.Ack(false)
    }
}

func handleMessage(routingKey string, body []byte) error {
    var line string
    switch routingKey {
    case BookingConfirmedQueue:
        var ev BookingConfirmedEvent
        if err := json.Unmarshal(body, &ev); err != nil {
            return fmt.Errorf("unmarshal: %w", err)
        }
        line = fmt.Sprintf("[%s] Booking confirmed | booking_id=%d | member_id=%d | session_id=%d | class=%q | instructor=%q | starts_at=%s | seats=%d/%d\n",
            ev.BookedAt, ev.BookingID, ev.MemberID, ev.SessionID, ev.SessionTitle, ev.Instructor, ev.StartsAt, ev.SeatsTaken, ev.MaxCapacity)
    case BookingCancelledQueue:
        var ev BookingCancelledEvent
        if err := json.Unmarshal(body, &ev); err != nil {
            return fmt.Errorf("unmarshal: %w", err)
        }
        line = fmt.Sprintf("[%s] Booking cancelled | booking_id=%d | member_id=%d | session_id=%d | class=%q | cancelled_by=%d | seats=%d/%d\n",
            ev.CancelledAt, ev.BookingID, ev.MemberID, ev.SessionID, ev.SessionTitle, ev.CancelledBy, ev.SeatsTaken, ev.MaxCapacity)
    default:
        return fmt.Errorf("unknown routing key %q", routingKey)
    }

    // Ensure logs directory exists
    if err := os.MkdirAll("logs", 0o755); err != nil {
        return fmt.Errorf("mkdir logs: %w", err)
    }
    fpath := filepath.Join("logs", "booking.log")
    f, err := os.OpenFile(fpath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
    if err != nil {
        return fmt.Errorf("open log file: %w", err)
    }
    defer f.Close()

    if _, err := f.WriteString(line); err != nil {
        return fmt.Errorf("write log: %w", err)
    }
    return nil
}
