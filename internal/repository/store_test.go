package repository

import (
    "context"
    "database/sql/driver"
    "errors"
    "fmt"
    "testing"

    "github.com/go-sql-driver/mysql"

    "github.com/fitclub/class-booking/internal/booking"
)

func TestClassify(t *testing.T) {
    t.Parallel()

    tests := []struct {
        name      string
        err       error
        retryable bool
    }{
        {
            name:      "lock wait timeout",
            err:       &mysql.MySQLError{Number: mysqlErrLockWaitTimeout, Message: "Lock wait timeout exceeded"},
            retryable: true,
        },
        {
            name:      "deadlock victim",
            err:       &mysql.MySQLError{Number: mysqlErrDeadlock, Message: "Deadlock found when trying to get lock"},
            retryable: true,
        },
        {
            name:      "wrapped lock wait timeout",
            err:       fmt.Errorf("lock session: %w", &mysql.MySQLError{Number: mysqlErrLockWaitTimeout}),
            retryable: true,
        },
        {
            name:      "bad connection",
            err:       driver.ErrBadConn,
            retryable: true,
        },
        {
            name:      "invalid connection",
            err:       mysql.ErrInvalidConn,
            retryable: true,
        },
        {
            name:      "context deadline",
            err:       context.DeadlineExceeded,
            retryable: true,
        },
        {
            name:      "duplicate key passes through",
            err:       &mysql.MySQLError{Number: 1062, Message: "Duplicate entry"},
            retryable: false,
        },
        {
            name:      "plain error passes through",
            err:       errors.New("boom"),
            retryable: false,
        },
    }
    for _, tt := range tests {
        t.Run(tt.name, func(t *testing.T) {
            got := classify(tt.err)
            if booking.Retryable(got) != tt.retryable {
                t.Fatalf("classify(%v) retryable = %v, want %v", tt.err, !tt.retryable, tt.retryable)
            }
            // The original cause must stay reachable for logging.
            if tt.retryable && !errors.Is(got, booking.ErrUnavailable) {
                t.Fatalf("classify(%v) = %v, want wrapped ErrUnavailable", tt.err, got)
            }
        })
    }

    if classify(nil) != nil {
        t.Fatalf("classify(nil) should stay nil")
    }
}

func TestClassifyKeepsMySQLNumber(t *testing.T) {
    t.Parallel()

    src := &mysql.MySQLError{Number: mysqlErrDeadlock, Message: "Deadlock found"}
    got := classify(src)

    var myErr *mysql.MySQLError
    if !errors.As(got, &myErr) || myErr.Number != mysqlErrDeadlock {
        t.Fatalf("classified error lost the MySQL error number: %v", got)
    }
}
