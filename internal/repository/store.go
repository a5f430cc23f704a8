package repository

import (
    "context"
    "database/sql"
    "database/sql/driver"
    "errors"
    "fmt"
    "time"

    "github.com/go-sql-driver/mysql"

    "github.com/fitclub/class-booking/internal/booking"
    "github.com/fitclub/class-booking/internal/model"
)

// MySQL server error numbers that indicate a transient condition the
// caller may retry: lock wait timeout and deadlock victim selection.
const (
    mysqlErrLockWaitTimeout = 1205
    mysqlErrDeadlock        = 1213
)

// Store implements booking.Store on top of MySQL.  Each With*Tx call
// opens one transaction, bounds its lock waits, and carries the *sql.Tx
// through the context handed to the closure so the tx-scoped methods
// join the same transaction.  Exclusive row access is SELECT ... FOR
// UPDATE; InnoDB blocks conflicting lockers until commit or rollback,
// which serializes all booking traffic per session while leaving
// unrelated sessions fully parallel.
type Store struct {
    db       *sql.DB
    sessions *SessionRepo
    bookings *BookingRepo
    lockWait time.Duration
}

// NewStore builds a Store from the shared DB handle and repos.
// lockWait bounds how long a transaction waits for a conflicting row
// lock before failing with a retryable error; zero keeps the server
// default.
func NewStore(db *sql.DB, sessions *SessionRepo, bookings *BookingRepo, lockWait time.Duration) *Store {
    if db == nil || sessions == nil || bookings == nil {
        panic("nil dependency passed to NewStore")
    }
    return &Store{db: db, sessions: sessions, bookings: bookings, lockWait: lockWait}
}

type txKey struct{}

func txFromContext(ctx context.Context) *sql.Tx {
    tx, _ := ctx.Value(txKey{}).(*sql.Tx)
    return tx
}

// errNoTx signals a programming error: a tx-scoped Store method was
// called outside a With*Tx closure.
var errNoTx = errors.New("repository: no transaction in context")

func (s *Store) withTx(ctx context.Context, fn func(ctx context.Context, tx *sql.Tx) error) error {
    tx, err := s.db.BeginTx(ctx, nil)
    if err != nil {
        return classify(err)
    }
    if secs := int(s.lockWait / time.Second); secs > 0 {
        if _, err := tx.ExecContext(ctx, `SET innodb_lock_wait_timeout = ?`, secs); err != nil {
            _ = tx.Rollback()
            return classify(err)
        }
    }
    txCtx := context.WithValue(ctx, txKey{}, tx)
    if err := fn(txCtx, tx); err != nil {
        _ = tx.Rollback()
        return err
    }
    if err := tx.Commit(); err != nil {
        return classify(err)
    }
    return nil
}

// WithSessionTx locks the session row and runs fn with the locked
// snapshot inside a single transaction.
func (s *Store) WithSessionTx(ctx context.Context, sessionID uint64, fn func(ctx context.Context, sess *model.Session) error) error {
    return s.withTx(ctx, func(txCtx context.Context, tx *sql.Tx) error {
        sess, err := s.sessions.LockByIDTx(txCtx, tx, sessionID)
        if err != nil {
            if errors.Is(err, sql.ErrNoRows) {
                return booking.ErrSessionNotFound
            }
            return classify(err)
        }
        return fn(txCtx, sess)
    })
}

// WithBookingTx locks the booking row and runs fn with the locked
// snapshot inside a single transaction.
func (s *Store) WithBookingTx(ctx context.Context, bookingID uint64, fn func(ctx context.Context, b *model.Booking) error) error {
    return s.withTx(ctx, func(txCtx context.Context, tx *sql.Tx) error {
        b, err := s.bookings.LockByIDTx(txCtx, tx, bookingID)
        if err != nil {
            if errors.Is(err, sql.ErrNoRows) {
                return booking.ErrBookingNotFound
            }
            return classify(err)
        }
        return fn(txCtx, b)
    })
}

// LockSession acquires the session row lock inside the transaction
// already carried by ctx.
func (s *Store) LockSession(ctx context.Context, sessionID uint64) (*model.Session, error) {
    tx := txFromContext(ctx)
    if tx == nil {
        return nil, errNoTx
    }
    sess, err := s.sessions.LockByIDTx(ctx, tx, sessionID)
    if err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return nil, booking.ErrSessionNotFound
        }
        return nil, classify(err)
    }
    return sess, nil
}

// HasConfirmed reports whether the member already holds a confirmed
// booking for the session, within the enclosing transaction.
func (s *Store) HasConfirmed(ctx context.Context, memberID, sessionID uint64) (bool, error) {
    tx := txFromContext(ctx)
    if tx == nil {
        return false, errNoTx
    }
    ok, err := s.bookings.HasConfirmedTx(ctx, tx, memberID, sessionID)
    if err != nil {
        return false, classify(err)
    }
    return ok, nil
}

// InsertBooking persists a new booking within the enclosing transaction.
func (s *Store) InsertBooking(ctx context.Context, b *model.Booking) error {
    tx := txFromContext(ctx)
    if tx == nil {
        return errNoTx
    }
    if err := s.bookings.InsertTx(ctx, tx, b); err != nil {
        return classify(err)
    }
    return nil
}

// MarkCancelled flips a booking to CANCELLED within the enclosing
// transaction.
func (s *Store) MarkCancelled(ctx context.Context, bookingID uint64) error {
    tx := txFromContext(ctx)
    if tx == nil {
        return errNoTx
    }
    if err := s.bookings.MarkCancelledTx(ctx, tx, bookingID); err != nil {
        return classify(err)
    }
    return nil
}

// AdjustCapacity adds delta to the session's capacity counter within
// the enclosing transaction, clamped to [0, max_capacity].
func (s *Store) AdjustCapacity(ctx context.Context, sessionID uint64, delta int) error {
    tx := txFromContext(ctx)
    if tx == nil {
        return errNoTx
    }
    if err := s.sessions.AdjustCapacityTx(ctx, tx, sessionID, delta); err != nil {
        return classify(err)
    }
    return nil
}

// UpdateMaxCapacity changes a session's maximum capacity in its own
// transaction, holding the session's row lock so the guard against
// undercutting confirmed bookings cannot race an in-flight booking.
// The confirmed count is recomputed from the ledger rather than read
// from the denormalized counter.
func (s *Store) UpdateMaxCapacity(ctx context.Context, sessionID uint64, maxCapacity uint32) (*model.Session, error) {
    var updated *model.Session
    err := s.WithSessionTx(ctx, sessionID, func(txCtx context.Context, sess *model.Session) error {
        tx := txFromContext(txCtx)
        confirmed, err := s.bookings.CountConfirmedTx(txCtx, tx, sessionID)
        if err != nil {
            return classify(err)
        }
        if maxCapacity < confirmed {
            return ErrCapacityBelowBooked
        }
        if err := s.sessions.UpdateMaxCapacityTx(txCtx, tx, sessionID, maxCapacity); err != nil {
            return classify(err)
        }
        sess.MaxCapacity = maxCapacity
        updated = sess
        return nil
    })
    if err != nil {
        return nil, err
    }
    return updated, nil
}

// classify wraps transient driver failures in booking.ErrUnavailable so
// callers can tell retryable infrastructure errors from everything
// else.  Non-transient errors pass through unchanged.
func classify(err error) error {
    if err == nil {
        return nil
    }
    var myErr *mysql.MySQLError
    if errors.As(err, &myErr) {
        switch myErr.Number {
        case mysqlErrLockWaitTimeout, mysqlErrDeadlock:
            return fmt.Errorf("%w: %v", booking.ErrUnavailable, err)
        }
        return err
    }
    if errors.Is(err, driver.ErrBadConn) ||
        errors.Is(err, mysql.ErrInvalidConn) ||
        errors.Is(err, context.DeadlineExceeded) {
        return fmt.Errorf("%w: %v", booking.ErrUnavailable, err)
    }
    return err
}
