package repository

import (
    "context"
    "database/sql"
    "time"

    "github.com/fitclub/class-booking/internal/model"
)

// SessionRepo provides persistence for class sessions.  Reads outside a
// transaction are plain snapshot queries; every mutation of the
// capacity counter goes through the Tx variants so it happens under the
// session's exclusive row lock.  All timestamps are stored in UTC.
type SessionRepo struct {
    db *sql.DB
}

// NewSessionRepo returns a SessionRepo bound to the given database.
func NewSessionRepo(db *sql.DB) *SessionRepo { return &SessionRepo{db: db} }

// DB exposes the underlying handle so callers can begin transactions.
func (r *SessionRepo) DB() *sql.DB { return r.db }

const sessionColumns = `id, title, instructor, starts_at, ends_at, max_capacity, current_capacity, created_at, updated_at`

func scanSession(row *sql.Row) (*model.Session, error) {
    var s model.Session
    err := row.Scan(
        &s.ID, &s.Title, &s.Instructor, &s.StartsAt, &s.EndsAt,
        &s.MaxCapacity, &s.CurrentCapacity, &s.CreatedAt, &s.UpdatedAt,
    )
    if err != nil {
        return nil, err
    }
    return &s, nil
}

// Create inserts a new session and populates the generated ID and
// timestamps on the provided record.  New sessions start with a zero
// current capacity regardless of the value passed in.
func (r *SessionRepo) Create(ctx context.Context, s *model.Session) error {
    const q = `INSERT INTO sessions (title, instructor, starts_at, ends_at, max_capacity, current_capacity)
               VALUES (?, ?, ?, ?, ?, 0)`
    result, err := r.db.ExecContext(ctx, q,
        s.Title, s.Instructor, s.StartsAt.UTC(), s.EndsAt.UTC(), s.MaxCapacity,
    )
    if err != nil {
        return err
    }
    id, err := result.LastInsertId()
    if err != nil {
        return err
    }
    s.ID = uint64(id)
    // Query back the full row to populate timestamps and defaults.
    const sel = `SELECT ` + sessionColumns + ` FROM sessions WHERE id = ?`
    got, err := scanSession(r.db.QueryRowContext(ctx, sel, s.ID))
    if err != nil {
        return err
    }
    *s = *got
    return nil
}

// GetByID returns a session by its identifier.  sql.ErrNoRows is
// returned when no such session exists.
func (r *SessionRepo) GetByID(ctx context.Context, id uint64) (*model.Session, error) {
    const q = `SELECT ` + sessionColumns + ` FROM sessions WHERE id = ?`
    return scanSession(r.db.QueryRowContext(ctx, q, id))
}

// ListUpcoming returns sessions that have not yet started, ordered by
// start time ascending.  limit bounds the result; values outside
// 1..200 fall back to 50.
func (r *SessionRepo) ListUpcoming(ctx context.Context, now time.Time, limit int) ([]model.Session, error) {
    if limit < 1 || limit > 200 {
        limit = 50
    }
    const q = `SELECT ` + sessionColumns + ` FROM sessions
               WHERE starts_at > ?
               ORDER BY starts_at ASC
               LIMIT ?`
    rows, err := r.db.QueryContext(ctx, q, now.UTC(), limit)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    sessions := make([]model.Session, 0)
    for rows.Next() {
        var s model.Session
        if err := rows.Scan(
            &s.ID, &s.Title, &s.Instructor, &s.StartsAt, &s.EndsAt,
            &s.MaxCapacity, &s.CurrentCapacity, &s.CreatedAt, &s.UpdatedAt,
        ); err != nil {
            return nil, err
        }
        sessions = append(sessions, s)
    }
    if err := rows.Err(); err != nil {
        return nil, err
    }
    return sessions, nil
}

// LockByIDTx reads the session row under an exclusive lock inside the
// provided transaction.  The lock is held until the transaction commits
// or rolls back, serializing all booking traffic for this session.
// sql.ErrNoRows is returned when the session does not exist.
func (r *SessionRepo) LockByIDTx(ctx context.Context, tx *sql.Tx, id uint64) (*model.Session, error) {
    const q = `SELECT ` + sessionColumns + ` FROM sessions WHERE id = ? FOR UPDATE`
    var s model.Session
    err := tx.QueryRowContext(ctx, q, id).Scan(
        &s.ID, &s.Title, &s.Instructor, &s.StartsAt, &s.EndsAt,
        &s.MaxCapacity, &s.CurrentCapacity, &s.CreatedAt, &s.UpdatedAt,
    )
    if err != nil {
        return nil, err
    }
    return &s, nil
}

// AdjustCapacityTx adds delta to current_capacity within the provided
// transaction, clamping the result to [0, max_capacity].  The caller
// must already hold the session's row lock via LockByIDTx.
func (r *SessionRepo) AdjustCapacityTx(ctx context.Context, tx *sql.Tx, id uint64, delta int) error {
    const q = `UPDATE sessions
               SET current_capacity = LEAST(max_capacity, GREATEST(0, CAST(current_capacity AS SIGNED) + ?))
               WHERE id = ?`
    _, err := tx.ExecContext(ctx, q, delta, id)
    return err
}

// UpdateMaxCapacityTx changes max_capacity within the provided
// transaction.  Callers must hold the session's row lock and have
// verified max_capacity >= current_capacity against the locked
// snapshot, so the comparison cannot race a concurrent booking.
func (r *SessionRepo) UpdateMaxCapacityTx(ctx context.Context, tx *sql.Tx, id uint64, maxCapacity uint32) error {
    const q = `UPDATE sessions SET max_capacity = ? WHERE id = ?`
    _, err := tx.ExecContext(ctx, q, maxCapacity, id)
    return err
}
