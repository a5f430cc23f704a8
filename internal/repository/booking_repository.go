package repository

import (
    "context"
    "database/sql"
    "time"

    "github.com/fitclub/class-booking/internal/model"
)

// BookingRepo provides persistence for bookings.  Lifecycle mutations
// (insert, cancel) only exist as Tx variants because they must run
// under the parent session's exclusive lock; reads used by display
// endpoints run outside any transaction.  Timestamps are UTC.
type BookingRepo struct {
    db *sql.DB
}

// NewBookingRepo returns a BookingRepo bound to the given database.
func NewBookingRepo(db *sql.DB) *BookingRepo { return &BookingRepo{db: db} }

// InsertTx inserts a new booking within the scope of an existing
// transaction and populates the generated ID and timestamps on the
// provided record.  The caller must commit or roll back.
func (r *BookingRepo) InsertTx(ctx context.Context, tx *sql.Tx, b *model.Booking) error {
    const q = `INSERT INTO bookings (member_id, session_id, status, booked_at, notes) VALUES (?, ?, ?, ?, ?)`
    var notes sql.NullString
    if b.Notes != nil {
        notes = sql.NullString{String: *b.Notes, Valid: true}
    }
    result, err := tx.ExecContext(ctx, q, b.MemberID, b.SessionID, string(b.Status), b.BookedAt.UTC(), notes)
    if err != nil {
        return err
    }
    id, err := result.LastInsertId()
    if err != nil {
        return err
    }
    b.ID = uint64(id)
    // Query back the full row to populate timestamps and defaults.
    const sel = `SELECT id, member_id, session_id, status, booked_at, notes, created_at, updated_at
                 FROM bookings WHERE id = ?`
    got, err := scanBookingRow(tx.QueryRowContext(ctx, sel, b.ID))
    if err != nil {
        return err
    }
    *b = *got
    return nil
}

func scanBookingRow(row *sql.Row) (*model.Booking, error) {
    var b model.Booking
    var status string
    var notes sql.NullString
    err := row.Scan(&b.ID, &b.MemberID, &b.SessionID, &status, &b.BookedAt, &notes, &b.CreatedAt, &b.UpdatedAt)
    if err != nil {
        return nil, err
    }
    b.Status = model.BookingStatus(status)
    if notes.Valid {
        n := notes.String
        b.Notes = &n
    }
    return &b, nil
}

// LockByIDTx reads the booking row under an exclusive lock inside the
// provided transaction.  sql.ErrNoRows is returned when the booking
// does not exist.
func (r *BookingRepo) LockByIDTx(ctx context.Context, tx *sql.Tx, id uint64) (*model.Booking, error) {
    const q = `SELECT id, member_id, session_id, status, booked_at, notes, created_at, updated_at
               FROM bookings WHERE id = ? FOR UPDATE`
    return scanBookingRow(tx.QueryRowContext(ctx, q, id))
}

// HasConfirmedTx reports whether the member holds a confirmed booking
// for the session.  It must run inside the transaction that locked the
// session row so the answer cannot change before commit.
func (r *BookingRepo) HasConfirmedTx(ctx context.Context, tx *sql.Tx, memberID, sessionID uint64) (bool, error) {
    const q = `SELECT EXISTS(
                   SELECT 1 FROM bookings
                   WHERE member_id = ? AND session_id = ? AND status = ?
               )`
    var exists bool
    err := tx.QueryRowContext(ctx, q, memberID, sessionID, string(model.StatusConfirmed)).Scan(&exists)
    return exists, err
}

// MarkCancelledTx flips the booking's status to CANCELLED within the
// provided transaction.  The guard on the current status makes the
// transition one-way at the storage level as well; the Coordinator has
// already rejected double cancellations before reaching here.
func (r *BookingRepo) MarkCancelledTx(ctx context.Context, tx *sql.Tx, id uint64) error {
    const q = `UPDATE bookings SET status = ? WHERE id = ? AND status = ?`
    _, err := tx.ExecContext(ctx, q, string(model.StatusCancelled), id, string(model.StatusConfirmed))
    return err
}

// CountConfirmedTx returns the number of confirmed bookings for a
// session, read under the enclosing transaction.  Used by admin
// capacity changes to validate the new maximum against reality rather
// than trusting the denormalized counter alone.
func (r *BookingRepo) CountConfirmedTx(ctx context.Context, tx *sql.Tx, sessionID uint64) (uint32, error) {
    const q = `SELECT COUNT(*) FROM bookings WHERE session_id = ? AND status = ?`
    var n uint32
    err := tx.QueryRowContext(ctx, q, sessionID, string(model.StatusConfirmed)).Scan(&n)
    return n, err
}

// BookingDetail is a booking enriched with denormalized session fields
// for display.  It is a read-only convenience and plays no part in the
// invariant set.
type BookingDetail struct {
    ID           uint64    `json:"id"`
    MemberID     uint64    `json:"member_id"`
    SessionID    uint64    `json:"session_id"`
    Status       string    `json:"status"`
    BookedAt     time.Time `json:"booked_at"`
    Notes        *string   `json:"notes,omitempty"`
    SessionTitle string    `json:"session_title"`
    Instructor   string    `json:"instructor"`
    StartsAt     time.Time `json:"starts_at"`
    EndsAt       time.Time `json:"ends_at"`
}

const bookingDetailQuery = `SELECT b.id, b.member_id, b.session_id, b.status, b.booked_at, b.notes,
                                   s.title, s.instructor, s.starts_at, s.ends_at
                            FROM bookings b
                            JOIN sessions s ON s.id = b.session_id`

func scanBookingDetails(rows *sql.Rows) ([]BookingDetail, error) {
    defer rows.Close()
    details := make([]BookingDetail, 0)
    for rows.Next() {
        var d BookingDetail
        var notes sql.NullString
        if err := rows.Scan(
            &d.ID, &d.MemberID, &d.SessionID, &d.Status, &d.BookedAt, &notes,
            &d.SessionTitle, &d.Instructor, &d.StartsAt, &d.EndsAt,
        ); err != nil {
            return nil, err
        }
        if notes.Valid {
            n := notes.String
            d.Notes = &n
        }
        details = append(details, d)
    }
    if err := rows.Err(); err != nil {
        return nil, err
    }
    return details, nil
}

// ListByMember returns all bookings made by the given member, newest
// first, with session details attached.  An empty slice is returned
// when the member has no bookings.
func (r *BookingRepo) ListByMember(ctx context.Context, memberID uint64) ([]BookingDetail, error) {
    const q = bookingDetailQuery + ` WHERE b.member_id = ? ORDER BY b.created_at DESC`
    rows, err := r.db.QueryContext(ctx, q, memberID)
    if err != nil {
        return nil, err
    }
    return scanBookingDetails(rows)
}

// ListBySession returns all bookings against the given session, newest
// first.  Intended for admin views; it includes cancelled bookings so
// the full history is visible.
func (r *BookingRepo) ListBySession(ctx context.Context, sessionID uint64) ([]BookingDetail, error) {
    const q = bookingDetailQuery + ` WHERE b.session_id = ? ORDER BY b.created_at DESC`
    rows, err := r.db.QueryContext(ctx, q, sessionID)
    if err != nil {
        return nil, err
    }
    return scanBookingDetails(rows)
}

// GetDetail returns a single booking with session details.  Ownership
// is not enforced here; handlers compare MemberID against the caller
// and admins may read any booking.  sql.ErrNoRows is returned when the
// booking does not exist.
func (r *BookingRepo) GetDetail(ctx context.Context, bookingID uint64) (*BookingDetail, error) {
    const q = bookingDetailQuery + ` WHERE b.id = ?`
    var d BookingDetail
    var notes sql.NullString
    err := r.db.QueryRowContext(ctx, q, bookingID).Scan(
        &d.ID, &d.MemberID, &d.SessionID, &d.Status, &d.BookedAt, &notes,
        &d.SessionTitle, &d.Instructor, &d.StartsAt, &d.EndsAt,
    )
    if err != nil {
        return nil, err
    }
    if notes.Valid {
        n := notes.String
        d.Notes = &n
    }
    return &d, nil
}
