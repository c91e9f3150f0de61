package repository // repository defines data access for seats

import (
	"context"      // context allows query cancellation and timeouts
	"database/sql" // sql provides DB primitives
	"errors"       // errors for sentinel comparisons
	"time"         // booking timestamps

	"github.com/iliyamo/library-seat-reservation/internal/model"
)

// SeatRepo provides methods to work with seats in the database.  All
// state transitions are expressed as guarded UPDATEs: the WHERE clause
// carries the previously observed status (and for expiry, the observed
// expires_at), so a write that races a concurrent transition affects
// zero rows instead of clobbering it.  RowsAffected == 0 is then
// classified by re-reading the row.  Timestamps are stored in UTC.
type SeatRepo struct {
	db *sql.DB
}

// NewSeatRepo constructs a SeatRepo with the given DB handle.
func NewSeatRepo(db *sql.DB) *SeatRepo {
	return &SeatRepo{db: db}
}

const seatColumns = `id, seat_number, status, booked_by, booked_at, expires_at, created_at, updated_at`

func scanSeat(row interface{ Scan(...interface{}) error }) (*model.Seat, error) {
	var (
		s        model.Seat
		bookedBy sql.NullInt64
		bookedAt sql.NullTime
		expires  sql.NullTime
	)
	if err := row.Scan(&s.ID, &s.SeatNumber, &s.Status, &bookedBy, &bookedAt, &expires, &s.CreatedAt, &s.UpdatedAt); err != nil {
		return nil, err
	}
	if bookedBy.Valid {
		uid := uint64(bookedBy.Int64)
		s.BookedBy = &uid
	}
	if bookedAt.Valid {
		t := bookedAt.Time.UTC()
		s.BookedAt = &t
	}
	if expires.Valid {
		t := expires.Time.UTC()
		s.ExpiresAt = &t
	}
	return &s, nil
}

// GetByID retrieves a seat by its id.
func (r *SeatRepo) GetByID(ctx context.Context, id uint64) (*model.Seat, error) {
	const q = `SELECT ` + seatColumns + ` FROM seats WHERE id = ?`
	s, err := scanSeat(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSeatNotFound
		}
		return nil, err
	}
	return s, nil
}

// List retrieves all seats ordered by seat_number for display.
func (r *SeatRepo) List(ctx context.Context) ([]model.Seat, error) {
	const q = `SELECT ` + seatColumns + ` FROM seats ORDER BY seat_number`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.Seat
	for rows.Next() {
		s, err := scanSeat(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// ListExpired returns all booked seats whose reservation expired at or
// before now, ordered by seat_number.  Used by the expiry sweeper.
func (r *SeatRepo) ListExpired(ctx context.Context, now time.Time) ([]model.Seat, error) {
	const q = `SELECT ` + seatColumns + ` FROM seats
	           WHERE status = 'BOOKED' AND expires_at <= ?
	           ORDER BY seat_number`
	rows, err := r.db.QueryContext(ctx, q, now.UTC())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.Seat
	for rows.Next() {
		s, err := scanSeat(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// Book transitions a seat from FREE to BOOKED for the given user.  The
// update is guarded by status = 'FREE'; when it affects no rows the seat
// is re-read to distinguish a missing seat from a lost race.  On a lost
// race ErrConflict is returned and the caller decides whether to re-read
// and retry or to report the seat as unavailable.
func (r *SeatRepo) Book(ctx context.Context, seatID, userID uint64, bookedAt, expiresAt time.Time) (*model.Seat, error) {
	const q = `UPDATE seats
	           SET status = 'BOOKED', booked_by = ?, booked_at = ?, expires_at = ?, updated_at = CURRENT_TIMESTAMP
	           WHERE id = ? AND status = 'FREE'`
	res, err := r.db.ExecContext(ctx, q, userID, bookedAt.UTC(), expiresAt.UTC(), seatID)
	if err != nil {
		return nil, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		if _, err := r.GetByID(ctx, seatID); err != nil {
			return nil, err
		}
		return nil, ErrConflict
	}
	return r.GetByID(ctx, seatID)
}

// Release transitions a seat from BOOKED to FREE regardless of who
// booked it.  Used for admin overrides.  Returns ErrNotBooked when the
// seat is already free.
func (r *SeatRepo) Release(ctx context.Context, seatID uint64) (*model.Seat, error) {
	const q = `UPDATE seats
	           SET status = 'FREE', booked_by = NULL, booked_at = NULL, expires_at = NULL, updated_at = CURRENT_TIMESTAMP
	           WHERE id = ? AND status = 'BOOKED'`
	res, err := r.db.ExecContext(ctx, q, seatID)
	if err != nil {
		return nil, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		if _, err := r.GetByID(ctx, seatID); err != nil {
			return nil, err
		}
		return nil, ErrNotBooked
	}
	return r.GetByID(ctx, seatID)
}

// ReleaseOwned transitions a seat from BOOKED to FREE only when it is
// booked by the given user.  When the guarded update affects no rows
// the seat is re-read to classify the failure: missing seat, already
// free, or booked by somebody else (ErrForbidden).
func (r *SeatRepo) ReleaseOwned(ctx context.Context, seatID, userID uint64) (*model.Seat, error) {
	const q = `UPDATE seats
	           SET status = 'FREE', booked_by = NULL, booked_at = NULL, expires_at = NULL, updated_at = CURRENT_TIMESTAMP
	           WHERE id = ? AND status = 'BOOKED' AND booked_by = ?`
	res, err := r.db.ExecContext(ctx, q, seatID, userID)
	if err != nil {
		return nil, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		seat, err := r.GetByID(ctx, seatID)
		if err != nil {
			return nil, err
		}
		if !seat.IsBooked() {
			return nil, ErrNotBooked
		}
		return nil, ErrForbidden
	}
	return r.GetByID(ctx, seatID)
}

// ExpireBefore frees a booked seat whose reservation has run out.  The
// guard carries the expires_at value observed when the seat was
// enumerated, so a seat that was released and re-booked in the meantime
// is left alone.  A zero-row update is a silent no-op, not an error.
func (r *SeatRepo) ExpireBefore(ctx context.Context, seatID uint64, expiresAt, now time.Time) (bool, error) {
	const q = `UPDATE seats
	           SET status = 'FREE', booked_by = NULL, booked_at = NULL, expires_at = NULL, updated_at = CURRENT_TIMESTAMP
	           WHERE id = ? AND status = 'BOOKED' AND expires_at = ? AND expires_at <= ?`
	res, err := r.db.ExecContext(ctx, q, seatID, expiresAt.UTC(), now.UTC())
	if err != nil {
		return false, err
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

// CountByStatus returns the total number of seats and how many of them
// are currently booked.  Used by the stats endpoint and the occupancy
// sampler.
func (r *SeatRepo) CountByStatus(ctx context.Context) (total, booked int, err error) {
	const q = `SELECT COUNT(*), COALESCE(SUM(status = 'BOOKED'), 0) FROM seats`
	err = r.db.QueryRowContext(ctx, q).Scan(&total, &booked)
	return total, booked, err
}

// Seed inserts seats numbered 1..count when the table is empty.  It is
// safe to call on every startup.
func (r *SeatRepo) Seed(ctx context.Context, count int) error {
	var existing int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM seats`).Scan(&existing); err != nil {
		return err
	}
	if existing > 0 || count <= 0 {
		return nil
	}
	query := `INSERT INTO seats (seat_number, status) VALUES `
	args := make([]interface{}, 0, count)
	for i := 1; i <= count; i++ {
		if i > 1 {
			query += ","
		}
		query += "(?, 'FREE')"
		args = append(args, i)
	}
	_, err := r.db.ExecContext(ctx, query, args...)
	return err
}
