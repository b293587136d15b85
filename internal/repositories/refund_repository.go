package repositories

import (
	"database/sql"

	intconfig "ferry-booking/internal/config"
	intdb "ferry-booking/internal/db"
	"ferry-booking/internal/domain"
	"ferry-booking/internal/domain/models"
)

// RefundRepo wraps DB access for refund records.
type RefundRepo struct {
	DB *sql.DB
}

func (r RefundRepo) q() intdb.Queryer {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

const refundColumns = `id, booking_id, amount_cents, reason, status,
	COALESCE(requested_by, 0), COALESCE(reviewed_by, 0), created_at, updated_at`

// Insert creates a refund record in requested state.
func (r RefundRepo) Insert(q intdb.Queryer, ref models.Refund) (int64, error) {
	res, err := q.Exec(
		`INSERT INTO refunds (booking_id, amount_cents, reason, status, requested_by, created_at, updated_at)
		 VALUES (?, ?, ?, ?, NULLIF(?, 0), NOW(), NOW())`,
		ref.BookingID, ref.AmountCents, ref.Reason, string(ref.Status), ref.RequestedBy,
	)
	if err != nil {
		return 0, domain.InternalError{Err: err}
	}
	id, _ := res.LastInsertId()
	return id, nil
}

// GetByID loads one refund.
func (r RefundRepo) GetByID(q intdb.Queryer, id int64) (models.Refund, error) {
	var ref models.Refund
	err := q.QueryRow(`SELECT `+refundColumns+` FROM refunds WHERE id = ?`, id).Scan(
		&ref.ID, &ref.BookingID, &ref.AmountCents, &ref.Reason, &ref.Status,
		&ref.RequestedBy, &ref.ReviewedBy, &ref.CreatedAt, &ref.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return ref, domain.NotFoundError{Resource: "refund", Err: err}
	}
	if err != nil {
		return ref, domain.InternalError{Err: err}
	}
	return ref, nil
}

// LatestByBooking returns the most recent refund for a booking.
func (r RefundRepo) LatestByBooking(bookingID int64) (models.Refund, error) {
	var ref models.Refund
	err := r.q().QueryRow(
		`SELECT `+refundColumns+` FROM refunds WHERE booking_id = ? ORDER BY id DESC LIMIT 1`,
		bookingID,
	).Scan(
		&ref.ID, &ref.BookingID, &ref.AmountCents, &ref.Reason, &ref.Status,
		&ref.RequestedBy, &ref.ReviewedBy, &ref.CreatedAt, &ref.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return ref, domain.NotFoundError{Resource: "refund", Err: err}
	}
	if err != nil {
		return ref, domain.InternalError{Err: err}
	}
	return ref, nil
}

// UpdateStatusFrom moves a refund through its review flow with the
// expected current status in the WHERE clause.
func (r RefundRepo) UpdateStatusFrom(q intdb.Queryer, id int64, from, to models.RefundStatus, reviewedBy int64) (bool, error) {
	res, err := q.Exec(
		`UPDATE refunds SET status = ?, reviewed_by = NULLIF(?, 0), updated_at = NOW()
		 WHERE id = ? AND status = ?`,
		string(to), reviewedBy, id, string(from),
	)
	if err != nil {
		return false, domain.InternalError{Err: err}
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, domain.InternalError{Err: err}
	}
	return n > 0, nil
}
