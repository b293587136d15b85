package repositories

import (
	"database/sql"

	intconfig "ferry-booking/internal/config"
	intdb "ferry-booking/internal/db"
	"ferry-booking/internal/domain"
	"ferry-booking/internal/domain/models"
)

// BookingChangeRepo persists the append-only reschedule audit trail.
type BookingChangeRepo struct {
	DB *sql.DB
}

func (r BookingChangeRepo) q() intdb.Queryer {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

// Insert appends one audit row. Rows are never updated or deleted.
func (r BookingChangeRepo) Insert(q intdb.Queryer, c models.BookingChange) (int64, error) {
	res, err := q.Exec(
		`INSERT INTO booking_changes (booking_id, from_trip_id, to_trip_id,
			additional_fee_cents, changed_by, created_at)
		 VALUES (?, ?, ?, ?, NULLIF(?, 0), NOW())`,
		c.BookingID, c.FromTripID, c.ToTripID, c.AdditionalFeeCents, c.ChangedBy,
	)
	if err != nil {
		return 0, domain.InternalError{Err: err}
	}
	id, _ := res.LastInsertId()
	return id, nil
}

// ListByBooking returns a booking's reschedule history, oldest first.
func (r BookingChangeRepo) ListByBooking(bookingID int64) ([]models.BookingChange, error) {
	rows, err := r.q().Query(
		`SELECT id, booking_id, from_trip_id, to_trip_id, additional_fee_cents,
			COALESCE(changed_by, 0), created_at
		 FROM booking_changes WHERE booking_id = ? ORDER BY id ASC`,
		bookingID,
	)
	if err != nil {
		return nil, domain.InternalError{Err: err}
	}
	defer rows.Close()

	out := []models.BookingChange{}
	for rows.Next() {
		var c models.BookingChange
		if err := rows.Scan(&c.ID, &c.BookingID, &c.FromTripID, &c.ToTripID,
			&c.AdditionalFeeCents, &c.ChangedBy, &c.CreatedAt); err != nil {
			return nil, domain.InternalError{Err: err}
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
