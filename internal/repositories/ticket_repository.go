package repositories

import (
	"database/sql"

	intconfig "ferry-booking/internal/config"
	intdb "ferry-booking/internal/db"
	"ferry-booking/internal/domain"
)

// Ticket is one issued ticket record, one per passenger.
type Ticket struct {
	ID        int64  `json:"id"`
	BookingID int64  `json:"booking_id"`
	Position  int    `json:"position"`
	TicketNo  string `json:"ticket_number"`
}

// TicketRepo wraps DB access for issued tickets. ticket_no carries a
// UNIQUE key, backing the assignor's global collision check.
type TicketRepo struct {
	DB *sql.DB
}

func (r TicketRepo) q() intdb.Queryer {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

// Insert writes one ticket record. Duplicate ticket numbers surface as
// a duplicate-key error for the caller to retry.
func (r TicketRepo) Insert(q intdb.Queryer, t Ticket) (int64, error) {
	res, err := q.Exec(
		`INSERT INTO tickets (booking_id, position, ticket_no, created_at)
		 VALUES (?, ?, ?, NOW())`,
		t.BookingID, t.Position, t.TicketNo,
	)
	if err != nil {
		if IsDuplicateKey(err) {
			return 0, err
		}
		return 0, domain.InternalError{Err: err}
	}
	id, _ := res.LastInsertId()
	return id, nil
}

// ListByBooking returns a booking's tickets in passenger order.
func (r TicketRepo) ListByBooking(bookingID int64) ([]Ticket, error) {
	rows, err := r.q().Query(
		`SELECT id, booking_id, position, ticket_no FROM tickets
		 WHERE booking_id = ? ORDER BY position ASC`,
		bookingID,
	)
	if err != nil {
		return nil, domain.InternalError{Err: err}
	}
	defer rows.Close()

	out := []Ticket{}
	for rows.Next() {
		var t Ticket
		if err := rows.Scan(&t.ID, &t.BookingID, &t.Position, &t.TicketNo); err != nil {
			return nil, domain.InternalError{Err: err}
		}
		out = append(out, t)
	}
	return out, rows.Err()
}
