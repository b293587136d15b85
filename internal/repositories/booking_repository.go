package repositories

import (
	"database/sql"
	"errors"

	intconfig "ferry-booking/internal/config"
	intdb "ferry-booking/internal/db"
	"ferry-booking/internal/domain"
	"ferry-booking/internal/domain/models"

	"github.com/go-sql-driver/mysql"
)

// BookingRepo wraps DB access for bookings and their ordered passenger
// rows. Status writes always carry the expected current status in the
// WHERE clause so concurrent mutations cannot skip the state machine.
type BookingRepo struct {
	DB *sql.DB
}

func (r BookingRepo) q() intdb.Queryer {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

// IsDuplicateKey reports a MySQL duplicate-entry error (1062), used for
// reference and ticket-number uniqueness retries.
func IsDuplicateKey(err error) bool {
	var my *mysql.MySQLError
	if errors.As(err, &my) {
		return my.Number == 1062
	}
	return false
}

const bookingColumns = `id, reference, COALESCE(trip_id, 0), contact_name, contact_phone,
	contact_email, passenger_count, total_amount_cents, admin_fee_cents,
	gcash_fee_cents, is_walk_in, status, COALESCE(created_by, 0),
	COALESCE(refund_status, ''), COALESCE(vessel_name, ''), COALESCE(route_from, ''),
	COALESCE(route_to, ''), COALESCE(trip_date, ''), COALESCE(trip_time, ''),
	created_at, updated_at`

func scanBooking(row *sql.Row) (models.Booking, error) {
	var b models.Booking
	err := row.Scan(
		&b.ID, &b.Reference, &b.TripID, &b.ContactName, &b.ContactPhone,
		&b.ContactEmail, &b.PassengerCount, &b.TotalCents, &b.AdminFeeCents,
		&b.GcashFeeCents, &b.IsWalkIn, &b.Status, &b.CreatedBy,
		&b.RefundStatus, &b.VesselName, &b.RouteFrom,
		&b.RouteTo, &b.TripDate, &b.TripTime,
		&b.CreatedAt, &b.UpdatedAt,
	)
	return b, err
}

// GetByID loads one booking with its passengers.
func (r BookingRepo) GetByID(id int64) (models.Booking, error) {
	return r.getBy(r.q(), `id = ?`, id)
}

// GetByReference loads one booking by its shareable reference code.
func (r BookingRepo) GetByReference(ref string) (models.Booking, error) {
	return r.getBy(r.q(), `reference = ?`, ref)
}

// GetByIDTx loads one booking inside a transaction; forUpdate takes a
// row lock so concurrent mutators serialize on the booking.
func (r BookingRepo) GetByIDTx(q intdb.Queryer, id int64, forUpdate bool) (models.Booking, error) {
	suffix := ""
	if forUpdate {
		suffix = " FOR UPDATE"
	}
	b, err := scanBooking(q.QueryRow(
		`SELECT `+bookingColumns+` FROM bookings WHERE id = ?`+suffix, id,
	))
	if err == sql.ErrNoRows {
		return b, domain.NotFoundError{Resource: "booking", Err: err}
	}
	if err != nil {
		return b, domain.InternalError{Err: err}
	}
	b.Passengers, err = r.Passengers(q, b.ID)
	return b, err
}

func (r BookingRepo) getBy(q intdb.Queryer, where string, arg any) (models.Booking, error) {
	b, err := scanBooking(q.QueryRow(
		`SELECT `+bookingColumns+` FROM bookings WHERE `+where, arg,
	))
	if err == sql.ErrNoRows {
		return b, domain.NotFoundError{Resource: "booking", Err: err}
	}
	if err != nil {
		return b, domain.InternalError{Err: err}
	}
	b.Passengers, err = r.Passengers(q, b.ID)
	return b, err
}

// Passengers loads the ordered passenger list for a booking. A nil q
// falls back to the repo's own connection.
func (r BookingRepo) Passengers(q intdb.Queryer, bookingID int64) ([]models.Passenger, error) {
	if q == nil {
		q = r.q()
	}
	rows, err := q.Query(
		`SELECT position, fare_type, full_name, fare_cents, COALESCE(ticket_no, '')
		 FROM booking_passengers WHERE booking_id = ? ORDER BY position ASC`,
		bookingID,
	)
	if err != nil {
		return nil, domain.InternalError{Err: err}
	}
	defer rows.Close()

	out := []models.Passenger{}
	for rows.Next() {
		var p models.Passenger
		if err := rows.Scan(&p.Position, &p.FareType, &p.FullName, &p.FareCents, &p.TicketNo); err != nil {
			return nil, domain.InternalError{Err: err}
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// Insert writes the booking row plus its passenger rows in order.
func (r BookingRepo) Insert(q intdb.Queryer, b models.Booking) (int64, error) {
	res, err := q.Exec(
		`INSERT INTO bookings (reference, trip_id, contact_name, contact_phone,
			contact_email, passenger_count, total_amount_cents, admin_fee_cents,
			gcash_fee_cents, is_walk_in, status, created_by, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, NULLIF(?, 0), NOW(), NOW())`,
		b.Reference, b.TripID, b.ContactName, b.ContactPhone,
		b.ContactEmail, b.PassengerCount, b.TotalCents, b.AdminFeeCents,
		b.GcashFeeCents, b.IsWalkIn, string(b.Status), b.CreatedBy,
	)
	if err != nil {
		if IsDuplicateKey(err) {
			return 0, err
		}
		return 0, domain.InternalError{Err: err}
	}
	id, _ := res.LastInsertId()

	for _, p := range b.Passengers {
		if _, err := q.Exec(
			`INSERT INTO booking_passengers (booking_id, position, fare_type, full_name, fare_cents)
			 VALUES (?, ?, ?, ?, ?)`,
			id, p.Position, string(p.FareType), p.FullName, p.FareCents,
		); err != nil {
			return 0, domain.InternalError{Err: err}
		}
	}
	return id, nil
}

// UpdateStatusFrom moves a booking from one status to another. The
// expected current status sits in the WHERE clause; zero rows affected
// means the booking moved underneath us (or never existed).
func (r BookingRepo) UpdateStatusFrom(q intdb.Queryer, id int64, from, to models.BookingStatus) (bool, error) {
	res, err := q.Exec(
		`UPDATE bookings SET status = ?, updated_at = NOW() WHERE id = ? AND status = ?`,
		string(to), id, string(from),
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

// ApplyReschedule points the booking at its new trip, adds the fee
// delta to the stored total, and refreshes the trip snapshot. The
// status and trip the caller read sit in the WHERE clause; zero rows
// affected means the booking moved underneath us.
func (r BookingRepo) ApplyReschedule(q intdb.Queryer, bookingID, newTripID, feeCents int64, from models.BookingStatus, fromTripID int64, trip models.Trip) (bool, error) {
	res, err := q.Exec(
		`UPDATE bookings SET trip_id = ?, total_amount_cents = total_amount_cents + ?,
			vessel_name = ?, route_from = ?, route_to = ?, trip_date = ?, trip_time = ?,
			updated_at = NOW()
		 WHERE id = ? AND status = ? AND trip_id = ?`,
		newTripID, feeCents,
		trip.VesselName, trip.RouteFrom, trip.RouteTo, trip.DepartureDate, trip.DepartureTime,
		bookingID, string(from), fromTripID,
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

// Snapshot copies the trip's display fields onto the booking.
func (r BookingRepo) Snapshot(q intdb.Queryer, bookingID int64, trip models.Trip) error {
	_, err := q.Exec(
		`UPDATE bookings SET vessel_name = ?, route_from = ?, route_to = ?,
			trip_date = ?, trip_time = ?, updated_at = NOW()
		 WHERE id = ?`,
		trip.VesselName, trip.RouteFrom, trip.RouteTo,
		trip.DepartureDate, trip.DepartureTime, bookingID,
	)
	if err != nil {
		return domain.InternalError{Err: err}
	}
	return nil
}

// DetachFromTrip snapshots the trip's display fields and nulls the trip
// reference, keeping history readable after the trip row is removed.
func (r BookingRepo) DetachFromTrip(q intdb.Queryer, trip models.Trip) error {
	_, err := q.Exec(
		`UPDATE bookings SET vessel_name = ?, route_from = ?, route_to = ?,
			trip_date = ?, trip_time = ?, trip_id = NULL, updated_at = NOW()
		 WHERE trip_id = ?`,
		trip.VesselName, trip.RouteFrom, trip.RouteTo,
		trip.DepartureDate, trip.DepartureTime, trip.ID,
	)
	if err != nil {
		return domain.InternalError{Err: err}
	}
	return nil
}

// SetRefundStatus mirrors the latest refund's status onto the booking
// for passenger visibility.
func (r BookingRepo) SetRefundStatus(q intdb.Queryer, bookingID int64, status models.RefundStatus) error {
	_, err := q.Exec(
		`UPDATE bookings SET refund_status = ?, updated_at = NOW() WHERE id = ?`,
		string(status), bookingID,
	)
	if err != nil {
		return domain.InternalError{Err: err}
	}
	return nil
}

// DeletePending hard-deletes a pending-payment booking with its
// passenger and ticket rows. Only legal from pending_payment; zero rows
// affected on the booking delete means the status guard failed.
func (r BookingRepo) DeletePending(q intdb.Queryer, id int64) (bool, error) {
	res, err := q.Exec(
		`DELETE FROM bookings WHERE id = ? AND status = ?`,
		id, string(models.StatusPendingPayment),
	)
	if err != nil {
		return false, domain.InternalError{Err: err}
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, domain.InternalError{Err: err}
	}
	if n == 0 {
		return false, nil
	}
	if _, err := q.Exec(`DELETE FROM booking_passengers WHERE booking_id = ?`, id); err != nil {
		return false, domain.InternalError{Err: err}
	}
	if _, err := q.Exec(`DELETE FROM tickets WHERE booking_id = ?`, id); err != nil {
		return false, domain.InternalError{Err: err}
	}
	return true, nil
}

// SetPassengerTicket stores one passenger's assigned ticket number.
func (r BookingRepo) SetPassengerTicket(q intdb.Queryer, bookingID int64, position int, ticketNo string) error {
	_, err := q.Exec(
		`UPDATE booking_passengers SET ticket_no = ? WHERE booking_id = ? AND position = ?`,
		ticketNo, bookingID, position,
	)
	if err != nil {
		return domain.InternalError{Err: err}
	}
	return nil
}

// ListByTrip returns the bookings on a trip whose passengers count
// toward the manifest.
func (r BookingRepo) ListByTrip(tripID int64) ([]models.Booking, error) {
	rows, err := r.q().Query(
		`SELECT id, reference, contact_name, passenger_count, is_walk_in, status
		 FROM bookings
		 WHERE trip_id = ? AND status IN (?, ?, ?, ?)
		 ORDER BY id ASC`,
		tripID,
		string(models.StatusConfirmed), string(models.StatusCheckedIn),
		string(models.StatusBoarded), string(models.StatusCompleted),
	)
	if err != nil {
		return nil, domain.InternalError{Err: err}
	}
	defer rows.Close()

	out := []models.Booking{}
	for rows.Next() {
		var b models.Booking
		if err := rows.Scan(&b.ID, &b.Reference, &b.ContactName, &b.PassengerCount, &b.IsWalkIn, &b.Status); err != nil {
			return nil, domain.InternalError{Err: err}
		}
		out = append(out, b)
	}
	return out, rows.Err()
}
