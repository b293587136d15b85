package repositories

import (
	"database/sql"
	"fmt"
	"strings"

	intconfig "ferry-booking/internal/config"
	intdb "ferry-booking/internal/db"
	"ferry-booking/internal/domain"
	"ferry-booking/internal/domain/models"
)

// TripRepo wraps DB access for trips. Seat counters are only ever
// written through Reserve/Release/Reconcile so the per-channel quota
// invariant holds under concurrent mutation.
type TripRepo struct {
	DB *sql.DB
}

func (r TripRepo) q() intdb.Queryer {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

// DATE/TIME columns go through COALESCE so the driver hands back plain
// strings instead of parseTime values.
const tripColumns = `id, route_id, boat_id, route_from, route_to, vessel_name,
	COALESCE(departure_date, ''), COALESCE(departure_time, ''), online_quota, online_booked,
	walk_in_quota, walk_in_booked, status`

func scanTrip(row *sql.Row) (models.Trip, error) {
	var t models.Trip
	err := row.Scan(
		&t.ID, &t.RouteID, &t.BoatID, &t.RouteFrom, &t.RouteTo, &t.VesselName,
		&t.DepartureDate, &t.DepartureTime, &t.OnlineQuota, &t.OnlineBooked,
		&t.WalkInQuota, &t.WalkInBooked, &t.Status,
	)
	return t, err
}

// GetByID loads one trip.
func (r TripRepo) GetByID(id int64) (models.Trip, error) {
	return r.GetByIDTx(r.q(), id)
}

// GetByIDTx loads one trip using the given DB or transaction.
func (r TripRepo) GetByIDTx(q intdb.Queryer, id int64) (models.Trip, error) {
	t, err := scanTrip(q.QueryRow(`SELECT `+tripColumns+` FROM trips WHERE id = ?`, id))
	if err == sql.ErrNoRows {
		return t, domain.NotFoundError{Resource: "trip", Err: err}
	}
	if err != nil {
		return t, domain.InternalError{Err: err}
	}
	return t, nil
}

// counterColumns maps a channel to its booked/quota column pair. The
// channel is a validated enum, never raw input, so interpolation is safe.
func counterColumns(ch models.Channel) (booked, quota string, err error) {
	switch ch {
	case models.ChannelOnline:
		return "online_booked", "online_quota", nil
	case models.ChannelWalkIn:
		return "walk_in_booked", "walk_in_quota", nil
	default:
		return "", "", domain.ValidationError{Field: "channel", Msg: fmt.Sprintf("unknown channel %q", ch)}
	}
}

// Reserve increments the channel's booked counter by count, but only
// when the quota still allows it. The capacity check and the increment
// are one conditional UPDATE, so concurrent reservations on the same
// trip cannot both succeed past the quota.
func (r TripRepo) Reserve(q intdb.Queryer, tripID int64, ch models.Channel, count int) error {
	bookedCol, quotaCol, err := counterColumns(ch)
	if err != nil {
		return err
	}
	if count <= 0 {
		return domain.ValidationError{Field: "count", Msg: "must be positive"}
	}

	res, err := q.Exec(
		`UPDATE trips SET `+bookedCol+` = `+bookedCol+` + ?, updated_at = NOW()
		 WHERE id = ? AND `+bookedCol+` + ? <= `+quotaCol,
		count, tripID, count,
	)
	if err != nil {
		return domain.InternalError{Err: err}
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return domain.InternalError{Err: err}
	}
	if affected > 0 {
		return nil
	}

	// Either the trip does not exist or the channel is out of seats.
	trip, err := r.GetByIDTx(q, tripID)
	if err != nil {
		return err
	}
	return domain.CapacityError{
		Channel:   string(ch),
		Requested: count,
		Available: trip.Available(ch),
	}
}

// Release decrements the channel's booked counter by count, floored at
// zero. A release that would underflow is repaired to zero and reported
// so a double-release does not pass silently.
func (r TripRepo) Release(q intdb.Queryer, tripID int64, ch models.Channel, count int) (floored bool, err error) {
	bookedCol, _, err := counterColumns(ch)
	if err != nil {
		return false, err
	}
	if count <= 0 {
		return false, domain.ValidationError{Field: "count", Msg: "must be positive"}
	}

	res, err := q.Exec(
		`UPDATE trips SET `+bookedCol+` = `+bookedCol+` - ?, updated_at = NOW()
		 WHERE id = ? AND `+bookedCol+` >= ?`,
		count, tripID, count,
	)
	if err != nil {
		return false, domain.InternalError{Err: err}
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, domain.InternalError{Err: err}
	}
	if affected > 0 {
		return false, nil
	}

	if _, err := r.GetByIDTx(q, tripID); err != nil {
		return false, err
	}
	if _, err := q.Exec(
		`UPDATE trips SET `+bookedCol+` = 0, updated_at = NOW() WHERE id = ?`, tripID,
	); err != nil {
		return false, domain.InternalError{Err: err}
	}
	return true, nil
}

// Reconcile recomputes the channel's booked counter from the bookings
// that count toward the manifest and overwrites the stored value.
// Repairs drift caused by out-of-band edits.
func (r TripRepo) Reconcile(q intdb.Queryer, tripID int64, ch models.Channel) (int, error) {
	bookedCol, _, err := counterColumns(ch)
	if err != nil {
		return 0, err
	}

	statuses := models.ManifestStatuses()
	placeholders := make([]string, len(statuses))
	args := []any{tripID, ch == models.ChannelWalkIn}
	for i, s := range statuses {
		placeholders[i] = "?"
		args = append(args, string(s))
	}

	var total int
	err = q.QueryRow(
		`SELECT COALESCE(SUM(passenger_count), 0) FROM bookings
		 WHERE trip_id = ? AND is_walk_in = ? AND status IN (`+strings.Join(placeholders, ",")+`)`,
		args...,
	).Scan(&total)
	if err != nil {
		return 0, domain.InternalError{Err: err}
	}

	if _, err := q.Exec(
		`UPDATE trips SET `+bookedCol+` = ?, updated_at = NOW() WHERE id = ?`, total, tripID,
	); err != nil {
		return 0, domain.InternalError{Err: err}
	}
	return total, nil
}

// Insert creates one trip (one schedule slot).
func (r TripRepo) Insert(t models.Trip) (int64, error) {
	res, err := r.q().Exec(
		`INSERT INTO trips (route_id, boat_id, route_from, route_to, vessel_name,
			departure_date, departure_time, online_quota, online_booked,
			walk_in_quota, walk_in_booked, status, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, 0, ?, 0, ?, NOW(), NOW())`,
		t.RouteID, t.BoatID, t.RouteFrom, t.RouteTo, t.VesselName,
		t.DepartureDate, t.DepartureTime, t.OnlineQuota, t.WalkInQuota, string(t.Status),
	)
	if err != nil {
		return 0, domain.InternalError{Err: err}
	}
	id, _ := res.LastInsertId()
	return id, nil
}

// SlotExists reports whether a trip already occupies the route/vessel/
// date/time slot, so schedule expansion stays idempotent.
func (r TripRepo) SlotExists(routeID, boatID int64, date, tod string) (bool, error) {
	var id int64
	err := r.q().QueryRow(
		`SELECT id FROM trips
		 WHERE route_id = ? AND boat_id = ? AND departure_date = ? AND departure_time = ?
		 LIMIT 1`,
		routeID, boatID, date, tod,
	).Scan(&id)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, domain.InternalError{Err: err}
	}
	return true, nil
}

// CountManifestPassengers sums passengers across both channels for
// bookings that count toward the manifest. Used by the deletion guard.
func (r TripRepo) CountManifestPassengers(tripID int64) (int, error) {
	statuses := models.ManifestStatuses()
	placeholders := make([]string, len(statuses))
	args := []any{tripID}
	for i, s := range statuses {
		placeholders[i] = "?"
		args = append(args, string(s))
	}

	var total int
	err := r.q().QueryRow(
		`SELECT COALESCE(SUM(passenger_count), 0) FROM bookings
		 WHERE trip_id = ? AND status IN (`+strings.Join(placeholders, ",")+`)`,
		args...,
	).Scan(&total)
	if err != nil {
		return 0, domain.InternalError{Err: err}
	}
	return total, nil
}

// SetStatus moves a trip between lifecycle statuses, guarded by the
// expected current status.
func (r TripRepo) SetStatus(id int64, from, to models.TripStatus) error {
	res, err := r.q().Exec(
		`UPDATE trips SET status = ?, updated_at = NOW() WHERE id = ? AND status = ?`,
		string(to), id, string(from),
	)
	if err != nil {
		return domain.InternalError{Err: err}
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ConflictError{Msg: "trip was updated concurrently"}
	}
	return nil
}

// Delete removes a trip row. The caller enforces the zero-passenger
// guard and detaches bookings first.
func (r TripRepo) Delete(q intdb.Queryer, id int64) error {
	res, err := q.Exec(`DELETE FROM trips WHERE id = ?`, id)
	if err != nil {
		return domain.InternalError{Err: err}
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.NotFoundError{Resource: "trip"}
	}
	return nil
}

// ListByDate returns trips departing on the given date, soonest first.
func (r TripRepo) ListByDate(date string) ([]models.Trip, error) {
	rows, err := r.q().Query(
		`SELECT `+tripColumns+` FROM trips WHERE departure_date = ? ORDER BY departure_time ASC`,
		date,
	)
	if err != nil {
		return nil, domain.InternalError{Err: err}
	}
	defer rows.Close()

	out := []models.Trip{}
	for rows.Next() {
		var t models.Trip
		if err := rows.Scan(
			&t.ID, &t.RouteID, &t.BoatID, &t.RouteFrom, &t.RouteTo, &t.VesselName,
			&t.DepartureDate, &t.DepartureTime, &t.OnlineQuota, &t.OnlineBooked,
			&t.WalkInQuota, &t.WalkInBooked, &t.Status,
		); err != nil {
			return nil, domain.InternalError{Err: err}
		}
		out = append(out, t)
	}
	return out, rows.Err()
}
