package repositories

import (
	"errors"
	"testing"

	"ferry-booking/internal/domain"
	"ferry-booking/internal/domain/models"

	"github.com/DATA-DOG/go-sqlmock"
)

func tripRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "route_id", "boat_id", "route_from", "route_to", "vessel_name",
		"departure_date", "departure_time", "online_quota", "online_booked",
		"walk_in_quota", "walk_in_booked", "status",
	})
}

func TestTripReserveSucceedsWithinQuota(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectExec("UPDATE trips SET online_booked = online_booked \\+ \\?").
		WithArgs(2, int64(7), 2).
		WillReturnResult(sqlmock.NewResult(0, 1))

	repo := TripRepo{DB: db}
	if err := repo.Reserve(db, 7, models.ChannelOnline, 2); err != nil {
		t.Fatalf("Reserve: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestTripReserveFullChannelReturnsCapacityError(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectExec("UPDATE trips SET walk_in_booked = walk_in_booked \\+ \\?").
		WithArgs(3, int64(7), 3).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT (.+) FROM trips WHERE id = \\?").
		WithArgs(int64(7)).
		WillReturnRows(tripRows().AddRow(
			7, 1, 1, "Batangas", "Calapan", "MV Reina",
			"2026-09-01", "08:00:00", 100, 40, 20, 19, "scheduled",
		))

	repo := TripRepo{DB: db}
	err = repo.Reserve(db, 7, models.ChannelWalkIn, 3)
	if !domain.IsCapacity(err) {
		t.Fatalf("want CapacityError, got %v", err)
	}
	var capErr domain.CapacityError
	if !errors.As(err, &capErr) {
		t.Fatalf("cannot unwrap CapacityError from %v", err)
	}
	if capErr.Available != 1 || capErr.Requested != 3 {
		t.Fatalf("capacity detail = %+v, want available 1 requested 3", capErr)
	}
}

func TestTripReserveOtherChannelUnaffected(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	// online quota full, walk-in reserve still goes through
	mock.ExpectExec("UPDATE trips SET walk_in_booked").
		WithArgs(1, int64(9), 1).
		WillReturnResult(sqlmock.NewResult(0, 1))

	repo := TripRepo{DB: db}
	if err := repo.Reserve(db, 9, models.ChannelWalkIn, 1); err != nil {
		t.Fatalf("walk-in reserve should not see the online counter: %v", err)
	}
}

func TestTripReserveRejectsBadInput(t *testing.T) {
	db, _, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	repo := TripRepo{DB: db}
	if err := repo.Reserve(db, 7, models.Channel("phone"), 1); !domain.IsValidation(err) {
		t.Fatalf("unknown channel should fail validation, got %v", err)
	}
	if err := repo.Reserve(db, 7, models.ChannelOnline, 0); !domain.IsValidation(err) {
		t.Fatalf("zero count should fail validation, got %v", err)
	}
}

func TestTripReleaseGuardedDecrement(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectExec("UPDATE trips SET online_booked = online_booked - \\?").
		WithArgs(2, int64(7), 2).
		WillReturnResult(sqlmock.NewResult(0, 1))

	repo := TripRepo{DB: db}
	floored, err := repo.Release(db, 7, models.ChannelOnline, 2)
	if err != nil {
		t.Fatalf("Release: %v", err)
	}
	if floored {
		t.Fatal("in-range release should not floor")
	}
}

func TestTripReleaseUnderflowFloorsAtZero(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectExec("UPDATE trips SET online_booked = online_booked - \\?").
		WithArgs(5, int64(7), 5).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT (.+) FROM trips WHERE id = \\?").
		WithArgs(int64(7)).
		WillReturnRows(tripRows().AddRow(
			7, 1, 1, "Batangas", "Calapan", "MV Reina",
			"2026-09-01", "08:00:00", 100, 2, 20, 0, "scheduled",
		))
	mock.ExpectExec("UPDATE trips SET online_booked = 0").
		WithArgs(int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	repo := TripRepo{DB: db}
	floored, err := repo.Release(db, 7, models.ChannelOnline, 5)
	if err != nil {
		t.Fatalf("Release: %v", err)
	}
	if !floored {
		t.Fatal("underflowing release should report the floor repair")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestTripReconcileOverwritesCounter(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("SELECT COALESCE\\(SUM\\(passenger_count\\), 0\\) FROM bookings").
		WithArgs(int64(7), true, "confirmed", "checked_in", "boarded", "completed").
		WillReturnRows(sqlmock.NewRows([]string{"total"}).AddRow(13))
	mock.ExpectExec("UPDATE trips SET walk_in_booked = \\?").
		WithArgs(13, int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	repo := TripRepo{DB: db}
	total, err := repo.Reconcile(db, 7, models.ChannelWalkIn)
	if err != nil {
		t.Fatalf("Reconcile: %v", err)
	}
	if total != 13 {
		t.Fatalf("reconciled total = %d, want 13", total)
	}
}
