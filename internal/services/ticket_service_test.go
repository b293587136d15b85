package services

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
)

func bookingRow() *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows([]string{
		"id", "reference", "trip_id", "contact_name", "contact_phone",
		"contact_email", "passenger_count", "total_amount_cents", "admin_fee_cents",
		"gcash_fee_cents", "is_walk_in", "status", "created_by",
		"refund_status", "vessel_name", "route_from",
		"route_to", "trip_date", "trip_time",
		"created_at", "updated_at",
	}).AddRow(
		5, "FB-20260830-ABC123", 7, "Juan Dela Cruz", "0917",
		"juan@example.com", 2, 113000, 4000,
		1500, false, "confirmed", 0,
		"", "MV Reina", "Batangas",
		"Calapan", "2026-09-10", "08:00:00",
		now, now,
	)
}

func passengerRows(ticketA, ticketB string) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"position", "fare_type", "full_name", "fare_cents", "ticket_no"}).
		AddRow(1, "adult", "Juan Dela Cruz", 55000, ticketA).
		AddRow(2, "senior", "Maria Dela Cruz", 44000, ticketB)
}

func TestTicketAssignAllocatesInOrder(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT (.+) FROM bookings WHERE id = \\? FOR UPDATE").
		WithArgs(int64(5)).WillReturnRows(bookingRow())
	mock.ExpectQuery("FROM booking_passengers").
		WithArgs(int64(5)).WillReturnRows(passengerRows("", ""))
	mock.ExpectExec("INSERT INTO tickets").
		WithArgs(int64(5), 1, "TKT-000000000001").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("UPDATE booking_passengers SET ticket_no").
		WithArgs("TKT-000000000001", int64(5), 1).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO tickets").
		WithArgs(int64(5), 2, "TKT-000000000002").
		WillReturnResult(sqlmock.NewResult(2, 1))
	mock.ExpectExec("UPDATE booking_passengers SET ticket_no").
		WithArgs("TKT-000000000002", int64(5), 2).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	seq := 0
	svc := TicketService{
		DB: db,
		Generate: func() string {
			seq++
			return []string{"TKT-000000000001", "TKT-000000000002"}[seq-1]
		},
	}

	numbers, err := svc.Assign(context.Background(), 5)
	if err != nil {
		t.Fatalf("Assign: %v", err)
	}
	if len(numbers) != 2 || numbers[0] != "TKT-000000000001" || numbers[1] != "TKT-000000000002" {
		t.Fatalf("numbers = %v, want ordered pair", numbers)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestTicketAssignIdempotent(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT (.+) FROM bookings WHERE id = \\? FOR UPDATE").
		WithArgs(int64(5)).WillReturnRows(bookingRow())
	mock.ExpectQuery("FROM booking_passengers").
		WithArgs(int64(5)).WillReturnRows(passengerRows("TKT-AAA", "TKT-BBB"))
	mock.ExpectCommit()

	svc := TicketService{
		DB: db,
		Generate: func() string {
			t.Fatal("fully ticketed booking must not generate new numbers")
			return ""
		},
	}

	numbers, err := svc.Assign(context.Background(), 5)
	if err != nil {
		t.Fatalf("Assign: %v", err)
	}
	if len(numbers) != 2 || numbers[0] != "TKT-AAA" || numbers[1] != "TKT-BBB" {
		t.Fatalf("numbers = %v, want existing set unchanged", numbers)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestTicketAssignRetriesOnCollision(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT (.+) FROM bookings WHERE id = \\? FOR UPDATE").
		WithArgs(int64(5)).WillReturnRows(bookingRow())
	mock.ExpectQuery("FROM booking_passengers").
		WithArgs(int64(5)).WillReturnRows(passengerRows("TKT-AAA", ""))
	mock.ExpectExec("INSERT INTO tickets").
		WithArgs(int64(5), 2, "TKT-DUP").
		WillReturnError(&mysql.MySQLError{Number: 1062})
	mock.ExpectExec("INSERT INTO tickets").
		WithArgs(int64(5), 2, "TKT-FRESH").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("UPDATE booking_passengers SET ticket_no").
		WithArgs("TKT-FRESH", int64(5), 2).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	seq := 0
	svc := TicketService{
		DB: db,
		Generate: func() string {
			seq++
			if seq == 1 {
				return "TKT-DUP"
			}
			return "TKT-FRESH"
		},
	}

	numbers, err := svc.Assign(context.Background(), 5)
	if err != nil {
		t.Fatalf("Assign: %v", err)
	}
	if len(numbers) != 2 || numbers[1] != "TKT-FRESH" {
		t.Fatalf("numbers = %v, want retried second ticket", numbers)
	}
}
