package services

import (
	"context"
	"testing"
	"time"

	intconfig "ferry-booking/internal/config"
	"ferry-booking/internal/domain"
	"ferry-booking/internal/domain/models"

	"github.com/DATA-DOG/go-sqlmock"
)

func refundRow(id int64, status string) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows([]string{
		"id", "booking_id", "amount_cents", "reason", "status",
		"requested_by", "reviewed_by", "created_at", "updated_at",
	}).AddRow(id, 5, 113000, "vessel engine failure", status, 9, 0, now, now)
}

func TestRequestRefundOpensFirstRefund(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()
	intconfig.DB = db

	expectBookingByReference(mock, "FB-20260830-ABC123")
	mock.ExpectQuery("FROM refunds WHERE booking_id = \\?").
		WithArgs(int64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO refunds").
		WithArgs(int64(5), int64(113000), "vessel engine failure", "requested", int64(9)).
		WillReturnResult(sqlmock.NewResult(11, 1))
	mock.ExpectExec("UPDATE bookings SET refund_status = \\?").
		WithArgs("requested", int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	svc := RefundService{DB: db}
	refund, err := svc.Request(context.Background(), "FB-20260830-ABC123", "vessel engine failure", 9)
	if err != nil {
		t.Fatalf("Request: %v", err)
	}
	if refund.ID != 11 || refund.Status != models.RefundRequested {
		t.Fatalf("refund = %+v, want id 11 in requested", refund)
	}
	if refund.AmountCents != 113000 {
		t.Fatalf("amount = %d, want the booking total", refund.AmountCents)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestRequestRefundRejectsSecondOpenRefund(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()
	intconfig.DB = db

	expectBookingByReference(mock, "FB-20260830-ABC123")
	mock.ExpectQuery("FROM refunds WHERE booking_id = \\?").
		WithArgs(int64(5)).
		WillReturnRows(refundRow(11, "under_review"))

	svc := RefundService{DB: db}
	_, err = svc.Request(context.Background(), "FB-20260830-ABC123", "changed my mind", 9)
	if !domain.IsConflict(err) {
		t.Fatalf("want conflict while a refund is open, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestReviewMirrorsStatusOntoBooking(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()
	intconfig.DB = db

	mock.ExpectQuery("FROM refunds WHERE id = \\?").
		WithArgs(int64(11)).WillReturnRows(refundRow(11, "requested"))

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE refunds SET status = \\?").
		WithArgs("approved", int64(3), int64(11), "requested").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE bookings SET refund_status = \\?").
		WithArgs("approved", int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	mock.ExpectQuery("FROM refunds WHERE id = \\?").
		WithArgs(int64(11)).WillReturnRows(refundRow(11, "approved"))

	svc := RefundService{DB: db}
	refund, err := svc.Review(context.Background(), 11, models.RefundApproved, 3)
	if err != nil {
		t.Fatalf("Review: %v", err)
	}
	if refund.Status != models.RefundApproved {
		t.Fatalf("status = %s, want approved", refund.Status)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestReviewRejectsIllegalMove(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()
	intconfig.DB = db

	svc := RefundService{DB: db}

	// processed is not a review outcome at all
	if _, err := svc.Review(context.Background(), 11, models.RefundProcessed, 3); !domain.IsValidation(err) {
		t.Fatalf("want validation error, got %v", err)
	}

	// a rejected refund is terminal
	mock.ExpectQuery("FROM refunds WHERE id = \\?").
		WithArgs(int64(11)).WillReturnRows(refundRow(11, "rejected"))
	if _, err := svc.Review(context.Background(), 11, models.RefundApproved, 3); !domain.IsInvalidState(err) {
		t.Fatalf("want invalid state for rejected refund, got %v", err)
	}
}

func TestProcessRefundMovesBookingToRefunded(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()
	intconfig.DB = db

	mock.ExpectQuery("FROM refunds WHERE id = \\?").
		WithArgs(int64(11)).WillReturnRows(refundRow(11, "approved"))
	mock.ExpectQuery("SELECT (.+) FROM bookings WHERE id = \\?").
		WithArgs(int64(5)).WillReturnRows(bookingRow())
	mock.ExpectQuery("FROM booking_passengers").
		WithArgs(int64(5)).WillReturnRows(passengerRows("TKT-AAA", "TKT-BBB"))

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE refunds SET status = \\?").
		WithArgs("processed", int64(3), int64(11), "approved").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE bookings SET status = \\?").
		WithArgs("refunded", int64(5), "confirmed").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE bookings SET refund_status = \\?").
		WithArgs("processed", int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	mock.ExpectQuery("FROM refunds WHERE id = \\?").
		WithArgs(int64(11)).WillReturnRows(refundRow(11, "processed"))
	mock.ExpectQuery("SELECT (.+) FROM bookings WHERE id = \\?").
		WithArgs(int64(5)).WillReturnRows(bookingRow())
	mock.ExpectQuery("FROM booking_passengers").
		WithArgs(int64(5)).WillReturnRows(passengerRows("TKT-AAA", "TKT-BBB"))

	svc := RefundService{DB: db}
	refund, err := svc.Process(context.Background(), 11, 3)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if refund.Status != models.RefundProcessed {
		t.Fatalf("status = %s, want processed", refund.Status)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestProcessRequiresApprovedRefund(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()
	intconfig.DB = db

	mock.ExpectQuery("FROM refunds WHERE id = \\?").
		WithArgs(int64(11)).WillReturnRows(refundRow(11, "requested"))

	svc := RefundService{DB: db}
	if _, err := svc.Process(context.Background(), 11, 3); !domain.IsInvalidState(err) {
		t.Fatalf("want invalid state, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}
