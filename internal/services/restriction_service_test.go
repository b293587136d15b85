package services

import (
	"testing"
	"time"

	intconfig "ferry-booking/internal/config"
	"ferry-booking/internal/domain"
	"ferry-booking/internal/domain/models"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestWarnSaturationBecomesConflict(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()
	intconfig.DB = db

	mock.ExpectExec("INSERT INTO passenger_restrictions").
		WithArgs(int64(42), int64(9)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("SET booking_warnings = booking_warnings \\+ 1").
		WithArgs(int64(9), int64(42), models.MaxBookingWarnings).
		WillReturnResult(sqlmock.NewResult(0, 0))

	svc := RestrictionService{}
	_, err = svc.Warn(42, 9)
	if !domain.IsConflict(err) {
		t.Fatalf("want conflict at max warnings, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestBlockUntilMustBeFuture(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	svc := RestrictionService{Now: func() time.Time { return now }}

	if _, err := svc.BlockUntil(42, 9, now.Add(-time.Minute)); !domain.IsValidation(err) {
		t.Fatalf("want validation error for past expiry, got %v", err)
	}
	if _, err := svc.BlockUntil(42, 9, now); !domain.IsValidation(err) {
		t.Fatalf("want validation error for non-future expiry, got %v", err)
	}
}
