package services

import (
	"context"
	"database/sql"
	"fmt"

	intconfig "ferry-booking/internal/config"
	intdb "ferry-booking/internal/db"
	"ferry-booking/internal/domain"
	"ferry-booking/internal/domain/models"
	"ferry-booking/internal/repositories"
	"ferry-booking/internal/utils"
)

// RefundService runs the staff-reviewed refund workflow. The booking's
// refund_status column always mirrors the latest refund record; both
// rows are written in the same transaction.
type RefundService struct {
	BookingRepo repositories.BookingRepo
	RefundRepo  repositories.RefundRepo
	Notifier    Notifier
	DB          *sql.DB
	RequestID   string
}

func (s RefundService) db() *sql.DB {
	if s.DB != nil {
		return s.DB
	}
	return intconfig.DB
}

func (s RefundService) notify() Notifier {
	if s.Notifier != nil {
		return s.Notifier
	}
	return LogNotifier{RequestID: s.RequestID}
}

// Request opens a refund for the booking with the given reference. Only
// bookings past payment and not already terminal can be refunded, and
// only one refund may be open at a time.
func (s RefundService) Request(ctx context.Context, reference, reason string, requestedBy int64) (models.Refund, error) {
	booking, err := s.BookingRepo.GetByReference(reference)
	if err != nil {
		return models.Refund{}, err
	}
	if !booking.Status.Refundable() {
		return models.Refund{}, domain.InvalidStateError{Status: string(booking.Status), Action: "refund"}
	}
	latest, err := s.RefundRepo.LatestByBooking(booking.ID)
	if err != nil && !domain.IsNotFound(err) {
		return models.Refund{}, err
	}
	if latest.ID != 0 && latest.Status != models.RefundRejected && latest.Status != models.RefundProcessed {
		return models.Refund{}, domain.ConflictError{Msg: "a refund is already open for this booking"}
	}

	refund := models.Refund{
		BookingID:   booking.ID,
		AmountCents: booking.TotalCents,
		Reason:      reason,
		Status:      models.RefundRequested,
		RequestedBy: requestedBy,
	}
	err = intdb.WithTx(ctx, s.db(), func(tx *sql.Tx) error {
		id, err := s.RefundRepo.Insert(tx, refund)
		if err != nil {
			return err
		}
		refund.ID = id
		return s.BookingRepo.SetRefundStatus(tx, booking.ID, models.RefundRequested)
	})
	if err != nil {
		return models.Refund{}, err
	}

	utils.LogEvent(s.RequestID, "refund", "request",
		fmt.Sprintf("reference=%s refund_id=%d amount=%s", reference, refund.ID, utils.FormatPeso(refund.AmountCents)))
	return refund, nil
}

// Review moves a refund to under_review, approved, or rejected. Illegal
// moves in the review flow are rejected with the current status.
func (s RefundService) Review(ctx context.Context, refundID int64, to models.RefundStatus, reviewedBy int64) (models.Refund, error) {
	switch to {
	case models.RefundUnderReview, models.RefundApproved, models.RefundRejected:
	default:
		return models.Refund{}, domain.ValidationError{Field: "status", Msg: "must be under_review, approved, or rejected"}
	}

	refund, err := s.RefundRepo.GetByID(s.db(), refundID)
	if err != nil {
		return models.Refund{}, err
	}
	if !models.CanRefundTransition(refund.Status, to) {
		return models.Refund{}, domain.InvalidStateError{Status: string(refund.Status), Action: string(to) + " for refund"}
	}

	err = intdb.WithTx(ctx, s.db(), func(tx *sql.Tx) error {
		ok, err := s.RefundRepo.UpdateStatusFrom(tx, refundID, refund.Status, to, reviewedBy)
		if err != nil {
			return err
		}
		if !ok {
			return domain.ConflictError{Msg: "refund was updated concurrently"}
		}
		return s.BookingRepo.SetRefundStatus(tx, refund.BookingID, to)
	})
	if err != nil {
		return models.Refund{}, err
	}

	utils.LogEvent(s.RequestID, "refund", "review", fmt.Sprintf("refund_id=%d status=%s", refundID, to))
	return s.RefundRepo.GetByID(s.db(), refundID)
}

// Process finalizes an approved refund: the refund becomes processed
// and the booking itself moves to refunded, in one transaction.
func (s RefundService) Process(ctx context.Context, refundID, processedBy int64) (models.Refund, error) {
	refund, err := s.RefundRepo.GetByID(s.db(), refundID)
	if err != nil {
		return models.Refund{}, err
	}
	if refund.Status != models.RefundApproved {
		return models.Refund{}, domain.InvalidStateError{Status: string(refund.Status), Action: "process refund"}
	}

	booking, err := s.BookingRepo.GetByID(refund.BookingID)
	if err != nil {
		return models.Refund{}, err
	}
	if !models.CanTransition(booking.Status, models.StatusRefunded) {
		return models.Refund{}, domain.InvalidStateError{Status: string(booking.Status), Action: "refund"}
	}

	err = intdb.WithTx(ctx, s.db(), func(tx *sql.Tx) error {
		ok, err := s.RefundRepo.UpdateStatusFrom(tx, refundID, models.RefundApproved, models.RefundProcessed, processedBy)
		if err != nil {
			return err
		}
		if !ok {
			return domain.ConflictError{Msg: "refund was updated concurrently"}
		}
		ok, err = s.BookingRepo.UpdateStatusFrom(tx, booking.ID, booking.Status, models.StatusRefunded)
		if err != nil {
			return err
		}
		if !ok {
			return domain.ConflictError{Msg: "booking was updated concurrently"}
		}
		return s.BookingRepo.SetRefundStatus(tx, booking.ID, models.RefundProcessed)
	})
	if err != nil {
		return models.Refund{}, err
	}

	processed, err := s.RefundRepo.GetByID(s.db(), refundID)
	if err != nil {
		return models.Refund{}, err
	}
	updated, err := s.BookingRepo.GetByID(booking.ID)
	if err != nil {
		return models.Refund{}, err
	}
	s.notify().RefundProcessed(updated, processed)
	utils.LogEvent(s.RequestID, "refund", "process", fmt.Sprintf("refund_id=%d booking=%s", refundID, booking.Reference))
	return processed, nil
}
