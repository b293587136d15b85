package services

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	intconfig "ferry-booking/internal/config"
	intdb "ferry-booking/internal/db"
	"ferry-booking/internal/domain"
	"ferry-booking/internal/domain/models"
	"ferry-booking/internal/repositories"
	"ferry-booking/internal/utils"
)

// RescheduleCutoff is the hard boundary before departure past which a
// booking can no longer be moved.
const RescheduleCutoff = 24 * time.Hour

// RescheduleResult is returned to the caller: the updated booking and
// the surcharge that was added to its total.
type RescheduleResult struct {
	Booking  models.Booking `json:"booking"`
	FeeCents int64          `json:"fee_cents"`
}

// RescheduleService moves a booking between trips. The audit row,
// booking update, old-trip release and new-trip reserve commit as one
// transaction: a failure at any step, including a lost capacity race on
// the target trip, rolls everything back.
type RescheduleService struct {
	BookingRepo  repositories.BookingRepo
	TripRepo     repositories.TripRepo
	ChangeRepo   repositories.BookingChangeRepo
	SettingsRepo repositories.SettingsRepo
	Inventory    InventoryService
	DB           *sql.DB
	RequestID    string
	// Now overrides the clock in tests.
	Now func() time.Time
}

func (s RescheduleService) db() *sql.DB {
	if s.DB != nil {
		return s.DB
	}
	return intconfig.DB
}

func (s RescheduleService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return utils.NowManila()
}

// Reschedule moves the booking with the given reference to newTripID.
// Preconditions are checked in order, each with its own error: booking
// status, distinct target trip, the 24-hour cutoff on the current
// trip's departure, and free capacity on the target in the booking's
// own channel.
func (s RescheduleService) Reschedule(ctx context.Context, reference string, newTripID, actorID int64) (RescheduleResult, error) {
	booking, err := s.BookingRepo.GetByReference(reference)
	if err != nil {
		return RescheduleResult{}, err
	}

	if !booking.Status.Reschedulable() {
		return RescheduleResult{}, domain.InvalidStateError{Status: string(booking.Status), Action: "reschedule"}
	}
	if booking.TripID == 0 {
		return RescheduleResult{}, domain.ValidationError{Field: "booking", Msg: "booking is detached from its trip"}
	}
	if newTripID == booking.TripID {
		return RescheduleResult{}, domain.ValidationError{Field: "trip_id", Msg: "target trip is the current trip"}
	}

	oldTrip, err := s.TripRepo.GetByID(booking.TripID)
	if err != nil {
		return RescheduleResult{}, err
	}
	departure, err := utils.DepartureAt(oldTrip.DepartureDate, oldTrip.DepartureTime)
	if err != nil {
		return RescheduleResult{}, domain.InternalError{Msg: "trip has an unreadable departure timestamp", Err: err}
	}
	if s.now().Add(RescheduleCutoff).After(departure) {
		return RescheduleResult{}, domain.CutoffError{Departure: departure}
	}

	newTrip, err := s.TripRepo.GetByID(newTripID)
	if err != nil {
		return RescheduleResult{}, err
	}
	channel := booking.Channel()
	if newTrip.Available(channel) < booking.PassengerCount {
		return RescheduleResult{}, domain.CapacityError{
			Channel:   string(channel),
			Requested: booking.PassengerCount,
			Available: newTrip.Available(channel),
		}
	}

	settings, err := s.SettingsRepo.LoadFeeSettings()
	if err != nil {
		return RescheduleResult{}, err
	}
	fee := domain.RescheduleFee(booking.TotalCents, booking.AdminFeeCents, booking.GcashFeeCents, settings.ReschedulePercent)

	err = intdb.WithTx(ctx, s.db(), func(tx *sql.Tx) error {
		if _, err := s.ChangeRepo.Insert(tx, models.BookingChange{
			BookingID:          booking.ID,
			FromTripID:         oldTrip.ID,
			ToTripID:           newTrip.ID,
			AdditionalFeeCents: fee,
			ChangedBy:          actorID,
		}); err != nil {
			return err
		}
		ok, err := s.BookingRepo.ApplyReschedule(tx, booking.ID, newTrip.ID, fee, booking.Status, booking.TripID, newTrip)
		if err != nil {
			return err
		}
		if !ok {
			// Locking re-read for an accurate error: the guarded update
			// loses races on purpose.
			current, rerr := s.BookingRepo.GetByIDTx(tx, booking.ID, true)
			if rerr != nil {
				return rerr
			}
			if current.TripID != booking.TripID {
				return domain.ConflictError{Msg: "booking was rescheduled concurrently"}
			}
			return domain.InvalidStateError{Status: string(current.Status), Action: "reschedule"}
		}
		if err := s.Inventory.Release(tx, oldTrip.ID, channel, booking.PassengerCount); err != nil {
			return err
		}
		// The precheck above makes this reserve succeed under correct
		// sequencing; losing a race here surfaces as CapacityError and
		// rolls the whole move back.
		return s.Inventory.Reserve(tx, newTrip.ID, channel, booking.PassengerCount)
	})
	if err != nil {
		return RescheduleResult{}, err
	}

	updated, err := s.BookingRepo.GetByID(booking.ID)
	if err != nil {
		return RescheduleResult{}, err
	}

	utils.LogEvent(s.RequestID, "reschedule", "apply",
		fmt.Sprintf("reference=%s from_trip=%d to_trip=%d fee=%s",
			reference, oldTrip.ID, newTrip.ID, utils.FormatPeso(fee)))

	return RescheduleResult{Booking: updated, FeeCents: fee}, nil
}
