package services

import (
	"context"
	"database/sql"

	intconfig "ferry-booking/internal/config"
	"ferry-booking/internal/domain"
	"ferry-booking/internal/domain/models"
	"ferry-booking/internal/repositories"
	"ferry-booking/internal/utils"
)

// CheckInAction names the two crew-scan transitions.
type CheckInAction string

const (
	ActionCheckIn CheckInAction = "checked_in"
	ActionBoard   CheckInAction = "boarded"
)

// CheckInService handles crew scans and manual check-ins. Transitions
// are strictly forward-only; an attempt from any other status is
// rejected with an explicit error, never silently absorbed.
type CheckInService struct {
	BookingRepo repositories.BookingRepo
	DB          *sql.DB
	RequestID   string
}

func (s CheckInService) db() *sql.DB {
	if s.DB != nil {
		return s.DB
	}
	return intconfig.DB
}

func (s CheckInService) bookings() repositories.BookingRepo {
	if s.BookingRepo.DB != nil {
		return s.BookingRepo
	}
	return repositories.BookingRepo{DB: s.db()}
}

// Apply performs one check-in action on the booking with the given
// reference and returns the updated booking.
func (s CheckInService) Apply(ctx context.Context, reference string, action CheckInAction) (models.Booking, error) {
	var from, to models.BookingStatus
	switch action {
	case ActionCheckIn:
		from, to = models.StatusConfirmed, models.StatusCheckedIn
	case ActionBoard:
		from, to = models.StatusCheckedIn, models.StatusBoarded
	default:
		return models.Booking{}, domain.ValidationError{Field: "action", Msg: "must be checked_in or boarded"}
	}

	booking, err := s.bookings().GetByReference(reference)
	if err != nil {
		return models.Booking{}, err
	}

	ok, err := s.bookings().UpdateStatusFrom(s.db(), booking.ID, from, to)
	if err != nil {
		return models.Booking{}, err
	}
	if !ok {
		// Re-read for an accurate status in the error: the guarded
		// update loses races on purpose.
		current, rerr := s.bookings().GetByID(booking.ID)
		if rerr != nil {
			return models.Booking{}, rerr
		}
		return models.Booking{}, domain.InvalidStateError{Status: string(current.Status), Action: string(action) + " for"}
	}

	utils.LogEvent(s.RequestID, "checkin", string(action), "reference="+reference)
	return s.bookings().GetByID(booking.ID)
}
