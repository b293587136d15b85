package services

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	intconfig "ferry-booking/internal/config"
	intdb "ferry-booking/internal/db"
	"ferry-booking/internal/domain"
	"ferry-booking/internal/domain/models"
	"ferry-booking/internal/repositories"
	"ferry-booking/internal/utils"
)

// referenceRetries bounds the duplicate-reference retry loop.
const referenceRetries = 3

// CreateBookingRequest carries a booking creation from the API layer.
// Totals are always recomputed server-side from fare rules and fee
// settings; nothing here is trusted as a price.
type CreateBookingRequest struct {
	TripID       int64                  `json:"trip_id"`
	ContactName  string                 `json:"contact_name"`
	ContactPhone string                 `json:"contact_phone"`
	ContactEmail string                 `json:"contact_email"`
	Passengers   []models.PassengerInput `json:"passengers"`
	CreatedBy    int64                  `json:"-"`
}

// BookingService drives the booking lifecycle: creation on either
// channel, payment confirmation, and pending-payment spam removal.
type BookingService struct {
	BookingRepo     repositories.BookingRepo
	TripRepo        repositories.TripRepo
	FareRuleRepo    repositories.FareRuleRepo
	SettingsRepo    repositories.SettingsRepo
	RestrictionRepo repositories.RestrictionRepo
	Inventory       InventoryService
	Tickets         TicketService
	Notifier        Notifier
	DB              *sql.DB
	RequestID       string
	// Now overrides the clock in tests.
	Now func() time.Time
}

func (s BookingService) db() *sql.DB {
	if s.DB != nil {
		return s.DB
	}
	return intconfig.DB
}

func (s BookingService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return utils.NowManila()
}

func (s BookingService) notifier() Notifier {
	if s.Notifier != nil {
		return s.Notifier
	}
	return LogNotifier{RequestID: s.RequestID}
}

// CreateOnline creates a self-serve booking in pending_payment and
// reserves its seats from the online quota.
func (s BookingService) CreateOnline(ctx context.Context, req CreateBookingRequest) (models.Booking, error) {
	return s.create(ctx, req, false, 0)
}

// CreateWalkIn creates a staff-entered booking paid at the counter: the
// booking lands directly in confirmed, seats come from the walk-in
// quota, and tickets are assigned immediately.
func (s BookingService) CreateWalkIn(ctx context.Context, req CreateBookingRequest, staffID int64) (models.Booking, error) {
	return s.create(ctx, req, true, staffID)
}

func (s BookingService) create(ctx context.Context, req CreateBookingRequest, walkIn bool, staffID int64) (models.Booking, error) {
	if err := validateCreate(req); err != nil {
		return models.Booking{}, err
	}

	now := s.now()

	// Restriction gate runs before any seat is touched.
	if req.CreatedBy > 0 {
		restriction, err := s.RestrictionRepo.GetByProfile(req.CreatedBy)
		if err != nil {
			return models.Booking{}, err
		}
		if restriction.IsBlockedNow(now) {
			e := domain.RestrictionError{ProfileID: req.CreatedBy}
			if restriction.BlockedAt == nil && restriction.BlockedUntil != nil {
				e.Until = *restriction.BlockedUntil
			}
			return models.Booking{}, e
		}
	}

	trip, err := s.TripRepo.GetByID(req.TripID)
	if err != nil {
		return models.Booking{}, err
	}
	if trip.Status != models.TripScheduled {
		return models.Booking{}, domain.InvalidStateError{Status: string(trip.Status), Action: "book"}
	}

	rule, err := s.FareRuleRepo.ActiveForRoute(trip.RouteID, utils.FormatDate(now))
	if err != nil {
		return models.Booking{}, err
	}
	settings, err := s.SettingsRepo.LoadFeeSettings()
	if err != nil {
		return models.Booking{}, err
	}

	passengers := make([]models.Passenger, len(req.Passengers))
	fares := make([]int64, len(req.Passengers))
	for i, in := range req.Passengers {
		fare := domain.ComputeFare(rule.BaseFareCents, rule.DiscountPercent, in.FareType)
		passengers[i] = models.Passenger{
			Position:  i + 1,
			FareType:  in.FareType,
			FullName:  utils.NormalizeSpace(in.FullName),
			FareCents: fare,
		}
		fares[i] = fare
	}
	cost := domain.ComputeBookingCost(fares, settings, walkIn)

	booking := models.Booking{
		TripID:         trip.ID,
		ContactName:    utils.NormalizeSpace(req.ContactName),
		ContactPhone:   strings.TrimSpace(req.ContactPhone),
		ContactEmail:   strings.TrimSpace(req.ContactEmail),
		PassengerCount: len(passengers),
		Passengers:     passengers,
		TotalCents:     cost.TotalCents,
		AdminFeeCents:  cost.AdminFeeCents,
		GcashFeeCents:  cost.GcashFeeCents,
		IsWalkIn:       walkIn,
		Status:         models.StatusPendingPayment,
		CreatedBy:      req.CreatedBy,
	}
	if walkIn {
		booking.Status = models.StatusConfirmed
		if booking.CreatedBy == 0 {
			booking.CreatedBy = staffID
		}
	}

	var bookingID int64
	err = intdb.WithTx(ctx, s.db(), func(tx *sql.Tx) error {
		if err := s.Inventory.Reserve(tx, trip.ID, booking.Channel(), booking.PassengerCount); err != nil {
			return err
		}
		id, err := s.insertWithReferenceRetry(tx, booking, now)
		if err != nil {
			return err
		}
		bookingID = id
		if walkIn {
			// Walk-ins are confirmed at creation, so the snapshot is
			// taken here rather than at payment confirmation.
			if err := s.BookingRepo.Snapshot(tx, id, trip); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return models.Booking{}, err
	}

	if walkIn {
		// The booking and its seats are already committed; Assign is
		// idempotent and can be retried, so its failure is logged
		// rather than hiding the booking from the caller.
		if _, err := s.Tickets.Assign(ctx, bookingID); err != nil {
			utils.LogEvent(s.RequestID, "booking", "ticket_assign_failed",
				fmt.Sprintf("booking_id=%d err=%v", bookingID, err))
		}
	}

	created, err := s.BookingRepo.GetByID(bookingID)
	if err != nil {
		return models.Booking{}, err
	}

	utils.LogEvent(s.RequestID, "booking", "create",
		fmt.Sprintf("reference=%s trip_id=%d channel=%s passengers=%d total=%s",
			created.Reference, trip.ID, created.Channel(), created.PassengerCount,
			utils.FormatPeso(created.TotalCents)))

	if walkIn {
		s.notifier().BookingConfirmed(created)
	}
	return created, nil
}

func (s BookingService) insertWithReferenceRetry(tx *sql.Tx, b models.Booking, now time.Time) (int64, error) {
	for attempt := 0; attempt < referenceRetries; attempt++ {
		b.Reference = utils.NewBookingReference(now)
		id, err := s.BookingRepo.Insert(tx, b)
		if err == nil {
			return id, nil
		}
		if !repositories.IsDuplicateKey(err) {
			return 0, err
		}
	}
	return 0, domain.InternalError{Msg: "booking reference generation kept colliding"}
}

// ConfirmPayment moves a pending_payment booking to confirmed, takes
// the trip snapshot, assigns ticket numbers, and notifies the passenger.
func (s BookingService) ConfirmPayment(ctx context.Context, reference string) (models.Booking, error) {
	booking, err := s.BookingRepo.GetByReference(reference)
	if err != nil {
		return models.Booking{}, err
	}

	err = intdb.WithTx(ctx, s.db(), func(tx *sql.Tx) error {
		ok, err := s.BookingRepo.UpdateStatusFrom(tx, booking.ID, models.StatusPendingPayment, models.StatusConfirmed)
		if err != nil {
			return err
		}
		if !ok {
			return domain.InvalidStateError{Status: string(booking.Status), Action: "confirm payment for"}
		}
		if booking.TripID != 0 {
			trip, err := s.TripRepo.GetByIDTx(tx, booking.TripID)
			if err != nil {
				return err
			}
			if err := s.BookingRepo.Snapshot(tx, booking.ID, trip); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return models.Booking{}, err
	}

	// Same contract as walk-in creation: the confirmed booking stands
	// even when ticket assignment fails, since Assign can be retried.
	if _, err := s.Tickets.Assign(ctx, booking.ID); err != nil {
		utils.LogEvent(s.RequestID, "booking", "ticket_assign_failed",
			fmt.Sprintf("booking_id=%d err=%v", booking.ID, err))
	}

	confirmed, err := s.BookingRepo.GetByID(booking.ID)
	if err != nil {
		return models.Booking{}, err
	}

	utils.LogEvent(s.RequestID, "booking", "confirm_payment", "reference="+reference)
	s.notifier().BookingConfirmed(confirmed)
	return confirmed, nil
}

// DeleteSpam hard-deletes a pending_payment booking and returns its
// seats to the channel it reserved from. Rejected for any other status.
func (s BookingService) DeleteSpam(ctx context.Context, bookingID int64) error {
	booking, err := s.BookingRepo.GetByID(bookingID)
	if err != nil {
		return err
	}

	err = intdb.WithTx(ctx, s.db(), func(tx *sql.Tx) error {
		ok, err := s.BookingRepo.DeletePending(tx, bookingID)
		if err != nil {
			return err
		}
		if !ok {
			return domain.InvalidStateError{Status: string(booking.Status), Action: "delete"}
		}
		if booking.TripID != 0 {
			if err := s.Inventory.Release(tx, booking.TripID, booking.Channel(), booking.PassengerCount); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	utils.LogEvent(s.RequestID, "booking", "delete_spam",
		fmt.Sprintf("booking_id=%d seats_released=%d", bookingID, booking.PassengerCount))
	return nil
}

func validateCreate(req CreateBookingRequest) error {
	if req.TripID <= 0 {
		return domain.ValidationError{Field: "trip_id", Msg: "required"}
	}
	if strings.TrimSpace(req.ContactName) == "" {
		return domain.ValidationError{Field: "contact_name", Msg: "required"}
	}
	if strings.TrimSpace(req.ContactPhone) == "" && strings.TrimSpace(req.ContactEmail) == "" {
		return domain.ValidationError{Field: "contact", Msg: "phone or email required"}
	}
	if len(req.Passengers) == 0 {
		return domain.ValidationError{Field: "passengers", Msg: "at least one passenger required"}
	}
	for i, p := range req.Passengers {
		if strings.TrimSpace(p.FullName) == "" {
			return domain.ValidationError{Field: fmt.Sprintf("passengers[%d].full_name", i), Msg: "required"}
		}
		if !domain.ValidFareType(p.FareType) {
			return domain.ValidationError{Field: fmt.Sprintf("passengers[%d].fare_type", i), Msg: fmt.Sprintf("unknown fare type %q", p.FareType)}
		}
	}
	return nil
}
