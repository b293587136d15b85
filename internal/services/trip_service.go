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

// ExpandScheduleRequest describes a route/vessel pair and the dates and
// departure times to cross them over.
type ExpandScheduleRequest struct {
	RouteID     int64    `json:"route_id"`
	BoatID      int64    `json:"boat_id"`
	RouteFrom   string   `json:"route_from"`
	RouteTo     string   `json:"route_to"`
	VesselName  string   `json:"vessel_name"`
	Dates       []string `json:"dates"` // YYYY-MM-DD
	Times       []string `json:"times"` // HH:MM or HH:MM:SS
	OnlineQuota int      `json:"online_quota"`
	WalkInQuota int      `json:"walk_in_quota"`
}

// ManifestEntry is one booking's slice of the sailing manifest.
type ManifestEntry struct {
	Reference      string             `json:"reference"`
	ContactName    string             `json:"contact_name"`
	Status         string             `json:"status"`
	PassengerCount int                `json:"passenger_count"`
	IsWalkIn       bool               `json:"is_walk_in"`
	Passengers     []models.Passenger `json:"passengers"`
}

// TripService manages sailing schedules. Expansion is idempotent per
// route/vessel/date/time slot so a schedule upload can be re-run safely.
type TripService struct {
	TripRepo    repositories.TripRepo
	BookingRepo repositories.BookingRepo
	Inventory   InventoryService
	DB          *sql.DB
	RequestID   string
}

func (s TripService) db() *sql.DB {
	if s.DB != nil {
		return s.DB
	}
	return intconfig.DB
}

// ExpandSchedule creates one scheduled trip per date x time combination,
// skipping slots that already exist. Returns the IDs of the trips it
// created.
func (s TripService) ExpandSchedule(ctx context.Context, req ExpandScheduleRequest) ([]int64, error) {
	if req.RouteID <= 0 {
		return nil, domain.ValidationError{Field: "route_id", Msg: "is required"}
	}
	if req.BoatID <= 0 {
		return nil, domain.ValidationError{Field: "boat_id", Msg: "is required"}
	}
	if len(req.Dates) == 0 {
		return nil, domain.ValidationError{Field: "dates", Msg: "at least one date is required"}
	}
	if len(req.Times) == 0 {
		return nil, domain.ValidationError{Field: "times", Msg: "at least one departure time is required"}
	}
	if req.OnlineQuota < 0 || req.WalkInQuota < 0 {
		return nil, domain.ValidationError{Field: "quota", Msg: "must not be negative"}
	}
	for _, d := range req.Dates {
		if _, err := utils.ParseDate(d); err != nil {
			return nil, domain.ValidationError{Field: "dates", Msg: "invalid date " + d}
		}
	}
	for _, d := range req.Dates {
		for _, t := range req.Times {
			if _, err := utils.DepartureAt(d, t); err != nil {
				return nil, domain.ValidationError{Field: "times", Msg: "invalid time " + t}
			}
		}
	}

	var created []int64
	for _, date := range req.Dates {
		for _, tod := range req.Times {
			exists, err := s.TripRepo.SlotExists(req.RouteID, req.BoatID, date, tod)
			if err != nil {
				return created, err
			}
			if exists {
				continue
			}
			id, err := s.TripRepo.Insert(models.Trip{
				RouteID:       req.RouteID,
				BoatID:        req.BoatID,
				RouteFrom:     req.RouteFrom,
				RouteTo:       req.RouteTo,
				VesselName:    req.VesselName,
				DepartureDate: date,
				DepartureTime: tod,
				OnlineQuota:   req.OnlineQuota,
				WalkInQuota:   req.WalkInQuota,
				Status:        models.TripScheduled,
			})
			if err != nil {
				return created, err
			}
			created = append(created, id)
		}
	}

	utils.LogEvent(s.RequestID, "trips", "expand_schedule",
		fmt.Sprintf("route=%d boat=%d created=%d", req.RouteID, req.BoatID, len(created)))
	return created, nil
}

// Get returns one trip.
func (s TripService) Get(tripID int64) (models.Trip, error) {
	return s.TripRepo.GetByID(tripID)
}

// ListByDate returns all trips sailing on the given date.
func (s TripService) ListByDate(date string) ([]models.Trip, error) {
	if _, err := utils.ParseDate(date); err != nil {
		return nil, domain.ValidationError{Field: "date", Msg: "must be YYYY-MM-DD"}
	}
	return s.TripRepo.ListByDate(date)
}

// Delete removes a trip. A trip that still carries active passengers
// cannot be deleted; a departed or arrived trip can, with its bookings
// detached onto their stored snapshot first so history survives.
func (s TripService) Delete(ctx context.Context, tripID int64) error {
	trip, err := s.TripRepo.GetByID(tripID)
	if err != nil {
		return err
	}

	if trip.Status != models.TripDeparted && trip.Status != models.TripArrived && trip.Status != models.TripCancelled {
		count, err := s.TripRepo.CountManifestPassengers(tripID)
		if err != nil {
			return err
		}
		if count > 0 {
			return domain.ConflictError{Msg: fmt.Sprintf("trip still has %d active passengers", count)}
		}
	}

	err = intdb.WithTx(ctx, s.db(), func(tx *sql.Tx) error {
		if err := s.BookingRepo.DetachFromTrip(tx, trip); err != nil {
			return err
		}
		return s.TripRepo.Delete(tx, tripID)
	})
	if err != nil {
		return err
	}

	utils.LogEvent(s.RequestID, "trips", "delete", fmt.Sprintf("trip=%d status=%s", tripID, trip.Status))
	return nil
}

// SetStatus moves a trip through its sailing lifecycle.
func (s TripService) SetStatus(tripID int64, to models.TripStatus) (models.Trip, error) {
	trip, err := s.TripRepo.GetByID(tripID)
	if err != nil {
		return models.Trip{}, err
	}
	if !models.CanTripTransition(trip.Status, to) {
		return models.Trip{}, domain.InvalidStateError{Status: string(trip.Status), Action: string(to) + " for trip"}
	}
	if err := s.TripRepo.SetStatus(tripID, trip.Status, to); err != nil {
		return models.Trip{}, err
	}
	utils.LogEvent(s.RequestID, "trips", "set_status", fmt.Sprintf("trip=%d status=%s", tripID, to))
	return s.TripRepo.GetByID(tripID)
}

// Manifest lists the bookings that count toward the sailing manifest,
// passengers included.
func (s TripService) Manifest(tripID int64) ([]ManifestEntry, error) {
	if _, err := s.TripRepo.GetByID(tripID); err != nil {
		return nil, err
	}
	bookings, err := s.BookingRepo.ListByTrip(tripID)
	if err != nil {
		return nil, err
	}
	entries := make([]ManifestEntry, 0, len(bookings))
	for _, b := range bookings {
		passengers, err := s.BookingRepo.Passengers(s.db(), b.ID)
		if err != nil {
			return nil, err
		}
		entries = append(entries, ManifestEntry{
			Reference:      b.Reference,
			ContactName:    b.ContactName,
			Status:         string(b.Status),
			PassengerCount: b.PassengerCount,
			IsWalkIn:       b.IsWalkIn,
			Passengers:     passengers,
		})
	}
	return entries, nil
}

// ReconcileWalkIn recomputes the walk-in booked counter from actual
// bookings. Counter drift can only accumulate on the walk-in channel,
// where terminal staff sometimes correct bookings out of band.
func (s TripService) ReconcileWalkIn(tripID int64) (int, error) {
	if _, err := s.TripRepo.GetByID(tripID); err != nil {
		return 0, err
	}
	return s.Inventory.Reconcile(tripID, models.ChannelWalkIn)
}
