package services

import (
	"database/sql"
	"fmt"

	intconfig "ferry-booking/internal/config"
	intdb "ferry-booking/internal/db"
	"ferry-booking/internal/domain/models"
	"ferry-booking/internal/repositories"
	"ferry-booking/internal/utils"
)

// InventoryService is the seat ledger. Every mutation of a trip's
// booked counters goes through here; nothing else writes them.
type InventoryService struct {
	TripRepo  repositories.TripRepo
	DB        *sql.DB
	RequestID string
}

func (s InventoryService) db() *sql.DB {
	if s.DB != nil {
		return s.DB
	}
	return intconfig.DB
}

func (s InventoryService) trips() repositories.TripRepo {
	if s.TripRepo.DB != nil {
		return s.TripRepo
	}
	return repositories.TripRepo{DB: s.db()}
}

// Reserve takes count seats from the channel's quota, failing with a
// CapacityError when the trip cannot hold them.
func (s InventoryService) Reserve(q intdb.Queryer, tripID int64, ch models.Channel, count int) error {
	if q == nil {
		q = s.db()
	}
	return s.trips().Reserve(q, tripID, ch, count)
}

// Release returns count seats to the channel. An underflowing release
// is floored at zero and logged rather than silently absorbed: it
// usually means a double-release upstream.
func (s InventoryService) Release(q intdb.Queryer, tripID int64, ch models.Channel, count int) error {
	if q == nil {
		q = s.db()
	}
	floored, err := s.trips().Release(q, tripID, ch, count)
	if err != nil {
		return err
	}
	if floored {
		utils.LogEvent(s.RequestID, "inventory", "release_floored",
			fmt.Sprintf("trip_id=%d channel=%s count=%d", tripID, ch, count))
	}
	return nil
}

// Reconcile recomputes a channel's booked counter from live bookings.
func (s InventoryService) Reconcile(tripID int64, ch models.Channel) (int, error) {
	count, err := s.trips().Reconcile(s.db(), tripID, ch)
	if err != nil {
		return 0, err
	}
	utils.LogEvent(s.RequestID, "inventory", "reconcile",
		fmt.Sprintf("trip_id=%d channel=%s booked=%d", tripID, ch, count))
	return count, nil
}
