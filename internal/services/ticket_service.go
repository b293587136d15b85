package services

import (
	"context"
	"database/sql"
	"fmt"

	intconfig "ferry-booking/internal/config"
	intdb "ferry-booking/internal/db"
	"ferry-booking/internal/domain"
	"ferry-booking/internal/repositories"
	"ferry-booking/internal/utils"
)

// ticketGenRetries bounds the collision retry loop; the number space is
// large enough that more than a couple of retries means something is
// wrong with the generator.
const ticketGenRetries = 5

// TicketService assigns unique per-passenger ticket numbers once a
// booking reaches confirmed state.
type TicketService struct {
	BookingRepo repositories.BookingRepo
	TicketRepo  repositories.TicketRepo
	DB          *sql.DB
	RequestID   string
	// Generate overrides the ticket-number source in tests.
	Generate func() string
}

func (s TicketService) db() *sql.DB {
	if s.DB != nil {
		return s.DB
	}
	return intconfig.DB
}

func (s TicketService) gen() string {
	if s.Generate != nil {
		return s.Generate()
	}
	return utils.NewTicketNumber()
}

// Assign gives every passenger of the booking a ticket number,
// preserving passenger order. Idempotent: if all passengers already
// carry numbers the existing set is returned unchanged. The booking row
// is locked for the duration, so concurrent duplicate calls cannot
// allocate two disjoint sets.
func (s TicketService) Assign(ctx context.Context, bookingID int64) ([]string, error) {
	var numbers []string

	err := intdb.WithTx(ctx, s.db(), func(tx *sql.Tx) error {
		booking, err := s.BookingRepo.GetByIDTx(tx, bookingID, true)
		if err != nil {
			return err
		}

		assigned := 0
		for _, p := range booking.Passengers {
			if p.TicketNo != "" {
				assigned++
			}
		}
		if assigned == len(booking.Passengers) && assigned > 0 {
			for _, p := range booking.Passengers {
				numbers = append(numbers, p.TicketNo)
			}
			return nil
		}

		for _, p := range booking.Passengers {
			if p.TicketNo != "" {
				numbers = append(numbers, p.TicketNo)
				continue
			}
			no, err := s.insertWithRetry(tx, bookingID, p.Position)
			if err != nil {
				return err
			}
			if err := s.BookingRepo.SetPassengerTicket(tx, bookingID, p.Position, no); err != nil {
				return err
			}
			numbers = append(numbers, no)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	utils.LogEvent(s.RequestID, "ticket", "assign",
		fmt.Sprintf("booking_id=%d count=%d", bookingID, len(numbers)))
	return numbers, nil
}

func (s TicketService) insertWithRetry(tx *sql.Tx, bookingID int64, position int) (string, error) {
	for attempt := 0; attempt < ticketGenRetries; attempt++ {
		no := s.gen()
		_, err := s.TicketRepo.Insert(tx, repositories.Ticket{
			BookingID: bookingID,
			Position:  position,
			TicketNo:  no,
		})
		if err == nil {
			return no, nil
		}
		if !repositories.IsDuplicateKey(err) {
			return "", err
		}
	}
	return "", domain.InternalError{Msg: "ticket number generation kept colliding"}
}
