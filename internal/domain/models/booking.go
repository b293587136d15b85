package models

import (
	"time"

	"ferry-booking/internal/domain"
)

// BookingStatus is the booking lifecycle state.
type BookingStatus string

const (
	StatusPendingPayment BookingStatus = "pending_payment"
	StatusConfirmed      BookingStatus = "confirmed"
	StatusCheckedIn      BookingStatus = "checked_in"
	StatusBoarded        BookingStatus = "boarded"
	StatusCompleted      BookingStatus = "completed"
	StatusCancelled      BookingStatus = "cancelled"
	StatusChanged        BookingStatus = "changed"
	StatusRefunded       BookingStatus = "refunded"
)

// transitions is the only source of truth for legal status moves.
// refunded is terminal; cancelled is reserved for future flows.
var transitions = map[BookingStatus][]BookingStatus{
	StatusPendingPayment: {StatusConfirmed, StatusRefunded},
	StatusConfirmed:      {StatusCheckedIn, StatusRefunded},
	StatusCheckedIn:      {StatusBoarded, StatusRefunded},
	StatusBoarded:        {StatusCompleted, StatusRefunded},
	StatusCompleted:      {StatusRefunded},
	StatusCancelled:      {},
	StatusChanged:        {},
	StatusRefunded:       {},
}

// CanTransition reports whether moving from one status to another is legal.
func CanTransition(from, to BookingStatus) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// ValidStatus reports whether s is a known booking status.
func ValidStatus(s BookingStatus) bool {
	_, ok := transitions[s]
	return ok
}

// Reschedulable reports whether a booking in this status may be moved
// to another trip. The status itself does not change on reschedule.
func (s BookingStatus) Reschedulable() bool {
	switch s {
	case StatusConfirmed, StatusCheckedIn, StatusBoarded, StatusPendingPayment:
		return true
	}
	return false
}

// Refundable reports whether a refund may be opened from this status.
func (s BookingStatus) Refundable() bool {
	return CanTransition(s, StatusRefunded)
}

// CountsTowardManifest reports whether the booking's passengers count
// against the trip's seat counters and passenger manifest.
func (s BookingStatus) CountsTowardManifest() bool {
	switch s {
	case StatusConfirmed, StatusCheckedIn, StatusBoarded, StatusCompleted:
		return true
	}
	return false
}

// ManifestStatuses lists the statuses counted by reconcile and manifest
// queries, in a stable order for SQL IN clauses.
func ManifestStatuses() []BookingStatus {
	return []BookingStatus{StatusConfirmed, StatusCheckedIn, StatusBoarded, StatusCompleted}
}

// Passenger is one entry of a booking's ordered passenger list.
type Passenger struct {
	Position   int             `json:"position"`
	FareType   domain.FareType `json:"fare_type"`
	FullName   string          `json:"full_name"`
	FareCents  int64           `json:"fare_cents"`
	TicketNo   string          `json:"ticket_number,omitempty"`
}

// Booking is one passenger-group reservation. TripID is nullable: a
// detached booking keeps only the snapshot fields for display.
type Booking struct {
	ID             int64         `json:"id"`
	Reference      string        `json:"reference"`
	TripID         int64         `json:"trip_id,omitempty"` // 0 when detached
	ContactName    string        `json:"contact_name"`
	ContactPhone   string        `json:"contact_phone"`
	ContactEmail   string        `json:"contact_email"`
	PassengerCount int           `json:"passenger_count"`
	Passengers     []Passenger   `json:"passengers,omitempty"`
	TotalCents     int64         `json:"total_amount_cents"`
	AdminFeeCents  int64         `json:"admin_fee_cents"`
	GcashFeeCents  int64         `json:"gcash_fee_cents"`
	IsWalkIn       bool          `json:"is_walk_in"`
	Status         BookingStatus `json:"status"`
	CreatedBy      int64         `json:"created_by,omitempty"` // 0 for guest bookings
	RefundStatus   string        `json:"refund_status,omitempty"`

	// Trip snapshot, copied at confirmation and at trip deletion so
	// historical display survives trip removal.
	VesselName string `json:"vessel_name,omitempty"`
	RouteFrom  string `json:"route_from,omitempty"`
	RouteTo    string `json:"route_to,omitempty"`
	TripDate   string `json:"trip_date,omitempty"`
	TripTime   string `json:"trip_time,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Channel returns the quota pool this booking draws from.
func (b Booking) Channel() Channel {
	if b.IsWalkIn {
		return ChannelWalkIn
	}
	return ChannelOnline
}

// PassengerInput carries one passenger of a create request.
type PassengerInput struct {
	FareType domain.FareType `json:"fare_type"`
	FullName string          `json:"full_name"`
}
