package models

import "time"

// BookingChange is the immutable audit row written by every reschedule.
type BookingChange struct {
	ID                 int64     `json:"id"`
	BookingID          int64     `json:"booking_id"`
	FromTripID         int64     `json:"from_trip_id"`
	ToTripID           int64     `json:"to_trip_id"`
	AdditionalFeeCents int64     `json:"additional_fee_cents"`
	ChangedBy          int64     `json:"changed_by"`
	CreatedAt          time.Time `json:"created_at"`
}
