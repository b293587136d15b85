package services

import (
	"fmt"

	"ferry-booking/internal/domain/models"
	"ferry-booking/internal/utils"
)

// Notifier dispatches passenger-facing notifications. Implementations
// are fire-and-forget: delivery failures are logged, never returned, so
// the triggering operation cannot be failed by a broken mail pipe.
type Notifier interface {
	BookingConfirmed(b models.Booking)
	RefundProcessed(b models.Booking, r models.Refund)
	RestrictionChanged(profileID int64, blocked bool)
}

// LogNotifier writes notifications to the application log. Stands in
// for the real email dispatcher in development and tests.
type LogNotifier struct {
	RequestID string
}

func (n LogNotifier) BookingConfirmed(b models.Booking) {
	utils.LogEvent(n.RequestID, "notify", "booking_confirmed",
		fmt.Sprintf("reference=%s contact=%s", b.Reference, b.ContactEmail))
}

func (n LogNotifier) RefundProcessed(b models.Booking, r models.Refund) {
	utils.LogEvent(n.RequestID, "notify", "refund_processed",
		fmt.Sprintf("reference=%s amount=%s", b.Reference, utils.FormatPeso(r.AmountCents)))
}

func (n LogNotifier) RestrictionChanged(profileID int64, blocked bool) {
	utils.LogEvent(n.RequestID, "notify", "restriction_changed",
		fmt.Sprintf("profile_id=%d blocked=%t", profileID, blocked))
}
