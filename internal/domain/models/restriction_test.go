package models

import (
	"testing"
	"time"
)

func TestIsBlockedNow(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	if (PassengerRestriction{}).IsBlockedNow(now) {
		t.Fatal("clean profile should not be blocked")
	}
	if !(PassengerRestriction{BlockedAt: &past}).IsBlockedNow(now) {
		t.Fatal("indefinite block should apply")
	}
	if !(PassengerRestriction{BlockedUntil: &future}).IsBlockedNow(now) {
		t.Fatal("timed block should apply before expiry")
	}
	if (PassengerRestriction{BlockedUntil: &past}).IsBlockedNow(now) {
		t.Fatal("expired timed block should not apply")
	}
	// warnings alone never block
	if (PassengerRestriction{BookingWarnings: MaxBookingWarnings}).IsBlockedNow(now) {
		t.Fatal("saturated warnings alone should not block")
	}
}
