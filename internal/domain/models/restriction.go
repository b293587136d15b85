package models

import "time"

// MaxBookingWarnings saturates the warning counter; a third warning is
// rejected and the caller must block instead.
const MaxBookingWarnings = 2

// PassengerRestriction holds warnings and block state for one passenger
// profile. Created lazily on first warning or block.
type PassengerRestriction struct {
	ID              int64      `json:"id"`
	ProfileID       int64      `json:"profile_id"`
	BookingWarnings int        `json:"booking_warnings"`
	BlockedAt       *time.Time `json:"booking_blocked_at,omitempty"` // indefinite
	BlockedUntil    *time.Time `json:"blocked_until,omitempty"`      // temporary
	UpdatedBy       int64      `json:"updated_by,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// IsBlockedNow reports whether the profile is blocked at the given
// instant: an indefinite block is set, or a timed block has not yet
// expired. Expired timed blocks lift without an explicit unblock.
func (r PassengerRestriction) IsBlockedNow(now time.Time) bool {
	if r.BlockedAt != nil {
		return true
	}
	return r.BlockedUntil != nil && r.BlockedUntil.After(now)
}
