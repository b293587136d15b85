package utils

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// NewBookingReference produces a human-shareable booking code like
// FB-20250830-7C2F1A. Uniqueness is enforced by the bookings table; the
// caller retries on a duplicate-key error.
func NewBookingReference(now time.Time) string {
	entropy := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))
	return fmt.Sprintf("FB-%s-%s", now.Format("20060102"), entropy[:6])
}

// NewTicketNumber produces a globally unique opaque ticket identifier.
func NewTicketNumber() string {
	entropy := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))
	return "TKT-" + entropy[:12]
}
