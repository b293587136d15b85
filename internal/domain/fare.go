package domain

import "math"

// FareType is the passenger discount category.
type FareType string

const (
	FareAdult  FareType = "adult"
	FareSenior FareType = "senior"
	FarePWD    FareType = "pwd"
	FareChild  FareType = "child"
	FareInfant FareType = "infant"
)

// ValidFareType reports whether t is a known fare type.
func ValidFareType(t FareType) bool {
	switch t {
	case FareAdult, FareSenior, FarePWD, FareChild, FareInfant:
		return true
	}
	return false
}

// FeeSettings is the fee configuration in effect for one request.
// Callers load it once and pass it down; the core never reads it from
// ambient state.
type FeeSettings struct {
	AdminFeeCents       int64   `json:"admin_fee_cents"`
	GcashFeeCents       int64   `json:"gcash_fee_cents"`
	ReschedulePercent   float64 `json:"reschedule_percent"`
	WalkInAdminExempt   bool    `json:"walk_in_admin_exempt"`
}

// DefaultFeeSettings applies when the fee_settings table is absent.
var DefaultFeeSettings = FeeSettings{
	AdminFeeCents:     2000,
	GcashFeeCents:     1500,
	ReschedulePercent: 10,
}

// ComputeFare returns the per-passenger fare in cents. Adults pay the
// base fare, infants ride free, every other type gets the route's
// discount percent. Pure and reproducible: invoked once at booking
// creation, never recomputed after the fact.
func ComputeFare(baseFareCents int64, discountPercent float64, fareType FareType) int64 {
	switch fareType {
	case FareAdult:
		return baseFareCents
	case FareInfant:
		return 0
	default:
		return roundCents(float64(baseFareCents) * (1 - discountPercent/100))
	}
}

// BookingCost aggregates per-passenger fares plus fees for one booking.
type BookingCost struct {
	FareCents     int64 `json:"fare_cents"`
	AdminFeeCents int64 `json:"admin_fee_cents"`
	GcashFeeCents int64 `json:"gcash_fee_cents"`
	TotalCents    int64 `json:"total_cents"`
}

// ComputeBookingCost sums passenger fares and applies fees. The admin
// fee is charged per passenger (walk-in may be exempted by settings);
// the GCash fee is flat per transaction and only applies to the online
// channel.
func ComputeBookingCost(passengerFares []int64, settings FeeSettings, walkIn bool) BookingCost {
	var cost BookingCost
	for _, f := range passengerFares {
		cost.FareCents += f
	}

	if !walkIn || !settings.WalkInAdminExempt {
		cost.AdminFeeCents = settings.AdminFeeCents * int64(len(passengerFares))
	}
	if !walkIn {
		cost.GcashFeeCents = settings.GcashFeeCents
	}

	cost.TotalCents = cost.FareCents + cost.AdminFeeCents + cost.GcashFeeCents
	return cost
}

// RescheduleFee computes the surcharge for moving a booking to another
// trip. The percentage applies to the fare-only portion of the stored
// total (prior fees excluded so the fee never compounds on itself),
// plus the flat GCash fee stored on the booking.
func RescheduleFee(totalCents, adminFeeCents, gcashFeeCents int64, percent float64) int64 {
	fare := totalCents - adminFeeCents - gcashFeeCents
	if fare < 0 {
		fare = 0
	}
	return roundCents(float64(fare)*percent/100) + gcashFeeCents
}

func roundCents(x float64) int64 {
	return int64(math.Round(x))
}
