package models

// FareRule is one versioned per-route fare. Several rows may exist per
// route; the active one is the most recent whose validity window covers
// today (open-ended when valid_until is null).
type FareRule struct {
	ID              int64   `json:"id"`
	RouteID         int64   `json:"route_id"`
	BaseFareCents   int64   `json:"base_fare_cents"`
	DiscountPercent float64 `json:"discount_percent"`
	ValidFrom       string  `json:"valid_from"`            // YYYY-MM-DD
	ValidUntil      string  `json:"valid_until,omitempty"` // empty = open-ended
}
