package models

// Channel is the seat-quota pool a booking draws from. The two pools
// are independent: a trip can be full online and still take walk-ins.
type Channel string

const (
	ChannelOnline Channel = "online"
	ChannelWalkIn Channel = "walk_in"
)

func ValidChannel(c Channel) bool {
	return c == ChannelOnline || c == ChannelWalkIn
}

// TripStatus is the sailing lifecycle.
type TripStatus string

const (
	TripScheduled TripStatus = "scheduled"
	TripBoarding  TripStatus = "boarding"
	TripDeparted  TripStatus = "departed"
	TripArrived   TripStatus = "arrived"
	TripCancelled TripStatus = "cancelled"
)

// tripTransitions is the sailing lifecycle: scheduled moves forward
// through boarding, departed, arrived; cancellation is allowed any time
// before departure.
var tripTransitions = map[TripStatus][]TripStatus{
	TripScheduled: {TripBoarding, TripDeparted, TripCancelled},
	TripBoarding:  {TripDeparted, TripCancelled},
	TripDeparted:  {TripArrived},
	TripArrived:   {},
	TripCancelled: {},
}

// CanTripTransition reports whether a trip status move is legal.
func CanTripTransition(from, to TripStatus) bool {
	for _, next := range tripTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Trip is one sailing of one vessel on one route.
// online_booked <= online_quota and walk_in_booked <= walk_in_quota
// hold at all times; every counter write goes through the inventory
// ledger, never directly.
type Trip struct {
	ID            int64      `json:"id"`
	RouteID       int64      `json:"route_id"`
	BoatID        int64      `json:"boat_id"`
	RouteFrom     string     `json:"route_from"`
	RouteTo       string     `json:"route_to"`
	VesselName    string     `json:"vessel_name"`
	DepartureDate string     `json:"departure_date"` // YYYY-MM-DD
	DepartureTime string     `json:"departure_time"` // HH:MM:SS
	OnlineQuota   int        `json:"online_quota"`
	OnlineBooked  int        `json:"online_booked"`
	WalkInQuota   int        `json:"walk_in_quota"`
	WalkInBooked  int        `json:"walk_in_booked"`
	Status        TripStatus `json:"status"`
}

// Quota returns the quota for the given channel.
func (t Trip) Quota(ch Channel) int {
	if ch == ChannelWalkIn {
		return t.WalkInQuota
	}
	return t.OnlineQuota
}

// Booked returns the booked counter for the given channel.
func (t Trip) Booked(ch Channel) int {
	if ch == ChannelWalkIn {
		return t.WalkInBooked
	}
	return t.OnlineBooked
}

// Available returns remaining seats in the channel, floored at zero.
func (t Trip) Available(ch Channel) int {
	n := t.Quota(ch) - t.Booked(ch)
	if n < 0 {
		return 0
	}
	return n
}
