package models

import "testing"

func TestBookingTransitions(t *testing.T) {
	allowed := []struct{ from, to BookingStatus }{
		{StatusPendingPayment, StatusConfirmed},
		{StatusPendingPayment, StatusRefunded},
		{StatusConfirmed, StatusCheckedIn},
		{StatusCheckedIn, StatusBoarded},
		{StatusBoarded, StatusCompleted},
		{StatusCompleted, StatusRefunded},
	}
	for _, c := range allowed {
		if !CanTransition(c.from, c.to) {
			t.Errorf("%s -> %s should be allowed", c.from, c.to)
		}
	}

	denied := []struct{ from, to BookingStatus }{
		{StatusPendingPayment, StatusCheckedIn},
		{StatusConfirmed, StatusBoarded},
		{StatusCheckedIn, StatusConfirmed},
		{StatusRefunded, StatusConfirmed},
		{StatusCancelled, StatusConfirmed},
		{StatusChanged, StatusConfirmed},
	}
	for _, c := range denied {
		if CanTransition(c.from, c.to) {
			t.Errorf("%s -> %s should be rejected", c.from, c.to)
		}
	}
}

func TestReschedulable(t *testing.T) {
	for _, s := range []BookingStatus{StatusPendingPayment, StatusConfirmed, StatusCheckedIn, StatusBoarded} {
		if !s.Reschedulable() {
			t.Errorf("%s should be reschedulable", s)
		}
	}
	for _, s := range []BookingStatus{StatusCancelled, StatusChanged, StatusRefunded, StatusCompleted} {
		if s.Reschedulable() {
			t.Errorf("%s should not be reschedulable", s)
		}
	}
}

func TestBookingChannel(t *testing.T) {
	if (Booking{IsWalkIn: true}).Channel() != ChannelWalkIn {
		t.Fatal("walk-in booking should draw from walk_in channel")
	}
	if (Booking{}).Channel() != ChannelOnline {
		t.Fatal("online booking should draw from online channel")
	}
}

func TestTripAvailable(t *testing.T) {
	trip := Trip{OnlineQuota: 100, OnlineBooked: 97, WalkInQuota: 20, WalkInBooked: 20}
	if got := trip.Available(ChannelOnline); got != 3 {
		t.Fatalf("online available = %d, want 3", got)
	}
	if got := trip.Available(ChannelWalkIn); got != 0 {
		t.Fatalf("walk_in available = %d, want 0", got)
	}
}

func TestTripTransitions(t *testing.T) {
	if !CanTripTransition(TripScheduled, TripCancelled) {
		t.Fatal("scheduled -> cancelled should be allowed")
	}
	if !CanTripTransition(TripDeparted, TripArrived) {
		t.Fatal("departed -> arrived should be allowed")
	}
	if CanTripTransition(TripDeparted, TripCancelled) {
		t.Fatal("departed -> cancelled should be rejected")
	}
	if CanTripTransition(TripArrived, TripScheduled) {
		t.Fatal("arrived is terminal")
	}
}

func TestRefundTransitions(t *testing.T) {
	if !CanRefundTransition(RefundRequested, RefundApproved) {
		t.Fatal("requested -> approved should be allowed")
	}
	if !CanRefundTransition(RefundApproved, RefundProcessed) {
		t.Fatal("approved -> processed should be allowed")
	}
	if CanRefundTransition(RefundRejected, RefundProcessed) {
		t.Fatal("rejected is terminal")
	}
	if CanRefundTransition(RefundRequested, RefundProcessed) {
		t.Fatal("requested cannot skip straight to processed")
	}
}
