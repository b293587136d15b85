package domain

import "testing"

func TestComputeFare(t *testing.T) {
	cases := []struct {
		name     string
		base     int64
		discount float64
		fareType FareType
		want     int64
	}{
		{"adult pays base", 55000, 20, FareAdult, 55000},
		{"senior gets discount", 55000, 20, FareSenior, 44000},
		{"pwd gets discount", 55000, 20, FarePWD, 44000},
		{"infant rides free", 55000, 20, FareInfant, 0},
		{"child half discount rounds", 55000, 12.5, FareChild, 48125},
		{"zero discount same as adult", 55000, 0, FareSenior, 55000},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ComputeFare(tc.base, tc.discount, tc.fareType)
			if got != tc.want {
				t.Fatalf("ComputeFare(%d, %v, %s) = %d, want %d", tc.base, tc.discount, tc.fareType, got, tc.want)
			}
		})
	}
}

func TestComputeBookingCostOnline(t *testing.T) {
	settings := FeeSettings{AdminFeeCents: 2000, GcashFeeCents: 1500, WalkInAdminExempt: true}
	cost := ComputeBookingCost([]int64{55000, 44000, 0}, settings, false)

	if cost.FareCents != 99000 {
		t.Fatalf("fare = %d, want 99000", cost.FareCents)
	}
	if cost.AdminFeeCents != 6000 {
		t.Fatalf("admin fee = %d, want 6000 (per passenger)", cost.AdminFeeCents)
	}
	if cost.GcashFeeCents != 1500 {
		t.Fatalf("gcash fee = %d, want 1500", cost.GcashFeeCents)
	}
	if cost.TotalCents != 106500 {
		t.Fatalf("total = %d, want 106500", cost.TotalCents)
	}
}

func TestComputeBookingCostWalkInExempt(t *testing.T) {
	settings := FeeSettings{AdminFeeCents: 2000, GcashFeeCents: 1500, WalkInAdminExempt: true}
	cost := ComputeBookingCost([]int64{55000}, settings, true)

	if cost.AdminFeeCents != 0 {
		t.Fatalf("walk-in admin fee = %d, want 0 when exempt", cost.AdminFeeCents)
	}
	if cost.GcashFeeCents != 0 {
		t.Fatalf("walk-in gcash fee = %d, want 0 (online only)", cost.GcashFeeCents)
	}
	if cost.TotalCents != 55000 {
		t.Fatalf("total = %d, want 55000", cost.TotalCents)
	}
}

func TestComputeBookingCostWalkInNotExempt(t *testing.T) {
	settings := FeeSettings{AdminFeeCents: 2000, GcashFeeCents: 1500}
	cost := ComputeBookingCost([]int64{55000, 55000}, settings, true)

	if cost.AdminFeeCents != 4000 {
		t.Fatalf("walk-in admin fee = %d, want 4000", cost.AdminFeeCents)
	}
	if cost.GcashFeeCents != 0 {
		t.Fatalf("walk-in gcash fee = %d, want 0", cost.GcashFeeCents)
	}
}

func TestRescheduleFee(t *testing.T) {
	// fare-only portion 51500, 10 percent plus stored gcash fee
	got := RescheduleFee(55000, 2000, 1500, 10)
	if got != 6650 {
		t.Fatalf("RescheduleFee = %d, want 6650", got)
	}
}

func TestRescheduleFeeFareFlooredAtZero(t *testing.T) {
	// fees exceed the stored total; percentage applies to nothing, the
	// flat gcash fee still does
	got := RescheduleFee(3000, 2000, 1500, 10)
	if got != 1500 {
		t.Fatalf("RescheduleFee = %d, want 1500", got)
	}
}

func TestValidFareType(t *testing.T) {
	if !ValidFareType(FareAdult) {
		t.Fatal("adult should be valid")
	}
	if ValidFareType("vip") {
		t.Fatal("vip should not be valid")
	}
}
