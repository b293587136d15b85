package utils

import (
	"testing"
	"time"
)

func TestDepartureAt(t *testing.T) {
	short, err := DepartureAt("2026-03-15", "08:30")
	if err != nil {
		t.Fatalf("HH:MM form: %v", err)
	}
	long, err := DepartureAt("2026-03-15", "08:30:00")
	if err != nil {
		t.Fatalf("HH:MM:SS form: %v", err)
	}
	if !short.Equal(long) {
		t.Fatalf("HH:MM and HH:MM:SS should parse identically: %v vs %v", short, long)
	}
	if short.Location() != Manila() {
		t.Fatalf("departure should be in the canonical timezone, got %v", short.Location())
	}
	if short.Hour() != 8 || short.Minute() != 30 {
		t.Fatalf("parsed %v, want 08:30", short)
	}

	if _, err := DepartureAt("2026-03-15", "25:99"); err == nil {
		t.Fatal("invalid time should fail")
	}
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate(" 2026-03-15 ")
	if err != nil {
		t.Fatalf("ParseDate: %v", err)
	}
	if FormatDate(d) != "2026-03-15" {
		t.Fatalf("round trip gave %s", FormatDate(d))
	}
	if _, err := ParseDate("15/03/2026"); err == nil {
		t.Fatal("wrong layout should fail")
	}
}

func TestDepartureCutoffWindow(t *testing.T) {
	departure, _ := DepartureAt("2026-03-15", "08:00")
	dayBefore := departure.Add(-25 * time.Hour)
	tooLate := departure.Add(-23 * time.Hour)

	if dayBefore.Add(24 * time.Hour).After(departure) {
		t.Fatal("25 hours out should clear the 24-hour cutoff")
	}
	if !tooLate.Add(24 * time.Hour).After(departure) {
		t.Fatal("23 hours out should hit the 24-hour cutoff")
	}
}
