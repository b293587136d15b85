package utils

import (
	"strings"
	"time"
)

const (
	layoutDate     = "2006-01-02"
	layoutDateTime = "2006-01-02 15:04:05"
	layoutTime     = "15:04:05"
)

// manila is the single canonical timezone for every cutoff computation:
// the 24-hour reschedule rule, blocked-until comparisons, and
// departure-has-passed checks all use it.
var manila = loadManila()

func loadManila() *time.Location {
	loc, err := time.LoadLocation("Asia/Manila")
	if err != nil {
		return time.FixedZone("PHT", 8*60*60)
	}
	return loc
}

// Manila returns the canonical timezone.
func Manila() *time.Location {
	return manila
}

// NowManila returns current wall-clock time in the canonical timezone.
func NowManila() time.Time {
	return time.Now().In(manila)
}

// ParseDate parses YYYY-MM-DD in the canonical timezone.
func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(layoutDate, strings.TrimSpace(s), manila)
}

// DepartureAt combines a trip's departure date and time into one
// instant in the canonical timezone. Accepts HH:MM and HH:MM:SS.
func DepartureAt(date, tod string) (time.Time, error) {
	date = strings.TrimSpace(date)
	tod = strings.TrimSpace(tod)
	if len(tod) == 5 {
		tod += ":00"
	}
	return time.ParseInLocation(layoutDateTime, date+" "+tod, manila)
}

// FormatDate formats time to YYYY-MM-DD in the canonical timezone.
func FormatDate(t time.Time) string {
	return t.In(manila).Format(layoutDate)
}

// FormatDateTime formats time to "YYYY-MM-DD HH:MM:SS" in the canonical timezone.
func FormatDateTime(t time.Time) string {
	return t.In(manila).Format(layoutDateTime)
}
