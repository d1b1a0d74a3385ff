package validation

import "time"

// Clock returns the current time. Rules that need "now" receive a Clock so
// tests can pin it.
type Clock interface {
	Now() time.Time
}

// SystemClock uses time.Now.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// startDateWindow computes the allowed validity-start window as a half-open
// interval [lower, upper). "Today" is the clock instant projected into the
// configured zone and snapped to local midnight; time.Date resolves DST
// ambiguity leniently. The upper bound is exclusive at the midnight after the
// last allowed day so any instant on that day passes.
func startDateWindow(now time.Time, loc *time.Location, lowerOffsetDays, upperOffsetDays int) (time.Time, time.Time) {
	local := now.In(loc)
	midnight := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
	lower := midnight.AddDate(0, 0, -lowerOffsetDays)
	upper := midnight.AddDate(0, 0, upperOffsetDays+1)
	return lower, upper
}
