package validation

import (
	"time"

	charges "charges-hub/internal/charges/domain"
)

// ExpectedPointCount derives how many price points an interval must carry at
// a given resolution. Sub-monthly resolutions divide the interval by the
// resolution unit; monthly resolution counts calendar months because month
// lengths vary. An unmapped resolution is a programming defect, not bad
// input, and yields ErrUnsupportedResolution.
func ExpectedPointCount(start, end time.Time, resolution charges.Resolution) (int, error) {
	switch resolution {
	case charges.ResolutionPT15M:
		return int(end.Sub(start) / (15 * time.Minute)), nil
	case charges.ResolutionPT1H:
		return int(end.Sub(start) / time.Hour), nil
	case charges.ResolutionP1D:
		return int(end.Sub(start) / (24 * time.Hour)), nil
	case charges.ResolutionP1M:
		return monthsBetween(start, end), nil
	default:
		return 0, charges.ErrUnsupportedResolution
	}
}

// monthsBetween is calendar arithmetic, not duration-based.
func monthsBetween(start, end time.Time) int {
	return (end.Year()*12 + int(end.Month())) - (start.Year()*12 + int(start.Month()))
}

// TariffPointCount is the fixed daily point count a tariff must carry per
// resolution. Resolutions a tariff cannot legally have yield
// ErrUnsupportedResolution; callers are expected to have rejected such input
// through the resolution rules first.
func TariffPointCount(resolution charges.Resolution) (int, error) {
	switch resolution {
	case charges.ResolutionPT15M:
		return 96, nil
	case charges.ResolutionPT1H:
		return 24, nil
	case charges.ResolutionP1D:
		return 1, nil
	default:
		return 0, charges.ErrUnsupportedResolution
	}
}

// tariffResolutions is the allowed resolution set for tariffs.
var tariffResolutions = []charges.Resolution{
	charges.ResolutionP1D,
	charges.ResolutionPT1H,
	charges.ResolutionPT15M,
}

func resolutionIn(resolution charges.Resolution, allowed []charges.Resolution) bool {
	for _, r := range allowed {
		if r == resolution {
			return true
		}
	}
	return false
}
