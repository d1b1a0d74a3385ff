package validation

import (
	"errors"
	"testing"
	"time"

	charges "charges-hub/internal/charges/domain"
)

func TestExpectedPointCount(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	cases := []struct {
		name       string
		end        time.Time
		resolution charges.Resolution
		want       int
	}{
		{"quarter hours in a day", start.Add(24 * time.Hour), charges.ResolutionPT15M, 96},
		{"hours in a day", start.Add(24 * time.Hour), charges.ResolutionPT1H, 24},
		{"days in a week", start.Add(7 * 24 * time.Hour), charges.ResolutionP1D, 7},
		{"months across a year boundary", time.Date(2027, 3, 1, 0, 0, 0, 0, time.UTC), charges.ResolutionP1M, 14},
		{"same month", start, charges.ResolutionP1M, 0},
	}
	for _, tc := range cases {
		got, err := ExpectedPointCount(start, tc.end, tc.resolution)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", tc.name, err)
		}
		if got != tc.want {
			t.Fatalf("%s: got %d, want %d", tc.name, got, tc.want)
		}
	}
}

func TestExpectedPointCountUnknownResolution(t *testing.T) {
	_, err := ExpectedPointCount(time.Now(), time.Now(), charges.ResolutionUnknown)
	if !errors.Is(err, charges.ErrUnsupportedResolution) {
		t.Fatalf("want ErrUnsupportedResolution, got %v", err)
	}
}

func TestTariffPointCount(t *testing.T) {
	cases := []struct {
		resolution charges.Resolution
		want       int
	}{
		{charges.ResolutionPT15M, 96},
		{charges.ResolutionPT1H, 24},
		{charges.ResolutionP1D, 1},
	}
	for _, tc := range cases {
		got, err := TariffPointCount(tc.resolution)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", tc.resolution, err)
		}
		if got != tc.want {
			t.Fatalf("%s: got %d, want %d", tc.resolution, got, tc.want)
		}
	}

	if _, err := TariffPointCount(charges.ResolutionP1M); !errors.Is(err, charges.ErrUnsupportedResolution) {
		t.Fatalf("monthly tariff resolution must be a hard error, got %v", err)
	}
}
