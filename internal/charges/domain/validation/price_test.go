package validation

import (
	"testing"

	"github.com/shopspring/decimal"
)

func mustDecimal(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("parse decimal %q: %v", s, err)
	}
	return d
}

func TestIntegerDigitCount(t *testing.T) {
	cases := []struct {
		price string
		want  int
	}{
		{"0", 0},
		{"0.999999", 0},
		{"1", 1},
		{"9.5", 1},
		{"99999999", 8},
		{"100000000", 9},
		{"-123.45", 3},
	}
	for _, tc := range cases {
		got := integerDigitCount(mustDecimal(t, tc.price))
		if got != tc.want {
			t.Fatalf("integerDigitCount(%s) = %d, want %d", tc.price, got, tc.want)
		}
	}
}

func TestDecimalPlaceCount(t *testing.T) {
	cases := []struct {
		price string
		want  int
	}{
		{"1", 0},
		{"1.5", 1},
		{"1.500", 1},
		{"0.000001", 6},
		{"0.0000001", 7},
	}
	for _, tc := range cases {
		got := decimalPlaceCount(mustDecimal(t, tc.price))
		if got != tc.want {
			t.Fatalf("decimalPlaceCount(%s) = %d, want %d", tc.price, got, tc.want)
		}
	}
}

func TestPriceWithinDigitBounds(t *testing.T) {
	cases := []struct {
		price string
		want  bool
	}{
		{"99999999.000001", true},
		{"99999999.0000001", false},
		{"100000000.000001", false},
		{"0.000001", true},
		{"12345678.123456", true},
	}
	for _, tc := range cases {
		got := priceWithinDigitBounds(mustDecimal(t, tc.price))
		if got != tc.want {
			t.Fatalf("priceWithinDigitBounds(%s) = %v, want %v", tc.price, got, tc.want)
		}
	}
}

func TestPriceBelowMaximum(t *testing.T) {
	if !priceBelowMaximum(mustDecimal(t, "999999.999999")) {
		t.Fatal("price just under the cap should pass")
	}
	if priceBelowMaximum(mustDecimal(t, "1000000")) {
		t.Fatal("the cap itself is excluded, bound is strict")
	}
}
