package validation

import "github.com/shopspring/decimal"

const (
	maxIntegerDigits = 8
	maxDecimalPlaces = 6

	// decimalPlaceScanLimit bounds the decimal-place scan; shopspring
	// decimals never carry more fractional digits in this domain.
	decimalPlaceScanLimit = 28
)

var (
	one          = decimal.NewFromInt(1)
	maximumPrice = decimal.NewFromInt(1_000_000)
)

// integerDigitCount counts the digits before the decimal separator.
// Values with |p| < 1 count as zero digits.
func integerDigitCount(price decimal.Decimal) int {
	abs := price.Abs()
	if abs.LessThan(one) {
		return 0
	}
	return len(abs.Truncate(0).String())
}

// decimalPlaceCount is the minimal i such that rounding the price to i
// fractional digits reproduces it exactly. Bounded iteration, no recursion.
func decimalPlaceCount(price decimal.Decimal) int {
	for i := 0; i <= decimalPlaceScanLimit; i++ {
		if price.Round(int32(i)).Equal(price) {
			return i
		}
	}
	return decimalPlaceScanLimit + 1
}

// priceWithinDigitBounds checks the 8-integer-digit / 6-decimal limit.
func priceWithinDigitBounds(price decimal.Decimal) bool {
	return integerDigitCount(price) <= maxIntegerDigits &&
		decimalPlaceCount(price) <= maxDecimalPlaces
}

// priceBelowMaximum checks the strict upper price bound.
func priceBelowMaximum(price decimal.Decimal) bool {
	return price.LessThan(maximumPrice)
}
