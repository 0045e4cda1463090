// Package pricing derives stay prices from a nightly rate and a percentage
// discount. All arithmetic is exact; rounding to cents happens once, on output.
package pricing

import (
	"math"
	"time"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

type Breakdown struct {
	Nights          int
	PricePerNight   decimal.Decimal
	Original        decimal.Decimal
	Total           decimal.Decimal
	Savings         decimal.Decimal
	DiscountPercent decimal.Decimal
}

// Nights returns the number of nights between checkIn and checkOut, rounding
// partial days up. Non-positive spans yield 0.
func Nights(checkIn, checkOut time.Time) int {
	d := checkOut.Sub(checkIn)
	if d <= 0 {
		return 0
	}
	return int(math.Ceil(d.Hours() / 24))
}

// ClampDiscount bounds a percentage to [0, 100] at two decimal places, the
// precision a stored discount keeps.
func ClampDiscount(p decimal.Decimal) decimal.Decimal {
	if p.IsNegative() {
		return decimal.Zero
	}
	if p.GreaterThan(hundred) {
		return hundred
	}
	return p.Round(2)
}

// Quote prices nights at baseRate with discountPercent taken off the whole stay.
func Quote(baseRate decimal.Decimal, nights int, discountPercent decimal.Decimal) Breakdown {
	discount := ClampDiscount(discountPercent)
	original := baseRate.Mul(decimal.NewFromInt(int64(nights)))
	total := original.Mul(hundred.Sub(discount)).Div(hundred)

	original = original.Round(2)
	total = total.Round(2)

	return Breakdown{
		Nights:          nights,
		PricePerNight:   baseRate.Round(2),
		Original:        original,
		Total:           total,
		Savings:         original.Sub(total),
		DiscountPercent: discount,
	}
}
