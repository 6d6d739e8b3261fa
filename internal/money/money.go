// Package money represents currency amounts as integer minor units.
//
// Amounts enter the system as decimals (JSON numbers, user input) and are
// rounded once, half away from zero, to whole cents. From then on all
// arithmetic is integer, so sums are exact.
package money

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Cents is an amount in the currency's minor unit (2 decimal places).
type Cents int64

var hundred = decimal.NewFromInt(100)

// FromDecimal rounds d to 2 decimal places (half away from zero) and
// returns it in cents.
func FromDecimal(d decimal.Decimal) Cents {
	return Cents(d.Round(2).Mul(hundred).IntPart())
}

// FromFloat converts a float amount such as 12.345 to cents.
// The float is first converted to its shortest decimal representation,
// so 0.1+0.2 style noise does not leak into the rounding.
func FromFloat(f float64) Cents {
	return FromDecimal(decimal.NewFromFloat(f))
}

// Parse parses a decimal string such as "12.34" or "-5".
func Parse(s string) (Cents, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	return FromDecimal(d), nil
}

// Decimal returns the amount in major units.
func (c Cents) Decimal() decimal.Decimal {
	return decimal.New(int64(c), -2)
}

// Float64 returns the amount in major units. Only for the API boundary.
func (c Cents) Float64() float64 {
	f, _ := c.Decimal().Float64()
	return f
}

// Abs returns the absolute value.
func (c Cents) Abs() Cents {
	if c < 0 {
		return -c
	}
	return c
}

// String formats the amount with exactly two decimals, e.g. "-0.05".
func (c Cents) String() string {
	return c.Decimal().StringFixed(2)
}

// Sum adds up amounts.
func Sum(amounts []Cents) Cents {
	var total Cents
	for _, a := range amounts {
		total += a
	}
	return total
}
