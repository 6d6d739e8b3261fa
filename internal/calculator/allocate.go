package calculator

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/mmynk/mintsense/internal/money"
)

// Allocate distributes total across participants in proportion to raw,
// returning whole-cent shares that always sum exactly to total.
//
// Each raw share is scaled by total/sum(raw) and rounded half away from
// zero to the cent. Whatever the rounding left over (at most a few cents)
// goes entirely to raw[remainderIndex], normally the payer.
//
// If raw sums to zero there is nothing to distribute and every share is
// zero. remainderIndex must be a valid index into raw.
func Allocate(total money.Cents, raw []decimal.Decimal, remainderIndex int) []money.Cents {
	shares := make([]money.Cents, len(raw))
	if len(raw) == 0 {
		return shares
	}
	if remainderIndex < 0 || remainderIndex >= len(raw) {
		panic(fmt.Sprintf("calculator: remainder index %d out of range [0,%d)", remainderIndex, len(raw)))
	}

	sum := decimal.Zero
	for _, r := range raw {
		sum = sum.Add(r)
	}
	if sum.IsZero() {
		return shares
	}

	scale := total.Decimal().Div(sum)
	var rounded money.Cents
	for i, r := range raw {
		shares[i] = money.FromDecimal(r.Mul(scale))
		rounded += shares[i]
	}

	if diff := total - rounded; diff != 0 {
		shares[remainderIndex] += diff
	}
	return shares
}
