package calculator

import (
	"cmp"
	"slices"

	"github.com/mmynk/mintsense/internal/money"
)

// Transfer is a payment from one participant to another.
type Transfer struct {
	FromID   string
	FromName string
	ToID     string
	ToName   string
	Amount   money.Cents
}

// Debt is one (debtor, creditor, amount) fact in the full decomposition of
// net balances.
type Debt = Transfer

// SettlementStep is a suggested real-world payment.
type SettlementStep = Transfer

// position is a working copy of a balance with the amount still to be
// matched, always positive for both debtors and creditors.
type position struct {
	id        string
	name      string
	remaining money.Cents
}

// partition splits balances into debtors and creditors, keeping input order.
// Zero balances are dropped.
func partition(balances []ParticipantBalance) (debtors, creditors []position) {
	for _, b := range balances {
		switch {
		case b.NetBalance < 0:
			debtors = append(debtors, position{id: b.ParticipantID, name: b.Name, remaining: -b.NetBalance})
		case b.NetBalance > 0:
			creditors = append(creditors, position{id: b.ParticipantID, name: b.Name, remaining: b.NetBalance})
		}
	}
	return debtors, creditors
}

// match walks debtors and creditors with two cursors, transferring the
// smaller of the two remaining amounts and advancing whichever side is
// exhausted (both on an exact match). Every emitted amount is positive.
func match(debtors, creditors []position) []Transfer {
	steps := make([]Transfer, 0, len(debtors)+len(creditors))
	di, ci := 0, 0
	for di < len(debtors) && ci < len(creditors) {
		d, c := &debtors[di], &creditors[ci]
		amount := min(d.remaining, c.remaining)
		steps = append(steps, Transfer{
			FromID:   d.id,
			FromName: d.name,
			ToID:     c.id,
			ToName:   c.name,
			Amount:   amount,
		})

		d.remaining -= amount
		c.remaining -= amount
		if d.remaining == 0 {
			di++
		}
		if c.remaining == 0 {
			ci++
		}
	}
	return steps
}

// DirectionalOwed decomposes net balances into who owes whom, pairing
// debtors and creditors in roster order. Every cent of imbalance appears in
// the output; the number of steps is not minimized.
func DirectionalOwed(balances []ParticipantBalance) []Debt {
	debtors, creditors := partition(balances)
	return match(debtors, creditors)
}

// SuggestSettlements proposes payments that settle every balance.
//
// It is a greedy heuristic: the largest debts are paired with the largest
// credits first, which tends to keep the number of payments low but is not
// guaranteed to find the minimum (that problem is NP-hard). The result has
// at most debtors+creditors-1 steps. Ties keep roster order.
func SuggestSettlements(balances []ParticipantBalance) []SettlementStep {
	debtors, creditors := partition(balances)
	largestFirst := func(a, b position) int { return cmp.Compare(b.remaining, a.remaining) }
	slices.SortStableFunc(debtors, largestFirst)
	slices.SortStableFunc(creditors, largestFirst)
	return match(debtors, creditors)
}
