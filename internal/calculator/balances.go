package calculator

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/mmynk/mintsense/internal/money"
)

var (
	// ErrUnknownParticipant is returned when an expense references a payer or
	// share participant that is not in the roster.
	ErrUnknownParticipant = errors.New("expense references unknown participant")

	// ErrDuplicateRosterEntry is returned when the roster lists an id twice.
	ErrDuplicateRosterEntry = errors.New("participant appears twice in roster")
)

// Participant is a roster entry as seen by the calculator.
type Participant struct {
	ID    string
	Name  string
	Color string
}

// Share is one participant's portion of an expense.
type Share struct {
	ParticipantID string
	Amount        money.Cents
	// Percentage is informational, set only for percentage splits.
	Percentage *decimal.Decimal
}

// Expense is an expense with its already-allocated shares.
// The shares must sum to Amount.
type Expense struct {
	PayerID string
	Amount  money.Cents
	Shares  []Share
}

// ParticipantBalance is one participant's overall position in a group.
type ParticipantBalance struct {
	ParticipantID string
	Name          string
	Color         string
	NetBalance    money.Cents // Positive = owed money, Negative = owes money
	TotalPaid     money.Cents // Total amount fronted across all expenses
	TotalOwed     money.Cents // Total of this participant's shares
}

// RecordedSettlement is a payment already made between two participants.
type RecordedSettlement struct {
	FromID string // Who paid (debtor settling up)
	ToID   string // Who received (creditor being paid)
	Amount money.Cents
}

// SettlementAsExpense expresses a recorded payment as an expense paid by the
// debtor with the creditor as its only share, so it nets out in NetBalances
// like any other expense.
func SettlementAsExpense(s RecordedSettlement) Expense {
	return Expense{
		PayerID: s.FromID,
		Amount:  s.Amount,
		Shares:  []Share{{ParticipantID: s.ToID, Amount: s.Amount}},
	}
}

// NetBalances computes every participant's net position across expenses.
// The result is aligned with participants and its NetBalance values sum to
// zero. A payer or share that is not in participants is an error rather
// than a silently dropped contribution, and so is a repeated participant id.
func NetBalances(participants []Participant, expenses []Expense) ([]ParticipantBalance, error) {
	balances := make([]ParticipantBalance, len(participants))
	index := make(map[string]int, len(participants))
	for i, p := range participants {
		if _, dup := index[p.ID]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateRosterEntry, p.ID)
		}
		index[p.ID] = i
		balances[i] = ParticipantBalance{ParticipantID: p.ID, Name: p.Name, Color: p.Color}
	}

	lookup := func(id string) (*ParticipantBalance, error) {
		i, ok := index[id]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownParticipant, id)
		}
		return &balances[i], nil
	}

	for _, exp := range expenses {
		payer, err := lookup(exp.PayerID)
		if err != nil {
			return nil, err
		}
		payer.TotalPaid += exp.Amount

		for _, sh := range exp.Shares {
			b, err := lookup(sh.ParticipantID)
			if err != nil {
				return nil, err
			}
			b.TotalOwed += sh.Amount
		}
	}

	for i := range balances {
		balances[i].NetBalance = balances[i].TotalPaid - balances[i].TotalOwed
	}
	return balances, nil
}

// GroupReport bundles everything shown on a group's balance page.
type GroupReport struct {
	Balances    []ParticipantBalance
	Directional []Debt
	Settlements []SettlementStep
	TotalSpent  money.Cents // Sum of expense amounts, excluding recorded settlements
}

// CalculateGroupBalances computes balances across expenses and recorded
// settlements and derives both debt views from them.
//
// Algorithm:
// - Each recorded settlement becomes a single-share expense (debtor pays creditor)
// - NetBalances aggregates payer credits and share obligations
// - DirectionalOwed and SuggestSettlements read only the balances
func CalculateGroupBalances(participants []Participant, expenses []Expense, settlements []RecordedSettlement) (*GroupReport, error) {
	all := make([]Expense, 0, len(expenses)+len(settlements))
	all = append(all, expenses...)
	for _, s := range settlements {
		all = append(all, SettlementAsExpense(s))
	}

	balances, err := NetBalances(participants, all)
	if err != nil {
		return nil, fmt.Errorf("failed to compute balances: %w", err)
	}

	var spent money.Cents
	for _, exp := range expenses {
		spent += exp.Amount
	}

	return &GroupReport{
		Balances:    balances,
		Directional: DirectionalOwed(balances),
		Settlements: SuggestSettlements(balances),
		TotalSpent:  spent,
	}, nil
}
