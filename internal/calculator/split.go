package calculator

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/mmynk/mintsense/internal/money"
)

// SplitKind is the persisted name of a split mode.
type SplitKind string

const (
	SplitEqual        SplitKind = "EQUAL"
	SplitCustomAmount SplitKind = "CUSTOM_AMOUNT"
	SplitPercentage   SplitKind = "PERCENTAGE"
)

var (
	// ErrInvalidSplit is wrapped by every split validation failure.
	ErrInvalidSplit = errors.New("invalid split")

	ErrNoParticipants        = fmt.Errorf("%w: at least one participant is required", ErrInvalidSplit)
	ErrDuplicateParticipant  = fmt.Errorf("%w: participant listed more than once", ErrInvalidSplit)
	ErrNonPositiveTotal      = fmt.Errorf("%w: amount must be positive", ErrInvalidSplit)
	ErrNegativeShare         = fmt.Errorf("%w: shares cannot be negative", ErrInvalidSplit)
	ErrCustomAmountsMismatch = fmt.Errorf("%w: custom amounts must sum to expense amount", ErrInvalidSplit)
	ErrPercentagesMismatch   = fmt.Errorf("%w: percentages must sum to 100", ErrInvalidSplit)
	ErrUnknownSplitMode      = fmt.Errorf("%w: unknown split mode or missing custom/percentage data", ErrInvalidSplit)
)

var (
	customAmountTolerance = money.Cents(1)
	percentageTolerance   = decimal.NewFromFloat(0.01)
	oneHundred            = decimal.NewFromInt(100)
)

// SplitMode is the strategy for dividing an expense among participants.
// The set of implementations is closed: EqualSplit, CustomAmountSplit and
// PercentageSplit.
type SplitMode interface {
	Kind() SplitKind
	rawShares(total money.Cents, participantIDs []string) ([]decimal.Decimal, error)
}

// EqualSplit divides the total evenly.
type EqualSplit struct{}

// CustomAmountSplit assigns an explicit amount to each participant.
// Participants missing from Amounts owe nothing.
type CustomAmountSplit struct {
	Amounts map[string]money.Cents
}

// PercentageSplit assigns each participant a percentage of the total.
// Participants missing from Percentages owe nothing.
type PercentageSplit struct {
	Percentages map[string]decimal.Decimal
}

func (EqualSplit) Kind() SplitKind        { return SplitEqual }
func (CustomAmountSplit) Kind() SplitKind { return SplitCustomAmount }
func (PercentageSplit) Kind() SplitKind   { return SplitPercentage }

func (EqualSplit) rawShares(total money.Cents, participantIDs []string) ([]decimal.Decimal, error) {
	each := total.Decimal().Div(decimal.NewFromInt(int64(len(participantIDs))))
	raw := make([]decimal.Decimal, len(participantIDs))
	for i := range raw {
		raw[i] = each
	}
	return raw, nil
}

func (s CustomAmountSplit) rawShares(total money.Cents, participantIDs []string) ([]decimal.Decimal, error) {
	raw := make([]decimal.Decimal, len(participantIDs))
	var sum money.Cents
	for i, id := range participantIDs {
		amount := s.Amounts[id]
		if amount < 0 {
			return nil, fmt.Errorf("%w: %s", ErrNegativeShare, id)
		}
		sum += amount
		raw[i] = amount.Decimal()
	}
	// An all-zero split has nothing to scale; the allocator would hand back
	// zero shares for a positive total.
	if sum == 0 || (sum-total).Abs() > customAmountTolerance {
		return nil, fmt.Errorf("%w: got %s, want %s", ErrCustomAmountsMismatch, sum, total)
	}
	return raw, nil
}

func (s PercentageSplit) rawShares(total money.Cents, participantIDs []string) ([]decimal.Decimal, error) {
	raw := make([]decimal.Decimal, len(participantIDs))
	sum := decimal.Zero
	for i, id := range participantIDs {
		pct := s.Percentages[id]
		if pct.Sign() < 0 {
			return nil, fmt.Errorf("%w: %s", ErrNegativeShare, id)
		}
		sum = sum.Add(pct)
		raw[i] = total.Decimal().Mul(pct).Div(oneHundred)
	}
	if sum.Sub(oneHundred).Abs().GreaterThan(percentageTolerance) {
		return nil, fmt.Errorf("%w: got %s", ErrPercentagesMismatch, sum.String())
	}
	return raw, nil
}

// NewSplitMode builds a SplitMode from its persisted kind and the
// mode-specific payload. The payload for the chosen kind must be present
// (non-nil); payloads for other kinds are ignored.
func NewSplitMode(kind SplitKind, amounts map[string]money.Cents, percentages map[string]decimal.Decimal) (SplitMode, error) {
	switch kind {
	case SplitEqual:
		return EqualSplit{}, nil
	case SplitCustomAmount:
		if amounts != nil {
			return CustomAmountSplit{Amounts: amounts}, nil
		}
	case SplitPercentage:
		if percentages != nil {
			return PercentageSplit{Percentages: percentages}, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownSplitMode, kind)
}

// BuildShares validates a split and returns one share per participant, in
// participantIDs order, summing exactly to total. The payer absorbs any
// rounding remainder. A payer outside the split is allowed (they fronted
// the money but owe nothing); the largest share then takes the remainder.
func BuildShares(total money.Cents, payerID string, participantIDs []string, mode SplitMode) ([]Share, error) {
	if total <= 0 {
		return nil, ErrNonPositiveTotal
	}
	if len(participantIDs) == 0 {
		return nil, ErrNoParticipants
	}
	if mode == nil {
		return nil, ErrUnknownSplitMode
	}

	payerIndex := -1
	seen := make(map[string]bool, len(participantIDs))
	for i, id := range participantIDs {
		if seen[id] {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateParticipant, id)
		}
		seen[id] = true
		if id == payerID {
			payerIndex = i
		}
	}
	raw, err := mode.rawShares(total, participantIDs)
	if err != nil {
		return nil, err
	}
	if payerIndex < 0 {
		payerIndex = largest(raw)
	}
	amounts := Allocate(total, raw, payerIndex)

	pct, isPercentage := mode.(PercentageSplit)
	shares := make([]Share, len(participantIDs))
	for i, id := range participantIDs {
		shares[i] = Share{ParticipantID: id, Amount: amounts[i]}
		if isPercentage {
			p := pct.Percentages[id]
			shares[i].Percentage = &p
		}
	}
	return shares, nil
}

// largest returns the index of the biggest raw share, the earliest on ties.
func largest(raw []decimal.Decimal) int {
	best := 0
	for i := 1; i < len(raw); i++ {
		if raw[i].GreaterThan(raw[best]) {
			best = i
		}
	}
	return best
}
