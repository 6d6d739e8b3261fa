package models

import (
	"github.com/shopspring/decimal"

	"github.com/mmynk/mintsense/internal/money"
)

// Expense is a payment made by one participant on behalf of others.
type Expense struct {
	// ID is the unique identifier for the expense (UUID format).
	ID string

	// GroupID is the group this expense belongs to.
	GroupID string

	// Description is what the money was spent on (e.g., "Groceries").
	Description string

	// Amount is the total paid.
	Amount money.Cents

	// Date is the Unix timestamp of when the expense happened.
	Date int64

	// PayerID is the participant who paid.
	PayerID string

	// SplitMode is how the amount was divided: "EQUAL", "CUSTOM_AMOUNT" or "PERCENTAGE".
	SplitMode string

	// Shares are the allocated portions, one per participant in the split.
	// They always sum to Amount.
	Shares []ExpenseShare

	// CreatedAt is the Unix timestamp when the expense was recorded.
	CreatedAt int64
}

// ExpenseShare is one participant's portion of an expense.
type ExpenseShare struct {
	ParticipantID string
	Amount        money.Cents
	// Percentage is set only for percentage splits and is informational.
	Percentage *decimal.Decimal
}

// ExpenseFilter narrows a group's expense listing. Zero values are ignored.
type ExpenseFilter struct {
	// Search matches a substring of the description.
	Search string

	// ParticipantID matches expenses the participant paid for or has a share in.
	ParticipantID string

	// DateFrom and DateTo bound Date (inclusive, Unix seconds).
	DateFrom int64
	DateTo   int64

	// AmountMin and AmountMax bound Amount (inclusive). Nil means unbounded.
	AmountMin *money.Cents
	AmountMax *money.Cents
}
