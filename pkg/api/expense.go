package api

// PreviewSplitRequest asks for an allocation without storing anything.
type PreviewSplitRequest struct {
	Amount  float64 `json:"amount"`
	PayerID string  `json:"payerId"`
	Split   Split   `json:"split"`
}

type PreviewSplitResponse struct {
	Shares []ExpenseShare `json:"shares"`
}

type CreateExpenseRequest struct {
	GroupID     string  `json:"groupId"`
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
	// Date defaults to now when zero.
	Date    int64  `json:"date,omitempty"`
	PayerID string `json:"payerId"`
	Split   Split  `json:"split"`
}

type CreateExpenseResponse struct {
	Expense Expense `json:"expense"`
}

type GetExpenseRequest struct {
	GroupID   string `json:"groupId"`
	ExpenseID string `json:"expenseId"`
}

type GetExpenseResponse struct {
	Expense Expense `json:"expense"`
}

type UpdateExpenseRequest struct {
	GroupID     string  `json:"groupId"`
	ExpenseID   string  `json:"expenseId"`
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
	Date        int64   `json:"date,omitempty"`
	PayerID     string  `json:"payerId"`
	Split       Split   `json:"split"`
}

type UpdateExpenseResponse struct {
	Expense Expense `json:"expense"`
}

type DeleteExpenseRequest struct {
	GroupID   string `json:"groupId"`
	ExpenseID string `json:"expenseId"`
}

type DeleteExpenseResponse struct{}

// ListExpensesRequest filters a group's expenses. Unset filters match everything.
type ListExpensesRequest struct {
	GroupID       string   `json:"groupId"`
	Search        string   `json:"search,omitempty"`
	ParticipantID string   `json:"participantId,omitempty"`
	DateFrom      int64    `json:"dateFrom,omitempty"`
	DateTo        int64    `json:"dateTo,omitempty"`
	AmountMin     *float64 `json:"amountMin,omitempty"`
	AmountMax     *float64 `json:"amountMax,omitempty"`
}

type ListExpensesResponse struct {
	Expenses []Expense `json:"expenses"`
}
