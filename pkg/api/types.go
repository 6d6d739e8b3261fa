// Package api defines the wire messages of the MintSense Connect services.
//
// Messages are plain structs encoded as JSON. Money travels as a JSON number
// in major units (e.g. 12.34) and is converted to integer cents at the
// service boundary; timestamps are Unix seconds.
package api

// User is a registered account.
type User struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
	CreatedAt   int64  `json:"createdAt"`
}

// Participant is one member of a group.
type Participant struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Color     string `json:"color,omitempty"`
	AvatarURL string `json:"avatarUrl,omitempty"`
	// UserID is set on the owner's own participant.
	UserID string `json:"userId,omitempty"`
}

// ParticipantInput carries the editable fields of a participant.
type ParticipantInput struct {
	Name      string `json:"name"`
	Color     string `json:"color,omitempty"`
	AvatarURL string `json:"avatarUrl,omitempty"`
}

// Group is a set of participants sharing expenses.
type Group struct {
	ID           string        `json:"id"`
	Name         string        `json:"name"`
	OwnerID      string        `json:"ownerId"`
	Participants []Participant `json:"participants"`
	CreatedAt    int64         `json:"createdAt"`
	UpdatedAt    int64         `json:"updatedAt"`
}

// ExpenseShare is one participant's portion of an expense.
type ExpenseShare struct {
	ParticipantID string   `json:"participantId"`
	Amount        float64  `json:"amount"`
	Percentage    *float64 `json:"percentage,omitempty"`
}

// Expense is a payment made by one participant and split among several.
type Expense struct {
	ID          string         `json:"id"`
	GroupID     string         `json:"groupId"`
	Description string         `json:"description"`
	Amount      float64        `json:"amount"`
	Date        int64          `json:"date"`
	PayerID     string         `json:"payerId"`
	SplitMode   string         `json:"splitMode"`
	Shares      []ExpenseShare `json:"shares"`
	CreatedAt   int64          `json:"createdAt"`
}

// Split describes how an expense is divided.
// Mode is "EQUAL", "CUSTOM_AMOUNT" or "PERCENTAGE"; Amounts is required for
// CUSTOM_AMOUNT and Percentages for PERCENTAGE, both keyed by participant ID.
type Split struct {
	Mode           string             `json:"mode"`
	ParticipantIDs []string           `json:"participantIds"`
	Amounts        map[string]float64 `json:"amounts,omitempty"`
	Percentages    map[string]float64 `json:"percentages,omitempty"`
}

// Settlement is a recorded real-world payment between two participants.
type Settlement struct {
	ID        string  `json:"id"`
	GroupID   string  `json:"groupId"`
	FromID    string  `json:"fromId"`
	ToID      string  `json:"toId"`
	Amount    float64 `json:"amount"`
	Note      string  `json:"note,omitempty"`
	CreatedBy string  `json:"createdBy"`
	CreatedAt int64   `json:"createdAt"`
}

// ParticipantBalance is a participant's net position in a group.
// Positive NetBalance means the group owes them.
type ParticipantBalance struct {
	ParticipantID string  `json:"participantId"`
	Name          string  `json:"name"`
	Color         string  `json:"color,omitempty"`
	NetBalance    float64 `json:"netBalance"`
	TotalPaid     float64 `json:"totalPaid"`
	TotalOwed     float64 `json:"totalOwed"`
}

// Transfer is a payment from one participant to another.
type Transfer struct {
	FromID   string  `json:"fromId"`
	FromName string  `json:"fromName"`
	ToID     string  `json:"toId"`
	ToName   string  `json:"toName"`
	Amount   float64 `json:"amount"`
}
