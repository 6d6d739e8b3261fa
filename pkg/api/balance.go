package api

type GetGroupBalancesRequest struct {
	GroupID string `json:"groupId"`
}

// GetGroupBalancesResponse is the full financial picture of a group.
type GetGroupBalancesResponse struct {
	Balances []ParticipantBalance `json:"balances"`
	// Directional lists who owes whom, paired in roster order.
	Directional []Transfer `json:"directional"`
	// Settlements is a short plan of payments that zeroes every balance.
	Settlements []Transfer `json:"settlements"`
	// TotalSpent sums expenses only; recorded settlements are excluded.
	TotalSpent float64 `json:"totalSpent"`
}

type RecordSettlementRequest struct {
	GroupID string  `json:"groupId"`
	FromID  string  `json:"fromId"`
	ToID    string  `json:"toId"`
	Amount  float64 `json:"amount"`
	Note    string  `json:"note,omitempty"`
}

type RecordSettlementResponse struct {
	Settlement Settlement `json:"settlement"`
}

type ListSettlementsRequest struct {
	GroupID string `json:"groupId"`
}

type ListSettlementsResponse struct {
	Settlements []Settlement `json:"settlements"`
}

type DeleteSettlementRequest struct {
	GroupID      string `json:"groupId"`
	SettlementID string `json:"settlementId"`
}

type DeleteSettlementResponse struct{}
