package models

// Group is a set of participants who share expenses.
// Only the owner can view or change it.
type Group struct {
	// ID is the unique identifier for the group (UUID format).
	ID string

	// Name is the display name of the group (e.g., "Roommates", "Lisbon Trip").
	Name string

	// OwnerID is the user who created the group.
	OwnerID string

	// Participants is the group's roster in the order they were added.
	// Balances and directional debts follow this order.
	Participants []Participant

	// CreatedAt is the Unix timestamp when the group was created.
	CreatedAt int64

	// UpdatedAt is the Unix timestamp of the last change to the group or its roster.
	UpdatedAt int64
}

// Participant is one person in a group. Participants do not need an account.
type Participant struct {
	// ID is the unique identifier for the participant (UUID format).
	ID string

	// GroupID is the group this participant belongs to.
	GroupID string

	// Name is the display name shown in balances and settlements.
	Name string

	// Color is an optional display color (e.g., "#10b981").
	Color string

	// AvatarURL is an optional profile picture URL.
	AvatarURL string

	// UserID links the participant to a registered user.
	// Set only for the group owner's own participant.
	UserID string

	// CreatedAt is the Unix timestamp when the participant was added.
	CreatedAt int64
}

// FindParticipant returns the participant with the given ID, or nil.
func (g *Group) FindParticipant(id string) *Participant {
	for i := range g.Participants {
		if g.Participants[i].ID == id {
			return &g.Participants[i]
		}
	}
	return nil
}
