package api

type CreateGroupRequest struct {
	Name string `json:"name"`
	// Participants are added after the owner, who always joins first.
	Participants []ParticipantInput `json:"participants,omitempty"`
}

type CreateGroupResponse struct {
	Group Group `json:"group"`
}

type GetGroupRequest struct {
	GroupID string `json:"groupId"`
}

type GetGroupResponse struct {
	Group Group `json:"group"`
}

type ListGroupsRequest struct{}

type ListGroupsResponse struct {
	Groups []Group `json:"groups"`
}

type UpdateGroupRequest struct {
	GroupID string `json:"groupId"`
	Name    string `json:"name"`
}

type UpdateGroupResponse struct {
	Group Group `json:"group"`
}

type DeleteGroupRequest struct {
	GroupID string `json:"groupId"`
}

type DeleteGroupResponse struct{}

type AddParticipantRequest struct {
	GroupID     string           `json:"groupId"`
	Participant ParticipantInput `json:"participant"`
}

type AddParticipantResponse struct {
	Participant Participant `json:"participant"`
}

type UpdateParticipantRequest struct {
	GroupID       string           `json:"groupId"`
	ParticipantID string           `json:"participantId"`
	Participant   ParticipantInput `json:"participant"`
}

type UpdateParticipantResponse struct {
	Participant Participant `json:"participant"`
}

type RemoveParticipantRequest struct {
	GroupID       string `json:"groupId"`
	ParticipantID string `json:"participantId"`
}

type RemoveParticipantResponse struct{}
