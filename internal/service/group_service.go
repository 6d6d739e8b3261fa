package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/mintsense/internal/auth"
	"github.com/mmynk/mintsense/internal/middleware"
	"github.com/mmynk/mintsense/internal/models"
	"github.com/mmynk/mintsense/internal/storage"
	"github.com/mmynk/mintsense/pkg/api"
	"github.com/mmynk/mintsense/pkg/api/apiconnect"
)

var _ apiconnect.GroupServiceHandler = (*GroupService)(nil)

// GroupService implements the Connect GroupService.
type GroupService struct {
	store           storage.Store
	logger          *slog.Logger
	maxParticipants int
}

// NewGroupService creates a GroupService. maxParticipants caps each roster,
// owner included.
func NewGroupService(store storage.Store, logger *slog.Logger, maxParticipants int) *GroupService {
	return &GroupService{store: store, logger: logger, maxParticipants: maxParticipants}
}

func participantFromInput(in api.ParticipantInput) (models.Participant, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return models.Participant{}, ErrMissingName
	}
	return models.Participant{Name: name, Color: in.Color, AvatarURL: in.AvatarURL}, nil
}

// CreateGroup creates a group with the caller as its first participant.
func (s *GroupService) CreateGroup(ctx context.Context, req *connect.Request[api.CreateGroupRequest]) (*connect.Response[api.CreateGroupResponse], error) {
	userID := middleware.GetUserID(ctx)
	s.logger.Info("CreateGroup request received",
		"user_id", userID,
		"name", req.Msg.Name,
		"participants_count", len(req.Msg.Participants),
	)
	if userID == "" {
		return nil, connect.NewError(connect.CodeUnauthenticated, auth.ErrMissingToken)
	}

	name := strings.TrimSpace(req.Msg.Name)
	if name == "" {
		return nil, toConnectError(ErrMissingName)
	}
	if 1+len(req.Msg.Participants) > s.maxParticipants {
		return nil, toConnectError(fmt.Errorf("%w (%d)", ErrGroupFull, s.maxParticipants))
	}

	owner, err := s.store.GetUserByID(ctx, userID)
	if err != nil {
		s.logger.Error("CreateGroup failed to load owner", "user_id", userID, "error", err)
		return nil, toConnectError(err)
	}

	group := &models.Group{
		Name:    name,
		OwnerID: userID,
		Participants: []models.Participant{
			{Name: owner.DisplayName, UserID: owner.ID},
		},
	}
	for _, in := range req.Msg.Participants {
		p, err := participantFromInput(in)
		if err != nil {
			return nil, toConnectError(err)
		}
		group.Participants = append(group.Participants, p)
	}

	if err := s.store.CreateGroup(ctx, group); err != nil {
		s.logger.Error("CreateGroup failed", "error", err)
		return nil, toConnectError(err)
	}

	s.logger.Info("Group created", "group_id", group.ID)
	return connect.NewResponse(&api.CreateGroupResponse{Group: groupToAPI(group)}), nil
}

// GetGroup retrieves a group by ID.
func (s *GroupService) GetGroup(ctx context.Context, req *connect.Request[api.GetGroupRequest]) (*connect.Response[api.GetGroupResponse], error) {
	s.logger.Info("GetGroup request received", "group_id", req.Msg.GroupID)

	group, err := ownedGroup(ctx, s.store, req.Msg.GroupID)
	if err != nil {
		s.logger.Warn("GetGroup failed", "group_id", req.Msg.GroupID, "error", err)
		return nil, toConnectError(err)
	}

	return connect.NewResponse(&api.GetGroupResponse{Group: groupToAPI(group)}), nil
}

// ListGroups returns the caller's groups, most recently active first.
func (s *GroupService) ListGroups(ctx context.Context, req *connect.Request[api.ListGroupsRequest]) (*connect.Response[api.ListGroupsResponse], error) {
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		return nil, connect.NewError(connect.CodeUnauthenticated, auth.ErrMissingToken)
	}

	groups, err := s.store.ListGroupsByOwner(ctx, userID)
	if err != nil {
		s.logger.Error("ListGroups failed", "user_id", userID, "error", err)
		return nil, toConnectError(err)
	}

	out := make([]api.Group, len(groups))
	for i, g := range groups {
		out[i] = groupToAPI(g)
	}

	s.logger.Info("ListGroups successful", "user_id", userID, "count", len(out))
	return connect.NewResponse(&api.ListGroupsResponse{Groups: out}), nil
}

// UpdateGroup renames a group.
func (s *GroupService) UpdateGroup(ctx context.Context, req *connect.Request[api.UpdateGroupRequest]) (*connect.Response[api.UpdateGroupResponse], error) {
	s.logger.Info("UpdateGroup request received", "group_id", req.Msg.GroupID, "name", req.Msg.Name)

	name := strings.TrimSpace(req.Msg.Name)
	if name == "" {
		return nil, toConnectError(ErrMissingName)
	}
	if _, err := ownedGroup(ctx, s.store, req.Msg.GroupID); err != nil {
		return nil, toConnectError(err)
	}

	if err := s.store.RenameGroup(ctx, req.Msg.GroupID, name); err != nil {
		s.logger.Error("UpdateGroup failed", "group_id", req.Msg.GroupID, "error", err)
		return nil, toConnectError(err)
	}

	updated, err := s.store.GetGroup(ctx, req.Msg.GroupID)
	if err != nil {
		return nil, toConnectError(err)
	}

	s.logger.Info("Group updated", "group_id", updated.ID)
	return connect.NewResponse(&api.UpdateGroupResponse{Group: groupToAPI(updated)}), nil
}

// DeleteGroup removes a group with all its expenses and settlements.
func (s *GroupService) DeleteGroup(ctx context.Context, req *connect.Request[api.DeleteGroupRequest]) (*connect.Response[api.DeleteGroupResponse], error) {
	s.logger.Info("DeleteGroup request received", "group_id", req.Msg.GroupID)

	if _, err := ownedGroup(ctx, s.store, req.Msg.GroupID); err != nil {
		return nil, toConnectError(err)
	}
	if err := s.store.DeleteGroup(ctx, req.Msg.GroupID); err != nil {
		s.logger.Error("DeleteGroup failed", "group_id", req.Msg.GroupID, "error", err)
		return nil, toConnectError(err)
	}

	s.logger.Info("Group deleted", "group_id", req.Msg.GroupID)
	return connect.NewResponse(&api.DeleteGroupResponse{}), nil
}

// AddParticipant appends a participant to the roster, up to the group limit.
func (s *GroupService) AddParticipant(ctx context.Context, req *connect.Request[api.AddParticipantRequest]) (*connect.Response[api.AddParticipantResponse], error) {
	s.logger.Info("AddParticipant request received", "group_id", req.Msg.GroupID, "name", req.Msg.Participant.Name)

	group, err := ownedGroup(ctx, s.store, req.Msg.GroupID)
	if err != nil {
		return nil, toConnectError(err)
	}
	p, err := participantFromInput(req.Msg.Participant)
	if err != nil {
		return nil, toConnectError(err)
	}
	p.GroupID = group.ID

	if err := s.store.AddParticipant(ctx, &p, s.maxParticipants); err != nil {
		s.logger.Error("AddParticipant failed", "group_id", group.ID, "error", err)
		return nil, toConnectError(err)
	}

	s.logger.Info("Participant added", "group_id", group.ID, "participant_id", p.ID)
	return connect.NewResponse(&api.AddParticipantResponse{Participant: participantToAPI(p)}), nil
}

// UpdateParticipant changes a participant's name, color or avatar.
func (s *GroupService) UpdateParticipant(ctx context.Context, req *connect.Request[api.UpdateParticipantRequest]) (*connect.Response[api.UpdateParticipantResponse], error) {
	s.logger.Info("UpdateParticipant request received", "group_id", req.Msg.GroupID, "participant_id", req.Msg.ParticipantID)

	group, err := ownedGroup(ctx, s.store, req.Msg.GroupID)
	if err != nil {
		return nil, toConnectError(err)
	}
	existing := group.FindParticipant(req.Msg.ParticipantID)
	if existing == nil {
		return nil, toConnectError(fmt.Errorf("participant %s: %w", req.Msg.ParticipantID, storage.ErrNotFound))
	}

	p, err := participantFromInput(req.Msg.Participant)
	if err != nil {
		return nil, toConnectError(err)
	}
	p.ID = existing.ID
	p.GroupID = group.ID
	p.UserID = existing.UserID
	p.CreatedAt = existing.CreatedAt

	if err := s.store.UpdateParticipant(ctx, &p); err != nil {
		s.logger.Error("UpdateParticipant failed", "participant_id", p.ID, "error", err)
		return nil, toConnectError(err)
	}

	return connect.NewResponse(&api.UpdateParticipantResponse{Participant: participantToAPI(p)}), nil
}

// RemoveParticipant deletes a participant who has no expenses or settlements.
// The owner's own participant is permanent.
func (s *GroupService) RemoveParticipant(ctx context.Context, req *connect.Request[api.RemoveParticipantRequest]) (*connect.Response[api.RemoveParticipantResponse], error) {
	s.logger.Info("RemoveParticipant request received", "group_id", req.Msg.GroupID, "participant_id", req.Msg.ParticipantID)

	group, err := ownedGroup(ctx, s.store, req.Msg.GroupID)
	if err != nil {
		return nil, toConnectError(err)
	}
	p := group.FindParticipant(req.Msg.ParticipantID)
	if p == nil {
		return nil, toConnectError(fmt.Errorf("participant %s: %w", req.Msg.ParticipantID, storage.ErrNotFound))
	}
	if p.UserID != "" && p.UserID == group.OwnerID {
		return nil, toConnectError(ErrOwnerParticipant)
	}

	if err := s.store.DeleteParticipant(ctx, group.ID, p.ID); err != nil {
		s.logger.Warn("RemoveParticipant failed", "participant_id", p.ID, "error", err)
		return nil, toConnectError(err)
	}

	s.logger.Info("Participant removed", "group_id", group.ID, "participant_id", p.ID)
	return connect.NewResponse(&api.RemoveParticipantResponse{}), nil
}
