package service

import (
	"context"
	"fmt"

	"github.com/mmynk/mintsense/internal/auth"
	"github.com/mmynk/mintsense/internal/middleware"
	"github.com/mmynk/mintsense/internal/models"
	"github.com/mmynk/mintsense/internal/storage"
)

// ownedGroup loads a group and checks the caller owns it.
func ownedGroup(ctx context.Context, groups storage.GroupStore, groupID string) (*models.Group, error) {
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		return nil, auth.ErrMissingToken
	}

	group, err := groups.GetGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if group.OwnerID != userID {
		return nil, fmt.Errorf("group %s: %w", groupID, ErrNotOwner)
	}
	return group, nil
}

// requireMembers checks every id belongs to the group's roster.
func requireMembers(group *models.Group, ids ...string) error {
	for _, id := range ids {
		if group.FindParticipant(id) == nil {
			return fmt.Errorf("%w: %s", ErrNotInGroup, id)
		}
	}
	return nil
}
