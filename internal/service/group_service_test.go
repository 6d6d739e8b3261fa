package service

import (
	"context"
	"testing"

	"connectrpc.com/connect"

	"github.com/mmynk/mintsense/pkg/api"
)

func TestCreateGroup(t *testing.T) {
	env := setupTestServer(t)

	group := env.createGroup(t, "Bob", "Charlie")

	if group.ID == "" {
		t.Error("expected non-empty group ID")
	}
	if group.OwnerID != env.owner.ID {
		t.Errorf("owner: expected %s, got %s", env.owner.ID, group.OwnerID)
	}
	if len(group.Participants) != 3 {
		t.Fatalf("participants: expected 3, got %d", len(group.Participants))
	}

	first := group.Participants[0]
	if first.Name != "Olivia" || first.UserID != env.owner.ID {
		t.Errorf("expected owner as first participant, got %+v", first)
	}
	if group.Participants[1].Name != "Bob" || group.Participants[2].Name != "Charlie" {
		t.Errorf("roster order not preserved: %+v", group.Participants)
	}
}

func TestCreateGroupValidation(t *testing.T) {
	env := setupTestServer(t)
	ctx := context.Background()

	_, err := env.groups.CreateGroup(ctx, connect.NewRequest(&api.CreateGroupRequest{Name: "  "}))
	requireCode(t, err, connect.CodeInvalidArgument)

	tooMany := make([]api.ParticipantInput, testMaxParticipants)
	for i := range tooMany {
		tooMany[i] = api.ParticipantInput{Name: "P"}
	}
	_, err = env.groups.CreateGroup(ctx, connect.NewRequest(&api.CreateGroupRequest{Name: "Big", Participants: tooMany}))
	requireCode(t, err, connect.CodeFailedPrecondition)
}

func TestGetGroupOwnership(t *testing.T) {
	env := setupTestServer(t)
	ctx := context.Background()
	group := env.createGroup(t, "Bob")

	resp, err := env.groups.GetGroup(ctx, connect.NewRequest(&api.GetGroupRequest{GroupID: group.ID}))
	if err != nil {
		t.Fatalf("GetGroup failed: %v", err)
	}
	if resp.Msg.Group.Name != "Test Group" {
		t.Errorf("name: expected 'Test Group', got '%s'", resp.Msg.Group.Name)
	}

	req := connect.NewRequest(&api.GetGroupRequest{GroupID: group.ID})
	req.Header().Set("X-Test-User", "someone-else")
	_, err = env.groups.GetGroup(ctx, req)
	requireCode(t, err, connect.CodePermissionDenied)

	_, err = env.groups.GetGroup(ctx, connect.NewRequest(&api.GetGroupRequest{GroupID: "nonexistent"}))
	requireCode(t, err, connect.CodeNotFound)
}

func TestListAndUpdateGroups(t *testing.T) {
	env := setupTestServer(t)
	ctx := context.Background()

	first := env.createGroup(t, "Bob")
	env.createGroup(t, "Carol")

	if _, err := env.groups.UpdateGroup(ctx, connect.NewRequest(&api.UpdateGroupRequest{
		GroupID: first.ID,
		Name:    "Renamed",
	})); err != nil {
		t.Fatalf("UpdateGroup failed: %v", err)
	}

	resp, err := env.groups.ListGroups(ctx, connect.NewRequest(&api.ListGroupsRequest{}))
	if err != nil {
		t.Fatalf("ListGroups failed: %v", err)
	}
	if len(resp.Msg.Groups) != 2 {
		t.Fatalf("expected 2 groups, got %d", len(resp.Msg.Groups))
	}

	var found bool
	for _, g := range resp.Msg.Groups {
		if g.ID == first.ID {
			found = true
			if g.Name != "Renamed" {
				t.Errorf("expected renamed group, got %s", g.Name)
			}
		}
	}
	if !found {
		t.Error("renamed group missing from list")
	}

	other := connect.NewRequest(&api.ListGroupsRequest{})
	other.Header().Set("X-Test-User", "someone-else")
	resp, err = env.groups.ListGroups(ctx, other)
	if err != nil {
		t.Fatalf("ListGroups failed: %v", err)
	}
	if len(resp.Msg.Groups) != 0 {
		t.Errorf("expected no groups for another user, got %d", len(resp.Msg.Groups))
	}
}

func TestDeleteGroup(t *testing.T) {
	env := setupTestServer(t)
	ctx := context.Background()
	group := env.createGroup(t, "Bob")
	env.addExpense(t, group.ID, group.Participants[0].ID, 10, equalSplit(ids(group)...))

	if _, err := env.groups.DeleteGroup(ctx, connect.NewRequest(&api.DeleteGroupRequest{GroupID: group.ID})); err != nil {
		t.Fatalf("DeleteGroup failed: %v", err)
	}

	_, err := env.groups.GetGroup(ctx, connect.NewRequest(&api.GetGroupRequest{GroupID: group.ID}))
	requireCode(t, err, connect.CodeNotFound)
}

func TestParticipantLifecycle(t *testing.T) {
	env := setupTestServer(t)
	ctx := context.Background()
	group := env.createGroup(t, "Bob")

	addResp, err := env.groups.AddParticipant(ctx, connect.NewRequest(&api.AddParticipantRequest{
		GroupID:     group.ID,
		Participant: api.ParticipantInput{Name: "Carol", Color: "#f59e0b"},
	}))
	if err != nil {
		t.Fatalf("AddParticipant failed: %v", err)
	}
	carol := addResp.Msg.Participant

	updResp, err := env.groups.UpdateParticipant(ctx, connect.NewRequest(&api.UpdateParticipantRequest{
		GroupID:       group.ID,
		ParticipantID: carol.ID,
		Participant:   api.ParticipantInput{Name: "Caroline", Color: "#f59e0b"},
	}))
	if err != nil {
		t.Fatalf("UpdateParticipant failed: %v", err)
	}
	if updResp.Msg.Participant.Name != "Caroline" {
		t.Errorf("expected Caroline, got %s", updResp.Msg.Participant.Name)
	}

	t.Run("owner cannot be removed", func(t *testing.T) {
		_, err := env.groups.RemoveParticipant(ctx, connect.NewRequest(&api.RemoveParticipantRequest{
			GroupID:       group.ID,
			ParticipantID: group.Participants[0].ID,
		}))
		requireCode(t, err, connect.CodeFailedPrecondition)
	})

	t.Run("participant with expenses cannot be removed", func(t *testing.T) {
		bob := group.Participants[1].ID
		env.addExpense(t, group.ID, bob, 20, equalSplit(bob))
		_, err := env.groups.RemoveParticipant(ctx, connect.NewRequest(&api.RemoveParticipantRequest{
			GroupID:       group.ID,
			ParticipantID: bob,
		}))
		requireCode(t, err, connect.CodeFailedPrecondition)
	})

	t.Run("unused participant is removed", func(t *testing.T) {
		if _, err := env.groups.RemoveParticipant(ctx, connect.NewRequest(&api.RemoveParticipantRequest{
			GroupID:       group.ID,
			ParticipantID: carol.ID,
		})); err != nil {
			t.Fatalf("RemoveParticipant failed: %v", err)
		}
		resp, err := env.groups.GetGroup(ctx, connect.NewRequest(&api.GetGroupRequest{GroupID: group.ID}))
		if err != nil {
			t.Fatalf("GetGroup failed: %v", err)
		}
		if len(resp.Msg.Group.Participants) != 2 {
			t.Errorf("expected 2 participants, got %d", len(resp.Msg.Group.Participants))
		}
	})

	t.Run("roster limit", func(t *testing.T) {
		for i := len(group.Participants); i < testMaxParticipants; i++ {
			if _, err := env.groups.AddParticipant(ctx, connect.NewRequest(&api.AddParticipantRequest{
				GroupID:     group.ID,
				Participant: api.ParticipantInput{Name: "Filler"},
			})); err != nil {
				t.Fatalf("AddParticipant failed: %v", err)
			}
		}
		_, err := env.groups.AddParticipant(ctx, connect.NewRequest(&api.AddParticipantRequest{
			GroupID:     group.ID,
			Participant: api.ParticipantInput{Name: "One too many"},
		}))
		requireCode(t, err, connect.CodeFailedPrecondition)
	})
}
