package service

import (
	"context"
	"testing"

	"connectrpc.com/connect"

	"github.com/mmynk/wesplit/internal/models"
	"github.com/mmynk/wesplit/pkg/api"
)

func TestCreateGroup(t *testing.T) {
	server := setupTestServer(t)
	client := server.as(t, alice)

	resp, err := client.groups.CreateGroup(context.Background(), connect.NewRequest(&api.CreateGroupRequest{
		Title:        "Roommates",
		Participants: []models.Participant{{Name: "Bob"}, {Name: "Charlie"}},
	}))
	if err != nil {
		t.Fatalf("CreateGroup failed: %v", err)
	}

	group := resp.Msg.Group
	if group.ID == "" {
		t.Error("expected non-empty group ID")
	}
	if group.Title != "Roommates" {
		t.Errorf("title: expected 'Roommates', got '%s'", group.Title)
	}
	if group.CreatedAt == 0 {
		t.Error("expected non-zero CreatedAt")
	}

	// The caller joins the group automatically
	if len(group.Participants) != 3 {
		t.Fatalf("participants: expected 3, got %d", len(group.Participants))
	}
	me := group.Participants[2]
	if me.Name != "Alice" || me.UserID != alice.ID || !me.IsMe {
		t.Errorf("expected caller participant, got %+v", me)
	}
	for _, p := range group.Participants[:2] {
		if p.ID == "" || p.IsMe {
			t.Errorf("unexpected participant %+v", p)
		}
	}
}

func TestCreateGroupGeneratesTitle(t *testing.T) {
	server := setupTestServer(t)
	client := server.as(t, alice)

	resp, err := client.groups.CreateGroup(context.Background(), connect.NewRequest(&api.CreateGroupRequest{
		Participants: []models.Participant{{Name: "Alice", IsMe: true}, {Name: "Bob"}},
	}))
	if err != nil {
		t.Fatalf("CreateGroup failed: %v", err)
	}
	if resp.Msg.Group.Title != "Split with Alice, Bob" {
		t.Errorf("title: expected 'Split with Alice, Bob', got '%s'", resp.Msg.Group.Title)
	}
	if len(resp.Msg.Group.Participants) != 2 {
		t.Errorf("participants: expected 2, got %d", len(resp.Msg.Group.Participants))
	}
}

func TestCreateGroupValidation(t *testing.T) {
	server := setupTestServer(t)
	client := server.as(t, alice)

	tests := []struct {
		name         string
		participants []models.Participant
	}{
		{"blank name", []models.Participant{{Name: "  "}}},
		{"linked twice", []models.Participant{{Name: "Alice", IsMe: true}, {Name: "Al", UserID: alice.ID}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := client.groups.CreateGroup(context.Background(), connect.NewRequest(&api.CreateGroupRequest{
				Participants: tt.participants,
			}))
			assertCode(t, err, connect.CodeInvalidArgument)
		})
	}
}

func TestGetGroup(t *testing.T) {
	server := setupTestServer(t)
	owner := server.as(t, alice)
	group := owner.createGroup(t, models.Participant{Name: "Bob", UserID: bob.ID})

	tests := []struct {
		name     string
		client   *testClient
		groupID  string
		wantCode connect.Code
	}{
		{name: "owner", client: owner, groupID: group.ID},
		{name: "linked member", client: server.as(t, bob), groupID: group.ID},
		{name: "outsider", client: server.as(t, eve), groupID: group.ID, wantCode: connect.CodePermissionDenied},
		{name: "unknown group", client: owner, groupID: "missing", wantCode: connect.CodeNotFound},
		{name: "empty id", client: owner, wantCode: connect.CodeInvalidArgument},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := tt.client.groups.GetGroup(context.Background(), connect.NewRequest(&api.GetGroupRequest{GroupID: tt.groupID}))
			if tt.wantCode != 0 {
				assertCode(t, err, tt.wantCode)
				return
			}
			if err != nil {
				t.Fatalf("GetGroup failed: %v", err)
			}
			if resp.Msg.Group.ID != group.ID {
				t.Errorf("ID mismatch: expected %s, got %s", group.ID, resp.Msg.Group.ID)
			}
			me := 0
			for _, p := range resp.Msg.Group.Participants {
				if p.IsMe {
					me++
					if p.UserID != tt.client.user.ID {
						t.Errorf("IsMe set on %+v", p)
					}
				}
			}
			if me != 1 {
				t.Errorf("expected exactly one IsMe participant, got %d", me)
			}
		})
	}
}

func TestListGroups(t *testing.T) {
	server := setupTestServer(t)
	aliceClient := server.as(t, alice)
	bobClient := server.as(t, bob)

	aliceClient.createGroup(t, models.Participant{Name: "Bob", UserID: bob.ID})
	aliceClient.createGroup(t, models.Participant{Name: "Carol"})
	bobClient.createGroup(t)

	tests := []struct {
		client *testClient
		want   int
	}{
		{aliceClient, 2},
		{bobClient, 2},
		{server.as(t, eve), 0},
	}
	for _, tt := range tests {
		resp, err := tt.client.groups.ListGroups(context.Background(), connect.NewRequest(&api.ListGroupsRequest{}))
		if err != nil {
			t.Fatalf("ListGroups failed: %v", err)
		}
		if len(resp.Msg.Groups) != tt.want {
			t.Errorf("%s: expected %d groups, got %d", tt.client.user.Name, tt.want, len(resp.Msg.Groups))
		}
	}
}

func TestUpdateGroup(t *testing.T) {
	server := setupTestServer(t)
	client := server.as(t, alice)
	group := client.createGroup(t, models.Participant{Name: "Bob"}, models.Participant{Name: "Carol"})

	// Bob pays an expense, so he cannot be removed
	client.createExpense(t, group, "Bob", 30, "EUR")

	participants := append([]models.Participant{}, group.Participants...)
	participants[2].Name = "Caroline"
	participants = append(participants, models.Participant{Name: "Dave"})

	resp, err := client.groups.UpdateGroup(context.Background(), connect.NewRequest(&api.UpdateGroupRequest{
		GroupID:      group.ID,
		Title:        "Ski trip",
		Participants: participants,
	}))
	if err != nil {
		t.Fatalf("UpdateGroup failed: %v", err)
	}

	updated := resp.Msg.Group
	if updated.Title != "Ski trip" {
		t.Errorf("title: expected 'Ski trip', got '%s'", updated.Title)
	}
	if len(updated.Participants) != 4 {
		t.Fatalf("participants: expected 4, got %d", len(updated.Participants))
	}
	if updated.Participants[2].ID != group.Participants[2].ID || updated.Participants[2].Name != "Caroline" {
		t.Errorf("rename lost participant identity: %+v", updated.Participants[2])
	}
	if updated.CreatedAt != group.CreatedAt {
		t.Errorf("CreatedAt changed: %d != %d", updated.CreatedAt, group.CreatedAt)
	}

	// Dropping Bob fails while he is referenced
	withoutBob := []models.Participant{updated.Participants[0], updated.Participants[2], updated.Participants[3]}
	_, err = client.groups.UpdateGroup(context.Background(), connect.NewRequest(&api.UpdateGroupRequest{
		GroupID:      group.ID,
		Participants: withoutBob,
	}))
	assertCode(t, err, connect.CodeFailedPrecondition)

	// Outsiders cannot edit
	_, err = server.as(t, eve).groups.UpdateGroup(context.Background(), connect.NewRequest(&api.UpdateGroupRequest{
		GroupID:      group.ID,
		Participants: participants,
	}))
	assertCode(t, err, connect.CodePermissionDenied)
}

func TestDeleteGroup(t *testing.T) {
	server := setupTestServer(t)
	client := server.as(t, alice)
	group := client.createGroup(t, models.Participant{Name: "Bob"})
	client.createExpense(t, group, "Alice", 20, "EUR")

	_, err := server.as(t, eve).groups.DeleteGroup(context.Background(), connect.NewRequest(&api.DeleteGroupRequest{GroupID: group.ID}))
	assertCode(t, err, connect.CodePermissionDenied)

	if _, err := client.groups.DeleteGroup(context.Background(), connect.NewRequest(&api.DeleteGroupRequest{GroupID: group.ID})); err != nil {
		t.Fatalf("DeleteGroup failed: %v", err)
	}

	_, err = client.groups.GetGroup(context.Background(), connect.NewRequest(&api.GetGroupRequest{GroupID: group.ID}))
	assertCode(t, err, connect.CodeNotFound)

	_, err = client.groups.DeleteGroup(context.Background(), connect.NewRequest(&api.DeleteGroupRequest{GroupID: group.ID}))
	assertCode(t, err, connect.CodeNotFound)
}
