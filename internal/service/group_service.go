package service

import (
	"context"
	"log/slog"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/wesplit/internal/models"
	"github.com/mmynk/wesplit/internal/storage"
	"github.com/mmynk/wesplit/pkg/api"
)

// GroupService implements the Connect GroupService
type GroupService struct {
	store  storage.Store
	logger *slog.Logger
}

// NewGroupService creates a new GroupService with the given storage backend.
func NewGroupService(store storage.Store, logger *slog.Logger) *GroupService {
	return &GroupService{store: store, logger: logger}
}

// CreateGroup creates a new group. The caller always becomes a participant.
func (s *GroupService) CreateGroup(ctx context.Context, req *connect.Request[api.CreateGroupRequest]) (*connect.Response[api.CreateGroupResponse], error) {
	s.logger.Info("CreateGroup request received",
		"title", req.Msg.Title,
		"participants_count", len(req.Msg.Participants),
	)

	me := caller(ctx)
	participants, err := groupParticipants(req.Msg.Participants, me)
	if err != nil {
		return nil, toConnectError(err)
	}

	group := &models.Group{
		Title:        strings.TrimSpace(req.Msg.Title),
		ImageURL:     req.Msg.ImageURL,
		Participants: participants,
	}

	// Save to storage (generates IDs, title and CreatedAt)
	if err := s.store.CreateGroup(ctx, group); err != nil {
		s.logger.Error("CreateGroup failed", "error", err)
		return nil, toConnectError(err)
	}
	if err := s.store.UpsertUser(ctx, &me); err != nil {
		s.logger.Warn("Failed to record user", "user_id", me.ID, "error", err)
	}

	s.logger.Info("Group created", "group_id", group.ID)

	return connect.NewResponse(&api.CreateGroupResponse{Group: group.WithMe(me.ID)}), nil
}

// GetGroup retrieves a group by ID.
func (s *GroupService) GetGroup(ctx context.Context, req *connect.Request[api.GetGroupRequest]) (*connect.Response[api.GetGroupResponse], error) {
	s.logger.Info("GetGroup request received", "group_id", req.Msg.GroupID)

	group, err := memberGroup(ctx, s.store, req.Msg.GroupID)
	if err != nil {
		s.logger.Error("GetGroup failed", "group_id", req.Msg.GroupID, "error", err)
		return nil, toConnectError(err)
	}

	s.logger.Info("GetGroup successful", "group_id", group.ID, "title", group.Title)

	return connect.NewResponse(&api.GetGroupResponse{Group: group.WithMe(caller(ctx).ID)}), nil
}

// ListGroups retrieves the caller's groups.
func (s *GroupService) ListGroups(ctx context.Context, req *connect.Request[api.ListGroupsRequest]) (*connect.Response[api.ListGroupsResponse], error) {
	userID := caller(ctx).ID
	s.logger.Info("ListGroups request received", "user_id", userID)

	groups, err := s.store.ListGroups(ctx, userID)
	if err != nil {
		s.logger.Error("ListGroups failed", "error", err)
		return nil, toConnectError(err)
	}

	out := make([]models.Group, len(groups))
	for i, g := range groups {
		out[i] = g.WithMe(userID)
	}

	s.logger.Info("ListGroups successful", "count", len(groups))

	return connect.NewResponse(&api.ListGroupsResponse{Groups: out}), nil
}

// UpdateGroup updates an existing group.
func (s *GroupService) UpdateGroup(ctx context.Context, req *connect.Request[api.UpdateGroupRequest]) (*connect.Response[api.UpdateGroupResponse], error) {
	s.logger.Info("UpdateGroup request received",
		"group_id", req.Msg.GroupID,
		"title", req.Msg.Title,
		"participants_count", len(req.Msg.Participants),
	)

	current, err := memberGroup(ctx, s.store, req.Msg.GroupID)
	if err != nil {
		s.logger.Error("UpdateGroup failed", "group_id", req.Msg.GroupID, "error", err)
		return nil, toConnectError(err)
	}

	me := caller(ctx)
	participants, err := groupParticipants(req.Msg.Participants, me)
	if err != nil {
		return nil, toConnectError(err)
	}

	group := &models.Group{
		ID:           current.ID,
		Title:        strings.TrimSpace(req.Msg.Title),
		ImageURL:     req.Msg.ImageURL,
		Participants: participants,
	}
	if group.Title == "" {
		group.Title = current.Title
	}

	if err := s.store.UpdateGroup(ctx, group); err != nil {
		s.logger.Error("UpdateGroup failed", "error", err)
		return nil, toConnectError(err)
	}

	// Fetch updated group to get CreatedAt and revision
	updated, err := s.store.GetGroup(ctx, group.ID)
	if err != nil {
		s.logger.Error("Failed to fetch updated group", "error", err)
		return nil, toConnectError(err)
	}

	s.logger.Info("Group updated", "group_id", group.ID)

	return connect.NewResponse(&api.UpdateGroupResponse{Group: updated.WithMe(me.ID)}), nil
}

// DeleteGroup removes a group by ID.
func (s *GroupService) DeleteGroup(ctx context.Context, req *connect.Request[api.DeleteGroupRequest]) (*connect.Response[api.DeleteGroupResponse], error) {
	s.logger.Info("DeleteGroup request received", "group_id", req.Msg.GroupID)

	if _, err := memberGroup(ctx, s.store, req.Msg.GroupID); err != nil {
		s.logger.Error("DeleteGroup failed", "group_id", req.Msg.GroupID, "error", err)
		return nil, toConnectError(err)
	}
	if err := s.store.DeleteGroup(ctx, req.Msg.GroupID); err != nil {
		s.logger.Error("DeleteGroup failed", "error", err)
		return nil, toConnectError(err)
	}

	s.logger.Info("Group deleted", "group_id", req.Msg.GroupID)

	return connect.NewResponse(&api.DeleteGroupResponse{}), nil
}

// groupParticipants validates a participant list and links the caller.
// A participant flagged IsMe is linked to the caller; when none is, the
// caller joins as a new participant named after the token.
func groupParticipants(in []models.Participant, me models.User) ([]models.Participant, error) {
	out := make([]models.Participant, 0, len(in)+1)
	seen := make(map[string]bool, len(in))
	linked := false

	for _, p := range in {
		p.Name = strings.TrimSpace(p.Name)
		if p.Name == "" {
			return nil, invalidf("participant name required")
		}
		if p.IsMe {
			p.UserID = me.ID
		}
		if me.ID != "" && p.UserID == me.ID {
			if linked {
				return nil, invalidf("only one participant can be linked to you")
			}
			linked = true
		}
		if p.ID != "" {
			if seen[p.ID] {
				return nil, invalidf("duplicate participant %s", p.ID)
			}
			seen[p.ID] = true
		}
		p.IsMe = false
		out = append(out, p)
	}

	if !linked {
		name := me.Name
		if name == "" {
			name = "Me"
		}
		out = append(out, models.Participant{Name: name, UserID: me.ID})
	}
	return out, nil
}
