package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"connectrpc.com/connect"
	"google.golang.org/protobuf/types/known/emptypb"

	"github.com/mmynk/wildpay/internal/auth"
	"github.com/mmynk/wildpay/internal/middleware"
	"github.com/mmynk/wildpay/internal/models"
	"github.com/mmynk/wildpay/internal/storage"
	"github.com/mmynk/wildpay/pkg/api"
)

var errNameRequired = errors.New("group name required")

// GroupService implements the Connect GroupService.
type GroupService struct {
	store storage.Store
}

var _ api.GroupServiceHandler = (*GroupService)(nil)

// NewGroupService creates a new GroupService with the given storage backend.
func NewGroupService(store storage.Store) *GroupService {
	return &GroupService{store: store}
}

// CreateGroup creates a group whose only member is the caller.
func (s *GroupService) CreateGroup(ctx context.Context, req *connect.Request[api.CreateGroupRequest]) (*connect.Response[api.CreateGroupResponse], error) {
	userID := middleware.GetUserID(ctx)
	slog.Info("CreateGroup request received", "name", req.Msg.Name, "user_id", userID)

	if userID == "" {
		return nil, connect.NewError(connect.CodeUnauthenticated, auth.ErrMissingToken)
	}
	name := strings.TrimSpace(req.Msg.Name)
	if name == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, errNameRequired)
	}

	creator, err := s.store.GetUserByID(ctx, userID)
	if err != nil {
		slog.Error("CreateGroup failed - creator lookup", "user_id", userID, "error", err)
		return nil, storageError(err)
	}

	group := &models.Group{
		Name:    name,
		Image:   strings.TrimSpace(req.Msg.Image),
		Members: []models.Member{creator.AsMember()},
	}
	if err := s.store.CreateGroup(ctx, group); err != nil {
		slog.Error("CreateGroup failed", "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	slog.Info("Group created", "group_id", group.ID)
	return connect.NewResponse(&api.CreateGroupResponse{Group: toAPIGroup(group)}), nil
}

// GetGroup returns a group the caller belongs to.
func (s *GroupService) GetGroup(ctx context.Context, req *connect.Request[api.GetGroupRequest]) (*connect.Response[api.GetGroupResponse], error) {
	slog.Info("GetGroup request received", "group_id", req.Msg.GroupID)

	group, err := authorizeGroup(ctx, s.store, req.Msg.GroupID)
	if err != nil {
		return nil, err
	}

	return connect.NewResponse(&api.GetGroupResponse{Group: toAPIGroup(group)}), nil
}

// ListGroups returns the caller's groups, newest first.
func (s *GroupService) ListGroups(ctx context.Context, _ *connect.Request[emptypb.Empty]) (*connect.Response[api.ListGroupsResponse], error) {
	userID := middleware.GetUserID(ctx)
	slog.Info("ListGroups request received", "user_id", userID)

	if userID == "" {
		return nil, connect.NewError(connect.CodeUnauthenticated, auth.ErrMissingToken)
	}

	groups, err := s.store.ListGroupsForUser(ctx, userID)
	if err != nil {
		slog.Error("ListGroups failed", "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	out := make([]*api.Group, len(groups))
	for i, group := range groups {
		out[i] = toAPIGroup(group)
	}

	slog.Info("ListGroups successful", "count", len(groups))
	return connect.NewResponse(&api.ListGroupsResponse{Groups: out}), nil
}

// UpdateGroup renames a group or changes its image.
func (s *GroupService) UpdateGroup(ctx context.Context, req *connect.Request[api.UpdateGroupRequest]) (*connect.Response[api.UpdateGroupResponse], error) {
	slog.Info("UpdateGroup request received", "group_id", req.Msg.GroupID, "name", req.Msg.Name)

	group, err := authorizeGroup(ctx, s.store, req.Msg.GroupID)
	if err != nil {
		return nil, err
	}
	name := strings.TrimSpace(req.Msg.Name)
	if name == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, errNameRequired)
	}

	group.Name = name
	group.Image = strings.TrimSpace(req.Msg.Image)
	if err := s.store.UpdateGroup(ctx, group); err != nil {
		slog.Error("UpdateGroup failed", "group_id", group.ID, "error", err)
		return nil, storageError(err)
	}

	slog.Info("Group updated", "group_id", group.ID)
	return connect.NewResponse(&api.UpdateGroupResponse{Group: toAPIGroup(group)}), nil
}

// AddMember adds a registered user, found by email, to the group.
func (s *GroupService) AddMember(ctx context.Context, req *connect.Request[api.AddMemberRequest]) (*connect.Response[api.AddMemberResponse], error) {
	slog.Info("AddMember request received", "group_id", req.Msg.GroupID)

	group, err := authorizeGroup(ctx, s.store, req.Msg.GroupID)
	if err != nil {
		return nil, err
	}

	user, err := s.store.GetUserByEmail(ctx, auth.NormalizeEmail(req.Msg.Email))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, connect.NewError(connect.CodeNotFound, fmt.Errorf("no user registered with email %q", req.Msg.Email))
		}
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	if err := s.store.AddGroupMember(ctx, group.ID, user.ID); err != nil {
		if errors.Is(err, storage.ErrAlreadyMember) {
			return nil, connect.NewError(connect.CodeAlreadyExists, fmt.Errorf("%s is already a member of this group", user.DisplayName))
		}
		slog.Error("AddMember failed", "group_id", group.ID, "error", err)
		return nil, storageError(err)
	}
	group.Members = append(group.Members, user.AsMember())

	slog.Info("Member added", "group_id", group.ID, "member_id", user.ID)
	return connect.NewResponse(&api.AddMemberResponse{Group: toAPIGroup(group)}), nil
}

// RemoveMember removes a member. Their past expenditures stay in the group.
func (s *GroupService) RemoveMember(ctx context.Context, req *connect.Request[api.RemoveMemberRequest]) (*connect.Response[api.RemoveMemberResponse], error) {
	slog.Info("RemoveMember request received", "group_id", req.Msg.GroupID, "member_id", req.Msg.UserID)

	group, err := authorizeGroup(ctx, s.store, req.Msg.GroupID)
	if err != nil {
		return nil, err
	}
	if !group.HasMember(req.Msg.UserID) {
		return nil, connect.NewError(connect.CodeNotFound, fmt.Errorf("user %s is not a member of this group", req.Msg.UserID))
	}

	if err := s.store.RemoveGroupMember(ctx, group.ID, req.Msg.UserID); err != nil {
		slog.Error("RemoveMember failed", "group_id", group.ID, "error", err)
		return nil, storageError(err)
	}

	remaining := make([]models.Member, 0, len(group.Members)-1)
	for _, m := range group.Members {
		if m.ID != req.Msg.UserID {
			remaining = append(remaining, m)
		}
	}
	group.Members = remaining

	slog.Info("Member removed", "group_id", group.ID, "member_id", req.Msg.UserID)
	return connect.NewResponse(&api.RemoveMemberResponse{Group: toAPIGroup(group)}), nil
}

// DeleteGroup removes a group and all of its expenditures.
func (s *GroupService) DeleteGroup(ctx context.Context, req *connect.Request[api.DeleteGroupRequest]) (*connect.Response[emptypb.Empty], error) {
	slog.Info("DeleteGroup request received", "group_id", req.Msg.GroupID)

	group, err := authorizeGroup(ctx, s.store, req.Msg.GroupID)
	if err != nil {
		return nil, err
	}

	if err := s.store.DeleteGroup(ctx, group.ID); err != nil {
		slog.Error("DeleteGroup failed", "group_id", group.ID, "error", err)
		return nil, storageError(err)
	}

	slog.Info("Group deleted", "group_id", group.ID)
	return connect.NewResponse(&emptypb.Empty{}), nil
}
