// Package service implements the WildPay Connect services on top of storage
// and the settlement calculator.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/mmynk/wildpay/internal/access"
	"github.com/mmynk/wildpay/internal/events"
	"github.com/mmynk/wildpay/internal/middleware"
	"github.com/mmynk/wildpay/internal/models"
	"github.com/mmynk/wildpay/internal/storage"
)

var errGroupIDRequired = errors.New("group_id required")

// storageError maps storage sentinels onto Connect codes.
func storageError(err error) *connect.Error {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return connect.NewError(connect.CodeNotFound, err)
	case errors.Is(err, storage.ErrAlreadyMember), errors.Is(err, storage.ErrDuplicateEmail), errors.Is(err, storage.ErrDuplicateUser):
		return connect.NewError(connect.CodeAlreadyExists, err)
	default:
		return connect.NewError(connect.CodeInternal, err)
	}
}

// authorizeGroup loads a group and checks the caller may act on it.
func authorizeGroup(ctx context.Context, groups storage.GroupStore, groupID string) (*models.Group, error) {
	if groupID == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, errGroupIDRequired)
	}

	group, err := groups.GetGroup(ctx, groupID)
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		return nil, connect.NewError(connect.CodeInternal, fmt.Errorf("load group: %w", err))
	}
	return group, checkAccess(ctx, group)
}

// checkAccess applies the membership check to an already loaded group.
// group may be nil when it does not exist.
func checkAccess(ctx context.Context, group *models.Group) error {
	userID := middleware.GetUserID(ctx)
	result := access.CheckGroupRequest(group, userID)
	if result.Allowed() {
		return nil
	}

	groupID := ""
	if group != nil {
		groupID = group.ID
	}
	slog.WarnContext(ctx, "Group access denied",
		"group_id", groupID,
		"user_id", userID,
		"reason", result.String(),
	)
	return connect.NewError(result.Code(), errors.New(result.Message()))
}

// publish sends an event and only logs failures; the write it describes has already happened.
func publish(ctx context.Context, publisher events.Publisher, event events.Event) {
	if err := publisher.Publish(ctx, event); err != nil {
		slog.WarnContext(ctx, "Failed to publish event",
			"type", event.Type,
			"group_id", event.GroupID,
			"error", err,
		)
	}
}

func orNoop(p events.Publisher) events.Publisher {
	if p == nil {
		return events.Noop{}
	}
	return p
}
