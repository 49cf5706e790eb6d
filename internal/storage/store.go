// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"
	"strings"

	"github.com/mmynk/wildpay/internal/models"
)

var (
	// ErrNotFound is returned when a requested record does not exist.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyMember is returned when adding a user who already belongs to the group.
	ErrAlreadyMember = errors.New("user is already a member of the group")
	// ErrDuplicateEmail is returned when creating a user whose email is taken.
	ErrDuplicateEmail = errors.New("email already registered")
	// ErrDuplicateUser is returned when creating a user whose ID is taken.
	ErrDuplicateUser = errors.New("user already exists")
)

// NormalizeEmail lowercases and trims an address. Stores save and look up
// emails in this form so lookups are case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// GroupStore persists groups and their membership.
type GroupStore interface {
	// CreateGroup persists a new group together with its initial members.
	// The group.ID and group.CreatedAt fields are populated by the store.
	CreateGroup(ctx context.Context, group *models.Group) error

	// GetGroup retrieves a group with its members in join order.
	// Expenditures are not loaded. Returns ErrNotFound if missing.
	GetGroup(ctx context.Context, groupID string) (*models.Group, error)

	// ListGroupsForUser returns every group the user belongs to, newest first.
	ListGroupsForUser(ctx context.Context, userID string) ([]*models.Group, error)

	// UpdateGroup changes a group's name and image.
	UpdateGroup(ctx context.Context, group *models.Group) error

	// DeleteGroup removes a group, its membership and its expenditures.
	DeleteGroup(ctx context.Context, groupID string) error

	// AddGroupMember adds a user to a group.
	// Returns ErrAlreadyMember if the user already belongs to it.
	AddGroupMember(ctx context.Context, groupID, userID string) error

	// RemoveGroupMember removes a user from a group.
	// Their past expenditures are kept.
	RemoveGroupMember(ctx context.Context, groupID, userID string) error

	// ListGroupMembers returns the members of a group in join order.
	ListGroupMembers(ctx context.Context, groupID string) ([]models.Member, error)
}

// ExpenditureStore persists expenditures.
type ExpenditureStore interface {
	// CreateExpenditure persists a new expenditure.
	// The ID and CreatedAt fields are populated by the store.
	CreateExpenditure(ctx context.Context, exp *models.Expenditure) error

	// GetExpenditure retrieves one expenditure. Returns ErrNotFound if missing.
	GetExpenditure(ctx context.Context, expenditureID string) (*models.Expenditure, error)

	// ListExpendituresByGroup returns a group's expenditures, oldest first.
	ListExpendituresByGroup(ctx context.Context, groupID string) ([]models.Expenditure, error)

	// UpdateExpenditure replaces title, amount, payer and contributors.
	UpdateExpenditure(ctx context.Context, exp *models.Expenditure) error

	// DeleteExpenditure removes an expenditure. Returns ErrNotFound if missing.
	DeleteExpenditure(ctx context.Context, expenditureID string) error
}

// UserStore persists user accounts.
type UserStore interface {
	// CreateUser stores user with its email normalized.
	// Returns ErrDuplicateEmail or ErrDuplicateUser on a collision.
	CreateUser(ctx context.Context, user *models.User) error
	// GetUserByEmail returns ErrNotFound if no user has that email.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	// GetUserByID returns ErrNotFound if the user does not exist.
	GetUserByID(ctx context.Context, id string) (*models.User, error)
}

// Store defines every storage operation the services need.
// This abstraction allows swapping storage backends (SQLite, in-memory)
// without changing the service layer.
type Store interface {
	GroupStore
	ExpenditureStore
	UserStore

	// Close releases any resources held by the store.
	Close() error
}
