// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/mmynk/wesplit/internal/models"
)

var (
	// ErrNotFound is returned when the requested record does not exist.
	ErrNotFound = errors.New("not found")

	// ErrParticipantInUse is returned when removing a participant that still
	// pays for or shares in an expense.
	ErrParticipantInUse = errors.New("participant is referenced by expenses")
)

// Store defines the interface for WeSplit storage operations.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL)
// without changing the service layer.
type Store interface {
	// CreateGroup persists a new group with its participants.
	// Missing group and participant IDs are generated by the store.
	CreateGroup(ctx context.Context, group *models.Group) error

	// GetGroup retrieves a group with its participants in order.
	GetGroup(ctx context.Context, groupID string) (*models.Group, error)

	// ListGroups returns the groups having a participant linked to userID,
	// newest first.
	ListGroups(ctx context.Context, userID string) ([]*models.Group, error)

	// UpdateGroup replaces the title, image and participant list of a group.
	// Removing a participant referenced by an expense fails with ErrParticipantInUse.
	// A successful update bumps the group revision.
	UpdateGroup(ctx context.Context, group *models.Group) error

	// DeleteGroup removes a group and all of its expenses.
	DeleteGroup(ctx context.Context, groupID string) error

	// CreateExpense persists a new expense and bumps the group revision.
	CreateExpense(ctx context.Context, expense *models.Expense) error

	// GetExpense retrieves an expense with its shares.
	GetExpense(ctx context.Context, expenseID string) (*models.Expense, error)

	// ListExpenses returns the expenses of a group, most recent first.
	// An empty status returns expenses of any status.
	ListExpenses(ctx context.Context, groupID string, status models.ExpenseStatus) ([]*models.Expense, error)

	// UpdateExpense replaces an expense and its shares and bumps the group revision.
	UpdateExpense(ctx context.Context, expense *models.Expense) error

	// DeleteExpense removes an expense and bumps the group revision.
	DeleteExpense(ctx context.Context, expenseID string) error

	// SettleExpenses marks every NEW expense of the group SETTLED and
	// returns how many were changed.
	SettleExpenses(ctx context.Context, groupID string) (int, error)

	// SaveFxRates stores a new exchange rate snapshot.
	SaveFxRates(ctx context.Context, rates models.FxRates) error

	// LatestFxRates returns the most recent snapshot.
	LatestFxRates(ctx context.Context) (*models.FxRates, error)

	// UpsertUser creates the user or refreshes its name and email.
	UpsertUser(ctx context.Context, user *models.User) error

	// GetUser retrieves a user by ID.
	GetUser(ctx context.Context, userID string) (*models.User, error)

	// SetLastUsedCurrency records the display currency picked by the user.
	SetLastUsedCurrency(ctx context.Context, userID, currency string) error

	// Close releases any resources held by the store.
	Close() error
}
