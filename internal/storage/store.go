// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/mmynk/mintsense/internal/models"
)

var (
	// ErrNotFound indicates that a requested record does not exist.
	ErrNotFound = errors.New("not found")

	// ErrConflict indicates a uniqueness violation, e.g. a duplicate email.
	ErrConflict = errors.New("conflict")

	// ErrParticipantInUse indicates a participant is still referenced by
	// expenses or settlements and cannot be removed.
	ErrParticipantInUse = errors.New("participant is referenced by expenses or settlements")

	// ErrRosterFull indicates a group already has its maximum number of participants.
	ErrRosterFull = errors.New("group has reached its participant limit")
)

// Store defines the interface for all persistence used by the services.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL, etc.)
// without changing the service layer.
type Store interface {
	GroupStore
	ExpenseStore
	SettlementStore
	UserStore

	// Close releases any resources held by the store.
	Close() error
}

// GroupStore persists groups and their participants.
type GroupStore interface {
	// CreateGroup persists a new group together with its initial participants.
	// The group.ID, participant IDs and timestamps are populated by the store.
	CreateGroup(ctx context.Context, group *models.Group) error

	// GetGroup retrieves a group with its participants in roster order.
	GetGroup(ctx context.Context, groupID string) (*models.Group, error)

	// ListGroupsByOwner returns the owner's groups, most recently updated first.
	ListGroupsByOwner(ctx context.Context, ownerID string) ([]*models.Group, error)

	// RenameGroup changes a group's name.
	RenameGroup(ctx context.Context, groupID, name string) error

	// DeleteGroup removes a group and everything in it.
	DeleteGroup(ctx context.Context, groupID string) error

	// AddParticipant appends a participant to a group's roster unless the
	// roster already holds limit participants, in which case it returns
	// ErrRosterFull. The check and the insert are atomic.
	AddParticipant(ctx context.Context, participant *models.Participant, limit int) error

	// UpdateParticipant changes a participant's name, color and avatar.
	UpdateParticipant(ctx context.Context, participant *models.Participant) error

	// DeleteParticipant removes a participant. Returns ErrParticipantInUse
	// if any expense or settlement references them.
	DeleteParticipant(ctx context.Context, groupID, participantID string) error
}

// ExpenseStore persists expenses and their allocated shares.
type ExpenseStore interface {
	// CreateExpense persists a new expense with its shares.
	CreateExpense(ctx context.Context, expense *models.Expense) error

	// GetExpense retrieves an expense within a group.
	GetExpense(ctx context.Context, groupID, expenseID string) (*models.Expense, error)

	// UpdateExpense replaces an expense and its shares.
	UpdateExpense(ctx context.Context, expense *models.Expense) error

	// DeleteExpense removes an expense.
	DeleteExpense(ctx context.Context, groupID, expenseID string) error

	// ListExpenses returns a group's expenses matching filter, newest first.
	ListExpenses(ctx context.Context, groupID string, filter models.ExpenseFilter) ([]*models.Expense, error)
}

// SettlementStore persists recorded payments.
type SettlementStore interface {
	CreateSettlement(ctx context.Context, settlement *models.Settlement) error
	GetSettlement(ctx context.Context, settlementID string) (*models.Settlement, error)
	ListSettlementsByGroup(ctx context.Context, groupID string) ([]*models.Settlement, error)
	DeleteSettlement(ctx context.Context, settlementID string) error
}

// UserStore persists registered users.
type UserStore interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)
}
