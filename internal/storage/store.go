// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/mmynk/billed/internal/models"
)

// ErrNotFound is returned when a bill or user does not exist.
var ErrNotFound = errors.New("not found")

// BillFilter narrows ListBills. The zero value lists every bill.
type BillFilter struct {
	// Email restricts the result to bills submitted by this address.
	Email string

	// Status restricts the result to a single review state.
	Status models.Status
}

// Store defines the interface for bill storage operations.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL, etc.)
// without changing the service layer.
type Store interface {
	// CreateBill persists a new bill and returns the assigned ID.
	// The bill.ID field will be populated by the store.
	CreateBill(ctx context.Context, bill *models.Bill) error

	// GetBill retrieves a bill by its ID.
	// Returns ErrNotFound if the bill does not exist.
	GetBill(ctx context.Context, billID string) (*models.Bill, error)

	// ListBills returns bills matching filter, most recent expense date first.
	ListBills(ctx context.Context, filter BillFilter) ([]models.Bill, error)

	// UpdateBill updates an existing bill.
	// Returns ErrNotFound if the bill does not exist.
	UpdateBill(ctx context.Context, bill *models.Bill) error

	// DeleteBill removes a bill.
	// Returns ErrNotFound if the bill does not exist.
	DeleteBill(ctx context.Context, billID string) error

	UserStore

	// Close releases any resources held by the store.
	Close() error
}

// UserStore holds account persistence.
type UserStore interface {
	CreateUser(ctx context.Context, user *models.User) error

	// GetUserByEmail returns nil and no error when the user does not exist.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
}
