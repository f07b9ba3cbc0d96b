package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Role is the account type. The values match the "type" the session has
// always carried.
type Role string

const (
	RoleEmployee Role = "Employee"
	RoleAdmin    Role = "Admin"
)

// ParseRole converts a raw string to a Role.
func ParseRole(raw string) (Role, error) {
	switch Role(raw) {
	case RoleEmployee, RoleAdmin:
		return Role(raw), nil
	}
	return "", fmt.Errorf("unknown user type %q", raw)
}

// User represents a registered user account.
type User struct {
	// ID is the unique identifier for the user (UUID format).
	ID string

	// Email is the user's email address (unique). Used for login and to
	// stamp the bills the user submits.
	Email string

	Type Role

	// PasswordHash is the bcrypt hash of the user's password.
	PasswordHash string

	// CreatedAt is the Unix timestamp when the user account was created.
	CreatedAt int64
}

// NewUser creates a user with a fresh ID and creation time.
func NewUser(email string, role Role, passwordHash string) *User {
	return &User{
		ID:           uuid.New().String(),
		Email:        email,
		Type:         role,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now().Unix(),
	}
}
