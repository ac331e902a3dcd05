package domain

import (
	"errors"
	"time"
)

// User represents an account holder known to the identity subsystem.
type User struct {
	ID             string
	Email          string
	Name           string
	HashedPassword string
	Role           Role
	Active         bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Role represents a user's access level
type Role string

const (
	// RoleUser manages their own budget
	RoleUser Role = "user"

	// RoleAdmin marks operator accounts
	RoleAdmin Role = "admin"
)

// IsValid checks if the role is a valid role
func (r Role) IsValid() bool {
	return r == RoleUser || r == RoleAdmin
}

// Authentication errors
var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token has expired")
)
