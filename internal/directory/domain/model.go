package domain

import (
	"errors"
	"time"
)

var (
	ErrMemberNotFound = errors.New("member not found")
	ErrEmailExists    = errors.New("email already exists")
	ErrNameEmail      = errors.New("name and email are required")
)

// Member is an entry in the admin-managed directory.
type Member struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Role      string    `json:"role"`
	Notes     string    `json:"notes"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// MemberInput is the body of create and update requests. Both are full
// writes: name and email are always required.
type MemberInput struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
	Role  string `json:"role"`
	Notes string `json:"notes"`
}
