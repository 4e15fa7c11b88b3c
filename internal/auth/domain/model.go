package domain

import (
	"errors"
	"time"
)

// Roles, lowest privilege first.
const (
	RoleCustomer   = "customer"
	RoleAdmin      = "admin"
	RoleSuperAdmin = "superAdmin"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrUserInUse          = errors.New("user has orders or listed products")
	ErrEmailTaken         = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrInvalidRole        = errors.New("invalid role")
	ErrForbidden          = errors.New("not allowed")
	ErrValidation         = errors.New("validation failed")
)

// User is an account that can sign in.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	Phone        string    `json:"phone"`
	Address      string    `json:"address"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Actor is the authenticated caller of a request.
type Actor struct {
	ID   string
	Role string
}

// IsAdmin reports whether the actor has admin rights (admin or superAdmin).
func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin || a.Role == RoleSuperAdmin
}

// TokenPair is returned on register, login and refresh.
type TokenPair struct {
	AccessToken  string    `json:"accessToken"`
	RefreshToken string    `json:"refreshToken"`
	TokenType    string    `json:"tokenType"`
	ExpiresAt    time.Time `json:"expiresAt"`
}

type RegisterRequest struct {
	Name     string
	Email    string
	Password string
	Phone    string
	Address  string
}

type CreateAdminRequest struct {
	Name     string
	Email    string
	Password string
	Role     string
}

// UpdateProfileRequest carries a partial profile update; nil fields are left as is.
type UpdateProfileRequest struct {
	Name     *string
	Email    *string
	Phone    *string
	Address  *string
	Password *string
}

// UpdateUserRequest is an admin edit of another account. Role is honoured
// only for a superAdmin caller.
type UpdateUserRequest struct {
	Name  *string
	Email *string
	Role  *string
}

// ListFilter restricts a user listing.
type ListFilter struct {
	Roles     []string
	ExcludeID string
}

// CanManage reports whether the actor may view or edit u. Admins manage
// customers only; a superAdmin manages every account.
func (a Actor) CanManage(u *User) bool {
	switch a.Role {
	case RoleSuperAdmin:
		return true
	case RoleAdmin:
		return u.Role == RoleCustomer
	}
	return false
}

// ValidRole reports whether r is one of the known roles.
func ValidRole(r string) bool {
	return r == RoleCustomer || r == RoleAdmin || r == RoleSuperAdmin
}
