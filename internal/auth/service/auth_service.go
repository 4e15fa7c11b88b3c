package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/GoSim-25-26J-441/go-shop-backend/internal/auth/domain"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const minPasswordLen = 6

// UserRepository is the persistence the auth service needs.
type UserRepository interface {
	Create(ctx context.Context, u *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Update(ctx context.Context, u *domain.User) error
	List(ctx context.Context, f domain.ListFilter) ([]domain.User, error)
	Delete(ctx context.Context, id string) error
}

// RefreshTokens stores opaque refresh tokens.
type RefreshTokens interface {
	Save(ctx context.Context, token, userID string, ttl time.Duration) error
	Consume(ctx context.Context, token string) (string, error)
	Revoke(ctx context.Context, token string) error
	RevokeAll(ctx context.Context, userID string) error
}

type AuthService struct {
	users      UserRepository
	refresh    RefreshTokens
	tokens     *TokenIssuer
	refreshTTL time.Duration
	log        *zap.Logger
	bcryptCost int
}

func NewAuthService(users UserRepository, refresh RefreshTokens, tokens *TokenIssuer, refreshTTL time.Duration, log *zap.Logger) *AuthService {
	if refreshTTL == 0 {
		refreshTTL = 7 * 24 * time.Hour
	}
	return &AuthService{
		users:      users,
		refresh:    refresh,
		tokens:     tokens,
		refreshTTL: refreshTTL,
		log:        log,
		bcryptCost: bcrypt.DefaultCost,
	}
}

// Register creates a customer account and signs it in.
func (s *AuthService) Register(ctx context.Context, req domain.RegisterRequest) (*domain.User, *domain.TokenPair, error) {
	name := strings.TrimSpace(req.Name)
	email := normalizeEmail(req.Email)
	if name == "" || email == "" {
		return nil, nil, fmt.Errorf("%w: name and email are required", domain.ErrValidation)
	}
	if err := validateEmail(email); err != nil {
		return nil, nil, err
	}

	hash, err := s.hashPassword(req.Password)
	if err != nil {
		return nil, nil, err
	}

	u := &domain.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         domain.RoleCustomer,
		Phone:        strings.TrimSpace(req.Phone),
		Address:      strings.TrimSpace(req.Address),
	}
	if err := s.users.Create(ctx, u); err != nil {
		return nil, nil, err
	}

	pair, err := s.issuePair(ctx, u)
	if err != nil {
		return nil, nil, err
	}

	s.log.Info("user registered", zap.String("user_id", u.ID))
	return u, pair, nil
}

// Login checks credentials and issues a new token pair.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.User, *domain.TokenPair, error) {
	u, err := s.users.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, nil, domain.ErrInvalidCredentials
		}
		return nil, nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, nil, domain.ErrInvalidCredentials
	}

	pair, err := s.issuePair(ctx, u)
	if err != nil {
		return nil, nil, err
	}
	return u, pair, nil
}

// Refresh rotates a refresh token: the old one is consumed and a new pair issued.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*domain.TokenPair, error) {
	if strings.TrimSpace(refreshToken) == "" {
		return nil, domain.ErrInvalidToken
	}

	userID, err := s.refresh.Consume(ctx, refreshToken)
	if err != nil {
		return nil, err
	}

	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidToken
		}
		return nil, err
	}

	return s.issuePair(ctx, u)
}

// Logout revokes refreshToken; an unknown token is not an error.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	if strings.TrimSpace(refreshToken) == "" {
		return nil
	}
	return s.refresh.Revoke(ctx, refreshToken)
}

// Profile returns the user with the given ID
func (s *AuthService) Profile(ctx context.Context, userID string) (*domain.User, error) {
	return s.users.GetByID(ctx, userID)
}

// UpdateProfile applies a partial update to the caller's own account.
func (s *AuthService) UpdateProfile(ctx context.Context, userID string, req domain.UpdateProfileRequest) (*domain.User, error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		if name := strings.TrimSpace(*req.Name); name != "" {
			u.Name = name
		}
	}
	if req.Email != nil {
		if email := normalizeEmail(*req.Email); email != "" {
			if err := validateEmail(email); err != nil {
				return nil, err
			}
			u.Email = email
		}
	}
	if req.Phone != nil {
		u.Phone = strings.TrimSpace(*req.Phone)
	}
	if req.Address != nil {
		u.Address = strings.TrimSpace(*req.Address)
	}
	if req.Password != nil && *req.Password != "" {
		hash, err := s.hashPassword(*req.Password)
		if err != nil {
			return nil, err
		}
		u.PasswordHash = hash
	}

	if err := s.users.Update(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// ListUsers returns the users actor may manage. Admins see customers only;
// a superAdmin sees everyone but themselves, optionally narrowed by role.
func (s *AuthService) ListUsers(ctx context.Context, actor domain.Actor, role string) ([]domain.User, error) {
	var f domain.ListFilter
	switch actor.Role {
	case domain.RoleAdmin:
		f.Roles = []string{domain.RoleCustomer}
	case domain.RoleSuperAdmin:
		f.ExcludeID = actor.ID
		if role != "" {
			if !domain.ValidRole(role) {
				return nil, domain.ErrInvalidRole
			}
			f.Roles = []string{role}
		}
	default:
		return nil, domain.ErrForbidden
	}
	return s.users.List(ctx, f)
}

// GetUser returns a single account the actor may manage.
func (s *AuthService) GetUser(ctx context.Context, actor domain.Actor, userID string) (*domain.User, error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !actor.CanManage(u) {
		return nil, domain.ErrForbidden
	}
	return u, nil
}

// UpdateUser edits another account's name and email. A superAdmin may also
// change the role, but never demote themselves.
func (s *AuthService) UpdateUser(ctx context.Context, actor domain.Actor, userID string, req domain.UpdateUserRequest) (*domain.User, error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !actor.CanManage(u) {
		return nil, domain.ErrForbidden
	}

	if req.Name != nil {
		if name := strings.TrimSpace(*req.Name); name != "" {
			u.Name = name
		}
	}
	if req.Email != nil {
		if email := normalizeEmail(*req.Email); email != "" {
			if err := validateEmail(email); err != nil {
				return nil, err
			}
			u.Email = email
		}
	}

	roleChanged := false
	if req.Role != nil && *req.Role != "" && *req.Role != u.Role {
		if actor.Role != domain.RoleSuperAdmin {
			return nil, fmt.Errorf("%w: only a superAdmin may change roles", domain.ErrForbidden)
		}
		if !domain.ValidRole(*req.Role) {
			return nil, domain.ErrInvalidRole
		}
		if actor.ID == u.ID {
			return nil, fmt.Errorf("%w: cannot demote yourself", domain.ErrForbidden)
		}
		u.Role = *req.Role
		roleChanged = true
	}

	if err := s.users.Update(ctx, u); err != nil {
		return nil, err
	}

	if roleChanged {
		if err := s.refresh.RevokeAll(ctx, u.ID); err != nil {
			s.log.Warn("revoke tokens after role change", zap.String("user_id", u.ID), zap.Error(err))
		}
		s.log.Info("user role changed",
			zap.String("user_id", u.ID),
			zap.String("role", u.Role),
			zap.String("changed_by", actor.ID),
		)
	}
	return u, nil
}

// CreateAdmin creates an admin or superAdmin account. Only a superAdmin may
// create another superAdmin.
func (s *AuthService) CreateAdmin(ctx context.Context, actor domain.Actor, req domain.CreateAdminRequest) (*domain.User, error) {
	if req.Role != domain.RoleAdmin && req.Role != domain.RoleSuperAdmin {
		return nil, domain.ErrInvalidRole
	}
	if req.Role == domain.RoleSuperAdmin && actor.Role != domain.RoleSuperAdmin {
		return nil, domain.ErrForbidden
	}
	if !actor.IsAdmin() {
		return nil, domain.ErrForbidden
	}

	name := strings.TrimSpace(req.Name)
	email := normalizeEmail(req.Email)
	if name == "" || email == "" {
		return nil, fmt.Errorf("%w: name and email are required", domain.ErrValidation)
	}
	if err := validateEmail(email); err != nil {
		return nil, err
	}

	hash, err := s.hashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	u := &domain.User{Name: name, Email: email, PasswordHash: hash, Role: req.Role}
	if err := s.users.Create(ctx, u); err != nil {
		return nil, err
	}

	s.log.Info("admin account created",
		zap.String("user_id", u.ID),
		zap.String("role", u.Role),
		zap.String("created_by", actor.ID),
	)
	return u, nil
}

// UpdateRole changes a user's role. A superAdmin cannot demote themselves.
func (s *AuthService) UpdateRole(ctx context.Context, actor domain.Actor, userID, role string) (*domain.User, error) {
	if !domain.ValidRole(role) {
		return nil, domain.ErrInvalidRole
	}
	if actor.Role != domain.RoleSuperAdmin {
		return nil, domain.ErrForbidden
	}
	if actor.ID == userID && role != domain.RoleSuperAdmin {
		return nil, fmt.Errorf("%w: cannot demote yourself", domain.ErrForbidden)
	}

	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	u.Role = role
	if err := s.users.Update(ctx, u); err != nil {
		return nil, err
	}

	// Outstanding refresh tokens would keep minting tokens with the old role.
	if err := s.refresh.RevokeAll(ctx, u.ID); err != nil {
		s.log.Warn("revoke tokens after role change", zap.String("user_id", u.ID), zap.Error(err))
	}
	return u, nil
}

// DeleteUser removes a user account; a superAdmin cannot delete themselves.
func (s *AuthService) DeleteUser(ctx context.Context, actor domain.Actor, userID string) error {
	if actor.Role != domain.RoleSuperAdmin {
		return domain.ErrForbidden
	}
	if actor.ID == userID {
		return fmt.Errorf("%w: cannot delete yourself", domain.ErrForbidden)
	}
	if err := s.users.Delete(ctx, userID); err != nil {
		return err
	}
	if err := s.refresh.RevokeAll(ctx, userID); err != nil {
		s.log.Warn("revoke tokens after delete", zap.String("user_id", userID), zap.Error(err))
	}
	return nil
}

func (s *AuthService) issuePair(ctx context.Context, u *domain.User) (*domain.TokenPair, error) {
	access, expiresAt, err := s.tokens.Issue(u)
	if err != nil {
		return nil, err
	}

	refresh := uuid.NewString()
	if err := s.refresh.Save(ctx, refresh, u.ID, s.refreshTTL); err != nil {
		return nil, err
	}

	return &domain.TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    "Bearer",
		ExpiresAt:    expiresAt,
	}, nil
}

func (s *AuthService) hashPassword(pw string) (string, error) {
	if len(pw) < minPasswordLen {
		return "", fmt.Errorf("%w: password must be at least %d characters", domain.ErrValidation, minPasswordLen)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(pw), s.bcryptCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validateEmail(email string) error {
	if _, err := mail.ParseAddress(email); err != nil {
		return fmt.Errorf("%w: invalid email", domain.ErrValidation)
	}
	return nil
}
