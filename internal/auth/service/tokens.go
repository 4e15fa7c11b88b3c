package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/GoSim-25-26J-441/go-shop-backend/internal/auth/domain"
	"github.com/golang-jwt/jwt/v5"
)

const DefaultClockSkew = 5 * time.Second

// Claims are the access-token claims.
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// TokenConfig configures access-token signing and verification.
type TokenConfig struct {
	Secret    []byte
	Issuer    string
	Audience  string
	AccessTTL time.Duration
}

// TokenIssuer signs and verifies HS256 access tokens.
type TokenIssuer struct {
	cfg TokenConfig
	now func() time.Time
}

func NewTokenIssuer(cfg TokenConfig) *TokenIssuer {
	if cfg.AccessTTL == 0 {
		cfg.AccessTTL = 15 * time.Minute
	}
	return &TokenIssuer{cfg: cfg, now: time.Now}
}

// Issue returns a signed access token for u and its expiry.
func (t *TokenIssuer) Issue(u *domain.User) (string, time.Time, error) {
	now := t.now()
	expiresAt := now.Add(t.cfg.AccessTTL)

	claims := Claims{
		Role: u.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    t.cfg.Issuer,
			Subject:   u.ID,
			Audience:  jwt.ClaimStrings{t.cfg.Audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.cfg.Secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, expiresAt, nil
}

// Parse validates a raw access token and returns the caller it identifies.
func (t *TokenIssuer) Parse(raw string) (domain.Actor, error) {
	token, err := jwt.ParseWithClaims(raw, &Claims{}, func(token *jwt.Token) (any, error) {
		return t.cfg.Secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(t.cfg.Issuer),
		jwt.WithAudience(t.cfg.Audience),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(DefaultClockSkew),
		jwt.WithTimeFunc(t.now),
	)
	if err != nil {
		return domain.Actor{}, fmt.Errorf("%w: %v", domain.ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return domain.Actor{}, domain.ErrInvalidToken
	}
	if claims.Subject == "" {
		return domain.Actor{}, fmt.Errorf("%w: missing subject claim", domain.ErrInvalidToken)
	}
	if !domain.ValidRole(claims.Role) {
		return domain.Actor{}, errors.Join(domain.ErrInvalidToken, domain.ErrInvalidRole)
	}

	return domain.Actor{ID: claims.Subject, Role: claims.Role}, nil
}
