package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/GoSim-25-26J-441/go-shop-backend/internal/auth"
	"github.com/GoSim-25-26J-441/go-shop-backend/internal/auth/domain"
	"github.com/gin-gonic/gin"
)

const bearerPrefix = "bearer"

// TokenParser validates an access token.
type TokenParser interface {
	Parse(raw string) (domain.Actor, error)
}

// RequireAuth rejects requests without a valid bearer token and stores the
// caller in the context.
func RequireAuth(parser TokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, err := extractBearerToken(c)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing authorization token"})
			return
		}

		actor, err := parser.Parse(raw)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		auth.SetActor(c, actor)
		c.Next()
	}
}

// OptionalAuth stores the caller when a valid token is present and lets
// anonymous requests through. An invalid token is still rejected.
func OptionalAuth(parser TokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, err := extractBearerToken(c)
		if err != nil {
			c.Next()
			return
		}

		actor, err := parser.Parse(raw)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		auth.SetActor(c, actor)
		c.Next()
	}
}

// extractBearerToken extracts the token from the Authorization header
func extractBearerToken(c *gin.Context) (string, error) {
	header := c.GetHeader("Authorization")
	if header == "" {
		return "", errors.New("missing authorization header")
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], bearerPrefix) || strings.TrimSpace(parts[1]) == "" {
		return "", errors.New("invalid authorization format")
	}

	return strings.TrimSpace(parts[1]), nil
}
