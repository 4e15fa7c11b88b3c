package auth

import (
	"strings"

	"github.com/GoSim-25-26J-441/go-shop-backend/internal/auth/domain"
	"github.com/gin-gonic/gin"
)

const (
	CtxUserID = "user_id"
	CtxRole   = "role"
)

// SetActor stores the authenticated caller in the Gin context.
func SetActor(c *gin.Context, a domain.Actor) {
	c.Set(CtxUserID, a.ID)
	c.Set(CtxRole, a.Role)
}

// ActorFrom returns the caller stored by the auth middleware.
// ok is false for anonymous requests.
func ActorFrom(c *gin.Context) (domain.Actor, bool) {
	id := strings.TrimSpace(c.GetString(CtxUserID))
	if id == "" {
		return domain.Actor{}, false
	}
	return domain.Actor{ID: id, Role: c.GetString(CtxRole)}, true
}

// UserID extracts the caller's user ID from the Gin context
func UserID(c *gin.Context) string {
	return strings.TrimSpace(c.GetString(CtxUserID))
}
