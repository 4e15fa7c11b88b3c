package http

import (
	"errors"
	"net/http"

	"github.com/GoSim-25-26J-441/go-shop-backend/internal/auth"
	"github.com/GoSim-25-26J-441/go-shop-backend/internal/auth/domain"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Register creates a customer account
func (h *Handler) Register(c *gin.Context) {
	var body registerBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	user, pair, err := h.authService.Register(c.Request.Context(), domain.RegisterRequest{
		Name:     body.Name,
		Email:    body.Email,
		Password: body.Password,
		Phone:    body.Phone,
		Address:  body.Address,
	})
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"user": user, "tokens": pair})
}

// Login exchanges credentials for a token pair
func (h *Handler) Login(c *gin.Context) {
	var body loginBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	user, pair, err := h.authService.Login(c.Request.Context(), body.Email, body.Password)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user, "tokens": pair})
}

// Refresh rotates the refresh token
func (h *Handler) Refresh(c *gin.Context) {
	var body refreshBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	pair, err := h.authService.Refresh(c.Request.Context(), body.RefreshToken)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"tokens": pair})
}

// Logout revokes the refresh token
func (h *Handler) Logout(c *gin.Context) {
	var body refreshBody
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
	}

	if err := h.authService.Logout(c.Request.Context(), body.RefreshToken); err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Logged out successfully"})
}

// GetProfile returns the current user's profile
func (h *Handler) GetProfile(c *gin.Context) {
	user, err := h.authService.Profile(c.Request.Context(), auth.UserID(c))
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user})
}

// UpdateProfile applies a partial update to the current user
func (h *Handler) UpdateProfile(c *gin.Context) {
	var body profileBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	user, err := h.authService.UpdateProfile(c.Request.Context(), auth.UserID(c), domain.UpdateProfileRequest{
		Name:     body.Name,
		Email:    body.Email,
		Phone:    body.Phone,
		Address:  body.Address,
		Password: body.Password,
	})
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user})
}

// ListUsers lists the accounts the caller may manage
func (h *Handler) ListUsers(c *gin.Context) {
	actor, _ := auth.ActorFrom(c)

	users, err := h.authService.ListUsers(c.Request.Context(), actor, c.Query("role"))
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"users": users})
}

// GetUser returns one managed account
func (h *Handler) GetUser(c *gin.Context) {
	actor, _ := auth.ActorFrom(c)

	user, err := h.authService.GetUser(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user})
}

// UpdateUser edits a managed account
func (h *Handler) UpdateUser(c *gin.Context) {
	var body updateUserBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	actor, _ := auth.ActorFrom(c)
	user, err := h.authService.UpdateUser(c.Request.Context(), actor, c.Param("id"), domain.UpdateUserRequest{
		Name:  body.Name,
		Email: body.Email,
		Role:  body.Role,
	})
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user})
}

// CreateAdmin creates an admin or superAdmin account
func (h *Handler) CreateAdmin(c *gin.Context) {
	var body createAdminBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	actor, _ := auth.ActorFrom(c)
	user, err := h.authService.CreateAdmin(c.Request.Context(), actor, domain.CreateAdminRequest{
		Name:     body.Name,
		Email:    body.Email,
		Password: body.Password,
		Role:     body.Role,
	})
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"user": user})
}

// UpdateRole changes a user's role
func (h *Handler) UpdateRole(c *gin.Context) {
	var body roleBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	actor, _ := auth.ActorFrom(c)
	user, err := h.authService.UpdateRole(c.Request.Context(), actor, c.Param("id"), body.Role)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user})
}

// DeleteUser removes a user account
func (h *Handler) DeleteUser(c *gin.Context) {
	actor, _ := auth.ActorFrom(c)
	if err := h.authService.DeleteUser(c.Request.Context(), actor, c.Param("id")); err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "User removed"})
}

func (h *Handler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrEmailTaken):
		c.JSON(http.StatusBadRequest, gin.H{"error": "User already exists"})
	case errors.Is(err, domain.ErrInvalidRole):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid role"})
	case errors.Is(err, domain.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
	case errors.Is(err, domain.ErrInvalidToken):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
	case errors.Is(err, domain.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrUserNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
	case errors.Is(err, domain.ErrUserInUse):
		c.JSON(http.StatusConflict, gin.H{"error": "User has orders or products and cannot be deleted"})
	default:
		h.log.Error("auth request failed", zap.String("path", c.FullPath()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
