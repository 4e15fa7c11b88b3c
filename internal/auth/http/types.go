package http

import (
	"github.com/GoSim-25-26J-441/go-shop-backend/internal/auth/service"
	"go.uber.org/zap"
)

type Handler struct {
	authService *service.AuthService
	log         *zap.Logger
}

func New(authService *service.AuthService, log *zap.Logger) *Handler {
	return &Handler{
		authService: authService,
		log:         log,
	}
}

type registerBody struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
}

type loginBody struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type refreshBody struct {
	RefreshToken string `json:"refreshToken"`
}

type profileBody struct {
	Name     *string `json:"name"`
	Email    *string `json:"email"`
	Phone    *string `json:"phone"`
	Address  *string `json:"address"`
	Password *string `json:"password"`
}

type createAdminBody struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type updateUserBody struct {
	Name  *string `json:"name"`
	Email *string `json:"email"`
	Role  *string `json:"role"`
}

type roleBody struct {
	Role string `json:"role"`
}
