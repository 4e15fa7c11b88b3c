package http

import "github.com/gin-gonic/gin"

// RegisterPublic registers the unauthenticated /auth routes.
func (h *Handler) RegisterPublic(rg *gin.RouterGroup) {
	rg.POST("/auth/register", h.Register)
	rg.POST("/auth/login", h.Login)
	rg.POST("/auth/refresh", h.Refresh)
	rg.POST("/auth/logout", h.Logout)
}

// RegisterProtected registers routes that need an authenticated caller.
func (h *Handler) RegisterProtected(rg *gin.RouterGroup) {
	rg.GET("/users/profile", h.GetProfile)
	rg.PUT("/users/profile", h.UpdateProfile)
	rg.GET("/users", h.ListUsers)
	rg.POST("/users/admins", h.CreateAdmin)
	rg.GET("/users/:id", h.GetUser)
	rg.PUT("/users/:id", h.UpdateUser)
	rg.PUT("/users/:id/role", h.UpdateRole)
	rg.DELETE("/users/:id", h.DeleteUser)
}
