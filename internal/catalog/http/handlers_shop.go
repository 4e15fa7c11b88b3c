package http

import (
	"net/http"

	"github.com/GoSim-25-26J-441/go-shop-backend/internal/auth"
	"github.com/GoSim-25-26J-441/go-shop-backend/internal/catalog/domain"
	"github.com/gin-gonic/gin"
)

// ListShops returns approved shops, or the caller's own with owner=me.
func (h *Handler) ListShops(c *gin.Context) {
	if c.Query("owner") == "me" {
		h.MyShops(c)
		return
	}
	out, err := h.shops.ListApproved(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *Handler) MyShops(c *gin.Context) {
	actor, ok := auth.ActorFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}
	out, err := h.shops.Mine(c.Request.Context(), actor)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *Handler) GetShop(c *gin.Context) {
	shop, err := h.shops.Get(c.Request.Context(), optionalActor(c), c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, shop)
}

func (h *Handler) CreateShop(c *gin.Context) {
	actor, _ := auth.ActorFrom(c)

	var in domain.ShopInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	shop, err := h.shops.Create(c.Request.Context(), actor, in)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, shop)
}

func (h *Handler) PendingShops(c *gin.Context) {
	out, err := h.shops.Pending(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *Handler) ApproveShop(c *gin.Context) {
	actor, _ := auth.ActorFrom(c)
	shop, err := h.shops.Approve(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, shop)
}

func (h *Handler) RejectShop(c *gin.Context) {
	actor, _ := auth.ActorFrom(c)
	if err := h.shops.Reject(c.Request.Context(), actor, c.Param("id")); err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Shop rejected and removed"})
}
