package http

import (
	"errors"
	"net/http"

	"github.com/GoSim-25-26J-441/go-shop-backend/internal/auth"
	"github.com/GoSim-25-26J-441/go-shop-backend/internal/cart/domain"
	"github.com/GoSim-25-26J-441/go-shop-backend/internal/cart/service"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler struct {
	svc *service.CartService
	log *zap.Logger
}

func New(svc *service.CartService, log *zap.Logger) *Handler {
	return &Handler{svc: svc, log: log}
}

type addItemRequest struct {
	ProductID string `json:"productId" binding:"required"`
	Quantity  int    `json:"quantity"`
}

type setItemRequest struct {
	Quantity int `json:"quantity"`
}

func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.GET("/cart", h.Get)
	rg.DELETE("/cart", h.Clear)
	rg.POST("/cart/items", h.AddItem)
	rg.PUT("/cart/items/:productId", h.SetItem)
	rg.DELETE("/cart/items/:productId", h.RemoveItem)
}

func (h *Handler) Get(c *gin.Context) {
	cart, err := h.svc.Get(c.Request.Context(), auth.UserID(c))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, cart)
}

func (h *Handler) AddItem(c *gin.Context) {
	var req addItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "productId is required"})
		return
	}

	cart, err := h.svc.Add(c.Request.Context(), auth.UserID(c), req.ProductID, req.Quantity)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, cart)
}

func (h *Handler) SetItem(c *gin.Context) {
	var req setItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	cart, err := h.svc.Set(c.Request.Context(), auth.UserID(c), c.Param("productId"), req.Quantity)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, cart)
}

func (h *Handler) RemoveItem(c *gin.Context) {
	cart, err := h.svc.Remove(c.Request.Context(), auth.UserID(c), c.Param("productId"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, cart)
}

func (h *Handler) Clear(c *gin.Context) {
	if err := h.svc.Clear(c.Request.Context(), auth.UserID(c)); err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Cart cleared"})
}

func (h *Handler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrProductNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
	case errors.Is(err, domain.ErrInvalidQuantity):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		h.log.Error("cart request failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
