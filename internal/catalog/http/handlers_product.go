package http

import (
	"errors"
	"net/http"

	"github.com/GoSim-25-26J-441/go-shop-backend/internal/auth"
	"github.com/GoSim-25-26J-441/go-shop-backend/internal/catalog/domain"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func (h *Handler) ListProducts(c *gin.Context) {
	page, err := h.products.List(c.Request.Context(), optionalActor(c), domain.ProductFilter{
		Keyword:      c.Query("keyword"),
		CategoryID:   c.Query("category"),
		ShopID:       c.Query("shop"),
		Bestseller:   queryFlag(c, "bestseller"),
		NewRelease:   queryFlag(c, "newRelease"),
		SpecialOffer: queryFlag(c, "specialOffer"),
		Page:         queryPage(c),
	})
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *Handler) TopProducts(c *gin.Context) {
	out, err := h.products.Top(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *Handler) GetProduct(c *gin.Context) {
	p, err := h.products.Get(c.Request.Context(), optionalActor(c), c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *Handler) CreateProduct(c *gin.Context) {
	actor, _ := auth.ActorFrom(c)

	var in domain.ProductInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	p, err := h.products.Create(c.Request.Context(), actor, in)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, p)
}

func (h *Handler) UpdateProduct(c *gin.Context) {
	actor, _ := auth.ActorFrom(c)

	var in domain.ProductInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	p, err := h.products.Update(c.Request.Context(), actor, c.Param("id"), in)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *Handler) DeleteProduct(c *gin.Context) {
	if err := h.products.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Product removed"})
}

func (h *Handler) PendingProducts(c *gin.Context) {
	out, err := h.products.Pending(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *Handler) ApproveProduct(c *gin.Context) {
	actor, _ := auth.ActorFrom(c)
	p, err := h.products.Approve(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *Handler) RejectProduct(c *gin.Context) {
	actor, _ := auth.ActorFrom(c)
	if err := h.products.Reject(c.Request.Context(), actor, c.Param("id")); err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Product rejected and removed"})
}

func (h *Handler) CreateReview(c *gin.Context) {
	actor, _ := auth.ActorFrom(c)

	var in domain.ReviewInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if _, err := h.products.AddReview(c.Request.Context(), actor, c.Param("id"), in); err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Review added"})
}

func (h *Handler) ListReviews(c *gin.Context) {
	out, err := h.products.Reviews(c.Request.Context(), optionalActor(c), c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *Handler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrSlugTaken):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Category with this slug already exists"})
	case errors.Is(err, domain.ErrAlreadyReviewed):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Product already reviewed"})
	case errors.Is(err, domain.ErrUserNotFound):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
	case errors.Is(err, domain.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrCategoryNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Category not found"})
	case errors.Is(err, domain.ErrShopNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Shop not found"})
	case errors.Is(err, domain.ErrProductNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
	default:
		h.log.Error("catalog request failed", zap.String("path", c.FullPath()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
