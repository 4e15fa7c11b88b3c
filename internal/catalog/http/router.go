package http

import "github.com/gin-gonic/gin"

// RegisterPublic registers read routes. They run behind optional auth so
// admins can see unapproved items.
func (h *Handler) RegisterPublic(rg *gin.RouterGroup) {
	rg.GET("/categories", h.ListCategories)
	rg.GET("/categories/featured", h.FeaturedCategories)
	rg.GET("/categories/slug/:slug", h.GetCategoryBySlug)
	rg.GET("/categories/:id", h.GetCategory)

	rg.GET("/shops", h.ListShops)
	rg.GET("/shops/:id", h.GetShop)

	rg.GET("/products", h.ListProducts)
	rg.GET("/products/top", h.TopProducts)
	rg.GET("/products/:id", h.GetProduct)
	rg.GET("/products/:id/reviews", h.ListReviews)
}

func (h *Handler) RegisterProtected(rg *gin.RouterGroup) {
	rg.POST("/categories", h.CreateCategory)
	rg.PUT("/categories/:id", h.UpdateCategory)
	rg.DELETE("/categories/:id", h.DeleteCategory)

	rg.POST("/shops", h.CreateShop)
	rg.GET("/shops/mine", h.MyShops)
	rg.GET("/shops/pending", h.PendingShops)
	rg.PUT("/shops/:id/approve", h.ApproveShop)
	rg.DELETE("/shops/:id/reject", h.RejectShop)

	rg.POST("/products", h.CreateProduct)
	rg.GET("/products/pending", h.PendingProducts)
	rg.PUT("/products/:id", h.UpdateProduct)
	rg.DELETE("/products/:id", h.DeleteProduct)
	rg.PUT("/products/:id/approve", h.ApproveProduct)
	rg.DELETE("/products/:id/reject", h.RejectProduct)
	rg.POST("/products/:id/reviews", h.CreateReview)
}
