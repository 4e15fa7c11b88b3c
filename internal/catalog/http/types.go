package http

import (
	"strconv"

	"github.com/GoSim-25-26J-441/go-shop-backend/internal/auth"
	authdomain "github.com/GoSim-25-26J-441/go-shop-backend/internal/auth/domain"
	"github.com/GoSim-25-26J-441/go-shop-backend/internal/catalog/service"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler struct {
	categories *service.CategoryService
	shops      *service.ShopService
	products   *service.ProductService
	log        *zap.Logger
}

func New(categories *service.CategoryService, shops *service.ShopService, products *service.ProductService, log *zap.Logger) *Handler {
	return &Handler{categories: categories, shops: shops, products: products, log: log}
}

// optionalActor returns the caller when the request carried a valid token.
func optionalActor(c *gin.Context) *authdomain.Actor {
	a, ok := auth.ActorFrom(c)
	if !ok {
		return nil
	}
	return &a
}

func queryFlag(c *gin.Context, key string) bool {
	b, err := strconv.ParseBool(c.Query(key))
	return err == nil && b
}

func queryPage(c *gin.Context) int {
	raw := c.Query("page")
	if raw == "" {
		raw = c.Query("pageNumber")
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 1
	}
	return n
}
