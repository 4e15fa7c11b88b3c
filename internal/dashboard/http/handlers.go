package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/GoSim-25-26J-441/go-shop-backend/internal/dashboard/domain"
	"github.com/GoSim-25-26J-441/go-shop-backend/internal/dashboard/service"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const maxLimit = 100

type Handler struct {
	svc *service.DashboardService
	log *zap.Logger
}

func New(svc *service.DashboardService, log *zap.Logger) *Handler {
	return &Handler{svc: svc, log: log}
}

func (h *Handler) Register(rg *gin.RouterGroup) {
	d := rg.Group("/dashboard")
	d.GET("/stats", h.Stats)
	d.GET("/recent-orders", h.RecentOrders)
	d.GET("/low-stock", h.LowStock)
	d.GET("/revenue", h.Revenue)
	d.GET("/admin-sales", h.AdminSales)
	d.GET("/pending-approvals", h.PendingApprovals)
	d.GET("/profit-analysis", h.ProfitAnalysis)
	d.GET("/platform-stats", h.PlatformStats)
}

func (h *Handler) Stats(c *gin.Context) {
	stats, err := h.svc.Stats(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (h *Handler) RecentOrders(c *gin.Context) {
	orders, err := h.svc.RecentOrders(c.Request.Context(), queryInt(c, "limit", 5))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

func (h *Handler) LowStock(c *gin.Context) {
	products, err := h.svc.LowStock(c.Request.Context(), queryInt(c, "threshold", 10), queryInt(c, "limit", 5))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, products)
}

func (h *Handler) Revenue(c *gin.Context) {
	points, err := h.svc.Revenue(c.Request.Context(), c.Query("period"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, points)
}

func (h *Handler) AdminSales(c *gin.Context) {
	sales, err := h.svc.AdminSales(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, sales)
}

func (h *Handler) PendingApprovals(c *gin.Context) {
	p, err := h.svc.PendingApprovals(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *Handler) ProfitAnalysis(c *gin.Context) {
	points, err := h.svc.ProfitAnalysis(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, points)
}

func (h *Handler) PlatformStats(c *gin.Context) {
	st, err := h.svc.PlatformStats(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, st)
}

func (h *Handler) writeError(c *gin.Context, err error) {
	if errors.Is(err, domain.ErrInvalidPeriod) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	h.log.Error("dashboard query failed", zap.String("path", c.FullPath()), zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
}

// queryInt reads a positive integer query parameter, falling back to def
// when it is missing or not a positive number.
func queryInt(c *gin.Context, key string, def int) int {
	n, err := strconv.Atoi(c.Query(key))
	if err != nil || n <= 0 {
		return def
	}
	if n > maxLimit {
		return maxLimit
	}
	return n
}
