package policy

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/GoSim-25-26J-441/go-shop-backend/internal/auth"
	"github.com/GoSim-25-26J-441/go-shop-backend/internal/auth/domain"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestEnforcer_Allowed(t *testing.T) {
	en, err := NewEnforcer(DefaultPolicies, zap.NewNop())
	require.NoError(t, err)

	tests := []struct {
		role, route, method string
		want                bool
	}{
		{domain.RoleCustomer, "/api/v1/cart", "GET", true},
		{domain.RoleCustomer, "/api/v1/cart/items/:productId", "PUT", true},
		{domain.RoleCustomer, "/api/v1/orders/:id", "GET", true},
		{domain.RoleCustomer, "/api/v1/orders/:id/status", "PUT", false},
		{domain.RoleCustomer, "/api/v1/directory/members", "GET", false},
		{domain.RoleAdmin, "/api/v1/directory/members/:id", "DELETE", true},
		{domain.RoleAdmin, "/api/v1/cart", "GET", true},
		{domain.RoleAdmin, "/api/v1/products/:id/approve", "PUT", false},
		{domain.RoleAdmin, "/api/v1/dashboard/admin-sales", "GET", false},
		{domain.RoleSuperAdmin, "/api/v1/products/:id/approve", "PUT", true},
		{domain.RoleSuperAdmin, "/api/v1/directory/members", "POST", true},
		{domain.RoleSuperAdmin, "/api/v1/users/:id", "DELETE", true},
		{domain.RoleAdmin, "/api/v1/users/:id", "PUT", true},
		{domain.RoleAdmin, "/api/v1/users/:id", "DELETE", false},
		{domain.RoleCustomer, "/api/v1/users/:id", "GET", false},
		{domain.RoleAdmin, "/api/v1/dashboard/profit-analysis", "GET", false},
		{domain.RoleSuperAdmin, "/api/v1/dashboard/platform-stats", "GET", true},
		{"stranger", "/api/v1/cart", "GET", false},
	}

	for _, tc := range tests {
		t.Run(tc.role+" "+tc.method+" "+tc.route, func(t *testing.T) {
			got, err := en.Allowed(tc.role, tc.route, tc.method)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestEnforcer_Authorize(t *testing.T) {
	gin.SetMode(gin.TestMode)
	en, err := NewEnforcer(DefaultPolicies, zap.NewNop())
	require.NoError(t, err)

	newRouter := func(actor *domain.Actor) *gin.Engine {
		r := gin.New()
		r.Use(func(c *gin.Context) {
			if actor != nil {
				auth.SetActor(c, *actor)
			}
		})
		r.GET("/api/v1/orders", en.Authorize(), func(c *gin.Context) { c.Status(http.StatusOK) })
		return r
	}

	tests := map[string]struct {
		actor *domain.Actor
		want  int
	}{
		"anonymous": {nil, http.StatusUnauthorized},
		"customer":  {&domain.Actor{ID: "c", Role: domain.RoleCustomer}, http.StatusForbidden},
		"admin":     {&domain.Actor{ID: "a", Role: domain.RoleAdmin}, http.StatusOK},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			newRouter(tc.actor).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/v1/orders", nil))
			assert.Equal(t, tc.want, rr.Code)
		})
	}
}
