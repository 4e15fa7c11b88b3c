package policy

import (
	"fmt"
	"net/http"

	"github.com/GoSim-25-26J-441/go-shop-backend/internal/auth"
	"github.com/GoSim-25-26J-441/go-shop-backend/internal/auth/domain"
	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Requests are matched on the route pattern (gin FullPath) and HTTP method.
// Roles inherit: superAdmin > admin > customer.
const rbacModel = `
[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[role_definition]
g = _, _

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = g(r.sub, p.sub) && keyMatch2(r.obj, p.obj) && regexMatch(r.act, p.act)
`

var roleHierarchy = [][]string{
	{domain.RoleAdmin, domain.RoleCustomer},
	{domain.RoleSuperAdmin, domain.RoleAdmin},
}

// DefaultPolicies is the route table for the v1 API.
var DefaultPolicies = [][]string{
	{domain.RoleCustomer, "/api/v1/users/profile", "GET|PUT"},
	{domain.RoleCustomer, "/api/v1/cart", "GET|DELETE"},
	{domain.RoleCustomer, "/api/v1/cart/*", "POST|PUT|DELETE"},
	{domain.RoleCustomer, "/api/v1/orders", "POST"},
	{domain.RoleCustomer, "/api/v1/orders/mine", "GET"},
	{domain.RoleCustomer, "/api/v1/orders/:id", "GET"},
	{domain.RoleCustomer, "/api/v1/notifications", "GET|DELETE"},
	{domain.RoleCustomer, "/api/v1/products/:id/reviews", "POST"},
	{domain.RoleCustomer, "/api/v1/shops", "POST"},
	{domain.RoleCustomer, "/api/v1/shops/mine", "GET"},

	{domain.RoleAdmin, "/api/v1/directory/*", "GET|POST|PUT|DELETE"},
	{domain.RoleAdmin, "/api/v1/users", "GET"},
	{domain.RoleAdmin, "/api/v1/users/admins", "POST"},
	{domain.RoleAdmin, "/api/v1/users/:id", "GET|PUT"},
	{domain.RoleAdmin, "/api/v1/categories", "POST"},
	{domain.RoleAdmin, "/api/v1/categories/:id", "PUT|DELETE"},
	{domain.RoleAdmin, "/api/v1/shops/pending", "GET"},
	{domain.RoleAdmin, "/api/v1/shops/:id/approve", "PUT"},
	{domain.RoleAdmin, "/api/v1/shops/:id/reject", "DELETE"},
	{domain.RoleAdmin, "/api/v1/products", "POST"},
	{domain.RoleAdmin, "/api/v1/products/:id", "PUT|DELETE"},
	{domain.RoleAdmin, "/api/v1/orders", "GET"},
	{domain.RoleAdmin, "/api/v1/orders/:id/status", "PUT"},
	{domain.RoleAdmin, "/api/v1/orders/:id/payment", "PUT"},
	{domain.RoleAdmin, "/api/v1/dashboard/stats", "GET"},
	{domain.RoleAdmin, "/api/v1/dashboard/recent-orders", "GET"},
	{domain.RoleAdmin, "/api/v1/dashboard/low-stock", "GET"},
	{domain.RoleAdmin, "/api/v1/dashboard/revenue", "GET"},
	{domain.RoleAdmin, "/api/v1/uploads", "POST"},
	{domain.RoleAdmin, "/api/v1/quizzes", "POST"},
	{domain.RoleAdmin, "/api/v1/quizzes/:id", "PUT|DELETE"},

	{domain.RoleSuperAdmin, "/api/v1/users/:id/role", "PUT"},
	{domain.RoleSuperAdmin, "/api/v1/users/:id", "DELETE"},
	{domain.RoleSuperAdmin, "/api/v1/products/pending", "GET"},
	{domain.RoleSuperAdmin, "/api/v1/products/:id/approve", "PUT"},
	{domain.RoleSuperAdmin, "/api/v1/products/:id/reject", "DELETE"},
	{domain.RoleSuperAdmin, "/api/v1/dashboard/admin-sales", "GET"},
	{domain.RoleSuperAdmin, "/api/v1/dashboard/pending-approvals", "GET"},
	{domain.RoleSuperAdmin, "/api/v1/dashboard/profit-analysis", "GET"},
	{domain.RoleSuperAdmin, "/api/v1/dashboard/platform-stats", "GET"},
}

// Enforcer decides whether a role may call a route.
type Enforcer struct {
	e   *casbin.Enforcer
	log *zap.Logger
}

// NewEnforcer builds an in-memory casbin enforcer loaded with policies.
func NewEnforcer(policies [][]string, log *zap.Logger) (*Enforcer, error) {
	m, err := model.NewModelFromString(rbacModel)
	if err != nil {
		return nil, fmt.Errorf("casbin model: %w", err)
	}

	e, err := casbin.NewEnforcer(m)
	if err != nil {
		return nil, fmt.Errorf("casbin enforcer: %w", err)
	}

	if _, err := e.AddGroupingPolicies(roleHierarchy); err != nil {
		return nil, fmt.Errorf("role hierarchy: %w", err)
	}
	if _, err := e.AddPolicies(policies); err != nil {
		return nil, fmt.Errorf("policies: %w", err)
	}

	return &Enforcer{e: e, log: log}, nil
}

// Allowed reports whether role may call method on route.
func (en *Enforcer) Allowed(role, route, method string) (bool, error) {
	return en.e.Enforce(role, route, method)
}

// Authorize rejects callers whose role is not allowed on the matched route.
// It must run after RequireAuth.
func (en *Enforcer) Authorize() gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := auth.ActorFrom(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
			return
		}

		allowed, err := en.Allowed(actor.Role, c.FullPath(), c.Request.Method)
		if err != nil {
			en.log.Error("policy evaluation failed", zap.Error(err))
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "authorization failed"})
			return
		}
		if !allowed {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "not authorized"})
			return
		}

		c.Next()
	}
}
