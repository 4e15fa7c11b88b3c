package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/GoSim-25-26J-441/go-shop-backend/internal/auth"
	"github.com/GoSim-25-26J-441/go-shop-backend/internal/auth/domain"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type stubParser struct{}

func (stubParser) Parse(raw string) (domain.Actor, error) {
	if raw == "good" {
		return domain.Actor{ID: "u-1", Role: domain.RoleCustomer}, nil
	}
	return domain.Actor{}, errors.New("bad token")
}

func newRouter(mw gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/me", mw, func(c *gin.Context) {
		c.String(http.StatusOK, auth.UserID(c))
	})
	return r
}

func TestRequireAuth(t *testing.T) {
	r := newRouter(RequireAuth(stubParser{}))

	tests := map[string]struct {
		header   string
		wantCode int
		wantBody string
	}{
		"valid token":        {"Bearer good", http.StatusOK, "u-1"},
		"lowercase scheme":   {"bearer good", http.StatusOK, "u-1"},
		"missing header":     {"", http.StatusUnauthorized, ""},
		"wrong scheme":       {"Basic good", http.StatusUnauthorized, ""},
		"empty token":        {"Bearer ", http.StatusUnauthorized, ""},
		"rejected by parser": {"Bearer nope", http.StatusUnauthorized, ""},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rr := httptest.NewRecorder()
			r.ServeHTTP(rr, req)

			assert.Equal(t, tc.wantCode, rr.Code)
			if tc.wantBody != "" {
				assert.Equal(t, tc.wantBody, rr.Body.String())
			}
		})
	}
}

func TestOptionalAuth(t *testing.T) {
	r := newRouter(OptionalAuth(stubParser{}))

	t.Run("anonymous passes through", func(t *testing.T) {
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/me", nil))
		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Empty(t, rr.Body.String())
	})

	t.Run("invalid token rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer nope")
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})
}
