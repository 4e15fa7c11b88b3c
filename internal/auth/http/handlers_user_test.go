package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/GoSim-25-26J-441/go-shop-backend/internal/auth/domain"
	authmw "github.com/GoSim-25-26J-441/go-shop-backend/internal/auth/middleware"
	"github.com/GoSim-25-26J-441/go-shop-backend/internal/auth/repository"
	"github.com/GoSim-25-26J-441/go-shop-backend/internal/auth/service"
	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type userStore struct {
	byID  map[string]domain.User
	inUse map[string]bool
}

func (s *userStore) Create(_ context.Context, u *domain.User) error {
	for _, e := range s.byID {
		if e.Email == u.Email {
			return domain.ErrEmailTaken
		}
	}
	u.ID = uuid.NewString()
	s.byID[u.ID] = *u
	return nil
}

func (s *userStore) GetByID(_ context.Context, id string) (*domain.User, error) {
	u, ok := s.byID[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return &u, nil
}

func (s *userStore) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range s.byID {
		if strings.EqualFold(u.Email, email) {
			u := u
			return &u, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (s *userStore) Update(_ context.Context, u *domain.User) error {
	s.byID[u.ID] = *u
	return nil
}

func (s *userStore) List(context.Context, domain.ListFilter) ([]domain.User, error) {
	return nil, nil
}

func (s *userStore) Delete(_ context.Context, id string) error {
	if s.inUse[id] {
		return domain.ErrUserInUse
	}
	if _, ok := s.byID[id]; !ok {
		return domain.ErrUserNotFound
	}
	delete(s.byID, id)
	return nil
}

func setupRouter(t *testing.T) *gin.Engine {
	r, _, _ := setupRouterWithStore(t)
	return r
}

func setupRouterWithStore(t *testing.T) (*gin.Engine, *userStore, *service.TokenIssuer) {
	gin.SetMode(gin.TestMode)

	mr, err := miniredis.Run()
	require.NoError(t, err)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		client.Close()
		mr.Close()
	})

	issuer := service.NewTokenIssuer(service.TokenConfig{Secret: []byte("s"), Issuer: "i", Audience: "a"})
	store := &userStore{byID: map[string]domain.User{}, inUse: map[string]bool{}}
	svc := service.NewAuthService(store, repository.NewRefreshTokenStore(client), issuer, time.Hour, zap.NewNop())
	h := New(svc, zap.NewNop())

	r := gin.New()
	api := r.Group("/api/v1")
	h.RegisterPublic(api)
	protected := api.Group("")
	protected.Use(authmw.RequireAuth(issuer))
	h.RegisterProtected(protected)
	return r, store, issuer
}

func doJSON(r http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	return rr
}

func TestAuthFlow(t *testing.T) {
	r := setupRouter(t)

	rr := doJSON(r, http.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"name": "Ada", "email": "ada@example.com", "password": "secret123",
	})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	var registered struct {
		User   domain.User      `json:"user"`
		Tokens domain.TokenPair `json:"tokens"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &registered))
	assert.Equal(t, domain.RoleCustomer, registered.User.Role)
	assert.NotContains(t, rr.Body.String(), "password", "hash must not be serialised")

	t.Run("duplicate registration", func(t *testing.T) {
		rr := doJSON(r, http.MethodPost, "/api/v1/auth/register", "", map[string]string{
			"name": "Ada", "email": "ada@example.com", "password": "secret123",
		})
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("bad login", func(t *testing.T) {
		rr := doJSON(r, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
			"email": "ada@example.com", "password": "nope-nope",
		})
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("profile with token", func(t *testing.T) {
		rr := doJSON(r, http.MethodGet, "/api/v1/users/profile", registered.Tokens.AccessToken, nil)
		require.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), "ada@example.com")
	})

	t.Run("profile without token", func(t *testing.T) {
		rr := doJSON(r, http.MethodGet, "/api/v1/users/profile", "", nil)
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("refresh then logout", func(t *testing.T) {
		rr := doJSON(r, http.MethodPost, "/api/v1/auth/refresh", "", map[string]string{"refreshToken": registered.Tokens.RefreshToken})
		require.Equal(t, http.StatusOK, rr.Code)

		var refreshed struct {
			Tokens domain.TokenPair `json:"tokens"`
		}
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &refreshed))

		rr = doJSON(r, http.MethodPost, "/api/v1/auth/logout", "", map[string]string{"refreshToken": refreshed.Tokens.RefreshToken})
		assert.Equal(t, http.StatusOK, rr.Code)

		rr = doJSON(r, http.MethodPost, "/api/v1/auth/refresh", "", map[string]string{"refreshToken": refreshed.Tokens.RefreshToken})
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})
}

func TestManageUsers(t *testing.T) {
	r, store, issuer := setupRouterWithStore(t)

	seed := func(email, role string) (domain.User, string) {
		u := domain.User{ID: uuid.NewString(), Name: email, Email: email, Role: role}
		store.byID[u.ID] = u
		token, _, err := issuer.Issue(&u)
		require.NoError(t, err)
		return u, token
	}
	super, superToken := seed("root@example.com", domain.RoleSuperAdmin)
	_, adminToken := seed("admin@example.com", domain.RoleAdmin)
	customer, _ := seed("c@example.com", domain.RoleCustomer)

	t.Run("admin reads a customer", func(t *testing.T) {
		rr := doJSON(r, http.MethodGet, "/api/v1/users/"+customer.ID, adminToken, nil)
		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
		assert.Contains(t, rr.Body.String(), "c@example.com")
	})

	t.Run("unknown user", func(t *testing.T) {
		rr := doJSON(r, http.MethodGet, "/api/v1/users/"+uuid.NewString(), adminToken, nil)
		assert.Equal(t, http.StatusNotFound, rr.Code)
	})

	t.Run("admin cannot change role", func(t *testing.T) {
		rr := doJSON(r, http.MethodPut, "/api/v1/users/"+customer.ID, adminToken, map[string]string{"role": domain.RoleAdmin})
		assert.Equal(t, http.StatusForbidden, rr.Code)
	})

	t.Run("superAdmin renames and promotes", func(t *testing.T) {
		rr := doJSON(r, http.MethodPut, "/api/v1/users/"+customer.ID, superToken, map[string]string{"name": "Cleo", "role": domain.RoleAdmin})
		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
		assert.Equal(t, "Cleo", store.byID[customer.ID].Name)
		assert.Equal(t, domain.RoleAdmin, store.byID[customer.ID].Role)
	})

	t.Run("superAdmin cannot demote self", func(t *testing.T) {
		rr := doJSON(r, http.MethodPut, "/api/v1/users/"+super.ID, superToken, map[string]string{"role": domain.RoleCustomer})
		assert.Equal(t, http.StatusForbidden, rr.Code)
		assert.Equal(t, domain.RoleSuperAdmin, store.byID[super.ID].Role)
	})

	t.Run("delete of a user with orders conflicts", func(t *testing.T) {
		store.inUse[customer.ID] = true
		rr := doJSON(r, http.MethodDelete, "/api/v1/users/"+customer.ID, superToken, nil)
		assert.Equal(t, http.StatusConflict, rr.Code)
		assert.Contains(t, store.byID, customer.ID)
	})
}
