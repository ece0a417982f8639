package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HSouheill/mlm_backoffice/models"
	"github.com/HSouheill/mlm_backoffice/repositories"
	"github.com/HSouheill/mlm_backoffice/services"
)

type authFixture struct {
	store *repositories.MemoryStore
	auth  *services.AuthService
	e     *echo.Echo
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()
	log, _ := logtest.NewNullLogger()
	store := repositories.NewMemoryStore()
	auth := services.NewAuthService(store, services.NewMemoryTokenStore(), "test-secret", time.Hour, log)

	e := echo.New()
	api := e.Group("/api", JWTMiddleware(auth))
	api.GET("/me", func(c echo.Context) error {
		return c.JSON(http.StatusOK, models.Response{Status: http.StatusOK, Data: CurrentUser(c)})
	})
	api.GET("/admin", func(c echo.Context) error {
		return c.NoContent(http.StatusNoContent)
	}, RequireAdmin())
	return &authFixture{store: store, auth: auth, e: e}
}

func (f *authFixture) user(t *testing.T, role models.Role, active bool) *models.User {
	t.Helper()
	u := &models.User{
		ID:        uuid.NewString(),
		Username:  "u" + uuid.NewString()[:8],
		Email:     uuid.NewString()[:8] + "@example.com",
		Role:      role,
		IsActive:  active,
		CreatedAt: time.Now().UTC(),
	}
	require.NoError(t, f.store.CreateUser(context.Background(), u))
	return u
}

func (f *authFixture) token(t *testing.T, u *models.User) string {
	t.Helper()
	token, _, err := f.auth.IssueToken(u)
	require.NoError(t, err)
	return token
}

func (f *authFixture) get(path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	f.e.ServeHTTP(rec, req)
	return rec
}

func TestJWTMiddleware(t *testing.T) {
	f := newAuthFixture(t)
	rep := f.user(t, models.RoleRepresentative, true)
	inactive := f.user(t, models.RoleRepresentative, false)

	t.Run("missing token", func(t *testing.T) {
		assert.Equal(t, http.StatusUnauthorized, f.get("/api/me", "").Code)
	})

	t.Run("garbage token", func(t *testing.T) {
		assert.Equal(t, http.StatusUnauthorized, f.get("/api/me", "not.a.jwt").Code)
	})

	t.Run("valid token", func(t *testing.T) {
		rec := f.get("/api/me", f.token(t, rep))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), rep.ID)
	})

	t.Run("inactive account", func(t *testing.T) {
		rec := f.get("/api/me", f.token(t, inactive))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Contains(t, rec.Body.String(), "inactive")
	})

	t.Run("revoked token", func(t *testing.T) {
		token := f.token(t, rep)
		claims := &services.Claims{}
		_, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
			return f.auth.SigningKey(), nil
		})
		require.NoError(t, err)
		require.NoError(t, f.auth.Logout(context.Background(), claims))
		assert.Equal(t, http.StatusUnauthorized, f.get("/api/me", token).Code)
	})

	t.Run("deleted user", func(t *testing.T) {
		gone := f.user(t, models.RoleRepresentative, true)
		token := f.token(t, gone)
		require.NoError(t, f.store.DeleteUser(context.Background(), gone.ID))
		assert.Equal(t, http.StatusUnauthorized, f.get("/api/me", token).Code)
	})
}

func TestRequireRole(t *testing.T) {
	f := newAuthFixture(t)
	admin := f.user(t, models.RoleAdmin, true)
	rep := f.user(t, models.RoleRepresentative, true)

	assert.Equal(t, http.StatusNoContent, f.get("/api/admin", f.token(t, admin)).Code)
	assert.Equal(t, http.StatusForbidden, f.get("/api/admin", f.token(t, rep)).Code)
}

func TestRateLimiterBlocksAfterBurst(t *testing.T) {
	limiter := NewRateLimiter()
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	limiter.now = func() time.Time { return now }

	e := echo.New()
	e.POST("/api/auth/login", func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	}, limiter.RateLimit())

	send := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		return rec
	}
	post := func() int { return send().Code }

	for i := 0; i < 5; i++ {
		require.Equal(t, http.StatusOK, post(), "attempt %d", i+1)
	}
	rec := send()
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "300", rec.Header().Get("Retry-After"))

	// Retry-After follows the limiter clock
	now = now.Add(2 * time.Minute)
	rec = send()
	assert.Equal(t, http.StatusTooManyRequests, rec.Code, "blocked IP stays blocked")
	assert.Equal(t, "180", rec.Header().Get("Retry-After"))

	assert.Equal(t, 0, limiter.Cleanup())
	now = now.Add(4 * time.Minute)
	assert.Equal(t, 1, limiter.Cleanup())
	assert.Equal(t, http.StatusOK, post())
}

func TestRequestLogger(t *testing.T) {
	log, hook := logtest.NewNullLogger()
	e := echo.New()
	e.Use(RequestLogger(log))
	e.GET("/items/:id", func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	e.GET("/boom", func(c echo.Context) error {
		return echo.NewHTTPError(http.StatusInternalServerError, "boom")
	})

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/items/42", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, logrus.InfoLevel, entry.Level)
	assert.Equal(t, "/items/:id", entry.Data["route"])
	assert.Equal(t, "/items/42", entry.Data["path"])
	assert.Equal(t, http.StatusOK, entry.Data["status"])

	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/boom", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, logrus.ErrorLevel, hook.LastEntry().Level)
}

func TestSecurityHeaders(t *testing.T) {
	e := echo.New()
	e.Use(SecurityHeaders(false))
	e.GET("/", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.NotEmpty(t, rec.Header().Get("Permissions-Policy"))
}
