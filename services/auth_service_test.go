package services

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HSouheill/mlm_backoffice/models"
)

func newAuth(t *testing.T, f *fixture) *AuthService {
	t.Helper()
	return NewAuthService(f.store, NewMemoryTokenStore(), "test-secret", 0, f.log)
}

func TestLoginIssuesToken(t *testing.T) {
	f := newFixture(t)
	auth := newAuth(t, f)
	user, err := f.reps.Create(f.ctx, &models.CreateUserRequest{
		Username: "rep1", Password: "rep123", Email: "rep1@mlm.com", FullName: "John Smith",
	})
	require.NoError(t, err)

	resp, err := auth.Login(f.ctx, &models.LoginRequest{Username: "rep1", Password: "rep123"})
	require.NoError(t, err)
	assert.Equal(t, user.ID, resp.User.ID)
	assert.NotEmpty(t, resp.Token)
	assert.WithinDuration(t, time.Now().Add(DefaultTokenTTL), resp.ExpiresAt, time.Minute)

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(resp.Token, claims, func(*jwt.Token) (interface{}, error) {
		return auth.SigningKey(), nil
	})
	require.NoError(t, err)
	assert.True(t, token.Valid)
	assert.Equal(t, "HS256", token.Method.Alg())
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, "rep1", claims.Username)
	assert.Equal(t, models.RoleRepresentative, claims.Role)
	assert.NotEmpty(t, claims.Id)
}

func TestLoginFailures(t *testing.T) {
	f := newFixture(t)
	auth := newAuth(t, f)
	inactive := false
	_, err := f.reps.Create(f.ctx, &models.CreateUserRequest{
		Username: "sleepy", Password: "secret1", Email: "sleepy@mlm.com", FullName: "Sleepy", IsActive: &inactive,
	})
	require.NoError(t, err)

	_, err = auth.Login(f.ctx, &models.LoginRequest{Username: "nobody", Password: "x"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = auth.Login(f.ctx, &models.LoginRequest{Username: "sleepy", Password: "wrong"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = auth.Login(f.ctx, &models.LoginRequest{Username: "sleepy", Password: "secret1"})
	assert.ErrorIs(t, err, ErrAccountDisabled)
}

func TestAuthenticateAndLogout(t *testing.T) {
	f := newFixture(t)
	auth := newAuth(t, f)
	rep := f.rep(t, "r1", "10", nil)

	claims := &Claims{
		UserID: rep.ID,
		StandardClaims: jwt.StandardClaims{
			Id:        "jti-1",
			ExpiresAt: time.Now().Add(time.Hour).Unix(),
		},
	}

	user, err := auth.Authenticate(f.ctx, claims)
	require.NoError(t, err)
	assert.Equal(t, rep.ID, user.ID)

	require.NoError(t, auth.Logout(f.ctx, claims))
	_, err = auth.Authenticate(f.ctx, claims)
	assert.ErrorIs(t, err, ErrTokenRevoked)

	rep.IsActive = false
	require.NoError(t, f.store.UpdateUser(f.ctx, rep))
	claims.Id = "jti-2"
	_, err = auth.Authenticate(f.ctx, claims)
	assert.ErrorIs(t, err, ErrAccountDisabled)

	claims.UserID = "deleted"
	_, err = auth.Authenticate(f.ctx, claims)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestMemoryTokenStorePurge(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryTokenStore()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }

	require.NoError(t, store.Revoke(ctx, "expired", now.Add(-time.Minute)))
	require.NoError(t, store.Revoke(ctx, "live", now.Add(time.Hour)))

	revoked, err := store.IsRevoked(ctx, "expired")
	require.NoError(t, err)
	assert.False(t, revoked)
	revoked, err = store.IsRevoked(ctx, "live")
	require.NoError(t, err)
	assert.True(t, revoked)

	purged, err := store.Purge(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, purged)
}
