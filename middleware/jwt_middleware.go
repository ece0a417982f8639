// middleware/jwt_middleware.go
package middleware

import (
	"errors"
	"net/http"

	"github.com/golang-jwt/jwt"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/HSouheill/mlm_backoffice/models"
	"github.com/HSouheill/mlm_backoffice/services"
)

const (
	tokenContextKey   = "user"
	sessionContextKey = "sessionUser"
	claimsContextKey  = "claims"
)

// JWTMiddleware verifies the bearer token and loads the session user. A
// revoked token or a deleted or deactivated account is refused with 401.
func JWTMiddleware(auth *services.AuthService) echo.MiddlewareFunc {
	verify := middleware.JWTWithConfig(middleware.JWTConfig{
		SigningKey:    auth.SigningKey(),
		SigningMethod: middleware.AlgorithmHS256,
		Claims:        &services.Claims{},
		ContextKey:    tokenContextKey,
		ErrorHandlerWithContext: func(err error, c echo.Context) error {
			c.Logger().Debugf("JWT middleware error: %v", err)
			return c.JSON(http.StatusUnauthorized, models.Response{
				Status:  http.StatusUnauthorized,
				Message: "Please provide valid credentials",
			})
		},
	})

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return verify(loadSession(auth, next))
	}
}

func loadSession(auth *services.AuthService, next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		token, ok := c.Get(tokenContextKey).(*jwt.Token)
		if !ok {
			return unauthorized(c, "Please provide valid credentials")
		}
		claims, ok := token.Claims.(*services.Claims)
		if !ok {
			return unauthorized(c, "Invalid token claims")
		}

		user, err := auth.Authenticate(c.Request().Context(), claims)
		switch {
		case errors.Is(err, services.ErrTokenRevoked):
			return unauthorized(c, "Token has been invalidated")
		case errors.Is(err, services.ErrAccountDisabled):
			return unauthorized(c, "User account is inactive")
		case errors.Is(err, services.ErrUserNotFound):
			return unauthorized(c, "User no longer exists")
		case err != nil:
			return c.JSON(http.StatusInternalServerError, models.Response{
				Status:  http.StatusInternalServerError,
				Message: "Failed to load session",
			})
		}

		c.Set(sessionContextKey, user)
		c.Set(claimsContextKey, claims)
		return next(c)
	}
}

func unauthorized(c echo.Context, message string) error {
	return c.JSON(http.StatusUnauthorized, models.Response{
		Status:  http.StatusUnauthorized,
		Message: message,
	})
}

// CurrentUser returns the session user set by JWTMiddleware, or nil.
func CurrentUser(c echo.Context) *models.User {
	user, _ := c.Get(sessionContextKey).(*models.User)
	return user
}

// CurrentClaims returns the verified token claims, or nil.
func CurrentClaims(c echo.Context) *services.Claims {
	claims, _ := c.Get(claimsContextKey).(*services.Claims)
	return claims
}
