package controllers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/HSouheill/mlm_backoffice/middleware"
	"github.com/HSouheill/mlm_backoffice/models"
	"github.com/HSouheill/mlm_backoffice/services"
)

// AuthController contains authentication logic
type AuthController struct {
	auth *services.AuthService
}

// NewAuthController creates a new auth controller
func NewAuthController(auth *services.AuthService) *AuthController {
	return &AuthController{auth: auth}
}

// Login checks the credentials and returns the user with a session token
func (ac *AuthController) Login(c echo.Context) error {
	var req models.LoginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return respondError(c, err)
	}

	resp, err := ac.auth.Login(c.Request().Context(), &req)
	if err != nil {
		return respondError(c, err)
	}
	return success(c, http.StatusOK, "Login successful", resp)
}

// Logout revokes the token used for this request
func (ac *AuthController) Logout(c echo.Context) error {
	claims := middleware.CurrentClaims(c)
	if claims == nil {
		return failure(c, http.StatusUnauthorized, "Invalid token")
	}
	if err := ac.auth.Logout(c.Request().Context(), claims); err != nil {
		return respondError(c, err)
	}
	return success(c, http.StatusOK, "Logged out successfully", nil)
}

// Me returns the session user
func (ac *AuthController) Me(c echo.Context) error {
	return success(c, http.StatusOK, "Session user retrieved", middleware.CurrentUser(c))
}
