package routes

import (
	"github.com/labstack/echo/v4"

	"github.com/HSouheill/mlm_backoffice/controllers"
	"github.com/HSouheill/mlm_backoffice/middleware"
	"github.com/HSouheill/mlm_backoffice/services"
)

// RegisterAuthRoutes sets up login (public) and the session routes
func RegisterAuthRoutes(api *echo.Group, auth *services.AuthService, authController *controllers.AuthController) {
	api.POST("/auth/login", authController.Login)

	session := middleware.JWTMiddleware(auth)
	api.POST("/auth/logout", authController.Logout, session)
	api.GET("/auth/me", authController.Me, session)
}
