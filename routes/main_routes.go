package routes

import (
	"github.com/labstack/echo/v4"

	"github.com/HSouheill/mlm_backoffice/controllers"
	"github.com/HSouheill/mlm_backoffice/metrics"
	"github.com/HSouheill/mlm_backoffice/middleware"
	"github.com/HSouheill/mlm_backoffice/models"
	"github.com/HSouheill/mlm_backoffice/services"
	"github.com/HSouheill/mlm_backoffice/websocket"
)

// Controllers bundles every HTTP handler set the router needs.
type Controllers struct {
	Auth            *controllers.AuthController
	Representatives *controllers.RepresentativeController
	Products        *controllers.ProductController
	Customers       *controllers.CustomerController
	Sales           *controllers.SalesController
	Commissions     *controllers.CommissionController
	Dashboard       *controllers.DashboardController
	Health          *controllers.HealthController
}

var (
	adminOnly = middleware.RequireRole(models.RoleAdmin)
	repOnly   = middleware.RequireRole(models.RoleRepresentative)
)

// SetupRoutes configures all API routes by calling individual route registration functions
func SetupRoutes(e *echo.Echo, auth *services.AuthService, hub *websocket.Hub, limiter *middleware.RateLimiter, ctrl *Controllers) {
	e.Match([]string{"GET", "HEAD"}, "/health", ctrl.Health.Health)
	e.GET("/metrics", echo.WrapHandler(metrics.Handler()))
	e.GET("/ws", websocket.HandleWebSocket(hub))

	api := e.Group("/api", limiter.RateLimit())
	RegisterAuthRoutes(api, auth, ctrl.Auth)

	secured := api.Group("", middleware.JWTMiddleware(auth))
	RegisterAdminRoutes(secured, ctrl)
	RegisterCatalogRoutes(secured, ctrl.Products)
	RegisterCustomerRoutes(secured, ctrl.Customers)
	RegisterSalesRoutes(secured, ctrl)
}
