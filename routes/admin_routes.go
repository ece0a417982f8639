package routes

import (
	"github.com/labstack/echo/v4"
)

// RegisterAdminRoutes sets up representative management, organisation
// dashboards and commission payouts.
func RegisterAdminRoutes(api *echo.Group, ctrl *Controllers) {
	// Representative management
	reps := ctrl.Representatives
	api.GET("/representatives", reps.ListRepresentatives, adminOnly)
	api.POST("/representatives", reps.CreateRepresentative, adminOnly)
	api.GET("/representatives/:id", reps.GetRepresentative, adminOnly)
	api.PATCH("/representatives/:id", reps.UpdateRepresentative, adminOnly)
	api.DELETE("/representatives/:id", reps.DeleteRepresentative, adminOnly)
	api.GET("/representatives/:id/commissions", reps.GetRepresentativeCommissions, adminOnly)

	// Dashboards
	api.GET("/admin/stats", ctrl.Dashboard.GetAdminStats, adminOnly)
	api.GET("/sales-chain", ctrl.Dashboard.GetSalesChain, adminOnly)
	api.GET("/ai/recommendations", ctrl.Dashboard.GetAdminRecommendations, adminOnly)

	// Commission payouts
	api.GET("/commissions", ctrl.Commissions.ListCommissions, adminOnly)
	api.PATCH("/commissions/:id", ctrl.Commissions.UpdateCommissionStatus, adminOnly)
}
