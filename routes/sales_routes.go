package routes

import (
	"github.com/labstack/echo/v4"
)

// RegisterSalesRoutes sets up sale recording and the representative's own views
func RegisterSalesRoutes(api *echo.Group, ctrl *Controllers) {
	api.POST("/sales", ctrl.Sales.CreateSale)
	api.GET("/sales/recent", ctrl.Sales.GetRecentSales)
	api.GET("/sales/:id/commissions", ctrl.Sales.GetSaleCommissions, adminOnly)

	// Representative self-service
	api.GET("/rep/sales", ctrl.Sales.GetMySales, repOnly)
	api.GET("/rep/commissions", ctrl.Commissions.GetMyCommissions, repOnly)
	api.GET("/rep/stats", ctrl.Dashboard.GetRepStats, repOnly)
	api.GET("/ai/recommendations/rep", ctrl.Dashboard.GetRepRecommendations, repOnly)
}
