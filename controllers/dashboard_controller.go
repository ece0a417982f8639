package controllers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/HSouheill/mlm_backoffice/middleware"
	"github.com/HSouheill/mlm_backoffice/services"
)

// DashboardController serves the KPI cards, the downline tree and the
// recommendation lists.
type DashboardController struct {
	dashboard *services.DashboardService
	chain     *services.SalesChainService
	insights  *services.InsightService
}

func NewDashboardController(dashboard *services.DashboardService, chain *services.SalesChainService, insights *services.InsightService) *DashboardController {
	return &DashboardController{dashboard: dashboard, chain: chain, insights: insights}
}

// GetAdminStats returns the organisation wide KPIs
func (dc *DashboardController) GetAdminStats(c echo.Context) error {
	stats, err := dc.dashboard.Stats(c.Request().Context(), "")
	if err != nil {
		return respondError(c, err)
	}
	return success(c, http.StatusOK, "Dashboard stats retrieved successfully", stats)
}

// GetRepStats returns the session representative's KPIs
func (dc *DashboardController) GetRepStats(c echo.Context) error {
	stats, err := dc.dashboard.Stats(c.Request().Context(), middleware.CurrentUser(c).ID)
	if err != nil {
		return respondError(c, err)
	}
	return success(c, http.StatusOK, "Dashboard stats retrieved successfully", stats)
}

// GetSalesChain returns the sponsor forest with per-node totals
func (dc *DashboardController) GetSalesChain(c echo.Context) error {
	roots, err := dc.chain.Build(c.Request().Context())
	if err != nil {
		return respondError(c, err)
	}
	return success(c, http.StatusOK, "Sales chain retrieved successfully", roots)
}

func (dc *DashboardController) GetAdminRecommendations(c echo.Context) error {
	recs, err := dc.insights.ForAdmin(c.Request().Context())
	if err != nil {
		return respondError(c, err)
	}
	return success(c, http.StatusOK, "Recommendations generated successfully", recs)
}

func (dc *DashboardController) GetRepRecommendations(c echo.Context) error {
	recs, err := dc.insights.ForRepresentative(c.Request().Context(), middleware.CurrentUser(c))
	if err != nil {
		return respondError(c, err)
	}
	return success(c, http.StatusOK, "Recommendations generated successfully", recs)
}
