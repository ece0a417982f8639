package controllers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/HSouheill/mlm_backoffice/middleware"
	"github.com/HSouheill/mlm_backoffice/models"
	"github.com/HSouheill/mlm_backoffice/services"
)

type SalesController struct {
	sales       *services.SalesService
	commissions *services.CommissionService
}

func NewSalesController(sales *services.SalesService, commissions *services.CommissionService) *SalesController {
	return &SalesController{sales: sales, commissions: commissions}
}

// CreateSale records a sale and its commissions. Representatives always sell
// as themselves; admins must name the selling representative.
func (sc *SalesController) CreateSale(c echo.Context) error {
	var req models.CreateSaleRequest
	if err := bindAndValidate(c, &req); err != nil {
		return respondError(c, err)
	}

	viewer := middleware.CurrentUser(c)
	if viewer.IsRepresentative() {
		req.RepresentativeID = viewer.ID
	} else if req.RepresentativeID == "" {
		return failure(c, http.StatusBadRequest, "representativeId is required")
	}

	result, err := sc.sales.RecordSale(c.Request().Context(), &req)
	if err != nil {
		return respondError(c, err)
	}
	return success(c, http.StatusCreated, "Sale recorded successfully", result)
}

// GetRecentSales returns the last 30 days of sales, scoped to the session
// representative unless the caller is an admin.
func (sc *SalesController) GetRecentSales(c echo.Context) error {
	viewer := middleware.CurrentUser(c)
	repID := ""
	if !viewer.IsAdmin() {
		repID = viewer.ID
	}

	sales, err := sc.sales.RecentSales(c.Request().Context(), repID)
	if err != nil {
		return respondError(c, err)
	}
	return success(c, http.StatusOK, "Recent sales retrieved successfully", sales)
}

// GetMySales returns every sale of the session representative
func (sc *SalesController) GetMySales(c echo.Context) error {
	sales, err := sc.sales.SalesByRepresentative(c.Request().Context(), middleware.CurrentUser(c).ID)
	if err != nil {
		return respondError(c, err)
	}
	return success(c, http.StatusOK, "Sales retrieved successfully", sales)
}

// GetSaleCommissions lists the commission records produced by one sale
func (sc *SalesController) GetSaleCommissions(c echo.Context) error {
	commissions, err := sc.commissions.ListForSale(c.Request().Context(), c.Param("id"))
	if err != nil {
		return respondError(c, err)
	}
	return success(c, http.StatusOK, "Commissions retrieved successfully", commissions)
}
