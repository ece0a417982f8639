package controllers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/HSouheill/mlm_backoffice/middleware"
	"github.com/HSouheill/mlm_backoffice/models"
	"github.com/HSouheill/mlm_backoffice/services"
)

type CommissionController struct {
	commissions *services.CommissionService
}

func NewCommissionController(commissions *services.CommissionService) *CommissionController {
	return &CommissionController{commissions: commissions}
}

// ListCommissions returns every commission, filtered by ?status= when given
func (cc *CommissionController) ListCommissions(c echo.Context) error {
	commissions, err := cc.commissions.List(c.Request().Context(), c.QueryParam("status"))
	if err != nil {
		return respondError(c, err)
	}
	return success(c, http.StatusOK, "Commissions retrieved successfully", commissions)
}

// GetMyCommissions returns the session representative's commissions
func (cc *CommissionController) GetMyCommissions(c echo.Context) error {
	commissions, err := cc.commissions.ListForRepresentative(c.Request().Context(), middleware.CurrentUser(c).ID)
	if err != nil {
		return respondError(c, err)
	}
	return success(c, http.StatusOK, "Commissions retrieved successfully", commissions)
}

// UpdateCommissionStatus marks a commission paid or pending
func (cc *CommissionController) UpdateCommissionStatus(c echo.Context) error {
	var req models.UpdateCommissionStatusRequest
	if err := bindAndValidate(c, &req); err != nil {
		return respondError(c, err)
	}

	commission, err := cc.commissions.UpdateStatus(c.Request().Context(), c.Param("id"), req.Status)
	if err != nil {
		return respondError(c, err)
	}
	return success(c, http.StatusOK, "Commission updated successfully", commission)
}
