package controllers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/HSouheill/mlm_backoffice/middleware"
	"github.com/HSouheill/mlm_backoffice/models"
	"github.com/HSouheill/mlm_backoffice/services"
)

// RepresentativeController manages representative accounts. All routes are
// admin only.
type RepresentativeController struct {
	reps        *services.RepresentativeService
	commissions *services.CommissionService
}

func NewRepresentativeController(reps *services.RepresentativeService, commissions *services.CommissionService) *RepresentativeController {
	return &RepresentativeController{reps: reps, commissions: commissions}
}

// ListRepresentatives returns every representative
func (rc *RepresentativeController) ListRepresentatives(c echo.Context) error {
	reps, err := rc.reps.List(c.Request().Context())
	if err != nil {
		return respondError(c, err)
	}
	return success(c, http.StatusOK, "Representatives retrieved successfully", reps)
}

// GetRepresentative returns a single representative
func (rc *RepresentativeController) GetRepresentative(c echo.Context) error {
	rep, err := rc.reps.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return respondError(c, err)
	}
	return success(c, http.StatusOK, "Representative retrieved successfully", rep)
}

// CreateRepresentative creates an account, optionally under a sponsor
func (rc *RepresentativeController) CreateRepresentative(c echo.Context) error {
	var req models.CreateUserRequest
	if err := bindAndValidate(c, &req); err != nil {
		return respondError(c, err)
	}

	rep, err := rc.reps.Create(c.Request().Context(), &req)
	if err != nil {
		return respondError(c, err)
	}
	return success(c, http.StatusCreated, "Representative created successfully", rep)
}

// UpdateRepresentative applies a partial update
func (rc *RepresentativeController) UpdateRepresentative(c echo.Context) error {
	var req models.UpdateUserRequest
	if err := bindAndValidate(c, &req); err != nil {
		return respondError(c, err)
	}

	rep, err := rc.reps.Update(c.Request().Context(), c.Param("id"), &req)
	if err != nil {
		return respondError(c, err)
	}
	return success(c, http.StatusOK, "Representative updated successfully", rep)
}

// DeleteRepresentative removes an account. Admins cannot delete themselves.
func (rc *RepresentativeController) DeleteRepresentative(c echo.Context) error {
	actor := middleware.CurrentUser(c)
	if err := rc.reps.Delete(c.Request().Context(), actor.ID, c.Param("id")); err != nil {
		return respondError(c, err)
	}
	return success(c, http.StatusOK, "Representative deleted successfully", nil)
}

// GetRepresentativeCommissions lists the commissions earned by one representative
func (rc *RepresentativeController) GetRepresentativeCommissions(c echo.Context) error {
	ctx := c.Request().Context()
	rep, err := rc.reps.Get(ctx, c.Param("id"))
	if err != nil {
		return respondError(c, err)
	}
	commissions, err := rc.commissions.ListForRepresentative(ctx, rep.ID)
	if err != nil {
		return respondError(c, err)
	}
	return success(c, http.StatusOK, "Commissions retrieved successfully", commissions)
}
