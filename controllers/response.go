package controllers

import (
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/HSouheill/mlm_backoffice/models"
	"github.com/HSouheill/mlm_backoffice/services"
)

func success(c echo.Context, status int, message string, data interface{}) error {
	return c.JSON(status, models.Response{
		Status:  status,
		Message: message,
		Data:    data,
	})
}

func failure(c echo.Context, status int, message string) error {
	return c.JSON(status, models.Response{
		Status:  status,
		Message: message,
	})
}

// badRequestError is a malformed or invalid request body.
type badRequestError struct {
	message string
	fields  []FieldError
}

func (e *badRequestError) Error() string {
	return e.message
}

// bindAndValidate decodes the JSON body into req and runs the validator. The
// returned error is meant for respondError.
func bindAndValidate(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return &badRequestError{message: "Invalid request body"}
	}
	if err := c.Validate(req); err != nil {
		return invalid(err)
	}
	return nil
}

func invalid(err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		return &badRequestError{message: "Validation failed", fields: fieldErrors(verrs)}
	}
	return &badRequestError{message: err.Error()}
}

// respondError maps service errors onto HTTP statuses. Anything unknown is
// logged and reported as 500 without details.
func respondError(c echo.Context, err error) error {
	var bad *badRequestError
	if errors.As(err, &bad) {
		resp := models.Response{Status: http.StatusBadRequest, Message: bad.message}
		if len(bad.fields) > 0 {
			resp.Data = bad.fields
		}
		return c.JSON(http.StatusBadRequest, resp)
	}

	status := statusFor(err)
	if status == http.StatusInternalServerError {
		c.Logger().Errorf("%s %s: %v", c.Request().Method, c.Path(), err)
		return failure(c, status, "Internal server error")
	}
	return failure(c, status, err.Error())
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, services.ErrUserNotFound),
		errors.Is(err, services.ErrRepresentativeNotFound),
		errors.Is(err, services.ErrProductNotFound),
		errors.Is(err, services.ErrInventoryNotFound),
		errors.Is(err, services.ErrCustomerNotFound),
		errors.Is(err, services.ErrSaleNotFound),
		errors.Is(err, services.ErrCommissionNotFound):
		return http.StatusNotFound

	case errors.Is(err, services.ErrUsernameTaken),
		errors.Is(err, services.ErrSKUTaken):
		return http.StatusConflict

	case errors.Is(err, services.ErrSponsorNotFound),
		errors.Is(err, services.ErrSponsorNotEligible),
		errors.Is(err, services.ErrSponsorCycle),
		errors.Is(err, services.ErrInvalidAmount),
		errors.Is(err, services.ErrDiscountTooLarge),
		errors.Is(err, services.ErrInvalidQuantity),
		errors.Is(err, services.ErrInvalidRate),
		errors.Is(err, services.ErrInvalidPhone),
		errors.Is(err, services.ErrNegativeStock),
		errors.Is(err, services.ErrProductInactive),
		errors.Is(err, services.ErrRepresentativeInactive),
		errors.Is(err, services.ErrInvalidStatus),
		errors.Is(err, services.ErrCannotDeleteSelf):
		return http.StatusUnprocessableEntity

	case errors.Is(err, services.ErrForbidden),
		errors.Is(err, services.ErrRepresentativeOwned):
		return http.StatusForbidden

	case errors.Is(err, services.ErrInvalidCredentials),
		errors.Is(err, services.ErrAccountDisabled),
		errors.Is(err, services.ErrTokenRevoked):
		return http.StatusUnauthorized
	}
	return http.StatusInternalServerError
}
