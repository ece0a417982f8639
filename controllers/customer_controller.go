package controllers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/HSouheill/mlm_backoffice/middleware"
	"github.com/HSouheill/mlm_backoffice/models"
	"github.com/HSouheill/mlm_backoffice/services"
)

// CustomerController scopes every operation to the session user: admins see
// all customers, representatives only their own.
type CustomerController struct {
	customers *services.CustomerService
}

func NewCustomerController(customers *services.CustomerService) *CustomerController {
	return &CustomerController{customers: customers}
}

func (cc *CustomerController) ListCustomers(c echo.Context) error {
	customers, err := cc.customers.List(c.Request().Context(), middleware.CurrentUser(c))
	if err != nil {
		return respondError(c, err)
	}
	return success(c, http.StatusOK, "Customers retrieved successfully", customers)
}

func (cc *CustomerController) GetCustomer(c echo.Context) error {
	customer, err := cc.customers.Get(c.Request().Context(), middleware.CurrentUser(c), c.Param("id"))
	if err != nil {
		return respondError(c, err)
	}
	return success(c, http.StatusOK, "Customer retrieved successfully", customer)
}

func (cc *CustomerController) CreateCustomer(c echo.Context) error {
	var req models.CreateCustomerRequest
	if err := bindAndValidate(c, &req); err != nil {
		return respondError(c, err)
	}

	customer, err := cc.customers.Create(c.Request().Context(), middleware.CurrentUser(c), &req)
	if err != nil {
		return respondError(c, err)
	}
	return success(c, http.StatusCreated, "Customer created successfully", customer)
}

func (cc *CustomerController) UpdateCustomer(c echo.Context) error {
	var req models.UpdateCustomerRequest
	if err := bindAndValidate(c, &req); err != nil {
		return respondError(c, err)
	}

	customer, err := cc.customers.Update(c.Request().Context(), middleware.CurrentUser(c), c.Param("id"), &req)
	if err != nil {
		return respondError(c, err)
	}
	return success(c, http.StatusOK, "Customer updated successfully", customer)
}

func (cc *CustomerController) DeleteCustomer(c echo.Context) error {
	if err := cc.customers.Delete(c.Request().Context(), middleware.CurrentUser(c), c.Param("id")); err != nil {
		return respondError(c, err)
	}
	return success(c, http.StatusOK, "Customer deleted successfully", nil)
}
