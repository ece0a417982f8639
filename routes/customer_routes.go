package routes

import (
	"github.com/labstack/echo/v4"

	"github.com/HSouheill/mlm_backoffice/controllers"
)

// RegisterCustomerRoutes sets up customer management. Scoping to the session
// user happens in the service.
func RegisterCustomerRoutes(api *echo.Group, cc *controllers.CustomerController) {
	api.GET("/customers", cc.ListCustomers)
	api.POST("/customers", cc.CreateCustomer)
	api.GET("/customers/:id", cc.GetCustomer)
	api.PATCH("/customers/:id", cc.UpdateCustomer)
	api.DELETE("/customers/:id", cc.DeleteCustomer)
}
