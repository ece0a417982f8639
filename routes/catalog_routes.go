package routes

import (
	"github.com/labstack/echo/v4"

	"github.com/HSouheill/mlm_backoffice/controllers"
)

// RegisterCatalogRoutes sets up products and inventory. Anyone signed in can
// read; only admins change the catalogue or stock.
func RegisterCatalogRoutes(api *echo.Group, pc *controllers.ProductController) {
	api.GET("/products", pc.ListProducts)
	api.GET("/products/:id", pc.GetProduct)
	api.GET("/products/:id/inventory", pc.GetProductInventory)
	api.POST("/products", pc.CreateProduct, adminOnly)
	api.PATCH("/products/:id", pc.UpdateProduct, adminOnly)
	api.DELETE("/products/:id", pc.DeleteProduct, adminOnly)

	api.GET("/inventory", pc.ListInventory)
	api.GET("/inventory/low-stock", pc.ListLowStock)
	api.PATCH("/inventory/:id", pc.UpdateInventory, adminOnly)
}
