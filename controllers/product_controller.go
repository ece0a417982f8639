package controllers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/HSouheill/mlm_backoffice/models"
	"github.com/HSouheill/mlm_backoffice/services"
)

// ProductController serves the catalogue and its stock rows
type ProductController struct {
	catalog *services.CatalogService
}

func NewProductController(catalog *services.CatalogService) *ProductController {
	return &ProductController{catalog: catalog}
}

// ListProducts returns every product
func (pc *ProductController) ListProducts(c echo.Context) error {
	products, err := pc.catalog.ListProducts(c.Request().Context())
	if err != nil {
		return respondError(c, err)
	}
	return success(c, http.StatusOK, "Products retrieved successfully", products)
}

func (pc *ProductController) GetProduct(c echo.Context) error {
	product, err := pc.catalog.GetProduct(c.Request().Context(), c.Param("id"))
	if err != nil {
		return respondError(c, err)
	}
	return success(c, http.StatusOK, "Product retrieved successfully", product)
}

// CreateProduct creates a product together with an empty inventory row
func (pc *ProductController) CreateProduct(c echo.Context) error {
	var req models.CreateProductRequest
	if err := bindAndValidate(c, &req); err != nil {
		return respondError(c, err)
	}

	product, err := pc.catalog.CreateProduct(c.Request().Context(), &req)
	if err != nil {
		return respondError(c, err)
	}
	return success(c, http.StatusCreated, "Product created successfully", product)
}

func (pc *ProductController) UpdateProduct(c echo.Context) error {
	var req models.UpdateProductRequest
	if err := bindAndValidate(c, &req); err != nil {
		return respondError(c, err)
	}

	product, err := pc.catalog.UpdateProduct(c.Request().Context(), c.Param("id"), &req)
	if err != nil {
		return respondError(c, err)
	}
	return success(c, http.StatusOK, "Product updated successfully", product)
}

// DeleteProduct removes the product and its inventory row
func (pc *ProductController) DeleteProduct(c echo.Context) error {
	if err := pc.catalog.DeleteProduct(c.Request().Context(), c.Param("id")); err != nil {
		return respondError(c, err)
	}
	return success(c, http.StatusOK, "Product deleted successfully", nil)
}

// GetProductInventory returns the stock row of one product
func (pc *ProductController) GetProductInventory(c echo.Context) error {
	inv, err := pc.catalog.InventoryForProduct(c.Request().Context(), c.Param("id"))
	if err != nil {
		return respondError(c, err)
	}
	return success(c, http.StatusOK, "Inventory retrieved successfully", inv)
}

// ListInventory returns every stock row with its product embedded
func (pc *ProductController) ListInventory(c echo.Context) error {
	rows, err := pc.catalog.ListInventory(c.Request().Context())
	if err != nil {
		return respondError(c, err)
	}
	return success(c, http.StatusOK, "Inventory retrieved successfully", rows)
}

// ListLowStock returns rows at or below their reorder level
func (pc *ProductController) ListLowStock(c echo.Context) error {
	rows, err := pc.catalog.LowStock(c.Request().Context())
	if err != nil {
		return respondError(c, err)
	}
	return success(c, http.StatusOK, "Low stock inventory retrieved successfully", rows)
}

func (pc *ProductController) UpdateInventory(c echo.Context) error {
	var req models.UpdateInventoryRequest
	if err := bindAndValidate(c, &req); err != nil {
		return respondError(c, err)
	}

	inv, err := pc.catalog.UpdateInventory(c.Request().Context(), c.Param("id"), &req)
	if err != nil {
		return respondError(c, err)
	}
	return success(c, http.StatusOK, "Inventory updated successfully", inv)
}
