package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/HSouheill/mlm_backoffice/models"
	"github.com/HSouheill/mlm_backoffice/repositories"
	"github.com/HSouheill/mlm_backoffice/utils"
)

// CatalogService owns products and their stock rows. Every product has
// exactly one inventory row, created and deleted with it.
type CatalogService struct {
	store     repositories.Store
	publisher Publisher
	log       logrus.FieldLogger
	now       func() time.Time
}

func NewCatalogService(store repositories.Store, publisher Publisher, log logrus.FieldLogger) *CatalogService {
	return &CatalogService{
		store:     store,
		publisher: publisher,
		log:       log,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

func (s *CatalogService) ListProducts(ctx context.Context) ([]*models.Product, error) {
	return s.store.ListProducts(ctx)
}

func (s *CatalogService) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	product, err := s.store.GetProduct(ctx, id)
	if err != nil {
		return nil, orNotFound(err, ErrProductNotFound)
	}
	return product, nil
}

// CreateProduct stores the product with an empty stock row at the default
// reorder level. A blank SKU is generated from the name.
func (s *CatalogService) CreateProduct(ctx context.Context, req *models.CreateProductRequest) (*models.Product, error) {
	if req.BasePrice.IsNegative() {
		return nil, ErrInvalidAmount
	}
	name := utils.SanitizeInput(req.Name)
	sku := utils.NormalizeSKU(req.SKU)
	if sku == "" {
		sku = utils.GenerateSKU(name)
	}

	now := s.now()
	product := &models.Product{
		ID:          uuid.NewString(),
		Name:        name,
		Description: utils.SanitizeOptional(req.Description),
		Category:    utils.SanitizeInput(req.Category),
		BasePrice:   models.NewMoney(req.BasePrice.Decimal),
		SKU:         sku,
		ImageURL:    req.ImageURL,
		IsActive:    true,
		CreatedAt:   now,
	}
	if req.IsActive != nil {
		product.IsActive = *req.IsActive
	}
	inventory := &models.Inventory{
		ID:           uuid.NewString(),
		ProductID:    product.ID,
		Quantity:     0,
		ReorderLevel: models.DefaultReorderLevel,
		UpdatedAt:    now,
	}

	err := s.store.RunInTx(ctx, func(ctx context.Context, tx repositories.Store) error {
		if err := tx.CreateProduct(ctx, product); err != nil {
			if errors.Is(err, repositories.ErrDuplicate) {
				return ErrSKUTaken
			}
			return fmt.Errorf("create product: %w", err)
		}
		if err := tx.CreateInventory(ctx, inventory); err != nil {
			return fmt.Errorf("create inventory: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{"productId": product.ID, "sku": product.SKU}).Info("product created")
	s.publisher.Publish(models.NewEvent(models.EventProductCreated, product))
	return product, nil
}

func (s *CatalogService) UpdateProduct(ctx context.Context, id string, req *models.UpdateProductRequest) (*models.Product, error) {
	product, err := s.store.GetProduct(ctx, id)
	if err != nil {
		return nil, orNotFound(err, ErrProductNotFound)
	}
	if req.Name != nil {
		product.Name = utils.SanitizeInput(*req.Name)
	}
	if req.Description != nil {
		product.Description = utils.SanitizeOptional(req.Description)
	}
	if req.Category != nil {
		product.Category = utils.SanitizeInput(*req.Category)
	}
	if req.BasePrice != nil {
		if req.BasePrice.IsNegative() {
			return nil, ErrInvalidAmount
		}
		product.BasePrice = models.NewMoney(req.BasePrice.Decimal)
	}
	if req.SKU != nil {
		product.SKU = utils.NormalizeSKU(*req.SKU)
	}
	if req.ImageURL != nil {
		product.ImageURL = req.ImageURL
	}
	if req.IsActive != nil {
		product.IsActive = *req.IsActive
	}

	if err := s.store.UpdateProduct(ctx, product); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, ErrSKUTaken
		}
		return nil, orNotFound(err, ErrProductNotFound)
	}
	s.publisher.Publish(models.NewEvent(models.EventProductUpdated, product))
	return product, nil
}

// DeleteProduct removes the product and its stock row. Past sales keep their
// productId.
func (s *CatalogService) DeleteProduct(ctx context.Context, id string) error {
	err := s.store.RunInTx(ctx, func(ctx context.Context, tx repositories.Store) error {
		if err := tx.DeleteProduct(ctx, id); err != nil {
			return orNotFound(err, ErrProductNotFound)
		}
		inv, err := tx.GetInventoryByProduct(ctx, id)
		if errors.Is(err, repositories.ErrNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		return tx.DeleteInventory(ctx, inv.ID)
	})
	if err != nil {
		return err
	}
	s.log.WithField("productId", id).Info("product deleted")
	s.publisher.Publish(models.NewEvent(models.EventProductDeleted, models.DeletedRef{ID: id}))
	return nil
}

// ListInventory returns every stock row with its product attached.
func (s *CatalogService) ListInventory(ctx context.Context) ([]*models.InventoryWithProduct, error) {
	return s.inventoryWithProducts(ctx, nil)
}

// LowStock returns rows at or below their reorder level.
func (s *CatalogService) LowStock(ctx context.Context) ([]*models.InventoryWithProduct, error) {
	return s.inventoryWithProducts(ctx, (*models.Inventory).IsLowStock)
}

func (s *CatalogService) inventoryWithProducts(ctx context.Context, keep func(*models.Inventory) bool) ([]*models.InventoryWithProduct, error) {
	rows, err := s.store.ListInventory(ctx)
	if err != nil {
		return nil, fmt.Errorf("list inventory: %w", err)
	}
	products, err := s.store.ListProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	byID := make(map[string]*models.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	out := make([]*models.InventoryWithProduct, 0, len(rows))
	for _, row := range rows {
		if keep != nil && !keep(row) {
			continue
		}
		out = append(out, &models.InventoryWithProduct{Inventory: *row, Product: byID[row.ProductID]})
	}
	return out, nil
}

// UpdateInventory sets quantity and/or reorder level. Raising the quantity
// counts as a restock.
func (s *CatalogService) UpdateInventory(ctx context.Context, id string, req *models.UpdateInventoryRequest) (*models.Inventory, error) {
	var updated *models.Inventory
	err := s.store.RunInTx(ctx, func(ctx context.Context, tx repositories.Store) error {
		inv, err := tx.GetInventory(ctx, id)
		if err != nil {
			return orNotFound(err, ErrInventoryNotFound)
		}
		now := s.now()
		if req.Quantity != nil {
			if *req.Quantity < 0 {
				return ErrNegativeStock
			}
			if *req.Quantity > inv.Quantity {
				inv.LastRestocked = &now
			}
			inv.Quantity = *req.Quantity
		}
		if req.ReorderLevel != nil {
			if *req.ReorderLevel < 0 {
				return ErrNegativeStock
			}
			inv.ReorderLevel = *req.ReorderLevel
		}
		inv.UpdatedAt = now
		if err := tx.UpdateInventory(ctx, inv); err != nil {
			return orNotFound(err, ErrInventoryNotFound)
		}
		updated = inv
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publisher.Publish(models.NewEvent(models.EventInventoryUpdated, updated))
	if updated.IsLowStock() {
		s.publisher.Publish(models.NewEvent(models.EventInventoryLowStock, updated))
	}
	return updated, nil
}

// InventoryForProduct returns the stock row of one product.
func (s *CatalogService) InventoryForProduct(ctx context.Context, productID string) (*models.Inventory, error) {
	inv, err := s.store.GetInventoryByProduct(ctx, productID)
	if err != nil {
		return nil, orNotFound(err, ErrInventoryNotFound)
	}
	return inv, nil
}
