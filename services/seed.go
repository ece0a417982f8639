package services

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/HSouheill/mlm_backoffice/models"
	"github.com/HSouheill/mlm_backoffice/repositories"
)

// Seeder loads a fixed demo dataset through the regular services so sales get
// real commissions and stock movement.
type Seeder struct {
	store       repositories.Store
	reps        *RepresentativeService
	catalog     *CatalogService
	customers   *CustomerService
	sales       *SalesService
	commissions *CommissionService
	log         logrus.FieldLogger
}

func NewSeeder(store repositories.Store, reps *RepresentativeService, catalog *CatalogService, customers *CustomerService, sales *SalesService, commissions *CommissionService, log logrus.FieldLogger) *Seeder {
	return &Seeder{
		store:       store,
		reps:        reps,
		catalog:     catalog,
		customers:   customers,
		sales:       sales,
		commissions: commissions,
		log:         log,
	}
}

type seedSale struct {
	customer, product, quantity int
}

var (
	seedStock = []int{80, 50, 30}

	// customer index, product index, quantity
	seedSales = []seedSale{
		{0, 0, 2}, {2, 1, 1}, {1, 2, 3}, {0, 1, 1}, {2, 0, 4},
		{1, 0, 1}, {2, 2, 2}, {0, 2, 5}, {1, 1, 2}, {2, 1, 3},
	}
)

func strPtr(s string) *string { return &s }

// Seed is a no-op when any user already exists.
func (s *Seeder) Seed(ctx context.Context) error {
	existing, err := s.store.ListUsers(ctx)
	if err != nil {
		return fmt.Errorf("check existing users: %w", err)
	}
	if len(existing) > 0 {
		s.log.Info("store already has users, skipping demo seed")
		return nil
	}

	zero := models.MustMoney("0")
	admin, err := s.reps.Create(ctx, &models.CreateUserRequest{
		Username:       "admin",
		Password:       "admin123",
		Email:          "admin@mlm.com",
		FullName:       "Admin User",
		Role:           models.RoleAdmin,
		Phone:          strPtr("+1234567890"),
		CommissionRate: &zero,
	})
	if err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}
	rep1, err := s.reps.Create(ctx, &models.CreateUserRequest{
		Username: "rep1",
		Password: "rep123",
		Email:    "rep1@mlm.com",
		FullName: "John Smith",
		Phone:    strPtr("+1234567891"),
	})
	if err != nil {
		return fmt.Errorf("seed rep1: %w", err)
	}
	rep2, err := s.reps.Create(ctx, &models.CreateUserRequest{
		Username: "rep2",
		Password: "rep123",
		Email:    "rep2@mlm.com",
		FullName: "Sarah Johnson",
		Phone:    strPtr("+1234567892"),
		UplineID: &rep1.ID,
	})
	if err != nil {
		return fmt.Errorf("seed rep2: %w", err)
	}

	productReqs := []models.CreateProductRequest{
		{Name: "Premium Widget", Description: strPtr("High-quality widget for all your needs"), Category: "Electronics", BasePrice: models.MustMoney("99.99"), SKU: "WIDGET-001"},
		{Name: "Deluxe Gadget", Description: strPtr("Advanced gadget with multiple features"), Category: "Electronics", BasePrice: models.MustMoney("149.99"), SKU: "GADGET-001"},
		{Name: "Essential Kit", Description: strPtr("Everything you need in one package"), Category: "Health", BasePrice: models.MustMoney("79.99"), SKU: "KIT-001"},
	}
	products := make([]*models.Product, 0, len(productReqs))
	for i := range productReqs {
		product, err := s.catalog.CreateProduct(ctx, &productReqs[i])
		if err != nil {
			return fmt.Errorf("seed product %s: %w", productReqs[i].Name, err)
		}
		inv, err := s.catalog.InventoryForProduct(ctx, product.ID)
		if err != nil {
			return err
		}
		if _, err := s.catalog.UpdateInventory(ctx, inv.ID, &models.UpdateInventoryRequest{Quantity: &seedStock[i]}); err != nil {
			return fmt.Errorf("seed stock for %s: %w", product.Name, err)
		}
		products = append(products, product)
	}

	customerSeeds := []struct {
		rep *models.User
		req models.CreateCustomerRequest
	}{
		{rep1, models.CreateCustomerRequest{Name: "Alice Johnson", Email: "alice@example.com", Phone: strPtr("+1234567893"), Address: strPtr("123 Main St, City, State")}},
		{rep1, models.CreateCustomerRequest{Name: "Bob Williams", Email: "bob@example.com", Phone: strPtr("+1234567894"), Address: strPtr("456 Oak Ave, City, State")}},
		{rep2, models.CreateCustomerRequest{Name: "Carol Davis", Email: "carol@example.com", Phone: strPtr("+1234567895"), Address: strPtr("789 Pine St, City, State")}},
	}
	customers := make([]*models.Customer, 0, len(customerSeeds))
	for i := range customerSeeds {
		customer, err := s.customers.Create(ctx, customerSeeds[i].rep, &customerSeeds[i].req)
		if err != nil {
			return fmt.Errorf("seed customer %s: %w", customerSeeds[i].req.Name, err)
		}
		customers = append(customers, customer)
	}

	recorded := 0
	for i, plan := range seedSales {
		customer := customers[plan.customer]
		result, err := s.sales.RecordSale(ctx, &models.CreateSaleRequest{
			ProductID:        products[plan.product].ID,
			CustomerID:       customer.ID,
			RepresentativeID: customer.RepresentativeID,
			Quantity:         plan.quantity,
			PaymentStatus:    models.PaymentStatusPaid,
			DeliveryStatus:   models.DeliveryStatusDelivered,
		})
		if err != nil {
			return fmt.Errorf("seed sale %d: %w", i, err)
		}
		recorded++
		// Settle the direct commission on roughly two thirds of the sales.
		if i%3 != 2 {
			if _, err := s.commissions.UpdateStatus(ctx, result.Commissions[0].ID, models.CommissionStatusPaid); err != nil {
				return fmt.Errorf("seed commission status: %w", err)
			}
		}
	}

	s.log.WithFields(logrus.Fields{
		"adminId":   admin.ID,
		"products":  len(products),
		"customers": len(customers),
		"sales":     recorded,
	}).Info("demo data seeded")
	return nil
}
