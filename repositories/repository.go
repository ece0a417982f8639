package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/HSouheill/mlm_backoffice/models"
)

var (
	_ Store = (*MemoryStore)(nil)
	_ Store = memTx{}
	_ Store = (*MongoStore)(nil)
)

var now = func() time.Time { return time.Now().UTC() }

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("duplicate record")
)

type UserRepository interface {
	GetUser(ctx context.Context, id string) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	ListUsers(ctx context.Context) ([]*models.User, error)
	ListRepresentatives(ctx context.Context) ([]*models.User, error)
	CreateUser(ctx context.Context, user *models.User) error
	UpdateUser(ctx context.Context, user *models.User) error
	DeleteUser(ctx context.Context, id string) error
}

type ProductRepository interface {
	GetProduct(ctx context.Context, id string) (*models.Product, error)
	ListProducts(ctx context.Context) ([]*models.Product, error)
	CreateProduct(ctx context.Context, product *models.Product) error
	UpdateProduct(ctx context.Context, product *models.Product) error
	DeleteProduct(ctx context.Context, id string) error
}

type InventoryRepository interface {
	GetInventory(ctx context.Context, id string) (*models.Inventory, error)
	GetInventoryByProduct(ctx context.Context, productID string) (*models.Inventory, error)
	ListInventory(ctx context.Context) ([]*models.Inventory, error)
	CreateInventory(ctx context.Context, inv *models.Inventory) error
	UpdateInventory(ctx context.Context, inv *models.Inventory) error
	DeleteInventory(ctx context.Context, id string) error
	// DecrementStock lowers the product's stock by qty, never below zero, and
	// returns the updated row. ErrNotFound when the product has no row.
	DecrementStock(ctx context.Context, productID string, qty int) (*models.Inventory, error)
}

type CustomerRepository interface {
	GetCustomer(ctx context.Context, id string) (*models.Customer, error)
	ListCustomers(ctx context.Context) ([]*models.Customer, error)
	ListCustomersByRepresentative(ctx context.Context, repID string) ([]*models.Customer, error)
	CreateCustomer(ctx context.Context, customer *models.Customer) error
	UpdateCustomer(ctx context.Context, customer *models.Customer) error
	DeleteCustomer(ctx context.Context, id string) error
}

type SaleRepository interface {
	GetSale(ctx context.Context, id string) (*models.Sale, error)
	ListSales(ctx context.Context) ([]*models.Sale, error)
	ListSalesByRepresentative(ctx context.Context, repID string) ([]*models.Sale, error)
	CreateSale(ctx context.Context, sale *models.Sale) error
}

type CommissionRepository interface {
	GetCommission(ctx context.Context, id string) (*models.Commission, error)
	ListCommissions(ctx context.Context) ([]*models.Commission, error)
	ListCommissionsByRepresentative(ctx context.Context, repID string) ([]*models.Commission, error)
	ListCommissionsBySale(ctx context.Context, saleID string) ([]*models.Commission, error)
	CreateCommission(ctx context.Context, commission *models.Commission) error
	UpdateCommission(ctx context.Context, commission *models.Commission) error
}

// Store is the persistence contract the services depend on. Lists return
// records in insertion order.
type Store interface {
	UserRepository
	ProductRepository
	InventoryRepository
	CustomerRepository
	SaleRepository
	CommissionRepository

	// RunInTx runs fn as one unit of work. Writes made through tx are
	// discarded if fn returns an error.
	RunInTx(ctx context.Context, fn func(ctx context.Context, tx Store) error) error
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}
