package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"

	"github.com/HSouheill/mlm_backoffice/models"
	"github.com/HSouheill/mlm_backoffice/repositories"
)

type fixture struct {
	ctx         context.Context
	store       *repositories.MemoryStore
	pub         *RecordingPublisher
	log         *logrus.Logger
	hook        *logtest.Hook
	engine      *CommissionEngine
	sales       *SalesService
	chain       *SalesChainService
	dashboard   *DashboardService
	reps        *RepresentativeService
	catalog     *CatalogService
	customers   *CustomerService
	commissions *CommissionService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	log, hook := logtest.NewNullLogger()
	log.SetLevel(logrus.DebugLevel)

	store := repositories.NewMemoryStore()
	pub := &RecordingPublisher{}
	engine := NewCommissionEngine(log)
	return &fixture{
		ctx:         context.Background(),
		store:       store,
		pub:         pub,
		log:         log,
		hook:        hook,
		engine:      engine,
		sales:       NewSalesService(store, engine, pub, log),
		chain:       NewSalesChainService(store, DefaultMaxChainDepth, log),
		dashboard:   NewDashboardService(store),
		reps:        NewRepresentativeService(store, pub, log),
		catalog:     NewCatalogService(store, pub, log),
		customers:   NewCustomerService(store, pub, log),
		commissions: NewCommissionService(store, pub, log),
	}
}

// user inserts a user straight into the store, skipping password hashing.
func (f *fixture) user(t *testing.T, name string, role models.Role, rate string, upline *models.User) *models.User {
	t.Helper()
	u := &models.User{
		ID:             uuid.NewString(),
		Username:       name,
		Email:          name + "@example.com",
		FullName:       name,
		Role:           role,
		CommissionRate: models.MustMoney(rate),
		IsActive:       true,
		CreatedAt:      time.Now().UTC(),
	}
	if upline != nil {
		id := upline.ID
		u.UplineID = &id
	}
	require.NoError(t, f.store.CreateUser(f.ctx, u))
	return u
}

func (f *fixture) rep(t *testing.T, name, rate string, upline *models.User) *models.User {
	t.Helper()
	return f.user(t, name, models.RoleRepresentative, rate, upline)
}

func (f *fixture) product(t *testing.T, name, price string, stock int) *models.Product {
	t.Helper()
	p, err := f.catalog.CreateProduct(f.ctx, &models.CreateProductRequest{
		Name:      name,
		Category:  "General",
		BasePrice: models.MustMoney(price),
	})
	require.NoError(t, err)
	inv, err := f.catalog.InventoryForProduct(f.ctx, p.ID)
	require.NoError(t, err)
	_, err = f.catalog.UpdateInventory(f.ctx, inv.ID, &models.UpdateInventoryRequest{Quantity: &stock})
	require.NoError(t, err)
	return p
}

func (f *fixture) customer(t *testing.T, rep *models.User, name string) *models.Customer {
	t.Helper()
	c, err := f.customers.Create(f.ctx, rep, &models.CreateCustomerRequest{
		Name:  name,
		Email: name + "@customers.test",
	})
	require.NoError(t, err)
	return c
}

func (f *fixture) sell(t *testing.T, rep *models.User, customer *models.Customer, product *models.Product, qty int) *models.SaleResult {
	t.Helper()
	res, err := f.sales.RecordSale(f.ctx, &models.CreateSaleRequest{
		ProductID:        product.ID,
		CustomerID:       customer.ID,
		RepresentativeID: rep.ID,
		Quantity:         qty,
	})
	require.NoError(t, err)
	return res
}

func money(s string) *models.Money {
	m := models.MustMoney(s)
	return &m
}
