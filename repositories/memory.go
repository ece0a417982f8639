package repositories

import (
	"context"
	"strings"
	"sync"

	"github.com/HSouheill/mlm_backoffice/models"
)

// table keeps rows by id and remembers insertion order. Rows are copied on the
// way in and out so callers never alias stored state.
type table[T any] struct {
	rows  map[string]*T
	order []string
}

func newTable[T any]() *table[T] {
	return &table[T]{rows: make(map[string]*T)}
}

func (t *table[T]) get(id string) (*T, bool) {
	row, ok := t.rows[id]
	if !ok {
		return nil, false
	}
	cp := *row
	return &cp, true
}

func (t *table[T]) find(match func(*T) bool) (*T, bool) {
	for _, id := range t.order {
		if row := t.rows[id]; match(row) {
			cp := *row
			return &cp, true
		}
	}
	return nil, false
}

func (t *table[T]) list(match func(*T) bool) []*T {
	out := make([]*T, 0, len(t.order))
	for _, id := range t.order {
		row := t.rows[id]
		if match != nil && !match(row) {
			continue
		}
		cp := *row
		out = append(out, &cp)
	}
	return out
}

func (t *table[T]) insert(id string, row *T) error {
	if _, exists := t.rows[id]; exists {
		return ErrDuplicate
	}
	cp := *row
	t.rows[id] = &cp
	t.order = append(t.order, id)
	return nil
}

func (t *table[T]) replace(id string, row *T) error {
	if _, exists := t.rows[id]; !exists {
		return ErrNotFound
	}
	cp := *row
	t.rows[id] = &cp
	return nil
}

func (t *table[T]) remove(id string) error {
	if _, exists := t.rows[id]; !exists {
		return ErrNotFound
	}
	delete(t.rows, id)
	for i, existing := range t.order {
		if existing == id {
			t.order = append(t.order[:i], t.order[i+1:]...)
			break
		}
	}
	return nil
}

func (t *table[T]) clone() *table[T] {
	c := &table[T]{
		rows:  make(map[string]*T, len(t.rows)),
		order: append([]string(nil), t.order...),
	}
	for id, row := range t.rows {
		cp := *row
		c.rows[id] = &cp
	}
	return c
}

type memData struct {
	users       *table[models.User]
	products    *table[models.Product]
	inventory   *table[models.Inventory]
	customers   *table[models.Customer]
	sales       *table[models.Sale]
	commissions *table[models.Commission]
}

func newMemData() *memData {
	return &memData{
		users:       newTable[models.User](),
		products:    newTable[models.Product](),
		inventory:   newTable[models.Inventory](),
		customers:   newTable[models.Customer](),
		sales:       newTable[models.Sale](),
		commissions: newTable[models.Commission](),
	}
}

func (d *memData) clone() *memData {
	return &memData{
		users:       d.users.clone(),
		products:    d.products.clone(),
		inventory:   d.inventory.clone(),
		customers:   d.customers.clone(),
		sales:       d.sales.clone(),
		commissions: d.commissions.clone(),
	}
}

func (d *memData) GetUser(_ context.Context, id string) (*models.User, error) {
	if u, ok := d.users.get(id); ok {
		return u, nil
	}
	return nil, ErrNotFound
}

func (d *memData) GetUserByUsername(_ context.Context, username string) (*models.User, error) {
	if u, ok := d.users.find(func(u *models.User) bool { return u.Username == username }); ok {
		return u, nil
	}
	return nil, ErrNotFound
}

func (d *memData) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	if u, ok := d.users.find(func(u *models.User) bool { return strings.EqualFold(u.Email, email) }); ok {
		return u, nil
	}
	return nil, ErrNotFound
}

func (d *memData) ListUsers(_ context.Context) ([]*models.User, error) {
	return d.users.list(nil), nil
}

func (d *memData) ListRepresentatives(_ context.Context) ([]*models.User, error) {
	return d.users.list(func(u *models.User) bool { return u.IsRepresentative() }), nil
}

func (d *memData) userConflicts(user *models.User) bool {
	_, taken := d.users.find(func(u *models.User) bool {
		return u.ID != user.ID && (u.Username == user.Username || strings.EqualFold(u.Email, user.Email))
	})
	return taken
}

func (d *memData) CreateUser(_ context.Context, user *models.User) error {
	if d.userConflicts(user) {
		return ErrDuplicate
	}
	return d.users.insert(user.ID, user)
}

func (d *memData) UpdateUser(_ context.Context, user *models.User) error {
	if d.userConflicts(user) {
		return ErrDuplicate
	}
	return d.users.replace(user.ID, user)
}

func (d *memData) DeleteUser(_ context.Context, id string) error {
	return d.users.remove(id)
}

func (d *memData) GetProduct(_ context.Context, id string) (*models.Product, error) {
	if p, ok := d.products.get(id); ok {
		return p, nil
	}
	return nil, ErrNotFound
}

func (d *memData) ListProducts(_ context.Context) ([]*models.Product, error) {
	return d.products.list(nil), nil
}

func (d *memData) skuTaken(product *models.Product) bool {
	_, taken := d.products.find(func(p *models.Product) bool {
		return p.ID != product.ID && strings.EqualFold(p.SKU, product.SKU)
	})
	return taken
}

func (d *memData) CreateProduct(_ context.Context, product *models.Product) error {
	if d.skuTaken(product) {
		return ErrDuplicate
	}
	return d.products.insert(product.ID, product)
}

func (d *memData) UpdateProduct(_ context.Context, product *models.Product) error {
	if d.skuTaken(product) {
		return ErrDuplicate
	}
	return d.products.replace(product.ID, product)
}

func (d *memData) DeleteProduct(_ context.Context, id string) error {
	return d.products.remove(id)
}

func (d *memData) GetInventory(_ context.Context, id string) (*models.Inventory, error) {
	if inv, ok := d.inventory.get(id); ok {
		return inv, nil
	}
	return nil, ErrNotFound
}

func (d *memData) GetInventoryByProduct(_ context.Context, productID string) (*models.Inventory, error) {
	if inv, ok := d.inventory.find(func(i *models.Inventory) bool { return i.ProductID == productID }); ok {
		return inv, nil
	}
	return nil, ErrNotFound
}

func (d *memData) ListInventory(_ context.Context) ([]*models.Inventory, error) {
	return d.inventory.list(nil), nil
}

func (d *memData) CreateInventory(_ context.Context, inv *models.Inventory) error {
	return d.inventory.insert(inv.ID, inv)
}

func (d *memData) UpdateInventory(_ context.Context, inv *models.Inventory) error {
	return d.inventory.replace(inv.ID, inv)
}

func (d *memData) DeleteInventory(_ context.Context, id string) error {
	return d.inventory.remove(id)
}

func (d *memData) DecrementStock(ctx context.Context, productID string, qty int) (*models.Inventory, error) {
	inv, err := d.GetInventoryByProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	inv.Quantity -= qty
	if inv.Quantity < 0 {
		inv.Quantity = 0
	}
	inv.UpdatedAt = now()
	if err := d.inventory.replace(inv.ID, inv); err != nil {
		return nil, err
	}
	return inv, nil
}

func (d *memData) GetCustomer(_ context.Context, id string) (*models.Customer, error) {
	if c, ok := d.customers.get(id); ok {
		return c, nil
	}
	return nil, ErrNotFound
}

func (d *memData) ListCustomers(_ context.Context) ([]*models.Customer, error) {
	return d.customers.list(nil), nil
}

func (d *memData) ListCustomersByRepresentative(_ context.Context, repID string) ([]*models.Customer, error) {
	return d.customers.list(func(c *models.Customer) bool { return c.RepresentativeID == repID }), nil
}

func (d *memData) CreateCustomer(_ context.Context, customer *models.Customer) error {
	return d.customers.insert(customer.ID, customer)
}

func (d *memData) UpdateCustomer(_ context.Context, customer *models.Customer) error {
	return d.customers.replace(customer.ID, customer)
}

func (d *memData) DeleteCustomer(_ context.Context, id string) error {
	return d.customers.remove(id)
}

func (d *memData) GetSale(_ context.Context, id string) (*models.Sale, error) {
	if s, ok := d.sales.get(id); ok {
		return s, nil
	}
	return nil, ErrNotFound
}

func (d *memData) ListSales(_ context.Context) ([]*models.Sale, error) {
	return d.sales.list(nil), nil
}

func (d *memData) ListSalesByRepresentative(_ context.Context, repID string) ([]*models.Sale, error) {
	return d.sales.list(func(s *models.Sale) bool { return s.RepresentativeID == repID }), nil
}

func (d *memData) CreateSale(_ context.Context, sale *models.Sale) error {
	return d.sales.insert(sale.ID, sale)
}

func (d *memData) GetCommission(_ context.Context, id string) (*models.Commission, error) {
	if c, ok := d.commissions.get(id); ok {
		return c, nil
	}
	return nil, ErrNotFound
}

func (d *memData) ListCommissions(_ context.Context) ([]*models.Commission, error) {
	return d.commissions.list(nil), nil
}

func (d *memData) ListCommissionsByRepresentative(_ context.Context, repID string) ([]*models.Commission, error) {
	return d.commissions.list(func(c *models.Commission) bool { return c.RepresentativeID == repID }), nil
}

func (d *memData) ListCommissionsBySale(_ context.Context, saleID string) ([]*models.Commission, error) {
	return d.commissions.list(func(c *models.Commission) bool { return c.SaleID == saleID }), nil
}

func (d *memData) CreateCommission(_ context.Context, commission *models.Commission) error {
	return d.commissions.insert(commission.ID, commission)
}

func (d *memData) UpdateCommission(_ context.Context, commission *models.Commission) error {
	return d.commissions.replace(commission.ID, commission)
}

// memTx is the view handed to RunInTx callbacks. The store lock is already
// held, so it talks to memData directly.
type memTx struct {
	*memData
}

func (t memTx) RunInTx(ctx context.Context, fn func(ctx context.Context, tx Store) error) error {
	return fn(ctx, t)
}

func (t memTx) Ping(context.Context) error  { return nil }
func (t memTx) Close(context.Context) error { return nil }

// MemoryStore is a process-local Store. Every call is serialized by one
// RWMutex; RunInTx holds the write lock for the whole callback and restores a
// snapshot if the callback fails.
type MemoryStore struct {
	mu   sync.RWMutex
	data *memData
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: newMemData()}
}

func (s *MemoryStore) RunInTx(ctx context.Context, fn func(ctx context.Context, tx Store) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.data.clone()
	if err := fn(ctx, memTx{s.data}); err != nil {
		s.data = snapshot
		return err
	}
	return nil
}

func (s *MemoryStore) Ping(context.Context) error  { return nil }
func (s *MemoryStore) Close(context.Context) error { return nil }

func (s *MemoryStore) GetUser(ctx context.Context, id string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data.GetUser(ctx, id)
}

func (s *MemoryStore) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data.GetUserByUsername(ctx, username)
}

func (s *MemoryStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data.GetUserByEmail(ctx, email)
}

func (s *MemoryStore) ListUsers(ctx context.Context) ([]*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data.ListUsers(ctx)
}

func (s *MemoryStore) ListRepresentatives(ctx context.Context) ([]*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data.ListRepresentatives(ctx)
}

func (s *MemoryStore) CreateUser(ctx context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data.CreateUser(ctx, user)
}

func (s *MemoryStore) UpdateUser(ctx context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data.UpdateUser(ctx, user)
}

func (s *MemoryStore) DeleteUser(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data.DeleteUser(ctx, id)
}

func (s *MemoryStore) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data.GetProduct(ctx, id)
}

func (s *MemoryStore) ListProducts(ctx context.Context) ([]*models.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data.ListProducts(ctx)
}

func (s *MemoryStore) CreateProduct(ctx context.Context, product *models.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data.CreateProduct(ctx, product)
}

func (s *MemoryStore) UpdateProduct(ctx context.Context, product *models.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data.UpdateProduct(ctx, product)
}

func (s *MemoryStore) DeleteProduct(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data.DeleteProduct(ctx, id)
}

func (s *MemoryStore) GetInventory(ctx context.Context, id string) (*models.Inventory, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data.GetInventory(ctx, id)
}

func (s *MemoryStore) GetInventoryByProduct(ctx context.Context, productID string) (*models.Inventory, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data.GetInventoryByProduct(ctx, productID)
}

func (s *MemoryStore) ListInventory(ctx context.Context) ([]*models.Inventory, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data.ListInventory(ctx)
}

func (s *MemoryStore) CreateInventory(ctx context.Context, inv *models.Inventory) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data.CreateInventory(ctx, inv)
}

func (s *MemoryStore) UpdateInventory(ctx context.Context, inv *models.Inventory) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data.UpdateInventory(ctx, inv)
}

func (s *MemoryStore) DeleteInventory(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data.DeleteInventory(ctx, id)
}

func (s *MemoryStore) DecrementStock(ctx context.Context, productID string, qty int) (*models.Inventory, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data.DecrementStock(ctx, productID, qty)
}

func (s *MemoryStore) GetCustomer(ctx context.Context, id string) (*models.Customer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data.GetCustomer(ctx, id)
}

func (s *MemoryStore) ListCustomers(ctx context.Context) ([]*models.Customer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data.ListCustomers(ctx)
}

func (s *MemoryStore) ListCustomersByRepresentative(ctx context.Context, repID string) ([]*models.Customer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data.ListCustomersByRepresentative(ctx, repID)
}

func (s *MemoryStore) CreateCustomer(ctx context.Context, customer *models.Customer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data.CreateCustomer(ctx, customer)
}

func (s *MemoryStore) UpdateCustomer(ctx context.Context, customer *models.Customer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data.UpdateCustomer(ctx, customer)
}

func (s *MemoryStore) DeleteCustomer(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data.DeleteCustomer(ctx, id)
}

func (s *MemoryStore) GetSale(ctx context.Context, id string) (*models.Sale, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data.GetSale(ctx, id)
}

func (s *MemoryStore) ListSales(ctx context.Context) ([]*models.Sale, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data.ListSales(ctx)
}

func (s *MemoryStore) ListSalesByRepresentative(ctx context.Context, repID string) ([]*models.Sale, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data.ListSalesByRepresentative(ctx, repID)
}

func (s *MemoryStore) CreateSale(ctx context.Context, sale *models.Sale) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data.CreateSale(ctx, sale)
}

func (s *MemoryStore) GetCommission(ctx context.Context, id string) (*models.Commission, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data.GetCommission(ctx, id)
}

func (s *MemoryStore) ListCommissions(ctx context.Context) ([]*models.Commission, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data.ListCommissions(ctx)
}

func (s *MemoryStore) ListCommissionsByRepresentative(ctx context.Context, repID string) ([]*models.Commission, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data.ListCommissionsByRepresentative(ctx, repID)
}

func (s *MemoryStore) ListCommissionsBySale(ctx context.Context, saleID string) ([]*models.Commission, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data.ListCommissionsBySale(ctx, saleID)
}

func (s *MemoryStore) CreateCommission(ctx context.Context, commission *models.Commission) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data.CreateCommission(ctx, commission)
}

func (s *MemoryStore) UpdateCommission(ctx context.Context, commission *models.Commission) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data.UpdateCommission(ctx, commission)
}
