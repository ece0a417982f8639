package repositories

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HSouheill/mlm_backoffice/models"
)

func TestMemoryStoreKeepsInsertionOrder(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	for _, id := range []string{"c", "a", "b"} {
		require.NoError(t, s.CreateUser(ctx, &models.User{ID: id, Username: id, Email: id + "@x.test", Role: models.RoleRepresentative}))
	}
	users, err := s.ListRepresentatives(ctx)
	require.NoError(t, err)
	ids := make([]string, len(users))
	for i, u := range users {
		ids[i] = u.ID
	}
	assert.Equal(t, []string{"c", "a", "b"}, ids)

	require.NoError(t, s.DeleteUser(ctx, "a"))
	users, err = s.ListUsers(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 2)
	assert.ErrorIs(t, s.DeleteUser(ctx, "a"), ErrNotFound)
}

func TestMemoryStoreReturnsCopies(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	require.NoError(t, s.CreateProduct(ctx, &models.Product{ID: "p1", Name: "Widget", SKU: "W-1"}))

	p, err := s.GetProduct(ctx, "p1")
	require.NoError(t, err)
	p.Name = "changed"

	again, err := s.GetProduct(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, "Widget", again.Name)
}

func TestMemoryStoreDuplicates(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	require.NoError(t, s.CreateUser(ctx, &models.User{ID: "u1", Username: "rep", Email: "rep@x.test"}))
	assert.ErrorIs(t, s.CreateUser(ctx, &models.User{ID: "u2", Username: "rep", Email: "other@x.test"}), ErrDuplicate)
	assert.ErrorIs(t, s.CreateUser(ctx, &models.User{ID: "u3", Username: "other", Email: "REP@x.test"}), ErrDuplicate)
	assert.ErrorIs(t, s.CreateUser(ctx, &models.User{ID: "u1", Username: "x", Email: "x@x.test"}), ErrDuplicate)

	require.NoError(t, s.CreateProduct(ctx, &models.Product{ID: "p1", SKU: "KIT-1"}))
	assert.ErrorIs(t, s.CreateProduct(ctx, &models.Product{ID: "p2", SKU: "kit-1"}), ErrDuplicate)
	// Updating a row with its own SKU is not a conflict.
	assert.NoError(t, s.UpdateProduct(ctx, &models.Product{ID: "p1", SKU: "KIT-1", Name: "renamed"}))
}

func TestMemoryStoreDecrementStock(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	require.NoError(t, s.CreateInventory(ctx, &models.Inventory{ID: "i1", ProductID: "p1", Quantity: 5}))

	inv, err := s.DecrementStock(ctx, "p1", 3)
	require.NoError(t, err)
	assert.Equal(t, 2, inv.Quantity)

	inv, err = s.DecrementStock(ctx, "p1", 10)
	require.NoError(t, err)
	assert.Equal(t, 0, inv.Quantity)

	_, err = s.DecrementStock(ctx, "unknown", 1)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStoreRunInTxRollsBack(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	require.NoError(t, s.CreateInventory(ctx, &models.Inventory{ID: "i1", ProductID: "p1", Quantity: 5}))

	boom := errors.New("boom")
	err := s.RunInTx(ctx, func(ctx context.Context, tx Store) error {
		require.NoError(t, tx.CreateSale(ctx, &models.Sale{ID: "s1", CreatedAt: time.Now()}))
		_, err := tx.DecrementStock(ctx, "p1", 4)
		require.NoError(t, err)
		return boom
	})
	assert.ErrorIs(t, err, boom)

	sales, err := s.ListSales(ctx)
	require.NoError(t, err)
	assert.Empty(t, sales)
	inv, err := s.GetInventoryByProduct(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, 5, inv.Quantity)

	err = s.RunInTx(ctx, func(ctx context.Context, tx Store) error {
		return tx.CreateSale(ctx, &models.Sale{ID: "s2", CreatedAt: time.Now()})
	})
	require.NoError(t, err)
	_, err = s.GetSale(ctx, "s2")
	assert.NoError(t, err)
}
