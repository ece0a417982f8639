package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HSouheill/mlm_backoffice/models"
)

func TestCommissionStatusTransitions(t *testing.T) {
	f := newFixture(t)
	a := f.rep(t, "a", "10", nil)
	b := f.rep(t, "b", "10", a)
	product := f.product(t, "Widget", "100.00", 10)
	customer := f.customer(t, b, "carol")
	res := f.sell(t, b, customer, product, 1)
	direct := res.Commissions[0]

	paidAt := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	f.commissions.now = func() time.Time { return paidAt }

	paid, err := f.commissions.UpdateStatus(f.ctx, direct.ID, models.CommissionStatusPaid)
	require.NoError(t, err)
	assert.Equal(t, models.CommissionStatusPaid, paid.Status)
	require.NotNil(t, paid.PaidAt)
	assert.Equal(t, paidAt, *paid.PaidAt)
	assert.Equal(t, direct.Amount.String(), paid.Amount.String())

	pendingOnly, err := f.commissions.List(f.ctx, models.CommissionStatusPending)
	require.NoError(t, err)
	require.Len(t, pendingOnly, 1)
	assert.Equal(t, a.ID, pendingOnly[0].RepresentativeID)

	back, err := f.commissions.UpdateStatus(f.ctx, direct.ID, models.CommissionStatusPending)
	require.NoError(t, err)
	assert.Nil(t, back.PaidAt)

	_, err = f.commissions.UpdateStatus(f.ctx, direct.ID, "cancelled")
	assert.ErrorIs(t, err, ErrInvalidStatus)
	_, err = f.commissions.UpdateStatus(f.ctx, "missing", models.CommissionStatusPaid)
	assert.ErrorIs(t, err, ErrCommissionNotFound)
	_, err = f.commissions.List(f.ctx, "bogus")
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestCommissionListings(t *testing.T) {
	f := newFixture(t)
	a := f.rep(t, "a", "10", nil)
	b := f.rep(t, "b", "10", a)
	product := f.product(t, "Widget", "100.00", 10)
	customer := f.customer(t, b, "carol")
	res := f.sell(t, b, customer, product, 1)

	forSale, err := f.commissions.ListForSale(f.ctx, res.Sale.ID)
	require.NoError(t, err)
	assert.Len(t, forSale, 2)

	forA, err := f.commissions.ListForRepresentative(f.ctx, a.ID)
	require.NoError(t, err)
	require.Len(t, forA, 1)
	assert.Equal(t, models.CommissionLevelOverride, forA[0].Level)

	_, err = f.commissions.ListForSale(f.ctx, "missing")
	assert.ErrorIs(t, err, ErrSaleNotFound)
}
