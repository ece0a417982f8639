package services

import (
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HSouheill/mlm_backoffice/models"
)

func TestComputeCommissions(t *testing.T) {
	seller := &models.User{ID: "seller", CommissionRate: models.MustMoney("10.00")}
	sponsor := &models.User{ID: "sponsor", CommissionRate: models.MustMoney("10.00")}

	tests := []struct {
		name        string
		subtotal    string
		seller      *models.User
		sponsor     *models.User
		wantAmounts []string
		wantPct     []string
	}{
		{
			name:        "no sponsor earns direct only",
			subtotal:    "100.00",
			seller:      seller,
			wantAmounts: []string{"10.00"},
			wantPct:     []string{"10.00"},
		},
		{
			name:        "sponsor earns half of own rate",
			subtotal:    "200.00",
			seller:      seller,
			sponsor:     sponsor,
			wantAmounts: []string{"20.00", "10.00"},
			wantPct:     []string{"10.00", "5.00"},
		},
		{
			name:        "rates differ between seller and sponsor",
			subtotal:    "149.99",
			seller:      &models.User{ID: "seller", CommissionRate: models.MustMoney("12.50")},
			sponsor:     &models.User{ID: "sponsor", CommissionRate: models.MustMoney("8.00")},
			wantAmounts: []string{"18.75", "6.00"},
			wantPct:     []string{"12.50", "4.00"},
		},
		{
			name:        "half cent rounds up",
			subtotal:    "0.05",
			seller:      seller,
			wantAmounts: []string{"0.01"},
			wantPct:     []string{"10.00"},
		},
		{
			name:        "zero rate still produces a record",
			subtotal:    "50.00",
			seller:      &models.User{ID: "seller", CommissionRate: models.MustMoney("0")},
			wantAmounts: []string{"0.00"},
			wantPct:     []string{"0.00"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sale := &models.Sale{ID: "sale-1", Subtotal: models.MustMoney(tt.subtotal)}
			got := ComputeCommissions(sale, tt.seller, tt.sponsor, time.Now())

			require.Len(t, got, len(tt.wantAmounts))
			for i, c := range got {
				assert.Equal(t, tt.wantAmounts[i], c.Amount.String())
				assert.Equal(t, tt.wantPct[i], c.Percentage.String())
				assert.Equal(t, "sale-1", c.SaleID)
				assert.Equal(t, models.CommissionStatusPending, c.Status)
				assert.NotEmpty(t, c.ID)
			}
			assert.Equal(t, models.CommissionLevelDirect, got[0].Level)
			assert.Equal(t, tt.seller.ID, got[0].RepresentativeID)
			if tt.sponsor != nil {
				assert.Equal(t, models.CommissionLevelOverride, got[1].Level)
				assert.Equal(t, tt.sponsor.ID, got[1].RepresentativeID)
			}
		})
	}
}

func TestCommissionEngineSkipsMissingSponsor(t *testing.T) {
	f := newFixture(t)
	ghost := "deleted-sponsor"
	seller := f.rep(t, "orphan", "10", nil)
	seller.UplineID = &ghost

	sale := &models.Sale{ID: "s1", Subtotal: models.MustMoney("100")}
	got, err := f.engine.Compute(f.ctx, f.store, sale, seller)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "10.00", got[0].Amount.String())

	entry := f.hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, logrus.WarnLevel, entry.Level)
	assert.Equal(t, ghost, entry.Data["sponsorId"])
}

func TestCommissionEngineNeverGoesPastSponsor(t *testing.T) {
	f := newFixture(t)
	top := f.rep(t, "top", "20", nil)
	mid := f.rep(t, "mid", "15", top)
	seller := f.rep(t, "seller", "10", mid)

	sale := &models.Sale{ID: "s1", Subtotal: models.MustMoney("100")}
	got, err := f.engine.Compute(f.ctx, f.store, sale, seller)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, mid.ID, got[1].RepresentativeID)
	assert.Equal(t, "7.50", got[1].Amount.String())
}
