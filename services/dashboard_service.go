package services

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/HSouheill/mlm_backoffice/models"
	"github.com/HSouheill/mlm_backoffice/repositories"
)

// DashboardService computes the KPI cards. Every figure is recomputed from the
// store on each call.
type DashboardService struct {
	store repositories.Store
	now   func() time.Time
}

func NewDashboardService(store repositories.Store) *DashboardService {
	return &DashboardService{
		store: store,
		now:   func() time.Time { return time.Now().UTC() },
	}
}

// WithClock replaces the clock used for the recent-sales window.
func (s *DashboardService) WithClock(now func() time.Time) *DashboardService {
	s.now = now
	return s
}

// Stats returns the KPIs for the whole business when representativeID is
// empty, otherwise for that representative. Active representatives and low
// stock products are always global.
func (s *DashboardService) Stats(ctx context.Context, representativeID string) (*models.DashboardStats, error) {
	scoped := representativeID != ""

	var (
		sales       []*models.Sale
		commissions []*models.Commission
		customers   []*models.Customer
		err         error
	)
	if scoped {
		sales, err = s.store.ListSalesByRepresentative(ctx, representativeID)
	} else {
		sales, err = s.store.ListSales(ctx)
	}
	if err != nil {
		return nil, fmt.Errorf("list sales: %w", err)
	}
	if scoped {
		commissions, err = s.store.ListCommissionsByRepresentative(ctx, representativeID)
	} else {
		commissions, err = s.store.ListCommissions(ctx)
	}
	if err != nil {
		return nil, fmt.Errorf("list commissions: %w", err)
	}
	if scoped {
		customers, err = s.store.ListCustomersByRepresentative(ctx, representativeID)
	} else {
		customers, err = s.store.ListCustomers(ctx)
	}
	if err != nil {
		return nil, fmt.Errorf("list customers: %w", err)
	}
	reps, err := s.store.ListRepresentatives(ctx)
	if err != nil {
		return nil, fmt.Errorf("list representatives: %w", err)
	}
	inventory, err := s.store.ListInventory(ctx)
	if err != nil {
		return nil, fmt.Errorf("list inventory: %w", err)
	}

	stats := &models.DashboardStats{}
	since := s.now().Add(-RecentWindow)

	totalSales := decimal.Zero
	for _, sale := range sales {
		totalSales = totalSales.Add(sale.TotalAmount.Decimal)
		if !sale.CreatedAt.Before(since) {
			stats.RecentSales++
		}
	}
	totalCommissions := decimal.Zero
	for _, c := range commissions {
		totalCommissions = totalCommissions.Add(c.Amount.Decimal)
	}
	stats.TotalSales = totalSales.Round(2).InexactFloat64()
	stats.TotalCommissions = totalCommissions.Round(2).InexactFloat64()

	for _, rep := range reps {
		if rep.IsActive {
			stats.ActiveRepresentatives++
		}
	}
	for _, c := range customers {
		if c.IsActive {
			stats.ActiveCustomers++
		}
	}
	for _, inv := range inventory {
		if inv.IsLowStock() {
			stats.LowStockProducts++
		}
	}
	return stats, nil
}
