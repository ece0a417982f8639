package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/HSouheill/mlm_backoffice/models"
	"github.com/HSouheill/mlm_backoffice/repositories"
)

const maxRestockSuggestions = 3

// InsightService derives suggestions from current sales, stock and commission
// data. Each rule emits at most a few items and is skipped when its data is
// empty.
type InsightService struct {
	store repositories.Store
	now   func() time.Time
}

func NewInsightService(store repositories.Store) *InsightService {
	return &InsightService{
		store: store,
		now:   func() time.Time { return time.Now().UTC() },
	}
}

type insightData struct {
	products    map[string]*models.Product
	users       map[string]*models.User
	sales       []*models.Sale
	recent      []*models.Sale
	inventory   []*models.Inventory
	commissions []*models.Commission
	customers   []*models.Customer
}

func (s *InsightService) load(ctx context.Context) (*insightData, error) {
	products, err := s.store.ListProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	users, err := s.store.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	sales, err := s.store.ListSales(ctx)
	if err != nil {
		return nil, fmt.Errorf("list sales: %w", err)
	}
	inventory, err := s.store.ListInventory(ctx)
	if err != nil {
		return nil, fmt.Errorf("list inventory: %w", err)
	}
	commissions, err := s.store.ListCommissions(ctx)
	if err != nil {
		return nil, fmt.Errorf("list commissions: %w", err)
	}
	customers, err := s.store.ListCustomers(ctx)
	if err != nil {
		return nil, fmt.Errorf("list customers: %w", err)
	}

	d := &insightData{
		products:    make(map[string]*models.Product, len(products)),
		users:       make(map[string]*models.User, len(users)),
		sales:       sales,
		inventory:   inventory,
		commissions: commissions,
		customers:   customers,
	}
	for _, p := range products {
		d.products[p.ID] = p
	}
	for _, u := range users {
		d.users[u.ID] = u
	}
	since := s.now().Add(-RecentWindow)
	for _, sale := range sales {
		if !sale.CreatedAt.Before(since) {
			d.recent = append(d.recent, sale)
		}
	}
	return d, nil
}

// ForAdmin covers restocking, the strongest seller, the best moving product
// and unpaid commissions.
func (s *InsightService) ForAdmin(ctx context.Context) ([]models.Recommendation, error) {
	d, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	out := restockSuggestions(d)

	if repID, total, ok := topBy(d.recent, func(sale *models.Sale) string { return sale.RepresentativeID }); ok {
		if rep := d.users[repID]; rep != nil {
			out = append(out, models.Recommendation{
				Type:        "sales",
				Title:       "Top Performer This Month",
				Description: fmt.Sprintf("%s leads the last 30 days with $%s in sales. Consider sharing their approach with the team.", rep.FullName, total.StringFixed(2)),
				Confidence:  90,
				Action:      "View Sales Chain",
			})
		}
	}

	if productID, units, ok := topUnits(d.recent); ok {
		if product := d.products[productID]; product != nil {
			out = append(out, models.Recommendation{
				Type:        "pricing",
				Title:       "Review Product Pricing",
				Description: fmt.Sprintf("%s sold %d units in the last 30 days. Demand may support a price review.", product.Name, units),
				Confidence:  80,
				Action:      "Review Pricing",
			})
		}
	}

	if count, total := pending(d.commissions, ""); count > 0 {
		out = append(out, models.Recommendation{
			Type:        "sales",
			Title:       "Pending Commission Payouts",
			Description: fmt.Sprintf("%d commissions totalling $%s are awaiting payment.", count, total.StringFixed(2)),
			Confidence:  95,
			Action:      "Review Commissions",
		})
	}
	return out, nil
}

// ForRepresentative covers quiet customers, products the representative has
// not sold yet and their own unpaid commissions.
func (s *InsightService) ForRepresentative(ctx context.Context, rep *models.User) ([]models.Recommendation, error) {
	d, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	var out []models.Recommendation

	boughtRecently := make(map[string]bool)
	soldProducts := make(map[string]bool)
	var mine []*models.Sale
	for _, sale := range d.sales {
		if sale.RepresentativeID != rep.ID {
			continue
		}
		mine = append(mine, sale)
		soldProducts[sale.ProductID] = true
	}
	for _, sale := range d.recent {
		if sale.RepresentativeID == rep.ID {
			boughtRecently[sale.CustomerID] = true
		}
	}
	var quiet []*models.Customer
	for _, c := range d.customers {
		if c.RepresentativeID == rep.ID && c.IsActive && !boughtRecently[c.ID] {
			quiet = append(quiet, c)
		}
	}
	if len(quiet) > 0 {
		desc := fmt.Sprintf("%s has not ordered in the last 30 days. Schedule a follow-up call this week.", quiet[0].Name)
		if len(quiet) > 1 {
			desc = fmt.Sprintf("%s and %d other customers have not ordered in the last 30 days. Schedule follow-up calls this week.", quiet[0].Name, len(quiet)-1)
		}
		out = append(out, models.Recommendation{
			Type:        "lead",
			Title:       "Customers To Re-engage",
			Description: desc,
			Confidence:  85,
			Action:      "Contact Customer",
		})
	}

	var others []*models.Sale
	for _, sale := range d.recent {
		if !soldProducts[sale.ProductID] {
			others = append(others, sale)
		}
	}
	if productID, units, ok := topUnits(others); ok {
		if product := d.products[productID]; product != nil && product.IsActive {
			out = append(out, models.Recommendation{
				Type:        "product",
				Title:       "Cross-Sell Recommendation",
				Description: fmt.Sprintf("%s sold %d units across the team this month and is not in your sales yet. Offer it to your customers.", product.Name, units),
				Confidence:  78,
				Action:      "View Suggestions",
			})
		}
	}

	if count, total := pending(d.commissions, rep.ID); count > 0 {
		out = append(out, models.Recommendation{
			Type:        "sales",
			Title:       "Commissions Awaiting Payment",
			Description: fmt.Sprintf("You have %d pending commissions worth $%s.", count, total.StringFixed(2)),
			Confidence:  95,
		})
	}

	if len(mine) == 0 {
		out = append(out, models.Recommendation{
			Type:        "sales",
			Title:       "Record Your First Sale",
			Description: "You have no recorded sales yet. Start with your most engaged customer.",
			Confidence:  70,
			Action:      "Record Sale",
		})
	}
	return out, nil
}

func restockSuggestions(d *insightData) []models.Recommendation {
	var low []*models.Inventory
	for _, inv := range d.inventory {
		if inv.IsLowStock() && d.products[inv.ProductID] != nil {
			low = append(low, inv)
		}
	}
	sort.SliceStable(low, func(i, j int) bool { return low[i].Quantity < low[j].Quantity })
	if len(low) > maxRestockSuggestions {
		low = low[:maxRestockSuggestions]
	}

	out := make([]models.Recommendation, 0, len(low))
	for _, inv := range low {
		out = append(out, models.Recommendation{
			Type:        "product",
			Title:       "Stock Reorder Suggestion",
			Description: fmt.Sprintf("%s is down to %d units (reorder level %d).", d.products[inv.ProductID].Name, inv.Quantity, inv.ReorderLevel),
			Confidence:  94,
			Action:      "Restock Now",
		})
	}
	return out
}

// topBy returns the key with the highest summed sale total. Ties go to the
// key seen first.
func topBy(sales []*models.Sale, key func(*models.Sale) string) (string, decimal.Decimal, bool) {
	totals := make(map[string]decimal.Decimal)
	var order []string
	for _, sale := range sales {
		k := key(sale)
		if _, seen := totals[k]; !seen {
			order = append(order, k)
		}
		totals[k] = totals[k].Add(sale.TotalAmount.Decimal)
	}
	if len(order) == 0 {
		return "", decimal.Zero, false
	}
	best := order[0]
	for _, k := range order[1:] {
		if totals[k].GreaterThan(totals[best]) {
			best = k
		}
	}
	return best, totals[best], true
}

func topUnits(sales []*models.Sale) (string, int, bool) {
	units := make(map[string]int)
	var order []string
	for _, sale := range sales {
		if _, seen := units[sale.ProductID]; !seen {
			order = append(order, sale.ProductID)
		}
		units[sale.ProductID] += sale.Quantity
	}
	if len(order) == 0 {
		return "", 0, false
	}
	best := order[0]
	for _, k := range order[1:] {
		if units[k] > units[best] {
			best = k
		}
	}
	return best, units[best], true
}

func pending(commissions []*models.Commission, representativeID string) (int, decimal.Decimal) {
	count, total := 0, decimal.Zero
	for _, c := range commissions {
		if c.Status != models.CommissionStatusPending {
			continue
		}
		if representativeID != "" && c.RepresentativeID != representativeID {
			continue
		}
		count++
		total = total.Add(c.Amount.Decimal)
	}
	return count, total
}
