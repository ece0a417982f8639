package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/HSouheill/mlm_backoffice/metrics"
	"github.com/HSouheill/mlm_backoffice/models"
	"github.com/HSouheill/mlm_backoffice/repositories"
)

// RecentWindow bounds the "recent sales" list and KPI.
const RecentWindow = 30 * 24 * time.Hour

// SalesService records sales together with their commissions and stock
// movement, and serves the sales listings.
type SalesService struct {
	store     repositories.Store
	engine    *CommissionEngine
	publisher Publisher
	log       logrus.FieldLogger
	now       func() time.Time
}

func NewSalesService(store repositories.Store, engine *CommissionEngine, publisher Publisher, log logrus.FieldLogger) *SalesService {
	return &SalesService{
		store:     store,
		engine:    engine,
		publisher: publisher,
		log:       log,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// RecordSale prices the sale from the product's current base price, writes the
// sale, its commissions, the stock decrement and the earners' running totals
// as one unit of work, then publishes the resulting events.
func (s *SalesService) RecordSale(ctx context.Context, req *models.CreateSaleRequest) (*models.SaleResult, error) {
	if req.Quantity < 1 {
		return nil, ErrInvalidQuantity
	}
	discount, tax, shipping := optionalMoney(req.Discount), optionalMoney(req.Tax), optionalMoney(req.Shipping)
	if discount.IsNegative() || tax.IsNegative() || shipping.IsNegative() {
		return nil, ErrInvalidAmount
	}

	var (
		result    models.SaleResult
		inventory *models.Inventory
	)
	err := s.store.RunInTx(ctx, func(ctx context.Context, tx repositories.Store) error {
		seller, err := tx.GetUser(ctx, req.RepresentativeID)
		if err != nil {
			return orNotFound(err, ErrRepresentativeNotFound)
		}
		if !seller.IsRepresentative() {
			return ErrRepresentativeNotFound
		}
		if !seller.IsActive {
			return ErrRepresentativeInactive
		}
		product, err := tx.GetProduct(ctx, req.ProductID)
		if err != nil {
			return orNotFound(err, ErrProductNotFound)
		}
		if !product.IsActive {
			return ErrProductInactive
		}
		customer, err := tx.GetCustomer(ctx, req.CustomerID)
		if err != nil {
			return orNotFound(err, ErrCustomerNotFound)
		}
		if customer.RepresentativeID != seller.ID {
			return ErrRepresentativeOwned
		}

		subtotal := product.BasePrice.Mul(decimal.NewFromInt(int64(req.Quantity)))
		if discount.GreaterThan(subtotal) {
			return ErrDiscountTooLarge
		}
		total := subtotal.Sub(discount.Decimal).Add(tax.Decimal).Add(shipping.Decimal)

		sale := &models.Sale{
			ID:               uuid.NewString(),
			ProductID:        product.ID,
			CustomerID:       req.CustomerID,
			RepresentativeID: seller.ID,
			Quantity:         req.Quantity,
			UnitPrice:        product.BasePrice,
			Subtotal:         models.NewMoney(subtotal),
			Discount:         discount,
			Tax:              tax,
			Shipping:         shipping,
			TotalAmount:      models.NewMoney(total),
			Status:           models.SaleStatusCompleted,
			PaymentStatus:    valueOr(req.PaymentStatus, models.PaymentStatusPending),
			DeliveryStatus:   valueOr(req.DeliveryStatus, models.DeliveryStatusPending),
			CreatedAt:        s.now(),
		}

		commissions, err := s.engine.Compute(ctx, tx, sale, seller)
		if err != nil {
			return err
		}
		sale.CommissionAmount = commissions[0].Amount

		if err := tx.CreateSale(ctx, sale); err != nil {
			return fmt.Errorf("create sale: %w", err)
		}
		for _, c := range commissions {
			if err := tx.CreateCommission(ctx, c); err != nil {
				return fmt.Errorf("create commission: %w", err)
			}
		}
		if err := s.addToTotals(ctx, tx, seller, sale, commissions); err != nil {
			return err
		}

		inventory, err = tx.DecrementStock(ctx, product.ID, req.Quantity)
		if err != nil && !errors.Is(err, repositories.ErrNotFound) {
			return fmt.Errorf("decrement stock: %w", err)
		}

		result = models.SaleResult{Sale: sale, Commissions: commissions}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"saleId":           result.Sale.ID,
		"representativeId": result.Sale.RepresentativeID,
		"total":            result.Sale.TotalAmount.String(),
		"commissions":      len(result.Commissions),
	}).Info("sale recorded")

	metrics.SaleRecorded()
	s.publisher.Publish(models.NewEvent(models.EventSaleCreated, result.Sale))
	for _, c := range result.Commissions {
		metrics.CommissionCreated(c.Level.Int(), c.Amount.Float64())
		s.publisher.Publish(models.NewEvent(models.EventCommissionCreated, c))
	}
	if inventory != nil {
		s.publisher.Publish(models.NewEvent(models.EventInventoryUpdated, inventory))
	}
	return &result, nil
}

// addToTotals keeps the informational running totals on user records in step
// with the sale. Reports always recompute from sales and commissions.
func (s *SalesService) addToTotals(ctx context.Context, tx repositories.Store, seller *models.User, sale *models.Sale, commissions []*models.Commission) error {
	earned := make(map[string]decimal.Decimal, len(commissions))
	for _, c := range commissions {
		earned[c.RepresentativeID] = earned[c.RepresentativeID].Add(c.Amount.Decimal)
	}

	seller.TotalSales = models.NewMoney(seller.TotalSales.Add(sale.TotalAmount.Decimal))
	seller.TotalCommissions = models.NewMoney(seller.TotalCommissions.Add(earned[seller.ID]))
	if err := tx.UpdateUser(ctx, seller); err != nil {
		return fmt.Errorf("update seller totals: %w", err)
	}

	for _, c := range commissions {
		if c.RepresentativeID == seller.ID {
			continue
		}
		sponsor, err := tx.GetUser(ctx, c.RepresentativeID)
		if err != nil {
			return fmt.Errorf("load sponsor totals: %w", err)
		}
		sponsor.TotalCommissions = models.NewMoney(sponsor.TotalCommissions.Add(c.Amount.Decimal))
		if err := tx.UpdateUser(ctx, sponsor); err != nil {
			return fmt.Errorf("update sponsor totals: %w", err)
		}
	}
	return nil
}

// RecentSales returns sales from the last 30 days, newest first, with product
// and customer attached. An empty representativeID means every sale.
func (s *SalesService) RecentSales(ctx context.Context, representativeID string) ([]*models.SaleWithDetails, error) {
	sales, err := s.listSales(ctx, representativeID)
	if err != nil {
		return nil, err
	}
	since := s.now().Add(-RecentWindow)
	recent := sales[:0]
	for _, sale := range sales {
		if !sale.CreatedAt.Before(since) {
			recent = append(recent, sale)
		}
	}
	return s.withDetails(ctx, recent)
}

// SalesByRepresentative returns every sale made by one representative, newest first.
func (s *SalesService) SalesByRepresentative(ctx context.Context, representativeID string) ([]*models.SaleWithDetails, error) {
	sales, err := s.listSales(ctx, representativeID)
	if err != nil {
		return nil, err
	}
	return s.withDetails(ctx, sales)
}

func (s *SalesService) listSales(ctx context.Context, representativeID string) ([]*models.Sale, error) {
	var (
		sales []*models.Sale
		err   error
	)
	if representativeID == "" {
		sales, err = s.store.ListSales(ctx)
	} else {
		sales, err = s.store.ListSalesByRepresentative(ctx, representativeID)
	}
	if err != nil {
		return nil, fmt.Errorf("list sales: %w", err)
	}
	sort.SliceStable(sales, func(i, j int) bool {
		return sales[i].CreatedAt.After(sales[j].CreatedAt)
	})
	return sales, nil
}

func (s *SalesService) withDetails(ctx context.Context, sales []*models.Sale) ([]*models.SaleWithDetails, error) {
	products := make(map[string]*models.Product)
	customers := make(map[string]*models.Customer)
	out := make([]*models.SaleWithDetails, 0, len(sales))
	for _, sale := range sales {
		product, ok := products[sale.ProductID]
		if !ok {
			p, err := s.store.GetProduct(ctx, sale.ProductID)
			if err != nil && !errors.Is(err, repositories.ErrNotFound) {
				return nil, err
			}
			product, products[sale.ProductID] = p, p
		}
		customer, ok := customers[sale.CustomerID]
		if !ok {
			c, err := s.store.GetCustomer(ctx, sale.CustomerID)
			if err != nil && !errors.Is(err, repositories.ErrNotFound) {
				return nil, err
			}
			customer, customers[sale.CustomerID] = c, c
		}
		out = append(out, &models.SaleWithDetails{Sale: *sale, Product: product, Customer: customer})
	}
	return out, nil
}

func optionalMoney(m *models.Money) models.Money {
	if m == nil {
		return models.Money{}
	}
	return models.NewMoney(m.Decimal)
}

func valueOr(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
