package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/HSouheill/mlm_backoffice/models"
	"github.com/HSouheill/mlm_backoffice/repositories"
)

// CommissionService lists commission records and moves them between pending
// and paid. Amounts never change after creation.
type CommissionService struct {
	store     repositories.Store
	publisher Publisher
	log       logrus.FieldLogger
	now       func() time.Time
}

func NewCommissionService(store repositories.Store, publisher Publisher, log logrus.FieldLogger) *CommissionService {
	return &CommissionService{
		store:     store,
		publisher: publisher,
		log:       log,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// List returns every commission, newest first, optionally filtered by status.
func (s *CommissionService) List(ctx context.Context, status string) ([]*models.Commission, error) {
	if status != "" && !validCommissionStatus(status) {
		return nil, ErrInvalidStatus
	}
	all, err := s.store.ListCommissions(ctx)
	if err != nil {
		return nil, fmt.Errorf("list commissions: %w", err)
	}
	out := all[:0]
	for _, c := range all {
		if status == "" || c.Status == status {
			out = append(out, c)
		}
	}
	newestFirst(out)
	return out, nil
}

func (s *CommissionService) ListForRepresentative(ctx context.Context, representativeID string) ([]*models.Commission, error) {
	out, err := s.store.ListCommissionsByRepresentative(ctx, representativeID)
	if err != nil {
		return nil, fmt.Errorf("list commissions: %w", err)
	}
	newestFirst(out)
	return out, nil
}

func (s *CommissionService) ListForSale(ctx context.Context, saleID string) ([]*models.Commission, error) {
	if _, err := s.store.GetSale(ctx, saleID); err != nil {
		return nil, orNotFound(err, ErrSaleNotFound)
	}
	return s.store.ListCommissionsBySale(ctx, saleID)
}

// UpdateStatus marks a commission paid (stamping paidAt) or back to pending
// (clearing it).
func (s *CommissionService) UpdateStatus(ctx context.Context, id, status string) (*models.Commission, error) {
	if !validCommissionStatus(status) {
		return nil, ErrInvalidStatus
	}
	commission, err := s.store.GetCommission(ctx, id)
	if err != nil {
		return nil, orNotFound(err, ErrCommissionNotFound)
	}

	commission.Status = status
	if status == models.CommissionStatusPaid {
		if commission.PaidAt == nil {
			paidAt := s.now()
			commission.PaidAt = &paidAt
		}
	} else {
		commission.PaidAt = nil
	}
	if err := s.store.UpdateCommission(ctx, commission); err != nil {
		return nil, orNotFound(err, ErrCommissionNotFound)
	}

	s.log.WithFields(logrus.Fields{"commissionId": id, "status": status}).Info("commission status changed")
	s.publisher.Publish(models.NewEvent(models.EventCommissionUpdated, commission))
	return commission, nil
}

func validCommissionStatus(status string) bool {
	return status == models.CommissionStatusPending || status == models.CommissionStatusPaid
}

func newestFirst(commissions []*models.Commission) {
	sort.SliceStable(commissions, func(i, j int) bool {
		return commissions[i].CreatedAt.After(commissions[j].CreatedAt)
	})
}
