package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/HSouheill/mlm_backoffice/models"
	"github.com/HSouheill/mlm_backoffice/repositories"
	"github.com/HSouheill/mlm_backoffice/utils"
)

// CustomerService scopes customer access to the viewer: admins see and manage
// every customer, representatives only their own.
type CustomerService struct {
	store     repositories.Store
	publisher Publisher
	log       logrus.FieldLogger
}

func NewCustomerService(store repositories.Store, publisher Publisher, log logrus.FieldLogger) *CustomerService {
	return &CustomerService{store: store, publisher: publisher, log: log}
}

func (s *CustomerService) List(ctx context.Context, viewer *models.User) ([]*models.CustomerWithRepresentative, error) {
	var (
		customers []*models.Customer
		err       error
	)
	if viewer.IsAdmin() {
		customers, err = s.store.ListCustomers(ctx)
	} else {
		customers, err = s.store.ListCustomersByRepresentative(ctx, viewer.ID)
	}
	if err != nil {
		return nil, fmt.Errorf("list customers: %w", err)
	}

	reps := make(map[string]*models.User)
	out := make([]*models.CustomerWithRepresentative, 0, len(customers))
	for _, c := range customers {
		rep, ok := reps[c.RepresentativeID]
		if !ok {
			rep, err = s.store.GetUser(ctx, c.RepresentativeID)
			if err != nil && !errors.Is(err, repositories.ErrNotFound) {
				return nil, err
			}
			reps[c.RepresentativeID] = rep
		}
		out = append(out, &models.CustomerWithRepresentative{Customer: *c, Representative: rep})
	}
	return out, nil
}

func (s *CustomerService) Get(ctx context.Context, viewer *models.User, id string) (*models.Customer, error) {
	customer, err := s.store.GetCustomer(ctx, id)
	if err != nil {
		return nil, orNotFound(err, ErrCustomerNotFound)
	}
	if err := canManage(viewer, customer); err != nil {
		return nil, err
	}
	return customer, nil
}

// Create files the customer under the viewer when the viewer is a
// representative. Admins must name an existing representative.
func (s *CustomerService) Create(ctx context.Context, viewer *models.User, req *models.CreateCustomerRequest) (*models.Customer, error) {
	repID := req.RepresentativeID
	if !viewer.IsAdmin() {
		if repID != "" && repID != viewer.ID {
			return nil, ErrForbidden
		}
		repID = viewer.ID
	}
	phone, err := optionalPhone(req.Phone)
	if err != nil {
		return nil, err
	}

	customer := &models.Customer{
		ID:               uuid.NewString(),
		RepresentativeID: repID,
		Name:             utils.SanitizeInput(req.Name),
		Email:            utils.NormalizeEmail(req.Email),
		Phone:            phone,
		Address:          utils.SanitizeOptional(req.Address),
		CustomPricing:    utils.SanitizeOptional(req.CustomPricing),
		IsActive:         true,
		CreatedAt:        time.Now().UTC(),
	}
	if req.IsActive != nil {
		customer.IsActive = *req.IsActive
	}

	err = s.store.RunInTx(ctx, func(ctx context.Context, tx repositories.Store) error {
		rep, err := tx.GetUser(ctx, repID)
		if err != nil {
			return orNotFound(err, ErrRepresentativeNotFound)
		}
		if !rep.IsRepresentative() {
			return ErrRepresentativeNotFound
		}
		return tx.CreateCustomer(ctx, customer)
	})
	if err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{"customerId": customer.ID, "representativeId": repID}).Info("customer created")
	s.publisher.Publish(models.NewEvent(models.EventCustomerCreated, customer))
	return customer, nil
}

func (s *CustomerService) Update(ctx context.Context, viewer *models.User, id string, req *models.UpdateCustomerRequest) (*models.Customer, error) {
	customer, err := s.Get(ctx, viewer, id)
	if err != nil {
		return nil, err
	}
	if req.Name != nil {
		customer.Name = utils.SanitizeInput(*req.Name)
	}
	if req.Email != nil {
		customer.Email = utils.NormalizeEmail(*req.Email)
	}
	if req.Phone != nil {
		if customer.Phone, err = optionalPhone(req.Phone); err != nil {
			return nil, err
		}
	}
	if req.Address != nil {
		customer.Address = utils.SanitizeOptional(req.Address)
	}
	if req.CustomPricing != nil {
		customer.CustomPricing = utils.SanitizeOptional(req.CustomPricing)
	}
	if req.IsActive != nil {
		customer.IsActive = *req.IsActive
	}
	if err := s.store.UpdateCustomer(ctx, customer); err != nil {
		return nil, orNotFound(err, ErrCustomerNotFound)
	}
	s.publisher.Publish(models.NewEvent(models.EventCustomerUpdated, customer))
	return customer, nil
}

func (s *CustomerService) Delete(ctx context.Context, viewer *models.User, id string) error {
	if _, err := s.Get(ctx, viewer, id); err != nil {
		return err
	}
	if err := s.store.DeleteCustomer(ctx, id); err != nil {
		return orNotFound(err, ErrCustomerNotFound)
	}
	s.log.WithField("customerId", id).Info("customer deleted")
	s.publisher.Publish(models.NewEvent(models.EventCustomerDeleted, models.DeletedRef{ID: id}))
	return nil
}

func canManage(viewer *models.User, customer *models.Customer) error {
	if viewer.IsAdmin() || customer.RepresentativeID == viewer.ID {
		return nil
	}
	return ErrRepresentativeOwned
}
