package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/HSouheill/mlm_backoffice/models"
	"github.com/HSouheill/mlm_backoffice/repositories"
	"github.com/HSouheill/mlm_backoffice/utils"
)

// RepresentativeService manages user accounts and keeps the sponsor graph a
// forest.
type RepresentativeService struct {
	store     repositories.Store
	publisher Publisher
	log       logrus.FieldLogger
}

func NewRepresentativeService(store repositories.Store, publisher Publisher, log logrus.FieldLogger) *RepresentativeService {
	return &RepresentativeService{store: store, publisher: publisher, log: log}
}

func (s *RepresentativeService) List(ctx context.Context) ([]*models.User, error) {
	return s.store.ListRepresentatives(ctx)
}

func (s *RepresentativeService) Get(ctx context.Context, id string) (*models.User, error) {
	user, err := s.store.GetUser(ctx, id)
	if err != nil {
		return nil, orNotFound(err, ErrUserNotFound)
	}
	return user, nil
}

func (s *RepresentativeService) Create(ctx context.Context, req *models.CreateUserRequest) (*models.User, error) {
	rate := models.DefaultCommissionRate
	if req.CommissionRate != nil {
		rate = models.NewMoney(req.CommissionRate.Decimal)
	}
	if err := checkRate(rate); err != nil {
		return nil, err
	}
	hashed, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	phone, err := optionalPhone(req.Phone)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		ID:             uuid.NewString(),
		Username:       utils.NormalizeUsername(req.Username),
		Password:       hashed,
		Email:          utils.NormalizeEmail(req.Email),
		FullName:       utils.SanitizeInput(req.FullName),
		Role:           req.Role,
		Phone:          phone,
		CommissionRate: rate,
		IsActive:       true,
		CreatedAt:      time.Now().UTC(),
	}
	if user.Role == "" {
		user.Role = models.RoleRepresentative
	}
	if req.IsActive != nil {
		user.IsActive = *req.IsActive
	}
	if req.UplineID != nil && *req.UplineID != "" {
		upline := *req.UplineID
		user.UplineID = &upline
	}

	err = s.store.RunInTx(ctx, func(ctx context.Context, tx repositories.Store) error {
		if user.HasUpline() {
			if err := checkSponsor(ctx, tx, user.ID, *user.UplineID); err != nil {
				return err
			}
		}
		if err := tx.CreateUser(ctx, user); err != nil {
			if errors.Is(err, repositories.ErrDuplicate) {
				return ErrUsernameTaken
			}
			return fmt.Errorf("create user: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{"userId": user.ID, "role": user.Role}).Info("user created")
	s.publisher.Publish(models.NewEvent(models.EventRepresentativeCreated, user))
	return user, nil
}

// Update applies a partial update. Changing the sponsor is validated against
// the current graph inside the same unit of work as the write.
func (s *RepresentativeService) Update(ctx context.Context, id string, req *models.UpdateUserRequest) (*models.User, error) {
	var updated *models.User
	err := s.store.RunInTx(ctx, func(ctx context.Context, tx repositories.Store) error {
		user, err := tx.GetUser(ctx, id)
		if err != nil {
			return orNotFound(err, ErrUserNotFound)
		}

		if req.Username != nil {
			user.Username = utils.NormalizeUsername(*req.Username)
		}
		if req.Email != nil {
			user.Email = utils.NormalizeEmail(*req.Email)
		}
		if req.FullName != nil {
			user.FullName = utils.SanitizeInput(*req.FullName)
		}
		if req.Phone != nil {
			if user.Phone, err = optionalPhone(req.Phone); err != nil {
				return err
			}
		}
		if req.Password != nil {
			hashed, err := utils.HashPassword(*req.Password)
			if err != nil {
				return fmt.Errorf("hash password: %w", err)
			}
			user.Password = hashed
		}
		if req.CommissionRate != nil {
			rate := models.NewMoney(req.CommissionRate.Decimal)
			if err := checkRate(rate); err != nil {
				return err
			}
			user.CommissionRate = rate
		}
		if req.IsActive != nil {
			user.IsActive = *req.IsActive
		}

		switch {
		case req.ClearUpline:
			user.UplineID = nil
		case req.UplineID != nil && *req.UplineID == "":
			user.UplineID = nil
		case req.UplineID != nil:
			if err := checkSponsor(ctx, tx, user.ID, *req.UplineID); err != nil {
				return err
			}
			upline := *req.UplineID
			user.UplineID = &upline
		}

		if err := tx.UpdateUser(ctx, user); err != nil {
			if errors.Is(err, repositories.ErrDuplicate) {
				return ErrUsernameTaken
			}
			return orNotFound(err, ErrUserNotFound)
		}
		updated = user
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publisher.Publish(models.NewEvent(models.EventRepresentativeUpdated, updated))
	return updated, nil
}

// Delete removes the account. Its downline keeps the dangling sponsor id; the
// sales chain then treats those representatives as roots and their sales earn
// no override.
func (s *RepresentativeService) Delete(ctx context.Context, actorID, id string) error {
	if actorID == id {
		return ErrCannotDeleteSelf
	}
	if err := s.store.DeleteUser(ctx, id); err != nil {
		return orNotFound(err, ErrUserNotFound)
	}
	s.log.WithField("userId", id).Info("user deleted")
	s.publisher.Publish(models.NewEvent(models.EventRepresentativeDeleted, models.DeletedRef{ID: id}))
	return nil
}

// checkSponsor rejects a sponsor that is missing, is not a representative, or
// would close a loop: userID itself, or any representative already below
// userID. It walks the sponsor's upline to the root.
func checkSponsor(ctx context.Context, users repositories.UserRepository, userID, sponsorID string) error {
	if sponsorID == userID {
		return ErrSponsorCycle
	}
	sponsor, err := users.GetUser(ctx, sponsorID)
	if err != nil {
		return orNotFound(err, ErrSponsorNotFound)
	}
	if !sponsor.IsRepresentative() {
		return ErrSponsorNotEligible
	}

	seen := map[string]bool{sponsor.ID: true}
	for current := sponsor; current.HasUpline(); {
		next := *current.UplineID
		if next == userID {
			return ErrSponsorCycle
		}
		if seen[next] {
			// Pre-existing loop above the sponsor that does not involve userID.
			return ErrSponsorCycle
		}
		seen[next] = true
		current, err = users.GetUser(ctx, next)
		if errors.Is(err, repositories.ErrNotFound) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("walk upline: %w", err)
		}
	}
	return nil
}

func checkRate(rate models.Money) error {
	if rate.IsNegative() || rate.GreaterThan(decimal.NewFromInt(100)) {
		return ErrInvalidRate
	}
	return nil
}

func optionalPhone(phone *string) (*string, error) {
	if phone == nil {
		return nil, nil
	}
	clean, err := utils.SanitizePhone(*phone)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPhone, err)
	}
	if clean == "" {
		return nil, nil
	}
	return &clean, nil
}
