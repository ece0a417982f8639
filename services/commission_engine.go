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
)

var (
	hundred = decimal.NewFromInt(100)

	// OverrideShare is the fraction of the sponsor's own rate paid on a
	// direct downline's sale. Fixed; there is no level beyond the sponsor.
	OverrideShare = decimal.RequireFromString("0.5")
)

// ComputeCommissions applies the two-level plan to a sale. The seller always
// earns a level 1 record; the sponsor earns a level 2 record only when it is
// given. The caller resolves the sponsor.
func ComputeCommissions(sale *models.Sale, seller, sponsor *models.User, at time.Time) []*models.Commission {
	base := sale.Subtotal.Decimal

	direct := &models.Commission{
		ID:               uuid.NewString(),
		RepresentativeID: seller.ID,
		SaleID:           sale.ID,
		Amount:           models.NewMoney(base.Mul(seller.CommissionRate.Decimal).Div(hundred)),
		Percentage:       seller.CommissionRate,
		Level:            models.CommissionLevelDirect,
		Status:           models.CommissionStatusPending,
		CreatedAt:        at,
	}
	out := []*models.Commission{direct}

	if sponsor == nil {
		return out
	}

	rate := sponsor.CommissionRate.Decimal
	out = append(out, &models.Commission{
		ID:               uuid.NewString(),
		RepresentativeID: sponsor.ID,
		SaleID:           sale.ID,
		Amount:           models.NewMoney(base.Mul(rate).Div(hundred).Mul(OverrideShare)),
		Percentage:       models.NewMoney(rate.Mul(OverrideShare)),
		Level:            models.CommissionLevelOverride,
		Status:           models.CommissionStatusPending,
		CreatedAt:        at,
	})
	return out
}

// CommissionEngine resolves the seller's sponsor and computes the records owed
// on a sale.
type CommissionEngine struct {
	log logrus.FieldLogger
}

func NewCommissionEngine(log logrus.FieldLogger) *CommissionEngine {
	return &CommissionEngine{log: log}
}

// Compute looks the sponsor up through users. A sponsor that no longer exists
// only costs the level 2 record; it is logged and not returned as an error.
func (e *CommissionEngine) Compute(ctx context.Context, users repositories.UserRepository, sale *models.Sale, seller *models.User) ([]*models.Commission, error) {
	var sponsor *models.User
	if seller.HasUpline() {
		found, err := users.GetUser(ctx, *seller.UplineID)
		switch {
		case err == nil:
			sponsor = found
		case errors.Is(err, repositories.ErrNotFound):
			e.log.WithFields(logrus.Fields{
				"saleId":           sale.ID,
				"representativeId": seller.ID,
				"sponsorId":        *seller.UplineID,
			}).Warn("sponsor not found, skipping override commission")
		default:
			return nil, fmt.Errorf("load sponsor: %w", err)
		}
	}
	return ComputeCommissions(sale, seller, sponsor, sale.CreatedAt), nil
}
