package models

import (
	"time"
)

type CommissionLevel int

const (
	// CommissionLevelDirect is earned by the selling representative.
	CommissionLevelDirect CommissionLevel = 1
	// CommissionLevelOverride is earned by the seller's immediate sponsor.
	CommissionLevelOverride CommissionLevel = 2
)

func (l CommissionLevel) Int() int {
	return int(l)
}

const (
	CommissionStatusPending = "pending"
	CommissionStatusPaid    = "paid"
)

type Commission struct {
	ID               string          `json:"id" bson:"_id"`
	RepresentativeID string          `json:"representativeId" bson:"representativeId"`
	SaleID           string          `json:"saleId" bson:"saleId"`
	Amount           Money           `json:"amount" bson:"amount"`
	Percentage       Money           `json:"percentage" bson:"percentage"`
	Level            CommissionLevel `json:"level" bson:"level"`
	Status           string          `json:"status" bson:"status"`
	PaidAt           *time.Time      `json:"paidAt" bson:"paidAt,omitempty"`
	CreatedAt        time.Time       `json:"createdAt" bson:"createdAt"`
}

type UpdateCommissionStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending paid"`
}
