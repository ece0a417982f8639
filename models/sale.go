package models

import "time"

const (
	SaleStatusCompleted = "completed"

	PaymentStatusPending  = "pending"
	PaymentStatusPaid     = "paid"
	PaymentStatusRefunded = "refunded"

	DeliveryStatusPending   = "pending"
	DeliveryStatusShipped   = "shipped"
	DeliveryStatusDelivered = "delivered"
)

// Sale amounts are fixed when the sale is recorded and never re-derived.
type Sale struct {
	ID               string    `json:"id" bson:"_id"`
	ProductID        string    `json:"productId" bson:"productId"`
	CustomerID       string    `json:"customerId" bson:"customerId"`
	RepresentativeID string    `json:"representativeId" bson:"representativeId"`
	Quantity         int       `json:"quantity" bson:"quantity"`
	UnitPrice        Money     `json:"unitPrice" bson:"unitPrice"`
	Subtotal         Money     `json:"subtotal" bson:"subtotal"`
	Discount         Money     `json:"discount" bson:"discount"`
	Tax              Money     `json:"tax" bson:"tax"`
	Shipping         Money     `json:"shipping" bson:"shipping"`
	TotalAmount      Money     `json:"totalAmount" bson:"totalAmount"`
	CommissionAmount Money     `json:"commissionAmount" bson:"commissionAmount"`
	Status           string    `json:"status" bson:"status"`
	PaymentStatus    string    `json:"paymentStatus" bson:"paymentStatus"`
	DeliveryStatus   string    `json:"deliveryStatus" bson:"deliveryStatus"`
	CreatedAt        time.Time `json:"createdAt" bson:"createdAt"`
}

type CreateSaleRequest struct {
	ProductID        string `json:"productId" validate:"required"`
	CustomerID       string `json:"customerId" validate:"required"`
	RepresentativeID string `json:"representativeId"`
	Quantity         int    `json:"quantity" validate:"required,min=1"`
	Discount         *Money `json:"discount"`
	Tax              *Money `json:"tax"`
	Shipping         *Money `json:"shipping"`
	PaymentStatus    string `json:"paymentStatus" validate:"omitempty,oneof=pending paid refunded"`
	DeliveryStatus   string `json:"deliveryStatus" validate:"omitempty,oneof=pending shipped delivered"`
}

type SaleWithDetails struct {
	Sale
	Product  *Product  `json:"product,omitempty"`
	Customer *Customer `json:"customer,omitempty"`
}

// SaleResult is what recording a sale produces: the sale plus the one or two
// commission records owed on it.
type SaleResult struct {
	Sale        *Sale         `json:"sale"`
	Commissions []*Commission `json:"commissions"`
}
