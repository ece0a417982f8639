package models

import "time"

type Customer struct {
	ID               string    `json:"id" bson:"_id"`
	RepresentativeID string    `json:"representativeId" bson:"representativeId"`
	Name             string    `json:"name" bson:"name"`
	Email            string    `json:"email" bson:"email"`
	Phone            *string   `json:"phone" bson:"phone,omitempty"`
	Address          *string   `json:"address" bson:"address,omitempty"`
	CustomPricing    *string   `json:"customPricing" bson:"customPricing,omitempty"`
	IsActive         bool      `json:"isActive" bson:"isActive"`
	CreatedAt        time.Time `json:"createdAt" bson:"createdAt"`
}

type CustomerWithRepresentative struct {
	Customer
	Representative *User `json:"representative,omitempty"`
}

type CreateCustomerRequest struct {
	RepresentativeID string  `json:"representativeId"`
	Name             string  `json:"name" validate:"required"`
	Email            string  `json:"email" validate:"required,email"`
	Phone            *string `json:"phone"`
	Address          *string `json:"address"`
	CustomPricing    *string `json:"customPricing"`
	IsActive         *bool   `json:"isActive"`
}

type UpdateCustomerRequest struct {
	Name          *string `json:"name" validate:"omitempty,min=1"`
	Email         *string `json:"email" validate:"omitempty,email"`
	Phone         *string `json:"phone"`
	Address       *string `json:"address"`
	CustomPricing *string `json:"customPricing"`
	IsActive      *bool   `json:"isActive"`
}
