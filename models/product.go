package models

import "time"

type Product struct {
	ID          string    `json:"id" bson:"_id"`
	Name        string    `json:"name" bson:"name"`
	Description *string   `json:"description" bson:"description,omitempty"`
	Category    string    `json:"category" bson:"category"`
	BasePrice   Money     `json:"basePrice" bson:"basePrice"`
	SKU         string    `json:"sku" bson:"sku"`
	ImageURL    *string   `json:"imageUrl" bson:"imageUrl,omitempty"`
	IsActive    bool      `json:"isActive" bson:"isActive"`
	CreatedAt   time.Time `json:"createdAt" bson:"createdAt"`
}

type CreateProductRequest struct {
	Name        string  `json:"name" validate:"required"`
	Description *string `json:"description"`
	Category    string  `json:"category" validate:"required"`
	BasePrice   Money   `json:"basePrice"`
	SKU         string  `json:"sku"`
	ImageURL    *string `json:"imageUrl" validate:"omitempty,url"`
	IsActive    *bool   `json:"isActive"`
}

type UpdateProductRequest struct {
	Name        *string `json:"name" validate:"omitempty,min=1"`
	Description *string `json:"description"`
	Category    *string `json:"category" validate:"omitempty,min=1"`
	BasePrice   *Money  `json:"basePrice"`
	SKU         *string `json:"sku" validate:"omitempty,min=1"`
	ImageURL    *string `json:"imageUrl" validate:"omitempty,url"`
	IsActive    *bool   `json:"isActive"`
}
