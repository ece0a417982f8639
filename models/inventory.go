package models

import "time"

const DefaultReorderLevel = 10

type Inventory struct {
	ID            string     `json:"id" bson:"_id"`
	ProductID     string     `json:"productId" bson:"productId"`
	Quantity      int        `json:"quantity" bson:"quantity"`
	ReorderLevel  int        `json:"reorderLevel" bson:"reorderLevel"`
	LastRestocked *time.Time `json:"lastRestocked" bson:"lastRestocked,omitempty"`
	UpdatedAt     time.Time  `json:"updatedAt" bson:"updatedAt"`
}

// IsLowStock reports whether the row is at or below its reorder level.
func (i *Inventory) IsLowStock() bool {
	return i.Quantity <= i.ReorderLevel
}

type InventoryWithProduct struct {
	Inventory `bson:",inline"`
	Product   *Product `json:"product,omitempty"`
}

type UpdateInventoryRequest struct {
	Quantity     *int `json:"quantity" validate:"omitempty,min=0"`
	ReorderLevel *int `json:"reorderLevel" validate:"omitempty,min=0"`
}
