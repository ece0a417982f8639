package models

import "time"

const (
	EventRepresentativeCreated = "representative_created"
	EventRepresentativeUpdated = "representative_updated"
	EventRepresentativeDeleted = "representative_deleted"
	EventProductCreated        = "product_created"
	EventProductUpdated        = "product_updated"
	EventProductDeleted        = "product_deleted"
	EventInventoryUpdated      = "inventory_updated"
	EventInventoryLowStock     = "inventory_low_stock"
	EventCustomerCreated       = "customer_created"
	EventCustomerUpdated       = "customer_updated"
	EventCustomerDeleted       = "customer_deleted"
	EventSaleCreated           = "sale_created"
	EventCommissionCreated     = "commission_created"
	EventCommissionUpdated     = "commission_updated"
)

// Event is a live update pushed to connected dashboards.
type Event struct {
	Type      string      `json:"type"`
	Message   string      `json:"message,omitempty"`
	Data      interface{} `json:"data,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

func NewEvent(eventType string, data interface{}) Event {
	return Event{Type: eventType, Data: data, Timestamp: time.Now().UTC()}
}

type DeletedRef struct {
	ID string `json:"id"`
}
