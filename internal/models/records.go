package models

import (
	"time"

	"github.com/jinzhu/gorm"
	"github.com/shopspring/decimal"
)

// OrderRecord is the stored form of an Order
type OrderRecord struct {
	gorm.Model
	OrderID         string            `gorm:"unique_index;type:varchar(64)"`
	SessionID       string            `gorm:"index;type:varchar(64)"`
	Items           []OrderItemRecord `gorm:"foreignkey:OrderRecordID"`
	Status          string
	TotalAmount     decimal.Decimal `gorm:"type:varchar(32)"`
	DeliveryAddress string
	DeliveryTime    string
	PaymentMethod   string
	PlacedAt        time.Time
}

// TableName sets the table name for OrderRecord
func (OrderRecord) TableName() string {
	return "orders"
}

// OrderItemRecord represents an item row of a stored order
type OrderItemRecord struct {
	gorm.Model
	OrderRecordID       uint
	MenuItemID          string
	Quantity            int
	SpecialInstructions string
}

// TableName sets the table name for OrderItemRecord
func (OrderItemRecord) TableName() string {
	return "order_items"
}

// StatusTransition is an audit entry for a single order status change
type StatusTransition struct {
	gorm.Model
	OrderID    string `gorm:"index;type:varchar(64)"`
	FromStatus string
	ToStatus   string
	ChangedAt  time.Time
}

// TableName sets the table name for StatusTransition
func (StatusTransition) TableName() string {
	return "order_status_transitions"
}

// NewOrderRecord converts an order into its stored form.
func NewOrderRecord(sessionID string, o Order) OrderRecord {
	items := make([]OrderItemRecord, len(o.Items))
	for i, it := range o.Items {
		items[i] = OrderItemRecord{
			MenuItemID:          it.MenuItemID,
			Quantity:            it.Quantity,
			SpecialInstructions: it.SpecialInstructions,
		}
	}
	return OrderRecord{
		OrderID:         o.ID,
		SessionID:       sessionID,
		Items:           items,
		Status:          string(o.Status),
		TotalAmount:     o.TotalAmount,
		DeliveryAddress: o.DeliveryAddress,
		DeliveryTime:    o.DeliveryTime,
		PaymentMethod:   o.PaymentMethod,
		PlacedAt:        o.CreatedAt,
	}
}

// ToOrder converts a stored record back into an Order.
func (r OrderRecord) ToOrder() Order {
	items := make([]OrderItem, len(r.Items))
	for i, it := range r.Items {
		items[i] = OrderItem{
			MenuItemID:          it.MenuItemID,
			Quantity:            it.Quantity,
			SpecialInstructions: it.SpecialInstructions,
		}
	}
	return Order{
		ID:              r.OrderID,
		Items:           items,
		Status:          OrderStatus(r.Status),
		TotalAmount:     r.TotalAmount,
		DeliveryAddress: r.DeliveryAddress,
		DeliveryTime:    r.DeliveryTime,
		PaymentMethod:   r.PaymentMethod,
		CreatedAt:       r.PlacedAt,
		UpdatedAt:       r.UpdatedAt,
	}
}
