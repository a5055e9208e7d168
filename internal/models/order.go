package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order represents a customer delivery order
type Order struct {
	ID              string          `json:"id"`
	Items           []OrderItem     `json:"items"`
	Status          OrderStatus     `json:"status"`
	TotalAmount     decimal.Decimal `json:"totalAmount"`
	DeliveryAddress string          `json:"deliveryAddress,omitempty"`
	DeliveryTime    string          `json:"deliveryTime,omitempty"`
	PaymentMethod   string          `json:"paymentMethod,omitempty"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`
}

// OrderItem represents an item in an order
type OrderItem struct {
	MenuItemID          string `json:"menuItemId"`
	Quantity            int    `json:"quantity"`
	SpecialInstructions string `json:"specialInstructions,omitempty"`
}

// Clone returns a copy of the order with its own item slice.
func (o Order) Clone() Order {
	out := o
	out.Items = append([]OrderItem(nil), o.Items...)
	return out
}

// OrderStatus represents the possible states of an order
type OrderStatus string

const (
	OrderStatusPending        OrderStatus = "pending"
	OrderStatusConfirmed      OrderStatus = "confirmed"
	OrderStatusPreparing      OrderStatus = "preparing"
	OrderStatusOutForDelivery OrderStatus = "out-for-delivery"
	OrderStatusDelivered      OrderStatus = "delivered"
)

// OrderStatuses is the lifecycle sequence; an order only ever moves to the right.
var OrderStatuses = []OrderStatus{
	OrderStatusPending,
	OrderStatusConfirmed,
	OrderStatusPreparing,
	OrderStatusOutForDelivery,
	OrderStatusDelivered,
}

// Rank returns the position of s in the lifecycle sequence, or -1 for an unknown status.
func (s OrderStatus) Rank() int {
	for i, st := range OrderStatuses {
		if st == s {
			return i
		}
	}
	return -1
}

// Valid reports whether s is a known lifecycle status.
func (s OrderStatus) Valid() bool {
	return s.Rank() >= 0
}

// IsTerminal reports whether no further transition is possible from s.
func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusDelivered
}

// Progress returns the tracking bar percentage shown for s.
func (s OrderStatus) Progress() int {
	switch s {
	case OrderStatusPending:
		return 20
	case OrderStatusConfirmed:
		return 40
	case OrderStatusPreparing:
		return 60
	case OrderStatusOutForDelivery:
		return 80
	case OrderStatusDelivered:
		return 100
	default:
		return 0
	}
}

// Label returns the customer-facing text for s.
func (s OrderStatus) Label() string {
	switch s {
	case OrderStatusPending:
		return "Order Received"
	case OrderStatusConfirmed:
		return "Order Confirmed"
	case OrderStatusPreparing:
		return "Preparing Your Food"
	case OrderStatusOutForDelivery:
		return "Out For Delivery"
	case OrderStatusDelivered:
		return "Delivered"
	default:
		return ""
	}
}
