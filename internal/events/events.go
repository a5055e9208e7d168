// Package events publishes order lifecycle events to downstream consumers.
package events

import (
	"time"

	"gourmet/internal/models"
)

// Event types
const (
	TypeOrderCreated       = "order.created"
	TypeOrderStatusChanged = "order.status_changed"
)

// OrderEvent is the payload published for every order change
type OrderEvent struct {
	Type        string             `json:"type"`
	SessionID   string             `json:"session_id"`
	OrderID     string             `json:"order_id"`
	Status      models.OrderStatus `json:"status"`
	FromStatus  models.OrderStatus `json:"from_status,omitempty"`
	TotalAmount string             `json:"total_amount"`
	ItemCount   int                `json:"item_count"`
	OccurredAt  time.Time          `json:"occurred_at"`
}

// Publisher delivers order events
type Publisher interface {
	Publish(e OrderEvent) error
	Close() error
}

func newEvent(eventType, sessionID string, o models.Order) OrderEvent {
	count := 0
	for _, it := range o.Items {
		count += it.Quantity
	}
	return OrderEvent{
		Type:        eventType,
		SessionID:   sessionID,
		OrderID:     o.ID,
		Status:      o.Status,
		TotalAmount: o.TotalAmount.StringFixed(2),
		ItemCount:   count,
		OccurredAt:  time.Now().UTC(),
	}
}
