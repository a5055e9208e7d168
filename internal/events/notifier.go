package events

import (
	"gourmet/internal/models"

	"go.uber.org/zap"
)

// LogPublisher writes events to the log. It is used when no broker is configured.
type LogPublisher struct {
	logger *zap.SugaredLogger
}

// NewLogPublisher creates a log-only publisher
func NewLogPublisher(logger *zap.SugaredLogger) *LogPublisher {
	return &LogPublisher{logger: logger}
}

// Publish implements Publisher
func (p *LogPublisher) Publish(e OrderEvent) error {
	p.logger.Infow("Order event",
		"type", e.Type,
		"session_id", e.SessionID,
		"order_id", e.OrderID,
		"status", e.Status,
		"from_status", e.FromStatus,
		"total", e.TotalAmount,
	)
	return nil
}

// Close implements Publisher
func (p *LogPublisher) Close() error {
	return nil
}

// Notifier turns session order callbacks into published events
type Notifier struct {
	publisher Publisher
	logger    *zap.SugaredLogger
}

// NewNotifier creates a notifier over publisher
func NewNotifier(publisher Publisher, logger *zap.SugaredLogger) *Notifier {
	return &Notifier{publisher: publisher, logger: logger}
}

// OrderCreated publishes an order.created event
func (n *Notifier) OrderCreated(sessionID string, o models.Order) {
	n.publish(newEvent(TypeOrderCreated, sessionID, o))
}

// OrderStatusChanged publishes an order.status_changed event
func (n *Notifier) OrderStatusChanged(sessionID string, o models.Order, from models.OrderStatus) {
	e := newEvent(TypeOrderStatusChanged, sessionID, o)
	e.FromStatus = from
	n.publish(e)
}

func (n *Notifier) publish(e OrderEvent) {
	if err := n.publisher.Publish(e); err != nil {
		n.logger.Errorw("Failed to publish order event", "type", e.Type, "order_id", e.OrderID, "error", err)
	}
}
