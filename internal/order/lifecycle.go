// Package order turns a cart into an order and moves it through its status
// sequence: pending, confirmed, preparing, out-for-delivery, delivered.
package order

import (
	"sync"
	"time"

	"gourmet/internal/cart"
	"gourmet/internal/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DeliveryDetails carries the optional checkout fields
type DeliveryDetails struct {
	Address       string `json:"deliveryAddress,omitempty"`
	Time          string `json:"deliveryTime,omitempty"`
	PaymentMethod string `json:"paymentMethod,omitempty"`
	// Instructions maps a menu item id to its special instructions
	Instructions map[string]string `json:"specialInstructions,omitempty"`
}

// Listener is notified about order events. Calls happen after the lifecycle
// lock is released, in the goroutine that caused the change.
type Listener interface {
	OrderCreated(o models.Order)
	OrderStatusChanged(o models.Order, from models.OrderStatus)
}

// Advance moves o to status to. The target must be a known status strictly
// later in the sequence; skipping intermediate steps is allowed. On failure o
// is left untouched.
func Advance(o *models.Order, to models.OrderStatus) error {
	if !to.Valid() || to.Rank() <= o.Status.Rank() {
		return &TransitionError{From: o.Status, To: to}
	}
	o.Status = to
	o.UpdatedAt = time.Now()
	return nil
}

// Lifecycle tracks the single current order of a session
type Lifecycle struct {
	mu        sync.Mutex
	current   *models.Order
	listeners []Listener
	scheduler *Scheduler
	logger    *zap.SugaredLogger
}

// NewLifecycle creates a lifecycle with no current order
func NewLifecycle(logger *zap.SugaredLogger, listeners ...Listener) *Lifecycle {
	l := &Lifecycle{
		listeners: listeners,
		logger:    logger,
	}
	l.scheduler = NewScheduler(l.AdvanceOrder, logger)
	return l
}

// AddListener registers a listener for subsequent events
func (l *Lifecycle) AddListener(listener Listener) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.listeners = append(l.listeners, listener)
}

// Scheduler returns the scheduler driving automatic advances
func (l *Lifecycle) Scheduler() *Scheduler {
	return l.scheduler
}

// CreateOrder converts the cart into a pending order, clears the cart and
// notifies listeners. An empty cart produces no order and is left as is.
func (l *Lifecycle) CreateOrder(c *cart.Cart, d DeliveryDetails) (models.Order, bool) {
	o, ok := l.PlaceOrder(c, d)
	if ok {
		l.NotifyCreated(o)
	}
	return o, ok
}

// PlaceOrder is CreateOrder without the listener calls, for callers that hold
// their own lock and notify once it is released with NotifyCreated. The new
// order replaces any tracked order, whose scheduled advances are cancelled.
func (l *Lifecycle) PlaceOrder(c *cart.Cart, d DeliveryDetails) (models.Order, bool) {
	if c.IsEmpty() {
		return models.Order{}, false
	}

	lines := c.Lines()
	items := make([]models.OrderItem, len(lines))
	for i, line := range lines {
		items[i] = models.OrderItem{
			MenuItemID:          line.Item.ID,
			Quantity:            line.Quantity,
			SpecialInstructions: d.Instructions[line.Item.ID],
		}
	}

	now := time.Now()
	o := models.Order{
		ID:              uuid.NewString(),
		Items:           items,
		Status:          models.OrderStatusPending,
		TotalAmount:     c.Total(),
		DeliveryAddress: d.Address,
		DeliveryTime:    d.Time,
		PaymentMethod:   d.PaymentMethod,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	c.Clear()

	l.mu.Lock()
	var previous string
	if l.current != nil {
		previous = l.current.ID
	}
	tracked := o.Clone()
	l.current = &tracked
	l.mu.Unlock()

	if previous != "" {
		l.scheduler.Cancel(previous)
		l.logger.Debugw("Order replaced", "previous", previous, "order_id", o.ID)
	}
	l.logger.Infow("Order created",
		"order_id", o.ID,
		"items", len(o.Items),
		"total", o.TotalAmount.StringFixed(2),
	)
	return o, true
}

// NotifyCreated tells every listener about a placed order
func (l *Lifecycle) NotifyCreated(o models.Order) {
	l.mu.Lock()
	listeners := l.snapshotListeners()
	l.mu.Unlock()

	for _, listener := range listeners {
		listener.OrderCreated(o.Clone())
	}
}

// Current returns a copy of the tracked order
func (l *Lifecycle) Current() (models.Order, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.current == nil {
		return models.Order{}, false
	}
	return l.current.Clone(), true
}

// AdvanceStatus moves the tracked order forward to status to
func (l *Lifecycle) AdvanceStatus(to models.OrderStatus) (models.Order, error) {
	return l.advance("", to)
}

// AdvanceOrder moves the order with the given id forward. It fails with
// ErrStaleOrder when that order is no longer the tracked one.
func (l *Lifecycle) AdvanceOrder(id string, to models.OrderStatus) (models.Order, error) {
	return l.advance(id, to)
}

func (l *Lifecycle) advance(id string, to models.OrderStatus) (models.Order, error) {
	l.mu.Lock()
	if l.current == nil {
		l.mu.Unlock()
		if id != "" {
			return models.Order{}, ErrStaleOrder
		}
		return models.Order{}, ErrNoActiveOrder
	}
	if id != "" && l.current.ID != id {
		l.mu.Unlock()
		return models.Order{}, ErrStaleOrder
	}
	from := l.current.Status
	if err := Advance(l.current, to); err != nil {
		l.mu.Unlock()
		return models.Order{}, err
	}
	o := l.current.Clone()
	listeners := l.snapshotListeners()
	l.mu.Unlock()

	l.logger.Infow("Order status changed", "order_id", o.ID, "from", from, "to", o.Status)
	for _, listener := range listeners {
		listener.OrderStatusChanged(o.Clone(), from)
	}
	return o, nil
}

// Reset forgets the tracked order and cancels its scheduled advances
func (l *Lifecycle) Reset() {
	l.mu.Lock()
	var id string
	if l.current != nil {
		id = l.current.ID
	}
	l.current = nil
	l.mu.Unlock()

	if id != "" {
		l.scheduler.Cancel(id)
	}
}

// Close stops every pending scheduled advance
func (l *Lifecycle) Close() {
	l.scheduler.CancelAll()
}

func (l *Lifecycle) snapshotListeners() []Listener {
	return append([]Listener(nil), l.listeners...)
}
