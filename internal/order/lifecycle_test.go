package order

import (
	"errors"
	"sync"
	"testing"

	"gourmet/internal/cart"
	"gourmet/internal/menu"
	"gourmet/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type recorder struct {
	mu      sync.Mutex
	created []models.Order
	changes []models.OrderStatus
}

func (r *recorder) OrderCreated(o models.Order) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.created = append(r.created, o)
}

func (r *recorder) OrderStatusChanged(o models.Order, _ models.OrderStatus) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.changes = append(r.changes, o.Status)
}

func (r *recorder) statuses() []models.OrderStatus {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]models.OrderStatus(nil), r.changes...)
}

func filledCart(t *testing.T, quantities map[string]int, order ...string) *cart.Cart {
	t.Helper()
	catalog := menu.Default()
	c := cart.New()
	for _, id := range order {
		it, ok := catalog.ByID(id)
		require.True(t, ok)
		require.NoError(t, c.Add(it, quantities[id]))
	}
	return c
}

func TestAdvanceRules(t *testing.T) {
	tests := []struct {
		name string
		from models.OrderStatus
		to   models.OrderStatus
		ok   bool
	}{
		{"next step", models.OrderStatusPending, models.OrderStatusConfirmed, true},
		{"skip ahead", models.OrderStatusConfirmed, models.OrderStatusOutForDelivery, true},
		{"straight to delivered", models.OrderStatusPending, models.OrderStatusDelivered, true},
		{"same status", models.OrderStatusPreparing, models.OrderStatusPreparing, false},
		{"backwards", models.OrderStatusPreparing, models.OrderStatusConfirmed, false},
		{"from delivered", models.OrderStatusDelivered, models.OrderStatusPending, false},
		{"unknown target", models.OrderStatusPending, models.OrderStatus("cancelled"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := &models.Order{Status: tt.from}
			err := Advance(o, tt.to)
			if tt.ok {
				require.NoError(t, err)
				assert.Equal(t, tt.to, o.Status)
				return
			}
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidTransition))
			var te *TransitionError
			require.True(t, errors.As(err, &te))
			assert.Equal(t, tt.from, te.From)
			assert.Equal(t, tt.from, o.Status, "status must not change on failure")
		})
	}
}

func TestCreateOrderFromCart(t *testing.T) {
	rec := &recorder{}
	l := NewLifecycle(zap.NewNop().Sugar(), rec)
	c := filledCart(t, map[string]int{"1": 2, "3": 1}, "1", "3")

	o, ok := l.CreateOrder(c, DeliveryDetails{
		Address:      "1 Main St",
		Time:         "19:30",
		Instructions: map[string]string{"3": "medium rare"},
	})

	require.True(t, ok)
	assert.NotEmpty(t, o.ID)
	assert.Equal(t, models.OrderStatusPending, o.Status)
	assert.True(t, o.TotalAmount.Equal(decimal.RequireFromString("58.97")), "got %s", o.TotalAmount)
	assert.Equal(t, []models.OrderItem{
		{MenuItemID: "1", Quantity: 2},
		{MenuItemID: "3", Quantity: 1, SpecialInstructions: "medium rare"},
	}, o.Items)
	assert.Equal(t, "1 Main St", o.DeliveryAddress)
	assert.True(t, c.IsEmpty(), "cart is cleared")

	current, ok := l.Current()
	require.True(t, ok)
	assert.Equal(t, o.ID, current.ID)
	require.Len(t, rec.created, 1)
}

func TestCreateOrderWithEmptyCartIsNoop(t *testing.T) {
	rec := &recorder{}
	l := NewLifecycle(zap.NewNop().Sugar(), rec)

	_, ok := l.CreateOrder(cart.New(), DeliveryDetails{})

	assert.False(t, ok)
	_, tracked := l.Current()
	assert.False(t, tracked)
	assert.Empty(t, rec.created)
}

func TestEndToEndManualProgression(t *testing.T) {
	rec := &recorder{}
	l := NewLifecycle(zap.NewNop().Sugar(), rec)
	_, ok := l.CreateOrder(filledCart(t, map[string]int{"1": 2, "3": 1}, "1", "3"), DeliveryDetails{})
	require.True(t, ok)

	for _, st := range models.OrderStatuses[1:] {
		o, err := l.AdvanceStatus(st)
		require.NoError(t, err)
		assert.Equal(t, st, o.Status)
	}

	_, err := l.AdvanceStatus(models.OrderStatusPending)
	assert.True(t, errors.Is(err, ErrInvalidTransition))

	current, _ := l.Current()
	assert.Equal(t, models.OrderStatusDelivered, current.Status)
	assert.Equal(t, 100, current.Status.Progress())
	assert.Equal(t, models.OrderStatuses[1:], rec.statuses())
}

func TestAdvanceWithoutOrder(t *testing.T) {
	l := NewLifecycle(zap.NewNop().Sugar())

	_, err := l.AdvanceStatus(models.OrderStatusConfirmed)

	assert.ErrorIs(t, err, ErrNoActiveOrder)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestAdvanceOrderRejectsStaleID(t *testing.T) {
	l := NewLifecycle(zap.NewNop().Sugar())
	first, _ := l.CreateOrder(filledCart(t, map[string]int{"1": 1}, "1"), DeliveryDetails{})
	second, _ := l.CreateOrder(filledCart(t, map[string]int{"2": 1}, "2"), DeliveryDetails{})

	_, err := l.AdvanceOrder(first.ID, models.OrderStatusConfirmed)
	assert.ErrorIs(t, err, ErrStaleOrder)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	o, err := l.AdvanceOrder(second.ID, models.OrderStatusConfirmed)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusConfirmed, o.Status)
}

func TestReset(t *testing.T) {
	l := NewLifecycle(zap.NewNop().Sugar())
	o, _ := l.CreateOrder(filledCart(t, map[string]int{"1": 1}, "1"), DeliveryDetails{})
	l.Scheduler().Schedule(o.ID, DefaultSteps)

	l.Reset()

	_, ok := l.Current()
	assert.False(t, ok)
	assert.Zero(t, l.Scheduler().Pending(o.ID))
}

func TestCurrentReturnsCopy(t *testing.T) {
	l := NewLifecycle(zap.NewNop().Sugar())
	_, _ = l.CreateOrder(filledCart(t, map[string]int{"1": 1}, "1"), DeliveryDetails{})

	o, _ := l.Current()
	o.Items[0].Quantity = 99
	o.Status = models.OrderStatusDelivered

	again, _ := l.Current()
	assert.Equal(t, 1, again.Items[0].Quantity)
	assert.Equal(t, models.OrderStatusPending, again.Status)
}

func TestPlaceOrderDefersNotification(t *testing.T) {
	rec := &recorder{}
	l := NewLifecycle(zap.NewNop().Sugar(), rec)
	c := filledCart(t, map[string]int{"3": 1}, "3")

	o, ok := l.PlaceOrder(c, DeliveryDetails{})
	require.True(t, ok)
	assert.True(t, c.IsEmpty())
	current, ok := l.Current()
	require.True(t, ok)
	assert.Equal(t, o.ID, current.ID)
	assert.Empty(t, rec.created)

	l.NotifyCreated(o)
	require.Len(t, rec.created, 1)
	assert.Equal(t, o.ID, rec.created[0].ID)
}
