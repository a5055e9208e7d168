package database

import (
	"errors"
	"testing"
	"time"

	"gourmet/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newStore(t *testing.T) *OrderStore {
	t.Helper()
	db, err := Open(Config{Driver: "sqlite3", DSN: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewOrderStore(db, zap.NewNop().Sugar())
}

func sampleOrder() models.Order {
	now := time.Now().UTC().Truncate(time.Second)
	return models.Order{
		ID: "ord-1",
		Items: []models.OrderItem{
			{MenuItemID: "1", Quantity: 2},
			{MenuItemID: "3", Quantity: 1, SpecialInstructions: "medium rare"},
		},
		Status:          models.OrderStatusPending,
		TotalAmount:     decimal.RequireFromString("58.97"),
		DeliveryAddress: "42 Elm St",
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

func TestSaveAndGetOrder(t *testing.T) {
	store := newStore(t)
	o := sampleOrder()

	require.NoError(t, store.SaveOrder("sess-1", o))

	got, err := store.GetOrder(o.ID)
	require.NoError(t, err)
	assert.Equal(t, o.ID, got.ID)
	assert.Equal(t, o.Items, got.Items)
	assert.Equal(t, models.OrderStatusPending, got.Status)
	assert.True(t, got.TotalAmount.Equal(o.TotalAmount), "got %s", got.TotalAmount)
	assert.Equal(t, "42 Elm St", got.DeliveryAddress)
}

func TestGetOrderNotFound(t *testing.T) {
	_, err := newStore(t).GetOrder("missing")
	assert.True(t, errors.Is(err, ErrOrderNotFound))
}

func TestRecordTransitions(t *testing.T) {
	store := newStore(t)
	o := sampleOrder()
	require.NoError(t, store.SaveOrder("sess-1", o))

	o.Status = models.OrderStatusConfirmed
	require.NoError(t, store.RecordTransition(o, models.OrderStatusPending))
	o.Status = models.OrderStatusDelivered
	require.NoError(t, store.RecordTransition(o, models.OrderStatusConfirmed))

	got, err := store.GetOrder(o.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusDelivered, got.Status)

	transitions, err := store.ListTransitions(o.ID)
	require.NoError(t, err)
	require.Len(t, transitions, 3)
	assert.Equal(t, "", transitions[0].FromStatus)
	assert.Equal(t, "pending", transitions[0].ToStatus)
	assert.Equal(t, "confirmed", transitions[1].ToStatus)
	assert.Equal(t, "confirmed", transitions[2].FromStatus)
	assert.Equal(t, "delivered", transitions[2].ToStatus)
}

func TestRecordTransitionUnknownOrder(t *testing.T) {
	err := newStore(t).RecordTransition(models.Order{ID: "ghost", Status: models.OrderStatusConfirmed}, models.OrderStatusPending)
	assert.True(t, errors.Is(err, ErrOrderNotFound))
}

func TestObserverMethods(t *testing.T) {
	store := newStore(t)
	o := sampleOrder()

	store.OrderCreated("sess-9", o)
	o.Status = models.OrderStatusPreparing
	store.OrderStatusChanged("sess-9", o, models.OrderStatusPending)

	orders, err := store.ListBySession("sess-9")
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, models.OrderStatusPreparing, orders[0].Status)
	assert.Len(t, orders[0].Items, 2)
}
