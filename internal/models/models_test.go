package models

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderStatusSequence(t *testing.T) {
	tests := []struct {
		status   OrderStatus
		rank     int
		progress int
		label    string
	}{
		{OrderStatusPending, 0, 20, "Order Received"},
		{OrderStatusConfirmed, 1, 40, "Order Confirmed"},
		{OrderStatusPreparing, 2, 60, "Preparing Your Food"},
		{OrderStatusOutForDelivery, 3, 80, "Out For Delivery"},
		{OrderStatusDelivered, 4, 100, "Delivered"},
		{OrderStatus("cancelled"), -1, 0, ""},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			assert.Equal(t, tt.rank, tt.status.Rank())
			assert.Equal(t, tt.rank >= 0, tt.status.Valid())
			assert.Equal(t, tt.progress, tt.status.Progress())
			assert.Equal(t, tt.label, tt.status.Label())
		})
	}

	assert.True(t, OrderStatusDelivered.IsTerminal())
	assert.False(t, OrderStatusOutForDelivery.IsTerminal())
}

func TestValidateMenuItem(t *testing.T) {
	valid := MenuItem{
		ID:       "1",
		Name:     "Bruschetta",
		Price:    decimal.RequireFromString("12.99"),
		Category: CategoryStarters,
	}
	require.NoError(t, ValidateMenuItem(&valid))

	tests := []struct {
		name   string
		mutate func(*MenuItem)
		want   string
	}{
		{"missing id", func(m *MenuItem) { m.ID = "" }, "id is required"},
		{"missing name", func(m *MenuItem) { m.Name = "" }, "name is required"},
		{"negative price", func(m *MenuItem) { m.Price = decimal.NewFromInt(-1) }, "price"},
		{"bad category", func(m *MenuItem) { m.Category = "brunch" }, "unknown category"},
		{"negative calories", func(m *MenuItem) { m.NutritionalInfo = &NutritionalInfo{Calories: -5} }, "calories"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item := valid.Clone()
			tt.mutate(&item)
			assert.ErrorContains(t, ValidateMenuItem(&item), tt.want)
		})
	}
}

func TestMenuItemCloneDoesNotAlias(t *testing.T) {
	item := MenuItem{ID: "1", Tags: []string{"vegetarian"}, NutritionalInfo: &NutritionalInfo{Calories: 300}}
	clone := item.Clone()
	clone.Tags[0] = "meat"
	clone.NutritionalInfo.Calories = 1

	assert.True(t, item.HasTag("vegetarian"))
	assert.Equal(t, 300, item.NutritionalInfo.Calories)
}

func TestOrderRecordRoundTrip(t *testing.T) {
	placed := time.Date(2024, 5, 1, 18, 30, 0, 0, time.UTC)
	o := Order{
		ID:          "ord-1",
		Items:       []OrderItem{{MenuItemID: "3", Quantity: 2, SpecialInstructions: "medium rare"}},
		Status:      OrderStatusPreparing,
		TotalAmount: decimal.RequireFromString("65.98"),
		CreatedAt:   placed,
		UpdatedAt:   placed,
	}

	rec := NewOrderRecord("sess-1", o)
	assert.Equal(t, "sess-1", rec.SessionID)
	assert.Equal(t, "preparing", rec.Status)

	got := rec.ToOrder()
	assert.Equal(t, o.ID, got.ID)
	assert.Equal(t, o.Items, got.Items)
	assert.Equal(t, o.Status, got.Status)
	assert.True(t, o.TotalAmount.Equal(got.TotalAmount))
	assert.Equal(t, placed, got.CreatedAt)
}

func TestChatMessageRole(t *testing.T) {
	assert.Equal(t, "user", ChatMessage{Sender: SenderUser}.Role())
	assert.Equal(t, "assistant", ChatMessage{Sender: SenderAI}.Role())
}
