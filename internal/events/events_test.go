package events

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"gourmet/internal/models"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testOrder() models.Order {
	return models.Order{
		ID:          "ord-7",
		Items:       []models.OrderItem{{MenuItemID: "1", Quantity: 2}, {MenuItemID: "3", Quantity: 1}},
		Status:      models.OrderStatusConfirmed,
		TotalAmount: decimal.RequireFromString("58.97"),
	}
}

func TestKafkaPublisherSendsJSON(t *testing.T) {
	producer := mocks.NewSyncProducer(t, NewSaramaConfig())
	producer.ExpectSendMessageWithCheckerFunctionAndSucceed(func(val []byte) error {
		var e OrderEvent
		if err := json.Unmarshal(val, &e); err != nil {
			return err
		}
		if e.Type != TypeOrderStatusChanged || e.OrderID != "ord-7" {
			return fmt.Errorf("unexpected event %+v", e)
		}
		if e.FromStatus != models.OrderStatusPending || e.TotalAmount != "58.97" || e.ItemCount != 3 {
			return fmt.Errorf("unexpected payload %+v", e)
		}
		return nil
	})

	pub := NewKafkaPublisherWithProducer(producer, "orders", zap.NewNop().Sugar())
	NewNotifier(pub, zap.NewNop().Sugar()).OrderStatusChanged("sess-1", testOrder(), models.OrderStatusPending)

	require.NoError(t, pub.Close())
}

func TestKafkaPublisherReportsFailure(t *testing.T) {
	producer := mocks.NewSyncProducer(t, NewSaramaConfig())
	producer.ExpectSendMessageAndFail(sarama.ErrOutOfBrokers)

	pub := NewKafkaPublisherWithProducer(producer, "", zap.NewNop().Sugar())
	err := pub.Publish(newEvent(TypeOrderCreated, "sess-1", testOrder()))

	assert.True(t, errors.Is(err, sarama.ErrOutOfBrokers))
	assert.Contains(t, err.Error(), "gourmet.orders")
	require.NoError(t, pub.Close())
}

type failingPublisher struct{ calls int }

func (f *failingPublisher) Publish(OrderEvent) error {
	f.calls++
	return errors.New("broker down")
}

func (f *failingPublisher) Close() error { return nil }

func TestNotifierSwallowsPublishErrors(t *testing.T) {
	pub := &failingPublisher{}
	n := NewNotifier(pub, zap.NewNop().Sugar())

	n.OrderCreated("sess-1", testOrder())

	assert.Equal(t, 1, pub.calls)
}

func TestLogPublisher(t *testing.T) {
	p := NewLogPublisher(zap.NewNop().Sugar())
	assert.NoError(t, p.Publish(newEvent(TypeOrderCreated, "s", testOrder())))
	assert.NoError(t, p.Close())
}

func TestKafkaPublisherRequiresBrokers(t *testing.T) {
	_, err := NewKafkaPublisher(KafkaConfig{}, zap.NewNop().Sugar())
	assert.Error(t, err)
}
