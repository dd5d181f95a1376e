package events_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"tokoshop/internal/events"
	"tokoshop/internal/models"

	"github.com/shopspring/decimal"
	"github.com/streadway/amqp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, routingKey string, body []byte) error {
	args := m.Called(ctx, routingKey, body)
	return args.Error(0)
}

func sampleOrder() *models.Order {
	o := &models.Order{
		Code:          "ORD-20261015-ABCDEF",
		CustomerID:    "cust-1",
		Status:        models.OrderPending,
		PaymentStatus: models.PaymentUnpaid,
		Total:         decimal.NewFromInt(55000),
	}
	o.ID = "order-1"
	return o
}

func TestPublishOrder(t *testing.T) {
	pub := new(MockPublisher)
	pub.On("Publish", mock.Anything, events.OrderCreated, mock.MatchedBy(func(body []byte) bool {
		var evt events.OrderEvent
		return json.Unmarshal(body, &evt) == nil && evt.OrderID == "order-1" && evt.Total == "55000"
	})).Return(nil).Once()

	events.PublishOrder(context.Background(), pub, events.OrderCreated, sampleOrder())
	pub.AssertExpectations(t)
}

func TestPublishOrder_SwallowsErrorsAndNilPublisher(t *testing.T) {
	pub := new(MockPublisher)
	pub.On("Publish", mock.Anything, events.OrderCancelled, mock.Anything).Return(errors.New("channel closed")).Once()

	assert.NotPanics(t, func() {
		events.PublishOrder(context.Background(), pub, events.OrderCancelled, sampleOrder())
		events.PublishOrder(context.Background(), nil, events.OrderCancelled, sampleOrder())
	})
	pub.AssertExpectations(t)
}

func TestHandleDelivery(t *testing.T) {
	body, _ := json.Marshal(events.NewOrderEvent(sampleOrder()))
	assert.NoError(t, events.HandleDelivery(amqp.Delivery{RoutingKey: events.OrderCreated, Body: body}))
	assert.Error(t, events.HandleDelivery(amqp.Delivery{RoutingKey: events.OrderCreated, Body: []byte("{")}))
}
