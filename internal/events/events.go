// Package events describes the order lifecycle messages sent to the broker.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"tokoshop/internal/models"

	"github.com/streadway/amqp"
)

// Routing keys on the order exchange.
const (
	OrderCreated       = "order.created"
	OrderStatusChanged = "order.status_changed"
	OrderCancelled     = "order.cancelled"
)

// Publisher sends an already-encoded event. *rabbitmq.Client satisfies it.
type Publisher interface {
	Publish(ctx context.Context, routingKey string, body []byte) error
}

// OrderEvent is the message body of every order event.
type OrderEvent struct {
	OrderID       string               `json:"order_id"`
	Code          string               `json:"code"`
	CustomerID    string               `json:"customer_id"`
	Status        models.OrderStatus   `json:"status"`
	PaymentStatus models.PaymentStatus `json:"payment_status"`
	Total         string               `json:"total"`
	Note          string               `json:"note,omitempty"`
	OccurredAt    time.Time            `json:"occurred_at"`
}

// NewOrderEvent snapshots the fields consumers need from o.
func NewOrderEvent(o *models.Order) OrderEvent {
	return OrderEvent{
		OrderID:       o.ID,
		Code:          o.Code,
		CustomerID:    o.CustomerID,
		Status:        o.Status,
		PaymentStatus: o.PaymentStatus,
		Total:         o.Total.String(),
		Note:          o.AdminNote,
		OccurredAt:    time.Now().UTC(),
	}
}

// PublishOrder encodes and publishes an event for o. Failures are logged, never returned:
// the order is already committed when events go out.
func PublishOrder(ctx context.Context, p Publisher, routingKey string, o *models.Order) {
	if p == nil {
		return
	}
	body, err := json.Marshal(NewOrderEvent(o))
	if err != nil {
		log.Printf("Failed to marshal %s event for order %s: %v", routingKey, o.ID, err)
		return
	}
	if err := p.Publish(ctx, routingKey, body); err != nil {
		log.Printf("Warning: failed to publish %s event for order %s: %v", routingKey, o.ID, err)
	}
}

// HandleDelivery is the notification consumer: it decodes an order event and logs
// the customer notification it stands for.
func HandleDelivery(msg amqp.Delivery) error {
	var evt OrderEvent
	if err := json.Unmarshal(msg.Body, &evt); err != nil {
		return fmt.Errorf("decode %s: %w", msg.RoutingKey, err)
	}
	switch msg.RoutingKey {
	case OrderCreated:
		log.Printf("Notify customer %s: order %s placed, total %s", evt.CustomerID, evt.Code, evt.Total)
	case OrderCancelled:
		log.Printf("Notify customer %s: order %s cancelled (%s)", evt.CustomerID, evt.Code, evt.Note)
	case OrderStatusChanged:
		log.Printf("Notify customer %s: order %s is now %s", evt.CustomerID, evt.Code, evt.Status)
	default:
		log.Printf("Ignoring unknown order event %q", msg.RoutingKey)
	}
	return nil
}
