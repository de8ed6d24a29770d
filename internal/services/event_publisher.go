package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
)

// orderConfirmedQueue is the queue order events are published to.
const orderConfirmedQueue = "order.confirmed"

// OrderConfirmedEvent is emitted after an order transaction commits.
type OrderConfirmedEvent struct {
	OrderID     uuid.UUID `json:"order_id"`
	UserID      uuid.UUID `json:"user_id"`
	TicketCount int       `json:"ticket_count"`
	CreatedAt   time.Time `json:"created_at"`
}

// OrderEventPublisher publishes order events to RabbitMQ. Each
// publish dials its own short-lived connection; callers treat
// failures as non-fatal since the order is already committed.
type OrderEventPublisher struct {
	url string
}

// NewOrderEventPublisher creates a publisher for the given AMQP URL
func NewOrderEventPublisher(url string) *OrderEventPublisher {
	return &OrderEventPublisher{url: url}
}

// PublishOrderConfirmed publishes an OrderConfirmedEvent to the
// order.confirmed queue. Messages are marked persistent so they
// survive broker restarts.
func (p *OrderEventPublisher) PublishOrderConfirmed(ctx context.Context, event OrderConfirmedEvent) error {
	conn, err := amqp.Dial(p.url)
	if err != nil {
		return fmt.Errorf("failed to dial broker: %w", err)
	}
	defer conn.Close()

	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("failed to open channel: %w", err)
	}
	defer ch.Close()

	// Idempotent; durable so messages survive broker restarts.
	if _, err := ch.QueueDeclare(orderConfirmedQueue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("failed to declare queue: %w", err)
	}

	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}

	if err := ch.PublishWithContext(ctx, "", orderConfirmedQueue, false, false, pub); err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}

	return nil
}
