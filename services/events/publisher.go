// Package events publishes domain events to RabbitMQ for downstream consumers.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

const (
	ExchangeName = "arone.events"
	ExchangeKind = "topic"
)

// Routing keys.
const (
	UserRegistered     = "user.registered"
	UserRoleChanged    = "user.role_changed"
	UserDeleted        = "user.deleted"
	PackageCreated     = "package.created"
	PackageUpdated     = "package.updated"
	PackageDeleted     = "package.deleted"
	BookingCreated     = "booking.created"
	BookingConfirmed   = "booking.confirmed"
	BookingDeleted     = "booking.deleted"
	BookingMessage     = "booking.message"
	ItineraryFinalized = "itinerary.finalized"
)

// Event is the envelope of every published message.
type Event struct {
	Type       string         `json:"type"`
	ActorID    string         `json:"actorId,omitempty"`
	ResourceID string         `json:"resourceId"`
	Data       map[string]any `json:"data,omitempty"`
	OccurredAt time.Time      `json:"occurredAt"`
}

// Publisher sends domain events.
type Publisher interface {
	Publish(ctx context.Context, routingKey string, payload any) error
	Close()
}

// RabbitPublisher publishes JSON messages to a durable topic exchange.
type RabbitPublisher struct {
	mu      sync.Mutex
	conn    *amqp.Connection
	channel *amqp.Channel
	logger  *zap.Logger
}

func NewRabbitPublisher(url string, logger *zap.Logger) (*RabbitPublisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("rabbitmq dial: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("rabbitmq channel: %w", err)
	}

	if err := ch.ExchangeDeclare(ExchangeName, ExchangeKind, true, false, false, false, nil); err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("rabbitmq exchange declare: %w", err)
	}

	return &RabbitPublisher{conn: conn, channel: ch, logger: logger}, nil
}

func (p *RabbitPublisher) Publish(ctx context.Context, routingKey string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	// amqp channels are not safe for concurrent publishes.
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.channel.PublishWithContext(
		ctx,
		ExchangeName,
		routingKey,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now(),
			Body:         body,
		},
	); err != nil {
		return fmt.Errorf("publish message: %w", err)
	}

	p.logger.Debug("event published", zap.String("exchange", ExchangeName), zap.String("routingKey", routingKey))
	return nil
}

func (p *RabbitPublisher) Close() {
	if p.channel != nil {
		p.channel.Close()
	}
	if p.conn != nil {
		p.conn.Close()
	}
}

// NoopPublisher drops every event. Used when RABBITMQ_URL is empty.
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, string, any) error { return nil }
func (NoopPublisher) Close() {}

// Emit publishes an event and logs a failure instead of returning it. Events never fail
// the mutation that produced them.
func Emit(ctx context.Context, pub Publisher, logger *zap.Logger, routingKey, actorID, resourceID string, data map[string]any) {
	if pub == nil {
		return
	}
	ev := Event{Type: routingKey, ActorID: actorID, ResourceID: resourceID, Data: data, OccurredAt: time.Now().UTC()}
	if err := pub.Publish(ctx, routingKey, ev); err != nil {
		logger.Warn("failed to publish event", zap.String("routingKey", routingKey), zap.String("resourceId", resourceID), zap.Error(err))
	}
}
