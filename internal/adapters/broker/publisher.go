package broker

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"eventbooking/internal/domain"

	amqp "github.com/rabbitmq/amqp091-go"
)

// ReservationQueue receives every reservation change.
const ReservationQueue = "reservation.changed"

// amqpChannel is the part of *amqp.Channel the publisher uses.
type amqpChannel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// AMQPPublisher publishes reservation events as persistent JSON messages on the
// default exchange, routed to ReservationQueue.
type AMQPPublisher struct {
	mu     sync.Mutex
	conn   *amqp.Connection
	ch     amqpChannel
	logger *slog.Logger
}

// DialAMQP connects to the broker at url and declares the durable queue.
func DialAMQP(url string, logger *slog.Logger) (*AMQPPublisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("rabbitmq dial: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("rabbitmq channel: %w", err)
	}
	if _, err := ch.QueueDeclare(ReservationQueue, true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("rabbitmq queue declare: %w", err)
	}
	p := newAMQPPublisher(ch, logger)
	p.conn = conn
	return p, nil
}

func newAMQPPublisher(ch amqpChannel, logger *slog.Logger) *AMQPPublisher {
	return &AMQPPublisher{ch: ch, logger: logger.With("component", "broker")}
}

func (p *AMQPPublisher) Publish(ctx context.Context, ev *domain.ReservationEvent) error {
	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal reservation event: %w", err)
	}
	msg := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Type:         ev.Type,
		Body:         body,
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.ch.PublishWithContext(ctx, "", ReservationQueue, false, false, msg); err != nil {
		return fmt.Errorf("rabbitmq publish: %w", err)
	}
	p.logger.DebugContext(ctx, "reservation event published", "type", ev.Type, "reservation_id", ev.ReservationID)
	return nil
}

// Close closes the channel and the connection.
func (p *AMQPPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	err := p.ch.Close()
	if p.conn != nil {
		if cerr := p.conn.Close(); err == nil {
			err = cerr
		}
	}
	return err
}

// NoopPublisher drops events. It is used when no broker is configured.
type NoopPublisher struct{}

func (NoopPublisher) Publish(ctx context.Context, ev *domain.ReservationEvent) error { return nil }

var (
	_ domain.ReservationEventPublisher = (*AMQPPublisher)(nil)
	_ domain.ReservationEventPublisher = NoopPublisher{}
)
