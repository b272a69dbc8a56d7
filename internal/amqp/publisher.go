package amqp

import (
	"context"
	"fmt"
	"time"

	"github.com/dafibh/fortuna/budget-backend/internal/websocket"
	"github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"
)

const publishTimeout = 5 * time.Second

// channel is the part of *amqp091.Channel the publisher needs
type channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp091.Publishing) error
	Close() error
}

// Publisher forwards selected events to a durable direct exchange
type Publisher struct {
	conn       *amqp091.Connection
	channel    channel
	exchange   string
	routingKey string
	logger     zerolog.Logger
}

var _ websocket.EventPublisher = (*Publisher)(nil)

// NewPublisher dials the broker and declares the exchange.
// Only events whose type equals routingKey are forwarded.
func NewPublisher(url, exchange, routingKey string, logger zerolog.Logger) (*Publisher, error) {
	conn, err := amqp091.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial AMQP: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	err = ch.ExchangeDeclare(
		exchange, // name
		"direct", // type
		true,     // durable
		false,    // auto-deleted
		false,    // internal
		false,    // no-wait
		nil,      // arguments
	)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("declare exchange: %w", err)
	}

	p := newPublisher(ch, exchange, routingKey, logger)
	p.conn = conn
	return p, nil
}

func newPublisher(ch channel, exchange, routingKey string, logger zerolog.Logger) *Publisher {
	return &Publisher{
		channel:    ch,
		exchange:   exchange,
		routingKey: routingKey,
		logger:     logger.With().Str("component", "amqp").Str("exchange", exchange).Logger(),
	}
}

// Publish sends the event when its type matches the routing key.
// Broker failures are logged and never reach the caller.
func (p *Publisher) Publish(event websocket.Event) {
	if event.Type != p.routingKey {
		return
	}

	body, err := event.ToJSON()
	if err != nil {
		p.logger.Error().Err(err).Str("type", event.Type).Msg("Failed to marshal event")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()

	err = p.channel.PublishWithContext(
		ctx,
		p.exchange,   // exchange
		p.routingKey, // routing key
		false,        // mandatory
		false,        // immediate
		amqp091.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp091.Persistent,
			Timestamp:    event.Timestamp,
			Type:         event.Type,
			Body:         body,
		},
	)
	if err != nil {
		p.logger.Error().Err(err).Str("type", event.Type).Msg("Failed to publish event")
		return
	}

	p.logger.Debug().Str("type", event.Type).Msg("Published event")
}

// Close releases the channel and connection
func (p *Publisher) Close() error {
	if p.channel != nil {
		p.channel.Close()
	}
	if p.conn != nil {
		return p.conn.Close()
	}
	return nil
}
