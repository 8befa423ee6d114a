// Package amqp delivers outbox messages to a RabbitMQ topic exchange.
package amqp

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rabbitmq/amqp091-go"

	"stationdesk/internal/infrastructure/storage/postgres"
	"stationdesk/pkg/logger"
)

// Channel is the subset of *amqp091.Channel the publisher needs.
type Channel interface {
	ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp091.Table) error
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp091.Publishing) error
	Close() error
}

// Dialer opens a channel plus the connection that owns it.
type Dialer func(url string) (Channel, func() error, error)

// DialAMQP is the production Dialer.
func DialAMQP(url string) (Channel, func() error, error) {
	conn, err := amqp091.Dial(url)
	if err != nil {
		return nil, nil, fmt.Errorf("dial AMQP: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, nil, fmt.Errorf("open channel: %w", err)
	}
	return ch, conn.Close, nil
}

// Config for the publisher.
type Config struct {
	URL            string
	Exchange       string
	PublishTimeout time.Duration
}

var _ postgres.OutboxHandler = (*Publisher)(nil)

// Publisher publishes outbox messages with routing key "<aggregate>.<event>".
// The channel is opened lazily and reopened after connection failures.
type Publisher struct {
	cfg  Config
	dial Dialer
	log  *logger.Logger

	mu        sync.Mutex
	ch        Channel
	closeConn func() error
}

// NewPublisher creates a publisher. Nothing is dialled until the first Handle.
func NewPublisher(cfg Config, dial Dialer, log *logger.Logger) *Publisher {
	if cfg.Exchange == "" {
		cfg.Exchange = "stationdesk.events"
	}
	if cfg.PublishTimeout <= 0 {
		cfg.PublishTimeout = 5 * time.Second
	}
	if dial == nil {
		dial = DialAMQP
	}
	return &Publisher{cfg: cfg, dial: dial, log: log.WithComponent("amqp_publisher")}
}

func (p *Publisher) channel() (Channel, error) {
	if p.ch != nil {
		return p.ch, nil
	}
	ch, closeConn, err := p.dial(p.cfg.URL)
	if err != nil {
		return nil, err
	}
	err = ch.ExchangeDeclare(
		p.cfg.Exchange,
		"topic",
		true,  // durable
		false, // auto-deleted
		false, // internal
		false, // no-wait
		nil,
	)
	if err != nil {
		ch.Close()
		if closeConn != nil {
			closeConn()
		}
		return nil, fmt.Errorf("declare exchange: %w", err)
	}
	p.ch, p.closeConn = ch, closeConn
	return ch, nil
}

// Handle implements postgres.OutboxHandler.
func (p *Publisher) Handle(ctx context.Context, msg *postgres.OutboxMessage) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	ch, err := p.channel()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, p.cfg.PublishTimeout)
	defer cancel()

	err = ch.PublishWithContext(ctx, p.cfg.Exchange, msg.RoutingKey(), false, false, Publishing(msg))
	if err != nil {
		if isConnectionError(err) {
			p.reset()
		}
		return fmt.Errorf("publish %s: %w", msg.RoutingKey(), err)
	}

	p.log.Debugw("published outbox message",
		"message_id", msg.ID,
		"routing_key", msg.RoutingKey(),
	)
	return nil
}

// Publishing maps an outbox row to an AMQP message.
func Publishing(msg *postgres.OutboxMessage) amqp091.Publishing {
	return amqp091.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp091.Persistent,
		MessageId:    msg.ID.String(),
		Type:         msg.EventType,
		Timestamp:    msg.CreatedAt,
		Headers: amqp091.Table{
			"aggregate_type": msg.AggregateType,
			"aggregate_id":   msg.AggregateID.String(),
		},
		Body: msg.Payload,
	}
}

func (p *Publisher) reset() {
	if p.ch != nil {
		p.ch.Close()
	}
	if p.closeConn != nil {
		p.closeConn()
	}
	p.ch, p.closeConn = nil, nil
}

// Close releases the channel and connection.
func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.reset()
	return nil
}

func isConnectionError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, amqp091.ErrClosed) {
		return true
	}
	s := err.Error()
	for _, needle := range []string{"connection refused", "connection closed", "EOF", "broken pipe", "use of closed network connection"} {
		if strings.Contains(s, needle) {
			return true
		}
	}
	return false
}
