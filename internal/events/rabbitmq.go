// Package events publishes domain events to a RabbitMQ topic exchange.
package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	portssvc "github.com/mafujur-rahman/cash-plus-server/internal/core/ports/services"
	"github.com/mafujur-rahman/cash-plus-server/internal/middleware"
	"github.com/rabbitmq/amqp091-go"
)

const publishTimeout = 5 * time.Second

// RabbitPublisher publishes JSON events to a durable topic exchange.
type RabbitPublisher struct {
	conn     *amqp091.Connection
	exchange string

	// amqp091 channels must not be shared between goroutines that publish.
	mu      sync.Mutex
	channel *amqp091.Channel
}

var _ portssvc.EventPublisher = (*RabbitPublisher)(nil)

func sanitizeAMQPURL(raw string) (string, error) {
	clean := strings.TrimSpace(raw)
	clean = strings.Trim(clean, "\"'")
	u, err := url.Parse(clean)
	if err != nil {
		return "", err
	}
	if u.Scheme != "amqp" && u.Scheme != "amqps" {
		return "", errors.New("AMQP scheme must be either 'amqp://' or 'amqps://'")
	}
	if u.Path == "" {
		clean += "/"
	}
	return clean, nil
}

// NewRabbitPublisher dials the broker and declares the exchange.
func NewRabbitPublisher(amqpURL, exchange string) (*RabbitPublisher, error) {
	cleanURL, err := sanitizeAMQPURL(amqpURL)
	if err != nil {
		return nil, err
	}

	conn, err := amqp091.Dial(cleanURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to rabbitmq: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open rabbitmq channel: %w", err)
	}

	err = channel.ExchangeDeclare(
		exchange, // name
		"topic",  // type
		true,     // durable
		false,    // auto-deleted
		false,    // internal
		false,    // no-wait
		nil,      // arguments
	)
	if err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare exchange %s: %w", exchange, err)
	}

	return &RabbitPublisher{conn: conn, channel: channel, exchange: exchange}, nil
}

// Publish marshals payload to JSON and sends it with the routing key.
func (p *RabbitPublisher) Publish(ctx context.Context, routingKey string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal event %s: %w", routingKey, err)
	}

	// The caller's request may already be finishing; the event has its own budget.
	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()

	p.mu.Lock()
	defer p.mu.Unlock()

	err = p.channel.PublishWithContext(pubCtx,
		p.exchange, // exchange
		routingKey, // routing key
		false,      // mandatory
		false,      // immediate
		amqp091.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp091.Persistent,
			MessageId:    uuid.NewString(),
			Timestamp:    time.Now().UTC(),
			Type:         routingKey,
			Body:         body,
		})
	if err != nil {
		return fmt.Errorf("failed to publish event %s: %w", routingKey, err)
	}

	middleware.GetLoggerFromCtx(ctx).Debug("Published event",
		slog.String("exchange", p.exchange),
		slog.String("routing_key", routingKey))
	return nil
}

// Close gracefully closes the channel and connection.
func (p *RabbitPublisher) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.channel != nil {
		p.channel.Close()
	}
	if p.conn != nil {
		p.conn.Close()
	}
}

// NoopPublisher drops every event. It is used when no broker is configured or reachable.
type NoopPublisher struct{}

var _ portssvc.EventPublisher = NoopPublisher{}

func (NoopPublisher) Publish(ctx context.Context, routingKey string, payload any) error {
	middleware.GetLoggerFromCtx(ctx).Debug("Event dropped, no broker configured", slog.String("routing_key", routingKey))
	return nil
}

func (NoopPublisher) Close() {}

// NewPublisher connects to RabbitMQ when amqpURL is set and falls back to a NoopPublisher
// when it is empty or the broker cannot be reached.
func NewPublisher(amqpURL, exchange string, logger *slog.Logger) portssvc.EventPublisher {
	if strings.TrimSpace(amqpURL) == "" {
		logger.Warn("RABBITMQ_URL not set, domain events will not be published")
		return NoopPublisher{}
	}
	publisher, err := NewRabbitPublisher(amqpURL, exchange)
	if err != nil {
		logger.Warn("RabbitMQ unavailable, domain events will not be published", slog.String("error", err.Error()))
		return NoopPublisher{}
	}
	logger.Info("Connected to RabbitMQ", slog.String("exchange", exchange))
	return publisher
}
