package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"horse.fit/polyglot/internal/config"
	"horse.fit/polyglot/internal/translation"
)

// Client wraps one AMQP connection and channel bound to the translation
// exchange/queue pair. Both the exchange and the queue are declared durable,
// and published messages are persistent, so accepted work survives a broker
// restart.
type Client struct {
	conn       *amqp.Connection
	channel    *amqp.Channel
	exchange   string
	queue      string
	routingKey string
}

// Connect dials the broker and declares the exchange, queue, and binding.
// Declaration is idempotent, so intake and worker processes can both connect
// in any order.
func Connect(cfg *config.Config) (*Client, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is nil")
	}

	conn, err := amqp.DialConfig(cfg.AMQPURL, amqp.Config{
		Heartbeat: 10 * time.Second,
	})
	if err != nil {
		return nil, fmt.Errorf("dial broker: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	if err := channel.ExchangeDeclare(
		cfg.TranslationExchange,
		amqp.ExchangeDirect,
		true,  // durable
		false, // auto-delete
		false, // internal
		false, // no-wait
		nil,
	); err != nil {
		_ = channel.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("declare exchange %s: %w", cfg.TranslationExchange, err)
	}

	if _, err := channel.QueueDeclare(
		cfg.TranslationQueue,
		true,  // durable
		false, // auto-delete
		false, // exclusive
		false, // no-wait
		nil,
	); err != nil {
		_ = channel.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("declare queue %s: %w", cfg.TranslationQueue, err)
	}

	if err := channel.QueueBind(
		cfg.TranslationQueue,
		cfg.TranslationRoutingKey,
		cfg.TranslationExchange,
		false, // no-wait
		nil,
	); err != nil {
		_ = channel.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("bind queue %s to exchange %s: %w", cfg.TranslationQueue, cfg.TranslationExchange, err)
	}

	return &Client{
		conn:       conn,
		channel:    channel,
		exchange:   cfg.TranslationExchange,
		queue:      cfg.TranslationQueue,
		routingKey: cfg.TranslationRoutingKey,
	}, nil
}

// PublishWorkItem enqueues one work item as a persistent JSON message.
func (c *Client) PublishWorkItem(ctx context.Context, item translation.WorkItem) error {
	if c == nil || c.channel == nil {
		return fmt.Errorf("queue client is not connected")
	}

	body, err := json.Marshal(item)
	if err != nil {
		return fmt.Errorf("marshal work item: %w", err)
	}

	err = c.channel.PublishWithContext(
		ctx,
		c.exchange,
		c.routingKey,
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now().UTC(),
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("publish work item for record %s: %w", item.RecordID, err)
	}
	return nil
}

// Consume opens a delivery stream with the given prefetch bound. Each
// delivery must be acknowledged or negatively acknowledged by the consumer.
// The stream closes when ctx is cancelled or the connection drops.
func (c *Client) Consume(ctx context.Context, prefetch int) (<-chan amqp.Delivery, error) {
	if c == nil || c.channel == nil {
		return nil, fmt.Errorf("queue client is not connected")
	}
	if prefetch < 1 {
		prefetch = 1
	}

	if err := c.channel.Qos(prefetch, 0, false); err != nil {
		return nil, fmt.Errorf("set prefetch %d: %w", prefetch, err)
	}

	deliveries, err := c.channel.ConsumeWithContext(
		ctx,
		c.queue,
		"",    // consumer tag, broker-assigned
		false, // auto-ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("consume queue %s: %w", c.queue, err)
	}
	return deliveries, nil
}

// Close shuts the channel before the connection so in-flight publishes
// settle first.
func (c *Client) Close() error {
	if c == nil {
		return nil
	}
	if c.channel != nil {
		_ = c.channel.Close()
	}
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}
