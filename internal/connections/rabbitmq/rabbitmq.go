package rabbitmq

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"restaurant-admin/internal/common/config"
)

const (
	OrdersExchange = "orders_topic"
	FeedQueue      = "order_feed.q"
	DeadLetterX    = "dlx"
	DeadLetterQ    = "dlq"
)

type Client struct {
	conn *amqp.Connection
	ch   *amqp.Channel

	acks <-chan amqp.Confirmation
	mu   sync.Mutex // serializes Publish while confirms are on
}

func (c *Client) Channel() *amqp.Channel { return c.ch }

func (c *Client) Close() {
	if c == nil {
		return
	}
	if c.ch != nil {
		_ = c.ch.Close()
	}
	if c.conn != nil {
		_ = c.conn.Close()
	}
}

func amqpURL(cfg config.MQ) string {
	vhost := cfg.VHost
	if vhost == "" || vhost == "/" {
		vhost = ""
	}
	u := url.URL{
		Scheme: "amqp",
		User:   url.UserPassword(cfg.User, cfg.Pass),
		Host:   fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Path:   "/" + vhost,
	}
	return u.String()
}

func Dial(cfg config.MQ) (*Client, error) {
	conn, err := amqp.Dial(amqpURL(cfg))
	if err != nil {
		return nil, err
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, err
	}

	if err := ch.Confirm(false); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, err
	}
	acks := ch.NotifyPublish(make(chan amqp.Confirmation, 1))

	return &Client{conn: conn, ch: ch, acks: acks}, nil
}

// DialWithRetry keeps dialing until the broker accepts or ctx ends.
func DialWithRetry(ctx context.Context, cfg config.MQ, attempts int, delay time.Duration) (*Client, error) {
	var lastErr error
	for i := 1; i <= attempts; i++ {
		c, err := Dial(cfg)
		if err == nil {
			return c, nil
		}
		lastErr = err
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return nil, fmt.Errorf("rabbitmq dial canceled: %w", ctx.Err())
		}
	}
	return nil, fmt.Errorf("rabbitmq unreachable after %d attempts: %w", attempts, lastErr)
}

// DeclareTopology declares the order exchange, the feed queue and the
// dead-letter pair. It is idempotent.
func (c *Client) DeclareTopology() error {
	if c == nil || c.ch == nil {
		return errors.New("nil channel")
	}
	if err := c.ch.ExchangeDeclare(OrdersExchange, "topic", true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare %s: %w", OrdersExchange, err)
	}
	if err := c.ch.ExchangeDeclare(DeadLetterX, "direct", true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare %s: %w", DeadLetterX, err)
	}
	if _, err := c.ch.QueueDeclare(DeadLetterQ, true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare %s: %w", DeadLetterQ, err)
	}
	if err := c.ch.QueueBind(DeadLetterQ, DeadLetterQ, DeadLetterX, false, nil); err != nil {
		return fmt.Errorf("bind %s: %w", DeadLetterQ, err)
	}
	if _, err := c.ch.QueueDeclare(FeedQueue, true, false, false, false, amqp.Table{
		"x-dead-letter-exchange":    DeadLetterX,
		"x-dead-letter-routing-key": DeadLetterQ,
	}); err != nil {
		return fmt.Errorf("declare %s: %w", FeedQueue, err)
	}
	if err := c.ch.QueueBind(FeedQueue, "order.#", OrdersExchange, false, nil); err != nil {
		return fmt.Errorf("bind %s: %w", FeedQueue, err)
	}
	return nil
}

func (c *Client) Ping() error {
	if c.conn == nil || c.conn.IsClosed() {
		return errors.New("rabbitmq connection is closed")
	}
	return nil
}

// Publish sends a message and waits for the broker ack or nack.
func (c *Client) Publish(ctx context.Context, exchange, key string,
	body []byte, headers amqp.Table, contentType string, persistent bool) error {

	c.mu.Lock()
	defer c.mu.Unlock()

	mode := amqp.Transient
	if persistent {
		mode = amqp.Persistent
	}

	if err := c.ch.PublishWithContext(
		ctx,
		exchange,
		key,
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			DeliveryMode: mode,
			ContentType:  contentType,
			Timestamp:    time.Now().UTC(),
			Headers:      headers,
			Body:         body,
		},
	); err != nil {
		return err
	}

	select {
	case conf := <-c.acks:
		if conf.Ack {
			return nil
		}
		return errors.New("publish NACK from broker")
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Consume sets the prefetch and starts a manual-ack consumer on queue.
func (c *Client) Consume(queue, consumer string, prefetch int) (<-chan amqp.Delivery, error) {
	if err := c.ch.Qos(prefetch, 0, false); err != nil {
		return nil, err
	}
	return c.ch.Consume(queue, consumer, false, false, false, false, nil)
}
