package rabbitmq

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net/url"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Topology shared by the API (publisher) and the worker (consumer).
const (
	ExchangeOrders     = "orders_topic"
	ExchangeDeadLetter = "dlx"
	QueueNotifications = "notifications.q"
	QueueDeadLetter    = "dlq"
	BindingOrderEvents = "order.#"
)

type Config struct {
	Host     string
	Port     int
	User     string
	Password string
	VHost    string
	UseTLS   bool
}

// URL renders cfg as an AMQP URI.
func (cfg Config) URL() string {
	scheme := "amqp"
	if cfg.UseTLS {
		scheme = "amqps"
	}
	vhost := cfg.VHost
	if vhost == "" {
		vhost = "/"
	}
	u := url.URL{
		Scheme:  scheme,
		User:    url.UserPassword(cfg.User, cfg.Password),
		Host:    fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Path:    "/" + vhost,
		RawPath: "/" + url.PathEscape(vhost),
	}
	return u.String()
}

// Client owns one connection and one channel in confirm mode.
type Client struct {
	conn *amqp.Connection
	ch   *amqp.Channel

	publish publishFunc
}

// confirmation is the broker's pending answer for one published message.
type confirmation interface {
	WaitContext(ctx context.Context) (bool, error)
}

type publishFunc func(ctx context.Context, exchange, key string, msg amqp.Publishing) (confirmation, error)

func channelPublisher(ch *amqp.Channel) publishFunc {
	return func(ctx context.Context, exchange, key string, msg amqp.Publishing) (confirmation, error) {
		dc, err := ch.PublishWithDeferredConfirmWithContext(ctx, exchange, key, false, false, msg)
		if err != nil {
			return nil, err
		}
		if dc == nil {
			return nil, errors.New("channel is not in confirm mode")
		}
		return dc, nil
	}
}

func Dial(cfg Config) (*Client, error) {
	var (
		conn *amqp.Connection
		err  error
	)
	if cfg.UseTLS {
		conn, err = amqp.DialTLS(cfg.URL(), &tls.Config{MinVersion: tls.VersionTLS12})
	} else {
		conn, err = amqp.Dial(cfg.URL())
	}
	if err != nil {
		return nil, fmt.Errorf("dial rabbitmq: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	if err := ch.Confirm(false); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("enable confirms: %w", err)
	}
	return &Client{conn: conn, ch: ch, publish: channelPublisher(ch)}, nil
}

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

func (c *Client) Ping() error {
	if c == nil || c.conn == nil || c.conn.IsClosed() {
		return errors.New("rabbitmq connection is closed")
	}
	return nil
}

// DeclareTopology creates the order exchange, the notifications queue and
// its dead-letter route. Declarations are idempotent.
func (c *Client) DeclareTopology() error {
	if err := c.ch.ExchangeDeclare(ExchangeOrders, "topic", true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare %s: %w", ExchangeOrders, err)
	}
	if err := c.ch.ExchangeDeclare(ExchangeDeadLetter, "direct", true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare %s: %w", ExchangeDeadLetter, err)
	}

	if _, err := c.ch.QueueDeclare(QueueNotifications, true, false, false, false, amqp.Table{
		"x-dead-letter-exchange":    ExchangeDeadLetter,
		"x-dead-letter-routing-key": QueueDeadLetter,
	}); err != nil {
		return fmt.Errorf("declare %s: %w", QueueNotifications, err)
	}
	if _, err := c.ch.QueueDeclare(QueueDeadLetter, true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare %s: %w", QueueDeadLetter, err)
	}

	if err := c.ch.QueueBind(QueueNotifications, BindingOrderEvents, ExchangeOrders, false, nil); err != nil {
		return fmt.Errorf("bind %s: %w", QueueNotifications, err)
	}
	if err := c.ch.QueueBind(QueueDeadLetter, QueueDeadLetter, ExchangeDeadLetter, false, nil); err != nil {
		return fmt.Errorf("bind %s: %w", QueueDeadLetter, err)
	}
	return nil
}

// Publish sends a persistent JSON message and waits for the broker's confirm.
// Every message has its own deferred confirmation; giving up on ctx abandons
// only that one.
func (c *Client) Publish(ctx context.Context, exchange, key string, body []byte) error {
	dc, err := c.publish(ctx, exchange, key, amqp.Publishing{
		DeliveryMode: amqp.Persistent,
		ContentType:  "application/json",
		Timestamp:    time.Now().UTC(),
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("publish %s: %w", key, err)
	}

	acked, err := dc.WaitContext(ctx)
	if err != nil {
		return fmt.Errorf("publish %s: await confirm: %w", key, err)
	}
	if !acked {
		return fmt.Errorf("publish %s: nacked by broker", key)
	}
	return nil
}

// Consume starts a manual-ack consumer with the given prefetch.
func (c *Client) Consume(queue, consumer string, prefetch int) (<-chan amqp.Delivery, error) {
	if err := c.ch.Qos(prefetch, 0, false); err != nil {
		return nil, fmt.Errorf("set qos: %w", err)
	}
	return c.ch.Consume(queue, consumer, false, false, false, false, nil)
}
