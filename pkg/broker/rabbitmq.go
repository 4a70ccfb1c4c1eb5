package broker

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"seatshare/pkg/logger"

	amqp "github.com/rabbitmq/amqp091-go"
)

var ErrClosed = errors.New("rabbitmq: publisher closed")

type Options struct {
	URL        string
	Exchange   string
	MaxRetries int
	RetryDelay time.Duration
}

// RabbitMQ publishes JSON events to a single topic exchange.
type RabbitMQ struct {
	opts   Options
	conn   *amqp.Connection
	ch     *amqp.Channel
	log    *logger.Logger
	mu     sync.Mutex
	closed bool
}

// NewRabbitMQ dials with backoff and declares the exchange.
func NewRabbitMQ(ctx context.Context, opts Options, log *logger.Logger) (*RabbitMQ, error) {
	if opts.MaxRetries < 1 {
		opts.MaxRetries = 1
	}
	if opts.RetryDelay <= 0 {
		opts.RetryDelay = time.Second
	}

	mq := &RabbitMQ{opts: opts, log: log.WithField("component", "rabbitmq")}

	delay := opts.RetryDelay
	for attempt := 1; ; attempt++ {
		err := mq.connect()
		if err == nil {
			mq.log.WithField("attempt", attempt).Info("Connected to RabbitMQ")
			return mq, nil
		}

		mq.log.WithError(err).WithFields(map[string]interface{}{
			"attempt":     attempt,
			"max_retries": opts.MaxRetries,
		}).Warn("RabbitMQ connection attempt failed")

		if attempt >= opts.MaxRetries {
			return nil, fmt.Errorf("failed to connect after %d attempts: %w", attempt, err)
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(delay):
		}
		delay = time.Duration(float64(delay) * 1.5)
		if delay > 30*time.Second {
			delay = 30 * time.Second
		}
	}
}

func (mq *RabbitMQ) connect() error {
	conn, err := amqp.Dial(mq.opts.URL)
	if err != nil {
		return fmt.Errorf("dial rabbitmq: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return fmt.Errorf("open channel: %w", err)
	}

	err = ch.ExchangeDeclare(
		mq.opts.Exchange,
		amqp.ExchangeTopic,
		true,  // durable
		false, // auto-deleted
		false, // internal
		false, // no-wait
		nil,
	)
	if err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return fmt.Errorf("declare exchange %s: %w", mq.opts.Exchange, err)
	}

	mq.mu.Lock()
	mq.conn = conn
	mq.ch = ch
	mq.mu.Unlock()

	return nil
}

// Publish sends body to the exchange under routingKey. A closed channel is
// reopened once before giving up.
func (mq *RabbitMQ) Publish(ctx context.Context, routingKey string, body []byte) error {
	err := mq.publish(ctx, routingKey, body)
	if err == nil || errors.Is(err, ErrClosed) {
		return err
	}
	if !errors.Is(err, amqp.ErrClosed) {
		return err
	}

	mq.log.WithError(err).Warn("RabbitMQ channel closed, reconnecting")
	if err := mq.connect(); err != nil {
		return err
	}
	return mq.publish(ctx, routingKey, body)
}

func (mq *RabbitMQ) publish(ctx context.Context, routingKey string, body []byte) error {
	mq.mu.Lock()
	defer mq.mu.Unlock()

	if mq.closed {
		return ErrClosed
	}
	if mq.ch == nil {
		return amqp.ErrClosed
	}

	publishCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	return mq.ch.PublishWithContext(
		publishCtx,
		mq.opts.Exchange,
		routingKey,
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now(),
		},
	)
}

func (mq *RabbitMQ) Ping() error {
	mq.mu.Lock()
	defer mq.mu.Unlock()
	if mq.closed || mq.conn == nil || mq.conn.IsClosed() {
		return amqp.ErrClosed
	}
	return nil
}

func (mq *RabbitMQ) Close() {
	mq.mu.Lock()
	defer mq.mu.Unlock()

	if mq.closed {
		return
	}
	mq.closed = true

	if mq.ch != nil {
		_ = mq.ch.Close()
	}
	if mq.conn != nil {
		_ = mq.conn.Close()
	}
	mq.log.Info("RabbitMQ connection closed")
}
