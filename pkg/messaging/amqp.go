package messaging

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/streadway/amqp"
)

// ErrPermanent marks a message that can never be processed; it is dropped instead of requeued.
var ErrPermanent = errors.New("messaging: permanent failure")

func Permanent(err error) error {
	return fmt.Errorf("%w: %v", ErrPermanent, err)
}

func Dial(url string) (*amqp.Connection, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("messaging: dial: %w", err)
	}
	return conn, nil
}

func declare(ch *amqp.Channel, queue string) error {
	_, err := ch.QueueDeclare(
		queue, // queue name
		true,  // durable (survives broker restarts)
		false, // auto-delete when unused
		false, // exclusive
		false, // no-wait
		nil,   // arguments
	)
	if err != nil {
		return fmt.Errorf("messaging: declare %s: %w", queue, err)
	}
	return nil
}

// Publisher writes JSON messages to one durable queue over a shared channel.
type Publisher struct {
	mu    sync.Mutex
	ch    *amqp.Channel
	queue string
}

func NewPublisher(conn *amqp.Connection, queue string) (*Publisher, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("messaging: open channel: %w", err)
	}
	if err := declare(ch, queue); err != nil {
		ch.Close()
		return nil, err
	}
	return &Publisher{ch: ch, queue: queue}, nil
}

func (p *Publisher) PublishJSON(ctx context.Context, v any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	body, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("messaging: encode: %w", err)
	}

	// amqp channels are not safe for concurrent publishes
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.ch.Publish(
		"",      // default exchange
		p.queue, // routing key
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Body:         body,
		},
	)
}

func (p *Publisher) Close() error {
	return p.ch.Close()
}

// Handler processes one message body. Wrap the error with Permanent to drop the message.
type Handler func(ctx context.Context, body []byte) error

// Consumer fans deliveries of one queue out to a fixed pool of workers with manual acks.
type Consumer struct {
	conn    *amqp.Connection
	queue   string
	workers int
	log     *slog.Logger
}

func NewConsumer(conn *amqp.Connection, queue string, workers int, log *slog.Logger) *Consumer {
	if workers < 1 {
		workers = 1
	}
	return &Consumer{conn: conn, queue: queue, workers: workers, log: log}
}

// Run blocks until ctx is cancelled or the broker closes the delivery channel.
func (c *Consumer) Run(ctx context.Context, h Handler) error {
	ch, err := c.conn.Channel()
	if err != nil {
		return fmt.Errorf("messaging: open channel: %w", err)
	}
	defer ch.Close()

	if err := declare(ch, c.queue); err != nil {
		return err
	}
	if err := ch.Qos(c.workers, 0, false); err != nil {
		return fmt.Errorf("messaging: qos: %w", err)
	}

	msgs, err := ch.Consume(
		c.queue, // queue name
		"",      // consumer tag
		false,   // auto-ack
		false,   // exclusive
		false,   // no-local
		false,   // no-wait
		nil,     // arguments
	)
	if err != nil {
		return fmt.Errorf("messaging: consume %s: %w", c.queue, err)
	}

	var wg sync.WaitGroup
	wg.Add(c.workers)
	for i := 0; i < c.workers; i++ {
		go func(id int) {
			defer wg.Done()
			c.log.Info("worker started", slog.Int("worker", id), slog.String("queue", c.queue))
			for {
				select {
				case <-ctx.Done():
					return
				case d, ok := <-msgs:
					if !ok {
						return
					}
					c.settle(d, h(ctx, d.Body))
				}
			}
		}(i + 1)
	}
	wg.Wait()
	return ctx.Err()
}

func (c *Consumer) settle(d amqp.Delivery, err error) {
	var ackErr error
	switch {
	case err == nil:
		ackErr = d.Ack(false)
	case errors.Is(err, ErrPermanent):
		c.log.Error("dropping message", slog.String("queue", c.queue), slog.Any("error", err))
		ackErr = d.Nack(false, false)
	default:
		c.log.Warn("requeueing message", slog.String("queue", c.queue), slog.Any("error", err))
		ackErr = d.Nack(false, true)
	}
	if ackErr != nil {
		c.log.Error("failed to settle delivery", slog.Uint64("tag", d.DeliveryTag), slog.Any("error", ackErr))
	}
}
