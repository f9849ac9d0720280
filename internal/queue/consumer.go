package queue

import (
	"context"
	"fmt"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

type Consumer struct {
	conn *amqp.Connection
	ch   *amqp.Channel
	q    string
	log  *zap.Logger
}

func NewConsumer(url, exchange, queue, key string, log *zap.Logger) (*Consumer, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial rabbit: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("declare exchange: %w", err)
	}
	qd, err := ch.QueueDeclare(queue, true, false, false, false, nil)
	if err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("declare queue: %w", err)
	}
	if err := ch.QueueBind(qd.Name, key, exchange, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("bind queue: %w", err)
	}

	return &Consumer{conn: conn, ch: ch, q: qd.Name, log: log}, nil
}

func (c *Consumer) Close() {
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

// Handler processes one delivery. A Permanent error drops the message,
// any other error requeues it.
type Handler func(ctx context.Context, key string, body []byte) error

type permanent struct{ err error }

func (p permanent) Error() string { return p.err.Error() }
func (p permanent) Unwrap() error { return p.err }

// Permanent marks err as not worth a redelivery (e.g. a malformed payload).
func Permanent(err error) error { return permanent{err: err} }

func IsPermanent(err error) bool {
	_, ok := err.(permanent)
	return ok
}

func (c *Consumer) Consume(ctx context.Context, workers int, handle Handler) error {
	if c == nil || c.ch == nil {
		return fmt.Errorf("consumer is not initialized")
	}
	if workers <= 0 {
		workers = 1
	}

	if err := c.ch.Qos(50, 0, false); err != nil {
		return fmt.Errorf("qos: %w", err)
	}
	msgs, err := c.ch.Consume(c.q, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("consume: %w", err)
	}

	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			for {
				select {
				case d, ok := <-msgs:
					if !ok {
						return
					}
					c.deliver(ctx, d, handle)
				case <-ctx.Done():
					return
				}
			}
		}()
	}

	<-ctx.Done()
	wg.Wait()
	return nil
}

func (c *Consumer) deliver(ctx context.Context, d amqp.Delivery, handle Handler) {
	err := handle(ctx, d.RoutingKey, d.Body)
	switch {
	case err == nil:
		_ = d.Ack(false)
	case IsPermanent(err):
		c.log.Warn("dropping message", zap.String("key", d.RoutingKey), zap.String("message_id", d.MessageId), zap.Error(err))
		_ = d.Nack(false, false)
	default:
		c.log.Error("handler failed, requeue", zap.String("key", d.RoutingKey), zap.String("message_id", d.MessageId), zap.Error(err))
		_ = d.Nack(false, true)
	}
}
