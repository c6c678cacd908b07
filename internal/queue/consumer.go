package queue

import (
	"context"
	"fmt"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Handler processes one delivery body. A non-nil error requeues the message.
type Handler func(ctx context.Context, body []byte) error

type Consumer struct {
	conn *amqp.Connection
	ch   *amqp.Channel
	q    string
}

func NewConsumer(url, exchange, queue, key string) (*Consumer, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial rabbit: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	// гарантируем, что exchange/queue существуют и связаны
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

	return &Consumer{conn: conn, ch: ch, q: qd.Name}, nil
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

// Consume runs workers until ctx is done or the delivery channel closes.
func (c *Consumer) Consume(ctx context.Context, workers int, handle Handler) error {
	if c == nil || c.ch == nil {
		return fmt.Errorf("consumer is not initialized")
	}
	if workers <= 0 {
		workers = 1
	}

	if err := c.ch.Qos(workers*4, 0, false); err != nil {
		return fmt.Errorf("qos: %w", err)
	}
	msgs, err := c.ch.Consume(c.q, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("consume: %w", err)
	}

	Work(ctx, workers, msgs, handle)
	return nil
}

// Acker is the part of amqp.Delivery the worker pool needs.
type Acker interface {
	Ack(multiple bool) error
	Nack(multiple, requeue bool) error
}

type delivery interface {
	Acker
	body() []byte
	redelivered() bool
}

type amqpDelivery struct{ amqp.Delivery }

func (d amqpDelivery) body() []byte      { return d.Body }
func (d amqpDelivery) redelivered() bool { return d.Redelivered }

// Work drains msgs with a fixed pool. A message that fails twice is dropped
// instead of looping forever.
func Work(ctx context.Context, workers int, msgs <-chan amqp.Delivery, handle Handler) {
	in := make(chan delivery)
	go func() {
		defer close(in)
		for {
			select {
			case d, ok := <-msgs:
				if !ok {
					return
				}
				select {
				case in <- amqpDelivery{d}:
				case <-ctx.Done():
					return
				}
			case <-ctx.Done():
				return
			}
		}
	}()
	work(ctx, workers, in, handle)
}

func work(ctx context.Context, workers int, in <-chan delivery, handle Handler) {
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			for d := range in {
				if err := handle(ctx, d.body()); err != nil {
					// одна повторная доставка, дальше выкидываем
					_ = d.Nack(false, !d.redelivered())
					continue
				}
				_ = d.Ack(false)
			}
		}()
	}
	wg.Wait()
}
