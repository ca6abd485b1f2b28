package queue

import (
	"context"
	"fmt"
	"sync"

	"github.com/streadway/amqp"

	"github.com/unclebandit/relief-campaign/internal/logger"
)

// AMQPQueue publishes to and consumes from durable RabbitMQ queues named after the topic
type AMQPQueue struct {
	conn *amqp.Connection
	ch   *amqp.Channel
	log  *logger.Logger

	mu       sync.Mutex
	declared map[string]bool
}

// DialAMQP connects to the broker and opens a channel
func DialAMQP(url string, log *logger.Logger) (*AMQPQueue, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open a channel: %w", err)
	}

	return &AMQPQueue{
		conn:     conn,
		ch:       ch,
		log:      log.WithComponent("amqp"),
		declared: make(map[string]bool),
	}, nil
}

// declare must be called with mu held
func (q *AMQPQueue) declare(topic string) error {
	if q.declared[topic] {
		return nil
	}
	_, err := q.ch.QueueDeclare(
		topic, // name
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,   // arguments
	)
	if err != nil {
		return fmt.Errorf("failed to declare queue %s: %w", topic, err)
	}
	q.declared[topic] = true
	return nil
}

// Publish sends one persistent JSON message
func (q *AMQPQueue) Publish(ctx context.Context, topic string, payload []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	q.mu.Lock()
	defer q.mu.Unlock()

	if err := q.declare(topic); err != nil {
		return err
	}
	return q.ch.Publish(
		"",
		topic,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Body:         payload,
		},
	)
}

// Consume feeds deliveries on topic to handler until ctx is cancelled or the
// channel closes. Every delivery is acknowledged once; failed jobs are dropped.
func (q *AMQPQueue) Consume(ctx context.Context, topic string, handler Handler) error {
	q.mu.Lock()
	err := q.declare(topic)
	q.mu.Unlock()
	if err != nil {
		return err
	}

	msgs, err := q.ch.Consume(
		topic,
		"",
		false, // autoAck
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return fmt.Errorf("failed to register consumer: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case d, ok := <-msgs:
			if !ok {
				return fmt.Errorf("delivery channel for %s closed", topic)
			}
			if err := handler(ctx, d.Body); err != nil {
				q.log.Error().Err(err).Str("topic", topic).Msg("job failed")
				d.Nack(false, false)
				continue
			}
			d.Ack(false)
		}
	}
}

// Close shuts the channel and the connection
func (q *AMQPQueue) Close() error {
	if err := q.ch.Close(); err != nil {
		q.conn.Close()
		return err
	}
	return q.conn.Close()
}

var _ Publisher = (*AMQPQueue)(nil)
