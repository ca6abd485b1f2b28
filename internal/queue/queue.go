package queue

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// Publisher delivers a payload to a named topic
type Publisher interface {
	Publish(ctx context.Context, topic string, payload []byte) error
}

// Handler processes one payload
type Handler func(ctx context.Context, payload []byte) error

// InMemoryQueue hands each payload to its subscribers synchronously, one attempt each
type InMemoryQueue struct {
	mu       sync.Mutex
	handlers map[string][]Handler
}

// NewInMemoryQueue creates a new queue
func NewInMemoryQueue() *InMemoryQueue {
	return &InMemoryQueue{
		handlers: make(map[string][]Handler),
	}
}

// Publish runs every subscriber of topic and joins their errors
func (q *InMemoryQueue) Publish(ctx context.Context, topic string, payload []byte) error {
	q.mu.Lock()
	handlers := append([]Handler(nil), q.handlers[topic]...)
	q.mu.Unlock()

	if len(handlers) == 0 {
		return fmt.Errorf("no subscribers for topic %s", topic)
	}

	var errs []error
	for _, handler := range handlers {
		if err := handler(ctx, payload); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Subscribe adds a handler for a topic
func (q *InMemoryQueue) Subscribe(topic string, handler Handler) {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.handlers[topic] = append(q.handlers[topic], handler)
}

var _ Publisher = (*InMemoryQueue)(nil)
