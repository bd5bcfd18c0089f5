// Package messaging defines the queue the drainer publishes completion
// batches to.  Implementations live in sub packages.
package messaging

import (
	"context"
)

// Queue is a message queue for any payload type
type Queue[T any] interface {
	// Publish adds a new message with payload to the queue
	Publish(ctx context.Context, t *T) error

	// Consume retrieves a single message from the queue, blocking until one
	// is available or ctx is done
	Consume(ctx context.Context) (Message[T], error)
}

// Message is a message retrieved from a queue
type Message[T any] interface {
	// ID returns the message identifier, stable across redeliveries
	ID() string

	// T returns the payload of this message
	T() *T

	// Ack acknowledges successful processing of this message
	Ack() error

	// Nack reports a failure; the message is redelivered or dead-lettered
	Nack(err error) error
}
