// Package memory provides an in-process, channel backed messaging.Queue.
package memory

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/viant/ctxsched/internal/clock"
	"github.com/viant/ctxsched/internal/idgen"
	"github.com/viant/ctxsched/service/messaging"
)

var (
	// ErrProcessed is returned when a message is acked or nacked twice.
	ErrProcessed = errors.New("message already processed")
	// ErrOverflow is the dead letter reason of a redelivery that found the
	// buffer full.
	ErrOverflow = errors.New("queue buffer full")
)

// Config for the memory queue
type Config struct {
	MaxRetries  int           `json:"maxRetries,omitempty" yaml:"maxRetries,omitempty"`
	RetryDelay  time.Duration `json:"retryDelay,omitempty" yaml:"retryDelay,omitempty"`
	DeadLetter  bool          `json:"deadLetter,omitempty" yaml:"deadLetter,omitempty"`
	QueueBuffer int           `json:"queueBuffer,omitempty" yaml:"queueBuffer,omitempty"`
}

// DefaultConfig returns the default memory queue configuration
func DefaultConfig() Config {
	return Config{
		MaxRetries:  3,
		RetryDelay:  100 * time.Millisecond,
		DeadLetter:  true,
		QueueBuffer: 100,
	}
}

// Message is a queued payload.
type Message[T any] struct {
	id         string
	payload    T
	queue      *Queue[T]
	attempts   int
	createdAt  time.Time
	mu         sync.Mutex
	processed  bool
	lastReason error
}

// ID returns the message id.
func (m *Message[T]) ID() string { return m.id }

// T returns the message payload
func (m *Message[T]) T() *T { return &m.payload }

// Attempts returns how many times the message was nacked.
func (m *Message[T]) Attempts() int { return m.attempts }

// CreatedAt returns the time of the last delivery.
func (m *Message[T]) CreatedAt() time.Time { return m.createdAt }

// Reason returns the error of the last Nack.
func (m *Message[T]) Reason() error { return m.lastReason }

func (m *Message[T]) settle() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.processed {
		return ErrProcessed
	}
	m.processed = true
	return nil
}

// Ack marks the message processed.
func (m *Message[T]) Ack() error {
	return m.settle()
}

// Nack redelivers the message after RetryDelay until MaxRetries is reached,
// then moves it to the dead letter list when enabled.  A redelivery that
// finds the buffer full is dead-lettered too.
func (m *Message[T]) Nack(reason error) error {
	if err := m.settle(); err != nil {
		return err
	}
	attempts := m.attempts + 1
	if attempts > m.queue.config.MaxRetries {
		m.queue.deadLetter(m, reason)
		return nil
	}
	redelivery := &Message[T]{id: m.id, payload: m.payload, queue: m.queue, attempts: attempts, lastReason: reason}
	time.AfterFunc(m.queue.config.RetryDelay, func() {
		redelivery.createdAt = clock.Now()
		select {
		case m.queue.messages <- redelivery:
		default:
			m.queue.deadLetter(redelivery, errors.Join(reason, ErrOverflow))
		}
	})
	return nil
}

// Queue is an in-memory messaging.Queue
type Queue[T any] struct {
	messages chan *Message[T]
	config   Config
	dlqMu    sync.Mutex
	dlq      []*Message[T]
}

// NewQueue creates an in-memory queue
func NewQueue[T any](config Config) *Queue[T] {
	if config.QueueBuffer <= 0 {
		config.QueueBuffer = DefaultConfig().QueueBuffer
	}
	return &Queue[T]{
		messages: make(chan *Message[T], config.QueueBuffer),
		config:   config,
	}
}

// Publish enqueues a copy of t, blocking while the buffer is full.
func (q *Queue[T]) Publish(ctx context.Context, t *T) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	msg := &Message[T]{id: idgen.New(), payload: *t, queue: q, createdAt: clock.Now()}
	select {
	case q.messages <- msg:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Consume retrieves a single message
func (q *Queue[T]) Consume(ctx context.Context) (messaging.Message[T], error) {
	select {
	case msg := <-q.messages:
		return msg, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Size returns the number of queued messages
func (q *Queue[T]) Size() int {
	return len(q.messages)
}

func (q *Queue[T]) deadLetter(m *Message[T], reason error) {
	if !q.config.DeadLetter {
		return
	}
	m.lastReason = reason
	q.dlqMu.Lock()
	q.dlq = append(q.dlq, m)
	q.dlqMu.Unlock()
}

// DeadLetters returns the messages that exhausted their retries.
func (q *Queue[T]) DeadLetters() []*Message[T] {
	q.dlqMu.Lock()
	defer q.dlqMu.Unlock()
	return append([]*Message[T](nil), q.dlq...)
}

var _ messaging.Queue[any] = (*Queue[any])(nil)
