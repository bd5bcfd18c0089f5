package drainer

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-logr/logr"
	"github.com/viant/ctxsched/internal/clock"
	"github.com/viant/ctxsched/internal/idgen"
	"github.com/viant/ctxsched/internal/logging"
	"github.com/viant/ctxsched/model"
	"github.com/viant/ctxsched/progress"
	"github.com/viant/ctxsched/service/messaging"
	"github.com/viant/ctxsched/tracing"
)

// PollFunc collects up to expect completions.
type PollFunc func(ctx context.Context, expect uint32) (uint32, error)

// Batch reports the completions collected by one poll.
type Batch struct {
	ID       string    `json:"id"`
	Count    uint32    `json:"count"`
	Expected uint32    `json:"expected"`
	PolledAt time.Time `json:"polledAt"`
}

// Config represents drainer configuration
type Config struct {
	// Interval is how often the drainer polls
	Interval time.Duration `json:"interval,omitempty" yaml:"interval,omitempty"`
	// Expect is the number of completions requested per poll
	Expect uint32 `json:"expect,omitempty" yaml:"expect,omitempty"`
	// QueueBuffer sizes the default in-memory batch queue
	QueueBuffer int `json:"queueBuffer,omitempty" yaml:"queueBuffer,omitempty"`
}

// DefaultConfig returns the default drainer configuration
func DefaultConfig() Config {
	return Config{
		Interval:    time.Millisecond,
		Expect:      64,
		QueueBuffer: 1024,
	}
}

// Validate checks the configuration
func (c Config) Validate() error {
	if c.Interval <= 0 {
		return fmt.Errorf("%w: drainer interval %v", model.ErrInvalidArgument, c.Interval)
	}
	if c.Expect == 0 {
		return fmt.Errorf("%w: drainer expect is zero", model.ErrInvalidArgument)
	}
	return nil
}

// Service polls on a ticker and publishes completion batches
type Service struct {
	config     Config
	poll       PollFunc
	queue      messaging.Queue[Batch]
	logger     logr.Logger
	shutdownCh chan struct{}
	once       sync.Once
}

// New creates a drainer
func New(poll PollFunc, queue messaging.Queue[Batch], config Config, logger logr.Logger) *Service {
	if config.Interval <= 0 {
		config.Interval = DefaultConfig().Interval
	}
	if config.Expect == 0 {
		config.Expect = DefaultConfig().Expect
	}
	return &Service{
		config:     config,
		poll:       poll,
		queue:      queue,
		logger:     logger,
		shutdownCh: make(chan struct{}),
	}
}

// Start runs the drain loop until ctx is done or Shutdown is called.  A tick
// blocked on a full queue is released by Shutdown as well.
func (s *Service) Start(ctx context.Context) error {
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() {
		select {
		case <-s.shutdownCh:
			cancel()
		case <-runCtx.Done():
		}
	}()
	ticker := time.NewTicker(s.config.Interval)
	defer ticker.Stop()
	for {
		select {
		case <-s.shutdownCh:
			return nil
		case <-runCtx.Done():
			if s.stopped() {
				return nil
			}
			return ctx.Err()
		case <-ticker.C:
			if err := s.drain(runCtx); err != nil && runCtx.Err() == nil {
				s.logger.V(logging.DEBUG).Info("drain failed", "err", err.Error())
			}
		}
	}
}

func (s *Service) stopped() bool {
	select {
	case <-s.shutdownCh:
		return true
	default:
		return false
	}
}

// Shutdown stops the drain loop.
func (s *Service) Shutdown() {
	s.once.Do(func() {
		close(s.shutdownCh)
	})
}

// Drain runs a single poll and publishes its batch; it is what every tick does.
func (s *Service) Drain(ctx context.Context) (*Batch, error) {
	var err error
	ctx, span := tracing.StartSpan(ctx, "drainer.poll", tracing.KindProducer)
	defer func() { tracing.EndSpan(span, err) }()
	span.WithInt("expect", int64(s.config.Expect))

	count, err := s.poll(ctx, s.config.Expect)
	delta := progress.Delta{Polls: 1, Expected: int(s.config.Expect), Completed: int(count)}
	if err != nil {
		delta.Failed = 1
	}
	progress.UpdateCtx(ctx, delta)
	span.WithInt("count", int64(count))
	if count == 0 {
		return nil, err
	}
	batch := &Batch{ID: idgen.New(), Count: count, Expected: s.config.Expect, PolledAt: clock.Now()}
	if pubErr := s.queue.Publish(ctx, batch); pubErr != nil {
		err = errors.Join(err, fmt.Errorf("failed to publish batch %v: %w", batch.ID, pubErr))
	}
	return batch, err
}

func (s *Service) drain(ctx context.Context) error {
	_, err := s.Drain(ctx)
	return err
}
