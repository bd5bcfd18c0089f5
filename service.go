package ctxsched

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/go-logr/logr"
	"github.com/viant/ctxsched/internal/logging"
	"github.com/viant/ctxsched/model"
	"github.com/viant/ctxsched/policy"
	"github.com/viant/ctxsched/progress"
	"github.com/viant/ctxsched/service/balancer"
	"github.com/viant/ctxsched/service/drainer"
	"github.com/viant/ctxsched/service/messaging"
	mmemory "github.com/viant/ctxsched/service/messaging/memory"
	"github.com/viant/ctxsched/service/numa"
	"github.com/viant/ctxsched/service/scheduler"
	"github.com/viant/ctxsched/tracing"
)

// Service is the scheduler facade: a scheduler built from Config, its
// provisioned regions and an optional background drainer.
type Service struct {
	config    *Config
	topology  numa.Topology
	logger    logr.Logger
	queue     messaging.Queue[drainer.Batch]
	scheduler *scheduler.Scheduler
	drainer   *drainer.Service
	progress  atomic.Pointer[progress.Progress]
}

// New creates a scheduler and provisions the configured regions.  check is
// the device completion probe used by Poll.
func New(check model.CompletionCheck, options ...Option) (*Service, error) {
	s := &Service{}
	for _, option := range options {
		option(s)
	}
	if err := s.ensureBaseSetup(); err != nil {
		return nil, err
	}
	var err error
	if s.scheduler, err = scheduler.New(s.config.Policy, s.config.Types, s.config.NumaNodes, check,
		scheduler.WithTopology(s.topology),
		scheduler.WithLogger(s.logger),
		scheduler.WithBalancerConfig(s.config.Balancer),
		scheduler.WithPollerConfig(s.config.Poll),
		scheduler.WithPinNode(s.config.pinNode()),
	); err != nil {
		return nil, err
	}
	if err = s.provision(context.Background()); err != nil {
		s.scheduler.Release()
		return nil, err
	}
	s.drainer = drainer.New(s.scheduler.Poll, s.queue, s.config.Drainer, s.logger)
	return s, nil
}

func (s *Service) ensureBaseSetup() error {
	if s.config == nil {
		s.config = DefaultConfig()
	}
	if err := s.config.Validate(); err != nil {
		return err
	}
	if s.topology == nil {
		s.topology = numa.NewSysfs()
	}
	if s.logger.GetSink() == nil {
		s.logger = logging.Default()
	}
	if s.queue == nil {
		queueConfig := mmemory.DefaultConfig()
		queueConfig.QueueBuffer = s.config.Drainer.QueueBuffer
		s.queue = mmemory.NewQueue[drainer.Batch](queueConfig)
	}
	return nil
}

func (s *Service) provision(ctx context.Context) (err error) {
	_, span := tracing.StartSpan(ctx, "scheduler.provision", tracing.KindInternal)
	defer func() { tracing.EndSpan(span, err) }()
	span.WithAttributes(map[string]string{"policy": s.config.Policy.String()}).WithInt("regions", int64(len(s.config.Regions)))
	for i, r := range s.config.Regions {
		if err = s.RegisterRegion(r); err != nil {
			return fmt.Errorf("regions[%d]: %w", i, err)
		}
	}
	return nil
}

// Config returns the configuration in use.
func (s *Service) Config() *Config {
	return s.config
}

// Scheduler returns the underlying scheduler.
func (s *Service) Scheduler() *scheduler.Scheduler {
	return s.scheduler
}

// Queue returns the queue the drainer publishes batches to.
func (s *Service) Queue() messaging.Queue[drainer.Batch] {
	return s.queue
}

// RegisterRegion provisions one more region.
func (s *Service) RegisterRegion(r Region) error {
	return s.scheduler.RegisterRegion(r.Numa, r.Mode, r.Type, r.Path, r.Begin, r.End)
}

// Init builds a scheduling key; params may be nil.
func (s *Service) Init(params *model.Params) (*policy.Key, error) {
	return s.scheduler.Init(params)
}

// PickNext returns the context for the next task, or model.InvalidContext.
func (s *Service) PickNext(key *policy.Key, mode model.Mode) uint32 {
	return s.scheduler.PickNext(key, mode)
}

// Poll collects up to expect completions.
func (s *Service) Poll(ctx context.Context, expect uint32) (uint32, error) {
	return s.scheduler.Poll(ctx, expect)
}

// Stats returns the balancer counters.
func (s *Service) Stats() balancer.Stats {
	return s.scheduler.Stats()
}

// Start runs the background drainer until ctx is done or Shutdown is called.
// Drain ticks are counted in the progress tracker carried by ctx, or in a new
// one when ctx has none; Progress returns it.
func (s *Service) Start(ctx context.Context) error {
	tracker, ok := progress.FromContext(ctx)
	if !ok {
		ctx, tracker = progress.WithNewTracker(ctx, s.scheduler.Name(), nil)
	}
	s.progress.Store(tracker)
	return s.drainer.Start(ctx)
}

// Progress returns the drain counters of the last Start, nil before Start.
func (s *Service) Progress() *progress.Progress {
	return s.progress.Load()
}

// Shutdown stops the background drainer.
func (s *Service) Shutdown() {
	s.drainer.Shutdown()
}

// Release stops the drainer and releases the scheduler.  It is safe to call
// more than once and on a nil service.
func (s *Service) Release() {
	if s == nil {
		return
	}
	if s.drainer != nil {
		s.drainer.Shutdown()
	}
	s.scheduler.Release()
}
