package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/go-logr/logr"
	"github.com/viant/ctxsched/internal/logging"
	"github.com/viant/ctxsched/model"
	"github.com/viant/ctxsched/policy"
	"github.com/viant/ctxsched/service/balancer"
	"github.com/viant/ctxsched/service/numa"
	"github.com/viant/ctxsched/service/poller"
	"github.com/viant/ctxsched/service/region"
)

// Scheduler maps scheduling keys to hardware contexts.
//
// Registration is expected to finish before the scheduler is used; Init,
// PickNext and Poll may be called from many goroutines.
type Scheduler struct {
	kind           policy.Kind
	topology       numa.Topology
	logger         logr.Logger
	balancerConfig balancer.Config
	pollerConfig   poller.Config
	pinNode        int

	mu       sync.Mutex
	table    *region.Table
	locality *numa.LocalityMap
	balancer *balancer.Service
	poller   *poller.Service
	policy   policy.Policy
	released atomic.Bool
}

// New creates a scheduler for typeNum task types over numaNum nodes.  check
// is called by Poll to collect completions from a context.
func New(kind policy.Kind, typeNum, numaNum int, check model.CompletionCheck, options ...Option) (*Scheduler, error) {
	s := &Scheduler{
		kind:           kind,
		balancerConfig: balancer.DefaultConfig(),
		pollerConfig:   poller.DefaultConfig(),
		pinNode:        model.AnyNode,
	}
	for _, opt := range options {
		opt(s)
	}
	if s.logger.GetSink() == nil {
		s.logger = logging.Default()
	}
	if s.topology == nil {
		s.topology = numa.NewSysfs()
	}
	if !kind.Valid() {
		return nil, fmt.Errorf("%w: unknown policy %v", model.ErrInvalidArgument, kind)
	}
	if check == nil {
		return nil, fmt.Errorf("%w: completion check is nil", model.ErrInvalidArgument)
	}
	if maxNodes := s.topology.MaxNodes(); numaNum <= 0 || numaNum > maxNodes {
		return nil, fmt.Errorf("%w: numa number %d, platform nodes %d", model.ErrInvalidArgument, numaNum, maxNodes)
	}
	if typeNum <= 0 {
		return nil, fmt.Errorf("%w: type number %d", model.ErrInvalidArgument, typeNum)
	}
	if s.pinNode >= numaNum {
		return nil, fmt.Errorf("%w: pinned numa node %d, numa number %d", model.ErrInvalidArgument, s.pinNode, numaNum)
	}
	var err error
	if s.table, err = region.New(numaNum, typeNum); err != nil {
		return nil, err
	}
	s.locality = numa.NewLocalityMap(numaNum)
	s.balancer = balancer.New(s.balancerConfig)
	s.poller = poller.New(s.table, check, s.pollerConfig)
	s.policy, err = policy.New(kind, s.table, s.poller,
		policy.WithTopology(s.topology),
		policy.WithLocality(s.locality),
		policy.WithBalancer(s.balancer),
		policy.WithPinNode(s.pinNode),
		policy.WithLogger(s.logger),
	)
	if err != nil {
		return nil, err
	}
	s.logger.V(logging.DEFAULT).Info("scheduler created", "policy", kind.Name(), "types", typeNum, "numaNodes", numaNum)
	if s.pinNode >= 0 {
		s.logger.V(logging.DEFAULT).Info("numa hints disabled, keys pinned", "node", s.pinNode)
	}
	return s, nil
}

// Kind returns the scheduling policy.
func (s *Scheduler) Kind() policy.Kind {
	return s.kind
}

// Name returns the policy display name.
func (s *Scheduler) Name() string {
	return s.kind.Name()
}

// RegisterRegion provisions contexts [begin, end] for the coordinate and
// refreshes the numa locality map.
func (s *Scheduler) RegisterRegion(node int, mode model.Mode, taskType int, path model.PathKind, begin, end uint32) error {
	if s == nil {
		return fmt.Errorf("%w: scheduler is nil", model.ErrInvalidArgument)
	}
	if s.released.Load() {
		return model.ErrReleased
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.table.Register(node, mode, taskType, path, begin, end); err != nil {
		s.logger.Error(err, "failed to register region", "numa", node, "mode", mode, "type", taskType, "path", path)
		return err
	}
	s.locality.Rebuild(s.table.NodeValid, s.topology.Distance)
	s.logger.V(logging.VERBOSE).Info("region registered", "numa", node, "mode", mode, "type", taskType, "path", path, "begin", begin, "end", end)
	return nil
}

// Init builds a scheduling key for the calling goroutine.  params may be nil.
func (s *Scheduler) Init(params *model.Params) (*policy.Key, error) {
	if s == nil {
		return nil, fmt.Errorf("%w: scheduler is nil", model.ErrInvalidArgument)
	}
	if s.released.Load() {
		return nil, model.ErrReleased
	}
	return s.policy.Init(params)
}

// PickNext returns the context for the next task of mode, or
// model.InvalidContext when none is available.
func (s *Scheduler) PickNext(key *policy.Key, mode model.Mode) uint32 {
	if s == nil || s.released.Load() {
		return model.InvalidContext
	}
	return s.policy.PickNext(key, mode)
}

// Poll collects up to expect completions.  Fewer completions than expected
// is not an error.
func (s *Scheduler) Poll(ctx context.Context, expect uint32) (uint32, error) {
	if s == nil {
		return 0, fmt.Errorf("%w: scheduler is nil", model.ErrInvalidArgument)
	}
	if s.released.Load() {
		return 0, model.ErrReleased
	}
	count, err := s.policy.Poll(ctx, expect)
	if err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded) {
		s.logger.Error(err, "poll failed", "expect", expect, "count", count)
	}
	s.logger.V(logging.DEBUG).Info("polled", "expect", expect, "count", count)
	return count, err
}

// Stats returns the balancer counters.
func (s *Scheduler) Stats() balancer.Stats {
	if s == nil {
		return balancer.Stats{}
	}
	return s.balancer.Stats()
}

// Locality returns a copy of the numa locality map.
func (s *Scheduler) Locality() []int {
	if s == nil {
		return nil
	}
	return s.locality.Snapshot()
}

// Regions returns the number of provisioned regions.
func (s *Scheduler) Regions() int {
	if s == nil {
		return 0
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.table.Count()
}

// Release tears the scheduler down.  It is safe to call on a nil or an
// already released scheduler.
func (s *Scheduler) Release() {
	if s == nil || !s.released.CompareAndSwap(false, true) {
		return
	}
	stats := s.balancer.Stats()
	s.logger.V(logging.DEFAULT).Info("scheduler released", "policy", s.kind.Name(),
		"hwDispatched", stats.HardwareDispatched, "swDispatched", stats.SoftwareDispatched)
}

// Released reports whether Release was called.
func (s *Scheduler) Released() bool {
	return s != nil && s.released.Load()
}
