package scheduler

import (
	"github.com/go-logr/logr"
	"github.com/viant/ctxsched/service/balancer"
	"github.com/viant/ctxsched/service/numa"
	"github.com/viant/ctxsched/service/poller"
)

// Option configures a Scheduler
type Option func(*Scheduler)

// WithTopology sets the platform topology, defaults to sysfs.
func WithTopology(topology numa.Topology) Option {
	return func(s *Scheduler) {
		s.topology = topology
	}
}

// WithLogger sets the logger.
func WithLogger(logger logr.Logger) Option {
	return func(s *Scheduler) {
		s.logger = logger
	}
}

// WithBalancerConfig sets the balancer configuration.
func WithBalancerConfig(config balancer.Config) Option {
	return func(s *Scheduler) {
		s.balancerConfig = config
	}
}

// WithPollerConfig sets the poller configuration.
func WithPollerConfig(config poller.Config) Option {
	return func(s *Scheduler) {
		s.pollerConfig = config
	}
}

// WithPinNode pins every key to node; a negative node honors caller hints.
func WithPinNode(node int) Option {
	return func(s *Scheduler) {
		s.pinNode = node
	}
}
