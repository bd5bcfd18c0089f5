package balancer

import (
	"fmt"
	"sync/atomic"

	"github.com/viant/ctxsched/model"
)

// Side is the dispatch target chosen by the balancer.
type Side uint8

const (
	// Hardware dispatches to the key's primary contexts.
	Hardware Side = iota
	// Software dispatches to the key's crypto-engine contexts.
	Software
)

func (s Side) String() string {
	if s == Hardware {
		return "hardware"
	}
	return "software"
}

// SideOf maps an execution path to the balancer side it is accounted on.
func SideOf(path model.PathKind) Side {
	if path.IsHardware() {
		return Hardware
	}
	return Software
}

// Config represents balancer configuration
type Config struct {
	// SwitchSlice is the synchronous period: one pick in SwitchSlice goes to hardware.
	SwitchSlice int `json:"switchSlice,omitempty" yaml:"switchSlice,omitempty"`
}

// DefaultConfig returns the default balancer configuration
func DefaultConfig() Config {
	return Config{SwitchSlice: 5}
}

// Validate checks the configuration
func (c Config) Validate() error {
	if c.SwitchSlice <= 0 {
		return fmt.Errorf("%w: switch slice %d", model.ErrInvalidArgument, c.SwitchSlice)
	}
	return nil
}

// Stats is a point in time copy of the balancer counters.
type Stats struct {
	HardwareDispatched  uint64 `json:"hardwareDispatched"`
	SoftwareDispatched  uint64 `json:"softwareDispatched"`
	HardwareOutstanding int64  `json:"hardwareOutstanding"`
	SoftwareOutstanding int64  `json:"softwareOutstanding"`
}

// Service holds the shared balancing state of one scheduler.
type Service struct {
	switchSlice uint64
	slice       atomic.Uint64
	outstanding [2]atomic.Int64
	dispatched  [2]atomic.Uint64
}

// New creates a balancer; a non positive slice falls back to the default.
func New(config Config) *Service {
	if config.SwitchSlice <= 0 {
		config = DefaultConfig()
	}
	return &Service{switchSlice: uint64(config.SwitchSlice)}
}

// Slice advances the time slice and returns the side for this pick.  The
// first pick and every SwitchSlice-th pick after it go to hardware.
func (s *Service) Slice() Side {
	n := s.slice.Add(1) - 1
	if n%s.switchSlice == 0 {
		return Hardware
	}
	return Software
}

// PickSync selects a side for a synchronous send and records the dispatch.
func (s *Service) PickSync() Side {
	side := s.Slice()
	s.dispatched[side].Add(1)
	return side
}

// PickAsync selects the side with fewer outstanding tasks, hardware on a tie,
// and counts the task as outstanding there.
func (s *Service) PickAsync() Side {
	side := Hardware
	if s.outstanding[Hardware].Load() > s.outstanding[Software].Load() {
		side = Software
	}
	s.outstanding[side].Add(1)
	s.dispatched[side].Add(1)
	return side
}

// Complete retires n outstanding tasks on side.  The count never drops below
// zero; completions of tasks that were not picked through PickAsync are
// absorbed.
func (s *Service) Complete(side Side, n uint32) {
	if n == 0 || side > Software {
		return
	}
	counter := &s.outstanding[side]
	for {
		current := counter.Load()
		next := current - int64(n)
		if next < 0 {
			next = 0
		}
		if current == next || counter.CompareAndSwap(current, next) {
			return
		}
	}
}

// Stats returns the current counters.
func (s *Service) Stats() Stats {
	return Stats{
		HardwareDispatched:  s.dispatched[Hardware].Load(),
		SoftwareDispatched:  s.dispatched[Software].Load(),
		HardwareOutstanding: s.outstanding[Hardware].Load(),
		SoftwareOutstanding: s.outstanding[Software].Load(),
	}
}
