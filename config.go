package ctxsched

import (
	"context"
	"errors"
	"fmt"

	"github.com/viant/afs"
	"github.com/viant/afs/storage"
	"github.com/viant/ctxsched/model"
	"github.com/viant/ctxsched/policy"
	"github.com/viant/ctxsched/service/balancer"
	"github.com/viant/ctxsched/service/drainer"
	"github.com/viant/ctxsched/service/meta"
	"github.com/viant/ctxsched/service/poller"
)

// Config is the serialisable scheduler configuration.  Start from
// DefaultConfig; zero nested values fall back to their package defaults.
type Config struct {
	Policy    policy.Kind     `json:"policy" yaml:"policy"`
	Types     int             `json:"types" yaml:"types"`
	NumaNodes int             `json:"numaNodes" yaml:"numaNodes"`
	Balancer  balancer.Config `json:"balancer" yaml:"balancer"`
	Poll      poller.Config   `json:"poll" yaml:"poll"`
	Numa      NumaConfig      `json:"numa" yaml:"numa"`
	Drainer   drainer.Config  `json:"drainer" yaml:"drainer"`
	Regions   []Region        `json:"regions,omitempty" yaml:"regions,omitempty"`
}

// NumaConfig controls numa hint handling
type NumaConfig struct {
	// PinNode, when set, pins every key to this node and ignores caller hints.
	PinNode *int `json:"pinNode,omitempty" yaml:"pinNode,omitempty"`
}

// Region provisions contexts [Begin, End] at one coordinate
type Region struct {
	Numa  int            `json:"numa" yaml:"numa"`
	Mode  model.Mode     `json:"mode" yaml:"mode"`
	Type  int            `json:"type" yaml:"type"`
	Path  model.PathKind `json:"path" yaml:"path"`
	Begin uint32         `json:"begin" yaml:"begin"`
	End   uint32         `json:"end" yaml:"end"`
}

// DefaultConfig returns a single node, single type round robin configuration.
func DefaultConfig() *Config {
	return &Config{
		Policy:    policy.RoundRobin,
		Types:     1,
		NumaNodes: 1,
		Balancer:  balancer.DefaultConfig(),
		Poll:      poller.DefaultConfig(),
		Drainer:   drainer.DefaultConfig(),
	}
}

// Validate returns aggregated error describing invalid settings or nil.
func (c *Config) Validate() error {
	if c == nil {
		return fmt.Errorf("%w: config is nil", model.ErrInvalidArgument)
	}
	var errs []error
	if !c.Policy.Valid() {
		errs = append(errs, fmt.Errorf("%w: policy %v", model.ErrInvalidArgument, c.Policy))
	}
	if c.Types <= 0 {
		errs = append(errs, fmt.Errorf("%w: types must be > 0", model.ErrInvalidArgument))
	}
	if c.NumaNodes <= 0 {
		errs = append(errs, fmt.Errorf("%w: numaNodes must be > 0", model.ErrInvalidArgument))
	}
	if pin := c.Numa.PinNode; pin != nil && (*pin < 0 || *pin >= c.NumaNodes) {
		errs = append(errs, fmt.Errorf("%w: numa.pinNode %d outside of %d nodes", model.ErrInvalidArgument, *pin, c.NumaNodes))
	}
	errs = append(errs, c.Balancer.Validate(), c.Poll.Validate(), c.Drainer.Validate())
	for i, r := range c.Regions {
		if r.Begin > r.End {
			errs = append(errs, fmt.Errorf("%w: regions[%d] begin %d > end %d", model.ErrInvalidArgument, i, r.Begin, r.End))
		}
	}
	return errors.Join(errs...)
}

func (c *Config) pinNode() int {
	if c.Numa.PinNode == nil {
		return model.AnyNode
	}
	return *c.Numa.PinNode
}

// LoadConfig reads a YAML or JSON configuration from any afs location,
// expanding ${env.NAME} expressions.  Keys missing from the document keep
// their DefaultConfig values.
func LoadConfig(ctx context.Context, URL string, options ...storage.Option) (*Config, error) {
	ret := DefaultConfig()
	if err := meta.New(afs.New(), "", options...).Load(ctx, URL, ret); err != nil {
		return nil, err
	}
	return ret, ret.Validate()
}
