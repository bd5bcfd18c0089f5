package policy

import (
	"context"
	"fmt"

	"github.com/go-logr/logr"
	"github.com/viant/ctxsched/internal/logging"
	"github.com/viant/ctxsched/model"
	"github.com/viant/ctxsched/service/balancer"
	"github.com/viant/ctxsched/service/numa"
	"github.com/viant/ctxsched/service/poller"
	"github.com/viant/ctxsched/service/region"
)

// Policy is one scheduling variant, fixed for the lifetime of a scheduler.
type Policy interface {
	// Kind returns the variant.
	Kind() Kind
	// Init builds a key for the calling thread.  params may be nil.
	Init(params *model.Params) (*Key, error)
	// PickNext returns the context for the next task of mode, or
	// model.InvalidContext.  It must not block or log.
	PickNext(key *Key, mode model.Mode) uint32
	// Poll drains up to expect completions.
	Poll(ctx context.Context, expect uint32) (uint32, error)
}

// Option configures the shared policy state
type Option func(*base)

// WithLocality sets the numa locality map used to derive the caller's node.
func WithLocality(locality *numa.LocalityMap) Option {
	return func(b *base) {
		b.locality = locality
	}
}

// WithTopology sets the platform topology.
func WithTopology(topology numa.Topology) Option {
	return func(b *base) {
		b.topology = topology
	}
}

// WithBalancer sets the balancer shared by loop policies.
func WithBalancer(balancer *balancer.Service) Option {
	return func(b *base) {
		b.balancer = balancer
	}
}

// WithPinNode pins every key to node; a negative node honors caller hints.
func WithPinNode(node int) Option {
	return func(b *base) {
		b.pinNode = node
	}
}

// WithLogger sets the logger.
func WithLogger(logger logr.Logger) Option {
	return func(b *base) {
		b.logger = logger
	}
}

// New creates the policy of kind over table, polling through poll.
func New(kind Kind, table *region.Table, poll *poller.Service, options ...Option) (Policy, error) {
	if table == nil || poll == nil {
		return nil, fmt.Errorf("%w: region table and poller are required", model.ErrInvalidArgument)
	}
	b := &base{table: table, poller: poll, pinNode: model.AnyNode}
	for _, opt := range options {
		opt(b)
	}
	if b.logger.GetSink() == nil {
		b.logger = logging.Default()
	}
	if b.topology == nil {
		b.topology = numa.NewSysfs()
	}
	if b.locality == nil {
		b.locality = numa.NewLocalityMap(table.NumaNum())
	}
	if b.balancer == nil {
		b.balancer = balancer.New(balancer.DefaultConfig())
	}
	switch kind {
	case RoundRobin:
		return &roundRobin{base: b}, nil
	case None:
		return &fixed{base: b, kind: None, contexts: [model.ModeCount]uint32{0, 0}, pollContext: 0}, nil
	case Single:
		return &fixed{base: b, kind: Single, contexts: [model.ModeCount]uint32{0, 1}, pollContext: 1}, nil
	case Loop:
		return &loop{roundRobin: roundRobin{base: b}}, nil
	case LoopMemo:
		return &memo{base: b}, nil
	}
	return nil, fmt.Errorf("%w: unknown policy %v", model.ErrInvalidArgument, kind)
}

// base is the state every policy shares.
type base struct {
	table    *region.Table
	poller   *poller.Service
	locality *numa.LocalityMap
	topology numa.Topology
	balancer *balancer.Service
	pinNode  int
	logger   logr.Logger
}

// newKey applies the caller's params to a key for the current thread.
func (b *base) newKey(params *model.Params) (*Key, error) {
	current, err := b.topology.CurrentNode()
	if err != nil {
		return nil, fmt.Errorf("%w: failed to get numa node: %v", model.ErrInvalidArgument, err)
	}
	if current < 0 {
		return nil, fmt.Errorf("%w: invalid numa node %d", model.ErrInvalidArgument, current)
	}
	ret := newKey(b.locality.Nearest(current), 0, model.PathHardware)
	if params != nil {
		if !params.Path.Valid() {
			return nil, fmt.Errorf("%w: path %v", model.ErrInvalidArgument, params.Path)
		}
		ret.Type = params.Type
		ret.Path = params.Path
		if params.NumaID >= 0 {
			ret.Node = params.NumaID
		}
	}
	if b.pinNode >= 0 && ret.Node != b.pinNode {
		b.logger.V(logging.VERBOSE).Info("numa hint overridden by pinning", "requested", ret.Node, "pinned", b.pinNode)
		ret.Node = b.pinNode
	}
	return ret, nil
}

// valid reports whether the key's node and type fit the table.
func (b *base) valid(key *Key) bool {
	return key.Node < b.table.NumaNum() && key.Type >= 0 && key.Type < b.table.TypeNum()
}

// resolve finds the region serving side and mode of key.  The hardware side
// may fall back to any path; the software side is served by crypto-engine
// regions only.
func (b *base) resolve(key *Key, side balancer.Side, mode model.Mode) *region.Region {
	if !b.valid(key) {
		return nil
	}
	if side == balancer.Software {
		return b.table.ResolvePath(key.Node, mode, key.Type, model.PathCryptoEngine)
	}
	return b.table.Resolve(key.Node, mode, key.Type, key.Path)
}

// assign resolves both modes of side and takes the first context of each.
func (b *base) assign(key *Key, side balancer.Side) {
	for _, mode := range model.Modes {
		if cell := b.resolve(key, side, mode); cell != nil {
			key.regions[side][mode] = cell
			key.contexts[side][mode] = cell.Next()
		}
	}
}

// complete retires completions observed on path from the balancer.
func (b *base) complete(path model.PathKind, count uint32) {
	b.balancer.Complete(balancer.SideOf(path), count)
}
