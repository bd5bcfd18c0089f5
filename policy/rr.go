package policy

import (
	"context"
	"fmt"

	"github.com/viant/ctxsched/internal/logging"
	"github.com/viant/ctxsched/model"
	"github.com/viant/ctxsched/service/balancer"
)

var hardwarePaths = []model.PathKind{model.PathHardware}

type roundRobin struct {
	*base
}

func (p *roundRobin) Kind() Kind { return RoundRobin }

func (p *roundRobin) Init(params *model.Params) (*Key, error) {
	key, err := p.newKey(params)
	if err != nil {
		return nil, err
	}
	p.assign(key, balancer.Hardware)
	if key.empty(balancer.Hardware) {
		return nil, fmt.Errorf("%w: no region for numa %d, type %d, path %v", model.ErrInvalidContext, key.Node, key.Type, key.Path)
	}
	p.logger.V(logging.VERBOSE).Info("key initialized", "numa", key.Node, "type", key.Type,
		"sync", key.contexts[balancer.Hardware][model.ModeSync], "async", key.contexts[balancer.Hardware][model.ModeAsync])
	return key, nil
}

// PickNext hands out the key's current context and moves the key to the next
// context of its region.
func (p *roundRobin) PickNext(key *Key, mode model.Mode) uint32 {
	if key == nil || !mode.Valid() {
		return model.InvalidContext
	}
	ret := key.contexts[balancer.Hardware][mode]
	if cell := key.regions[balancer.Hardware][mode]; cell != nil {
		key.contexts[balancer.Hardware][mode] = cell.Next()
	}
	return ret
}

func (p *roundRobin) Poll(ctx context.Context, expect uint32) (uint32, error) {
	return p.poller.Sweep(ctx, expect, hardwarePaths, nil)
}
