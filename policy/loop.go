package policy

import (
	"context"
	"fmt"

	"github.com/viant/ctxsched/internal/logging"
	"github.com/viant/ctxsched/model"
	"github.com/viant/ctxsched/service/balancer"
)

var allPaths = model.Paths[:]

// loop holds a hardware and a software context pair per key and lets the
// balancer choose between them on every pick.
type loop struct {
	roundRobin
}

func (p *loop) Kind() Kind { return Loop }

func (p *loop) Init(params *model.Params) (*Key, error) {
	key, err := p.newKey(params)
	if err != nil {
		return nil, err
	}
	p.assign(key, balancer.Hardware)
	if key.empty(balancer.Hardware) {
		return nil, fmt.Errorf("%w: no region for numa %d, type %d, path %v", model.ErrInvalidContext, key.Node, key.Type, key.Path)
	}
	p.assign(key, balancer.Software)
	p.logger.V(logging.VERBOSE).Info("key initialized", "numa", key.Node, "type", key.Type,
		"sync", key.contexts[balancer.Hardware][model.ModeSync], "async", key.contexts[balancer.Hardware][model.ModeAsync],
		"swSync", key.contexts[balancer.Software][model.ModeSync], "swAsync", key.contexts[balancer.Software][model.ModeAsync])
	return key, nil
}

// PickNext falls back to round robin on the hardware pair when the key has
// no complete software pair.
func (p *loop) PickNext(key *Key, mode model.Mode) uint32 {
	if key == nil || !mode.Valid() {
		return model.InvalidContext
	}
	if !key.resolved(balancer.Software) {
		return p.roundRobin.PickNext(key, mode)
	}
	var side balancer.Side
	if mode == model.ModeSync {
		side = p.balancer.PickSync()
	} else {
		side = p.balancer.PickAsync()
	}
	return key.contexts[side][mode]
}

func (p *loop) Poll(ctx context.Context, expect uint32) (uint32, error) {
	return p.poller.Sweep(ctx, expect, allPaths, p.complete)
}

