package policy

import (
	"context"
	"fmt"

	"github.com/viant/ctxsched/model"
)

// memo resolves contexts lazily, one per mode and side, and caches them in
// the key.  The side follows the balancer's time slice in both modes.
type memo struct {
	*base
}

func (p *memo) Kind() Kind { return LoopMemo }

// Init validates the key only; nothing is resolved until the first pick.
func (p *memo) Init(params *model.Params) (*Key, error) {
	key, err := p.newKey(params)
	if err != nil {
		return nil, err
	}
	if !p.valid(key) {
		return nil, fmt.Errorf("%w: numa %d, type %d", model.ErrInvalidArgument, key.Node, key.Type)
	}
	return key, nil
}

func (p *memo) PickNext(key *Key, mode model.Mode) uint32 {
	if key == nil || !mode.Valid() {
		return model.InvalidContext
	}
	side := p.balancer.PickSync()
	if ret := key.contexts[side][mode]; ret != model.InvalidContext {
		return ret
	}
	cell := p.resolve(key, side, mode)
	if cell == nil {
		return model.InvalidContext
	}
	key.regions[side][mode] = cell
	key.contexts[side][mode] = cell.Next()
	return key.contexts[side][mode]
}

func (p *memo) Poll(ctx context.Context, expect uint32) (uint32, error) {
	return p.poller.Sweep(ctx, expect, allPaths, p.complete)
}
