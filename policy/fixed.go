package policy

import (
	"context"

	"github.com/viant/ctxsched/model"
)

// fixed dispatches every task of a mode to one constant context.
type fixed struct {
	*base
	kind        Kind
	contexts    [model.ModeCount]uint32
	pollContext uint32
}

func (p *fixed) Kind() Kind { return p.kind }

// Init returns an empty key; fixed policies ignore it.
func (p *fixed) Init(params *model.Params) (*Key, error) {
	ret := newKey(model.AnyNode, 0, model.PathHardware)
	if params != nil {
		ret.Type = params.Type
	}
	return ret, nil
}

func (p *fixed) PickNext(_ *Key, mode model.Mode) uint32 {
	if !mode.Valid() {
		return model.InvalidContext
	}
	return p.contexts[mode]
}

func (p *fixed) Poll(ctx context.Context, expect uint32) (uint32, error) {
	return p.poller.Fixed(ctx, p.pollContext, expect)
}
